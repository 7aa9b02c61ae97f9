package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

// Entry maps one keyword to a document type. Entries are evaluated in
// order; when several distinct keywords hit, the last one wins.
type Entry struct {
	Keyword string `yaml:"keyword"`
	Type    string `yaml:"type"`
}

type Taxonomy []Entry

// DefaultTaxonomy is the built-in keyword table. Taxonomy changes are data:
// deployments can override it with a YAML file (see Load).
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{Keyword: "TRADE LICENSE", Type: domain.TypeTradeLicense},
		{Keyword: "MEMORANDUM OF ASSOCIATION", Type: domain.TypeMOAAOA},
		{Keyword: "BOARD RESOLUTION", Type: domain.TypeBoardResolution},
		{Keyword: "PASSPORT", Type: domain.TypeID},
		{Keyword: "UAE PASSPORT", Type: domain.TypeID},
		{Keyword: "BANK", Type: domain.TypeBankLetter},
		{Keyword: "VAT REGISTRATION", Type: domain.TypeVATTRN},
		{Keyword: "BALANCE SHEET", Type: domain.TypeBalanceSheet},
		{Keyword: "PROFIT & LOSS", Type: domain.TypeProfitLoss},
	}
}

// Load reads a taxonomy override from a YAML file. The file holds an
// ordered list of {keyword, type} pairs.
func Load(path string) (Taxonomy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}
	var t Taxonomy
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse taxonomy yaml: %w", err)
	}
	if len(t) == 0 {
		return nil, fmt.Errorf("taxonomy file %s contains no entries", path)
	}
	for i, e := range t {
		if e.Keyword == "" || e.Type == "" {
			return nil, fmt.Errorf("taxonomy entry %d: keyword and type are required", i)
		}
	}
	return t, nil
}
