package domain

// Document types recognized by the keyword taxonomy. Anything else is
// reported as TypeUnsupported with zero confidence.
const (
	TypeTradeLicense    = "Trade License"
	TypeMOAAOA          = "MOA / AOA"
	TypeBoardResolution = "Board Resolution"
	TypeID              = "ID"
	TypeBankLetter      = "Bank Letter"
	TypeVATTRN          = "VAT / TRN"
	TypeBalanceSheet    = "Balance Sheet"
	TypeProfitLoss      = "Profit & Loss"
	TypeUnsupported     = "Unsupported"
)

type Classification struct {
	ClassType  string  `json:"classType"`
	Confidence float64 `json:"confidence"`
}
