package extract

import (
	"testing"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

func TestFinancialsBalanceSheetOnlyReportsBalanceFigures(t *testing.T) {
	text := "BALANCE SHEET FY 2024\nTOTAL ASSETS: 1,000,000\nTOTAL LIABILITIES: 450,000\nREVENUE: 2,000,000"
	got := Financials(text, "bs.pdf", domain.TypeBalanceSheet)

	if got["totalAssets"].Value != 1000000.0 {
		t.Fatalf("totalAssets = %v", got["totalAssets"].Value)
	}
	if got["totalLiabilities"].Value != 450000.0 {
		t.Fatalf("totalLiabilities = %v", got["totalLiabilities"].Value)
	}
	if _, ok := got["revenue"]; ok {
		t.Fatalf("revenue must not be extracted from a balance sheet")
	}
}

func TestFinancialsProfitLossFigures(t *testing.T) {
	text := "PROFIT & LOSS\nREVENUE: 5,250,000\nNET PROFIT: -120,500"
	got := Financials(text, "pnl.pdf", domain.TypeProfitLoss)

	if got["revenue"].Value != 5250000.0 {
		t.Fatalf("revenue = %v", got["revenue"].Value)
	}
	// Sign is preserved as reported; a net loss stays negative.
	if got["netProfit"].Value != -120500.0 {
		t.Fatalf("netProfit = %v, want -120500", got["netProfit"].Value)
	}
}

func TestFinancialsUnknownTypeTriesAllPatterns(t *testing.T) {
	text := "TOTAL ASSETS: 800,000\nNET PROFIT: 90,000"
	got := Financials(text, "misc.pdf", domain.TypeUnsupported)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(got), got)
	}
	if got["totalAssets"].Value != 800000.0 || got["netProfit"].Value != 90000.0 {
		t.Fatalf("unexpected values: %v", got)
	}
}

func TestFinancialsAuditStatusAndPeriodAreOpportunistic(t *testing.T) {
	text := "BALANCE SHEET\nAUDIT STATUS: Unaudited\nFY 2022"
	got := Financials(text, "bs.pdf", domain.TypeBalanceSheet)

	if got["auditStatus"].Value != "Unaudited" {
		t.Fatalf("auditStatus = %v", got["auditStatus"].Value)
	}
	if got["financialPeriod"].Value != "2022" {
		t.Fatalf("financialPeriod = %v", got["financialPeriod"].Value)
	}
	if got["financialPeriod"].Confidence != 0.85 {
		t.Fatalf("financialPeriod confidence = %v", got["financialPeriod"].Confidence)
	}
}
