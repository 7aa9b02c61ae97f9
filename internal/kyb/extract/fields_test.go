package extract

import "testing"

func TestCompanyProfileFields(t *testing.T) {
	text := "COMPANY NAME: Falcon Trading LLC\nLEGAL FORM: Limited Liability Company"
	got := CompanyProfile(text, "license.pdf")

	name, ok := got["legalName"]
	if !ok {
		t.Fatalf("legalName missing: %v", got)
	}
	if name.Value != "Falcon Trading LLC" {
		t.Fatalf("legalName = %v", name.Value)
	}
	if name.SourceDocument != "license.pdf" || name.Confidence != 0.95 || name.ExtractionMethod != Method {
		t.Fatalf("unexpected provenance: %+v", name)
	}
	if got["legalForm"].Value != "Limited Liability Company" {
		t.Fatalf("legalForm = %v", got["legalForm"].Value)
	}
}

func TestLicenseDetailsNormalizesDates(t *testing.T) {
	text := "LICENSE NUMBER: CN-774421\nJURISDICTION: Abu Dhabi\nISSUING AUTHORITY: DED\nISSUE DATE: 05-01-2023\nEXPIRY DATE: 04-01-2025"
	got := LicenseDetails(text, "license.pdf")

	if got["registrationNumber"].Value != "CN-774421" {
		t.Fatalf("registrationNumber = %v", got["registrationNumber"].Value)
	}
	if got["issueDate"].Value != "2023-01-05" {
		t.Fatalf("issueDate = %v, want 2023-01-05", got["issueDate"].Value)
	}
	if got["issueDate"].Confidence != 0.95 {
		t.Fatalf("issueDate confidence = %v", got["issueDate"].Confidence)
	}
}

func TestLicenseDetailsKeepsRawUnparsableDate(t *testing.T) {
	got := LicenseDetails("EXPIRY DATE: upon renewal", "license.pdf")

	f, ok := got["expiryDate"]
	if !ok {
		t.Fatalf("expiryDate missing")
	}
	if f.Value != "upon renewal" {
		t.Fatalf("expiryDate = %v, want raw text", f.Value)
	}
	if f.Confidence != 0.8 {
		t.Fatalf("expiryDate confidence = %v, want 0.8", f.Confidence)
	}
}

func TestShareholdersRepeatingPattern(t *testing.T) {
	text := "SHAREHOLDERS:\n- Ahmed Al Mansoori: 60%\n- Sara Khalifa: 40%"
	got := Shareholders(text, "moa.pdf")

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name.Value != "Ahmed Al Mansoori" {
		t.Fatalf("name = %v", got[0].Name.Value)
	}
	if got[0].OwnershipPercentage.Value != 60.0 {
		t.Fatalf("ownership = %v, want 60.0", got[0].OwnershipPercentage.Value)
	}
	if got[0].ControlType.Value != "Direct" || got[0].ControlType.Confidence != 0.8 {
		t.Fatalf("controlType = %+v", got[0].ControlType)
	}
	if got[1].OwnershipPercentage.Value != 40.0 {
		t.Fatalf("second ownership = %v", got[1].OwnershipPercentage.Value)
	}
}

func TestSignatoriesRepeatingPattern(t *testing.T) {
	text := "Authorized: MR. Omar Haddad, CEO and MR Tariq Aziz, DIRECTOR"
	got := Signatories(text, "board.pdf")

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name.Value != "Omar Haddad" || got[0].Role.Value != "CEO" {
		t.Fatalf("first signatory = %+v", got[0])
	}
	if got[1].Role.Value != "DIRECTOR" {
		t.Fatalf("second role = %v", got[1].Role.Value)
	}
	if got[0].AuthoritySource.Value != "Board Resolution" {
		t.Fatalf("authoritySource = %v", got[0].AuthoritySource.Value)
	}
}
