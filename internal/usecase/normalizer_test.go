package usecase

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/easyseas/pointtracker/internal/domain"
)

func TestNormalizePaymentMethod(t *testing.T) {
	testCases := []struct {
		name   string
		text   string
		want   domain.PaymentMethod
		wantOK bool
	}{
		{name: "seapass with space", text: "Sea Pass", want: domain.PaymentSeaPass, wantOK: true},
		{name: "onboard account", text: "ONBOARD ACCOUNT", want: domain.PaymentSeaPass, wantOK: true},
		{name: "onboard credit", text: "On-Board Credit applied", want: domain.PaymentOBC, wantOK: true},
		{name: "non-refundable credit beats card", text: "Non-refundable onboard credit", want: domain.PaymentOBC, wantOK: true},
		{name: "visa card", text: "VISA ****1234", want: domain.PaymentCreditCard, wantOK: true},
		{name: "promo voucher", text: "voucher", want: domain.PaymentPromo, wantOK: true},
		{name: "casino comp", text: "Casino Comp", want: domain.PaymentPromo, wantOK: true},
		{name: "unmatched", text: "cash", wantOK: false},
		{name: "blank", text: "   ", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizePaymentMethod(tc.text)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("NormalizePaymentMethod(%q) = (%q, %v), want (%q, %v)", tc.text, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestNormalizeDepartment(t *testing.T) {
	testCases := []struct {
		text   string
		want   domain.Department
		wantOK bool
	}{
		{text: "Casino Bar", want: domain.DepartmentCasino, wantOK: true},
		{text: "Club Royale", want: domain.DepartmentCasino, wantOK: true},
		{text: "Starbucks", want: domain.DepartmentBeverage, wantOK: true},
		{text: "Izumi Hibachi", want: domain.DepartmentDining, wantOK: true},
		{text: "Photo Gallery", want: domain.DepartmentPhoto, wantOK: true},
		{text: "Vitality Spa", want: domain.DepartmentSpa, wantOK: true},
		{text: "Solera Jewelers", want: domain.DepartmentRetail, wantOK: true},
		{text: "Shore Excursions", want: domain.DepartmentShoreEx, wantOK: true},
		{text: "WOW Band", want: domain.DepartmentServiceFees, wantOK: true},
		{text: "Port taxes", want: domain.DepartmentTaxes, wantOK: true},
		{text: "Gratuities", want: domain.DepartmentGratuities, wantOK: true},
		{text: "Laundry", wantOK: false},
		{text: "", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			got, ok := NormalizeDepartment(tc.text)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("NormalizeDepartment(%q) = (%q, %v), want (%q, %v)", tc.text, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestNormalizeDepartment_Deterministic(t *testing.T) {
	first, _ := NormalizeDepartment("Casino Bar")
	second, _ := NormalizeDepartment("Casino Bar")
	if first != second {
		t.Errorf("classification changed between calls: %q then %q", first, second)
	}
}

func TestNormalizeCategory(t *testing.T) {
	testCases := []struct {
		text   string
		want   domain.Category
		wantOK bool
	}{
		{text: "Casino marker", want: domain.CategoryCasino, wantOK: true},
		{text: "Chef's Table", want: domain.CategoryFoodBeverage, wantOK: true},
		{text: "Coffee", want: domain.CategoryFoodBeverage, wantOK: true},
		{text: "Salon", want: domain.CategorySpa, wantOK: true},
		{text: "Photo package", want: domain.CategoryRetail, wantOK: true},
		{text: "Excursion: Cozumel", want: domain.CategoryShoreEx, wantOK: true},
		{text: "Gratuity", want: domain.CategoryGratuity, wantOK: true},
		{text: "Service fee", want: domain.CategoryTaxFees, wantOK: true},
		{text: "Laundry", want: domain.CategoryOther, wantOK: true},
		{text: "", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			got, ok := NormalizeCategory(tc.text)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("NormalizeCategory(%q) = (%q, %v), want (%q, %v)", tc.text, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestExtractOnboardCredit(t *testing.T) {
	neg := decimal.RequireFromString("-150.25")
	pos := decimal.NewFromInt(75)

	if got, ok := ExtractOnboardCredit("Onboard Credit", &neg); !ok || !got.Equal(decimal.RequireFromString("150.25")) {
		t.Errorf("expected 150.25, got %s (ok=%v)", got, ok)
	}
	if got, ok := ExtractOnboardCredit("OBC adjustment", &pos); !ok || !got.Equal(pos) {
		t.Errorf("expected 75, got %s (ok=%v)", got, ok)
	}
	if _, ok := ExtractOnboardCredit("Casino", &pos); ok {
		t.Error("expected no credit for non-credit description")
	}
	if _, ok := ExtractOnboardCredit("Onboard Credit", nil); ok {
		t.Error("expected no credit without an amount")
	}
}

func TestExtractRefOrFolio(t *testing.T) {
	testCases := []struct {
		description string
		want        domain.RefFolio
	}{
		{description: "Casino Ref #AB-1234 Folio #99881", want: domain.RefFolio{RefNumber: "AB-1234", FolioNumber: "99881"}},
		{description: "ref 7781", want: domain.RefFolio{RefNumber: "7781"}},
		{description: "folio#F-2", want: domain.RefFolio{FolioNumber: "F-2"}},
		{description: "Coffee", want: domain.RefFolio{}},
		{description: "", want: domain.RefFolio{}},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := ExtractRefOrFolio(tc.description)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ExtractRefOrFolio(%q) mismatch (-want +got):\n%s", tc.description, diff)
			}
		})
	}
}

func TestComputeMixedCurrency(t *testing.T) {
	rec := func(c string) domain.FinancialRecord { return domain.FinancialRecord{Currency: c} }

	testCases := []struct {
		name    string
		records []domain.FinancialRecord
		want    bool
	}{
		{name: "empty", records: nil, want: false},
		{name: "single currency", records: []domain.FinancialRecord{rec("USD"), rec("USD")}, want: false},
		{name: "blank ignored", records: []domain.FinancialRecord{rec("USD"), rec(""), rec("  ")}, want: false},
		{name: "two currencies", records: []domain.FinancialRecord{rec("USD"), rec("EUR")}, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeMixedCurrency(tc.records); got != tc.want {
				t.Errorf("ComputeMixedCurrency() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNormalizeRecord(t *testing.T) {
	rec := domain.FinancialRecord{
		ID:          "r1",
		SourceType:  domain.SourceStatement,
		Description: "Onboard Credit Ref #X9",
		PaymentText: "SeaPass",
		Amount:      decimal.NewFromInt(-100),
		Currency:    " usd ",
	}

	got := NormalizeRecord(rec)

	if got.Category != domain.CategoryOther {
		t.Errorf("Category = %q, want %q", got.Category, domain.CategoryOther)
	}
	if got.Department != "" {
		t.Errorf("Department = %q, want empty", got.Department)
	}
	if got.PaymentMethod != domain.PaymentSeaPass {
		t.Errorf("PaymentMethod = %q, want %q", got.PaymentMethod, domain.PaymentSeaPass)
	}
	if got.OnboardCredit == nil || !got.OnboardCredit.Equal(decimal.NewFromInt(100)) {
		t.Errorf("OnboardCredit = %v, want 100", got.OnboardCredit)
	}
	if got.RefNumber != "X9" {
		t.Errorf("RefNumber = %q, want X9", got.RefNumber)
	}
	if got.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", got.Currency)
	}

	t.Run("keeps imported classification", func(t *testing.T) {
		rec := domain.FinancialRecord{Description: "Casino", Category: domain.CategorySpa}
		if got := NormalizeRecord(rec); got.Category != domain.CategorySpa {
			t.Errorf("Category = %q, want %q", got.Category, domain.CategorySpa)
		}
	})

	t.Run("venue drives department", func(t *testing.T) {
		rec := domain.FinancialRecord{Venue: "Izumi", Description: "Dinner for two"}
		got := NormalizeRecord(rec)
		if got.Department != domain.DepartmentDining {
			t.Errorf("Department = %q, want %q", got.Department, domain.DepartmentDining)
		}
	})
}

func TestSummarizeFinancials_OnboardCreditIsExact(t *testing.T) {
	tenCents := decimal.RequireFromString("0.10")
	twentyCents := decimal.RequireFromString("0.20")
	records := []domain.FinancialRecord{
		{Amount: decimal.RequireFromString("-0.10"), OnboardCredit: &tenCents},
		{Amount: decimal.RequireFromString("-0.20"), OnboardCredit: &twentyCents},
	}

	got := SummarizeFinancials(records)
	if got.OnboardCreditTotal.String() != "0.3" {
		t.Errorf("OnboardCreditTotal = %s, want exactly 0.3", got.OnboardCreditTotal)
	}
}

func TestSummarizeFinancials(t *testing.T) {
	obc := decimal.NewFromInt(50)
	records := []domain.FinancialRecord{
		{Category: domain.CategoryCasino, Department: domain.DepartmentCasino, PaymentMethod: domain.PaymentSeaPass, Amount: decimal.RequireFromString("100.10"), Currency: "USD"},
		{Category: domain.CategoryCasino, Department: domain.DepartmentCasino, PaymentMethod: domain.PaymentSeaPass, Amount: decimal.RequireFromString("0.20"), Currency: "USD"},
		{Category: domain.CategoryFoodBeverage, Department: domain.DepartmentBeverage, Amount: decimal.RequireFromString("12.00"), Currency: "EUR"},
		{Category: domain.CategoryOther, Amount: decimal.RequireFromString("-50"), OnboardCredit: &obc},
	}

	got := SummarizeFinancials(records)

	if got.RecordCount != 4 {
		t.Errorf("RecordCount = %d, want 4", got.RecordCount)
	}
	if !got.Total.Equal(decimal.RequireFromString("62.30")) {
		t.Errorf("Total = %s, want 62.30", got.Total)
	}
	if !got.ByCategory[domain.CategoryCasino].Equal(decimal.RequireFromString("100.30")) {
		t.Errorf("Casino total = %s, want 100.30", got.ByCategory[domain.CategoryCasino])
	}
	if !got.ByPaymentMethod[domain.PaymentSeaPass].Equal(decimal.RequireFromString("100.30")) {
		t.Errorf("SeaPass total = %s, want 100.30", got.ByPaymentMethod[domain.PaymentSeaPass])
	}
	if _, ok := got.ByDepartment[""]; ok {
		t.Error("records without department should not be grouped")
	}
	if !got.OnboardCreditTotal.Equal(decimal.NewFromInt(50)) {
		t.Errorf("OnboardCreditTotal = %s, want 50", got.OnboardCreditTotal)
	}
	if !got.MixedCurrency {
		t.Error("expected mixed currency")
	}
}
