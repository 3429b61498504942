package usecase

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/easyseas/pointtracker/internal/domain"
)

// rule maps a case-insensitive pattern to a label. Rules are evaluated in order
// and the first match wins.
type rule[T any] struct {
	pattern *regexp.Regexp
	value   T
}

func newRule[T any](pattern string, value T) rule[T] {
	return rule[T]{pattern: regexp.MustCompile(`(?i)` + pattern), value: value}
}

func firstMatch[T any](rules []rule[T], text string) (T, bool) {
	var zero T
	s := strings.TrimSpace(text)
	if s == "" {
		return zero, false
	}
	for _, r := range rules {
		if r.pattern.MatchString(s) {
			return r.value, true
		}
	}
	return zero, false
}

var paymentRules = []rule[domain.PaymentMethod]{
	newRule(`sea\s?pass|onboard\s?account`, domain.PaymentSeaPass),
	newRule(`on.?board\s?credit|obc|non-?refundable.*credit`, domain.PaymentOBC),
	newRule(`visa|master|amex|credit|card|discover`, domain.PaymentCreditCard),
	newRule(`promo|certificate|voucher|next\s?cruise|casino\s?comp`, domain.PaymentPromo),
}

var departmentRules = []rule[domain.Department]{
	newRule(`casino|gaming|club\s?royale`, domain.DepartmentCasino),
	newRule(`beverage|bar|cafe|starbucks|coconut`, domain.DepartmentBeverage),
	newRule(`dining|restaurant|izumi|hooked|chef`, domain.DepartmentDining),
	newRule(`photo`, domain.DepartmentPhoto),
	newRule(`spa|salon|vitality`, domain.DepartmentSpa),
	newRule(`retail|shop|solera|duty`, domain.DepartmentRetail),
	newRule(`shore.*ex|excursion`, domain.DepartmentShoreEx),
	newRule(`service.*fee|wow.?band`, domain.DepartmentServiceFees),
	newRule(`tax`, domain.DepartmentTaxes),
	newRule(`gratu`, domain.DepartmentGratuities),
}

var categoryRules = []rule[domain.Category]{
	newRule(`casino|gaming|club\s?royale`, domain.CategoryCasino),
	newRule(`food|dining|restaurant|chef|izumi|hooked`, domain.CategoryFoodBeverage),
	newRule(`beverage|bar|cafe|coffee|drink`, domain.CategoryFoodBeverage),
	newRule(`spa|salon|vitality`, domain.CategorySpa),
	newRule(`retail|shop|duty|photo`, domain.CategoryRetail),
	newRule(`shore.*ex|excursion`, domain.CategoryShoreEx),
	newRule(`gratu`, domain.CategoryGratuity),
	newRule(`tax|fee`, domain.CategoryTaxFees),
}

var (
	onboardCreditPattern = regexp.MustCompile(`(?i)on.?board\s?credit|obc`)
	refPattern           = regexp.MustCompile(`(?i)ref\s?#?([A-Z0-9\-]+)`)
	folioPattern         = regexp.MustCompile(`(?i)folio\s?#?([A-Z0-9\-]+)`)
)

// NormalizePaymentMethod classifies free-form payment text.
// ok is false for blank or unrecognized text.
func NormalizePaymentMethod(text string) (domain.PaymentMethod, bool) {
	return firstMatch(paymentRules, text)
}

// NormalizeDepartment classifies a venue or department label.
// Unlike categories there is no catch-all department.
func NormalizeDepartment(text string) (domain.Department, bool) {
	return firstMatch(departmentRules, text)
}

// NormalizeCategory classifies a description into a spend category.
// Non-blank text that matches nothing is Other.
func NormalizeCategory(text string) (domain.Category, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	if c, ok := firstMatch(categoryRules, text); ok {
		return c, true
	}
	return domain.CategoryOther, true
}

// ExtractOnboardCredit returns |amount| when the description names onboard credit
func ExtractOnboardCredit(description string, amount *decimal.Decimal) (decimal.Decimal, bool) {
	if description == "" || amount == nil {
		return decimal.Zero, false
	}
	if !onboardCreditPattern.MatchString(description) {
		return decimal.Zero, false
	}
	return amount.Abs(), true
}

// ExtractRefOrFolio pulls "ref #..." and "folio #..." tokens out of a description
func ExtractRefOrFolio(description string) domain.RefFolio {
	var out domain.RefFolio
	if description == "" {
		return out
	}
	if m := refPattern.FindStringSubmatch(description); m != nil {
		out.RefNumber = m[1]
	}
	if m := folioPattern.FindStringSubmatch(description); m != nil {
		out.FolioNumber = m[1]
	}
	return out
}

// ComputeMixedCurrency reports whether records carry more than one distinct currency
func ComputeMixedCurrency(records []domain.FinancialRecord) bool {
	seen := make(map[string]struct{})
	for _, r := range records {
		c := strings.TrimSpace(r.Currency)
		if c == "" {
			continue
		}
		seen[c] = struct{}{}
		if len(seen) > 1 {
			return true
		}
	}
	return false
}

// NormalizeRecord fills the derived fields of a record that the source left blank.
// Fields already set are kept as imported.
func NormalizeRecord(rec domain.FinancialRecord) domain.FinancialRecord {
	label := rec.Description
	if rec.Venue != "" {
		label = rec.Venue + " " + rec.Description
	}

	if rec.Category == "" {
		if c, ok := NormalizeCategory(label); ok {
			rec.Category = c
		}
	}
	if rec.Department == "" {
		if d, ok := NormalizeDepartment(label); ok {
			rec.Department = d
		}
	}
	if rec.PaymentMethod == "" {
		if p, ok := NormalizePaymentMethod(rec.PaymentText); ok {
			rec.PaymentMethod = p
		}
	}
	if rec.OnboardCredit == nil {
		if obc, ok := ExtractOnboardCredit(rec.Description, &rec.Amount); ok {
			rec.OnboardCredit = &obc
		}
	}
	if rec.RefNumber == "" || rec.FolioNumber == "" {
		rf := ExtractRefOrFolio(rec.Description)
		if rec.RefNumber == "" {
			rec.RefNumber = rf.RefNumber
		}
		if rec.FolioNumber == "" {
			rec.FolioNumber = rf.FolioNumber
		}
	}
	rec.Currency = strings.ToUpper(strings.TrimSpace(rec.Currency))

	return rec
}

// SummarizeFinancials totals records by category, department and payment method
func SummarizeFinancials(records []domain.FinancialRecord) domain.FinancialSummary {
	summary := domain.FinancialSummary{
		RecordCount:        len(records),
		Total:              decimal.Zero,
		ByCategory:         make(map[domain.Category]decimal.Decimal),
		ByDepartment:       make(map[domain.Department]decimal.Decimal),
		ByPaymentMethod:    make(map[domain.PaymentMethod]decimal.Decimal),
		OnboardCreditTotal: decimal.Zero,
		MixedCurrency:      ComputeMixedCurrency(records),
	}

	for _, r := range records {
		summary.Total = summary.Total.Add(r.Amount)
		if r.Category != "" {
			summary.ByCategory[r.Category] = summary.ByCategory[r.Category].Add(r.Amount)
		}
		if r.Department != "" {
			summary.ByDepartment[r.Department] = summary.ByDepartment[r.Department].Add(r.Amount)
		}
		if r.PaymentMethod != "" {
			summary.ByPaymentMethod[r.PaymentMethod] = summary.ByPaymentMethod[r.PaymentMethod].Add(r.Amount)
		}
		if r.OnboardCredit != nil {
			summary.OnboardCreditTotal = summary.OnboardCreditTotal.Add(*r.OnboardCredit)
		}
	}

	return summary
}
