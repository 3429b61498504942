package domain

import "github.com/shopspring/decimal"

// PaymentMethod is how a charge was settled onboard
type PaymentMethod string

const (
	PaymentSeaPass    PaymentMethod = "SeaPass"
	PaymentOBC        PaymentMethod = "OBC"
	PaymentCreditCard PaymentMethod = "Credit Card"
	PaymentPromo      PaymentMethod = "Promo"
)

// Department is the onboard department that posted a charge
type Department string

const (
	DepartmentCasino      Department = "Casino"
	DepartmentBeverage    Department = "Beverage"
	DepartmentDining      Department = "Dining"
	DepartmentPhoto       Department = "Photo"
	DepartmentSpa         Department = "Spa"
	DepartmentRetail      Department = "Retail"
	DepartmentShoreEx     Department = "ShoreEx"
	DepartmentServiceFees Department = "ServiceFees"
	DepartmentTaxes       Department = "Taxes"
	DepartmentGratuities  Department = "Gratuities"
)

// Category is the spend category used for receipts and statements
type Category string

const (
	CategoryFoodBeverage Category = "Food & Beverage"
	CategoryRetail       Category = "Retail"
	CategorySpa          Category = "Spa"
	CategoryShoreEx      Category = "ShoreEx"
	CategoryCasino       Category = "Casino"
	CategoryGratuity     Category = "Gratuity"
	CategoryTaxFees      Category = "Tax/Fees"
	CategoryOther        Category = "Other"
)

// SourceType identifies the document a record was imported from
type SourceType string

const (
	SourceReceipt   SourceType = "receipt"
	SourceStatement SourceType = "statement"
)

// FinancialRecord is a single charge or credit line from a receipt or statement.
// Records are normalized once on import and not mutated after verification.
type FinancialRecord struct {
	ID              string           `json:"id"`
	CruiseID        string           `json:"cruiseId,omitempty"`
	ShipName        string           `json:"shipName,omitempty"`
	SourceType      SourceType       `json:"sourceType"`
	Verified        bool             `json:"verified"`
	Description     string           `json:"description,omitempty"`
	Venue           string           `json:"venue,omitempty"`
	Category        Category         `json:"category,omitempty"`
	Department      Department       `json:"department,omitempty"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod,omitempty"`
	PaymentText     string           `json:"paymentText,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
	Currency        string           `json:"currency,omitempty"`
	OnboardCredit   *decimal.Decimal `json:"onboardCredit,omitempty"`
	RefNumber       string           `json:"refNumber,omitempty"`
	FolioNumber     string           `json:"folioNumber,omitempty"`
	PostDate        string           `json:"postDate,omitempty"`
	TransactionType string           `json:"txnType,omitempty"`
}

// RefFolio holds reference and folio numbers pulled from a description
type RefFolio struct {
	RefNumber   string `json:"refNumber,omitempty"`
	FolioNumber string `json:"folioNumber,omitempty"`
}

// FinancialSummary aggregates a set of records
type FinancialSummary struct {
	RecordCount        int                               `json:"recordCount"`
	Total              decimal.Decimal                   `json:"total"`
	ByCategory         map[Category]decimal.Decimal      `json:"byCategory"`
	ByDepartment       map[Department]decimal.Decimal    `json:"byDepartment"`
	ByPaymentMethod    map[PaymentMethod]decimal.Decimal `json:"byPaymentMethod"`
	OnboardCreditTotal decimal.Decimal                   `json:"onboardCreditTotal"`
	MixedCurrency      bool                              `json:"mixedCurrency"`
}
