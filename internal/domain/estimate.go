package domain

// Confidence labels how much history backs a cruise estimate
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Season is the sailing season used by the point estimator
type Season string

const (
	SeasonWinter Season = "Winter"
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
)

// RetailEstimateInput describes a sailing to price at retail
type RetailEstimateInput struct {
	Ship                      string  `json:"ship"`
	Nights                    float64 `json:"nights"`
	Pax                       *int    `json:"pax,omitempty"`
	PerNightPerPersonOverride float64 `json:"perNightPerPersonOverride,omitempty"`
}

// RetailEstimate is the estimated retail value of a sailing
type RetailEstimate struct {
	RetailCabinValue float64 `json:"retailCabinValue"`
	TaxesAndFees     float64 `json:"taxesAndFees"`
	Gratuities       float64 `json:"gratuities"`
	Explanation      string  `json:"explanation,omitempty"`
}

// CruiseSummary is one cruise of casino history used as estimator input
type CruiseSummary struct {
	CruiseID     string  `json:"cruiseId"`
	Ship         string  `json:"ship"`
	Date         string  `json:"date"`
	Nights       int     `json:"nights,omitempty"`
	PointsEarned float64 `json:"pointsEarned"`
}

// CruiseEstimateInput describes a prospective sailing
type CruiseEstimateInput struct {
	Nights float64 `json:"nights"`
	Ship   string  `json:"ship,omitempty"`
	Season Season  `json:"season,omitempty"`
}

// BasedOnCruise is a history record that contributed to an estimate
type BasedOnCruise struct {
	CruiseID string  `json:"cruiseId"`
	Ship     string  `json:"ship"`
	Nights   int     `json:"nights"`
	Points   float64 `json:"points"`
}

// CruiseEstimate is the expected casino outcome of a sailing
type CruiseEstimate struct {
	ExpectedPoints int             `json:"expectedPoints"`
	ExpectedCoinIn float64         `json:"expectedCoinIn"`
	Confidence     Confidence      `json:"confidence"`
	BasedOnCruises []BasedOnCruise `json:"basedOnCruises"`
	Notes          []string        `json:"notes"`
}
