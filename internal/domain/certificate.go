package domain

import "time"

// CertPath is the qualification path letter in a certificate code
type CertPath string

const (
	PathA CertPath = "A"
	PathC CertPath = "C"
)

// ParsedCertCode is the decoded form of a certificate code such as 2411C08
type ParsedCertCode struct {
	Year  int      `json:"year"`
	Month int      `json:"month"`
	Path  CertPath `json:"path"`
	Level string   `json:"level"` // 01-08 or VIP2
	Raw   string   `json:"raw"`
}

// ThresholdTier is a reward tier unlocked at a point requirement
type ThresholdTier struct {
	Points int      `json:"points" yaml:"points"`
	Code   string   `json:"code" yaml:"code"`
	Path   CertPath `json:"path" yaml:"path"`
	Level  string   `json:"level" yaml:"level"`

	// Instant value range of the certificate, when known
	InstantMinUSD float64 `json:"instantMinUsd,omitempty" yaml:"instant_min_usd"`
	InstantMaxUSD float64 `json:"instantMaxUsd,omitempty" yaml:"instant_max_usd"`
	Notes         string  `json:"notes,omitempty" yaml:"notes"`
}

// ThresholdResolution is the result of resolving points against tiers
type ThresholdResolution struct {
	Best     *ThresholdTier  `json:"best"`
	Unlocked []ThresholdTier `json:"unlocked"`
}

// NextCruiseBonus is a row of the next-cruise bonus chart
type NextCruiseBonus struct {
	ID          string  `json:"id" yaml:"id"`
	MinPoints   int     `json:"minPoints" yaml:"min_points"`
	FreePlayUSD float64 `json:"freePlayUsd" yaml:"free_play_usd"`
	CreditsUSD  float64 `json:"creditsUsd" yaml:"credits_usd"`
	Note        string  `json:"note,omitempty" yaml:"note"`
}

// Total is the combined dollar value of the bonus
func (b NextCruiseBonus) Total() float64 {
	return b.FreePlayUSD + b.CreditsUSD
}

// CertificateSuggestion is the certificate a point total should be redeemed for
type CertificateSuggestion struct {
	Path           CertPath `json:"path"`
	Level          string   `json:"level"`
	CodeSuggestion string   `json:"codeSuggestion"`
	InstantMinUSD  float64  `json:"instantMinUsd,omitempty"`
	InstantMaxUSD  float64  `json:"instantMaxUsd,omitempty"`
}

// MatchedBonus is the next-cruise bonus row a point total qualifies for
type MatchedBonus struct {
	NextCruiseBonus
	Value float64 `json:"value"`
}

// CertificateResolution is the best certificate per path plus the matching bonus
type CertificateResolution struct {
	Suggested *CertificateSuggestion `json:"suggested"`
	Options   []ThresholdTier        `json:"options"`
	Bonus     *MatchedBonus          `json:"bonus"`
}

// TotalsInput feeds the totals calculator
type TotalsInput struct {
	PointsEarned    float64 `json:"pointsEarned"`
	InstantFinalUSD float64 `json:"instantFinalUsd"`
	NextCruiseUSD   float64 `json:"nextCruiseUsd"`
}

// TotalsResult holds coin-in, combined value and ROI (a ratio, not percent)
type TotalsResult struct {
	CoinIn float64 `json:"coinIn"`
	Total  float64 `json:"total"`
	ROI    float64 `json:"roi"`
}

// FveLink ties a sailed cruise to the certificate value it earned
type FveLink struct {
	ID                   string    `json:"id"`
	CruiseID             string    `json:"cruiseId"`
	Ship                 string    `json:"ship,omitempty"`
	Itinerary            string    `json:"itinerary,omitempty"`
	Nights               int       `json:"nights,omitempty"`
	Seasonality          string    `json:"seasonality,omitempty"`
	ShipClass            string    `json:"shipClass,omitempty"`
	PointsEarned         int       `json:"pointsEarned"`
	CoinInUSD            float64   `json:"coinInUsd"`
	SelectedCertCode     string    `json:"selectedCertCode,omitempty"`
	SelectedPath         CertPath  `json:"selectedPath,omitempty"`
	Level                string    `json:"level,omitempty"`
	InstantValueMinUSD   *float64  `json:"instantValueMinUsd,omitempty"`
	InstantValueMaxUSD   *float64  `json:"instantValueMaxUsd,omitempty"`
	InstantValueFinalUSD *float64  `json:"instantValueFinalUsd,omitempty"`
	NextCruiseBonusID    string    `json:"nextCruiseBonusId,omitempty"`
	NextCruiseValueUSD   *float64  `json:"nextCruiseValueUsd,omitempty"`
	FveTotalUSD          float64   `json:"fveTotalUsd"`
	ROIVsCoinIn          float64   `json:"roiVsCoinIn"`
	OverrideReason       string    `json:"overrideReason,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// LinkCruiseRequest creates or refreshes an FveLink
type LinkCruiseRequest struct {
	CruiseID     string `json:"cruiseId" binding:"required"`
	Ship         string `json:"ship,omitempty"`
	Itinerary    string `json:"itinerary,omitempty"`
	Nights       *int   `json:"nights,omitempty"`
	Seasonality  string `json:"seasonality,omitempty"`
	ShipClass    string `json:"shipClass,omitempty"`
	PointsEarned int    `json:"pointsEarned"`
}

// EvaluationUpdate carries the fields set when a cruise's value is evaluated
type EvaluationUpdate struct {
	SelectedCertCode     *string   `json:"selectedCertCode,omitempty"`
	SelectedPath         *CertPath `json:"selectedPath,omitempty"`
	Level                *string   `json:"level,omitempty"`
	InstantValueMinUSD   *float64  `json:"instantValueMinUsd,omitempty"`
	InstantValueMaxUSD   *float64  `json:"instantValueMaxUsd,omitempty"`
	InstantValueFinalUSD *float64  `json:"instantValueFinalUsd,omitempty"`
	NextCruiseBonusID    *string   `json:"nextCruiseBonusId,omitempty"`
	NextCruiseValueUSD   *float64  `json:"nextCruiseValueUsd,omitempty"`
	OverrideReason       *string   `json:"overrideReason,omitempty"`
}

// FveUpdated is published whenever a cruise's evaluation changes
type FveUpdated struct {
	CruiseID    string  `json:"cruiseId"`
	FveTotalUSD float64 `json:"fveTotalUsd"`
	ROI         float64 `json:"roi"`
}
