// Package catalog holds the model parameters behind every estimate:
// coin-in ratio, retail rates, estimator factors, loyalty ladders and
// certificate tiers. Defaults are embedded; a YAML file can override them.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/easyseas/pointtracker/internal/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Ladder program identifiers
const (
	ProgramClubRoyale   = "clubroyale"
	ProgramBlueChip     = "bluechip"
	ProgramCaptainsClub = "captainsclub"
	ProgramCrownAnchor  = "crownanchor"
	ProgramDiamond      = "diamond"
)

// Catalog is the validated, ready-to-use model
type Catalog struct {
	Totals       TotalsModel
	Retail       RetailModel
	Estimator    EstimatorModel
	Loyalty      LoyaltyModel
	Certificates CertificateModel
	Intelligence IntelligenceModel
	Scrape       ScrapeModel

	ladders map[string]Ladder
}

// TotalsModel parameterizes the totals calculator
type TotalsModel struct {
	CoinInPerPoint float64 `yaml:"coin_in_per_point"`
}

// RetailModel parameterizes the retail estimator
type RetailModel struct {
	DefaultPerNightPerPerson float64            `yaml:"default_per_night_per_person"`
	DefaultPax               int                `yaml:"default_pax"`
	GratuityPerPersonNight   float64            `yaml:"gratuity_per_person_night"`
	TaxBase                  float64            `yaml:"tax_base"`
	TaxPerPersonNight        float64            `yaml:"tax_per_person_night"`
	ShipRates                map[string]float64 `yaml:"ship_rates"`
}

// ShipClassRule maps a ship name pattern to a point factor
type ShipClassRule struct {
	Pattern string  `yaml:"pattern"`
	Factor  float64 `yaml:"factor"`

	re *regexp.Regexp
}

// Match reports whether the lowercased ship name matches the rule
func (r ShipClassRule) Match(ship string) bool {
	return r.re != nil && r.re.MatchString(ship)
}

// EstimatorModel parameterizes the cruise point estimator
type EstimatorModel struct {
	DefaultPointsPerNight float64            `yaml:"default_points_per_night"`
	HistoryWindow         int                `yaml:"history_window"`
	MediumConfidenceAt    int                `yaml:"medium_confidence_at"`
	HighConfidenceAt      int                `yaml:"high_confidence_at"`
	ShipClassFactors      []ShipClassRule    `yaml:"ship_class_factors"`
	SeasonFactors         map[string]float64 `yaml:"season_factors"`
	LongTripNights        int                `yaml:"long_trip_nights"`
	LongTripFactor        float64            `yaml:"long_trip_factor"`
	ShortTripNights       int                `yaml:"short_trip_nights"`
	ShortTripFactor       float64            `yaml:"short_trip_factor"`
}

// LoyaltyModel parameterizes the loyalty progress calculator
type LoyaltyModel struct {
	TargetPoints          int     `yaml:"target_points"`
	SoloMultiplier        int     `yaml:"solo_multiplier"`
	AverageWindow         int     `yaml:"average_window"`
	DefaultAvgNights      float64 `yaml:"default_avg_nights"`
	ReferenceCruiseNights int     `yaml:"reference_cruise_nights"`
	MonthsPerCruiseBooked int     `yaml:"months_per_cruise_booked"`
	MonthsPerCruiseIdle   int     `yaml:"months_per_cruise_idle"`
}

// CertificateModel holds certificate tiers and the next-cruise bonus chart
type CertificateModel struct {
	Tiers             []domain.ThresholdTier   `yaml:"tiers"`
	NextCruiseBonuses []domain.NextCruiseBonus `yaml:"next_cruise_bonuses"`
}

// IntelligenceModel parameterizes the context intelligence aggregator
type IntelligenceModel struct {
	Ladder               string  `yaml:"ladder"`
	NearTierPoints       float64 `yaml:"near_tier_points"`
	HighProfitROI        float64 `yaml:"high_profit_roi"`
	MediumProfitROI      float64 `yaml:"medium_profit_roi"`
	StrongFreePlay       float64 `yaml:"strong_free_play"`
	ModerateFreePlay     float64 `yaml:"moderate_free_play"`
	EstimatedValueFactor float64 `yaml:"estimated_value_factor"`
	DefaultOfferDays     int     `yaml:"default_offer_days"`
	ExpiringSoonDays     int     `yaml:"expiring_soon_days"`
	TopShips             int     `yaml:"top_ships"`
	TopOffers            int     `yaml:"top_offers"`
}

// ScrapeModel parameterizes the offer extractor
type ScrapeModel struct {
	DefaultOfferURL string `yaml:"default_offer_url"`
}

type levelDef struct {
	Name        string   `yaml:"name"`
	MinPoints   int      `yaml:"min_points"`
	Color       string   `yaml:"color"`
	Description string   `yaml:"description"`
	Benefits    []string `yaml:"benefits"`
}

type document struct {
	Totals       TotalsModel           `yaml:"totals"`
	Retail       RetailModel           `yaml:"retail"`
	Estimator    EstimatorModel        `yaml:"estimator"`
	Loyalty      LoyaltyModel          `yaml:"loyalty"`
	Certificates CertificateModel      `yaml:"certificates"`
	Intelligence IntelligenceModel     `yaml:"intelligence"`
	Scrape       ScrapeModel           `yaml:"scrape"`
	Ladders      map[string][]levelDef `yaml:"ladders"`
}

// Default returns the embedded catalog. It panics if the embedded
// document is invalid, which only a broken build can cause.
func Default() *Catalog {
	c, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded defaults invalid: %v", err))
	}
	return c
}

// Load builds a catalog from the embedded defaults, overlaid with the
// YAML file at path when path is non-empty.
func Load(path string) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(defaultsYAML, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding defaults: %v", domain.ErrInvalidCatalog, err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrInvalidCatalog, path, err)
		}
	}

	return build(&doc)
}

// build validates the document and compiles derived structures
func build(doc *document) (*Catalog, error) {
	if doc.Totals.CoinInPerPoint <= 0 {
		return nil, fmt.Errorf("%w: coin_in_per_point must be positive", domain.ErrInvalidCatalog)
	}
	if doc.Retail.DefaultPax <= 0 {
		return nil, fmt.Errorf("%w: default_pax must be positive", domain.ErrInvalidCatalog)
	}
	if doc.Estimator.HistoryWindow <= 0 {
		return nil, fmt.Errorf("%w: history_window must be positive", domain.ErrInvalidCatalog)
	}
	if doc.Loyalty.AverageWindow <= 0 || doc.Loyalty.ReferenceCruiseNights <= 0 {
		return nil, fmt.Errorf("%w: loyalty windows must be positive", domain.ErrInvalidCatalog)
	}

	for i := range doc.Estimator.ShipClassFactors {
		rule := &doc.Estimator.ShipClassFactors[i]
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: ship class pattern %q: %v", domain.ErrInvalidCatalog, rule.Pattern, err)
		}
		rule.re = re
	}

	ladders := make(map[string]Ladder, len(doc.Ladders))
	for name, defs := range doc.Ladders {
		ladder, err := newLadder(name, defs)
		if err != nil {
			return nil, err
		}
		ladders[name] = ladder
	}
	if _, ok := ladders[doc.Intelligence.Ladder]; !ok {
		return nil, fmt.Errorf("%w: intelligence ladder %q not defined", domain.ErrInvalidCatalog, doc.Intelligence.Ladder)
	}

	return &Catalog{
		Totals:       doc.Totals,
		Retail:       doc.Retail,
		Estimator:    doc.Estimator,
		Loyalty:      doc.Loyalty,
		Certificates: doc.Certificates,
		Intelligence: doc.Intelligence,
		Scrape:       doc.Scrape,
		ladders:      ladders,
	}, nil
}

// Ladder returns the named loyalty ladder
func (c *Catalog) Ladder(program string) (Ladder, bool) {
	l, ok := c.ladders[program]
	return l, ok
}

// Programs lists the configured ladder names in sorted order
func (c *Catalog) Programs() []string {
	names := make([]string, 0, len(c.ladders))
	for name := range c.ladders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
