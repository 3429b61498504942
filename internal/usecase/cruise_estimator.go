package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/easyseas/pointtracker/internal/catalog"
	"github.com/easyseas/pointtracker/internal/domain"
)

// CruiseEstimator predicts casino points for a sailing from stored history
type CruiseEstimator struct {
	store          domain.KeyValueStore
	model          catalog.EstimatorModel
	coinInPerPoint float64
	logger         zerolog.Logger
}

// NewCruiseEstimator creates an estimator reading history from store
func NewCruiseEstimator(store domain.KeyValueStore, cat *catalog.Catalog, logger zerolog.Logger) *CruiseEstimator {
	return &CruiseEstimator{
		store:          store,
		model:          cat.Estimator,
		coinInPerPoint: cat.Totals.CoinInPerPoint,
		logger:         logger,
	}
}

// EstimateCruise loads cruise summaries and estimates the sailing.
// Unreadable history is treated as no history.
func (e *CruiseEstimator) EstimateCruise(ctx context.Context, in domain.CruiseEstimateInput) domain.CruiseEstimate {
	history := loadList[domain.CruiseSummary](ctx, e.store, e.logger, domain.KeyCruiseSummaries)
	return EstimateCruiseFromHistory(in, history, e.model, e.coinInPerPoint)
}

// EstimateCruiseFromHistory applies the point model to a history of cruises.
// The base rate is points per night over the trailing window, or the
// configured default without history. Ship, season and duration factors
// multiply the base.
func EstimateCruiseFromHistory(
	in domain.CruiseEstimateInput,
	history []domain.CruiseSummary,
	model catalog.EstimatorModel,
	coinInPerPoint float64,
) domain.CruiseEstimate {
	nights := int(max(1, math.Floor(finiteOr(in.Nights, 1))))

	recent := history
	if len(recent) > model.HistoryWindow {
		recent = recent[len(recent)-model.HistoryWindow:]
	}

	base := model.DefaultPointsPerNight
	if len(recent) > 0 {
		var points float64
		var totalNights int
		for _, c := range recent {
			points += finiteOr(c.PointsEarned, 0)
			totalNights += summaryNights(c)
		}
		base = points / float64(totalNights)
	}

	notes := []string{}

	shipF := 1.0
	if in.Ship != "" {
		shipF = shipClassFactor(in.Ship, model.ShipClassFactors)
		notes = append(notes, fmt.Sprintf("Ship factor (%s): x%.2f", in.Ship, shipF))
	}

	seasonF := 1.0
	if in.Season != "" {
		if f, ok := model.SeasonFactors[string(in.Season)]; ok {
			seasonF = f
		}
		notes = append(notes, fmt.Sprintf("Season factor (%s): x%.2f", in.Season, seasonF))
	}

	durationF := 1.0
	switch {
	case nights >= model.LongTripNights:
		durationF = model.LongTripFactor
	case nights <= model.ShortTripNights:
		durationF = model.ShortTripFactor
	}
	notes = append(notes, fmt.Sprintf("Duration factor (%d nights): x%.2f", nights, durationF))

	expected := int(math.Round(base * float64(nights) * shipF * seasonF * durationF))

	based := make([]domain.BasedOnCruise, 0, len(recent))
	for _, c := range recent {
		based = append(based, domain.BasedOnCruise{
			CruiseID: c.CruiseID,
			Ship:     c.Ship,
			Nights:   summaryNights(c),
			Points:   c.PointsEarned,
		})
	}

	confidence := domain.ConfidenceLow
	switch {
	case len(history) >= model.HighConfidenceAt:
		confidence = domain.ConfidenceHigh
	case len(history) >= model.MediumConfidenceAt:
		confidence = domain.ConfidenceMedium
	}

	return domain.CruiseEstimate{
		ExpectedPoints: expected,
		ExpectedCoinIn: math.Round(float64(expected) * coinInPerPoint),
		Confidence:     confidence,
		BasedOnCruises: based,
		Notes:          notes,
	}
}

// summaryNights counts a record without a recorded length as one night
func summaryNights(c domain.CruiseSummary) int {
	if c.Nights > 0 {
		return c.Nights
	}
	return 1
}

// shipClassFactor returns the factor of the first rule matching the ship, else 1
func shipClassFactor(ship string, rules []catalog.ShipClassRule) float64 {
	s := strings.ToLower(ship)
	for _, r := range rules {
		if r.Match(s) {
			return r.Factor
		}
	}
	return 1.0
}
