package usecase

import (
	"fmt"
	"math"

	"github.com/easyseas/pointtracker/internal/catalog"
	"github.com/easyseas/pointtracker/internal/domain"
)

const defaultGuests = 2

// LoyaltyCalculator computes loyalty progress and tier placement
type LoyaltyCalculator struct {
	model   catalog.LoyaltyModel
	catalog *catalog.Catalog
}

// NewLoyaltyCalculator creates a calculator over cat
func NewLoyaltyCalculator(cat *catalog.Catalog) *LoyaltyCalculator {
	return &LoyaltyCalculator{model: cat.Loyalty, catalog: cat}
}

// CabinMultiplier returns the solo multiplier for single occupancy, else 1.
// Cabin type does not affect accrual.
func CabinMultiplier(isSolo bool, guests int, model catalog.LoyaltyModel) int {
	if guests == 1 || isSolo {
		return model.SoloMultiplier
	}
	return 1
}

// CalcCruiseLoyaltyPoints returns the points one cruise earns
func CalcCruiseLoyaltyPoints(in domain.LoyaltyCruiseInput, model catalog.LoyaltyModel) int {
	mult := CabinMultiplier(in.IsSolo, 0, model)
	points := int(math.Round(in.Nights * float64(mult)))
	if points < 0 {
		return 0
	}
	return points
}

// ToLoyaltyInputs projects cruise records onto loyalty inputs.
// Missing guest counts default to two; a single guest sails solo.
// Records without positive nights are dropped.
func ToLoyaltyInputs(cruises []domain.BookedCruise) []domain.LoyaltyCruiseInput {
	inputs := make([]domain.LoyaltyCruiseInput, 0, len(cruises))
	for _, c := range cruises {
		if math.IsNaN(c.Nights) || c.Nights <= 0 {
			continue
		}

		guests := float64(defaultGuests)
		if c.Guests != nil {
			guests = *c.Guests
		}

		endDate := c.ReturnDate
		if endDate == "" {
			endDate = c.EndDate
		}

		inputs = append(inputs, domain.LoyaltyCruiseInput{
			Nights:    c.Nights,
			CabinType: c.CabinType,
			IsSolo:    guests == 1,
			EndDate:   endDate,
		})
	}
	return inputs
}

// ComputeLoyaltyProgress measures progress toward target points.
// A non-nil override replaces the points earned from completed cruises.
// target <= 0 falls back to the configured target.
func ComputeLoyaltyProgress(
	completed, upcoming []domain.LoyaltyCruiseInput,
	target int,
	override *int,
	model catalog.LoyaltyModel,
) domain.LoyaltyProgress {
	if target <= 0 {
		target = model.TargetPoints
	}

	current := sumLoyaltyPoints(completed, model)
	if override != nil {
		current = *override
	}
	fromUpcoming := sumLoyaltyPoints(upcoming, model)

	pointsLeft := max(0, target-current)
	leftAfterUpcoming := max(0, pointsLeft-fromUpcoming)

	avg := model.DefaultAvgNights
	recent := completed
	if len(recent) > model.AverageWindow {
		recent = recent[len(recent)-model.AverageWindow:]
	}
	if len(recent) > 0 {
		var nights float64
		for _, c := range recent {
			nights += c.Nights
		}
		avg = nights / float64(len(recent))
	}

	nightsLeft := leftAfterUpcoming
	cruisesLeft := nightsLeft
	if avg > 0 {
		cruisesLeft = int(math.Ceil(float64(nightsLeft) / avg))
	}
	sevenNight := int(math.Ceil(float64(nightsLeft) / float64(model.ReferenceCruiseNights)))

	monthsPerCruise := model.MonthsPerCruiseIdle
	if len(upcoming) > 0 {
		monthsPerCruise = model.MonthsPerCruiseBooked
	}

	return domain.LoyaltyProgress{
		CurrentPoints:           current,
		TargetPoints:            target,
		PointsLeft:              pointsLeft,
		PointsFromUpcoming:      fromUpcoming,
		PointsLeftAfterUpcoming: leftAfterUpcoming,
		AvgNightsPerCruise:      math.Round(avg*10) / 10,
		NightsLeftAt1x:          nightsLeft,
		CruisesLeftAtAvg:        cruisesLeft,
		SevenNightCruisesLeft:   sevenNight,
		EstimatedMonthsToTarget: cruisesLeft * monthsPerCruise,
	}
}

func sumLoyaltyPoints(cruises []domain.LoyaltyCruiseInput, model catalog.LoyaltyModel) int {
	total := 0
	for _, c := range cruises {
		total += CalcCruiseLoyaltyPoints(c, model)
	}
	return total
}

// Progress computes progress for a transport request
func (l *LoyaltyCalculator) Progress(req domain.LoyaltyProgressRequest) domain.LoyaltyProgress {
	return ComputeLoyaltyProgress(req.Completed, req.Upcoming, req.TargetPoints, req.OverridePoints, l.model)
}

// ProgressFromRecords computes progress directly from stored cruise records
func (l *LoyaltyCalculator) ProgressFromRecords(completed, upcoming []domain.BookedCruise) domain.LoyaltyProgress {
	return ComputeLoyaltyProgress(ToLoyaltyInputs(completed), ToLoyaltyInputs(upcoming), 0, nil, l.model)
}

// TierByPoints returns the Club Royale tier for points
func (l *LoyaltyCalculator) TierByPoints(points int) domain.TierLevel {
	return l.levelFor(catalog.ProgramClubRoyale, points)
}

// BlueChipTier returns the Blue Chip tier for points
func (l *LoyaltyCalculator) BlueChipTier(points int) domain.TierLevel {
	return l.levelFor(catalog.ProgramBlueChip, points)
}

// CaptainsClubLevel returns the Captain's Club level for points
func (l *LoyaltyCalculator) CaptainsClubLevel(points int) domain.TierLevel {
	return l.levelFor(catalog.ProgramCaptainsClub, points)
}

// CrownAnchorLevel returns the Crown & Anchor level for points
func (l *LoyaltyCalculator) CrownAnchorLevel(points int) domain.TierLevel {
	return l.levelFor(catalog.ProgramCrownAnchor, points)
}

// ProgressToNextTier reports the position of points within a program's ladder
func (l *LoyaltyCalculator) ProgressToNextTier(program string, points int) (domain.TierProgress, error) {
	ladder, ok := l.catalog.Ladder(program)
	if !ok {
		return domain.TierProgress{}, fmt.Errorf("%w: %s", domain.ErrUnknownProgram, program)
	}
	return ladder.Progress(points), nil
}

// levelFor returns the zero level when the catalog lacks program
func (l *LoyaltyCalculator) levelFor(program string, points int) domain.TierLevel {
	ladder, ok := l.catalog.Ladder(program)
	if !ok {
		return domain.TierLevel{}
	}
	return ladder.Level(points)
}
