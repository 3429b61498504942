package domain

import "math"

// Unbounded is the MaxPoints of the top level of a ladder
const Unbounded = math.MaxInt

// LoyaltyCruiseInput holds the per-cruise facts that drive point accrual
type LoyaltyCruiseInput struct {
	Nights    float64 `json:"nights"`
	CabinType string  `json:"cabinType,omitempty"`
	IsSolo    bool    `json:"isSolo,omitempty"`
	EndDate   string  `json:"endDate,omitempty"`
}

// LoyaltyProgress is the derived progress toward a point target
type LoyaltyProgress struct {
	CurrentPoints           int     `json:"currentPoints"`
	TargetPoints            int     `json:"targetPoints"`
	PointsLeft              int     `json:"pointsLeft"`
	PointsFromUpcoming      int     `json:"pointsFromUpcoming"`
	PointsLeftAfterUpcoming int     `json:"pointsLeftAfterUpcoming"`
	AvgNightsPerCruise      float64 `json:"avgNightsPerCruise"`
	NightsLeftAt1x          int     `json:"nightsLeftAt1x"`
	CruisesLeftAtAvg        int     `json:"cruisesLeftAtAvg"`
	SevenNightCruisesLeft   int     `json:"sevenNightCruisesLeft"`
	EstimatedMonthsToTarget int     `json:"estimatedMonthsToTarget"`
}

// LoyaltyProgressRequest is the transport shape for a progress query
type LoyaltyProgressRequest struct {
	Completed      []LoyaltyCruiseInput `json:"completed"`
	Upcoming       []LoyaltyCruiseInput `json:"upcoming"`
	TargetPoints   int                  `json:"targetPoints,omitempty"`
	OverridePoints *int                 `json:"overrideCurrentPoints,omitempty"`
}

// TierLevel is one rung of a loyalty ladder.
// MaxPoints is inclusive; the top rung has MaxPoints == Unbounded.
type TierLevel struct {
	Name        string   `json:"name"`
	MinPoints   int      `json:"minPoints"`
	MaxPoints   int      `json:"maxPoints"`
	Color       string   `json:"color,omitempty"`
	Description string   `json:"description,omitempty"`
	Benefits    []string `json:"benefits,omitempty"`
}

// Contains reports whether points falls within the level's range
func (l TierLevel) Contains(points int) bool {
	return points >= l.MinPoints && points <= l.MaxPoints
}

// TierProgress describes the distance from the current level to the next
type TierProgress struct {
	Current    int        `json:"current"`
	Target     int        `json:"target"`
	Percentage float64    `json:"percentage"`
	Remaining  int        `json:"remaining"`
	Level      TierLevel  `json:"level"`
	Next       *TierLevel `json:"next"`
}
