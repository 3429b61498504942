package domain

import "time"

// Booking statuses used by the intelligence aggregator
const (
	StatusCompleted = "completed"
	StatusBooked    = "booked"
)

// BookedCruise is a sailing the player has taken or reserved
type BookedCruise struct {
	ID               string   `json:"id"`
	Ship             string   `json:"ship"`
	Status           string   `json:"status"`
	StartDate        string   `json:"startDate,omitempty"`
	EndDate          string   `json:"endDate,omitempty"`
	ReturnDate       string   `json:"returnDate,omitempty"`
	Nights           float64  `json:"nights,omitempty"`
	CabinType        string   `json:"cabinType,omitempty"`
	Guests           *float64 `json:"guests,omitempty"`
	ClubRoyalePoints float64  `json:"clubRoyalePoints,omitempty"`
	TotalSpend       float64  `json:"totalSpend,omitempty"`
	FreePlay         float64  `json:"freePlay,omitempty"`
	TotalWin         float64  `json:"totalWin,omitempty"`
}

// CasinoOffer is a stored casino offer
type CasinoOffer struct {
	ID         string   `json:"id"`
	Title      string   `json:"title,omitempty"`
	Name       string   `json:"name,omitempty"`
	FreePlay   float64  `json:"freePlay,omitempty"`
	ExpiryDate string   `json:"expiryDate,omitempty"`
	Ships      []string `json:"ships,omitempty"`
}

// Profitability buckets a ship's average ROI
type Profitability string

const (
	ProfitabilityHigh   Profitability = "high"
	ProfitabilityMedium Profitability = "medium"
	ProfitabilityLow    Profitability = "low"
)

// ROISignal buckets an offer by its free play amount
type ROISignal string

const (
	SignalStrong   ROISignal = "strong"
	SignalModerate ROISignal = "moderate"
	SignalWeak     ROISignal = "weak"
)

// PlayerContext summarizes the player's standing
type PlayerContext struct {
	Tier              string  `json:"tier"`
	CurrentPoints     float64 `json:"currentPoints"`
	PointsToNextTier  float64 `json:"pointsToNextTier"`
	CruisePace        float64 `json:"cruisePace"`
	AvgSpendPerCruise float64 `json:"avgSpendPerCruise"`
	TotalCruises      int     `json:"totalCruises"`
	CompletedCruises  int     `json:"completedCruises"`
	UpcomingCruises   int     `json:"upcomingCruises"`
	LastCruiseDate    string  `json:"lastCruiseDate,omitempty"`
	NextCruiseDate    string  `json:"nextCruiseDate,omitempty"`
}

// ShipContext is per-ship casino performance
type ShipContext struct {
	Ship          string        `json:"ship"`
	TotalCruises  int           `json:"totalCruises"`
	AvgROI        float64       `json:"avgROI"`
	AvgFreePlay   float64       `json:"avgFreePlay"`
	AvgWin        float64       `json:"avgWin"`
	Profitability Profitability `json:"profitability"`
	LastSailed    string        `json:"lastSailed,omitempty"`
}

// OfferContext is an active offer ranked for the player
type OfferContext struct {
	OfferID         string    `json:"offerId"`
	Title           string    `json:"title"`
	FreePlay        float64   `json:"freePlay"`
	EstimatedValue  float64   `json:"estimatedValue"`
	ExpiryDate      string    `json:"expiryDate"`
	DaysUntilExpiry int       `json:"daysUntilExpiry"`
	ApplicableShips []string  `json:"applicableShips"`
	ROISignal       ROISignal `json:"roiSignal"`
}

// ContextIntelligence is a snapshot regenerated on each query
type ContextIntelligence struct {
	Player       PlayerContext  `json:"player"`
	TopShips     []ShipContext  `json:"topShips"`
	ActiveOffers []OfferContext `json:"activeOffers"`
	Insights     []string       `json:"insights"`
	Timestamp    time.Time      `json:"timestamp"`
}
