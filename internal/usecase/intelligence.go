package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/easyseas/pointtracker/internal/catalog"
	"github.com/easyseas/pointtracker/internal/domain"
	applog "github.com/easyseas/pointtracker/internal/logger"
)

const unknownShip = "Unknown"

// dateLayouts are the date formats accepted in stored records
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// IntelligenceService assembles the player, ship and offer snapshot
type IntelligenceService struct {
	store   domain.KeyValueStore
	catalog *catalog.Catalog
	logger  zerolog.Logger
	now     func() time.Time
}

// NewIntelligenceService creates an intelligence service reading from store
func NewIntelligenceService(store domain.KeyValueStore, cat *catalog.Catalog, logger zerolog.Logger) *IntelligenceService {
	return &IntelligenceService{
		store:   store,
		catalog: cat,
		logger:  logger,
		now:     time.Now,
	}
}

// Compute loads cruises, bookings and offers in parallel and builds the snapshot.
// A failed load contributes an empty collection.
func (s *IntelligenceService) Compute(ctx context.Context) domain.ContextIntelligence {
	var (
		cruises []domain.BookedCruise
		booked  []domain.BookedCruise
		offers  []domain.CasinoOffer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cruises = loadList[domain.BookedCruise](gctx, s.store, s.logger, domain.KeyCruises)
		return nil
	})
	g.Go(func() error {
		booked = loadList[domain.BookedCruise](gctx, s.store, s.logger, domain.KeyBooked)
		return nil
	})
	g.Go(func() error {
		offers = loadList[domain.CasinoOffer](gctx, s.store, s.logger, domain.KeyOffers)
		return nil
	})
	_ = g.Wait()

	ctxLog := applog.FromContextOr(ctx, s.logger)
	ctxLog.Debug().
		Int("cruises", len(cruises)).
		Int("booked", len(booked)).
		Int("offers", len(offers)).
		Msg("computing context intelligence")

	ladder, _ := s.catalog.Ladder(s.catalog.Intelligence.Ladder)
	return BuildContext(booked, offers, s.now(), ladder, s.catalog.Intelligence)
}

// BuildContext derives the snapshot from bookings and offers as of now
func BuildContext(
	booked []domain.BookedCruise,
	offers []domain.CasinoOffer,
	now time.Time,
	ladder catalog.Ladder,
	model catalog.IntelligenceModel,
) domain.ContextIntelligence {
	player, next := playerContext(booked, ladder)
	ships := topShips(booked, model)
	active := activeOffers(offers, now, model)

	return domain.ContextIntelligence{
		Player:       player,
		TopShips:     ships,
		ActiveOffers: active,
		Insights:     insights(player, next, ships, active, model),
		Timestamp:    now,
	}
}

func playerContext(booked []domain.BookedCruise, ladder catalog.Ladder) (domain.PlayerContext, *domain.TierLevel) {
	var completed, upcoming []domain.BookedCruise
	for _, c := range booked {
		switch c.Status {
		case domain.StatusCompleted:
			completed = append(completed, c)
		case domain.StatusBooked:
			upcoming = append(upcoming, c)
		}
	}

	var points, spend float64
	for _, c := range completed {
		points += c.ClubRoyalePoints
		spend += c.TotalSpend
	}

	p := domain.PlayerContext{
		CurrentPoints:    points,
		TotalCruises:     len(booked),
		CompletedCruises: len(completed),
		UpcomingCruises:  len(upcoming),
		LastCruiseDate:   latestDate(completed),
		NextCruiseDate:   earliestStart(upcoming),
	}
	if len(completed) > 0 {
		p.AvgSpendPerCruise = spend / float64(len(completed))
		p.CruisePace = 365 / float64(len(completed))
	}

	var next *domain.TierLevel
	if len(ladder.Levels) > 0 {
		whole := int(math.Floor(points))
		p.Tier = ladder.Level(whole).Name
		next = ladder.Next(whole)
		if next != nil {
			p.PointsToNextTier = float64(next.MinPoints) - points
		}
	}

	return p, next
}

func topShips(booked []domain.BookedCruise, model catalog.IntelligenceModel) []domain.ShipContext {
	var order []string
	byShip := make(map[string][]domain.BookedCruise)
	for _, c := range booked {
		ship := c.Ship
		if ship == "" {
			ship = unknownShip
		}
		if _, ok := byShip[ship]; !ok {
			order = append(order, ship)
		}
		byShip[ship] = append(byShip[ship], c)
	}

	ships := make([]domain.ShipContext, 0, len(order))
	for _, ship := range order {
		all := byShip[ship]

		var n int
		var freePlay, win float64
		for _, c := range all {
			if c.Status != domain.StatusCompleted {
				continue
			}
			n++
			freePlay += c.FreePlay
			win += c.TotalWin
		}

		sc := domain.ShipContext{
			Ship:          ship,
			TotalCruises:  len(all),
			Profitability: domain.ProfitabilityLow,
			LastSailed:    latestDate(all),
		}
		if n > 0 {
			sc.AvgFreePlay = freePlay / float64(n)
			sc.AvgWin = win / float64(n)
		}
		if sc.AvgFreePlay > 0 {
			sc.AvgROI = sc.AvgWin / sc.AvgFreePlay * 100
		}
		switch {
		case sc.AvgROI > model.HighProfitROI:
			sc.Profitability = domain.ProfitabilityHigh
		case sc.AvgROI > model.MediumProfitROI:
			sc.Profitability = domain.ProfitabilityMedium
		}
		ships = append(ships, sc)
	}

	sort.SliceStable(ships, func(i, j int) bool {
		return ships[i].AvgROI > ships[j].AvgROI
	})
	if len(ships) > model.TopShips {
		ships = ships[:model.TopShips]
	}
	return ships
}

func activeOffers(offers []domain.CasinoOffer, now time.Time, model catalog.IntelligenceModel) []domain.OfferContext {
	active := make([]domain.OfferContext, 0, len(offers))
	for _, o := range offers {
		expiry := now.Add(time.Duration(model.DefaultOfferDays) * 24 * time.Hour)
		expiryText := expiry.UTC().Format(time.RFC3339)
		if o.ExpiryDate != "" {
			t, ok := parseDate(o.ExpiryDate)
			if !ok || !t.After(now) {
				continue
			}
			expiry = t
			expiryText = o.ExpiryDate
		}

		title := o.Title
		if title == "" {
			title = o.Name
		}
		if title == "" {
			title = "Untitled Offer"
		}

		ships := o.Ships
		if ships == nil {
			ships = []string{}
		}

		signal := domain.SignalWeak
		switch {
		case o.FreePlay >= model.StrongFreePlay:
			signal = domain.SignalStrong
		case o.FreePlay >= model.ModerateFreePlay:
			signal = domain.SignalModerate
		}

		active = append(active, domain.OfferContext{
			OfferID:         o.ID,
			Title:           title,
			FreePlay:        o.FreePlay,
			EstimatedValue:  o.FreePlay * model.EstimatedValueFactor,
			ExpiryDate:      expiryText,
			DaysUntilExpiry: int(math.Ceil(expiry.Sub(now).Hours() / 24)),
			ApplicableShips: ships,
			ROISignal:       signal,
		})
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].FreePlay > active[j].FreePlay
	})
	if len(active) > model.TopOffers {
		active = active[:model.TopOffers]
	}
	return active
}

func insights(
	player domain.PlayerContext,
	next *domain.TierLevel,
	ships []domain.ShipContext,
	offers []domain.OfferContext,
	model catalog.IntelligenceModel,
) []string {
	out := []string{}

	if next != nil && player.PointsToNextTier > 0 && player.PointsToNextTier <= model.NearTierPoints {
		out = append(out, fmt.Sprintf("You're only %s points away from %s!", formatNumber(player.PointsToNextTier), next.Name))
	}

	if player.UpcomingCruises > 0 {
		out = append(out, fmt.Sprintf("%d %s booked", player.UpcomingCruises, plural("cruise", player.UpcomingCruises)))
	}

	for _, s := range ships {
		if s.Profitability == domain.ProfitabilityHigh {
			out = append(out, fmt.Sprintf("%s has your best ROI at %.0f%%", s.Ship, s.AvgROI))
			break
		}
	}

	var expiring, strong int
	for _, o := range offers {
		if o.DaysUntilExpiry <= model.ExpiringSoonDays {
			expiring++
		}
		if o.ROISignal == domain.SignalStrong {
			strong++
		}
	}
	if expiring > 0 {
		out = append(out, fmt.Sprintf("%d %s expiring soon", expiring, plural("offer", expiring)))
	}
	if strong > 0 {
		out = append(out, fmt.Sprintf("%d high-value %s available", strong, plural("offer", strong)))
	}

	return out
}

func plural(word string, n int) string {
	if n > 1 {
		return word + "s"
	}
	return word
}

// latestDate returns the most recent end (or start) date among cruises
func latestDate(cruises []domain.BookedCruise) string {
	var best string
	var bestTime time.Time
	for _, c := range cruises {
		d := c.EndDate
		if d == "" {
			d = c.StartDate
		}
		if d == "" {
			continue
		}
		t, _ := parseDate(d)
		if best == "" || t.After(bestTime) {
			best, bestTime = d, t
		}
	}
	return best
}

// earliestStart returns the soonest start date among cruises
func earliestStart(cruises []domain.BookedCruise) string {
	var best string
	var bestTime time.Time
	for _, c := range cruises {
		if c.StartDate == "" {
			continue
		}
		t, _ := parseDate(c.StartDate)
		if best == "" || t.Before(bestTime) {
			best, bestTime = c.StartDate, t
		}
	}
	return best
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
