package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/easyseas/pointtracker/internal/catalog"
	"github.com/easyseas/pointtracker/internal/domain"
	applog "github.com/easyseas/pointtracker/internal/logger"
)

// Publisher receives FVE change notifications
type Publisher interface {
	Publish(evt domain.FveUpdated)
}

// FVEService keeps the links between sailed cruises and the value they earned
type FVEService struct {
	mu        sync.Mutex
	store     domain.KeyValueStore
	publisher Publisher
	ratio     float64
	logger    zerolog.Logger
	now       func() time.Time
}

// NewFVEService creates an FVE service persisting links in store
func NewFVEService(store domain.KeyValueStore, publisher Publisher, cat *catalog.Catalog, logger zerolog.Logger) *FVEService {
	return &FVEService{
		store:     store,
		publisher: publisher,
		ratio:     cat.Totals.CoinInPerPoint,
		logger:    logger,
		now:       time.Now,
	}
}

// LinkCruise creates or refreshes the link for a cruise.
// Trip fields left empty keep their stored values; evaluation fields are
// never touched here.
func (s *FVEService) LinkCruise(ctx context.Context, req domain.LinkCruiseRequest) (domain.FveLink, error) {
	if strings.TrimSpace(req.CruiseID) == "" {
		return domain.FveLink{}, fmt.Errorf("%w: cruiseId is required", domain.ErrInvalidRequest)
	}
	if req.PointsEarned < 0 {
		return domain.FveLink{}, fmt.Errorf("%w: pointsEarned must not be negative", domain.ErrInvalidRequest)
	}
	if req.Nights != nil && *req.Nights < 0 {
		return domain.FveLink{}, fmt.Errorf("%w: nights must not be negative", domain.ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	links, err := readMap[domain.FveLink](ctx, s.store, domain.KeyFveLinks)
	if err != nil {
		return domain.FveLink{}, err
	}
	now := s.now().UTC()

	link, ok := links[req.CruiseID]
	if !ok {
		link = domain.FveLink{ID: uuid.NewString(), CruiseID: req.CruiseID, CreatedAt: now}
	}

	link.Ship = orString(req.Ship, link.Ship)
	link.Itinerary = orString(req.Itinerary, link.Itinerary)
	link.Seasonality = orString(req.Seasonality, link.Seasonality)
	link.ShipClass = orString(req.ShipClass, link.ShipClass)
	if req.Nights != nil {
		link.Nights = *req.Nights
	}
	link.PointsEarned = req.PointsEarned
	link.UpdatedAt = now
	s.recompute(&link)

	links[req.CruiseID] = link
	if err := saveJSON(ctx, s.store, domain.KeyFveLinks, links); err != nil {
		return domain.FveLink{}, err
	}

	ctxLog := applog.FromContextOr(ctx, s.logger)
	ctxLog.Info().
		Str("cruise_id", link.CruiseID).
		Int("points", link.PointsEarned).
		Float64("coin_in", link.CoinInUSD).
		Msg("linked cruise")
	return link, nil
}

// SaveEvaluation merges evaluation fields into a cruise's link and
// publishes the recomputed total. A cruise without a link gets one with
// no points earned.
func (s *FVEService) SaveEvaluation(ctx context.Context, cruiseID string, upd domain.EvaluationUpdate) (domain.FveLink, error) {
	if strings.TrimSpace(cruiseID) == "" {
		return domain.FveLink{}, fmt.Errorf("%w: cruiseId is required", domain.ErrInvalidRequest)
	}
	for name, v := range map[string]*float64{
		"instantValueMinUsd":   upd.InstantValueMinUSD,
		"instantValueMaxUsd":   upd.InstantValueMaxUSD,
		"instantValueFinalUsd": upd.InstantValueFinalUSD,
		"nextCruiseValueUsd":   upd.NextCruiseValueUSD,
	} {
		if v != nil && *v < 0 {
			return domain.FveLink{}, fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidRequest, name)
		}
	}
	if upd.SelectedPath != nil && *upd.SelectedPath != domain.PathA && *upd.SelectedPath != domain.PathC {
		return domain.FveLink{}, fmt.Errorf("%w: selectedPath must be A or C", domain.ErrInvalidRequest)
	}

	s.mu.Lock()
	link, err := s.saveEvaluation(ctx, cruiseID, upd)
	s.mu.Unlock()
	if err != nil {
		return domain.FveLink{}, err
	}

	s.publisher.Publish(domain.FveUpdated{
		CruiseID:    link.CruiseID,
		FveTotalUSD: link.FveTotalUSD,
		ROI:         link.ROIVsCoinIn,
	})
	return link, nil
}

func (s *FVEService) saveEvaluation(ctx context.Context, cruiseID string, upd domain.EvaluationUpdate) (domain.FveLink, error) {
	links, err := readMap[domain.FveLink](ctx, s.store, domain.KeyFveLinks)
	if err != nil {
		return domain.FveLink{}, err
	}
	now := s.now().UTC()

	link, ok := links[cruiseID]
	if !ok {
		link = domain.FveLink{ID: uuid.NewString(), CruiseID: cruiseID, CreatedAt: now}
	}

	if upd.SelectedCertCode != nil {
		link.SelectedCertCode = *upd.SelectedCertCode
	}
	if upd.SelectedPath != nil {
		link.SelectedPath = *upd.SelectedPath
	}
	if upd.Level != nil {
		link.Level = *upd.Level
	}
	if upd.NextCruiseBonusID != nil {
		link.NextCruiseBonusID = *upd.NextCruiseBonusID
	}
	if upd.OverrideReason != nil {
		link.OverrideReason = *upd.OverrideReason
	}
	link.InstantValueMinUSD = orFloat(upd.InstantValueMinUSD, link.InstantValueMinUSD)
	link.InstantValueMaxUSD = orFloat(upd.InstantValueMaxUSD, link.InstantValueMaxUSD)
	link.InstantValueFinalUSD = orFloat(upd.InstantValueFinalUSD, link.InstantValueFinalUSD)
	link.NextCruiseValueUSD = orFloat(upd.NextCruiseValueUSD, link.NextCruiseValueUSD)
	link.UpdatedAt = now
	s.recompute(&link)

	links[cruiseID] = link
	if err := saveJSON(ctx, s.store, domain.KeyFveLinks, links); err != nil {
		return domain.FveLink{}, err
	}

	ctxLog := applog.FromContextOr(ctx, s.logger)
	ctxLog.Info().
		Str("cruise_id", cruiseID).
		Float64("fve_total", link.FveTotalUSD).
		Float64("roi", link.ROIVsCoinIn).
		Msg("saved evaluation")
	return link, nil
}

// recompute refreshes coin-in, total and ROI from the link's own fields
func (s *FVEService) recompute(link *domain.FveLink) {
	totals := ComputeTotals(domain.TotalsInput{
		PointsEarned:    float64(link.PointsEarned),
		InstantFinalUSD: derefFloat(link.InstantValueFinalUSD),
		NextCruiseUSD:   derefFloat(link.NextCruiseValueUSD),
	}, s.ratio)
	link.CoinInUSD = totals.CoinIn
	link.FveTotalUSD = totals.Total
	link.ROIVsCoinIn = totals.ROI
}

// GetLink returns the link for a cruise or ErrNotFound
func (s *FVEService) GetLink(ctx context.Context, cruiseID string) (domain.FveLink, error) {
	links := loadMap[domain.FveLink](ctx, s.store, s.logger, domain.KeyFveLinks)
	link, ok := links[cruiseID]
	if !ok {
		return domain.FveLink{}, fmt.Errorf("fve link %q: %w", cruiseID, domain.ErrNotFound)
	}
	return link, nil
}

// ListLinks returns every link ordered by cruise id
func (s *FVEService) ListLinks(ctx context.Context) []domain.FveLink {
	links := loadMap[domain.FveLink](ctx, s.store, s.logger, domain.KeyFveLinks)
	out := make([]domain.FveLink, 0, len(links))
	for _, l := range links {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CruiseID < out[j].CruiseID
	})
	return out
}

var fveCSVHeader = []string{
	"cruise_id", "ship", "itinerary", "nights", "seasonality", "shipClass",
	"points_earned", "coin_in_usd", "selected_cert_code", "selected_path", "level",
	"instant_value_min_usd", "instant_value_max_usd", "instant_value_final_usd",
	"nextcruise_bonus_id", "nextcruise_value_usd", "fve_total_usd", "roi_vs_coinin",
	"override_reason", "updated_at", "created_at",
}

// ExportCSV writes links as CSV. With no cruise ids every link is written.
func (s *FVEService) ExportCSV(ctx context.Context, w io.Writer, cruiseIDs ...string) error {
	links := s.ListLinks(ctx)
	if len(cruiseIDs) > 0 {
		wanted := make(map[string]struct{}, len(cruiseIDs))
		for _, id := range cruiseIDs {
			wanted[id] = struct{}{}
		}
		filtered := links[:0]
		for _, l := range links {
			if _, ok := wanted[l.CruiseID]; ok {
				filtered = append(filtered, l)
			}
		}
		links = filtered
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(fveCSVHeader); err != nil {
		return err
	}
	for _, l := range links {
		record := []string{
			l.CruiseID, l.Ship, l.Itinerary, optionalInt(l.Nights), l.Seasonality, l.ShipClass,
			strconv.Itoa(l.PointsEarned), formatNumber(l.CoinInUSD), l.SelectedCertCode, string(l.SelectedPath), l.Level,
			optionalFloat(l.InstantValueMinUSD), optionalFloat(l.InstantValueMaxUSD), optionalFloat(l.InstantValueFinalUSD),
			l.NextCruiseBonusID, optionalFloat(l.NextCruiseValueUSD), formatNumber(l.FveTotalUSD), formatNumber(l.ROIVsCoinIn),
			l.OverrideReason, l.UpdatedAt.Format(time.RFC3339), l.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func orString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func orFloat(v, fallback *float64) *float64 {
	if v != nil {
		f := *v
		return &f
	}
	return fallback
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}

func optionalInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
