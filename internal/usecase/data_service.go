package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/easyseas/pointtracker/internal/domain"
	applog "github.com/easyseas/pointtracker/internal/logger"
)

// DataService is the ingest boundary for the data sets the app syncs
type DataService struct {
	mu     sync.Mutex
	store  domain.KeyValueStore
	logger zerolog.Logger
}

// NewDataService creates a data service over store
func NewDataService(store domain.KeyValueStore, logger zerolog.Logger) *DataService {
	return &DataService{store: store, logger: logger}
}

// Put replaces the document stored under key.
// Every data set is a JSON array except fve_links, which is an object keyed by cruise id.
func (s *DataService) Put(ctx context.Context, key string, raw []byte) error {
	if !domain.IsKnownDataKey(key) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownDataKey, key)
	}

	trimmed := bytes.TrimSpace(raw)
	if !json.Valid(trimmed) {
		return fmt.Errorf("%w: body is not valid JSON", domain.ErrInvalidRequest)
	}

	want, shape := byte('['), "an array"
	if key == domain.KeyFveLinks {
		want, shape = '{', "an object"
	}
	if trimmed[0] != want {
		return fmt.Errorf("%w: %s must be %s", domain.ErrInvalidRequest, key, shape)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, key, compact.String()); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}

	ctxLog := applog.FromContextOr(ctx, s.logger)
	ctxLog.Info().Str("key", key).Int("bytes", compact.Len()).Msg("stored data set")
	return nil
}

// Get returns the raw document stored under key. A key never written
// yields an empty document of the right shape.
func (s *DataService) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if !domain.IsKnownDataKey(key) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDataKey, key)
	}

	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && raw == "") {
		if key == domain.KeyFveLinks {
			return json.RawMessage(`{}`), nil
		}
		return json.RawMessage(`[]`), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	return json.RawMessage(raw), nil
}

// ImportFinancials normalizes records, gives new ones an id and appends
// them to the stored financial records.
func (s *DataService) ImportFinancials(ctx context.Context, records []domain.FinancialRecord) ([]domain.FinancialRecord, error) {
	imported := make([]domain.FinancialRecord, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		imported = append(imported, NormalizeRecord(r))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := readList[domain.FinancialRecord](ctx, s.store, domain.KeyFinancials)
	if err != nil {
		return nil, err
	}
	if err := saveJSON(ctx, s.store, domain.KeyFinancials, append(existing, imported...)); err != nil {
		return nil, err
	}

	ctxLog := applog.FromContextOr(ctx, s.logger)
	ctxLog.Info().
		Int("imported", len(imported)).
		Int("total", len(existing)+len(imported)).
		Msg("imported financial records")
	return imported, nil
}

// Financials returns the stored financial records
func (s *DataService) Financials(ctx context.Context) []domain.FinancialRecord {
	return loadList[domain.FinancialRecord](ctx, s.store, s.logger, domain.KeyFinancials)
}

// Bookings splits the stored bookings into completed and upcoming cruises
func (s *DataService) Bookings(ctx context.Context) (completed, upcoming []domain.BookedCruise) {
	for _, c := range loadList[domain.BookedCruise](ctx, s.store, s.logger, domain.KeyBooked) {
		switch c.Status {
		case domain.StatusCompleted:
			completed = append(completed, c)
		case domain.StatusBooked:
			upcoming = append(upcoming, c)
		}
	}
	return completed, upcoming
}
