// Package app wires configuration, storage and services into one explicit
// application state that is built once at startup.
package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/easyseas/pointtracker/config"
	"github.com/easyseas/pointtracker/internal/catalog"
	"github.com/easyseas/pointtracker/internal/domain"
	"github.com/easyseas/pointtracker/internal/events"
	"github.com/easyseas/pointtracker/internal/infrastructure/store"
	"github.com/easyseas/pointtracker/internal/usecase"
)

// State holds every long-lived dependency of the server
type State struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   domain.KeyValueStore
	Catalog *catalog.Catalog
	Bus     *events.Bus

	Certificates *usecase.CertificateCalculator
	Loyalty      *usecase.LoyaltyCalculator
	Estimator    *usecase.CruiseEstimator
	Scrape       *usecase.ScrapeService
	Intelligence *usecase.IntelligenceService
	FVE          *usecase.FVEService
	Data         *usecase.DataService
}

// New loads the model catalog, opens storage and builds the services
func New(cfg *config.Config, logger zerolog.Logger) (*State, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if cfg.Loyalty.TargetPoints > 0 {
		cat.Loyalty.TargetPoints = cfg.Loyalty.TargetPoints
	}

	kv, err := store.Open(cfg.Storage.Type, cfg.Storage.Path, cfg.Storage.TTL)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Type, err)
	}

	logger.Info().
		Str("storage", cfg.Storage.Type).
		Str("catalog", catalogSource(cfg.Catalog.Path)).
		Int("loyalty_target", cat.Loyalty.TargetPoints).
		Msg("application state ready")

	return NewWithStore(cfg, logger, cat, kv), nil
}

// NewWithStore builds the services over an already opened store
func NewWithStore(cfg *config.Config, logger zerolog.Logger, cat *catalog.Catalog, kv domain.KeyValueStore) *State {
	bus := events.NewBus(events.DefaultBuffer, logger.With().Str("component", "events").Logger())

	return &State{
		Config:  cfg,
		Logger:  logger,
		Store:   kv,
		Catalog: cat,
		Bus:     bus,

		Certificates: usecase.NewCertificateCalculator(cat),
		Loyalty:      usecase.NewLoyaltyCalculator(cat),
		Estimator:    usecase.NewCruiseEstimator(kv, cat, logger),
		Scrape:       usecase.NewScrapeService(kv, cat.Scrape.DefaultOfferURL, logger),
		Intelligence: usecase.NewIntelligenceService(kv, cat, logger),
		FVE:          usecase.NewFVEService(kv, bus, cat, logger),
		Data:         usecase.NewDataService(kv, logger),
	}
}

// Close ends every event subscription and closes storage
func (s *State) Close() error {
	s.Bus.Close()
	if err := s.Store.Close(); err != nil {
		return fmt.Errorf("closing storage: %w", err)
	}
	return nil
}

func catalogSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
