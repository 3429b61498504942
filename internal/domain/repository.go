package domain

import "context"

// Storage keys for the data sets exchanged with the app.
const (
	KeyCruises         = "cruises"
	KeyBooked          = "booked"
	KeyOffers          = "offers"
	KeyCruiseSummaries = "cruise_summaries"
	KeyFinancials      = "financials"
	KeyFveLinks        = "fve_links"
	KeyScrapedOffers   = "scraped_offers"
	KeyScrapedCruises  = "scraped_cruises"
)

// KnownDataKeys lists every key the ingest endpoint accepts.
var KnownDataKeys = []string{
	KeyCruises,
	KeyBooked,
	KeyOffers,
	KeyCruiseSummaries,
	KeyFinancials,
	KeyFveLinks,
	KeyScrapedOffers,
	KeyScrapedCruises,
}

// IsKnownDataKey reports whether key is one of KnownDataKeys
func IsKnownDataKey(key string) bool {
	for _, k := range KnownDataKeys {
		if k == key {
			return true
		}
	}
	return false
}

// KeyValueStore is the opaque durable key-value boundary.
// Values are JSON documents serialized by the caller.
// Get returns ErrNotFound when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
