package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/easyseas/pointtracker/internal/domain"
	applog "github.com/easyseas/pointtracker/internal/logger"
)

// node is the classified shape of a JSON value met during extraction
type node interface {
	isNode()
}

type (
	// arrayNode is a JSON array; each element is walked
	arrayNode []any
	// offerNode is an object carrying offer fields
	offerNode struct{ obj *jsonObject }
	// objectNode is any other object; its container properties are walked
	objectNode struct{ obj *jsonObject }
	// scalarNode is a string, number, bool or null and holds nothing to extract
	scalarNode struct{}
)

func (arrayNode) isNode()  {}
func (offerNode) isNode()  {}
func (objectNode) isNode() {}
func (scalarNode) isNode() {}

// classify decides which node shape v has
func classify(v any) node {
	switch t := v.(type) {
	case []any:
		return arrayNode(t)
	case *jsonObject:
		if isOffer(t) {
			return offerNode{obj: t}
		}
		return objectNode{obj: t}
	default:
		return scalarNode{}
	}
}

// isOffer recognizes an offer by offerName, offerCode or campaignOffer,
// or by a name paired with a code or an expiration date.
func isOffer(o *jsonObject) bool {
	if truthy(o.get("offerName")) || truthy(o.get("offerCode")) || truthy(o.get("campaignOffer")) {
		return true
	}
	return truthy(o.get("name")) && (truthy(o.get("code")) || truthy(o.get("expirationDate")))
}

// nestedOfferKeys are walked before any other property
var nestedOfferKeys = []string{"offers", "campaignOffers", "campaignOffer"}

// extraction accumulates rows across every packet of a batch
type extraction struct {
	defaultURL string
	seen       map[string]struct{}
	offers     []domain.OfferRow
	cruises    []domain.CruiseRow
}

// ExtractAll walks captured packets and flattens every offer and sailing found.
// Offers are deduplicated by code, first occurrence wins. Packets whose data
// is not valid JSON are skipped.
func ExtractAll(packets []domain.Packet, defaultURL string) domain.Extraction {
	ex := &extraction{
		defaultURL: defaultURL,
		seen:       make(map[string]struct{}),
		offers:     []domain.OfferRow{},
		cruises:    []domain.CruiseRow{},
	}

	for _, p := range packets {
		if len(p.Data) == 0 {
			continue
		}
		tree, err := decodeTree(p.Data)
		if err != nil {
			continue
		}
		ex.walk(tree)
	}

	return domain.Extraction{Offers: ex.offers, Cruises: ex.cruises}
}

func (ex *extraction) walk(v any) {
	switch n := classify(v).(type) {
	case arrayNode:
		for _, item := range n {
			ex.walk(item)
		}
	case offerNode:
		ex.addOffer(n.obj)
		ex.walkChildren(n.obj, true)
	case objectNode:
		ex.walkChildren(n.obj, false)
	case scalarNode:
	}
}

// walkChildren visits nested offer lists first, then every other container
// property in document order. An offer's sailings are already flattened
// and are not walked again.
func (ex *extraction) walkChildren(o *jsonObject, offer bool) {
	for _, key := range nestedOfferKeys {
		if v := o.get(key); v != nil {
			ex.walk(v)
		}
	}

	for _, key := range o.keys {
		switch key {
		case "offers", "campaignOffers", "campaignOffer":
			continue
		case "sailings", "cruises":
			if offer {
				continue
			}
		}
		ex.walk(o.values[key])
	}
}

func (ex *extraction) addOffer(o *jsonObject) {
	code := stringify(firstTruthy(o.get("offerCode"), o.get("code")))
	if code == "" {
		return
	}

	name := stringify(firstTruthy(o.get("offerName"), o.get("name")))
	expire := stringify(firstTruthy(o.get("expirationDate"), o.get("expireDate"), o.get("endDate")))
	offerType := stringify(firstTruthy(o.get("offerType"), o.get("type")))
	value := stringify(firstTruthy(o.get("value"), o.get("perks"), o.get("description"), o.get("benefit")))

	url := stringify(firstTruthy(o.get("url"), o.get("link")))
	if url == "" {
		url = ex.defaultURL
	}

	sailings, _ := firstTruthy(o.get("sailings"), o.get("cruises")).([]any)

	if _, dup := ex.seen[code]; !dup {
		ex.seen[code] = struct{}{}
		ex.offers = append(ex.offers, domain.OfferRow{
			OfferName:   name,
			OfferCode:   code,
			ExpireDate:  expire,
			OfferType:   offerType,
			Value:       value,
			URL:         url,
			CruiseCount: len(sailings),
		})
	}

	for _, item := range sailings {
		s, ok := item.(*jsonObject)
		if !ok {
			continue
		}
		ship, _ := s.get("ship").(*jsonObject)
		port := s.get("departurePort")
		portObj, _ := port.(*jsonObject)
		itinerary := s.get("itinerary")
		itineraryObj, _ := itinerary.(*jsonObject)

		ex.cruises = append(ex.cruises, domain.CruiseRow{
			OfferName:     name,
			OfferCode:     code,
			ExpireDate:    expire,
			OfferType:     offerType,
			Value:         value,
			SailingDate:   stringify(firstTruthy(s.get("sailDate"), s.get("sailingDate"), s.get("date"))),
			ShipName:      stringify(firstTruthy(ship.get("shipName"), ship.get("name"), s.get("shipName"))),
			ShipCode:      stringify(firstTruthy(ship.get("shipCode"), ship.get("code"), s.get("shipCode"))),
			Nights:        number(firstTruthy(s.get("nights"), s.get("length"), s.get("duration"))),
			DeparturePort: stringify(firstTruthy(portObj.get("name"), s.get("departurePortName"), scalarString(port))),
			Itinerary:     stringify(firstTruthy(s.get("itineraryName"), itineraryObj.get("name"), s.get("itineraryCode"), scalarString(itinerary))),
			CabinType:     stringify(firstTruthy(s.get("cabinType"), s.get("cabin"), s.get("eligibleCabin"))),
			Guests:        number(firstTruthy(s.get("guests"), s.get("numGuests"))),
		})
	}
}

// scalarString keeps v only when it is a plain string
func scalarString(v any) any {
	if s, ok := v.(string); ok {
		return s
	}
	return nil
}

var (
	offerCSVHeader  = []string{"Offer Name", "Offer Code", "OFFER EXPIRE DATE", "Type of Offer", "VALUE", "HTML URL Link", "# of Cruises"}
	cruiseCSVHeader = []string{"Offer Name", "Offer Code", "OFFER EXPIRE DATE", "Type of Offer", "VALUE", "Sailing Date", "Ship Name", "Ship Code", "Nights", "Departure Port", "Itinerary", "Cabin Type", "# of Guests"}
)

// WriteOffersCSV writes offer rows with a header line
func WriteOffersCSV(w io.Writer, rows []domain.OfferRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(offerCSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.OfferName, r.OfferCode, r.ExpireDate, r.OfferType, r.Value, r.URL, fmt.Sprint(r.CruiseCount)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCruisesCSV writes cruise rows with a header line
func WriteCruisesCSV(w io.Writer, rows []domain.CruiseRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cruiseCSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.OfferName, r.OfferCode, r.ExpireDate, r.OfferType, r.Value,
			r.SailingDate, r.ShipName, r.ShipCode, formatNumber(r.Nights),
			r.DeparturePort, r.Itinerary, r.CabinType, formatNumber(r.Guests),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ScrapeService runs extraction over captured packets and keeps the latest result
type ScrapeService struct {
	store      domain.KeyValueStore
	defaultURL string
	logger     zerolog.Logger
}

// NewScrapeService creates a scrape service
func NewScrapeService(store domain.KeyValueStore, defaultURL string, logger zerolog.Logger) *ScrapeService {
	return &ScrapeService{store: store, defaultURL: defaultURL, logger: logger}
}

// Extract flattens packets and stores the resulting rows
func (s *ScrapeService) Extract(ctx context.Context, packets []domain.Packet) (domain.Extraction, error) {
	result := ExtractAll(packets, s.defaultURL)

	ctxLog := applog.FromContextOr(ctx, s.logger)
	ctxLog.Info().
		Int("packets", len(packets)).
		Int("offers", len(result.Offers)).
		Int("cruises", len(result.Cruises)).
		Msg("extracted offers")

	if err := saveJSON(ctx, s.store, domain.KeyScrapedOffers, result.Offers); err != nil {
		return result, err
	}
	if err := saveJSON(ctx, s.store, domain.KeyScrapedCruises, result.Cruises); err != nil {
		return result, err
	}
	return result, nil
}

// ExportOffers writes the stored offer rows as CSV
func (s *ScrapeService) ExportOffers(ctx context.Context, w io.Writer) error {
	rows := loadList[domain.OfferRow](ctx, s.store, s.logger, domain.KeyScrapedOffers)
	return WriteOffersCSV(w, rows)
}

// ExportCruises writes the stored cruise rows as CSV
func (s *ScrapeService) ExportCruises(ctx context.Context, w io.Writer) error {
	rows := loadList[domain.CruiseRow](ctx, s.store, s.logger, domain.KeyScrapedCruises)
	return WriteCruisesCSV(w, rows)
}
