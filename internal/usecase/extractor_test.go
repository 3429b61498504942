package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/easyseas/pointtracker/internal/domain"
)

const testOfferURL = "https://www.royalcaribbean.com/club-royale/"

func packet(data string) domain.Packet {
	return domain.Packet{Src: "fetch", URL: "https://example.test/api", Data: json.RawMessage(data)}
}

func TestExtractAll_OfferWithSailings(t *testing.T) {
	got := ExtractAll([]domain.Packet{
		packet(`{"offerCode":"X","sailings":[{"shipName":"A"},{"shipName":"B"}]}`),
	}, testOfferURL)

	wantOffers := []domain.OfferRow{{OfferCode: "X", URL: testOfferURL, CruiseCount: 2}}
	if diff := cmp.Diff(wantOffers, got.Offers); diff != "" {
		t.Errorf("offers mismatch (-want +got):\n%s", diff)
	}

	if len(got.Cruises) != 2 {
		t.Fatalf("cruises = %d, want 2", len(got.Cruises))
	}
	for i, ship := range []string{"A", "B"} {
		if got.Cruises[i].OfferCode != "X" || got.Cruises[i].ShipName != ship {
			t.Errorf("cruise %d = %+v, want offer X on ship %s", i, got.Cruises[i], ship)
		}
	}
}

func TestExtractAll_FirstOfferWins(t *testing.T) {
	got := ExtractAll([]domain.Packet{
		packet(`{"offerCode":"DUP","offerName":"First","sailings":[{"shipName":"A"}]}`),
		packet(`{"offerCode":"DUP","offerName":"Second","sailings":[{"shipName":"B"}]}`),
	}, testOfferURL)

	if len(got.Offers) != 1 {
		t.Fatalf("offers = %d, want 1", len(got.Offers))
	}
	if got.Offers[0].OfferName != "First" {
		t.Errorf("offer name = %q, want First", got.Offers[0].OfferName)
	}
	// sailings of a repeated offer are still reported
	if len(got.Cruises) != 2 {
		t.Errorf("cruises = %d, want 2", len(got.Cruises))
	}
}

func TestExtractAll_NestedAndFallbacks(t *testing.T) {
	data := `{
		"data": {
			"payload": {
				"offers": [
					{
						"campaignOffer": {
							"name": "Spring Slots",
							"code": "25SPR",
							"expirationDate": "2025-04-30",
							"type": "Cruise Fare",
							"perks": 250,
							"link": "https://offers.example/25SPR",
							"cruises": [
								{
									"sailingDate": "2025-05-01",
									"ship": {"name": "Wonder of the Seas", "code": "WN"},
									"length": "7",
									"departurePort": {"name": "Port Canaveral"},
									"itinerary": {"name": "7 Night Western Caribbean"},
									"cabin": "Balcony",
									"numGuests": 2
								},
								{
									"date": "2025-06-01",
									"shipName": "Icon of the Seas",
									"shipCode": "IC",
									"duration": 3,
									"departurePortName": "Miami",
									"itineraryCode": "IC03",
									"eligibleCabin": "Interior"
								},
								"not a sailing"
							]
						}
					}
				]
			}
		}
	}`

	got := ExtractAll([]domain.Packet{packet(data)}, testOfferURL)

	wantOffers := []domain.OfferRow{{
		OfferName:   "Spring Slots",
		OfferCode:   "25SPR",
		ExpireDate:  "2025-04-30",
		OfferType:   "Cruise Fare",
		Value:       "250",
		URL:         "https://offers.example/25SPR",
		CruiseCount: 3,
	}}
	if diff := cmp.Diff(wantOffers, got.Offers); diff != "" {
		t.Errorf("offers mismatch (-want +got):\n%s", diff)
	}

	meta := domain.CruiseRow{
		OfferName:  "Spring Slots",
		OfferCode:  "25SPR",
		ExpireDate: "2025-04-30",
		OfferType:  "Cruise Fare",
		Value:      "250",
	}
	first := meta
	first.SailingDate = "2025-05-01"
	first.ShipName = "Wonder of the Seas"
	first.ShipCode = "WN"
	first.Nights = 7
	first.DeparturePort = "Port Canaveral"
	first.Itinerary = "7 Night Western Caribbean"
	first.CabinType = "Balcony"
	first.Guests = 2

	second := meta
	second.SailingDate = "2025-06-01"
	second.ShipName = "Icon of the Seas"
	second.ShipCode = "IC"
	second.Nights = 3
	second.DeparturePort = "Miami"
	second.Itinerary = "IC03"
	second.CabinType = "Interior"

	if diff := cmp.Diff([]domain.CruiseRow{first, second}, got.Cruises); diff != "" {
		t.Errorf("cruises mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractAll_ShipObjectsAreNotOffers(t *testing.T) {
	// a sailing's ship has name and code but is not an offer
	got := ExtractAll([]domain.Packet{
		packet(`{"offerCode":"S1","sailings":[{"ship":{"name":"Utopia of the Seas","code":"UT"}}]}`),
	}, testOfferURL)

	if len(got.Offers) != 1 || got.Offers[0].OfferCode != "S1" {
		t.Errorf("offers = %+v, want only S1", got.Offers)
	}
}

func TestExtractAll_SkipsMalformed(t *testing.T) {
	got := ExtractAll([]domain.Packet{
		packet(`{"offerCode": `),
		packet(`"just a string"`),
		packet(`[1, null, true, {"offerName":"No code"}]`),
		{Src: "GLOBAL"},
		packet(`[{"name":"Top","expirationDate":"2025-01-01","code":"T1","value":{"fp":100}}]`),
	}, testOfferURL)

	if len(got.Offers) != 1 {
		t.Fatalf("offers = %+v, want one", got.Offers)
	}
	if got.Offers[0].Value != `{"fp":100}` {
		t.Errorf("value = %q, want JSON of the object", got.Offers[0].Value)
	}
	if len(got.Cruises) != 0 {
		t.Errorf("cruises = %d, want 0", len(got.Cruises))
	}
}

func TestExtractAll_DocumentOrder(t *testing.T) {
	got := ExtractAll([]domain.Packet{
		packet(`{"zeta":{"offerCode":"Z"},"alpha":{"offerCode":"A"},"offers":[{"offerCode":"O"}]}`),
	}, testOfferURL)

	var codes []string
	for _, o := range got.Offers {
		codes = append(codes, o.OfferCode)
	}
	if diff := cmp.Diff([]string{"O", "Z", "A"}, codes); diff != "" {
		t.Errorf("offer order mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV(t *testing.T) {
	var offers bytes.Buffer
	err := WriteOffersCSV(&offers, []domain.OfferRow{
		{OfferName: "Spring, Slots", OfferCode: "25SPR", URL: testOfferURL, CruiseCount: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(offers.String()), "\n")
	if lines[0] != "Offer Name,Offer Code,OFFER EXPIRE DATE,Type of Offer,VALUE,HTML URL Link,# of Cruises" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `"Spring, Slots",25SPR,,,,`+testOfferURL+`,2` {
		t.Errorf("row = %q", lines[1])
	}

	var cruisesCSV bytes.Buffer
	err = WriteCruisesCSV(&cruisesCSV, []domain.CruiseRow{{OfferCode: "25SPR", ShipName: "Wonder", Nights: 7, Guests: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(cruisesCSV.String(), ",25SPR,,,,,Wonder,,7,,,,2") {
		t.Errorf("cruise csv = %q", cruisesCSV.String())
	}
}

func TestScrapeService(t *testing.T) {
	store := newMockStore()
	svc := NewScrapeService(store, testOfferURL, zerolog.Nop())
	ctx := context.Background()

	got, err := svc.Extract(ctx, []domain.Packet{
		packet(`{"offerCode":"X","sailings":[{"shipName":"A"}]}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Offers) != 1 || len(got.Cruises) != 1 {
		t.Fatalf("extraction = %+v", got)
	}

	var buf bytes.Buffer
	if err := svc.ExportCruises(ctx, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "X") || !strings.Contains(buf.String(), ",A,") {
		t.Errorf("exported cruises = %q", buf.String())
	}

	buf.Reset()
	if err := svc.ExportOffers(ctx, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("exported offers = %q, want header plus one row", buf.String())
	}

	store.setErr = domain.ErrStoreUnavailable
	if _, err := svc.Extract(ctx, nil); err == nil {
		t.Error("expected storage error to surface")
	}
}
