package domain

import "encoding/json"

// Packet is one network response captured by the in-page interceptor.
// Data is untrusted JSON of any shape.
type Packet struct {
	Src  string          `json:"src"` // fetch, xhr or GLOBAL
	URL  string          `json:"url"`
	Data json.RawMessage `json:"data"`
}

// OfferRow is the flattened projection of a scraped casino offer
type OfferRow struct {
	OfferName   string `json:"offerName"`
	OfferCode   string `json:"offerCode"`
	ExpireDate  string `json:"offerExpireDate"`
	OfferType   string `json:"offerType"`
	Value       string `json:"value"`
	URL         string `json:"url"`
	CruiseCount int    `json:"cruiseCount"`
}

// CruiseRow is one sailing of a scraped offer, carrying the offer's metadata
type CruiseRow struct {
	OfferName     string  `json:"offerName"`
	OfferCode     string  `json:"offerCode"`
	ExpireDate    string  `json:"offerExpireDate"`
	OfferType     string  `json:"offerType"`
	Value         string  `json:"value"`
	SailingDate   string  `json:"sailingDate"`
	ShipName      string  `json:"shipName"`
	ShipCode      string  `json:"shipCode"`
	Nights        float64 `json:"nights"`
	DeparturePort string  `json:"departurePort"`
	Itinerary     string  `json:"itinerary"`
	CabinType     string  `json:"cabinType"`
	Guests        float64 `json:"guests"`
}

// Extraction is the result of walking a batch of packets
type Extraction struct {
	Offers  []OfferRow  `json:"offers"`
	Cruises []CruiseRow `json:"cruises"`
}
