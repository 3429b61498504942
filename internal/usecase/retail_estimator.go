package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/easyseas/pointtracker/internal/catalog"
	"github.com/easyseas/pointtracker/internal/domain"
)

// EstimateRetail prices a sailing at retail: cabin fare, port taxes and gratuities.
// Nights and passengers are floored and never drop below one.
func EstimateRetail(in domain.RetailEstimateInput, model catalog.RetailModel) domain.RetailEstimate {
	nights := max(1, math.Floor(finiteOr(in.Nights, 0)))
	pax := float64(retailPax(in.Pax, model))
	ppn := perNightPerPerson(in.Ship, in.PerNightPerPersonOverride, model)

	return domain.RetailEstimate{
		RetailCabinValue: math.Round(ppn * pax * nights),
		TaxesAndFees:     math.Round(model.TaxBase + model.TaxPerPersonNight*pax*nights),
		Gratuities:       math.Round(model.GratuityPerPersonNight * pax * nights),
	}
}

// ExplainEstimate describes the arithmetic behind EstimateRetail
func ExplainEstimate(in domain.RetailEstimateInput, model catalog.RetailModel) string {
	pax := model.DefaultPax
	if in.Pax != nil {
		pax = *in.Pax
	}
	ppn := perNightPerPerson(in.Ship, in.PerNightPerPersonOverride, model)
	nights := formatNumber(in.Nights)

	return fmt.Sprintf("ship=%s, nights=%s, pax=%d, ppn=%s -> retail=%s, taxes≈%s+%s*%d*%s, gratuities≈%s*%d*%s",
		in.Ship, nights, pax, formatNumber(ppn),
		formatNumber(ppn*float64(pax)*in.Nights),
		formatNumber(model.TaxBase), formatNumber(model.TaxPerPersonNight), pax, nights,
		formatNumber(model.GratuityPerPersonNight), pax, nights)
}

// perNightPerPerson resolves the fare rate: a positive override, the ship's
// configured rate (exact name, then case-insensitive), else the default.
func perNightPerPerson(ship string, override float64, model catalog.RetailModel) float64 {
	if override > 0 {
		return override
	}
	if rate, ok := model.ShipRates[ship]; ok {
		return rate
	}
	name := strings.TrimSpace(ship)
	for s, rate := range model.ShipRates {
		if strings.EqualFold(s, name) {
			return rate
		}
	}
	return model.DefaultPerNightPerPerson
}

func retailPax(pax *int, model catalog.RetailModel) int {
	if pax == nil {
		return max(1, model.DefaultPax)
	}
	return max(1, *pax)
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// formatNumber renders a float without trailing zeros
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
