package usecase

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/easyseas/pointtracker/internal/catalog"
	"github.com/easyseas/pointtracker/internal/domain"
)

// certCodePattern matches YYMM, a path letter and a level (VIP2, 01-08 or a bare 1-8)
var certCodePattern = regexp.MustCompile(`^(\d{2})(\d{2})(A|C)(VIP2|0[1-8]|[1-8])$`)

// ParseCertCode decodes a certificate code such as "2411C08".
// It returns nil for anything that is not a well-formed code.
func ParseCertCode(raw string) *domain.ParsedCertCode {
	code := strings.ToUpper(strings.TrimSpace(raw))
	m := certCodePattern.FindStringSubmatch(code)
	if m == nil {
		return nil
	}

	yy, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return nil
	}

	level := m[4]
	if len(level) == 1 {
		level = "0" + level
	}

	return &domain.ParsedCertCode{
		Year:  2000 + yy,
		Month: month,
		Path:  domain.CertPath(m[3]),
		Level: level,
		Raw:   code,
	}
}

// ResolveByPoints returns every tier unlocked by points and the best of them.
// Points are floored and clamped at zero. Among tiers with equal requirements
// the one listed later wins.
func ResolveByPoints(points float64, tiers []domain.ThresholdTier) domain.ThresholdResolution {
	pts := sanitizePoints(points)

	sorted := make([]domain.ThresholdTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Points < sorted[j].Points
	})

	unlocked := make([]domain.ThresholdTier, 0, len(sorted))
	for _, t := range sorted {
		if float64(t.Points) <= pts {
			unlocked = append(unlocked, t)
		}
	}

	res := domain.ThresholdResolution{Unlocked: unlocked}
	if len(unlocked) > 0 {
		best := unlocked[len(unlocked)-1]
		res.Best = &best
	}
	return res
}

// ComputeTotals derives coin-in, combined value and ROI for an earned point total
func ComputeTotals(in domain.TotalsInput, coinInPerPoint float64) domain.TotalsResult {
	coinIn := sanitizePoints(in.PointsEarned) * coinInPerPoint
	total := nonNegative(in.InstantFinalUSD) + nonNegative(in.NextCruiseUSD)

	var roi float64
	if coinIn > 0 {
		roi = total / coinIn
	}
	return domain.TotalsResult{CoinIn: coinIn, Total: total, ROI: roi}
}

// sanitizePoints floors points at zero, treating NaN as zero
func sanitizePoints(points float64) float64 {
	if math.IsNaN(points) || points < 0 {
		return 0
	}
	return math.Floor(points)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// CertificateCalculator answers certificate questions against the model catalog
type CertificateCalculator struct {
	catalog *catalog.Catalog
}

// NewCertificateCalculator creates a calculator over cat
func NewCertificateCalculator(cat *catalog.Catalog) *CertificateCalculator {
	return &CertificateCalculator{catalog: cat}
}

// Totals computes totals with the configured coin-in ratio
func (c *CertificateCalculator) Totals(in domain.TotalsInput) domain.TotalsResult {
	return ComputeTotals(in, c.catalog.Totals.CoinInPerPoint)
}

// Resolve resolves points against the configured tiers, or against tiers when given
func (c *CertificateCalculator) Resolve(points float64, tiers []domain.ThresholdTier) domain.ThresholdResolution {
	if len(tiers) == 0 {
		tiers = c.catalog.Certificates.Tiers
	}
	return ResolveByPoints(points, tiers)
}

// ResolveCertificate picks the best certificate on each path and suggests one.
// The higher requirement wins; path A wins a tie. The matching next-cruise
// bonus is the chart row with the highest minimum not above points.
func (c *CertificateCalculator) ResolveCertificate(points float64) domain.CertificateResolution {
	pts := sanitizePoints(points)
	res := domain.CertificateResolution{Options: []domain.ThresholdTier{}}

	bestA := bestForPath(c.catalog.Certificates.Tiers, domain.PathA, pts)
	bestC := bestForPath(c.catalog.Certificates.Tiers, domain.PathC, pts)

	var pick *domain.ThresholdTier
	for _, best := range []*domain.ThresholdTier{bestA, bestC} {
		if best == nil {
			continue
		}
		res.Options = append(res.Options, *best)
		if pick == nil || best.Points > pick.Points {
			pick = best
		}
	}

	if pick != nil {
		res.Suggested = &domain.CertificateSuggestion{
			Path:           pick.Path,
			Level:          pick.Level,
			CodeSuggestion: fmt.Sprintf("YYMM(%s)%s", pick.Path, pick.Level),
			InstantMinUSD:  pick.InstantMinUSD,
			InstantMaxUSD:  pick.InstantMaxUSD,
		}
	}

	var bonus *domain.NextCruiseBonus
	for i := range c.catalog.Certificates.NextCruiseBonuses {
		b := &c.catalog.Certificates.NextCruiseBonuses[i]
		if float64(b.MinPoints) > pts {
			continue
		}
		if bonus == nil || b.MinPoints > bonus.MinPoints {
			bonus = b
		}
	}
	if bonus != nil {
		res.Bonus = &domain.MatchedBonus{NextCruiseBonus: *bonus, Value: bonus.Total()}
	}

	return res
}

// bestForPath returns the highest-requirement tier on path that points unlock
func bestForPath(tiers []domain.ThresholdTier, path domain.CertPath, pts float64) *domain.ThresholdTier {
	var best *domain.ThresholdTier
	for i := range tiers {
		t := tiers[i]
		if t.Path != path || float64(t.Points) > pts {
			continue
		}
		if best == nil || t.Points > best.Points {
			best = &t
		}
	}
	return best
}
