package catalog

import (
	"fmt"
	"sort"

	"github.com/easyseas/pointtracker/internal/domain"
)

// Ladder is an ordered set of loyalty levels covering [0, ∞).
// Only minimums are configured; each MaxPoints is the next level's
// minimum minus one, so levels never overlap and never leave gaps.
type Ladder struct {
	Name   string
	Levels []domain.TierLevel
}

func newLadder(name string, defs []levelDef) (Ladder, error) {
	if len(defs) == 0 {
		return Ladder{}, fmt.Errorf("%w: ladder %q has no levels", domain.ErrInvalidCatalog, name)
	}

	sorted := make([]levelDef, len(defs))
	copy(sorted, defs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinPoints < sorted[j].MinPoints
	})

	if sorted[0].MinPoints != 0 {
		return Ladder{}, fmt.Errorf("%w: ladder %q must start at 0 points", domain.ErrInvalidCatalog, name)
	}

	levels := make([]domain.TierLevel, len(sorted))
	for i, s := range sorted {
		if i > 0 && s.MinPoints == sorted[i-1].MinPoints {
			return Ladder{}, fmt.Errorf("%w: ladder %q has duplicate minimum %d", domain.ErrInvalidCatalog, name, s.MinPoints)
		}
		maxPoints := domain.Unbounded
		if i+1 < len(sorted) {
			maxPoints = sorted[i+1].MinPoints - 1
		}
		levels[i] = domain.TierLevel{
			Name:        s.Name,
			MinPoints:   s.MinPoints,
			MaxPoints:   maxPoints,
			Color:       s.Color,
			Description: s.Description,
			Benefits:    s.Benefits,
		}
	}

	return Ladder{Name: name, Levels: levels}, nil
}

// Level returns the single level whose range contains points.
// Negative totals are treated as zero.
func (l Ladder) Level(points int) domain.TierLevel {
	if points < 0 {
		points = 0
	}
	idx := sort.Search(len(l.Levels), func(i int) bool {
		return l.Levels[i].MinPoints > points
	})
	return l.Levels[idx-1]
}

// Next returns the level above the one containing points, or nil at the top
func (l Ladder) Next(points int) *domain.TierLevel {
	if points < 0 {
		points = 0
	}
	for i := range l.Levels {
		if l.Levels[i].MinPoints > points {
			next := l.Levels[i]
			return &next
		}
	}
	return nil
}

// Progress reports how far points has advanced through the current level
func (l Ladder) Progress(points int) domain.TierProgress {
	current := l.Level(points)
	next := l.Next(points)
	if next == nil {
		return domain.TierProgress{
			Current:    points,
			Target:     current.MinPoints,
			Percentage: 100,
			Remaining:  0,
			Level:      current,
		}
	}

	clamped := points
	if clamped < 0 {
		clamped = 0
	}
	span := next.MinPoints - current.MinPoints
	into := clamped - current.MinPoints
	return domain.TierProgress{
		Current:    into,
		Target:     span,
		Percentage: float64(into) / float64(span) * 100,
		Remaining:  next.MinPoints - clamped,
		Level:      current,
		Next:       next,
	}
}
