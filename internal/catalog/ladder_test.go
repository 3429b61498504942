package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyseas/pointtracker/internal/domain"
)

func TestLadders_ContiguousAndNonOverlapping(t *testing.T) {
	c := Default()

	for _, program := range c.Programs() {
		t.Run(program, func(t *testing.T) {
			ladder, ok := c.Ladder(program)
			require.True(t, ok)
			require.NotEmpty(t, ladder.Levels)

			assert.Equal(t, 0, ladder.Levels[0].MinPoints)
			for i := 1; i < len(ladder.Levels); i++ {
				assert.Equal(t, ladder.Levels[i-1].MaxPoints+1, ladder.Levels[i].MinPoints)
			}
			assert.Equal(t, domain.Unbounded, ladder.Levels[len(ladder.Levels)-1].MaxPoints)

			// every point value lands in exactly one level
			samples := []int{0, 1}
			for _, l := range ladder.Levels {
				samples = append(samples, l.MinPoints-1, l.MinPoints, l.MinPoints+1)
			}
			samples = append(samples, 1_000_000)
			for _, p := range samples {
				if p < 0 {
					continue
				}
				matches := 0
				for _, l := range ladder.Levels {
					if l.Contains(p) {
						matches++
					}
				}
				assert.Equal(t, 1, matches, "points=%d", p)
				assert.True(t, ladder.Level(p).Contains(p), "points=%d", p)
			}
		})
	}
}

func TestLadder_Level(t *testing.T) {
	c := Default()
	ladder, _ := c.Ladder(ProgramClubRoyale)

	tests := []struct {
		points int
		want   string
	}{
		{-5, "CHOICE"},
		{0, "CHOICE"},
		{2499, "CHOICE"},
		{2500, "PRIME"},
		{24999, "PRIME"},
		{25000, "SIGNATURE"},
		{99999, "SIGNATURE"},
		{100000, "MASTERS"},
		{5_000_000, "MASTERS"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ladder.Level(tt.points).Name, "points=%d", tt.points)
	}
}

func TestLadder_Progress(t *testing.T) {
	c := Default()
	ladder, _ := c.Ladder(ProgramClubRoyale)

	t.Run("mid level", func(t *testing.T) {
		p := ladder.Progress(1250)
		assert.Equal(t, 1250, p.Current)
		assert.Equal(t, 2500, p.Target)
		assert.InDelta(t, 50.0, p.Percentage, 1e-9)
		assert.Equal(t, 1250, p.Remaining)
		assert.Equal(t, "CHOICE", p.Level.Name)
		require.NotNil(t, p.Next)
		assert.Equal(t, "PRIME", p.Next.Name)
	})

	t.Run("top level", func(t *testing.T) {
		p := ladder.Progress(150000)
		assert.Equal(t, 150000, p.Current)
		assert.Equal(t, 100000, p.Target)
		assert.Equal(t, 100.0, p.Percentage)
		assert.Equal(t, 0, p.Remaining)
		assert.Nil(t, p.Next)
	})
}
