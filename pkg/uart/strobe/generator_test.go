package strobe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(g *Generator, cycles int) (strobes, ticks []int) {
	for i := 0; i < cycles; i++ {
		p := g.Clock()
		if p.Strobe {
			strobes = append(strobes, i)
		}
		if p.Tick {
			ticks = append(ticks, i)
		}
	}
	return
}

func TestGenerator(t *testing.T) {
	testCases := []struct {
		divisor, ratio uint32
		cycles         int
		strobes, ticks []int
	}{
		{1, 2, 4, []int{0, 1, 2, 3}, []int{1, 3}},
		{3, 2, 12, []int{2, 5, 8, 11}, []int{5, 11}},
		{4, 1, 8, []int{3, 7}, []int{3, 7}},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d/%d", tc.divisor, tc.ratio), func(t *testing.T) {
			g, err := New(tc.divisor, tc.ratio)
			require.NoError(t, err)
			strobes, ticks := collect(g, tc.cycles)
			require.Equal(t, tc.strobes, strobes)
			require.Equal(t, tc.ticks, ticks)
		})
	}
}

func TestGeneratorDefaultRatio(t *testing.T) {
	g, err := New(1, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(8), g.Ratio())
	_, ticks := collect(g, 16)
	require.Equal(t, []int{7, 15}, ticks)
}

func TestGeneratorInvalidDivisor(t *testing.T) {
	_, err := New(0, 1)
	require.Equal(t, ErrInvalidDivisor, err)

	g, err := New(2, 1)
	require.NoError(t, err)
	require.Equal(t, ErrInvalidDivisor, g.SetDivisor(0))
	require.Equal(t, uint32(2), g.Divisor())
}

func TestGeneratorSetDivisor(t *testing.T) {
	g, err := New(10, 1)
	require.NoError(t, err)
	collect(g, 6)
	require.NoError(t, g.SetDivisor(4))
	strobes, _ := collect(g, 8)
	require.Equal(t, []int{3, 7}, strobes)

	require.NoError(t, g.SetDivisor(8))
	g.Reset()
	strobes, _ = collect(g, 16)
	require.Equal(t, []int{7, 15}, strobes)
}
