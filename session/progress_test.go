package session_test

import (
	"testing"

	"github.com/jrsteele09/go-questpath-client/session"
	"github.com/stretchr/testify/require"
)

func TestLevelAndProgress(t *testing.T) {
	testCases := []struct {
		exp     int
		level   int
		current int
		pct     float64
	}{
		{exp: 0, level: 1, current: 0, pct: 0},
		{exp: 1, level: 1, current: 1, pct: 1},
		{exp: 99, level: 1, current: 99, pct: 99},
		{exp: 100, level: 2, current: 0, pct: 0},
		{exp: 250, level: 3, current: 50, pct: 50},
		{exp: 1999, level: 20, current: 99, pct: 99},
		{exp: -5, level: 1, current: 0, pct: 0},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.level, session.LevelFor(tc.exp), "exp %d", tc.exp)
		p := session.ProgressFor(tc.exp)
		require.Equal(t, tc.current, p.Current, "exp %d", tc.exp)
		require.Equal(t, session.ExpPerLevel, p.Needed)
		require.InDelta(t, tc.pct, p.Percentage, 1e-9, "exp %d", tc.exp)
	}
}

func TestProgressInvariants(t *testing.T) {
	for exp := 0; exp <= 1000; exp++ {
		p := session.ProgressFor(exp)
		require.GreaterOrEqual(t, p.Current, 0)
		require.Less(t, p.Current, p.Needed)
		require.GreaterOrEqual(t, p.Percentage, 0.0)
		require.Less(t, p.Percentage, 100.0)
		require.Equal(t, exp, (session.LevelFor(exp)-1)*session.ExpPerLevel+p.Current)
	}
}
