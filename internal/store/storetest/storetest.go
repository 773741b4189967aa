// Package storetest opens throwaway SQLite-backed stores for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"fjacquet/agri-potential/internal/config"
	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/store"

	"github.com/stretchr/testify/require"
)

// New opens a migrated store on a SQLite file inside t.TempDir and closes it
// when the test ends.
func New(t testing.TB) *store.Store {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "agri.db"),
	}
	s, err := store.Open(context.Background(), cfg, logging.NewDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// PaymentCount returns the number of named payment rows stored for year.
func PaymentCount(t testing.TB, s *store.Store, year int) int64 {
	t.Helper()
	rows, err := s.AggregateBeneficiaries(context.Background(), year)
	require.NoError(t, err)
	var n int64
	for _, r := range rows {
		n += r.PaymentCount
	}
	return n
}

// MatchCount returns the number of match rows stored for year.
func MatchCount(t testing.TB, s *store.Store, year int) int {
	t.Helper()
	matches, err := s.ListMatches(context.Background(), year)
	require.NoError(t, err)
	return len(matches)
}
