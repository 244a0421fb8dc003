package draftpicks

import (
	"context"
	"errors"
	"testing"
	"time"

	"draftflow/lib/scrapers/wikidraft"
	"draftflow/lib/testutil"
	"draftflow/services/draftpicks/db"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type fakeFetcher struct {
	calls int
	picks []wikidraft.Pick
	err   error
}

func (f *fakeFetcher) FetchYear(ctx context.Context, year int) ([]wikidraft.Pick, error) {
	f.calls++
	return f.picks, f.err
}

func fixturePicks(t *testing.T) []wikidraft.Pick {
	return []wikidraft.Pick{
		{Number: 1, Team: "Dallas Cowboys", Player: testutil.RandomPlayer(t), College: "Ohio State"},
		{Number: 2, Team: "Chicago Bears", Player: testutil.RandomPlayer(t), College: "Michigan"},
		{Number: 3, Team: "NY Giants", Player: testutil.RandomPlayer(t), College: "Alabama"},
	}
}

func TestPicksCaching(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/draftpicks",
		DbSchema: db.Schema,
	})
	defer cleanup()

	fetcher := &fakeFetcher{picks: fixturePicks(t)}
	service := NewService(setup.DB, fetcher)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	first, err := service.Picks(ctx, 2025, false)
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls)
	require.Empty(t, cmp.Diff(fetcher.picks, first))

	// second run hits the cache
	second, err := service.Picks(ctx, 2025, false)
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls)
	require.Empty(t, cmp.Diff(first, second))

	// refresh forces a re-scrape
	third, err := service.Picks(ctx, 2025, true)
	require.NoError(t, err)
	require.Equal(t, 2, fetcher.calls)
	require.Empty(t, cmp.Diff(first, third))
}

func TestPicksYearsAreIndependent(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/draftpicks",
		DbSchema: db.Schema,
	})
	defer cleanup()

	fetcher := &fakeFetcher{picks: fixturePicks(t)}
	service := NewService(setup.DB, fetcher)

	ctx := context.Background()

	_, err := service.Picks(ctx, 2024, false)
	require.NoError(t, err)
	_, err = service.Picks(ctx, 2025, false)
	require.NoError(t, err)
	require.Equal(t, 2, fetcher.calls)

	cached, err := service.Picks(ctx, 2024, false)
	require.NoError(t, err)
	require.Equal(t, 2, fetcher.calls)
	require.Len(t, cached, 3)
}

func TestPicksFetchErrorPropagates(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/draftpicks",
		DbSchema: db.Schema,
	})
	defer cleanup()

	fetchErr := &wikidraft.FetchError{Year: 2025, Url: "http://example.com", Err: errors.New("boom")}
	fetcher := &fakeFetcher{err: fetchErr}
	service := NewService(setup.DB, fetcher)

	_, err := service.Picks(context.Background(), 2025, false)
	require.Error(t, err)

	var asFetch *wikidraft.FetchError
	require.True(t, errors.As(err, &asFetch))

	// a failed fetch leaves nothing cached
	rows, err := db.New(setup.DB).GetPicksForYear(context.Background(), 2025)
	require.NoError(t, err)
	require.Empty(t, rows)
}
