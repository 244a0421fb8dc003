package aggregate

import (
	"context"
	"errors"
	"testing"

	"draftflow/lib/scrapers/wikidraft"
	"draftflow/pkg/branding"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func loadBook(t *testing.T) *branding.Book {
	book, err := branding.Load()
	require.NoError(t, err)
	return book
}

func TestBuildEdges(t *testing.T) {
	book := loadBook(t)

	picks := []wikidraft.Pick{
		{Number: 1, Team: "Dallas Cowboys", Player: "A. Smith", College: "Ohio State"},
		{Number: 2, Team: "Dallas Cowboys", Player: "B. Jones", College: "Ohio State"},
		{Number: 3, Team: "NY Giants", Player: "C. Lee", College: "Alabama"},
	}

	edges, err := BuildEdges(context.Background(), picks, book)
	require.NoError(t, err)

	expected := []EdgeCount{
		{College: "Ohio State", Team: "Dallas Cowboys", Count: 2, Players: []string{"A. Smith", "B. Jones"}},
		{College: "Alabama", Team: "New York Giants", Count: 1, Players: []string{"C. Lee"}},
	}
	require.Empty(t, cmp.Diff(expected, edges))
}

func TestBuildEdgesPlayerOrderFollowsPickNumber(t *testing.T) {
	book := loadBook(t)

	// out-of-order input still groups players in draft-pick order
	picks := []wikidraft.Pick{
		{Number: 20, Team: "Chicago Bears", Player: "Late Pick", College: "Michigan"},
		{Number: 5, Team: "Chicago Bears", Player: "Early Pick", College: "Michigan"},
	}

	edges, err := BuildEdges(context.Background(), picks, book)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.Equal(t, []string{"Early Pick", "Late Pick"}, edges[0].Players)
}

func TestBuildEdgesSumInvariant(t *testing.T) {
	book := loadBook(t)

	picks := []wikidraft.Pick{
		{Number: 1, Team: "Dallas Cowboys", Player: "A", College: "Ohio State"},
		{Number: 2, Team: "Chicago Bears", Player: "B", College: "Ohio State"},
		{Number: 3, Team: "NY Giants", Player: "C", College: "Alabama"},
		{Number: 4, Team: "Dallas Cowboys", Player: "D", College: "Michigan"},
		{Number: 5, Team: "Dallas Cowboys", Player: "E", College: "Ohio State"},
	}

	edges, err := BuildEdges(context.Background(), picks, book)
	require.NoError(t, err)

	total := 0
	for _, e := range edges {
		total += e.Count
		require.Len(t, e.Players, e.Count)
	}
	require.Equal(t, len(picks), total)
}

func TestBuildEdgesDeterministicOrder(t *testing.T) {
	book := loadBook(t)

	picks := []wikidraft.Pick{
		{Number: 1, Team: "Chicago Bears", Player: "A", College: "Michigan"},
		{Number: 2, Team: "NY Giants", Player: "B", College: "Alabama"},
		{Number: 3, Team: "Dallas Cowboys", Player: "C", College: "Ohio State"},
		{Number: 4, Team: "Dallas Cowboys", Player: "D", College: "Ohio State"},
	}

	edges, err := BuildEdges(context.Background(), picks, book)
	require.NoError(t, err)

	// descending count first, then college alphabetically
	require.Equal(t, "Ohio State", edges[0].College)
	require.Equal(t, 2, edges[0].Count)
	require.Equal(t, "Alabama", edges[1].College)
	require.Equal(t, "Michigan", edges[2].College)
}

func TestBuildEdgesUnmappedCollege(t *testing.T) {
	book := loadBook(t)

	picks := []wikidraft.Pick{
		{Number: 1, Team: "Dallas Cowboys", Player: "A. Smith", College: "Ohio Statee"},
	}

	_, err := BuildEdges(context.Background(), picks, book)
	require.Error(t, err)

	var unmapped *UnmappedNameError
	require.True(t, errors.As(err, &unmapped))
	require.Equal(t, "college", unmapped.Kind)
	require.Equal(t, "Ohio Statee", unmapped.Raw)
	require.Contains(t, err.Error(), "Ohio Statee")
	require.Equal(t, "Ohio State", unmapped.Suggestion)
}

func TestBuildEdgesUnmappedTeam(t *testing.T) {
	book := loadBook(t)

	picks := []wikidraft.Pick{
		{Number: 1, Team: "London Monarchs", Player: "A. Smith", College: "Ohio State"},
	}

	_, err := BuildEdges(context.Background(), picks, book)
	require.Error(t, err)

	var unmapped *UnmappedNameError
	require.True(t, errors.As(err, &unmapped))
	require.Equal(t, "nfl_team", unmapped.Kind)
	require.Equal(t, "London Monarchs", unmapped.Raw)
}

func TestFilterConferences(t *testing.T) {
	book := loadBook(t)

	picks := []wikidraft.Pick{
		{Number: 1, Team: "Dallas Cowboys", Player: "A", College: "Ohio State"},
		{Number: 2, Team: "Chicago Bears", Player: "B", College: "Alabama"},
		{Number: 3, Team: "NY Giants", Player: "C", College: "Boise State"},
	}

	both, err := FilterConferences(picks, "both", book)
	require.NoError(t, err)
	require.Len(t, both, 2)

	bigten, err := FilterConferences(picks, "bigten", book)
	require.NoError(t, err)
	require.Len(t, bigten, 1)
	require.Equal(t, "Ohio State", bigten[0].College)

	sec, err := FilterConferences(picks, "sec", book)
	require.NoError(t, err)
	require.Len(t, sec, 1)
	require.Equal(t, "Alabama", sec[0].College)

	_, err = FilterConferences(picks, "acc", book)
	require.Error(t, err)
}
