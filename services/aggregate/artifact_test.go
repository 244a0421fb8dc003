package aggregate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var artifactEdges = []EdgeCount{
	{College: "Ohio State", Team: "Dallas Cowboys", Count: 2, Players: []string{"A. Smith", "B. Jones"}},
	{College: "Alabama", Team: "New York Giants", Count: 1, Players: []string{"C. Lee"}},
}

func TestMarshalCSV(t *testing.T) {
	contents, err := MarshalCSV(artifactEdges)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(contents), "\n"), "\n")
	require.Equal(t, []string{
		"college,nfl_team,count,players",
		"Ohio State,Dallas Cowboys,2,A. Smith;B. Jones",
		"Alabama,New York Giants,1,C. Lee",
	}, lines)
}

func TestWriteCSVIdempotent(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	require.NoError(t, WriteCSV(first, artifactEdges))
	require.NoError(t, WriteCSV(second, artifactEdges))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.csv")
	require.NoError(t, WriteCSV(path, artifactEdges))

	parsed, err := ReadCSV(path)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(artifactEdges, parsed))
}

func TestCSVQuotesDelimiter(t *testing.T) {
	edges := []EdgeCount{
		{College: "Ohio State", Team: "Dallas Cowboys", Count: 1, Players: []string{"Smith, Jr."}},
	}

	path := filepath.Join(t.TempDir(), "counts.csv")
	require.NoError(t, WriteCSV(path, edges))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `"Smith, Jr."`)

	parsed, err := ReadCSV(path)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(edges, parsed))
}

func TestCSVEscapesPlayerDelimiter(t *testing.T) {
	edges := []EdgeCount{
		{College: "Ohio State", Team: "Dallas Cowboys", Count: 2, Players: []string{"Smith; Jr.", "B. Jones"}},
		{College: "Alabama", Team: "Chicago Bears", Count: 1, Players: []string{`O\'Neal; III`}},
	}

	path := filepath.Join(t.TempDir(), "counts.csv")
	require.NoError(t, WriteCSV(path, edges))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `Smith\; Jr.;B. Jones`)

	parsed, err := ReadCSV(path)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(edges, parsed))
}

func TestReadCSVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("college,nfl_team,count,players\nOhio State,Dallas Cowboys,two,A\n"), 0o644))

	_, err := ReadCSV(path)
	require.Error(t, err)
}
