package aggregate

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"draftflow/lib/fsutil"
)

// PlayerDelimiter joins player names inside the single `players` CSV
// field. A delimiter or backslash occurring in a name itself is
// backslash-escaped on write and unescaped on read.
const PlayerDelimiter = ";"

var csvHeader = []string{"college", "nfl_team", "count", "players"}

// MarshalCSV renders the counts table. Output is byte-identical for
// identical input, the edges carry their own deterministic order.
func MarshalCSV(edges []EdgeCount) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, e := range edges {
		record := []string{
			e.College,
			e.Team,
			strconv.Itoa(e.Count),
			joinPlayers(e.Players),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV persists the counts table atomically, a failed write leaves no
// file at the destination.
func WriteCSV(path string, edges []EdgeCount) error {
	contents, err := MarshalCSV(edges)
	if err != nil {
		return &fsutil.WriteError{Path: path, Err: err}
	}
	return fsutil.WriteFileAtomic(path, contents)
}

func joinPlayers(players []string) string {
	escaped := make([]string, len(players))
	for i, name := range players {
		name = strings.ReplaceAll(name, `\`, `\\`)
		escaped[i] = strings.ReplaceAll(name, PlayerDelimiter, `\`+PlayerDelimiter)
	}
	return strings.Join(escaped, PlayerDelimiter)
}

// splitPlayers splits on the delimiter but honors backslash escapes
// written by joinPlayers.
func splitPlayers(field string) []string {
	var players []string
	var current strings.Builder
	escape := false
	for _, r := range field {
		switch {
		case escape:
			current.WriteRune(r)
			escape = false
		case r == '\\':
			escape = true
		case r == rune(PlayerDelimiter[0]):
			players = append(players, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	players = append(players, current.String())
	return players
}

// ReadCSV parses a counts table written by WriteCSV back into edges.
func ReadCSV(path string) ([]EdgeCount, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse %s: missing header", path)
	}
	if strings.Join(records[0], ",") != strings.Join(csvHeader, ",") {
		return nil, fmt.Errorf(
			"parse %s: unexpected header %q",
			path, strings.Join(records[0], ","),
		)
	}

	var edges []EdgeCount
	for i, record := range records[1:] {
		count, err := strconv.Atoi(record[2])
		if err != nil || count < 1 {
			return nil, fmt.Errorf("parse %s: bad count on row %d: %q", path, i+2, record[2])
		}
		players := splitPlayers(record[3])
		if len(players) != count {
			return nil, fmt.Errorf(
				"parse %s: row %d has count %d but %d players",
				path, i+2, count, len(players),
			)
		}
		edges = append(edges, EdgeCount{
			College: record[0],
			Team:    record[1],
			Count:   count,
			Players: players,
		})
	}
	return edges, nil
}
