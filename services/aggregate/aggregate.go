package aggregate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"draftflow/lib/scrapers/wikidraft"
	"draftflow/pkg/branding"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/aggregate")

// EdgeCount is one (college, team) flow: how many picks went that way and
// which players, in draft-pick order.
type EdgeCount struct {
	College string
	Team    string
	Count   int
	Players []string
}

// UnmappedNameError means a scraped name has no entry in the canonical
// name tables. The row is never silently dropped, downstream color lookup
// depends on canonicalization succeeding first.
type UnmappedNameError struct {
	Kind       string // "college" or "nfl_team"
	Raw        string
	Suggestion string
}

func (e *UnmappedNameError) Error() string {
	msg := fmt.Sprintf("UnmappedNameError: no canonical %s for %q", e.Kind, e.Raw)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (closest known: %q)", e.Suggestion)
	}
	return msg
}

// closestName picks the best JaroWinkler match among known canonical
// names, for the "did you mean" part of the error. Weak matches are
// withheld rather than guessed.
func closestName(raw string, known []string) string {
	var best string
	var bestScore float64
	for _, candidate := range known {
		score := matchr.JaroWinkler(strings.ToLower(raw), strings.ToLower(candidate), false)
		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}
	if bestScore < 0.8 {
		return ""
	}
	return best
}

// FilterConferences keeps the picks whose college belongs to the selected
// conference set ("bigten", "sec" or "both"). A college that does not
// resolve to a member is outside the selected conferences and is dropped,
// this runs before canonicalization failures become hard errors.
func FilterConferences(picks []wikidraft.Pick, mode string, book *branding.Book) ([]wikidraft.Pick, error) {
	allowed, err := book.ConferenceColleges(mode)
	if err != nil {
		return nil, err
	}

	var out []wikidraft.Pick
	for _, p := range picks {
		canonical, ok := book.ResolveCollege(p.College)
		if !ok || !allowed[canonical] {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// BuildEdges canonicalizes every pick and groups them by (college, team).
// Players stay in draft-pick order within a group. The result is sorted by
// descending count, then college, then team, so identical input always
// produces identical output.
func BuildEdges(ctx context.Context, picks []wikidraft.Pick, book *branding.Book) ([]EdgeCount, error) {
	ctx, span := tracer.Start(ctx, "BuildEdges")
	defer span.End()
	span.SetAttributes(attribute.Int("picks", len(picks)))

	ordered := make([]wikidraft.Pick, len(picks))
	copy(ordered, picks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Number < ordered[j].Number
	})

	type pairKey struct {
		college string
		team    string
	}
	groups := map[pairKey]*EdgeCount{}
	var order []pairKey

	for _, p := range ordered {
		college, ok := book.ResolveCollege(p.College)
		if !ok {
			err := &UnmappedNameError{
				Kind:       "college",
				Raw:        p.College,
				Suggestion: closestName(p.College, book.KnownColleges()),
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "unmapped college")
			return nil, err
		}
		team, ok := book.ResolveTeam(p.Team)
		if !ok {
			err := &UnmappedNameError{
				Kind:       "nfl_team",
				Raw:        p.Team,
				Suggestion: closestName(p.Team, book.KnownTeams()),
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "unmapped team")
			return nil, err
		}

		key := pairKey{college: college, team: team}
		group := groups[key]
		if group == nil {
			group = &EdgeCount{College: college, Team: team}
			groups[key] = group
			order = append(order, key)
		}
		group.Count++
		group.Players = append(group.Players, strings.TrimSpace(p.Player))
	}

	edges := make([]EdgeCount, 0, len(order))
	for _, key := range order {
		edges = append(edges, *groups[key])
	}
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].Count != edges[j].Count {
			return edges[i].Count > edges[j].Count
		}
		if edges[i].College != edges[j].College {
			return edges[i].College < edges[j].College
		}
		return edges[i].Team < edges[j].Team
	})

	span.SetAttributes(attribute.Int("edges", len(edges)))
	return edges, nil
}
