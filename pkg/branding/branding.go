// Package branding carries the static lookup tables the pipeline depends
// on: canonical college/team names (with scraped-spelling variants), brand
// colors and conference membership. The tables are loaded once and never
// mutated afterwards.
package branding

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"draftflow/lib/configutil"

	"dario.cat/mergo"
)

//go:embed defaults.json5
var defaultsRaw []byte

// ConfigName is the optional override file read from the cwd (or any
// parent directory) on top of the embedded defaults.
const ConfigName = "branding.json5"

type Config struct {
	CollegeColors   map[string]string   `json:"college_colors"`
	TeamColors      map[string]string   `json:"team_colors"`
	CollegeVariants map[string][]string `json:"college_variants"`
	TeamVariants    map[string][]string `json:"team_variants"`
	Conferences     map[string][]string `json:"conferences"`
}

// Book is an immutable view over the branding config with normalized
// variant lookup.
type Book struct {
	collegeByVariant map[string]string
	teamByVariant    map[string]string
	collegeColors    map[string]string
	teamColors       map[string]string
	conferences      map[string][]string
}

const (
	DefaultCollegeColor = "#666666"
	DefaultTeamColor    = "#B0B0B0"
)

var foldWhitespace = regexp.MustCompile(`\s+`)

// normalizeName folds case and whitespace so scraped spellings match
// their configured variants.
func normalizeName(s string) string {
	return foldWhitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// Load parses the embedded defaults and merges an optional override file
// found by walking up from the cwd.
func Load() (*Book, error) {
	cfg, err := configutil.ParseBytes[Config](defaultsRaw)
	if err != nil {
		return nil, fmt.Errorf("parse embedded branding defaults: %w", err)
	}

	override, err := configutil.ReadRecursively[Config](ConfigName)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := mergo.Merge(&cfg, override, mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	return New(cfg), nil
}

func New(cfg Config) *Book {
	b := &Book{
		collegeByVariant: map[string]string{},
		teamByVariant:    map[string]string{},
		collegeColors:    cfg.CollegeColors,
		teamColors:       cfg.TeamColors,
		conferences:      cfg.Conferences,
	}

	for canonical := range cfg.CollegeColors {
		b.collegeByVariant[normalizeName(canonical)] = canonical
	}
	for _, members := range cfg.Conferences {
		for _, canonical := range members {
			b.collegeByVariant[normalizeName(canonical)] = canonical
		}
	}
	for canonical, variants := range cfg.CollegeVariants {
		b.collegeByVariant[normalizeName(canonical)] = canonical
		for _, v := range variants {
			b.collegeByVariant[normalizeName(v)] = canonical
		}
	}

	for canonical := range cfg.TeamColors {
		b.teamByVariant[normalizeName(canonical)] = canonical
	}
	for canonical, variants := range cfg.TeamVariants {
		b.teamByVariant[normalizeName(canonical)] = canonical
		for _, v := range variants {
			b.teamByVariant[normalizeName(v)] = canonical
		}
	}

	return b
}

// ResolveCollege maps a raw scraped college name to its canonical display
// name, matching case and whitespace insensitively.
func (b *Book) ResolveCollege(raw string) (string, bool) {
	canonical, ok := b.collegeByVariant[normalizeName(raw)]
	return canonical, ok
}

func (b *Book) ResolveTeam(raw string) (string, bool) {
	canonical, ok := b.teamByVariant[normalizeName(raw)]
	return canonical, ok
}

// CollegeColor returns the configured brand color, or a neutral fallback
// for colleges without an entry. It never fails.
func (b *Book) CollegeColor(canonical string) string {
	if color, ok := b.collegeColors[canonical]; ok {
		return color
	}
	return DefaultCollegeColor
}

func (b *Book) TeamColor(canonical string) string {
	if color, ok := b.teamColors[canonical]; ok {
		return color
	}
	return DefaultTeamColor
}

// KnownColleges lists every canonical college name, sorted, for
// "did you mean" suggestions.
func (b *Book) KnownColleges() []string {
	return sortedValues(b.collegeByVariant)
}

func (b *Book) KnownTeams() []string {
	return sortedValues(b.teamByVariant)
}

func sortedValues(m map[string]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, canonical := range m {
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}

// ConferenceColleges resolves a conference filter mode ("bigten", "sec" or
// "both") to the set of member colleges.
func (b *Book) ConferenceColleges(mode string) (map[string]bool, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))

	out := map[string]bool{}
	if mode == "both" {
		for _, members := range b.conferences {
			for _, c := range members {
				out[c] = true
			}
		}
		return out, nil
	}

	members, ok := b.conferences[mode]
	if !ok {
		var known []string
		for name := range b.conferences {
			known = append(known, name)
		}
		sort.Strings(known)
		return nil, fmt.Errorf(
			"unknown conference filter %q, expected one of: %s, both",
			mode, strings.Join(known, ", "),
		)
	}
	for _, c := range members {
		out[c] = true
	}
	return out, nil
}
