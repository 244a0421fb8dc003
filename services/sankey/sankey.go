package sankey

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"draftflow/pkg/branding"
	"draftflow/services/aggregate"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/sankey")

// RenderError means there is nothing valid to visualize.
type RenderError struct {
	Reason string
}

func (e *RenderError) Error() string {
	return "RenderError: " + e.Reason
}

type Node struct {
	Label string
	Color string
}

// Link references nodes by index into Document.Nodes.
type Link struct {
	Source int
	Target int
	Value  int
	Color  string
	Hover  string
}

// Document is the fully-resolved flow diagram, ready to serialize.
type Document struct {
	Title string
	Nodes []Node
	Links []Link
}

const linkAlpha = 0.45

// hexToRGBA converts "#RRGGBB" to a translucent "rgba(r,g,b,a)" so links
// show through each other. Malformed colors fall back to neutral gray.
func hexToRGBA(hexStr string, alpha float64) string {
	a := strconv.FormatFloat(alpha, 'g', -1, 64)

	s := strings.TrimPrefix(strings.TrimSpace(hexStr), "#")
	if len(s) != 6 {
		return fmt.Sprintf("rgba(102,102,102,%s)", a)
	}
	rgb, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Sprintf("rgba(102,102,102,%s)", a)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", rgb>>16, (rgb>>8)&0xFF, rgb&0xFF, a)
}

// Title renders the chart heading for a year and conference filter mode.
func Title(year int, confs string) string {
	label := "Big Ten & SEC"
	switch strings.ToLower(confs) {
	case "bigten":
		label = "Big Ten"
	case "sec":
		label = "SEC"
	}
	return fmt.Sprintf(
		"From Saturdays to Sundays: %s in the %d NFL Draft<br><sup>Data: Wikipedia NFL Draft Pages</sup>",
		label, year,
	)
}

// Build assembles the flow document from the counts table: colleges and
// teams become nodes in first-seen order, every edge becomes a weighted
// link with its player list as hover text.
func Build(ctx context.Context, edges []aggregate.EdgeCount, book *branding.Book, title string) (*Document, error) {
	ctx, span := tracer.Start(ctx, "Build")
	defer span.End()

	if len(edges) == 0 {
		err := &RenderError{Reason: "empty edge set, nothing to visualize"}
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty edge set")
		return nil, err
	}

	doc := &Document{Title: title}

	collegeIndex := map[string]int{}
	for _, e := range edges {
		if _, ok := collegeIndex[e.College]; ok {
			continue
		}
		collegeIndex[e.College] = len(doc.Nodes)
		doc.Nodes = append(doc.Nodes, Node{
			Label: e.College,
			Color: book.CollegeColor(e.College),
		})
	}
	teamIndex := map[string]int{}
	for _, e := range edges {
		if _, ok := teamIndex[e.Team]; ok {
			continue
		}
		teamIndex[e.Team] = len(doc.Nodes)
		doc.Nodes = append(doc.Nodes, Node{
			Label: e.Team,
			Color: book.TeamColor(e.Team),
		})
	}

	for _, e := range edges {
		hover := fmt.Sprintf(
			"%s → %s<br>%s",
			e.College, e.Team,
			strings.Join(e.Players, "<br>"),
		)
		doc.Links = append(doc.Links, Link{
			Source: collegeIndex[e.College],
			Target: teamIndex[e.Team],
			Value:  e.Count,
			Color:  hexToRGBA(book.CollegeColor(e.College), linkAlpha),
			Hover:  hover,
		})
	}

	span.SetAttributes(
		attribute.Int("nodes", len(doc.Nodes)),
		attribute.Int("links", len(doc.Links)),
	)
	return doc, nil
}
