package wikidraft

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"draftflow/lib/htmlutil"
	"draftflow/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/wikidraft")

const DefaultBaseUrl = "https://en.wikipedia.org/wiki"

// Pick is one selection row scraped from a draft page, in source order.
type Pick struct {
	Number  int
	Team    string
	Player  string
	College string
}

// FetchError means the draft page could not be retrieved at all.
type FetchError struct {
	Year int
	Url  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("FetchError: could not retrieve draft page for %d (%s): %s", e.Year, e.Url, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the page was retrieved but no table with the expected
// pick/team/player/college shape was found in it.
type ParseError struct {
	Year   int
	Url    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ParseError: %s (year %d, %s)", e.Reason, e.Year, e.Url)
}

type ClientOptions struct {
	// BaseUrl defaults to the Wikipedia wiki root.
	BaseUrl string
}

type Client struct {
	http    *resty.Client
	baseUrl string
}

func NewClient(opts ClientOptions) Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}

	client := resty.New()
	client.SetHeader("user-agent", "Mozilla/5.0 (compatible; draftflow/1.0)")
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "scrapers/wikidraft/http")

	return Client{
		http:    client,
		baseUrl: baseUrl,
	}
}

// FetchYear retrieves the draft page for a year and extracts its pick
// rows in source order.
func (c Client) FetchYear(ctx context.Context, year int) ([]Pick, error) {
	ctx, span := tracer.Start(ctx, "FetchYear")
	defer span.End()
	span.SetAttributes(attribute.Int("year", year))

	link := fmt.Sprintf("%s/%d_NFL_Draft", c.baseUrl, year)

	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, &FetchError{Year: year, Url: link, Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad status")
		return nil, &FetchError{Year: year, Url: link, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unparseable body")
		return nil, &ParseError{Year: year, Url: link, Reason: err.Error()}
	}

	picks := extractPicks(doc)
	if len(picks) == 0 {
		err := &ParseError{
			Year:   year,
			Url:    link,
			Reason: "no draft table with pick, team, player and college columns",
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "no draft table")
		return nil, err
	}

	span.SetAttributes(attribute.Int("picks", len(picks)))
	return picks, nil
}

type columnLayout struct {
	pick    int
	team    int
	player  int
	college int
}

// resolveColumns maps a header row to column indices. Wikipedia uses a
// handful of header spellings across years, the accepted set mirrors what
// the draft pages have actually shipped.
func resolveColumns(header *goquery.Selection) (columnLayout, bool) {
	layout := columnLayout{pick: -1, team: -1, player: -1, college: -1}

	header.Children().Each(func(i int, cell *goquery.Selection) {
		name := strings.ToLower(htmlutil.StripFootnotes(htmlutil.CellText(cell)))
		switch {
		case layout.pick < 0 &&
			(strings.Contains(name, "pick") ||
				strings.Contains(name, "overall") ||
				strings.Contains(name, "selection")):
			layout.pick = i
		case layout.player < 0 && strings.Contains(name, "player"):
			layout.player = i
		case layout.college < 0 &&
			(strings.Contains(name, "college") ||
				strings.Contains(name, "school") ||
				strings.Contains(name, "university")):
			layout.college = i
		case layout.team < 0 &&
			(strings.Contains(name, "team") ||
				strings.Contains(name, "club") ||
				name == "to"):
			layout.team = i
		}
	})

	ok := layout.player >= 0 && layout.college >= 0 && layout.team >= 0
	return layout, ok
}

// extractPicks walks every wikitable on the page and concatenates the
// rows of those that have the draft pick shape. Duplicate pick numbers
// (the same selection listed in more than one table) keep their first
// occurrence.
func extractPicks(doc *goquery.Document) []Pick {
	var picks []Pick
	seen := map[int]bool{}

	doc.Find("table.wikitable").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}

		layout, ok := resolveColumns(rows.First())
		if !ok {
			return
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := row.Children().Filter("td, th")

			player := htmlutil.CellText(cells.Eq(layout.player))
			college := htmlutil.StripFootnotes(htmlutil.CellText(cells.Eq(layout.college)))
			team := htmlutil.StripAnnotations(htmlutil.StripFootnotes(htmlutil.CellText(cells.Eq(layout.team))))
			if player == "" || college == "" || team == "" {
				return
			}

			number := len(picks) + 1
			if layout.pick >= 0 {
				raw := htmlutil.StripFootnotes(htmlutil.CellText(cells.Eq(layout.pick)))
				parsed, err := strconv.Atoi(raw)
				if err != nil || parsed <= 0 {
					// subheader or annotation row
					return
				}
				// dedupe only applies to real pick numbers, a
				// synthetic ordinal never shadows another row
				if seen[parsed] {
					return
				}
				seen[parsed] = true
				number = parsed
			}

			picks = append(picks, Pick{
				Number:  number,
				Team:    team,
				Player:  player,
				College: college,
			})
		})
	})

	return picks
}
