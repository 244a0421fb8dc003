package sankey

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"strings"

	"draftflow/lib/fsutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// plotly figure payload, matching the shape plotly.js expects for a
// sankey trace.
type figureNode struct {
	Pad       int        `json:"pad"`
	Thickness int        `json:"thickness"`
	Line      figureLine `json:"line"`
	Label     []string   `json:"label"`
	Color     []string   `json:"color"`
}

type figureLine struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

type figureLink struct {
	Source        []int    `json:"source"`
	Target        []int    `json:"target"`
	Value         []int    `json:"value"`
	Color         []string `json:"color"`
	Customdata    []string `json:"customdata"`
	Hovertemplate string   `json:"hovertemplate"`
}

type figureTrace struct {
	Type        string     `json:"type"`
	Arrangement string     `json:"arrangement"`
	Node        figureNode `json:"node"`
	Link        figureLink `json:"link"`
}

type figureLayout struct {
	Title      map[string]any `json:"title"`
	Font       map[string]any `json:"font"`
	Hoverlabel map[string]any `json:"hoverlabel"`
	Margin     map[string]any `json:"margin"`
}

type figure struct {
	Data   []figureTrace `json:"data"`
	Layout figureLayout  `json:"layout"`
}

func (d *Document) figure() figure {
	trace := figureTrace{
		Type:        "sankey",
		Arrangement: "snap",
		Node: figureNode{
			Pad:       15,
			Thickness: 18,
			Line:      figureLine{Color: "black", Width: 0.3},
		},
		Link: figureLink{
			Hovertemplate: "%{customdata}<extra></extra>",
		},
	}
	for _, n := range d.Nodes {
		trace.Node.Label = append(trace.Node.Label, n.Label)
		trace.Node.Color = append(trace.Node.Color, n.Color)
	}
	for _, l := range d.Links {
		trace.Link.Source = append(trace.Link.Source, l.Source)
		trace.Link.Target = append(trace.Link.Target, l.Target)
		trace.Link.Value = append(trace.Link.Value, l.Value)
		trace.Link.Color = append(trace.Link.Color, l.Color)
		trace.Link.Customdata = append(trace.Link.Customdata, l.Hover)
	}

	return figure{
		Data: []figureTrace{trace},
		Layout: figureLayout{
			Title:      map[string]any{"text": d.Title},
			Font:       map[string]any{"size": 12},
			Hoverlabel: map[string]any{"align": "left"},
			Margin:     map[string]any{"l": 10, "r": 10, "t": 60, "b": 10},
		},
	}
}

var pageTemplate = template.Must(template.New("sankey").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.PageTitle}}</title>
<script src="https://cdn.plot.ly/plotly-2.32.0.min.js" charset="utf-8"></script>
</head>
<body>
<div id="sankey" style="width:100%;height:100vh;"></div>
<script>
var figure = {{.Figure}};
Plotly.newPlot("sankey", figure.data, figure.layout, {responsive: true});
</script>
</body>
</html>
`))

// Marshal renders the self-contained HTML page. Plotly.js itself loads
// from CDN, everything data lives inline.
func (d *Document) Marshal() ([]byte, error) {
	payload, err := json.Marshal(d.figure())
	if err != nil {
		return nil, err
	}

	// the chart title carries <br>/<sup> markup for plotly, the browser
	// tab title only wants the leading text
	pageTitle := d.Title
	if idx := strings.Index(pageTitle, "<br>"); idx >= 0 {
		pageTitle = pageTitle[:idx]
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, struct {
		PageTitle string
		Figure    template.JS
	}{
		PageTitle: pageTitle,
		Figure:    template.JS(payload),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export writes the HTML artifact atomically: either the full document
// lands at path or nothing does.
func (d *Document) Export(ctx context.Context, path string) error {
	ctx, span := tracer.Start(ctx, "Export")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	contents, err := d.Marshal()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal failed")
		return &fsutil.WriteError{Path: path, Err: err}
	}
	if err := fsutil.WriteFileAtomic(path, contents); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return err
	}
	return nil
}
