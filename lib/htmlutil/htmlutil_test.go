package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCellText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr>
			<td>  Ohio   State </td>
			<td>Penn&nbsp;State</td>
			<td><a href="#">Alabama</a><sup>[a]</sup></td>
		</tr></table>`,
	))
	require.NoError(t, err)

	cells := doc.Find("td")
	require.Equal(t, "Ohio State", CellText(cells.Eq(0)))
	require.Equal(t, "Penn State", CellText(cells.Eq(1)))
	require.Equal(t, "Alabama[a]", CellText(cells.Eq(2)))
}

func TestStripFootnotes(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"Ohio State[a]", "Ohio State"},
		{"Ohio State [12]", "Ohio State"},
		{"Ohio State", "Ohio State"},
		{"[b]Alabama", "Alabama"},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, StripFootnotes(test.in), test.in)
	}
}

func TestStripAnnotations(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"Dallas Cowboys (from Bears)", "Dallas Cowboys"},
		{"Dallas Cowboys(via trade)", "Dallas Cowboys"},
		{"Dallas Cowboys", "Dallas Cowboys"},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, StripAnnotations(test.in), test.in)
	}
}
