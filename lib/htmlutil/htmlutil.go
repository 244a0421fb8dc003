package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText returns the concatenated text content of a node and all of its
// descendants.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)
var bracketFootnote = regexp.MustCompile(`\s*\[[^\]]*\]`)
var parenAnnotation = regexp.MustCompile(`\s*\([^)]*\)`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CellText extracts the normalized text of a table cell: non-printable
// runes dropped, inner whitespace collapsed, ends trimmed. Wikipedia cells
// frequently carry non-breaking spaces and newline-separated markup.
func CellText(sel *goquery.Selection) string {
	var name string
	for _, n := range sel.Nodes {
		name += GetText(n)
	}
	name = strings.ReplaceAll(name, "\u00a0", " ")
	name = removeNonPrintable(name)
	name = strings.Trim(name, " \t\n")
	return innerWhitespace.ReplaceAllString(name, " ")
}

// StripFootnotes removes bracketed reference markers like "[a]" or "[12]".
func StripFootnotes(s string) string {
	return strings.TrimSpace(bracketFootnote.ReplaceAllString(s, ""))
}

// StripAnnotations removes trailing parenthesized notes, e.g. the
// "(from Bears)" trade annotations on team cells.
func StripAnnotations(s string) string {
	return strings.TrimSpace(parenAnnotation.ReplaceAllString(s, ""))
}
