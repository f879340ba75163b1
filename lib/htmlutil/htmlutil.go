// Package htmlutil holds small helpers shared by the page extractors.
package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

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

func RemoveNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || c == '\n' || c == '\t' {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CollapseWhitespace trims a string and squashes inner whitespace runs into
// single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanInline prepares element text for display: non-printables stripped,
// whitespace collapsed.
func CleanInline(s string) string {
	s = RemoveNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	s = innerWhitespace.ReplaceAllString(s, " ")
	return s
}

// FirstHTTPLink returns the href of the first anchor in the document whose
// target carries an explicit http/https scheme, or "" when there is none.
func FirstHTTPLink(doc *goquery.Document) string {
	href := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		target := sel.AttrOr("href", "")
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			href = target
			return false
		}
		return true
	})
	return href
}

// FirstImageAlt returns the alt text of the first image element carrying a
// non-empty alt attribute, or "" when there is none.
func FirstImageAlt(doc *goquery.Document) string {
	alt := ""
	doc.Find("img[alt]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		value := strings.TrimSpace(sel.AttrOr("alt", ""))
		if value != "" {
			alt = value
			return false
		}
		return true
	})
	return alt
}
