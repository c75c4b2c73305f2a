// Package preview inspects generated markup for display purposes. It never
// rejects or rewrites the document.
package preview

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Summary describes a generated HTML document.
type Summary struct {
	Title           string   `json:"title"`
	InlineStyles    int      `json:"inline_styles"`
	InlineScripts   int      `json:"inline_scripts"`
	ExternalAssets  []string `json:"external_assets,omitempty"`
	InteractiveTags int      `json:"interactive_tags"`
	ImagesNoAlt     int      `json:"images_without_alt"`
}

// SelfContained reports whether the document references no external
// stylesheet or script.
func (s *Summary) SelfContained() bool {
	return len(s.ExternalAssets) == 0
}

// Summarize parses code leniently; the HTML parser accepts any input.
func Summarize(code string) (*Summary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(code))
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	doc.Find("style").Each(func(_ int, _ *goquery.Selection) {
		s.InlineStyles++
	})
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok && strings.TrimSpace(src) != "" {
			s.ExternalAssets = append(s.ExternalAssets, src)
			return
		}
		s.InlineScripts++
	})
	doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && strings.TrimSpace(href) != "" {
			s.ExternalAssets = append(s.ExternalAssets, href)
		}
	})
	s.InteractiveTags = doc.Find("button,input,select,textarea,a[href]").Length()
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		if _, ok := sel.Attr("alt"); !ok {
			s.ImagesNoAlt++
		}
	})
	return s, nil
}
