package scraper

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/realmeupdater/realme-updates-tracker/internal/update"
)

// Selectors for the support page's software list. The page has kept these
// class names stable across redesigns.
const (
	selectorItems     = "div.software-items div.software-item"
	selectorTitle     = "h3.software-mobile-title"
	selectorTitleLink = "h3.software-mobile-title a"
	selectorSystem    = "div.software-system"
	selectorField     = "div.software-field"
	selectorFieldSpan = "span"
	selectorDownload  = "div.software-download a.software-button"
	selectorLog       = "div.software-log"

	downloadAttr = "data-href"
)

// Position of the size field, whose value sits in a nested span rather than
// the field's own text.
const sizeFieldIndex = 2

// ParseItems selects every software item block out of a support page
// document. An empty page (no software list) returns an error, since that
// means the selectors no longer match and every region would diff to empty.
func ParseItems(html []byte) ([]update.RawItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	blocks := doc.Find(selectorItems)
	if blocks.Length() == 0 {
		return nil, fmt.Errorf("no software items found")
	}

	items := make([]update.RawItem, 0, blocks.Length())
	blocks.Each(func(_ int, block *goquery.Selection) {
		items = append(items, parseItem(block))
	})
	return items, nil
}

func parseItem(block *goquery.Selection) update.RawItem {
	item := update.RawItem{
		Title:  block.Find(selectorTitle).Text(),
		System: block.Find(selectorSystem).Text(),
	}

	if link, ok := block.Find(selectorTitleLink).Attr("href"); ok {
		item.TitleLink = link
	}

	block.Find(selectorField).Each(func(i int, field *goquery.Selection) {
		text := field.Text()
		if i == sizeFieldIndex {
			if span := field.Find(selectorFieldSpan); span.Length() > 0 {
				text = span.Text()
			}
		}
		item.Fields = append(item.Fields, text)
	})

	// The download link is a required attribute; its absence is handled
	// downstream, not here.
	item.Download = block.Find(selectorDownload).AttrOr(downloadAttr, "")

	item.Changelog = changelogText(block.Find(selectorLog))
	return item
}

// changelogText flattens the changelog node into newline-separated lines with
// per-line trimming, dropping blanks. Mirrors how the page interleaves text
// nodes and <br> runs.
func changelogText(log *goquery.Selection) string {
	if log.Length() == 0 {
		return ""
	}
	var lines []string
	for _, raw := range strings.Split(log.Text(), "\n") {
		line := strings.TrimSpace(raw)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
