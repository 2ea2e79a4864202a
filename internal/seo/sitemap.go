package seo

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URLEntry is one <url> of a sitemap.
type URLEntry struct {
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod"`
	ChangeFreq string   `xml:"changefreq"`
	Priority   Priority `xml:"priority"`
}

// Priority is a sitemap priority, always written with one decimal.
type Priority float64

// MarshalXML implements xml.Marshaler.
func (p Priority) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return e.EncodeElement(strconv.FormatFloat(float64(p), 'f', 1, 64), start)
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []URLEntry `xml:"url"`
}

// Sitemap renders the storefront sitemap: a single daily entry for the site
// root.
func Sitemap(siteURL string, now time.Time) ([]byte, error) {
	set := urlSet{
		XMLNS: sitemapNS,
		URLs: []URLEntry{{
			Loc:        siteURL,
			LastMod:    now.UTC().Format(time.RFC3339),
			ChangeFreq: "daily",
			Priority:   1.0,
		}},
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
