package seo

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HomepageContent is the prompt sent to the AI SEO service for the homepage.
func HomepageContent(websiteName string) string {
	return fmt.Sprintf("Shopee Affiliate Platform - %s - Discover amazing deals, flash sales, and earn commissions", websiteName)
}

// InjectDescription sets the meta description and og:description of an HTML
// document. Missing tags are left missing.
func InjectDescription(html, description string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find(`meta[name="description"]`).SetAttr("content", description)
	doc.Find(`meta[property="og:description"]`).SetAttr("content", description)
	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return out, nil
}

// InjectTitle sets the document title and og:title.
func InjectTitle(html, title string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("title").SetText(title)
	doc.Find(`meta[property="og:title"]`).SetAttr("content", title)
	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return out, nil
}

// DefaultDescription is served when AI SEO is disabled or fails.
const DefaultDescription = "Shop the best Shopee deals, flash sales and trending products."

// ShellHTML is the storefront document the browser app mounts into.
const ShellHTML = `<!DOCTYPE html>
<html lang="th">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>SHONRA</title>
<meta name="description" content="` + DefaultDescription + `">
<meta property="og:title" content="SHONRA">
<meta property="og:description" content="` + DefaultDescription + `">
<meta property="og:type" content="website">
</head>
<body>
<div id="root"></div>
</body>
</html>
`
