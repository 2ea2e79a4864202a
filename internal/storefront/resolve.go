package storefront

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/shonra/storefront_api/internal/models"
)

// bestMatch returns the index of the name closest to query, or -1. Exact
// case-insensitive matches win; otherwise the fuzzy match with the smallest
// edit distance.
func bestMatch(query string, names []string) int {
	query = strings.TrimSpace(query)
	if query == "" {
		return -1
	}
	for i, n := range names {
		if strings.EqualFold(n, query) {
			return i
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return -1
	}
	sort.Sort(ranks)
	return ranks[0].OriginalIndex
}

// ResolveCategory maps a category id or name to its id. "all" and blank
// resolve to the all pseudo-category.
func ResolveCategory(query string, categories []models.Category) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" || strings.EqualFold(query, models.AllCategory) {
		return models.AllCategory, true
	}
	names := make([]string, len(categories))
	for i, c := range categories {
		if strconv.Itoa(c.ID) == query {
			return query, true
		}
		names[i] = c.Name
	}
	if i := bestMatch(query, names); i >= 0 {
		return strconv.Itoa(categories[i].ID), true
	}
	return "", false
}

// ResolveTag maps a tag id or name to its id.
func ResolveTag(query string, tags []models.Tag) (int, bool) {
	query = strings.TrimSpace(query)
	names := make([]string, len(tags))
	for i, t := range tags {
		if strconv.Itoa(t.ID) == query {
			return t.ID, true
		}
		names[i] = t.Name
	}
	if i := bestMatch(query, names); i >= 0 {
		return tags[i].ID, true
	}
	return 0, false
}

// FilterCategories keeps the categories whose name fuzzily contains query.
func FilterCategories(query string, categories []models.Category) []models.Category {
	if strings.TrimSpace(query) == "" {
		return categories
	}
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if fuzzy.MatchNormalizedFold(query, c.Name) {
			out = append(out, c)
		}
	}
	return out
}
