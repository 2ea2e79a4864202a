package storefront

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/shonra/storefront_api/internal/models"
)

// PageSize is how many products one load-more step reveals.
const PageSize = 16

// SortOption orders the catalog listing.
type SortOption string

const (
	SortRelevance SortOption = "relevance"
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
)

// ParseSort maps a query value to a SortOption, defaulting to relevance.
func ParseSort(v string) SortOption {
	switch SortOption(v) {
	case SortPriceAsc, SortPriceDesc:
		return SortOption(v)
	default:
		return SortRelevance
	}
}

// ViewState is the storefront page state. Reducers never mutate it in place.
type ViewState struct {
	ActiveCategory  string
	ActiveTags      []int
	SearchQuery     string
	HasSearched     bool
	Searching       bool
	Loading         bool
	Sort            SortOption
	Seed            int64
	Products        []models.Product
	Display         []models.Product
	SearchResults   []models.Product
	ExternalResults []models.Product
	VisibleCount    int
}

// NewViewState returns the initial page state.
func NewViewState(seed int64) ViewState {
	return ViewState{
		ActiveCategory: models.AllCategory,
		Sort:           SortRelevance,
		Seed:           seed,
		VisibleCount:   PageSize,
	}
}

// Effect is work a reducer asks the caller to perform.
type Effect interface{ effect() }

// FetchProducts asks for the catalog filtered by category and tags.
type FetchProducts struct {
	CategoryID string
	TagIDs     []int
}

// RunSearch asks for a search augmentation run.
type RunSearch struct {
	Query string
}

func (FetchProducts) effect() {}
func (RunSearch) effect()     {}

// Action is a state transition.
type Action interface {
	reduce(ViewState) (ViewState, Effect)
}

// Reduce applies a to s and returns the next state and an optional effect.
func Reduce(s ViewState, a Action) (ViewState, Effect) {
	return a.reduce(s)
}

// SelectCategory switches the category filter and clears any search.
type SelectCategory struct {
	ID string
}

func (a SelectCategory) reduce(s ViewState) (ViewState, Effect) {
	next := s.clone()
	next = clearSearch(next)
	next.ActiveCategory = a.ID
	if next.ActiveCategory == "" {
		next.ActiveCategory = models.AllCategory
	}
	next.Loading = true
	return next, FetchProducts{CategoryID: next.ActiveCategory, TagIDs: next.ActiveTags}
}

// ToggleTag adds or removes a tag from the active set.
type ToggleTag struct {
	ID int
}

func (a ToggleTag) reduce(s ViewState) (ViewState, Effect) {
	next := s.clone()
	tags := make([]int, 0, len(s.ActiveTags)+1)
	found := false
	for _, id := range s.ActiveTags {
		if id == a.ID {
			found = true
			continue
		}
		tags = append(tags, id)
	}
	if !found {
		tags = append(tags, a.ID)
	}
	sort.Ints(tags)
	next.ActiveTags = tags
	next.Loading = true
	return next, FetchProducts{CategoryID: next.ActiveCategory, TagIDs: tags}
}

// SubmitSearch starts a search. A blank query only clears search results.
type SubmitSearch struct {
	Query string
}

func (a SubmitSearch) reduce(s ViewState) (ViewState, Effect) {
	next := s.clone()
	q := strings.TrimSpace(a.Query)
	if q == "" {
		next.SearchResults = nil
		next.ExternalResults = nil
		next.Searching = false
		return next, nil
	}
	next.SearchQuery = q
	next.ActiveCategory = models.AllCategory
	next.HasSearched = true
	next.Searching = true
	return next, RunSearch{Query: q}
}

// SearchCompleted stores the outcome of a search run.
type SearchCompleted struct {
	Internal []models.Product
	External []models.Product
}

func (a SearchCompleted) reduce(s ViewState) (ViewState, Effect) {
	next := s.clone()
	next.SearchResults = a.Internal
	next.ExternalResults = a.External
	next.Searching = false
	return next, nil
}

// ClearSearch leaves search mode and reloads the filtered catalog.
type ClearSearch struct{}

func (ClearSearch) reduce(s ViewState) (ViewState, Effect) {
	next := clearSearch(s.clone())
	next.Loading = true
	return next, FetchProducts{CategoryID: next.ActiveCategory, TagIDs: next.ActiveTags}
}

// ProductsLoaded installs a fresh catalog page, ordered by the current sort.
type ProductsLoaded struct {
	Products []models.Product
}

func (a ProductsLoaded) reduce(s ViewState) (ViewState, Effect) {
	next := s.clone()
	next.Products = a.Products
	next.Display = arrange(a.Products, next.Sort, next.Seed)
	next.VisibleCount = PageSize
	next.Loading = false
	return next, nil
}

// SetSort reorders the displayed catalog. Relevance reshuffles the base list.
type SetSort struct {
	Sort SortOption
}

func (a SetSort) reduce(s ViewState) (ViewState, Effect) {
	next := s.clone()
	next.Sort = a.Sort
	next.Display = arrange(s.Products, a.Sort, s.Seed)
	return next, nil
}

// LoadMore reveals the next page when more items remain and nothing else is
// in flight.
type LoadMore struct{}

func (LoadMore) reduce(s ViewState) (ViewState, Effect) {
	if !s.CanLoadMore() {
		return s, nil
	}
	next := s.clone()
	next.VisibleCount += PageSize
	return next, nil
}

// CanLoadMore reports whether a load-more step would reveal anything.
func (s ViewState) CanLoadMore() bool {
	return !s.HasSearched && !s.Loading && len(s.Display) > s.VisibleCount
}

// Visible returns what the page shows. In search mode external results win
// over internal ones; otherwise the first VisibleCount catalog items.
func (s ViewState) Visible() []models.Product {
	if s.HasSearched {
		if len(s.ExternalResults) > 0 {
			return s.ExternalResults
		}
		return s.SearchResults
	}
	n := s.VisibleCount
	if n > len(s.Display) {
		n = len(s.Display)
	}
	return s.Display[:n]
}

func (s ViewState) clone() ViewState {
	next := s
	next.ActiveTags = append([]int(nil), s.ActiveTags...)
	return next
}

func clearSearch(s ViewState) ViewState {
	s.SearchQuery = ""
	s.HasSearched = false
	s.Searching = false
	s.SearchResults = nil
	s.ExternalResults = nil
	s.VisibleCount = PageSize
	return s
}

// arrange returns a new slice ordered by opt. Relevance is a shuffle seeded by
// seed so a client can page through a stable order.
func arrange(products []models.Product, opt SortOption, seed int64) []models.Product {
	out := append([]models.Product(nil), products...)
	switch opt {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default:
		r := rand.New(rand.NewSource(seed))
		r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}
