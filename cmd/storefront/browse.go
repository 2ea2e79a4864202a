package main

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/shonra/storefront_api/internal/storefront"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog by category and tags",
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().String("category", "all", "Category id or name")
	browseCmd.Flags().StringSlice("tag", nil, "Tag ids or names (repeatable)")
	browseCmd.Flags().String("sort", "relevance", "Sort: relevance, price_asc, price_desc")
	browseCmd.Flags().Int("pages", 1, "Pages to load")
	browseCmd.Flags().Bool("interactive", false, "Load the next page on every Enter")
	browseCmd.Flags().Int64("seed", 0, "Shuffle seed for relevance order")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	categoryFlag, _ := cmd.Flags().GetString("category")
	tagFlags, _ := cmd.Flags().GetStringSlice("tag")
	sortFlag, _ := cmd.Flags().GetString("sort")
	pages, _ := cmd.Flags().GetInt("pages")
	interactive, _ := cmd.Flags().GetBool("interactive")
	seed, _ := cmd.Flags().GetInt64("seed")
	products := storefrontApp.Products

	state := storefront.NewViewState(seed)
	state, _ = storefront.Reduce(state, storefront.SetSort{Sort: storefront.ParseSort(sortFlag)})

	if categoryFlag != "" && categoryFlag != "all" {
		categories, err := products.GetCategories(ctx)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		id, ok := storefront.ResolveCategory(categoryFlag, categories)
		if !ok {
			return fmt.Errorf("unknown category %q", categoryFlag)
		}
		state, _ = storefront.Reduce(state, storefront.SelectCategory{ID: id})
	}
	if len(tagFlags) > 0 {
		tags, err := products.GetTags(ctx)
		if err != nil {
			return fmt.Errorf("load tags: %w", err)
		}
		for _, name := range tagFlags {
			id, ok := storefront.ResolveTag(name, tags)
			if !ok {
				return fmt.Errorf("unknown tag %q", name)
			}
			state, _ = storefront.Reduce(state, storefront.ToggleTag{ID: id})
		}
	}

	list, err := products.GetProducts(ctx, state.ActiveCategory, state.ActiveTags)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	state, _ = storefront.Reduce(state, storefront.ProductsLoaded{Products: list})

	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	shown := 0
	render := func(s storefront.ViewState) {
		visible := s.Visible()
		if format == "json" {
			_ = writeJSON(out, visible[shown:])
		} else {
			printProducts(out, visible[shown:], shown)
		}
		shown = len(visible)
	}
	render(state)

	var observer storefront.VisibilityObserver = &pageObserver{pages: pages - 1}
	if interactive {
		fmt.Fprintln(out, "\n[Enter] for more, Ctrl+D to quit")
		observer = &lineObserver{in: cmd.InOrStdin()}
	}
	pager := storefront.NewPager(state, observer, render)
	defer pager.Close()
	if o, ok := observer.(*lineObserver); ok {
		o.wait()
	}
	if !pager.State().CanLoadMore() {
		fmt.Fprintf(out, "\n%d products, end of list\n", shown)
	}
	return nil
}

// pageObserver reports the sentinel visible a fixed number of times as soon
// as it is observed.
type pageObserver struct {
	pages int
}

func (o *pageObserver) Observe(onVisible func()) func() {
	for i := 0; i < o.pages; i++ {
		onVisible()
	}
	return func() {}
}

// lineObserver reports the sentinel visible on every input line.
type lineObserver struct {
	in   io.Reader
	done chan struct{}
	once sync.Once
}

func (o *lineObserver) Observe(onVisible func()) func() {
	o.done = make(chan struct{})
	go func() {
		defer o.once.Do(func() { close(o.done) })
		scanner := bufio.NewScanner(o.in)
		for scanner.Scan() {
			select {
			case <-o.done:
				return
			default:
			}
			onVisible()
		}
	}()
	return func() { o.once.Do(func() { close(o.done) }) }
}

func (o *lineObserver) wait() {
	<-o.done
}
