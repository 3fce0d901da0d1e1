package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/abelbrown/qkart/internal/catalog"
	"github.com/abelbrown/qkart/internal/config"
	"github.com/abelbrown/qkart/internal/ui"
)

func newClient(cfg *config.Config) *catalog.Client {
	return catalog.NewClient(cfg.API.Endpoint, catalog.Options{
		Timeout:     cfg.RequestTimeout(),
		SearchRate:  rate.Limit(cfg.Search.RatePerSecond),
		SearchBurst: cfg.Search.Burst,
	})
}

// fetchAllCmd adapts Client.FetchAll to the UI's command shape.
func fetchAllCmd(ctx context.Context, c *catalog.Client) func(seq uint64) tea.Cmd {
	return func(seq uint64) tea.Cmd {
		return func() tea.Msg {
			items, err := c.FetchAll(ctx)
			return ui.CatalogLoaded{Seq: seq, Items: items, Err: err}
		}
	}
}

// searchCmd adapts Client.Search to the UI's command shape.
func searchCmd(ctx context.Context, c *catalog.Client) func(seq uint64, query string) tea.Cmd {
	return func(seq uint64, query string) tea.Cmd {
		return func() tea.Msg {
			items, err := c.Search(ctx, query)
			return ui.SearchResolved{Seq: seq, Query: query, Items: items, Err: err}
		}
	}
}
