// Package ui provides the Bubble Tea TUI for QKart.
package ui

import "github.com/abelbrown/qkart/internal/catalog"

// CatalogLoaded is sent when the initial full-catalog fetch finishes.
type CatalogLoaded struct {
	Seq   uint64 // lookup sequence number, see search.Debouncer
	Items []catalog.Item
	Err   error
}

// SearchResolved is sent when a dispatched search lookup finishes.
type SearchResolved struct {
	Seq   uint64
	Query string
	Items []catalog.Item
	Err   error // catalog.ErrNotFound when nothing matched
}
