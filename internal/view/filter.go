// Package view derives what the shell displays from store state. Nothing
// here has side effects.
package view

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/grocery/internal/model"
)

// Filter returns the items whose label contains query, ignoring case, in
// their original order. An empty query keeps every item. The result never
// aliases items.
func Filter(items []model.Item, query string) []model.Item {
	out := make([]model.Item, 0, len(items))
	q := strings.ToLower(query)
	for _, it := range items {
		if q == "" || strings.Contains(strings.ToLower(it.Label), q) {
			out = append(out, it)
		}
	}
	return out
}

// CountLabel is the footer text for n items.
func CountLabel(n int) string {
	if n == 1 {
		return "1 Item Only"
	}
	return fmt.Sprintf("%d Items", n)
}

// Stats counts checked and still-pending items.
func Stats(items []model.Item) (checked, pending int) {
	for _, it := range items {
		if it.Checked {
			checked++
		} else {
			pending++
		}
	}
	return
}

// Group splits items into unchecked and checked, keeping order inside each.
func Group(items []model.Item) (pending, checked []model.Item) {
	for _, it := range items {
		if it.Checked {
			checked = append(checked, it)
		} else {
			pending = append(pending, it)
		}
	}
	return
}
