// Package hospitals filters the hospital card list by free text.
package hospitals

import (
	"fmt"
	"strings"
)

// Record is one hospital as served by the upstream HMS.
type Record struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Load          string `json:"load"`
	AvailableBeds int    `json:"available_beds"`
	TotalBeds     int    `json:"total_beds"`
}

// Card is a hospital as displayed, with its visibility under the current
// filter.
type Card struct {
	Record
	Visible bool
}

// Text returns everything a card shows, in display order.
func Text(r Record) string {
	parts := []string{r.Name}
	if r.Address != "" {
		parts = append(parts, r.Address)
	}
	if r.Phone != "" {
		parts = append(parts, r.Phone)
	}
	if r.Load != "" {
		parts = append(parts, "Emergency load: "+r.Load)
	}
	parts = append(parts, fmt.Sprintf("Beds: %d / %d", r.AvailableBeds, r.TotalBeds))
	return strings.Join(parts, "\n")
}

// Matches reports whether the card text contains query, ignoring case.
func Matches(r Record, query string) bool {
	return strings.Contains(strings.ToLower(Text(r)), strings.ToLower(query))
}

// Filter marks each record visible or hidden. Order is preserved and nothing
// is ranked; an empty query shows everything.
func Filter(records []Record, query string) []Card {
	cards := make([]Card, len(records))
	for i, r := range records {
		cards[i] = Card{Record: r, Visible: Matches(r, query)}
	}
	return cards
}

// VisibleCount counts the cards left visible.
func VisibleCount(cards []Card) int {
	n := 0
	for _, c := range cards {
		if c.Visible {
			n++
		}
	}
	return n
}
