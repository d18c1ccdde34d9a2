package models

import (
	"strconv"
)

// Mode tells whether a listing is offered for sale or for rent.
type Mode string

const (
	ModeSale Mode = "sale"
	ModeRent Mode = "rent"
)

// Office is the brokerage's brand and contact block.
type Office struct {
	Brand        string
	Tagline      string
	Hours        string
	Address      string
	PhoneDisplay string
	Email        string
	WhatsApp     string
}

// Quantity is an optional numeric detail. The zero value is an absent one.
type Quantity struct {
	Value float64
	Known bool
}

// Known returns a present quantity.
func Known(v float64) Quantity {
	return Quantity{Value: v, Known: true}
}

// Or renders the value, or placeholder when it is absent.
func (q Quantity) Or(placeholder string) string {
	if !q.Known {
		return placeholder
	}
	return strconv.FormatFloat(q.Value, 'f', -1, 64)
}

func (q Quantity) String() string {
	return q.Or("")
}

// Details holds the optional facts shown as badges on a card.
type Details struct {
	Dorms   Quantity
	Baths   Quantity
	AreaM2  Quantity
	Parking Quantity
}

type Property struct {
	ID         string
	Title      string
	Location   string
	Image      string
	Mode       Mode
	Price      int64 // sale price, or monthly rent for ModeRent
	Details    Details
	Highlights []string
}

// Teaser returns the first highlight, or fallback when there is none.
func (p Property) Teaser(fallback string) string {
	if len(p.Highlights) > 0 && p.Highlights[0] != "" {
		return p.Highlights[0]
	}
	return fallback
}

// ListingSet is everything one page shows.
type ListingSet struct {
	Office  Office
	Sales   []Property
	Rentals []Property
	Updated string
}

// Listings returns the sequence for the given mode.
func (s *ListingSet) Listings(mode Mode) []Property {
	if mode == ModeRent {
		return s.Rentals
	}
	return s.Sales
}
