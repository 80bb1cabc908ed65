// Package restaurant holds the static venue catalog: contact details, menu
// and opening hours.
package restaurant

import (
	"fmt"

	"github.com/wolfman30/restaurant-webhook/internal/schedule"
)

// Info is the venue's public contact card.
type Info struct {
	Name    string
	Phone   string
	Email   string
	Address string
	MapsURL string
}

// ClosingHour is when the dining room closes.
const ClosingHour = 23

// Hours describes the opening window shown to guests.
type Hours struct {
	Open        string
	Close       string
	LastBooking string
}

// OpeningHours renders the booking window on a 12-hour clock.
func OpeningHours() Hours {
	return Hours{
		Open:        schedule.FormatHour(schedule.OpeningHour),
		Close:       schedule.FormatHour(ClosingHour),
		LastBooking: schedule.FormatHour(schedule.LastBookingHour),
	}
}

// Dish is a menu entry. Price is in whole currency units.
type Dish struct {
	Name  string
	Price float64
}

func (d Dish) String() string {
	return fmt.Sprintf("%s (CHF %.2f)", d.Name, d.Price)
}

// Section is a menu course. Key names the catalog message for the title.
type Section struct {
	Key    string
	Dishes []Dish
}

var menu = []Section{
	{Key: "menu.section.starters", Dishes: []Dish{
		{Name: "Burrata with heirloom tomatoes", Price: 16},
		{Name: "Vitello tonnato", Price: 18},
		{Name: "Minestrone", Price: 12},
	}},
	{Key: "menu.section.mains", Dishes: []Dish{
		{Name: "Tagliatelle al ragù", Price: 26},
		{Name: "Risotto ai funghi porcini", Price: 28},
		{Name: "Branzino al forno", Price: 36},
		{Name: "Saltimbocca alla romana", Price: 34},
	}},
	{Key: "menu.section.desserts", Dishes: []Dish{
		{Name: "Tiramisù", Price: 11},
		{Name: "Panna cotta", Price: 10},
	}},
	{Key: "menu.section.drinks", Dishes: []Dish{
		{Name: "Espresso", Price: 4.5},
		{Name: "House red, glass", Price: 9},
		{Name: "San Pellegrino 75cl", Price: 8},
	}},
}

// Menu returns a copy of the menu in serving order.
func Menu() []Section {
	out := make([]Section, len(menu))
	for i, s := range menu {
		out[i] = Section{Key: s.Key, Dishes: append([]Dish(nil), s.Dishes...)}
	}
	return out
}
