package forecast

import (
	"strings"

	"github.com/ksr-21/smartstock/internal/domain"
)

// Presets are the festival events offered by the simulation panel.
func Presets() []domain.SpecialEvent {
	return []domain.SpecialEvent{
		{
			Name: "Diwali Peak",
			CategoryBoosts: domain.CategoryBoosts{
				"Grocery": 2.8,
				"Produce": 1.8,
				"Dairy":   2.0,
			},
		},
		{
			Name: "Christmas / New Year",
			CategoryBoosts: domain.CategoryBoosts{
				"Beverages": 2.5,
				"Bakery":    3.0,
				"Grocery":   1.5,
			},
		},
		{
			Name: "Monsoon Sale",
			CategoryBoosts: domain.CategoryBoosts{
				"Grocery": 1.4,
				"Dairy":   1.2,
			},
		},
	}
}

// FindEvent looks up a preset by name, ignoring case and surrounding space.
func FindEvent(name string) (*domain.SpecialEvent, bool) {
	name = strings.TrimSpace(name)
	for _, e := range Presets() {
		if strings.EqualFold(e.Name, name) {
			event := e
			return &event, true
		}
	}
	return nil, false
}
