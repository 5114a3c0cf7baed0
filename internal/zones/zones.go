package zones

import (
	"strings"

	"museumCompanionAPI/internal/types/zone"
)

// The six themed zones of the exhibit floor. The set is fixed reference data
// and is deliberately not fetched from the store; activities pointing at any
// other zone id are treated as unavailable.
var directory = []zone.Zone{
	{ID: "0zGFqkcIl1vo77p1rDhl", Name: "Pequeños", Color: "#009CA6"},
	{ID: "9hkzu2aJxSZDybUzsdAb", Name: "Comunico", Color: "#0070BA"},
	{ID: "CmQZ4MLp6M7c26s7h9Xg", Name: "Pertenezco", Color: "#87B734"},
	{ID: "LHPJtOwRUqojQwn6yeJ3", Name: "Comprendo", Color: "#92278F"},
	{ID: "RI0rBOL5odQ7EmPVtvSz", Name: "Soy", Color: "#E31837"},
	{ID: "mOMM1tyb7izKgyU4D1kP", Name: "Expreso", Color: "#FF8200"},
}

// All returns the directory in display order. Callers must not mutate it.
func All() []zone.Zone {
	return directory
}

func ByID(id string) (zone.Zone, bool) {
	for _, z := range directory {
		if z.ID == id {
			return z, true
		}
	}
	return zone.Zone{}, false
}

func ByName(name string) (zone.Zone, bool) {
	for _, z := range directory {
		if z.Name == name {
			return z, true
		}
	}
	return zone.Zone{}, false
}

func ByColor(color string) (zone.Zone, bool) {
	for _, z := range directory {
		if strings.EqualFold(z.Color, color) {
			return z, true
		}
	}
	return zone.Zone{}, false
}
