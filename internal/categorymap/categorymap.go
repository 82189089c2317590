// Package categorymap translates legacy short numeric category IDs into the
// canonical UUIDs of a user's catalog.
package categorymap

import (
	"strings"

	"fintracker/internal/importerror"
	"fintracker/internal/models"

	"github.com/google/uuid"
)

// Mapper resolves category IDs against one user's catalog.
type Mapper struct {
	byLegacy map[string]string
	known    map[string]bool
}

// New indexes categories by legacy ID and by UUID.
func New(categories []models.Category) *Mapper {
	m := &Mapper{
		byLegacy: make(map[string]string, len(categories)),
		known:    make(map[string]bool, len(categories)),
	}
	for _, c := range categories {
		m.known[strings.ToLower(c.ID)] = true
		if c.LegacyID != "" {
			m.byLegacy[c.LegacyID] = c.ID
		}
	}
	return m
}

// Map returns the canonical UUID for id. UUIDs of the catalog pass through,
// legacy numeric IDs are translated. Anything else is a ValidationError.
func (m *Mapper) Map(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", &importerror.ValidationError{Field: "category", Reason: "empty category id"}
	}

	if parsed, err := uuid.Parse(id); err == nil {
		if !m.known[parsed.String()] {
			return "", &importerror.ValidationError{Field: "category", Reason: "unknown category " + id}
		}
		return parsed.String(), nil
	}

	if canonical, ok := m.byLegacy[strings.TrimLeft(id, "0")]; ok {
		return canonical, nil
	}
	if canonical, ok := m.byLegacy[id]; ok {
		return canonical, nil
	}
	return "", &importerror.ValidationError{Field: "category", Reason: "unknown legacy category id " + id}
}

// IsLegacyID reports whether id looks like a short numeric legacy ID.
func IsLegacyID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > 8 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
