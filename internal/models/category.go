package models

import "strings"

// Category is a persisted, user-owned transaction category.
type Category struct {
	ID       string          `gorm:"primaryKey;size:36" json:"id" yaml:"id"`
	UserID   string          `gorm:"index;size:64" json:"user_id" yaml:"-"`
	LegacyID string          `gorm:"size:8" json:"legacy_id,omitempty" yaml:"legacy_id"`
	Name     string          `gorm:"not null" json:"name" yaml:"name"`
	Type     TransactionType `gorm:"size:16;not null" json:"type" yaml:"type"`
	ParentID *string         `gorm:"size:36" json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	// Keywords is a comma-separated list of hints shown to the model.
	Keywords string `json:"keywords,omitempty" yaml:"keywords"`
	// Position keeps catalog order stable across databases.
	Position int `json:"-" yaml:"-"`
}

// CategoryForAI is the read-only catalog entry passed into prompts.
type CategoryForAI struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     TransactionType `json:"type"`
	ParentID string          `json:"parentId,omitempty"`
	Keywords []string        `json:"keywords,omitempty"`
}

// ForAI converts a stored category into its prompt representation.
func (c Category) ForAI() CategoryForAI {
	out := CategoryForAI{ID: c.ID, Name: c.Name, Type: c.Type}
	if c.ParentID != nil {
		out.ParentID = *c.ParentID
	}
	for _, kw := range strings.Split(c.Keywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out.Keywords = append(out.Keywords, kw)
		}
	}
	return out
}

// CategoriesForAI converts a whole catalog, preserving order.
func CategoriesForAI(categories []Category) []CategoryForAI {
	out := make([]CategoryForAI, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.ForAI())
	}
	return out
}
