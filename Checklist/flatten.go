package Checklist

import (
	"encoding/json"
	"fmt"

	"InspectionPro/Models"
)

// TemplateItem is one entry in a template category. In template JSON an item
// may be a bare string (shorthand for a status item) or a full object.
type TemplateItem struct {
	Name        string          `json:"name"`
	ItemType    Models.ItemType `json:"item_type,omitempty"`
	Description string          `json:"description,omitempty"`
}

func (ti *TemplateItem) UnmarshalJSON(data []byte) error {
	// Bare string form
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		ti.Name = name
		ti.ItemType = Models.ItemTypeStatus
		ti.Description = ""
		return nil
	}

	// Object form; alias avoids recursing into this method
	type alias TemplateItem
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("template item must be a string or an object: %w", err)
	}
	*ti = TemplateItem(obj)
	return nil
}

// TemplateCategory is a named, ordered list of template items.
type TemplateCategory struct {
	Name  string         `json:"name"`
	Items []TemplateItem `json:"items"`
}

// ParseCategories decodes a template's categories JSON column.
func ParseCategories(raw []byte) ([]TemplateCategory, error) {
	var categories []TemplateCategory
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("invalid template categories: %w", err)
	}
	return categories, nil
}

// FlatItem is one insertable checklist row produced from a template.
type FlatItem struct {
	Category    string          `json:"category"`
	Name        string          `json:"name"`
	ItemType    Models.ItemType `json:"item_type"`
	Description string          `json:"description"`
	SortOrder   int             `json:"sort_order"`
}

// FlattenCategories expands a template definition into the ordered item list
// inserted when the template is applied to an inspection. Categories and
// items keep declaration order; the sort order is a single global ascending
// index. Items missing a type become status items.
func FlattenCategories(categories []TemplateCategory) []FlatItem {
	items := make([]FlatItem, 0)

	for _, category := range categories {
		for _, item := range category.Items {
			itemType := item.ItemType
			if itemType == "" {
				itemType = Models.ItemTypeStatus
			}
			items = append(items, FlatItem{
				Category:    category.Name,
				Name:        item.Name,
				ItemType:    itemType,
				Description: item.Description,
				SortOrder:   len(items),
			})
		}
	}

	return items
}
