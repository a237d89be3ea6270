package Checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InspectionPro/Models"
)

const sampleTemplate = `[
	{"name": "Chimney Cap", "items": ["Cap condition", "Spark arrestor"]},
	{"name": "Flue", "items": ["Liner condition",
		{"name": "Flue depth", "item_type": "measurement", "description": "Damper to smoke shelf"}]}
]`

func TestParseCategoriesStringAndObjectForms(t *testing.T) {
	categories, err := ParseCategories([]byte(sampleTemplate))
	require.NoError(t, err)
	require.Len(t, categories, 2)

	// Bare string form defaults to a status item
	assert.Equal(t, "Cap condition", categories[0].Items[0].Name)
	assert.Equal(t, Models.ItemTypeStatus, categories[0].Items[0].ItemType)

	// Object form keeps its declared type and description
	depth := categories[1].Items[1]
	assert.Equal(t, "Flue depth", depth.Name)
	assert.Equal(t, Models.ItemTypeMeasurement, depth.ItemType)
	assert.Equal(t, "Damper to smoke shelf", depth.Description)
}

func TestParseCategoriesRejectsMalformedItem(t *testing.T) {
	_, err := ParseCategories([]byte(`[{"name": "X", "items": [42]}]`))
	assert.Error(t, err)
}

func TestFlattenCategoriesGlobalOrdering(t *testing.T) {
	categories, err := ParseCategories([]byte(sampleTemplate))
	require.NoError(t, err)

	items := FlattenCategories(categories)
	require.Len(t, items, 4)

	for i, item := range items {
		assert.Equal(t, i, item.SortOrder)
	}
	assert.Equal(t, "Chimney Cap", items[0].Category)
	assert.Equal(t, "Chimney Cap", items[1].Category)
	assert.Equal(t, "Flue", items[2].Category)
	assert.Equal(t, "Flue", items[3].Category)
}

func TestFlattenCategoriesEmpty(t *testing.T) {
	assert.Empty(t, FlattenCategories(nil))

	categories, err := ParseCategories([]byte(`[{"name": "Empty", "items": []}]`))
	require.NoError(t, err)
	assert.Empty(t, FlattenCategories(categories))
}

// Flattening then regrouping must reproduce the template's category layout.
func TestFlattenThenGroupRoundTrip(t *testing.T) {
	categories, err := ParseCategories([]byte(sampleTemplate))
	require.NoError(t, err)

	flat := FlattenCategories(categories)
	rows := make([]Models.InspectionItem, 0, len(flat))
	for _, f := range flat {
		rows = append(rows, Models.InspectionItem{
			Category:  f.Category,
			Name:      f.Name,
			ItemType:  f.ItemType,
			Status:    Models.StatusPending,
			SortOrder: f.SortOrder,
		})
	}

	groups := GroupByCategory(rows)
	require.Len(t, groups, len(categories))
	for i, group := range groups {
		assert.Equal(t, categories[i].Name, group.Category)
		require.Len(t, group.Items, len(categories[i].Items))
		for j, it := range group.Items {
			assert.Equal(t, categories[i].Items[j].Name, it.Name)
		}
	}
}

func TestFlattenDefaultChimneyTemplateShape(t *testing.T) {
	categories, err := ParseCategories([]byte(Models.DefaultChimneyChecklistJSON()))
	require.NoError(t, err)
	require.Len(t, categories, 8)

	flat := FlattenCategories(categories)

	measurements := 0
	for _, f := range flat {
		if f.ItemType == Models.ItemTypeMeasurement {
			measurements++
		}
	}
	assert.Equal(t, 3, measurements)
}
