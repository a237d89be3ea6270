package Checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"InspectionPro/Models"
)

func item(category, name string, status Models.ItemStatus, sortOrder int) Models.InspectionItem {
	return Models.InspectionItem{
		Category:  category,
		Name:      name,
		Status:    status,
		SortOrder: sortOrder,
	}
}

func TestGroupByCategoryKeepsFirstSeenOrder(t *testing.T) {
	items := []Models.InspectionItem{
		item("Flue", "Liner condition", Models.StatusPending, 4),
		item("Chimney Cap", "Cap condition", Models.StatusPending, 0),
		item("Flue", "Creosote buildup", Models.StatusPending, 5),
		item("Firebox", "Firebrick condition", Models.StatusPending, 9),
		item("Chimney Cap", "Spark arrestor", Models.StatusPending, 1),
	}

	groups := GroupByCategory(items)

	assert.Len(t, groups, 3)
	assert.Equal(t, "Flue", groups[0].Category)
	assert.Equal(t, "Chimney Cap", groups[1].Category)
	assert.Equal(t, "Firebox", groups[2].Category)
}

func TestGroupByCategorySortsWithinGroup(t *testing.T) {
	items := []Models.InspectionItem{
		item("Flue", "Obstructions", Models.StatusPending, 6),
		item("Flue", "Liner condition", Models.StatusPending, 4),
		item("Flue", "Creosote buildup", Models.StatusPending, 5),
	}

	groups := GroupByCategory(items)

	assert.Len(t, groups, 1)
	names := []string{groups[0].Items[0].Name, groups[0].Items[1].Name, groups[0].Items[2].Name}
	assert.Equal(t, []string{"Liner condition", "Creosote buildup", "Obstructions"}, names)
}

func TestGroupByCategoryTiesKeepInputOrder(t *testing.T) {
	items := []Models.InspectionItem{
		item("Flue", "First", Models.StatusPending, 0),
		item("Flue", "Second", Models.StatusPending, 0),
		item("Flue", "Third", Models.StatusPending, 0),
	}

	groups := GroupByCategory(items)

	assert.Equal(t, "First", groups[0].Items[0].Name)
	assert.Equal(t, "Second", groups[0].Items[1].Name)
	assert.Equal(t, "Third", groups[0].Items[2].Name)
}

func TestGroupByCategoryEveryItemLandsInOneGroup(t *testing.T) {
	items := []Models.InspectionItem{
		item("A", "a1", Models.StatusPending, 0),
		item("B", "b1", Models.StatusSatisfactory, 1),
		item("A", "a2", Models.StatusUnsafe, 2),
		item("C", "c1", Models.StatusNA, 3),
	}

	groups := GroupByCategory(items)

	total := 0
	for _, g := range groups {
		total += len(g.Items)
	}
	assert.Equal(t, len(items), total)
}

func TestGroupByCategoryEmptyInput(t *testing.T) {
	groups := GroupByCategory(nil)
	assert.Empty(t, groups)
	assert.Equal(t, 0, OverallCompletionPercentage(groups))
}

func TestCategoryProgressCountsNonPending(t *testing.T) {
	group := CategoryGroup{
		Category: "Flue",
		Items: []Models.InspectionItem{
			item("Flue", "a", Models.StatusSatisfactory, 0),
			item("Flue", "b", Models.StatusUnsafe, 1),
			item("Flue", "c", Models.StatusNA, 2),
			item("Flue", "d", Models.StatusRecommended, 3),
			item("Flue", "e", Models.StatusPending, 4),
		},
	}

	completed, total := CategoryProgress(group)
	assert.Equal(t, 4, completed)
	assert.Equal(t, 5, total)
}

func TestOverallCompletionPercentageRounds(t *testing.T) {
	items := []Models.InspectionItem{
		item("A", "a1", Models.StatusSatisfactory, 0),
		item("A", "a2", Models.StatusPending, 1),
		item("B", "b1", Models.StatusUnsafe, 2),
	}

	// 2 of 3 complete rounds to 67
	assert.Equal(t, 67, OverallCompletionPercentage(GroupByCategory(items)))
}

func TestOverallCompletionPercentageHalf(t *testing.T) {
	items := []Models.InspectionItem{
		item("A", "a1", Models.StatusSatisfactory, 0),
		item("A", "a2", Models.StatusPending, 1),
		item("B", "b1", Models.StatusNA, 2),
		item("B", "b2", Models.StatusPending, 3),
	}

	assert.Equal(t, 50, OverallCompletionPercentage(GroupByCategory(items)))
}

func TestStatusConfigFallsBackToPending(t *testing.T) {
	cfg := StatusConfig(Models.ItemStatus("bogus"))
	assert.Equal(t, "Pending", cfg.Label)
	assert.Equal(t, "#6b7280", cfg.Color)
}

func TestStatusConfigKnownStatuses(t *testing.T) {
	assert.Equal(t, "Satisfactory", StatusConfig(Models.StatusSatisfactory).Label)
	assert.Equal(t, "#dc2626", StatusConfig(Models.StatusUnsafe).Color)
	assert.Equal(t, "N/A", StatusConfig(Models.StatusNA).Label)
	assert.Equal(t, "#fef9c3", StatusConfig(Models.StatusRecommended).BgColor)
}
