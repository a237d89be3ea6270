package Checklist

import (
	"math"
	"sort"

	"InspectionPro/Models"
)

// CategoryGroup is a display-ordered grouping of inspection items. It is
// derived from the flat item list and never persisted.
type CategoryGroup struct {
	Category string                  `json:"category"`
	Items    []Models.InspectionItem `json:"items"`
}

// GroupByCategory partitions items into category groups. Categories keep the
// order they first appear in the input; within a group items are sorted by
// sort order, ties keeping input order. Every input item lands in exactly one
// group.
func GroupByCategory(items []Models.InspectionItem) []CategoryGroup {
	groups := make([]CategoryGroup, 0)
	index := make(map[string]int)

	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, CategoryGroup{Category: item.Category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	for i := range groups {
		g := groups[i].Items
		sort.SliceStable(g, func(a, b int) bool {
			return g[a].SortOrder < g[b].SortOrder
		})
	}

	return groups
}

// CategoryProgress counts completed items in a group. An item is completed
// once its status is anything but pending; measurement items only leave
// pending when a value is recorded.
func CategoryProgress(group CategoryGroup) (completed, total int) {
	for _, item := range group.Items {
		if item.Status != Models.StatusPending {
			completed++
		}
	}
	return completed, len(group.Items)
}

// OverallCompletionPercentage flattens all groups and returns the rounded
// completed/total ratio as 0..100. An empty checklist is always 0, never NaN.
func OverallCompletionPercentage(groups []CategoryGroup) int {
	completed, total := 0, 0
	for _, g := range groups {
		c, t := CategoryProgress(g)
		completed += c
		total += t
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// StatusDisplay is the fixed label/color pair used for status badges on
// screens and reports.
type StatusDisplay struct {
	Label   string `json:"label"`
	Color   string `json:"color"`
	BgColor string `json:"bg_color"`
}

var statusConfig = map[Models.ItemStatus]StatusDisplay{
	Models.StatusSatisfactory: {Label: "Satisfactory", Color: "#15803d", BgColor: "#dcfce7"},
	Models.StatusRecommended:  {Label: "Recommended", Color: "#ca8a04", BgColor: "#fef9c3"},
	Models.StatusUnsafe:       {Label: "Unsafe", Color: "#dc2626", BgColor: "#fee2e2"},
	Models.StatusNA:           {Label: "N/A", Color: "#2563eb", BgColor: "#dbeafe"},
	Models.StatusPending:      {Label: "Pending", Color: "#6b7280", BgColor: "#f3f4f6"},
}

// StatusConfig returns the display config for a status. Unknown statuses fall
// back to pending. Pending itself is never offered as a selectable badge; it
// renders only as the absence of an answer.
func StatusConfig(status Models.ItemStatus) StatusDisplay {
	if cfg, ok := statusConfig[status]; ok {
		return cfg
	}
	return statusConfig[Models.StatusPending]
}
