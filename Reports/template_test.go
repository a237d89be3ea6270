package Reports

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InspectionPro/Checklist"
	"InspectionPro/Models"
)

func measurementPtr(feet, inches int) *Models.MeasurementValue {
	return &Models.MeasurementValue{Feet: feet, Inches: inches}
}

func TestFormatMeasurement(t *testing.T) {
	assert.Equal(t, "-", FormatMeasurement(nil))
	assert.Equal(t, "-", FormatMeasurement(measurementPtr(0, 0)))
	assert.Equal(t, `3'`, FormatMeasurement(measurementPtr(3, 0)))
	assert.Equal(t, `7"`, FormatMeasurement(measurementPtr(0, 7)))
	assert.Equal(t, `3' 7"`, FormatMeasurement(measurementPtr(3, 7)))
}

func sampleInspection(t *testing.T) (Models.Inspection, []Checklist.CategoryGroup) {
	t.Helper()

	scheduled := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	inspection := Models.Inspection{
		PublicID:       "a1b2c3d4e5f60718293a4b5c6d7e8f90",
		ProjectName:    "Smith Residence",
		ProjectAddress: "1 Main St, Springfield",
		ClientName:     "Jane Smith",
		ScheduledDate:  &scheduled,
		Notes:          "Recommend sweep before next season.",
		Inspector:      Models.User{FullName: "Alice Field"},
	}

	depth := Models.InspectionItem{
		Category: "Flue", Name: "Flue depth",
		ItemType: Models.ItemTypeMeasurement, SortOrder: 2,
	}
	require.NoError(t, depth.SetMeasurement(Models.MeasurementValue{Feet: 3, Inches: 7}))

	items := []Models.InspectionItem{
		{Category: "Chimney Cap", Name: "Cap condition", Status: Models.StatusSatisfactory, SortOrder: 0},
		{Category: "Chimney Cap", Name: "Spark arrestor", Status: Models.StatusUnsafe, SortOrder: 1,
			Photos: []Models.InspectionPhoto{{PhotoURL: "/InspectionPhotos/1_1.jpg", Caption: "Missing screen"}}},
		depth,
		{Category: "Flue", Name: "Liner condition", Status: Models.StatusPending, SortOrder: 3},
	}

	return inspection, Checklist.GroupByCategory(items)
}

func TestRenderHTMLStructure(t *testing.T) {
	inspection, groups := sampleInspection(t)
	company := &Models.Company{Name: "Acme Chimney Co", Phone: "555-0100", Email: "office@acme.test"}

	now := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	html, err := RenderHTML(inspection, groups, company, now)
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, "Acme Chimney Co", doc.Find("h1").First().Text())
	assert.Contains(t, doc.Text(), "Report #A1B2C3D4")
	assert.Contains(t, doc.Text(), "Smith Residence")
	assert.Contains(t, doc.Text(), "Jane Smith")
	assert.Contains(t, doc.Text(), "Alice Field")

	// One section heading per category, in first-seen order
	headings := doc.Find("h3").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
	assert.Equal(t, []string{"Chimney Cap", "Flue"}, headings)

	// Status badges carry the fixed palette
	badge := doc.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Text() == "Unsafe"
	})
	require.Equal(t, 1, badge.Length())
	style, _ := badge.Attr("style")
	assert.Contains(t, style, "#dc2626")
	assert.Contains(t, style, "#fee2e2")

	// Measurement renders as a value, not a badge
	assert.Contains(t, doc.Text(), `3' 7"`)

	// Photo with its caption as alt text
	img := doc.Find(`img[src="/InspectionPhotos/1_1.jpg"]`)
	require.Equal(t, 1, img.Length())
	alt, _ := img.Attr("alt")
	assert.Equal(t, "Missing screen", alt)

	// NFPA reminder with next due a year from render time
	assert.Contains(t, doc.Text(), "NFPA")
	assert.Contains(t, doc.Text(), "August 31, 2027")
	assert.Contains(t, doc.Text(), "Report generated on August 31, 2026")
	assert.Contains(t, doc.Text(), "555-0100")
}

func TestRenderHTMLDeterministic(t *testing.T) {
	inspection, groups := sampleInspection(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	first, err := RenderHTML(inspection, groups, nil, now)
	require.NoError(t, err)
	second, err := RenderHTML(inspection, groups, nil, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderHTMLWithoutCompany(t *testing.T) {
	inspection, groups := sampleInspection(t)

	html, err := RenderHTML(inspection, groups, nil, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, "Inspection Report", doc.Find("h1").First().Text())
	assert.Equal(t, 0, doc.Find("img[alt='Inspection Report']").Length())
}

func TestRenderHTMLMissingFieldsShowNA(t *testing.T) {
	inspection := Models.Inspection{
		PublicID:    "00ff00ff00ff00ff00ff00ff00ff00ff",
		ProjectName: "Bare Minimum",
	}

	html, err := RenderHTML(inspection, nil, nil, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, html, "N/A")
	assert.Contains(t, html, "Report #00FF00FF")
}

func TestRenderHTMLSkipsNotesWhenEmpty(t *testing.T) {
	inspection, groups := sampleInspection(t)
	inspection.Notes = ""

	html, err := RenderHTML(inspection, groups, nil, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotContains(t, html, "Inspector Notes")
}
