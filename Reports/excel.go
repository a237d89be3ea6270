package Reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"InspectionPro/Checklist"
	"InspectionPro/Models"
)

// BuildInspectionsWorkbook exports a company's inspections as an Excel
// summary sheet, one row per inspection with the computed completion
// percentage.
func BuildInspectionsWorkbook(db *gorm.DB, companyID uint) (*excelize.File, error) {
	var inspections []Models.Inspection
	if err := db.Preload("Items").Preload("Inspector").
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&inspections).Error; err != nil {
		return nil, fmt.Errorf("failed to load inspections: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Inspections"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Report #", "Project", "Address", "Client", "Inspector",
		"Status", "Completion %", "Scheduled", "Completed", "HCP Job #",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1E3A5F"}, Pattern: 1},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	for row, inspection := range inspections {
		groups := Checklist.GroupByCategory(inspection.Items)
		percentage := Checklist.OverallCompletionPercentage(groups)

		scheduled := ""
		if inspection.ScheduledDate != nil {
			scheduled = inspection.ScheduledDate.Format("2006-01-02")
		}
		completed := ""
		if inspection.CompletedDate != nil {
			completed = inspection.CompletedDate.Format("2006-01-02")
		}

		values := []interface{}{
			inspection.ReportNumber(),
			inspection.ProjectName,
			inspection.ProjectAddress,
			inspection.ClientName,
			inspection.Inspector.FullName,
			string(inspection.Status),
			percentage,
			scheduled,
			completed,
			inspection.HcpJobNumber,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "D", 30)
	f.SetColWidth(sheet, "E", "J", 16)

	return f, nil
}
