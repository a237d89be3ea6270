package Controllers

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"InspectionPro/Checklist"
	"InspectionPro/HousecallPro"
	"InspectionPro/Models"
	"InspectionPro/Reports"
)

// ReportController handles report rendering and export endpoints
type ReportController struct {
	DB *gorm.DB
}

// NewReportController creates a new ReportController
func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

func (c *ReportController) loadReportData(id int) (Models.Inspection, []Checklist.CategoryGroup, *Models.Company, error) {
	var inspection Models.Inspection
	result := c.DB.Preload("Items.Photos").Preload("Inspector").First(&inspection, id)
	if result.Error != nil {
		return inspection, nil, nil, result.Error
	}

	groups := Checklist.GroupByCategory(inspection.Items)

	var company Models.Company
	if err := c.DB.First(&company, inspection.CompanyID).Error; err != nil {
		// Reports render without branding when the company is gone
		return inspection, groups, nil, nil
	}
	return inspection, groups, &company, nil
}

// GetReport renders the inspection report as a standalone HTML document
func (c *ReportController) GetReport(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	inspection, groups, company, err := c.loadReportData(id)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Inspection not found"})
	}

	html, err := Reports.RenderHTML(inspection, groups, company, time.Now())
	if err != nil {
		log.Printf("Error rendering report for inspection %d: %v", inspection.ID, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render report"})
	}

	ctx.Set("Content-Type", "text/html; charset=utf-8")
	return ctx.SendString(html)
}

// SendReportToHcp attaches the rendered report to the linked Housecall Pro job
func (c *ReportController) SendReportToHcp(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	inspection, groups, company, err := c.loadReportData(id)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Inspection not found"})
	}
	if inspection.HcpJobID == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Inspection is not linked to a Housecall Pro job"})
	}

	html, err := Reports.RenderHTML(inspection, groups, company, time.Now())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render report"})
	}

	client, err := HousecallPro.ClientForCompany(c.DB, inspection.CompanyID)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	fileName := fmt.Sprintf("inspection-report-%s.html", inspection.ReportNumber())
	err = client.UploadJobAttachment(*inspection.HcpJobID, fileName, []byte(html), "text/html")
	if err != nil {
		log.Printf("Error uploading report for inspection %d to job %s: %v", inspection.ID, *inspection.HcpJobID, err)
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to upload report to Housecall Pro"})
	}

	note := fmt.Sprintf("Inspection report %s attached.", inspection.ReportNumber())
	if err := client.AddJobNote(*inspection.HcpJobID, note); err != nil {
		log.Printf("Error adding report note to job %s: %v", *inspection.HcpJobID, err)
	}

	return ctx.JSON(fiber.Map{"uploaded": true, "file_name": fileName})
}

// ExportInspectionsExcel streams the company's inspections as a workbook
func (c *ReportController) ExportInspectionsExcel(ctx *fiber.Ctx) error {
	companyID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	workbook, err := Reports.BuildInspectionsWorkbook(c.DB, uint(companyID))
	if err != nil {
		log.Printf("Error building inspections workbook for company %d: %v", companyID, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build workbook"})
	}

	buffer, err := workbook.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write workbook"})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="inspections.xlsx"`)
	return ctx.Send(buffer.Bytes())
}
