package Controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"InspectionPro/Checklist"
	"InspectionPro/Models"
)

// TemplateController handles checklist template endpoints
type TemplateController struct {
	DB *gorm.DB
}

// NewTemplateController creates a new TemplateController
func NewTemplateController(db *gorm.DB) *TemplateController {
	return &TemplateController{DB: db}
}

// GetSystemTemplates lists the built-in template catalog
func (c *TemplateController) GetSystemTemplates(ctx *fiber.Ctx) error {
	var templates []Models.ChecklistTemplate
	result := c.DB.Where("is_system = ?", true).Order("name").Find(&templates)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve templates"})
	}
	return ctx.JSON(templates)
}

// GetCompanyTemplates lists templates enabled for a company, default first
func (c *TemplateController) GetCompanyTemplates(ctx *fiber.Ctx) error {
	companyID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	var enabled []Models.CompanyChecklistTemplate
	result := c.DB.Preload("Template").
		Where("company_id = ?", companyID).
		Order("is_default DESC, created_at").
		Find(&enabled)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve templates"})
	}

	return ctx.JSON(enabled)
}

// EnableTemplate makes a system or custom template available to a company
func (c *TemplateController) EnableTemplate(ctx *fiber.Ctx) error {
	companyID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	var input struct {
		TemplateID uint `json:"template_id"`
		IsDefault  bool `json:"is_default"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.TemplateID == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "template_id is required"})
	}

	var template Models.ChecklistTemplate
	if result := c.DB.First(&template, input.TemplateID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}
	if !template.IsSystem && (template.CompanyID == nil || *template.CompanyID != uint(companyID)) {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Template belongs to another company"})
	}

	link := Models.CompanyChecklistTemplate{
		CompanyID:  uint(companyID),
		TemplateID: input.TemplateID,
		IsDefault:  input.IsDefault,
	}

	err = c.DB.Transaction(func(tx *gorm.DB) error {
		if input.IsDefault {
			if err := tx.Model(&Models.CompanyChecklistTemplate{}).
				Where("company_id = ?", companyID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&link).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Template is already enabled for this company"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(link)
}

// SetDefaultTemplate marks one enabled template as the company default
func (c *TemplateController) SetDefaultTemplate(ctx *fiber.Ctx) error {
	companyID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}
	templateID, err := strconv.Atoi(ctx.Params("templateId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	var link Models.CompanyChecklistTemplate
	result := c.DB.Where("company_id = ? AND template_id = ?", companyID, templateID).First(&link)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template is not enabled for this company"})
	}

	err = c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Models.CompanyChecklistTemplate{}).
			Where("company_id = ?", companyID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&link).Update("is_default", true).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to set default template"})
	}

	return ctx.JSON(link)
}

// DisableTemplate removes a template from a company's enabled set
func (c *TemplateController) DisableTemplate(ctx *fiber.Ctx) error {
	companyID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}
	templateID, err := strconv.Atoi(ctx.Params("templateId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	result := c.DB.Where("company_id = ? AND template_id = ?", companyID, templateID).
		Delete(&Models.CompanyChecklistTemplate{})
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to disable template"})
	}
	if result.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template is not enabled for this company"})
	}

	return ctx.JSON(fiber.Map{"disabled": true})
}

// CreateCustomTemplate saves a company-authored template. The categories
// payload must parse with the same rules the flattener applies.
func (c *TemplateController) CreateCustomTemplate(ctx *fiber.Ctx) error {
	companyID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	var input struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Industry    string         `json:"industry"`
		Categories  datatypes.JSON `json:"categories"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Name == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Template name is required"})
	}

	if _, err := Checklist.ParseCategories(input.Categories); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cid := uint(companyID)
	template := Models.ChecklistTemplate{
		Name:        input.Name,
		Description: input.Description,
		Industry:    input.Industry,
		Categories:  input.Categories,
		IsSystem:    false,
		CompanyID:   &cid,
	}

	err = c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&template).Error; err != nil {
			return err
		}
		link := Models.CompanyChecklistTemplate{
			CompanyID:  cid,
			TemplateID: template.ID,
		}
		return tx.Create(&link).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create template"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(template)
}

// PreviewTemplate returns the flattened item list a template would produce
func (c *TemplateController) PreviewTemplate(ctx *fiber.Ctx) error {
	templateID, err := strconv.Atoi(ctx.Params("templateId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	var template Models.ChecklistTemplate
	if result := c.DB.First(&template, templateID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}

	categories, err := Checklist.ParseCategories(template.Categories)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"template": template,
		"items":    Checklist.FlattenCategories(categories),
	})
}
