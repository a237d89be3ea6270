package HousecallPro

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"InspectionPro/Models"
)

// IntegrationController exposes the Housecall Pro integration endpoints.
type IntegrationController struct {
	DB *gorm.DB
}

func NewIntegrationController(db *gorm.DB) *IntegrationController {
	return &IntegrationController{DB: db}
}

func companyParam(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.Atoi(ctx.Params("companyId"))
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid company ID")
	}
	return uint(id), nil
}

// SaveAPIKey stores or replaces the company's API key.
func (c *IntegrationController) SaveAPIKey(ctx *fiber.Ctx) error {
	companyID, err := companyParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	var input struct {
		APIKey string `json:"api_key"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.APIKey == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "API key is required"})
	}

	user, ok := ctx.Locals("user").(Models.User)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
	}

	now := time.Now()
	var integration Models.CompanyIntegration
	err = c.DB.Where("company_id = ? AND integration_type = ?", companyID, Models.IntegrationHousecallPro).
		First(&integration).Error
	if err == gorm.ErrRecordNotFound {
		integration = Models.CompanyIntegration{
			CompanyID:       companyID,
			IntegrationType: Models.IntegrationHousecallPro,
		}
	} else if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load integration"})
	}

	integration.APIKey = input.APIKey
	integration.IsActive = true
	integration.ConnectedBy = user.ID
	integration.ConnectedAt = &now

	if err := c.DB.Save(&integration).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save API key"})
	}

	return ctx.JSON(fiber.Map{"connected": true})
}

// RemoveAPIKey disconnects the integration.
func (c *IntegrationController) RemoveAPIKey(ctx *fiber.Ctx) error {
	companyID, err := companyParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	result := c.DB.Where("company_id = ? AND integration_type = ?", companyID, Models.IntegrationHousecallPro).
		Delete(&Models.CompanyIntegration{})
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove API key"})
	}

	return ctx.JSON(fiber.Map{"connected": false})
}

// Status reports whether the company has an active integration.
func (c *IntegrationController) Status(ctx *fiber.Ctx) error {
	companyID, err := companyParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	var count int64
	c.DB.Model(&Models.CompanyIntegration{}).
		Where("company_id = ? AND integration_type = ? AND is_active = ?", companyID, Models.IntegrationHousecallPro, true).
		Count(&count)

	return ctx.JSON(fiber.Map{"connected": count > 0})
}

// TestConnection checks the stored key against the live API.
func (c *IntegrationController) TestConnection(ctx *fiber.Ctx) error {
	companyID, err := companyParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	client, err := ClientForCompany(c.DB, companyID)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := client.TestConnection(); err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"ok": true})
}

// SyncJobs pulls the external feed and reconciles it into local inspections.
// The response carries only the count of newly imported jobs.
func (c *IntegrationController) SyncJobs(ctx *fiber.Ctx) error {
	companyID, err := companyParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	user, ok := ctx.Locals("user").(Models.User)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
	}

	created, err := SyncCompanyJobs(c.DB, companyID, user.ID)
	if err != nil {
		log.Printf("HCP sync failed for company %d: %v", companyID, err)
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"imported": created})
}
