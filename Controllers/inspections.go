package Controllers

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"InspectionPro/Checklist"
	"InspectionPro/Models"
)

var validate = validator.New()

// InspectionController handles inspection and checklist item endpoints
type InspectionController struct {
	DB *gorm.DB
}

// NewInspectionController creates a new InspectionController
func NewInspectionController(db *gorm.DB) *InspectionController {
	return &InspectionController{DB: db}
}

// CreateInspectionInput is the payload for creating an inspection.
type CreateInspectionInput struct {
	CompanyID      uint   `json:"company_id" validate:"required"`
	ProjectName    string `json:"project_name" validate:"required"`
	ProjectAddress string `json:"project_address"`
	ClientName     string `json:"client_name"`
	ClientEmail    string `json:"client_email" validate:"omitempty,email"`
	ScheduledDate  string `json:"scheduled_date"`
	Notes          string `json:"notes"`
	TemplateID     uint   `json:"template_id"`
}

// withCompletion fills the derived completion percentage on an inspection.
func withCompletion(inspection *Models.Inspection) {
	groups := Checklist.GroupByCategory(inspection.Items)
	inspection.CompletionPercentage = Checklist.OverallCompletionPercentage(groups)
}

// GetInspections lists a company's inspections, newest first
func (c *InspectionController) GetInspections(ctx *fiber.Ctx) error {
	companyID, err := strconv.Atoi(ctx.Query("company_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "company_id query parameter is required"})
	}

	query := c.DB.Preload("Items").Preload("Inspector").
		Where("company_id = ?", companyID).
		Order("created_at DESC")

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if inspectorID := ctx.Query("inspector_id"); inspectorID != "" {
		query = query.Where("inspector_id = ?", inspectorID)
	}
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil && limit > 0 {
		query = query.Limit(limit)
		if offset, err := strconv.Atoi(ctx.Query("offset")); err == nil && offset > 0 {
			query = query.Offset(offset)
		}
	}

	var inspections []Models.Inspection
	if result := query.Find(&inspections); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve inspections"})
	}

	for i := range inspections {
		withCompletion(&inspections[i])
	}

	return ctx.JSON(inspections)
}

// GetInspection retrieves one inspection with its items grouped by category
func (c *InspectionController) GetInspection(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	var inspection Models.Inspection
	result := c.DB.Preload("Items.Photos").Preload("Inspector").First(&inspection, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Inspection not found"})
	}

	groups := Checklist.GroupByCategory(inspection.Items)
	inspection.CompletionPercentage = Checklist.OverallCompletionPercentage(groups)

	return ctx.JSON(fiber.Map{
		"inspection": inspection,
		"categories": groups,
	})
}

// CreateInspection creates an inspection, optionally seeding its checklist
// from a template
func (c *InspectionController) CreateInspection(ctx *fiber.Ctx) error {
	user, ok := ctx.Locals("user").(Models.User)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not Logged In."})
	}

	var input CreateInspectionInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	inspection := Models.Inspection{
		CompanyID:      input.CompanyID,
		InspectorID:    user.ID,
		ProjectName:    input.ProjectName,
		ProjectAddress: input.ProjectAddress,
		ClientName:     input.ClientName,
		ClientEmail:    input.ClientEmail,
		Notes:          input.Notes,
		Status:         Models.InspectionDraft,
	}

	if input.ScheduledDate != "" {
		scheduled, err := time.Parse(time.RFC3339, input.ScheduledDate)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scheduled_date must be RFC3339"})
		}
		inspection.ScheduledDate = &scheduled
		inspection.Status = Models.InspectionScheduled
	}

	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inspection).Error; err != nil {
			return err
		}
		if input.TemplateID == 0 {
			return nil
		}
		return applyTemplateItems(tx, &inspection, input.TemplateID)
	})
	if err != nil {
		log.Printf("Error creating inspection: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create inspection"})
	}

	c.DB.Preload("Items").First(&inspection, inspection.ID)
	withCompletion(&inspection)
	return ctx.Status(fiber.StatusCreated).JSON(inspection)
}

// applyTemplateItems flattens a template and inserts its items for an
// inspection. Callers replace existing items before re-applying.
func applyTemplateItems(tx *gorm.DB, inspection *Models.Inspection, templateID uint) error {
	var template Models.ChecklistTemplate
	if err := tx.First(&template, templateID).Error; err != nil {
		return fmt.Errorf("template %d not found: %w", templateID, err)
	}

	categories, err := Checklist.ParseCategories(template.Categories)
	if err != nil {
		return err
	}

	for _, flat := range Checklist.FlattenCategories(categories) {
		item := Models.InspectionItem{
			InspectionID: inspection.ID,
			Category:     flat.Category,
			Name:         flat.Name,
			Description:  flat.Description,
			ItemType:     flat.ItemType,
			Status:       Models.StatusPending,
			SortOrder:    flat.SortOrder,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdateInspection updates inspection header fields and its lifecycle status
func (c *InspectionController) UpdateInspection(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	var inspection Models.Inspection
	if result := c.DB.First(&inspection, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Inspection not found"})
	}

	var input map[string]interface{}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{}
	for _, field := range []string{"project_name", "project_address", "client_name", "client_email", "notes"} {
		if v, ok := input[field]; ok {
			updates[field] = v
		}
	}
	if v, ok := input["scheduled_date"]; ok {
		if s, ok := v.(string); ok && s != "" {
			scheduled, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scheduled_date must be RFC3339"})
			}
			updates["scheduled_date"] = &scheduled
		}
	}
	if v, ok := input["status"]; ok {
		s, _ := v.(string)
		status := Models.InspectionStatus(s)
		switch status {
		case Models.InspectionDraft, Models.InspectionScheduled, Models.InspectionInProgress,
			Models.InspectionCompleted, Models.InspectionCancelled:
		default:
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection status"})
		}
		updates["status"] = status
		if status == Models.InspectionCompleted && inspection.CompletedDate == nil {
			now := time.Now()
			updates["completed_date"] = &now
		}
	}

	if err := c.DB.Model(&inspection).Updates(updates).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update inspection"})
	}

	c.DB.Preload("Items").First(&inspection, inspection.ID)
	withCompletion(&inspection)
	return ctx.JSON(inspection)
}

// DeleteInspection deletes an inspection and its items
func (c *InspectionController) DeleteInspection(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	var inspection Models.Inspection
	if result := c.DB.First(&inspection, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Inspection not found"})
	}

	err = c.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteInspectionItems(tx, inspection.ID); err != nil {
			return err
		}
		return tx.Delete(&inspection).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete inspection"})
	}

	return ctx.JSON(fiber.Map{"deleted": true})
}

func deleteInspectionItems(tx *gorm.DB, inspectionID uint) error {
	var itemIDs []uint
	if err := tx.Model(&Models.InspectionItem{}).
		Where("inspection_id = ?", inspectionID).
		Pluck("id", &itemIDs).Error; err != nil {
		return err
	}
	if len(itemIDs) > 0 {
		if err := tx.Where("item_id IN ?", itemIDs).Delete(&Models.InspectionPhoto{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("inspection_id = ?", inspectionID).Delete(&Models.InspectionItem{}).Error
}

// ApplyTemplate replaces an inspection's checklist with a flattened template
func (c *InspectionController) ApplyTemplate(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	var input struct {
		TemplateID uint `json:"template_id"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.TemplateID == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "template_id is required"})
	}

	var inspection Models.Inspection
	if result := c.DB.First(&inspection, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Inspection not found"})
	}

	err = c.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteInspectionItems(tx, inspection.ID); err != nil {
			return err
		}
		return applyTemplateItems(tx, &inspection, input.TemplateID)
	})
	if err != nil {
		log.Printf("Error applying template %d to inspection %d: %v", input.TemplateID, inspection.ID, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to apply template"})
	}

	c.DB.Preload("Items").First(&inspection, inspection.ID)
	withCompletion(&inspection)
	return ctx.JSON(inspection)
}

// AddItem appends one custom item to the checklist
func (c *InspectionController) AddItem(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	var inspection Models.Inspection
	if result := c.DB.First(&inspection, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Inspection not found"})
	}

	var input struct {
		Category    string          `json:"category"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		ItemType    Models.ItemType `json:"item_type"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Category == "" || input.Name == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category and name are required"})
	}
	if input.ItemType == "" {
		input.ItemType = Models.ItemTypeStatus
	}
	if input.ItemType != Models.ItemTypeStatus && input.ItemType != Models.ItemTypeMeasurement {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item type"})
	}

	item := Models.InspectionItem{
		InspectionID: inspection.ID,
		Category:     input.Category,
		Name:         input.Name,
		Description:  input.Description,
		ItemType:     input.ItemType,
		Status:       Models.StatusPending,
		SortOrder:    nextSortOrder(c.DB, inspection.ID),
	}
	if err := c.DB.Create(&item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add item"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(item)
}

// nextSortOrder places new items after every existing one.
func nextSortOrder(db *gorm.DB, inspectionID uint) int {
	var max *int
	db.Model(&Models.InspectionItem{}).
		Where("inspection_id = ?", inspectionID).
		Select("MAX(sort_order)").Scan(&max)
	if max == nil {
		return 0
	}
	return *max + 1
}

// SetItemStatus applies a status tap. Tapping the item's current status
// toggles it back to pending.
func (c *InspectionController) SetItemStatus(ctx *fiber.Ctx) error {
	itemID, err := strconv.Atoi(ctx.Params("itemId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var input struct {
		Status Models.ItemStatus `json:"status"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !Models.ValidItemStatus(input.Status) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item status"})
	}

	var item Models.InspectionItem
	if result := c.DB.First(&item, itemID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
	}

	newStatus := input.Status
	if item.Status == newStatus {
		newStatus = Models.StatusPending
	}

	if err := c.DB.Model(&item).Update("status", newStatus).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update item"})
	}
	item.Status = newStatus

	return ctx.JSON(item)
}

// SetItemMeasurement records a feet/inches value on a measurement item. A
// recorded measurement marks the item satisfactory.
func (c *InspectionController) SetItemMeasurement(ctx *fiber.Ctx) error {
	itemID, err := strconv.Atoi(ctx.Params("itemId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var input Models.MeasurementValue
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Feet < 0 || input.Inches < 0 || input.Inches > 11 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Measurement must be non-negative with inches 0-11"})
	}

	var item Models.InspectionItem
	if result := c.DB.First(&item, itemID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
	}
	if item.ItemType != Models.ItemTypeMeasurement {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Item does not take a measurement"})
	}

	if err := item.SetMeasurement(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid measurement value"})
	}

	if err := c.DB.Model(&item).Updates(map[string]interface{}{
		"value":  item.Value,
		"status": item.Status,
	}).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update item"})
	}

	return ctx.JSON(item)
}

// UpdateItem edits an item's descriptive fields. Status and measurement have
// their own endpoints; this never touches them.
func (c *InspectionController) UpdateItem(ctx *fiber.Ctx) error {
	itemID, err := strconv.Atoi(ctx.Params("itemId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var input map[string]interface{}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var item Models.InspectionItem
	if result := c.DB.First(&item, itemID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
	}

	updates := map[string]interface{}{}
	for _, field := range []string{"category", "name", "description", "notes"} {
		if v, ok := input[field]; ok {
			updates[field] = v
		}
	}
	if len(updates) == 0 {
		return ctx.JSON(item)
	}

	if err := c.DB.Model(&item).Updates(updates).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update item"})
	}

	c.DB.First(&item, item.ID)
	return ctx.JSON(item)
}

// DeleteItem removes one checklist item and its photos
func (c *InspectionController) DeleteItem(ctx *fiber.Ctx) error {
	itemID, err := strconv.Atoi(ctx.Params("itemId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var item Models.InspectionItem
	if result := c.DB.First(&item, itemID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
	}

	err = c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", item.ID).Delete(&Models.InspectionPhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete item"})
	}

	return ctx.JSON(fiber.Map{"deleted": true})
}

// UploadItemPhoto stores a photo against a checklist item, resized to keep
// reports lightweight
func (c *InspectionController) UploadItemPhoto(ctx *fiber.Ctx) error {
	itemID, err := strconv.Atoi(ctx.Params("itemId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var item Models.InspectionItem
	if result := c.DB.First(&item, itemID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
	}

	fileHeader, err := ctx.FormFile("photo")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read photo file"})
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is not a valid image"})
	}

	resized := imaging.Fit(img, 1600, 1600, imaging.Lanczos)

	if err := os.MkdirAll("InspectionPhotos", 0755); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store photo"})
	}
	outputPath := fmt.Sprintf("InspectionPhotos/%d_%d.jpg", item.ID, time.Now().UnixNano())
	if err := imaging.Save(resized, outputPath, imaging.JPEGQuality(85)); err != nil {
		log.Printf("Error saving photo for item %d: %v", item.ID, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store photo"})
	}

	photo := Models.InspectionPhoto{
		ItemID:   item.ID,
		PhotoURL: "/" + outputPath,
		Caption:  ctx.FormValue("caption"),
	}
	if err := c.DB.Create(&photo).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store photo"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(photo)
}

// DeleteItemPhoto removes a stored photo
func (c *InspectionController) DeleteItemPhoto(ctx *fiber.Ctx) error {
	photoID, err := strconv.Atoi(ctx.Params("photoId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid photo ID"})
	}

	var photo Models.InspectionPhoto
	if result := c.DB.First(&photo, photoID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
	}

	if err := c.DB.Delete(&photo).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete photo"})
	}

	return ctx.JSON(fiber.Map{"deleted": true})
}
