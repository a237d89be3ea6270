package Controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"InspectionPro/Models"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// Each new connection would get its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&Models.User{},
		&Models.Company{},
		&Models.CompanyMember{},
		&Models.ChecklistTemplate{},
		&Models.CompanyChecklistTemplate{},
		&Models.Inspection{},
		&Models.InspectionItem{},
		&Models.InspectionPhoto{},
	))
	require.NoError(t, Models.SeedSystemTemplates(db))

	user := Models.User{Email: "inspector@test.local", FullName: "Test Inspector", Permission: Models.PermissionInspector}
	require.NoError(t, db.Create(&user).Error)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", user)
		return c.Next()
	})

	ic := NewInspectionController(db)
	app.Post("/api/inspections", ic.CreateInspection)
	app.Get("/api/inspections/:id", ic.GetInspection)
	app.Post("/api/inspections/:id/template", ic.ApplyTemplate)
	app.Post("/api/inspections/:id/items", ic.AddItem)
	app.Put("/api/items/:itemId/status", ic.SetItemStatus)
	app.Put("/api/items/:itemId/measurement", ic.SetItemMeasurement)

	return app, db
}

func jsonRequest(t *testing.T, app *fiber.App, method, path string, payload interface{}) *http.Response {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func createInspectionWithTemplate(t *testing.T, app *fiber.App, db *gorm.DB) Models.Inspection {
	t.Helper()

	company := Models.Company{Name: "Acme Chimney Co"}
	require.NoError(t, db.Create(&company).Error)
	var template Models.ChecklistTemplate
	require.NoError(t, db.Where("is_system = ?", true).First(&template).Error)

	resp := jsonRequest(t, app, "POST", "/api/inspections", fiber.Map{
		"company_id":   company.ID,
		"project_name": "Smith Residence",
		"template_id":  template.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var inspection Models.Inspection
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&inspection))
	require.NotEmpty(t, inspection.Items)
	return inspection
}

func TestCreateInspectionSeedsTemplateItems(t *testing.T) {
	app, db := setupTestApp(t)
	inspection := createInspectionWithTemplate(t, app, db)

	assert.Equal(t, Models.InspectionDraft, inspection.Status)
	assert.Equal(t, 0, inspection.CompletionPercentage)
	assert.Len(t, inspection.PublicID, 32)

	// All seeded items start pending, ordered by a single ascending index
	for i, item := range inspection.Items {
		assert.Equal(t, Models.StatusPending, item.Status)
		assert.Equal(t, i, item.SortOrder)
	}
}

func TestCreateInspectionValidation(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := jsonRequest(t, app, "POST", "/api/inspections", fiber.Map{"company_id": 1})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = jsonRequest(t, app, "POST", "/api/inspections", fiber.Map{
		"company_id": 1, "project_name": "X", "client_email": "not-an-email",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSetItemStatusTogglesBackToPending(t *testing.T) {
	app, db := setupTestApp(t)
	inspection := createInspectionWithTemplate(t, app, db)
	itemID := inspection.Items[0].ID

	statusPath := fmt.Sprintf("/api/items/%d/status", itemID)

	// First tap marks the item
	resp := jsonRequest(t, app, "PUT", statusPath, fiber.Map{"status": "satisfactory"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var item Models.InspectionItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	assert.Equal(t, Models.StatusSatisfactory, item.Status)

	// Tapping the same status again clears it
	resp = jsonRequest(t, app, "PUT", statusPath, fiber.Map{"status": "satisfactory"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	assert.Equal(t, Models.StatusPending, item.Status)

	// A different status replaces, never toggles
	resp = jsonRequest(t, app, "PUT", statusPath, fiber.Map{"status": "unsafe"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	assert.Equal(t, Models.StatusUnsafe, item.Status)

	resp = jsonRequest(t, app, "PUT", statusPath, fiber.Map{"status": "recommended"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	assert.Equal(t, Models.StatusRecommended, item.Status)
}

func TestSetItemStatusRejectsUnknownStatus(t *testing.T) {
	app, db := setupTestApp(t)
	inspection := createInspectionWithTemplate(t, app, db)

	resp := jsonRequest(t, app, "PUT",
		fmt.Sprintf("/api/items/%d/status", inspection.Items[0].ID),
		fiber.Map{"status": "maybe"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSetItemMeasurementMarksSatisfactory(t *testing.T) {
	app, db := setupTestApp(t)
	inspection := createInspectionWithTemplate(t, app, db)

	var measurement Models.InspectionItem
	require.NoError(t, db.Where("inspection_id = ? AND item_type = ?",
		inspection.ID, Models.ItemTypeMeasurement).First(&measurement).Error)

	resp := jsonRequest(t, app, "PUT",
		fmt.Sprintf("/api/items/%d/measurement", measurement.ID),
		fiber.Map{"feet": 3, "inches": 7})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var item Models.InspectionItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	assert.Equal(t, Models.StatusSatisfactory, item.Status)
	value := item.Measurement()
	require.NotNil(t, value)
	assert.Equal(t, 3, value.Feet)
	assert.Equal(t, 7, value.Inches)
}

func TestSetItemMeasurementRejectsStatusItem(t *testing.T) {
	app, db := setupTestApp(t)
	inspection := createInspectionWithTemplate(t, app, db)

	var statusItem Models.InspectionItem
	require.NoError(t, db.Where("inspection_id = ? AND item_type = ?",
		inspection.ID, Models.ItemTypeStatus).First(&statusItem).Error)

	resp := jsonRequest(t, app, "PUT",
		fmt.Sprintf("/api/items/%d/measurement", statusItem.ID),
		fiber.Map{"feet": 1, "inches": 0})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetInspectionReportsCompletion(t *testing.T) {
	app, db := setupTestApp(t)
	inspection := createInspectionWithTemplate(t, app, db)

	// Complete half the checklist
	total := len(inspection.Items)
	for i := 0; i < total/2; i++ {
		require.NoError(t, db.Model(&Models.InspectionItem{}).
			Where("id = ?", inspection.Items[i].ID).
			Update("status", Models.StatusSatisfactory).Error)
	}

	resp := jsonRequest(t, app, "GET", fmt.Sprintf("/api/inspections/%d", inspection.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Inspection Models.Inspection `json:"inspection"`
		Categories []struct {
			Category string                  `json:"category"`
			Items    []Models.InspectionItem `json:"items"`
		} `json:"categories"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))

	expected := int(float64(total/2)/float64(total)*100 + 0.5)
	assert.Equal(t, expected, payload.Inspection.CompletionPercentage)
	assert.NotEmpty(t, payload.Categories)
}

func TestAddItemAppendsAfterExisting(t *testing.T) {
	app, db := setupTestApp(t)
	inspection := createInspectionWithTemplate(t, app, db)

	resp := jsonRequest(t, app, "POST",
		fmt.Sprintf("/api/inspections/%d/items", inspection.ID),
		fiber.Map{"category": "Extras", "name": "Custom check"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var item Models.InspectionItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	assert.Equal(t, len(inspection.Items), item.SortOrder)
	assert.Equal(t, Models.ItemTypeStatus, item.ItemType)
	assert.Equal(t, Models.StatusPending, item.Status)
}

func TestApplyTemplateReplacesItems(t *testing.T) {
	app, db := setupTestApp(t)
	inspection := createInspectionWithTemplate(t, app, db)

	// Record some progress, then re-apply; the checklist resets
	require.NoError(t, db.Model(&Models.InspectionItem{}).
		Where("id = ?", inspection.Items[0].ID).
		Update("status", Models.StatusUnsafe).Error)

	var template Models.ChecklistTemplate
	require.NoError(t, db.Where("is_system = ?", true).First(&template).Error)

	resp := jsonRequest(t, app, "POST",
		fmt.Sprintf("/api/inspections/%d/template", inspection.ID),
		fiber.Map{"template_id": template.ID})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var after Models.Inspection
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&after))
	assert.Len(t, after.Items, len(inspection.Items))
	for _, item := range after.Items {
		assert.Equal(t, Models.StatusPending, item.Status)
	}
	assert.Equal(t, 0, after.CompletionPercentage)
}
