package FiberConfig

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"InspectionPro/Controllers"
	"InspectionPro/HousecallPro"
	"InspectionPro/Models"
	"InspectionPro/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	companyController := Controllers.NewCompanyController(db)
	inspectionController := Controllers.NewInspectionController(db)
	templateController := Controllers.NewTemplateController(db)
	reportController := Controllers.NewReportController(db)
	integrationController := HousecallPro.NewIntegrationController(db)

	// API group
	api := app.Group("/api")

	// Company routes
	companies := api.Group("/companies", middleware.Verify(1))
	companies.Get("/", companyController.GetUserCompanies)
	companies.Post("/", companyController.CreateCompany)
	companies.Get("/:id", companyController.GetCompany)
	companies.Put("/:id", middleware.Verify(3), companyController.UpdateCompany)
	companies.Post("/:id/logo", middleware.Verify(3), companyController.UploadLogo)
	companies.Delete("/:id/logo", middleware.Verify(3), companyController.RemoveLogo)

	// Member and invitation routes under companies
	companies.Get("/:id/members", companyController.GetMembers)
	companies.Put("/:id/members/:memberId/role", middleware.Verify(4), companyController.UpdateMemberRole)
	companies.Delete("/:id/members/:memberId", middleware.Verify(3), companyController.RemoveMember)
	companies.Post("/:id/invitations", middleware.Verify(3), companyController.InviteMember)
	companies.Get("/:id/invitations", middleware.Verify(3), companyController.GetPendingInvitations)
	companies.Delete("/:id/invitations/:invitationId", middleware.Verify(3), companyController.CancelInvitation)
	app.Post("/api/invitations/accept", middleware.Verify(1), companyController.AcceptInvitation)

	// Template routes
	api.Get("/templates", middleware.Verify(1), templateController.GetSystemTemplates)
	api.Get("/templates/:templateId/preview", middleware.Verify(1), templateController.PreviewTemplate)
	companies.Get("/:id/templates", templateController.GetCompanyTemplates)
	companies.Post("/:id/templates", middleware.Verify(3), templateController.EnableTemplate)
	companies.Put("/:id/templates/:templateId/default", middleware.Verify(3), templateController.SetDefaultTemplate)
	companies.Delete("/:id/templates/:templateId", middleware.Verify(3), templateController.DisableTemplate)
	companies.Post("/:id/templates/custom", middleware.Verify(3), templateController.CreateCustomTemplate)

	// Inspection routes
	inspections := api.Group("/inspections", middleware.Verify(1))
	inspections.Get("/", inspectionController.GetInspections)
	inspections.Post("/", inspectionController.CreateInspection)
	inspections.Get("/:id", inspectionController.GetInspection)
	inspections.Put("/:id", inspectionController.UpdateInspection)
	inspections.Delete("/:id", middleware.Verify(3), inspectionController.DeleteInspection)
	inspections.Post("/:id/template", inspectionController.ApplyTemplate)
	inspections.Post("/:id/items", inspectionController.AddItem)

	// Checklist item routes
	items := api.Group("/items", middleware.Verify(1))
	items.Put("/:itemId/status", inspectionController.SetItemStatus)
	items.Put("/:itemId/measurement", inspectionController.SetItemMeasurement)
	items.Put("/:itemId", inspectionController.UpdateItem)
	items.Delete("/:itemId", inspectionController.DeleteItem)
	items.Post("/:itemId/photos", inspectionController.UploadItemPhoto)
	items.Delete("/photos/:photoId", inspectionController.DeleteItemPhoto)

	// Report routes
	inspections.Get("/:id/report", reportController.GetReport)
	inspections.Post("/:id/report/hcp", reportController.SendReportToHcp)
	companies.Get("/:id/inspections/export", middleware.Verify(3), reportController.ExportInspectionsExcel)

	// Housecall Pro integration routes
	integrations := api.Group("/companies/:companyId/integrations/housecall-pro", middleware.Verify(3))
	integrations.Get("/", integrationController.Status)
	integrations.Post("/", integrationController.SaveAPIKey)
	integrations.Delete("/", integrationController.RemoveAPIKey)
	integrations.Post("/test", integrationController.TestConnection)
	integrations.Post("/sync", integrationController.SyncJobs)
}

func FiberConfig() {
	fmt.Println("Server Up...")
	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(middleware.ErrorLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*", // Allow all origins
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true, // Important for cookies
		MaxAge:           300,  // Max age for preflight requests caching (5 minutes)
	}))

	SetupRoutes(app, Models.DB)
	app.Post("/api/RegisterUser", Controllers.RegisterUser)
	app.Post("/api/Login", Controllers.Login)
	app.Get("/api/validate-token", Controllers.ValidateToken)
	app.Use("/api/User", Controllers.User)
	app.Use("/api/Logout", Controllers.Logout)
	app.Patch("/api/UpdateUser", middleware.Verify(1), Controllers.UpdateUser)
	app.Get("/api/FetchUsers", middleware.Verify(4), Controllers.FetchUsers)

	// Logs API routes
	app.Get("/api/logs", middleware.Verify(4), Controllers.GetLogs)
	app.Get("/api/logs/stats", middleware.Verify(4), Controllers.GetLogStats)

	// Serve Static Images
	app.Static("/CompanyLogos", "./CompanyLogos", fiber.Static{Compress: true, CacheDuration: time.Second * 10})
	app.Static("/InspectionPhotos", "./InspectionPhotos", fiber.Static{Compress: true, CacheDuration: time.Second * 10})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	app.Listen(":" + port)
}
