package Models

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, relying on process environment")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "database.db"
	}

	connection, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", dbPath, err)
	}
	DB = connection

	Migrate(DB)

	if err := SeedSystemTemplates(DB); err != nil {
		log.Printf("Error seeding system templates: %v", err)
	}
}

// Migrate runs AutoMigrate in dependency order.
func Migrate(db *gorm.DB) {
	// 1. Base entities with no foreign keys
	db.AutoMigrate(
		&User{},
		&Company{},
	)

	// 2. Entities referencing users and companies
	db.AutoMigrate(
		&CompanyMember{},
		&CompanyInvitation{},
		&CompanyIntegration{},
		&ChecklistTemplate{},
	)

	// 3. Entities referencing templates and companies
	db.AutoMigrate(
		&CompanyChecklistTemplate{},
		&Inspection{},
	)

	// 4. Inspection children
	db.AutoMigrate(
		&InspectionItem{},
		&InspectionPhoto{},
	)
}
