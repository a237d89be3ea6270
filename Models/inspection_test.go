package Models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// Each new connection would get its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	Migrate(db)
	return db
}

func TestBeforeCreateAssignsPublicID(t *testing.T) {
	db := openTestDB(t)

	inspection := Inspection{CompanyID: 1, ProjectName: "Test"}
	require.NoError(t, db.Create(&inspection).Error)

	assert.Len(t, inspection.PublicID, 32)
	assert.NotContains(t, inspection.PublicID, "-")

	// A preset id is kept
	preset := Inspection{CompanyID: 1, ProjectName: "Preset", PublicID: "feedface00000000000000000000beef"}
	require.NoError(t, db.Create(&preset).Error)
	assert.Equal(t, "feedface00000000000000000000beef", preset.PublicID)
}

func TestReportNumber(t *testing.T) {
	inspection := Inspection{PublicID: "a1b2c3d4e5f60718293a4b5c6d7e8f90"}
	assert.Equal(t, "A1B2C3D4", inspection.ReportNumber())

	short := Inspection{PublicID: "ab12"}
	assert.Equal(t, "AB12", short.ReportNumber())
}

func TestSetMeasurementMarksSatisfactory(t *testing.T) {
	item := InspectionItem{ItemType: ItemTypeMeasurement, Status: StatusPending}
	require.NoError(t, item.SetMeasurement(MeasurementValue{Feet: 2, Inches: 11}))

	assert.Equal(t, StatusSatisfactory, item.Status)
	value := item.Measurement()
	require.NotNil(t, value)
	assert.Equal(t, 2, value.Feet)
	assert.Equal(t, 11, value.Inches)
}

func TestMeasurementNilWhenUnset(t *testing.T) {
	item := InspectionItem{ItemType: ItemTypeMeasurement}
	assert.Nil(t, item.Measurement())
}

func TestValidItemStatus(t *testing.T) {
	for _, s := range []ItemStatus{StatusPending, StatusSatisfactory, StatusRecommended, StatusUnsafe, StatusNA} {
		assert.True(t, ValidItemStatus(s))
	}
	assert.False(t, ValidItemStatus("done"))
	assert.False(t, ValidItemStatus(""))
}

func TestRolePermissionMapping(t *testing.T) {
	assert.Equal(t, PermissionOwner, RolePermission(RoleOwner))
	assert.Equal(t, PermissionAdmin, RolePermission(RoleAdmin))
	assert.Equal(t, PermissionInspector, RolePermission(RoleInspector))
	assert.Equal(t, PermissionInspector, RolePermission("unknown"))
}

func TestSeedSystemTemplatesIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, SeedSystemTemplates(db))
	require.NoError(t, SeedSystemTemplates(db))

	var count int64
	db.Model(&ChecklistTemplate{}).Where("is_system = ?", true).Count(&count)
	assert.Equal(t, int64(1), count)
}
