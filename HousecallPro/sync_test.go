package HousecallPro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"InspectionPro/Models"
)

func testDB(t *testing.T) *gorm.DB {
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
		&Models.CompanyIntegration{},
		&Models.Inspection{},
		&Models.InspectionItem{},
		&Models.InspectionPhoto{},
	))
	return db
}

func TestDeriveJobFieldsFallbacks(t *testing.T) {
	job := Job{
		ID: "J1",
		Customer: Customer{
			FirstName: "Jane",
		},
		Address: Address{
			Street: "1 Main St",
			City:   "Springfield",
		},
	}

	fields := DeriveJobFields(job)

	assert.Equal(t, "J1", fields.JobNumber)
	assert.Equal(t, "Job #J1", fields.ProjectName)
	assert.Equal(t, "1 Main St, Springfield", fields.ProjectAddress)
	assert.Equal(t, "Jane", fields.ClientName)
	assert.Empty(t, fields.AssignedEmployee)
	assert.Nil(t, fields.ScheduledDate)
}

func TestDeriveJobFieldsPrecedence(t *testing.T) {
	job := Job{
		ID:            "J2",
		InvoiceNumber: "INV-9",
		JobNumber:     "JOB-4",
		Name:          "Short name",
		Description:   "Annual chimney sweep",
		Customer: Customer{
			FirstName: "John",
			LastName:  "Doe",
			Company:   "Acme",
			Email:     "john@example.com",
		},
		AssignedEmployees: []Employee{
			{FirstName: "Alice", LastName: "Field"},
			{FirstName: "Bob", LastName: "Truck"},
		},
		Schedule: &Schedule{ScheduledStart: "2026-03-15T09:00:00Z"},
	}

	fields := DeriveJobFields(job)

	assert.Equal(t, "INV-9", fields.JobNumber)
	assert.Equal(t, "Annual chimney sweep", fields.ProjectName)
	assert.Equal(t, "John Doe", fields.ClientName)
	assert.Equal(t, "john@example.com", fields.ClientEmail)
	assert.Equal(t, "Alice Field, Bob Truck", fields.AssignedEmployee)
	require.NotNil(t, fields.ScheduledDate)
	assert.Equal(t, 2026, fields.ScheduledDate.Year())
}

func TestDeriveJobFieldsCompanyFallback(t *testing.T) {
	job := Job{
		ID:       "J3",
		Customer: Customer{Company: "Acme Corp"},
	}
	assert.Equal(t, "Acme Corp", DeriveJobFields(job).ClientName)
}

func TestReconcileJobCreatesDraftWithoutItems(t *testing.T) {
	db := testDB(t)

	job := Job{ID: "hcp-100", Description: "Level 1 inspection"}
	result, err := ReconcileJob(db, 1, 7, job)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)

	var inspection Models.Inspection
	require.NoError(t, db.Preload("Items").Where("hcp_job_id = ?", "hcp-100").First(&inspection).Error)
	assert.Equal(t, Models.InspectionDraft, inspection.Status)
	assert.Equal(t, uint(7), inspection.InspectorID)
	assert.Empty(t, inspection.Items)
	assert.NotNil(t, inspection.HcpSyncedAt)
	assert.Len(t, inspection.PublicID, 32)
}

func TestReconcileJobUpdatePreservesLocalProgress(t *testing.T) {
	db := testDB(t)

	job := Job{ID: "hcp-200", Description: "First pass"}
	_, err := ReconcileJob(db, 1, 7, job)
	require.NoError(t, err)

	var inspection Models.Inspection
	require.NoError(t, db.Where("hcp_job_id = ?", "hcp-200").First(&inspection).Error)

	// Inspector starts working on the imported job
	require.NoError(t, db.Model(&inspection).Update("status", Models.InspectionInProgress).Error)
	item := Models.InspectionItem{
		InspectionID: inspection.ID,
		Category:     "Flue",
		Name:         "Liner condition",
		Status:       Models.StatusSatisfactory,
	}
	require.NoError(t, db.Create(&item).Error)

	// The job changed upstream; a re-sync must refresh fields only
	job.Description = "Updated scope"
	result, err := ReconcileJob(db, 1, 7, job)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, result.Outcome)

	var after Models.Inspection
	require.NoError(t, db.Preload("Items").Where("hcp_job_id = ?", "hcp-200").First(&after).Error)
	assert.Equal(t, "Updated scope", after.ProjectName)
	assert.Equal(t, Models.InspectionInProgress, after.Status)
	require.Len(t, after.Items, 1)
	assert.Equal(t, Models.StatusSatisfactory, after.Items[0].Status)
}

func TestReconcileJobIdempotent(t *testing.T) {
	db := testDB(t)

	job := Job{ID: "hcp-300", Name: "Repeat job"}
	for i := 0; i < 3; i++ {
		_, err := ReconcileJob(db, 1, 7, job)
		require.NoError(t, err)
	}

	var count int64
	db.Model(&Models.Inspection{}).Where("hcp_job_id = ?", "hcp-300").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReconcileJobSkipsEmptyID(t *testing.T) {
	db := testDB(t)

	result, err := ReconcileJob(db, 1, 7, Job{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, result.Outcome)

	var count int64
	db.Model(&Models.Inspection{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSyncJobsCountsOnlyCreated(t *testing.T) {
	db := testDB(t)

	batch := []Job{
		{ID: "hcp-1", Name: "One"},
		{ID: "hcp-2", Name: "Two"},
		{}, // no external id, skipped
	}
	assert.Equal(t, 2, SyncJobs(db, 1, 7, batch))

	// Second run touches the same jobs; nothing new is created
	assert.Equal(t, 0, SyncJobs(db, 1, 7, batch))
}
