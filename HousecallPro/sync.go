package HousecallPro

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"InspectionPro/Models"
)

// JobFields are the inspection fields derived from an external job. The
// fallback precedence lives here and nowhere else.
type JobFields struct {
	ProjectName      string
	ProjectAddress   string
	ClientName       string
	ClientEmail      string
	JobNumber        string
	AssignedEmployee string
	ScheduledDate    *time.Time
}

// DeriveJobFields maps an external job onto local inspection fields:
//   - job number: invoice number, else job number, else the raw external id
//   - project name: description, else name, else "Job #<jobNumber>"
//   - address: non-empty parts of street/city/state/zip joined by ", "
//   - client name: "first last" trimmed, else company, else empty
//   - assigned employee: comma-joined "first last" per employee, empty when none
func DeriveJobFields(job Job) JobFields {
	jobNumber := job.InvoiceNumber
	if jobNumber == "" {
		jobNumber = job.JobNumber
	}
	if jobNumber == "" {
		jobNumber = job.ID
	}

	projectName := job.Description
	if projectName == "" {
		projectName = job.Name
	}
	if projectName == "" {
		projectName = fmt.Sprintf("Job #%s", jobNumber)
	}

	addressParts := make([]string, 0, 4)
	for _, part := range []string{job.Address.Street, job.Address.City, job.Address.State, job.Address.Zip} {
		if part != "" {
			addressParts = append(addressParts, part)
		}
	}

	clientName := strings.TrimSpace(job.Customer.FirstName + " " + job.Customer.LastName)
	if clientName == "" {
		clientName = job.Customer.Company
	}

	employeeNames := make([]string, 0, len(job.AssignedEmployees))
	for _, emp := range job.AssignedEmployees {
		employeeNames = append(employeeNames, strings.TrimSpace(emp.FirstName+" "+emp.LastName))
	}

	var scheduledDate *time.Time
	if job.Schedule != nil && job.Schedule.ScheduledStart != "" {
		if parsed, err := time.Parse(time.RFC3339, job.Schedule.ScheduledStart); err == nil {
			scheduledDate = &parsed
		}
	}

	return JobFields{
		ProjectName:      projectName,
		ProjectAddress:   strings.Join(addressParts, ", "),
		ClientName:       clientName,
		ClientEmail:      job.Customer.Email,
		JobNumber:        jobNumber,
		AssignedEmployee: strings.Join(employeeNames, ", "),
		ScheduledDate:    scheduledDate,
	}
}

// ReconcileOutcome classifies what ReconcileJob did.
type ReconcileOutcome string

const (
	OutcomeCreated ReconcileOutcome = "created"
	OutcomeUpdated ReconcileOutcome = "updated"
	OutcomeSkipped ReconcileOutcome = "skipped"
)

type ReconcileResult struct {
	Outcome ReconcileOutcome `json:"outcome"`
	Reason  string           `json:"reason,omitempty"`
}

// ReconcileJob idempotently imports a single external job. An inspection
// already holding the external id gets its job-sourced fields refreshed;
// checklist items and status are never touched, so local progress survives
// every sync. Unknown jobs become new draft inspections with no items
// attached - the inspector picks a template on first open.
func ReconcileJob(db *gorm.DB, companyID, inspectorID uint, job Job) (ReconcileResult, error) {
	if job.ID == "" {
		return ReconcileResult{Outcome: OutcomeSkipped, Reason: "job has no external id"}, nil
	}

	fields := DeriveJobFields(job)
	now := time.Now()

	var existing Models.Inspection
	err := db.Where("hcp_job_id = ?", job.ID).First(&existing).Error
	if err == nil {
		updates := map[string]interface{}{
			"project_name":          fields.ProjectName,
			"project_address":       fields.ProjectAddress,
			"client_name":           fields.ClientName,
			"client_email":          fields.ClientEmail,
			"scheduled_date":        fields.ScheduledDate,
			"hcp_job_number":        fields.JobNumber,
			"hcp_assigned_employee": fields.AssignedEmployee,
			"hcp_synced_at":         &now,
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return ReconcileResult{}, fmt.Errorf("failed to update inspection for job %s: %w", job.ID, err)
		}
		return ReconcileResult{Outcome: OutcomeUpdated}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return ReconcileResult{}, fmt.Errorf("lookup failed for job %s: %w", job.ID, err)
	}

	jobID := job.ID
	inspection := Models.Inspection{
		CompanyID:           companyID,
		InspectorID:         inspectorID,
		ProjectName:         fields.ProjectName,
		ProjectAddress:      fields.ProjectAddress,
		ClientName:          fields.ClientName,
		ClientEmail:         fields.ClientEmail,
		ScheduledDate:       fields.ScheduledDate,
		Status:              Models.InspectionDraft,
		HcpJobID:            &jobID,
		HcpJobNumber:        fields.JobNumber,
		HcpAssignedEmployee: fields.AssignedEmployee,
		HcpSyncedAt:         &now,
	}
	if err := db.Create(&inspection).Error; err != nil {
		return ReconcileResult{}, fmt.Errorf("failed to create inspection for job %s: %w", job.ID, err)
	}
	return ReconcileResult{Outcome: OutcomeCreated}, nil
}

// SyncJobs reconciles a batch of external jobs sequentially. A failure on one
// job is logged and skipped; the rest of the batch still runs. Returns the
// number of newly created inspections - updates are silent, matching the
// user-facing summary.
func SyncJobs(db *gorm.DB, companyID, inspectorID uint, jobs []Job) int {
	created := 0
	for _, job := range jobs {
		result, err := ReconcileJob(db, companyID, inspectorID, job)
		if err != nil {
			log.Printf("Error reconciling HCP job %s for company %d: %v", job.ID, companyID, err)
			continue
		}
		if result.Outcome == OutcomeSkipped {
			log.Printf("Skipped HCP job %q: %s", job.ID, result.Reason)
			continue
		}
		if result.Outcome == OutcomeCreated {
			created++
		}
	}
	return created
}

// SyncCompanyJobs pulls the company's scheduled jobs from Housecall Pro and
// reconciles them. inspectorID is recorded on newly imported inspections.
func SyncCompanyJobs(db *gorm.DB, companyID, inspectorID uint) (int, error) {
	client, err := ClientForCompany(db, companyID)
	if err != nil {
		return 0, err
	}

	jobsResponse, err := client.GetJobs(1, 50)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	created := SyncJobs(db, companyID, inspectorID, jobsResponse.Jobs)
	log.Printf("HCP sync for company %d: %d jobs fetched, %d new inspections", companyID, len(jobsResponse.Jobs), created)
	return created, nil
}

// SyncAllCompanies runs a sync for every company with an active integration.
// Used by the scheduled background job; per-company failures are logged and
// do not stop the run.
func SyncAllCompanies(db *gorm.DB) {
	var integrations []Models.CompanyIntegration
	if err := db.Where("integration_type = ? AND is_active = ?", Models.IntegrationHousecallPro, true).
		Find(&integrations).Error; err != nil {
		log.Printf("Error listing HCP integrations: %v", err)
		return
	}

	for _, integration := range integrations {
		if _, err := SyncCompanyJobs(db, integration.CompanyID, integration.ConnectedBy); err != nil {
			log.Printf("Error syncing company %d: %v", integration.CompanyID, err)
		}
	}
}
