package Models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InspectionStatus string

const (
	InspectionDraft      InspectionStatus = "draft"
	InspectionScheduled  InspectionStatus = "scheduled"
	InspectionInProgress InspectionStatus = "in_progress"
	InspectionCompleted  InspectionStatus = "completed"
	InspectionCancelled  InspectionStatus = "cancelled"
)

type ItemStatus string

const (
	StatusPending      ItemStatus = "pending"
	StatusSatisfactory ItemStatus = "satisfactory"
	StatusRecommended  ItemStatus = "recommended"
	StatusUnsafe       ItemStatus = "unsafe"
	StatusNA           ItemStatus = "na"
)

// ValidItemStatus reports whether s is one of the five known item statuses.
func ValidItemStatus(s ItemStatus) bool {
	switch s {
	case StatusPending, StatusSatisfactory, StatusRecommended, StatusUnsafe, StatusNA:
		return true
	}
	return false
}

type ItemType string

const (
	ItemTypeStatus      ItemType = "status"
	ItemTypeMeasurement ItemType = "measurement"
)

type Inspection struct {
	gorm.Model
	// PublicID is a hex UUID used on printed reports; the numeric primary key
	// stays internal.
	PublicID       string           `json:"public_id" gorm:"uniqueIndex;size:32"`
	CompanyID      uint             `json:"company_id" gorm:"index;not null"`
	InspectorID    uint             `json:"inspector_id" gorm:"index"`
	ProjectName    string           `json:"project_name" gorm:"not null"`
	ProjectAddress string           `json:"project_address"`
	ClientName     string           `json:"client_name"`
	ClientEmail    string           `json:"client_email"`
	ScheduledDate  *time.Time       `json:"scheduled_date"`
	CompletedDate  *time.Time       `json:"completed_date"`
	Status         InspectionStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`
	Notes          string           `json:"notes" gorm:"type:text"`

	// Housecall Pro sync fields
	HcpJobID            *string    `json:"hcp_job_id" gorm:"uniqueIndex"`
	HcpJobNumber        string     `json:"hcp_job_number"`
	HcpAssignedEmployee string     `json:"hcp_assigned_employee"`
	HcpSyncedAt         *time.Time `json:"hcp_synced_at"`

	// Relationships
	Inspector User             `json:"inspector" gorm:"foreignKey:InspectorID"`
	Items     []InspectionItem `json:"items" gorm:"foreignKey:InspectionID;constraint:OnDelete:CASCADE"`

	// Derived, never stored; filled by controllers from the checklist core
	CompletionPercentage int `json:"completion_percentage" gorm:"-"`
}

func (i *Inspection) BeforeCreate(tx *gorm.DB) error {
	if i.PublicID == "" {
		i.PublicID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return nil
}

// ReportNumber is the identifier printed on generated reports.
func (i *Inspection) ReportNumber() string {
	id := i.PublicID
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

type MeasurementValue struct {
	Feet   int `json:"feet"`
	Inches int `json:"inches"`
}

type InspectionItem struct {
	gorm.Model
	InspectionID uint           `json:"inspection_id" gorm:"index;not null"`
	Category     string         `json:"category" gorm:"not null"`
	Name         string         `json:"name" gorm:"not null"`
	Description  string         `json:"description"`
	Status       ItemStatus     `json:"status" gorm:"type:varchar(20);default:'pending'"`
	ItemType     ItemType       `json:"item_type" gorm:"type:varchar(20);default:'status'"`
	Value        datatypes.JSON `json:"value"`
	Notes        string         `json:"notes" gorm:"type:text"`
	SortOrder    int            `json:"sort_order" gorm:"not null;default:0"`

	Photos []InspectionPhoto `json:"photos" gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

// Measurement decodes the JSON value column. Returns nil when no measurement
// has been recorded.
func (it *InspectionItem) Measurement() *MeasurementValue {
	if len(it.Value) == 0 {
		return nil
	}
	var v MeasurementValue
	if err := json.Unmarshal(it.Value, &v); err != nil {
		return nil
	}
	return &v
}

// SetMeasurement stores v in the JSON value column and applies the business
// rule that a recorded measurement counts as done.
func (it *InspectionItem) SetMeasurement(v MeasurementValue) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	it.Value = datatypes.JSON(b)
	it.Status = StatusSatisfactory
	return nil
}

type InspectionPhoto struct {
	gorm.Model
	ItemID   uint   `json:"item_id" gorm:"index;not null"`
	PhotoURL string `json:"photo_url" gorm:"not null"`
	Caption  string `json:"caption"`
}
