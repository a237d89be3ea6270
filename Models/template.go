package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChecklistTemplate struct {
	gorm.Model
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Industry    string         `json:"industry"`
	Categories  datatypes.JSON `json:"categories"`
	IsSystem    bool           `json:"is_system" gorm:"default:false"`
	CompanyID   *uint          `json:"company_id" gorm:"index"`
}

type CompanyChecklistTemplate struct {
	gorm.Model
	CompanyID  uint `json:"company_id" gorm:"index:idx_company_template,unique;not null"`
	TemplateID uint `json:"template_id" gorm:"index:idx_company_template,unique;not null"`
	IsDefault  bool `json:"is_default" gorm:"default:false"`

	Template ChecklistTemplate `json:"template" gorm:"foreignKey:TemplateID"`
}

// defaultChimneyChecklist is the built-in system template shipped with the
// service. Categories follow the template JSON shape consumed by the
// Checklist flattener: items are either bare strings or objects with
// name/item_type/description.
const defaultChimneyChecklist = `[
  {"name": "Chimney Cap", "items": ["Cap condition", "Spark arrestor", "Animal guard", "Proper sizing"]},
  {"name": "Chimney Crown", "items": ["Cracks or deterioration", "Proper slope", "Sealant condition", "Overhang adequate"]},
  {"name": "Flue", "items": ["Liner condition", "Creosote buildup", "Obstructions", "Proper sizing", "Joints sealed",
    {"name": "Flue depth", "item_type": "measurement", "description": "Measured from damper to smoke shelf"}]},
  {"name": "Firebox", "items": ["Firebrick condition", "Mortar joints", "Smoke chamber", "Back wall integrity", "Floor condition",
    {"name": "Firebox opening width", "item_type": "measurement"},
    {"name": "Firebox opening height", "item_type": "measurement"}]},
  {"name": "Damper", "items": ["Operation", "Seal condition", "Handle/controls", "Rust or corrosion"]},
  {"name": "Hearth Extension", "items": ["Size adequate", "Material condition", "Clearance to combustibles"]},
  {"name": "Exterior Masonry", "items": ["Brick condition", "Mortar joints", "Flashing", "Waterproofing", "Structural integrity"]},
  {"name": "Cleanout", "items": ["Door condition", "Seal intact", "Accessible"]}
]`

// DefaultChimneyChecklistJSON exposes the built-in template definition.
func DefaultChimneyChecklistJSON() []byte {
	return []byte(defaultChimneyChecklist)
}

// SeedSystemTemplates makes sure the built-in templates exist. Safe to run on
// every startup.
func SeedSystemTemplates(db *gorm.DB) error {
	var count int64
	if err := db.Model(&ChecklistTemplate{}).
		Where("is_system = ? AND name = ?", true, "Chimney Inspection").
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	template := ChecklistTemplate{
		Name:        "Chimney Inspection",
		Description: "NFPA 211 Level 1 chimney and fireplace inspection",
		Industry:    "chimney",
		Categories:  datatypes.JSON(defaultChimneyChecklist),
		IsSystem:    true,
	}
	return db.Create(&template).Error
}
