package models

// Patient represents a clinic patient
type Patient struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;not null;index" json:"name"`
	Age   int    `gorm:"not null" json:"age"`
	Phone string `gorm:"size:15;not null" json:"phone"`

	// Relationships
	Bills []Bill `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"bills,omitempty"`
}

// TableName specifies the table name for Patient model
func (Patient) TableName() string {
	return "patients"
}
