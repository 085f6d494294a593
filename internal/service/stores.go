package service

import (
	"time"

	"clinic-billing-backend/internal/models"
)

// PatientStore is the data access surface the directory operations need.
// Implemented by repository.PatientRepository.
type PatientStore interface {
	GetAllWithRecentBills() ([]models.Patient, error)
	SearchByName(query string) ([]models.Patient, error)
	GetByID(id uint) (*models.Patient, error)
	Create(patient *models.Patient) error
	DeleteCascade(id uint) error
}

// BillStore is implemented by repository.BillRepository.
type BillStore interface {
	CreateWithItems(bill *models.Bill) error
	GetWithItems(id uint) (*models.Bill, error)
	CountToday(now time.Time) (bills int64, patients int64, err error)
}

// AuditLogger is implemented by repository.AuditRepository.
type AuditLogger interface {
	CreateAuditLog(userID *uint, action string, details string) error
}
