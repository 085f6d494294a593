package repository

import (
	"strings"

	"clinic-billing-backend/internal/models"

	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepo(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

// recentBillsFirst orders preloaded bills newest-first so callers can
// truncate to the most recent ones without re-sorting.
func recentBillsFirst(db *gorm.DB) *gorm.DB {
	return db.Order("bills.created_at DESC, bills.id DESC")
}

// GetAllWithRecentBills retrieves every patient ordered by name, with bills
// (newest-first) and their items preloaded.
func (r *PatientRepository) GetAllWithRecentBills() ([]models.Patient, error) {
	var patients []models.Patient
	err := r.db.
		Preload("Bills", recentBillsFirst).
		Preload("Bills.Items").
		Order("name ASC").
		Find(&patients).Error
	return patients, err
}

// SearchByName retrieves patients whose name contains the query,
// case-insensitively, ordered by name. Bills are preloaded newest-first.
func (r *PatientRepository) SearchByName(query string) ([]models.Patient, error) {
	var patients []models.Patient
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db.
		Where("LOWER(name) LIKE ?", pattern).
		Preload("Bills", recentBillsFirst).
		Preload("Bills.Items").
		Order("name ASC").
		Find(&patients).Error
	return patients, err
}

// GetByID retrieves a patient by ID. Returns gorm.ErrRecordNotFound when the
// patient does not exist; callers decide how to surface that.
func (r *PatientRepository) GetByID(id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.First(&patient, id).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

// Create creates a new patient
func (r *PatientRepository) Create(patient *models.Patient) error {
	return r.db.Create(patient).Error
}

// DeleteCascade removes a patient together with all of its bills and their
// items inside a single transaction. The schema also declares ON DELETE
// CASCADE, but the deletion order is kept explicit so the contract does not
// depend on how the store is configured.
func (r *PatientRepository) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var billIDs []uint
		if err := tx.Model(&models.Bill{}).
			Where("patient_id = ?", id).
			Pluck("id", &billIDs).Error; err != nil {
			return err
		}
		if len(billIDs) > 0 {
			if err := tx.Where("bill_id IN ?", billIDs).Delete(&models.BillItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", billIDs).Delete(&models.Bill{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Patient{}, id).Error
	})
}
