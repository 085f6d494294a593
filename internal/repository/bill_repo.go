package repository

import (
	"time"

	"clinic-billing-backend/internal/models"

	"gorm.io/gorm"
)

type BillRepository struct {
	db *gorm.DB
}

func NewBillRepo(db *gorm.DB) *BillRepository {
	return &BillRepository{db: db}
}

// CreateWithItems inserts a bill together with its line items in one
// transaction. Bills are immutable after this point.
func (r *BillRepository) CreateWithItems(bill *models.Bill) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		items := bill.Items
		bill.Items = nil
		if err := tx.Create(bill).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].BillID = bill.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		bill.Items = items
		return nil
	})
}

// GetWithItems retrieves a bill with its patient and items preloaded.
// Returns gorm.ErrRecordNotFound when the bill does not exist.
func (r *BillRepository) GetWithItems(id uint) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.
		Preload("Patient").
		Preload("Items").
		First(&bill, id).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// CountToday returns how many bills were created today and for how many
// distinct patients. Day boundaries follow the database clock (UTC, see
// database.Connect).
func (r *BillRepository) CountToday(now time.Time) (bills int64, patients int64, err error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	if err = r.db.Model(&models.Bill{}).
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Count(&bills).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.Model(&models.Bill{}).
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Distinct("patient_id").
		Count(&patients).Error; err != nil {
		return 0, 0, err
	}
	return bills, patients, nil
}
