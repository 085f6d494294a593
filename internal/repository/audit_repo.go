package repository

import (
	"clinic-billing-backend/internal/models"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog creates a new audit log entry
func (r *AuditRepository) CreateAuditLog(userID *uint, action string, details string) error {
	entry := &models.AuditLog{
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	return r.db.Create(entry).Error
}

// ListRecent returns the newest audit log entries, up to limit
func (r *AuditRepository) ListRecent(limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
