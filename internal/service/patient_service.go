package service

import (
	"errors"
	"fmt"
	"strings"

	"clinic-billing-backend/internal/models"

	"gorm.io/gorm"
)

// Error texts are part of the delete contract surfaced to callers.
var (
	ErrPatientNotFound = errors.New("Patient not found.")
	ErrDeleteFailed    = errors.New("Could not delete patient.")
)

type PatientService struct {
	patientRepo PatientStore
	auditRepo   AuditLogger
}

func NewPatientService(patientRepo PatientStore, auditRepo AuditLogger) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
		auditRepo:   auditRepo,
	}
}

// ListAllPatients returns every patient ordered by name, each with up to 5
// most recent bills and recomputed totals. Corrupt bill data shows up as
// null totals, not as a listing failure.
func (s *PatientService) ListAllPatients() ([]PatientSummary, error) {
	patients, err := s.patientRepo.GetAllWithRecentBills()
	if err != nil {
		return nil, fmt.Errorf("failed to load patients: %w", err)
	}
	return summarizeAll(patients), nil
}

// SearchPatients performs a case-insensitive substring match on patient
// name, ordered by name. An empty query returns an empty result on purpose
// so an empty search box never triggers a full directory scan. On store
// failure it returns an empty result set along with the error.
func (s *PatientService) SearchPatients(query string) ([]PatientSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []PatientSummary{}, nil
	}
	patients, err := s.patientRepo.SearchByName(query)
	if err != nil {
		return []PatientSummary{}, fmt.Errorf("patient search failed: %w", err)
	}
	return summarizeAll(patients), nil
}

// DeletePatient removes a patient with all of its bills and items. A missing
// patient reports ErrPatientNotFound; any other failure reports the generic
// ErrDeleteFailed. It never panics past this boundary.
func (s *PatientService) DeletePatient(patientID uint, actorID uint) (bool, error) {
	patient, err := s.patientRepo.GetByID(patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrPatientNotFound
		}
		return false, ErrDeleteFailed
	}

	if err := s.patientRepo.DeleteCascade(patientID); err != nil {
		return false, ErrDeleteFailed
	}

	// Audit log
	details := fmt.Sprintf("Deleted patient %s (ID: %d)", patient.Name, patientID)
	_ = s.auditRepo.CreateAuditLog(&actorID, "patient_delete", details)

	return true, nil
}

func summarizeAll(patients []models.Patient) []PatientSummary {
	summaries := make([]PatientSummary, 0, len(patients))
	for _, p := range patients {
		summaries = append(summaries, SummarizePatient(p, p.Bills))
	}
	return summaries
}
