package service

import (
	"errors"
	"fmt"
	"time"

	"clinic-billing-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrBillNotFound = errors.New("bill not found")

// recentBillLimit caps how many bills a patient summary carries
const recentBillLimit = 5

// BillBrief is one bill row inside a patient summary. TotalAmount is null
// when any item of the bill has a corrupt stored price.
type BillBrief struct {
	ID          uint                `json:"id"`
	CreatedAt   time.Time           `json:"created_at"`
	TotalAmount decimal.NullDecimal `json:"total_amount"`
}

// PatientSummary is the display-ready view of a patient with recent bills
type PatientSummary struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Age   int         `json:"age"`
	Phone string      `json:"phone"`
	Bills []BillBrief `json:"bills"`
}

// BillTotal sums the line totals of all items, starting from zero. If any
// item's stored price cannot be parsed, the whole total is reported as
// invalid instead of a partial sum that would understate the bill.
func BillTotal(items []models.BillItem) decimal.NullDecimal {
	total := decimal.Zero
	for _, item := range items {
		lineTotal, err := item.LineTotal()
		if err != nil {
			return decimal.NullDecimal{}
		}
		total = total.Add(lineTotal)
	}
	return decimal.NullDecimal{Decimal: total, Valid: true}
}

// SummarizePatient builds a PatientSummary from a patient and its bills.
// The bills are assumed to be sorted newest-first by the caller; only the
// first recentBillLimit are kept and their order is preserved. Inputs are
// not mutated.
func SummarizePatient(patient models.Patient, bills []models.Bill) PatientSummary {
	if len(bills) > recentBillLimit {
		bills = bills[:recentBillLimit]
	}
	briefs := make([]BillBrief, 0, len(bills))
	for _, bill := range bills {
		briefs = append(briefs, BillBrief{
			ID:          bill.ID,
			CreatedAt:   bill.CreatedAt,
			TotalAmount: BillTotal(bill.Items),
		})
	}
	return PatientSummary{
		ID:    patient.ID,
		Name:  patient.Name,
		Age:   patient.Age,
		Phone: patient.Phone,
		Bills: briefs,
	}
}

type BillingService struct {
	billRepo    BillStore
	patientRepo PatientStore
	auditRepo   AuditLogger
}

func NewBillingService(billRepo BillStore, patientRepo PatientStore, auditRepo AuditLogger) *BillingService {
	return &BillingService{
		billRepo:    billRepo,
		patientRepo: patientRepo,
		auditRepo:   auditRepo,
	}
}

// BillItemInput is one medicine line on a bill creation request
type BillItemInput struct {
	MedicineName string          `json:"medicine_name"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

// CreateBillRequest creates a bill for an existing patient (patient_id set)
// or registers a new patient from the name/age/phone fields.
type CreateBillRequest struct {
	PatientID *uint           `json:"patient_id"`
	Name      string          `json:"name"`
	Age       int             `json:"age"`
	Phone     string          `json:"phone"`
	Items     []BillItemInput `json:"items"`
}

func validateBillItems(items []BillItemInput) error {
	if len(items) == 0 {
		return errors.New("at least one line item is required")
	}
	for i, item := range items {
		if item.MedicineName == "" {
			return fmt.Errorf("item %d: medicine_name is required", i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive", i+1)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("item %d: price cannot be negative", i+1)
		}
	}
	return nil
}

// CreateBill resolves or creates the patient, then stores the bill and its
// items atomically.
func (s *BillingService) CreateBill(req *CreateBillRequest, actorID uint) (*models.Bill, error) {
	if err := validateBillItems(req.Items); err != nil {
		return nil, err
	}

	var patient *models.Patient
	if req.PatientID != nil {
		existing, err := s.patientRepo.GetByID(*req.PatientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPatientNotFound
			}
			return nil, fmt.Errorf("failed to load patient: %w", err)
		}
		patient = existing
	} else {
		if req.Name == "" {
			return nil, errors.New("patient name is required")
		}
		patient = &models.Patient{Name: req.Name, Age: req.Age, Phone: req.Phone}
		if err := s.patientRepo.Create(patient); err != nil {
			return nil, fmt.Errorf("failed to create patient: %w", err)
		}
	}

	bill := &models.Bill{PatientID: patient.ID}
	for _, in := range req.Items {
		bill.Items = append(bill.Items, models.BillItem{
			MedicineName: in.MedicineName,
			Quantity:     in.Quantity,
			PricePerUnit: in.Price.StringFixed(2),
		})
	}

	if err := s.billRepo.CreateWithItems(bill); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	// Audit log
	details := fmt.Sprintf("Created bill %d for patient %s (ID: %d)", bill.ID, patient.Name, patient.ID)
	_ = s.auditRepo.CreateAuditLog(&actorID, "bill_create", details)

	return bill, nil
}

// LookupPatient fetches an existing patient, for prefilling the bill form
func (s *BillingService) LookupPatient(patientID uint) (*models.Patient, error) {
	patient, err := s.patientRepo.GetByID(patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}
	return patient, nil
}

// BillItemView is one line of a bill summary. LineTotal is null when the
// stored price is corrupt.
type BillItemView struct {
	MedicineName string              `json:"medicine_name"`
	Quantity     int                 `json:"quantity"`
	PricePerUnit string              `json:"price_per_unit"`
	LineTotal    decimal.NullDecimal `json:"line_total"`
}

// BillSummary is the display-ready view of a single bill
type BillSummary struct {
	ID          uint                `json:"id"`
	CreatedAt   time.Time           `json:"created_at"`
	Patient     models.Patient      `json:"patient"`
	Items       []BillItemView      `json:"items"`
	TotalAmount decimal.NullDecimal `json:"total_amount"`
}

// GetBillSummary loads a bill and recomputes its total from the current items
func (s *BillingService) GetBillSummary(billID uint) (*BillSummary, error) {
	bill, err := s.billRepo.GetWithItems(billID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}

	items := make([]BillItemView, 0, len(bill.Items))
	for _, item := range bill.Items {
		view := BillItemView{
			MedicineName: item.MedicineName,
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit,
		}
		if lineTotal, err := item.LineTotal(); err == nil {
			view.LineTotal = decimal.NullDecimal{Decimal: lineTotal, Valid: true}
		}
		items = append(items, view)
	}

	return &BillSummary{
		ID:          bill.ID,
		CreatedAt:   bill.CreatedAt,
		Patient:     bill.Patient,
		Items:       items,
		TotalAmount: BillTotal(bill.Items),
	}, nil
}

// TodayStats holds the dashboard counters shown on the bill form
type TodayStats struct {
	BillCount    int64 `json:"today_bills_count"`
	PatientCount int64 `json:"today_patients_count"`
}

// GetTodayStats counts today's bills and the distinct patients billed today
func (s *BillingService) GetTodayStats() (*TodayStats, error) {
	bills, patients, err := s.billRepo.CountToday(time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to count today's bills: %w", err)
	}
	return &TodayStats{BillCount: bills, PatientCount: patients}, nil
}
