package service

import (
	"sort"
	"strings"
	"time"

	"clinic-billing-backend/internal/models"

	"gorm.io/gorm"
)

// fakePatientStore is an in-memory PatientStore for unit tests
type fakePatientStore struct {
	patients  []models.Patient
	nextID    uint
	listErr   error
	searchErr error
	deleteErr error
}

func newFakePatientStore(patients ...models.Patient) *fakePatientStore {
	s := &fakePatientStore{patients: patients, nextID: 1}
	for _, p := range patients {
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

func (s *fakePatientStore) sortedByName() []models.Patient {
	out := make([]models.Patient, len(s.patients))
	copy(out, s.patients)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *fakePatientStore) GetAllWithRecentBills() ([]models.Patient, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.sortedByName(), nil
}

func (s *fakePatientStore) SearchByName(query string) ([]models.Patient, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	var out []models.Patient
	for _, p := range s.sortedByName() {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePatientStore) GetByID(id uint) (*models.Patient, error) {
	for i := range s.patients {
		if s.patients[i].ID == id {
			p := s.patients[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakePatientStore) Create(patient *models.Patient) error {
	patient.ID = s.nextID
	s.nextID++
	s.patients = append(s.patients, *patient)
	return nil
}

func (s *fakePatientStore) DeleteCascade(id uint) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i := range s.patients {
		if s.patients[i].ID == id {
			s.patients = append(s.patients[:i], s.patients[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeBillStore is an in-memory BillStore for unit tests
type fakeBillStore struct {
	bills  []models.Bill
	nextID uint
}

func (s *fakeBillStore) CreateWithItems(bill *models.Bill) error {
	s.nextID++
	bill.ID = s.nextID
	for i := range bill.Items {
		bill.Items[i].BillID = bill.ID
	}
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = time.Now().UTC()
	}
	s.bills = append(s.bills, *bill)
	return nil
}

func (s *fakeBillStore) GetWithItems(id uint) (*models.Bill, error) {
	for i := range s.bills {
		if s.bills[i].ID == id {
			b := s.bills[i]
			return &b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeBillStore) CountToday(now time.Time) (int64, int64, error) {
	var bills int64
	patients := map[uint]bool{}
	for _, b := range s.bills {
		if b.CreatedAt.Year() == now.Year() && b.CreatedAt.YearDay() == now.YearDay() {
			bills++
			patients[b.PatientID] = true
		}
	}
	return bills, int64(len(patients)), nil
}

// fakeAudit records audit entries for assertions
type auditEntry struct {
	userID  *uint
	action  string
	details string
}

type fakeAudit struct {
	entries []auditEntry
}

func (a *fakeAudit) CreateAuditLog(userID *uint, action string, details string) error {
	a.entries = append(a.entries, auditEntry{userID: userID, action: action, details: details})
	return nil
}
