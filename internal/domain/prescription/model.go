package prescription

import (
	"fmt"
	"math/rand"
	"time"
)

// Status is the prescription lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusFilled    Status = "filled"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var validStatuses = map[Status]bool{
	StatusActive: true, StatusFilled: true, StatusExpired: true,
	StatusCancelled: true, StatusCompleted: true,
}

// Valid reports whether s is a known prescription status.
func (s Status) Valid() bool { return validStatuses[s] }

// DisplayName returns the human-readable form of the status.
func (s Status) DisplayName() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusFilled:
		return "Filled"
	case StatusExpired:
		return "Expired"
	case StatusCancelled:
		return "Cancelled"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

// Prescription is a medication order with refill tracking. New prescriptions
// are valid for one year from the prescribed date.
type Prescription struct {
	Number            string      `json:"number"`
	PatientID         string      `json:"patient_id"`
	DoctorID          string      `json:"doctor_id,omitempty"`
	MedicationID      string      `json:"medication_id"`
	Dosage            string      `json:"dosage"`
	Quantity          int         `json:"quantity"`
	RefillsRemaining  int         `json:"refills_remaining"`
	RefillsAuthorized int         `json:"refills_authorized"`
	Instructions      string      `json:"instructions,omitempty"`
	PrescribedDate    time.Time   `json:"prescribed_date"`
	ExpiryDate        time.Time   `json:"expiry_date"`
	PharmacyID        string      `json:"pharmacy_id,omitempty"`
	PolicyNumber      string      `json:"policy_number,omitempty"`
	Status            Status      `json:"status"`
	RefillDates       []time.Time `json:"refill_dates,omitempty"`
}

// New writes a prescription in the active state with the full refill
// allowance and a one-year validity window.
func New(patientID, doctorID, medicationID, dosage string, quantity, refillsAuthorized int, instructions, pharmacyID, policyNumber string) *Prescription {
	now := today()
	return &Prescription{
		Number:            NewNumber(),
		PatientID:         patientID,
		DoctorID:          doctorID,
		MedicationID:      medicationID,
		Dosage:            dosage,
		Quantity:          quantity,
		RefillsRemaining:  refillsAuthorized,
		RefillsAuthorized: refillsAuthorized,
		Instructions:      instructions,
		PrescribedDate:    now,
		ExpiryDate:        now.AddDate(1, 0, 0),
		PharmacyID:        pharmacyID,
		PolicyNumber:      policyNumber,
		Status:            StatusActive,
	}
}

// NewNumber generates a prescription number in the form RX-YYYY-NNNNNN.
func NewNumber() string {
	return fmt.Sprintf("RX-%d-%06d", time.Now().Year(), rand.Intn(1000000))
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CanRefill reports whether a refill may be dispensed: refills left, not
// expired, status active.
func (p *Prescription) CanRefill() bool {
	return p.RefillsRemaining > 0 && !p.IsExpired() && p.Status == StatusActive
}

// ProcessRefill dispenses one refill, recording the fill date. When the last
// authorized refill is used the prescription completes. Returns false when
// no refill can be dispensed.
func (p *Prescription) ProcessRefill() bool {
	if !p.CanRefill() {
		return false
	}
	p.RefillsRemaining--
	p.RefillDates = append(p.RefillDates, today())
	if p.RefillsRemaining == 0 {
		p.Status = StatusCompleted
	}
	return true
}

// IsExpired reports whether the prescription is past its expiry date or has
// been administratively marked expired.
func (p *Prescription) IsExpired() bool {
	return today().After(p.ExpiryDate) || p.Status == StatusExpired
}

// Cancel voids the prescription. Unconditional; a completed or expired
// prescription can still be cancelled for record keeping.
func (p *Prescription) Cancel() {
	p.Status = StatusCancelled
}

// RefillsProcessed returns how many refills have been dispensed.
func (p *Prescription) RefillsProcessed() int {
	return p.RefillsAuthorized - p.RefillsRemaining
}

// IsReadyForRefill reports whether the prescription is running low: one or
// two refills left on an active prescription.
func (p *Prescription) IsReadyForRefill() bool {
	return p.RefillsRemaining > 0 && p.RefillsRemaining <= 2 && p.Status == StatusActive
}

// RefillStatusMessage renders the refill counter for display.
func (p *Prescription) RefillStatusMessage() string {
	switch p.RefillsRemaining {
	case 0:
		return "No refills remaining - Contact your doctor"
	case 1:
		return "1 refill remaining"
	default:
		return fmt.Sprintf("%d refills remaining", p.RefillsRemaining)
	}
}

// IsValid reports whether the prescription carries the minimum data needed
// for dispensing.
func (p *Prescription) IsValid() bool {
	return p.Number != "" &&
		p.PatientID != "" &&
		p.MedicationID != "" &&
		p.Dosage != "" &&
		p.Quantity > 0 &&
		p.RefillsAuthorized >= 0 &&
		p.RefillsRemaining <= p.RefillsAuthorized &&
		!p.PrescribedDate.IsZero() &&
		!p.ExpiryDate.IsZero()
}

func (p *Prescription) String() string {
	return fmt.Sprintf("%s - %s (%d refills)", p.Number, p.Dosage, p.RefillsRemaining)
}
