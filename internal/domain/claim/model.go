package claim

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrInvalidTransition is returned by lifecycle methods called outside their
// legal source states. Directory facades translate it to a boolean result;
// handlers map it to 409.
var ErrInvalidTransition = errors.New("invalid claim state transition")

// Status is the claim workflow state.
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under-review"
	StatusApproved    Status = "approved"
	StatusDenied      Status = "denied"
	StatusPaid        Status = "paid"
	StatusWithdrawn   Status = "withdrawn"
)

var validStatuses = map[Status]bool{
	StatusSubmitted: true, StatusUnderReview: true, StatusApproved: true,
	StatusDenied: true, StatusPaid: true, StatusWithdrawn: true,
}

// Valid reports whether s is a known claim status.
func (s Status) Valid() bool { return validStatuses[s] }

// Terminal reports whether the claim can undergo no further transitions.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusDenied || s == StatusWithdrawn
}

// DisplayName returns the human-readable form of the status.
func (s Status) DisplayName() string {
	switch s {
	case StatusSubmitted:
		return "Submitted"
	case StatusUnderReview:
		return "Under Review"
	case StatusApproved:
		return "Approved"
	case StatusDenied:
		return "Denied"
	case StatusPaid:
		return "Paid"
	case StatusWithdrawn:
		return "Withdrawn"
	}
	return string(s)
}

// ServiceType categorizes the medical service a claim covers.
type ServiceType string

const (
	ServiceEmergencyRoom   ServiceType = "emergency-room"
	ServiceHospitalStay    ServiceType = "hospital-stay"
	ServiceSurgery         ServiceType = "surgery"
	ServiceDoctorVisit     ServiceType = "doctor-visit"
	ServiceDiagnosticTest  ServiceType = "diagnostic-test"
	ServicePrescriptionMed ServiceType = "prescription-medication"
	ServicePhysicalTherapy ServiceType = "physical-therapy"
	ServiceDental          ServiceType = "dental"
	ServiceVision          ServiceType = "vision"
	ServiceOther           ServiceType = "other"
)

var validServiceTypes = map[ServiceType]bool{
	ServiceEmergencyRoom: true, ServiceHospitalStay: true, ServiceSurgery: true,
	ServiceDoctorVisit: true, ServiceDiagnosticTest: true, ServicePrescriptionMed: true,
	ServicePhysicalTherapy: true, ServiceDental: true, ServiceVision: true,
	ServiceOther: true,
}

// Valid reports whether t is a known service type.
func (t ServiceType) Valid() bool { return validServiceTypes[t] }

// DisplayName returns the human-readable form of the service type.
func (t ServiceType) DisplayName() string {
	switch t {
	case ServiceEmergencyRoom:
		return "Emergency Room Visit"
	case ServiceHospitalStay:
		return "Hospital Stay"
	case ServiceSurgery:
		return "Surgery"
	case ServiceDoctorVisit:
		return "Doctor Visit"
	case ServiceDiagnosticTest:
		return "Diagnostic Test"
	case ServicePrescriptionMed:
		return "Prescription Medication"
	case ServicePhysicalTherapy:
		return "Physical Therapy"
	case ServiceDental:
		return "Dental"
	case ServiceVision:
		return "Vision"
	case ServiceOther:
		return "Other"
	}
	return string(t)
}

// Claim is an insurance reimbursement request tied to a policy and a patient.
//
// ApprovedAmount stays 0 unless Status is approved or paid; the lifecycle
// methods below are the only sanctioned way to mutate workflow state.
type Claim struct {
	Number          string      `json:"number"`
	PolicyNumber    string      `json:"policy_number"`
	PatientID       string      `json:"patient_id"`
	ServiceDate     time.Time   `json:"service_date"`
	ProviderName    string      `json:"provider_name"`
	Diagnosis       string      `json:"diagnosis"`
	ServiceType     ServiceType `json:"service_type"`
	Amount          float64     `json:"amount"`
	ApprovedAmount  float64     `json:"approved_amount"`
	Status          Status      `json:"status"`
	ProcessorID     string      `json:"processor_id,omitempty"`
	ReviewNotes     string      `json:"review_notes,omitempty"`
	DocumentPaths   []string    `json:"document_paths,omitempty"`
	SubmittedDate   time.Time   `json:"submitted_date"`
	LastUpdatedDate time.Time   `json:"last_updated_date"`
	ProcessedDate   *time.Time  `json:"processed_date,omitempty"`
}

// New files a claim in the submitted state, stamped with today's date and a
// freshly generated claim number (CLM-YYYY-NNNNN).
func New(policyNumber, patientID string, serviceDate time.Time, providerName, diagnosis string, serviceType ServiceType, amount float64) *Claim {
	now := today()
	return &Claim{
		Number:          NewNumber(),
		PolicyNumber:    policyNumber,
		PatientID:       patientID,
		ServiceDate:     serviceDate,
		ProviderName:    providerName,
		Diagnosis:       diagnosis,
		ServiceType:     serviceType,
		Amount:          amount,
		Status:          StatusSubmitted,
		SubmittedDate:   now,
		LastUpdatedDate: now,
	}
}

// NewNumber generates a claim number in the form CLM-YYYY-NNNNN.
func NewNumber() string {
	return fmt.Sprintf("CLM-%d-%05d", time.Now().Year(), rand.Intn(100000))
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MoveToUnderReview assigns the claim to a processor. Legal only from
// submitted.
func (c *Claim) MoveToUnderReview(processorID string) error {
	if c.Status != StatusSubmitted {
		return fmt.Errorf("%w: can only review submitted claims, claim %s is %s", ErrInvalidTransition, c.Number, c.Status)
	}
	c.Status = StatusUnderReview
	c.ProcessorID = processorID
	c.LastUpdatedDate = today()
	return nil
}

// Approve settles the claim at approvedAmount. Legal from submitted or
// under-review. An approved amount above the claim amount is accepted; the
// caller is responsible for warning about it.
func (c *Claim) Approve(approvedAmount float64, processorID, notes string) error {
	if c.Status != StatusUnderReview && c.Status != StatusSubmitted {
		return fmt.Errorf("%w: can only approve claims under review, claim %s is %s", ErrInvalidTransition, c.Number, c.Status)
	}
	now := today()
	c.ApprovedAmount = approvedAmount
	c.Status = StatusApproved
	c.ProcessorID = processorID
	c.ReviewNotes = notes
	c.ProcessedDate = &now
	c.LastUpdatedDate = now
	return nil
}

// Deny rejects the claim, zeroing the approved amount and recording the
// reason as review notes. Legal from submitted or under-review.
func (c *Claim) Deny(processorID, reason string) error {
	if c.Status != StatusUnderReview && c.Status != StatusSubmitted {
		return fmt.Errorf("%w: can only deny claims under review, claim %s is %s", ErrInvalidTransition, c.Number, c.Status)
	}
	now := today()
	c.ApprovedAmount = 0
	c.Status = StatusDenied
	c.ProcessorID = processorID
	c.ReviewNotes = reason
	c.ProcessedDate = &now
	c.LastUpdatedDate = now
	return nil
}

// MarkPaid records payment of an approved claim.
func (c *Claim) MarkPaid() error {
	if c.Status != StatusApproved {
		return fmt.Errorf("%w: can only pay approved claims, claim %s is %s", ErrInvalidTransition, c.Number, c.Status)
	}
	c.Status = StatusPaid
	c.LastUpdatedDate = today()
	return nil
}

// Withdraw retracts a claim that has not been processed yet.
func (c *Claim) Withdraw() error {
	if !c.CanBeWithdrawn() {
		return fmt.Errorf("%w: cannot withdraw a processed claim, claim %s is %s", ErrInvalidTransition, c.Number, c.Status)
	}
	c.Status = StatusWithdrawn
	c.LastUpdatedDate = today()
	return nil
}

// CanBeWithdrawn reports whether the claim is still withdrawable.
func (c *Claim) CanBeWithdrawn() bool {
	return c.Status == StatusSubmitted || c.Status == StatusUnderReview
}

// Pending reports whether the claim awaits a processing decision.
func (c *Claim) Pending() bool {
	return c.Status == StatusSubmitted || c.Status == StatusUnderReview
}

// AddDocument attaches a supporting-document reference, ignoring duplicates.
func (c *Claim) AddDocument(path string) {
	for _, p := range c.DocumentPaths {
		if p == path {
			return
		}
	}
	c.DocumentPaths = append(c.DocumentPaths, path)
}

// RemoveDocument detaches a supporting-document reference.
func (c *Claim) RemoveDocument(path string) {
	for i, p := range c.DocumentPaths {
		if p == path {
			c.DocumentPaths = append(c.DocumentPaths[:i], c.DocumentPaths[i+1:]...)
			return
		}
	}
}

// IsValid reports whether the claim carries the minimum data needed for
// processing.
func (c *Claim) IsValid() bool {
	return c.Number != "" &&
		c.PolicyNumber != "" &&
		c.PatientID != "" &&
		!c.ServiceDate.IsZero() &&
		c.ProviderName != "" &&
		c.Diagnosis != "" &&
		c.ServiceType.Valid() &&
		c.Amount > 0
}

func (c *Claim) String() string {
	return fmt.Sprintf("%s - %s ($%.2f) - %s", c.Number, c.ProviderName, c.Amount, c.Status.DisplayName())
}
