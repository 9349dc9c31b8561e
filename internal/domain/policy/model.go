package policy

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// ErrPolicyExpired is returned when an operation is attempted on a policy
// past its expiry date. Renewal is the only way out of that state.
var ErrPolicyExpired = errors.New("policy is expired")

// Type classifies the coverage plan.
type Type string

const (
	TypeIndividualHMO Type = "individual-hmo"
	TypeIndividualPPO Type = "individual-ppo"
	TypeFamilyHMO     Type = "family-hmo"
	TypeFamilyPPO     Type = "family-ppo"
	TypeGroup         Type = "group"
	TypeMedicare      Type = "medicare"
	TypeMedicaid      Type = "medicaid"
)

var validTypes = map[Type]bool{
	TypeIndividualHMO: true, TypeIndividualPPO: true, TypeFamilyHMO: true,
	TypeFamilyPPO: true, TypeGroup: true, TypeMedicare: true, TypeMedicaid: true,
}

// Valid reports whether t is a known policy type.
func (t Type) Valid() bool { return validTypes[t] }

// DisplayName returns the human-readable form of the type.
func (t Type) DisplayName() string {
	switch t {
	case TypeIndividualHMO:
		return "Individual HMO"
	case TypeIndividualPPO:
		return "Individual PPO"
	case TypeFamilyHMO:
		return "Family HMO"
	case TypeFamilyPPO:
		return "Family PPO"
	case TypeGroup:
		return "Group"
	case TypeMedicare:
		return "Medicare"
	case TypeMedicaid:
		return "Medicaid"
	}
	return string(t)
}

// Status is the administrative state of a policy. Whether coverage is in
// force also depends on the date range; see IsCurrentlyActive.
type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
	StatusSuspended Status = "suspended"
	StatusPending   Status = "pending"
)

var validStatuses = map[Status]bool{
	StatusActive: true, StatusExpired: true, StatusCancelled: true,
	StatusSuspended: true, StatusPending: true,
}

// Valid reports whether s is a known policy status.
func (s Status) Valid() bool { return validStatuses[s] }

// DisplayName returns the human-readable form of the status.
func (s Status) DisplayName() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusExpired:
		return "Expired"
	case StatusCancelled:
		return "Cancelled"
	case StatusSuspended:
		return "Suspended"
	case StatusPending:
		return "Pending"
	}
	return string(s)
}

// Policy is an insurance coverage contract held by a patient.
type Policy struct {
	Number              string    `json:"number"`
	PatientID           string    `json:"patient_id"`
	Type                Type      `json:"type"`
	Status              Status    `json:"status"`
	CoverageAmount      float64   `json:"coverage_amount"`
	Deductible          float64   `json:"deductible"`
	Copayment           float64   `json:"copayment"`
	MonthlyPremium      float64   `json:"monthly_premium"`
	StartDate           time.Time `json:"start_date"`
	ExpiryDate          time.Time `json:"expiry_date"`
	InsuranceProviderID string    `json:"insurance_provider_id,omitempty"`
	Beneficiaries       []string  `json:"beneficiaries,omitempty"`
	ClaimIDs            []string  `json:"claim_ids,omitempty"`
	CreatedDate         time.Time `json:"created_date"`
}

// New issues an active policy starting at startDate and running for
// durationYears. The policy number is freshly generated (POL-YYYY-NNNNN).
func New(patientID string, policyType Type, coverageAmount, deductible, copayment float64, insuranceProviderID string, startDate time.Time, durationYears int) *Policy {
	return &Policy{
		Number:              NewNumber(),
		PatientID:           patientID,
		Type:                policyType,
		Status:              StatusActive,
		CoverageAmount:      coverageAmount,
		Deductible:          deductible,
		Copayment:           copayment,
		StartDate:           startDate,
		ExpiryDate:          startDate.AddDate(durationYears, 0, 0),
		InsuranceProviderID: insuranceProviderID,
		CreatedDate:         today(),
	}
}

// NewNumber generates a policy number in the form POL-YYYY-NNNNN.
func NewNumber() string {
	return fmt.Sprintf("POL-%d-%05d", time.Now().Year(), rand.Intn(100000))
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsCurrentlyActive reports whether coverage is in force right now: status
// active and today inside [start, expiry].
func (p *Policy) IsCurrentlyActive() bool {
	now := today()
	return p.Status == StatusActive && !now.Before(p.StartDate) && !now.After(p.ExpiryDate)
}

// IsExpired reports whether the policy is past its expiry date or has been
// administratively marked expired.
func (p *Policy) IsExpired() bool {
	return today().After(p.ExpiryDate) || p.Status == StatusExpired
}

// Renew extends the policy: the new term starts the day after the old expiry
// and runs for years. The status is set to active regardless of what it was,
// so a renewal also reinstates a cancelled or suspended policy.
func (p *Policy) Renew(years int) {
	p.StartDate = p.ExpiryDate.AddDate(0, 0, 1)
	p.ExpiryDate = p.StartDate.AddDate(years, 0, 0)
	p.Status = StatusActive
}

// Cancel terminates the policy administratively.
func (p *Policy) Cancel() {
	p.Status = StatusCancelled
}

// Suspend pauses the policy administratively.
func (p *Policy) Suspend() {
	p.Status = StatusSuspended
}

// Activate reinstates a suspended or pending policy. An expired policy
// cannot be activated; it has to be renewed.
func (p *Policy) Activate() error {
	if p.IsExpired() {
		return fmt.Errorf("%w: policy %s must be renewed before activation", ErrPolicyExpired, p.Number)
	}
	p.Status = StatusActive
	return nil
}

// AddBeneficiary records a covered beneficiary, ignoring duplicates.
func (p *Policy) AddBeneficiary(name string) {
	for _, b := range p.Beneficiaries {
		if b == name {
			return
		}
	}
	p.Beneficiaries = append(p.Beneficiaries, name)
}

// RemoveBeneficiary drops a covered beneficiary.
func (p *Policy) RemoveBeneficiary(name string) {
	for i, b := range p.Beneficiaries {
		if b == name {
			p.Beneficiaries = append(p.Beneficiaries[:i], p.Beneficiaries[i+1:]...)
			return
		}
	}
}

// AddClaim links a claim filed against this policy, ignoring duplicates.
func (p *Policy) AddClaim(claimID string) {
	for _, id := range p.ClaimIDs {
		if id == claimID {
			return
		}
	}
	p.ClaimIDs = append(p.ClaimIDs, claimID)
}

// ClaimCount returns how many claims have been filed against the policy.
func (p *Policy) ClaimCount() int {
	return len(p.ClaimIDs)
}

// AnnualPremium is the monthly premium projected over a year.
func (p *Policy) AnnualPremium() float64 {
	return p.MonthlyPremium * 12
}

// BeneficiariesString renders the beneficiary list for display.
func (p *Policy) BeneficiariesString() string {
	if len(p.Beneficiaries) == 0 {
		return "None"
	}
	return strings.Join(p.Beneficiaries, ", ")
}

// IsValid reports whether the policy carries coherent contract data.
func (p *Policy) IsValid() bool {
	return p.Number != "" &&
		p.PatientID != "" &&
		p.Type.Valid() &&
		p.CoverageAmount > 0 &&
		p.Deductible >= 0 &&
		p.Copayment >= 0 &&
		!p.StartDate.IsZero() &&
		!p.ExpiryDate.IsZero() &&
		p.ExpiryDate.After(p.StartDate)
}

func (p *Policy) String() string {
	return fmt.Sprintf("%s - %s (%s)", p.Number, p.Type.DisplayName(), p.Status.DisplayName())
}
