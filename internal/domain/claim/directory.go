package claim

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when no claim carries the requested number.
var ErrNotFound = errors.New("claim not found")

// Directory is the canonical in-memory store of claims. Lookups are linear
// scans, which is fine at the volumes this system handles. All mutating
// operations take the write lock so the directory can be shared by
// concurrent request handlers.
type Directory struct {
	mu     sync.RWMutex
	claims []*Claim
}

// NewDirectory returns an empty claim directory.
func NewDirectory() *Directory {
	return &Directory{}
}

// Create files a new claim and appends it to the directory.
func (d *Directory) Create(policyNumber, patientID string, serviceDate time.Time, providerName, diagnosis string, serviceType ServiceType, amount float64) *Claim {
	c := New(policyNumber, patientID, serviceDate, providerName, diagnosis, serviceType, amount)
	d.mu.Lock()
	d.claims = append(d.claims, c)
	d.mu.Unlock()
	return c
}

// Add appends an existing claim. Adding a claim whose number is already
// present is a no-op.
func (d *Directory) Add(c *Claim) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.claims {
		if existing.Number == c.Number {
			return
		}
	}
	d.claims = append(d.claims, c)
}

// Remove deletes the claim with the given number, reporting whether anything
// was removed. Administrative use only; normal workflow never deletes claims.
func (d *Directory) Remove(number string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, c := range d.claims {
		if c.Number == number {
			d.claims = append(d.claims[:i], d.claims[i+1:]...)
			return true
		}
	}
	return false
}

// FindByNumber returns the claim with the given number.
func (d *Directory) FindByNumber(number string) (*Claim, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.claims {
		if c.Number == number {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

// All returns a snapshot of every claim. The returned slice is a copy;
// mutating it does not affect the directory.
func (d *Directory) All() []*Claim {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Claim, len(d.claims))
	copy(out, d.claims)
	return out
}

func (d *Directory) filter(keep func(*Claim) bool) []*Claim {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []*Claim{}
	for _, c := range d.claims {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// ByPatient returns the claims filed by a patient.
func (d *Directory) ByPatient(patientID string) []*Claim {
	return d.filter(func(c *Claim) bool { return c.PatientID == patientID })
}

// ByPolicy returns the claims filed against a policy.
func (d *Directory) ByPolicy(policyNumber string) []*Claim {
	return d.filter(func(c *Claim) bool { return c.PolicyNumber == policyNumber })
}

// ByStatus returns the claims in the given workflow state.
func (d *Directory) ByStatus(status Status) []*Claim {
	return d.filter(func(c *Claim) bool { return c.Status == status })
}

// ByPatientAndStatus returns a patient's claims in the given state.
func (d *Directory) ByPatientAndStatus(patientID string, status Status) []*Claim {
	return d.filter(func(c *Claim) bool { return c.PatientID == patientID && c.Status == status })
}

// Pending returns claims still awaiting a decision (submitted or
// under-review).
func (d *Directory) Pending() []*Claim {
	return d.filter((*Claim).Pending)
}

// ApprovedClaims returns claims in the approved state.
func (d *Directory) ApprovedClaims() []*Claim { return d.ByStatus(StatusApproved) }

// DeniedClaims returns claims in the denied state.
func (d *Directory) DeniedClaims() []*Claim { return d.ByStatus(StatusDenied) }

// PaidClaims returns claims in the paid state.
func (d *Directory) PaidClaims() []*Claim { return d.ByStatus(StatusPaid) }

// Count returns the number of claims in the directory.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.claims)
}

func (d *Directory) count(keep func(*Claim) bool) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, c := range d.claims {
		if keep(c) {
			n++
		}
	}
	return n
}

// CountForPatient returns how many claims a patient has filed.
func (d *Directory) CountForPatient(patientID string) int {
	return d.count(func(c *Claim) bool { return c.PatientID == patientID })
}

// CountByStatus returns how many claims are in the given state.
func (d *Directory) CountByStatus(status Status) int {
	return d.count(func(c *Claim) bool { return c.Status == status })
}

// PendingCountForPatient counts a patient's undecided claims.
func (d *Directory) PendingCountForPatient(patientID string) int {
	return d.count(func(c *Claim) bool { return c.PatientID == patientID && c.Pending() })
}

// ApprovedCountForPatient counts a patient's approved claims, paid included.
func (d *Directory) ApprovedCountForPatient(patientID string) int {
	return d.count(func(c *Claim) bool {
		return c.PatientID == patientID && (c.Status == StatusApproved || c.Status == StatusPaid)
	})
}

// DeniedCountForPatient counts a patient's denied claims.
func (d *Directory) DeniedCountForPatient(patientID string) int {
	return d.count(func(c *Claim) bool { return c.PatientID == patientID && c.Status == StatusDenied })
}

// TotalAmountForPatient sums the claimed amounts across a patient's claims.
func (d *Directory) TotalAmountForPatient(patientID string) float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var total float64
	for _, c := range d.claims {
		if c.PatientID == patientID {
			total += c.Amount
		}
	}
	return total
}

// TotalApprovedAmount sums the approved amounts across approved and paid
// claims.
func (d *Directory) TotalApprovedAmount() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var total float64
	for _, c := range d.claims {
		if c.Status == StatusApproved || c.Status == StatusPaid {
			total += c.ApprovedAmount
		}
	}
	return total
}

// MoveToUnderReview is the boolean facade over Claim.MoveToUnderReview.
func (d *Directory) MoveToUnderReview(number, processorID string) bool {
	c, err := d.FindByNumber(number)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return c.MoveToUnderReview(processorID) == nil
}

// ApproveClaim approves a claim by number, reporting success. Illegal
// transitions surface as false, not as an error; callers that need the
// reason re-read the claim state.
func (d *Directory) ApproveClaim(number string, approvedAmount float64, processorID, notes string) bool {
	c, err := d.FindByNumber(number)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return c.Approve(approvedAmount, processorID, notes) == nil
}

// DenyClaim denies a claim by number, reporting success.
func (d *Directory) DenyClaim(number, processorID, reason string) bool {
	c, err := d.FindByNumber(number)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return c.Deny(processorID, reason) == nil
}

// WithdrawClaim withdraws a claim by number, reporting success.
func (d *Directory) WithdrawClaim(number string) bool {
	c, err := d.FindByNumber(number)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !c.CanBeWithdrawn() {
		return false
	}
	return c.Withdraw() == nil
}

// MarkPaid marks an approved claim paid, reporting success.
func (d *Directory) MarkPaid(number string) bool {
	c, err := d.FindByNumber(number)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return c.MarkPaid() == nil
}

// Export returns the backing entities for snapshot persistence.
func (d *Directory) Export() []*Claim {
	return d.All()
}

// Restore replaces the directory contents, used when loading a snapshot.
func (d *Directory) Restore(claims []*Claim) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.claims = make([]*Claim, len(claims))
	copy(d.claims, claims)
}

// Clear empties the directory.
func (d *Directory) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.claims = nil
}

// IsEmpty reports whether the directory holds no claims.
func (d *Directory) IsEmpty() bool {
	return d.Count() == 0
}
