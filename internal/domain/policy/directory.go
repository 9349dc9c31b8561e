package policy

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when no policy carries the requested number.
var ErrNotFound = errors.New("policy not found")

// Directory is the canonical in-memory store of policies. Same shape as the
// claim directory: linear scans under one RWMutex.
type Directory struct {
	mu       sync.RWMutex
	policies []*Policy
}

// NewDirectory returns an empty policy directory.
func NewDirectory() *Directory {
	return &Directory{}
}

// Create issues a new policy and appends it to the directory.
func (d *Directory) Create(patientID string, policyType Type, coverageAmount, deductible, copayment, monthlyPremium float64, insuranceProviderID string, startDate time.Time, durationYears int) *Policy {
	p := New(patientID, policyType, coverageAmount, deductible, copayment, insuranceProviderID, startDate, durationYears)
	p.MonthlyPremium = monthlyPremium
	d.mu.Lock()
	d.policies = append(d.policies, p)
	d.mu.Unlock()
	return p
}

// Add appends an existing policy. Adding a policy whose number is already
// present is a no-op.
func (d *Directory) Add(p *Policy) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.policies {
		if existing.Number == p.Number {
			return
		}
	}
	d.policies = append(d.policies, p)
}

// Remove deletes the policy with the given number, reporting whether
// anything was removed.
func (d *Directory) Remove(number string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.policies {
		if p.Number == number {
			d.policies = append(d.policies[:i], d.policies[i+1:]...)
			return true
		}
	}
	return false
}

// FindByNumber returns the policy with the given number.
func (d *Directory) FindByNumber(number string) (*Policy, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.policies {
		if p.Number == number {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// All returns a snapshot of every policy. The returned slice is a copy.
func (d *Directory) All() []*Policy {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Policy, len(d.policies))
	copy(out, d.policies)
	return out
}

func (d *Directory) filter(keep func(*Policy) bool) []*Policy {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []*Policy{}
	for _, p := range d.policies {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// ByPatient returns the policies held by a patient.
func (d *Directory) ByPatient(patientID string) []*Policy {
	return d.filter(func(p *Policy) bool { return p.PatientID == patientID })
}

// ActiveByPatient returns a patient's policies with coverage in force.
func (d *Directory) ActiveByPatient(patientID string) []*Policy {
	return d.filter(func(p *Policy) bool { return p.PatientID == patientID && p.IsCurrentlyActive() })
}

// ByStatus returns the policies in the given administrative state.
func (d *Directory) ByStatus(status Status) []*Policy {
	return d.filter(func(p *Policy) bool { return p.Status == status })
}

// ByType returns the policies of the given plan type.
func (d *Directory) ByType(policyType Type) []*Policy {
	return d.filter(func(p *Policy) bool { return p.Type == policyType })
}

// AllActive returns every policy with coverage in force.
func (d *Directory) AllActive() []*Policy {
	return d.filter((*Policy).IsCurrentlyActive)
}

// AllExpired returns every expired policy.
func (d *Directory) AllExpired() []*Policy {
	return d.filter((*Policy).IsExpired)
}

// ExpiringSoon returns active policies whose expiry falls within the next
// 30 days. Already-expired active policies are included; reconciliation is
// what flips them to expired.
func (d *Directory) ExpiringSoon() []*Policy {
	cutoff := today().AddDate(0, 0, 30)
	return d.filter(func(p *Policy) bool {
		return p.Status == StatusActive && p.ExpiryDate.Before(cutoff)
	})
}

// SearchByNumber returns policies whose number contains term,
// case-insensitively.
func (d *Directory) SearchByNumber(term string) []*Policy {
	term = strings.ToLower(term)
	return d.filter(func(p *Policy) bool {
		return strings.Contains(strings.ToLower(p.Number), term)
	})
}

// Count returns the number of policies in the directory.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.policies)
}

func (d *Directory) count(keep func(*Policy) bool) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, p := range d.policies {
		if keep(p) {
			n++
		}
	}
	return n
}

// ActiveCount counts policies with coverage in force.
func (d *Directory) ActiveCount() int {
	return d.count((*Policy).IsCurrentlyActive)
}

// ActiveCountForPatient counts a patient's policies with coverage in force.
func (d *Directory) ActiveCountForPatient(patientID string) int {
	return d.count(func(p *Policy) bool { return p.PatientID == patientID && p.IsCurrentlyActive() })
}

// TotalMonthlyPremiumRevenue sums monthly premiums across policies with
// coverage in force.
func (d *Directory) TotalMonthlyPremiumRevenue() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var total float64
	for _, p := range d.policies {
		if p.IsCurrentlyActive() {
			total += p.MonthlyPremium
		}
	}
	return total
}

// TotalAnnualPremiumRevenue projects the monthly revenue over a year.
func (d *Directory) TotalAnnualPremiumRevenue() float64 {
	return d.TotalMonthlyPremiumRevenue() * 12
}

// RenewPolicy renews a policy by number, reporting success.
func (d *Directory) RenewPolicy(number string, years int) bool {
	p, err := d.FindByNumber(number)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	p.Renew(years)
	return true
}

// CancelPolicy cancels a policy by number, reporting success.
func (d *Directory) CancelPolicy(number string) bool {
	p, err := d.FindByNumber(number)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	p.Cancel()
	return true
}

// SuspendPolicy suspends a policy by number, reporting success.
func (d *Directory) SuspendPolicy(number string) bool {
	p, err := d.FindByNumber(number)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	p.Suspend()
	return true
}

// ActivatePolicy activates a policy by number. False means the policy was
// not found or is expired.
func (d *Directory) ActivatePolicy(number string) bool {
	p, err := d.FindByNumber(number)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return p.Activate() == nil
}

// ReconcileExpirations flips active policies past their expiry date to
// expired, returning how many were flipped. Expiration is not detected
// lazily anywhere else; callers run this pass explicitly.
func (d *Directory) ReconcileExpirations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := today()
	n := 0
	for _, p := range d.policies {
		if p.Status == StatusActive && now.After(p.ExpiryDate) {
			p.Status = StatusExpired
			n++
		}
	}
	return n
}

// Export returns the backing entities for snapshot persistence.
func (d *Directory) Export() []*Policy {
	return d.All()
}

// Restore replaces the directory contents, used when loading a snapshot.
func (d *Directory) Restore(policies []*Policy) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.policies = make([]*Policy, len(policies))
	copy(d.policies, policies)
}

// Clear empties the directory.
func (d *Directory) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.policies = nil
}

// IsEmpty reports whether the directory holds no policies.
func (d *Directory) IsEmpty() bool {
	return d.Count() == 0
}
