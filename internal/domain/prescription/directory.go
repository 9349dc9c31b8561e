package prescription

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when no prescription carries the requested number.
var ErrNotFound = errors.New("prescription not found")

// Directory is the canonical in-memory store of prescriptions, guarded by
// one RWMutex like the other directories.
type Directory struct {
	mu            sync.RWMutex
	prescriptions []*Prescription
}

// NewDirectory returns an empty prescription directory.
func NewDirectory() *Directory {
	return &Directory{}
}

// Create writes a new prescription and appends it to the directory.
func (d *Directory) Create(patientID, doctorID, medicationID, dosage string, quantity, refillsAuthorized int, instructions, pharmacyID, policyNumber string) *Prescription {
	p := New(patientID, doctorID, medicationID, dosage, quantity, refillsAuthorized, instructions, pharmacyID, policyNumber)
	d.mu.Lock()
	d.prescriptions = append(d.prescriptions, p)
	d.mu.Unlock()
	return p
}

// Add appends an existing prescription. Adding a prescription whose number
// is already present is a no-op.
func (d *Directory) Add(p *Prescription) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.prescriptions {
		if existing.Number == p.Number {
			return
		}
	}
	d.prescriptions = append(d.prescriptions, p)
}

// Remove deletes the prescription with the given number, reporting whether
// anything was removed.
func (d *Directory) Remove(number string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.prescriptions {
		if p.Number == number {
			d.prescriptions = append(d.prescriptions[:i], d.prescriptions[i+1:]...)
			return true
		}
	}
	return false
}

// FindByNumber returns the prescription with the given number.
func (d *Directory) FindByNumber(number string) (*Prescription, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.prescriptions {
		if p.Number == number {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// All returns a snapshot of every prescription. The returned slice is a copy.
func (d *Directory) All() []*Prescription {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Prescription, len(d.prescriptions))
	copy(out, d.prescriptions)
	return out
}

func (d *Directory) filter(keep func(*Prescription) bool) []*Prescription {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []*Prescription{}
	for _, p := range d.prescriptions {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// ByPatient returns a patient's prescriptions.
func (d *Directory) ByPatient(patientID string) []*Prescription {
	return d.filter(func(p *Prescription) bool { return p.PatientID == patientID })
}

// ActiveByPatient returns a patient's active, unexpired prescriptions.
func (d *Directory) ActiveByPatient(patientID string) []*Prescription {
	return d.filter(func(p *Prescription) bool {
		return p.PatientID == patientID && p.Status == StatusActive && !p.IsExpired()
	})
}

// ByStatus returns the prescriptions in the given lifecycle state.
func (d *Directory) ByStatus(status Status) []*Prescription {
	return d.filter(func(p *Prescription) bool { return p.Status == status })
}

// ReadyForRefill returns a patient's prescriptions running low on refills.
func (d *Directory) ReadyForRefill(patientID string) []*Prescription {
	return d.filter(func(p *Prescription) bool {
		return p.PatientID == patientID && p.IsReadyForRefill()
	})
}

// ExpiringSoon returns active prescriptions whose expiry falls within the
// next 30 days.
func (d *Directory) ExpiringSoon() []*Prescription {
	cutoff := today().AddDate(0, 0, 30)
	return d.filter(func(p *Prescription) bool {
		return p.Status == StatusActive && p.ExpiryDate.Before(cutoff)
	})
}

// Count returns the number of prescriptions in the directory.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.prescriptions)
}

func (d *Directory) count(keep func(*Prescription) bool) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, p := range d.prescriptions {
		if keep(p) {
			n++
		}
	}
	return n
}

// CountForPatient returns how many prescriptions a patient holds.
func (d *Directory) CountForPatient(patientID string) int {
	return d.count(func(p *Prescription) bool { return p.PatientID == patientID })
}

// ActiveCountForPatient counts a patient's active, unexpired prescriptions.
func (d *Directory) ActiveCountForPatient(patientID string) int {
	return d.count(func(p *Prescription) bool {
		return p.PatientID == patientID && p.Status == StatusActive && !p.IsExpired()
	})
}

// ReadyForRefillCountForPatient counts a patient's prescriptions running low.
func (d *Directory) ReadyForRefillCountForPatient(patientID string) int {
	return d.count(func(p *Prescription) bool {
		return p.PatientID == patientID && p.IsReadyForRefill()
	})
}

// ProcessRefill dispenses a refill by number, reporting success.
func (d *Directory) ProcessRefill(number string) bool {
	p, err := d.FindByNumber(number)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return p.ProcessRefill()
}

// CancelPrescription voids a prescription by number, reporting success.
func (d *Directory) CancelPrescription(number string) bool {
	p, err := d.FindByNumber(number)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	p.Cancel()
	return true
}

// ReconcileExpirations flips active prescriptions past their expiry date to
// expired, returning how many were flipped.
func (d *Directory) ReconcileExpirations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := today()
	n := 0
	for _, p := range d.prescriptions {
		if p.Status == StatusActive && now.After(p.ExpiryDate) {
			p.Status = StatusExpired
			n++
		}
	}
	return n
}

// Export returns the backing entities for snapshot persistence.
func (d *Directory) Export() []*Prescription {
	return d.All()
}

// Restore replaces the directory contents, used when loading a snapshot.
func (d *Directory) Restore(prescriptions []*Prescription) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prescriptions = make([]*Prescription, len(prescriptions))
	copy(d.prescriptions, prescriptions)
}

// Clear empties the directory.
func (d *Directory) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prescriptions = nil
}

// IsEmpty reports whether the directory holds no prescriptions.
func (d *Directory) IsEmpty() bool {
	return d.Count() == 0
}
