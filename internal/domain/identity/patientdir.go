package identity

import (
	"sync"
	"time"
)

// PatientDirectory is the registry of patient records. Claims, policies and
// prescriptions reference patients by the PAT- ids stored here.
type PatientDirectory struct {
	mu       sync.RWMutex
	patients []*Patient
}

func NewPatientDirectory() *PatientDirectory {
	return &PatientDirectory{}
}

// Create registers a new patient and returns it.
func (d *PatientDirectory) Create(firstName, lastName string, dateOfBirth time.Time, gender, email, phone string) *Patient {
	p := NewPatient(firstName, lastName, dateOfBirth, gender, email, phone)
	d.mu.Lock()
	d.patients = append(d.patients, p)
	d.mu.Unlock()
	return p
}

// Add appends a patient unless one with the same id is already present.
func (d *PatientDirectory) Add(p *Patient) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.patients {
		if existing.ID == p.ID {
			return
		}
	}
	d.patients = append(d.patients, p)
}

// Remove drops the patient with the given id, reporting whether one was found.
func (d *PatientDirectory) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.patients {
		if p.ID == id {
			d.patients = append(d.patients[:i], d.patients[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns the patient with the given PAT- id.
func (d *PatientDirectory) FindByID(id string) (*Patient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// FindByPersonID returns the patient whose underlying person carries the
// given PRS- id.
func (d *PatientDirectory) FindByPersonID(personID string) (*Patient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.patients {
		if p.Person.ID == personID {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// All returns a copy of the patient list.
func (d *PatientDirectory) All() []*Patient {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Patient, len(d.patients))
	copy(out, d.patients)
	return out
}

// WithAllergy returns patients with the given allergy on record.
func (d *PatientDirectory) WithAllergy(allergy string) []*Patient {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*Patient
	for _, p := range d.patients {
		for _, a := range p.Allergies {
			if a == allergy {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func (d *PatientDirectory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.patients)
}

// Export returns the backing list for persistence.
func (d *PatientDirectory) Export() []*Patient {
	return d.All()
}

// Restore replaces the directory contents.
func (d *PatientDirectory) Restore(patients []*Patient) {
	d.mu.Lock()
	d.patients = append([]*Patient(nil), patients...)
	d.mu.Unlock()
}

// Clear removes every patient.
func (d *PatientDirectory) Clear() {
	d.mu.Lock()
	d.patients = nil
	d.mu.Unlock()
}

func (d *PatientDirectory) IsEmpty() bool {
	return d.Count() == 0
}
