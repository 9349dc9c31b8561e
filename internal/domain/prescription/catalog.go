package prescription

import (
	"errors"
	"sync"
)

// ErrMedicationNotFound is returned when no catalog entry carries the
// requested id.
var ErrMedicationNotFound = errors.New("medication not found")

// Catalog is the medication formulary prescriptions reference by MED- id.
type Catalog struct {
	mu          sync.RWMutex
	medications []*Medication
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

// Add lists a medication unless one with the same id is already present.
func (f *Catalog) Add(m *Medication) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.medications {
		if existing.ID == m.ID {
			return
		}
	}
	f.medications = append(f.medications, m)
}

// FindByID returns the catalog entry with the given MED- id.
func (f *Catalog) FindByID(id string) (*Medication, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, m := range f.medications {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, ErrMedicationNotFound
}

// ByCategory returns the catalog entries in the given therapeutic category.
func (f *Catalog) ByCategory(cat Category) []*Medication {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*Medication
	for _, m := range f.medications {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}

// All returns a copy of the catalog.
func (f *Catalog) All() []*Medication {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*Medication, len(f.medications))
	copy(out, f.medications)
	return out
}

func (f *Catalog) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.medications)
}

// DefaultCatalog builds the standard formulary. The ids are stable so
// prescriptions can reference them across restarts.
func DefaultCatalog() *Catalog {
	entries := []struct {
		id           string
		generic      string
		brand        string
		manufacturer string
		category     Category
		strength     string
		form         string
		tier         InsuranceTier
		wholesale    float64
		retail       float64
	}{
		{"MED-001", "Lisinopril", "Zestril", "AstraZeneca", CategoryAntihypertensive, "10mg", "tablet", Tier1, 2.50, 8.00},
		{"MED-002", "Metformin", "Glucophage", "Bristol-Myers Squibb", CategoryAntidiabetic, "500mg", "tablet", Tier1, 3.00, 9.50},
		{"MED-003", "Atorvastatin", "Lipitor", "Pfizer", CategoryCholesterol, "20mg", "tablet", Tier2, 12.00, 45.00},
		{"MED-004", "Amoxicillin", "Amoxil", "GSK", CategoryAntibiotic, "500mg", "capsule", Tier1, 4.00, 14.00},
	}

	f := NewCatalog()
	for _, e := range entries {
		m := NewMedication(e.generic, e.brand, e.manufacturer, e.category, e.strength, e.form, e.tier, e.wholesale, e.retail)
		m.ID = e.id
		f.Add(m)
	}
	return f
}
