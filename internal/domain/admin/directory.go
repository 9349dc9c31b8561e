package admin

import (
	"errors"
	"strings"
	"sync"
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("not found")

// EnterpriseDirectory is the in-memory store of enterprises.
type EnterpriseDirectory struct {
	mu          sync.RWMutex
	enterprises []*Enterprise
}

// NewEnterpriseDirectory returns an empty enterprise directory.
func NewEnterpriseDirectory() *EnterpriseDirectory {
	return &EnterpriseDirectory{}
}

// Create registers a new enterprise.
func (d *EnterpriseDirectory) Create(name string, enterpriseType EnterpriseType) *Enterprise {
	e := NewEnterprise(name, enterpriseType)
	d.mu.Lock()
	d.enterprises = append(d.enterprises, e)
	d.mu.Unlock()
	return e
}

// Add appends an existing enterprise, ignoring duplicates by id.
func (d *EnterpriseDirectory) Add(e *Enterprise) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.enterprises {
		if existing.ID == e.ID {
			return
		}
	}
	d.enterprises = append(d.enterprises, e)
}

// Remove deletes an enterprise by id, reporting whether anything was removed.
func (d *EnterpriseDirectory) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, e := range d.enterprises {
		if e.ID == id {
			d.enterprises = append(d.enterprises[:i], d.enterprises[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns the enterprise with the given id.
func (d *EnterpriseDirectory) FindByID(id string) (*Enterprise, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, e := range d.enterprises {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, ErrNotFound
}

// FindByName returns the enterprise with the given name, case-insensitively.
func (d *EnterpriseDirectory) FindByName(name string) (*Enterprise, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, e := range d.enterprises {
		if strings.EqualFold(e.Name, name) {
			return e, nil
		}
	}
	return nil, ErrNotFound
}

// All returns a snapshot of every enterprise.
func (d *EnterpriseDirectory) All() []*Enterprise {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Enterprise, len(d.enterprises))
	copy(out, d.enterprises)
	return out
}

func (d *EnterpriseDirectory) filter(keep func(*Enterprise) bool) []*Enterprise {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []*Enterprise{}
	for _, e := range d.enterprises {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// ByType returns the enterprises of the given type.
func (d *EnterpriseDirectory) ByType(t EnterpriseType) []*Enterprise {
	return d.filter(func(e *Enterprise) bool { return e.Type == t })
}

// Hospitals returns every hospital enterprise.
func (d *EnterpriseDirectory) Hospitals() []*Enterprise { return d.ByType(EnterpriseHospital) }

// InsuranceProviders returns every insurance provider enterprise.
func (d *EnterpriseDirectory) InsuranceProviders() []*Enterprise {
	return d.ByType(EnterpriseInsuranceProvider)
}

// PharmacyChains returns every pharmacy chain enterprise.
func (d *EnterpriseDirectory) PharmacyChains() []*Enterprise {
	return d.ByType(EnterprisePharmacyChain)
}

// PharmaceuticalSuppliers returns every pharmaceutical supplier enterprise.
func (d *EnterpriseDirectory) PharmaceuticalSuppliers() []*Enterprise {
	return d.ByType(EnterprisePharmaceuticalSupplier)
}

// Active returns the enterprises currently active.
func (d *EnterpriseDirectory) Active() []*Enterprise {
	return d.filter(func(e *Enterprise) bool { return e.Active })
}

// Count returns the number of enterprises.
func (d *EnterpriseDirectory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.enterprises)
}

// CountByType returns how many enterprises are of the given type.
func (d *EnterpriseDirectory) CountByType(t EnterpriseType) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, e := range d.enterprises {
		if e.Type == t {
			n++
		}
	}
	return n
}

// NameExists reports whether an enterprise already uses the name.
func (d *EnterpriseDirectory) NameExists(name string) bool {
	_, err := d.FindByName(name)
	return err == nil
}

// Deactivate marks an enterprise inactive, reporting success.
func (d *EnterpriseDirectory) Deactivate(id string) bool {
	e, err := d.FindByID(id)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	e.Active = false
	return true
}

// Activate marks an enterprise active, reporting success.
func (d *EnterpriseDirectory) Activate(id string) bool {
	e, err := d.FindByID(id)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	e.Active = true
	return true
}

// Rename changes an enterprise's name, reporting success.
func (d *EnterpriseDirectory) Rename(id, newName string) bool {
	if newName == "" {
		return false
	}
	e, err := d.FindByID(id)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	e.Name = newName
	return true
}

// SearchByName returns enterprises whose name contains term,
// case-insensitively.
func (d *EnterpriseDirectory) SearchByName(term string) []*Enterprise {
	term = strings.ToLower(term)
	return d.filter(func(e *Enterprise) bool {
		return strings.Contains(strings.ToLower(e.Name), term)
	})
}

// Export returns the backing entities for snapshot persistence.
func (d *EnterpriseDirectory) Export() []*Enterprise {
	return d.All()
}

// Restore replaces the directory contents, used when loading a snapshot.
func (d *EnterpriseDirectory) Restore(enterprises []*Enterprise) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enterprises = make([]*Enterprise, len(enterprises))
	copy(d.enterprises, enterprises)
}

// Clear empties the directory.
func (d *EnterpriseDirectory) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enterprises = nil
}

// IsEmpty reports whether the directory holds no enterprises.
func (d *EnterpriseDirectory) IsEmpty() bool {
	return d.Count() == 0
}

// OrganizationDirectory is the in-memory store of organizations.
type OrganizationDirectory struct {
	mu   sync.RWMutex
	orgs []*Organization
}

// NewOrganizationDirectory returns an empty organization directory.
func NewOrganizationDirectory() *OrganizationDirectory {
	return &OrganizationDirectory{}
}

// Create registers a new organization under an enterprise. Linking the
// organization back into the parent enterprise is the caller's job; the
// session layer does it.
func (d *OrganizationDirectory) Create(name string, orgType OrganizationType, enterpriseID string) *Organization {
	o := NewOrganization(name, orgType, enterpriseID)
	d.mu.Lock()
	d.orgs = append(d.orgs, o)
	d.mu.Unlock()
	return o
}

// Add appends an existing organization, ignoring duplicates by id.
func (d *OrganizationDirectory) Add(o *Organization) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.orgs {
		if existing.ID == o.ID {
			return
		}
	}
	d.orgs = append(d.orgs, o)
}

// Remove deletes an organization by id, reporting whether anything was
// removed.
func (d *OrganizationDirectory) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, o := range d.orgs {
		if o.ID == id {
			d.orgs = append(d.orgs[:i], d.orgs[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns the organization with the given id.
func (d *OrganizationDirectory) FindByID(id string) (*Organization, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, o := range d.orgs {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

// FindByName returns the organization with the given name,
// case-insensitively.
func (d *OrganizationDirectory) FindByName(name string) (*Organization, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, o := range d.orgs {
		if strings.EqualFold(o.Name, name) {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

// All returns a snapshot of every organization.
func (d *OrganizationDirectory) All() []*Organization {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Organization, len(d.orgs))
	copy(out, d.orgs)
	return out
}

func (d *OrganizationDirectory) filter(keep func(*Organization) bool) []*Organization {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []*Organization{}
	for _, o := range d.orgs {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// ByEnterprise returns the organizations under an enterprise.
func (d *OrganizationDirectory) ByEnterprise(enterpriseID string) []*Organization {
	return d.filter(func(o *Organization) bool { return o.EnterpriseID == enterpriseID })
}

// ByType returns the organizations of the given type.
func (d *OrganizationDirectory) ByType(t OrganizationType) []*Organization {
	return d.filter(func(o *Organization) bool { return o.Type == t })
}

// Active returns the organizations currently active.
func (d *OrganizationDirectory) Active() []*Organization {
	return d.filter(func(o *Organization) bool { return o.Active })
}

// Count returns the number of organizations.
func (d *OrganizationDirectory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.orgs)
}

// CountForEnterprise returns how many organizations an enterprise has.
func (d *OrganizationDirectory) CountForEnterprise(enterpriseID string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, o := range d.orgs {
		if o.EnterpriseID == enterpriseID {
			n++
		}
	}
	return n
}

// NameExistsInEnterprise reports whether an enterprise already has an
// organization with the name.
func (d *OrganizationDirectory) NameExistsInEnterprise(name, enterpriseID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, o := range d.orgs {
		if o.EnterpriseID == enterpriseID && strings.EqualFold(o.Name, name) {
			return true
		}
	}
	return false
}

// Deactivate marks an organization inactive, reporting success.
func (d *OrganizationDirectory) Deactivate(id string) bool {
	o, err := d.FindByID(id)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	o.Active = false
	return true
}

// Activate marks an organization active, reporting success.
func (d *OrganizationDirectory) Activate(id string) bool {
	o, err := d.FindByID(id)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	o.Active = true
	return true
}

// AddEmployee links an employee into an organization, reporting success.
func (d *OrganizationDirectory) AddEmployee(orgID, employeeID string) bool {
	o, err := d.FindByID(orgID)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	o.AddEmployee(employeeID)
	return true
}

// RemoveEmployee unlinks an employee from an organization, reporting
// whether the employee was linked.
func (d *OrganizationDirectory) RemoveEmployee(orgID, employeeID string) bool {
	o, err := d.FindByID(orgID)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return o.RemoveEmployee(employeeID)
}

// SearchByName returns organizations whose name contains term,
// case-insensitively.
func (d *OrganizationDirectory) SearchByName(term string) []*Organization {
	term = strings.ToLower(term)
	return d.filter(func(o *Organization) bool {
		return strings.Contains(strings.ToLower(o.Name), term)
	})
}

// Export returns the backing entities for snapshot persistence.
func (d *OrganizationDirectory) Export() []*Organization {
	return d.All()
}

// Restore replaces the directory contents, used when loading a snapshot.
func (d *OrganizationDirectory) Restore(orgs []*Organization) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.orgs = make([]*Organization, len(orgs))
	copy(d.orgs, orgs)
}

// Clear empties the directory.
func (d *OrganizationDirectory) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.orgs = nil
}

// IsEmpty reports whether the directory holds no organizations.
func (d *OrganizationDirectory) IsEmpty() bool {
	return d.Count() == 0
}
