// Package admin holds the corporate structure: enterprises (top-level
// companies) and the organizations inside them.
package admin

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hg360/hg360/internal/domain/identity"
)

// EnterpriseType classifies a top-level company.
type EnterpriseType string

const (
	EnterpriseHospital               EnterpriseType = "hospital"
	EnterpriseInsuranceProvider      EnterpriseType = "insurance-provider"
	EnterprisePharmacyChain          EnterpriseType = "pharmacy-chain"
	EnterprisePharmaceuticalSupplier EnterpriseType = "pharmaceutical-supplier"
)

var validEnterpriseTypes = map[EnterpriseType]bool{
	EnterpriseHospital: true, EnterpriseInsuranceProvider: true,
	EnterprisePharmacyChain: true, EnterprisePharmaceuticalSupplier: true,
}

// Valid reports whether t is a known enterprise type.
func (t EnterpriseType) Valid() bool { return validEnterpriseTypes[t] }

// DisplayName returns the human-readable form of the type.
func (t EnterpriseType) DisplayName() string {
	switch t {
	case EnterpriseHospital:
		return "Hospital"
	case EnterpriseInsuranceProvider:
		return "Insurance Provider"
	case EnterprisePharmacyChain:
		return "Pharmacy Chain"
	case EnterprisePharmaceuticalSupplier:
		return "Pharmaceutical Supplier"
	}
	return string(t)
}

// OrganizationType classifies a unit inside an enterprise.
type OrganizationType string

const (
	OrgDepartment OrganizationType = "department"
	OrgDivision   OrganizationType = "division"
	OrgBranch     OrganizationType = "branch"
	OrgUnit       OrganizationType = "unit"
)

var validOrgTypes = map[OrganizationType]bool{
	OrgDepartment: true, OrgDivision: true, OrgBranch: true, OrgUnit: true,
}

// Valid reports whether t is a known organization type.
func (t OrganizationType) Valid() bool { return validOrgTypes[t] }

// DisplayName returns the human-readable form of the type.
func (t OrganizationType) DisplayName() string {
	switch t {
	case OrgDepartment:
		return "Department"
	case OrgDivision:
		return "Division"
	case OrgBranch:
		return "Branch"
	case OrgUnit:
		return "Unit"
	}
	return string(t)
}

// Enterprise is a top-level company in the network: a hospital, an insurer,
// a pharmacy chain or a pharmaceutical supplier.
type Enterprise struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Type            EnterpriseType   `json:"type"`
	Address         identity.Address `json:"address"`
	PhoneNumber     string           `json:"phone_number,omitempty"`
	Email           string           `json:"email,omitempty"`
	CreatedDate     time.Time        `json:"created_date"`
	OrganizationIDs []string         `json:"organization_ids,omitempty"`
	EmployeeIDs     []string         `json:"employee_ids,omitempty"`
	Active          bool             `json:"active"`
}

// NewEnterprise registers an active enterprise with a generated ENT- id.
func NewEnterprise(name string, enterpriseType EnterpriseType) *Enterprise {
	return &Enterprise{
		ID:          "ENT-" + uuid.NewString()[:8],
		Name:        name,
		Type:        enterpriseType,
		CreatedDate: today(),
		Active:      true,
	}
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddOrganization links an organization id, ignoring duplicates.
func (e *Enterprise) AddOrganization(orgID string) {
	for _, id := range e.OrganizationIDs {
		if id == orgID {
			return
		}
	}
	e.OrganizationIDs = append(e.OrganizationIDs, orgID)
}

// RemoveOrganization unlinks an organization id.
func (e *Enterprise) RemoveOrganization(orgID string) {
	for i, id := range e.OrganizationIDs {
		if id == orgID {
			e.OrganizationIDs = append(e.OrganizationIDs[:i], e.OrganizationIDs[i+1:]...)
			return
		}
	}
}

// AddEmployee links an enterprise-level employee id, ignoring duplicates.
func (e *Enterprise) AddEmployee(employeeID string) {
	for _, id := range e.EmployeeIDs {
		if id == employeeID {
			return
		}
	}
	e.EmployeeIDs = append(e.EmployeeIDs, employeeID)
}

// HasOrganizations reports whether any organizations are linked.
func (e *Enterprise) HasOrganizations() bool {
	return len(e.OrganizationIDs) > 0
}

// IsValid reports whether the enterprise carries the minimum data needed.
func (e *Enterprise) IsValid() bool {
	return e.ID != "" && e.Name != "" && e.Type.Valid()
}

func (e *Enterprise) String() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.Type.DisplayName())
}

// Organization is a unit inside exactly one enterprise.
type Organization struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Type         OrganizationType `json:"type"`
	EnterpriseID string           `json:"enterprise_id"`
	CreatedDate  time.Time        `json:"created_date"`
	EmployeeIDs  []string         `json:"employee_ids,omitempty"`
	Active       bool             `json:"active"`
}

// NewOrganization registers an active organization with a generated ORG- id.
func NewOrganization(name string, orgType OrganizationType, enterpriseID string) *Organization {
	return &Organization{
		ID:           "ORG-" + uuid.NewString()[:8],
		Name:         name,
		Type:         orgType,
		EnterpriseID: enterpriseID,
		CreatedDate:  today(),
		Active:       true,
	}
}

// AddEmployee links an employee id, ignoring duplicates.
func (o *Organization) AddEmployee(employeeID string) {
	for _, id := range o.EmployeeIDs {
		if id == employeeID {
			return
		}
	}
	o.EmployeeIDs = append(o.EmployeeIDs, employeeID)
}

// RemoveEmployee unlinks an employee id, reporting whether it was present.
func (o *Organization) RemoveEmployee(employeeID string) bool {
	for i, id := range o.EmployeeIDs {
		if id == employeeID {
			o.EmployeeIDs = append(o.EmployeeIDs[:i], o.EmployeeIDs[i+1:]...)
			return true
		}
	}
	return false
}

// EmployeeCount returns how many employees are linked.
func (o *Organization) EmployeeCount() int {
	return len(o.EmployeeIDs)
}

// IsValid reports whether the organization carries the minimum data needed.
func (o *Organization) IsValid() bool {
	return o.ID != "" && o.Name != "" && o.Type.Valid() && o.EnterpriseID != ""
}

func (o *Organization) String() string {
	return fmt.Sprintf("%s (%s)", o.Name, o.Type.DisplayName())
}
