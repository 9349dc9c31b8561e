package identity

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a Person plus employment details within one organization.
type Employee struct {
	Person         Person    `json:"person"`
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id,omitempty"`
	Role           Role      `json:"role"`
	Salary         float64   `json:"salary,omitempty"`
	HireDate       time.Time `json:"hire_date"`
	Active         bool      `json:"active"`
}

// NewEmployee hires a person into a role with a generated EMP- id.
func NewEmployee(person Person, role Role, organizationID string) *Employee {
	return &Employee{
		Person:         person,
		ID:             "EMP-" + uuid.NewString()[:8],
		OrganizationID: organizationID,
		Role:           role,
		HireDate:       today(),
		Active:         true,
	}
}

// Deactivate ends the employment.
func (e *Employee) Deactivate() { e.Active = false }

// Activate restores the employment.
func (e *Employee) Activate() { e.Active = true }

func (e *Employee) String() string {
	return e.Person.FullName() + " - " + e.Role.DisplayName()
}
