package identity

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a Person plus medical and insurance information. The PAT- id
// is the one referenced by claims, policies and prescriptions.
type Patient struct {
	Person                Person   `json:"person"`
	ID                    string   `json:"id"`
	BloodType             string   `json:"blood_type,omitempty"`
	Allergies             []string `json:"allergies,omitempty"`
	ChronicConditions     []string `json:"chronic_conditions,omitempty"`
	EmergencyContactName  string   `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string   `json:"emergency_contact_phone,omitempty"`
	InsuranceProvider     string   `json:"insurance_provider,omitempty"`
	PolicyNumbers         []string `json:"policy_numbers,omitempty"`
	ClaimNumbers          []string `json:"claim_numbers,omitempty"`
	PrescriptionNumbers   []string `json:"prescription_numbers,omitempty"`
}

// NewPatient registers a patient with a generated PAT- id.
func NewPatient(firstName, lastName string, dateOfBirth time.Time, gender, email, phone string) *Patient {
	return &Patient{
		Person: NewPerson(firstName, lastName, dateOfBirth, gender, email, phone),
		ID:     "PAT-" + uuid.NewString()[:8],
	}
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func removeString(list []string, v string) []string {
	for i, existing := range list {
		if existing == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// AddAllergy records an allergy, ignoring duplicates.
func (p *Patient) AddAllergy(allergy string) {
	p.Allergies = appendUnique(p.Allergies, allergy)
}

// RemoveAllergy drops a recorded allergy.
func (p *Patient) RemoveAllergy(allergy string) {
	p.Allergies = removeString(p.Allergies, allergy)
}

// AddChronicCondition records a chronic condition, ignoring duplicates.
func (p *Patient) AddChronicCondition(condition string) {
	p.ChronicConditions = appendUnique(p.ChronicConditions, condition)
}

// RemoveChronicCondition drops a recorded chronic condition.
func (p *Patient) RemoveChronicCondition(condition string) {
	p.ChronicConditions = removeString(p.ChronicConditions, condition)
}

// AddPolicy links a policy number, ignoring duplicates.
func (p *Patient) AddPolicy(policyNumber string) {
	p.PolicyNumbers = appendUnique(p.PolicyNumbers, policyNumber)
}

// RemovePolicy unlinks a policy number.
func (p *Patient) RemovePolicy(policyNumber string) {
	p.PolicyNumbers = removeString(p.PolicyNumbers, policyNumber)
}

// AddClaim links a claim number, ignoring duplicates.
func (p *Patient) AddClaim(claimNumber string) {
	p.ClaimNumbers = appendUnique(p.ClaimNumbers, claimNumber)
}

// AddPrescription links a prescription number, ignoring duplicates.
func (p *Patient) AddPrescription(prescriptionNumber string) {
	p.PrescriptionNumbers = appendUnique(p.PrescriptionNumbers, prescriptionNumber)
}

func (p *Patient) String() string {
	return p.Person.FullName() + " (" + p.ID + ")"
}
