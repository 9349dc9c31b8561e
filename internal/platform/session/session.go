// Package session holds the running system state: one instance of every
// directory plus the currently logged-in user. It is the server-side
// replacement for the desktop application's global registry, built
// explicitly in main and passed to the handlers that need it.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hg360/hg360/internal/domain/admin"
	"github.com/hg360/hg360/internal/domain/claim"
	"github.com/hg360/hg360/internal/domain/identity"
	"github.com/hg360/hg360/internal/domain/policy"
	"github.com/hg360/hg360/internal/domain/prescription"
	"github.com/hg360/hg360/internal/platform/persist"
)

var (
	// ErrNotLoggedIn is returned by operations that need a current user.
	ErrNotLoggedIn = errors.New("no user is logged in")
	// ErrNotPatient is returned by patient portal operations when the
	// current user is not a patient account.
	ErrNotPatient = errors.New("current user is not a patient")
)

// Session owns the six directories and tracks the current user. The
// directories carry their own locks; the session lock guards only the
// current-user slot.
type Session struct {
	Claims        *claim.Directory
	Policies      *policy.Directory
	Prescriptions *prescription.Directory
	Patients      *identity.PatientDirectory
	Users         *identity.UserDirectory
	Enterprises   *admin.EnterpriseDirectory
	Organizations *admin.OrganizationDirectory

	mu          sync.RWMutex
	currentUser *identity.User
}

// New builds a session with empty directories and nobody logged in.
func New() *Session {
	return &Session{
		Claims:        claim.NewDirectory(),
		Policies:      policy.NewDirectory(),
		Prescriptions: prescription.NewDirectory(),
		Patients:      identity.NewPatientDirectory(),
		Users:         identity.NewUserDirectory(),
		Enterprises:   admin.NewEnterpriseDirectory(),
		Organizations: admin.NewOrganizationDirectory(),
	}
}

// Reset drops all data and the current user.
func (s *Session) Reset() {
	s.Claims.Clear()
	s.Policies.Clear()
	s.Prescriptions.Clear()
	s.Patients.Clear()
	s.Users.Clear()
	s.Enterprises.Clear()
	s.Organizations.Clear()
	s.Logout()
}

// Login records u as the current user.
func (s *Session) Login(u *identity.User) {
	s.mu.Lock()
	s.currentUser = u
	s.mu.Unlock()
}

// Logout clears the current user.
func (s *Session) Logout() {
	s.mu.Lock()
	s.currentUser = nil
	s.mu.Unlock()
}

// CurrentUser returns the logged-in user, or nil.
func (s *Session) CurrentUser() *identity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser
}

// IsLoggedIn reports whether any user is logged in.
func (s *Session) IsLoggedIn() bool {
	return s.CurrentUser() != nil
}

// CurrentRole returns the logged-in user's role, or "".
func (s *Session) CurrentRole() identity.Role {
	u := s.CurrentUser()
	if u == nil {
		return ""
	}
	return u.Role
}

// CurrentUserIsAdmin reports whether the current user holds an admin role.
func (s *Session) CurrentUserIsAdmin() bool {
	return s.CurrentRole().IsAdmin()
}

// CurrentUserIsPatient reports whether the current user is a patient account.
func (s *Session) CurrentUserIsPatient() bool {
	return s.CurrentRole().IsPatient()
}

// CurrentPatientID returns the patient id linked to the current user, or ""
// when nobody is logged in or the account has no patient record.
func (s *Session) CurrentPatientID() string {
	u := s.CurrentUser()
	if u == nil {
		return ""
	}
	return u.PatientID
}

// SubmitClaimFor files a claim for the given patient. The policy must exist
// and belong to that patient. The claim is linked into the policy and, when a
// patient record exists, into the patient's claim list.
func (s *Session) SubmitClaimFor(patientID, policyNumber string, serviceDate time.Time, providerName, diagnosis string, serviceType claim.ServiceType, amount float64) (*claim.Claim, error) {
	if patientID == "" {
		return nil, ErrNotPatient
	}
	p, err := s.Policies.FindByNumber(policyNumber)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", policyNumber, err)
	}
	if p.PatientID != patientID {
		return nil, fmt.Errorf("policy %s does not belong to patient %s", policyNumber, patientID)
	}
	c := s.Claims.Create(policyNumber, patientID, serviceDate, providerName, diagnosis, serviceType, amount)
	p.AddClaim(c.Number)
	if patient, err := s.Patients.FindByID(patientID); err == nil {
		patient.AddClaim(c.Number)
	}
	return c, nil
}

// SubmitClaim files a claim for the logged-in patient.
func (s *Session) SubmitClaim(policyNumber string, serviceDate time.Time, providerName, diagnosis string, serviceType claim.ServiceType, amount float64) (*claim.Claim, error) {
	u := s.CurrentUser()
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	if u.PatientID == "" {
		return nil, ErrNotPatient
	}
	return s.SubmitClaimFor(u.PatientID, policyNumber, serviceDate, providerName, diagnosis, serviceType, amount)
}

// PatientClaims returns the given patient's claims.
func (s *Session) PatientClaims(patientID string) []*claim.Claim {
	return s.Claims.ByPatient(patientID)
}

// PatientPolicies returns the given patient's policies.
func (s *Session) PatientPolicies(patientID string) []*policy.Policy {
	return s.Policies.ByPatient(patientID)
}

// PatientActivePolicies returns the given patient's policies with coverage
// currently in force.
func (s *Session) PatientActivePolicies(patientID string) []*policy.Policy {
	return s.Policies.ActiveByPatient(patientID)
}

// PatientPrescriptions returns the given patient's prescriptions.
func (s *Session) PatientPrescriptions(patientID string) []*prescription.Prescription {
	return s.Prescriptions.ByPatient(patientID)
}

// CurrentPatientClaims returns the logged-in patient's claims.
func (s *Session) CurrentPatientClaims() []*claim.Claim {
	return s.PatientClaims(s.CurrentPatientID())
}

// CurrentPatientPolicies returns the logged-in patient's policies.
func (s *Session) CurrentPatientPolicies() []*policy.Policy {
	return s.PatientPolicies(s.CurrentPatientID())
}

// CurrentPatientActivePolicies returns the logged-in patient's policies with
// coverage currently in force.
func (s *Session) CurrentPatientActivePolicies() []*policy.Policy {
	return s.PatientActivePolicies(s.CurrentPatientID())
}

// CurrentPatientPrescriptions returns the logged-in patient's prescriptions.
func (s *Session) CurrentPatientPrescriptions() []*prescription.Prescription {
	return s.PatientPrescriptions(s.CurrentPatientID())
}

// Summary is the dashboard rollup for the logged-in patient.
type Summary struct {
	PendingClaims       int     `json:"pending_claims"`
	ApprovedClaims      int     `json:"approved_claims"`
	DeniedClaims        int     `json:"denied_claims"`
	TotalClaimed        float64 `json:"total_claimed"`
	ActivePolicies      int     `json:"active_policies"`
	PrescriptionsActive int     `json:"active_prescriptions"`
	ReadyForRefill      int     `json:"ready_for_refill"`
}

// PatientSummary computes the dashboard counters for the given patient.
func (s *Session) PatientSummary(pid string) Summary {
	return Summary{
		PendingClaims:       s.Claims.PendingCountForPatient(pid),
		ApprovedClaims:      s.Claims.ApprovedCountForPatient(pid),
		DeniedClaims:        s.Claims.DeniedCountForPatient(pid),
		TotalClaimed:        s.Claims.TotalAmountForPatient(pid),
		ActivePolicies:      s.Policies.ActiveCountForPatient(pid),
		PrescriptionsActive: s.Prescriptions.ActiveCountForPatient(pid),
		ReadyForRefill:      s.Prescriptions.ReadyForRefillCountForPatient(pid),
	}
}

// CurrentPatientSummary computes the dashboard counters for the logged-in
// patient.
func (s *Session) CurrentPatientSummary() Summary {
	return s.PatientSummary(s.CurrentPatientID())
}

// CreateOrganization registers an organization and links it into its parent
// enterprise.
func (s *Session) CreateOrganization(name string, orgType admin.OrganizationType, enterpriseID string) (*admin.Organization, error) {
	parent, err := s.Enterprises.FindByID(enterpriseID)
	if err != nil {
		return nil, fmt.Errorf("enterprise %s: %w", enterpriseID, err)
	}
	o := s.Organizations.Create(name, orgType, enterpriseID)
	parent.AddOrganization(o.ID)
	return o, nil
}

// RegisterPatientUser creates a patient record and a patient-role login
// account for it in one step. The patient lands in the patient directory so
// the portal can serve its profile.
func (s *Session) RegisterPatientUser(username, password string, firstName, lastName string, dateOfBirth time.Time, gender, email, phone string) (*identity.User, *identity.Patient, error) {
	patient := identity.NewPatient(firstName, lastName, dateOfBirth, gender, email, phone)
	u, err := s.Users.Create(username, password, identity.RolePatient, patient.Person)
	if err != nil {
		return nil, nil, err
	}
	u.PatientID = patient.ID
	s.Patients.Add(patient)
	return u, patient, nil
}

// ReconcileExpirations sweeps policies and prescriptions past their expiry
// dates, returning how many of each were flipped.
func (s *Session) ReconcileExpirations() (policies, prescriptions int) {
	return s.Policies.ReconcileExpirations(), s.Prescriptions.ReconcileExpirations()
}

// Snapshot exports every directory for persistence.
func (s *Session) Snapshot() *persist.Snapshot {
	return &persist.Snapshot{
		Claims:        s.Claims.Export(),
		Policies:      s.Policies.Export(),
		Prescriptions: s.Prescriptions.Export(),
		Patients:      s.Patients.Export(),
		Users:         s.Users.Export(),
		Enterprises:   s.Enterprises.Export(),
		Organizations: s.Organizations.Export(),
	}
}

// Restore replaces every directory's contents from a snapshot. The current
// user is logged out because their account may no longer exist.
func (s *Session) Restore(snap *persist.Snapshot) {
	s.Claims.Restore(snap.Claims)
	s.Policies.Restore(snap.Policies)
	s.Prescriptions.Restore(snap.Prescriptions)
	s.Patients.Restore(snap.Patients)
	s.Users.Restore(snap.Users)
	s.Enterprises.Restore(snap.Enterprises)
	s.Organizations.Restore(snap.Organizations)
	s.Logout()
}

// Save writes the current state to the snapshot file at path.
func (s *Session) Save(path string) error {
	return persist.Save(path, s.Snapshot())
}

// Load replaces the current state with the snapshot file at path.
func (s *Session) Load(path string) error {
	snap, err := persist.Load(path)
	if err != nil {
		return err
	}
	s.Restore(snap)
	return nil
}
