package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hg360/hg360/internal/domain/admin"
	"github.com/hg360/hg360/internal/domain/claim"
	"github.com/hg360/hg360/internal/domain/identity"
	"github.com/hg360/hg360/internal/domain/policy"
	"github.com/hg360/hg360/internal/platform/persist"
)

// registerAndLogin creates a patient account and logs it in.
func registerAndLogin(t *testing.T, s *Session) (*identity.User, *identity.Patient) {
	t.Helper()
	u, patient, err := s.RegisterPatientUser("jdoe_pt", "patient1", "Jane", "Doe", time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC), "F", "jdoe@example.com", "555-0100")
	require.NoError(t, err)
	require.NotEmpty(t, u.PatientID)
	assert.Equal(t, patient.ID, u.PatientID)

	stored, err := s.Patients.FindByID(patient.ID)
	require.NoError(t, err)
	assert.Same(t, patient, stored)

	s.Login(u)
	return u, patient
}

func TestLoginLogout(t *testing.T) {
	s := New()
	assert.False(t, s.IsLoggedIn())
	assert.Empty(t, s.CurrentPatientID())

	u, _ := registerAndLogin(t, s)
	assert.True(t, s.IsLoggedIn())
	assert.True(t, s.CurrentUserIsPatient())
	assert.False(t, s.CurrentUserIsAdmin())
	assert.Equal(t, u.PatientID, s.CurrentPatientID())

	s.Logout()
	assert.False(t, s.IsLoggedIn())
	assert.Empty(t, s.CurrentPatientID())
}

func TestSubmitClaim(t *testing.T) {
	s := New()
	_, patient := registerAndLogin(t, s)
	pol := s.Policies.Create(patient.ID, policy.TypeFamilyPPO, 500000, 2000, 50, 450, "ENT-11111111", time.Now().UTC(), 2)

	cl, err := s.SubmitClaim(pol.Number, time.Now(), "City General", "Flu", claim.ServiceDoctorVisit, 150.00)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, cl.PatientID)
	assert.Equal(t, claim.StatusSubmitted, cl.Status)
	assert.Contains(t, pol.ClaimIDs, cl.Number)
	assert.Contains(t, patient.ClaimNumbers, cl.Number)
	assert.Len(t, s.CurrentPatientClaims(), 1)
}

func TestSubmitClaimRejections(t *testing.T) {
	s := New()

	_, err := s.SubmitClaim("POL-2025-00001", time.Now(), "City General", "Flu", claim.ServiceDoctorVisit, 150.00)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, patient := registerAndLogin(t, s)

	_, err = s.SubmitClaim("POL-2025-99999", time.Now(), "City General", "Flu", claim.ServiceDoctorVisit, 150.00)
	assert.ErrorIs(t, err, policy.ErrNotFound)

	other := s.Policies.Create("PAT-someone-else", policy.TypeIndividualHMO, 100000, 1000, 25, 200, "", time.Now().UTC(), 1)
	_, err = s.SubmitClaim(other.Number, time.Now(), "City General", "Flu", claim.ServiceDoctorVisit, 150.00)
	assert.ErrorContains(t, err, "does not belong to patient")
	assert.Zero(t, s.Claims.Count())
	_ = patient
}

func TestCurrentPatientSummary(t *testing.T) {
	s := New()
	_, patient := registerAndLogin(t, s)
	pol := s.Policies.Create(patient.ID, policy.TypeFamilyPPO, 500000, 2000, 50, 450, "", time.Now().UTC(), 2)

	approved, err := s.SubmitClaim(pol.Number, time.Now(), "City General", "Flu", claim.ServiceDoctorVisit, 150.00)
	require.NoError(t, err)
	pending, err := s.SubmitClaim(pol.Number, time.Now(), "City General", "Checkup", claim.ServiceDoctorVisit, 80.00)
	require.NoError(t, err)
	require.True(t, s.Claims.ApproveClaim(approved.Number, 120.00, "EMP-1", "ok"))

	s.Prescriptions.Create(patient.ID, "EMP-2", "MED-1", "20mg daily", 30, 2, "", "", pol.Number)

	sum := s.CurrentPatientSummary()
	assert.Equal(t, 1, sum.PendingClaims)
	assert.Equal(t, 1, sum.ApprovedClaims)
	assert.Equal(t, 0, sum.DeniedClaims)
	assert.InDelta(t, 230.00, sum.TotalClaimed, 0.001)
	assert.Equal(t, 1, sum.ActivePolicies)
	assert.Equal(t, 1, sum.PrescriptionsActive)
	assert.Equal(t, 1, sum.ReadyForRefill)
	_ = pending
}

func TestCreateOrganizationLinksEnterprise(t *testing.T) {
	s := New()
	ent := s.Enterprises.Create("City General Hospital", admin.EnterpriseHospital)

	org, err := s.CreateOrganization("Cardiology", admin.OrgDepartment, ent.ID)
	require.NoError(t, err)
	assert.Contains(t, ent.OrganizationIDs, org.ID)

	_, err = s.CreateOrganization("Oncology", admin.OrgDepartment, "ENT-missing1")
	assert.ErrorIs(t, err, admin.ErrNotFound)
}

func TestReconcileExpirations(t *testing.T) {
	s := New()
	past := time.Now().UTC().AddDate(-3, 0, 0)
	s.Policies.Create("PAT-101", policy.TypeIndividualHMO, 100000, 1000, 25, 200, "", past, 1)
	s.Policies.Create("PAT-101", policy.TypeIndividualHMO, 100000, 1000, 25, 200, "", time.Now().UTC(), 1)

	policies, prescriptions := s.ReconcileExpirations()
	assert.Equal(t, 1, policies)
	assert.Equal(t, 0, prescriptions)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := New()
	u, patient := registerAndLogin(t, s)
	pol := s.Policies.Create(patient.ID, policy.TypeFamilyPPO, 500000, 2000, 50, 450, "", time.Now().UTC(), 2)
	_, err := s.SubmitClaim(pol.Number, time.Now(), "City General", "Flu", claim.ServiceDoctorVisit, 150.00)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, s.Save(path))

	fresh := New()
	require.NoError(t, fresh.Load(path))
	assert.Equal(t, 1, fresh.Claims.Count())
	assert.Equal(t, 1, fresh.Policies.Count())
	assert.Equal(t, 1, fresh.Users.Count())
	assert.Equal(t, 1, fresh.Patients.Count())
	assert.False(t, fresh.IsLoggedIn())

	restored, err := fresh.Users.FindByUsername(u.Username)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, restored.PatientID)

	restoredPatient, err := fresh.Patients.FindByID(patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", restoredPatient.Person.FullName())
	assert.NotNil(t, fresh.Users.Authenticate("jdoe_pt", "patient1"))

	assert.ErrorIs(t, New().Load(filepath.Join(t.TempDir(), "absent.json")), persist.ErrNoData)
}

// Exported snapshot slices are copies: emptying the source directories after
// export must not disturb a session restored from that snapshot.
func TestSnapshotContainerIsolation(t *testing.T) {
	s := New()
	_, patient := registerAndLogin(t, s)
	s.Policies.Create(patient.ID, policy.TypeFamilyPPO, 500000, 2000, 50, 450, "", time.Now().UTC(), 2)

	snap := s.Snapshot()
	other := New()
	other.Restore(snap)

	s.Reset()
	assert.Zero(t, s.Policies.Count())
	assert.Equal(t, 1, other.Policies.Count())
	assert.Equal(t, 1, other.Users.Count())
}

func TestReset(t *testing.T) {
	s := New()
	registerAndLogin(t, s)
	s.Enterprises.Create("City General Hospital", admin.EnterpriseHospital)

	s.Reset()
	assert.False(t, s.IsLoggedIn())
	assert.True(t, s.Users.IsEmpty())
	assert.True(t, s.Enterprises.IsEmpty())
}

// Family PPO lifecycle: coverage 500000, deductible 2000, copay 50, two-year
// term, then cancellation.
func TestPolicyLifecycleScenario(t *testing.T) {
	s := New()
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	pol := s.Policies.Create("PAT-101", policy.TypeFamilyPPO, 500000, 2000, 50, 450, "ENT-11111111", start, 2)

	assert.Equal(t, start.AddDate(2, 0, 0), pol.ExpiryDate)

	require.True(t, s.Policies.CancelPolicy(pol.Number))
	assert.Equal(t, policy.StatusCancelled, pol.Status)
	assert.False(t, pol.IsCurrentlyActive())
}

// Claim lifecycle: submit 150.00, review, approve 120.00, pay.
func TestClaimLifecycleScenario(t *testing.T) {
	s := New()
	cl := s.Claims.Create("POL-2024-1001", "PAT-101", time.Now(), "City General", "Flu", claim.ServiceDoctorVisit, 150.00)

	require.True(t, s.Claims.MoveToUnderReview(cl.Number, "EMP-1"))
	require.True(t, s.Claims.ApproveClaim(cl.Number, 120.00, "EMP-1", "ok"))
	assert.Equal(t, claim.StatusApproved, cl.Status)
	assert.InDelta(t, 120.00, cl.ApprovedAmount, 0.001)
	assert.NotNil(t, cl.ProcessedDate)

	require.True(t, s.Claims.MarkPaid(cl.Number))
	assert.Equal(t, claim.StatusPaid, cl.Status)
	assert.InDelta(t, 120.00, s.Claims.TotalApprovedAmount(), 0.001)
}
