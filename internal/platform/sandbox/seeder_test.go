package sandbox

import (
	"testing"

	"github.com/hg360/hg360/internal/domain/claim"
	"github.com/hg360/hg360/internal/domain/policy"
	"github.com/hg360/hg360/internal/domain/prescription"
	"github.com/hg360/hg360/internal/platform/session"
)

func TestSeedCounts(t *testing.T) {
	s := session.New()
	Seed(s)

	if got := s.Enterprises.Count(); got != 4 {
		t.Errorf("enterprises = %d, want 4", got)
	}
	if got := s.Organizations.Count(); got != 6 {
		t.Errorf("organizations = %d, want 6", got)
	}
	if got := s.Users.Count(); got != 15 {
		t.Errorf("users = %d, want 15", got)
	}
	if got := s.Policies.Count(); got != 10 {
		t.Errorf("policies = %d, want 10", got)
	}
	if got := s.Claims.Count(); got != 12 {
		t.Errorf("claims = %d, want 12", got)
	}
	if got := s.Prescriptions.Count(); got != 5 {
		t.Errorf("prescriptions = %d, want 5", got)
	}
	if got := s.Patients.Count(); got != 10 {
		t.Errorf("patients = %d, want 10", got)
	}
}

func TestSeedPatientRecords(t *testing.T) {
	s := session.New()
	Seed(s)

	john, err := s.Patients.FindByID(PatientJohnDoe)
	if err != nil {
		t.Fatalf("%s missing: %v", PatientJohnDoe, err)
	}
	if john.Person.FullName() != "John Doe" {
		t.Errorf("name = %s, want John Doe", john.Person.FullName())
	}
	if john.BloodType != "O+" {
		t.Errorf("blood type = %s, want O+", john.BloodType)
	}
	if len(s.Patients.WithAllergy("Penicillin")) != 1 {
		t.Error("John Doe's penicillin allergy not on record")
	}

	// Directory numbers are linked back into the patient record.
	if len(john.PolicyNumbers) != 1 || john.PolicyNumbers[0] != "POL-2024-1001" {
		t.Errorf("policy links = %v", john.PolicyNumbers)
	}
	if len(john.ClaimNumbers) != 2 {
		t.Errorf("claim links = %v", john.ClaimNumbers)
	}
	if len(john.PrescriptionNumbers) != 3 {
		t.Errorf("prescription links = %v", john.PrescriptionNumbers)
	}
}

func TestSeedCoversEveryClaimState(t *testing.T) {
	s := session.New()
	Seed(s)

	for _, status := range []claim.Status{
		claim.StatusSubmitted, claim.StatusUnderReview, claim.StatusApproved,
		claim.StatusDenied, claim.StatusPaid, claim.StatusWithdrawn,
	} {
		if got := s.Claims.CountByStatus(status); got == 0 {
			t.Errorf("no seeded claim in state %s", status)
		}
	}
}

func TestSeedLogins(t *testing.T) {
	s := session.New()
	Seed(s)

	u := s.Users.Authenticate("admin", "admin123")
	if u == nil {
		t.Fatal("admin cannot log in")
	}
	if !u.Role.IsAdmin() {
		t.Errorf("admin role = %s", u.Role)
	}

	pt := s.Users.Authenticate("patient", "patient123")
	if pt == nil {
		t.Fatal("patient cannot log in")
	}
	if pt.PatientID != PatientJohnDoe {
		t.Errorf("patient linked to %q, want %s", pt.PatientID, PatientJohnDoe)
	}
}

func TestSeedPatientPortalData(t *testing.T) {
	s := session.New()
	Seed(s)
	s.Login(s.Users.Authenticate("patient", "patient123"))

	if got := len(s.CurrentPatientClaims()); got != 2 {
		t.Errorf("patient claims = %d, want 2", got)
	}
	if got := len(s.CurrentPatientActivePolicies()); got != 1 {
		t.Errorf("active policies = %d, want 1", got)
	}
	if got := len(s.CurrentPatientPrescriptions()); got != 3 {
		t.Errorf("prescriptions = %d, want 3", got)
	}

	queue := s.Prescriptions.ReadyForRefill(PatientJohnDoe)
	if len(queue) != 1 || queue[0].Number != "RX-2025-001567" {
		t.Errorf("refill queue = %+v", queue)
	}
}

func TestSeedPolicyShapes(t *testing.T) {
	s := session.New()
	Seed(s)

	p, err := s.Policies.FindByNumber("POL-2024-1001")
	if err != nil {
		t.Fatalf("POL-2024-1001 missing: %v", err)
	}
	if p.Type != policy.TypeFamilyPPO || p.CoverageAmount != 500000 || p.Deductible != 2000 || p.Copayment != 50 {
		t.Errorf("POL-2024-1001 = %+v", p)
	}
	if len(p.Beneficiaries) != 2 {
		t.Errorf("beneficiaries = %v", p.Beneficiaries)
	}
	if !p.IsCurrentlyActive() {
		t.Error("POL-2024-1001 should be in force")
	}

	expired, err := s.Policies.FindByNumber("POL-2022-8001")
	if err != nil {
		t.Fatalf("POL-2022-8001 missing: %v", err)
	}
	if !expired.IsExpired() {
		t.Error("POL-2022-8001 should be expired")
	}
}

func TestSeedPrescriptionStates(t *testing.T) {
	s := session.New()
	Seed(s)

	done, err := s.Prescriptions.FindByNumber("RX-2024-008765")
	if err != nil {
		t.Fatalf("RX-2024-008765 missing: %v", err)
	}
	if done.Status != prescription.StatusCompleted {
		t.Errorf("status = %s, want completed", done.Status)
	}
	if done.CanRefill() {
		t.Error("completed prescription should not refill")
	}

	cancelled, err := s.Prescriptions.FindByNumber("RX-2025-002345")
	if err != nil {
		t.Fatalf("RX-2025-002345 missing: %v", err)
	}
	if cancelled.Status != prescription.StatusCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}
}

func TestSeedIsRepeatableAfterReset(t *testing.T) {
	s := session.New()
	Seed(s)
	s.Reset()
	Seed(s)

	if got := s.Users.Count(); got != 15 {
		t.Errorf("users after reseed = %d, want 15", got)
	}
	if _, err := s.Claims.FindByNumber("CLM-2025-1001"); err != nil {
		t.Errorf("CLM-2025-1001 missing after reseed: %v", err)
	}
}
