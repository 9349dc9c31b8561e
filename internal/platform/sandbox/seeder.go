// Package sandbox seeds a session with the demo dataset: a handful of
// enterprises and organizations, login accounts for every role, and patients
// with policies, claims and prescriptions in every lifecycle state. The data
// is deterministic so dashboards and tests see the same picture every run.
package sandbox

import (
	"time"

	"github.com/hg360/hg360/internal/domain/admin"
	"github.com/hg360/hg360/internal/domain/claim"
	"github.com/hg360/hg360/internal/domain/identity"
	"github.com/hg360/hg360/internal/domain/policy"
	"github.com/hg360/hg360/internal/domain/prescription"
	"github.com/hg360/hg360/internal/platform/session"
)

// Patient ids referenced across the seeded claims, policies and
// prescriptions. The first two are linked to the seeded patient logins.
const (
	PatientJohnDoe      = "PAT-101"
	PatientSarahJohnson = "PAT-102"
)

// Seed fills the session's directories with the demo dataset. It does not
// clear existing data first; call Reset beforehand for a clean slate.
func Seed(s *session.Session) {
	seedEnterprises(s)
	seedPatients(s)
	seedUsers(s)
	seedPolicies(s)
	seedClaims(s)
	seedPrescriptions(s)
	linkPatientRecords(s)
}

func seedPatients(s *session.Session) {
	john := identity.NewPatient("John", "Doe", time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC), "M", "john.doe@example.com", "555-0101")
	john.ID = PatientJohnDoe
	john.BloodType = "O+"
	john.AddAllergy("Penicillin")
	john.EmergencyContactName = "Jane Doe"
	john.EmergencyContactPhone = "555-0102"
	john.InsuranceProvider = "HealthGuard Insurance"
	s.Patients.Add(john)

	sarah := identity.NewPatient("Sarah", "Johnson", time.Date(1992, 7, 24, 0, 0, 0, 0, time.UTC), "F", "sarah.j@example.com", "555-0201")
	sarah.ID = PatientSarahJohnson
	sarah.BloodType = "A-"
	sarah.AddChronicCondition("Asthma")
	sarah.InsuranceProvider = "HealthGuard Insurance"
	s.Patients.Add(sarah)

	others := []struct {
		id, firstName, lastName string
	}{
		{"PAT-103", "Harold", "Greene"},
		{"PAT-104", "Monica", "Alvarez"},
		{"PAT-105", "Dennis", "Park"},
		{"PAT-106", "Claire", "Whitfield"},
		{"PAT-107", "Victor", "Osei"},
		{"PAT-108", "Renee", "Castellano"},
		{"PAT-109", "Stuart", "Bennett"},
		{"PAT-110", "Gloria", "Mitchell"},
	}
	for _, o := range others {
		p := identity.NewPatient(o.firstName, o.lastName, time.Time{}, "", "", "")
		p.ID = o.id
		s.Patients.Add(p)
	}
}

// linkPatientRecords back-fills each patient's policy, claim and prescription
// number lists from the seeded directories.
func linkPatientRecords(s *session.Session) {
	for _, pol := range s.Policies.All() {
		if p, err := s.Patients.FindByID(pol.PatientID); err == nil {
			p.AddPolicy(pol.Number)
		}
	}
	for _, cl := range s.Claims.All() {
		if p, err := s.Patients.FindByID(cl.PatientID); err == nil {
			p.AddClaim(cl.Number)
		}
	}
	for _, rx := range s.Prescriptions.All() {
		if p, err := s.Patients.FindByID(rx.PatientID); err == nil {
			p.AddPrescription(rx.Number)
		}
	}
}

func seedEnterprises(s *session.Session) {
	hospital := s.Enterprises.Create("City General Hospital", admin.EnterpriseHospital)
	insurer := s.Enterprises.Create("HealthGuard Insurance", admin.EnterpriseInsuranceProvider)
	pharmacy := s.Enterprises.Create("Metro Pharmacy Chain", admin.EnterprisePharmacyChain)
	supplier := s.Enterprises.Create("MedSupply Partners", admin.EnterprisePharmaceuticalSupplier)

	mustOrg(s, "Cardiology", admin.OrgDepartment, hospital.ID)
	mustOrg(s, "Emergency Medicine", admin.OrgDepartment, hospital.ID)
	mustOrg(s, "Claims Processing", admin.OrgDivision, insurer.ID)
	mustOrg(s, "Underwriting", admin.OrgDivision, insurer.ID)
	mustOrg(s, "Downtown Branch", admin.OrgBranch, pharmacy.ID)
	mustOrg(s, "Distribution Unit", admin.OrgUnit, supplier.ID)
}

func mustOrg(s *session.Session, name string, orgType admin.OrganizationType, enterpriseID string) {
	// The enterprise was created two lines up; the lookup cannot fail.
	if _, err := s.CreateOrganization(name, orgType, enterpriseID); err != nil {
		panic(err)
	}
}

type seedUser struct {
	username  string
	password  string
	role      identity.Role
	firstName string
	lastName  string
	patientID string
}

func seedUsers(s *session.Session) {
	accounts := []seedUser{
		{"admin", "admin123", identity.RoleSystemAdmin, "System", "Administrator", ""},
		{"patient", "patient123", identity.RolePatient, "John", "Doe", PatientJohnDoe},
		{"sarah", "pass123", identity.RolePatient, "Sarah", "Johnson", PatientSarahJohnson},
		{"doctor", "doctor123", identity.RoleDoctor, "Emily", "Smith", ""},
		{"drchen", "pass123", identity.RoleDoctor, "Michael", "Chen", ""},
		{"nurse", "nurse123", identity.RoleNurse, "Maria", "Garcia", ""},
		{"hospitaladmin", "admin123", identity.RoleHospitalAdmin, "Robert", "Thompson", ""},
		{"claimsprocessor", "claims123", identity.RoleClaimsProcessor, "Lisa", "Anderson", ""},
		{"insuranceadmin", "admin123", identity.RoleInsuranceAdmin, "Patricia", "Brown", ""},
		{"pharmacist", "pharm123", identity.RolePharmacist, "James", "Wilson", ""},
		{"pharmtech", "tech123", identity.RolePharmacyTechnician, "Kevin", "Lee", ""},
		{"pharmacyadmin", "admin123", identity.RolePharmacyAdmin, "Amanda", "Davis", ""},
		{"underwriter", "under123", identity.RoleUnderwriter, "Christopher", "Moore", ""},
		{"supplieradmin", "admin123", identity.RoleSupplierAdmin, "Michelle", "White", ""},
		{"supplymanager", "supply123", identity.RoleSupplierManager, "Brian", "Clark", ""},
	}
	for _, a := range accounts {
		person := identity.NewPerson(a.firstName, a.lastName, time.Time{}, "", "", "")
		u, err := s.Users.Create(a.username, a.password, a.role, person)
		if err != nil {
			panic(err)
		}
		u.PatientID = a.patientID
	}
}

func seedPolicies(s *session.Session) {
	now := today()

	p1 := s.Policies.Create(PatientJohnDoe, policy.TypeFamilyPPO, 500000, 2000, 50, 450, "ENT-INS", now.AddDate(0, -6, 0), 2)
	p1.Number = "POL-2024-1001"
	p1.Beneficiaries = []string{"Spouse", "Child 1"}

	p2 := s.Policies.Create(PatientSarahJohnson, policy.TypeIndividualHMO, 250000, 1500, 30, 250, "ENT-INS", now.AddDate(0, -3, 0), 1)
	p2.Number = "POL-2024-1002"

	p3 := s.Policies.Create("PAT-103", policy.TypeMedicare, 100000, 1000, 20, 180, "ENT-INS", now.AddDate(-1, 0, 0), 5)
	p3.Number = "POL-2024-1003"

	p4 := s.Policies.Create("PAT-104", policy.TypeIndividualPPO, 50000, 500, 25, 80, "ENT-INS", now.AddDate(0, -1, 0), 1)
	p4.Number = "POL-2024-1005"

	// Lapsed a month ago.
	p5 := s.Policies.Create("PAT-105", policy.TypeFamilyHMO, 300000, 2500, 40, 350, "ENT-INS", now.AddDate(-2, 0, 0), 1)
	p5.Number = "POL-2022-8001"
	p5.ExpiryDate = now.AddDate(0, 0, -30)
	p5.Status = policy.StatusExpired

	p6 := s.Policies.Create("PAT-106", policy.TypeFamilyPPO, 1000000, 5000, 100, 1200, "ENT-INS", now.AddDate(0, -8, 0), 3)
	p6.Number = "POL-2023-2001"
	p6.Beneficiaries = []string{"Spouse", "3 Children"}

	p7 := s.Policies.Create("PAT-107", policy.TypeIndividualPPO, 200000, 1200, 35, 220, "ENT-INS", now.AddDate(0, 0, -5), 1)
	p7.Number = "POL-2023-2002"

	p8 := s.Policies.Create("PAT-108", policy.TypeIndividualHMO, 150000, 1000, 25, 190, "ENT-INS", now.AddDate(0, -11, 0), 1)
	p8.Number = "POL-2024-1008"

	p9 := s.Policies.Create("PAT-109", policy.TypeFamilyPPO, 400000, 2200, 45, 420, "ENT-INS", now.AddDate(0, -2, 0), 1)
	p9.Number = "POL-2024-1009"

	p10 := s.Policies.Create("PAT-110", policy.TypeMedicare, 120000, 800, 15, 160, "ENT-INS", now.AddDate(0, -4, 0), 10)
	p10.Number = "POL-2024-1010"
}

func seedClaims(s *session.Session) {
	now := today()

	// Fresh submissions awaiting review.
	c1 := s.Claims.Create("POL-2024-1001", PatientJohnDoe, now.AddDate(0, 0, -1), "City General", "Flu Symptoms", claim.ServiceDoctorVisit, 150.00)
	c1.Number = "CLM-2025-1001"
	c2 := s.Claims.Create("POL-2024-1002", PatientSarahJohnson, now.AddDate(0, 0, -2), "Metro Pharmacy", "Antibiotics", claim.ServicePrescriptionMed, 45.00)
	c2.Number = "CLM-2025-1002"
	c3 := s.Claims.Create("POL-2024-1003", "PAT-103", now.AddDate(0, 0, -3), "Valley Hospital", "X-Ray Leg", claim.ServiceDiagnosticTest, 350.00)
	c3.Number = "CLM-2025-1003"

	// Under review.
	c4 := s.Claims.Create("POL-2024-1001", PatientJohnDoe, now.AddDate(0, 0, -5), "Dental Care Plus", "Root Canal", claim.ServiceDental, 1200.00)
	c4.Number = "CLM-2025-1004"
	c4.MoveToUnderReview("EMP-PROC-001")
	c5 := s.Claims.Create("POL-2024-1005", "PAT-104", now.AddDate(0, 0, -6), "Eye Vision Center", "Glasses", claim.ServiceVision, 400.00)
	c5.Number = "CLM-2025-1005"
	c5.MoveToUnderReview("EMP-PROC-002")

	// Approved.
	c6 := s.Claims.Create("POL-2024-1002", PatientSarahJohnson, now.AddDate(0, 0, -10), "City General", "Checkup", claim.ServiceDoctorVisit, 200.00)
	c6.Number = "CLM-2025-1006"
	c6.Approve(180.00, "EMP-PROC-001", "Standard coverage")
	c7 := s.Claims.Create("POL-2024-1008", "PAT-108", now.AddDate(0, 0, -12), "Ortho Clinic", "Knee Brace", claim.ServicePhysicalTherapy, 150.00)
	c7.Number = "CLM-2025-1007"
	c7.Approve(120.00, "EMP-PROC-003", "80% covered")

	// Paid.
	c8 := s.Claims.Create("POL-2023-2001", "PAT-106", now.AddDate(0, -1, 0), "Regional Medical Center", "Appendectomy", claim.ServiceSurgery, 15000.00)
	c8.Number = "CLM-2025-2001"
	c8.Approve(14000.00, "EMP-PROC-001", "Surgery covered")
	c8.MarkPaid()
	c9 := s.Claims.Create("POL-2023-2002", "PAT-107", now.AddDate(0, -2, 0), "Emergency Care", "ER Visit", claim.ServiceEmergencyRoom, 2500.00)
	c9.Number = "CLM-2025-2002"
	c9.Approve(2000.00, "EMP-PROC-002", "ER co-pay applied")
	c9.MarkPaid()

	// Denied.
	c10 := s.Claims.Create("POL-2024-1008", "PAT-108", now.AddDate(0, 0, -15), "Luxury Spa", "Massage", claim.ServiceOther, 300.00)
	c10.Number = "CLM-2025-3001"
	c10.Deny("EMP-PROC-001", "Service not covered by policy")

	// Withdrawn.
	c11 := s.Claims.Create("POL-2024-1009", "PAT-109", now, "Quick Care", "Stitches", claim.ServiceEmergencyRoom, 800.00)
	c11.Number = "CLM-2025-4001"
	c11.Withdraw()

	c12 := s.Claims.Create("POL-2024-1010", "PAT-110", now, "City Pharmacy", "Prescription", claim.ServicePrescriptionMed, 120.00)
	c12.Number = "CLM-2025-4002"
}

func seedPrescriptions(s *session.Session) {
	rx1 := s.Prescriptions.Create(PatientJohnDoe, "EMP-DOC-001", "MED-001", "10mg, once daily", 30, 3, "Take with food", "ENT-PHARM-001", "POL-2024-1001")
	rx1.Number = "RX-2025-001234"

	// Down to the last refills; shows up in the refill queue.
	rx2 := s.Prescriptions.Create(PatientJohnDoe, "EMP-DOC-001", "MED-002", "500mg, twice daily", 60, 2, "Take with meals", "ENT-PHARM-002", "POL-2024-1001")
	rx2.Number = "RX-2025-001567"

	rx3 := s.Prescriptions.Create(PatientJohnDoe, "EMP-DOC-002", "MED-003", "20mg, once at bedtime", 30, 5, "Monitor cholesterol", "ENT-PHARM-001", "POL-2024-1001")
	rx3.Number = "RX-2025-001890"

	// Course finished: no refills left.
	rx4 := s.Prescriptions.Create(PatientSarahJohnson, "EMP-DOC-001", "MED-004", "500mg, three times daily", 21, 0, "Complete full course", "ENT-PHARM-003", "POL-2024-1002")
	rx4.Number = "RX-2024-008765"
	rx4.Status = prescription.StatusCompleted

	rx5 := s.Prescriptions.Create(PatientSarahJohnson, "EMP-DOC-002", "MED-001", "5mg, once daily", 30, 4, "", "ENT-PHARM-001", "POL-2024-1002")
	rx5.Number = "RX-2025-002345"
	rx5.Cancel()
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
