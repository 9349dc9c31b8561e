package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hg360/hg360/internal/domain/claim"
	"github.com/hg360/hg360/internal/domain/identity"
	"github.com/hg360/hg360/internal/domain/policy"
	"github.com/hg360/hg360/internal/platform/auth"
)

func newPortalFixture(t *testing.T) (*echo.Echo, *Handler, *Session) {
	t.Helper()
	s := New()
	dataFile := filepath.Join(t.TempDir(), "state.json")
	return echo.New(), NewHandler(s, dataFile), s
}

func TestRegisterHandler(t *testing.T) {
	e, h, s := newPortalFixture(t)

	body := `{"username":"jdoe_pt","password":"patient1","first_name":"Jane","last_name":"Doe","date_of_birth":"1990-06-01"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp registerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.PatientID, "PAT-"))

	u, err := s.Users.FindByUsername("jdoe_pt")
	require.NoError(t, err)
	assert.Equal(t, resp.PatientID, u.PatientID)
}

func TestRegisterHandlerValidation(t *testing.T) {
	e, h, _ := newPortalFixture(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing names", `{"username":"jdoe_pt","password":"patient1"}`},
		{"bad username", `{"username":"j","password":"patient1","first_name":"Jane","last_name":"Doe"}`},
		{"weak password", `{"username":"jdoe_pt","password":"pw","first_name":"Jane","last_name":"Doe"}`},
		{"bad birth date", `{"username":"jdoe_pt","password":"patient1","first_name":"Jane","last_name":"Doe","date_of_birth":"06/01/1990"}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tc.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.Register(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, tc.name)
		assert.Equal(t, http.StatusBadRequest, he.Code, tc.name)
	}
}

// portalCall runs a portal handler with the given token user id set in the
// request context.
func portalCall(e *echo.Echo, h *Handler, fn echo.HandlerFunc, userID, method, body string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(auth.UserIDKey, userID)
	err := fn(c)
	return rec, err
}

func TestPortalEndpoints(t *testing.T) {
	e, h, s := newPortalFixture(t)
	u, patient := registerAndLogin(t, s)
	pol := s.Policies.Create(patient.ID, policy.TypeFamilyPPO, 500000, 2000, 50, 450, "", time.Now().UTC(), 2)

	body := `{"policy_number":"` + pol.Number + `","service_date":"2025-03-10T00:00:00Z","provider_name":"City General","diagnosis":"Flu","service_type":"doctor-visit","amount":150.00}`
	rec, err := portalCall(e, h, h.SubmitClaim, u.ID, http.MethodPost, body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created claim.Claim
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, patient.ID, created.PatientID)

	rec, err = portalCall(e, h, h.MyClaims, u.ID, http.MethodGet, "")
	require.NoError(t, err)
	var claims []claim.Claim
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claims))
	assert.Len(t, claims, 1)

	rec, err = portalCall(e, h, h.MyActivePolicies, u.ID, http.MethodGet, "")
	require.NoError(t, err)
	var policies []policy.Policy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &policies))
	assert.Len(t, policies, 1)

	rec, err = portalCall(e, h, h.MySummary, u.ID, http.MethodGet, "")
	require.NoError(t, err)
	var sum Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 1, sum.PendingClaims)
	assert.Equal(t, 1, sum.ActivePolicies)

	rec, err = portalCall(e, h, h.MyProfile, u.ID, http.MethodGet, "")
	require.NoError(t, err)
	var profile identity.Patient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, patient.ID, profile.ID)
	assert.Equal(t, "Jane Doe", profile.Person.FullName())
	assert.Contains(t, profile.ClaimNumbers, created.Number)
}

// Portal responses must be scoped to the caller's token, not to whoever
// touched the session's current-user slot last.
func TestPortalIsolatesConcurrentCallers(t *testing.T) {
	e, h, s := newPortalFixture(t)

	alice, _, err := s.RegisterPatientUser("alice_pt", "patient1", "Alice", "Hart", time.Time{}, "F", "", "")
	require.NoError(t, err)
	bob, _, err := s.RegisterPatientUser("bob_pt", "patient1", "Bob", "Stone", time.Time{}, "M", "", "")
	require.NoError(t, err)

	polA := s.Policies.Create(alice.PatientID, policy.TypeIndividualPPO, 200000, 1200, 35, 220, "", time.Now().UTC(), 1)
	polB := s.Policies.Create(bob.PatientID, policy.TypeIndividualHMO, 150000, 1000, 25, 190, "", time.Now().UTC(), 1)

	_, err = s.SubmitClaimFor(alice.PatientID, polA.Number, time.Now().UTC(), "ProvA", "Checkup", claim.ServiceDoctorVisit, 100)
	require.NoError(t, err)
	_, err = s.SubmitClaimFor(bob.PatientID, polB.Number, time.Now().UTC(), "ProvB", "X-Ray", claim.ServiceDiagnosticTest, 250)
	require.NoError(t, err)

	// Another request logged Bob into the shared slot between Alice's auth
	// and her handler running.
	s.Login(bob)

	rec, err := portalCall(e, h, h.MyClaims, alice.ID, http.MethodGet, "")
	require.NoError(t, err)
	var claims []claim.Claim
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claims))
	require.Len(t, claims, 1)
	assert.Equal(t, alice.PatientID, claims[0].PatientID)
	assert.Equal(t, "ProvA", claims[0].ProviderName)
}

func TestPortalRejectsNonPatientAccounts(t *testing.T) {
	e, h, s := newPortalFixture(t)

	// Unknown token subject.
	_, err := portalCall(e, h, h.MyClaims, "USR-missing1", http.MethodGet, "")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	// Staff account without a patient record.
	staff, err := s.Users.Create("drsmith", "doctor99", identity.RoleDoctor, identity.NewPerson("Robert", "Smith", time.Time{}, "M", "", ""))
	require.NoError(t, err)
	_, err = portalCall(e, h, h.MyClaims, staff.ID, http.MethodGet, "")
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestStateEndpoints(t *testing.T) {
	e, h, s := newPortalFixture(t)
	_, patient := registerAndLogin(t, s)
	s.Policies.Create(patient.ID, policy.TypeFamilyPPO, 500000, 2000, 50, 450, "", time.Now().UTC(), 2)

	call := func(fn echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		return rec, fn(c)
	}

	rec, err := call(h.StateInfo)
	require.NoError(t, err)
	var info stateInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.False(t, info.Saved)
	assert.Equal(t, 1, info.Policies)
	assert.Equal(t, 1, info.Users)

	// Load before any save reports no data.
	_, err = call(h.LoadState)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)

	rec, err = call(h.SaveState)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, err = call(h.ResetState)
	require.NoError(t, err)
	assert.Zero(t, s.Policies.Count())

	rec, err = call(h.LoadState)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, s.Policies.Count())
	assert.Equal(t, 1, s.Users.Count())
	assert.Equal(t, 1, s.Patients.Count())

	rec, err = call(h.Reconcile)
	require.NoError(t, err)
	var result reconcileResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Zero(t, result.PoliciesExpired)
}
