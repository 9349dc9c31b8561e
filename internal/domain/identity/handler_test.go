package identity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hg360/hg360/internal/platform/auth"
)

func newIdentityFixture(t *testing.T) (*echo.Echo, *Handler, *UserDirectory) {
	t.Helper()
	dir := seedUserDirectory(t)
	issuer := auth.NewIssuer([]byte("test-secret-test-secret"), time.Hour)
	return echo.New(), NewHandler(dir, issuer), dir
}

func TestLoginHandler(t *testing.T) {
	e, h, dir := newIdentityFixture(t)

	var seen *User
	h.OnLogin = func(u *User) { seen = u }

	body := `{"username":"drsmith","password":"doctor99"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("no token issued")
	}
	if resp.User.Username != "drsmith" || resp.User.Role != "doctor" {
		t.Errorf("user view = %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("password hash leaked in login response")
	}
	if seen == nil || seen.Username != "drsmith" {
		t.Error("OnLogin hook not invoked with the authenticated user")
	}

	u, _ := dir.FindByUsername("drsmith")
	if u.LastLogin == nil {
		t.Error("login not stamped on the account")
	}
}

func TestLoginHandlerRejections(t *testing.T) {
	e, h, _ := newIdentityFixture(t)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"missing fields", `{"username":"drsmith"}`, http.StatusBadRequest},
		{"wrong password", `{"username":"drsmith","password":"nope99"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"ghost_user","password":"doctor99"}`, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tc.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.Login(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != tc.code {
			t.Errorf("%s: expected %d, got %v", tc.name, tc.code, err)
		}
	}
}

func TestLogoutHandler(t *testing.T) {
	e, h, _ := newIdentityFixture(t)

	called := false
	h.OnLogout = func() { called = true }

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if !called {
		t.Error("OnLogout hook not invoked")
	}
}

func TestMeHandler(t *testing.T) {
	e, h, dir := newIdentityFixture(t)
	admin, _ := dir.FindByUsername("admin_01")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(auth.UserIDKey, admin.ID)

	if err := h.Me(c); err != nil {
		t.Fatalf("me: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"username":"admin_01"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestChangePasswordHandler(t *testing.T) {
	e, h, dir := newIdentityFixture(t)
	doc, _ := dir.FindByUsername("drsmith")

	post := func(body string) error {
		req := httptest.NewRequest(http.MethodPost, "/auth/change-password", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(auth.UserIDKey, doc.ID)
		return h.ChangePassword(c)
	}

	if err := post(`{"current_password":"wrong","new_password":"newpass1"}`); err == nil {
		t.Error("wrong current password accepted")
	} else if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("wrong current password: got %v, want 401", err)
	}

	if err := post(`{"current_password":"doctor99","new_password":"short"}`); err == nil {
		t.Error("weak new password accepted")
	}

	if err := post(`{"current_password":"doctor99","new_password":"newpass1"}`); err != nil {
		t.Fatalf("valid change failed: %v", err)
	}
	if dir.Authenticate("drsmith", "newpass1") == nil {
		t.Error("new password does not authenticate")
	}
}

func TestCreateUserHandler(t *testing.T) {
	e, h, dir := newIdentityFixture(t)

	body := `{"username":"nurse_kim","password":"nurse123","role":"nurse","first_name":"Kim","last_name":"Park","email":"kpark@example.com","date_of_birth":"1990-06-01"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateUser(c); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if dir.Count() != 4 {
		t.Errorf("directory count = %d, want 4", dir.Count())
	}
	u, err := dir.FindByUsername("nurse_kim")
	if err != nil {
		t.Fatalf("created user not found: %v", err)
	}
	if u.Role != RoleNurse || u.Person.FirstName != "Kim" {
		t.Errorf("created user = %+v", u)
	}
}

func TestCreateUserHandlerValidation(t *testing.T) {
	e, h, _ := newIdentityFixture(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing names", `{"username":"nurse_kim","password":"nurse123","role":"nurse"}`},
		{"bad role", `{"username":"nurse_kim","password":"nurse123","role":"janitor","first_name":"Kim","last_name":"Park"}`},
		{"bad username", `{"username":"k","password":"nurse123","role":"nurse","first_name":"Kim","last_name":"Park"}`},
		{"taken username", `{"username":"drsmith","password":"nurse123","role":"nurse","first_name":"Kim","last_name":"Park"}`},
		{"bad birth date", `{"username":"nurse_kim","password":"nurse123","role":"nurse","first_name":"Kim","last_name":"Park","date_of_birth":"06/01/1990"}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tc.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.CreateUser(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", tc.name, err)
		}
	}
}

func TestListUsersHandler(t *testing.T) {
	e, h, _ := newIdentityFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/users?role=doctor", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListUsers(c); err != nil {
		t.Fatalf("list: %v", err)
	}

	var resp struct {
		Data  []userResponse `json:"data"`
		Total int            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 || resp.Data[0].Username != "drsmith" {
		t.Errorf("role filter returned %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("password hash leaked in list response")
	}
}

func TestUserLifecycleHandlers(t *testing.T) {
	e, h, dir := newIdentityFixture(t)
	doc, _ := dir.FindByUsername("drsmith")

	call := func(fn echo.HandlerFunc, id string) error {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		return fn(c)
	}

	if err := call(h.DeactivateUser, doc.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if doc.Active {
		t.Error("account still active after deactivate")
	}
	if err := call(h.ActivateUser, doc.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !doc.Active {
		t.Error("account still inactive after activate")
	}

	if err := call(h.DeactivateUser, "USR-missing1"); err == nil {
		t.Error("deactivate of unknown user succeeded")
	}

	if err := call(h.DeleteUser, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if dir.Count() != 2 {
		t.Errorf("count after delete = %d, want 2", dir.Count())
	}
}
