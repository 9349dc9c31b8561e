package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hg360/hg360/internal/domain/claim"
	"github.com/hg360/hg360/internal/platform/auth"
	"github.com/hg360/hg360/internal/platform/persist"
)

// Handler serves the patient portal and the state administration endpoints.
type Handler struct {
	sess     *Session
	dataFile string
}

// NewHandler wires the portal over a session. dataFile is where the state
// snapshot lives.
func NewHandler(sess *Session, dataFile string) *Handler {
	return &Handler{sess: sess, dataFile: dataFile}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/register", h.Register)

	me := api.Group("/me", auth.RequireRole(auth.RolePatient))
	me.GET("/profile", h.MyProfile)
	me.GET("/claims", h.MyClaims)
	me.POST("/claims", h.SubmitClaim)
	me.GET("/policies", h.MyPolicies)
	me.GET("/policies/active", h.MyActivePolicies)
	me.GET("/prescriptions", h.MyPrescriptions)
	me.GET("/summary", h.MySummary)

	st := api.Group("/admin/state", auth.RequireRole(auth.RoleSystemAdmin))
	st.GET("", h.StateInfo)
	st.POST("/save", h.SaveState)
	st.POST("/load", h.LoadState)
	st.POST("/reset", h.ResetState)
	st.POST("/reconcile", h.Reconcile)
}

// callerPatientID resolves the caller's patient id from the verified token
// subject. The session's current-user slot is never consulted here: requests
// run concurrently and each one must see its own caller.
func (h *Handler) callerPatientID(c echo.Context) (string, error) {
	u, err := h.sess.Users.FindByID(auth.UserID(c))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
	}
	if u.PatientID == "" {
		return "", echo.NewHTTPError(http.StatusForbidden, "account has no patient record")
	}
	return u.PatientID, nil
}

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type registerResponse struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	PatientID string `json:"patient_id"`
}

// Register creates a patient record plus its login account.
func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.FirstName == "" || req.LastName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "first_name and last_name are required")
	}
	var dob time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
		}
		dob = parsed
	}
	u, patient, err := h.sess.RegisterPatientUser(req.Username, req.Password, req.FirstName, req.LastName, dob, req.Gender, req.Email, req.PhoneNumber)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, registerResponse{UserID: u.ID, Username: u.Username, PatientID: patient.ID})
}

// MyProfile returns the caller's patient record.
func (h *Handler) MyProfile(c echo.Context) error {
	pid, err := h.callerPatientID(c)
	if err != nil {
		return err
	}
	patient, err := h.sess.Patients.FindByID(pid)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient record not found")
	}
	return c.JSON(http.StatusOK, patient)
}

func (h *Handler) MyClaims(c echo.Context) error {
	pid, err := h.callerPatientID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.sess.PatientClaims(pid))
}

type submitClaimRequest struct {
	PolicyNumber string            `json:"policy_number"`
	ServiceDate  time.Time         `json:"service_date"`
	ProviderName string            `json:"provider_name"`
	Diagnosis    string            `json:"diagnosis"`
	ServiceType  claim.ServiceType `json:"service_type"`
	Amount       float64           `json:"amount"`
}

func (h *Handler) SubmitClaim(c echo.Context) error {
	pid, err := h.callerPatientID(c)
	if err != nil {
		return err
	}
	var req submitClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PolicyNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "policy_number is required")
	}
	if !req.ServiceType.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid service type")
	}
	if req.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be positive")
	}
	cl, err := h.sess.SubmitClaimFor(pid, req.PolicyNumber, req.ServiceDate, req.ProviderName, req.Diagnosis, req.ServiceType, req.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, cl)
}

func (h *Handler) MyPolicies(c echo.Context) error {
	pid, err := h.callerPatientID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.sess.PatientPolicies(pid))
}

func (h *Handler) MyActivePolicies(c echo.Context) error {
	pid, err := h.callerPatientID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.sess.PatientActivePolicies(pid))
}

func (h *Handler) MyPrescriptions(c echo.Context) error {
	pid, err := h.callerPatientID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.sess.PatientPrescriptions(pid))
}

func (h *Handler) MySummary(c echo.Context) error {
	pid, err := h.callerPatientID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.sess.PatientSummary(pid))
}

type stateInfo struct {
	DataFile      string `json:"data_file"`
	Saved         bool   `json:"saved"`
	SizeBytes     int64  `json:"size_bytes"`
	Claims        int    `json:"claims"`
	Policies      int    `json:"policies"`
	Prescriptions int    `json:"prescriptions"`
	Patients      int    `json:"patients"`
	Users         int    `json:"users"`
	Enterprises   int    `json:"enterprises"`
	Organizations int    `json:"organizations"`
}

func (h *Handler) StateInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, stateInfo{
		DataFile:      h.dataFile,
		Saved:         persist.Exists(h.dataFile),
		SizeBytes:     persist.Size(h.dataFile),
		Claims:        h.sess.Claims.Count(),
		Policies:      h.sess.Policies.Count(),
		Prescriptions: h.sess.Prescriptions.Count(),
		Patients:      h.sess.Patients.Count(),
		Users:         h.sess.Users.Count(),
		Enterprises:   h.sess.Enterprises.Count(),
		Organizations: h.sess.Organizations.Count(),
	})
}

func (h *Handler) SaveState(c echo.Context) error {
	if err := h.sess.Save(h.dataFile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) LoadState(c echo.Context) error {
	err := h.sess.Load(h.dataFile)
	if errors.Is(err, persist.ErrNoData) {
		return echo.NewHTTPError(http.StatusNotFound, "no saved data")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ResetState(c echo.Context) error {
	h.sess.Reset()
	return c.NoContent(http.StatusNoContent)
}

type reconcileResult struct {
	PoliciesExpired      int `json:"policies_expired"`
	PrescriptionsExpired int `json:"prescriptions_expired"`
}

func (h *Handler) Reconcile(c echo.Context) error {
	policies, prescriptions := h.sess.ReconcileExpirations()
	return c.JSON(http.StatusOK, reconcileResult{PoliciesExpired: policies, PrescriptionsExpired: prescriptions})
}
