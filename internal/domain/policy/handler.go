package policy

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hg360/hg360/internal/platform/auth"
	"github.com/hg360/hg360/pkg/pagination"
)

// DocumentRenderer produces a printable policy document. Wired in main to
// the report package; kept as a func type here to keep rendering out of the
// domain package.
type DocumentRenderer func(p *Policy) []byte

type Handler struct {
	dir       *Directory
	renderDoc DocumentRenderer
}

func NewHandler(dir *Directory, renderDoc DocumentRenderer) *Handler {
	return &Handler{dir: dir, renderDoc: renderDoc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/policies", h.ListPolicies)
	api.GET("/policies/stats", h.Stats)
	api.GET("/policies/expiring-soon", h.ExpiringSoon)
	api.GET("/policies/:number", h.GetPolicy)
	api.GET("/policies/:number/document", h.PolicyDocument)

	// Underwriting actions – insurance staff only
	uw := api.Group("", auth.RequireRole(auth.RoleSystemAdmin, auth.RoleInsuranceAdmin, auth.RoleUnderwriter))
	uw.POST("/policies", h.CreatePolicy)
	uw.POST("/policies/:number/renew", h.RenewPolicy)
	uw.POST("/policies/:number/cancel", h.CancelPolicy)
	uw.POST("/policies/:number/suspend", h.SuspendPolicy)
	uw.POST("/policies/:number/activate", h.ActivatePolicy)
	uw.POST("/policies/:number/beneficiaries", h.AddBeneficiary)
	uw.POST("/policies/reconcile-expirations", h.ReconcileExpirations)
	uw.DELETE("/policies/:number", h.DeletePolicy)
}

type createPolicyRequest struct {
	PatientID           string    `json:"patient_id"`
	Type                Type      `json:"type"`
	CoverageAmount      float64   `json:"coverage_amount"`
	Deductible          float64   `json:"deductible"`
	Copayment           float64   `json:"copayment"`
	MonthlyPremium      float64   `json:"monthly_premium"`
	InsuranceProviderID string    `json:"insurance_provider_id"`
	StartDate           time.Time `json:"start_date"`
	DurationYears       int       `json:"duration_years"`
}

func (h *Handler) CreatePolicy(c echo.Context) error {
	var req createPolicyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	if !req.Type.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid policy type")
	}
	if req.CoverageAmount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "coverage_amount must be positive")
	}
	if req.Deductible < 0 || req.Copayment < 0 || req.MonthlyPremium < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amounts must be non-negative")
	}
	if req.DurationYears <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "duration_years must be positive")
	}
	if req.StartDate.IsZero() {
		req.StartDate = today()
	}
	p := h.dir.Create(req.PatientID, req.Type, req.CoverageAmount, req.Deductible, req.Copayment, req.MonthlyPremium, req.InsuranceProviderID, req.StartDate, req.DurationYears)
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPolicy(c echo.Context) error {
	p, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "policy not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPolicies(c echo.Context) error {
	pg := pagination.FromContext(c)

	var items []*Policy
	switch {
	case c.QueryParam("patient_id") != "" && c.QueryParam("active") == "true":
		items = h.dir.ActiveByPatient(c.QueryParam("patient_id"))
	case c.QueryParam("patient_id") != "":
		items = h.dir.ByPatient(c.QueryParam("patient_id"))
	case c.QueryParam("search") != "":
		items = h.dir.SearchByNumber(c.QueryParam("search"))
	case c.QueryParam("status") != "":
		status := Status(c.QueryParam("status"))
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		items = h.dir.ByStatus(status)
	case c.QueryParam("type") != "":
		policyType := Type(c.QueryParam("type"))
		if !policyType.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid type")
		}
		items = h.dir.ByType(policyType)
	case c.QueryParam("active") == "true":
		items = h.dir.AllActive()
	default:
		items = h.dir.All()
	}

	page, total := pagination.Page(items, pg)
	return c.JSON(http.StatusOK, pagination.NewResponse(page, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeletePolicy(c echo.Context) error {
	if !h.dir.Remove(c.Param("number")) {
		return echo.NewHTTPError(http.StatusNotFound, "policy not found")
	}
	return c.NoContent(http.StatusNoContent)
}

type renewRequest struct {
	Years int `json:"years"`
}

func (h *Handler) RenewPolicy(c echo.Context) error {
	var req renewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Years <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "years must be positive")
	}
	p, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "policy not found")
	}
	h.dir.RenewPolicy(p.Number, req.Years)
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CancelPolicy(c echo.Context) error {
	p, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "policy not found")
	}
	h.dir.CancelPolicy(p.Number)
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) SuspendPolicy(c echo.Context) error {
	p, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "policy not found")
	}
	h.dir.SuspendPolicy(p.Number)
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ActivatePolicy(c echo.Context) error {
	p, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "policy not found")
	}
	if !h.dir.ActivatePolicy(p.Number) {
		return echo.NewHTTPError(http.StatusConflict, "an expired policy must be renewed before activation")
	}
	return c.JSON(http.StatusOK, p)
}

type beneficiaryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) AddBeneficiary(c echo.Context) error {
	var req beneficiaryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	p, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "policy not found")
	}
	p.AddBeneficiary(req.Name)
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ExpiringSoon(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dir.ExpiringSoon())
}

func (h *Handler) ReconcileExpirations(c echo.Context) error {
	expired := h.dir.ReconcileExpirations()
	return c.JSON(http.StatusOK, map[string]int{"expired": expired})
}

func (h *Handler) Stats(c echo.Context) error {
	stats := map[string]interface{}{
		"total":                   h.dir.Count(),
		"active":                  h.dir.ActiveCount(),
		"expired":                 len(h.dir.AllExpired()),
		"monthly_premium_revenue": h.dir.TotalMonthlyPremiumRevenue(),
		"annual_premium_revenue":  h.dir.TotalAnnualPremiumRevenue(),
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) PolicyDocument(c echo.Context) error {
	p, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "policy not found")
	}
	if h.renderDoc == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "document generation is not configured")
	}
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", h.renderDoc(p))
}
