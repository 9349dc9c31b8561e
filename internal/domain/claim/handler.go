package claim

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hg360/hg360/internal/platform/auth"
	"github.com/hg360/hg360/internal/platform/docparse"
	"github.com/hg360/hg360/pkg/pagination"
)

type Handler struct {
	dir *Directory
}

func NewHandler(dir *Directory) *Handler {
	return &Handler{dir: dir}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/claims", h.ListClaims)
	api.GET("/claims/stats", h.Stats)
	api.GET("/claims/:number", h.GetClaim)
	api.POST("/claims", h.CreateClaim)
	api.POST("/claims/:number/withdraw", h.WithdrawClaim)
	api.POST("/claims/:number/documents", h.AddDocument)
	api.POST("/claims/parse-document", h.ParseDocument)

	// Processing actions – claims staff only
	proc := api.Group("", auth.RequireRole(auth.RoleSystemAdmin, auth.RoleInsuranceAdmin, auth.RoleClaimsProcessor))
	proc.POST("/claims/:number/review", h.ReviewClaim)
	proc.POST("/claims/:number/approve", h.ApproveClaim)
	proc.POST("/claims/:number/deny", h.DenyClaim)
	proc.POST("/claims/:number/pay", h.PayClaim)
	proc.DELETE("/claims/:number", h.DeleteClaim)
}

type createClaimRequest struct {
	PolicyNumber string      `json:"policy_number"`
	PatientID    string      `json:"patient_id"`
	ServiceDate  time.Time   `json:"service_date"`
	ProviderName string      `json:"provider_name"`
	Diagnosis    string      `json:"diagnosis"`
	ServiceType  ServiceType `json:"service_type"`
	Amount       float64     `json:"amount"`
}

func (h *Handler) CreateClaim(c echo.Context) error {
	var req createClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PolicyNumber == "" || req.PatientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "policy_number and patient_id are required")
	}
	if !req.ServiceType.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid service_type")
	}
	if req.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be positive")
	}
	cl := h.dir.Create(req.PolicyNumber, req.PatientID, req.ServiceDate, req.ProviderName, req.Diagnosis, req.ServiceType, req.Amount)
	return c.JSON(http.StatusCreated, cl)
}

func (h *Handler) GetClaim(c echo.Context) error {
	cl, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) ListClaims(c echo.Context) error {
	pg := pagination.FromContext(c)

	var items []*Claim
	switch {
	case c.QueryParam("patient_id") != "" && c.QueryParam("status") != "":
		items = h.dir.ByPatientAndStatus(c.QueryParam("patient_id"), Status(c.QueryParam("status")))
	case c.QueryParam("patient_id") != "":
		items = h.dir.ByPatient(c.QueryParam("patient_id"))
	case c.QueryParam("policy_number") != "":
		items = h.dir.ByPolicy(c.QueryParam("policy_number"))
	case c.QueryParam("status") == "pending":
		items = h.dir.Pending()
	case c.QueryParam("status") != "":
		status := Status(c.QueryParam("status"))
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		items = h.dir.ByStatus(status)
	default:
		items = h.dir.All()
	}

	page, total := pagination.Page(items, pg)
	return c.JSON(http.StatusOK, pagination.NewResponse(page, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeleteClaim(c echo.Context) error {
	if !h.dir.Remove(c.Param("number")) {
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	}
	return c.NoContent(http.StatusNoContent)
}

type reviewRequest struct {
	ProcessorID string `json:"processor_id"`
}

func (h *Handler) ReviewClaim(c echo.Context) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cl, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	}
	if !h.dir.MoveToUnderReview(cl.Number, req.ProcessorID) {
		return echo.NewHTTPError(http.StatusConflict, "claim cannot be reviewed in its current state")
	}
	return c.JSON(http.StatusOK, cl)
}

type approveRequest struct {
	ApprovedAmount float64 `json:"approved_amount"`
	ProcessorID    string  `json:"processor_id"`
	Notes          string  `json:"notes"`
}

func (h *Handler) ApproveClaim(c echo.Context) error {
	var req approveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ApprovedAmount < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "approved_amount must be non-negative")
	}
	cl, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	}
	if !h.dir.ApproveClaim(cl.Number, req.ApprovedAmount, req.ProcessorID, req.Notes) {
		return echo.NewHTTPError(http.StatusConflict, "claim cannot be approved in its current state")
	}
	return c.JSON(http.StatusOK, cl)
}

type denyRequest struct {
	ProcessorID string `json:"processor_id"`
	Reason      string `json:"reason"`
}

func (h *Handler) DenyClaim(c echo.Context) error {
	var req denyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cl, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	}
	if !h.dir.DenyClaim(cl.Number, req.ProcessorID, req.Reason) {
		return echo.NewHTTPError(http.StatusConflict, "claim cannot be denied in its current state")
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) PayClaim(c echo.Context) error {
	cl, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	}
	if !h.dir.MarkPaid(cl.Number) {
		return echo.NewHTTPError(http.StatusConflict, "only approved claims can be paid")
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) WithdrawClaim(c echo.Context) error {
	cl, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	}
	if !h.dir.WithdrawClaim(cl.Number) {
		return echo.NewHTTPError(http.StatusConflict, "claim cannot be withdrawn once processed")
	}
	return c.JSON(http.StatusOK, cl)
}

type documentRequest struct {
	Path string `json:"path"`
}

func (h *Handler) AddDocument(c echo.Context) error {
	var req documentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}
	cl, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	}
	cl.AddDocument(req.Path)
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) Stats(c echo.Context) error {
	stats := map[string]interface{}{
		"total":                 h.dir.Count(),
		"submitted":             h.dir.CountByStatus(StatusSubmitted),
		"under_review":          h.dir.CountByStatus(StatusUnderReview),
		"approved":              h.dir.CountByStatus(StatusApproved),
		"denied":                h.dir.CountByStatus(StatusDenied),
		"paid":                  h.dir.CountByStatus(StatusPaid),
		"withdrawn":             h.dir.CountByStatus(StatusWithdrawn),
		"total_approved_amount": h.dir.TotalApprovedAmount(),
	}
	return c.JSON(http.StatusOK, stats)
}

// ParseDocument scrapes a plain-text claim document ("Label: value" lines)
// and returns the recognized fields. Best effort: malformed values are
// dropped, never an error.
func (h *Handler) ParseDocument(c echo.Context) error {
	fields := docparse.Parse(c.Request().Body)
	return c.JSON(http.StatusOK, fields)
}
