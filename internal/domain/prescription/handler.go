package prescription

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hg360/hg360/internal/platform/auth"
	"github.com/hg360/hg360/pkg/pagination"
)

type Handler struct {
	dir     *Directory
	catalog *Catalog
}

func NewHandler(dir *Directory, catalog *Catalog) *Handler {
	return &Handler{dir: dir, catalog: catalog}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/prescriptions", h.ListPrescriptions)
	api.GET("/prescriptions/refill-queue", h.RefillQueue)
	api.GET("/prescriptions/expiring-soon", h.ExpiringSoon)
	api.GET("/prescriptions/:number", h.GetPrescription)
	api.GET("/medications", h.ListMedications)
	api.GET("/medications/:id", h.GetMedication)

	// Prescribing and dispensing – clinical and pharmacy staff
	rx := api.Group("", auth.RequireRole(
		auth.RoleSystemAdmin, auth.RoleDoctor,
		auth.RolePharmacyAdmin, auth.RolePharmacist, auth.RolePharmacyTechnician))
	rx.POST("/prescriptions", h.CreatePrescription)
	rx.POST("/prescriptions/:number/refill", h.ProcessRefill)
	rx.POST("/prescriptions/:number/cancel", h.CancelPrescription)
	rx.POST("/prescriptions/reconcile-expirations", h.ReconcileExpirations)
	rx.DELETE("/prescriptions/:number", h.DeletePrescription)
}

type createPrescriptionRequest struct {
	PatientID         string `json:"patient_id"`
	DoctorID          string `json:"doctor_id"`
	MedicationID      string `json:"medication_id"`
	Dosage            string `json:"dosage"`
	Quantity          int    `json:"quantity"`
	RefillsAuthorized int    `json:"refills_authorized"`
	Instructions      string `json:"instructions"`
	PharmacyID        string `json:"pharmacy_id"`
	PolicyNumber      string `json:"policy_number"`
}

func (h *Handler) CreatePrescription(c echo.Context) error {
	var req createPrescriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID == "" || req.MedicationID == "" || req.Dosage == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id, medication_id and dosage are required")
	}
	if req.Quantity <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be positive")
	}
	if req.RefillsAuthorized < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "refills_authorized must be non-negative")
	}
	if _, err := h.catalog.FindByID(req.MedicationID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown medication id")
	}
	p := h.dir.Create(req.PatientID, req.DoctorID, req.MedicationID, req.Dosage, req.Quantity, req.RefillsAuthorized, req.Instructions, req.PharmacyID, req.PolicyNumber)
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPrescription(c echo.Context) error {
	p, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPrescriptions(c echo.Context) error {
	pg := pagination.FromContext(c)

	var items []*Prescription
	switch {
	case c.QueryParam("patient_id") != "" && c.QueryParam("active") == "true":
		items = h.dir.ActiveByPatient(c.QueryParam("patient_id"))
	case c.QueryParam("patient_id") != "":
		items = h.dir.ByPatient(c.QueryParam("patient_id"))
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

func (h *Handler) DeletePrescription(c echo.Context) error {
	if !h.dir.Remove(c.Param("number")) {
		return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ProcessRefill(c echo.Context) error {
	p, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
	}
	if !h.dir.ProcessRefill(p.Number) {
		return echo.NewHTTPError(http.StatusConflict, "prescription cannot be refilled")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CancelPrescription(c echo.Context) error {
	p, err := h.dir.FindByNumber(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
	}
	h.dir.CancelPrescription(p.Number)
	return c.JSON(http.StatusOK, p)
}

// RefillQueue lists a patient's prescriptions running low on refills.
func (h *Handler) RefillQueue(c echo.Context) error {
	patientID := c.QueryParam("patient_id")
	if patientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	return c.JSON(http.StatusOK, h.dir.ReadyForRefill(patientID))
}

func (h *Handler) ExpiringSoon(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dir.ExpiringSoon())
}

func (h *Handler) ListMedications(c echo.Context) error {
	if cat := c.QueryParam("category"); cat != "" {
		return c.JSON(http.StatusOK, h.catalog.ByCategory(Category(cat)))
	}
	return c.JSON(http.StatusOK, h.catalog.All())
}

func (h *Handler) GetMedication(c echo.Context) error {
	m, err := h.catalog.FindByID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ReconcileExpirations(c echo.Context) error {
	expired := h.dir.ReconcileExpirations()
	return c.JSON(http.StatusOK, map[string]int{"expired": expired})
}
