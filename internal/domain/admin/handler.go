package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hg360/hg360/internal/platform/auth"
	"github.com/hg360/hg360/pkg/pagination"
)

type Handler struct {
	enterprises *EnterpriseDirectory
	orgs        *OrganizationDirectory
}

func NewHandler(enterprises *EnterpriseDirectory, orgs *OrganizationDirectory) *Handler {
	return &Handler{enterprises: enterprises, orgs: orgs}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/enterprises", h.ListEnterprises)
	api.GET("/enterprises/:id", h.GetEnterprise)
	api.GET("/enterprises/:id/organizations", h.ListEnterpriseOrganizations)
	api.GET("/organizations", h.ListOrganizations)
	api.GET("/organizations/:id", h.GetOrganization)

	// Structure changes – administrators only
	adm := api.Group("", auth.RequireRole(auth.RoleSystemAdmin, auth.RoleHospitalAdmin, auth.RoleInsuranceAdmin, auth.RolePharmacyAdmin, auth.RoleSupplierAdmin))
	adm.POST("/enterprises", h.CreateEnterprise)
	adm.PUT("/enterprises/:id/name", h.RenameEnterprise)
	adm.POST("/enterprises/:id/activate", h.ActivateEnterprise)
	adm.POST("/enterprises/:id/deactivate", h.DeactivateEnterprise)
	adm.DELETE("/enterprises/:id", h.DeleteEnterprise)
	adm.POST("/organizations", h.CreateOrganization)
	adm.POST("/organizations/:id/employees", h.AddOrganizationEmployee)
	adm.DELETE("/organizations/:id/employees/:employeeId", h.RemoveOrganizationEmployee)
	adm.DELETE("/organizations/:id", h.DeleteOrganization)
}

type createEnterpriseRequest struct {
	Name string         `json:"name"`
	Type EnterpriseType `json:"type"`
}

func (h *Handler) CreateEnterprise(c echo.Context) error {
	var req createEnterpriseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if !req.Type.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid enterprise type")
	}
	if h.enterprises.NameExists(req.Name) {
		return echo.NewHTTPError(http.StatusConflict, "an enterprise with that name already exists")
	}
	e := h.enterprises.Create(req.Name, req.Type)
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetEnterprise(c echo.Context) error {
	e, err := h.enterprises.FindByID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "enterprise not found")
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ListEnterprises(c echo.Context) error {
	pg := pagination.FromContext(c)

	var items []*Enterprise
	switch {
	case c.QueryParam("search") != "":
		items = h.enterprises.SearchByName(c.QueryParam("search"))
	case c.QueryParam("type") != "":
		t := EnterpriseType(c.QueryParam("type"))
		if !t.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid type")
		}
		items = h.enterprises.ByType(t)
	case c.QueryParam("active") == "true":
		items = h.enterprises.Active()
	default:
		items = h.enterprises.All()
	}

	page, total := pagination.Page(items, pg)
	return c.JSON(http.StatusOK, pagination.NewResponse(page, total, pg.Limit, pg.Offset))
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) RenameEnterprise(c echo.Context) error {
	var req renameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	e, err := h.enterprises.FindByID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "enterprise not found")
	}
	h.enterprises.Rename(e.ID, req.Name)
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ActivateEnterprise(c echo.Context) error {
	if !h.enterprises.Activate(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "enterprise not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeactivateEnterprise(c echo.Context) error {
	if !h.enterprises.Deactivate(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "enterprise not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteEnterprise(c echo.Context) error {
	e, err := h.enterprises.FindByID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "enterprise not found")
	}
	if e.HasOrganizations() {
		return echo.NewHTTPError(http.StatusConflict, "enterprise still has organizations")
	}
	h.enterprises.Remove(e.ID)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListEnterpriseOrganizations(c echo.Context) error {
	if _, err := h.enterprises.FindByID(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "enterprise not found")
	}
	return c.JSON(http.StatusOK, h.orgs.ByEnterprise(c.Param("id")))
}

type createOrganizationRequest struct {
	Name         string           `json:"name"`
	Type         OrganizationType `json:"type"`
	EnterpriseID string           `json:"enterprise_id"`
}

// CreateOrganization registers the organization and links it into its parent
// enterprise.
func (h *Handler) CreateOrganization(c echo.Context) error {
	var req createOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.EnterpriseID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and enterprise_id are required")
	}
	if !req.Type.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organization type")
	}
	parent, err := h.enterprises.FindByID(req.EnterpriseID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "enterprise not found")
	}
	if h.orgs.NameExistsInEnterprise(req.Name, req.EnterpriseID) {
		return echo.NewHTTPError(http.StatusConflict, "the enterprise already has an organization with that name")
	}
	o := h.orgs.Create(req.Name, req.Type, req.EnterpriseID)
	parent.AddOrganization(o.ID)
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) GetOrganization(c echo.Context) error {
	o, err := h.orgs.FindByID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "organization not found")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) ListOrganizations(c echo.Context) error {
	pg := pagination.FromContext(c)

	var items []*Organization
	switch {
	case c.QueryParam("enterprise_id") != "":
		items = h.orgs.ByEnterprise(c.QueryParam("enterprise_id"))
	case c.QueryParam("type") != "":
		t := OrganizationType(c.QueryParam("type"))
		if !t.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid type")
		}
		items = h.orgs.ByType(t)
	case c.QueryParam("search") != "":
		items = h.orgs.SearchByName(c.QueryParam("search"))
	default:
		items = h.orgs.All()
	}

	page, total := pagination.Page(items, pg)
	return c.JSON(http.StatusOK, pagination.NewResponse(page, total, pg.Limit, pg.Offset))
}

type employeeRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (h *Handler) AddOrganizationEmployee(c echo.Context) error {
	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.EmployeeID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "employee_id is required")
	}
	if !h.orgs.AddEmployee(c.Param("id"), req.EmployeeID) {
		return echo.NewHTTPError(http.StatusNotFound, "organization not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RemoveOrganizationEmployee(c echo.Context) error {
	if _, err := h.orgs.FindByID(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "organization not found")
	}
	if !h.orgs.RemoveEmployee(c.Param("id"), c.Param("employeeId")) {
		return echo.NewHTTPError(http.StatusNotFound, "employee not linked to organization")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteOrganization(c echo.Context) error {
	o, err := h.orgs.FindByID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "organization not found")
	}
	if parent, err := h.enterprises.FindByID(o.EnterpriseID); err == nil {
		parent.RemoveOrganization(o.ID)
	}
	h.orgs.Remove(o.ID)
	return c.NoContent(http.StatusNoContent)
}
