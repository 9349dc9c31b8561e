package identity

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hg360/hg360/internal/platform/auth"
	"github.com/hg360/hg360/pkg/pagination"
)

// Handler serves the authentication endpoints and user administration. The
// OnLogin and OnLogout hooks let the session layer track the current user
// without this package depending on it.
type Handler struct {
	users    *UserDirectory
	issuer   *auth.Issuer
	OnLogin  func(*User)
	OnLogout func()
}

func NewHandler(users *UserDirectory, issuer *auth.Issuer) *Handler {
	return &Handler{users: users, issuer: issuer}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", h.Me)
	api.POST("/auth/change-password", h.ChangePassword)

	// Account administration – system and hospital administrators only
	adm := api.Group("/users", auth.RequireRole(auth.RoleSystemAdmin, auth.RoleHospitalAdmin))
	adm.GET("", h.ListUsers)
	adm.POST("", h.CreateUser)
	adm.GET("/:id", h.GetUser)
	adm.POST("/:id/activate", h.ActivateUser)
	adm.POST("/:id/deactivate", h.DeactivateUser)
	adm.DELETE("/:id", h.DeleteUser)
}

// userResponse is the API view of an account. The password hash never leaves
// the server.
type userResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Role        Role       `json:"role"`
	RoleName    string     `json:"role_name"`
	Person      Person     `json:"person"`
	PatientID   string     `json:"patient_id,omitempty"`
	Active      bool       `json:"active"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedDate time.Time  `json:"created_date"`
}

func toUserResponse(u *User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		RoleName:    u.Role.DisplayName(),
		Person:      u.Person,
		PatientID:   u.PatientID,
		Active:      u.Active,
		LastLogin:   u.LastLogin,
		CreatedDate: u.CreatedDate,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}
	u := h.users.Authenticate(req.Username, req.Password)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	token, err := h.issuer.Issue(u.ID, u.Username, string(u.Role))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue session token")
	}
	if h.OnLogin != nil {
		h.OnLogin(u)
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: toUserResponse(u)})
}

func (h *Handler) Logout(c echo.Context) error {
	if h.OnLogout != nil {
		h.OnLogout()
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Me(c echo.Context) error {
	u, err := h.users.FindByID(auth.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err := h.users.ChangePassword(auth.UserID(c), req.CurrentPassword, req.NewPassword)
	switch err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case ErrNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	case ErrBadCredentials:
		return echo.NewHTTPError(http.StatusUnauthorized, "current password does not match")
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

type createUserRequest struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	Role        Role    `json:"role"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	Gender      string  `json:"gender"`
	DateOfBirth string  `json:"date_of_birth"`
	Address     Address `json:"address"`
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.FirstName == "" || req.LastName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "first_name and last_name are required")
	}
	if !req.Role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
	}
	var dob time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
		}
		dob = parsed
	}
	person := NewPerson(req.FirstName, req.LastName, dob, req.Gender, req.Email, req.PhoneNumber)
	person.Address = req.Address
	u, err := h.users.Create(req.Username, req.Password, req.Role, person)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

func (h *Handler) GetUser(c echo.Context) error {
	u, err := h.users.FindByID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *Handler) ListUsers(c echo.Context) error {
	pg := pagination.FromContext(c)

	var items []*User
	switch {
	case c.QueryParam("role") != "":
		role := Role(c.QueryParam("role"))
		if !role.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
		}
		items = h.users.ByRole(role)
	case c.QueryParam("active") == "true":
		items = h.users.ActiveUsers()
	case c.QueryParam("active") == "false":
		items = h.users.InactiveUsers()
	default:
		items = h.users.All()
	}

	views := make([]userResponse, len(items))
	for i, u := range items {
		views[i] = toUserResponse(u)
	}
	page, total := pagination.Page(views, pg)
	return c.JSON(http.StatusOK, pagination.NewResponse(page, total, pg.Limit, pg.Offset))
}

func (h *Handler) ActivateUser(c echo.Context) error {
	if !h.users.ActivateUser(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeactivateUser(c echo.Context) error {
	if !h.users.DeactivateUser(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	if !h.users.Remove(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.NoContent(http.StatusNoContent)
}
