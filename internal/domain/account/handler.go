package account

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/identity"
	"github.com/clinicdesk/clinicdesk/internal/session"
)

// Handler exposes the login and register screens' operations. Validation
// runs before submission; gateway errors map to the friendly-message tables.
type Handler struct {
	gw       *Gateway
	sessions *session.Store
}

func NewHandler(gw *Gateway, sessions *session.Store) *Handler {
	return &Handler{gw: gw, sessions: sessions}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
	api.GET("/session", h.Session)
}

func (h *Handler) Register(c echo.Context) error {
	var reg Registration
	if err := c.Bind(&reg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if fieldErrs := ValidateRegistration(reg); len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": fieldErrs})
	}

	id, err := h.gw.SignUp(c.Request().Context(), reg.Email, reg.Password, reg)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": FriendlySignUpMessage(err)})
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"id":      id.ID,
		"email":   id.Email,
		"message": "Registration successful!",
	})
}

func (h *Handler) Login(c echo.Context) error {
	var creds Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if fieldErrs := ValidateCredentials(creds); len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": fieldErrs})
	}

	id, err := h.gw.SignIn(c.Request().Context(), creds.Email, creds.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": FriendlySignInMessage(err)})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"id":    id.ID,
		"email": id.Email,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	id := identity.FromContext(c)
	if id == nil {
		id = h.sessions.Identity()
	}
	if id == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}

	if err := h.gw.SignOut(c.Request().Context(), id.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "sign out failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Session reports the session store's current identity, role, and loading
// flag for the client shell.
func (h *Handler) Session(c echo.Context) error {
	resp := map[string]interface{}{
		"identity": h.sessions.Identity(),
		"loading":  h.sessions.Loading(),
	}
	if role := h.sessions.Role(); role != "" {
		resp["role"] = role
	} else {
		resp["role"] = nil
	}
	return c.JSON(http.StatusOK, resp)
}
