package history

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/identity"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/medical-history", h.GetHistory)
	api.POST("/medical-history/documents", h.AddDocuments)
	api.DELETE("/medical-history/documents/:id", h.RemoveDocument)
	api.POST("/medical-history/documents/save", h.SaveDocuments)
}

func (h *Handler) GetHistory(c echo.Context) error {
	id := identity.FromContext(c)
	if id == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}

	hist, err := h.svc.Load(c.Request().Context(), id.ID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"message": "Failed to load medical history"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"appointments": hist.Appointments,
		"diagnoses":    hist.Diagnoses,
		"treatments":   hist.Treatments,
		"documents":    h.svc.Files(id.ID),
	})
}

func (h *Handler) AddDocuments(c echo.Context) error {
	id := identity.FromContext(c)
	if id == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}

	var req struct {
		Files []FilePick `json:"files"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	added := h.svc.AddFiles(id.ID, req.Files)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"added":     added,
		"documents": h.svc.Files(id.ID),
	})
}

func (h *Handler) RemoveDocument(c echo.Context) error {
	id := identity.FromContext(c)
	if id == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}

	if !h.svc.RemoveFile(id.ID, c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "document not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SaveDocuments(c echo.Context) error {
	id := identity.FromContext(c)
	if id == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}

	saved := h.svc.SaveFiles(id.ID)
	return c.JSON(http.StatusOK, map[string]interface{}{"saved": saved})
}
