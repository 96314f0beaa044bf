// Package home serves the home screen's static content and its two
// navigation actions. No business logic lives here.
package home

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type service struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type action struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var services = []service{
	{Title: "General Consultation", Description: "Comprehensive health checkups and consultations"},
	{Title: "Cardiology", Description: "Heart health and cardiovascular care"},
	{Title: "Pharmacy", Description: "Prescription medications and health products"},
	{Title: "First Aid", Description: "Emergency medical care and treatment"},
}

var actions = []action{
	{Label: "Book Appointment", Path: "/api/v1/appointments"},
	{Label: "Medical History", Path: "/api/v1/medical-history"},
}

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/home", h.Home)
}

func (h *Handler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"title":    "Your Health, Our Priority",
		"subtitle": "Welcome to Dr. Bennett's Clinic, where we provide personalized healthcare. Book your appointment and take the first step towards a healthier you.",
		"doctor":   "Dr. Bennett",
		"services": services,
		"actions":  actions,
	})
}
