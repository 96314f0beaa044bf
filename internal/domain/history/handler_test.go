package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/platform/identity"
)

func newHandlerFixture(data PatientData) (*Handler, *echo.Echo) {
	return NewHandler(NewService(data, zerolog.Nop())), echo.New()
}

func authedContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	identity.SetContext(c, &identity.Identity{ID: "p1", Email: "sara@example.com"})
	return c, rec
}

func TestHandler_GetHistory(t *testing.T) {
	data := &fakeData{
		appointments: []patient.Appointment{{ID: "a1"}},
		diagnoses:    []patient.Diagnosis{{ID: "d1"}},
		treatments:   map[string][]patient.Treatment{"d1": {{ID: "t1"}}},
	}
	h, e := newHandlerFixture(data)

	c, rec := authedContext(e, http.MethodGet, "/api/v1/medical-history", "")
	if err := h.GetHistory(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]json.RawMessage
	json.Unmarshal(rec.Body.Bytes(), &resp)
	for _, key := range []string{"appointments", "diagnoses", "treatments", "documents"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("expected %q in response", key)
		}
	}
}

func TestHandler_GetHistory_LoadFailure(t *testing.T) {
	h, e := newHandlerFixture(&fakeData{apptErr: errors.New("backend down")})

	c, rec := authedContext(e, http.MethodGet, "/api/v1/medical-history", "")
	if err := h.GetHistory(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["message"] != "Failed to load medical history" {
		t.Errorf("unexpected message: %q", resp["message"])
	}
}

func TestHandler_GetHistory_Unauthenticated(t *testing.T) {
	h, e := newHandlerFixture(&fakeData{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medical-history", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.GetHistory(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestHandler_AddAndRemoveDocuments(t *testing.T) {
	h, e := newHandlerFixture(&fakeData{})

	body := `{"files":[{"name":"scan.pdf","size":2048,"mimeType":"application/pdf","uri":"file:///scan.pdf"}]}`
	c, rec := authedContext(e, http.MethodPost, "/api/v1/medical-history/documents", body)
	if err := h.AddDocuments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Added     []UploadedFile `json:"added"`
		Documents []UploadedFile `json:"documents"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Added) != 1 || len(resp.Documents) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	c, rec = authedContext(e, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(resp.Added[0].ID)
	if err := h.RemoveDocument(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_RemoveDocument_NotFound(t *testing.T) {
	h, e := newHandlerFixture(&fakeData{})

	c, _ := authedContext(e, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.RemoveDocument(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_SaveDocuments(t *testing.T) {
	h, e := newHandlerFixture(&fakeData{})

	h.svc.AddFiles("p1", []FilePick{{Name: "a.pdf"}, {Name: "b.pdf"}})

	c, rec := authedContext(e, http.MethodPost, "/api/v1/medical-history/documents/save", "")
	if err := h.SaveDocuments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp map[string]int
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["saved"] != 2 {
		t.Errorf("expected saved 2, got %d", resp["saved"])
	}
}
