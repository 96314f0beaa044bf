package history

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
)

type fakeData struct {
	appointments []patient.Appointment
	diagnoses    []patient.Diagnosis
	treatments   map[string][]patient.Treatment
	failingDiags map[string]bool

	apptErr error
	diagErr error
}

func (f *fakeData) GetPatientAppointments(context.Context, string) ([]patient.Appointment, error) {
	return f.appointments, f.apptErr
}

func (f *fakeData) GetPatientDiagnoses(context.Context, string) ([]patient.Diagnosis, error) {
	return f.diagnoses, f.diagErr
}

func (f *fakeData) GetTreatmentHistory(_ context.Context, diagnosisID string) ([]patient.Treatment, error) {
	if f.failingDiags[diagnosisID] {
		return nil, errors.New("fetch failed")
	}
	return f.treatments[diagnosisID], nil
}

func TestService_Load(t *testing.T) {
	data := &fakeData{
		appointments: []patient.Appointment{{ID: "a1"}},
		diagnoses:    []patient.Diagnosis{{ID: "d1"}, {ID: "d2"}},
		treatments: map[string][]patient.Treatment{
			"d1": {{ID: "t1", DiagnosisID: "d1"}},
			"d2": {{ID: "t2", DiagnosisID: "d2"}, {ID: "t3", DiagnosisID: "d2"}},
		},
	}
	svc := NewService(data, zerolog.Nop())

	hist, err := svc.Load(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hist.Appointments) != 1 || len(hist.Diagnoses) != 2 {
		t.Errorf("unexpected counts: %d appointments, %d diagnoses", len(hist.Appointments), len(hist.Diagnoses))
	}
	if len(hist.Treatments) != 3 {
		t.Errorf("expected 3 treatments, got %d", len(hist.Treatments))
	}
}

func TestService_Load_SkipsFailingDiagnosis(t *testing.T) {
	data := &fakeData{
		diagnoses: []patient.Diagnosis{{ID: "d1"}, {ID: "d2"}, {ID: "d3"}},
		treatments: map[string][]patient.Treatment{
			"d1": {{ID: "t1"}},
			"d3": {{ID: "t3"}},
		},
		failingDiags: map[string]bool{"d2": true},
	}
	svc := NewService(data, zerolog.Nop())

	hist, err := svc.Load(context.Background(), "p1")
	if err != nil {
		t.Fatalf("expected partial load to succeed: %v", err)
	}
	if len(hist.Treatments) != 2 {
		t.Errorf("expected treatments from d1 and d3 only, got %d", len(hist.Treatments))
	}
	if len(hist.Diagnoses) != 3 {
		t.Errorf("expected all diagnoses kept, got %d", len(hist.Diagnoses))
	}
}

func TestService_Load_AppointmentsFailureAborts(t *testing.T) {
	data := &fakeData{apptErr: errors.New("backend down")}
	svc := NewService(data, zerolog.Nop())

	if _, err := svc.Load(context.Background(), "p1"); err == nil {
		t.Error("expected appointments failure to abort the load")
	}
}

func TestService_Load_DiagnosesFailureAborts(t *testing.T) {
	data := &fakeData{diagErr: errors.New("backend down")}
	svc := NewService(data, zerolog.Nop())

	if _, err := svc.Load(context.Background(), "p1"); err == nil {
		t.Error("expected diagnoses failure to abort the load")
	}
}

func TestService_Load_EmptyHistory(t *testing.T) {
	svc := NewService(&fakeData{}, zerolog.Nop())

	hist, err := svc.Load(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hist.Treatments == nil {
		t.Error("expected empty treatments slice, not nil")
	}
}
