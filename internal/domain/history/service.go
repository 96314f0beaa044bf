// Package history aggregates a patient's medical history: appointments,
// diagnoses, and the treatments recorded under each diagnosis. Treatment
// fetches run sequentially per diagnosis; one failing diagnosis is logged
// and skipped while the rest of the load continues. An appointments or
// diagnoses failure aborts the whole load.
package history

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
)

// PatientData is the slice of the patient gateway the aggregation needs.
type PatientData interface {
	GetPatientAppointments(ctx context.Context, patientID string) ([]patient.Appointment, error)
	GetPatientDiagnoses(ctx context.Context, patientID string) ([]patient.Diagnosis, error)
	GetTreatmentHistory(ctx context.Context, diagnosisID string) ([]patient.Treatment, error)
}

// History is one medical-history load.
type History struct {
	Appointments []patient.Appointment `json:"appointments"`
	Diagnoses    []patient.Diagnosis   `json:"diagnoses"`
	Treatments   []patient.Treatment   `json:"treatments"`
}

type Service struct {
	data    PatientData
	uploads *uploadList
	logger  zerolog.Logger
}

func NewService(data PatientData, logger zerolog.Logger) *Service {
	return &Service{data: data, uploads: newUploadList(), logger: logger}
}

// Load fetches the patient's full history. Partial failure policy: a
// treatment fetch failing for one diagnosis keeps the treatments already
// collected and moves on; appointment or diagnosis failures abort.
func (s *Service) Load(ctx context.Context, patientID string) (*History, error) {
	appointments, err := s.data.GetPatientAppointments(ctx, patientID)
	if err != nil {
		return nil, err
	}

	diagnoses, err := s.data.GetPatientDiagnoses(ctx, patientID)
	if err != nil {
		return nil, err
	}

	treatments := make([]patient.Treatment, 0)
	for _, d := range diagnoses {
		dt, err := s.data.GetTreatmentHistory(ctx, d.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("diagnosis_id", d.ID).Msg("skipping treatments for diagnosis")
			continue
		}
		treatments = append(treatments, dt...)
	}

	return &History{
		Appointments: appointments,
		Diagnoses:    diagnoses,
		Treatments:   treatments,
	}, nil
}
