// Package patient provides read/write accessors for appointments, diagnoses,
// and treatment records in the document store, scoped by patient identity.
// Every accessor is a single query; backend errors are logged and propagated
// unchanged, with no retry and no cache.
package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/platform/docstore"
)

type Gateway struct {
	store  docstore.Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewGateway(store docstore.Store, logger zerolog.Logger) *Gateway {
	return &Gateway{store: store, logger: logger, now: time.Now}
}

// AddAppointment combines the request's date and time fields into a single
// start_time, defaults the status to pending, and returns the new record's
// id. paymentStatus and patientName are supplied by the booking collaborator.
func (g *Gateway) AddAppointment(ctx context.Context, req BookingRequest, paymentStatus, patientName string) (string, error) {
	start, err := combineStartTime(req.AppointmentDate, req.AppointmentTime)
	if err != nil {
		return "", err
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}

	id, err := g.store.Add(ctx, appointmentsCollection, map[string]interface{}{
		"patientId":        req.PatientID,
		"patientName":      patientName,
		"paymentStatus":    paymentStatus,
		"createdAt":        g.now(),
		"start_time":       start,
		"reason_for_visit": req.ReasonForVisit,
		"visitType":        req.VisitType,
		"payment_method":   req.PaymentMethod,
		"payment_amount":   req.PaymentAmount,
		"status":           status,
	})
	if err != nil {
		g.logger.Error().Err(err).Msg("error adding appointment")
		return "", err
	}
	return id, nil
}

// GetPatientAppointments returns the patient's appointments ordered by
// start_time descending.
func (g *Gateway) GetPatientAppointments(ctx context.Context, patientID string) ([]Appointment, error) {
	docs, err := g.store.Query(ctx, appointmentsCollection,
		[]docstore.Filter{{Field: "patientId", Value: patientID}},
		&docstore.Order{Field: "start_time", Desc: true})
	if err != nil {
		g.logger.Error().Err(err).Str("patient_id", patientID).Msg("error fetching appointments")
		return nil, err
	}

	out := make([]Appointment, 0, len(docs))
	for _, doc := range docs {
		out = append(out, appointmentFromDoc(doc))
	}
	return out, nil
}

// GetScheduledAppointments returns the start times of every appointment in
// the system, for slot-availability checks. Records without a start time are
// skipped.
func (g *Gateway) GetScheduledAppointments(ctx context.Context) ([]time.Time, error) {
	docs, err := g.store.Query(ctx, appointmentsCollection, nil, nil)
	if err != nil {
		g.logger.Error().Err(err).Msg("error fetching scheduled appointments")
		return nil, err
	}

	var out []time.Time
	for _, doc := range docs {
		if t, ok := docstore.AsTime(doc.Data["start_time"]); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetPatientDiagnoses returns the patient's diagnoses, unordered.
func (g *Gateway) GetPatientDiagnoses(ctx context.Context, patientID string) ([]Diagnosis, error) {
	docs, err := g.store.Query(ctx, diagnosesCollection,
		[]docstore.Filter{{Field: "patientId", Value: patientID}}, nil)
	if err != nil {
		g.logger.Error().Err(err).Str("patient_id", patientID).Msg("error fetching diagnoses")
		return nil, err
	}

	out := make([]Diagnosis, 0, len(docs))
	for _, doc := range docs {
		out = append(out, diagnosisFromDoc(doc))
	}
	return out, nil
}

// GetTreatmentHistory returns the treatments recorded under one diagnosis,
// unordered.
func (g *Gateway) GetTreatmentHistory(ctx context.Context, diagnosisID string) ([]Treatment, error) {
	docs, err := g.store.Query(ctx, treatmentsCollection,
		[]docstore.Filter{{Field: "diagnosisId", Value: diagnosisID}}, nil)
	if err != nil {
		g.logger.Error().Err(err).Str("diagnosis_id", diagnosisID).Msg("error fetching treatments")
		return nil, err
	}

	out := make([]Treatment, 0, len(docs))
	for _, doc := range docs {
		out = append(out, treatmentFromDoc(doc))
	}
	return out, nil
}

// combineStartTime merges the booking form's DD-MM-YYYY date and HH:MM time
// into one timestamp.
func combineStartTime(date, clock string) (time.Time, error) {
	start, err := time.Parse("02-01-2006 15:04", date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid appointment date/time: %w", err)
	}
	return start, nil
}
