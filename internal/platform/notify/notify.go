// Package notify publishes clinic events to Firebase Cloud Messaging
// topics so staff devices hear about new bookings.
package notify

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
)

const DefaultTopic = "appointments"

// Sender pushes topic messages through FCM. A nil Sender is valid and
// drops every message, which keeps call sites free of enabled checks.
type Sender struct {
	client *messaging.Client
	topic  string
	logger zerolog.Logger
}

func NewSender(ctx context.Context, app *firebase.App, topic string, logger zerolog.Logger) (*Sender, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init messaging client: %w", err)
	}
	if topic == "" {
		topic = DefaultTopic
	}
	return &Sender{client: client, topic: topic, logger: logger}, nil
}

// AppointmentBooked notifies the clinic topic about a new booking.
// Delivery failures are logged, never surfaced: a booking must not
// fail because a push did.
func (s *Sender) AppointmentBooked(ctx context.Context, patientName string, start time.Time) {
	if s == nil {
		return
	}
	msg := &messaging.Message{
		Topic: s.topic,
		Notification: &messaging.Notification{
			Title: "New appointment booked",
			Body:  fmt.Sprintf("%s booked an appointment for %s", patientName, start.Format("02-01-2006 15:04")),
		},
		Data: map[string]string{
			"patientName": patientName,
			"start_time":  start.Format(time.RFC3339),
		},
	}
	id, err := s.client.Send(ctx, msg)
	if err != nil {
		s.logger.Error().Err(err).Str("topic", s.topic).Msg("failed to send booking notification")
		return
	}
	s.logger.Debug().Str("message_id", id).Str("topic", s.topic).Msg("booking notification sent")
}
