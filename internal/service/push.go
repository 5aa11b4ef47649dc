package service

import (
	"context"
	"fmt"
	"time"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type firebasePushService struct {
	client messageSender
	topic  string
}

// NewPushService publishes lockout alerts to an FCM topic. Without a
// credentials file alerts are only logged.
func NewPushService(ctx context.Context, credentialsFile, topic string) (PushService, error) {
	if credentialsFile == "" {
		logger.Warn("Firebase credentials not configured, lockout alerts will only be logged")
		return logPushService{}, nil
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging: %w", err)
	}
	return &firebasePushService{client: client, topic: topic}, nil
}

func lockoutMessage(topic string, technician *domain.User, sessionID string, blockedUntil time.Time) *messaging.Message {
	return &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: "Technician locked out",
			Body: fmt.Sprintf("%s was locked out until %s after a work session stopped reporting location.",
				technician.DisplayName(), blockedUntil.Format("Mon Jan 2 15:04 MST")),
		},
		Data: map[string]string{
			"event":         "stale_session_lockout",
			"technician_id": technician.ID,
			"session_id":    sessionID,
			"blocked_until": blockedUntil.Format(time.RFC3339),
		},
	}
}

func (s *firebasePushService) SendLockoutAlert(ctx context.Context, technician *domain.User, sessionID string, blockedUntil time.Time) error {
	logger.ExternalServiceCall("fcm", "SendLockoutAlert", "technician_id", technician.ID)
	id, err := s.client.Send(ctx, lockoutMessage(s.topic, technician, sessionID, blockedUntil))
	logger.ExternalServiceResult("fcm", "SendLockoutAlert", err, "message_id", id)
	if err != nil {
		return fmt.Errorf("failed to send lockout alert: %w", err)
	}
	return nil
}

type logPushService struct{}

func (logPushService) SendLockoutAlert(ctx context.Context, technician *domain.User, sessionID string, blockedUntil time.Time) error {
	logger.Info("Lockout alert (not sent, push not configured)",
		"technician_id", technician.ID,
		"session_id", sessionID,
		"blocked_until", blockedUntil,
	)
	return nil
}
