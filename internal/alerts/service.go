// internal/alerts/service.go
// Alert lifecycle and caregiver notification fan-out

package alerts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

var (
	ErrAlertNotFound   = errors.New("alert not found")
	ErrContactNotFound = errors.New("caregiver contact not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNotPermitted    = errors.New("not permitted to resolve this alert")
)

const alertHistoryLimit = 50

// Service defines alert operations
type Service interface {
	AddContact(ctx context.Context, userID int64, input *ContactInput) (*CaregiverContact, error)
	ListContacts(ctx context.Context, userID int64) ([]*CaregiverContact, error)
	UpdateContact(ctx context.Context, userID, contactID int64, input *ContactInput) (*CaregiverContact, error)
	RemoveContact(ctx context.Context, userID, contactID int64) (bool, error)

	TriggerAlert(ctx context.Context, userID int64, username, message string) (*Alert, error)
	ResolveAlert(ctx context.Context, alertID, resolverID int64) (*Alert, error)
	AlertHistory(ctx context.Context, userID int64) ([]*Alert, error)
}

type service struct {
	repo  Repository
	sms   SMSSender
	email EmailSender
	hub   *Hub
}

// NewService creates a new alerts service
func NewService(repo Repository, sms SMSSender, email EmailSender, hub *Hub) Service {
	return &service{
		repo:  repo,
		sms:   sms,
		email: email,
		hub:   hub,
	}
}

func (s *service) AddContact(ctx context.Context, userID int64, input *ContactInput) (*CaregiverContact, error) {
	contact, err := s.contactFromInput(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}

	return contact, nil
}

func (s *service) ListContacts(ctx context.Context, userID int64) ([]*CaregiverContact, error) {
	return s.repo.ListContacts(ctx, userID)
}

func (s *service) UpdateContact(ctx context.Context, userID, contactID int64, input *ContactInput) (*CaregiverContact, error) {
	contact, err := s.contactFromInput(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	contact.ID = contactID

	if err := s.repo.UpdateContact(ctx, contact); err != nil {
		return nil, err
	}

	return s.repo.GetContact(ctx, userID, contactID)
}

func (s *service) RemoveContact(ctx context.Context, userID, contactID int64) (bool, error) {
	return s.repo.DeleteContact(ctx, userID, contactID)
}

func (s *service) TriggerAlert(ctx context.Context, userID int64, username, message string) (*Alert, error) {
	alert := &Alert{
		UserID:  userID,
		Message: message,
	}
	if err := s.repo.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}
	alertsTriggered.Inc()

	contacts, err := s.repo.ListContacts(ctx, userID)
	if err != nil {
		// The alert row exists; notification failure must not lose it
		log.Printf("alerts: failed to load contacts for user %d: %v", userID, err)
		return alert, nil
	}

	body := fmt.Sprintf("CareLink alert from %s: %s", username, message)
	subject := fmt.Sprintf("CareLink emergency alert from %s", username)

	// Fan out in the background so the caller gets an immediate response
	go s.notifyContacts(contacts, body, subject)

	s.broadcastEvent(ctx, alert, username, "alert.triggered")

	return alert, nil
}

func (s *service) ResolveAlert(ctx context.Context, alertID, resolverID int64) (*Alert, error) {
	alert, err := s.repo.GetAlert(ctx, alertID)
	if err != nil {
		return nil, err
	}

	if alert.UserID != resolverID {
		isCaregiver, err := s.repo.IsCaregiverFor(ctx, resolverID, alert.UserID)
		if err != nil {
			return nil, err
		}
		if !isCaregiver {
			return nil, ErrNotPermitted
		}
	}

	if _, err := s.repo.ResolveAlert(ctx, alertID, resolverID); err != nil {
		return nil, err
	}

	alert, err = s.repo.GetAlert(ctx, alertID)
	if err != nil {
		return nil, err
	}

	s.broadcastEvent(ctx, alert, "", "alert.resolved")

	return alert, nil
}

func (s *service) AlertHistory(ctx context.Context, userID int64) ([]*Alert, error) {
	return s.repo.ListAlerts(ctx, userID, alertHistoryLimit)
}

func (s *service) contactFromInput(ctx context.Context, userID int64, input *ContactInput) (*CaregiverContact, error) {
	contact := &CaregiverContact{
		UserID:      userID,
		Name:        input.Name,
		Phone:       input.Phone,
		Email:       input.Email,
		NotifySMS:   input.NotifySMS,
		NotifyEmail: input.NotifyEmail,
	}

	if input.CaregiverPublicID != nil {
		caregiverID, _, err := s.repo.ResolveUserID(ctx, *input.CaregiverPublicID)
		if err != nil {
			return nil, err
		}
		contact.CaregiverUserID = &caregiverID
	}

	return contact, nil
}

func (s *service) notifyContacts(contacts []*CaregiverContact, smsBody, emailSubject string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, contact := range contacts {
		if contact.NotifySMS && contact.Phone != nil {
			if err := s.sms.SendSMS(ctx, *contact.Phone, smsBody); err != nil {
				log.Printf("alerts: SMS to %s failed: %v", contact.Name, err)
				notificationsSent.WithLabelValues("sms", "error").Inc()
			} else {
				notificationsSent.WithLabelValues("sms", "ok").Inc()
			}
		}

		if contact.NotifyEmail && contact.Email != nil {
			if err := s.email.SendEmail(ctx, *contact.Email, emailSubject, smsBody); err != nil {
				log.Printf("alerts: email to %s failed: %v", contact.Name, err)
				notificationsSent.WithLabelValues("email", "error").Inc()
			} else {
				notificationsSent.WithLabelValues("email", "ok").Inc()
			}
		}
	}
}

func (s *service) broadcastEvent(ctx context.Context, alert *Alert, username, eventType string) {
	if s.hub == nil {
		return
	}

	targets, err := s.repo.CaregiverUserIDs(ctx, alert.UserID)
	if err != nil {
		log.Printf("alerts: failed to load caregiver users for alert %d: %v", alert.ID, err)
		return
	}
	targets = append(targets, alert.UserID)

	s.hub.Broadcast(targets, AlertEvent{
		Type:      eventType,
		AlertID:   alert.ID,
		UserID:    alert.UserID,
		Username:  username,
		Message:   alert.Message,
		Timestamp: time.Now(),
	})
}
