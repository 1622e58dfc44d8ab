// internal/alerts/models.go

package alerts

import "time"

// Alert statuses
const (
	AlertActive   = "active"
	AlertResolved = "resolved"
)

// Alert is an emergency alert raised by a user
type Alert struct {
	ID         int64      `db:"id" json:"id"`
	UserID     int64      `db:"user_id" json:"user_id"`
	Message    string     `db:"message" json:"message"`
	Status     string     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	ResolvedBy *int64     `db:"resolved_by" json:"resolved_by,omitempty"`
}

// CaregiverContact is someone notified when the user raises an alert.
// CaregiverUserID links the contact to a CareLink account when the
// caregiver has one; linked caregivers also receive websocket events
// and may resolve the user's alerts.
type CaregiverContact struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	Name            string    `db:"name" json:"name"`
	Phone           *string   `db:"phone" json:"phone,omitempty"`
	Email           *string   `db:"email" json:"email,omitempty"`
	NotifySMS       bool      `db:"notify_sms" json:"notify_sms"`
	NotifyEmail     bool      `db:"notify_email" json:"notify_email"`
	CaregiverUserID *int64    `db:"caregiver_user_id" json:"caregiver_user_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// ContactInput creates or replaces a caregiver contact
type ContactInput struct {
	Name              string  `json:"name" validate:"required,min=1,max=100"`
	Phone             *string `json:"phone" validate:"omitempty,e164"`
	Email             *string `json:"email" validate:"omitempty,email"`
	NotifySMS         bool    `json:"notify_sms"`
	NotifyEmail       bool    `json:"notify_email"`
	CaregiverPublicID *string `json:"caregiver_public_id" validate:"omitempty,uuid4"`
}

// TriggerAlertRequest raises a new alert
type TriggerAlertRequest struct {
	Message string `json:"message" validate:"required,min=1,max=500"`
}

// AlertEvent is pushed over the websocket feed to caregiver dashboards
type AlertEvent struct {
	Type      string    `json:"type"` // "alert.triggered" or "alert.resolved"
	AlertID   int64     `json:"alert_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
