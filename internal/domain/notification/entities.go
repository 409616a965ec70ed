package notification

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

var (
	ErrNotFound        = errors.New("notification not found")
	ErrMissingField    = errors.New("notification is missing a required field")
	ErrUnknownKind     = errors.New("unknown recipient kind")
	ErrMalformedIntent = errors.New("malformed notification payload")
)

// RecipientKind is the closed set of actor types a notification can target.
type RecipientKind string

const (
	RecipientStudent    RecipientKind = "Student"
	RecipientNBFC       RecipientKind = "NBFC"
	RecipientAdmin      RecipientKind = "Admin"
	RecipientConsultant RecipientKind = "Consultant"
)

func (k RecipientKind) Valid() bool {
	switch k {
	case RecipientStudent, RecipientNBFC, RecipientAdmin, RecipientConsultant:
		return true
	}
	return false
}

// Event tags.
const (
	TypeLoanRequestReceived    = "loan_request_received"
	TypeLoanRequestApproved    = "loan_request_approved"
	TypeLoanRequestRejected    = "loan_request_rejected"
	TypeLoanOfferAccepted      = "loan_offer_accepted"
	TypeLoanOfferAcceptedAdmin = "loan_offer_accepted_admin"
)

// Intent is what producers hand to the dispatcher. It travels through the
// queue as JSON and is never stored as-is.
type Intent struct {
	RecipientID    string         `json:"recipient_id"`
	RecipientModel RecipientKind  `json:"recipient_model"`
	Type           string         `json:"type"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Data           map[string]any `json:"data,omitempty"`
}

// Validate reports the first missing required field.
func (in Intent) Validate() error {
	switch {
	case in.RecipientID == "":
		return missing("recipient_id")
	case in.RecipientModel == "":
		return missing("recipient_model")
	case in.Type == "":
		return missing("type")
	case in.Title == "":
		return missing("title")
	case in.Message == "":
		return missing("message")
	}
	if !in.RecipientModel.Valid() {
		return ErrUnknownKind
	}
	return nil
}

func missing(field string) error { return &FieldError{Field: field} }

type FieldError struct{ Field string }

func (e *FieldError) Error() string { return ErrMissingField.Error() + ": " + e.Field }
func (e *FieldError) Unwrap() error { return ErrMissingField }

// Table: notifications
type Notification struct {
	ID             uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	NotificationID string         `gorm:"column:notification_id;size:32;not null;uniqueIndex:ux_notifications_notification_id" json:"notification_id"`
	RecipientID    string         `gorm:"column:recipient_id;size:32;not null;index:idx_notifications_recipient" json:"recipient_id"`
	RecipientModel RecipientKind  `gorm:"column:recipient_model;size:16;not null;index:idx_notifications_recipient" json:"recipient_model"`
	Type           string         `gorm:"column:type;size:64;not null" json:"type"`
	Title          string         `gorm:"column:title;size:255;not null" json:"title"`
	Message        string         `gorm:"column:message;type:text;not null" json:"message"`
	Data           datatypes.JSON `gorm:"column:data" json:"data,omitempty"`
	IsRead         bool           `gorm:"column:is_read;not null;default:false" json:"is_read"`
	ReadAt         *time.Time     `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// KindForRole maps an authenticated actor role to its recipient kind.
func KindForRole(role string) (RecipientKind, bool) {
	switch role {
	case "student":
		return RecipientStudent, true
	case "nbfc":
		return RecipientNBFC, true
	case "admin":
		return RecipientAdmin, true
	case "consultant":
		return RecipientConsultant, true
	}
	return "", false
}
