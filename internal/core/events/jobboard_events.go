package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeApplicationSubmitted     = "application.submitted"
	EventTypeApplicationStatusChanged = "application.status_changed"
	EventTypeSystemMessage            = "system.message"
)

type ApplicationSubmittedEvent struct {
	BaseEvent
	ApplicationID   int64  `json:"application_id"`
	OfferID         int64  `json:"offer_id"`
	OfferTitle      string `json:"offer_title"`
	EmployerUserID  int64  `json:"employer_user_id"`
	ApplicantUserID int64  `json:"applicant_user_id"`
	ApplicantName   string `json:"applicant_name"`
}

func NewApplicationSubmittedEvent(applicationID, offerID int64, offerTitle string, employerUserID, applicantUserID int64, applicantName string) *ApplicationSubmittedEvent {
	return &ApplicationSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApplicationSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"application_id":    applicationID,
				"offer_id":          offerID,
				"employer_user_id":  employerUserID,
				"applicant_user_id": applicantUserID,
			},
		},
		ApplicationID:   applicationID,
		OfferID:         offerID,
		OfferTitle:      offerTitle,
		EmployerUserID:  employerUserID,
		ApplicantUserID: applicantUserID,
		ApplicantName:   applicantName,
	}
}

type ApplicationStatusChangedEvent struct {
	BaseEvent
	ApplicationID   int64  `json:"application_id"`
	OfferID         int64  `json:"offer_id"`
	OfferTitle      string `json:"offer_title"`
	ApplicantUserID int64  `json:"applicant_user_id"`
	OldStatus       string `json:"old_status"`
	NewStatus       string `json:"new_status"`
}

func NewApplicationStatusChangedEvent(applicationID, offerID int64, offerTitle string, applicantUserID int64, oldStatus, newStatus string) *ApplicationStatusChangedEvent {
	return &ApplicationStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApplicationStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"application_id":    applicationID,
				"offer_id":          offerID,
				"applicant_user_id": applicantUserID,
				"old_status":        oldStatus,
				"new_status":        newStatus,
			},
		},
		ApplicationID:   applicationID,
		OfferID:         offerID,
		OfferTitle:      offerTitle,
		ApplicantUserID: applicantUserID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// SystemMessageEvent is an operator message addressed to a single user.
type SystemMessageEvent struct {
	BaseEvent
	UserID  int64  `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

func NewSystemMessageEvent(userID int64, title, message, link string) *SystemMessageEvent {
	return &SystemMessageEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSystemMessage,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"title":   title,
			},
		},
		UserID:  userID,
		Title:   title,
		Message: message,
		Link:    link,
	}
}
