package rsvps

import (
	"context"
	"fmt"

	"meetup-service/internal/cache"
	"meetup-service/internal/kafka"
	"meetup-service/internal/logger"
	"meetup-service/internal/models"
)

// StoreLayer is the slice of the Store the RSVP service needs.
type StoreLayer interface {
	CreateRsvp(insert models.InsertRsvp) (*models.Rsvp, error)
	GetRsvp(id string) (*models.Rsvp, error)
	GetRsvpsByEvent(eventID string) ([]models.Rsvp, error)
	DeleteRsvp(id string) (bool, error)
	GetEvent(id string) (*models.Event, error)
}

// Mailer sends the confirmation email. Failures are logged, never surfaced.
type Mailer interface {
	SendEventConfirmation(to, eventTitle, eventDate, eventTime string, qrPNG []byte) error
}

// QREncoder renders the check-in code attached to confirmations.
type QREncoder interface {
	GenerateEncryptedQR(rsvp models.Rsvp) ([]byte, error)
}

type Publisher interface {
	Publish(topic, key string, payload interface{}) error
}

type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

type RsvpService struct {
	Store    StoreLayer
	Mailer   Mailer
	QR       QREncoder
	Producer Publisher
	Cache    Invalidator
	Logger   *logger.Logger
}

func NewRsvpService(store StoreLayer) *RsvpService {
	return &RsvpService{Store: store}
}

// CreateRsvp stores the RSVP, then fires the confirmation email when the
// referenced event exists and has notifications enabled. The email (and the
// kafka publish) are best-effort: the RSVP write never rolls back.
func (s *RsvpService) CreateRsvp(insert models.InsertRsvp) (*models.Rsvp, error) {
	rsvp, err := s.Store.CreateRsvp(insert)
	if err != nil {
		return nil, fmt.Errorf("create rsvp: %w", err)
	}

	event, err := s.Store.GetEvent(insert.EventID)
	if err != nil {
		s.logError("RSVP", fmt.Sprintf("event lookup for notification failed: %v", err))
	} else if event != nil && event.SendNotifications {
		s.sendConfirmation(*rsvp, *event)
	}

	s.publish(kafka.TopicRsvpCreated, rsvp.ID, rsvp)
	s.invalidate()
	return rsvp, nil
}

func (s *RsvpService) GetRsvpsByEvent(eventID string) ([]models.Rsvp, error) {
	rsvps, err := s.Store.GetRsvpsByEvent(eventID)
	if err != nil {
		return nil, fmt.Errorf("fetch rsvps for event %s: %w", eventID, err)
	}
	return rsvps, nil
}

func (s *RsvpService) DeleteRsvp(id string) (bool, error) {
	deleted, err := s.Store.DeleteRsvp(id)
	if err != nil {
		return false, fmt.Errorf("delete rsvp %s: %w", id, err)
	}
	if deleted {
		s.publish(kafka.TopicRsvpDeleted, id, map[string]string{"id": id})
		s.invalidate()
	}
	return deleted, nil
}

// GetRsvpQR renders the check-in code for an existing RSVP. Returns nil
// bytes when the RSVP is unknown.
func (s *RsvpService) GetRsvpQR(id string) ([]byte, error) {
	rsvp, err := s.Store.GetRsvp(id)
	if err != nil {
		return nil, fmt.Errorf("fetch rsvp %s: %w", id, err)
	}
	if rsvp == nil {
		return nil, nil
	}
	if s.QR == nil {
		return nil, fmt.Errorf("qr generator not configured")
	}
	png, err := s.QR.GenerateEncryptedQR(*rsvp)
	if err != nil {
		return nil, fmt.Errorf("generate qr for rsvp %s: %w", id, err)
	}
	return png, nil
}

func (s *RsvpService) sendConfirmation(rsvp models.Rsvp, event models.Event) {
	if s.Mailer == nil {
		return
	}

	var qrPNG []byte
	if s.QR != nil {
		png, err := s.QR.GenerateEncryptedQR(rsvp)
		if err != nil {
			s.logError("MAIL", fmt.Sprintf("qr generation failed, sending without attachment: %v", err))
		} else {
			qrPNG = png
		}
	}

	if err := s.Mailer.SendEventConfirmation(rsvp.Email, event.Title, event.Date, event.Time, qrPNG); err != nil {
		s.logError("MAIL", fmt.Sprintf("failed to send confirmation to %s: %v", rsvp.Email, err))
	} else if s.Logger != nil {
		s.Logger.LogMail(rsvp.Email, fmt.Sprintf("confirmation sent for event %s", event.ID))
	}
}

func (s *RsvpService) publish(topic, key string, payload interface{}) {
	if s.Producer == nil {
		return
	}
	if err := s.Producer.Publish(topic, key, payload); err != nil {
		s.logError("KAFKA", fmt.Sprintf("publish to %s failed: %v", topic, err))
	}
}

func (s *RsvpService) invalidate() {
	if s.Cache == nil {
		return
	}
	s.Cache.Invalidate(context.Background(), cache.KeyEvents, cache.KeyStats)
}

func (s *RsvpService) logError(category, message string) {
	if s.Logger != nil {
		s.Logger.Error(category, message)
	}
}
