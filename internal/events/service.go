package events

import (
	"context"
	"fmt"
	"time"

	"meetup-service/internal/cache"
	"meetup-service/internal/kafka"
	"meetup-service/internal/logger"
	"meetup-service/internal/models"
	"meetup-service/internal/storage"
)

// StoreLayer is the slice of the Store the event service needs.
type StoreLayer interface {
	GetAllEvents() ([]models.Event, error)
	GetEvent(id string) (*models.Event, error)
	CreateEvent(insert models.InsertEvent) (*models.Event, error)
	UpdateEvent(id string, update models.EventUpdate) (*models.Event, error)
	DeleteEvent(id string) (bool, error)
	SearchEvents(query string) ([]models.Event, error)
}

// Publisher streams domain events; publishing is best-effort.
type Publisher interface {
	Publish(topic, key string, payload interface{}) error
}

// Invalidator drops cached list responses after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

type EventService struct {
	Store    StoreLayer
	Producer Publisher
	Cache    Invalidator
	Logger   *logger.Logger
}

func NewEventService(store StoreLayer) *EventService {
	return &EventService{Store: store}
}

func (s *EventService) GetAllEvents() ([]models.Event, error) {
	events, err := s.Store.GetAllEvents()
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	return events, nil
}

func (s *EventService) GetEvent(id string) (*models.Event, error) {
	event, err := s.Store.GetEvent(id)
	if err != nil {
		return nil, fmt.Errorf("fetch event %s: %w", id, err)
	}
	return event, nil
}

func (s *EventService) CreateEvent(insert models.InsertEvent) (*models.Event, error) {
	event, err := s.Store.CreateEvent(insert)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.publish(kafka.TopicEventCreated, event.ID, event)
	s.invalidate()
	return event, nil
}

func (s *EventService) UpdateEvent(id string, update models.EventUpdate) (*models.Event, error) {
	event, err := s.Store.UpdateEvent(id, update)
	if err != nil {
		return nil, fmt.Errorf("update event %s: %w", id, err)
	}
	if event == nil {
		return nil, nil
	}
	s.publish(kafka.TopicEventUpdated, event.ID, event)
	s.invalidate()
	return event, nil
}

func (s *EventService) DeleteEvent(id string) (bool, error) {
	deleted, err := s.Store.DeleteEvent(id)
	if err != nil {
		return false, fmt.Errorf("delete event %s: %w", id, err)
	}
	if deleted {
		s.publish(kafka.TopicEventDeleted, id, map[string]string{"id": id})
		s.invalidate()
	}
	return deleted, nil
}

func (s *EventService) SearchEvents(query string) ([]models.Event, error) {
	events, err := s.Store.SearchEvents(query)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return events, nil
}

// Stats summarizes the store for the dashboard. "upcoming" counts events
// whose date+time is strictly after now; "thisMonth" matches calendar
// month and year of the event date.
func (s *EventService) Stats(now time.Time) (*models.Stats, error) {
	events, err := s.Store.GetAllEvents()
	if err != nil {
		return nil, fmt.Errorf("fetch events for stats: %w", err)
	}

	stats := &models.Stats{TotalEvents: len(events)}
	for _, event := range events {
		stats.TotalAttendees += event.Attendees

		if date, err := time.Parse(storage.DateLayout, event.Date); err == nil {
			if date.Month() == now.Month() && date.Year() == now.Year() {
				stats.ThisMonth++
			}
		}
		if start, ok := storage.EventStart(event); ok && start.After(now) {
			stats.Upcoming++
		}
	}
	return stats, nil
}

func (s *EventService) publish(topic, key string, payload interface{}) {
	if s.Producer == nil {
		return
	}
	if err := s.Producer.Publish(topic, key, payload); err != nil && s.Logger != nil {
		s.Logger.LogKafka("PUBLISH", topic, fmt.Sprintf("failed: %v", err))
	}
}

func (s *EventService) invalidate() {
	if s.Cache == nil {
		return
	}
	s.Cache.Invalidate(context.Background(), cache.KeyEvents, cache.KeyStats)
}
