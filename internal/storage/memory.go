package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"meetup-service/internal/models"
)

// MemStorage keeps all state in process-local maps. It is the default
// backend; everything is lost on restart. The mutex keeps the sequential
// map semantics intact under concurrent handlers.
type MemStorage struct {
	mu     sync.RWMutex
	users  map[string]models.User
	events map[string]models.Event
	rsvps  map[string]models.Rsvp
}

var _ Store = (*MemStorage)(nil)

func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:  make(map[string]models.User),
		events: make(map[string]models.Event),
		rsvps:  make(map[string]models.Rsvp),
	}
}

// ---------------- USERS ----------------

func (s *MemStorage) GetUser(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, ok := s.users[id]; ok {
		return &user, nil
	}
	return nil, nil
}

func (s *MemStorage) GetUserByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			user := user
			return &user, nil
		}
	}
	return nil, nil
}

func (s *MemStorage) CreateUser(insert models.InsertUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := models.User{
		ID:       uuid.New().String(),
		Username: insert.Username,
		Password: insert.Password,
	}
	s.users[user.ID] = user
	return &user, nil
}

// ---------------- EVENTS ----------------

func (s *MemStorage) GetAllEvents() ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]models.Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool {
		return EventStartKey(events[i]) < EventStartKey(events[j])
	})
	return events, nil
}

func (s *MemStorage) GetEvent(id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if event, ok := s.events[id]; ok {
		return &event, nil
	}
	return nil, nil
}

func (s *MemStorage) CreateEvent(insert models.InsertEvent) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event := models.Event{
		ID:          uuid.New().String(),
		Title:       insert.Title,
		Description: insert.Description,
		Date:        insert.Date,
		Time:        insert.Time,
		Technology:  insert.Technology,
		Attendees:   0,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	if insert.SendNotifications != nil {
		event.SendNotifications = *insert.SendNotifications
	}
	s.events[event.ID] = event
	return &event, nil
}

func (s *MemStorage) UpdateEvent(id string, update models.EventUpdate) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return nil, nil
	}
	update.Apply(&event)
	s.events[id] = event
	return &event, nil
}

func (s *MemStorage) DeleteEvent(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return false, nil
	}
	delete(s.events, id)
	return true, nil
}

func (s *MemStorage) SearchEvents(query string) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]models.Event, 0)
	for _, event := range s.events {
		if MatchesQuery(event, query) {
			matches = append(matches, event)
		}
	}
	return matches, nil
}

// ---------------- RSVPS ----------------

func (s *MemStorage) CreateRsvp(insert models.InsertRsvp) (*models.Rsvp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rsvp := models.Rsvp{
		ID:        uuid.New().String(),
		EventID:   insert.EventID,
		Email:     insert.Email,
		Name:      insert.Name,
		CreatedAt: time.Now(),
	}
	s.rsvps[rsvp.ID] = rsvp

	// The referenced event is not required to exist; the attendee count is
	// only bumped when it does.
	if event, ok := s.events[insert.EventID]; ok {
		event.Attendees++
		s.events[insert.EventID] = event
	}
	return &rsvp, nil
}

func (s *MemStorage) GetRsvp(id string) (*models.Rsvp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rsvp, ok := s.rsvps[id]; ok {
		return &rsvp, nil
	}
	return nil, nil
}

func (s *MemStorage) GetRsvpsByEvent(eventID string) ([]models.Rsvp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rsvps := make([]models.Rsvp, 0)
	for _, rsvp := range s.rsvps {
		if rsvp.EventID == eventID {
			rsvps = append(rsvps, rsvp)
		}
	}
	return rsvps, nil
}

func (s *MemStorage) DeleteRsvp(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rsvp, ok := s.rsvps[id]
	if !ok {
		return false, nil
	}

	// Decrement floored at zero; orphaned RSVPs (event already deleted)
	// leave no count to adjust.
	if event, ok := s.events[rsvp.EventID]; ok && event.Attendees > 0 {
		event.Attendees--
		s.events[rsvp.EventID] = event
	}

	delete(s.rsvps, id)
	return true, nil
}

// ---------------- HEALTH ----------------

func (s *MemStorage) Close() error {
	return nil
}

func (s *MemStorage) HealthCheck() error {
	return nil
}
