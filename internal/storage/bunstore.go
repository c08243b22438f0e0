package storage

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"meetup-service/internal/models"
)

// BunStore is the durable Store backend over a relational database (sqlite
// or postgres, chosen by the dialect the *bun.DB was built with).
type BunStore struct {
	Bun *bun.DB
}

var _ Store = (*BunStore)(nil)

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{Bun: db}
}

// CreateSchema creates the users, events and rsvps tables if missing. Used
// at startup and by cmd/migrate.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{(*models.User)(nil), (*models.Event)(nil), (*models.Rsvp)(nil)}
	for _, m := range tables {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ---------------- USERS ----------------

func (s *BunStore) GetUser(id string) (*models.User, error) {
	var user models.User
	err := s.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *BunStore) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.Bun.NewSelect().
		Model(&user).
		Where("username = ?", username).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *BunStore) CreateUser(insert models.InsertUser) (*models.User, error) {
	user := models.User{
		ID:       uuid.New().String(),
		Username: insert.Username,
		Password: insert.Password,
	}
	if _, err := s.Bun.NewInsert().Model(&user).Exec(context.Background()); err != nil {
		return nil, err
	}
	return &user, nil
}

// ---------------- EVENTS ----------------

func (s *BunStore) GetAllEvents() ([]models.Event, error) {
	var events []models.Event
	err := s.Bun.NewSelect().
		Model(&events).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	// Sorted here rather than in SQL so the composite date+time ordering is
	// byte-identical with the in-memory backend.
	sort.Slice(events, func(i, j int) bool {
		return EventStartKey(events[i]) < EventStartKey(events[j])
	})
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

func (s *BunStore) GetEvent(id string) (*models.Event, error) {
	var event models.Event
	err := s.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *BunStore) CreateEvent(insert models.InsertEvent) (*models.Event, error) {
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
	if _, err := s.Bun.NewInsert().Model(&event).Exec(context.Background()); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *BunStore) UpdateEvent(id string, update models.EventUpdate) (*models.Event, error) {
	event, err := s.GetEvent(id)
	if err != nil || event == nil {
		return nil, err
	}
	update.Apply(event)
	_, err = s.Bun.NewUpdate().
		Model(event).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *BunStore) DeleteEvent(id string) (bool, error) {
	res, err := s.Bun.NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// escapeLike neutralizes LIKE metacharacters so the query is matched as an
// exact substring, same as the in-memory backend.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func (s *BunStore) SearchEvents(query string) ([]models.Event, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	var events []models.Event
	err := s.Bun.NewSelect().
		Model(&events).
		Where(`lower(title) LIKE ? ESCAPE '\'`, pattern).
		WhereOr(`lower(description) LIKE ? ESCAPE '\'`, pattern).
		WhereOr(`lower(technology) LIKE ? ESCAPE '\'`, pattern).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// ---------------- RSVPS ----------------

func (s *BunStore) CreateRsvp(insert models.InsertRsvp) (*models.Rsvp, error) {
	rsvp := models.Rsvp{
		ID:        uuid.New().String(),
		EventID:   insert.EventID,
		Email:     insert.Email,
		Name:      insert.Name,
		CreatedAt: time.Now(),
	}
	// The row write and the attendee bump commit together so the count
	// never drifts from the RSVP rows.
	err := s.Bun.RunInTx(context.Background(), nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&rsvp).Exec(ctx); err != nil {
			return err
		}
		// Bump the attendee count when the event exists; an RSVP against
		// an unknown event id is still stored.
		_, err := tx.NewUpdate().
			Model((*models.Event)(nil)).
			Set("attendees = attendees + 1").
			Where("id = ?", insert.EventID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (s *BunStore) GetRsvp(id string) (*models.Rsvp, error) {
	var rsvp models.Rsvp
	err := s.Bun.NewSelect().
		Model(&rsvp).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (s *BunStore) GetRsvpsByEvent(eventID string) ([]models.Rsvp, error) {
	var rsvps []models.Rsvp
	err := s.Bun.NewSelect().
		Model(&rsvps).
		Where("event_id = ?", eventID).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if rsvps == nil {
		rsvps = []models.Rsvp{}
	}
	return rsvps, nil
}

func (s *BunStore) DeleteRsvp(id string) (bool, error) {
	var deleted bool
	err := s.Bun.RunInTx(context.Background(), nil, func(ctx context.Context, tx bun.Tx) error {
		var rsvp models.Rsvp
		err := tx.NewSelect().
			Model(&rsvp).
			Where("id = ?", id).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		// The row delete guards the decrement: a concurrent delete of the
		// same RSVP affects zero rows here and adjusts nothing.
		res, err := tx.NewDelete().
			Model((*models.Rsvp)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}

		// Decrement floored at zero; no-op when the event is already gone.
		_, err = tx.NewUpdate().
			Model((*models.Event)(nil)).
			Set("attendees = attendees - 1").
			Where("id = ?", rsvp.EventID).
			Where("attendees > 0").
			Exec(ctx)
		if err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// ---------------- HEALTH ----------------

func (s *BunStore) Close() error {
	return s.Bun.Close()
}

func (s *BunStore) HealthCheck() error {
	return s.Bun.Ping()
}
