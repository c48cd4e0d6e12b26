package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SydAsim/Visaguardai-Upwork/internal/apperrors"
	"github.com/SydAsim/Visaguardai-Upwork/internal/models"
	"github.com/SydAsim/Visaguardai-Upwork/internal/storage"
)

// EventServiceProvider defines the interface for activity event services.
type EventServiceProvider interface {
	Record(eventType, level, message, email string) error
	RecentEvents(email string, limit int) ([]models.Event, error)
}

const (
	eventsKey = "events"
	// maxStoredEvents caps the log so the serialized blob stays bounded.
	maxStoredEvents = 200
)

// EventService keeps a rolling activity log in the key-value layer, newest
// first.
type EventService struct {
	mu      sync.Mutex
	storage storage.Storage
}

// NewEventService creates a new EventService.
func NewEventService(s storage.Storage) *EventService {
	return &EventService{storage: s}
}

// Record prepends a new event to the log, trimming past the cap.
func (s *EventService) Record(eventType, level, message, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load()
	if err != nil {
		return err
	}

	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	events = append([]models.Event{event}, events...)
	if len(events) > maxStoredEvents {
		events = events[:maxStoredEvents]
	}

	encoded, err := json.Marshal(events)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, err, "encode event log")
	}
	if err := s.storage.Set(eventsKey, string(encoded)); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, err, "persist event log")
	}
	return nil
}

// RecentEvents returns the newest events for the given email, up to limit.
// A limit of zero or less means no limit. System-wide events (empty email)
// are included for everyone.
func (s *EventService) RecentEvents(email string, limit int) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load()
	if err != nil {
		return nil, err
	}

	if limit < 0 {
		limit = 0
	}
	matched := make([]models.Event, 0, limit)
	for _, event := range events {
		if event.Email != "" && event.Email != email {
			continue
		}
		matched = append(matched, event)
		if limit > 0 && len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func (s *EventService) load() ([]models.Event, error) {
	raw, ok, err := s.storage.Get(eventsKey)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, err, "read event log")
	}
	if !ok || raw == "" {
		return []models.Event{}, nil
	}

	var events []models.Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, err, "decode event log")
	}
	return events, nil
}
