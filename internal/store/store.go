// Package store owns the durable user collection and the session pointer.
// The collection is serialized as one JSON document per mutation, so readers
// always see the result of the last completed write; lookups over it are
// linear scans, which is the documented ceiling at this product's scale.
package store

import (
	"encoding/json"

	"github.com/SydAsim/Visaguardai-Upwork/internal/apperrors"
	"github.com/SydAsim/Visaguardai-Upwork/internal/models"
	"github.com/SydAsim/Visaguardai-Upwork/internal/storage"
)

const (
	usersKey   = "users"
	sessionKey = "currentUser"
)

// UserStore reads and writes the whole user collection through the injected
// persistence layer. It assumes a single writer; the account service holds
// the lock.
type UserStore struct {
	storage storage.Storage
}

// New creates a UserStore backed by the given storage.
func New(s storage.Storage) *UserStore {
	return &UserStore{storage: s}
}

// ListUsers returns every record in storage order, or an empty slice if the
// collection has never been written.
func (s *UserStore) ListUsers() ([]models.User, error) {
	raw, ok, err := s.storage.Get(usersKey)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, err, "read user collection")
	}
	if !ok || raw == "" {
		return []models.User{}, nil
	}

	var users []models.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, err, "decode user collection")
	}
	return users, nil
}

// SaveUsers replaces the entire collection. The encode happens before the
// write, so an encoding failure leaves the stored collection untouched.
func (s *UserStore) SaveUsers(users []models.User) error {
	if users == nil {
		users = []models.User{}
	}
	encoded, err := json.Marshal(users)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, err, "encode user collection")
	}
	if err := s.storage.Set(usersKey, string(encoded)); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, err, "persist user collection")
	}
	return nil
}

// SetSession points the session at the given email.
func (s *UserStore) SetSession(email string) error {
	if err := s.storage.Set(sessionKey, email); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, err, "persist session")
	}
	return nil
}

// ClearSession removes the session pointer; clearing an absent session is a
// no-op.
func (s *UserStore) ClearSession() error {
	if err := s.storage.Remove(sessionKey); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, err, "clear session")
	}
	return nil
}

// GetSession returns the email the session points at, if any. Absence means
// logged out.
func (s *UserStore) GetSession() (string, bool, error) {
	email, ok, err := s.storage.Get(sessionKey)
	if err != nil {
		return "", false, apperrors.Wrap(apperrors.CodeStorage, err, "read session")
	}
	if !ok || email == "" {
		return "", false, nil
	}
	return email, true, nil
}
