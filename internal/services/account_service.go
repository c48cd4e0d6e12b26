package services

import (
	"regexp"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/SydAsim/Visaguardai-Upwork/internal/apperrors"
	"github.com/SydAsim/Visaguardai-Upwork/internal/models"
	"github.com/SydAsim/Visaguardai-Upwork/internal/store"
)

// AccountServiceProvider defines the interface for account services.
type AccountServiceProvider interface {
	Register(email, password, confirmPassword string) (models.User, error)
	Login(email, password string) (models.User, error)
	Logout() error
	CurrentUser() (models.User, bool, error)
	UpdateCurrentUser(update models.UserUpdate) (models.User, error)
	ConnectAccount(platform, username string) (models.User, error)
	DisconnectAccount(platform string) (models.User, error)
}

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AccountService enforces the record invariants and mediates all access to
// the user collection. The store contract is single-writer, so every
// operation holds the mutex for its full read-modify-write cycle.
type AccountService struct {
	mu    sync.Mutex
	store *store.UserStore
}

// NewAccountService creates a new AccountService over the given store.
func NewAccountService(s *store.UserStore) *AccountService {
	return &AccountService{store: s}
}

// Register validates the input, appends a new defaulted record and persists
// the collection. It never starts a session; the caller logs in separately.
func (s *AccountService) Register(email, password, confirmPassword string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if email == "" || password == "" || confirmPassword == "" {
		return models.User{}, apperrors.New(apperrors.CodeValidation, "all fields are required")
	}
	if len(password) < minPasswordLength {
		return models.User{}, apperrors.New(apperrors.CodeValidation, "password must be at least 8 characters long")
	}
	if password != confirmPassword {
		return models.User{}, apperrors.New(apperrors.CodeValidation, "passwords do not match")
	}
	if !emailPattern.MatchString(email) {
		return models.User{}, apperrors.New(apperrors.CodeValidation, "please enter a valid email address")
	}

	users, err := s.store.ListUsers()
	if err != nil {
		return models.User{}, err
	}
	for _, existing := range users {
		if existing.Email == email {
			return models.User{}, apperrors.New(apperrors.CodeConflict, "an account with this email already exists")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, apperrors.Wrap(apperrors.CodeInternal, err, "hash password")
	}

	user := models.NewUser(email, string(hash))
	users = append(users, user)
	if err := s.store.SaveUsers(users); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login verifies the credentials and points the session at the matching
// record. A failed login leaves any prior session untouched. The error does
// not distinguish an unknown email from a wrong password.
func (s *AccountService) Login(email, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if email == "" || password == "" {
		return models.User{}, apperrors.New(apperrors.CodeValidation, "email and password are required")
	}

	users, err := s.store.ListUsers()
	if err != nil {
		return models.User{}, err
	}
	for _, user := range users {
		if user.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			break
		}
		if err := s.store.SetSession(email); err != nil {
			return models.User{}, err
		}
		return user, nil
	}
	return models.User{}, apperrors.New(apperrors.CodeAuth, "invalid email or password")
}

// Logout clears the session pointer unconditionally; it is idempotent.
func (s *AccountService) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ClearSession()
}

// CurrentUser resolves the session pointer against the collection. No
// session, or a session whose email no longer resolves, reads as logged out
// rather than an error.
func (s *AccountService) CurrentUser() (models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, _, ok, err := s.resolveSession()
	return user, ok, err
}

// UpdateCurrentUser applies a shallow top-level merge to the session's record
// and persists the collection. Validation and lookup precede the write, so a
// failure leaves the collection unmodified.
func (s *AccountService) UpdateCurrentUser(update models.UserUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateCurrentUser(update)
}

// ConnectAccount marks the platform connected for the current user,
// replacing the stored accounts map through the usual merge path.
func (s *AccountService) ConnectAccount(platform, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setAccount(platform, models.Account{Connected: true, Username: username})
}

// DisconnectAccount marks the platform disconnected for the current user.
func (s *AccountService) DisconnectAccount(platform string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setAccount(platform, models.Account{})
}

// resolveSession finds the session's record and its index. Callers hold the
// mutex.
func (s *AccountService) resolveSession() (models.User, int, bool, error) {
	email, ok, err := s.store.GetSession()
	if err != nil {
		return models.User{}, 0, false, err
	}
	if !ok {
		return models.User{}, 0, false, nil
	}

	users, err := s.store.ListUsers()
	if err != nil {
		return models.User{}, 0, false, err
	}
	for i, user := range users {
		if user.Email == email {
			return user, i, true, nil
		}
	}
	return models.User{}, 0, false, nil
}

func (s *AccountService) updateCurrentUser(update models.UserUpdate) (models.User, error) {
	email, ok, err := s.store.GetSession()
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, apperrors.New(apperrors.CodeNotFound, "no active session")
	}

	users, err := s.store.ListUsers()
	if err != nil {
		return models.User{}, err
	}
	for i := range users {
		if users[i].Email != email {
			continue
		}
		users[i].Apply(update)
		if err := s.store.SaveUsers(users); err != nil {
			return models.User{}, err
		}
		return users[i], nil
	}
	return models.User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
}

func (s *AccountService) setAccount(platform string, account models.Account) (models.User, error) {
	if !models.IsSupportedPlatform(platform) {
		return models.User{}, apperrors.New(apperrors.CodeValidation, "unsupported platform")
	}

	user, _, ok, err := s.resolveSession()
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, apperrors.New(apperrors.CodeNotFound, "no active session")
	}

	accounts := make(map[string]models.Account, len(user.ConnectedAccounts))
	for name, a := range user.ConnectedAccounts {
		accounts[name] = a
	}
	accounts[platform] = account
	return s.updateCurrentUser(models.UserUpdate{ConnectedAccounts: accounts})
}
