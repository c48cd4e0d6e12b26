package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SydAsim/Visaguardai-Upwork/internal/apperrors"
	"github.com/SydAsim/Visaguardai-Upwork/internal/models"
	"github.com/SydAsim/Visaguardai-Upwork/internal/storage"
	"github.com/SydAsim/Visaguardai-Upwork/internal/store"
)

func newAccountService(t *testing.T) (*AccountService, *store.UserStore) {
	t.Helper()
	userStore := store.New(storage.NewMemory())
	return NewAccountService(userStore), userStore
}

func registerAndLogin(t *testing.T, svc *AccountService, email, password string) models.User {
	t.Helper()
	_, err := svc.Register(email, password, password)
	require.NoError(t, err)
	user, err := svc.Login(email, password)
	require.NoError(t, err)
	return user
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newAccountService(t)

	created, err := svc.Register("a@b.com", "password1", "password1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", created.Email)
	assert.False(t, created.IsPaid)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password1")))

	user, err := svc.Login("a@b.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAccountService(t)

	cases := []struct {
		name                     string
		email, password, confirm string
	}{
		{"empty email", "", "password1", "password1"},
		{"empty password", "a@b.com", "", ""},
		{"empty confirmation", "a@b.com", "password1", ""},
		{"short password", "a@b.com", "short", "short"},
		{"mismatched confirmation", "a@b.com", "password1", "password2"},
		{"email without at", "ab.com", "password1", "password1"},
		{"email without tld", "a@bcom", "password1", "password1"},
		{"email with spaces", "a b@c.com", "password1", "password1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(tc.email, tc.password, tc.confirm)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
		})
	}

	// Nothing was persisted by any of the failed attempts.
	_, ok, err := svc.CurrentUser()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, userStore := newAccountService(t)

	_, err := svc.Register("a@b.com", "password1", "password1")
	require.NoError(t, err)

	_, err = svc.Register("a@b.com", "different1", "different1")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))

	users, err := userStore.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1, "collection length unchanged on conflict")
}

func TestRegisterEmailMatchIsCaseSensitive(t *testing.T) {
	svc, userStore := newAccountService(t)

	_, err := svc.Register("a@b.com", "password1", "password1")
	require.NoError(t, err)

	// Exact-match uniqueness: a different casing registers as a new record.
	_, err = svc.Register("A@b.com", "password1", "password1")
	require.NoError(t, err)

	users, err := userStore.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestRegisterDoesNotStartSession(t *testing.T) {
	svc, _ := newAccountService(t)

	_, err := svc.Register("a@b.com", "password1", "password1")
	require.NoError(t, err)

	_, ok, err := svc.CurrentUser()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newAccountService(t)
	_, err := svc.Register("a@b.com", "password1", "password1")
	require.NoError(t, err)

	_, err = svc.Login("", "password1")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = svc.Login("a@b.com", "")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	wrongPassword, err1 := svc.Login("a@b.com", "wrong-password")
	unknownEmail, err2 := svc.Login("nobody@b.com", "password1")

	// The two failure modes are indistinguishable to avoid leaking which
	// emails have accounts.
	require.Error(t, err1)
	require.Error(t, err2)
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err1))
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err2))
	assert.Equal(t, err1.Error(), err2.Error())
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestFailedLoginKeepsPriorSession(t *testing.T) {
	svc, _ := newAccountService(t)
	registerAndLogin(t, svc, "a@b.com", "password1")

	_, err := svc.Register("b@c.com", "password2", "password2")
	require.NoError(t, err)

	_, err = svc.Login("b@c.com", "wrong-password")
	require.Error(t, err)

	user, ok, err := svc.CurrentUser()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", user.Email, "prior session untouched")
}

func TestLoginSetsSession(t *testing.T) {
	svc, _ := newAccountService(t)
	registerAndLogin(t, svc, "a@b.com", "password1")

	user, ok, err := svc.CurrentUser()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", user.Email)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _ := newAccountService(t)
	registerAndLogin(t, svc, "a@b.com", "password1")

	require.NoError(t, svc.Logout())
	_, ok, err := svc.CurrentUser()
	require.NoError(t, err)
	assert.False(t, ok)

	// Logging out again with no session is still fine.
	require.NoError(t, svc.Logout())
}

func TestCurrentUserWithDanglingSession(t *testing.T) {
	svc, userStore := newAccountService(t)
	registerAndLogin(t, svc, "a@b.com", "password1")

	// Simulate a session whose email no longer resolves.
	require.NoError(t, userStore.SaveUsers(nil))

	_, ok, err := svc.CurrentUser()
	require.NoError(t, err, "a dangling session reads as logged out, not an error")
	assert.False(t, ok)
}

func TestUpdateCurrentUserShallowMerge(t *testing.T) {
	svc, _ := newAccountService(t)
	registerAndLogin(t, svc, "a@b.com", "password1")

	_, err := svc.ConnectAccount("instagram", "ada")
	require.NoError(t, err)

	updated, err := svc.UpdateCurrentUser(models.UserUpdate{
		Profile: &models.Profile{Name: "Ada", Country: "UK", University: "Cambridge"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Profile.Name)
	assert.True(t, updated.ConnectedAccounts["instagram"].Connected, "accounts untouched by profile update")

	// Supplying Profile again replaces the whole nested object.
	updated, err = svc.UpdateCurrentUser(models.UserUpdate{
		Profile: &models.Profile{Name: "Grace"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.Profile{Name: "Grace"}, updated.Profile)

	paid := true
	updated, err = svc.UpdateCurrentUser(models.UserUpdate{IsPaid: &paid})
	require.NoError(t, err)
	assert.True(t, updated.IsPaid)
	assert.Equal(t, models.Profile{Name: "Grace"}, updated.Profile, "profile unchanged")
}

func TestUpdateCurrentUserWithoutSession(t *testing.T) {
	svc, userStore := newAccountService(t)
	_, err := svc.Register("a@b.com", "password1", "password1")
	require.NoError(t, err)

	before, err := userStore.ListUsers()
	require.NoError(t, err)

	paid := true
	_, err = svc.UpdateCurrentUser(models.UserUpdate{IsPaid: &paid})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	after, err := userStore.ListUsers()
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed update must not alter the collection")
}

func TestConnectAndDisconnectAccount(t *testing.T) {
	svc, _ := newAccountService(t)
	registerAndLogin(t, svc, "a@b.com", "password1")

	user, err := svc.ConnectAccount("tiktok", "dancer")
	require.NoError(t, err)
	assert.True(t, user.ConnectedAccounts["tiktok"].Connected)
	assert.Equal(t, "dancer", user.ConnectedAccounts["tiktok"].Username)

	user, err = svc.DisconnectAccount("tiktok")
	require.NoError(t, err)
	assert.False(t, user.ConnectedAccounts["tiktok"].Connected)
	assert.Empty(t, user.ConnectedAccounts["tiktok"].Username)
}

func TestConnectAccountUnsupportedPlatform(t *testing.T) {
	svc, _ := newAccountService(t)
	registerAndLogin(t, svc, "a@b.com", "password1")

	_, err := svc.ConnectAccount("myspace", "oldtimer")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestConnectAccountWithoutSession(t *testing.T) {
	svc, _ := newAccountService(t)

	_, err := svc.ConnectAccount("instagram", "ghost")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestExampleScenario(t *testing.T) {
	svc, _ := newAccountService(t)

	created, err := svc.Register("a@b.com", "password1", "password1")
	require.NoError(t, err)
	assert.False(t, created.IsPaid)

	_, err = svc.Register("a@b.com", "password1", "password1")
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))

	_, err = svc.Login("a@b.com", "wrong")
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err))

	_, err = svc.Login("a@b.com", "password1")
	require.NoError(t, err)

	user, ok, err := svc.CurrentUser()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", user.Email)

	paid := true
	_, err = svc.UpdateCurrentUser(models.UserUpdate{IsPaid: &paid})
	require.NoError(t, err)

	user, ok, err = svc.CurrentUser()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, user.IsPaid)
	assert.Equal(t, models.Profile{}, user.Profile, "profile unchanged")
}
