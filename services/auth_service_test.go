package services

import (
	"testing"
	"time"

	"no-homers/database"
	"no-homers/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededAuth(t *testing.T) (*AuthService, *database.MemoryStore) {
	t.Helper()
	store := database.NewMemoryStore()
	users, err := ParseSeedUsers([]string{"griff:griff@example.com", "Sam:sam@example.com"}, []string{"GRIFF"})
	require.NoError(t, err)
	require.NoError(t, NewUserSeeder(store).SeedUsers(users, "hunter22"))
	return NewAuthService(store, "test-secret", time.Hour), store
}

func TestAuthLoginAndToken(t *testing.T) {
	auth, _ := seededAuth(t)

	resp, err := auth.Login("GRIFF@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "GRIFF", resp.User.Name)
	assert.True(t, resp.User.IsAdmin)
	assert.Empty(t, resp.User.Password)

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "no-homers", claims.Issuer)

	user, err := auth.GetUserFromToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "GRIFF", user.Picker())
}

func TestAuthLoginFailures(t *testing.T) {
	auth, _ := seededAuth(t)

	_, err := auth.Login("griff@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login("nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthRejectsForeignToken(t *testing.T) {
	auth, store := seededAuth(t)
	other := NewAuthService(store, "another-secret", time.Hour)

	user, err := store.GetUserByEmail("sam@example.com")
	require.NoError(t, err)
	token, err := other.GenerateToken(user)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)

	expired := NewAuthService(store, "test-secret", time.Nanosecond)
	token, err = expired.GenerateToken(user)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthChangePassword(t *testing.T) {
	auth, store := seededAuth(t)
	user, err := store.GetUserByEmail("sam@example.com")
	require.NoError(t, err)

	assert.Error(t, auth.ChangePassword(user.ID, "hunter22", "short"))
	assert.ErrorIs(t, auth.ChangePassword(user.ID, "wrong", "longenough"), ErrInvalidCredentials)
	require.NoError(t, auth.ChangePassword(user.ID, "hunter22", "longenough"))

	_, err = auth.Login("sam@example.com", "longenough")
	assert.NoError(t, err)
}

func TestParseSeedUsers(t *testing.T) {
	users, err := ParseSeedUsers([]string{" griff : griff@example.com"}, []string{"griff"})
	require.NoError(t, err)
	assert.Equal(t, []SeedUser{{Name: "GRIFF", Email: "griff@example.com", Admin: true}}, users)

	_, err = ParseSeedUsers([]string{"griff"}, nil)
	assert.Error(t, err)
}

func TestSeedUsersIsIdempotent(t *testing.T) {
	store := database.NewMemoryStore()
	seeder := NewUserSeeder(store)
	users := []SeedUser{{Name: "SAM", Email: "sam@example.com"}}

	require.NoError(t, seeder.SeedUsers(users, "hunter22"))
	users[0].Admin = true
	require.NoError(t, seeder.SeedUsers(users, "hunter22"))

	all, err := store.GetAllUsers()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsAdmin)

	assert.Error(t, seeder.SeedUsers(users, ""))

	names, err := NewUserService(store).Pickers()
	require.NoError(t, err)
	assert.Equal(t, []string{"SAM"}, names)

	_, err = store.GetUserByID(99)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
