package usecase_test

import (
	"context"
	"testing"

	"bus-booking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRequest() *request.RegisterRequest {
	return &request.RegisterRequest{
		Username: "ravi_kumar",
		Email:    "ravi@example.com",
		Password: "s3cret-pass",
	}
}

func TestRegister_CreatesCustomer(t *testing.T) {
	env := newTestEnv()

	resp, err := env.service.Auth.Register(context.Background(), registerRequest())

	require.NoError(t, err)
	assert.Equal(t, "ravi_kumar", resp.User.Username)
	assert.Equal(t, "customer", resp.User.Role)
	assert.Empty(t, resp.Token, "registration does not log the user in")

	stored, _ := env.users.FindByEmail(context.Background(), "ravi@example.com")
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash, "password must be stored hashed")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.Auth.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	dup := registerRequest()
	dup.Username = "someone_else"
	_, err = env.service.Auth.Register(context.Background(), dup)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestLogin_ByUsernameAndEmail(t *testing.T) {
	env := newTestEnv()
	_, err := env.service.Auth.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	byUsername, err := env.service.Auth.Login(context.Background(), &request.LoginRequest{
		Username: "ravi_kumar",
		Password: "s3cret-pass",
	}, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, byUsername.Token)
	require.NotNil(t, byUsername.ExpiresAt)

	byEmail, err := env.service.Auth.Login(context.Background(), &request.LoginRequest{
		Username: "ravi@example.com",
		Password: "s3cret-pass",
	}, "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, byEmail.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv()
	_, err := env.service.Auth.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = env.service.Auth.Login(context.Background(), &request.LoginRequest{
		Username: "ravi_kumar",
		Password: "wrong-pass",
	}, "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestLogout_RevokesSession(t *testing.T) {
	env := newTestEnv()
	_, err := env.service.Auth.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	auth, err := env.service.Auth.Login(context.Background(), &request.LoginRequest{
		Username: "ravi_kumar",
		Password: "s3cret-pass",
	}, "", "")
	require.NoError(t, err)

	err = env.service.Auth.Logout(context.Background(), auth.Token)
	require.NoError(t, err)

	session, _ := env.sessions.FindValidSession(context.Background(), auth.Token)
	assert.Nil(t, session, "a revoked session must no longer validate")
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv()
	resp, err := env.service.Auth.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	phone := "9123456780"
	updated, err := env.service.User.UpdateProfile(context.Background(), resp.User.ID, &request.UpdateProfileRequest{
		Phone: &phone,
	})

	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "9123456780", *updated.Phone)
	assert.Equal(t, "ravi_kumar", updated.Username)
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	env := newTestEnv()
	first, err := env.service.Auth.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	second := registerRequest()
	second.Username = "asha_p"
	second.Email = "asha@example.com"
	_, err = env.service.Auth.Register(context.Background(), second)
	require.NoError(t, err)

	taken := "asha_p"
	_, err = env.service.User.UpdateProfile(context.Background(), first.User.ID, &request.UpdateProfileRequest{
		Username: &taken,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
}
