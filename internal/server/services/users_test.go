package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/carshowroom/internal/common"
	"github.com/dmitrijs2005/carshowroom/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *fakeUsersRepo) {
	t.Helper()
	repo := newFakeUsersRepo()
	return NewUserService(nil, &fakeRepoManager{u: repo}, testConfig()), repo
}

func TestRegister_Success(t *testing.T) {
	s, repo := newUserService(t)

	sess, err := s.Register(context.Background(), " alice ", " Alice@X.com ", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "alice", sess.User.Username)
	assert.Equal(t, "alice@x.com", sess.User.Email)
	assert.NotEqual(t, "secret1", repo.byEmail["alice@x.com"].PasswordHash)

	id, err := auth.GetUserIDFromToken(sess.Token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, id)
}

func TestRegister_Duplicate(t *testing.T) {
	s, _ := newUserService(t)
	_, err := s.Register(context.Background(), "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = s.Register(context.Background(), "alice2", "A@x.com", "secret2")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name, username, email, password, want string
	}{
		{"blank username", "  ", "a@x.com", "secret1", "Username is required"},
		{"missing email", "alice", "", "secret1", "Email is required"},
		{"bad email", "alice", "not-an-email", "secret1", "Email is not valid"},
		{"short password", "alice", "a@x.com", "123", "Password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newUserService(t)

			_, err := s.Register(context.Background(), tt.username, tt.email, tt.password)

			var in *InputError
			require.ErrorAs(t, err, &in)
			assert.Equal(t, tt.want, in.Message)
			assert.ErrorIs(t, err, common.ErrorValidation)
			assert.Empty(t, repo.byID)
		})
	}
}

func TestRegister_RepoError(t *testing.T) {
	s, repo := newUserService(t)
	repo.err = errors.New("db down")

	_, err := s.Register(context.Background(), "alice", "a@x.com", "secret1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error creating user")
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestLogin(t *testing.T) {
	s, _ := newUserService(t)
	reg, err := s.Register(context.Background(), "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	sess, err := s.Login(context.Background(), "A@X.COM", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, sess.User.ID)
	assert.NotEmpty(t, sess.Token)

	_, err = s.Login(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(context.Background(), "ghost@x.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(context.Background(), "", "secret1")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestLogin_RepoError(t *testing.T) {
	s, repo := newUserService(t)
	repo.err = errors.New("db down")

	_, err := s.Login(context.Background(), "a@x.com", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthenticate(t *testing.T) {
	s, repo := newUserService(t)
	sess, err := s.Register(context.Background(), "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	id, err := s.Authenticate(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, id)

	_, err = s.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	expired, err := auth.GenerateToken(sess.User.ID, []byte("k"), -time.Minute)
	require.NoError(t, err)
	_, err = s.Authenticate(context.Background(), expired)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	delete(repo.byID, sess.User.ID)
	_, err = s.Authenticate(context.Background(), sess.Token)
	assert.ErrorIs(t, err, common.ErrInvalidToken, "tokens of removed users are rejected")
}
