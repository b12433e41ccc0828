package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-relay/auth"
	"chat-relay/errors"
	"chat-relay/repositories"
)

// fakeUserRepository keeps accounts in a map; enough to exercise the
// service without a real Badger instance.
type fakeUserRepository struct {
	users map[string]repositories.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]repositories.User)}
}

func (f *fakeUserRepository) CreateUser(username, hashedPassword string) (string, error) {
	if _, ok := f.users[username]; ok {
		return "", errors.ErrUserAlreadyExists
	}
	f.users[username] = repositories.User{
		ID:           "id-" + username,
		Username:     username,
		PasswordHash: hashedPassword,
		Roles:        []string{"user"},
	}
	return "id-" + username, nil
}

func (f *fakeUserRepository) GetUserByUsername(username string) (repositories.User, error) {
	user, ok := f.users[username]
	if !ok {
		return repositories.User{}, errors.ErrInvalidCredentials
	}
	return user, nil
}

func newTestService() (IAuthService, *fakeUserRepository) {
	repo := newFakeUserRepository()
	tokens := auth.NewTokenManager([]byte("test-secret"), "chat-relay", time.Hour)
	return NewAuthService(repo, tokens), repo
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	req := require.New(t)
	service, repo := newTestService()

	token, err := service.Register("alice", "ComplexPass123!")
	req.NoError(err)
	req.NotEmpty(token)

	// The stored hash is never the plain password.
	req.NotEqual("ComplexPass123!", repo.users["alice"].PasswordHash)

	token, err = service.Login("alice", "ComplexPass123!")
	req.NoError(err)
	req.NotEmpty(token)
}

func TestAuthService_RegisterRejectsWeakInput(t *testing.T) {
	req := require.New(t)
	service, repo := newTestService()

	_, err := service.Register("alice", "weak")
	req.ErrorIs(err, errors.ErrInvalidRegistration)
	req.Empty(repo.users)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	req := require.New(t)
	service, _ := newTestService()

	_, err := service.Register("alice", "ComplexPass123!")
	req.NoError(err)

	_, err = service.Register("alice", "OtherComplex456?")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestAuthService_LoginFailuresAreGeneric(t *testing.T) {
	req := require.New(t)
	service, _ := newTestService()

	_, err := service.Register("alice", "ComplexPass123!")
	req.NoError(err)

	// Unknown user and wrong password yield the same error.
	_, err = service.Login("nobody", "ComplexPass123!")
	req.ErrorIs(err, errors.ErrInvalidCredentials)

	_, err = service.Login("alice", "WrongPass123!")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}
