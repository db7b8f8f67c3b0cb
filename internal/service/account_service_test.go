package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/repository"
	"github.com/pkoziol/bookshare/internal/utils"
)

type fakeUserRepo struct {
	users   map[uint64]model.User
	byLogin map[string]uint64
	grants  map[uint64][]uint64
	nextID  uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]model.User{}, byLogin: map[string]uint64{}, grants: map[uint64][]uint64{}, nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) (*model.User, error) {
	login := strings.ToLower(u.Login)
	if _, taken := r.byLogin[login]; taken {
		return nil, repository.ErrDuplicate
	}
	out := *u
	out.ID = r.nextID
	out.Login = login
	out.Email = strings.ToLower(u.Email)
	r.nextID++
	r.users[out.ID] = out
	r.byLogin[login] = out.ID
	return &out, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByLogin(_ context.Context, login string) (*model.User, error) {
	id, ok := r.byLogin[strings.ToLower(login)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(context.Background(), id)
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) SetEnabled(_ context.Context, id uint64, enabled bool) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Enabled = enabled
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uint64, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint64) error {
	if u, ok := r.users[id]; ok {
		delete(r.byLogin, u.Login)
		delete(r.users, id)
	}
	return nil
}

func (r *fakeUserRepo) GrantRole(_ context.Context, userID, roleID uint64) error {
	r.grants[userID] = append(r.grants[userID], roleID)
	return nil
}

type fakeRoleRepo struct {
	byName map[string]model.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{byName: map[string]model.Role{
		model.RoleUser:  {ID: 1, Name: model.RoleUser},
		model.RoleAdmin: {ID: 2, Name: model.RoleAdmin},
	}}
}

func (r *fakeRoleRepo) Create(_ context.Context, role *model.Role) (*model.Role, error) {
	r.byName[role.Name] = *role
	out := *role
	return &out, nil
}

func (r *fakeRoleRepo) Update(_ context.Context, role *model.Role) (*model.Role, error) {
	r.byName[role.Name] = *role
	out := *role
	return &out, nil
}

func (r *fakeRoleRepo) GetByID(_ context.Context, id uint64) (*model.Role, error) {
	for _, role := range r.byName {
		if role.ID == id {
			out := role
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRoleRepo) GetByName(_ context.Context, name string) (*model.Role, error) {
	role, ok := r.byName[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &role, nil
}

func (r *fakeRoleRepo) GetAll(_ context.Context) ([]model.Role, error) {
	out := make([]model.Role, 0, len(r.byName))
	for _, role := range r.byName {
		out = append(out, role)
	}
	return out, nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, _ uint64) error { return nil }
func (r *fakeRoleRepo) EnsureDefaults(_ context.Context) error   { return nil }

type fakeTokenRepo struct {
	byToken map[string]model.EmailVerificationToken
	nextID  uint64
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byToken: map[string]model.EmailVerificationToken{}, nextID: 1}
}

func (r *fakeTokenRepo) Create(_ context.Context, t *model.EmailVerificationToken) (*model.EmailVerificationToken, error) {
	out := *t
	out.ID = r.nextID
	r.nextID++
	r.byToken[out.Token] = out
	return &out, nil
}

func (r *fakeTokenRepo) GetByToken(_ context.Context, token string) (*model.EmailVerificationToken, error) {
	t, ok := r.byToken[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *fakeTokenRepo) Delete(_ context.Context, id uint64) error {
	for token, t := range r.byToken {
		if t.ID == id {
			delete(r.byToken, token)
		}
	}
	return nil
}

func (r *fakeTokenRepo) SweepExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeMailer struct {
	sent []string
	fail error
}

func (m *fakeMailer) SendVerification(to, link string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, to+" "+link)
	return nil
}

func newAccountFixture() (*fakeUserRepo, *fakeTokenRepo, *fakeMailer, AccountService) {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	mail := &fakeMailer{}
	svc := NewAccountService(users, newFakeRoleRepo(), tokens, mail, AccountConfig{
		BcryptCost: 4,
		VerifyTTL:  time.Hour,
		BaseURL:    "http://localhost:8080",
	}, testLogger())
	return users, tokens, mail, svc
}

func register(t *testing.T, svc AccountService) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterParams{
		Name:     "Jan",
		LastName: "Kowalski",
		Login:    "jkowalski",
		Email:    "jan@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterCreatesDisabledUserWithDefaultRole(t *testing.T) {
	users, tokens, mail, svc := newAccountFixture()

	user := register(t, svc)

	assert.False(t, user.Enabled)
	assert.Equal(t, []uint64{1}, users.grants[user.ID])
	assert.Len(t, tokens.byToken, 1)
	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0], "/v1/auth/verify?token=")
}

func TestRegisterDuplicateLogin(t *testing.T) {
	_, _, _, svc := newAccountFixture()
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterParams{
		Name: "Inny", LastName: "Gosc", Login: "JKowalski",
		Email: "other@example.com", Password: "whatever-8",
	})
	assert.ErrorIs(t, err, ErrLoginTaken)
}

func TestRegisterSucceedsWhenMailFails(t *testing.T) {
	_, _, mail, svc := newAccountFixture()
	mail.fail = assert.AnError

	user := register(t, svc)
	assert.NotZero(t, user.ID)
}

func TestVerifyEmailEnablesUserAndConsumesToken(t *testing.T) {
	users, tokens, _, svc := newAccountFixture()
	user := register(t, svc)

	var raw string
	for token := range tokens.byToken {
		raw = token
	}

	verified, err := svc.VerifyEmail(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, verified.Enabled)
	assert.Empty(t, tokens.byToken)
	assert.True(t, users.users[user.ID].Enabled)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	_, tokens, _, svc := newAccountFixture()
	register(t, svc)

	for raw, token := range tokens.byToken {
		token.Expires = time.Now().UTC().Add(-time.Minute)
		tokens.byToken[raw] = token

		_, err := svc.VerifyEmail(context.Background(), raw)
		assert.ErrorIs(t, err, ErrTokenExpired)
	}
}

func TestAuthenticateRejectsUnverifiedAccount(t *testing.T) {
	_, _, _, svc := newAccountFixture()
	register(t, svc)

	_, err := svc.Authenticate(context.Background(), "jkowalski", "s3cret-pass")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthenticateAfterVerification(t *testing.T) {
	_, tokens, _, svc := newAccountFixture()
	register(t, svc)
	for raw := range tokens.byToken {
		_, err := svc.VerifyEmail(context.Background(), raw)
		require.NoError(t, err)
	}

	user, err := svc.Authenticate(context.Background(), "jkowalski", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "jkowalski", user.Login)

	_, err = svc.Authenticate(context.Background(), "jkowalski", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	users, _, _, svc := newAccountFixture()
	user := register(t, svc)

	err := svc.ChangePassword(context.Background(), user.ID, "wrong-old", "new-pass-123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), user.ID, "s3cret-pass", "new-pass-123")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(users.users[user.ID].PasswordHash, "new-pass-123"))
}
