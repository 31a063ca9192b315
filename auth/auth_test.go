package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterconnect/bandstore/clock"
	"github.com/masterconnect/bandstore/localstore"
	"github.com/masterconnect/bandstore/models"
)

type fakeProvider struct {
	users      map[string]models.User // keyed by email
	signIns    int
	signOuts   int
	resets     []string
	signUpMeta Metadata
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{users: map[string]models.User{}}
}

func (p *fakeProvider) SignIn(_ context.Context, email, password string) (models.User, error) {
	p.signIns++
	u, ok := p.users[email]
	if !ok || password != "correct" {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (p *fakeProvider) SignUp(_ context.Context, email, _ string, meta Metadata) (models.User, error) {
	p.signUpMeta = meta
	u := models.User{ID: "prov-" + email, Email: email, Username: meta.Username, FullName: meta.FullName, Role: models.RoleUser}
	p.users[email] = u
	return u, nil
}

func (p *fakeProvider) SignOut(context.Context) error {
	p.signOuts++
	return nil
}

func (p *fakeProvider) ResetPassword(_ context.Context, email string) error {
	p.resets = append(p.resets, email)
	return nil
}

type fakeRoles struct {
	admins map[string]bool
	err    error
}

func (r *fakeRoles) HasAdminRole(_ context.Context, userID string) (bool, error) {
	return r.admins[userID], r.err
}

func setupAuth(t *testing.T) (*Service, *fakeProvider, *localstore.Store, *localstore.MemMedium) {
	t.Helper()
	medium := localstore.NewMemMedium()
	store := localstore.NewStore(medium, clock.NewStub(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, store.Init())
	provider := newFakeProvider()
	svc := NewService(provider, &fakeRoles{admins: map[string]bool{}}, store, medium, nil)
	return svc, provider, store, medium
}

func TestService_AdminOverrideBypassesProvider(t *testing.T) {
	svc, provider, _, _ := setupAuth(t)
	ctx := context.Background()

	sess, err := svc.SignIn(ctx, localstore.AdminEmail, "Admin123@")
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin)
	assert.Equal(t, localstore.AdminID, sess.User.ID)
	assert.Zero(t, provider.signIns, "the override never reaches the provider")
}

func TestService_AdminOverrideWrongPassword(t *testing.T) {
	svc, provider, _, _ := setupAuth(t)
	ctx := context.Background()

	_, err := svc.SignIn(ctx, localstore.AdminEmail, "guess")
	assert.Error(t, err)
	assert.Equal(t, 1, provider.signIns, "wrong password falls through to the provider")
}

func TestService_SignInPersistsSnapshot(t *testing.T) {
	svc, provider, _, medium := setupAuth(t)
	ctx := context.Background()

	provider.users["bob@b.com"] = models.User{ID: "prov-bob", Email: "bob@b.com", Username: "bob", Role: models.RoleUser}

	sess, err := svc.SignIn(ctx, "bob@b.com", "correct")
	require.NoError(t, err)
	assert.False(t, sess.IsAdmin)

	_, ok, err := medium.Get(localstore.KeyCurrentUser)
	require.NoError(t, err)
	assert.True(t, ok, "session snapshot written")

	current, ok, err := svc.CurrentUser()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "prov-bob", current.ID)
}

func TestService_SignOutClearsSnapshot(t *testing.T) {
	svc, provider, _, _ := setupAuth(t)
	ctx := context.Background()

	_, err := svc.SignIn(ctx, localstore.AdminEmail, "Admin123@")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx))
	_, ok, err := svc.CurrentUser()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, provider.signOuts)
}

func TestService_IsAdmin(t *testing.T) {
	medium := localstore.NewMemMedium()
	store := localstore.NewStore(medium, nil)
	roles := &fakeRoles{admins: map[string]bool{"mod-1": true}}
	svc := NewService(newFakeProvider(), roles, store, medium, nil)
	ctx := context.Background()

	isAdmin, err := svc.IsAdmin(ctx, localstore.AdminID)
	require.NoError(t, err)
	assert.True(t, isAdmin, "seeded admin id short-circuits")

	isAdmin, err = svc.IsAdmin(ctx, "mod-1")
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = svc.IsAdmin(ctx, "someone")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestService_SignInRoleCheckFailureIsNotFatal(t *testing.T) {
	medium := localstore.NewMemMedium()
	store := localstore.NewStore(medium, nil)
	provider := newFakeProvider()
	provider.users["bob@b.com"] = models.User{ID: "prov-bob", Email: "bob@b.com", Role: models.RoleUser}
	roles := &fakeRoles{admins: map[string]bool{}, err: errors.New("roles table unavailable")}
	svc := NewService(provider, roles, store, medium, nil)

	sess, err := svc.SignIn(context.Background(), "bob@b.com", "correct")
	require.NoError(t, err, "a role lookup outage must not block sign-in")
	assert.False(t, sess.IsAdmin)
}

func TestService_SignUpDoesNotTouchLocalStore(t *testing.T) {
	svc, _, store, _ := setupAuth(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "new@b.com", "pw", Metadata{Username: "newbie", FullName: "New Bee"})
	require.NoError(t, err)
	assert.Equal(t, "newbie", u.Username)

	users, err := store.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1, "only the seeded admin; mirrors appear via upsert later")
}

func TestService_CurrentUser_NoSession(t *testing.T) {
	svc, _, _, _ := setupAuth(t)

	_, ok, err := svc.CurrentUser()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_ResetPasswordDelegates(t *testing.T) {
	svc, provider, _, _ := setupAuth(t)

	require.NoError(t, svc.ResetPassword(context.Background(), "bob@b.com"))
	assert.Equal(t, []string{"bob@b.com"}, provider.resets)
}
