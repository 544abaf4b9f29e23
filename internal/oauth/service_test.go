// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package oauth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgirard/praxia/internal/auth"
	"github.com/mgirard/praxia/internal/oauth"
	"github.com/mgirard/praxia/internal/platform/apperr"
	"github.com/mgirard/praxia/internal/platform/sec"
)

// # Test Doubles

type memoryUserRepository struct {
	users map[string]*auth.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: map[string]*auth.User{}}
}

func (repo *memoryUserRepository) Create(_ context.Context, user *auth.User) error {
	for _, existing := range repo.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return apperr.Conflict("An account with this email already exists")
		}
	}
	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

func (repo *memoryUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repo.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByGoogleID(_ context.Context, googleID string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.GoogleID != nil && *user.GoogleID == googleID {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) Update(_ context.Context, user *auth.User) error {
	if _, ok := repo.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

// stubProvider returns a canned profile for any code.
type stubProvider struct {
	profile *oauth.Profile
	err     error
}

func (provider *stubProvider) AuthURL(state string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (provider *stubProvider) FetchProfile(_ context.Context, _ string) (*oauth.Profile, error) {
	return provider.profile, provider.err
}

// memoryStateStore is a single-use in-memory [oauth.StateStore].
type memoryStateStore struct {
	states map[string]bool
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: map[string]bool{}}
}

func (store *memoryStateStore) Save(_ context.Context, state string) error {
	store.states[state] = true
	return nil
}

func (store *memoryStateStore) Consume(_ context.Context, state string) error {
	if !store.states[state] {
		return oauth.ErrStateMismatch
	}
	delete(store.states, state)
	return nil
}

type recordingLinker struct {
	calls []string
}

func (linker *recordingLinker) LinkUnowned(_ context.Context, userID, email string) error {
	linker.calls = append(linker.calls, userID+"|"+email)
	return nil
}

type staticTokens struct{}

func (staticTokens) GenerateAccessToken(userID, _ string, _ []string, _ time.Duration) (string, error) {
	return "token-for-" + userID, nil
}

func googleProfile() *oauth.Profile {
	return &oauth.Profile{
		ExternalID: "google-sub-1",
		Email:      "marie@example.com",
		FirstName:  "Marie",
		LastName:   "Curie",
	}
}

// # Resolution Precedence

/*
TestService_Resolve_ExistingLinkWins verifies that a subject-ID match returns
the linked account without touching anything.
*/
func TestService_Resolve_ExistingLinkWins(t *testing.T) {
	repo := newMemoryUserRepository()
	linker := &recordingLinker{}
	service := oauth.NewService(&stubProvider{}, newMemoryStateStore(), repo, linker, staticTokens{})

	googleID := "google-sub-1"
	require.NoError(t, repo.Create(context.Background(), &auth.User{
		ID:         "user-1",
		Email:      "old-address@example.com",
		GoogleID:   &googleID,
		IsVerified: true,
	}))

	user, err := service.Resolve(context.Background(), googleProfile())
	require.NoError(t, err)

	// The link, not the profile email, decides the account.
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "old-address@example.com", user.Email)
	assert.Empty(t, linker.calls)
}

/*
TestService_Resolve_EmailMatchLinks verifies that an email match links the
existing account instead of duplicating it.
*/
func TestService_Resolve_EmailMatchLinks(t *testing.T) {
	repo := newMemoryUserRepository()
	service := oauth.NewService(&stubProvider{}, newMemoryStateStore(), repo, &recordingLinker{}, staticTokens{})

	require.NoError(t, repo.Create(context.Background(), &auth.User{
		ID:         "user-1",
		Email:      "Marie@Example.com",
		FirstName:  "Marie",
		LastName:   "Curie",
		IsVerified: false,
	}))

	user, err := service.Resolve(context.Background(), googleProfile())
	require.NoError(t, err)

	assert.Equal(t, "user-1", user.ID)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-sub-1", *user.GoogleID)
	assert.True(t, user.IsVerified)
	assert.Len(t, repo.users, 1, "no duplicate account may be created")

	stored := repo.users["user-1"]
	require.NotNil(t, stored.GoogleID)
	assert.True(t, stored.IsVerified)
}

/*
TestService_Resolve_CreatesVerifiedAccount verifies first-time Google sign-in
provisioning: verified account, base role, unusable password, backfill.
*/
func TestService_Resolve_CreatesVerifiedAccount(t *testing.T) {
	repo := newMemoryUserRepository()
	linker := &recordingLinker{}
	service := oauth.NewService(&stubProvider{}, newMemoryStateStore(), repo, linker, staticTokens{})

	user, err := service.Resolve(context.Background(), googleProfile())
	require.NoError(t, err)

	assert.Equal(t, "marie@example.com", user.Email)
	assert.Equal(t, "Marie", user.FirstName)
	assert.True(t, user.IsVerified)
	assert.Contains(t, user.RoleSet(), sec.RoleUser)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-sub-1", *user.GoogleID)

	// The stored credential can never satisfy a bcrypt comparison.
	assert.NotEmpty(t, user.PasswordHash)
	assert.False(t, sec.CheckPasswordHash(user.PasswordHash, user.PasswordHash))

	require.Len(t, linker.calls, 1)
	assert.Equal(t, user.ID+"|marie@example.com", linker.calls[0])
}

// # Flow

/*
TestService_BeginComplete walks the state handshake end to end against the
stubbed provider.
*/
func TestService_BeginComplete(t *testing.T) {
	repo := newMemoryUserRepository()
	states := newMemoryStateStore()
	service := oauth.NewService(&stubProvider{profile: googleProfile()}, states, repo, &recordingLinker{}, staticTokens{})

	consentURL, err := service.Begin(context.Background())
	require.NoError(t, err)
	require.Contains(t, consentURL, "state=")

	state := consentURL[strings.Index(consentURL, "state=")+len("state="):]

	session, err := service.Complete(context.Background(), state, "any-code")
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+session.User.ID, session.Token)
	assert.Equal(t, "marie@example.com", session.User.Email)
}

/*
TestService_Complete_StateMismatch verifies that an unknown or reused state
aborts the flow before any provider call.
*/
func TestService_Complete_StateMismatch(t *testing.T) {
	repo := newMemoryUserRepository()
	states := newMemoryStateStore()
	service := oauth.NewService(&stubProvider{profile: googleProfile()}, states, repo, &recordingLinker{}, staticTokens{})

	_, err := service.Complete(context.Background(), "never-issued", "any-code")
	assert.ErrorIs(t, err, oauth.ErrStateMismatch)

	// A consumed state cannot complete a second callback.
	require.NoError(t, states.Save(context.Background(), "s1"))
	_, err = service.Complete(context.Background(), "s1", "any-code")
	require.NoError(t, err)

	_, err = service.Complete(context.Background(), "s1", "any-code")
	assert.ErrorIs(t, err, oauth.ErrStateMismatch)
}
