// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package contact_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgirard/praxia/internal/auth"
	"github.com/mgirard/praxia/internal/contact"
	"github.com/mgirard/praxia/internal/platform/apperr"
)

// # Test Doubles

// memoryStore is an in-memory [contact.Store] mirroring the SQL semantics:
// case-insensitive email matching and null-guarded linking.
type memoryStore struct {
	requests map[string]*contact.Request
}

func newMemoryStore() *memoryStore {
	return &memoryStore{requests: map[string]*contact.Request{}}
}

func (store *memoryStore) Create(_ context.Context, request *contact.Request) error {
	clone := *request
	store.requests[request.ID] = &clone
	return nil
}

func (store *memoryStore) FindByID(_ context.Context, id string) (*contact.Request, error) {
	if request, ok := store.requests[id]; ok {
		clone := *request
		return &clone, nil
	}
	return nil, apperr.NotFound("Contact request")
}

func (store *memoryStore) ListAll(_ context.Context) ([]*contact.Request, error) {
	return store.sorted(func(*contact.Request) bool { return true }), nil
}

func (store *memoryStore) ListForUser(_ context.Context, userID, email string) ([]*contact.Request, error) {
	return store.sorted(func(request *contact.Request) bool {
		if request.UserID != nil && *request.UserID == userID {
			return true
		}
		return strings.EqualFold(request.Email, email)
	}), nil
}

func (store *memoryStore) LinkUnowned(_ context.Context, userID, email string) error {
	for _, request := range store.requests {
		if request.UserID == nil && strings.EqualFold(request.Email, email) {
			id := userID
			request.UserID = &id
		}
	}
	return nil
}

func (store *memoryStore) sorted(keep func(*contact.Request) bool) []*contact.Request {
	results := []*contact.Request{}
	for _, request := range store.requests {
		if keep(request) {
			clone := *request
			results = append(results, &clone)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results
}

// staticUserFinder resolves a single known account.
type staticUserFinder struct {
	user *auth.User
}

func (finder *staticUserFinder) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if finder.user != nil && strings.EqualFold(finder.user.Email, email) {
		return finder.user, nil
	}
	return nil, apperr.NotFound("User")
}

func validCreateInput() contact.CreateInput {
	return contact.CreateInput{
		FirstName:               "Ana",
		LastName:                "Ruiz",
		Email:                   "ana@example.com",
		ConsultationType:        "Individual therapy",
		ConfidentialityAccepted: true,
	}
}

// # Creation

/*
TestService_Create_LinksToExistingAccount verifies link-on-create when the
submitter already has an account.
*/
func TestService_Create_LinksToExistingAccount(t *testing.T) {
	store := newMemoryStore()
	finder := &staticUserFinder{user: &auth.User{ID: "user-1", Email: "ana@example.com"}}
	service := contact.NewService(store, finder)

	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	require.NotNil(t, created.UserID)
	assert.Equal(t, "user-1", *created.UserID)
	assert.False(t, created.Processed)
	assert.NotEmpty(t, created.ID)
}

/*
TestService_Create_UnknownEmailStaysUnlinked verifies that a submission from
a stranger persists without an owner.
*/
func TestService_Create_UnknownEmailStaysUnlinked(t *testing.T) {
	store := newMemoryStore()
	service := contact.NewService(store, &staticUserFinder{})

	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.Nil(t, created.UserID)
}

/*
TestService_Create_Validation enumerates the form rejection cases.
*/
func TestService_Create_Validation(t *testing.T) {
	longPhone := strings.Repeat("0", 21)

	tests := []struct {
		name   string
		mutate func(*contact.CreateInput)
		field  string
	}{
		{"missing_first_name", func(i *contact.CreateInput) { i.FirstName = "" }, "firstName"},
		{"missing_last_name", func(i *contact.CreateInput) { i.LastName = "" }, "lastName"},
		{"bad_email", func(i *contact.CreateInput) { i.Email = "nope" }, "email"},
		{"unknown_consultation_type", func(i *contact.CreateInput) { i.ConsultationType = "Hypnosis" }, "consultationType"},
		{"confidentiality_not_accepted", func(i *contact.CreateInput) { i.ConfidentialityAccepted = false }, "confidentialityAccepted"},
		{"phone_too_long", func(i *contact.CreateInput) { i.Phone = &longPhone }, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			service := contact.NewService(store, &staticUserFinder{})

			input := validCreateInput()
			tt.mutate(&input)

			_, err := service.Create(context.Background(), input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)

			found := false
			for _, detail := range ae.Details {
				if detail.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "expected a detail for field %q", tt.field)
			assert.Empty(t, store.requests)
		})
	}
}

// # Backfill

/*
TestService_LinkUnowned_Idempotent verifies that running the backfill twice
leaves exactly the same linkage: no duplicates, no reassignment.
*/
func TestService_LinkUnowned_Idempotent(t *testing.T) {
	store := newMemoryStore()
	service := contact.NewService(store, &staticUserFinder{})

	otherOwner := "user-2"
	seed := []*contact.Request{
		{ID: "r1", Email: "ana@example.com", CreatedAt: time.Now().Add(-2 * time.Hour)},
		{ID: "r2", Email: "ANA@example.com", CreatedAt: time.Now().Add(-time.Hour)},
		{ID: "r3", Email: "someone-else@example.com", CreatedAt: time.Now()},
		{ID: "r4", Email: "ana@example.com", UserID: &otherOwner, CreatedAt: time.Now()},
	}
	for _, request := range seed {
		require.NoError(t, store.Create(context.Background(), request))
	}

	require.NoError(t, service.LinkUnowned(context.Background(), "user-1", "ana@example.com"))
	require.NoError(t, service.LinkUnowned(context.Background(), "user-1", "ana@example.com"))

	snapshot := func(id string) *string { return store.requests[id].UserID }

	require.NotNil(t, snapshot("r1"))
	assert.Equal(t, "user-1", *snapshot("r1"))
	require.NotNil(t, snapshot("r2"))
	assert.Equal(t, "user-1", *snapshot("r2"))
	assert.Nil(t, snapshot("r3"))
	// Requests already owned by another account are never reassigned.
	assert.Equal(t, "user-2", *snapshot("r4"))
}

// # History

/*
TestService_ListMine verifies ownership-or-email matching and newest-first
ordering.
*/
func TestService_ListMine(t *testing.T) {
	store := newMemoryStore()
	service := contact.NewService(store, &staticUserFinder{})

	owner := "user-1"
	now := time.Now()
	seed := []*contact.Request{
		{ID: "old", Email: "ana@example.com", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "linked", Email: "legacy@example.com", UserID: &owner, CreatedAt: now.Add(-time.Hour)},
		{ID: "new", Email: "Ana@Example.com", CreatedAt: now},
		{ID: "foreign", Email: "other@example.com", CreatedAt: now},
	}
	for _, request := range seed {
		require.NoError(t, store.Create(context.Background(), request))
	}

	views, err := service.ListMine(context.Background(), "user-1", "ana@example.com")
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, "new", views[0].ID)
	assert.Equal(t, "linked", views[1].ID)
	assert.Equal(t, "old", views[2].ID)
}
