package users

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"cineops/proj/internal/domain/fields"
	"cineops/proj/internal/domain/models"
	"cineops/proj/internal/lib/validator"
	"cineops/proj/internal/schema"
	"cineops/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	byID   map[int64]*models.User
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[int64]*models.User)}
}

func conflict(constraint string) error {
	return &storage.ConstraintError{Kind: storage.ErrConflict, Table: schema.TableUsers, Constraint: constraint, Err: errors.New("duplicate")}
}

func (f *fakeUsers) checkUnique(u *models.User) error {
	for _, other := range f.byID {
		if other.ID == u.ID {
			continue
		}
		switch {
		case other.FirebaseID == u.FirebaseID:
			return conflict(schema.UniqueUsersFirebaseID)
		case other.Email == u.Email:
			return conflict(schema.UniqueUsersEmail)
		case other.Username == u.Username:
			return conflict(schema.UniqueUsersUsername)
		}
	}
	return nil
}

func (f *fakeUsers) Insert(ctx context.Context, u *models.User) (*models.User, error) {
	if err := f.checkUnique(u); err != nil {
		return nil, err
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsers) Get(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByFirebaseID(ctx context.Context, firebaseID string) (*models.User, error) {
	for _, u := range f.byID {
		if u.FirebaseID == firebaseID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUsers) Update(ctx context.Context, u *models.User) (*models.User, error) {
	if _, ok := f.byID[u.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	if err := f.checkUnique(u); err != nil {
		return nil, err
	}
	cp := *u
	f.byID[u.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsers) SetStatus(ctx context.Context, id int64, status fields.UserStatus) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u.Status = status
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeFavorites struct {
	users  *fakeUsers
	movies map[int64]bool
	favs   []models.UserFavorite
}

func (f *fakeFavorites) Insert(ctx context.Context, userID, movieID int64) (*models.UserFavorite, error) {
	if _, ok := f.users.byID[userID]; !ok {
		return nil, &storage.ConstraintError{
			Kind:       storage.ErrForeignKey,
			Constraint: schema.ForeignKeyName(schema.TableUserFavorites, "user_id"),
		}
	}
	if !f.movies[movieID] {
		return nil, &storage.ConstraintError{
			Kind:       storage.ErrForeignKey,
			Constraint: schema.ForeignKeyName(schema.TableUserFavorites, "movie_id"),
		}
	}
	for _, fav := range f.favs {
		if fav.UserID == userID && fav.MovieID == movieID {
			return nil, &storage.ConstraintError{Kind: storage.ErrConflict, Constraint: schema.UniqueFavoriteUserMovie}
		}
	}
	fav := models.UserFavorite{ID: int64(len(f.favs) + 1), UserID: userID, MovieID: movieID}
	f.favs = append(f.favs, fav)
	return &fav, nil
}

func (f *fakeFavorites) Delete(ctx context.Context, userID, movieID int64) error {
	for i, fav := range f.favs {
		if fav.UserID == userID && fav.MovieID == movieID {
			f.favs = append(f.favs[:i], f.favs[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeFavorites) ForUser(ctx context.Context, userID int64) ([]models.UserFavorite, error) {
	var out []models.UserFavorite
	for _, fav := range f.favs {
		if fav.UserID == userID {
			out = append(out, fav)
		}
	}
	return out, nil
}

type noReviews struct{}

func (noReviews) ForUser(ctx context.Context, userID int64) ([]models.Review, error) {
	return []models.Review{{UserID: userID, MovieID: 1, Rating: 4}}, nil
}

type noLists struct{}

func (noLists) ForUser(ctx context.Context, userID int64) ([]models.List, error) {
	return nil, nil
}

func newService() (*UserService, *fakeUsers) {
	users := newFakeUsers()
	favs := &fakeFavorites{users: users, movies: map[int64]bool{1: true, 2: true}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, validator.New(), users, favs, noReviews{}, noLists{}), users
}

var alice = CreateParams{FirebaseID: "fb-alice", Email: "alice@example.com", DisplayName: "Alice", Username: "alice"}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	s, _ := newService()

	u, err := s.Create(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, fields.UserStatusActive, u.Status)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := s.Create(ctx, CreateParams{FirebaseID: "fb-2", Email: "other@example.com", DisplayName: "A", Username: "alice"})
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
		assert.Contains(t, err.Error(), "username")
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := s.Create(ctx, CreateParams{Email: "x@example.com"})
		var vErr *validator.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Errors, "firebase_id")
		assert.Contains(t, vErr.Errors, "username")
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	s, _ := newService()
	u, err := s.Create(ctx, alice)
	require.NoError(t, err)
	bob, err := s.Create(ctx, CreateParams{FirebaseID: "fb-bob", Email: "bob@example.com", DisplayName: "Bob", Username: "bob"})
	require.NoError(t, err)

	bio := "cinephile"
	updated, err := s.UpdateProfile(ctx, u.ID, UpdateParams{Bio: &bio, PreferencesGenres: []int32{18}})
	require.NoError(t, err)
	assert.Equal(t, "cinephile", *updated.Bio)
	assert.Equal(t, []int32{18}, updated.PreferencesGenres)
	assert.Equal(t, "alice", updated.Username)

	taken := "alice@example.com"
	_, err = s.UpdateProfile(ctx, bob.ID, UpdateParams{Email: &taken})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = s.UpdateProfile(ctx, 999, UpdateParams{Bio: &bio})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStatusTransitions(t *testing.T) {
	ctx := context.Background()
	s, _ := newService()
	u, err := s.Create(ctx, alice)
	require.NoError(t, err)

	_, err = s.Reactivate(ctx, u.ID)
	assert.ErrorIs(t, err, ErrInvalidStatusChange)

	suspended, err := s.Suspend(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, fields.UserStatusSuspended, suspended.Status)

	deleted, err := s.SoftDelete(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, fields.UserStatusDeleted, deleted.Status)

	_, err = s.Suspend(ctx, u.ID)
	assert.ErrorIs(t, err, ErrInvalidStatusChange)

	active, err := s.Reactivate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, fields.UserStatusActive, active.Status)
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	s, _ := newService()
	u, err := s.Create(ctx, alice)
	require.NoError(t, err)

	_, err = s.AddFavorite(ctx, u.ID, 1)
	require.NoError(t, err)
	_, err = s.AddFavorite(ctx, u.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadyFavorite)
	_, err = s.AddFavorite(ctx, u.ID, 42)
	assert.ErrorIs(t, err, ErrMovieNotFound)
	_, err = s.AddFavorite(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrUserNotFound)

	favs, err := s.Favorites(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	require.NoError(t, s.RemoveFavorite(ctx, u.ID, 1))
	assert.ErrorIs(t, s.RemoveFavorite(ctx, u.ID, 1), ErrFavoriteNotFound)

	_, err = s.Favorites(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, users := newService()
	u, err := s.Create(ctx, alice)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, u.ID))
	assert.Empty(t, users.byID)
	assert.ErrorIs(t, s.Delete(ctx, u.ID), ErrUserNotFound)

	_, err = s.Reviews(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
