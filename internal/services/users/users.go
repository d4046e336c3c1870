package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cineops/proj/internal/domain/fields"
	"cineops/proj/internal/domain/models"
	"cineops/proj/internal/lib/validator"
	"cineops/proj/internal/schema"
	"cineops/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
)

type UsersStorage interface {
	Insert(ctx context.Context, u *models.User) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByFirebaseID(ctx context.Context, firebaseID string) (*models.User, error)
	Update(ctx context.Context, u *models.User) (*models.User, error)
	SetStatus(ctx context.Context, id int64, status fields.UserStatus) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type FavoritesStorage interface {
	Insert(ctx context.Context, userID, movieID int64) (*models.UserFavorite, error)
	Delete(ctx context.Context, userID, movieID int64) error
	ForUser(ctx context.Context, userID int64) ([]models.UserFavorite, error)
}

type ReviewsReader interface {
	ForUser(ctx context.Context, userID int64) ([]models.Review, error)
}

type ListsReader interface {
	ForUser(ctx context.Context, userID int64) ([]models.List, error)
}

type UserService struct {
	log       *slog.Logger
	validator *govalidator.Validate
	users     UsersStorage
	favorites FavoritesStorage
	reviews   ReviewsReader
	lists     ListsReader
}

func New(
	log *slog.Logger,
	validator *govalidator.Validate,
	users UsersStorage,
	favorites FavoritesStorage,
	reviews ReviewsReader,
	lists ListsReader,
) *UserService {
	return &UserService{
		log:       log,
		validator: validator,
		users:     users,
		favorites: favorites,
		reviews:   reviews,
		lists:     lists,
	}
}

type CreateParams struct {
	FirebaseID        string
	Email             string
	DisplayName       string
	Username          string
	AvatarURL         *string
	Bio               *string
	PreferencesGenres []int32
}

// UpdateParams changes only the non-nil fields.
type UpdateParams struct {
	Email             *string
	DisplayName       *string
	Username          *string
	AvatarURL         *string
	Bio               *string
	PreferencesGenres []int32
}

// conflictField names the unique column behind a users conflict.
func conflictField(err error) string {
	switch {
	case storage.IsConstraint(err, schema.UniqueUsersFirebaseID):
		return "firebase_id"
	case storage.IsConstraint(err, schema.UniqueUsersEmail):
		return "email"
	case storage.IsConstraint(err, schema.UniqueUsersUsername):
		return "username"
	}
	return "unknown"
}

func (s *UserService) Create(ctx context.Context, params CreateParams) (*models.User, error) {
	const op = "users.UserService.Create"
	log := s.log.With("op", op, "firebase_id", params.FirebaseID, "username", params.Username)
	user := &models.User{
		FirebaseID:        params.FirebaseID,
		Email:             params.Email,
		DisplayName:       params.DisplayName,
		Username:          params.Username,
		AvatarURL:         params.AvatarURL,
		Bio:               params.Bio,
		PreferencesGenres: params.PreferencesGenres,
		Status:            fields.UserStatusActive,
	}
	if err := validator.ValidateStruct(s.validator, user); err != nil {
		log.Info("invalid user", "err", err)
		return nil, err
	}
	created, err := s.users.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			field := conflictField(err)
			log.Info("user already exists", "field", field)
			return nil, fmt.Errorf("%w: %s is taken", ErrUserAlreadyExists, field)
		}
		log.Error(err.Error())
		return nil, err
	}
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	const op = "users.UserService.Get"
	log := s.log.With("op", op, "id", id)
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByFirebaseID(ctx context.Context, firebaseID string) (*models.User, error) {
	const op = "users.UserService.GetByFirebaseID"
	log := s.log.With("op", op, "firebase_id", firebaseID)
	user, err := s.users.GetByFirebaseID(ctx, firebaseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id int64, params UpdateParams) (*models.User, error) {
	const op = "users.UserService.UpdateProfile"
	log := s.log.With("op", op, "id", id)
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.DisplayName != nil {
		user.DisplayName = *params.DisplayName
	}
	if params.Username != nil {
		user.Username = *params.Username
	}
	if params.AvatarURL != nil {
		user.AvatarURL = params.AvatarURL
	}
	if params.Bio != nil {
		user.Bio = params.Bio
	}
	if params.PreferencesGenres != nil {
		user.PreferencesGenres = params.PreferencesGenres
	}
	if err := validator.ValidateStruct(s.validator, user); err != nil {
		log.Info("invalid user", "err", err)
		return nil, err
	}
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			field := conflictField(err)
			log.Info("user already exists", "field", field)
			return nil, fmt.Errorf("%w: %s is taken", ErrUserAlreadyExists, field)
		} else if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *UserService) setStatus(ctx context.Context, op string, id int64, from []fields.UserStatus, to fields.UserStatus) (*models.User, error) {
	log := s.log.With("op", op, "id", id, "status", to)
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, st := range from {
		if user.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		log.Info("status change rejected", "current", user.Status)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusChange, user.Status, to)
	}
	updated, err := s.users.SetStatus(ctx, id, to)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *UserService) Suspend(ctx context.Context, id int64) (*models.User, error) {
	return s.setStatus(ctx, "users.UserService.Suspend", id,
		[]fields.UserStatus{fields.UserStatusActive}, fields.UserStatusSuspended)
}

func (s *UserService) Reactivate(ctx context.Context, id int64) (*models.User, error) {
	return s.setStatus(ctx, "users.UserService.Reactivate", id,
		[]fields.UserStatus{fields.UserStatusSuspended, fields.UserStatusDeleted}, fields.UserStatusActive)
}

// SoftDelete flags the account as deleted. Owned rows are kept; use Delete to remove them.
func (s *UserService) SoftDelete(ctx context.Context, id int64) (*models.User, error) {
	return s.setStatus(ctx, "users.UserService.SoftDelete", id,
		[]fields.UserStatus{fields.UserStatusActive, fields.UserStatusSuspended}, fields.UserStatusDeleted)
}

// Delete removes the user and, through the schema cascades, every favorite, review, list
// and list item it owns.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	const op = "users.UserService.Delete"
	log := s.log.With("op", op, "id", id)
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return ErrUserNotFound
		}
		log.Error(err.Error())
		return err
	}
	log.Info("user deleted")
	return nil
}

func (s *UserService) AddFavorite(ctx context.Context, userID, movieID int64) (*models.UserFavorite, error) {
	const op = "users.UserService.AddFavorite"
	log := s.log.With("op", op, "user_id", userID, "movie_id", movieID)
	fav, err := s.favorites.Insert(ctx, userID, movieID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("movie already in favorites")
			return nil, ErrAlreadyFavorite
		case storage.IsConstraint(err, schema.ForeignKeyName(schema.TableUserFavorites, "user_id")):
			log.Info("user not found")
			return nil, ErrUserNotFound
		case errors.Is(err, storage.ErrForeignKey):
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return fav, nil
}

func (s *UserService) RemoveFavorite(ctx context.Context, userID, movieID int64) error {
	const op = "users.UserService.RemoveFavorite"
	log := s.log.With("op", op, "user_id", userID, "movie_id", movieID)
	if err := s.favorites.Delete(ctx, userID, movieID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("favorite not found")
			return ErrFavoriteNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *UserService) Favorites(ctx context.Context, userID int64) ([]models.UserFavorite, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	favs, err := s.favorites.ForUser(ctx, userID)
	if err != nil {
		s.log.Error(err.Error(), "op", "users.UserService.Favorites", "user_id", userID)
		return nil, err
	}
	return favs, nil
}

func (s *UserService) Reviews(ctx context.Context, userID int64) ([]models.Review, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ForUser(ctx, userID)
	if err != nil {
		s.log.Error(err.Error(), "op", "users.UserService.Reviews", "user_id", userID)
		return nil, err
	}
	return reviews, nil
}

func (s *UserService) Lists(ctx context.Context, userID int64) ([]models.List, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	lists, err := s.lists.ForUser(ctx, userID)
	if err != nil {
		s.log.Error(err.Error(), "op", "users.UserService.Lists", "user_id", userID)
		return nil, err
	}
	return lists, nil
}
