package reviews

import (
	"context"
	"errors"
	"log/slog"

	"cineops/proj/internal/domain/models"
	"cineops/proj/internal/lib/validator"
	"cineops/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
)

type ReviewStorage interface {
	Insert(ctx context.Context, userID, movieID int64, rating float64, body *string) (*models.Review, error)
	Get(ctx context.Context, id int64) (*models.Review, error)
	Update(ctx context.Context, id int64, rating float64, body *string) (*models.Review, error)
	Delete(ctx context.Context, id int64) error
	ForMovie(ctx context.Context, movieID int64) ([]models.Review, error)
	ForUser(ctx context.Context, userID int64) ([]models.Review, error)
}

type ReviewService struct {
	log       *slog.Logger
	validator *govalidator.Validate
	storage   ReviewStorage
}

func New(log *slog.Logger, validator *govalidator.Validate, storage ReviewStorage) *ReviewService {
	return &ReviewService{
		log:       log,
		validator: validator,
		storage:   storage,
	}
}

// Create stores the single review a user may leave on a movie.
func (s *ReviewService) Create(ctx context.Context, userID, movieID int64, rating float64, body *string) (*models.Review, error) {
	const op = "reviews.ReviewService.Create"
	log := s.log.With("op", op, "user_id", userID, "movie_id", movieID, "rating", rating)
	review := &models.Review{UserID: userID, MovieID: movieID, Rating: rating, Body: body}
	if err := validator.ValidateStruct(s.validator, review); err != nil {
		log.Info("invalid review", "err", err)
		return nil, err
	}
	created, err := s.storage.Insert(ctx, userID, movieID, rating, body)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("review already exists")
			return nil, ErrReviewAlreadyExists
		case errors.Is(err, storage.ErrForeignKey):
			log.Info("user or movie not found")
			return nil, ErrUserOrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return created, nil
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*models.Review, error) {
	const op = "reviews.ReviewService.Get"
	log := s.log.With("op", op, "id", id)
	review, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return review, nil
}

// Update rewrites the rating and body of a review owned by userID.
func (s *ReviewService) Update(ctx context.Context, userID, id int64, rating float64, body *string) (*models.Review, error) {
	const op = "reviews.ReviewService.Update"
	log := s.log.With("op", op, "id", id, "user_id", userID)
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		log.Info("not the author")
		return nil, ErrNotReviewAuthor
	}
	review.Rating, review.Body = rating, body
	if err := validator.ValidateStruct(s.validator, review); err != nil {
		log.Info("invalid review", "err", err)
		return nil, err
	}
	updated, err := s.storage.Update(ctx, id, rating, body)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, userID, id int64) error {
	const op = "reviews.ReviewService.Delete"
	log := s.log.With("op", op, "id", id, "user_id", userID)
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		log.Info("not the author")
		return ErrNotReviewAuthor
	}
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return ErrReviewNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *ReviewService) ForMovie(ctx context.Context, movieID int64) ([]models.Review, error) {
	reviews, err := s.storage.ForMovie(ctx, movieID)
	if err != nil {
		s.log.Error(err.Error(), "op", "reviews.ReviewService.ForMovie", "movie_id", movieID)
		return nil, err
	}
	return reviews, nil
}

func (s *ReviewService) ForUser(ctx context.Context, userID int64) ([]models.Review, error) {
	reviews, err := s.storage.ForUser(ctx, userID)
	if err != nil {
		s.log.Error(err.Error(), "op", "reviews.ReviewService.ForUser", "user_id", userID)
		return nil, err
	}
	return reviews, nil
}
