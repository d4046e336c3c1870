package services

import (
	"log/slog"

	"cineops/proj/internal/lib/validator"
	"cineops/proj/internal/services/lists"
	"cineops/proj/internal/services/movies"
	"cineops/proj/internal/services/reviews"
	"cineops/proj/internal/services/users"
	"cineops/proj/internal/storage/postgres/models"
)

type Services struct {
	Users   *users.UserService
	Movies  *movies.MovieService
	Reviews *reviews.ReviewService
	Lists   *lists.ListService
}

func New(log *slog.Logger, m *models.Models) *Services {
	v := validator.New()
	return &Services{
		Users:   users.New(log, v, m.User, m.Favorite, m.Review, m.List),
		Movies:  movies.New(log, v, m.Movie, m.Genre, m.Review),
		Reviews: reviews.New(log, v, m.Review),
		Lists:   lists.New(log, v, m.List, m.ListItem, m.Transactor),
	}
}
