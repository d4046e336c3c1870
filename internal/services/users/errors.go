package users

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrMovieNotFound       = errors.New("movie not found")
	ErrAlreadyFavorite     = errors.New("movie is already a favorite")
	ErrFavoriteNotFound    = errors.New("favorite not found")
	ErrInvalidStatusChange = errors.New("invalid status change")
)
