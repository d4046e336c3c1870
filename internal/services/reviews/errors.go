package reviews

import "errors"

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("user already reviewed this movie")
	ErrUserOrMovieNotFound = errors.New("user or movie not found")
	ErrNotReviewAuthor     = errors.New("review belongs to another user")
)
