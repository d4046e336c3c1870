// Package lists manages user lists and the order of the movies in them.
//
// Item positions are 0-based and contiguous after every mutation made here. The store does
// not enforce this, and a movie delete cascading into list_items leaves a gap until the
// next mutation or an explicit Normalize.
package lists

import (
	"context"
	"errors"
	"log/slog"

	"cineops/proj/internal/domain/fields"
	"cineops/proj/internal/domain/models"
	"cineops/proj/internal/lib/validator"
	"cineops/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
)

type ListsStorage interface {
	Insert(ctx context.Context, l *models.List) (*models.List, error)
	Get(ctx context.Context, id int64) (*models.List, error)
	GetForUpdate(ctx context.Context, id int64) (*models.List, error)
	Update(ctx context.Context, l *models.List) (*models.List, error)
	Delete(ctx context.Context, id int64) error
	ForUser(ctx context.Context, userID int64) ([]models.List, error)
}

type ItemsStorage interface {
	Insert(ctx context.Context, listID, movieID int64, position int32) (*models.ListItem, error)
	Delete(ctx context.Context, listID, movieID int64) error
	ForList(ctx context.Context, listID int64) ([]models.ListItem, error)
	SetPositions(ctx context.Context, items []models.ListItem) error
}

type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ListService struct {
	log       *slog.Logger
	validator *govalidator.Validate
	lists     ListsStorage
	items     ItemsStorage
	tx        Transactor
}

func New(log *slog.Logger, validator *govalidator.Validate, lists ListsStorage, items ItemsStorage, tx Transactor) *ListService {
	return &ListService{
		log:       log,
		validator: validator,
		lists:     lists,
		items:     items,
		tx:        tx,
	}
}

type CreateParams struct {
	UserID      int64
	Name        string
	Description *string
	Visibility  fields.ListVisibility
}

// UpdateParams changes only the non-nil fields.
type UpdateParams struct {
	Name        *string
	Description *string
	Visibility  *fields.ListVisibility
}

func (s *ListService) Create(ctx context.Context, params CreateParams) (*models.List, error) {
	const op = "lists.ListService.Create"
	log := s.log.With("op", op, "user_id", params.UserID, "name", params.Name)
	list := &models.List{
		UserID:      params.UserID,
		Name:        params.Name,
		Description: params.Description,
		Visibility:  params.Visibility,
	}
	if list.Visibility == "" {
		list.Visibility = fields.ListVisibilityPrivate
	}
	if err := validator.ValidateStruct(s.validator, list); err != nil {
		log.Info("invalid list", "err", err)
		return nil, err
	}
	created, err := s.lists.Insert(ctx, list)
	if err != nil {
		if errors.Is(err, storage.ErrForeignKey) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return created, nil
}

func (s *ListService) Get(ctx context.Context, id int64) (*models.List, error) {
	const op = "lists.ListService.Get"
	return s.get(ctx, op, id, s.lists.Get)
}

// lock reads the list with its row locked. Call it inside a transaction.
func (s *ListService) lock(ctx context.Context, id int64) (*models.List, error) {
	const op = "lists.ListService.lock"
	return s.get(ctx, op, id, s.lists.GetForUpdate)
}

func (s *ListService) get(ctx context.Context, op string, id int64, read func(context.Context, int64) (*models.List, error)) (*models.List, error) {
	log := s.log.With("op", op, "id", id)
	list, err := read(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("list not found")
			return nil, ErrListNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return list, nil
}

func (s *ListService) owned(ctx context.Context, ownerID, id int64) (*models.List, error) {
	list, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.checkOwner(list, ownerID)
}

// lockOwned is owned with the list row locked for the rest of the transaction.
func (s *ListService) lockOwned(ctx context.Context, ownerID, id int64) (*models.List, error) {
	list, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.checkOwner(list, ownerID)
}

func (s *ListService) checkOwner(list *models.List, ownerID int64) (*models.List, error) {
	if list.UserID != ownerID {
		s.log.Info("not the list owner", "id", list.ID, "user_id", ownerID)
		return nil, ErrNotListOwner
	}
	return list, nil
}

func (s *ListService) Update(ctx context.Context, ownerID, id int64, params UpdateParams) (*models.List, error) {
	const op = "lists.ListService.Update"
	log := s.log.With("op", op, "id", id)
	list, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if params.Name != nil {
		list.Name = *params.Name
	}
	if params.Description != nil {
		list.Description = params.Description
	}
	if params.Visibility != nil {
		list.Visibility = *params.Visibility
	}
	if err := validator.ValidateStruct(s.validator, list); err != nil {
		log.Info("invalid list", "err", err)
		return nil, err
	}
	updated, err := s.lists.Update(ctx, list)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("list not found")
			return nil, ErrListNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

// Delete removes the list and its items. The movies are untouched.
func (s *ListService) Delete(ctx context.Context, ownerID, id int64) error {
	const op = "lists.ListService.Delete"
	log := s.log.With("op", op, "id", id)
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.lists.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("list not found")
			return ErrListNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

// Items returns the list's items in display order.
func (s *ListService) Items(ctx context.Context, id int64) ([]models.ListItem, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	items, err := s.items.ForList(ctx, id)
	if err != nil {
		s.log.Error(err.Error(), "op", "lists.ListService.Items", "id", id)
		return nil, err
	}
	return items, nil
}

// AddMovie appends the movie to the end of the list.
func (s *ListService) AddMovie(ctx context.Context, ownerID, listID, movieID int64) (*models.ListItem, error) {
	const op = "lists.ListService.AddMovie"
	log := s.log.With("op", op, "list_id", listID, "movie_id", movieID)
	var added *models.ListItem
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.lockOwned(ctx, ownerID, listID); err != nil {
			return err
		}
		items, err := s.items.ForList(ctx, listID)
		if err != nil {
			return err
		}
		if err := s.items.SetPositions(ctx, renumber(items)); err != nil {
			return err
		}
		item, err := s.items.Insert(ctx, listID, movieID, int32(len(items)))
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrConflict):
				log.Info("movie already in list")
				return ErrMovieAlreadyInList
			case errors.Is(err, storage.ErrForeignKey):
				log.Info("movie not found")
				return ErrMovieNotFound
			}
			return err
		}
		added = item
		return nil
	})
	if err != nil {
		logUnexpected(log, err)
		return nil, err
	}
	return added, nil
}

// RemoveMovie takes the movie out of the list and closes the gap it leaves.
func (s *ListService) RemoveMovie(ctx context.Context, ownerID, listID, movieID int64) error {
	const op = "lists.ListService.RemoveMovie"
	log := s.log.With("op", op, "list_id", listID, "movie_id", movieID)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.lockOwned(ctx, ownerID, listID); err != nil {
			return err
		}
		if err := s.items.Delete(ctx, listID, movieID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.Info("movie not in list")
				return ErrMovieNotInList
			}
			return err
		}
		items, err := s.items.ForList(ctx, listID)
		if err != nil {
			return err
		}
		return s.items.SetPositions(ctx, renumber(items))
	})
	if err != nil {
		logUnexpected(log, err)
		return err
	}
	return nil
}

// MoveMovie places the movie at position, shifting the items in between. Positions past
// the end move the movie to the end.
func (s *ListService) MoveMovie(ctx context.Context, ownerID, listID, movieID int64, position int) ([]models.ListItem, error) {
	const op = "lists.ListService.MoveMovie"
	log := s.log.With("op", op, "list_id", listID, "movie_id", movieID, "position", position)
	var out []models.ListItem
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.lockOwned(ctx, ownerID, listID); err != nil {
			return err
		}
		items, err := s.items.ForList(ctx, listID)
		if err != nil {
			return err
		}
		from := -1
		for i, item := range items {
			if item.MovieID == movieID {
				from = i
				break
			}
		}
		if from < 0 {
			log.Info("movie not in list")
			return ErrMovieNotInList
		}
		items = move(items, from, position)
		if err := s.items.SetPositions(ctx, renumber(items)); err != nil {
			return err
		}
		out = items
		return nil
	})
	if err != nil {
		logUnexpected(log, err)
		return nil, err
	}
	return out, nil
}

// Normalize rewrites the positions of a list to 0..n-1, keeping the current order.
func (s *ListService) Normalize(ctx context.Context, listID int64) ([]models.ListItem, error) {
	const op = "lists.ListService.Normalize"
	log := s.log.With("op", op, "list_id", listID)
	var out []models.ListItem
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.lock(ctx, listID); err != nil {
			return err
		}
		items, err := s.items.ForList(ctx, listID)
		if err != nil {
			return err
		}
		changed := renumber(items)
		if len(changed) > 0 {
			log.Info("closing position gaps", "changed", len(changed))
		}
		if err := s.items.SetPositions(ctx, changed); err != nil {
			return err
		}
		out = items
		return nil
	})
	if err != nil {
		logUnexpected(log, err)
		return nil, err
	}
	return out, nil
}

// renumber assigns positions 0..n-1 in slice order and returns the items whose position
// changed.
func renumber(items []models.ListItem) []models.ListItem {
	var changed []models.ListItem
	for i := range items {
		if items[i].Position != int32(i) {
			items[i].Position = int32(i)
			changed = append(changed, items[i])
		}
	}
	return changed
}

func move(items []models.ListItem, from, to int) []models.ListItem {
	if to < 0 {
		to = 0
	}
	if to >= len(items) {
		to = len(items) - 1
	}
	item := items[from]
	out := make([]models.ListItem, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	out = append(out[:to], append([]models.ListItem{item}, out[to:]...)...)
	return out
}

var expected = []error{
	ErrListNotFound,
	ErrNotListOwner,
	ErrMovieNotFound,
	ErrMovieAlreadyInList,
	ErrMovieNotInList,
}

func logUnexpected(log *slog.Logger, err error) {
	for _, e := range expected {
		if errors.Is(err, e) {
			return
		}
	}
	log.Error(err.Error())
}
