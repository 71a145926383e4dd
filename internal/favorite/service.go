package favorite

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/empleoya/internal"
	favoriteDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/favorite"
	"github.com/frahmantamala/empleoya/internal/core/identity"
)

var (
	ErrNotFound         = internal.NewNotFoundError("favorito no encontrado", internal.ErrCodeFavoriteNotFound)
	ErrOfferNotFound    = internal.NewNotFoundError("oferta no encontrada", internal.ErrCodeOfferNotFound)
	ErrAlreadyFavorited = internal.NewValidationFieldError("oferta_id", "ya en favoritos", internal.ErrCodeAlreadyFavorited)
)

type RepositoryAPI interface {
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*favoriteDatamodel.Favorite, int64, error)
	GetByID(ctx context.Context, id int64) (*favoriteDatamodel.Favorite, error)
	Exists(ctx context.Context, userID, offerID int64) (bool, error)
	OfferExists(ctx context.Context, offerID int64) (bool, error)
	Create(ctx context.Context, f *favoriteDatamodel.Favorite) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, p identity.Principal, limit, offset int) ([]*Favorite, int64, error) {
	rows, total, err := s.repo.ListByUser(ctx, p.UserID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*Favorite, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

// Add bookmarks an offer; a repeated bookmark is rejected.
func (s *Service) Add(ctx context.Context, p identity.Principal, dto AddFavoriteDTO) (*Favorite, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.repo.OfferExists(ctx, dto.OfferID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOfferNotFound
	}

	exists, err := s.repo.Exists(ctx, p.UserID, dto.OfferID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyFavorited
	}

	row := &favoriteDatamodel.Favorite{UserID: p.UserID, OfferID: dto.OfferID}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("favorite added", "favorite_id", row.ID, "user_id", p.UserID, "offer_id", dto.OfferID)

	row, err = s.repo.GetByID(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// Remove deletes a bookmark owned by the caller. Bookmarks of other users
// are reported as missing.
func (s *Service) Remove(ctx context.Context, p identity.Principal, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if row.UserID != p.UserID {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
