package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/empleoya/internal"
	notificationDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/notification"
	"github.com/frahmantamala/empleoya/internal/core/identity"
)

var ErrNotFound = internal.NewNotFoundError("notificación no encontrada", internal.ErrCodeNotificationNotFound)

type RepositoryAPI interface {
	List(ctx context.Context, userID int64, read *bool, limit, offset int) ([]*notificationDatamodel.Notification, int64, error)
	GetByID(ctx context.Context, id int64) (*notificationDatamodel.Notification, error)
	Create(ctx context.Context, n *notificationDatamodel.Notification) error
	Update(ctx context.Context, n *notificationDatamodel.Notification) error
	Delete(ctx context.Context, id int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAllRead(ctx context.Context, userID int64, now time.Time) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// List returns the caller's notifications, newest first, optionally filtered on leida.
func (s *Service) List(ctx context.Context, p identity.Principal, read *bool, limit, offset int) ([]*Notification, int64, error) {
	rows, total, err := s.repo.List(ctx, p.UserID, read, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

func (s *Service) UnreadCount(ctx context.Context, p identity.Principal) (*UnreadCount, error) {
	n, err := s.repo.CountUnread(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return &UnreadCount{Count: n}, nil
}

func (s *Service) MarkRead(ctx context.Context, p identity.Principal, id int64) (*Notification, error) {
	row, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if MarkRead(row, s.now()) {
		if err := s.repo.Update(ctx, row); err != nil {
			return nil, err
		}
	}
	return FromDataModel(row), nil
}

func (s *Service) MarkAllRead(ctx context.Context, p identity.Principal) (*MarkAllResult, error) {
	n, err := s.repo.MarkAllRead(ctx, p.UserID, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.Info("notifications marked read", "user_id", p.UserID, "count", n)
	return &MarkAllResult{Updated: n}, nil
}

func (s *Service) Delete(ctx context.Context, p identity.Principal, id int64) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Notify stores a notification for userID.
func (s *Service) Notify(ctx context.Context, userID int64, kind, title, message, link string) (*Notification, error) {
	row := &notificationDatamodel.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if link != "" {
		row.Link = &link
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}
	s.logger.Info("notification created", "notification_id", row.ID, "user_id", userID, "tipo", kind)
	return FromDataModel(row), nil
}

func (s *Service) owned(ctx context.Context, p identity.Principal, id int64) (*notificationDatamodel.Notification, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.UserID != p.UserID {
		return nil, ErrNotFound
	}
	return row, nil
}
