package postgres

import (
	"context"
	"errors"
	"time"

	notificationDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/notification"
	"github.com/frahmantamala/empleoya/internal/notification"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.RepositoryAPI {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) List(ctx context.Context, userID int64, read *bool, limit, offset int) ([]*notificationDatamodel.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).Where("usuario_id = ?", userID)
	if read != nil {
		query = query.Where("leida = ?", *read)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []*notificationDatamodel.Notification
	err := query.Order("fecha_creacion DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, total, err
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*notificationDatamodel.Notification, error) {
	var n notificationDatamodel.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notification.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *notificationDatamodel.Notification) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(n).Error
}

func (r *NotificationRepository) Update(ctx context.Context, n *notificationDatamodel.Notification) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(n).Error
}

func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&notificationDatamodel.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("usuario_id = ? AND leida = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAllRead stamps every unread row of the user in one statement.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("usuario_id = ? AND leida = ?", userID, false).
		Updates(map[string]interface{}{"leida": true, "fecha_leida": now})
	return res.RowsAffected, res.Error
}
