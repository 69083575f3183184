package notification

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type notificationModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;index:idx_notifications_user_unread"`
	Type      string    `gorm:"column:type"`
	Title     string    `gorm:"column:title"`
	Content   *string   `gorm:"column:content"`
	Priority  string    `gorm:"column:priority"`
	IsRead    bool      `gorm:"column:is_read;index:idx_notifications_user_unread"`
	Data      []byte    `gorm:"column:data"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (notificationModel) TableName() string { return "notifications" }

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&notificationModel{})
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func toDomainNotification(m notificationModel) Notification {
	var content string
	if m.Content != nil {
		content = *m.Content
	}

	var data map[string]any
	if len(m.Data) > 0 {
		_ = json.Unmarshal(m.Data, &data)
	}

	return Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      Type(m.Type),
		Title:     m.Title,
		Content:   content,
		Priority:  Priority(m.Priority),
		IsRead:    m.IsRead,
		Data:      data,
		CreatedAt: m.CreatedAt,
	}
}

func (r *Repository) Create(ctx context.Context, n *Notification) error {
	var raw []byte
	if n.Data != nil {
		b, err := json.Marshal(n.Data)
		if err != nil {
			return err
		}
		raw = b
	}

	var content *string
	if n.Content != "" {
		c := n.Content
		content = &c
	}

	m := notificationModel{
		UserID:   n.UserID,
		Type:     string(n.Type),
		Title:    n.Title,
		Content:  content,
		Priority: string(n.Priority),
		IsRead:   n.IsRead,
		Data:     raw,
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}

	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64, limit int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []notificationModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	var unread int64
	err = r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainNotification(m))
	}
	return out, unread, nil
}

// MarkRead flips a single notification; the user filter stops cross-user reads.
func (r *Repository) MarkRead(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
