package repository

import (
	"context"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
)

type Dialog struct {
	PartnerID   string
	LastMessage int64
}

type MessageRepository interface {
	Create(ctx context.Context, data *entity.Message) error
	// GetConversation returns the messages between a and b whose id is lower
	// than beforeID, newest first. A zero beforeID starts from the newest.
	GetConversation(ctx context.Context, a, b string, beforeID int64, limit int) ([]entity.Message, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entity.Message, error)
	GetDialogs(ctx context.Context, userID string, offset, limit int) ([]Dialog, error)
}

type messageRepository struct{}

func NewMessageRepository() *messageRepository {
	return &messageRepository{}
}

func (r *messageRepository) Create(ctx context.Context, data *entity.Message) error {
	return xcontext.DB(ctx).Omit("Sender", "Recipient").Create(data).Error
}

func (r *messageRepository) GetConversation(
	ctx context.Context, a, b string, beforeID int64, limit int,
) ([]entity.Message, error) {
	tx := xcontext.DB(ctx).
		Where("(sender_id=? AND recipient_id=?) OR (sender_id=? AND recipient_id=?)", a, b, b, a)
	if beforeID > 0 {
		tx = tx.Where("id<?", beforeID)
	}

	var result []entity.Message
	if err := tx.Order("id DESC").Limit(limit).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *messageRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.Message, error) {
	var result []entity.Message
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// GetDialogs returns one row per conversation partner of userID ordered by the
// most recent message.
func (r *messageRepository) GetDialogs(ctx context.Context, userID string, offset, limit int) ([]Dialog, error) {
	partners := xcontext.DB(ctx).Model(&entity.Message{}).
		Select("CASE WHEN sender_id=? THEN recipient_id ELSE sender_id END AS partner_id, id", userID).
		Where("sender_id=? OR recipient_id=?", userID, userID)

	var result []Dialog
	err := xcontext.DB(ctx).
		Table("(?) AS m", partners).
		Select("m.partner_id AS partner_id, MAX(m.id) AS last_message").
		Group("m.partner_id").
		Order("last_message DESC").
		Offset(offset).Limit(limit).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
