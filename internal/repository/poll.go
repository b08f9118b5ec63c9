package repository

import (
	"context"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PollRepository interface {
	Create(ctx context.Context, poll *entity.Poll, options []entity.PollOption) error
	GetByID(ctx context.Context, id string) (*entity.Poll, error)
	GetByPostID(ctx context.Context, postID string) (*entity.Poll, error)
	GetByPostIDs(ctx context.Context, postIDs []string) ([]entity.Poll, error)
	GetOptions(ctx context.Context, pollID string) ([]entity.PollOption, error)
	GetOptionsByPollIDs(ctx context.Context, pollIDs []string) ([]entity.PollOption, error)
	GetOption(ctx context.Context, id string) (*entity.PollOption, error)
	CreateVote(ctx context.Context, data *entity.PollVote) error
	GetVote(ctx context.Context, userID, pollID string) (*entity.PollVote, error)
	GetVotesByUserID(ctx context.Context, userID string, pollIDs []string) ([]entity.PollVote, error)
	IncreaseVotes(ctx context.Context, optionID string) error
}

type pollRepository struct{}

func NewPollRepository() *pollRepository {
	return &pollRepository{}
}

func (r *pollRepository) Create(ctx context.Context, poll *entity.Poll, options []entity.PollOption) error {
	if err := xcontext.DB(ctx).Omit("Post").Create(poll).Error; err != nil {
		return err
	}

	if len(options) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Omit("Poll").Create(&options).Error
}

func (r *pollRepository) GetByID(ctx context.Context, id string) (*entity.Poll, error) {
	var result entity.Poll
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *pollRepository) GetByPostID(ctx context.Context, postID string) (*entity.Poll, error) {
	var result entity.Poll
	if err := xcontext.DB(ctx).Take(&result, "post_id=?", postID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *pollRepository) GetByPostIDs(ctx context.Context, postIDs []string) ([]entity.Poll, error) {
	var result []entity.Poll
	if err := xcontext.DB(ctx).Find(&result, "post_id IN (?)", postIDs).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pollRepository) GetOptions(ctx context.Context, pollID string) ([]entity.PollOption, error) {
	return r.GetOptionsByPollIDs(ctx, []string{pollID})
}

func (r *pollRepository) GetOptionsByPollIDs(ctx context.Context, pollIDs []string) ([]entity.PollOption, error) {
	var result []entity.PollOption
	err := xcontext.DB(ctx).
		Where("poll_id IN (?)", pollIDs).
		Order("position ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pollRepository) GetOption(ctx context.Context, id string) (*entity.PollOption, error) {
	var result entity.PollOption
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// CreateVote returns ErrDuplicateRecord if the user already voted in the poll.
func (r *pollRepository) CreateVote(ctx context.Context, data *entity.PollVote) error {
	return createIgnoreConflict(xcontext.DB(ctx).Omit("User", "Poll", "Option"), data)
}

func (r *pollRepository) GetVote(ctx context.Context, userID, pollID string) (*entity.PollVote, error) {
	var result entity.PollVote
	err := xcontext.DB(ctx).Take(&result, "user_id=? AND poll_id=?", userID, pollID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *pollRepository) GetVotesByUserID(
	ctx context.Context, userID string, pollIDs []string,
) ([]entity.PollVote, error) {
	var result []entity.PollVote
	err := xcontext.DB(ctx).Find(&result, "user_id=? AND poll_id IN (?)", userID, pollIDs).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pollRepository) IncreaseVotes(ctx context.Context, optionID string) error {
	return singleRow(xcontext.DB(ctx).
		Model(&entity.PollOption{}).
		Where("id=?", optionID).
		Update("votes", gorm.Expr("votes+1")))
}
