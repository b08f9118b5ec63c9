package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
)

type ReportRepository interface {
	// Create returns ErrDuplicateRecord if the reporter has a pending report
	// on the same target.
	Create(ctx context.Context, data *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Report, error)
	GetList(ctx context.Context, status entity.ReportStatus, offset, limit int) ([]entity.Report, error)
	Resolve(ctx context.Context, id string, status entity.ReportStatus, resolverID string) error
}

type reportRepository struct{}

func NewReportRepository() *reportRepository {
	return &reportRepository{}
}

func (r *reportRepository) Create(ctx context.Context, data *entity.Report) error {
	return createIgnoreConflict(xcontext.DB(ctx).Omit("Reporter"), data)
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	var result entity.Report
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *reportRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Report, error) {
	var result entity.Report
	if err := forUpdate(xcontext.DB(ctx)).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *reportRepository) GetList(
	ctx context.Context, status entity.ReportStatus, offset, limit int,
) ([]entity.Report, error) {
	tx := xcontext.DB(ctx)
	if status != "" {
		tx = tx.Where("status=?", status)
	}

	var result []entity.Report
	err := tx.Order("created_at ASC").Offset(offset).Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Resolve moves a pending report to status. It returns ErrRecordNotFound if
// the report does not exist or was already resolved.
func (r *reportRepository) Resolve(
	ctx context.Context, id string, status entity.ReportStatus, resolverID string,
) error {
	return singleRow(xcontext.DB(ctx).
		Model(&entity.Report{}).
		Where("id=? AND status=?", id, entity.ReportPending).
		Updates(map[string]any{
			"status":      status,
			"pending_key": sql.NullString{},
			"resolved_by": sql.NullString{Valid: true, String: resolverID},
			"resolved_at": sql.NullTime{Valid: true, Time: time.Now()},
		}))
}
