package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"famnest/apps/community-service/model"
	"famnest/pkg/database"
)

// reportDAO 举报数据访问实现
type reportDAO struct {
	db *database.PostgreSQL
}

// NewReportDAO 创建举报DAO实例
func NewReportDAO(db *database.PostgreSQL) ReportDAO {
	return &reportDAO{
		db: db,
	}
}

// FileReport 插入举报并在同一事务内重算评论举报计数，
// 避免并发举报下的瞬时少算
func (d *reportDAO) FileReport(ctx context.Context, report *model.Report) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 确认评论存在
		var comment model.Comment
		if err := tx.Select("id").Where("id = ?", report.CommentID).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.ErrCommentNotFound
			}
			return err
		}

		if err := tx.Create(report).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Report{}).
			Where("comment_id = ?", report.CommentID).
			Count(&count).Error; err != nil {
			return err
		}

		return tx.Model(&model.Comment{}).
			Where("id = ?", report.CommentID).
			UpdateColumn("report_count", count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetReportsForComment 获取评论的全部举报记录
func (d *reportDAO) GetReportsForComment(ctx context.Context, commentID int64) ([]*model.Report, error) {
	var reports []*model.Report
	err := d.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Order("created_at ASC").
		Find(&reports).Error
	return reports, err
}

// GetReportedComments 分页获取被举报的评论，举报数多的在前
func (d *reportDAO) GetReportedComments(ctx context.Context, page, pageSize int32) ([]*model.Comment, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.Comment{}).Where("report_count > 0")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = model.DefaultPage
	}
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	if pageSize > model.MaxPageSize {
		pageSize = model.MaxPageSize
	}

	offset := (page - 1) * pageSize
	var comments []*model.Comment
	err := query.Order("report_count DESC, created_at DESC").
		Offset(int(offset)).Limit(int(pageSize)).
		Find(&comments).Error
	return comments, total, err
}
