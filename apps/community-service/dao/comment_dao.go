package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"famnest/apps/community-service/model"
	"famnest/pkg/database"
)

// commentDAO 评论数据访问实现
type commentDAO struct {
	db *database.PostgreSQL
}

// NewCommentDAO 创建评论DAO实例
func NewCommentDAO(db *database.PostgreSQL) CommentDAO {
	return &commentDAO{
		db: db,
	}
}

// CreateComment 创建评论
func (d *commentDAO) CreateComment(ctx context.Context, comment *model.Comment) error {
	return d.db.WithContext(ctx).Create(comment).Error
}

// GetComment 获取评论
func (d *commentDAO) GetComment(ctx context.Context, commentID int64) (*model.Comment, error) {
	var comment model.Comment
	err := d.db.WithContext(ctx).Where("id = ?", commentID).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// UpdateComment 更新评论
func (d *commentDAO) UpdateComment(ctx context.Context, comment *model.Comment) error {
	return d.db.WithContext(ctx).Save(comment).Error
}

// UpdateCommentStatus 更新评论状态
func (d *commentDAO) UpdateCommentStatus(ctx context.Context, commentID int64, status string) error {
	result := d.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", commentID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// GetCommentsBySubject 获取对象下的全部评论，树形组装在service层完成
func (d *commentDAO) GetCommentsBySubject(ctx context.Context, subjectID int64, subjectType string, statuses []string) ([]*model.Comment, error) {
	var comments []*model.Comment
	query := d.db.WithContext(ctx).
		Where("subject_id = ? AND subject_type = ?", subjectID, subjectType)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	// 回复始终按时间正序，根评论排序由service层决定
	err := query.Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// GetRecentByAuthor 获取作者近期评论，用于违规历史评估
func (d *commentDAO) GetRecentByAuthor(ctx context.Context, authorID int64, since time.Time, limit int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := d.db.WithContext(ctx).
		Where("author_id = ? AND created_at >= ?", authorID, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// GetCommentsByStatus 根据状态分页获取评论，审核队列用
func (d *commentDAO) GetCommentsByStatus(ctx context.Context, status string, page, pageSize int32) ([]*model.Comment, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.Comment{}).Where("status = ?", status)

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
	err := query.Order("created_at DESC").Offset(int(offset)).Limit(int(pageSize)).Find(&comments).Error
	return comments, total, err
}
