package dao

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"famnest/apps/community-service/model"
)

const auditCollection = "moderation_audit_log"

// auditLogDAO 审核日志数据访问实现，只提供追加和读取
type auditLogDAO struct {
	db *mongo.Database
}

// NewAuditLogDAO 创建审核日志DAO实例
func NewAuditLogDAO(db *mongo.Database) AuditLogDAO {
	return &auditLogDAO{
		db: db,
	}
}

// Append 追加审核日志条目
func (d *auditLogDAO) Append(ctx context.Context, entry *model.AuditLogEntry) error {
	collection := d.db.Collection(auditCollection)
	_, err := collection.InsertOne(ctx, entry)
	return err
}

// ListForComment 按时间正序获取某条评论的审核日志
func (d *auditLogDAO) ListForComment(ctx context.Context, commentID int64) ([]*model.AuditLogEntry, error) {
	collection := d.db.Collection(auditCollection)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{"comment_id": commentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.AuditLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListRecent 按时间倒序获取最近的审核日志
func (d *auditLogDAO) ListRecent(ctx context.Context, limit int64) ([]*model.AuditLogEntry, error) {
	collection := d.db.Collection(auditCollection)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.AuditLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
