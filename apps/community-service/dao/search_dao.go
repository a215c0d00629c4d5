package dao

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"famnest/apps/community-service/model"
	"famnest/pkg/logger"
)

// searchDAO ElasticSearch评论搜索实现
type searchDAO struct {
	client *elasticsearch.Client
	logger logger.Logger
}

// NewSearchDAO 创建搜索DAO实例
func NewSearchDAO(client *elasticsearch.Client, log logger.Logger) SearchDAO {
	return &searchDAO{
		client: client,
		logger: log,
	}
}

// EnsureIndex 创建评论索引（如果不存在）
func (d *searchDAO) EnsureIndex(ctx context.Context) error {
	existsReq := esapi.IndicesExistsRequest{
		Index: []string{model.CommentIndexName},
	}
	res, err := existsReq.Do(ctx, d.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %v", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	indexConfig := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":           map[string]interface{}{"type": "long"},
				"subject_id":   map[string]interface{}{"type": "long"},
				"subject_type": map[string]interface{}{"type": "keyword"},
				"author_id":    map[string]interface{}{"type": "long"},
				"author_name":  map[string]interface{}{"type": "keyword"},
				"content":      map[string]interface{}{"type": "text"},
				"status":       map[string]interface{}{"type": "keyword"},
				"flags":        map[string]interface{}{"type": "keyword"},
				"created_at":   map[string]interface{}{"type": "date"},
			},
		},
	}

	configJSON, err := json.Marshal(indexConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal index config: %v", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: model.CommentIndexName,
		Body:  bytes.NewReader(configJSON),
	}
	createRes, err := createReq.Do(ctx, d.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	d.logger.Info(ctx, "Comment index created", logger.F("index", model.CommentIndexName))
	return nil
}

// IndexComment 索引评论文档，ID相同则覆盖
func (d *searchDAO) IndexComment(ctx context.Context, comment *model.Comment) error {
	doc := model.CommentDocument{
		ID:          comment.ID,
		SubjectID:   comment.SubjectID,
		SubjectType: comment.SubjectType,
		AuthorID:    comment.AuthorID,
		AuthorName:  comment.AuthorName,
		Content:     comment.Content,
		Status:      comment.Status,
		Flags:       comment.Flags,
		CreatedAt:   comment.CreatedAt,
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %v", err)
	}

	req := esapi.IndexRequest{
		Index:      model.CommentIndexName,
		DocumentID: strconv.FormatInt(comment.ID, 10),
		Body:       bytes.NewReader(docJSON),
	}

	res, err := req.Do(ctx, d.client)
	if err != nil {
		d.logger.Error(ctx, "Failed to index comment",
			logger.F("comment_id", comment.ID),
			logger.F("error", err.Error()))
		return fmt.Errorf("failed to index comment: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index comment: %s", res.String())
	}

	return nil
}

// SearchComments 按关键词搜索评论内容，可按状态过滤
func (d *searchDAO) SearchComments(ctx context.Context, params *model.SearchCommentsParams) ([]*model.CommentDocument, int64, error) {
	must := []map[string]interface{}{
		{
			"match": map[string]interface{}{
				"content": params.Query,
			},
		},
	}
	if params.Status != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{
				"status": params.Status,
			},
		})
	}

	searchBody := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": must,
			},
		},
		"sort": []map[string]interface{}{
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
		"from": (params.Page - 1) * params.PageSize,
		"size": params.PageSize,
	}

	bodyJSON, err := json.Marshal(searchBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal search request: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{model.CommentIndexName},
		Body:  bytes.NewReader(bodyJSON),
	}

	res, err := req.Do(ctx, d.client)
	if err != nil {
		d.logger.Error(ctx, "Failed to execute search",
			logger.F("query", params.Query),
			logger.F("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to execute search: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("search failed: %s", res.String())
	}

	var response struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source model.CommentDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search response: %v", err)
	}

	results := make([]*model.CommentDocument, 0, len(response.Hits.Hits))
	for i := range response.Hits.Hits {
		doc := response.Hits.Hits[i].Source
		results = append(results, &doc)
	}

	return results, response.Hits.Total.Value, nil
}
