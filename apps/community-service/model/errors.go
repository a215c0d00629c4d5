package model

import "errors"

// 业务错误，handler层通过errors.Is映射为HTTP状态码
var (
	// 参数校验错误
	ErrEmptyContent      = errors.New("评论内容不能为空")
	ErrContentTooLong    = errors.New("评论内容过长")
	ErrInvalidSubject    = errors.New("评论对象无效")
	ErrInvalidReason     = errors.New("举报原因无效")
	ErrDetailsRequired   = errors.New("举报原因为其他时必须填写补充说明")
	ErrDetailsTooLong    = errors.New("举报补充说明过长")
	ErrDepthExceeded     = errors.New("回复层级超过上限")
	ErrInvalidStatus     = errors.New("评论状态无效")
	ErrInvalidAuthor     = errors.New("作者ID无效")

	// 权限错误
	ErrNotCommentAuthor = errors.New("无权限操作他人评论")

	// 资源错误
	ErrCommentNotFound = errors.New("评论不存在")
	ErrParentNotFound  = errors.New("父评论不存在")
)
