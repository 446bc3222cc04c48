package domain

import "errors"

const (
	ErrCodeEmptyQuery  = "empty_query"
	ErrCodeNotFound    = "not_found"
	ErrCodeFetchFailed = "fetch_failed"
	ErrCodeStoreFailed = "store_failed"
	ErrCodeInternal    = "internal"
)

var (
	// ErrEmptyQuery 表示查询为空/全空白；必须在任何网络 I/O 之前拒绝。
	ErrEmptyQuery = errors.New("empty query")
	// ErrNotFound 表示搜索结果中没有匹配的影片页，或尚无 snapshot。
	ErrNotFound = errors.New("not found")
)
