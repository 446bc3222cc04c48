package httpx

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError 表示一次抓取失败（超时、连接失败、非 2xx）。
// 上层据此中止当前操作并映射为 fetch_failed，不重试。
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "transport error"
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport 判断 err 链中是否有 *TransportError。
func IsTransport(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// HTTPStatusError 表示站点返回了非 2xx 的 HTTP 状态码。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d location=%s", e.StatusCode, loc)
}
