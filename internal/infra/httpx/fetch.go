package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// Fetcher 是 site 包所需的抓取协作者：给定 URL 返回文档文本。
// 任何超时/网络错误/非 2xx 都以 *TransportError 返回，且不重试。
type Fetcher struct {
	Client *http.Client
	Header http.Header // 额外请求头（可选）
}

func (f Fetcher) Fetch(ctx context.Context, u string) ([]byte, error) {
	if f.Client == nil {
		return nil, &TransportError{URL: u, Err: errors.New("http client 不能为空")}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	for k, vs := range f.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{URL: u, Err: &HTTPStatusError{
			URL:        u,
			StatusCode: resp.StatusCode,
			Location:   resp.Header.Get("Location"),
		}}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	return b, nil
}
