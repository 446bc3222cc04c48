package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
)

// DefaultTimeout 是单次抓取（含读 body）的总超时。
const DefaultTimeout = 20 * time.Second

// browserAgents 是未配置 UserAgent 时轮换使用的浏览器 UA。
var browserAgents = []string{
	"Mozilla/5.0 (Linux; Android 12; Mobile) Chrome/124 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
}

// Transport 给每个请求补 UA，并在代理模式下逐请求关闭连接。
// 每个请求只发一次，失败原样返回。
type Transport struct {
	Base *http.Transport

	// UserAgent 非空时固定使用，否则从 browserAgents 随机选一个。
	UserAgent string
	// CloseConn 为 true 时设置 Request.Close，不复用连接。
	CloseConn bool
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.agent())
	}
	r.Close = r.Close || t.CloseConn
	return t.Base.RoundTrip(r)
}

func (t *Transport) agent() string {
	if ua := strings.TrimSpace(t.UserAgent); ua != "" {
		return ua
	}
	return lo.Sample(browserAgents)
}

// Options 是构造抓取 client 的参数（来自 config.HTTP）。
type Options struct {
	Timeout   time.Duration
	ProxyURL  string
	UserAgent string
}

// NewClient 构造站点抓取用的 client。配置了代理时所有请求走代理且不复用连接；
// Timeout<=0 时使用 DefaultTimeout。
func NewClient(opts Options) (*http.Client, error) {
	base := &http.Transport{
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	}
	tr := &Transport{Base: base, UserAgent: opts.UserAgent}

	if raw := strings.TrimSpace(opts.ProxyURL); raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, err
		}
		base.Proxy = http.ProxyURL(u)
		base.DisableKeepAlives = true
		tr.CloseConn = true
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Transport: tr, Timeout: timeout}, nil
}
