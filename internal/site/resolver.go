package site

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/mo"

	"github.com/John-Robertt/vmscrape/internal/extract"
)

// DefaultSearchSelectors 组合成一个选择器组使用：命中顺序是文档顺序，不是列表顺序。
var DefaultSearchSelectors = []string{"h2 a", "h3 a", ".entry-title a"}

// Resolver 把搜索关键字解析为影片页 URL。
type Resolver struct {
	BaseURL   string
	Selectors []string
	Fetcher   Fetcher
}

func (r Resolver) baseURL() string {
	u := strings.TrimSpace(r.BaseURL)
	if u == "" {
		return DefaultBaseURL
	}
	return u
}

// SearchURL 返回 query 对应的搜索页地址。
func (r Resolver) SearchURL(query string) string {
	return r.baseURL() + "?s=" + url.QueryEscape(query)
}

// Resolve 抓取搜索页并返回第一个结果的绝对 URL；没有结果时返回 None（err=nil）。
func (r Resolver) Resolve(ctx context.Context, query string) (mo.Option[string], error) {
	if r.Fetcher == nil {
		return mo.None[string](), errors.New("fetcher 不能为空")
	}
	b, err := r.Fetcher.Fetch(ctx, r.SearchURL(query))
	if err != nil {
		return mo.None[string](), err
	}
	href, err := FindResultHref(b, r.Selectors)
	if err != nil {
		return mo.None[string](), err
	}
	if href == "" {
		return mo.None[string](), nil
	}
	abs, ok := extract.ResolveURL(r.baseURL(), href)
	if !ok {
		return mo.None[string](), nil
	}
	return mo.Some(abs), nil
}

// FindResultHref 返回搜索页中第一个命中元素的 href（原样，未解析）。
// 第一个命中元素没有 href 时返回空串，不继续找后面的元素。
func FindResultHref(searchHTML []byte, selectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(searchHTML))
	if err != nil {
		return "", err
	}
	sel := strings.Join(nonEmpty(selectors, DefaultSearchSelectors), ", ")
	href, _ := doc.Find(sel).First().Attr("href")
	return strings.TrimSpace(href), nil
}
