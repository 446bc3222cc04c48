package site

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/vmscrape/internal/classify"
	"github.com/John-Robertt/vmscrape/internal/domain"
	"github.com/John-Robertt/vmscrape/internal/extract"
)

// PageSelectors 描述影片页各字段的定位方式。零值字段使用默认值。
type PageSelectors struct {
	// Title 按优先级尝试，取第一个非空文本。
	Title []string
	// SummaryContainers 按优先级尝试，容器内取第一个足够长的 <p>。
	SummaryContainers []string
	Screenshots       string
	// MaxScreenshots 超出 (0, domain.MaxScreenshots] 时按 domain.MaxScreenshots 处理。
	MaxScreenshots int
	MinSummaryLen  int
}

func DefaultPageSelectors() PageSelectors {
	return PageSelectors{
		// 部分页面只有 <h2> 作为标题，h2 作为 h1、title 之后的最后回退。
		Title:             []string{"h1", "title", "h2"},
		SummaryContainers: []string{"article", ".post-body", ".entry-content"},
		Screenshots:       ".post-body img, .entry-content img",
		MaxScreenshots:    domain.MaxScreenshots,
		MinSummaryLen:     30,
	}
}

func (p PageSelectors) withDefaults() PageSelectors {
	def := DefaultPageSelectors()
	p.Title = nonEmpty(p.Title, def.Title)
	p.SummaryContainers = nonEmpty(p.SummaryContainers, def.SummaryContainers)
	if strings.TrimSpace(p.Screenshots) == "" {
		p.Screenshots = def.Screenshots
	}
	if p.MaxScreenshots <= 0 || p.MaxScreenshots > domain.MaxScreenshots {
		p.MaxScreenshots = domain.MaxScreenshots
	}
	if p.MinSummaryLen <= 0 {
		p.MinSummaryLen = def.MinSummaryLen
	}
	return p
}

// Assembler 把影片页组装为 MovieRecord。
type Assembler struct {
	Fetcher   Fetcher
	Selectors PageSelectors
	Rules     classify.Rules
}

// Assemble 抓取 pageURL 并解析；只有抓取失败会返回错误，字段缺失一律降级为空值。
func (a Assembler) Assemble(ctx context.Context, pageURL string) (domain.MovieRecord, error) {
	if a.Fetcher == nil {
		return domain.MovieRecord{}, errors.New("fetcher 不能为空")
	}
	b, err := a.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return domain.MovieRecord{}, err
	}
	return a.Parse(b, pageURL)
}

// Parse 把影片页 HTML 解析为 MovieRecord。
func (a Assembler) Parse(html []byte, pageURL string) (domain.MovieRecord, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return domain.MovieRecord{}, errors.New("pageURL 不能为空")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return domain.MovieRecord{}, err
	}
	sel := a.Selectors.withDefaults()

	rec := domain.MovieRecord{
		Title:       findTitle(doc, sel.Title),
		Poster:      findPoster(doc, pageURL),
		Summary:     findSummary(doc, sel.SummaryContainers, sel.MinSummaryLen),
		Screenshots: findScreenshots(doc, pageURL, sel.Screenshots, sel.MaxScreenshots),
		Downloads:   extract.Extract(doc, pageURL, a.Rules),
		PageURL:     pageURL,
	}
	return rec.Normalized(), nil
}

func findTitle(doc *goquery.Document, selectors []string) string {
	for _, s := range selectors {
		if t := normSpace(doc.Find(s).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func findPoster(doc *goquery.Document, pageURL string) string {
	content, _ := doc.Find("meta[property='og:image']").First().Attr("content")
	u, ok := extract.ResolveURL(pageURL, content)
	if !ok {
		return ""
	}
	return u
}

// findSummary 先按容器优先级，再按容器内文档顺序，取第一个长度超过 minLen 的段落。
func findSummary(doc *goquery.Document, containers []string, minLen int) string {
	for _, c := range containers {
		var out string
		doc.Find(c).Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			t := normSpace(p.Text())
			if utf8.RuneCountInString(t) > minLen {
				out = t
				return false
			}
			return true
		})
		if out != "" {
			return out
		}
	}
	return ""
}

func findScreenshots(doc *goquery.Document, pageURL, selector string, limit int) []string {
	out := make([]string, 0, limit)
	doc.Find(selector).EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		if u, ok := extract.ResolveURL(pageURL, src); ok {
			out = append(out, u)
		}
		return len(out) < limit
	})
	return out
}
