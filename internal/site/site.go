// Package site 实现单一聚合站点的两步抓取：
// Resolver 从搜索结果页定位影片页 URL，Assembler 把影片页组装为 domain.MovieRecord。
//
// 约束：
// - 站点只支持一个（BaseURL 可配置，但不做多站点 fallback）
// - Fetch 不做缓存/重试/限速
// - Parse 必须是纯函数（只依赖输入 html + pageURL）
package site

import (
	"context"
	"strings"
)

// DefaultBaseURL 是站点首页（搜索 URL = BaseURL + "?s=" + query）。
const DefaultBaseURL = "https://vegamovies.menu/"

// Fetcher 给定 URL 返回文档文本；超时/网络错误/非 2xx 都以错误返回。
type Fetcher interface {
	Fetch(ctx context.Context, u string) ([]byte, error)
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }

// nonEmpty 去掉空白项；全部为空时返回 def 的副本。
func nonEmpty(in []string, def []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), def...)
	}
	return out
}
