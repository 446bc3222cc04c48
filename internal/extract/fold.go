package extract

import (
	"net/url"
	"strings"

	"github.com/samber/lo"

	"github.com/John-Robertt/vmscrape/internal/classify"
	"github.com/John-Robertt/vmscrape/internal/domain"
)

// noGroup 表示当前没有打开的分组。
const noGroup = -1

// folder 是 Fold 的累加器：groups 按首次出现的顺序追加，cur 指向当前分组下标。
//
// 状态机：no-group --(标记或链接)--> group-open --(新标记)--> 新 group-open；
// 折叠结束后丢弃 Links 为空的分组。
//
// <a> 的标记取自完整 label；若当前分组 quality 相同且尚无链接，则并入当前分组，
// 否则新建分组。<a> 内部的子元素不单独参与标记判断。
type folder struct {
	base  *url.URL
	rules classify.Rules

	groups []domain.DownloadGroup
	cur    int
}

// Fold 在 Node 序列上做一次状态折叠，返回非空分组（保持相对顺序）。
func Fold(nodes []Node, pageURL string, rules classify.Rules) []domain.DownloadGroup {
	f := folder{rules: rules, cur: noGroup}
	if u, err := url.Parse(strings.TrimSpace(pageURL)); err == nil {
		f.base = u
	}
	for _, n := range nodes {
		f.step(n)
	}
	return f.result()
}

func (f *folder) step(n Node) {
	switch {
	case n.IsLink():
		if q, ok := classify.FindQualityMarker(n.Label).Get(); ok && !f.pending(q) {
			f.open(q, classify.FindSizeMarker(n.Label).OrEmpty())
		}
		if n.HasHref {
			f.link(n)
		}
	case !n.InLink:
		if q, ok := classify.FindQualityMarker(n.Text).Get(); ok {
			f.open(q, classify.FindSizeMarker(n.Text).OrEmpty())
		}
	}
}

// pending 表示当前分组的 quality 为 q 且还没有链接。
func (f *folder) pending(q string) bool {
	if f.cur == noGroup {
		return false
	}
	g := f.groups[f.cur]
	return g.Quality == q && len(g.Links) == 0
}

// open 总是新建分组，不按 quality 合并。
func (f *folder) open(quality, size string) {
	f.groups = append(f.groups, domain.DownloadGroup{Quality: quality, Size: size})
	f.cur = len(f.groups) - 1
}

func (f *folder) link(n Node) {
	if classify.IsPseudoHref(n.Href) {
		return
	}
	abs, ok := resolveRef(f.base, n.Href)
	if !ok {
		return
	}
	if !f.rules.IsLikelyDownloadLink(abs, n.Label) {
		return
	}
	if f.cur == noGroup {
		f.open("", "")
	}
	g := &f.groups[f.cur]
	if g.HasURL(abs) {
		return
	}
	label := n.Label
	if label == "" {
		label = abs
	}
	g.Links = append(g.Links, domain.DownloadLink{Label: label, URL: abs, Host: Host(abs)})
}

func (f *folder) result() []domain.DownloadGroup {
	out := lo.Filter(f.groups, func(g domain.DownloadGroup, _ int) bool {
		return len(g.Links) > 0
	})
	if out == nil {
		return []domain.DownloadGroup{}
	}
	return out
}

// ResolveURL 把 href 相对 base 解析为绝对 URL；无法得到绝对 URL 时返回 ok=false。
func ResolveURL(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	bu, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		bu = nil
	}
	return resolveRef(bu, href)
}

func resolveRef(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if !ref.IsAbs() {
		return "", false
	}
	return ref.String(), true
}

// Host 返回 URL 的主机名；解析失败返回空串。
func Host(u string) string {
	pu, err := url.Parse(u)
	if err != nil {
		return ""
	}
	return pu.Hostname()
}
