// Package extract 把影片页 HTML 切分为按清晰度/体积分组的下载入口。
//
// 实现分两步：Flatten 把文档压平为按文档顺序排列的 Node 序列（只依赖 goquery），
// Fold 在 Node 序列上做一次显式状态折叠（不依赖 HTML，可单独测试）。
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/John-Robertt/vmscrape/internal/classify"
	"github.com/John-Robertt/vmscrape/internal/domain"
)

// scanSelector 是参与遍历的元素集合；goquery 对选择器组按文档顺序返回结果。
const scanSelector = "p, div, li, strong, span, a"

// Node 是压平后的单个元素。
type Node struct {
	Tag string
	// Text 只包含元素自身的直接文本节点（不含子元素），空白已折叠。
	Text string
	// InLink 表示该元素是 <a> 或位于 <a> 内部；<a> 内部子元素的文字不单独作为分组标记。
	InLink bool

	Href    string // 原始 href（已 TrimSpace）
	HasHref bool
	Label   string // <a> 的完整文本（空白已折叠）
}

func (n Node) IsLink() bool { return n.Tag == "a" }

// Extract 对整页执行 Flatten + Fold。
func Extract(doc *goquery.Document, pageURL string, rules classify.Rules) []domain.DownloadGroup {
	return Fold(Flatten(doc), pageURL, rules)
}

// Flatten 按文档顺序（深度优先、从左到右）列出 scanSelector 命中的元素。
func Flatten(doc *goquery.Document) []Node {
	if doc == nil {
		return nil
	}
	sel := doc.Find(scanSelector)
	out := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		n := Node{
			Tag:  goquery.NodeName(s),
			Text: directText(s),
		}
		n.InLink = n.IsLink() || s.ParentsFiltered("a").Length() > 0
		if n.IsLink() {
			href, ok := s.Attr("href")
			n.Href = strings.TrimSpace(href)
			n.HasHref = ok && n.Href != ""
			n.Label = normSpace(s.Text())
		}
		out = append(out, n)
	})
	return out
}

func directText(s *goquery.Selection) string {
	if len(s.Nodes) == 0 {
		return ""
	}
	var b strings.Builder
	for c := s.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			continue
		}
		b.WriteString(c.Data)
		b.WriteByte(' ')
	}
	return normSpace(b.String())
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
