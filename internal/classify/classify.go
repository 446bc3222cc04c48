// Package classify 提供纯函数：识别清晰度/体积标记，以及判断链接是否“像下载链接”。
//
// 这里的正则语法就是分组逻辑的触发点，不要随意“改进”：
// 下游 extract 的分组边界完全依赖这些匹配结果。
package classify

import (
	"regexp"
	"strings"

	"github.com/samber/mo"
)

var (
	qualityRE = regexp.MustCompile(`(?i)(\d{3,4}p|4k)`)
	sizeRE    = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s?(?:MB|GB)`)
	intentRE  = regexp.MustCompile(`(download|480p|720p|1080p|2160p|4k|web-dl|webrip)`)
)

const DefaultTrustedHost = "nexdrive"

// DefaultBlockedPatterns 命中任意一项即拒绝（与 label 无关）。
var DefaultBlockedPatterns = []string{"/wp-json/", "mailto:", "tel:", "comment"}

// Rules 描述链接判定策略。
//
// 约束：TrustedHost 是唯一白名单 token，两条接受路径都必须包含它；
// TrustedHost 为空时不接受任何链接。
type Rules struct {
	TrustedHost string
	Blocked     []string
}

func DefaultRules() Rules {
	return Rules{
		TrustedHost: DefaultTrustedHost,
		Blocked:     append([]string(nil), DefaultBlockedPatterns...),
	}
}

// FindQualityMarker 返回 text 中第一个清晰度标记（大写），例如 "1080P"、"4K"。
func FindQualityMarker(text string) mo.Option[string] {
	m := qualityRE.FindString(text)
	if m == "" {
		return mo.None[string]()
	}
	return mo.Some(strings.ToUpper(m))
}

// FindSizeMarker 返回 text 中第一个体积标记（原样），例如 "1.4GB"。
func FindSizeMarker(text string) mo.Option[string] {
	m := sizeRE.FindString(text)
	if m == "" {
		return mo.None[string]()
	}
	return mo.Some(m)
}

// IsPseudoHref 判断 href 是否为空、脚本伪链接或空锚点。
func IsPseudoHref(href string) bool {
	if href == "" || strings.HasPrefix(href, "javascript") {
		return true
	}
	return strings.TrimSpace(href) == "#" || strings.TrimSpace(href) == ""
}

// IsLikelyDownloadLink 使用 DefaultRules 判定。
func IsLikelyDownloadLink(href, label string) bool {
	return DefaultRules().IsLikelyDownloadLink(href, label)
}

// IsLikelyDownloadLink 判断 (href, label) 是否是可信站点上的下载链接。
func (r Rules) IsLikelyDownloadLink(href, label string) bool {
	if IsPseudoHref(href) {
		return false
	}
	for _, p := range r.Blocked {
		if p != "" && strings.Contains(href, p) {
			return false
		}
	}
	if r.trusted(href) {
		return true
	}
	if intentRE.MatchString(strings.ToLower(label)) {
		return r.trusted(href)
	}
	return false
}

func (r Rules) trusted(href string) bool {
	token := strings.ToLower(strings.TrimSpace(r.TrustedHost))
	if token == "" {
		return false
	}
	return strings.Contains(strings.ToLower(href), token)
}
