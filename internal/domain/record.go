package domain

// DownloadLink 是单个下载入口。URL 是组内去重的唯一键。
type DownloadLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`  // 绝对 URL
	Host  string `json:"host"` // 解析失败时为空串
}

// DownloadGroup 是按清晰度/体积标记切分出来的一组下载入口。
//
// 约束：
// - Quality/Size 允许为空（链接出现在任何清晰度标记之前）
// - 同一组内不允许出现重复 URL（先出现者保留）
// - 最终结果中 Links 必须非空
type DownloadGroup struct {
	Quality string         `json:"quality"`
	Size    string         `json:"size"`
	Links   []DownloadLink `json:"links"`
}

// HasURL 判断组内是否已经包含该 URL。
func (g DownloadGroup) HasURL(u string) bool {
	for _, l := range g.Links {
		if l.URL == u {
			return true
		}
	}
	return false
}

// MaxScreenshots 是 MovieRecord.Screenshots 的硬上限。
const MaxScreenshots = 4

// MovieRecord 是一次抓取得到的完整结果，也是唯一落盘的单元（latest snapshot）。
//
// 约束：
// - Poster/Screenshots/Downloads 中的 URL 必须是绝对 URL
// - len(Screenshots) <= MaxScreenshots
// - 字段缺失允许为空，但结构必须稳定（切片输出 [] 而不是 null）
type MovieRecord struct {
	Title       string          `json:"title"`
	Poster      string          `json:"poster"`
	Summary     string          `json:"summary"`
	Screenshots []string        `json:"screenshots"`
	Downloads   []DownloadGroup `json:"downloads"`
	PageURL     string          `json:"page_url"`
}

// Normalized 返回把 nil 切片替换为空切片后的副本，保证 JSON 形状稳定；不修改 r 本身。
func (r MovieRecord) Normalized() MovieRecord {
	if r.Screenshots == nil {
		r.Screenshots = []string{}
	}
	r.Downloads = append(make([]DownloadGroup, 0, len(r.Downloads)), r.Downloads...)
	for i := range r.Downloads {
		if r.Downloads[i].Links == nil {
			r.Downloads[i].Links = []DownloadLink{}
		}
	}
	return r
}

// Clone 深拷贝 record：snapshot 写入后对调用方只读，不能共享底层数组。
func (r MovieRecord) Clone() MovieRecord {
	out := r
	if r.Screenshots != nil {
		out.Screenshots = append([]string(nil), r.Screenshots...)
	}
	if r.Downloads != nil {
		out.Downloads = make([]DownloadGroup, len(r.Downloads))
		for i, g := range r.Downloads {
			g.Links = append([]DownloadLink(nil), g.Links...)
			out.Downloads[i] = g
		}
	}
	return out
}
