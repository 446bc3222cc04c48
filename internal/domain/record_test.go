package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMovieRecord_Normalized_EmptySlicesNotNull(t *testing.T) {
	r := MovieRecord{
		Title:     "T",
		Downloads: []DownloadGroup{{Quality: "720P"}},
	}.Normalized()

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	s := string(b)
	if strings.Contains(s, "null") {
		t.Fatalf("输出不应包含 null：%s", s)
	}
	if !strings.Contains(s, `"screenshots":[]`) || !strings.Contains(s, `"links":[]`) {
		t.Fatalf("切片字段应输出为 []：%s", s)
	}
}

func TestMovieRecord_Clone_DoesNotShareBacking(t *testing.T) {
	r := MovieRecord{
		Screenshots: []string{"https://a.test/1.jpg"},
		Downloads: []DownloadGroup{{
			Quality: "1080P",
			Links:   []DownloadLink{{Label: "l", URL: "https://nexdrive.test/x", Host: "nexdrive.test"}},
		}},
	}
	c := r.Clone()
	c.Screenshots[0] = "changed"
	c.Downloads[0].Links[0].URL = "changed"

	if r.Screenshots[0] != "https://a.test/1.jpg" {
		t.Fatalf("Clone 后修改副本影响了原值：%q", r.Screenshots[0])
	}
	if r.Downloads[0].Links[0].URL != "https://nexdrive.test/x" {
		t.Fatalf("Clone 后修改副本影响了原值：%q", r.Downloads[0].Links[0].URL)
	}
}

func TestDownloadGroup_HasURL(t *testing.T) {
	g := DownloadGroup{Links: []DownloadLink{{URL: "https://nexdrive.test/a"}}}
	if !g.HasURL("https://nexdrive.test/a") {
		t.Fatalf("期望命中已存在的 URL")
	}
	if g.HasURL("https://nexdrive.test/b") {
		t.Fatalf("不期望命中不存在的 URL")
	}
}

func TestMovieRecord_Normalized_LeavesReceiverUntouched(t *testing.T) {
	r := MovieRecord{Downloads: []DownloadGroup{{Quality: "720P"}}}
	n := r.Normalized()

	if r.Downloads[0].Links != nil {
		t.Fatalf("Normalized 不应修改原 record 的分组：%+v", r.Downloads[0])
	}
	if n.Downloads[0].Links == nil {
		t.Fatalf("副本中的 Links 应为空切片")
	}
}
