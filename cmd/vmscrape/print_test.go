package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/John-Robertt/vmscrape/internal/domain"
)

func sampleRecord() domain.MovieRecord {
	return domain.MovieRecord{
		Title:   "Example Movie",
		Poster:  "https://movies.test/poster.jpg",
		Summary: strings.Repeat("很长的简介", 60),
		Downloads: []domain.DownloadGroup{
			{Links: []domain.DownloadLink{{Label: "Batch", URL: "https://nexdrive.x/all", Host: "nexdrive.x"}}},
			{Quality: "1080P", Size: "1.4GB", Links: []domain.DownloadLink{{Label: "Download", URL: "https://nexdrive.x/a", Host: "nexdrive.x"}}},
		},
		PageURL: "https://movies.test/example/",
	}
}

func TestRenderRecord(t *testing.T) {
	out := renderRecord(sampleRecord())

	for _, want := range []string{
		"Example Movie",
		"Poster: https://movies.test/poster.jpg",
		"Other",
		"1080P 1.4GB",
		"nexdrive.x: https://nexdrive.x/all",
		"nexdrive.x: https://nexdrive.x/a",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("输出缺少 %q：\n%s", want, out)
		}
	}
	if strings.Index(out, "Other") > strings.Index(out, "1080P") {
		t.Fatalf("分组应保持原顺序：\n%s", out)
	}
}

func TestPreviewSummary_TruncatesByRune(t *testing.T) {
	got := previewSummary(strings.Repeat("影", 250))
	if want := strings.Repeat("影", 200) + "..."; got != want {
		t.Fatalf("简介应按字符截断为 200 个：len=%d", len([]rune(got)))
	}
	if got := previewSummary("short"); got != "short..." {
		t.Fatalf("短简介不截断：%q", got)
	}
}

func TestEmitRecord_NonTTYWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := emitRecord(&buf, sampleRecord(), false); err != nil {
		t.Fatalf("emitRecord 失败：%v", err)
	}
	var got domain.MovieRecord
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("stdout 非终端时应输出 JSON：%v\n%s", err, buf.String())
	}
	if got.Title != "Example Movie" || got.Screenshots == nil {
		t.Fatalf("JSON 内容不符合预期：%+v", got)
	}
}
