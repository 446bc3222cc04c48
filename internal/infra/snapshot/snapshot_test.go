package snapshot

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/John-Robertt/vmscrape/internal/domain"
)

func sampleRecord() domain.MovieRecord {
	return domain.MovieRecord{
		Title:       "Title",
		Poster:      "https://movies.test/img/poster.jpg",
		Summary:     "A long enough summary for the test record.",
		Screenshots: []string{"https://movies.test/s1.jpg"},
		Downloads: []domain.DownloadGroup{{
			Quality: "1080P",
			Size:    "1.4GB",
			Links: []domain.DownloadLink{{
				Label: "Download 1080p",
				URL:   "https://nexdrive.example/x?a=1&b=2",
				Host:  "nexdrive.example",
			}},
		}},
		PageURL: "https://movies.test/title/",
	}
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewFileStore(fs, "/srv/data/search_result.json")

	if _, ok, err := s.Load(); err != nil || ok {
		t.Fatalf("空 store 应返回 ok=false，实际 ok=%v err=%v", ok, err)
	}

	want := sampleRecord()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save 失败：%v", err)
	}
	got, ok, err := s.Load()
	if err != nil || !ok {
		t.Fatalf("Load 失败：ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("读回内容不一致：\n got=%+v\nwant=%+v", got, want)
	}
}

func TestFileStore_SaveOverwritesSnapshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewFileStore(fs, "/data/search_result.json")

	if err := s.Save(sampleRecord()); err != nil {
		t.Fatalf("Save 失败：%v", err)
	}
	if err := s.Save(domain.MovieRecord{Title: "Second"}); err != nil {
		t.Fatalf("Save 失败：%v", err)
	}
	got, _, err := s.Load()
	if err != nil {
		t.Fatalf("Load 失败：%v", err)
	}
	if got.Title != "Second" || len(got.Downloads) != 0 || got.Screenshots == nil {
		t.Fatalf("snapshot 应被整体替换：%+v", got)
	}
}

func TestEncode_HumanReadableNoHTMLEscape(t *testing.T) {
	b, err := Encode(sampleRecord())
	if err != nil {
		t.Fatalf("Encode 失败：%v", err)
	}
	s := string(b)
	if !strings.Contains(s, "x?a=1&b=2") {
		t.Fatalf("URL 不应被 HTML 转义：%s", s)
	}
	if !strings.Contains(s, "\n  \"title\": \"Title\"") {
		t.Fatalf("期望缩进输出：%s", s)
	}
}

func TestFileStore_LoadCorrupted(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/data/search_result.json", []byte("{"), 0o644); err != nil {
		t.Fatalf("写入失败：%v", err)
	}
	if _, _, err := NewFileStore(fs, "/data/search_result.json").Load(); err == nil {
		t.Fatalf("损坏的 snapshot 应返回错误")
	}
}

func TestMemStore_ReturnsCopies(t *testing.T) {
	var s MemStore
	if _, ok, _ := s.Load(); ok {
		t.Fatalf("空 MemStore 应返回 ok=false")
	}
	rec := sampleRecord()
	if err := s.Save(rec); err != nil {
		t.Fatalf("Save 失败：%v", err)
	}
	rec.Downloads[0].Links[0].URL = "mutated"

	got, ok, _ := s.Load()
	if !ok || got.Downloads[0].Links[0].URL != "https://nexdrive.example/x?a=1&b=2" {
		t.Fatalf("保存后修改入参不应影响 snapshot：%+v", got)
	}
	got.Title = "mutated"
	again, _, _ := s.Load()
	if again.Title != "Title" {
		t.Fatalf("修改读出的副本不应影响 snapshot")
	}
}
