package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/John-Robertt/vmscrape/internal/domain"
	"github.com/John-Robertt/vmscrape/internal/infra/httpx"
	"github.com/John-Robertt/vmscrape/internal/infra/snapshot"
)

type fakeResolver struct {
	url   string
	err   error
	calls int
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) (mo.Option[string], error) {
	f.calls++
	if f.err != nil {
		return mo.None[string](), f.err
	}
	if f.url == "" {
		return mo.None[string](), nil
	}
	return mo.Some(f.url), nil
}

type fakeAssembler struct {
	rec   domain.MovieRecord
	err   error
	calls int
}

func (f *fakeAssembler) Assemble(_ context.Context, pageURL string) (domain.MovieRecord, error) {
	f.calls++
	if f.err != nil {
		return domain.MovieRecord{}, f.err
	}
	rec := f.rec
	rec.PageURL = pageURL
	return rec, nil
}

type failingStore struct{ err error }

func (s failingStore) Save(domain.MovieRecord) error           { return s.err }
func (s failingStore) Load() (domain.MovieRecord, bool, error) { return domain.MovieRecord{}, false, s.err }

type recordingObserver struct{ stages []string }

func (o *recordingObserver) OnStageDone(stage string, _ map[string]any, _ time.Duration) {
	o.stages = append(o.stages, stage)
}

func sampleRecord() domain.MovieRecord {
	return domain.MovieRecord{
		Title: "Title",
		Downloads: []domain.DownloadGroup{{
			Quality: "1080P",
			Size:    "1.4GB",
			Links:   []domain.DownloadLink{{Label: "Download", URL: "https://nexdrive.x/a", Host: "nexdrive.x"}},
		}},
	}
}

func TestSearch_EmptyQueryDoesNoIO(t *testing.T) {
	r := &fakeResolver{url: "https://movies.test/p/"}
	a := &fakeAssembler{}
	svc := New(r, a, &snapshot.MemStore{}, nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), q)
		if !errors.Is(err, domain.ErrEmptyQuery) {
			t.Fatalf("空查询 %q 应返回 ErrEmptyQuery，实际=%v", q, err)
		}
	}
	if r.calls != 0 || a.calls != 0 {
		t.Fatalf("空查询不应触发任何 I/O：resolve=%d assemble=%d", r.calls, a.calls)
	}
}

func TestSearch_SuccessSavesSnapshot(t *testing.T) {
	store := &snapshot.MemStore{}
	log, hook := logtest.NewNullLogger()
	obs := &recordingObserver{}
	svc := New(&fakeResolver{url: "https://movies.test/p/"}, &fakeAssembler{rec: sampleRecord()}, store, log).WithObserver(obs)

	rec, err := svc.Search(context.Background(), "  title  ")
	if err != nil {
		t.Fatalf("Search 失败：%v", err)
	}
	if rec.PageURL != "https://movies.test/p/" || rec.Screenshots == nil {
		t.Fatalf("返回结果不符合预期：%+v", rec)
	}

	got, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest 失败：%v", err)
	}
	if got.Title != "Title" || got.PageURL != rec.PageURL {
		t.Fatalf("Latest 应返回刚保存的 snapshot：%+v", got)
	}

	if want := []string{StageResolve, StageAssemble, StageStore}; len(obs.stages) != len(want) {
		t.Fatalf("阶段事件不符合预期：%v", obs.stages)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.InfoLevel || entry.Data["query"] != "title" {
		t.Fatalf("期望记录带 query 字段的完成日志，实际=%+v", entry)
	}
}

func TestSearch_NotFoundKeepsSnapshot(t *testing.T) {
	store := &snapshot.MemStore{}
	_ = store.Save(sampleRecord())
	a := &fakeAssembler{}
	svc := New(&fakeResolver{}, a, store, nil)

	_, err := svc.Search(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("期望 ErrNotFound，实际=%v", err)
	}
	if ErrorCode(err) != domain.ErrCodeNotFound {
		t.Fatalf("error_code 不符合预期：%q", ErrorCode(err))
	}
	if a.calls != 0 {
		t.Fatalf("未找到时不应抓取影片页")
	}
	got, _ := svc.Latest(context.Background())
	if got.Title != "Title" {
		t.Fatalf("未找到时 snapshot 不应改变：%+v", got)
	}
}

func TestSearch_TransportFailure(t *testing.T) {
	terr := &httpx.TransportError{URL: "https://movies.test/p/", Err: &httpx.HTTPStatusError{StatusCode: 503}}
	store := &snapshot.MemStore{}
	svc := New(&fakeResolver{url: "https://movies.test/p/"}, &fakeAssembler{err: terr}, store, nil)

	_, err := svc.Search(context.Background(), "title")
	var se *Error
	if !errors.As(err, &se) || se.Stage != StageAssemble {
		t.Fatalf("期望 assemble 阶段错误，实际=%v", err)
	}
	if ErrorCode(err) != domain.ErrCodeFetchFailed {
		t.Fatalf("error_code 不符合预期：%q", ErrorCode(err))
	}
	if _, ok, _ := store.Load(); ok {
		t.Fatalf("抓取失败不应写入 snapshot")
	}

	_, err = New(&fakeResolver{err: terr}, &fakeAssembler{}, store, nil).Search(context.Background(), "title")
	if ErrorCode(err) != domain.ErrCodeFetchFailed {
		t.Fatalf("搜索页抓取失败也应归类为 fetch_failed：%v", err)
	}
}

func TestSearch_StoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	svc := New(&fakeResolver{url: "https://movies.test/p/"}, &fakeAssembler{rec: sampleRecord()}, failingStore{err: boom}, nil)

	_, err := svc.Search(context.Background(), "title")
	if !errors.Is(err, boom) {
		t.Fatalf("期望透传存储错误，实际=%v", err)
	}
	if ErrorCode(err) != domain.ErrCodeStoreFailed {
		t.Fatalf("error_code 不符合预期：%q", ErrorCode(err))
	}
}

func TestLatest_NoSnapshot(t *testing.T) {
	svc := New(&fakeResolver{}, &fakeAssembler{}, &snapshot.MemStore{}, nil)
	_, err := svc.Latest(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("尚无 snapshot 应返回 ErrNotFound，实际=%v", err)
	}
}

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{domain.ErrEmptyQuery, domain.ErrCodeEmptyQuery},
		{&Error{Stage: StageLoad, Err: errors.New("x")}, domain.ErrCodeStoreFailed},
		{&Error{Stage: StageResolve, Err: errors.New("x")}, domain.ErrCodeInternal},
		{errors.New("x"), domain.ErrCodeInternal},
	}
	for _, c := range cases {
		if got := ErrorCode(c.err); got != c.want {
			t.Fatalf("ErrorCode(%v)=%q，期望 %q", c.err, got, c.want)
		}
	}
}
