package site

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// stubFetcher 按 URL 返回固定页面，并记录请求顺序。
type stubFetcher struct {
	pages map[string][]byte
	err   error
	urls  []string
}

func (f *stubFetcher) Fetch(_ context.Context, u string) ([]byte, error) {
	f.urls = append(f.urls, u)
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.pages[u]
	if !ok {
		return nil, errors.New("unexpected url: " + u)
	}
	return b, nil
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("读取 fixture 失败：%s err=%v", name, err)
	}
	return b
}
