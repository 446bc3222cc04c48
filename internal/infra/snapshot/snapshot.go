// Package snapshot 保存/读取最近一次抓取结果（latest snapshot）。
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/John-Robertt/vmscrape/internal/domain"
	"github.com/John-Robertt/vmscrape/internal/infra/fsx"
)

// DefaultPath 是 snapshot 文件的默认位置（相对工作目录）。
const DefaultPath = "data/search_result.json"

// FileStore 把 snapshot 写成单个 JSON 文件。
//
// 约束：
// - 每次 Save 整体替换（临时文件 + rename），读者不会看到半写入的内容
// - 无历史、无并发协调：last-writer-wins
type FileStore struct {
	Fs   afero.Fs
	Path string
}

func NewFileStore(fs afero.Fs, path string) FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}
	return FileStore{Fs: fs, Path: filepath.Clean(path)}
}

func (s FileStore) Save(rec domain.MovieRecord) error {
	if s.Fs == nil || s.Path == "" {
		return errors.New("snapshot: store 未初始化")
	}
	b, err := Encode(rec)
	if err != nil {
		return err
	}
	return fsx.WriteFileAtomicReplace(s.Fs, filepath.Dir(s.Path), filepath.Base(s.Path), b)
}

// Load 读取 snapshot；文件不存在时返回 ok=false。
func (s FileStore) Load() (domain.MovieRecord, bool, error) {
	if s.Fs == nil || s.Path == "" {
		return domain.MovieRecord{}, false, errors.New("snapshot: store 未初始化")
	}
	b, ok, err := fsx.ReadFile(s.Fs, s.Path)
	if err != nil || !ok {
		return domain.MovieRecord{}, false, err
	}
	var rec domain.MovieRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return domain.MovieRecord{}, false, err
	}
	return rec.Normalized(), true, nil
}

// Encode 输出带缩进的 UTF-8 JSON（不做 HTML 转义，URL 保持可读）。
func Encode(rec domain.MovieRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec.Normalized()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MemStore 是内存版 snapshot（测试替身 / 不落盘部署）。
type MemStore struct {
	mu  sync.RWMutex
	rec *domain.MovieRecord
}

func (s *MemStore) Save(rec domain.MovieRecord) error {
	c := rec.Clone().Normalized()
	s.mu.Lock()
	s.rec = &c
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Load() (domain.MovieRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil {
		return domain.MovieRecord{}, false, nil
	}
	return s.rec.Clone(), true, nil
}
