// Package scrape 是对外的抓取门面：Search 串起 resolve → assemble → store，
// Latest 读取最近一次保存的 snapshot。
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"github.com/John-Robertt/vmscrape/internal/domain"
	"github.com/John-Robertt/vmscrape/internal/infra/httpx"
)

const (
	StageResolve  = "resolve"
	StageAssemble = "assemble"
	StageStore    = "store"
	StageLoad     = "load"
)

type Resolver interface {
	Resolve(ctx context.Context, query string) (mo.Option[string], error)
}

type Assembler interface {
	Assemble(ctx context.Context, pageURL string) (domain.MovieRecord, error)
}

// Store 保存/读取 latest snapshot；Load 在尚无 snapshot 时返回 ok=false。
type Store interface {
	Save(rec domain.MovieRecord) error
	Load() (domain.MovieRecord, bool, error)
}

// Error 记录失败发生在哪个阶段。
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("stage=%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Service 不持有跨调用状态；并发调用 Search 的协调由调用方负责。
type Service struct {
	resolver  Resolver
	assembler Assembler
	store     Store
	log       logrus.FieldLogger
	obs       Observer
}

func New(r Resolver, a Assembler, s Store, log logrus.FieldLogger) *Service {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Service{resolver: r, assembler: a, store: s, log: log, obs: nopObserver{}}
}

// WithObserver 返回挂载了 Observer 的副本；obs 为 nil 时不发事件。
func (s *Service) WithObserver(obs Observer) *Service {
	c := *s
	if obs == nil {
		obs = nopObserver{}
	}
	c.obs = obs
	return &c
}

// Search 执行一次完整抓取并覆盖 snapshot。
//
// 失败语义：
// - 空查询：ErrEmptyQuery，不做任何 I/O
// - 搜索无结果：ErrNotFound，snapshot 保持不变
// - 抓取失败：*httpx.TransportError（包在 *Error 中）
func (s *Service) Search(ctx context.Context, query string) (domain.MovieRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.MovieRecord{}, domain.ErrEmptyQuery
	}
	log := s.log.WithField("query", query)

	started := time.Now()
	found, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		log.WithError(err).Warn("搜索失败")
		return domain.MovieRecord{}, &Error{Stage: StageResolve, Err: err}
	}
	pageURL, ok := found.Get()
	if !ok {
		log.Info("未找到影片页")
		return domain.MovieRecord{}, domain.ErrNotFound
	}
	log = log.WithField("page_url", pageURL)
	log.Debug("已定位影片页")
	s.obs.OnStageDone(StageResolve, map[string]any{"page_url": pageURL}, time.Since(started))

	started = time.Now()
	rec, err := s.assembler.Assemble(ctx, pageURL)
	if err != nil {
		log.WithError(err).Warn("影片页抓取失败")
		return domain.MovieRecord{}, &Error{Stage: StageAssemble, Err: err}
	}
	rec = rec.Normalized()
	s.obs.OnStageDone(StageAssemble, map[string]any{
		"title":       rec.Title,
		"groups":      len(rec.Downloads),
		"screenshots": len(rec.Screenshots),
	}, time.Since(started))

	started = time.Now()
	if err := s.store.Save(rec); err != nil {
		log.WithError(err).Error("保存 snapshot 失败")
		return domain.MovieRecord{}, &Error{Stage: StageStore, Err: err}
	}
	s.obs.OnStageDone(StageStore, nil, time.Since(started))

	log.WithFields(logrus.Fields{
		"title":  rec.Title,
		"groups": len(rec.Downloads),
	}).Info("抓取完成")
	return rec, nil
}

// Latest 返回最近一次保存的 snapshot；尚无 snapshot 时返回 ErrNotFound。
func (s *Service) Latest(_ context.Context) (domain.MovieRecord, error) {
	rec, ok, err := s.store.Load()
	if err != nil {
		s.log.WithError(err).Error("读取 snapshot 失败")
		return domain.MovieRecord{}, &Error{Stage: StageLoad, Err: err}
	}
	if !ok {
		return domain.MovieRecord{}, domain.ErrNotFound
	}
	return rec.Normalized(), nil
}

// ErrorCode 把错误映射为对外稳定的 error_code；nil 返回空串。
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrEmptyQuery):
		return domain.ErrCodeEmptyQuery
	case errors.Is(err, domain.ErrNotFound):
		return domain.ErrCodeNotFound
	case httpx.IsTransport(err):
		return domain.ErrCodeFetchFailed
	}
	var e *Error
	if errors.As(err, &e) && (e.Stage == StageStore || e.Stage == StageLoad) {
		return domain.ErrCodeStoreFailed
	}
	return domain.ErrCodeInternal
}
