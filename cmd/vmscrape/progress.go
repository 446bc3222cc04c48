package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/John-Robertt/vmscrape/internal/app/scrape"
)

var _ scrape.Observer = (*progressUI)(nil)

// progressUI 在交互终端输出抓取阶段进度。
//
// 约束：过程信息只写 stderr（或 fallback 到 stdout），不污染 stdout 的 JSON 输出。
type progressUI struct {
	w io.Writer

	mu        sync.Mutex
	startedAt time.Time
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{w: w}
}

func (p *progressUI) OnSearchStart(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startedAt = time.Now()
	fmt.Fprintf(p.w, "[%s] 搜索：%s\n", p.startedAt.Format("15:04:05"), query)
}

func (p *progressUI) OnStageDone(stage string, fields map[string]any, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch stage {
	case scrape.StageResolve:
		fmt.Fprintf(p.w, "找到：%s (%s)\n", stringField(fields, "page_url"), formatShortDuration(dur))
	case scrape.StageAssemble:
		fmt.Fprintf(p.w, "解析：groups=%d screenshots=%d (%s)\n",
			intField(fields, "groups"), intField(fields, "screenshots"), formatShortDuration(dur),
		)
	case scrape.StageStore:
		total := time.Duration(0)
		if !p.startedAt.IsZero() {
			total = time.Since(p.startedAt)
		}
		fmt.Fprintf(p.w, "保存：ok (总耗时 %s)\n", formatShortDuration(total))
	default:
		// 兜底：未知阶段也不要静默。
		fmt.Fprintf(p.w, "%s (%s)\n", stage, formatShortDuration(dur))
	}
}

func pickProgressWriter(stdout, stderr io.Writer) (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr。
	if isTTY(stderr) {
		return stderr, true
	}
	// 仅重定向 stderr 时 stdout 仍是 TTY：退化输出到 stdout。
	if isTTY(stdout) {
		return stdout, true
	}
	return nil, false
}

func intField(fields map[string]any, k string) int {
	if fields == nil {
		return 0
	}
	switch v := fields[k].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func stringField(fields map[string]any, k string) string {
	if fields == nil {
		return ""
	}
	s, _ := fields[k].(string)
	return s
}

func formatShortDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "0ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}
