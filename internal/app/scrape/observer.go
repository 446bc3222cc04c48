package scrape

import "time"

// Observer 把抓取阶段事件从核心流程中解耦出来（例如 CLI 在 stderr 打印进度）。
//
// 约束：scrape 包只发事件，不做任何输出；OnStageDone 只在阶段成功时调用。
type Observer interface {
	OnStageDone(stage string, fields map[string]any, dur time.Duration)
}

type nopObserver struct{}

func (nopObserver) OnStageDone(string, map[string]any, time.Duration) {}
