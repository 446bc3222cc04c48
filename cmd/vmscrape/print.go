package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/John-Robertt/vmscrape/internal/domain"
	"github.com/John-Robertt/vmscrape/internal/infra/snapshot"
)

const (
	summaryPreviewRunes = 200
	ruleWidth           = 40
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	posterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	groupStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	savedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// emitRecord 输出 record：--json 或 stdout 非终端时输出 JSON，否则输出彩色摘要。
func emitRecord(w io.Writer, rec domain.MovieRecord, asJSON bool) error {
	if asJSON || !isTTY(w) {
		b, err := snapshot.Encode(rec)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	_, err := io.WriteString(w, renderRecord(rec))
	return err
}

// renderRecord 渲染终端摘要：标题、简介预览、海报，以及每个分组的 "host: url" 列表。
func renderRecord(rec domain.MovieRecord) string {
	rule := ruleStyle.Render(strings.Repeat("─", ruleWidth))

	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render(rec.Title) + "\n")
	b.WriteString(summaryStyle.Render(previewSummary(rec.Summary)) + "\n")
	b.WriteString(posterStyle.Render("Poster: "+rec.Poster) + "\n")
	b.WriteString(rule + "\n")
	for _, g := range rec.Downloads {
		b.WriteString(groupStyle.Render(groupHeading(g)) + "\n")
		for _, l := range g.Links {
			b.WriteString(linkStyle.Render("  "+l.Host+": "+l.URL) + "\n")
		}
		b.WriteString(rule + "\n")
	}
	return b.String()
}

func previewSummary(s string) string {
	r := []rune(s)
	if len(r) > summaryPreviewRunes {
		r = r[:summaryPreviewRunes]
	}
	return string(r) + "..."
}

// groupHeading 没有清晰度标记的分组显示为 Other。
func groupHeading(g domain.DownloadGroup) string {
	q := g.Quality
	if q == "" {
		q = "Other"
	}
	return strings.TrimSpace(q + " " + g.Size)
}
