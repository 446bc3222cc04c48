package logx

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_ConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	l, c, err := New(Options{Level: "bogus"}, &buf)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	defer c.Close()

	if l.GetLevel() != logrus.InfoLevel {
		t.Fatalf("无法解析的 level 应回退为 info，实际=%s", l.GetLevel())
	}
	l.Debug("hidden")
	l.WithField("query", "dune").Info("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "query=dune") {
		t.Fatalf("输出不符合预期：%q", out)
	}
}

func TestNew_JSONToConsoleAndFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "vmscrape.log")
	l, c, err := New(Options{Level: "debug", JSON: true, File: path, MaxSizeMB: 1}, &buf)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	l.WithField("page_url", "https://movies.test/p/").Debug("hello")
	if err := c.Close(); err != nil {
		t.Fatalf("关闭日志文件失败：%v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("控制台输出应为 JSON：%v（%q）", err, buf.String())
	}
	if entry["msg"] != "hello" || entry["page_url"] != "https://movies.test/p/" {
		t.Fatalf("JSON 字段不符合预期：%v", entry)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("日志文件未生成：%v", err)
	}
	if !bytes.Equal(b, buf.Bytes()) {
		t.Fatalf("文件与控制台内容应一致：\nfile=%q\ncons=%q", b, buf.String())
	}
}
