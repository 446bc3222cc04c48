package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/vmscrape/internal/app/scrape"
	"github.com/John-Robertt/vmscrape/internal/config"
	"github.com/John-Robertt/vmscrape/internal/logx"
)

// app 是一次 CLI 调用共享的状态（由 PersistentPreRunE 初始化）。
type app struct {
	stdout, stderr io.Writer
	fs             afero.Fs

	configPath string
	storePath  string

	cfg    config.Config
	log    *logrus.Logger
	closer io.Closer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "vmscrape",
		Short:         "搜索影片页并抓取标题、简介、截图与分组下载链接",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "配置文件路径（默认读取 ./"+config.DefaultFile+"，不存在则使用内置默认值）")
	root.PersistentFlags().StringVar(&a.storePath, "store", "", "snapshot 文件路径（覆盖 store.path）")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("参数错误：%v", err)
	})

	root.AddCommand(newServeCmd(a), newSearchCmd(a), newLatestCmd(a))
	return root
}

func (a *app) init() error {
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	cfg, err := config.Load(a.fs, a.configPath)
	if err != nil {
		return &exitError{code: exitFail, msg: fmt.Sprintf("读取配置失败：%v", err)}
	}
	if p := strings.TrimSpace(a.storePath); p != "" {
		cfg.Store.Path = p
	}
	a.cfg = cfg

	l, closer, err := logx.New(logx.Options{
		Level:      cfg.Log.Level,
		JSON:       cfg.Log.JSON,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}, a.stderr)
	if err != nil {
		return &exitError{code: exitFail, msg: fmt.Sprintf("初始化日志失败：%v", err)}
	}
	a.log, a.closer = l, closer
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func (a *app) service() (*scrape.Service, error) {
	svc, err := buildService(a.cfg, a.fs, a.log)
	if err != nil {
		return nil, &exitError{code: exitFail, msg: fmt.Sprintf("初始化失败：%v", err)}
	}
	return svc, nil
}
