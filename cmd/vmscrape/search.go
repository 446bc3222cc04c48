package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/vmscrape/internal/domain"
)

func newSearchCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "search <query...>",
		Short:   "搜索影片并抓取影片页，结果写入 snapshot",
		Example: `  vmscrape search "The Matrix"` + "\n" + `  vmscrape search the matrix --json`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf("缺少搜索关键字")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			svc, err := a.service()
			if err != nil {
				return err
			}

			w, interactive := pickProgressWriter(a.stdout, a.stderr)
			if interactive {
				ui := newProgressUI(w)
				ui.OnSearchStart(query)
				svc = svc.WithObserver(ui)
			}

			rec, err := svc.Search(cmd.Context(), query)
			switch {
			case errors.Is(err, domain.ErrEmptyQuery):
				return usageErrorf("搜索关键字不能为空")
			case errors.Is(err, domain.ErrNotFound):
				return &exitError{code: exitFail, msg: fmt.Sprintf("未找到影片：%s", query)}
			case err != nil:
				return &exitError{code: exitFail, msg: fmt.Sprintf("抓取失败：%v", err)}
			}

			if err := emitRecord(a.stdout, rec, asJSON); err != nil {
				return err
			}
			if !asJSON && isTTY(a.stdout) {
				fmt.Fprintln(a.stdout, savedStyle.Render("已保存："+a.cfg.Store.Path))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "以 JSON 输出（stdout 非终端时默认 JSON）")
	return cmd
}

func newLatestCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "输出最近一次保存的 snapshot",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("latest 不接受参数：%q", args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			rec, err := svc.Latest(cmd.Context())
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return &exitError{code: exitFail, msg: "尚无 snapshot：" + a.cfg.Store.Path}
			case err != nil:
				return &exitError{code: exitFail, msg: fmt.Sprintf("读取 snapshot 失败：%v", err)}
			}
			return emitRecord(a.stdout, rec, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "以 JSON 输出（stdout 非终端时默认 JSON）")
	return cmd
}
