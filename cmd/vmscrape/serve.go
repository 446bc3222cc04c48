package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/vmscrape/internal/config"
	"github.com/John-Robertt/vmscrape/internal/httpapi"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP API（POST /search、/api/search、/api/latest）",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("serve 不接受参数：%q", args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if s := strings.TrimSpace(addr); s != "" {
				a.cfg.Server.Addr = s
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              a.cfg.Server.Addr,
				Handler:           httpapi.New(svc, a.log).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveUntilDone(ctx, srv, a)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "监听地址（覆盖 server.addr，默认 "+config.DefaultAddr+"）")
	return cmd
}

// serveUntilDone 运行 srv 直到 ctx 结束，然后优雅关闭。
func serveUntilDone(ctx context.Context, srv *http.Server, a *app) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", srv.Addr).Info("HTTP API 已启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return &exitError{code: exitFail, msg: fmt.Sprintf("HTTP 服务失败：%v", err)}
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("收到退出信号，正在关闭")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return &exitError{code: exitFail, msg: fmt.Sprintf("关闭 HTTP 服务失败：%v", err)}
	}
	a.log.Info("已关闭")
	return nil
}
