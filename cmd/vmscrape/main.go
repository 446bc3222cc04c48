package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// 退出码：0 成功；1 运行失败（含未找到）；2 参数错误。
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

// exitError 携带退出码；消息已由命令自身写到 stderr 时 msg 为空。
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &exitError{code: exitUsage, msg: fmt.Sprintf(format, args...)}
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if isTTY(stdout) {
		cc.Init(&cc.Config{
			RootCmd:       root,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	err := root.ExecuteContext(ctx)
	a.close()
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			fmt.Fprintln(stderr, ee.msg)
		}
		if ee.code == exitUsage {
			fmt.Fprintln(stderr, "使用 \"vmscrape --help\" 查看用法。")
		}
		return ee.code
	}
	fmt.Fprintln(stderr, err)
	if strings.HasPrefix(err.Error(), "unknown command") {
		return exitUsage
	}
	return exitFail
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
