package fsx

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

// 通过可替换的函数指针，让测试能稳定模拟 rename 失败。
var renameFunc = func(fs afero.Fs, oldpath, newpath string) error {
	return fs.Rename(oldpath, newpath)
}

// WriteFileAtomicReplace 在 dir 下原子写入 name（临时文件 + rename），目标已存在则覆盖。
//
// - 临时文件必须与目标文件在同目录，以保证 rename 的原子性
// - 读者只会看到旧内容或新内容，不会看到写了一半的文件
// - 目录 fsync 采用 best-effort（只对真实 OS 文件系统做）
func WriteFileAtomicReplace(fs afero.Fs, dir, name string, data []byte) error {
	return writeFileAtomic(fs, filepath.Clean(dir), name, data, 0o644)
}

func writeFileAtomic(fs afero.Fs, dir, name string, data []byte, perm os.FileMode) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	dst := filepath.Join(dir, name)

	// 同目录临时文件（前缀带 '.'）。
	tmp, err := afero.TempFile(fs, dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
	}()

	if err := writeAll(tmp, data); err != nil {
		return err
	}
	if err := fs.Chmod(tmpName, perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := renameFunc(fs, tmpName, dst); err != nil {
		return err
	}

	_ = syncDirBestEffort(fs, dir)
	return nil
}

// ReadFile 读取文件；不存在时返回 exists=false 且 err=nil。
func ReadFile(fs afero.Fs, path string) (b []byte, exists bool, err error) {
	b, err = afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func syncDirBestEffort(fs afero.Fs, dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	if _, ok := fs.(*afero.OsFs); !ok {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
