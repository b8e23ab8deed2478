package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
)

// TailReader 读取命令文件，到达末尾后等待追加写入而不是返回 EOF。
// ctx 取消或文件被删除、重命名时返回 io.EOF
type TailReader struct {
	ctx     context.Context
	f       *os.File
	watcher *fsnotify.Watcher
}

// OpenTail 打开文件并开始监听其变化
func OpenTail(ctx context.Context, path string) (*TailReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		f.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &TailReader{ctx: ctx, f: f, watcher: watcher}, nil
}

// Read implements io.Reader.
func (t *TailReader) Read(p []byte) (int, error) {
	for {
		n, err := t.f.Read(p)
		if n > 0 {
			return n, nil
		}
		if err != nil && err != io.EOF {
			return 0, err
		}

		select {
		case <-t.ctx.Done():
			return 0, io.EOF
		case ev, ok := <-t.watcher.Events:
			if !ok || ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				return 0, io.EOF
			}
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return 0, io.EOF
			}
			return 0, err
		}
	}
}

// Close 停止监听并关闭文件
func (t *TailReader) Close() error {
	werr := t.watcher.Close()
	if err := t.f.Close(); err != nil {
		return err
	}
	return werr
}
