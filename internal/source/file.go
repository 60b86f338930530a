package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nxadm/tail"

	"github.com/livp123/phaselog/pkg/errors"
)

// File reads a log file once from the beginning. It does not follow the
// file past its current end.
// File 从头到尾读取一次日志文件，不会跟随文件增长。
type File struct {
	path   string
	tailer *tail.Tail
	closed bool
}

// OpenFile opens path for a single forward pass.
// OpenFile 打开 path 以进行单次顺序读取。
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.ErrInvalidFilePath
	}
	safePath := filepath.Clean(path)

	info, err := os.Stat(safePath)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, errors.NewFileError(safePath, err)
		case os.IsPermission(err):
			return nil, errors.NewReadError(safePath, errors.ErrPermissionDenied)
		default:
			return nil, errors.NewReadError(safePath, err)
		}
	}
	if info.IsDir() {
		return nil, errors.NewReadError(safePath, errors.ErrInvalidFilePath)
	}

	t, err := tail.TailFile(safePath, tail.Config{
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekStart},
		Follow:    false,
		ReOpen:    false,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, errors.NewReadError(safePath, err)
	}

	return &File{path: safePath, tailer: t}, nil
}

// Path returns the cleaned path being read.
func (f *File) Path() string {
	return f.path
}

// ReadLine returns the next line of the file.
func (f *File) ReadLine() (string, error) {
	if f.closed {
		return "", io.EOF
	}
	line, ok := <-f.tailer.Lines
	if !ok {
		// Lines is closed before the tail goroutine is marked dead.
		if err := f.tailer.Wait(); err != nil {
			return "", errors.NewReadError(f.path, err)
		}
		return "", io.EOF
	}
	if line.Err != nil {
		return "", errors.NewReadError(f.path, line.Err)
	}
	return strings.TrimSuffix(line.Text, "\r"), nil
}

// Close stops the tail goroutine. Lines not yet consumed are discarded.
// Close 停止 tail 协程，未读取的行将被丢弃。
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	// The tail goroutine may be blocked handing over a line; drain until it
	// closes the channel so Stop can return.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range f.tailer.Lines {
		}
	}()
	err := f.tailer.Stop()
	<-done
	return err
}
