package report

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/livp123/phaselog/internal/utils/fileutil"
	"github.com/livp123/phaselog/pkg/errors"
)

// DefaultSuffix is appended to the output name given on the command line.
const DefaultSuffix = ".csv"

// Sink receives a report. Nothing is guaranteed to be visible until Commit;
// Abort discards whatever was written.
// Sink 接收报告内容，Commit 之前内容不保证可见，Abort 丢弃已写入的内容。
type Sink interface {
	io.Writer
	Name() string
	Commit() error
	Abort()
}

// OutputPath appends suffix to name unless name already ends with it.
// OutputPath 为 name 追加后缀（若已包含该后缀则不重复追加）。
func OutputPath(name, suffix string) string {
	if suffix == "" || strings.HasSuffix(name, suffix) {
		return name
	}
	return name + suffix
}

type fileSink struct {
	f *fileutil.AtomicFile
}

// Create opens an atomic report file at path. The file replaces any
// existing one only on Commit.
// Create 在 path 创建原子报告文件，仅在 Commit 时替换已有文件。
func Create(path string) (Sink, error) {
	if path == "" {
		return nil, errors.ErrInvalidFilePath
	}
	safePath := filepath.Clean(path)
	f, err := fileutil.CreateAtomic(safePath, 0644)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errors.NewWriteError(safePath, errors.ErrPermissionDenied)
		}
		return nil, errors.NewWriteError(safePath, err)
	}
	return &fileSink{f: f}, nil
}

func (s *fileSink) Write(p []byte) (int, error) {
	return s.f.Write(p)
}

func (s *fileSink) Name() string {
	return s.f.Target()
}

func (s *fileSink) Commit() error {
	if err := s.f.Commit(); err != nil {
		return errors.NewWriteError(s.f.Target(), err)
	}
	return nil
}

func (s *fileSink) Abort() {
	s.f.Abort()
}

type streamSink struct {
	w    io.Writer
	name string
}

// Stream wraps an already open writer such as stdout. Commit and Abort are
// no-ops because the bytes are already gone.
// Stream 包装已打开的 writer（如 stdout），Commit 与 Abort 不做任何操作。
func Stream(w io.Writer, name string) Sink {
	return &streamSink{w: w, name: name}
}

func (s *streamSink) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s *streamSink) Name() string                { return s.name }
func (s *streamSink) Commit() error               { return nil }
func (s *streamSink) Abort()                      {}
