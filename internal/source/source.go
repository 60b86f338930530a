package source

import (
	"bufio"
	"io"
	"strings"
)

// DefaultLogPath is where the kernel writes the phase tracking messages.
// DefaultLogPath 是内核写入相位跟踪消息的位置。
const DefaultLogPath = "/var/log/kern.log"

// StdinPath selects standard input instead of a file.
const StdinPath = "-"

// LineReader yields lines without terminators and io.EOF at end of input.
// Close releases the underlying resources and may be called before EOF.
// LineReader 逐行读取日志，Close 可以在读到 EOF 之前调用。
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

// Reader reads lines from an arbitrary io.Reader. Line length is not
// bounded, matching the file source.
// Reader 从任意 io.Reader 读取日志行，行长度不受限制。
type Reader struct {
	br     *bufio.Reader
	closer io.Closer
}

// NewReader wraps r. If r is an io.Closer it is closed by Close.
// NewReader 包装 r，若 r 实现了 io.Closer 则由 Close 关闭。
func NewReader(r io.Reader) *Reader {
	rd := &Reader{br: bufio.NewReaderSize(r, 64*1024)}
	if c, ok := r.(io.Closer); ok {
		rd.closer = c
	}
	return rd
}

// ReadLine returns the next line.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil {
		if err != io.EOF || line == "" {
			return "", err
		}
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// Close closes the wrapped reader if it is closable.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Open returns a reader for path, or for stdin when path is StdinPath.
// Open 根据 path 返回读取器，path 为 "-" 时读取 stdin。
func Open(path string, stdin io.Reader) (LineReader, error) {
	if path == StdinPath {
		return NewReader(io.NopCloser(stdin)), nil
	}
	return OpenFile(path)
}
