package fileutil

import (
	"os"
	"path/filepath"
)

// AtomicWriteFile writes data to a temporary file and then renames it to the target file.
// AtomicWriteFile 将数据写入临时文件，然后将其重命名为目标文件。
func AtomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	f, err := CreateAtomic(filename, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Abort()
		return err
	}
	return f.Commit()
}

// AtomicFile is a file that only becomes visible at its final path on Commit.
// AtomicFile 仅在 Commit 时才出现在目标路径上的文件。
type AtomicFile struct {
	*os.File
	target string
	perm   os.FileMode
	done   bool
}

// CreateAtomic opens a temporary file next to filename.
// CreateAtomic 在目标文件同目录下创建临时文件。
func CreateAtomic(filename string, perm os.FileMode) (*AtomicFile, error) {
	dir := filepath.Dir(filename) // #nosec G703 // Safe: filepath.Dir cleans the path preventing traversal
	tmp, err := os.CreateTemp(dir, ".atomic-*.tmp")
	if err != nil {
		return nil, err
	}
	return &AtomicFile{File: tmp, target: filename, perm: perm}, nil
}

// Target returns the final path of the file.
func (f *AtomicFile) Target() string {
	return f.target
}

// Commit flushes the temporary file and renames it over the target.
// Commit 刷新临时文件并将其重命名为目标文件。
func (f *AtomicFile) Commit() error {
	if f.done {
		return nil
	}
	f.done = true
	defer os.Remove(f.File.Name()) // no-op after a successful rename

	if err := f.File.Chmod(f.perm); err != nil {
		f.File.Close()
		return err
	}
	if err := f.File.Sync(); err != nil {
		f.File.Close()
		return err
	}
	if err := f.File.Close(); err != nil {
		return err
	}
	return os.Rename(f.File.Name(), f.target) // #nosec G703 // target is validated by caller
}

// Abort discards the temporary file. Safe to call after Commit.
// Abort 丢弃临时文件，在 Commit 之后调用是安全的。
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.File.Close()
	os.Remove(f.File.Name())
}

// Exists reports whether path exists.
// Exists 判断路径是否存在。
func Exists(path string) bool {
	_, err := os.Stat(filepath.Clean(path))
	return err == nil
}
