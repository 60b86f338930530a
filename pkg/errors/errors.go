package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFilePath  = errors.New("invalid file path")
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrReadFailed       = errors.New("log read failed")
	ErrWriteFailed      = errors.New("report write failed")
	ErrConfigNotFound   = errors.New("config not found")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrInvalidPolicy    = errors.New("invalid policy")
	ErrDuplicateStart   = errors.New("duplicate start event")
	ErrAlreadyExists    = errors.New("file already exists")
)

func NewFileError(path string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, reason)
}

func NewReadError(path string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrReadFailed, path, reason)
}

func NewWriteError(path string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, reason)
}

func NewConfigError(field string, value interface{}) error {
	return fmt.Errorf("%w: field=%s value=%v", ErrConfigInvalid, field, value)
}

func NewPolicyError(kind, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalidPolicy, kind, value)
}

func NewDuplicateStartError(pid string, line int) error {
	return fmt.Errorf("%w: pid=%s line=%d", ErrDuplicateStart, pid, line)
}
