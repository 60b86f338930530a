// Package fmtutil provides formatting utilities for human-readable output.
// Package fmtutil 提供用于人类可读输出的格式化工具。
package fmtutil

import (
	"fmt"
	"strings"
	"time"
)

// FormatCount formats a count with thousand separators.
// FormatCount 格式化数字，添加千位分隔符。
func FormatCount(n int) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// FormatBytes formats bytes to human readable format.
// FormatBytes 将字节格式化为可读格式。
func FormatBytes(b int64) string {
	if b < 1024 {
		return fmt.Sprintf("%dB", b)
	}
	if b < 1048576 {
		return fmt.Sprintf("%.2fKB", float64(b)/1024)
	}
	if b < 1073741824 {
		return fmt.Sprintf("%.2fMB", float64(b)/1048576)
	}
	return fmt.Sprintf("%.2fGB", float64(b)/1073741824)
}

// FormatDuration rounds short durations to milliseconds and longer ones to seconds.
// FormatDuration 将较短的持续时间取整到毫秒，较长的取整到秒。
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	if d < time.Minute {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
