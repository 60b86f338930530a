// Package extractor scans a log for one process's lifecycle events and
// renders them into a phase report.
//
// The report layout is:
//
//	<name>[<pid>], locality size <size>.
//	Faults graph:
//	<space>
//	<tick>
//
//	<tick>
//
//	###################Phase shifts graph###################
//	<shift>
//	<shift>
//
// Header and ticks are written as soon as they are seen, shifts are held
// back and written after the scan stops. The scan stops at the first end
// marker for the PID or at end of input.
package extractor

import (
	"bufio"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/livp123/phaselog/internal/utils/logger"
	"github.com/livp123/phaselog/pkg/errors"
)

// LineReader yields log lines without their terminators and returns io.EOF
// once the input is exhausted.
// LineReader 逐行返回日志内容（不含换行符），结束时返回 io.EOF。
type LineReader interface {
	ReadLine() (string, error)
}

// Options tunes extraction behaviour. The zero value is the default.
// Options 调整提取行为，零值即为默认值。
type Options struct {
	StartPolicy StartPolicy
	NameRule    NameRule
}

// Result summarizes one run. It mirrors what was written and is used for
// logging and metrics only.
// Result 汇总一次提取运行，仅用于日志与指标。
type Result struct {
	PID        string
	Header     string
	Starts     int
	Ticks      []string
	Shifts     []string
	Lines      int
	Terminated bool
}

// Count returns how many events of kind were seen.
func (r *Result) Count(kind EventKind) int {
	switch kind {
	case EventStart:
		return r.Starts
	case EventEnd:
		if r.Terminated {
			return 1
		}
		return 0
	case EventTick:
		return len(r.Ticks)
	case EventShift:
		return len(r.Shifts)
	}
	return 0
}

// Matched reports whether any line belonged to the PID.
func (r *Result) Matched() bool {
	return r.Starts > 0 || r.Terminated || len(r.Ticks) > 0 || len(r.Shifts) > 0
}

// Extractor is the single scan-and-emit stage. It is not safe for concurrent
// use, but holds no state between runs.
// Extractor 是唯一的扫描输出阶段，不支持并发使用，运行之间不保留状态。
type Extractor struct {
	markers Markers
	opts    Options
	logger  *zap.SugaredLogger
}

// New creates an Extractor for pid. A nil logger discards log output.
// New 为 pid 创建 Extractor。
func New(pid string, opts Options, log *zap.SugaredLogger) *Extractor {
	if opts.StartPolicy == "" {
		opts.StartPolicy = StartFirst
	}
	if opts.NameRule == "" {
		opts.NameRule = NameLastField
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{
		markers: NewMarkers(pid),
		opts:    opts,
		logger:  log,
	}
}

// Markers returns the markers the extractor matches against.
func (x *Extractor) Markers() Markers {
	return x.markers
}

// Run reads lines from r until the end marker or io.EOF and writes the
// report to w. Read errors abort the run; the returned Result still
// describes what was consumed up to that point. A blank PID matches no
// line, so its report is only the shift section header.
// Run 从 r 读取日志行直到遇到结束标记或 io.EOF，并将报告写入 w。
// 空白 PID 不匹配任何行，报告只包含 shift 段标题。
func (x *Extractor) Run(r LineReader, w io.Writer) (*Result, error) {
	bw := bufio.NewWriter(w)
	res := &Result{PID: x.markers.PID}
	blank := x.markers.Blank()

	for !res.Terminated {
		line, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, err
		}
		res.Lines++
		if blank {
			continue
		}
		if err := x.scanLine(line, bw, res); err != nil {
			return res, err
		}
	}

	bw.WriteString(ShiftSectionHeader)
	for _, s := range res.Shifts {
		bw.WriteString("\n")
		bw.WriteString(s)
	}
	if err := bw.Flush(); err != nil {
		return res, err
	}

	if !res.Matched() {
		x.logger.Infof("No events found for pid %s in %d lines", res.PID, res.Lines)
	} else if !res.Terminated {
		x.logger.Debugf("Log ended before pid %s finished execution", res.PID)
	}
	return res, nil
}

// scanLine applies the four marker checks in order. Several may fire on
// one line, except that nothing after the end marker is considered.
func (x *Extractor) scanLine(line string, w *bufio.Writer, res *Result) error {
	m := x.markers

	if prefix, size, ok := m.MatchStart(line); ok {
		res.Starts++
		switch {
		case res.Starts == 1 || x.opts.StartPolicy == StartRepeat:
			res.Header = m.Header(x.opts.NameRule.Name(prefix), size)
			w.WriteString(res.Header)
			w.WriteString("\n")
		case x.opts.StartPolicy == StartStrict:
			return errors.NewDuplicateStartError(m.PID, res.Lines)
		default:
			x.logger.Debugf("Ignoring repeated start for pid %s at line %d", m.PID, res.Lines)
		}
	}

	if m.MatchEnd(line) {
		res.Terminated = true
		return nil
	}

	if payload, ok := m.MatchTick(line); ok {
		res.Ticks = append(res.Ticks, payload)
		w.WriteString(payload)
		w.WriteString("\n\n")
	}

	if payload, ok := m.MatchShift(line); ok {
		res.Shifts = append(res.Shifts, payload)
	}
	return nil
}

type sliceReader struct {
	lines []string
}

func (s *sliceReader) ReadLine() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

// ExtractLines runs a default extraction over in-memory lines and returns
// the report text.
// ExtractLines 对内存中的日志行执行默认提取并返回报告文本。
func ExtractLines(lines []string, pid string) string {
	var sb strings.Builder
	// Neither the reader nor the builder can fail.
	_, _ = New(pid, Options{}, nil).Run(&sliceReader{lines: lines}, &sb)
	return sb.String()
}
