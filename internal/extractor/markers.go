package extractor

import (
	"fmt"
	"strings"
)

// ShiftSectionHeader opens the trailing block of buffered shift readings.
const ShiftSectionHeader = "###################Phase shifts graph###################"

// EventKind identifies which marker a line matched.
// EventKind 表示日志行匹配到的标记类型。
type EventKind int

const (
	EventStart EventKind = iota
	EventEnd
	EventTick
	EventShift
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventTick:
		return "tick"
	case EventShift:
		return "shift"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Markers holds the four literal marker strings for one PID.
// Markers 保存某个 PID 对应的四个字面量标记。
type Markers struct {
	PID   string
	Start string
	End   string
	Tick  string
	Shift string
}

// NewMarkers interpolates pid into the marker templates.
// NewMarkers 将 pid 填入标记模板。
func NewMarkers(pid string) Markers {
	return Markers{
		PID:   pid,
		Start: fmt.Sprintf("[%s]: execution has begun. Locality size is ", pid),
		End:   fmt.Sprintf("[%s]: execution has ended", pid),
		Tick:  fmt.Sprintf("[%s] tick: ", pid),
		Shift: fmt.Sprintf("[%s] shift: ", pid),
	}
}

// Blank reports whether the PID is empty or only whitespace. Such markers
// would match lines like "proc[]" and are never applied.
func (m Markers) Blank() bool {
	return strings.TrimSpace(m.PID) == ""
}

// MatchStart reports whether line carries the start marker. It returns the
// text before the marker and the locality size that follows it.
func (m Markers) MatchStart(line string) (prefix, size string, ok bool) {
	return strings.Cut(line, m.Start)
}

// MatchEnd reports whether line carries the end marker.
func (m Markers) MatchEnd(line string) bool {
	return strings.Contains(line, m.End)
}

// MatchTick returns the tick payload following the tick marker.
func (m Markers) MatchTick(line string) (string, bool) {
	return payloadAfter(line, m.Tick)
}

// MatchShift returns the shift payload following the shift marker.
func (m Markers) MatchShift(line string) (string, bool) {
	return payloadAfter(line, m.Shift)
}

// Header renders the report's opening line for a start event.
// Header 根据 start 事件生成报告的首行。
func (m Markers) Header(name, size string) string {
	return fmt.Sprintf("%s[%s], locality size %s.\nFaults graph:\n ", name, m.PID, size)
}

func payloadAfter(line, marker string) (string, bool) {
	_, after, ok := strings.Cut(line, marker)
	return after, ok
}
