package factory

import (
	"fmt"
	"time"

	"github.com/warp/award-engine/generic"
	"github.com/warp/award-engine/shift"
)

// ShiftJSON is one shift. Start and End are RFC 3339 or a local
// "2006-01-02T15:04" timestamp as produced by datetime inputs.
type ShiftJSON struct {
	Start             string `json:"start" yaml:"start"`
	End               string `json:"end" yaml:"end"`
	IsSleepover       bool   `json:"isSleepover,omitempty" yaml:"isSleepover,omitempty"`
	SleeperStart      string `json:"sleeperStart,omitempty" yaml:"sleeperStart,omitempty"`
	SleeperEnd        string `json:"sleeperEnd,omitempty" yaml:"sleeperEnd,omitempty"`
	HasBreakAgreement bool   `json:"hasBreakAgreement,omitempty" yaml:"hasBreakAgreement,omitempty"`
}

// ScheduleJSON is a pay period's worth of shifts.
type ScheduleJSON struct {
	EmploymentType string      `json:"employmentType" yaml:"employmentType"`
	Shifts         []ShiftJSON `json:"shifts" yaml:"shifts"`
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseTimestamp parses RFC 3339 or a zone-less local layout interpreted in
// loc. An explicit offset is kept as written, so weekday and time-of-day
// classification follow the wall clock of the timestamp. Empty input is
// ErrMissingTimestamp.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, generic.ErrMissingTimestamp
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// ToInterval converts a shift document, interpreting local times in loc.
func (sj ShiftJSON) ToInterval(loc *time.Location) (shift.Interval, error) {
	start, err := ParseTimestamp(sj.Start, loc)
	if err != nil {
		return shift.Interval{}, fmt.Errorf("start: %w", err)
	}
	end, err := ParseTimestamp(sj.End, loc)
	if err != nil {
		return shift.Interval{}, fmt.Errorf("end: %w", err)
	}

	iv := shift.Interval{
		Start:             start,
		End:               end,
		IsSleepover:       sj.IsSleepover,
		HasBreakAgreement: sj.HasBreakAgreement,
	}
	if sj.SleeperStart != "" {
		tod, err := generic.ParseTimeOfDay(sj.SleeperStart)
		if err != nil {
			return shift.Interval{}, fmt.Errorf("sleeperStart: %w", err)
		}
		iv.SleeperStart = &tod
	}
	if sj.SleeperEnd != "" {
		tod, err := generic.ParseTimeOfDay(sj.SleeperEnd)
		if err != nil {
			return shift.Interval{}, fmt.Errorf("sleeperEnd: %w", err)
		}
		iv.SleeperEnd = &tod
	}
	return iv, nil
}

// ToIntervals converts every shift, reporting the first failure by position.
func ToIntervals(shifts []ShiftJSON, loc *time.Location) ([]shift.Interval, error) {
	out := make([]shift.Interval, 0, len(shifts))
	for i, sj := range shifts {
		iv, err := sj.ToInterval(loc)
		if err != nil {
			return nil, fmt.Errorf("shift %d: %w", i+1, err)
		}
		out = append(out, iv)
	}
	return out, nil
}

// ParseSchedule decodes a schedule document.
func ParseSchedule(data []byte, format Format, loc *time.Location) ([]shift.Interval, shift.EmploymentType, error) {
	var doc ScheduleJSON
	if err := decode(data, format, &doc); err != nil {
		return nil, "", fmt.Errorf("failed to parse schedule: %w", err)
	}
	employment, err := shift.ParseEmploymentType(doc.EmploymentType)
	if err != nil {
		return nil, "", err
	}
	intervals, err := ToIntervals(doc.Shifts, loc)
	if err != nil {
		return nil, "", err
	}
	return intervals, employment, nil
}
