package muon

import "fmt"

// Date is an RFC 3339 full-date: a calendar date with no time or offset.
//
// The zero Date is not valid; build one with ParseDate or NewDate.
type Date struct {
	year  uint16
	month uint8
	day   uint8
}

// NewDate returns a validated calendar date.
func NewDate(year, month, day int) (Date, error) {
	if year < 0 || year > 9999 || month < 1 || month > 12 {
		return Date{}, ErrExpectedDate
	}
	if day < 1 || day > daysInMonth(year, month) {
		return Date{}, ErrExpectedDate
	}
	return Date{uint16(year), uint8(month), uint8(day)}, nil
}

// ParseDate parses a date in yyyy-mm-dd form.
func ParseDate(s string) (Date, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return Date{}, ErrExpectedDate
	}
	year, ok1 := parseDigits(s[:4])
	month, ok2 := parseDigits(s[5:7])
	day, ok3 := parseDigits(s[8:])
	if !ok1 || !ok2 || !ok3 {
		return Date{}, ErrExpectedDate
	}
	return NewDate(year, month, day)
}

// Year returns the year.
func (d Date) Year() int { return int(d.year) }

// Month returns the month, 1 through 12.
func (d Date) Month() int { return int(d.month) }

// Day returns the day of the month, 1 through 31.
func (d Date) Day() int { return int(d.day) }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	date, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = date
	return nil
}

// Time is an RFC 3339 partial-time: a wall-clock time with no date or
// offset, to nanosecond precision.
type Time struct {
	hour       uint8
	minute     uint8
	second     uint8
	nanosecond uint32
}

// NewTime returns a validated wall-clock time.
func NewTime(hour, minute, second, nanosecond int) (Time, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Time{}, ErrExpectedTime
	}
	if second < 0 || second > 59 || nanosecond < 0 || nanosecond > 999_999_999 {
		return Time{}, ErrExpectedTime
	}
	return Time{uint8(hour), uint8(minute), uint8(second), uint32(nanosecond)}, nil
}

// ParseTime parses a time in hh:mm:ss form with an optional fractional
// second. Fractional digits beyond nanosecond precision are dropped.
func ParseTime(s string) (Time, error) {
	if len(s) < 8 || s[2] != ':' || s[5] != ':' {
		return Time{}, ErrExpectedTime
	}
	hour, ok1 := parseDigits(s[:2])
	minute, ok2 := parseDigits(s[3:5])
	second, ok3 := parseDigits(s[6:8])
	if !ok1 || !ok2 || !ok3 {
		return Time{}, ErrExpectedTime
	}
	nanosecond, ok := parseFraction(s[8:])
	if !ok {
		return Time{}, ErrExpectedTime
	}
	return NewTime(hour, minute, second, nanosecond)
}

// Hour returns the hour, 0 through 23.
func (t Time) Hour() int { return int(t.hour) }

// Minute returns the minute, 0 through 59.
func (t Time) Minute() int { return int(t.minute) }

// Second returns the second, 0 through 59.
func (t Time) Second() int { return int(t.second) }

// Nanosecond returns the fractional second in nanoseconds.
func (t Time) Nanosecond() int { return int(t.nanosecond) }

func (t Time) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.hour, t.minute, t.second)
	if t.nanosecond > 0 {
		frac := fmt.Sprintf("%09d", t.nanosecond)
		for len(frac) > 1 && frac[len(frac)-1] == '0' {
			frac = frac[:len(frac)-1]
		}
		s += "." + frac
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Time) UnmarshalText(text []byte) error {
	tm, err := ParseTime(string(text))
	if err != nil {
		return err
	}
	*t = tm
	return nil
}

// TimeOffset is an RFC 3339 time-offset: Z or a signed hh:mm offset from
// UTC. The zero TimeOffset is Z.
type TimeOffset struct {
	minutes  int16
	negative bool // distinguishes -00:00 from Z
}

// UTC is the Z time offset.
var UTC = TimeOffset{}

// NewTimeOffset returns a validated offset of the given sign.
func NewTimeOffset(hour, minute int, negative bool) (TimeOffset, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOffset{}, ErrExpectedTimeOffset
	}
	return TimeOffset{int16(hour*60 + minute), negative}, nil
}

// ParseTimeOffset parses Z or a ±hh:mm offset.
func ParseTimeOffset(s string) (TimeOffset, error) {
	if s == "Z" {
		return UTC, nil
	}
	if len(s) != 6 || s[3] != ':' || (s[0] != '+' && s[0] != '-') {
		return TimeOffset{}, ErrExpectedTimeOffset
	}
	hour, ok1 := parseDigits(s[1:3])
	minute, ok2 := parseDigits(s[4:6])
	if !ok1 || !ok2 {
		return TimeOffset{}, ErrExpectedTimeOffset
	}
	return NewTimeOffset(hour, minute, s[0] == '-')
}

// Seconds returns the offset from UTC in seconds, negative for west.
func (o TimeOffset) Seconds() int {
	s := int(o.minutes) * 60
	if o.negative {
		return -s
	}
	return s
}

func (o TimeOffset) String() string {
	if o.minutes == 0 && !o.negative {
		return "Z"
	}
	sign := "+"
	if o.negative {
		sign = "-"
	}
	return fmt.Sprintf("%s%02d:%02d", sign, o.minutes/60, o.minutes%60)
}

// MarshalText implements encoding.TextMarshaler.
func (o TimeOffset) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *TimeOffset) UnmarshalText(text []byte) error {
	off, err := ParseTimeOffset(string(text))
	if err != nil {
		return err
	}
	*o = off
	return nil
}

// DateTime is an RFC 3339 date-time: a Date, a Time and a TimeOffset.
type DateTime struct {
	date   Date
	time   Time
	offset TimeOffset
}

// NewDateTime combines a date, time and offset.
func NewDateTime(date Date, time Time, offset TimeOffset) DateTime {
	return DateTime{date, time, offset}
}

// ParseDateTime parses a datetime in yyyy-mm-ddThh:mm:ss[.frac](Z|±hh:mm)
// form.
func ParseDateTime(s string) (DateTime, error) {
	// date (10) + T + time (8 or more) + offset (1 or 6)
	if len(s) < 20 || s[10] != 'T' {
		return DateTime{}, ErrExpectedDateTime
	}
	off := offsetIndex(s)
	if off < 19 {
		return DateTime{}, ErrExpectedDateTime
	}
	date, err := ParseDate(s[:10])
	if err != nil {
		return DateTime{}, ErrExpectedDateTime
	}
	tm, err := ParseTime(s[11:off])
	if err != nil {
		return DateTime{}, ErrExpectedDateTime
	}
	offset, err := ParseTimeOffset(s[off:])
	if err != nil {
		return DateTime{}, ErrExpectedDateTime
	}
	return DateTime{date, tm, offset}, nil
}

// offsetIndex finds where a trailing time offset starts: a final Z is one
// byte, a signed offset is six.
func offsetIndex(s string) int {
	switch {
	case len(s) >= 1 && s[len(s)-1] == 'Z':
		return len(s) - 1
	case len(s) >= 6:
		return len(s) - 6
	default:
		return 0
	}
}

// Date returns the date part.
func (dt DateTime) Date() Date { return dt.date }

// Time returns the time part.
func (dt DateTime) Time() Time { return dt.time }

// TimeOffset returns the offset part.
func (dt DateTime) TimeOffset() TimeOffset { return dt.offset }

func (dt DateTime) String() string {
	return dt.date.String() + "T" + dt.time.String() + dt.offset.String()
}

// MarshalText implements encoding.TextMarshaler.
func (dt DateTime) MarshalText() ([]byte, error) {
	return []byte(dt.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (dt *DateTime) UnmarshalText(text []byte) error {
	d, err := ParseDateTime(string(text))
	if err != nil {
		return err
	}
	*dt = d
	return nil
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInMonth(year, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// parseDigits parses a fixed run of ASCII decimal digits.
func parseDigits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}

// parseFraction parses an optional ".digits" fractional second into
// nanoseconds, truncating past nine digits.
func parseFraction(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	if len(s) < 2 || s[0] != '.' {
		return 0, false
	}
	ns := 0
	for i, c := range []byte(s[1:]) {
		if c < '0' || c > '9' {
			return 0, false
		}
		if i < 9 {
			ns = ns*10 + int(c-'0')
		}
	}
	for i := len(s) - 1; i < 9; i++ {
		ns *= 10
	}
	return ns, true
}
