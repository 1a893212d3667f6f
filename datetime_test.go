package muon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	muon "github.com/muon-data/go-muon"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in            string
		year, mon, dy int
	}{
		{"2011-01-01", 2011, 1, 1},
		{"2050-04-30", 2050, 4, 30},
		{"1999-01-31", 1999, 1, 31},
		{"1950-09-01", 1950, 9, 1},
		{"2019-07-31", 2019, 7, 31},
		{"2400-02-29", 2400, 2, 29},
		{"2004-02-29", 2004, 2, 29},
		{"2000-02-29", 2000, 2, 29},
	}
	for _, tt := range tests {
		d, err := muon.ParseDate(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.year, d.Year())
		assert.Equal(t, tt.mon, d.Month())
		assert.Equal(t, tt.dy, d.Day())
		assert.Equal(t, tt.in, d.String())
	}
}

func TestParseDateInvalid(t *testing.T) {
	tests := []string{
		"", "0000", "0000-00", "0000-00-", "0000-00-0", "0000-00-00",
		"1999-00-01", "2010-01-32", "2011-04-31", "2015-13-01",
		"2018-01-00", "1900-02-29", "2019:07-31",
	}
	for _, in := range tests {
		_, err := muon.ParseDate(in)
		assert.ErrorIs(t, err, muon.ErrExpectedDate, "input %q", in)
	}
}

func TestParseTime(t *testing.T) {
	tm, err := muon.ParseTime("16:35:21.363")
	require.NoError(t, err)
	assert.Equal(t, 16, tm.Hour())
	assert.Equal(t, 35, tm.Minute())
	assert.Equal(t, 21, tm.Second())
	assert.Equal(t, 363_000_000, tm.Nanosecond())
	assert.Equal(t, "16:35:21.363", tm.String())

	tm, err = muon.ParseTime("23:00:00")
	require.NoError(t, err)
	assert.Equal(t, 23, tm.Hour())
	assert.Equal(t, "23:00:00", tm.String())

	tm, err = muon.ParseTime("12:45:15.987654321")
	require.NoError(t, err)
	assert.Equal(t, 987_654_321, tm.Nanosecond())
}

func TestParseTimeInvalid(t *testing.T) {
	tests := []string{
		"", "00", "00:00", "00:00:", "00:00:0", "00;00:00",
		"00:00:00:0", "24:00:00", "00:60:00", "00:00:60", "00:00:00.",
	}
	for _, in := range tests {
		_, err := muon.ParseTime(in)
		assert.ErrorIs(t, err, muon.ErrExpectedTime, "input %q", in)
	}
}

func TestParseTimeOffset(t *testing.T) {
	tests := []struct {
		in      string
		seconds int
	}{
		{"Z", 0},
		{"-00:00", 0},
		{"+01:00", 3600},
		{"-05:00", -18000},
		{"-00:30", -1800},
		{"+10:45", 38700},
		{"+23:59", 86340},
	}
	for _, tt := range tests {
		o, err := muon.ParseTimeOffset(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.seconds, o.Seconds(), "input %q", tt.in)
		assert.Equal(t, tt.in, o.String())
	}
}

func TestParseTimeOffsetInvalid(t *testing.T) {
	tests := []string{
		"", "00:00", "0000", "_00;00", " 00:00", "+0A:00",
		"+00:60", "+24:00",
	}
	for _, in := range tests {
		_, err := muon.ParseTimeOffset(in)
		assert.ErrorIs(t, err, muon.ErrExpectedTimeOffset, "input %q", in)
	}
}

func TestParseDateTime(t *testing.T) {
	dt, err := muon.ParseDateTime("2019-08-07T16:35:21.363-06:00")
	require.NoError(t, err)
	assert.Equal(t, 2019, dt.Date().Year())
	assert.Equal(t, 8, dt.Date().Month())
	assert.Equal(t, 7, dt.Date().Day())
	assert.Equal(t, 16, dt.Time().Hour())
	assert.Equal(t, -21600, dt.TimeOffset().Seconds())
	assert.Equal(t, "2019-08-07T16:35:21.363-06:00", dt.String())

	dt, err = muon.ParseDateTime("2011-01-01T12:30:15Z")
	require.NoError(t, err)
	assert.Equal(t, 2011, dt.Date().Year())
	assert.Equal(t, 0, dt.TimeOffset().Seconds())

	dt, err = muon.ParseDateTime("2025-09-29T14:59:13.392853953+10:45")
	require.NoError(t, err)
	assert.Equal(t, 59, dt.Time().Minute())
	assert.Equal(t, 392_853_953, dt.Time().Nanosecond())
}

func TestParseDateTimeInvalid(t *testing.T) {
	tests := []string{
		"",
		"0000",
		"0000-00-00T00:00:00Z",
		"2000-01-01t00:00:00Z",
		"2000-01-01TT00:00:00Z",
		"2000-01-01 00:00:00Z",
		"2000-01-01T00:00:00 Z",
		"2000-01-01T00:00:00=00:00",
		"2000-01-01T00:00:00.00 +00:00",
		"2000-01-01T00:00:00.00.-00:00",
	}
	for _, in := range tests {
		_, err := muon.ParseDateTime(in)
		assert.ErrorIs(t, err, muon.ErrExpectedDateTime, "input %q", in)
	}
}
