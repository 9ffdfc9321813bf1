package dbtime

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayUsesLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	// 23:30 UTC on the 15th is already the 16th in Paris
	at := time.Date(2026, 10, 15, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), Today(at, paris))
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), Day(at, nil))
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate(" 2026-02-28 ")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"", "2026-02-30", "28/02/2026", "2026-2-28"} {
		_, ok := ParseDate(bad)
		assert.False(t, ok, bad)
	}
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), MonthStart(d))
}

func TestTodParse(t *testing.T) {
	cases := map[string]string{
		"09:00":           "09:00",
		"9:05":            "09:05",
		"23:59:59":        "23:59",
		"14:30:00.000000": "14:30",
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String())
	}

	for _, bad := range []string{"24:00", "12:60", "noon", ""} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
		assert.False(t, ValidHHMM(bad), bad)
	}
}

func TestTodScanValueJSON(t *testing.T) {
	var tt Tod
	require.NoError(t, tt.Scan("08:15:00"))
	v, err := tt.Value()
	require.NoError(t, err)
	assert.Equal(t, "08:15:00", v)

	require.NoError(t, tt.Scan([]byte("17:45")))
	assert.Equal(t, "17:45", tt.String())

	require.NoError(t, tt.Scan(time.Date(2026, 1, 1, 6, 7, 8, 0, time.UTC)))
	assert.Equal(t, "06:07", tt.String())

	assert.Error(t, tt.Scan(42))

	b, err := json.Marshal(From(time.Date(1, 1, 1, 10, 30, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.JSONEq(t, `"10:30"`, string(b))

	var back Tod
	require.NoError(t, json.Unmarshal([]byte(`"10:30"`), &back))
	assert.Equal(t, "10:30", back.String())
	assert.True(t, From(time.Date(1, 1, 1, 9, 0, 0, 0, time.UTC)).Before(back.Time))
}
