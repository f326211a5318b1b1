package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Chromium epoch ---

func TestChromiumTime_MatchesUnixArithmetic(t *testing.T) {
	// 2021-03-01 12:00:00 UTC in Chromium microseconds.
	unixSec := int64(1614600000)
	micros := (unixSec + 11644473600) * 1e6

	got := ChromiumTime(micros)
	assert.Equal(t, UnixTime(unixSec), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestChromiumTime_ZeroIsEpochSentinel(t *testing.T) {
	assert.Equal(t, Epoch(), ChromiumTime(0))
}

func TestChromiumTime_SubSecondPrecision(t *testing.T) {
	micros := (int64(1614600000)+11644473600)*1e6 + 123456
	got := ChromiumTime(micros)
	assert.Equal(t, 123456000, got.Nanosecond())
}

// --- Gecko epoch ---

func TestGeckoTime_RecoversUnixSeconds(t *testing.T) {
	for _, sec := range []int64{1, 946684800, 1614600000, 1893456000} {
		got := GeckoTime(sec * 1e6)
		assert.Equal(t, sec, got.Unix(), "seconds %d", sec)
	}
}

func TestGeckoTime_ZeroIsEpochSentinel(t *testing.T) {
	assert.Equal(t, Epoch(), GeckoTime(0))
}

// --- Heuristic classification ---

func TestClassifyEpoch(t *testing.T) {
	ref := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		v    int64
	}{
		{"unix seconds", ref.Unix()},
		{"unix millis", ref.UnixMilli()},
		{"unix micros", ref.UnixMicro()},
		{"chromium micros", (ref.Unix() + 11644473600) * 1e6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, ClassifyEpoch(tt.v).Equal(ref))
		})
	}
}

func TestClassifyEpoch_Zero(t *testing.T) {
	assert.Equal(t, Epoch(), ClassifyEpoch(0))
}

// --- Zone conversion and formatting ---

func TestConvertZone_KnownZone(t *testing.T) {
	utc := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	ny := ConvertZone(utc, "America/New_York")

	require.True(t, ny.Equal(utc), "instant must not shift")
	assert.Equal(t, 8, ny.Hour()) // EDT is UTC-4
}

func TestConvertZone_UnknownZoneReturnsInput(t *testing.T) {
	utc := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, utc, ConvertZone(utc, "Not/AZone"))
	assert.Equal(t, utc, ConvertZone(utc, ""))
}

func TestFormat(t *testing.T) {
	ts := time.Date(2021, 6, 1, 12, 30, 45, 0, time.UTC)
	assert.Equal(t, "2021-06-01 12:30:45 UTC", Format(ts, ""))
	assert.Equal(t, "2021-06-01", Format(ts, "2006-01-02"))
	assert.Equal(t, "N/A", Format(time.Time{}, ""))
}
