// Package timeutil converts the incompatible timestamp epochs found in
// browser databases to UTC instants. Chromium stores microseconds since
// 1601-01-01, Gecko stores microseconds since the Unix epoch, and unknown
// databases may use seconds, milliseconds, or microseconds. All conversions
// are total: a missing timestamp (the literal 0) maps to the Unix epoch
// sentinel rather than an error.
package timeutil

import "time"

// chromiumEpochOffset is the number of seconds between 1601-01-01 and
// 1970-01-01.
const chromiumEpochOffset = 11644473600

// Epoch returns the Unix epoch sentinel used for missing timestamps.
func Epoch() time.Time {
	return time.Unix(0, 0).UTC()
}

// ChromiumTime converts a Chromium/WebKit timestamp (microseconds since
// 1601-01-01) to a UTC instant. 0 maps to the epoch sentinel.
func ChromiumTime(micros int64) time.Time {
	if micros == 0 {
		return Epoch()
	}
	sec := micros/1e6 - chromiumEpochOffset
	rem := micros % 1e6
	return time.Unix(sec, rem*1000).UTC()
}

// GeckoTime converts a Gecko timestamp (microseconds since the Unix epoch)
// to a UTC instant. 0 maps to the epoch sentinel.
func GeckoTime(micros int64) time.Time {
	if micros == 0 {
		return Epoch()
	}
	return time.Unix(micros/1e6, (micros%1e6)*1000).UTC()
}

// UnixTime converts seconds since the Unix epoch to a UTC instant.
func UnixTime(sec int64) time.Time {
	if sec == 0 {
		return Epoch()
	}
	return time.Unix(sec, 0).UTC()
}

// UnixMilliTime converts milliseconds since the Unix epoch to a UTC instant.
func UnixMilliTime(millis int64) time.Time {
	if millis == 0 {
		return Epoch()
	}
	return time.UnixMilli(millis).UTC()
}

// UnixMicroTime converts microseconds since the Unix epoch to a UTC instant.
func UnixMicroTime(micros int64) time.Time {
	if micros == 0 {
		return Epoch()
	}
	return time.UnixMicro(micros).UTC()
}

// ClassifyEpoch converts an integer of unknown epoch to a UTC instant by
// magnitude. Databases with no schema hints carry no type information, so
// the range of the value is the only signal available: current Chromium
// timestamps sit above 1e16, Unix microseconds above 1e14, Unix
// milliseconds above 1e11, and anything smaller is read as Unix seconds.
func ClassifyEpoch(v int64) time.Time {
	switch {
	case v == 0:
		return Epoch()
	case v > 1e16:
		return ChromiumTime(v)
	case v > 1e14:
		return UnixMicroTime(v)
	case v > 1e11:
		return UnixMilliTime(v)
	default:
		return UnixTime(v)
	}
}

// ConvertZone renders an instant in the named IANA zone. An unknown or
// empty zone name returns the input unchanged so a malformed configuration
// never blocks viewing data.
func ConvertZone(t time.Time, zone string) time.Time {
	if zone == "" {
		return t
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return t
	}
	return t.In(loc)
}

// Format renders an instant with the given layout. The zero time formats
// as "N/A", the display convention for missing timestamps.
func Format(t time.Time, layout string) string {
	if t.IsZero() {
		return "N/A"
	}
	if layout == "" {
		layout = "2006-01-02 15:04:05 MST"
	}
	return t.Format(layout)
}
