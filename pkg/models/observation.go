package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the local timestamp layout the dashboard exchanges: DD-MM-YYYY HH:mm:ss
const TimeLayout = "02-01-2006 15:04:05"

// Observation is one DHT22 sample as the dashboard presents it.
// Temperature and Humidity are nil when the device did not report them.
type Observation struct {
	Time        string   `json:"time"`
	Temperature *float64 `json:"temp"`
	Humidity    *float64 `json:"hum"`
	EntryID     int      `json:"entry_id"`
}

// HasValues reports whether both scalars are present and numeric
func (o Observation) HasValues() bool {
	return isNumber(o.Temperature) && isNumber(o.Humidity)
}

// ParseTime parses the observation timestamp in the given zone
func (o Observation) ParseTime(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, o.Time, loc)
}

// Float returns a pointer to v, handy for building observations
func Float(v float64) *float64 {
	return &v
}

// ParseValue reads a sensor field. Empty or unparsable text and the
// "nan"/"inf" a failed DHT22 read produces all come back nil.
func ParseValue(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return Finite(&v)
}

// Finite returns v, or nil when v is NaN or infinite
func Finite(v *float64) *float64 {
	if !isNumber(v) {
		return nil
	}
	return v
}

func isNumber(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
