package waveform

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Errors returned by the loader.
var (
	ErrNoRecords      = errors.New("waveform: input contains no station records")
	ErrUnknownChannel = errors.New("waveform: channel not allowed for station")
)

// ChannelTable maps a station identifier to the channel codes its site
// actually records. Sites with irregular naming (historical arrays with
// lettered instead of numbered elements) get an explicit entry; everyone
// else falls through to the default. This is acquisition-boundary
// configuration data and stays out of the engine.
type ChannelTable map[string][]string

// DefaultChannel is accepted for stations without a table entry.
const DefaultChannel = "BDF"

// Allowed reports whether the channel code is valid for the station.
// A nil table allows everything.
func (t ChannelTable) Allowed(station, channel string) bool {
	if t == nil || channel == "" {
		return true
	}

	codes, ok := t[station]
	if !ok {
		return channel == DefaultChannel
	}

	for _, c := range codes {
		if c == channel {
			return true
		}
	}

	return false
}

// record is the JSON interchange form of one station trace.
type record struct {
	Station    string    `json:"station"`
	Channel    string    `json:"channel,omitempty"`
	Lon        float64   `json:"lon"`
	Lat        float64   `json:"lat"`
	Elevation  float64   `json:"elevation"`
	SampleRate float64   `json:"sample_rate"`
	Start      time.Time `json:"start"`
	Samples    []float64 `json:"samples"`
}

// Loader reads station sets from the JSON interchange format.
type Loader struct {
	// Channels optionally restricts which channel codes are accepted per
	// station. Nil disables the check.
	Channels ChannelTable
}

// Read decodes a station set and validates the uniform-sampling
// invariant.
func (l *Loader) Read(r io.Reader) (*Set, error) {
	var recs []record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("waveform: decode: %w", err)
	}

	if len(recs) == 0 {
		return nil, ErrNoRecords
	}

	stations := make([]Station, 0, len(recs))
	for _, rec := range recs {
		if !l.Channels.Allowed(rec.Station, rec.Channel) {
			return nil, fmt.Errorf("%w: station %s channel %q",
				ErrUnknownChannel, rec.Station, rec.Channel)
		}

		stations = append(stations, Station{
			ID:         rec.Station,
			Lon:        rec.Lon,
			Lat:        rec.Lat,
			Elevation:  rec.Elevation,
			SampleRate: rec.SampleRate,
			Start:      rec.Start,
			Samples:    rec.Samples,
		})
	}

	return NewSet(stations)
}

// Load reads a station set from a JSON file.
func (l *Loader) Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("waveform: %w", err)
	}
	defer f.Close()

	return l.Read(f)
}

// Load reads a station set from a JSON file with no channel restriction.
func Load(path string) (*Set, error) {
	var l Loader
	return l.Load(path)
}
