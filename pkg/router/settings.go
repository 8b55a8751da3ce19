package router

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// Settings controls how the router behaves. Lengths are in board units.
type Settings struct {
	DRC                    bool `toml:"drc"`                       // gate placements and push away from foreign copper
	Use45DegreeTracks      bool `toml:"use_45_degree_tracks"`      // constrain segments to 0/45/90 degrees
	UseTwoSegmentTracks    bool `toml:"use_two_segment_tracks"`    // the cursor drags two segments joined at a break point
	AutoCorner45           bool `toml:"auto_corner_45"`            // chamfer right angles when extending
	UseConnectedTrackWidth bool `toml:"use_connected_track_width"` // keep the width of the track the route starts on
	AutoDeleteOldTrack     bool `toml:"auto_delete_old_track"`     // erase the old track a new route replaces
	AlternatePosture       bool `toml:"alternate_posture"`         // initial break point posture

	GridSize   int `toml:"grid_size"`
	TrackWidth int `toml:"track_width"` // 0 uses the net class width

	// Added to the push distance: one unit because clearance checks are
	// strict, one for rounding of diagonal normals.
	StrictClearanceSlack  int `toml:"strict_clearance_slack"`
	DiagonalRoundoffSlack int `toml:"diagonal_roundoff_slack"`
}

// DefaultSettings returns the settings of a fresh editor, with a 50 mil
// grid in nanometres.
func DefaultSettings() Settings {
	return Settings{
		DRC:                   true,
		Use45DegreeTracks:     true,
		UseTwoSegmentTracks:   true,
		AutoCorner45:          true,
		AutoDeleteOldTrack:    true,
		GridSize:              1_270_000,
		StrictClearanceSlack:  1,
		DiagonalRoundoffSlack: 1,
	}
}

// Validate checks the settings for values the router cannot work with.
func (s *Settings) Validate() error {
	if s.GridSize <= 0 {
		return fmt.Errorf("invalid grid size %d: must be positive", s.GridSize)
	}
	if s.TrackWidth < 0 {
		return fmt.Errorf("invalid track width %d: must not be negative", s.TrackWidth)
	}
	if s.StrictClearanceSlack < 0 || s.DiagonalRoundoffSlack < 0 {
		return fmt.Errorf("invalid push slack %d/%d: must not be negative",
			s.StrictClearanceSlack, s.DiagonalRoundoffSlack)
	}
	return nil
}

// DecodeSettings reads TOML settings from r on top of the defaults.
// Unknown keys are an error.
func DecodeSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return s, checkDecoded(&s, md)
}

// LoadSettings reads TOML settings from a file on top of the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings %s: %w", path, err)
	}
	return s, checkDecoded(&s, md)
}

func checkDecoded(s *Settings, md toml.MetaData) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown settings keys: %s", strings.Join(keys, ", "))
	}
	return s.Validate()
}
