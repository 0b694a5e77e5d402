// Package camera models the operator-maintained configs.json that maps
// camera names to device identifiers. The file is edited by hand and
// consumed by external recording tooling; this package only parses and
// validates it. No capture logic lives here.
package camera

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// DefaultConfigFile is the camera configuration file in the working directory.
const DefaultConfigFile = "configs.json"

// Groups in configs.json. Wrist cameras are plain USB webcams addressed by
// OpenCV index; top cameras are RealSense units addressed by serial number.
const (
	GroupWrist = "wrist"
	GroupTop   = "top"
)

// ID is a camera identifier: either an integer device index or a serial
// number string, depending on the camera kind.
type ID struct {
	Index  int
	Serial string
	// IsIndex is true when the JSON value was a number.
	IsIndex bool
}

// UnmarshalJSON accepts either a JSON number (device index) or a string
// (serial number).
func (id *ID) UnmarshalJSON(data []byte) error {
	var idx int
	if err := json.Unmarshal(data, &idx); err == nil {
		id.Index = idx
		id.IsIndex = true
		return nil
	}

	var serial string
	if err := json.Unmarshal(data, &serial); err == nil {
		if serial == "" {
			return fmt.Errorf("empty camera serial")
		}
		id.Serial = serial
		return nil
	}

	return fmt.Errorf("camera id must be a device index or a serial string, got %s", data)
}

// MarshalJSON writes back the same shape that was read.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsIndex {
		return []byte(strconv.Itoa(id.Index)), nil
	}
	return json.Marshal(id.Serial)
}

// String renders the identifier for display.
func (id ID) String() string {
	if id.IsIndex {
		return strconv.Itoa(id.Index)
	}
	return id.Serial
}

// Config is the parsed configs.json.
type Config struct {
	Cameras map[string]map[string]ID `json:"cameras"`
}

// Load reads and parses a camera configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read camera config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Entry is one flattened camera: the key recording tooling uses plus its id.
type Entry struct {
	Key string
	ID  ID
}

// Flatten expands the grouped config into recording keys: wrist cameras
// become "wrist_<name>", everything else "realsense_<name>". Entries are
// sorted by key so output is stable.
func (c *Config) Flatten() []Entry {
	var entries []Entry
	for group, cams := range c.Cameras {
		for name, id := range cams {
			key := "realsense_" + name
			if group == GroupWrist {
				key = "wrist_" + name
			}
			entries = append(entries, Entry{Key: key, ID: id})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return entries
}
