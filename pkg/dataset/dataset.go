// Package dataset stores teleoperation episodes on disk: joint positions
// sampled at a fixed rate, one dataset directory per episode, mergeable into
// larger datasets. Layout per dataset:
//
//	<root>/meta/info.json      dataset metadata
//	<root>/data/episode_NNNNNN.jsonl   one frame per line
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tfederico/SO101-Showcase/pkg/robot"
)

const (
	metaDir  = "meta"
	dataDir  = "data"
	infoFile = "info.json"
)

// Info is the dataset metadata stored at meta/info.json.
type Info struct {
	RobotType     string `json:"robot_type"`
	Task          string `json:"task"`
	FPS           int    `json:"fps"`
	TotalEpisodes int    `json:"total_episodes"`
	TotalFrames   int    `json:"total_frames"`
	CreatedAt     string `json:"created_at"`
}

// Frame is one sample of an episode.
type Frame struct {
	EpisodeIndex int                         `json:"episode_index"`
	FrameIndex   int                         `json:"frame_index"`
	Timestamp    float64                     `json:"timestamp"`
	Positions    map[robot.MotorName]float64 `json:"positions"`
}

// EpisodeDirName returns the timestamped directory name for a new episode.
func EpisodeDirName(t time.Time) string {
	return "episode_" + t.Format("20060102_150405")
}

func infoPath(root string) string {
	return filepath.Join(root, metaDir, infoFile)
}

func episodeFile(root string, index int) string {
	return filepath.Join(root, dataDir, fmt.Sprintf("episode_%06d.jsonl", index))
}

// LoadInfo reads a dataset's metadata.
func LoadInfo(root string) (*Info, error) {
	data, err := os.ReadFile(infoPath(root))
	if err != nil {
		return nil, fmt.Errorf("read dataset info: %w", err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse %s: %w", infoPath(root), err)
	}
	return &info, nil
}

func writeInfo(root string, info *Info) error {
	if err := os.MkdirAll(filepath.Join(root, metaDir), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(infoPath(root), data, 0o644)
}

// Writer records a single episode into a fresh dataset directory.
type Writer struct {
	root   string
	info   Info
	file   *os.File
	frames int
	start  time.Time
}

// NewWriter creates the dataset layout under root and opens the episode file.
// root must not already contain a dataset.
func NewWriter(root string, info Info) (*Writer, error) {
	if _, err := os.Stat(infoPath(root)); err == nil {
		return nil, fmt.Errorf("dataset already exists at %s", root)
	}
	if err := os.MkdirAll(filepath.Join(root, dataDir), 0o755); err != nil {
		return nil, fmt.Errorf("create dataset dir: %w", err)
	}

	f, err := os.Create(episodeFile(root, 0))
	if err != nil {
		return nil, fmt.Errorf("create episode file: %w", err)
	}

	info.TotalEpisodes = 1
	info.CreatedAt = time.Now().Format(time.RFC3339)

	return &Writer{
		root:  root,
		info:  info,
		file:  f,
		start: time.Now(),
	}, nil
}

// Append writes one frame with the current relative timestamp.
func (w *Writer) Append(positions map[robot.MotorName]float64) error {
	frame := Frame{
		EpisodeIndex: 0,
		FrameIndex:   w.frames,
		Timestamp:    time.Since(w.start).Seconds(),
		Positions:    positions,
	}
	line, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	if _, err := w.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	w.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int {
	return w.frames
}

// Close finalizes the episode file and writes meta/info.json. The metadata
// is written even when closing the episode file fails, so frames already on
// disk stay loadable.
func (w *Writer) Close() error {
	closeErr := w.file.Close()
	w.info.TotalFrames = w.frames
	if err := writeInfo(w.root, &w.info); err != nil {
		return err
	}
	return closeErr
}

// readFrames loads every frame of one episode file.
func readFrames(path string) ([]Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read episode: %w", err)
	}

	var frames []Frame
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}
