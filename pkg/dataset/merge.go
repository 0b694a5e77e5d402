package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FindEpisodeDirs returns the single-episode dataset directories under base:
// directories named episode_* that contain meta/info.json, sorted by name so
// timestamped episodes merge in recording order. Directories without
// metadata are skipped, with their names returned separately.
func FindEpisodeDirs(base string) (dirs []string, skipped []string, err error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", base, err)
	}

	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "episode_") {
			continue
		}
		dir := filepath.Join(base, e.Name())
		if _, err := os.Stat(infoPath(dir)); err != nil {
			skipped = append(skipped, e.Name())
			continue
		}
		dirs = append(dirs, dir)
	}

	sort.Strings(dirs)
	return dirs, skipped, nil
}

// MergeResult summarizes a merge.
type MergeResult struct {
	Episodes int
	Frames   int
	Skipped  []string // input dirs rejected during validation
}

// Merge combines single-episode datasets into one dataset at outRoot,
// preserving input order. Inputs whose metadata does not declare exactly one
// episode are skipped rather than failing the whole merge.
func Merge(episodeDirs []string, outRoot string) (*MergeResult, error) {
	if len(episodeDirs) == 0 {
		return nil, fmt.Errorf("no episode datasets to merge")
	}
	if _, err := os.Stat(infoPath(outRoot)); err == nil {
		return nil, fmt.Errorf("dataset already exists at %s", outRoot)
	}
	if err := os.MkdirAll(filepath.Join(outRoot, dataDir), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	result := &MergeResult{}
	merged := Info{CreatedAt: time.Now().Format(time.RFC3339)}

	for _, dir := range episodeDirs {
		info, err := LoadInfo(dir)
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", filepath.Base(dir), err))
			continue
		}
		if info.TotalEpisodes != 1 {
			result.Skipped = append(result.Skipped,
				fmt.Sprintf("%s: contains %d episodes (expected 1)", filepath.Base(dir), info.TotalEpisodes))
			continue
		}

		frames, err := readFrames(episodeFile(dir, 0))
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", filepath.Base(dir), err))
			continue
		}

		if err := writeEpisode(outRoot, result.Episodes, frames); err != nil {
			return nil, err
		}

		// First valid input fixes robot type, task and fps for the output.
		if result.Episodes == 0 {
			merged.RobotType = info.RobotType
			merged.Task = info.Task
			merged.FPS = info.FPS
		}

		result.Episodes++
		result.Frames += len(frames)
	}

	if result.Episodes == 0 {
		return nil, fmt.Errorf("no valid single-episode datasets found")
	}

	merged.TotalEpisodes = result.Episodes
	merged.TotalFrames = result.Frames
	if err := writeInfo(outRoot, &merged); err != nil {
		return nil, fmt.Errorf("write merged info: %w", err)
	}

	return result, nil
}

// writeEpisode stores frames as episode number index of the output dataset,
// renumbering their episode field.
func writeEpisode(root string, index int, frames []Frame) error {
	f, err := os.Create(episodeFile(root, index))
	if err != nil {
		return fmt.Errorf("create merged episode: %w", err)
	}
	defer f.Close()

	for _, frame := range frames {
		frame.EpisodeIndex = index
		line, err := json.Marshal(frame)
		if err != nil {
			return err
		}
		if _, err := f.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("write merged frame: %w", err)
		}
	}

	return nil
}
