package main

import (
	"fmt"
	"os"

	"github.com/tfederico/SO101-Showcase/pkg/dataset"
)

type MergeEpisodesCommand struct {
	Dir string `long:"dir" default:"datasets/single_episodes" description:"Directory holding single-episode datasets"`
	Out string `long:"out" default:"datasets/merged" description:"Output directory for the merged dataset"`
}

func (c *MergeEpisodesCommand) Execute(args []string) error {
	dirs, skipped, err := dataset.FindEpisodeDirs(c.Dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, name := range skipped {
		fmt.Println(dimStyle.Render(fmt.Sprintf("  skipping %s: missing meta/info.json", name)))
	}
	if len(dirs) == 0 {
		fmt.Fprintf(os.Stderr, "No episode datasets found in %s\n", c.Dir)
		os.Exit(1)
	}

	fmt.Printf("Merging %d episode(s) into %s\n", len(dirs), c.Out)

	result, err := dataset.Merge(dirs, c.Out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Merge failed: %v\n", err)
		os.Exit(1)
	}

	for _, reason := range result.Skipped {
		fmt.Println(dimStyle.Render("  skipped " + reason))
	}
	fmt.Println(successStyle.Render(
		fmt.Sprintf("Merged %d episodes (%d frames) into %s", result.Episodes, result.Frames, c.Out)))

	return nil
}
