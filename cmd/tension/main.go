package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/danielpatrickdp/loopforge/internal/journal"
	"github.com/danielpatrickdp/loopforge/internal/metrics"
)

// #region main

func main() {
	logDir := flag.String("logs", "logs", "log directory containing the JSONL streams")
	flag.Parse()

	os.Exit(run(*logDir))
}

func run(logDir string) int {
	actions, err := journal.ReadActions(filepath.Join(logDir, journal.ActionsFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "read actions: %v\n", err)
		return 2
	}
	refs, err := journal.ReadReflections(filepath.Join(logDir, journal.ReflectionsFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "read reflections: %v\n", err)
		return 2
	}
	if len(actions) == 0 {
		fmt.Println("no actions recorded")
		return 0
	}

	printEpisodes(actions, refs)
	return 0
}

// #endregion main

// #region report

// printEpisodes recomputes and prints one tension row per episode found in
// the streams. Working from the logs rather than the live metrics stream
// means the inspector works on any run, including interrupted ones.
func printEpisodes(actions []journal.ActionEntry, refs []journal.ReflectionEntry) {
	byEpisode := map[int][]journal.ActionEntry{}
	refsByEpisode := map[int][]journal.ReflectionEntry{}
	daysByEpisode := map[int]map[int]bool{}

	for _, a := range actions {
		byEpisode[a.EpisodeIndex] = append(byEpisode[a.EpisodeIndex], a)
		if daysByEpisode[a.EpisodeIndex] == nil {
			daysByEpisode[a.EpisodeIndex] = map[int]bool{}
		}
		daysByEpisode[a.EpisodeIndex][a.DayIndex] = true
	}
	for _, r := range refs {
		refsByEpisode[r.EpisodeIndex] = append(refsByEpisode[r.EpisodeIndex], r)
	}

	episodes := make([]int, 0, len(byEpisode))
	for ep := range byEpisode {
		episodes = append(episodes, ep)
	}
	sort.Ints(episodes)

	fmt.Printf("%-8s %-8s %-9s %-9s %-8s %-8s %s\n",
		"episode", "actions", "incident", "belief", "stress", "tension", "notes")
	for _, ep := range episodes {
		s := metrics.Snapshot(ep, len(daysByEpisode[ep]), byEpisode[ep], refsByEpisode[ep])
		fmt.Printf("%-8d %-8d %-9.2f %-9.2f %-8.2f %-8.2f %s\n",
			s.EpisodeIndex, s.NumActions, s.IncidentRate, s.BeliefRate,
			s.AvgStress, s.TensionIndex, s.Notes)
	}
}

// #endregion report
