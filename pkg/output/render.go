package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/sdejongh/downsort/pkg/inventory"
	"github.com/sdejongh/downsort/pkg/models"
)

const (
	nameWidth = 40
	timeFmt   = "2006-01-02 15:04"
)

// PlanItem is the JSON form of a planned move
type PlanItem struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Size        int64  `json:"size"`
}

// RenderPlan writes the planned moves, one per candidate
func RenderPlan(w io.Writer, candidates []*models.FileCandidate, format string) error {
	if format == "json" {
		items := make([]PlanItem, 0, len(candidates))
		for _, c := range candidates {
			items = append(items, PlanItem{
				Source:      toSlash(c.RelativePath),
				Target:      toSlash(c.TargetPath()),
				Category:    c.Category,
				Subcategory: c.Subcategory,
				Size:        c.Size,
			})
		}
		return encodeJSON(w, items)
	}

	if len(candidates) == 0 {
		fmt.Fprintf(w, "Nothing to organize\n")
		return nil
	}

	var total int64
	targets := make(map[string]int)
	for _, c := range candidates {
		fmt.Fprintf(w, "  %s → %s\n", c.Name, c.DisplayTarget())
		total += c.Size
		targets[c.DisplayTarget()]++
	}

	dirs := make([]string, 0, len(targets))
	for dir := range targets {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	rows := make([][]string, 0, len(dirs))
	for _, dir := range dirs {
		rows = append(rows, []string{dir, strconv.Itoa(targets[dir])})
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTable([]string{"Target", "Files"}, rows, []columnAlignment{alignLeft, alignRight}))
	fmt.Fprintf(w, "%d files to organize (%s)\n", len(candidates), FormatBytes(total))
	return nil
}

// EntryItem is the JSON form of an inventory entry
type EntryItem struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
	Category string `json:"category"`
	Distance int    `json:"distance,omitempty"`
}

// RenderEntries writes a file listing followed by statistics
func RenderEntries(w io.Writer, entries []inventory.Entry, format string) error {
	if format == "json" {
		items := make([]EntryItem, 0, len(entries))
		for _, e := range entries {
			items = append(items, entryItem(e))
		}
		return encodeJSON(w, items)
	}

	if len(entries) == 0 {
		fmt.Fprintf(w, "No files in the downloads folder\n")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			truncate(e.Name, nameWidth),
			FormatBytes(e.Size),
			e.ModTime.Format(timeFmt),
			inventory.Label(e.Category),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Name", "Size", "Modified", "Type"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
	))
	fmt.Fprintf(w, "\nTotal files: %d\n", len(entries))
	return RenderStats(w, inventory.Summarize(entries), "human")
}

// RenderMatches writes search results
func RenderMatches(w io.Writer, term string, matches []inventory.Match, format string) error {
	if format == "json" {
		items := make([]EntryItem, 0, len(matches))
		for _, m := range matches {
			item := entryItem(m.Entry)
			item.Distance = m.Distance
			items = append(items, item)
		}
		return encodeJSON(w, items)
	}

	if len(matches) == 0 {
		fmt.Fprintf(w, "No files matching %q\n", term)
		return nil
	}

	fmt.Fprintf(w, "Found %d files matching %q:\n", len(matches), term)
	for _, m := range matches {
		suffix := ""
		if m.Distance > 0 {
			suffix = fmt.Sprintf(" ~%d", m.Distance)
		}
		fmt.Fprintf(w, "  %s (%s)%s\n", m.Name, FormatBytes(m.Size), suffix)
	}
	return nil
}

// StatsData is the JSON form of inventory statistics
type StatsData struct {
	Files      int            `json:"files"`
	TotalSize  int64          `json:"total_size"`
	ByCategory map[string]int `json:"by_category"`
}

// RenderStats writes per-category counts and the total size
func RenderStats(w io.Writer, stats inventory.Stats, format string) error {
	if format == "json" {
		return encodeJSON(w, StatsData{
			Files:      stats.Files,
			TotalSize:  stats.TotalSize,
			ByCategory: stats.ByCategory,
		})
	}

	fmt.Fprintf(w, "\nTotal size: %s\n", FormatBytes(stats.TotalSize))
	if stats.Files == 0 {
		return nil
	}

	rows := make([][]string, 0, len(stats.ByCategory))
	for _, cat := range stats.Categories() {
		rows = append(rows, []string{inventory.Label(cat), strconv.Itoa(stats.ByCategory[cat])})
	}
	fmt.Fprintln(w, renderTable([]string{"Type", "Files"}, rows, []columnAlignment{alignLeft, alignRight}))
	return nil
}

// RenderCleanup writes the outcome of a cleanup
func RenderCleanup(w io.Writer, res *inventory.CleanupResult, format string) error {
	if format == "json" {
		out := struct {
			Cutoff     string      `json:"cutoff"`
			DryRun     bool        `json:"dry_run"`
			Removed    []EntryItem `json:"removed"`
			Failed     []string    `json:"failed,omitempty"`
			BytesFreed int64       `json:"bytes_freed"`
		}{
			Cutoff:     res.Cutoff.Format(timeFmt),
			DryRun:     res.DryRun,
			Removed:    make([]EntryItem, 0, len(res.Removed)),
			BytesFreed: res.BytesFreed(),
		}
		for _, e := range res.Removed {
			out.Removed = append(out.Removed, entryItem(e))
		}
		for _, f := range res.Failed {
			out.Failed = append(out.Failed, f.Entry.Name+": "+f.Err.Error())
		}
		return encodeJSON(w, out)
	}

	verb := "Removed"
	if res.DryRun {
		verb = "Would remove"
	}
	for _, e := range res.Removed {
		fmt.Fprintf(w, "  %s %s (%s, modified %s)\n", verb, e.Name, FormatBytes(e.Size), FormatAge(e.ModTime))
	}
	for _, f := range res.Failed {
		fmt.Fprintf(w, "  ✗ %s: %v\n", f.Entry.Name, f.Err)
	}
	fmt.Fprintf(w, "%s %d files older than %s (%s)\n", verb, len(res.Removed), res.Cutoff.Format(timeFmt), FormatBytes(res.BytesFreed()))
	return nil
}

func entryItem(e inventory.Entry) EntryItem {
	return EntryItem{
		Name:     e.Name,
		Size:     e.Size,
		Modified: e.ModTime.Format(timeFmt),
		Category: e.Category,
	}
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
