package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
)

const (
	maxRepoWidth  = 40
	maxErrorWidth = 60
)

// reportRow is the printable view of one check report.
type reportRow struct {
	Entity          string    `json:"entity"`
	Repository      string    `json:"repository"`
	Version         string    `json:"version,omitempty"`
	LatestVersion   string    `json:"latestVersion,omitempty"`
	LatestURL       string    `json:"latestUrl,omitempty"`
	PreviousVersion string    `json:"previousVersion,omitempty"`
	Changed         bool      `json:"changed"`
	UpdateAvailable bool      `json:"updateAvailable"`
	CheckedAt       time.Time `json:"checkedAt"`
	Error           string    `json:"error,omitempty"`
	ErrorKind       string    `json:"errorKind,omitempty"`
}

func toRows(reports []entities.CheckReport) []reportRow {
	rows := make([]reportRow, 0, len(reports))
	for _, report := range reports {
		upstream := report.Entity.Upstream
		if upstream == nil {
			continue
		}
		row := reportRow{
			Entity:          report.Entity.Name,
			Repository:      upstream.Repo,
			Version:         upstream.Version,
			LatestVersion:   upstream.LatestVersion,
			LatestURL:       upstream.LatestURL,
			PreviousVersion: report.PreviousVersion,
			Changed:         report.Changed,
			UpdateAvailable: upstream.UpdateAvailable(),
			CheckedAt:       upstream.LastCheckedAt,
			Error:           upstream.LastError,
			ErrorKind:       string(report.ErrorKind),
		}
		rows = append(rows, row)
	}
	return rows
}

func printReports(out io.Writer, format string, reports []entities.CheckReport) error {
	rows := toRows(reports)
	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	case "markdown":
		printMarkdown(out, rows)
	default:
		printTable(out, rows)
	}
	return nil
}

func statusOf(row reportRow) string {
	switch {
	case row.ErrorKind != "":
		return "❌ " + row.ErrorKind
	case row.Changed:
		return "🔔 Changed"
	case row.UpdateAvailable:
		return "🟡 Update available"
	default:
		return "✅ Up to date"
	}
}

func printTable(out io.Writer, rows []reportRow) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No entities with upstream tracking configured.")
		return
	}

	entityW := len("Entity")
	repoW := len("Repository")
	currentW := len("Current")
	latestW := len("Latest")

	for _, r := range rows {
		entityW = max(entityW, len(r.Entity))
		repoW = max(repoW, len(r.Repository))
		currentW = max(currentW, len(r.Version))
		latestW = max(latestW, len(r.LatestVersion))
	}
	repoW = min(repoW, maxRepoWidth)

	fmt.Fprintf(out, "%-*s  %-*s  %-*s  %-*s  %s\n",
		entityW, "Entity",
		repoW, "Repository",
		currentW, "Current",
		latestW, "Latest",
		"Status")
	fmt.Fprintln(out, strings.Repeat("-", entityW+repoW+currentW+latestW+8+len("Status")))

	for _, r := range rows {
		latest := r.LatestVersion
		if latest == "" {
			latest = "N/A"
		}
		fmt.Fprintf(out, "%-*s  %-*s  %-*s  %-*s  %s\n",
			entityW, r.Entity,
			repoW, truncate(r.Repository, repoW),
			currentW, r.Version,
			latestW, latest,
			statusOf(r))
		if r.Error != "" {
			fmt.Fprintf(out, "    %s\n", truncate(r.Error, maxErrorWidth))
		}
	}

	changed := 0
	failed := 0
	for _, r := range rows {
		if r.Changed {
			changed++
		}
		if r.ErrorKind != "" {
			failed++
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total: %d checked, %d changed, %d failed\n", len(rows), changed, failed)
}

func printMarkdown(out io.Writer, rows []reportRow) {
	fmt.Fprintln(out, "| Entity | Repository | Current | Latest | Status |")
	fmt.Fprintln(out, "|--------|------------|---------|--------|--------|")

	for _, r := range rows {
		latest := r.LatestVersion
		if r.LatestURL != "" {
			latest = fmt.Sprintf("[%s](%s)", r.LatestVersion, r.LatestURL)
		}
		if latest == "" {
			latest = "N/A"
		}
		fmt.Fprintf(out, "| %s | %s | %s | %s | %s |\n",
			r.Entity, r.Repository, r.Version, latest, statusOf(r))
	}
}

// truncate shortens s to maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
