package stats

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/qrhunt/internal/model"
	"github.com/verte-zerg/qrhunt/internal/store"
)

// Report contains precomputed data for a day's results.
type Report struct {
	Day         time.Time
	Entries     []model.ResultEntry
	Leaders     []Ranked
	Rounds      []store.RoundSummary
	TotalHits   int
	BestPoints  int
	FastestTime float64
}

// BuildReport loads the day's results and ranks them.
func BuildReport(ctx context.Context, reader store.DayReader, cfg model.ResultsConfig) (Report, error) {
	entries, err := reader.Day(ctx, cfg.Day)
	if err != nil {
		return Report{}, err
	}
	report := Report{
		Day:     cfg.Day,
		Entries: entries,
		Leaders: Leaderboard(entries, cfg.Top),
	}
	if rr, ok := reader.(store.RoundReader); ok {
		rounds, err := rr.Rounds(ctx, cfg.Day)
		if err != nil {
			return Report{}, err
		}
		report.Rounds = rounds
	}
	for i, e := range entries {
		report.TotalHits += len(e.HitNames)
		if i == 0 || e.TotalPoints > report.BestPoints {
			report.BestPoints = e.TotalPoints
		}
		if i == 0 || e.ElapsedSeconds < report.FastestTime {
			report.FastestTime = e.ElapsedSeconds
		}
	}
	return report, nil
}

// RenderReport prints a summary and the ranked table. width limits the hits
// column; zero means unlimited.
func RenderReport(w io.Writer, r Report, width int) error {
	if len(r.Entries) == 0 {
		_, err := fmt.Fprintf(w, "No results for %s.\n", store.DayKey(r.Day))
		return err
	}
	summary := []string{
		fmt.Sprintf("Results for %s", store.DayKey(r.Day)),
		fmt.Sprintf("Submissions: %d", len(r.Entries)),
		fmt.Sprintf("Hits: %d", r.TotalHits),
		fmt.Sprintf("Best points: %s", FormatPoints(r.BestPoints)),
		fmt.Sprintf("Fastest: %.2fs", r.FastestTime),
		"",
	}
	if _, err := fmt.Fprintln(w, strings.Join(summary, "\n")); err != nil {
		return err
	}

	headers := []string{"Rank", "#", "Time", "Points", "Hits"}
	rows := make([][]string, 0, len(r.Leaders))
	for i, item := range r.Leaders {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(item.Index),
			fmt.Sprintf("%.2fs", item.Entry.ElapsedSeconds),
			FormatPoints(item.Entry.TotalPoints),
			strings.Join(item.Entry.HitNames, " "),
		})
	}
	if err := writeTable(w, formatTable(headers, rows, map[int]bool{0: true, 1: true, 2: true, 3: true}), width); err != nil {
		return err
	}
	if len(r.Rounds) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w, "\nRounds"); err != nil {
		return err
	}
	roundRows := make([][]string, 0, len(r.Rounds))
	for _, round := range r.Rounds {
		roundRows = append(roundRows, []string{
			shortRound(round.ID),
			strconv.Itoa(round.Submissions),
			FormatPoints(round.TotalPoints),
			fmt.Sprintf("%.2fs", round.LastElapsed),
		})
	}
	roundHeaders := []string{"Round", "Submissions", "Points", "Last time"}
	return writeTable(w, formatTable(roundHeaders, roundRows, map[int]bool{1: true, 2: true, 3: true}), width)
}

func writeTable(w io.Writer, lines []string, width int) error {
	for _, line := range lines {
		if width > 0 {
			line = truncate(line, width)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// shortRound keeps the first uuid group.
func shortRound(id string) string {
	if id == "" {
		return "-"
	}
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
