package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/waqt/internal/display"
	"github.com/smokyabdulrahman/waqt/internal/prayer"
	"github.com/smokyabdulrahman/waqt/internal/schedule"
)

const barWidth = 20

func runToday(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	day, st, err := s.status(cmd.Context())
	if err != nil {
		return err
	}

	if FlagJSON {
		return printTodayJSON(cmd.OutOrStdout(), s.loc, day, st, s.timeFmt)
	}
	printTodayRich(cmd.OutOrStdout(), s.loc, day, st, s.timeFmt)
	return nil
}

// printTodayRich renders the colored terminal output for today's rows.
func printTodayRich(w io.Writer, loc schedule.Location, day *schedule.Day, st prayer.Status, timeFmt string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", loc)
	fmt.Fprintf(w, "  %s\n", day.Timezone)
	fmt.Fprintf(w, "  %s\n", gregorianLine(day))
	if day.Hijri != "" {
		fmt.Fprintf(w, "  %s\n", day.Hijri)
	}
	fmt.Fprintln(w)

	width := labelWidth(st.Rows)
	for _, r := range st.Rows {
		line := fmt.Sprintf("  %-*s  %s", width, r.Label, r.Start.Format(timeFmt))
		if r.Active() {
			style := display.Accent
			if r.Progress.Critical {
				style = display.Critical
			}
			marked := "▸" + line[1:]
			fmt.Fprintf(w, "%s  %s %s\n", style(marked),
				display.Bar(r.Progress.Elapsed, barWidth), display.Percent(r.Progress.Elapsed))
		} else {
			fmt.Fprintln(w, line)
		}
		if r.Sub != nil {
			sub := fmt.Sprintf("    %-*s%s", width, r.Sub.Label, r.Sub.Start.Format(timeFmt))
			fmt.Fprintln(w, display.Dim(sub))
		}
	}

	fmt.Fprintln(w)
	narrative := fmt.Sprintf("%s: %s", st.Label, st.Remaining.Text)
	if st.Remaining.Critical {
		fmt.Fprintf(w, "  %s\n", display.Critical(narrative))
	} else {
		fmt.Fprintf(w, "  %s\n", display.Bold(narrative))
	}
	fmt.Fprintln(w)
}

// labelWidth is the widest row or sub-row label.
func labelWidth(rows []prayer.RowView) int {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Label))
		if r.Sub != nil {
			width = max(width, len(r.Sub.Label))
		}
	}
	return width
}

func gregorianLine(day *schedule.Day) string {
	if day.Weekday == "" {
		return day.Gregorian
	}
	return day.Weekday + ", " + day.Gregorian
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location  schedule.Location `json:"location"`
	Timezone  string            `json:"timezone"`
	Date      todayJSONDate     `json:"date"`
	Current   string            `json:"current"`
	Label     string            `json:"label"`
	Remaining string            `json:"remaining"`
	Critical  bool              `json:"critical"`
	Rows      []rowJSON         `json:"rows"`
	Next      *rowJSON          `json:"next,omitempty"`
}

type todayJSONDate struct {
	Gregorian string `json:"gregorian"`
	Weekday   string `json:"weekday,omitempty"`
	Hijri     string `json:"hijri,omitempty"`
}

type rowJSON struct {
	Row      string   `json:"row"`
	Label    string   `json:"label"`
	Time     string   `json:"time"`
	Active   bool     `json:"active,omitempty"`
	Elapsed  *float64 `json:"elapsed,omitempty"`
	SubLabel string   `json:"sub_label,omitempty"`
	SubTime  string   `json:"sub_time,omitempty"`
}

func newRowJSON(r prayer.RowView, timeFmt string) rowJSON {
	out := rowJSON{
		Row:    strings.ToLower(r.Row.String()),
		Label:  r.Label,
		Time:   r.Start.Format(timeFmt),
		Active: r.Active(),
	}
	if r.Progress != nil {
		elapsed := r.Progress.Elapsed
		out.Elapsed = &elapsed
	}
	if r.Sub != nil {
		out.SubLabel = r.Sub.Label
		out.SubTime = r.Sub.Start.Format(timeFmt)
	}
	return out
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(w io.Writer, loc schedule.Location, day *schedule.Day, st prayer.Status, timeFmt string) error {
	out := todayJSON{
		Location: loc,
		Timezone: day.Timezone,
		Date: todayJSONDate{
			Gregorian: day.Gregorian,
			Weekday:   day.Weekday,
			Hijri:     day.Hijri,
		},
		Current:   st.Current.String(),
		Label:     st.Label,
		Remaining: st.Remaining.Text,
		Critical:  st.Remaining.Critical,
	}
	for _, r := range st.Rows {
		out.Rows = append(out.Rows, newRowJSON(r, timeFmt))
	}
	if st.Next != nil {
		next := newRowJSON(*st.Next, timeFmt)
		out.Next = &next
	}

	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
