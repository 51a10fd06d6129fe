package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/waqt/internal/display"
	"github.com/smokyabdulrahman/waqt/internal/prayer"
	"github.com/smokyabdulrahman/waqt/internal/schedule"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// listDay is one line of the grid: a day and its rows.
type listDay struct {
	day  *schedule.Day
	rows []prayer.RowView
}

// runList is the handler for the list, week and month subcommands.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid number of days: %q (must be a positive integer)", args[0])
		}
		days = n
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	now := clock()
	schedules, err := s.calc.CalculateRange(cmd.Context(), now, days, s.loc, s.method)
	if err != nil {
		return err
	}

	list := make([]listDay, 0, len(schedules))
	for _, day := range schedules {
		// Rows are laid out from midday, when no night row is ambiguous.
		rows, err := s.engine(day).Rows(day.Times.TimeOf(prayer.Dhuhr))
		if err != nil {
			return fmt.Errorf("%s: %w", day.Gregorian, err)
		}
		list = append(list, listDay{day: day, rows: rows})
	}

	if FlagJSON {
		return printListJSON(cmd.OutOrStdout(), s.loc, list, s.timeFmt)
	}

	today := now.In(schedules[0].Times.Location())
	printListRich(cmd.OutOrStdout(), s.loc, list, today, s.timeFmt)
	return nil
}

func printListRich(w io.Writer, loc schedule.Location, list []listDay, today time.Time, timeFmt string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(fmt.Sprintf("Prayer Times, %d Days", len(list))))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s (%s)\n", loc, list[0].day.Timezone)
	fmt.Fprintln(w)

	headers := []string{"Date"}
	for _, r := range list[0].rows {
		headers = append(headers, gridHeader(r))
	}
	tbl := display.NewTable(headers)

	for i, ld := range list {
		date := ld.day.Date()
		row := []string{date.Format("Mon 02 Jan")}
		for _, r := range ld.rows {
			row = append(row, gridCell(r, timeFmt))
		}
		tbl.AddRow(row)
		if sameDate(date, today) {
			tbl.SetHighlightRow(i)
		}
	}
	if hijri := list[0].day.Hijri; hijri != "" {
		tbl.SetFooter(hijri)
	}

	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
}

// gridHeader names a column. Both Asr times share one column.
func gridHeader(r prayer.RowView) string {
	if r.Row == prayer.RowAsr && r.Sub != nil {
		return "Asr"
	}
	return r.Label
}

func gridCell(r prayer.RowView, timeFmt string) string {
	cell := r.Start.Format(timeFmt)
	if r.Sub != nil {
		cell += "/" + r.Sub.Start.Format(timeFmt)
	}
	return cell
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location schedule.Location `json:"location"`
	Timezone string            `json:"timezone"`
	Days     []listJSONDay     `json:"days"`
}

type listJSONDay struct {
	Date    string    `json:"date"`
	Weekday string    `json:"weekday,omitempty"`
	Hijri   string    `json:"hijri,omitempty"`
	Rows    []rowJSON `json:"rows"`
}

func printListJSON(w io.Writer, loc schedule.Location, list []listDay, timeFmt string) error {
	out := listJSONOutput{Location: loc, Timezone: list[0].day.Timezone}
	for _, ld := range list {
		d := listJSONDay{Date: ld.day.Gregorian, Weekday: ld.day.Weekday, Hijri: ld.day.Hijri}
		for _, r := range ld.rows {
			row := newRowJSON(r, timeFmt)
			row.Active, row.Elapsed = false, nil
			d.Rows = append(d.Rows, row)
		}
		out.Days = append(out.Days, d)
	}
	return writeJSON(w, out)
}
