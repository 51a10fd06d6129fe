package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/waqt/internal/prayer"
)

var flagFormat string

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print a one-line status for status bars",
		Long: "Print the current period and countdown on a single line, e.g. for tmux.\n" +
			"After tonight's last row has started, the next row is tomorrow's Fajr.",
		RunE: runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatLabelAndTime,
		"Display format: remaining, compact, next-time, label-and-time, short-label-and-time, "+
			"short-label-and-duration, full, or a Go template such as '{{.ShortLabel}} {{.Remaining}}'")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	day, now, err := s.today(cmd.Context())
	if err != nil {
		// A status bar should keep rendering through network failures.
		log.Warn().Err(err).Msg("no schedule available")
		fmt.Fprint(cmd.OutOrStdout(), "-- --:--")
		return nil
	}

	e := s.engine(day)
	st, err := e.Status(now)
	if err != nil {
		return err
	}
	if st.Next == nil {
		st.Next = tomorrowFajr(e, s.cfg.Adjustments.Fajr)
	}

	fmt.Fprint(cmd.OutOrStdout(), prayer.FormatStatus(st, flagFormat, s.timeFmt))
	return nil
}

// tomorrowFajr is the row that follows tonight's last one. The schedule
// already carries its start as the Tomorrow boundary.
func tomorrowFajr(e *prayer.Engine, offset int) *prayer.RowView {
	return &prayer.RowView{
		Row:   prayer.RowFajr,
		Label: e.Label(prayer.Tomorrow),
		Start: e.ScheduledTime(prayer.Tomorrow).Add(time.Duration(offset) * time.Minute),
	}
}
