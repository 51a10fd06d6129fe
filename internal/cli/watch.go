package cli

import (
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/waqt/internal/tracker"
	"github.com/smokyabdulrahman/waqt/internal/tui"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live view of today's rows, updated every minute",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	day, _, err := s.today(cmd.Context())
	if err != nil {
		return err
	}

	m := tui.New(tracker.NewStore(s.cfg.Engine(), day), s.calc, tui.Options{
		Location:   s.loc,
		Method:     s.method,
		TimeFormat: s.timeFmt,
		Dark:       s.cfg.DarkModeOrDefault(),
		Config:     newEngineSource(),
	})
	return tui.Run(m)
}
