package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/smokyabdulrahman/waqt/internal/config"
	"github.com/smokyabdulrahman/waqt/internal/prayer"
	"github.com/smokyabdulrahman/waqt/internal/publish"
	"github.com/smokyabdulrahman/waqt/internal/server"
	"github.com/smokyabdulrahman/waqt/internal/tracker"
)

var (
	flagBroker string
	flagListen string
	flagTopic  string
)

func newDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Track periods in the background and publish every minute",
		Long: "Recompute the status on every minute boundary and publish it to MQTT\n" +
			"and/or serve it over HTTP. Runs until interrupted.\n\n" +
			"Edits to the config file apply on the next minute; SIGHUP applies them at once.",
		Args: cobra.NoArgs,
		RunE: runDaemon,
	}
	cmd.Flags().StringVar(&flagBroker, "mqtt-broker", "", "MQTT broker URL, e.g. tcp://localhost:1883 (overrides config)")
	cmd.Flags().StringVar(&flagTopic, "mqtt-topic", "", "MQTT topic prefix (overrides config)")
	cmd.Flags().StringVar(&flagListen, "listen", "", "HTTP listen address, e.g. :8080 (overrides config)")
	return cmd
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	applyDaemonFlags(cmd, s.cfg)

	day, _, err := s.today(ctx)
	if err != nil {
		return fmt.Errorf("initial schedule: %w", err)
	}
	store := tracker.NewStore(s.cfg.Engine(), day)

	sinks := []tracker.Sink{logSink{timeFmt: s.timeFmt}}
	if s.cfg.MQTT.Broker != "" {
		pub, err := publish.Connect(s.cfg.MQTT.Broker, mqttClientID(s.cfg), s.cfg.MQTT.Topic, s.timeFmt)
		if err != nil {
			return err
		}
		defer pub.Close()
		log.Info().Str("broker", s.cfg.MQTT.Broker).Str("topic", pub.StatusTopic()).Msg("publishing to MQTT")
		sinks = append(sinks, pub)
	}

	runner := tracker.NewRunner(store, s.calc, s.loc, s.method, sinks...)
	runner.WatchConfig(newEngineSource())

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runner.Run(ctx) })
	g.Go(func() error { return reloadOnSignal(ctx, hup, runner) })
	if s.cfg.Listen != "" {
		srv := server.New(store, s.timeFmt)
		g.Go(func() error { return srv.Run(ctx, s.cfg.Listen) })
	}

	log.Info().Str("location", s.loc.String()).Msg("daemon started")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	log.Info().Msg("daemon stopped")
	return nil
}

// reloadOnSignal asks the runner to reread the config on every signal.
func reloadOnSignal(ctx context.Context, sig <-chan os.Signal, runner *tracker.Runner) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sig:
			log.Info().Msg("reloading config")
			runner.Reload()
		}
	}
}

// applyDaemonFlags lets the daemon's own flags win over config.
func applyDaemonFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("mqtt-broker") {
		cfg.MQTT.Broker = flagBroker
	}
	if cmd.Flags().Changed("mqtt-topic") {
		cfg.MQTT.Topic = flagTopic
	}
	if cmd.Flags().Changed("listen") {
		cfg.Listen = flagListen
	}
}

func mqttClientID(cfg *config.Config) string {
	if cfg.MQTT.ClientID != "" {
		return cfg.MQTT.ClientID
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "waqt"
	}
	return "waqt-" + host
}

// logSink writes every status to the log at info level.
type logSink struct {
	timeFmt string
}

func (logSink) Name() string { return "log" }

func (l logSink) Publish(_ context.Context, s prayer.Status) error {
	log.Info().Str("current", s.Current.String()).Bool("critical", s.Remaining.Critical).
		Msg(prayer.FormatStatus(s, prayer.FormatFull, l.timeFmt))
	return nil
}
