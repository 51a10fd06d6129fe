package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/waqt/internal/config"
	"github.com/smokyabdulrahman/waqt/internal/logging"
)

func TestDaemon_RunsUntilCancelled(t *testing.T) {
	e := newEnv(t, afternoon(t))

	root := NewRootCmd("test")
	root.SetArgs(inLondon("daemon", "--listen", "127.0.0.1:0", "--config", e.config, "--cache-dir", t.TempDir()))
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("daemon returned %v, want clean shutdown", err)
	}
}

func TestDaemon_InitialScheduleIsRequired(t *testing.T) {
	e := newEnv(t, afternoon(t))
	e.api.fail = true

	_, err := e.run(inLondon("daemon")...)
	if err == nil || !strings.Contains(err.Error(), "initial schedule") {
		t.Errorf("err = %v, want initial schedule failure", err)
	}
}

func TestApplyDaemonFlags(t *testing.T) {
	cmd := newDaemonCmd()
	cmd.Flags().Set("mqtt-broker", "tcp://broker:1883")
	cmd.Flags().Set("listen", ":9090")

	cfg := &config.Config{Listen: ":8080", MQTT: config.MQTT{Broker: "tcp://old:1883", Topic: "home/waqt"}}
	applyDaemonFlags(cmd, cfg)

	if cfg.MQTT.Broker != "tcp://broker:1883" || cfg.Listen != ":9090" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.MQTT.Topic != "home/waqt" {
		t.Errorf("unset flag overrode topic: %q", cfg.MQTT.Topic)
	}
}

func TestMQTTClientID(t *testing.T) {
	if got := mqttClientID(&config.Config{MQTT: config.MQTT{ClientID: "kitchen"}}); got != "kitchen" {
		t.Errorf("configured client id = %q", got)
	}

	got := mqttClientID(&config.Config{})
	if host, err := os.Hostname(); err == nil && host != "" && got != "waqt-"+host {
		t.Errorf("default client id = %q, want waqt-%s", got, host)
	}
}

func TestLogSink(t *testing.T) {
	e := newEnv(t, afternoon(t))
	var buf bytes.Buffer
	logging.Setup(&buf, 1)
	t.Cleanup(func() { logging.SetVerbosity(0) })

	s := &session{cfg: &config.Config{}, timeFmt: "15:04"}
	st, err := s.engine(e.day()).Status(afternoon(t))
	if err != nil {
		t.Fatal(err)
	}

	sink := logSink{timeFmt: "15:04"}
	if sink.Name() != "log" {
		t.Errorf("Name = %q", sink.Name())
	}
	if err := sink.Publish(context.Background(), st); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Dhuhr: 1 hour and 2 minutes remaining") {
		t.Errorf("log = %q", buf.String())
	}
}
