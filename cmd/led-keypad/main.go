// Command led-keypad drives a four-LED panel from three push buttons and
// publishes mode changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sweeney/led-keypad/internal/gpio"
	"github.com/sweeney/led-keypad/internal/mode"
	"github.com/sweeney/led-keypad/internal/mqtt"
	"github.com/sweeney/led-keypad/internal/render"
	"github.com/sweeney/led-keypad/internal/scan"
	"github.com/sweeney/led-keypad/internal/status"
	"github.com/sweeney/led-keypad/internal/web"
)

func main() {
	poll := flag.Duration("poll", 10*time.Millisecond, "Key polling interval")
	hold := flag.Duration("hold", 20*time.Millisecond, "Debounce hold before re-checking a pressed key")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	ledPins := flag.String("led-pins", defaultPinList(gpio.DefaultLEDPins[:]), "BCM pin numbers for the 4 LEDs (comma separated)")
	keyPins := flag.String("key-pins", defaultPinList(gpio.DefaultKeyPins[:]), "BCM pin numbers for the 3 keys (comma separated)")
	printKeys := flag.Bool("print-keys", false, "Print current key states and exit")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")

	flag.Parse()

	leds, err := parseLEDPins(*ledPins)
	if err != nil {
		log.Fatalf("fatal: -led-pins: %v", err)
	}
	keys, err := parseKeyPins(*keyPins)
	if err != nil {
		log.Fatalf("fatal: -key-pins: %v", err)
	}

	if err := run(*poll, *hold, *broker, *heartbeat, leds, keys, *printKeys, *httpAddr); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll, hold time.Duration, broker string, heartbeat time.Duration, ledPins [gpio.NumLEDs]int, keyPins [gpio.NumKeys]int, printKeys bool, httpAddr string) error {
	// Initialize GPIO
	keys, err := gpio.NewRealKeys(keyPins)
	if err != nil {
		return fmt.Errorf("init keys: %w", err)
	}
	defer keys.Close()

	// Print keys mode
	if printKeys {
		pressed, err := keys.Read()
		if err != nil {
			return fmt.Errorf("read keys: %w", err)
		}
		for i, p := range pressed {
			fmt.Printf("key%d: %s\n", i+1, pressedString(p))
		}
		return nil
	}

	panel, err := gpio.NewRealPanel(ledPins)
	if err != nil {
		return fmt.Errorf("init panel: %w", err)
	}
	defer panel.Close()

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      poll.Milliseconds(),
		HoldMs:      hold.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Broker:      broker,
		HTTPPort:    httpAddr,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}
	tracker.SetMQTTConnected(publisher.IsConnected())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: poll=%v hold=%v broker=%s heartbeat=%v", poll, hold, broker, heartbeat)

	// Shared mode register and the two loops
	var reg mode.Register

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renderer := render.New(panel, &reg, tracker)
	scanner := scan.New(keys, &reg, multiSink{publisher, trackerSink{tracker}}, poll, hold)

	go renderer.Run(ctx)
	go scanner.Run(ctx)

	var tick <-chan time.Time
	if heartbeat > 0 {
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()
		tick = ticker.C
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return supervise(publisher, publisher, tracker, time.Now, tick, sigCh)
}

// supervise blocks until a shutdown signal arrives, publishing heartbeat
// snapshots along the way. The scanner and renderer run independently; they
// communicate only through the mode register.
func supervise(publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "HEARTBEAT",
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				// Refresh network info for heartbeat
				if net := readNetworkInfo(); net != nil {
					tracker.SetNetwork(net)
				}
				snap := tracker.Snapshot()
				log.Printf("heartbeat: mode=%s uptime=%v flow=%d binary=%d off=%d",
					snap.Mode, snap.Uptime().Truncate(time.Second),
					snap.Counts.Flow, snap.Counts.Binary, snap.Counts.Off)
				event.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("heartbeat publish error: %v", err)
			}
		}
	}
}

// multiSink fans a press event out to every sink; the first error wins but
// all sinks are attempted.
type multiSink []scan.Sink

func (m multiSink) Publish(e mode.Event) error {
	var first error
	for _, s := range m {
		if err := s.Publish(e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// trackerSink records presses in the status tracker.
type trackerSink struct {
	tracker *status.Tracker
}

func (s trackerSink) Publish(e mode.Event) error {
	s.tracker.RecordPress(e.Mode)
	return nil
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func pressedString(p bool) string {
	if p {
		return "PRESSED"
	}
	return "RELEASED"
}

func defaultPinList(pins []int) string {
	parts := make([]string, len(pins))
	for i, p := range pins {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

func parsePins(s string, want int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("expected %d pins, got %d", want, len(parts))
	}
	pins := make([]int, want)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("pin %q: %w", part, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("pin %d: negative", n)
		}
		pins[i] = n
	}
	return pins, nil
}

func parseLEDPins(s string) ([gpio.NumLEDs]int, error) {
	var out [gpio.NumLEDs]int
	pins, err := parsePins(s, gpio.NumLEDs)
	if err != nil {
		return out, err
	}
	copy(out[:], pins)
	return out, nil
}

func parseKeyPins(s string) ([gpio.NumKeys]int, error) {
	var out [gpio.NumKeys]int
	pins, err := parsePins(s, gpio.NumKeys)
	if err != nil {
		return out, err
	}
	copy(out[:], pins)
	return out, nil
}
