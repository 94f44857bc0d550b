// Command lcd-agent renders temperature telemetry from a monitoring daemon
// onto the LCD panel the daemon manages, refreshing on a fixed interval.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/lcd-agent/internal/config"
	"github.com/sweeney/lcd-agent/internal/daemon"
	"github.com/sweeney/lcd-agent/internal/deliver"
	"github.com/sweeney/lcd-agent/internal/device"
	"github.com/sweeney/lcd-agent/internal/logic"
	"github.com/sweeney/lcd-agent/internal/mqtt"
	"github.com/sweeney/lcd-agent/internal/render"
	"github.com/sweeney/lcd-agent/internal/status"
	"github.com/sweeney/lcd-agent/internal/telemetry"
	"github.com/sweeney/lcd-agent/internal/web"
)

func main() {
	baseURL := flag.String("daemon", "http://127.0.0.1:11987", "Monitoring daemon base URL")
	interval := flag.Duration("interval", 2*time.Second, "Refresh interval")
	timeout := flag.Duration("timeout", 10*time.Second, "HTTP timeout for daemon calls")
	configPath := flag.String("config", "", "YAML config file (empty = built-in defaults)")
	httpAddr := flag.String("http", ":8687", "HTTP status address (empty to disable)")
	broker := flag.String("broker", "", "MQTT broker for telemetry mirror (empty to disable)")
	printReading := flag.Bool("print-reading", false, "Print current reading and exit")

	flag.Parse()

	if err := run(*baseURL, *interval, *timeout, *configPath, *httpAddr, *broker, *printReading); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(baseURL string, interval, timeout time.Duration, configPath, httpAddr, broker string, printReading bool) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	client, err := daemon.NewRealClient(baseURL, timeout)
	if err != nil {
		return fmt.Errorf("init daemon client: %w", err)
	}
	reader := telemetry.NewReader(client, telemetry.DefaultPolicy())

	ctx := context.Background()

	// Print reading mode
	if printReading {
		reading, err := reader.Read(ctx)
		if err != nil {
			return fmt.Errorf("read telemetry: %w", err)
		}
		fmt.Printf("primary: %s, secondary: %s\n",
			tempString(reading.Primary, reading.HasPrimary),
			tempString(reading.Secondary, reading.HasSecondary))
		return nil
	}

	// Discover the panel (fatal when absent)
	cache := device.NewCache(client)
	desc, err := cache.Discover(ctx)
	if err != nil {
		return err
	}

	width, height, err := panelResolution(desc, cfg.Panel)
	if err != nil {
		return err
	}

	table, err := render.ColorTableFromConfig(cfg.Thresholds)
	if err != nil {
		return err
	}
	composer, err := render.NewComposer(cfg.Layout, table, width, height)
	if err != nil {
		return err
	}

	engine := deliver.NewEngine(client, cfg.Panel.Brightness, cfg.Panel.Orientation)
	sequencer := deliver.NewSequencer(engine, cfg.Paths.ShutdownImage, cfg.Paths.Output)

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		IntervalMs:  interval.Milliseconds(),
		BaseURL:     baseURL,
		HTTPAddr:    httpAddr,
		Broker:      broker,
		Brightness:  cfg.Panel.Brightness,
		Orientation: cfg.Panel.Orientation,
	})
	tracker.SetPanel(status.Panel{UID: desc.UID, Name: desc.Name, Width: width, Height: height})

	// Optional MQTT mirror
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if broker != "" {
		rp := mqtt.NewRealPublisher(broker)
		publisher = rp
		mqttStatus = rp
		defer publisher.Close()

		startup := mqtt.SystemEvent{Timestamp: time.Now(), Event: "STARTUP", Retained: true}
		if err := publisher.PublishSystem(startup); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker, cfg.Paths.Output)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: panel=%q uid=%s resolution=%dx%d interval=%v daemon=%s",
		desc.Name, desc.UID, width, height, interval, baseURL)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loopDeps{
		reader:    reader,
		composer:  composer,
		engine:    engine,
		sequencer: sequencer,
		tracker:   tracker,
		publisher: publisher,
		mqtt:      mqttStatus,
		uid:       desc.UID,
		framePath: cfg.Paths.Output,
		now:       time.Now,
	}, ticker.C, sigCh)
}

// loopDeps bundles what runLoop needs, so tests can assemble it from fakes.
type loopDeps struct {
	reader    *telemetry.Reader
	composer  *render.Composer
	engine    *deliver.Engine
	sequencer *deliver.Sequencer
	tracker   *status.Tracker
	publisher mqtt.Publisher        // nil = mirror disabled
	mqtt      mqtt.ConnectionStatus // nil = mirror disabled
	uid       string
	framePath string
	now       func() time.Time
}

// runLoop is the agent's control loop: one goroutine, one cycle per tick.
// Signals arrive on sig via signal.Notify, so the shutdown delivery runs
// here on the control goroutine, never in signal-handler context. Per-cycle
// errors are logged and skipped; only the caller's setup can fail hard.
func runLoop(d loopDeps, tick <-chan time.Time, sig <-chan os.Signal) error {
	gate := logic.NewGate()
	ctx := context.Background()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			reason := "UNKNOWN"
			if s == syscall.SIGINT {
				reason = "SIGINT"
			} else if s == syscall.SIGTERM {
				reason = "SIGTERM"
			}

			if err := d.sequencer.Run(ctx, d.uid); err != nil {
				log.Printf("shutdown delivery failed: %v", err)
			} else {
				log.Printf("delivered shutdown frame")
			}

			if d.publisher != nil {
				event := mqtt.SystemEvent{
					Timestamp: d.now(),
					Event:     "SHUTDOWN",
					Reason:    reason,
					Retained:  true,
				}
				if err := d.publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				}
			}
			return nil

		case <-tick:
			runCycle(ctx, d, gate)
		}
	}
}

// runCycle performs one read → gate → compose → deliver pass.
func runCycle(ctx context.Context, d loopDeps, gate *logic.Gate) {
	d.tracker.RecordCycle()
	if d.mqtt != nil {
		d.tracker.SetMQTTConnected(d.mqtt.IsConnected())
	}

	reading, err := d.reader.Read(ctx)
	if err != nil {
		log.Printf("telemetry read error: %v", err)
		d.tracker.RecordReadError()
		return
	}

	if !gate.ShouldRender(reading) {
		d.tracker.RecordSkip()
		return
	}

	frame, err := d.composer.Compose(reading)
	if err != nil {
		log.Printf("compose error: %v", err)
		d.tracker.RecordComposeError()
		gate.Invalidate()
		return
	}
	if err := render.WriteFileAtomic(d.framePath, frame.PNG); err != nil {
		log.Printf("frame write error: %v", err)
		d.tracker.RecordComposeError()
		gate.Invalidate()
		return
	}
	d.tracker.RecordRender(reading)

	// Best effort: a failed delivery drops this frame and the panel keeps
	// showing the previous one.
	if err := d.engine.Deliver(ctx, d.uid, d.framePath); err != nil {
		log.Printf("delivery error: %v", err)
		d.tracker.RecordDeliveryError()
	} else {
		d.tracker.RecordDelivery()
	}

	if d.publisher != nil {
		if err := d.publisher.PublishReading(reading, d.now()); err != nil {
			log.Printf("mqtt mirror error: %v", err)
		}
	}
}

// panelResolution resolves the effective resolution: the configured one, or
// the discovered one under "auto". Zero-resolution is a configuration
// error — the daemon reported nothing and no override was given.
func panelResolution(desc device.Descriptor, p config.PanelConfig) (int, int, error) {
	w, h, auto, err := p.ParseResolution()
	if err != nil {
		return 0, 0, err
	}
	if auto {
		w, h = desc.ScreenWidth, desc.ScreenHeight
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("panel %q reported no resolution; set panel.resolution in the config", desc.Name)
	}
	return w, h, nil
}

func tempString(v float64, has bool) string {
	if !has {
		return "absent"
	}
	return fmt.Sprintf("%.1f°C", v)
}
