package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/lcd-agent/internal/status"
	"github.com/sweeney/lcd-agent/internal/telemetry"
)

func newTestServer(t *testing.T, tracker *status.Tracker, framePath string) *httptest.Server {
	t.Helper()
	srv := New(":0", tracker, framePath)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func trackerWithState(t *testing.T) *status.Tracker {
	t.Helper()
	tr := status.NewTracker(time.Now().Add(-time.Minute), status.Config{
		IntervalMs: 2000,
		BaseURL:    "http://127.0.0.1:11987",
		HTTPAddr:   ":8687",
		Broker:     "tcp://broker:1883",
		Brightness: 80,
	})
	tr.SetPanel(status.Panel{UID: "aio-1", Name: "Kraken Elite", Width: 320, Height: 320})
	tr.RecordCycle()
	tr.RecordRender(telemetry.Reading{Primary: 45.5, Secondary: 38.0, HasPrimary: true, HasSecondary: true})
	tr.RecordDelivery()
	tr.SetMQTTConnected(true)
	return tr
}

func TestIndexJSON(t *testing.T) {
	ts := newTestServer(t, trackerWithState(t), "")

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}

	var sj StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if sj.Status.Reading == nil {
		t.Fatal("reading missing")
	}
	if sj.Status.Reading.Primary == nil || *sj.Status.Reading.Primary != 45.5 {
		t.Errorf("reading.primary: got %v", sj.Status.Reading.Primary)
	}
	if sj.Status.Panel.UID != "aio-1" || sj.Status.Panel.Width != 320 {
		t.Errorf("panel: got %+v", sj.Status.Panel)
	}
	if sj.Status.Counts.Renders != 1 || sj.Status.Counts.Deliveries != 1 {
		t.Errorf("counts: got %+v", sj.Status.Counts)
	}
	if !sj.Status.MQTT.Connected || sj.Status.MQTT.Broker != "tcp://broker:1883" {
		t.Errorf("mqtt: got %+v", sj.Status.MQTT)
	}
	if sj.Status.UptimeSeconds < 59 {
		t.Errorf("uptime_seconds: got %d, want >= 59", sj.Status.UptimeSeconds)
	}
}

func TestIndexJSONAbsentSensorIsNull(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{})
	tr.RecordRender(telemetry.Reading{Primary: 45.5, HasPrimary: true})
	ts := newTestServer(t, tr, "")

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	var sj StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sj.Status.Reading == nil {
		t.Fatal("reading missing")
	}
	if sj.Status.Reading.Secondary != nil {
		t.Errorf("reading.secondary: got %v, want null", *sj.Status.Reading.Secondary)
	}
}

func TestIndexJSONNoReadingYet(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{})
	ts := newTestServer(t, tr, "")

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	var sj StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sj.Status.Reading != nil {
		t.Errorf("reading: got %+v, want omitted", sj.Status.Reading)
	}
}

func TestIndexHTML(t *testing.T) {
	ts := newTestServer(t, trackerWithState(t), "")

	for _, path := range []string{"/", "/index.html"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status %d", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("%s: Content-Type %q", path, ct)
		}
		html := string(body)
		for _, want := range []string{"Kraken Elite", "45.5", "aio-1", "frame.png"} {
			if !strings.Contains(html, want) {
				t.Errorf("%s: page missing %q", path, want)
			}
		}
	}
}

func TestUnknownPathIs404(t *testing.T) {
	ts := newTestServer(t, trackerWithState(t), "")

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestFramePNG(t *testing.T) {
	framePath := filepath.Join(t.TempDir(), "frame.png")
	if err := os.WriteFile(framePath, []byte("fake-png"), 0o644); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	ts := newTestServer(t, trackerWithState(t), framePath)

	resp, err := http.Get(ts.URL + "/frame.png")
	if err != nil {
		t.Fatalf("GET /frame.png: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "fake-png" {
		t.Errorf("body: got %q", body)
	}
}

func TestFramePNGMissing(t *testing.T) {
	ts := newTestServer(t, trackerWithState(t), filepath.Join(t.TempDir(), "absent.png"))

	resp, err := http.Get(ts.URL + "/frame.png")
	if err != nil {
		t.Fatalf("GET /frame.png: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}
