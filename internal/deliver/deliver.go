// Package deliver uploads rendered frames to the LCD panel through the
// daemon. Normal-cycle delivery is a single best-effort attempt; the
// shutdown path retries within a bounded budget so the process never hangs
// on termination.
package deliver

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sweeney/lcd-agent/internal/daemon"
)

// UploadMode is the fixed mode field of every frame upload.
const UploadMode = "image"

// Shutdown retry budget.
const (
	DefaultShutdownAttempts = 2
	DefaultAttemptTimeout   = 5 * time.Second
)

// Engine delivers PNG files to the panel.
type Engine struct {
	client      daemon.Client
	brightness  int
	orientation int
}

// NewEngine creates an Engine uploading with the given panel settings.
func NewEngine(client daemon.Client, brightness, orientation int) *Engine {
	return &Engine{client: client, brightness: brightness, orientation: orientation}
}

// Deliver uploads the PNG at path once. Used on the normal cycle: a failure
// is logged by the caller and the panel keeps its previous frame.
func (e *Engine) Deliver(ctx context.Context, uid, path string) error {
	return e.deliver(ctx, uid, path, e.brightness)
}

// DeliverBlocking uploads the PNG at path with up to attempts tries, each
// bounded by perAttempt, short-circuiting on the first success.
func (e *Engine) DeliverBlocking(ctx context.Context, uid, path string, brightness, attempts int, perAttempt time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, perAttempt)
		err = e.deliver(attemptCtx, uid, path, brightness)
		cancel()
		if err == nil {
			return nil
		}
		log.Printf("delivery attempt %d/%d failed: %v", i+1, attempts, err)
	}
	return fmt.Errorf("delivery failed after %d attempts: %w", attempts, err)
}

func (e *Engine) deliver(ctx context.Context, uid, path string, brightness int) error {
	png, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read frame %s: %w", path, err)
	}
	return e.client.UploadImage(ctx, uid, daemon.ImageUpload{
		Mode:        UploadMode,
		Brightness:  brightness,
		Orientation: e.orientation,
		PNG:         png,
	})
}

// Sequencer delivers the final frame on termination. It runs at most once
// per process, whether triggered by a signal or by normal loop exit.
type Sequencer struct {
	engine        *Engine
	shutdownImage string
	framePath     string
	done          bool
}

// NewSequencer creates a Sequencer. shutdownImage may name a file that does
// not exist (or be empty); the fallback is the last rendered frame at
// brightness 0, which visually turns the panel off.
func NewSequencer(engine *Engine, shutdownImage, framePath string) *Sequencer {
	return &Sequencer{engine: engine, shutdownImage: shutdownImage, framePath: framePath}
}

// Run attempts one reliable delivery of the shutdown image within the
// bounded retry budget. Failure is returned for logging but is final —
// shutdown must not hang.
func (s *Sequencer) Run(ctx context.Context, uid string) error {
	if s.done {
		return nil
	}
	s.done = true

	path := s.shutdownImage
	brightness := s.engine.brightness
	if path == "" || !fileExists(path) {
		path = s.framePath
		brightness = 0
	}
	return s.engine.DeliverBlocking(ctx, uid, path, brightness,
		DefaultShutdownAttempts, DefaultAttemptTimeout)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
