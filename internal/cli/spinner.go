package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// orbit is a single braille dot circling its cell.
var orbit = []string{"⠁", "⠈", "⠐", "⠠", "⢀", "⡀", "⠄", "⠂"}

const spinnerInterval = 90 * time.Millisecond

// Spinner shows a status line with elapsed time on stderr while a long
// step runs. It stops on Stop or when its context ends.
type Spinner struct {
	out   io.Writer
	ctx   context.Context
	start time.Time

	mu      sync.Mutex
	message string
	width   int
	stopped bool

	stop     context.CancelFunc
	stopOnce sync.Once
	finished chan struct{}
}

func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:      os.Stderr,
		ctx:      sctx,
		message:  message,
		stop:     cancel,
		finished: make(chan struct{}),
	}
}

func (s *Spinner) Start() {
	s.start = time.Now()
	go s.loop()
}

func (s *Spinner) loop() {
	defer close(s.finished)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.draw(orbit[i%len(orbit)])
		}
	}
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secs := time.Since(s.start).Seconds()
	line := fmt.Sprintf("%s %s", StyleDim.Render(s.message), StyleDim.Render(fmt.Sprintf("%.1fs", secs)))
	s.width = max(s.width, len(s.message)+12)
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), line)
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// SetMessage replaces the status text on the next tick.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop ends the animation and clears the line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.stopOnce.Do(s.stop)
	if !s.start.IsZero() {
		<-s.finished
	}
}

// StopWithError stops the spinner and prints message as a failure.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended the spinner rather
// than a call to Stop.
func (s *Spinner) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped && s.ctx.Err() != nil
}
