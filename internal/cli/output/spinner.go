package output

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows an animated progress indicator on stderr while a
// slow operation runs. It animates only in interactive text mode; in
// every other mode Start is a no-op and only the final Success or
// Fail line prints, so piped output stays clean.
type Spinner struct {
	w       io.Writer
	msg     string
	enabled bool
	styles  Styles

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner bound to the renderer's stderr.
func (r *Renderer) NewSpinner(msg string) *Spinner {
	return &Spinner{
		w:       r.errOut,
		msg:     msg,
		enabled: r.isTTY && r.EffectiveMode() == ModeText,
		styles:  r.styles,
	}
}

// Start begins the animation. Calling Start on a running spinner has
// no effect.
func (s *Spinner) Start() {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

func (s *Spinner) run(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	frame := 0
	for {
		select {
		case <-stop:
			// Clear the spinner line before the final message prints.
			_, _ = fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
			_, _ = fmt.Fprintf(s.w, "\r%s %s", spinnerFrames[frame%len(spinnerFrames)], s.msg)
			frame++
		}
	}
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	s.done = nil
}

// Success stops the spinner and prints a success line.
func (s *Spinner) Success(msg string) {
	s.Stop()
	_, _ = fmt.Fprintf(s.w, "%s %s\n", s.styles.StatusSuccess.String(), msg)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(msg string) {
	s.Stop()
	_, _ = fmt.Fprintf(s.w, "%s %s\n", s.styles.StatusFailed.String(), msg)
}
