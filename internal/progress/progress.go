// Package progress shows a one-line activity indicator on terminals while sources load.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Indicator animates a message until stopped. On writers that are not
// terminals it stays silent, so redirected output never contains control codes.
type Indicator struct {
	frames   []string
	interval time.Duration
	writer   io.Writer
	enabled  bool

	mu      sync.Mutex
	message string
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates an indicator writing to w. It animates only when w is a terminal.
func New(w io.Writer, message string) *Indicator {
	return &Indicator{
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		interval: 80 * time.Millisecond,
		writer:   w,
		enabled:  isTerminal(w),
		message:  message,
	}
}

// Enabled reports whether the indicator draws anything.
func (p *Indicator) Enabled() bool {
	return p.enabled
}

// Start begins animating; it stops on Stop or when ctx is done.
// Calling Start on a running or disabled indicator does nothing.
func (p *Indicator) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.cancel != nil {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.run(ctx, p.done)
}

// Stop ends the animation and clears the line.
func (p *Indicator) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	fmt.Fprint(p.writer, "\r\033[2K")
}

// SetMessage replaces the text shown next to the animation.
func (p *Indicator) SetMessage(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.message = message
}

func (p *Indicator) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.mu.Lock()
			message := p.message
			p.mu.Unlock()
			fmt.Fprintf(p.writer, "\r%s %s", p.frames[frame%len(p.frames)], message)
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
