package display

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/satriahrh/arunika/companion/internal/loop"
)

const (
	// Placeholder is shown when no text is on screen
	Placeholder = "Waiting for input..."

	// DefaultDwell is how long a text stays up when nothing replaces it
	DefaultDwell = 5 * time.Second
)

// Text is a snapshot of the text panel
type Text struct {
	Text      string    `json:"text"`
	Empty     bool      `json:"empty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// TextDisplay is the free-text panel. Every Show starts its own expiry timer;
// only the timer of the latest Show may revert the panel.
type TextDisplay struct {
	clock      clock.Clock
	exec       loop.Executor
	dwell      time.Duration
	text       string
	expiresAt  time.Time
	generation uint64
}

// NewTextDisplay creates an empty panel. exec may be nil, in which case
// expiry callbacks run on the timer goroutine.
func NewTextDisplay(clk clock.Clock, exec loop.Executor, dwell time.Duration) *TextDisplay {
	if dwell <= 0 {
		dwell = DefaultDwell
	}
	if exec == nil {
		exec = loop.Inline
	}
	return &TextDisplay{
		clock: clk,
		exec:  exec,
		dwell: dwell,
		text:  Placeholder,
	}
}

// Show puts text on the panel and arms its expiry timer
func (d *TextDisplay) Show(text string) {
	d.generation++
	gen := d.generation
	d.text = text
	d.expiresAt = d.clock.Now().Add(d.dwell)

	d.clock.AfterFunc(d.dwell, func() {
		d.exec(func() { d.expire(gen) })
	})
}

func (d *TextDisplay) expire(gen uint64) {
	if gen != d.generation {
		return
	}
	d.text = Placeholder
	d.expiresAt = time.Time{}
}

// Current returns the text on the panel
func (d *TextDisplay) Current() string {
	return d.text
}

// Snapshot returns the panel state for display
func (d *TextDisplay) Snapshot() Text {
	return Text{
		Text:      d.text,
		Empty:     d.expiresAt.IsZero(),
		ExpiresAt: d.expiresAt,
	}
}
