package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/domain/entities"
	"github.com/satriahrh/arunika/companion/domain/repositories"
	"github.com/satriahrh/arunika/companion/internal/animation"
	"github.com/satriahrh/arunika/companion/internal/display"
	"github.com/satriahrh/arunika/companion/internal/history"
	"github.com/satriahrh/arunika/companion/internal/loop"
	"github.com/satriahrh/arunika/companion/internal/router"
	"github.com/satriahrh/arunika/companion/internal/websocket"
)

// ClearedLogText is shown after the gesture log is cleared
const ClearedLogText = "Gesture log cleared"

// CompanionOptions configures a Companion
type CompanionOptions struct {
	FrameRate       int
	TextDwell       time.Duration
	HistoryCapacity int
	Connection      websocket.Options
}

// ConnectionInfo is the connection part of a status snapshot
type ConnectionInfo struct {
	Status            entities.ConnectionStatus `json:"status"`
	Text              string                    `json:"text"`
	State             entities.ConnectionState  `json:"state"`
	ReconnectAttempts int                       `json:"reconnect_attempts"`
	Exhausted         bool                      `json:"exhausted"`
	URL               string                    `json:"url"`
}

// EmotionInfo is the emotion indicator
type EmotionInfo struct {
	Name  entities.Emotion `json:"name"`
	Icon  string           `json:"icon"`
	Label string           `json:"label"`
}

// Status is everything the UI shows at one instant
type Status struct {
	ClientID   string         `json:"client_id"`
	Connection ConnectionInfo `json:"connection"`
	Emotion    EmotionInfo    `json:"emotion"`
	Animation  string         `json:"animation"`
	Text       display.Text   `json:"text"`
	Gestures   int            `json:"gestures"`
}

// Companion is the application context. It owns the session, the avatar
// state, the gesture history and the text panel, and every access to them
// goes through its event loop.
type Companion struct {
	loop     *loop.Loop
	session  *entities.ClientSession
	manager  *websocket.Manager
	machine  *animation.Machine
	text     *display.TextDisplay
	history  *history.GestureLog
	router   *router.Router
	gestures *GestureService
	logger   *zap.Logger
}

// NewCompanion wires the client together. sink and audio may be nil.
func NewCompanion(
	dialer repositories.Dialer,
	sink repositories.RenderingSink,
	audio repositories.AudioSink,
	clk clock.Clock,
	opts CompanionOptions,
	logger *zap.Logger,
) (*Companion, error) {
	c := &Companion{
		session: entities.NewClientSession(),
		logger:  logger,
	}
	c.logger = logger.With(zap.String("clientId", c.session.ClientID))

	c.loop = loop.New(clk, opts.FrameRate, c.tick, logger)
	c.machine = animation.NewMachine(clk, sink)
	c.text = display.NewTextDisplay(clk, c.loop.Post, opts.TextDwell)
	c.history = history.NewGestureLog(clk, opts.HistoryCapacity)
	c.router = router.New(c.machine, c.text, c.history, audio, c.logger)

	manager, err := websocket.NewManager(c.session, dialer, clk, c.loop.Post, opts.Connection, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	manager.HandleMessages(c.router.HandleFrame)
	manager.HandleStatus(func(status entities.ConnectionStatus) {
		c.logger.Info("Connection status changed", zap.String("status", status.Text()))
	})
	c.manager = manager

	c.gestures = NewGestureService(manager, c.machine, c.history, clk, c.session.ClientID, c.logger)

	return c, nil
}

// ClientID returns the generated client identifier
func (c *Companion) ClientID() string {
	return c.session.ClientID
}

// Run connects and processes events until ctx is done
func (c *Companion) Run(ctx context.Context) error {
	c.loop.Post(c.manager.Connect)

	err := c.loop.Run(ctx)

	// The loop has exited, nothing else touches the manager now.
	c.manager.Shutdown()
	return err
}

func (c *Companion) tick() {
	c.machine.Tick()
}

// SimulateGesture triggers a local gesture
func (c *Companion) SimulateGesture(ctx context.Context, kind string) (SimulationResult, error) {
	var result SimulationResult
	err := c.loop.Do(ctx, func() {
		result = c.gestures.Simulate(kind)
	})
	return result, err
}

// ClearGestureLog empties the gesture history and says so on the text panel
func (c *Companion) ClearGestureLog(ctx context.Context) error {
	return c.loop.Do(ctx, func() {
		c.history.Clear()
		c.text.Show(ClearedLogText)
	})
}

// GestureLog returns the gesture history, most recent first
func (c *Companion) GestureLog(ctx context.Context) ([]entities.GestureLogEntry, error) {
	var entries []entities.GestureLogEntry
	err := c.loop.Do(ctx, func() {
		entries = c.history.Entries()
	})
	return entries, err
}

// Reconnect restarts the connection with a fresh reconnect budget
func (c *Companion) Reconnect(ctx context.Context) error {
	return c.loop.Do(ctx, c.manager.Reconnect)
}

// Status returns a snapshot of what the UI shows
func (c *Companion) Status(ctx context.Context) (Status, error) {
	var status Status
	err := c.loop.Do(ctx, func() {
		session := c.manager.Session()
		emotion := c.machine.Emotion()

		status = Status{
			ClientID: session.ClientID,
			Connection: ConnectionInfo{
				Status:            session.State.Status(),
				Text:              session.State.Status().Text(),
				State:             session.State,
				ReconnectAttempts: session.ReconnectAttempts,
				Exhausted:         c.manager.Exhausted(),
				URL:               c.manager.URL(),
			},
			Emotion: EmotionInfo{
				Name:  emotion,
				Icon:  emotion.Icon(),
				Label: emotion.Label(),
			},
			Animation: c.machine.Animation(),
			Text:      c.text.Snapshot(),
			Gestures:  c.history.Len(),
		}
	})
	return status, err
}
