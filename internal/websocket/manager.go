package websocket

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/domain"
	"github.com/satriahrh/arunika/companion/domain/entities"
	"github.com/satriahrh/arunika/companion/domain/repositories"
	"github.com/satriahrh/arunika/companion/internal/loop"
)

// ErrNotConnected is returned when a frame is sent while the connection is not open
var ErrNotConnected = errors.New("websocket not connected")

// Options configures a Manager
type Options struct {
	PageURL              string
	UserAgent            string
	MaxReconnectAttempts int
	BaseDelay            time.Duration
}

// Manager owns the client side of the session protocol: it dials, sends the
// handshake, guards sends and schedules reconnects. It is not safe for
// concurrent use; every method and every transport event runs through exec.
type Manager struct {
	session   *entities.ClientSession
	dialer    repositories.Dialer
	clock     clock.Clock
	exec      loop.Executor
	backoff   *LinearBackOff
	url       string
	userAgent string
	logger    *zap.Logger

	onMessage func(frame []byte)
	onStatus  func(status entities.ConnectionStatus)

	transport  repositories.Transport
	generation uint64
	retry      *clock.Timer
	exhausted  bool
	stopped    bool
}

// NewManager creates a manager for session. Nothing is dialed until Connect.
func NewManager(
	session *entities.ClientSession,
	dialer repositories.Dialer,
	clk clock.Clock,
	exec loop.Executor,
	opts Options,
	logger *zap.Logger,
) (*Manager, error) {
	if err := session.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}

	wsURL, err := BuildURL(opts.PageURL, session.ClientID)
	if err != nil {
		return nil, err
	}

	if exec == nil {
		exec = loop.Inline
	}

	return &Manager{
		session:   session,
		dialer:    dialer,
		clock:     clk,
		exec:      exec,
		backoff:   NewLinearBackOff(opts.BaseDelay, opts.MaxReconnectAttempts),
		url:       wsURL,
		userAgent: opts.UserAgent,
		logger:    logger.With(zap.String("clientId", session.ClientID)),
		onMessage: func([]byte) {},
		onStatus:  func(entities.ConnectionStatus) {},
	}, nil
}

// BuildURL derives ws://host:port/ws/<clientID> from the page origin.
// https origins map to wss; a missing port defaults to 443 or 80.
func BuildURL(pageURL, clientID string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("page url %q has no host", pageURL)
	}

	scheme, port := "ws", "80"
	if u.Scheme == "https" || u.Scheme == "wss" {
		scheme, port = "wss", "443"
	}
	if p := u.Port(); p != "" {
		port = p
	}

	target := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(u.Hostname(), port),
		Path:   "/ws/" + clientID,
	}
	return target.String(), nil
}

// HandleMessages sets the callback for frames received while open
func (m *Manager) HandleMessages(fn func(frame []byte)) {
	m.onMessage = fn
}

// HandleStatus sets the callback for connection indicator changes
func (m *Manager) HandleStatus(fn func(status entities.ConnectionStatus)) {
	m.onStatus = fn
}

// Connect supersedes any existing transport and opens a new one
func (m *Manager) Connect() {
	if m.stopped {
		return
	}
	m.fire(m.generation, EventConnect, nil)
}

// Reconnect is the manual retry: it restores the full reconnect budget
// before connecting.
func (m *Manager) Reconnect() {
	m.backoff.Reset()
	m.session.ReconnectAttempts = 0
	m.exhausted = false
	m.Connect()
}

// Send transmits msg if the connection is open. Otherwise it logs and
// reports false; nothing is queued.
func (m *Manager) Send(msg domain.OutboundMessage) bool {
	if err := m.send(msg); err != nil {
		if errors.Is(err, ErrNotConnected) {
			m.logger.Warn("WebSocket not connected, message not sent",
				zap.String("type", string(msg.MessageType())),
				zap.String("state", string(m.session.State)))
		} else {
			m.logger.Error("Failed to send message",
				zap.String("type", string(msg.MessageType())),
				zap.Error(err))
		}
		return false
	}
	return true
}

func (m *Manager) send(msg domain.OutboundMessage) error {
	if m.session.State != entities.StateOpen || m.transport == nil {
		return ErrNotConnected
	}

	frame, err := Encode(msg)
	if err != nil {
		return err
	}
	if err := m.transport.Send(frame); err != nil {
		return fmt.Errorf("send %s: %w", msg.MessageType(), err)
	}
	return nil
}

// Shutdown closes the live transport and cancels any pending retry.
// The manager ignores all further events.
func (m *Manager) Shutdown() {
	m.stopped = true
	m.cancelRetry()
	m.generation++
	if m.transport != nil {
		if err := m.transport.Close(); err != nil {
			m.logger.Debug("Failed to close transport", zap.Error(err))
		}
		m.transport = nil
	}
	m.logger.Info("Connection manager stopped")
}

// Session returns a copy of the session bookkeeping
func (m *Manager) Session() entities.ClientSession {
	return *m.session
}

// Status returns the indicator value for the current state
func (m *Manager) Status() entities.ConnectionStatus {
	return m.session.State.Status()
}

// Exhausted reports whether the reconnect budget ran out
func (m *Manager) Exhausted() bool {
	return m.exhausted
}

// URL returns the websocket endpoint this manager dials
func (m *Manager) URL() string {
	return m.url
}

func (m *Manager) events(gen uint64) repositories.TransportEvents {
	return repositories.TransportEvents{
		OnOpen: func() {
			m.exec(func() { m.fire(gen, EventOpen, nil) })
		},
		OnMessage: func(frame []byte) {
			m.exec(func() { m.deliver(gen, frame) })
		},
		OnError: func(err error) {
			m.exec(func() { m.fire(gen, EventError, err) })
		},
		OnClose: func() {
			m.exec(func() { m.fire(gen, EventClose, nil) })
		},
	}
}

func (m *Manager) deliver(gen uint64, frame []byte) {
	if gen != m.generation || m.stopped {
		m.logger.Debug("Ignoring frame from superseded transport")
		return
	}
	m.onMessage(frame)
}

func (m *Manager) fire(gen uint64, ev Event, cause error) {
	if gen != m.generation || m.stopped {
		m.logger.Debug("Ignoring event from superseded transport", zap.String("event", string(ev)))
		return
	}

	prev := m.session.State
	next, effect, ok := Transition(prev, ev)
	if !ok {
		m.logger.Debug("Ignoring event",
			zap.String("state", string(prev)),
			zap.String("event", string(ev)))
		return
	}

	m.session.State = next
	if prev.Status() != next.Status() {
		m.onStatus(next.Status())
	}

	switch effect {
	case EffectDial:
		m.dial()
	case EffectHandshake:
		m.handshake()
	case EffectReportError:
		m.logger.Error("WebSocket error", zap.Error(cause))
	case EffectScheduleRetry:
		m.transport = nil
		m.scheduleRetry()
	}
}

func (m *Manager) dial() {
	m.cancelRetry()

	m.generation++
	if old := m.transport; old != nil {
		if err := old.Close(); err != nil {
			m.logger.Debug("Failed to close superseded transport", zap.Error(err))
		}
	}

	m.logger.Info("Connecting to WebSocket", zap.String("url", m.url))
	m.transport = m.dialer.Open(m.url, m.events(m.generation))
}

func (m *Manager) handshake() {
	m.backoff.Reset()
	m.session.ReconnectAttempts = 0
	m.exhausted = false

	m.logger.Info("WebSocket connected")

	m.Send(domain.HandshakeMessage{
		Type:      domain.MessageTypeHandshake,
		ClientID:  m.session.ClientID,
		UserAgent: m.userAgent,
		Timestamp: m.clock.Now().UTC().Format(time.RFC3339),
	})
}

func (m *Manager) scheduleRetry() {
	delay := m.backoff.NextBackOff()
	if delay == backoff.Stop {
		if !m.exhausted {
			m.exhausted = true
			m.logger.Error("Reconnect attempts exhausted",
				zap.Int("maxAttempts", m.backoff.MaxAttempts))
		}
		return
	}

	m.session.ReconnectAttempts = m.backoff.Attempts()
	m.logger.Info("WebSocket disconnected, scheduling reconnect",
		zap.Int("attempt", m.session.ReconnectAttempts),
		zap.Duration("delay", delay))

	m.cancelRetry()
	m.retry = m.clock.AfterFunc(delay, func() {
		m.exec(m.Connect)
	})
}

func (m *Manager) cancelRetry() {
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
}
