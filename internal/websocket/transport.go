package websocket

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/domain/repositories"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Voice responses carry base64 audio.
	maxMessageSize = 512 * 1024

	// Time allowed to complete the opening handshake.
	handshakeTimeout = 10 * time.Second

	sendBufferSize = 256
)

var (
	// ErrTransportClosed is returned when sending on a closed transport
	ErrTransportClosed = errors.New("transport closed")

	// ErrSendBufferFull is returned when the write pump cannot keep up
	ErrSendBufferFull = errors.New("send buffer full")
)

// WSDialer opens gorilla websocket connections
type WSDialer struct {
	dialer    *websocket.Dialer
	userAgent string
	logger    *zap.Logger
}

var _ repositories.Dialer = (*WSDialer)(nil)

// NewWSDialer creates a dialer that identifies itself with userAgent
func NewWSDialer(userAgent string, logger *zap.Logger) *WSDialer {
	return &WSDialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Open starts dialing url in the background and returns immediately
func (d *WSDialer) Open(url string, events repositories.TransportEvents) repositories.Transport {
	ctx, cancel := context.WithCancel(context.Background())
	t := &wsTransport{
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		cancel: cancel,
		logger: d.logger.With(zap.String("url", url)),
	}
	go t.run(ctx, d, url, events)
	return t
}

// wsTransport is one connection attempt. Events are delivered from its own
// goroutine in order: OnOpen, any OnMessage, optionally OnError, OnClose.
type wsTransport struct {
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	cancel    context.CancelFunc
	logger    *zap.Logger
}

func (t *wsTransport) run(ctx context.Context, d *WSDialer, url string, events repositories.TransportEvents) {
	defer events.OnClose()

	header := http.Header{}
	if d.userAgent != "" {
		header.Set("User-Agent", d.userAgent)
	}

	conn, _, err := d.dialer.DialContext(ctx, url, header)
	if err != nil {
		if !t.isClosed() {
			events.OnError(err)
		}
		return
	}

	if t.isClosed() {
		conn.Close()
		return
	}

	events.OnOpen()

	go t.writePump(conn)
	t.readPump(conn, events)
}

// readPump pumps frames from the connection to the owner.
func (t *wsTransport) readPump(conn *websocket.Conn, events repositories.TransportEvents) {
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if !t.isClosed() && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				t.logger.Warn("WebSocket read error", zap.Error(err))
				events.OnError(err)
			}
			return
		}

		switch messageType {
		case websocket.TextMessage:
			events.OnMessage(message)
		default:
			t.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps queued frames to the connection and keeps it alive.
func (t *wsTransport) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame := <-t.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				t.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-t.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// Send queues frame for the write pump
func (t *wsTransport) Send(frame []byte) error {
	if t.isClosed() {
		return ErrTransportClosed
	}

	select {
	case t.send <- frame:
		return nil
	case <-t.done:
		return ErrTransportClosed
	default:
		return ErrSendBufferFull
	}
}

// Close aborts a pending dial or closes the connection
func (t *wsTransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)
		t.cancel()
	})
	return nil
}

func (t *wsTransport) isClosed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
