package websocket

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/domain"
	"github.com/satriahrh/arunika/companion/domain/repositories"
)

const (
	// replyTimeout bounds a single responder call
	replyTimeout = 30 * time.Second

	// DefaultAudioBufferBytes is five seconds of 16 kHz 16-bit mono audio
	DefaultAudioBufferBytes = 16000 * 5
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Responder produces the replies the dev backend broadcasts
type Responder interface {
	ReplyToGesture(ctx context.Context, gesture domain.GestureMessage) (domain.ResponseEvent, error)
	ReplyToVoice(ctx context.Context, audio []byte) (domain.VoiceResponseEvent, error)
	ReplyToButton(button string) domain.ButtonResponseEvent
}

// Hub is the development backend: it keeps the connected clients keyed by
// client ID and broadcasts replies to all of them.
type Hub struct {
	// Registered clients.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	// Closed when Run returns.
	done chan struct{}

	// Buffered audio bytes that trigger a transcription.
	audioBufferBytes int

	responder Responder
	logger    *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(responder Responder, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),

		audioBufferBytes: DefaultAudioBufferBytes,

		responder: responder,
		logger:    logger,
	}
}

// WithAudioBuffer sets how many audio bytes a client buffers before the clip
// is transcribed. Call it before Run.
func (h *Hub) WithAudioBuffer(n int) *Hub {
	if n > 0 {
		h.audioBufferBytes = n
	}
	return h
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if existing, ok := h.clients[client.clientID]; ok {
				close(existing.send)
			}
			h.clients[client.clientID] = client
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("clientId", client.clientID))

		case client := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.clients[client.clientID]; ok && existing == client {
				delete(h.clients, client.clientID)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("clientId", client.clientID))
		}
	}
}

// Clients returns the IDs of the connected clients, sorted
func (h *Hub) Clients() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Broadcast sends msg to every connected client. Slow clients drop the frame.
func (h *Hub) Broadcast(msg domain.InboundMessage) error {
	frame, err := Encode(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.clients {
		select {
		case client.send <- frame:
		default:
			h.logger.Warn("Dropping broadcast for slow client", zap.String("clientId", id))
		}
	}
	return nil
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound frames.
	send chan []byte

	// Audio received since the last transcription. Only readPump touches it.
	audio []byte

	clientID string
	logger   *zap.Logger
}

// HandleWebSocket upgrades /ws/:clientId requests and registers the client
func HandleWebSocket(hub *Hub, c echo.Context, logger *zap.Logger) error {
	clientID := c.Param("clientId")
	if clientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "client id is required")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		clientID: clientID,
		logger:   logger.With(zap.String("clientId", clientID)),
	}

	select {
	case client.hub.register <- client:
	case <-client.hub.done:
		conn.Close()
		return nil
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		if messageType != websocket.TextMessage {
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
			continue
		}
		c.processMessage(message)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage handles a frame sent by the client
func (c *Client) processMessage(message []byte) {
	msg, err := DecodeOutbound(message)
	if err != nil {
		c.logger.Warn("Failed to parse message", zap.Error(err))
		return
	}

	c.logger.Info("Received message", zap.String("type", string(msg.MessageType())))

	switch m := msg.(type) {
	case domain.HandshakeMessage:
		c.logger.Info("Handshake received",
			zap.String("userAgent", m.UserAgent),
			zap.String("timestamp", m.Timestamp))
	case domain.GestureMessage:
		if c.hub.responder == nil {
			c.logger.Debug("No responder configured, gesture ignored", zap.String("gesture", m.Gesture))
			return
		}
		go c.replyToGesture(m)
	case domain.AudioMessage:
		c.bufferAudio(m)
	case domain.ButtonMessage:
		if c.hub.responder == nil {
			c.logger.Debug("No responder configured, button ignored", zap.String("button", m.Button))
			return
		}
		if err := c.hub.Broadcast(c.hub.responder.ReplyToButton(m.Button)); err != nil {
			c.logger.Error("Failed to broadcast button reply", zap.Error(err))
		}
	}
}

// bufferAudio appends a chunk and hands the clip off once the buffer is full
func (c *Client) bufferAudio(m domain.AudioMessage) {
	chunk, err := base64.StdEncoding.DecodeString(m.Data)
	if err != nil {
		c.logger.Warn("Failed to decode audio chunk", zap.Error(err))
		return
	}
	c.audio = append(c.audio, chunk...)

	if len(c.audio) < c.hub.audioBufferBytes {
		return
	}

	clip := c.audio
	c.audio = nil
	if c.hub.responder == nil {
		c.logger.Debug("No responder configured, audio dropped", zap.Int("audioSize", len(clip)))
		return
	}
	go c.replyToVoice(clip)
}

func (c *Client) replyToVoice(clip []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	reply, err := c.hub.responder.ReplyToVoice(ctx, clip)
	if errors.Is(err, repositories.ErrNoSpeech) {
		c.logger.Info("No speech in audio clip", zap.Int("audioSize", len(clip)))
		return
	}
	if err != nil {
		c.logger.Error("Failed to build voice reply", zap.Error(err))
		return
	}

	if err := c.hub.Broadcast(reply); err != nil {
		c.logger.Error("Failed to broadcast reply", zap.Error(err))
	}
}

func (c *Client) replyToGesture(gesture domain.GestureMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	reply, err := c.hub.responder.ReplyToGesture(ctx, gesture)
	if err != nil {
		c.logger.Error("Failed to build gesture reply",
			zap.String("gesture", gesture.Gesture),
			zap.Error(err))
		return
	}

	if err := c.hub.Broadcast(reply); err != nil {
		c.logger.Error("Failed to broadcast reply", zap.Error(err))
	}
}
