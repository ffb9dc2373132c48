package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/iulianpascalau/telemetry-relay/services/relay/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

var log = logger.GetOrCreate("transport")

// ArgsHub defines the arguments needed to create a new hub
type ArgsHub struct {
	SendQueueSize  int
	WriteTimeout   time.Duration
	MaxMessageSize int64
}

// hub upgrades HTTP requests to websocket connections and routes the JSON envelopes between them and the event handler.
// Inbound frames of a connection are delivered serially, in order
type hub struct {
	mut            sync.RWMutex
	clients        map[string]*client
	handler        EventHandler
	closed         bool
	upgrader       websocket.Upgrader
	sendQueueSize  int
	writeTimeout   time.Duration
	maxMessageSize int64
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
}

// NewHub creates a new websocket hub. The event handler must be set before serving connections
func NewHub(args ArgsHub) (*hub, error) {
	if args.SendQueueSize < 1 {
		return nil, ErrInvalidSendQueueSize
	}
	if args.WriteTimeout <= 0 {
		return nil, ErrInvalidWriteTimeout
	}
	if args.MaxMessageSize < 1 {
		return nil, ErrInvalidMaxMessageSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &hub{
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sendQueueSize:  args.SendQueueSize,
		writeTimeout:   args.WriteTimeout,
		maxMessageSize: args.MaxMessageSize,
		ctx:            ctx,
		cancel:         cancel,
	}, nil
}

// SetEventHandler sets the component that will receive the connection events
func (h *hub) SetEventHandler(handler EventHandler) error {
	if check.IfNil(handler) {
		return ErrNilEventHandler
	}

	h.mut.Lock()
	h.handler = handler
	h.mut.Unlock()

	return nil
}

// ServeHTTP upgrades the request and starts the read and write loops of the new connection
func (h *hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mut.RLock()
	handler := h.handler
	closed := h.closed
	h.mut.RUnlock()

	if closed || check.IfNil(handler) {
		http.Error(w, "relay is not accepting connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newClient(uuid.NewString(), conn, h.sendQueueSize)

	h.mut.Lock()
	if h.closed {
		h.mut.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c.id] = c
	h.wg.Add(2)
	h.mut.Unlock()

	log.Debug("connection opened", "connection", c.id, "remote", r.RemoteAddr)
	handler.HandleConnect(c.id)

	go func() {
		defer h.wg.Done()
		c.writeLoop(h.writeTimeout)
	}()
	go func() {
		defer h.wg.Done()
		h.readLoop(c, handler)
	}()
}

func (h *hub) readLoop(c *client, handler EventHandler) {
	defer func() {
		h.removeClient(c)
		handler.HandleDisconnect(c.id)
		log.Debug("connection closed", "connection", c.id)
	}()

	c.conn.SetReadLimit(h.maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("unexpected connection close", "connection", c.id, "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		event, data := decodeEnvelope(message)
		handler.HandleEvent(h.ctx, c.id, event, data)
	}
}

// decodeEnvelope returns an empty event name for frames that are not a valid envelope
func decodeEnvelope(message []byte) (string, json.RawMessage) {
	if !gjson.ValidBytes(message) {
		return "", nil
	}

	envelope := gjson.ParseBytes(message)
	event := envelope.Get("event")
	if !envelope.IsObject() || event.Type != gjson.String {
		return "", nil
	}

	data := envelope.Get("data")
	if !data.Exists() {
		return event.Str, nil
	}

	return event.Str, json.RawMessage(data.Raw)
}

func (h *hub) removeClient(c *client) {
	h.mut.Lock()
	delete(h.clients, c.id)
	h.mut.Unlock()

	c.stop()
}

// Emit sends the event to a single connection. Unknown connections are ignored
func (h *hub) Emit(connectionID string, event string, payload interface{}) {
	frame, err := encodeEnvelope(event, payload)
	if err != nil {
		log.Error("failed to encode outbound event", "event", event, "error", err)
		return
	}

	h.mut.RLock()
	c, found := h.clients[connectionID]
	h.mut.RUnlock()
	if !found {
		return
	}

	if !c.enqueue(frame) {
		log.Debug("send queue full, dropping outbound event", "connection", connectionID, "event", event)
	}
}

// BroadcastExcept sends the event to every connection except the sender
func (h *hub) BroadcastExcept(senderID string, event string, payload interface{}) {
	frame, err := encodeEnvelope(event, payload)
	if err != nil {
		log.Error("failed to encode outbound event", "event", event, "error", err)
		return
	}

	h.mut.RLock()
	recipients := make([]*client, 0, len(h.clients))
	for id, c := range h.clients {
		if id != senderID {
			recipients = append(recipients, c)
		}
	}
	h.mut.RUnlock()

	for _, c := range recipients {
		if !c.enqueue(frame) {
			log.Debug("send queue full, dropping outbound event", "connection", c.id, "event", event)
		}
	}
}

func encodeEnvelope(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(common.Envelope{
		Event: event,
		Data:  data,
	})
}

// Len returns the number of open connections
func (h *hub) Len() int {
	h.mut.RLock()
	defer h.mut.RUnlock()

	return len(h.clients)
}

// Close stops accepting connections, closes the open ones and waits for their loops to finish
func (h *hub) Close() error {
	h.mut.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mut.Unlock()

	h.cancel()
	for _, c := range clients {
		_ = c.conn.Close()
	}
	h.wg.Wait()

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (h *hub) IsInterfaceNil() bool {
	return h == nil
}
