package sender

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iulianpascalau/telemetry-relay/services/simulator/common"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

const writeTimeout = 10 * time.Second

var log = logger.GetOrCreate("sender")

// websocketSender pushes the simulator events to the relay over a single websocket connection
type websocketSender struct {
	relayURL    string
	dialer      *websocket.Dialer
	mut         sync.Mutex
	conn        *websocket.Conn
	readerGroup sync.WaitGroup
}

// NewWebsocketSender creates a new sender targeting the provided relay websocket URL
func NewWebsocketSender(relayURL string, dialTimeout time.Duration) (*websocketSender, error) {
	if len(relayURL) == 0 {
		return nil, ErrEmptyRelayURL
	}
	if dialTimeout <= 0 {
		return nil, ErrInvalidDialTimeout
	}

	return &websocketSender{
		relayURL: relayURL,
		dialer: &websocket.Dialer{
			HandshakeTimeout: dialTimeout,
		},
	}, nil
}

// Connect opens a new connection to the relay, replacing any previous one
func (s *websocketSender) Connect(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.relayURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to the relay at %s: %w", s.relayURL, err)
	}

	s.mut.Lock()
	previous := s.conn
	s.conn = conn
	s.mut.Unlock()

	if previous != nil {
		_ = previous.Close()
	}

	s.readerGroup.Add(1)
	go s.drain(conn)

	log.Info("connected to the relay", "url", s.relayURL)

	return nil
}

// drain consumes the relay broadcasts so that control frames get processed
func (s *websocketSender) drain(conn *websocket.Conn) {
	defer s.readerGroup.Done()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Debug("relay connection reader stopped", "error", err)
			return
		}

		log.Trace("relay event received", "event", gjson.GetBytes(message, "event").String())
	}
}

// Register sends the register event
func (s *websocketSender) Register(registration common.Registration) error {
	return s.emit(common.EventRegister, registration)
}

// SendTelemetry sends one telemetry event
func (s *websocketSender) SendTelemetry(telemetry common.Telemetry) error {
	return s.emit(common.EventTelemetry, telemetry)
}

func (s *websocketSender) emit(event string, payload interface{}) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	if s.conn == nil {
		return ErrNotConnected
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err := s.conn.WriteJSON(common.Envelope{
		Event: event,
		Data:  payload,
	})
	if err != nil {
		_ = s.conn.Close()
		s.conn = nil
		return fmt.Errorf("failed to send %s event: %w", event, err)
	}

	return nil
}

// Close closes the relay connection, if any, and waits for its reader to stop
func (s *websocketSender) Close() error {
	s.mut.Lock()
	conn := s.conn
	s.conn = nil
	s.mut.Unlock()

	var err error
	if conn != nil {
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		err = conn.Close()
	}
	s.readerGroup.Wait()

	return err
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *websocketSender) IsInterfaceNil() bool {
	return s == nil
}
