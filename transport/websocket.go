package transport

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/danielgatis/go-vscreen"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleWebSocket pushes frames and labels as text messages and writes
// every message received from the client to the input.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorf("WebSocket upgrade error: %v", err)
		return
	}

	ch := s.events.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.logger.Infof("WebSocket client connected: %s", r.RemoteAddr)

	// Screen -> WebSocket. This goroutine is the only writer on conn.
	go func() {
		defer close(done)
		defer conn.Close()

		send := func(topic vscreen.Topic) error {
			data, err := s.encode(topic)
			if err != nil {
				s.logger.Warnf("Skipping %s push: %v", eventName(topic), err)
				return nil
			}
			return conn.WriteMessage(websocket.TextMessage, data)
		}

		for _, topic := range pushOrder {
			if err := send(topic); err != nil {
				return
			}
		}
		if err := s.watch(ctx, ch, send); err != nil && err != context.Canceled {
			s.logger.Debugf("WebSocket write error: %v", err)
		}
	}()

	// WebSocket -> input
	s.readInput(conn)

	cancel()
	conn.Close()
	<-done
	s.events.Unsubscribe(ch)
	s.logger.Infof("WebSocket client disconnected: %s", r.RemoteAddr)
}

func (s *Server) readInput(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warnf("WebSocket read error: %v", err)
			}
			return
		}

		if s.input == nil {
			s.logger.Debugf("Dropping %d input bytes: no input configured", len(data))
			continue
		}
		if _, err := s.input.Write(data); err != nil {
			s.logger.Errorf("Failed to write input: %v", err)
			return
		}
	}
}
