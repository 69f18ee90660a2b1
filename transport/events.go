package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgatis/go-vscreen"
)

// pushOrder is the order in which pending topics are delivered.
var pushOrder = []vscreen.Topic{vscreen.ChangeContent, vscreen.ChangeLabels}

// watch calls send for every topic that changed, at most once per display
// timeout. Notifications arriving while a delivery is pending are merged
// into it. It returns when ctx is done, the subscription closes or send
// fails.
func (s *Server) watch(ctx context.Context, ch <-chan vscreen.Topic, send func(vscreen.Topic) error) error {
	pending := make(map[vscreen.Topic]bool, len(pushOrder))
	var timer *time.Timer
	var fire <-chan time.Time

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case topic, ok := <-ch:
			if !ok {
				return nil
			}
			pending[topic] = true
			if fire == nil {
				timer = time.NewTimer(s.screen.Live().DisplayTimeout)
				fire = timer.C
			}

		case <-fire:
			fire = nil
			for _, topic := range pushOrder {
				if !pending[topic] {
					continue
				}
				delete(pending, topic)
				if err := send(topic); err != nil {
					return err
				}
			}
		}
	}
}

func eventName(topic vscreen.Topic) string {
	if topic == vscreen.ChangeLabels {
		return "labels"
	}
	return "screen"
}

// handleEvents streams frames and labels as server-sent events. Payloads
// never contain newlines, so each one fits a single data line.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Subscribe before the initial push so no change slips between them.
	ch := s.events.Subscribe()
	defer s.events.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	send := func(topic vscreen.Topic) error {
		data, err := s.encode(topic)
		if err != nil {
			s.logger.Warnf("Skipping %s event: %v", eventName(topic), err)
			return nil
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventName(topic), data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	for _, topic := range pushOrder {
		if err := send(topic); err != nil {
			return
		}
	}

	s.logger.Debugf("Event stream opened by %s", r.RemoteAddr)
	s.watch(r.Context(), ch, send)
	s.logger.Debugf("Event stream closed by %s", r.RemoteAddr)
}
