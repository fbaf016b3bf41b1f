// Package websocket streams turn records to a remote viewer over a
// WebSocket connection.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/ghost-cell/internal/auth"
	"github.com/freeeve/ghost-cell/internal/model"
)

const (
	writeWait   = 10 * time.Second
	pingPeriod  = 54 * time.Second
	sendBufSize = 64
)

// ErrClosed is returned when recording on a stream that has shut down.
var ErrClosed = errors.New("stream closed")

// Streamer sends each turn record as one JSON text message. All writes go
// through a single writer goroutine.
type Streamer struct {
	conn *websocket.Conn
	send chan []byte
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

// Dial connects to url presenting token as a bearer credential.
func Dial(ctx context.Context, url, token string) (*Streamer, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, auth.BearerHeader(token))
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("ws dial %s: %s: %w", url, resp.Status, err)
		}
		return nil, fmt.Errorf("ws dial %s: %w", url, err)
	}
	s := &Streamer{
		conn: conn,
		send: make(chan []byte, sendBufSize),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.writePump()
	go s.readPump()
	return s, nil
}

func (s *Streamer) Name() string { return "websocket" }

// RecordTurn queues rec for sending. It blocks only while the send buffer is
// full.
func (s *Streamer) RecordTurn(ctx context.Context, rec *model.TurnRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.send <- data:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes queued records, sends a close frame and waits for the writer
// to exit.
func (s *Streamer) Close() error {
	s.stop()
	<-s.done
	return nil
}

func (s *Streamer) stop() {
	s.once.Do(func() { close(s.quit) })
}

// readPump consumes control frames; the viewer is not expected to send data.
func (s *Streamer) readPump() {
	defer s.stop()
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Turn stream closed by peer")
			}
			return
		}
	}
}

func (s *Streamer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		close(s.done)
	}()

	for {
		select {
		case data := <-s.send:
			if err := s.write(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Msg("Turn stream write failed")
				return
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.quit:
			for n := len(s.send); n > 0; n-- {
				if err := s.write(websocket.TextMessage, <-s.send); err != nil {
					return
				}
			}
			s.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (s *Streamer) write(messageType int, data []byte) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}
