package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/freeeve/ghost-cell/internal/auth"
	"github.com/freeeve/ghost-cell/internal/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// viewer accepts one authenticated stream and forwards every text message.
func viewer(t *testing.T, mgr *auth.JWTManager) (*httptest.Server, <-chan model.TurnRecord, <-chan string) {
	t.Helper()
	records := make(chan model.TurnRecord, 16)
	matches := make(chan string, 1)
	h := auth.Middleware(mgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		matches <- auth.MatchIDFromContext(r.Context())
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		defer close(records)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var rec model.TurnRecord
			if err := json.Unmarshal(msg, &rec); err != nil {
				t.Errorf("decode record: %v", err)
				return
			}
			records <- rec
		}
	}))
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, records, matches
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestStreamer_SendsRecords(t *testing.T) {
	mgr := auth.NewJWTManager("stream-secret")
	srv, records, matches := viewer(t, mgr)
	token, err := mgr.GenerateStreamToken("m-1")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Dial(ctx, wsURL(srv), token)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if got := <-matches; got != "m-1" {
		t.Errorf("expected authenticated match m-1, got %q", got)
	}

	for turn := range 3 {
		if err := s.RecordTurn(ctx, &model.TurnRecord{MatchID: "m-1", Turn: turn, Output: "WAIT"}); err != nil {
			t.Fatalf("record turn %d: %v", turn, err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var got []int
	for rec := range records {
		got = append(got, rec.Turn)
	}
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("expected turns 0..2 in order, got %v", got)
	}

	if err := s.RecordTurn(ctx, &model.TurnRecord{}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after close, got %v", err)
	}
}

func TestDial_Unauthorized(t *testing.T) {
	srv, _, _ := viewer(t, auth.NewJWTManager("stream-secret"))
	token, _ := auth.NewJWTManager("other-secret").GenerateStreamToken("m-1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := Dial(ctx, wsURL(srv), token); err == nil {
		t.Fatal("expected dial to fail with a foreign token")
	}
}
