package http_test

import (
	"encoding/json"
	"fmt"
	"math/rand"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"dev-millionaire-service/internal/app"
	"dev-millionaire-service/internal/domain"
	"dev-millionaire-service/internal/infra/memory"
	transport "dev-millionaire-service/internal/transport/http"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type statePayload struct {
	Resumed bool        `json:"resumed"`
	View    domain.View `json:"view"`
}

type errorPayload struct {
	Message  string `json:"message"`
	Redirect bool   `json:"redirect"`
}

func testBank() []domain.Question {
	counts := map[int]int{1: 6, 2: 6, 3: 4, 4: 3}
	var bank []domain.Question
	for tier := 1; tier <= domain.TierCount; tier++ {
		for i := 0; i < counts[tier]; i++ {
			bank = append(bank, domain.Question{
				Text:       fmt.Sprintf("tier %d question %d", tier, i),
				Options:    []string{"north", "south", "east", "west"},
				Answer:     i % domain.OptionCount,
				Difficulty: tier,
			})
		}
	}
	return bank
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(map[string][]domain.Question{
		"general": testBank(),
	}), time.Minute)
	service := app.NewGameService(banks, memory.NewSessionStore(),
		app.WithRand(func() *rand.Rand { return rand.New(rand.NewSource(42)) }),
		app.WithTickInterval(time.Hour),
	)
	server := httptest.NewServer(nethttp.HandlerFunc(transport.NewWSHandler(service).ServeWS))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", query, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	var msg envelope
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// readUntil skips interleaved broadcasts until a message of the wanted type
// arrives.
func readUntil(t *testing.T, conn *websocket.Conn, wantType string) envelope {
	t.Helper()
	for i := 0; i < 20; i++ {
		msg := readEnvelope(t, conn)
		if msg.Type == wantType {
			return msg
		}
	}
	t.Fatalf("no %q message after 20 reads", wantType)
	return envelope{}
}

func TestServeWSRequiresSessionID(t *testing.T) {
	server := newTestServer(t)
	resp, err := server.Client().Get(server.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
}

func TestServeWSOpensFreshGame(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server, "sessionId=s1&categories=general")

	opened := readUntil(t, conn, "opened")
	var state statePayload
	if err := json.Unmarshal(opened.Payload, &state); err != nil {
		t.Fatalf("decode opened payload: %v", err)
	}
	if state.Resumed {
		t.Fatal("fresh session reported as resumed")
	}
	if state.View.QuestionNumber != 1 || len(state.View.Options) != domain.OptionCount {
		t.Fatalf("unexpected opening view %+v", state.View)
	}
}

func TestServeWSLifelineBroadcastsState(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server, "sessionId=s1&categories=general")
	readUntil(t, conn, "opened")

	err := conn.WriteJSON(map[string]any{
		"type":    "lifeline",
		"payload": map[string]any{"kind": string(domain.LifelineFiftyFifty)},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	for i := 0; i < 20; i++ {
		msg := readEnvelope(t, conn)
		if msg.Type != "state" {
			continue
		}
		var state statePayload
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			t.Fatalf("decode state payload: %v", err)
		}
		if state.View.Lifelines.FiftyFifty {
			continue // broadcast from before the lifeline landed
		}
		eliminated := 0
		for _, opt := range state.View.Options {
			if opt.Eliminated {
				eliminated++
			}
		}
		if eliminated != 2 {
			t.Fatalf("fifty-fifty eliminated %d options, want 2", eliminated)
		}
		return
	}
	t.Fatal("never saw the lifeline take effect")
}

func TestServeWSRejectsThinBanks(t *testing.T) {
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(map[string][]domain.Question{
		"thin": testBank()[:4],
	}), time.Minute)
	service := app.NewGameService(banks, memory.NewSessionStore())
	server := httptest.NewServer(nethttp.HandlerFunc(transport.NewWSHandler(service).ServeWS))
	defer server.Close()

	conn := dial(t, server, "sessionId=s1&categories=thin")

	msg := readUntil(t, conn, "error")
	var payload errorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if !payload.Redirect {
		t.Fatalf("setup failure should redirect: %+v", payload)
	}
}

func TestServeWSRestart(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server, "sessionId=s1&categories=general")
	readUntil(t, conn, "opened")

	if err := conn.WriteJSON(map[string]any{"type": "restart"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(t, conn, "restarted")

	// The same session reconnects to a fresh game.
	conn2 := dial(t, server, "sessionId=s1&categories=general")
	opened := readUntil(t, conn2, "opened")
	var state statePayload
	if err := json.Unmarshal(opened.Payload, &state); err != nil {
		t.Fatalf("decode opened payload: %v", err)
	}
	if state.Resumed {
		t.Fatal("restarted session should not resume")
	}
}

func TestServeWSClientVanishesDuringPlay(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server, "sessionId=s1&categories=general")
	readUntil(t, conn, "opened")

	// Burst of inputs that each trigger a broadcast, then drop the
	// connection without a close handshake.
	for i := 0; i < 40; i++ {
		if err := conn.WriteJSON(map[string]any{"type": "dismiss"}); err != nil {
			break
		}
	}
	_ = conn.UnderlyingConn().Close()

	// Close waits for the handler; a stuck teardown would hang here.
	done := make(chan struct{})
	go func() {
		server.CloseClientConnections()
		server.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler did not shut down after the client vanished")
	}
}
