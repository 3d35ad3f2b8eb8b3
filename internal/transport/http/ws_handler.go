package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"dev-millionaire-service/internal/app"
	"dev-millionaire-service/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	DisplayIndex int `json:"displayIndex"`
}

type lifelinePayload struct {
	Kind domain.LifelineKind `json:"kind"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message  string `json:"message"`
	Redirect bool   `json:"redirect"` // client should return to category selection
}

type statePayload struct {
	Resumed bool        `json:"resumed"`
	View    domain.View `json:"view"`
}

// ServeWS attaches a browsing session to its game. The connection resumes a
// saved game when one is in progress; otherwise the categories query
// parameter (comma-joined, or "all") selects the banks for a fresh roster.
// Setup failures are sent as a redirecting error envelope so the client can
// return to category selection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}
	categories := splitCategories(r.URL.Query().Get("categories"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	game, resumed, err := h.service.Open(r.Context(), sessionID, categories)
	if err != nil {
		redirect := errors.Is(err, domain.ErrNoCategories) || errors.Is(err, domain.ErrInsufficientQuestions)
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error(), Redirect: redirect}})
		return
	}
	defer game.Close()

	views, cancel := game.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	viewsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// enqueue never blocks past the writer's lifetime; once the writer is
	// gone the message has nowhere to go anyway.
	enqueue := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	go func() {
		defer close(viewsDone)
		for {
			select {
			case view, ok := <-views:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: statePayload{View: view}}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-writerDone:
				return
			case <-closeSignals:
				return
			}
		}
	}()

	enqueue(outboundMessage[any]{Type: "opened", Payload: statePayload{Resumed: resumed, View: game.View()}})

	restarted := false
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			game.Answer(payload.DisplayIndex)
		case "lifeline":
			var payload lifelinePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid lifeline payload"}})
				continue
			}
			game.UseLifeline(payload.Kind)
		case "dismiss":
			game.Dismiss()
		case "restart":
			game.Restart(r.Context())
			enqueue(outboundMessage[any]{Type: "restarted", Payload: struct{}{}})
			restarted = true
		default:
			enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
		if restarted {
			break
		}
	}

	close(closeSignals)
	<-viewsDone
	close(send)
	<-writerDone
}

func splitCategories(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	categories := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			categories = append(categories, part)
		}
	}
	return categories
}
