package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/domain"
)

// WSHandler drives one quiz attempt per websocket connection. The client
// sends commands; the server pushes a state snapshot after every applied
// transition, including the ones initiated by countdown expiry, plus exactly
// one completed message per play-through.
type WSHandler struct {
	service         *app.SessionService
	defaultSettings domain.SessionSettings
	upgrader        websocket.Upgrader
}

func NewWSHandler(service *app.SessionService, defaults domain.SessionSettings) *WSHandler {
	return &WSHandler{
		service:         service,
		defaultSettings: defaults,
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

type startPayload struct {
	Settings *domain.SessionSettings `json:"settings"`
}

type optionPayload struct {
	OptionID string `json:"optionId"`
}

type typedPayload struct {
	Text string `json:"text"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the attempt's command loop until the
// client disconnects or sends exit.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// enqueue pushes a message unless the connection is tearing down. The
	// completion callback can arrive from a timer goroutine after the client
	// disconnected, so sends are fenced by sendClosed: teardown flips it
	// under the mutex before closing send.
	var sendMu sync.Mutex
	sendClosed := false
	enqueue := func(msg outboundMessage[any]) {
		sendMu.Lock()
		defer sendMu.Unlock()
		if sendClosed {
			return
		}
		select {
		case send <- msg:
		case <-closeSignals:
		}
	}

	attemptID := ""
	var cancelUpdates func()
	updatesDone := make(chan struct{})
	close(updatesDone) // no pump yet

readLoop:
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		switch inbound.Type {
		case "start":
			if attemptID == "" {
				var payload startPayload
				if len(inbound.Payload) > 0 {
					if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
						enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid start payload"}})
						continue
					}
				}
				settings := h.defaultSettings
				if payload.Settings != nil {
					settings = *payload.Settings
				}
				id, _, err := h.service.CreateAttempt(r.Context(), quizID, settings, func(summary domain.CompletionSummary) {
					enqueue(outboundMessage[any]{Type: "completed", Payload: summary})
				})
				if err != nil {
					enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
					continue
				}
				attemptID = id

				updates, cancel, err := h.service.Subscribe(attemptID)
				if err != nil {
					enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
					continue
				}
				cancelUpdates = cancel
				updatesDone = make(chan struct{})
				go func(done chan struct{}) {
					defer close(done)
					for {
						select {
						case snap, ok := <-updates:
							if !ok {
								return
							}
							enqueue(outboundMessage[any]{Type: "state", Payload: snap})
						case <-closeSignals:
							return
						}
					}
				}(updatesDone)
			}
			h.apply(enqueue, h.service.Start(attemptID))

		case "select":
			h.applyOption(enqueue, inbound.Payload, attemptID, h.service.SelectOption)

		case "toggle":
			h.applyOption(enqueue, inbound.Payload, attemptID, h.service.ToggleOption)

		case "typeAnswer":
			var payload typedPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid typeAnswer payload"}})
				continue
			}
			h.apply(enqueue, h.service.SetTypedAnswer(attemptID, payload.Text))

		case "submit":
			h.apply(enqueue, h.service.Submit(attemptID))

		case "advance":
			h.apply(enqueue, h.service.Advance(attemptID))

		case "restart":
			h.apply(enqueue, h.service.Restart(attemptID))

		case "exit":
			break readLoop

		default:
			enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	if attemptID != "" {
		h.service.Exit(attemptID)
	}
	close(closeSignals)
	if cancelUpdates != nil {
		cancelUpdates()
	}
	<-updatesDone
	sendMu.Lock()
	sendClosed = true
	sendMu.Unlock()
	close(send)
	<-writerDone
}

// apply reports a command error to the client. Mid-session no-op rejections
// (empty answers, wrong phase) surface as error messages; the state does not
// advance.
func (h *WSHandler) apply(enqueue func(outboundMessage[any]), err error) {
	if err == nil {
		return
	}
	enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
}

func (h *WSHandler) applyOption(
	enqueue func(outboundMessage[any]),
	raw json.RawMessage,
	attemptID string,
	cmd func(attemptID, optionID string) error,
) {
	var payload optionPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.OptionID == "" {
		h.apply(enqueue, errors.New("invalid option payload"))
		return
	}
	h.apply(enqueue, cmd(attemptID, payload.OptionID))
}
