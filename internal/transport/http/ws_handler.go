package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"flagquiz/internal/app"
	"flagquiz/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxMessageSize = 4096
	writeWait      = 10 * time.Second
)

// WSHandler runs one quiz session per websocket connection.
type WSHandler struct {
	service          *app.QuizService
	logger           *zap.Logger
	defaultQuestions int
	upgrader         websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger, defaultQuestions int) *WSHandler {
	if defaultQuestions <= 0 {
		defaultQuestions = 10
	}
	return &WSHandler{
		service:          service,
		logger:           logger,
		defaultQuestions: defaultQuestions,
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
	Difficulty string `json:"difficulty"`
	Questions  int    `json:"questions"`
}

type answerPayload struct {
	Option string `json:"option"`
}

type savePayload struct {
	PlayerName string `json:"playerName"`
}

type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ServeWS upgrades the request and plays a quiz over the connection until it closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	ctx := r.Context()
	opened := h.service.Open(ctx)
	defer h.service.Close(context.Background(), opened.ID)
	logger := h.logger.With(zap.String("session", opened.ID))
	logger.Debug("player connected")

	send := make(chan outboundMessage, 16)
	writerDone := make(chan struct{})

	// single writer; gorilla connections do not allow concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug("ws write failed", zap.Error(err))
				return
			}
		}
	}()

	send <- outboundMessage{Type: "session", Payload: opened}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		for _, msg := range h.handle(ctx, opened.ID, inbound) {
			select {
			case send <- msg:
			case <-writerDone:
			}
		}
	}

	close(send)
	<-writerDone
	logger.Debug("player disconnected")
}

// handle applies one inbound frame to the session and returns the frames to send back.
func (h *WSHandler) handle(ctx context.Context, sessionID string, inbound inboundMessage) []outboundMessage {
	switch inbound.Type {
	case "start":
		var payload startPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return badPayload("start")
		}
		difficulty, err := domain.ParseDifficulty(payload.Difficulty)
		if err != nil {
			return h.errorFrames(err)
		}
		questions := payload.Questions
		if questions == 0 {
			questions = h.defaultQuestions
		}
		snap, err := h.service.Start(ctx, sessionID, difficulty, questions)
		if err != nil {
			return h.errorFrames(err)
		}
		return []outboundMessage{{Type: "session", Payload: snap}}

	case "answer":
		var payload answerPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil || payload.Option == "" {
			return badPayload("answer")
		}
		result, err := h.service.Answer(ctx, sessionID, payload.Option)
		return h.answerFrames(result, err)

	case "end":
		final, err := h.service.EndEarly(ctx, sessionID)
		if err != nil {
			return h.errorFrames(err)
		}
		return []outboundMessage{{Type: "finished", Payload: final}}

	case "save":
		var payload savePayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return badPayload("save")
		}
		record, err := h.service.Save(ctx, sessionID, payload.PlayerName)
		if err != nil {
			return h.errorFrames(err)
		}
		return []outboundMessage{{Type: "saved", Payload: record}}

	case "snapshot":
		snap, err := h.service.Snapshot(ctx, sessionID)
		if err != nil {
			return h.errorFrames(err)
		}
		return []outboundMessage{{Type: "session", Payload: snap}}
	}
	return []outboundMessage{{Type: "error", Payload: errorPayload{Code: "unsupported_type", Message: "unsupported message type " + inbound.Type}}}
}

// answerFrames reports a finished game even when the answer also failed.
func (h *WSHandler) answerFrames(result app.AnswerResult, err error) []outboundMessage {
	if err != nil && !result.Finished {
		return h.errorFrames(err)
	}
	out := []outboundMessage{{Type: "answerResult", Payload: result}}
	if result.Finished {
		out = append(out, outboundMessage{Type: "finished", Payload: result.Final})
	}
	if err != nil {
		out = append(out, h.errorFrames(err)...)
	}
	return out
}

func (h *WSHandler) errorFrames(err error) []outboundMessage {
	status, payload := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("ws request failed", zap.Error(err))
	}
	return []outboundMessage{{Type: "error", Payload: payload}}
}

func badPayload(kind string) []outboundMessage {
	return []outboundMessage{{Type: "error", Payload: errorPayload{Code: "bad_request", Message: "invalid " + kind + " payload"}}}
}

// decodePayload accepts a missing payload as the zero value.
func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
