package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"quiz-game-service/internal/app"
	"quiz-game-service/internal/domain"
	"quiz-game-service/internal/player"
	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	defaultLookupWait = 10 * time.Second
)

// PlayHandler walks one player through a game over a websocket. The walk lives
// only as long as the connection.
type PlayHandler struct {
	service    *app.GameService
	upgrader   websocket.Upgrader
	lookupWait time.Duration
}

// NewPlayHandler bounds the initial game lookup by lookupWait (10s when zero).
func NewPlayHandler(service *app.GameService, lookupWait time.Duration) *PlayHandler {
	if lookupWait <= 0 {
		lookupWait = defaultLookupWait
	}
	return &PlayHandler{
		service:    service,
		lookupWait: lookupWait,
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

type selectPayload struct {
	Answer int `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type joinedPayload struct {
	Title     string `json:"title"`
	Key       string `json:"key"`
	Quizzes   int    `json:"quizzes"`
	Questions int    `json:"questions"`
}

// questionPayload never carries the correct answers.
type questionPayload struct {
	Quiz      int             `json:"quiz"`
	Question  int             `json:"question"`
	Number    int             `json:"number"`
	Total     int             `json:"total"`
	QuizTitle string          `json:"quizTitle"`
	Type      domain.QuizType `json:"type"`
	Text      string          `json:"text"`
	Answers   []string        `json:"answers"`
	Selected  []int           `json:"selected"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs the play loop.
func (h *PlayHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "missing key", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(r.Context(), h.lookupWait)
	game, err := h.service.GetGameByKey(ctx, key)
	cancel()
	if err != nil {
		h.fail(conn, err)
		return
	}
	walk, err := player.NewWalk(game.DomainQuizzes())
	if err != nil {
		h.fail(conn, err)
		return
	}

	if err := h.send(conn, "joined", joinedPayload{
		Title:     game.Title,
		Key:       game.Key,
		Quizzes:   len(game.Quizzes),
		Questions: walk.Current().Total,
	}); err != nil {
		return
	}
	if err := h.send(conn, "question", toQuestionPayload(walk.Current())); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		var actionErr error
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				actionErr = errors.New("invalid select payload")
				break
			}
			actionErr = walk.Select(payload.Answer)
		case "next":
			actionErr = walk.Next()
		case "previous":
			_, actionErr = walk.Previous()
		default:
			actionErr = errors.New("unsupported message type")
		}
		if actionErr != nil {
			if err := h.send(conn, "error", errorPayload{Message: actionErr.Error()}); err != nil {
				return
			}
			continue
		}

		if walk.Complete() {
			score, err := walk.Score()
			if err != nil {
				h.fail(conn, err)
				return
			}
			if err := h.send(conn, "result", app.MapScore(score)); err != nil {
				return
			}
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game complete"),
				time.Now().Add(writeWait))
			return
		}
		if err := h.send(conn, "question", toQuestionPayload(walk.Current())); err != nil {
			return
		}
	}
}

func (h *PlayHandler) send(conn *websocket.Conn, typ string, payload any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(outboundMessage[any]{Type: typ, Payload: payload}); err != nil {
		slog.Warn("ws write error", "error", err)
		return err
	}
	return nil
}

func (h *PlayHandler) fail(conn *websocket.Conn, err error) {
	_ = h.send(conn, "error", errorPayload{Message: err.Error()})
}

func toQuestionPayload(step player.Step) questionPayload {
	selected := step.Selected
	if selected == nil {
		selected = []int{}
	}
	return questionPayload{
		Quiz:      step.Position.Quiz,
		Question:  step.Position.Question,
		Number:    step.Number,
		Total:     step.Total,
		QuizTitle: step.QuizTitle,
		Type:      step.Type,
		Text:      step.Question.Text,
		Answers:   step.Question.Answers,
		Selected:  selected,
	}
}
