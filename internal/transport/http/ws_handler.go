package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/quizlink/quizlink/internal/player"
)

var playUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Answer string `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// questionFrame shows the player the current question. The correct answer
// stays server-side until review.
type questionFrame struct {
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Selected *string  `json:"selected,omitempty"`
}

type reviewingFrame struct {
	Score      int `json:"score"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type resultFrame struct {
	ResultID   string `json:"resultId,omitempty"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	Band       string `json:"band"`
}

// ServePlayWS upgrades the request to a websocket and drives a play session
// over it. The share code comes from the "code" query param; the player is
// identified from the usual session token when present and plays
// anonymously otherwise.
func (a *API) ServePlayWS(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	var userID string
	if user, err := a.currentUser(r); err == nil {
		userID = user.ID
	}

	quiz, questions, err := a.resolver.ResolveByShareCode(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := player.NewSession(quiz, questions, a.quizzes.Results(), a.fallback)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := playUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
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

	send <- currentFrame(session)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid select payload"}}
				continue
			}
			session.SelectAnswer(payload.Answer)
			send <- currentFrame(session)
		case "advance":
			if session.Advance() && session.State() == player.StateReviewing {
				send <- reviewingMessage(session)
				continue
			}
			if session.State() == player.StateAnswering {
				send <- currentFrame(session)
			}
		case "back":
			session.GoBack()
			if session.State() == player.StateAnswering {
				send <- currentFrame(session)
			}
		case "finish":
			result, err := session.Finish(r.Context(), userID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			pct := player.Percentage(result.Score, session.Total())
			send <- outboundMessage[any]{Type: "result", Payload: resultFrame{
				ResultID:   result.ID,
				Score:      result.Score,
				Total:      session.Total(),
				Percentage: pct,
				Band:       player.Band(pct),
			}}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(send)
	<-writerDone
}

func currentFrame(s *player.Session) outboundMessage[any] {
	q := s.Current()
	frame := questionFrame{
		Index:    s.Index(),
		Total:    s.Total(),
		Question: q.Text,
		Options:  q.Options,
	}
	if selected, ok := s.Pending(); ok {
		frame.Selected = &selected
	}
	return outboundMessage[any]{Type: "question", Payload: frame}
}

func reviewingMessage(s *player.Session) outboundMessage[any] {
	return outboundMessage[any]{Type: "reviewing", Payload: reviewingFrame{
		Score:      s.Score(),
		Total:      s.Total(),
		Percentage: player.Percentage(s.Score(), s.Total()),
	}}
}
