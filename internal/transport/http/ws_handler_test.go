package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebSocketPlayFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUpAndIn(t, "alice@example.com")
	created := env.createQuiz(t, token, "Capitals")
	env.addQuestion(t, token, created.ID, "Capital of France?", "Paris", []string{"Paris", "Lyon", "Nice", "Lille"})
	env.addQuestion(t, token, created.ID, "Capital of Italy?", "Rome", []string{"Rome", "Milan", "Turin", "Naples"})

	server := httptest.NewServer(env.handler)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/play?code=" + created.ShareCode
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	typ, payload := readPlayFrame(conn, t)
	if typ != "question" {
		t.Fatalf("expected question frame, got %s", typ)
	}
	if payload["index"].(float64) != 0 || payload["total"].(float64) != 2 {
		t.Fatalf("unexpected first frame: %+v", payload)
	}
	if _, leaked := payload["answer"]; leaked {
		t.Fatalf("question frame leaks the answer: %+v", payload)
	}

	// Advancing without a selection stays on the same question.
	writePlayFrame(conn, t, "advance", nil)
	typ, payload = readPlayFrame(conn, t)
	if typ != "question" || payload["index"].(float64) != 0 {
		t.Fatalf("advance without selection moved on: %s %+v", typ, payload)
	}

	writePlayFrame(conn, t, "select", map[string]any{"answer": "Paris"})
	typ, _ = readPlayFrame(conn, t)
	if typ != "question" {
		t.Fatalf("expected echoed question after select, got %s", typ)
	}

	writePlayFrame(conn, t, "advance", nil)
	typ, payload = readPlayFrame(conn, t)
	if typ != "question" || payload["index"].(float64) != 1 {
		t.Fatalf("expected second question, got %s %+v", typ, payload)
	}

	writePlayFrame(conn, t, "select", map[string]any{"answer": "Milan"})
	readPlayFrame(conn, t)
	writePlayFrame(conn, t, "advance", nil)
	typ, payload = readPlayFrame(conn, t)
	if typ != "reviewing" {
		t.Fatalf("expected reviewing frame, got %s %+v", typ, payload)
	}
	if payload["score"].(float64) != 1 || payload["percentage"].(float64) != 50 {
		t.Fatalf("unexpected reviewing frame: %+v", payload)
	}

	writePlayFrame(conn, t, "finish", nil)
	typ, payload = readPlayFrame(conn, t)
	if typ != "result" {
		t.Fatalf("expected result frame, got %s", typ)
	}
	if payload["score"].(float64) != 1 || payload["band"].(string) != "Not Bad" {
		t.Fatalf("unexpected result frame: %+v", payload)
	}

	// The session is spent; another finish is refused.
	writePlayFrame(conn, t, "finish", nil)
	typ, _ = readPlayFrame(conn, t)
	if typ != "error" {
		t.Fatalf("expected error on double finish, got %s", typ)
	}
}

func TestWebSocketUnknownCode(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.handler)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/play?code=NOSUCH"
	if _, _, err := websocket.DefaultDialer.Dial(u, nil); err == nil {
		t.Fatalf("expected dial to fail for unknown code")
	}
}

func writePlayFrame(conn *websocket.Conn, t *testing.T, typ string, payload map[string]any) {
	t.Helper()
	msg := map[string]any{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readPlayFrame(conn *websocket.Conn, t *testing.T) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return msg.Type, msg.Payload
}
