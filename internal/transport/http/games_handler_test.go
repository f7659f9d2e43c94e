package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"quiz-game-service/internal/app"
	"quiz-game-service/internal/infra/memory"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	return NewRouter(app.NewGameService(memory.NewGameRepository()), RouterConfig{})
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestGamesAPIMathNight(t *testing.T) {
	r := newTestRouter()

	rec := do(t, r, http.MethodPost, "/api/games", app.CreateGameInput{Title: "Math Night", CreatorEmail: "a@b.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	created := decode[app.GameView](t, rec)
	if len(created.Key) != app.KeyLength || created.ID == "" {
		t.Fatalf("unexpected created game %+v", created)
	}
	if !strings.Contains(rec.Body.String(), `"quizzes":[]`) {
		t.Fatalf("expected empty quizzes list, got %s", rec.Body.String())
	}

	rec = do(t, r, http.MethodPost, "/api/games/"+created.ID+"/quizzes", app.QuizInput{
		Title: "Q1",
		Type:  "single",
		Questions: []app.QuestionInput{
			{Text: "2+2?", Answers: []string{"3", "4"}, CorrectAnswers: []int{1}},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add quiz: expected 200, got %d", rec.Code)
	}
	withQuiz := decode[app.GameView](t, rec)
	if len(withQuiz.Quizzes) != 1 || withQuiz.Quizzes[0].ID == "" {
		t.Fatalf("expected one quiz with id, got %+v", withQuiz.Quizzes)
	}

	rec = do(t, r, http.MethodGet, "/api/games/key/"+strings.ToLower(created.Key), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get by key: expected 200, got %d", rec.Code)
	}
	byKey := decode[app.GameView](t, rec)
	if byKey.ID != created.ID || byKey.Quizzes[0].Questions[0].CorrectAnswers[0] != 1 {
		t.Fatalf("unexpected game by key %+v", byKey)
	}

	rec = do(t, r, http.MethodPost, "/api/games/key/"+created.Key+"/score", app.ScoreInput{
		Answers: []app.AnswerInput{{Quiz: 0, Question: 0, Selected: []int{1}}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("score: expected 200, got %d", rec.Code)
	}
	score := decode[app.ScoreView](t, rec)
	if score.Correct != 1 || score.Total != 1 || score.Percentage != 100 || score.Feedback != "Excellent job!" {
		t.Fatalf("unexpected score %+v", score)
	}

	rec = do(t, r, http.MethodGet, "/api/games/creator/"+url.PathEscape("a@b.com"), nil)
	list := decode[[]app.GameView](t, rec)
	if rec.Code != http.StatusOK || len(list) != 1 {
		t.Fatalf("list: expected one game, got %d %v", rec.Code, list)
	}

	quizID := withQuiz.Quizzes[0].ID
	rec = do(t, r, http.MethodPut, "/api/games/"+created.ID+"/quizzes/"+quizID, app.QuizInput{Title: "Renamed", Type: "single"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update quiz: expected 200, got %d", rec.Code)
	}
	if updated := decode[app.GameView](t, rec); updated.Quizzes[0].Title != "Renamed" || len(updated.Quizzes[0].Questions) != 0 {
		t.Fatalf("expected quiz replaced, got %+v", updated.Quizzes[0])
	}

	rec = do(t, r, http.MethodDelete, "/api/games/"+created.ID+"/quizzes/"+quizID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete quiz: expected 204, got %d", rec.Code)
	}
	rec = do(t, r, http.MethodGet, "/api/games/"+created.ID, nil)
	if got := decode[app.GameView](t, rec); len(got.Quizzes) != 0 {
		t.Fatalf("expected no quizzes after delete, got %d", len(got.Quizzes))
	}

	rec = do(t, r, http.MethodDelete, "/api/games/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete game: expected 204, got %d", rec.Code)
	}
	rec = do(t, r, http.MethodGet, "/api/games/key/"+created.Key, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestGamesAPIErrors(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown key", http.MethodGet, "/api/games/key/NOPE00", nil, http.StatusNotFound},
		{"unknown id", http.MethodGet, "/api/games/missing", nil, http.StatusNotFound},
		{"add quiz to unknown game", http.MethodPost, "/api/games/missing/quizzes", app.QuizInput{Title: "x"}, http.StatusNotFound},
		{"delete unknown game", http.MethodDelete, "/api/games/missing", nil, http.StatusNotFound},
		{"score unknown key", http.MethodPost, "/api/games/key/NOPE00/score", app.ScoreInput{}, http.StatusNotFound},
		{"malformed create", http.MethodPost, "/api/games", "not an object", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, r, tc.method, tc.path, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGamesAPIUnknownQuiz(t *testing.T) {
	r := newTestRouter()
	created := decode[app.GameView](t, do(t, r, http.MethodPost, "/api/games", app.CreateGameInput{Title: "T", CreatorEmail: "a@b.com"}))

	rec := do(t, r, http.MethodPut, "/api/games/"+created.ID+"/quizzes/ghost", app.QuizInput{Title: "x"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update unknown quiz: expected 404, got %d", rec.Code)
	}
	rec = do(t, r, http.MethodDelete, "/api/games/"+created.ID+"/quizzes/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete unknown quiz: expected 404, got %d", rec.Code)
	}

	rec = do(t, r, http.MethodPost, "/api/games/key/"+created.Key+"/score", app.ScoreInput{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("score empty game: expected 422, got %d", rec.Code)
	}
}

func TestCreatorListEmpty(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodGet, "/api/games/creator/nobody@b.com", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthAndCORS(t *testing.T) {
	r := NewRouter(app.NewGameService(memory.NewGameRepository()), RouterConfig{AllowedOrigins: []string{"http://localhost:5173"}})

	rec := do(t, r, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: got %d %q", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/games", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	pre := httptest.NewRecorder()
	r.ServeHTTP(pre, req)
	if got := pre.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/games", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	denied := httptest.NewRecorder()
	r.ServeHTTP(denied, req)
	if got := denied.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected foreign origin rejected, got %q", got)
	}
}

func TestOpenCORSAllowsAnyMethodAndHeader(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/games", nil)
	req.Header.Set("Origin", "http://anywhere.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	req.Header.Set("Access-Control-Request-Headers", "X-Custom-Header")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected any origin, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "*" {
		t.Fatalf("expected any header, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PATCH") || !strings.Contains(got, "HEAD") {
		t.Fatalf("expected PATCH and HEAD allowed, got %q", got)
	}
}
