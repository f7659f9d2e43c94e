// Package client talks to the game API over HTTP. The creator and player
// consoles are built on it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quiz-game-service/internal/app"
)

// ErrNotFound is returned (wrapped in an *APIError) when the API answers 404.
var ErrNotFound = errors.New("not found")

// APIError carries a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.Status)
	}
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the API rooted at baseURL, e.g. http://localhost:8080.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateGame(ctx context.Context, in app.CreateGameInput) (app.GameView, error) {
	var game app.GameView
	err := c.do(ctx, http.MethodPost, "/api/games", in, &game)
	return game, err
}

func (c *Client) ListGamesByCreator(ctx context.Context, email string) ([]app.GameView, error) {
	var games []app.GameView
	err := c.do(ctx, http.MethodGet, "/api/games/creator/"+url.PathEscape(email), nil, &games)
	return games, err
}

func (c *Client) GetGameByKey(ctx context.Context, key string) (app.GameView, error) {
	var game app.GameView
	err := c.do(ctx, http.MethodGet, "/api/games/key/"+url.PathEscape(key), nil, &game)
	return game, err
}

func (c *Client) GetGame(ctx context.Context, id string) (app.GameView, error) {
	var game app.GameView
	err := c.do(ctx, http.MethodGet, "/api/games/"+url.PathEscape(id), nil, &game)
	return game, err
}

func (c *Client) AddQuiz(ctx context.Context, gameID string, in app.QuizInput) (app.GameView, error) {
	var game app.GameView
	err := c.do(ctx, http.MethodPost, "/api/games/"+url.PathEscape(gameID)+"/quizzes", in, &game)
	return game, err
}

func (c *Client) UpdateQuiz(ctx context.Context, gameID, quizID string, in app.QuizInput) (app.GameView, error) {
	var game app.GameView
	path := "/api/games/" + url.PathEscape(gameID) + "/quizzes/" + url.PathEscape(quizID)
	err := c.do(ctx, http.MethodPut, path, in, &game)
	return game, err
}

func (c *Client) DeleteQuiz(ctx context.Context, gameID, quizID string) error {
	path := "/api/games/" + url.PathEscape(gameID) + "/quizzes/" + url.PathEscape(quizID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) DeleteGame(ctx context.Context, gameID string) error {
	return c.do(ctx, http.MethodDelete, "/api/games/"+url.PathEscape(gameID), nil, nil)
}

// Score asks the server to grade answers for the game under key.
func (c *Client) Score(ctx context.Context, key string, in app.ScoreInput) (app.ScoreView, error) {
	var score app.ScoreView
	err := c.do(ctx, http.MethodPost, "/api/games/key/"+url.PathEscape(key)+"/score", in, &score)
	return score, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
