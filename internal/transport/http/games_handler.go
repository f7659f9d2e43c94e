package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"quiz-game-service/internal/app"
	"quiz-game-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// GamesHandler exposes the game service under /api/games.
type GamesHandler struct {
	service *app.GameService
}

func NewGamesHandler(service *app.GameService) *GamesHandler {
	return &GamesHandler{service: service}
}

// Register mounts the game routes on rg.
func (h *GamesHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.CreateGame)
	rg.GET("/creator/:email", h.ListGamesByCreator)
	rg.GET("/key/:key", h.GetGameByKey)
	rg.POST("/key/:key/score", h.ScoreGame)
	rg.GET("/:gameId", h.GetGame)
	rg.DELETE("/:gameId", h.DeleteGame)
	rg.POST("/:gameId/quizzes", h.AddQuiz)
	rg.PUT("/:gameId/quizzes/:quizId", h.UpdateQuiz)
	rg.DELETE("/:gameId/quizzes/:quizId", h.DeleteQuiz)
}

func (h *GamesHandler) CreateGame(c *gin.Context) {
	var req app.CreateGameInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	game, err := h.service.CreateGame(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GamesHandler) ListGamesByCreator(c *gin.Context) {
	games, err := h.service.ListGamesByCreator(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *GamesHandler) GetGameByKey(c *gin.Context) {
	game, err := h.service.GetGameByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GamesHandler) GetGame(c *gin.Context) {
	game, err := h.service.GetGameByID(c.Request.Context(), c.Param("gameId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GamesHandler) ScoreGame(c *gin.Context) {
	var req app.ScoreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	score, err := h.service.ScoreGame(c.Request.Context(), c.Param("key"), req.ToAnswers())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.MapScore(score))
}

func (h *GamesHandler) AddQuiz(c *gin.Context) {
	var req app.QuizInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	game, err := h.service.AddQuiz(c.Request.Context(), c.Param("gameId"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GamesHandler) UpdateQuiz(c *gin.Context) {
	var req app.QuizInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	game, err := h.service.UpdateQuiz(c.Request.Context(), c.Param("gameId"), c.Param("quizId"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GamesHandler) DeleteQuiz(c *gin.Context) {
	if _, err := h.service.DeleteQuiz(c.Request.Context(), c.Param("gameId"), c.Param("quizId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GamesHandler) DeleteGame(c *gin.Context) {
	gameID := c.Param("gameId")
	removed, err := h.service.DeleteGame(c.Request.Context(), gameID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		writeError(c, domain.NotFound(domain.KindGame, gameID))
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError maps domain errors to status codes. Anything unexpected is logged
// and reported without details.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoQuestions):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("request timed out", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
