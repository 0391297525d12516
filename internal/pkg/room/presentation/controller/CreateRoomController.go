package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	room "github.com/amuarte/NoteChat/internal/pkg/room/application/domain"
	"github.com/amuarte/NoteChat/internal/pkg/room/application/usecase"
	"github.com/amuarte/NoteChat/internal/pkg/room/persistence/repository/adapter"
)

// CreateRoomController handles the room creation endpoint
// One controller per endpoint
type CreateRoomController struct {
	UC *usecase.CreateRoomUseCase
}

func NewCreateRoomController(pool *pgxpool.Pool) *CreateRoomController {
	repo := adapter.NewPgRoomRepository(pool)
	uc := usecase.NewCreateRoomUseCase(repo)
	return &CreateRoomController{UC: uc}
}

// createRoomRequest is the DTO for the HTTP request body.
// Both fields are checked in the use case so that empty strings and missing
// keys produce the same validation error.
type createRoomRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *CreateRoomController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.CreateRoomInput{Name: req.Name, Password: req.Password})
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"success": true})
		case errors.Is(err, room.ErrEmptyField):
			c.JSON(http.StatusBadRequest, gin.H{"error": "fill all fields"})
		case errors.Is(err, room.ErrRoomExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "room already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}
