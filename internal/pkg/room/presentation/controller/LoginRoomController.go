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

// LoginRoomController handles the room login endpoint
// One controller per endpoint
type LoginRoomController struct {
	UC *usecase.LoginRoomUseCase
}

func NewLoginRoomController(pool *pgxpool.Pool) *LoginRoomController {
	repo := adapter.NewPgRoomRepository(pool)
	uc := usecase.NewLoginRoomUseCase(repo)
	return &LoginRoomController{UC: uc}
}

// loginRoomRequest is the DTO for the HTTP request body
type loginRoomRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *LoginRoomController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		posts, err := h.UC.Execute(ctx, usecase.LoginRoomInput{Name: req.Name, Password: req.Password})
		if err != nil {
			// Unknown room and wrong password answer identically so the
			// response never reveals which field was wrong.
			if errors.Is(err, room.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong name or password"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(posts))
		for _, p := range posts {
			out = append(out, gin.H{
				"id":         p.ID,
				"content":    p.Content,
				"created_at": p.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{"posts": out})
	}
}
