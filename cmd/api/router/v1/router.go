package v1

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amuarte/NoteChat/internal/infrastructure/realtime"
	httpHandler "github.com/amuarte/NoteChat/internal/pkg/room/presentation/http"
)

// RegisterRoutes mounts the room API under /api/rooms
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, registry *realtime.Registry, bridge *realtime.Bridge, log *slog.Logger) {
	rooms := r.Group("/api/rooms")
	// Pass the DB pool and realtime wiring down to the HTTP layer
	httpHandler.RegisterRoutes(rooms, pool, registry, bridge, log)
}
