package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amuarte/NoteChat/internal/infrastructure/realtime"
	"github.com/amuarte/NoteChat/internal/pkg/room/presentation/controller"
)

// RegisterRoutes registers room-related endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, registry *realtime.Registry, bridge *realtime.Bridge, log *slog.Logger) {
	createCtl := controller.NewCreateRoomController(pool)
	loginCtl := controller.NewLoginRoomController(pool)
	socketCtl := controller.NewRoomSocketController(pool, registry, bridge, log)

	// POST /api/rooms/create -> register a new room
	g.POST("/create", createCtl.Handle())

	// POST /api/rooms/login -> authenticate and fetch history
	g.POST("/login", loginCtl.Handle())

	// GET /api/rooms/ws -> websocket endpoint for realtime room events
	g.GET("/ws", socketCtl.Handle())
}
