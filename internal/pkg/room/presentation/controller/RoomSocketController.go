package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amuarte/NoteChat/internal/infrastructure/realtime"
	room "github.com/amuarte/NoteChat/internal/pkg/room/application/domain"
	"github.com/amuarte/NoteChat/internal/pkg/room/application/usecase"
	repoAdapter "github.com/amuarte/NoteChat/internal/pkg/room/persistence/repository/adapter"
)

// RoomSocketController handles the websocket endpoint carrying the realtime
// room events: join_room, post_message, delete_post, clear_room, leave_room.
type RoomSocketController struct {
	registry        *realtime.Registry
	bridge          *realtime.Bridge
	joinUC          *usecase.JoinRoomUseCase
	postUC          *usecase.PostMessageUseCase
	deleteUC        *usecase.DeletePostUseCase
	clearUC         *usecase.ClearRoomUseCase
	log             *slog.Logger
	inflightTimeout time.Duration
}

// NewRoomSocketController wires the socket loop. bridge may be nil, in which
// case fan-out stays local to this process.
func NewRoomSocketController(pool *pgxpool.Pool, registry *realtime.Registry, bridge *realtime.Bridge, log *slog.Logger) *RoomSocketController {
	repo := repoAdapter.NewPgRoomRepository(pool)
	if log == nil {
		log = slog.Default()
	}
	return &RoomSocketController{
		registry:        registry,
		bridge:          bridge,
		joinUC:          usecase.NewJoinRoomUseCase(repo),
		postUC:          usecase.NewPostMessageUseCase(repo),
		deleteUC:        usecase.NewDeletePostUseCase(repo),
		clearUC:         usecase.NewClearRoomUseCase(repo),
		log:             log,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

// inboundFrame is the single decode target for every client event; the Event
// field discriminates which of the remaining fields matter.
type inboundFrame struct {
	Event    string `json:"event"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
	Room     string `json:"room,omitempty"`
	Content  string `json:"content,omitempty"`
	ID       string `json:"id,omitempty"`
}

type errorFrame struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

type userJoinedFrame struct {
	Event string `json:"event"`
	Room  string `json:"room"`
}

type newPostFrame struct {
	Event     string    `json:"event"`
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type postDeletedFrame struct {
	Event string `json:"event"`
	ID    string `json:"id"`
}

type roomClearedFrame struct {
	Event string `json:"event"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until the client disconnects.
func (ctl *RoomSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			ctl.log.Debug("websocket upgrade failed", "err", err)
			return
		}

		conn := realtime.NewConnection(ws)
		conn.Start()
		defer func() {
			ctl.registry.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) &&
					!errors.Is(err, websocket.ErrCloseSent) {
					ctl.log.Debug("websocket read failed", "conn", conn.ID, "err", err)
				}
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "invalid payload")
				continue
			}

			switch frame.Event {
			case "join_room":
				ctl.handleJoin(c, conn, frame)
			case "post_message":
				ctl.handlePost(c, conn, frame)
			case "delete_post":
				ctl.handleDelete(c, conn, frame)
			case "clear_room":
				ctl.handleClear(c, conn, frame)
			case "leave_room":
				ctl.handleLeave(conn, frame)
			default:
				ctl.replyError(conn, "unknown event")
			}
		}
	}
}

func (ctl *RoomSocketController) handleJoin(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	// One canonical spelling for auth, membership, and fan-out; a padded name
	// must not register the caller under a parallel group.
	name := strings.TrimSpace(frame.Name)

	err := ctl.joinUC.Execute(ctx, usecase.JoinRoomInput{Name: name, Password: frame.Password})
	if err != nil {
		// Failed joins answer the caller only; other members see nothing.
		if errors.Is(err, room.ErrInvalidCredentials) {
			ctl.replyError(conn, "invalid credentials")
			return
		}
		ctl.replyUseCaseError(conn, err)
		return
	}

	ctl.registry.Join(name, conn)

	// Notify the room's other members; the joining caller is excluded.
	ctl.fanOut(ctx, name, userJoinedFrame{Event: "user_joined", Room: name}, conn.ID)
}

func (ctl *RoomSocketController) handlePost(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	post, err := ctl.postUC.Execute(ctx, usecase.PostMessageInput{RoomName: frame.Room, Content: frame.Content})
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}

	// Everyone gets the persisted post, sender included: the echo carries the
	// authoritative id and timestamp.
	ctl.fanOut(ctx, frame.Room, newPostFrame{
		Event:     "new_post",
		ID:        post.ID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	}, "")
}

func (ctl *RoomSocketController) handleDelete(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	err := ctl.deleteUC.Execute(ctx, usecase.DeletePostInput{RoomName: frame.Room, ID: frame.ID})
	if err != nil {
		if errors.Is(err, room.ErrPostNotFound) {
			ctl.replyError(conn, "post not found")
			return
		}
		ctl.replyUseCaseError(conn, err)
		return
	}

	ctl.fanOut(ctx, frame.Room, postDeletedFrame{Event: "post_deleted", ID: frame.ID}, "")
}

func (ctl *RoomSocketController) handleClear(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if err := ctl.clearUC.Execute(ctx, usecase.ClearRoomInput{RoomName: frame.Room}); err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}

	ctl.fanOut(ctx, frame.Room, roomClearedFrame{Event: "room_cleared"}, "")
}

func (ctl *RoomSocketController) handleLeave(conn *realtime.Connection, frame inboundFrame) {
	// No outbound event on leave.
	ctl.registry.Leave(frame.Room, conn)
}

// fanOut delivers the frame to the room's local members and, when a bridge is
// configured, to members connected on other nodes.
func (ctl *RoomSocketController) fanOut(ctx context.Context, roomName string, frame any, excludeConnID string) {
	payload, err := json.Marshal(frame)
	if err != nil {
		ctl.log.Error("failed to encode outbound frame", "room", roomName, "err", err)
		return
	}
	ctl.registry.Broadcast(roomName, payload, excludeConnID)
	if ctl.bridge != nil {
		if err := ctl.bridge.Publish(ctx, roomName, payload); err != nil {
			ctl.log.Warn("bridge publish failed", "room", roomName, "err", err)
		}
	}
}

func (ctl *RoomSocketController) replyUseCaseError(conn *realtime.Connection, err error) {
	if errors.Is(err, usecase.ErrPersistence) {
		ctl.replyError(conn, "unexpected persistence error")
		return
	}
	ctl.replyError(conn, err.Error())
}

func (ctl *RoomSocketController) replyError(conn *realtime.Connection, message string) {
	frame := errorFrame{Event: "error", Message: message}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
