package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	room "github.com/amuarte/NoteChat/internal/pkg/room/application/domain"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint breach.
const uniqueViolation = "23505"

type PgRoomRepository struct {
	pool *pgxpool.Pool
}

func NewPgRoomRepository(pool *pgxpool.Pool) *PgRoomRepository {
	return &PgRoomRepository{pool: pool}
}

func (r *PgRoomRepository) CreateRoom(ctx context.Context, name string, password string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgRoomRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx,
		"INSERT INTO rooms (name, password) VALUES ($1, $2)",
		name, password,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return room.ErrRoomExists
		}
		return err
	}
	return nil
}

func (r *PgRoomRepository) Authenticate(ctx context.Context, name string, password string) ([]room.Post, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgRoomRepository: nil pool")
	}

	var stored string
	err := r.pool.QueryRow(ctx,
		"SELECT password FROM rooms WHERE name = $1",
		name,
	).Scan(&stored)
	if errors.Is(err, pgx.ErrNoRows) {
		// Unknown room and wrong password must look the same to the caller.
		return nil, room.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if stored != password {
		return nil, room.ErrInvalidCredentials
	}

	return r.history(ctx, name)
}

func (r *PgRoomRepository) history(ctx context.Context, roomName string) ([]room.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, room_name, content, created_at
		FROM posts
		WHERE room_name = $1
		ORDER BY created_at ASC, id ASC
	`, roomName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]room.Post, 0)
	for rows.Next() {
		var p room.Post
		if err := rows.Scan(&p.ID, &p.RoomName, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return posts, nil
}

func (r *PgRoomRepository) AppendPost(ctx context.Context, roomName string, content string) (room.Post, error) {
	if r == nil || r.pool == nil {
		return room.Post{}, errors.New("PgRoomRepository: nil pool")
	}

	p := room.Post{
		ID:        uuid.NewString(),
		RoomName:  roomName,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.pool.Exec(ctx,
		"INSERT INTO posts (id, room_name, content, created_at) VALUES ($1, $2, $3, $4)",
		p.ID, p.RoomName, p.Content, p.CreatedAt,
	)
	if err != nil {
		return room.Post{}, err
	}
	return p, nil
}

func (r *PgRoomRepository) DeletePost(ctx context.Context, roomName string, id string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgRoomRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx,
		"DELETE FROM posts WHERE id = $1 AND room_name = $2",
		id, roomName,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return room.ErrPostNotFound
	}
	return nil
}

func (r *PgRoomRepository) ClearRoom(ctx context.Context, roomName string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgRoomRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, "DELETE FROM posts WHERE room_name = $1", roomName)
	return err
}

func (r *PgRoomRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgRoomRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, "DELETE FROM posts WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
