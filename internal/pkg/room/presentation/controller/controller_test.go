package controller

import (
	"context"
	"time"

	room "github.com/amuarte/NoteChat/internal/pkg/room/application/domain"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory RoomRepository double shared by the HTTP and
// websocket tests in this package.
type fakeRepo struct {
	rooms map[string]string
	posts map[string][]room.Post
	fail  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rooms: make(map[string]string),
		posts: make(map[string][]room.Post),
	}
}

func (f *fakeRepo) CreateRoom(_ context.Context, name, password string) error {
	if f.fail != nil {
		return f.fail
	}
	if _, ok := f.rooms[name]; ok {
		return room.ErrRoomExists
	}
	f.rooms[name] = password
	return nil
}

func (f *fakeRepo) Authenticate(_ context.Context, name, password string) ([]room.Post, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	stored, ok := f.rooms[name]
	if !ok || stored != password {
		return nil, room.ErrInvalidCredentials
	}
	history := make([]room.Post, len(f.posts[name]))
	copy(history, f.posts[name])
	return history, nil
}

func (f *fakeRepo) AppendPost(_ context.Context, roomName, content string) (room.Post, error) {
	if f.fail != nil {
		return room.Post{}, f.fail
	}
	p := room.Post{
		ID:        uuid.NewString(),
		RoomName:  roomName,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	f.posts[roomName] = append(f.posts[roomName], p)
	return p, nil
}

func (f *fakeRepo) DeletePost(_ context.Context, roomName, id string) error {
	if f.fail != nil {
		return f.fail
	}
	history := f.posts[roomName]
	for i, p := range history {
		if p.ID == id {
			f.posts[roomName] = append(history[:i], history[i+1:]...)
			return nil
		}
	}
	return room.ErrPostNotFound
}

func (f *fakeRepo) ClearRoom(_ context.Context, roomName string) error {
	if f.fail != nil {
		return f.fail
	}
	f.posts[roomName] = nil
	return nil
}

func (f *fakeRepo) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	if f.fail != nil {
		return 0, f.fail
	}
	var pruned int64
	for name, history := range f.posts {
		kept := history[:0]
		for _, p := range history {
			if p.CreatedAt.Before(cutoff) {
				pruned++
				continue
			}
			kept = append(kept, p)
		}
		f.posts[name] = kept
	}
	return pruned, nil
}
