package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	room "github.com/amuarte/NoteChat/internal/pkg/room/application/domain"
)

// fakeRepo is an in-memory RoomRepository double.
type fakeRepo struct {
	rooms map[string]string      // name -> password
	posts map[string][]room.Post // room name -> history, ascending
	fail  error                  // when set, every call fails with this
	seq   int
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
	f.seq++
	p := room.Post{
		ID:        string(rune('a' + f.seq)),
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

func Test_CreateRoom_Succeeds(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	uc := NewCreateRoomUseCase(repo)

	err := uc.Execute(context.Background(), CreateRoomInput{Name: "demo", Password: "pw1"})
	req.NoError(err)
	req.Equal("pw1", repo.rooms["demo"])
}

func Test_CreateRoom_TrimsName(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	uc := NewCreateRoomUseCase(repo)

	err := uc.Execute(context.Background(), CreateRoomInput{Name: "  demo  ", Password: "pw1"})
	req.NoError(err)
	req.Contains(repo.rooms, "demo")
}

func Test_CreateRoom_RejectsEmptyFields(t *testing.T) {
	req := require.New(t)
	uc := NewCreateRoomUseCase(newFakeRepo())

	req.ErrorIs(uc.Execute(context.Background(), CreateRoomInput{Name: "", Password: "pw"}), room.ErrEmptyField)
	req.ErrorIs(uc.Execute(context.Background(), CreateRoomInput{Name: "demo", Password: ""}), room.ErrEmptyField)
	req.ErrorIs(uc.Execute(context.Background(), CreateRoomInput{Name: "   ", Password: "pw"}), room.ErrEmptyField)
}

func Test_CreateRoom_DuplicateNameYieldsConflict(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	uc := NewCreateRoomUseCase(repo)

	req.NoError(uc.Execute(context.Background(), CreateRoomInput{Name: "demo", Password: "pw1"}))
	err := uc.Execute(context.Background(), CreateRoomInput{Name: "demo", Password: "pw2"})
	req.ErrorIs(err, room.ErrRoomExists)
	// The original password survives the failed attempt.
	req.Equal("pw1", repo.rooms["demo"])
}

func Test_CreateRoom_WrapsBackendFailure(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.fail = errors.New("connection refused")
	uc := NewCreateRoomUseCase(repo)

	err := uc.Execute(context.Background(), CreateRoomInput{Name: "demo", Password: "pw"})
	req.ErrorIs(err, ErrPersistence)
}

func Test_LoginRoom_ReturnsHistoryAscending(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.rooms["demo"] = "pw1"
	at := time.Now().UTC()
	repo.posts["demo"] = []room.Post{
		{ID: "1", RoomName: "demo", Content: "first", CreatedAt: at},
		{ID: "2", RoomName: "demo", Content: "second", CreatedAt: at.Add(time.Minute)},
	}
	uc := NewLoginRoomUseCase(repo)

	posts, err := uc.Execute(context.Background(), LoginRoomInput{Name: "demo", Password: "pw1"})
	req.NoError(err)
	req.Len(posts, 2)
	req.Equal("first", posts[0].Content)
	req.True(posts[0].CreatedAt.Before(posts[1].CreatedAt))
}

func Test_LoginRoom_WrongPasswordAndUnknownRoomLookTheSame(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.rooms["demo"] = "pw1"
	uc := NewLoginRoomUseCase(repo)

	_, errWrongPw := uc.Execute(context.Background(), LoginRoomInput{Name: "demo", Password: "pw2"})
	_, errUnknown := uc.Execute(context.Background(), LoginRoomInput{Name: "ghost", Password: "pw1"})
	req.ErrorIs(errWrongPw, room.ErrInvalidCredentials)
	req.ErrorIs(errUnknown, room.ErrInvalidCredentials)
	req.Equal(errWrongPw.Error(), errUnknown.Error())
}

func Test_LoginRoom_EmptyHistoryIsNotAnError(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.rooms["demo"] = "pw1"
	uc := NewLoginRoomUseCase(repo)

	posts, err := uc.Execute(context.Background(), LoginRoomInput{Name: "demo", Password: "pw1"})
	req.NoError(err)
	req.Empty(posts)
}

func Test_JoinRoom_ValidatesCredentials(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.rooms["demo"] = "pw1"
	uc := NewJoinRoomUseCase(repo)

	req.NoError(uc.Execute(context.Background(), JoinRoomInput{Name: "demo", Password: "pw1"}))
	req.ErrorIs(uc.Execute(context.Background(), JoinRoomInput{Name: "demo", Password: "nope"}), room.ErrInvalidCredentials)
	req.ErrorIs(uc.Execute(context.Background(), JoinRoomInput{Name: "", Password: "pw1"}), room.ErrInvalidCredentials)
}

func Test_PostMessage_ReturnsPersistedPost(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.rooms["demo"] = "pw1"
	uc := NewPostMessageUseCase(repo)

	post, err := uc.Execute(context.Background(), PostMessageInput{RoomName: "demo", Content: "hello"})
	req.NoError(err)
	req.NotEmpty(post.ID)
	req.Equal("hello", post.Content)
	req.False(post.CreatedAt.IsZero())
	req.Len(repo.posts["demo"], 1)
}

func Test_PostMessage_GeneratedIDsAreDisjoint(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	uc := NewPostMessageUseCase(repo)

	seen := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		post, err := uc.Execute(context.Background(), PostMessageInput{RoomName: "demo", Content: "x"})
		req.NoError(err)
		_, dup := seen[post.ID]
		req.False(dup, "id %q generated twice", post.ID)
		seen[post.ID] = struct{}{}
	}
}

func Test_DeletePost_RemovesOnlyTheTarget(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	postUC := NewPostMessageUseCase(repo)
	first, err := postUC.Execute(context.Background(), PostMessageInput{RoomName: "demo", Content: "keep"})
	req.NoError(err)
	second, err := postUC.Execute(context.Background(), PostMessageInput{RoomName: "demo", Content: "drop"})
	req.NoError(err)
	other, err := postUC.Execute(context.Background(), PostMessageInput{RoomName: "other", Content: "untouched"})
	req.NoError(err)

	uc := NewDeletePostUseCase(repo)
	req.NoError(uc.Execute(context.Background(), DeletePostInput{RoomName: "demo", ID: second.ID}))

	req.Len(repo.posts["demo"], 1)
	req.Equal(first.ID, repo.posts["demo"][0].ID)
	req.Len(repo.posts["other"], 1)
	req.Equal(other.ID, repo.posts["other"][0].ID)
}

func Test_DeletePost_UnknownIDYieldsNotFound(t *testing.T) {
	req := require.New(t)
	uc := NewDeletePostUseCase(newFakeRepo())

	err := uc.Execute(context.Background(), DeletePostInput{RoomName: "demo", ID: "ghost"})
	req.ErrorIs(err, room.ErrPostNotFound)
}

func Test_ClearRoom_EmptiesHistoryOnly(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.rooms["demo"] = "pw1"
	repo.rooms["other"] = "pw2"
	postUC := NewPostMessageUseCase(repo)
	_, err := postUC.Execute(context.Background(), PostMessageInput{RoomName: "demo", Content: "a"})
	req.NoError(err)
	_, err = postUC.Execute(context.Background(), PostMessageInput{RoomName: "other", Content: "b"})
	req.NoError(err)

	uc := NewClearRoomUseCase(repo)
	req.NoError(uc.Execute(context.Background(), ClearRoomInput{RoomName: "demo"}))

	req.Empty(repo.posts["demo"])
	req.Len(repo.posts["other"], 1)
	// The room row itself survives the clear.
	req.Contains(repo.rooms, "demo")
}

func Test_ClearRoom_WrapsBackendFailure(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.fail = errors.New("connection refused")
	uc := NewClearRoomUseCase(repo)

	req.ErrorIs(uc.Execute(context.Background(), ClearRoomInput{RoomName: "demo"}), ErrPersistence)
}
