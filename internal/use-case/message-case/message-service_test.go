package message_service

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kshathishka/collabstudy/internal/dtos/message_dto"
	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

// in-memory fakes

type fakeMessageRepo struct {
	mu   sync.Mutex
	seqs map[string]int64
	msgs map[string]*entity.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		seqs: make(map[string]int64),
		msgs: make(map[string]*entity.Message),
	}
}

func copyMessage(m *entity.Message) *entity.Message {
	c := *m
	c.Reactions = append([]entity.Reaction(nil), m.Reactions...)
	return &c
}

func (f *fakeMessageRepo) NextSeq(_ context.Context, roomID string) (int64, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seqs[roomID]++
	return f.seqs[roomID], nil
}

func (f *fakeMessageRepo) Insert(_ context.Context, msg *entity.Message) (bson.ObjectID, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.ID.IsZero() {
		msg.ID = bson.NewObjectID()
	}
	f.msgs[msg.ID.Hex()] = copyMessage(msg)
	return msg.ID, nil
}

func (f *fakeMessageRepo) FindByID(_ context.Context, messageID string) (*entity.Message, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.msgs[messageID]
	if !ok {
		return nil, app_error.NewNotFoundError("message not found", "not-found")
	}
	return copyMessage(msg), nil
}

func (f *fakeMessageRepo) FindManyByIDs(_ context.Context, roomID string, messageIDs []string) (map[string]*entity.Message, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make(map[string]*entity.Message)
	for _, id := range messageIDs {
		if msg, ok := f.msgs[id]; ok && msg.RoomID == roomID {
			result[id] = copyMessage(msg)
		}
	}
	return result, nil
}

func (f *fakeMessageRepo) UpdateContent(_ context.Context, id bson.ObjectID, content string, editedAt time.Time) *app_error.AppError {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.msgs[id.Hex()]
	if !ok || msg.IsDeleted {
		return app_error.NewInvalidStateError("message was deleted by another operation", "concurrent-update")
	}
	msg.Content = content
	msg.IsEdited = true
	msg.EditedAt = &editedAt
	return nil
}

func (f *fakeMessageRepo) SoftDelete(_ context.Context, id bson.ObjectID) *app_error.AppError {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.msgs[id.Hex()]
	if !ok {
		return app_error.NewNotFoundError("message not found", "not-found")
	}
	msg.Content = entity.DeletedMessageContent
	msg.IsDeleted = true
	return nil
}

func (f *fakeMessageRepo) SetReactions(_ context.Context, id bson.ObjectID, reactions []entity.Reaction) *app_error.AppError {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.msgs[id.Hex()]
	if !ok || msg.IsDeleted {
		return app_error.NewNotFoundError("message not found or has been deleted", "not-found")
	}
	msg.Reactions = append([]entity.Reaction(nil), reactions...)
	return nil
}

func (f *fakeMessageRepo) ListByRoom(_ context.Context, roomID string, beforeSeq *int64, limit int) ([]*entity.Message, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var page []*entity.Message
	for _, msg := range f.msgs {
		if msg.RoomID != roomID {
			continue
		}
		if beforeSeq != nil && msg.Seq >= *beforeSeq {
			continue
		}
		page = append(page, copyMessage(msg))
	}
	sort.Slice(page, func(i, j int) bool { return page[i].Seq > page[j].Seq })
	if len(page) > limit {
		page = page[:limit]
	}
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}
	return page, nil
}

type fakeRoomRepo struct {
	members map[string]map[string]bool
}

func newFakeRoomRepo(roomID string, userIDs ...string) *fakeRoomRepo {
	members := map[string]map[string]bool{roomID: {}}
	for _, id := range userIDs {
		members[roomID][id] = true
	}
	return &fakeRoomRepo{members: members}
}

func (f *fakeRoomRepo) CreateRoom(_ context.Context, _ *entity.Room, _ string) *app_error.AppError {
	return nil
}

func (f *fakeRoomRepo) FindRoomByID(_ context.Context, _ string) (*entity.Room, *app_error.AppError) {
	return nil, app_error.NewNotFoundError("room not found", "not-found")
}

func (f *fakeRoomRepo) ListRooms(_ context.Context, _, _ int) ([]*entity.Room, *app_error.AppError) {
	return nil, nil
}

func (f *fakeRoomRepo) UpdateRoom(_ context.Context, _ *entity.Room) *app_error.AppError {
	return nil
}

func (f *fakeRoomRepo) AddMember(_ context.Context, roomID, userID, _ string) *app_error.AppError {
	if f.members[roomID] == nil {
		f.members[roomID] = map[string]bool{}
	}
	f.members[roomID][userID] = true
	return nil
}

func (f *fakeRoomRepo) RemoveMember(_ context.Context, roomID, userID string) *app_error.AppError {
	delete(f.members[roomID], userID)
	return nil
}

func (f *fakeRoomRepo) IsMember(_ context.Context, roomID, userID string) (bool, *app_error.AppError) {
	return f.members[roomID][userID], nil
}

func (f *fakeRoomRepo) MembersOf(_ context.Context, roomID string) ([]string, *app_error.AppError) {
	var ids []string
	for id := range f.members[roomID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeRoomRepo) FindMembers(_ context.Context, _ string) ([]*entity.RoomMember, *app_error.AppError) {
	return nil, nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(userIDs ...string) *fakeUserRepo {
	users := make(map[string]*entity.User)
	for _, id := range userIDs {
		users[id] = &entity.User{ID: id, Name: "user-" + id}
	}
	return &fakeUserRepo{users: users}
}

func (f *fakeUserRepo) SaveUser(_ context.Context, model *entity.User) *app_error.AppError {
	f.users[model.ID] = model
	return nil
}

func (f *fakeUserRepo) FindUserByID(_ context.Context, userID string) (*entity.User, *app_error.AppError) {
	user, ok := f.users[userID]
	if !ok {
		return nil, app_error.NewNotFoundError("user not found", "not-found")
	}
	return user, nil
}

func (f *fakeUserRepo) FindUserByEmail(_ context.Context, _ string) (*entity.User, *app_error.AppError) {
	return nil, app_error.NewNotFoundError("user not found", "not-found")
}

func (f *fakeUserRepo) CountByEmail(_ context.Context, _ string) (int64, *app_error.AppError) {
	return 0, nil
}

const (
	testRoom  = "room-1"
	userAlice = "alice"
	userBob   = "bob"
	userEve   = "eve"
)

func newTestService() (*MessageService, *fakeMessageRepo) {
	msgRepo := newFakeMessageRepo()
	svc := &MessageService{
		MessageRepo: msgRepo,
		RoomRepo:    newFakeRoomRepo(testRoom, userAlice, userBob),
		UserRepo:    newFakeUserRepo(userAlice, userBob),
		PageSize:    50,
	}
	return svc, msgRepo
}

func sendText(t *testing.T, svc *MessageService, sender, content string) *message_dto.MessageResponse {
	t.Helper()
	resp, err := svc.SendMessage(context.Background(), testRoom, sender, message_dto.SendMessageRequest{Content: content})
	require.Nil(t, err)
	return resp
}

func TestSendMessage_AssignsMonotonicSequence(t *testing.T) {
	svc, _ := newTestService()

	first := sendText(t, svc, userAlice, "  hello  ")
	second := sendText(t, svc, userBob, "world")

	assert.Equal(t, "hello", first.Content, "content should be trimmed")
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, "user-"+userAlice, first.Sender.Name)
}

func TestSendMessage_NonMemberForbidden(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SendMessage(context.Background(), testRoom, userEve, message_dto.SendMessageRequest{Content: "hi"})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.Code)
}

func TestSendMessage_RejectsEmptyContent(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SendMessage(context.Background(), testRoom, userAlice, message_dto.SendMessageRequest{Content: "   "})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Code)
}

func TestSendMessage_FileRequiresMeta(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SendMessage(context.Background(), testRoom, userAlice, message_dto.SendMessageRequest{Type: entity.MessageTypeFile})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Code)
}

func TestSendMessage_UnknownSenderRejected(t *testing.T) {
	// "ghost" holds a membership row but no user record
	svc := &MessageService{
		MessageRepo: newFakeMessageRepo(),
		RoomRepo:    newFakeRoomRepo(testRoom, userAlice, "ghost"),
		UserRepo:    newFakeUserRepo(userAlice),
		PageSize:    50,
	}

	_, err := svc.SendMessage(context.Background(), testRoom, "ghost", message_dto.SendMessageRequest{Content: "boo"})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Code)
}

func TestEditMessage_SenderOnly(t *testing.T) {
	svc, _ := newTestService()
	msg := sendText(t, svc, userAlice, "original")

	_, err := svc.EditMessage(context.Background(), testRoom, msg.MessageID, userBob, message_dto.EditMessageRequest{Content: "hijacked"})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.Code)

	updated, err := svc.EditMessage(context.Background(), testRoom, msg.MessageID, userAlice, message_dto.EditMessageRequest{Content: "fixed"})
	require.Nil(t, err)
	assert.Equal(t, "fixed", updated.Content)
	assert.True(t, updated.IsEdited)
	require.NotNil(t, updated.EditedAt)
}

func TestEditMessage_DeletedConflicts(t *testing.T) {
	svc, _ := newTestService()
	msg := sendText(t, svc, userAlice, "soon gone")

	_, err := svc.DeleteMessage(context.Background(), testRoom, msg.MessageID, userAlice)
	require.Nil(t, err)

	_, editErr := svc.EditMessage(context.Background(), testRoom, msg.MessageID, userAlice, message_dto.EditMessageRequest{Content: "zombie"})
	require.NotNil(t, editErr)
	assert.Equal(t, http.StatusConflict, editErr.Code)
}

func TestDeleteMessage_TombstoneThenRepeatConflicts(t *testing.T) {
	svc, _ := newTestService()
	msg := sendText(t, svc, userAlice, "secret")

	deleted, err := svc.DeleteMessage(context.Background(), testRoom, msg.MessageID, userAlice)
	require.Nil(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.Equal(t, entity.DeletedMessageContent, deleted.Content)
	assert.Equal(t, msg.Seq, deleted.Seq, "tombstone keeps its position")

	// deleting carries the same preconditions as edit: the tombstone is
	// already in its final state
	_, againErr := svc.DeleteMessage(context.Background(), testRoom, msg.MessageID, userAlice)
	require.NotNil(t, againErr)
	assert.Equal(t, http.StatusConflict, againErr.Code)
}

func TestDeleteMessage_SenderOnly(t *testing.T) {
	svc, _ := newTestService()
	msg := sendText(t, svc, userAlice, "mine")

	_, err := svc.DeleteMessage(context.Background(), testRoom, msg.MessageID, userBob)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.Code)
}

func TestToggleReaction_AddThenRemove(t *testing.T) {
	svc, _ := newTestService()
	msg := sendText(t, svc, userAlice, "react to me")

	added, err := svc.ToggleReaction(context.Background(), testRoom, msg.MessageID, userBob, message_dto.ToggleReactionRequest{Emoji: "👍"})
	require.Nil(t, err)
	require.Len(t, added.Reactions, 1)
	assert.Equal(t, userBob, added.Reactions[0].UserID)

	removed, err := svc.ToggleReaction(context.Background(), testRoom, msg.MessageID, userBob, message_dto.ToggleReactionRequest{Emoji: "👍"})
	require.Nil(t, err)
	assert.Empty(t, removed.Reactions)
}

func TestToggleReaction_MultipleEmojisPerUser(t *testing.T) {
	svc, _ := newTestService()
	msg := sendText(t, svc, userAlice, "react to me")

	_, err := svc.ToggleReaction(context.Background(), testRoom, msg.MessageID, userBob, message_dto.ToggleReactionRequest{Emoji: "👍"})
	require.Nil(t, err)
	resp, err := svc.ToggleReaction(context.Background(), testRoom, msg.MessageID, userBob, message_dto.ToggleReactionRequest{Emoji: "🎉"})
	require.Nil(t, err)

	assert.Len(t, resp.Reactions, 2, "distinct emojis from one user coexist")
}

func TestToggleReaction_DeletedMessageReadsAsNotFound(t *testing.T) {
	svc, _ := newTestService()
	msg := sendText(t, svc, userAlice, "gone soon")

	_, err := svc.DeleteMessage(context.Background(), testRoom, msg.MessageID, userAlice)
	require.Nil(t, err)

	_, toggleErr := svc.ToggleReaction(context.Background(), testRoom, msg.MessageID, userBob, message_dto.ToggleReactionRequest{Emoji: "👍"})
	require.NotNil(t, toggleErr)
	assert.Equal(t, http.StatusNotFound, toggleErr.Code)
}

func TestToggleReaction_ConcurrentTogglesSerialize(t *testing.T) {
	svc, repo := newTestService()
	msg := sendText(t, svc, userAlice, "contended")

	const toggles = 10 // even count lands on absent
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ToggleReaction(context.Background(), testRoom, msg.MessageID, userBob, message_dto.ToggleReactionRequest{Emoji: "🔥"})
			assert.Nil(t, err)
		}()
	}
	wg.Wait()

	stored, err := repo.FindByID(context.Background(), msg.MessageID)
	require.Nil(t, err)
	assert.False(t, stored.HasReaction(userBob, "🔥"), "even toggle count must end absent")
}

func TestListRoomMessages_CursorPagination(t *testing.T) {
	svc, _ := newTestService()
	for _, content := range []string{"m1", "m2", "m3", "m4", "m5"} {
		sendText(t, svc, userAlice, content)
	}

	page1, err := svc.ListRoomMessages(context.Background(), testRoom, userBob, message_dto.ListMessagesRequest{Limit: 2})
	require.Nil(t, err)
	require.Len(t, page1.Messages, 2)
	assert.Equal(t, "m4", page1.Messages[0].Content, "page is oldest-first")
	assert.Equal(t, "m5", page1.Messages[1].Content)
	assert.True(t, page1.HasMore)
	require.NotNil(t, page1.NextCursor)

	page2, err := svc.ListRoomMessages(context.Background(), testRoom, userBob, message_dto.ListMessagesRequest{Limit: 2, BeforeSeq: page1.NextCursor})
	require.Nil(t, err)
	require.Len(t, page2.Messages, 2)
	assert.Equal(t, "m2", page2.Messages[0].Content)
	assert.Equal(t, "m3", page2.Messages[1].Content)

	page3, err := svc.ListRoomMessages(context.Background(), testRoom, userBob, message_dto.ListMessagesRequest{Limit: 2, BeforeSeq: page2.NextCursor})
	require.Nil(t, err)
	require.Len(t, page3.Messages, 1)
	assert.Equal(t, "m1", page3.Messages[0].Content)
	assert.False(t, page3.HasMore)
}

func TestListRoomMessages_NonMemberForbidden(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ListRoomMessages(context.Background(), testRoom, userEve, message_dto.ListMessagesRequest{})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.Code)
}

func TestListRoomMessages_ReplyPreviewDegrades(t *testing.T) {
	svc, _ := newTestService()

	target := sendText(t, svc, userAlice, "reply target")
	reply, err := svc.SendMessage(context.Background(), testRoom, userBob, message_dto.SendMessageRequest{
		Content: "replying",
		ReplyTo: &target.MessageID,
	})
	require.Nil(t, err)

	require.NotNil(t, reply.ReplyTo)
	assert.True(t, reply.ReplyTo.Available)
	assert.Equal(t, "reply target", reply.ReplyTo.Content)

	// deleting the target degrades the preview without breaking the reply
	_, delErr := svc.DeleteMessage(context.Background(), testRoom, target.MessageID, userAlice)
	require.Nil(t, delErr)

	page, listErr := svc.ListRoomMessages(context.Background(), testRoom, userBob, message_dto.ListMessagesRequest{})
	require.Nil(t, listErr)

	var found bool
	for _, m := range page.Messages {
		if m.MessageID == reply.MessageID {
			found = true
			require.NotNil(t, m.ReplyTo)
			assert.False(t, m.ReplyTo.Available)
			assert.Empty(t, m.ReplyTo.Content)
		}
	}
	assert.True(t, found)
}

func TestSendMessage_ReplyPreviewTruncatesOnRuneBoundary(t *testing.T) {
	svc, _ := newTestService()

	target := sendText(t, svc, userAlice, strings.Repeat("🎉", 200))
	reply, err := svc.SendMessage(context.Background(), testRoom, userBob, message_dto.SendMessageRequest{
		Content: "replying",
		ReplyTo: &target.MessageID,
	})
	require.Nil(t, err)

	require.NotNil(t, reply.ReplyTo)
	assert.True(t, utf8.ValidString(reply.ReplyTo.Content), "preview must not split a rune")
	assert.Equal(t, 120, utf8.RuneCountInString(reply.ReplyTo.Content))
}

func TestGetMessage_WrongRoomReadsAsNotFound(t *testing.T) {
	svc, _ := newTestService()
	msg := sendText(t, svc, userAlice, "room scoped")

	_, err := svc.GetMessage(context.Background(), "other-room", msg.MessageID)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.Code)
}
