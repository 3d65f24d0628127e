package message_service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kshathishka/collabstudy/internal/dtos/message_dto"
	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	message_repo "github.com/kshathishka/collabstudy/internal/repo/message"
	room_repo "github.com/kshathishka/collabstudy/internal/repo/room"
	user_repo "github.com/kshathishka/collabstudy/internal/repo/user"
	"github.com/kshathishka/collabstudy/internal/utils"
	"github.com/kshathishka/collabstudy/state"
)

const (
	maxContentLength = 4000
	replyPreviewLen  = 120
	defaultPageSize  = 50
)

type MessageService struct {
	AppState    *state.AppState
	MessageRepo message_repo.MessageRepoContract
	RoomRepo    room_repo.RoomRepoContract
	UserRepo    user_repo.UserRepoContract
	PageSize    int

	locks keyedMutex
}

func NewMessageService(appState *state.AppState, pageSize int) MessageServiceContract {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &MessageService{
		AppState:    appState,
		MessageRepo: message_repo.NewMessageRepo(appState),
		RoomRepo:    room_repo.NewRoomRepo(appState),
		UserRepo:    user_repo.NewUserRepo(appState),
		PageSize:    pageSize,
	}
}

func (s *MessageService) SendMessage(ctx context.Context, roomID, senderID string, req message_dto.SendMessageRequest) (*message_dto.MessageResponse, *app_error.AppError) {
	if err := s.requireMember(ctx, roomID, senderID); err != nil {
		return nil, err
	}

	sender, err := s.UserRepo.FindUserByID(ctx, senderID)
	if err != nil {
		if err.Code == http.StatusNotFound {
			return nil, app_error.NewValidationError("sender does not exist", "sender")
		}
		return nil, err
	}

	msgType := req.Type
	if msgType == "" {
		msgType = entity.MessageTypeText
	}
	if !entity.ValidMessageType(msgType) {
		return nil, app_error.NewValidationError("unknown message type", "type")
	}

	content := strings.TrimSpace(req.Content)
	switch msgType {
	case entity.MessageTypeText, entity.MessageTypeSystem:
		if content == "" {
			return nil, app_error.NewValidationError("content must not be empty", "content")
		}
	case entity.MessageTypeFile, entity.MessageTypeImage:
		if req.FileMeta == nil {
			return nil, app_error.NewValidationError("file messages require file metadata", "file_meta")
		}
	}
	if len(content) > maxContentLength {
		return nil, app_error.NewValidationError("content exceeds maximum length", "content")
	}

	seq, err := s.MessageRepo.NextSeq(ctx, roomID)
	if err != nil {
		return nil, err
	}

	msg := &entity.Message{
		RoomID:    roomID,
		SenderID:  senderID,
		Content:   content,
		Type:      msgType,
		ReplyTo:   req.ReplyTo,
		Reactions: []entity.Reaction{},
		Seq:       seq,
		CreatedAt: time.Now().UTC(),
	}
	if req.FileMeta != nil {
		msg.FileMeta = &entity.FileMeta{
			URL:  req.FileMeta.URL,
			Name: req.FileMeta.Name,
			Size: req.FileMeta.Size,
		}
	}

	if _, err := s.MessageRepo.Insert(ctx, msg); err != nil {
		return nil, err
	}

	preview := s.resolveReplyPreview(ctx, roomID, req.ReplyTo)
	return buildMessageResponse(msg, sender.Ref(), preview), nil
}

func (s *MessageService) GetMessage(ctx context.Context, roomID, messageID string) (*message_dto.MessageResponse, *app_error.AppError) {
	msg, err := s.loadRoomMessage(ctx, roomID, messageID)
	if err != nil {
		return nil, err
	}

	senders := s.resolveSenders(ctx, []string{msg.SenderID})
	preview := s.resolveReplyPreview(ctx, roomID, msg.ReplyTo)
	return buildMessageResponse(msg, senders[msg.SenderID], preview), nil
}

func (s *MessageService) ListRoomMessages(ctx context.Context, roomID, requesterID string, req message_dto.ListMessagesRequest) (*message_dto.ListMessagesResponse, *app_error.AppError) {
	if err := s.requireMember(ctx, roomID, requesterID); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = s.PageSize
		if limit <= 0 {
			limit = defaultPageSize
		}
	}

	messages, err := s.MessageRepo.ListByRoom(ctx, roomID, req.BeforeSeq, limit)
	if err != nil {
		return nil, err
	}

	// batch-resolve reply targets and senders for the whole page
	var replyIDs []string
	senderIDs := make([]string, 0, len(messages))
	seenSenders := make(map[string]bool)
	for _, msg := range messages {
		if msg.ReplyTo != nil {
			replyIDs = append(replyIDs, *msg.ReplyTo)
		}
		if !seenSenders[msg.SenderID] {
			seenSenders[msg.SenderID] = true
			senderIDs = append(senderIDs, msg.SenderID)
		}
	}

	replyTargets, err := s.MessageRepo.FindManyByIDs(ctx, roomID, replyIDs)
	if err != nil {
		return nil, err
	}
	senders := s.resolveSenders(ctx, senderIDs)

	responses := make([]message_dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		var preview *message_dto.ReplyPreview
		if msg.ReplyTo != nil {
			preview = buildReplyPreview(*msg.ReplyTo, replyTargets[*msg.ReplyTo])
		}
		responses = append(responses, *buildMessageResponse(msg, senders[msg.SenderID], preview))
	}

	var nextCursor *int64
	if len(messages) > 0 {
		oldest := messages[0].Seq
		nextCursor = &oldest
	}

	return &message_dto.ListMessagesResponse{
		Messages:   responses,
		NextCursor: nextCursor,
		HasMore:    len(messages) == limit,
	}, nil
}

func (s *MessageService) EditMessage(ctx context.Context, roomID, messageID, actorID string, req message_dto.EditMessageRequest) (*message_dto.MessageResponse, *app_error.AppError) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, app_error.NewValidationError("content must not be empty", "content")
	}
	if len(content) > maxContentLength {
		return nil, app_error.NewValidationError("content exceeds maximum length", "content")
	}

	unlock := s.locks.lock(messageID)
	defer unlock()

	msg, err := s.loadRoomMessage(ctx, roomID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != actorID {
		return nil, app_error.NewForbiddenError("only the sender can edit a message", "sender")
	}
	if msg.IsDeleted {
		return nil, app_error.NewInvalidStateError("cannot edit a deleted message", "deleted")
	}
	if msg.Type != entity.MessageTypeText {
		return nil, app_error.NewValidationError("only text messages can be edited", "type")
	}

	editedAt := time.Now().UTC()
	if err := s.MessageRepo.UpdateContent(ctx, msg.ID, content, editedAt); err != nil {
		return nil, err
	}

	msg.Content = content
	msg.IsEdited = true
	msg.EditedAt = &editedAt

	senders := s.resolveSenders(ctx, []string{msg.SenderID})
	preview := s.resolveReplyPreview(ctx, roomID, msg.ReplyTo)
	return buildMessageResponse(msg, senders[msg.SenderID], preview), nil
}

// DeleteMessage tombstones the message in place: the record keeps its id and
// sequence so replies to it keep resolving. Like edit, deleting an
// already-deleted message is an invalid-state error.
func (s *MessageService) DeleteMessage(ctx context.Context, roomID, messageID, actorID string) (*message_dto.MessageResponse, *app_error.AppError) {
	unlock := s.locks.lock(messageID)
	defer unlock()

	msg, err := s.loadRoomMessage(ctx, roomID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != actorID {
		return nil, app_error.NewForbiddenError("only the sender can delete a message", "sender")
	}
	if msg.IsDeleted {
		return nil, app_error.NewInvalidStateError("message is already deleted", "deleted")
	}

	if err := s.MessageRepo.SoftDelete(ctx, msg.ID); err != nil {
		return nil, err
	}
	msg.Content = entity.DeletedMessageContent
	msg.IsDeleted = true

	senders := s.resolveSenders(ctx, []string{msg.SenderID})
	return buildMessageResponse(msg, senders[msg.SenderID], nil), nil
}

// ToggleReaction adds the (user, emoji) pair when absent and removes it when
// present. The per-message lock makes concurrent toggles land exactly once.
func (s *MessageService) ToggleReaction(ctx context.Context, roomID, messageID, userID string, req message_dto.ToggleReactionRequest) (*message_dto.ReactionsResponse, *app_error.AppError) {
	emoji := strings.TrimSpace(req.Emoji)
	if emoji == "" {
		return nil, app_error.NewValidationError("emoji must not be empty", "emoji")
	}

	unlock := s.locks.lock(messageID)
	defer unlock()

	msg, err := s.loadRoomMessage(ctx, roomID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.IsDeleted {
		// a tombstone reads the same as a missing message
		return nil, app_error.NewNotFoundError("message not found or has been deleted", "not-found")
	}

	reactions := make([]entity.Reaction, 0, len(msg.Reactions)+1)
	removed := false
	for _, r := range msg.Reactions {
		if r.UserID == userID && r.Emoji == emoji {
			removed = true
			continue
		}
		reactions = append(reactions, r)
	}
	if !removed {
		reactions = append(reactions, entity.Reaction{UserID: userID, Emoji: emoji})
	}

	if err := s.MessageRepo.SetReactions(ctx, msg.ID, reactions); err != nil {
		return nil, err
	}

	return &message_dto.ReactionsResponse{
		MessageID: msg.ID.Hex(),
		Reactions: reactions,
	}, nil
}

// helpers

func (s *MessageService) requireMember(ctx context.Context, roomID, userID string) *app_error.AppError {
	ok, err := s.RoomRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return app_error.NewForbiddenError("user is not a member of this room", "room")
	}
	return nil
}

// loadRoomMessage fetches a message and verifies it belongs to the room. A
// message from another room reads as not-found, never as forbidden, so room
// ids do not leak.
func (s *MessageService) loadRoomMessage(ctx context.Context, roomID, messageID string) (*entity.Message, *app_error.AppError) {
	msg, err := s.MessageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.RoomID != roomID {
		return nil, app_error.NewNotFoundError("message not found", "not-found")
	}
	return msg, nil
}

func (s *MessageService) resolveSenders(ctx context.Context, userIDs []string) map[string]entity.UserRef {
	refs := make(map[string]entity.UserRef, len(userIDs))
	for _, id := range userIDs {
		user, err := s.UserRepo.FindUserByID(ctx, id)
		if err != nil {
			// deleted or unknown account still renders with its id
			refs[id] = entity.UserRef{ID: id}
			continue
		}
		refs[id] = user.Ref()
	}
	return refs
}

func (s *MessageService) resolveReplyPreview(ctx context.Context, roomID string, replyTo *string) *message_dto.ReplyPreview {
	if replyTo == nil {
		return nil
	}

	targets, err := s.MessageRepo.FindManyByIDs(ctx, roomID, []string{*replyTo})
	if err != nil {
		return &message_dto.ReplyPreview{MessageID: *replyTo, Available: false}
	}
	return buildReplyPreview(*replyTo, targets[*replyTo])
}

func buildReplyPreview(messageID string, target *entity.Message) *message_dto.ReplyPreview {
	if target == nil || target.IsDeleted {
		return &message_dto.ReplyPreview{MessageID: messageID, Available: false}
	}

	content := utils.TruncateRunes(target.Content, replyPreviewLen)
	return &message_dto.ReplyPreview{
		MessageID: messageID,
		Available: true,
		Content:   content,
		SenderID:  target.SenderID,
	}
}

func buildMessageResponse(msg *entity.Message, sender entity.UserRef, preview *message_dto.ReplyPreview) *message_dto.MessageResponse {
	reactions := msg.Reactions
	if reactions == nil {
		reactions = []entity.Reaction{}
	}

	return &message_dto.MessageResponse{
		MessageID: msg.ID.Hex(),
		RoomID:    msg.RoomID,
		Sender:    sender,
		Content:   msg.Content,
		Type:      msg.Type,
		FileMeta:  msg.FileMeta,
		ReplyTo:   preview,
		Reactions: reactions,
		Seq:       msg.Seq,
		IsEdited:  msg.IsEdited,
		EditedAt:  msg.EditedAt,
		IsDeleted: msg.IsDeleted,
		CreatedAt: msg.CreatedAt,
	}
}
