package worker_handler

import (
	notification_repo "github.com/kshathishka/collabstudy/internal/repo/notification"
	room_repo "github.com/kshathishka/collabstudy/internal/repo/room"
	"github.com/kshathishka/collabstudy/internal/websocket"
	"github.com/kshathishka/collabstudy/state"
)

type WorkerHandler struct {
	AppState         *state.AppState
	NotificationRepo notification_repo.NotificationRepoContract
	RoomRepo         room_repo.RoomRepoContract
	Ws               *websocket.Hub
}

func NewWorkerHandler(appState *state.AppState, ws *websocket.Hub) *WorkerHandler {
	return &WorkerHandler{
		AppState:         appState,
		NotificationRepo: notification_repo.NewNotificationRepo(appState),
		RoomRepo:         room_repo.NewRoomRepo(appState),
		Ws:               ws,
	}
}
