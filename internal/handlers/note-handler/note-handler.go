package note_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kshathishka/collabstudy/internal/dtos/note_dto"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/internal/handlers"
	"github.com/kshathishka/collabstudy/internal/queue"
	note_service "github.com/kshathishka/collabstudy/internal/use-case/note-case"
	"github.com/kshathishka/collabstudy/state"
)

type NoteHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  note_service.NoteServiceContract
}

func NewNoteHandler(state *state.AppState) *NoteHandler {
	return &NoteHandler{
		State:    state,
		Validate: validator.New(),
		Service:  note_service.NewNoteService(state, queue.NewProducer(state.Redis)),
	}
}

func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req note_dto.CreateNoteRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.CreateNote(r.Context(), userID, req)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "note created successfully", *resp)
	return nil
}

func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	noteID := chi.URLParam(r, "noteId")

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.GetNote(r.Context(), noteID, userID)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "note fetch successfully", *resp)
	return nil
}

func (h *NoteHandler) ListMyNotes(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.ListMyNotes(r.Context(), userID)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "notes fetch successfully", resp)
	return nil
}

func (h *NoteHandler) ShareNote(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req note_dto.ShareNoteRequest
	defer r.Body.Close()

	noteID := chi.URLParam(r, "noteId")
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	if appErr := h.Service.ShareNote(r.Context(), noteID, userID, req); appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "note shared successfully", map[string]any{"shared_with": req.UserIDs})
	return nil
}

func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	noteID := chi.URLParam(r, "noteId")

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	if appErr := h.Service.DeleteNote(r.Context(), noteID, userID); appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "note deleted successfully", map[string]any{"deleted": true})
	return nil
}
