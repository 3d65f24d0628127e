package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/kshathishka/collabstudy/internal/handlers"
	note_handler "github.com/kshathishka/collabstudy/internal/handlers/note-handler"
	"github.com/kshathishka/collabstudy/internal/middleware"
	"github.com/kshathishka/collabstudy/state"
)

func NoteRouter(r chi.Router, state *state.AppState) {
	noteHandler := note_handler.NewNoteHandler(state)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))

		protected.Route("/api/v1/notes", func(r chi.Router) {
			r.Post("/", handlers.WrapHandler(noteHandler.CreateNote))
			r.Get("/", handlers.WrapHandler(noteHandler.ListMyNotes))

			r.Route("/{noteId}", func(r chi.Router) {
				r.Get("/", handlers.WrapHandler(noteHandler.GetNote))
				r.Delete("/", handlers.WrapHandler(noteHandler.DeleteNote))
				r.Post("/share", handlers.WrapHandler(noteHandler.ShareNote))
			})
		})
	})
}
