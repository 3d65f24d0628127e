package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kshathishka/collabstudy/config"
	room_repo "github.com/kshathishka/collabstudy/internal/repo/room"
	"github.com/kshathishka/collabstudy/internal/routers"
	"github.com/kshathishka/collabstudy/internal/websocket"
	"github.com/kshathishka/collabstudy/internal/worker"
	"github.com/kshathishka/collabstudy/state"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// initialize the application
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appState, err := state.InitAppState(ctx, stop)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application state")
	}
	defer appState.Close()

	wsHub := websocket.NewHub(room_repo.NewRoomRepo(appState), config.Conf.CHAT.TypingWindow)
	defer wsHub.Close()
	log.Info().Msg("Websocket hub initialized")

	r := routers.NewRouter(appState, wsHub)

	workerPool := worker.NewWorkerPool(appState, config.Conf.WORKER.Count, wsHub)
	workerPool.Start(ctx)
	workerPool.StartDLQWorker(ctx)
	workerPool.StartDLQRetryConsumer(ctx)

	server := &http.Server{
		Addr:         config.Conf.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// serve the application
	go func() {
		log.Info().Msgf("Starting server on http://localhost%s", config.Conf.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(fmt.Sprintf("ListenAndServe failed: %v", err))
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown initiated...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Graceful shutdown failed: %v\n", err)
	} else {
		fmt.Println("Server exited gracefully.")
	}
	workerPool.Wait()
}
