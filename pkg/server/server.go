package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/bill-tools/smart-bill/pkg/handlers/document"

	smartbillmiddleware "github.com/bill-tools/smart-bill/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Document *handlers.Handler
	Logger   zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter wires the form-boundary routes onto a chi mux.
func ConfigureRouter(config Config) *chi.Mux {
	docHandler := config.Dependencies.Document

	router := chi.NewRouter()
	router.Use(smartbillmiddleware.Logger(&config.Dependencies.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1/document", func(r chi.Router) {
		r.Get("/", docHandler.GetDocument)
		r.Post("/header", docHandler.UpdateHeader)
		r.Post("/items", docHandler.AddItem)
		r.Patch("/items/{id}", docHandler.UpdateItem)
		r.Delete("/items/{id}", docHandler.RemoveItem)
		r.Put("/stamp", docHandler.SetStamp)
		r.Delete("/stamp", docHandler.ClearStamp)
		r.Get("/preview", docHandler.GetPreview)
		r.Post("/export/{kind}", docHandler.Export)
		r.Post("/snapshot", docHandler.SaveSnapshot)
		r.Post("/snapshot/restore", docHandler.RestoreSnapshot)
	})

	return router
}

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(config)

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
