package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/andrebq/authbox/internal/logutil"
	"github.com/rs/zerolog"
)

type (
	statusRecorder struct {
		http.ResponseWriter
		status int
	}
)

// Serve runs handler on bind until ctx is cancelled, then shuts the
// server down gracefully. Every request carries the logger from ctx.
func Serve(ctx context.Context, bind string, handler http.Handler) error {
	log := logutil.GetOrDefault(ctx).With().Str("server.addr", bind).Logger()
	server := http.Server{
		Handler:           WithLogger(log, handler),
		Addr:              bind,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute * 5,
	}
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		log.Info().Msg("Starting HTTP server")
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			log.Info().Msg("Server closed")
			return
		}
		errc <- err
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("Initiating shutdown process")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	log.Info().Err(err).Msg("Shutdown completed")
	return <-errc
}

// WithLogger makes log available to handler through logutil.GetOrDefault
// and logs one line per request.
func WithLogger(log zerolog.Logger, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler.ServeHTTP(rec, r.WithContext(logutil.WithLogger(r.Context(), log)))
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("Request served")
	})
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}
