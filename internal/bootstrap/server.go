package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avelis/cargohold/api"
	"github.com/avelis/cargohold/config"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Flights  *api.FlightHandler
	Search   *api.SearchHandler
	Bookings *api.BookingHandler
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, handlers Handlers) error {
	router := gin.Default()

	v1 := router.Group("/api/v1")
	handlers.Flights.Register(v1.Group("/flights"))
	handlers.Search.Register(v1.Group("/search"))
	handlers.Bookings.Register(v1.Group("/bookings"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
