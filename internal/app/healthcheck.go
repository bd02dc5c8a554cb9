package app

import (
	"fmt"
	"net/http"

	"github.com/vk/gridcheck/internal/logging"
)

// healthHandler answers liveness probes while a long grid is running.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.",
		logging.F("remote_addr", r.RemoteAddr),
		logging.F("path", r.URL.Path),
	)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// startHealthcheckServer initializes and runs the health check HTTP server.
func (a *App) startHealthcheckServer(port int) {
	a.logger.Debug("Configuring health check server.")
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)

	addr := fmt.Sprintf(":%d", port)

	go func() {
		a.logger.Info("Health check server starting.",
			logging.F("address", fmt.Sprintf("http://localhost%s/health", addr)),
		)
		if err := http.ListenAndServe(addr, mux); err != nil {
			a.logger.Error("Health check server failed.", logging.Err(err))
		}
	}()
}
