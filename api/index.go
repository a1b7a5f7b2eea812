package handler

import (
	"net/http"
	"sync"

	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/di"
	"github.com/JustAdi10/Booking/shared/logger"
	httpTransport "github.com/JustAdi10/Booking/transport/http"
)

var (
	server *httpTransport.HTTP
	once   sync.Once
)

// Handler is the serverless entrypoint. The dependency graph is built on the first request and reused.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
