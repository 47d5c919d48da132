package handler

import (
	"net/http"
	"sync"
	"voyage/config"
	"voyage/di"
	"voyage/shared/logger"
)

var (
	app  *di.Application
	once sync.Once
)

// Handler is the serverless entrypoint. The fulfillment consumer does not run here.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)

		logger.SetLogLevel(cfg)

		app = di.InitializeService()
	})

	app.HTTP.ServeHTTP(w, r)
}
