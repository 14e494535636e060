package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"blog/internal/app"
	"blog/internal/auth"
	httpx "blog/internal/http"
	"blog/internal/store"
)

func main() {
	app.SetupLogger()
	cfg := app.LoadConfig()

	st, err := store.Open(cfg.DataDir)
	app.Must(err)
	app.Must(auth.EnsureAdmin(st, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName))

	sessions := auth.NewMemorySessions(cfg.SessionLifetime)
	srv := httpx.NewServer(st, sessions, cfg)

	log.Info().Str("addr", cfg.Addr).Msg("listening")
	app.Must(http.ListenAndServe(cfg.Addr, httpx.WithAccessLog(srv)))
}
