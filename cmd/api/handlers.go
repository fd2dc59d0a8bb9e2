package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

type healthStatus struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// healthcheck reports 503 while the database is unreachable.
func (app *Application) healthcheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	resp := healthStatus{Status: "available", Service: "yamdb", Version: version, Database: "up"}
	status := http.StatusOK
	if err := app.db.Ping(ctx); err != nil {
		app.log.Warn("database ping failed", "errMsg", err.Error())
		resp.Status, resp.Database = "unavailable", "down"
		status = http.StatusServiceUnavailable
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}
