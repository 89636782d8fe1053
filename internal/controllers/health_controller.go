package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
)

const healthPingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	store  Pinger
	driver string
}

func NewHealthController(store Pinger, driver string) *HealthController {
	return &HealthController{store: store, driver: driver}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := c.store.Ping(ctx); err != nil {
		utils.Logger.WithError(err).Error("Store unreachable")
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Store unreachable", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthResponse{Status: "OK", Store: c.driver})
}
