package controllers

import (
	"net/http"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/dtos"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

type HealthController struct {
	db *pgxpool.Pool
}

func NewHealthController(db *pgxpool.Pool) *HealthController {
	return &HealthController{db: db}
}

func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if err := c.db.Ping(r.Context()); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Database unreachable", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "ok"})
}
