package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/jobs"
)

type JobRunner interface {
	Reminders(ctx context.Context) (*jobs.Result, error)
	Complete(ctx context.Context) (*jobs.Result, error)
}

// JobsHandler exposes the batch jobs to an external cron. A run that finds the
// lock held answers 200 with skipped=true.
type JobsHandler struct {
	runner JobRunner
}

func NewJobsHandler(runner JobRunner) *JobsHandler {
	return &JobsHandler{runner: runner}
}

func (h *JobsHandler) Reminders(c *gin.Context) {
	h.run(c, h.runner.Reminders)
}

func (h *JobsHandler) Complete(c *gin.Context) {
	h.run(c, h.runner.Complete)
}

func (h *JobsHandler) run(c *gin.Context, job func(ctx context.Context) (*jobs.Result, error)) {
	res, err := job(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "job_failed", "Falha ao executar rotina.")
		return
	}
	c.JSON(http.StatusOK, res)
}
