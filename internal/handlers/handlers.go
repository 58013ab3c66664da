package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kubev2v/jobgraph/internal/models"
	"github.com/kubev2v/jobgraph/internal/services"
)

// PoolInspector exposes the state of a worker pool.
type PoolInspector interface {
	ID() string
	Stats() models.PoolStats
}

type Handler struct {
	pool   PoolInspector
	runner services.Runner
}

// New returns a handler for pool. runner may be nil when no client runs.
func New(pool PoolInspector, runner services.Runner) *Handler {
	return &Handler{
		pool:   pool,
		runner: runner,
	}
}

// RegisterHandlers adds the handler's routes to router.
func RegisterHandlers(router gin.IRoutes, h *Handler) {
	router.GET("/pool", h.GetPool)
	router.GET("/pool/workers/:index", h.GetWorker)
	router.GET("/run", h.GetRun)
}

// GetPool returns the stats of the whole pool.
// (GET /pool)
func (h *Handler) GetPool(c *gin.Context) {
	c.JSON(http.StatusOK, h.pool.Stats())
}

// GetWorker returns the stats of one worker.
// (GET /pool/workers/:index)
func (h *Handler) GetWorker(c *gin.Context) {
	var params struct {
		Index int `uri:"index" binding:"min=0"`
	}
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker index"})
		return
	}

	stats := h.pool.Stats()
	if params.Index >= len(stats.Workers) {
		c.JSON(http.StatusNotFound, gin.H{"error": "worker not found"})
		return
	}
	c.JSON(http.StatusOK, stats.Workers[params.Index])
}

type runResponse struct {
	Pool  string          `json:"pool"`
	Mode  models.RunMode  `json:"mode"`
	State models.RunState `json:"state"`
	Error string          `json:"error,omitempty"`
}

// GetRun returns the status of the client running on the pool.
// (GET /run)
func (h *Handler) GetRun(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run configured"})
		return
	}

	status := h.runner.Status()
	resp := runResponse{
		Pool:  h.pool.ID(),
		Mode:  status.Mode,
		State: status.State,
	}
	if status.Error != nil {
		resp.Error = status.Error.Error()
	}
	c.JSON(http.StatusOK, resp)
}
