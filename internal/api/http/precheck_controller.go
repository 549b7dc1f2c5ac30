package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"clusterops/preflight/internal/domain"
)

// RunFunc executes a full precheck run and returns its report.
type RunFunc func(c *gin.Context) domain.Report

// PrecheckController serves the precheck engine over HTTP for the
// long-lived mode used on bootstrap nodes during installation.
type PrecheckController struct {
	run     RunFunc
	cluster string
	started time.Time

	mu      sync.Mutex
	running bool
	last    *domain.Report
}

func NewPrecheckController(run RunFunc, cluster string) *PrecheckController {
	return &PrecheckController{
		run:     run,
		cluster: cluster,
		started: time.Now(),
	}
}

// Health reports liveness of the server itself.
func (p *PrecheckController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"cluster":   p.cluster,
		"timestamp": time.Now(),
	})
}

// Status returns uptime and a summary of the last run, if any.
func (p *PrecheckController) Status(c *gin.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status := gin.H{
		"cluster":   p.cluster,
		"uptime":    time.Since(p.started).String(),
		"running":   p.running,
		"timestamp": time.Now(),
	}
	if p.last != nil {
		status["last_run"] = gin.H{
			"run_id":  p.last.RunID,
			"overall": p.last.Overall,
			"summary": p.last.Summary,
			"started": p.last.StartedAt,
		}
	}
	c.JSON(http.StatusOK, status)
}

// Report returns the full report of the most recent run.
func (p *PrecheckController) Report(c *gin.Context) {
	p.mu.Lock()
	last := p.last
	p.mu.Unlock()

	if last == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "no precheck run has completed yet"})
		return
	}
	c.JSON(http.StatusOK, last)
}

// Run triggers a precheck run and returns its report. Only one run
// executes at a time; concurrent triggers get a conflict.
func (p *PrecheckController) Run(c *gin.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"message": "a precheck run is already in progress"})
		return
	}
	p.running = true
	p.mu.Unlock()

	rep := p.run(c)

	p.mu.Lock()
	p.running = false
	p.last = &rep
	p.mu.Unlock()

	c.JSON(http.StatusOK, rep)
}
