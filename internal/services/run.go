package services

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kubev2v/jobgraph/internal/models"
	srvErrors "github.com/kubev2v/jobgraph/pkg/errors"
	"github.com/kubev2v/jobgraph/pkg/scheduler"
)

// Runner is a scheduler client that builds and submits a job graph. Start
// only submits; the graph runs once the pool's workers run.
type Runner interface {
	Start() error
	Status() models.RunStatus
}

// runTracker holds the status shared by the clients.
type runTracker struct {
	mu     sync.Mutex
	status models.RunStatus
}

func newRunTracker(mode models.RunMode) runTracker {
	return runTracker{status: models.RunStatus{Mode: mode, State: models.RunStateReady}}
}

func (t *runTracker) start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.State != models.RunStateReady {
		return fmt.Errorf("%s run already started", t.status.Mode)
	}
	t.status.State = models.RunStateRunning
	return nil
}

func (t *runTracker) fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.State == models.RunStateError {
		return
	}
	t.status.State = models.RunStateError
	t.status.Error = err
	zap.S().Named(string(t.status.Mode)+"_service").Errorw("run failed", "error", err)
}

func (t *runTracker) complete() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.State == models.RunStateRunning {
		t.status.State = models.RunStateCompleted
	}
}

func (t *runTracker) Status() models.RunStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

type namedJob struct {
	name string
	job  *scheduler.JobBuilder
}

// submitAll submits the jobs of an initial graph in order. Every edge has to
// be wired before the first call.
func (t *runTracker) submitAll(jobs ...namedJob) error {
	for _, j := range jobs {
		if !j.job.Submit() {
			err := fmt.Errorf("failed to submit %s job: %w", j.name, srvErrors.NewNoWorkersError())
			t.fail(err)
			return err
		}
	}
	return nil
}
