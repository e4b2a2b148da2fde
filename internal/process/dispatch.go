package process

import (
	"context"
	"fmt"

	gops "github.com/shirou/gopsutil/v4/process"

	"taskman/internal/logutil"
)

// Op names a process-control operation.
type Op string

const (
	OpTerminate Op = "terminate"
	OpKill      Op = "kill"
)

// pastTense is used in summaries.
func (o Op) pastTense() string {
	if o == OpKill {
		return "Killed"
	}
	return "Terminated"
}

// Controller sends termination requests to processes.
type Controller interface {
	// Terminate asks the process to exit (SIGTERM on Unix)
	Terminate(ctx context.Context, pid int32) error

	// Kill forces the process to exit (SIGKILL on Unix)
	Kill(ctx context.Context, pid int32) error
}

// SystemController controls local processes through gopsutil.
type SystemController struct{}

func (SystemController) Terminate(ctx context.Context, pid int32) error {
	p, err := lookup(ctx, pid)
	if err != nil {
		return err
	}
	return p.TerminateWithContext(ctx)
}

func (SystemController) Kill(ctx context.Context, pid int32) error {
	p, err := lookup(ctx, pid)
	if err != nil {
		return err
	}
	return p.KillWithContext(ctx)
}

func lookup(ctx context.Context, pid int32) (*gops.Process, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("invalid PID: %d", pid)
	}
	p, err := gops.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("finding process %d: %w", pid, err)
	}
	return p, nil
}

// Failure pairs a PID with the error its operation returned.
type Failure struct {
	PID int32
	Err error
}

// BatchResult reports the outcome of one operation over several PIDs.
type BatchResult struct {
	Op        Op
	Succeeded []int32
	Failed    []Failure
}

// Total returns how many PIDs were attempted.
func (b BatchResult) Total() int {
	return len(b.Succeeded) + len(b.Failed)
}

// AnySucceeded reports whether at least one PID was handled.
func (b BatchResult) AnySucceeded() bool {
	return len(b.Succeeded) > 0
}

// Summary is a one-line description for the status bar.
func (b BatchResult) Summary() string {
	switch {
	case b.Total() == 0:
		return "No process selected."
	case b.Total() == 1 && len(b.Failed) == 1:
		return fmt.Sprintf("Failed to %s process PID %d: %v", b.Op, b.Failed[0].PID, b.Failed[0].Err)
	case b.Total() == 1:
		return fmt.Sprintf("%s process PID %d", b.Op.pastTense(), b.Succeeded[0])
	case len(b.Failed) == 0:
		return fmt.Sprintf("%s %d processes", b.Op.pastTense(), len(b.Succeeded))
	}
	return fmt.Sprintf("%s %d of %d processes (%d failed)",
		b.Op.pastTense(), len(b.Succeeded), b.Total(), len(b.Failed))
}

// Dispatcher runs control operations over batches of PIDs. Every PID is
// attempted; one failure never stops the rest.
type Dispatcher struct {
	controller Controller
	reporter   Reporter
	log        *logutil.ComponentLogger
}

// NewDispatcher returns a Dispatcher. A nil reporter logs events.
func NewDispatcher(c Controller, r Reporter) *Dispatcher {
	if r == nil {
		r = LogReporter{}
	}
	return &Dispatcher{controller: c, reporter: r, log: logutil.NewLogger("dispatch")}
}

// Terminate requests orderly termination of each PID.
func (d *Dispatcher) Terminate(ctx context.Context, pids []int32) BatchResult {
	return d.run(ctx, OpTerminate, pids, d.controller.Terminate)
}

// Kill forcefully kills each PID.
func (d *Dispatcher) Kill(ctx context.Context, pids []int32) BatchResult {
	return d.run(ctx, OpKill, pids, d.controller.Kill)
}

func (d *Dispatcher) run(ctx context.Context, op Op, pids []int32, fn func(context.Context, int32) error) BatchResult {
	res := BatchResult{Op: op}
	log := d.log.WithFields("op", op, "batch", len(pids))
	log.Debug("batch started")
	for _, pid := range pids {
		err := ctx.Err()
		if err == nil {
			err = fn(ctx, pid)
		}
		if err != nil {
			res.Failed = append(res.Failed, Failure{PID: pid, Err: err})
			d.reporter.Report(Event{
				Level:   LevelError,
				Op:      string(op),
				PID:     pid,
				Message: fmt.Sprintf("Failed to %s process", op),
				Err:     err,
			})
			continue
		}
		res.Succeeded = append(res.Succeeded, pid)
		d.reporter.Report(Event{
			Level:   LevelInfo,
			Op:      string(op),
			PID:     pid,
			Message: fmt.Sprintf("%s process", op.pastTense()),
		})
	}
	log.Debug("batch finished", "succeeded", len(res.Succeeded), "failed", len(res.Failed))
	return res
}
