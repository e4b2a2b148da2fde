package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	gops "github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"taskman/internal/logutil"
)

// Provider produces process snapshots. A nil error comes with a non-nil
// snapshot.
type Provider interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

var errZombie = errors.New("zombie process")

// sampleWorkers bounds how many processes are read concurrently.
const sampleWorkers = 8

// cpuSample is the CPU time a process had consumed at a given instant.
type cpuSample struct {
	created int64   // create time in ms, guards against PID reuse
	seconds float64 // user + system
	at      time.Time
}

// SystemProvider enumerates processes through gopsutil.
type SystemProvider struct {
	log   *logutil.ComponentLogger
	now   func() time.Time
	seq   atomic.Uint64
	group singleflight.Group

	mu      sync.Mutex
	samples map[int32]cpuSample
}

// NewSystemProvider returns a provider reading the local process table.
func NewSystemProvider() *SystemProvider {
	return &SystemProvider{
		log:     logutil.NewLogger("provider"),
		now:     time.Now,
		samples: make(map[int32]cpuSample),
	}
}

// Snapshot enumerates every visible process. Processes that exit during the
// walk, deny access, or are zombies are left out of the result.
//
// Callers arriving while an enumeration is already running share its result
// instead of starting another one.
func (p *SystemProvider) Snapshot(ctx context.Context) (*Snapshot, error) {
	res, err, shared := p.group.Do("snapshot", func() (any, error) {
		return p.snapshot(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		p.log.Debug("joined in-flight snapshot")
	}
	return res.(*Snapshot), nil
}

func (p *SystemProvider) snapshot(ctx context.Context) (*Snapshot, error) {
	seq := p.seq.Add(1)

	procs, err := gops.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	now := p.now()
	sampled := make([]*Record, len(procs))

	var g errgroup.Group
	g.SetLimit(sampleWorkers)
	for i, proc := range procs {
		i, proc := i, proc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := p.sample(ctx, proc, now)
			if err != nil {
				p.log.Debug("skipping process", "pid", proc.Pid, "error", err)
				return nil
			}
			sampled[i] = &rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Records: make([]Record, 0, len(procs)),
		Taken:   now,
		Seq:     seq,
		icons:   make(map[string]*Icon),
	}
	seen := make(map[int32]bool, len(procs))
	skipped := 0

	for _, rec := range sampled {
		if rec == nil {
			skipped++
			continue
		}
		if seen[rec.PID] {
			continue
		}
		seen[rec.PID] = true

		if rec.Exe != "" {
			icon, ok := snap.icons[rec.Exe]
			if !ok {
				var resolver string
				icon, resolver = resolveIcon(rec.Exe)
				snap.icons[rec.Exe] = icon
				if logutil.IsDebugEnabled() {
					p.log.Debug("icon resolved", "exe", rec.Exe, "resolver", resolver, "kind", icon.Kind)
				}
			}
			rec.Icon = icon
		}
		snap.Records = append(snap.Records, *rec)
	}

	p.prune(seen)
	p.log.Debug("snapshot taken", "seq", seq, "processes", len(snap.Records), "skipped", skipped)
	return snap, nil
}

// sample collects one record. Only a vanished process, an unreadable memory
// figure, or a zombie makes it fail; other attributes degrade to defaults.
func (p *SystemProvider) sample(ctx context.Context, proc *gops.Process, now time.Time) (Record, error) {
	states, err := proc.StatusWithContext(ctx)
	if errors.Is(err, gops.ErrorProcessNotRunning) {
		return Record{}, err
	}
	status := statusFromOS(states)
	if status == StatusZombie {
		return Record{}, errZombie
	}

	mem, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("memory info: %w", err)
	}

	name, err := proc.NameWithContext(ctx)
	if errors.Is(err, gops.ErrorProcessNotRunning) {
		return Record{}, err
	}
	if err != nil || name == "" {
		name = UnknownName
	}

	exe, _ := proc.ExeWithContext(ctx)

	return Record{
		PID:      proc.Pid,
		Name:     name,
		Status:   status,
		CPU:      p.cpuPercent(ctx, proc, now),
		MemoryMB: float64(mem.RSS) / (1024 * 1024),
		Exe:      exe,
	}, nil
}

// cpuPercent returns CPU usage since the previous snapshot. The first time a
// process is seen there is no previous sample, so the lifetime average is
// used instead.
func (p *SystemProvider) cpuPercent(ctx context.Context, proc *gops.Process, now time.Time) float64 {
	times, err := proc.TimesWithContext(ctx)
	if err != nil {
		return 0
	}
	created, _ := proc.CreateTimeWithContext(ctx)
	cur := cpuSample{created: created, seconds: times.User + times.System, at: now}

	p.mu.Lock()
	prev, ok := p.samples[proc.Pid]
	p.samples[proc.Pid] = cur
	p.mu.Unlock()

	if ok && prev.created == cur.created {
		if pct, ok := percentBetween(prev, cur); ok {
			return pct
		}
	}

	pct, err := proc.CPUPercentWithContext(ctx)
	if err != nil {
		return 0
	}
	return pct
}

// percentBetween computes CPU percent across two samples of one process.
func percentBetween(prev, cur cpuSample) (float64, bool) {
	wall := cur.at.Sub(prev.at).Seconds()
	if wall <= 0 {
		return 0, false
	}
	pct := (cur.seconds - prev.seconds) / wall * 100
	if pct < 0 {
		pct = 0
	}
	return pct, true
}

// prune forgets CPU samples for processes not in the latest snapshot.
func (p *SystemProvider) prune(seen map[int32]bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for pid := range p.samples {
		if !seen[pid] {
			delete(p.samples, pid)
		}
	}
}

// Hostname returns the machine's display name.
func Hostname(ctx context.Context) string {
	if info, err := host.InfoWithContext(ctx); err == nil && info.Hostname != "" {
		return info.Hostname
	}
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "localhost"
}
