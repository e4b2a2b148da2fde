package process

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	gops "github.com/shirou/gopsutil/v4/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemProviderIncludesSelf(t *testing.T) {
	p := NewSystemProvider()
	ctx := context.Background()

	first, err := p.Snapshot(ctx)
	require.NoError(t, err)
	second, err := p.Snapshot(ctx)
	require.NoError(t, err)

	assert.Greater(t, second.Seq, first.Seq)

	self := int32(os.Getpid())
	var found *Record
	for i := range second.Records {
		r := &second.Records[i]
		assert.NotEqual(t, StatusZombie, r.Status)
		assert.GreaterOrEqual(t, r.MemoryMB, 0.0)
		assert.GreaterOrEqual(t, r.CPU, 0.0)
		if r.PID == self {
			found = r
		}
	}
	require.NotNil(t, found, "snapshot should contain the test process")
	assert.NotEmpty(t, found.Name)
	assert.Greater(t, found.MemoryMB, 0.0)
}

func TestSystemProviderConcurrentCallers(t *testing.T) {
	p := NewSystemProvider()

	var wg sync.WaitGroup
	snaps := make([]*Snapshot, 4)
	errs := make([]error, 4)
	for i := range snaps {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			snaps[i], errs[i] = p.Snapshot(context.Background())
		}()
	}
	wg.Wait()

	for i := range snaps {
		require.NoError(t, errs[i])
		assert.NotZero(t, snaps[i].Len())
	}
}

func TestSystemProviderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSystemProvider().Snapshot(ctx)
	assert.Error(t, err)
}

func TestPercentBetween(t *testing.T) {
	at := time.Unix(1000, 0)
	tests := []struct {
		name   string
		prev   cpuSample
		cur    cpuSample
		want   float64
		wantOK bool
	}{
		{"half a core", cpuSample{seconds: 1, at: at}, cpuSample{seconds: 2, at: at.Add(2 * time.Second)}, 50, true},
		{"two cores", cpuSample{seconds: 0, at: at}, cpuSample{seconds: 2, at: at.Add(time.Second)}, 200, true},
		{"counter reset clamps", cpuSample{seconds: 5, at: at}, cpuSample{seconds: 1, at: at.Add(time.Second)}, 0, true},
		{"no elapsed time", cpuSample{seconds: 1, at: at}, cpuSample{seconds: 2, at: at}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := percentBetween(tt.prev, tt.cur)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestStatusFromOS(t *testing.T) {
	tests := []struct {
		in   []string
		want Status
	}{
		{nil, StatusUnknown},
		{[]string{gops.Running}, StatusRunning},
		{[]string{gops.Stop}, StatusStopped},
		{[]string{gops.Sleep}, StatusSleeping},
		{[]string{gops.Idle}, StatusIdle},
		{[]string{gops.Wait}, StatusWaiting},
		{[]string{gops.Blocked}, StatusWaiting},
		{[]string{gops.Lock}, StatusLocked},
		{[]string{gops.Zombie}, StatusZombie},
		{[]string{"?"}, StatusUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFromOS(tt.in), "%v", tt.in)
	}
}

func TestPruneForgetsExitedProcesses(t *testing.T) {
	p := NewSystemProvider()
	p.samples[1] = cpuSample{}
	p.samples[2] = cpuSample{}

	p.prune(map[int32]bool{2: true})

	assert.NotContains(t, p.samples, int32(1))
	assert.Contains(t, p.samples, int32(2))
}
