package dsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSystem struct {
	name  string
	trace *[]string
}

func (r *recordingSystem) Run(*World) {
	*r.trace = append(*r.trace, r.name)
}

type panickingSystem struct{}

func (panickingSystem) Run(*World) {
	panic("boom")
}

type queueingSystem struct {
	cmd Command
}

func (q *queueingSystem) Run(w *World) {
	w.Queue(q.cmd)
	q.cmd = nil
}

type funcCommand struct {
	fn func(*World)
}

func (c funcCommand) Apply(w *World) { c.fn(w) }

func TestStagesRunInOrder(t *testing.T) {
	var trace []string
	m := NewBuilder().Init()
	s := m.Scheduler()

	s.AddSystem(&recordingSystem{"after", &trace}, "after", After, NewAccess())
	s.AddSystem(&recordingSystem{"before", &trace}, "before", Before, NewAccess())
	s.AddSystem(&recordingSystem{"default", &trace}, "default", Default, NewAccess())

	m.Tick()
	assert.Equal(t, []string{"before", "default", "after"}, trace)
}

func TestCommandsFlushBeforeAfterStage(t *testing.T) {
	m := NewBuilder().Init()
	w := m.World()
	s := m.Scheduler()

	var order []string
	s.AddSystem(&queueingSystem{cmd: funcCommand{func(*World) {
		order = append(order, "command")
	}}}, "queue", Default, NewAccess())

	s.AddSystem(&recordingSystem{"after", &order}, "after", After, NewAccess())

	m.Tick()
	assert.Equal(t, []string{"command", "after"}, order)
	assert.Zero(t, w.PendingCommands())
}

func TestPanickingSystemDoesNotKillTick(t *testing.T) {
	var trace []string
	m := NewBuilder().Init()
	s := m.Scheduler()

	s.AddSystem(panickingSystem{}, "a-panics", Default, NewAccess())
	s.AddSystem(&recordingSystem{"survivor", &trace}, "b-survives", Default, NewAccess())

	require.NotPanics(t, func() { m.Tick() })
	assert.Equal(t, []string{"survivor"}, trace)

	// Subsequent ticks keep working.
	require.NotPanics(t, func() { m.Tick() })
	assert.Equal(t, []string{"survivor", "survivor"}, trace)
}

func TestConflictingSystemsBatchedSeparately(t *testing.T) {
	m := NewBuilder().Init()
	s := m.Scheduler()

	writes := NewAccess().Write(TypeID[Card]())
	reads := NewAccess().Read(TypeID[Card]())

	s.AddSystem(&recordingSystem{"w", new([]string)}, "writer", Default, writes)
	s.AddSystem(&recordingSystem{"r", new([]string)}, "reader", Default, reads)

	s.systemsMu.RLock()
	defer s.systemsMu.RUnlock()
	require.Len(t, s.batches[Default], 2, "write/read overlap must split into two batches")
}

func TestDisjointSystemsShareBatch(t *testing.T) {
	m := NewBuilder().Init()
	s := m.Scheduler()

	a := NewAccess().Write(TypeID[Card]())
	b := NewAccess().Write(TypeID[Mirror]())

	s.AddSystem(&recordingSystem{"a", new([]string)}, "a", Default, a)
	s.AddSystem(&recordingSystem{"b", new([]string)}, "b", Default, b)

	s.systemsMu.RLock()
	defer s.systemsMu.RUnlock()
	require.Len(t, s.batches[Default], 1)
	assert.Len(t, s.batches[Default][0], 2)
}

func TestTickNumberAdvances(t *testing.T) {
	m := NewBuilder().Init()
	s := m.Scheduler()

	assert.Zero(t, s.TickNumber())
	m.Tick()
	m.Tick()
	assert.Equal(t, uint64(2), s.TickNumber())
}

func TestStartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickRate = time.Millisecond

	m := NewBuilder().Config(cfg).Init()
	m.Start()

	assert.Eventually(t, func() bool {
		return m.Scheduler().TickNumber() >= 3
	}, time.Second, time.Millisecond)

	m.Shutdown()
	stopped := m.Scheduler().TickNumber()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stopped, m.Scheduler().TickNumber())
}

func TestAccessConflicts(t *testing.T) {
	card := TypeID[Card]()
	mirror := TypeID[Mirror]()

	tests := []struct {
		name     string
		a, b     Access
		conflict bool
	}{
		{"read/read", NewAccess().Read(card), NewAccess().Read(card), false},
		{"read/write", NewAccess().Read(card), NewAccess().Write(card), true},
		{"write/write", NewAccess().Write(card), NewAccess().Write(card), true},
		{"disjoint writes", NewAccess().Write(card), NewAccess().Write(mirror), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.conflict, tt.a.Conflicts(&tt.b))
			assert.Equal(t, tt.conflict, tt.b.Conflicts(&tt.a))
		})
	}
}
