package dsync

import (
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs registered systems against a world in stage order, once per
// tick. Within a stage, systems whose declared access sets do not conflict
// are grouped into batches and run in parallel on a bounded worker pool.
type Scheduler struct {
	world *World
	log   *zap.Logger

	systems   [stageCount][]*systemState
	batches   [stageCount][][]*systemState
	systemsMu sync.RWMutex

	workers    int
	workerPool chan func()
	workerWG   sync.WaitGroup

	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	tickRate   time.Duration
	tickNumber atomic.Uint64
}

// systemState tracks one registered system.
type systemState struct {
	sys    System
	name   string
	access Access
}

func newScheduler(w *World, cfg Config, log *zap.Logger) *Scheduler {
	return &Scheduler{
		world:      w,
		log:        log,
		workers:    cfg.Workers,
		workerPool: make(chan func(), cfg.Workers*4),
		tickRate:   cfg.TickRate,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// AddSystem registers a system for the given stage with its declared access.
func (s *Scheduler) AddSystem(sys System, name string, stage Stage, access Access) {
	s.systemsMu.Lock()
	defer s.systemsMu.Unlock()

	s.systems[stage] = append(s.systems[stage], &systemState{
		sys:    sys,
		name:   name,
		access: access,
	})
	s.rebuildBatches(stage)
}

// rebuildBatches recomputes the parallel execution batches for a stage.
// Systems are sorted by name first so batching is deterministic.
func (s *Scheduler) rebuildBatches(stage Stage) {
	systems := s.systems[stage]
	if len(systems) == 0 {
		s.batches[stage] = nil
		return
	}

	sort.Slice(systems, func(i, j int) bool {
		return systems[i].name < systems[j].name
	})

	var batches [][]*systemState
	remaining := make([]*systemState, len(systems))
	copy(remaining, systems)

	for len(remaining) > 0 {
		var batch []*systemState
		var next []*systemState

		for _, candidate := range remaining {
			conflict := false
			for _, placed := range batch {
				if candidate.access.Conflicts(&placed.access) {
					conflict = true
					break
				}
			}
			if conflict {
				next = append(next, candidate)
			} else {
				batch = append(batch, candidate)
			}
		}

		batches = append(batches, batch)
		remaining = next
	}

	s.batches[stage] = batches
}

// Start begins the scheduler's tick loop.
func (s *Scheduler) Start() {
	if s.running.Swap(true) {
		return
	}

	for i := 0; i < s.workers; i++ {
		s.workerWG.Add(1)
		go s.worker()
	}
	go s.tickLoop()
}

// Stop gracefully shuts down the scheduler. The tick in flight completes.
func (s *Scheduler) Stop() {
	if !s.running.Swap(false) {
		return
	}

	close(s.stopCh)
	<-s.doneCh

	close(s.workerPool)
	s.workerWG.Wait()
}

func (s *Scheduler) worker() {
	defer s.workerWG.Done()
	for fn := range s.workerPool {
		fn()
	}
}

func (s *Scheduler) tickLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick executes one full tick: advance the change tick, run the Before and
// Default stages, flush deferred commands, then run the After stage. Tick may
// be called directly when embedding the scheduler without its own ticker.
func (s *Scheduler) Tick() {
	s.tickNumber.Add(1)
	s.world.stepTick()

	s.runStage(Before)
	s.runStage(Default)
	s.world.Flush()
	s.runStage(After)
}

// TickNumber returns the number of completed or in-progress ticks.
func (s *Scheduler) TickNumber() uint64 {
	return s.tickNumber.Load()
}

func (s *Scheduler) runStage(stage Stage) {
	s.systemsMu.RLock()
	batches := s.batches[stage]
	s.systemsMu.RUnlock()

	for _, batch := range batches {
		if len(batch) == 1 || !s.running.Load() {
			// Single-system batches and manual ticking run inline; the
			// worker pool only drains while the scheduler is started.
			for _, state := range batch {
				s.runSystem(state)
			}
			continue
		}

		var wg sync.WaitGroup
		for _, state := range batch {
			state := state
			wg.Add(1)
			job := func() {
				defer wg.Done()
				s.runSystem(state)
			}
			select {
			case s.workerPool <- job:
			default:
				// Worker pool full or not started, run inline.
				job()
			}
		}
		wg.Wait()
	}
}

// runSystem executes a single system with panic recovery. A panicking system
// is logged and skipped; it does not take the tick down with it.
func (s *Scheduler) runSystem(state *systemState) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic in system",
				zap.String("system", state.name),
				zap.Any("recovered", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	state.sys.Run(s.world)
}
