package dsync

import "go.uber.org/zap"

// Manager is the central coordinator: it owns the world, the scheduler, and
// the asset server. Multiple Manager instances can coexist in one process;
// they share nothing but the global component type registry.
type Manager struct {
	world     *World
	scheduler *Scheduler
	assets    *AssetServer
	log       *zap.Logger
}

// World returns the manager's world.
func (m *Manager) World() *World {
	return m.world
}

// Assets returns the manager's asset server.
func (m *Manager) Assets() *AssetServer {
	return m.assets
}

// Scheduler returns the manager's scheduler.
func (m *Manager) Scheduler() *Scheduler {
	return m.scheduler
}

// Start begins ticker-driven operation.
func (m *Manager) Start() {
	m.scheduler.Start()
}

// Tick steps one full scheduler tick manually. Useful for tests and for
// hosts that drive the frame loop themselves.
func (m *Manager) Tick() {
	m.scheduler.Tick()
}

// Shutdown stops the scheduler. The tick in flight completes first.
func (m *Manager) Shutdown() {
	m.scheduler.Stop()
}
