package dsync

import "go.uber.org/zap"

// Builder configures a Manager before initialization. Use NewBuilder to
// create one and chain configuration methods.
type Builder struct {
	cfg     Config
	cfgSet  bool
	log     *zap.Logger
	assets  *AssetServer
	bundles []*Bundle
}

// NewBuilder creates a new builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Config sets the scheduler configuration.
func (b *Builder) Config(cfg Config) *Builder {
	b.cfg = cfg
	b.cfgSet = true
	return b
}

// Logger sets the logger shared by the world, scheduler, and sync passes.
func (b *Builder) Logger(log *zap.Logger) *Builder {
	b.log = log
	return b
}

// Assets sets the asset server installed as a world resource. A default
// server with no providers is installed when omitted.
func (b *Builder) Assets(assets *AssetServer) *Builder {
	b.assets = assets
	return b
}

// Bundle adds a bundle to the builder.
func (b *Builder) Bundle(bundle *Bundle) *Builder {
	if bundle != nil {
		b.bundles = append(b.bundles, bundle)
	}
	return b
}

// Init builds the manager: world, scheduler, asset server resource, then all
// bundles in registration order. The scheduler is not started; call
// Manager.Start for ticker-driven operation or Manager.Tick to step manually.
func (b *Builder) Init() *Manager {
	cfg := b.cfg
	if !b.cfgSet {
		cfg = DefaultConfig()
	}
	cfg.applyDefaults()

	log := b.log
	if log == nil {
		log = zap.NewNop()
	}

	world := NewWorld()
	world.SetLogger(log)

	m := &Manager{
		world:     world,
		scheduler: newScheduler(world, cfg, log),
		log:       log,
	}

	assets := b.assets
	if assets == nil {
		assets = NewAssetServer(WithAssetLogger(log))
	}
	m.assets = assets
	AddResource(world, assets)

	for _, bundle := range b.bundles {
		bundle.apply(m)
	}

	return m
}
