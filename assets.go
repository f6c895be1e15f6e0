package dsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handle is a stable reference to an asset. The key is the xxhash of the
// asset path, so the same path always yields the same handle regardless of
// whether the underlying asset has finished loading.
type Handle struct {
	Key  uint64
	Path string
}

// IsZero reports whether the handle references nothing.
func (h Handle) IsZero() bool {
	return h.Key == 0 && h.Path == ""
}

// AssetProvider loads asset data by path. Providers bridge the asset server
// to external sources: a filesystem, an archive, a network fetcher.
type AssetProvider interface {
	// Name returns a unique identifier for this provider, for logging.
	Name() string

	// LoadAsset retrieves the asset at the given path. Returning an error
	// means this provider cannot supply the path; the server tries the
	// next one.
	LoadAsset(ctx context.Context, path string) (any, error)
}

// AssetServerOptions configures an asset server.
type AssetServerOptions struct {
	// LoadTimeout bounds a single provider load. Default: 5 seconds.
	LoadTimeout time.Duration

	// PreloadConcurrency bounds parallel loads during Preload.
	// Default: 8.
	PreloadConcurrency int

	// Logger receives load failures. Default: no-op.
	Logger *zap.Logger
}

// AssetServerOption configures an asset server.
type AssetServerOption func(*AssetServerOptions)

// WithLoadTimeout sets the per-load timeout.
func WithLoadTimeout(d time.Duration) AssetServerOption {
	return func(o *AssetServerOptions) { o.LoadTimeout = d }
}

// WithPreloadConcurrency sets the parallel load bound for Preload.
func WithPreloadConcurrency(n int) AssetServerOption {
	return func(o *AssetServerOptions) { o.PreloadConcurrency = n }
}

// WithAssetLogger sets the server's logger.
func WithAssetLogger(log *zap.Logger) AssetServerOption {
	return func(o *AssetServerOptions) { o.Logger = log }
}

// AssetServer resolves asset paths to handles and caches loaded asset data.
// It is the auxiliary service handed to observers during delivery, letting an
// adapter turn a path pushed from a subject into a loaded resource. The
// server is read-shared across all deliveries in a tick; loads synchronize
// internally.
type AssetServer struct {
	id   uuid.UUID
	opts AssetServerOptions
	log  *zap.Logger

	mu        sync.RWMutex
	providers []AssetProvider
	assets    map[uint64]any
	handles   map[uint64]Handle
}

// NewAssetServer creates an asset server with the given options.
func NewAssetServer(opts ...AssetServerOption) *AssetServer {
	options := AssetServerOptions{
		LoadTimeout:        5 * time.Second,
		PreloadConcurrency: 8,
		Logger:             zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &AssetServer{
		id:      uuid.New(),
		opts:    options,
		log:     options.Logger,
		assets:  make(map[uint64]any),
		handles: make(map[uint64]Handle),
	}
}

// ID returns the server's unique identity, for telling servers apart when
// multiple worlds run in one process.
func (s *AssetServer) ID() uuid.UUID {
	return s.id
}

// AddProvider appends a provider. Providers are consulted in registration
// order.
func (s *AssetServer) AddProvider(p AssetProvider) {
	if p == nil {
		return
	}
	s.mu.Lock()
	s.providers = append(s.providers, p)
	s.mu.Unlock()
}

// HandleFor returns the stable handle for a path without loading anything.
func (s *AssetServer) HandleFor(path string) Handle {
	return Handle{Key: xxhash.Sum64String(path), Path: path}
}

// Load returns the handle for a path, loading and caching the asset data on
// first use. The handle is valid even if every provider fails; the data may
// arrive through a later Preload. Load failures are logged, not returned:
// a handle that resolves to nothing is the asset-domain analog of a dangling
// entity reference.
func (s *AssetServer) Load(path string) Handle {
	h := s.HandleFor(path)

	s.mu.RLock()
	_, loaded := s.assets[h.Key]
	s.mu.RUnlock()
	if loaded {
		return h
	}

	data, err := s.loadFromProviders(context.Background(), path)
	if err != nil {
		s.log.Warn("asset load failed", zap.String("path", path), zap.Error(err))
	}

	s.mu.Lock()
	s.handles[h.Key] = h
	if data != nil {
		if _, ok := s.assets[h.Key]; !ok {
			s.assets[h.Key] = data
		}
	}
	s.mu.Unlock()

	return h
}

// Get returns the cached data for a handle.
func (s *AssetServer) Get(h Handle) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.assets[h.Key]
	return data, ok
}

// Preload loads a batch of paths concurrently. It returns the first load
// error encountered; paths that loaded before the failure stay cached.
func (s *AssetServer) Preload(ctx context.Context, paths ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.PreloadConcurrency)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			h := s.HandleFor(path)

			s.mu.RLock()
			_, loaded := s.assets[h.Key]
			s.mu.RUnlock()
			if loaded {
				return nil
			}

			data, err := s.loadFromProviders(ctx, path)
			if err != nil {
				return fmt.Errorf("preload %q: %w", path, err)
			}

			s.mu.Lock()
			s.handles[h.Key] = h
			s.assets[h.Key] = data
			s.mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

// loadFromProviders tries each provider in order until one succeeds.
func (s *AssetServer) loadFromProviders(ctx context.Context, path string) (any, error) {
	s.mu.RLock()
	providers := make([]AssetProvider, len(s.providers))
	copy(providers, s.providers)
	s.mu.RUnlock()

	if len(providers) == 0 {
		return nil, fmt.Errorf("no asset providers registered")
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.LoadTimeout)
	defer cancel()

	var lastErr error
	for _, p := range providers {
		data, err := p.LoadAsset(ctx, path)
		if err != nil {
			lastErr = fmt.Errorf("provider %s: %w", p.Name(), err)
			continue
		}
		return data, nil
	}
	return nil, lastErr
}
