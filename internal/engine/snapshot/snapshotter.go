// Package snapshot records batches of component manifests as versions, in dependency order.
package snapshot

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/facet/internal/dependencies"
	"go.trai.ch/facet/internal/objects"
	"go.trai.ch/zerr"
)

// ComponentStatus represents the status of a component within a run.
type ComponentStatus string

const (
	// StatusPending indicates the component is waiting for its dependencies.
	StatusPending ComponentStatus = "Pending"
	// StatusRunning indicates the component is being snapshotted.
	StatusRunning ComponentStatus = "Running"
	// StatusCompleted indicates a new version was written.
	StatusCompleted ComponentStatus = "Completed"
	// StatusFailed indicates the snapshot failed.
	StatusFailed ComponentStatus = "Failed"
	// StatusCached indicates the inputs were unchanged and the previous version was kept.
	StatusCached ComponentStatus = "Cached"
)

// DependencyResolver normalizes the dependencies of a legacy component.
type DependencyResolver interface {
	FromLegacyComponent(ctx context.Context, component *domain.Component) (*dependencies.DependencyList, error)
}

// Options controls a snapshot run.
type Options struct {
	// Parallelism bounds the number of components snapshotted at once. Zero means runtime.NumCPU().
	Parallelism int
	// Force writes a new version even when the inputs are unchanged.
	Force bool
	// Message is the log message of every version; empty uses the manifest message.
	Message  string
	Username string
	Email    string
	// Now stamps the version logs; zero means time.Now().
	Now time.Time
}

// Result is the outcome of one snapshotted component.
type Result struct {
	ID     domain.ComponentID
	Ref    domain.Ref
	Cached bool
}

// Snapshotter writes versions for batches of manifests.
type Snapshotter struct {
	store     ports.ObjectStore
	resolver  DependencyResolver
	scope     ports.Scope
	writer    ports.ScopeWriter
	infos     ports.SnapshotInfoStore
	hasher    ports.Hasher
	telemetry ports.Telemetry

	mu     sync.RWMutex
	status map[domain.InternedString]ComponentStatus
}

// NewSnapshotter creates a new Snapshotter.
func NewSnapshotter(
	store ports.ObjectStore,
	resolver DependencyResolver,
	scope ports.Scope,
	writer ports.ScopeWriter,
	infos ports.SnapshotInfoStore,
	hasher ports.Hasher,
	telemetry ports.Telemetry,
) *Snapshotter {
	return &Snapshotter{
		store:     store,
		resolver:  resolver,
		scope:     scope,
		writer:    writer,
		infos:     infos,
		hasher:    hasher,
		telemetry: telemetry,
		status:    make(map[domain.InternedString]ComponentStatus),
	}
}

// Forget drops the recorded fingerprints that point at one of the removed versions, so the
// next run snapshots those components again. It returns the affected components.
func (s *Snapshotter) Forget(removed []domain.Ref) ([]string, error) {
	if len(removed) == 0 {
		return nil, nil
	}
	gone := make(map[domain.Ref]struct{}, len(removed))
	for _, ref := range removed {
		gone[ref] = struct{}{}
	}
	return s.infos.Prune(func(info domain.SnapshotInfo) bool {
		_, ok := gone[info.Version]
		return !ok
	})
}

func (s *Snapshotter) initStatuses(graph *domain.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = make(map[domain.InternedString]ComponentStatus, graph.Len())
	for m := range graph.Walk() {
		s.status[domain.GraphKey(m.Component.ID)] = StatusPending
	}
}

func (s *Snapshotter) updateStatus(key domain.InternedString, status ComponentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[key] = status
}

// Run snapshots every manifest. A component starts only after the batch members it depends on
// were snapshotted successfully; dependents of a failed component are never started.
// Results are returned in execution order for every component that succeeded.
func (s *Snapshotter) Run(ctx context.Context, manifests []*domain.Manifest, opts Options) ([]Result, error) {
	graph := domain.NewGraph()
	for _, m := range manifests {
		if err := graph.AddManifest(m); err != nil {
			return nil, err
		}
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	s.initStatuses(graph)

	state := s.newRunState(ctx, graph, opts)

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			return state.collect(), errors.Join(state.errs, state.ctx.Err())
		}

		if state.ctx.Err() != nil {
			// Nothing new starts once canceled; wait for the running snapshots.
			state.handleResult(<-state.resultsCh)
			continue
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.collect(), state.errs
}

type outcome struct {
	key    domain.InternedString
	result Result
	err    error
}

type runState struct {
	graph       *domain.Graph
	inDegree    map[domain.InternedString]int
	ready       []domain.InternedString
	active      int
	resultsCh   chan outcome
	results     map[domain.InternedString]Result
	errs        error
	ctx         context.Context
	parallelism int
	opts        Options
	s           *Snapshotter
}

func (s *Snapshotter) newRunState(ctx context.Context, graph *domain.Graph, opts Options) *runState {
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	inDegree := make(map[domain.InternedString]int, graph.Len())
	var ready []domain.InternedString
	for m := range graph.Walk() {
		key := domain.GraphKey(m.Component.ID)
		inDegree[key] = len(graph.Dependencies(key))
		if inDegree[key] == 0 {
			ready = append(ready, key)
		}
	}

	return &runState{
		graph:       graph,
		inDegree:    inDegree,
		ready:       ready,
		resultsCh:   make(chan outcome, parallelism),
		results:     make(map[domain.InternedString]Result, graph.Len()),
		ctx:         ctx,
		parallelism: parallelism,
		opts:        opts,
		s:           s,
	}
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		key := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(key, StatusRunning)

		m, _ := state.graph.Manifest(key)
		go func() {
			res, err := state.s.snapshot(state.ctx, m, state.opts)
			state.resultsCh <- outcome{key: key, result: res, err: err}
		}()
	}
}

func (state *runState) handleResult(res outcome) {
	state.active--
	if res.err != nil {
		wrappedErr := zerr.With(zerr.Wrap(res.err, "snapshot failed"), "component", res.key.String())
		state.errs = errors.Join(state.errs, wrappedErr)
		state.s.updateStatus(res.key, StatusFailed)
		return
	}

	state.results[res.key] = res.result
	if res.result.Cached {
		state.s.updateStatus(res.key, StatusCached)
	} else {
		state.s.updateStatus(res.key, StatusCompleted)
	}

	for _, dep := range state.graph.Dependents(res.key) {
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}

func (state *runState) collect() []Result {
	out := make([]Result, 0, len(state.results))
	for m := range state.graph.Walk() {
		if res, ok := state.results[domain.GraphKey(m.Component.ID)]; ok {
			out = append(out, res)
		}
	}
	return out
}

// snapshot records one component under its own vertex.
func (s *Snapshotter) snapshot(ctx context.Context, m *domain.Manifest, opts Options) (Result, error) {
	ctx, vertex := s.telemetry.Record(ctx, "snapshot "+m.Component.ID.String())

	res, err := s.snapshotComponent(ctx, m, opts, vertex)
	if err == nil && res.Cached {
		vertex.Cached()
	}
	vertex.Complete(err)
	return res, err
}

func (s *Snapshotter) snapshotComponent(
	ctx context.Context,
	m *domain.Manifest,
	opts Options,
	vertex ports.Vertex,
) (Result, error) {
	id := m.Component.ID
	key := domain.GraphKey(id).String()

	fingerprint, err := s.hasher.Fingerprint(m)
	if err != nil {
		return Result{}, err
	}

	if !opts.Force {
		ref, ok, err := s.upToDate(ctx, key, fingerprint)
		if err != nil {
			return Result{}, err
		}
		if ok {
			vertex.Log(domain.LogLevelInfo, "inputs unchanged, keeping "+ref.Short())
			return Result{ID: id, Ref: ref, Cached: true}, nil
		}
	}

	deps, err := s.resolver.FromLegacyComponent(ctx, &m.Component)
	if err != nil {
		return Result{}, err
	}

	flattened, err := s.flatten(ctx, deps)
	if err != nil {
		return Result{}, err
	}

	in, err := s.writeInputs(ctx, m)
	if err != nil {
		return Result{}, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	in.Component = &m.Component
	in.FlattenedDeps = flattened
	in.Message = opts.Message
	if in.Message == "" {
		in.Message = m.Message
	}
	in.Username = opts.Username
	in.Email = opts.Email
	in.Now = now

	ref, err := objects.Write(ctx, s.store, objects.FromComponent(in))
	if err != nil {
		return Result{}, err
	}

	if err := s.writer.Tag(ctx, &m.Component, ref); err != nil {
		return Result{}, err
	}

	if err := s.infos.Put(domain.SnapshotInfo{
		Component:   key,
		Fingerprint: fingerprint,
		Version:     ref,
		Timestamp:   now,
	}); err != nil {
		return Result{}, zerr.Wrap(err, "failed to store snapshot info")
	}

	vertex.Log(domain.LogLevelInfo, "wrote version "+ref.Short())
	return Result{ID: id, Ref: ref}, nil
}

// upToDate reports whether the last snapshot of key was taken from the same inputs
// and its version is still stored.
func (s *Snapshotter) upToDate(ctx context.Context, key, fingerprint string) (domain.Ref, bool, error) {
	info, err := s.infos.Get(key)
	if err != nil {
		return "", false, err
	}
	if info == nil || info.Fingerprint != fingerprint || info.Version.IsZero() {
		return "", false, nil
	}

	has, err := s.store.Has(ctx, info.Version)
	if err != nil {
		return "", false, err
	}
	return info.Version, has, nil
}
