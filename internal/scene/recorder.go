package scene

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-cluster/internal/astro"
	"github.com/litescript/ls-cluster/internal/cluster"
)

// Container is a particle container captured by a Recorder.
type Container struct {
	Name       string
	Category   cluster.Category
	Positions  []astro.Vec3
	Timeline   Timeline
	Appearance Appearance
}

// Count returns the number of particles in the container.
func (c Container) Count() int {
	return len(c.Positions)
}

// Scene is a complete recorded particle layout.
type Scene struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	Containers []Container
}

// Particles returns the number of particles across all containers.
func (s *Scene) Particles() int {
	n := 0
	for _, c := range s.Containers {
		n += c.Count()
	}
	return n
}

// Bounds returns the bounding box of every particle.
func (s *Scene) Bounds() astro.Bounds {
	var all []astro.Vec3
	for _, c := range s.Containers {
		all = append(all, c.Positions...)
	}
	return astro.BoundsOf(all)
}

// Recorder is an in-memory Host that captures everything the builder does.
type Recorder struct {
	mu         sync.Mutex
	limit      int
	containers []Container
	now        func() time.Time
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// withCapacityLimit lowers the per-container particle limit.
func withCapacityLimit(n int) RecorderOption {
	return func(r *Recorder) {
		r.limit = n
	}
}

// withRecorderClock sets the clock used to stamp scenes.
func withRecorderClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

// NewRecorder creates an empty recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		limit: cluster.MaxParticlesPerSystem,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateContainer implements Host.
func (r *Recorder) CreateContainer(name string, capacity int) (Handle, error) {
	if capacity < 0 {
		return 0, fmt.Errorf("negative capacity %d", capacity)
	}
	if capacity > r.limit {
		return 0, fmt.Errorf("%d particles > limit %d: %w", capacity, r.limit, ErrCapacityExceeded)
	}

	cat, _, _ := ParseContainerName(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.containers = append(r.containers, Container{
		Name:      name,
		Category:  cat,
		Positions: make([]astro.Vec3, capacity),
	})
	return Handle(len(r.containers) - 1), nil
}

// SetPosition implements Host.
func (r *Recorder) SetPosition(h Handle, index int, pos astro.Vec3) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.get(h)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(c.Positions) {
		return fmt.Errorf("index %d of %s: %w", index, c.Name, ErrIndexOutOfRange)
	}
	c.Positions[index] = pos
	return nil
}

// ConfigureLifetime implements Host.
func (r *Recorder) ConfigureLifetime(h Handle, t Timeline) error {
	if err := t.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.get(h)
	if err != nil {
		return err
	}
	c.Timeline = t
	return nil
}

// ConfigureAppearance implements Host.
func (r *Recorder) ConfigureAppearance(h Handle, a Appearance) error {
	if !a.Style.Valid() {
		return fmt.Errorf("unknown render style %q", a.Style)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.get(h)
	if err != nil {
		return err
	}
	c.Appearance = a
	return nil
}

func (r *Recorder) get(h Handle) (*Container, error) {
	if h < 0 || int(h) >= len(r.containers) {
		return nil, fmt.Errorf("handle %d: %w", h, ErrUnknownHandle)
	}
	return &r.containers[h], nil
}

// Scene returns a copy of everything recorded so far, stamped with a fresh
// identifier.
func (r *Recorder) Scene() *Scene {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Scene{
		ID:         uuid.New(),
		CreatedAt:  r.now().UTC(),
		Containers: make([]Container, len(r.containers)),
	}
	for i, c := range r.containers {
		c.Positions = append([]astro.Vec3(nil), c.Positions...)
		s.Containers[i] = c
	}
	return s
}

// Record builds buckets into a fresh Recorder and returns the resulting
// scene and plan.
func Record(ctx context.Context, buckets cluster.Buckets, opts ...BuilderOption) (*Scene, Plan, error) {
	rec := NewRecorder()
	plan, err := NewBuilder(rec, opts...).Build(ctx, buckets)
	if err != nil {
		return nil, plan, err
	}
	return rec.Scene(), plan, nil
}
