package scene

import (
	"context"
	"fmt"

	"github.com/litescript/ls-cluster/internal/cluster"
	"github.com/litescript/ls-cluster/internal/logging"
)

// ContainerPlan records one container created by a build.
type ContainerPlan struct {
	Name     string
	Category cluster.Category
	Handle   Handle
	Offset   int // index of the first star within its bucket
	Count    int
}

// Plan is the outcome of a build.
type Plan struct {
	Containers []ContainerPlan
	Particles  int
}

// ByCategory returns the containers built for one category.
func (p Plan) ByCategory(c cluster.Category) []ContainerPlan {
	var out []ContainerPlan
	for _, cp := range p.Containers {
		if cp.Category == c {
			out = append(out, cp)
		}
	}
	return out
}

// Builder turns classified stars into particle containers on a host.
type Builder struct {
	host        Host
	maxBatch    int
	timeline    Timeline
	appearances map[cluster.Category]Appearance
	logger      *logging.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithMaxBatchSize sets the per-container particle cap.
func WithMaxBatchSize(n int) BuilderOption {
	return func(b *Builder) {
		b.maxBatch = n
	}
}

// WithTimeline sets the emission timeline applied to every container.
func WithTimeline(t Timeline) BuilderOption {
	return func(b *Builder) {
		b.timeline = t
	}
}

// WithAppearance overrides the appearance of one category.
func WithAppearance(c cluster.Category, a Appearance) BuilderOption {
	return func(b *Builder) {
		b.appearances[c] = a
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = l
	}
}

// NewBuilder creates a builder targeting host.
func NewBuilder(host Host, opts ...BuilderOption) *Builder {
	b := &Builder{
		host:        host,
		maxBatch:    cluster.MaxParticlesPerSystem,
		timeline:    DefaultTimeline(),
		appearances: DefaultAppearances(),
		logger:      logging.Discard(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build creates one container per batch of each non-empty bucket, in
// category order, and fills it.
func (b *Builder) Build(ctx context.Context, buckets cluster.Buckets) (Plan, error) {
	if b.maxBatch <= 0 || b.maxBatch > cluster.MaxParticlesPerSystem {
		return Plan{}, fmt.Errorf("batch size %d: %w", b.maxBatch, ErrCapacityExceeded)
	}
	if err := b.timeline.Validate(); err != nil {
		return Plan{}, fmt.Errorf("timeline: %w", err)
	}

	var plan Plan
	for _, cat := range cluster.Categories {
		stars := buckets.Get(cat)
		if len(stars) == 0 {
			continue
		}

		appearance, ok := b.appearances[cat]
		if !ok {
			appearance = DefaultAppearances()[cat]
		}

		remaining := len(stars)
		offset := 0
		for i, batch := range cluster.SplitIntoBatches(stars, b.maxBatch) {
			if err := ctx.Err(); err != nil {
				return plan, err
			}

			name := ContainerName(cat, i)
			h, err := b.fill(name, batch, appearance)
			if err != nil {
				return plan, fmt.Errorf("container %s: %w", name, err)
			}

			plan.Containers = append(plan.Containers, ContainerPlan{
				Name:     name,
				Category: cat,
				Handle:   h,
				Offset:   offset,
				Count:    len(batch),
			})
			plan.Particles += len(batch)
			offset += len(batch)
			remaining -= len(batch)

			b.logger.Debug("Built %s: %d particles, %d remaining", name, len(batch), remaining)
		}
	}

	b.logger.Info("Scene built: %d containers, %d particles", len(plan.Containers), plan.Particles)
	return plan, nil
}

func (b *Builder) fill(name string, batch []cluster.Star, appearance Appearance) (Handle, error) {
	h, err := b.host.CreateContainer(name, len(batch))
	if err != nil {
		return 0, fmt.Errorf("create: %w", err)
	}

	for i, s := range batch {
		if err := b.host.SetPosition(h, i, s.Position); err != nil {
			return h, fmt.Errorf("set position %d: %w", i, err)
		}
	}

	if err := b.host.ConfigureLifetime(h, b.timeline); err != nil {
		return h, fmt.Errorf("configure lifetime: %w", err)
	}
	if err := b.host.ConfigureAppearance(h, appearance); err != nil {
		return h, fmt.Errorf("configure appearance: %w", err)
	}
	return h, nil
}
