package slotpool

import (
	"math"
	"math/bits"
	"unsafe"
)

// GrowthKind identifies which growth rule a Config uses.
type GrowthKind int

const (
	// GrowthNone means the pool never grows past its initial capacity.
	GrowthNone GrowthKind = iota
	// GrowthLinear means the pool grows by a fixed amount each time.
	GrowthLinear
	// GrowthExponential means the pool grows by multiplying its current
	// capacity by a factor.
	GrowthExponential
	// GrowthCustom means growth is computed by a user-supplied function.
	GrowthCustom
)

// GrowthRule computes how many additional slots to append when a growing
// pool is exhausted, given its current capacity. The function is treated as
// pure: implementations must not assume it is called with a monotonically
// increasing sequence of inputs, and must not assume it is called at all
// (fixed pools never call it).
type GrowthRule struct {
	kind   GrowthKind
	amount int
	factor float64
	fn     func(current int) int
}

// NoGrowth returns a GrowthRule that never grows the pool.
func NoGrowth() GrowthRule { return GrowthRule{kind: GrowthNone} }

// LinearGrowth returns a GrowthRule that appends a fixed amount n of new
// slots on every growth step, regardless of current capacity.
func LinearGrowth(n int) GrowthRule {
	return GrowthRule{kind: GrowthLinear, amount: n}
}

// ExponentialGrowth returns a GrowthRule that appends
// floor(current*factor) - current slots, never less than 1 (so any
// configured exponential growth actually grows the pool).
func ExponentialGrowth(factor float64) GrowthRule {
	return GrowthRule{kind: GrowthExponential, factor: factor}
}

// CustomGrowth returns a GrowthRule backed by a user-supplied pure function
// from current capacity to growth amount. Its result is used verbatim; the
// pool does not assume monotonicity.
func CustomGrowth(fn func(current int) int) GrowthRule {
	return GrowthRule{kind: GrowthCustom, fn: fn}
}

// compute returns the number of additional slots to append for the given
// current capacity.
func (r GrowthRule) compute(current int) int {
	switch r.kind {
	case GrowthNone:
		return 0
	case GrowthLinear:
		return r.amount
	case GrowthExponential:
		grown := int(math.Floor(float64(current) * r.factor))
		delta := grown - current
		if delta < 1 {
			delta = 1
		}
		return delta
	case GrowthCustom:
		return r.fn(current)
	default:
		return 0
	}
}

// allowsGrowth reports whether this rule can ever produce a positive delta.
// GrowthCustom is assumed capable of growth since its behavior is opaque.
func (r GrowthRule) allowsGrowth() bool {
	return r.kind != GrowthNone
}

// TrackerKind selects which slot-tracker variant a pool uses to hand out
// and reclaim indices. The zero value, TrackerDefault, lets each pool
// constructor pick its own traditional default (Stack for FixedPool,
// FreeList for GrowingPool) rather than forcing every caller to name one.
type TrackerKind int

const (
	// TrackerDefault lets the pool constructor choose its own default
	// tracker kind.
	TrackerDefault TrackerKind = iota
	// TrackerStack selects a LIFO stack-of-free-indices tracker.
	TrackerStack
	// TrackerFreeList selects a free-list tracker (structurally the same
	// LIFO order as Stack, distinguished for semantic intent rather than
	// behavior).
	TrackerFreeList
	// TrackerBitmap selects a bit-vector tracker, trading slower
	// worst-case claim for much lower metadata overhead at large
	// capacities.
	TrackerBitmap
)

// InitKind identifies which initialization strategy a Config uses.
type InitKind int

const (
	// InitLazy means slots are left at T's zero value until allocate
	// writes a caller-supplied value into them.
	InitLazy InitKind = iota
	// InitEager means newly appended slots are pre-populated by a
	// factory function at growth time.
	InitEager
	// InitCustom means newly appended slots are pre-populated by a
	// factory, and returned slots are passed to a reset function after
	// being zeroed (every kind zeroes a slot on release).
	InitCustom
)

// Initialization describes how pool slots are prepared when storage grows,
// and (for InitCustom) how they are reset when a slot is released.
type Initialization[T any] struct {
	kind    InitKind
	factory func() T
	reset   func(*T)
}

// Lazy is the default Initialization: slots hold T's zero value until
// written by allocate.
func Lazy[T any]() Initialization[T] { return Initialization[T]{kind: InitLazy} }

// Eager returns an Initialization that pre-populates every slot via factory
// as storage grows.
func Eager[T any](factory func() T) Initialization[T] {
	return Initialization[T]{kind: InitEager, factory: factory}
}

// Custom returns an Initialization that pre-populates slots via factory and,
// on release, calls reset on each slot after it has been set to T's zero
// value.
func Custom[T any](factory func() T, reset func(*T)) Initialization[T] {
	return Initialization[T]{kind: InitCustom, factory: factory, reset: reset}
}

// Config is a validated, immutable record of pool construction parameters.
// Build it with [NewConfig] and functional [Option] values, then pass it to
// [NewFixedPoolWith] or [NewGrowingPoolWith].
type Config[T any] struct {
	initialCapacity int
	maxCapacity     int // 0 means unbounded
	hasMaxCapacity  bool
	growth          GrowthRule
	alignment       int
	init            Initialization[T]
	threadLocal     bool
	trackerKind     TrackerKind
	debugMode       bool
}

// Option configures a Config during construction. See [WithMaxCapacity],
// [WithGrowthRule], [WithAlignment], [WithInitialization], and
// [WithThreadLocal].
type Option[T any] func(*configBuild[T]) error

// configBuild is the mutable scratch state threaded through Option values;
// NewConfig validates it once and freezes the result into a Config.
type configBuild[T any] struct {
	capacity       int
	maxCapacity    int
	hasMaxCapacity bool
	growth         GrowthRule
	alignment      int
	init           Initialization[T]
	threadLocal    bool
	trackerKind    TrackerKind
	debugMode      bool
}

// WithMaxCapacity sets the upper bound a growing pool may reach. Omit this
// option to allow unbounded growth subject only to the growth rule and
// available memory.
func WithMaxCapacity[T any](max int) Option[T] {
	return func(b *configBuild[T]) error {
		b.maxCapacity = max
		b.hasMaxCapacity = true
		return nil
	}
}

// WithGrowthRule sets how a growing pool computes its growth steps. Fixed
// pools ignore this option.
func WithGrowthRule[T any](rule GrowthRule) Option[T] {
	return func(b *configBuild[T]) error {
		b.growth = rule
		return nil
	}
}

// WithAlignment sets the minimum alignment slotpool validates and reports
// for pool slots. Must be a power of two; defaults to T's natural
// alignment. See the "Alignment, on Go" note on [NewConfig] for what this does and
// does not control on the Go runtime.
func WithAlignment[T any](alignment int) Option[T] {
	return func(b *configBuild[T]) error {
		b.alignment = alignment
		return nil
	}
}

// WithInitialization sets the slot initialization/reset strategy.
func WithInitialization[T any](init Initialization[T]) Option[T] {
	return func(b *configBuild[T]) error {
		b.init = init
		return nil
	}
}

// WithThreadLocal marks the pool as intended for single-thread-only use.
// The pool itself does not enforce this (Go has no compile-time thread
// affinity check); it is metadata a caller-side lint or debug assertion can
// consult. Concurrent use of a thread-local pool is undefined behavior, not
// a detected error — use [NewSharedPool] for cross-goroutine sharing.
func WithThreadLocal[T any](threadLocal bool) Option[T] {
	return func(b *configBuild[T]) error {
		b.threadLocal = threadLocal
		return nil
	}
}

// WithTrackerKind selects which slot-tracker variant the pool uses. See
// [TrackerKind].
func WithTrackerKind[T any](kind TrackerKind) Option[T] {
	return func(b *configBuild[T]) error {
		b.trackerKind = kind
		return nil
	}
}

// WithDebugMode enables the tracker's shadow-bitmap double-release and
// release-of-unclaimed-index check. Off by default since it adds a second
// bitmap's worth of bookkeeping to every claim/release; turn it on while
// developing or testing code that manages handles manually.
func WithDebugMode[T any](enabled bool) Option[T] {
	return func(b *configBuild[T]) error {
		b.debugMode = enabled
		return nil
	}
}

// NewConfig builds and validates a Config from the given initial capacity
// and options, in the style of the teacher's functional-options
// constructors: each Option mutates a scratch build state, and all
// validations run once at the end.
//
// Alignment, on Go: Go's runtime already aligns every element of a []T (or
// [][]T chunk) to at least T's natural alignment — there is no portable,
// generic-compatible way to additionally force a *larger* per-element
// stride/alignment without abandoning GC-managed, type-safe slices for a
// raw byte arena with manual unsafe.Pointer arithmetic. NewConfig therefore
// validates the requested alignment (must be a power of two) and records it
// as metadata available via Config.Alignment() (Stats does not carry it),
// satisfying the contract and making the value available for
// cache-line-aware callers, without claiming to relocate slots to coarser
// boundaries than the language provides.
func NewConfig[T any](initialCapacity int, opts ...Option[T]) (Config[T], error) {
	b := configBuild[T]{
		capacity:  initialCapacity,
		growth:    NoGrowth(),
		alignment: naturalAlignment[T](),
		init:      Lazy[T](),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&b); err != nil {
			return Config[T]{}, err
		}
	}

	if b.capacity < 1 {
		return Config[T]{}, errInvalidConfiguration("capacity must be at least 1")
	}
	if b.hasMaxCapacity && b.maxCapacity < b.capacity {
		return Config[T]{}, errInvalidConfiguration("max_capacity must be >= capacity")
	}
	if !isPowerOfTwo(b.alignment) {
		return Config[T]{}, errInvalidAlignment(b.alignment)
	}

	return Config[T]{
		initialCapacity: b.capacity,
		maxCapacity:     b.maxCapacity,
		hasMaxCapacity:  b.hasMaxCapacity,
		growth:          b.growth,
		alignment:       b.alignment,
		init:            b.init,
		threadLocal:     b.threadLocal,
		trackerKind:     b.trackerKind,
		debugMode:       b.debugMode,
	}, nil
}

// InitialCapacity returns the pool's starting capacity.
func (c Config[T]) InitialCapacity() int { return c.initialCapacity }

// MaxCapacity returns the configured maximum capacity and whether one was
// set at all.
func (c Config[T]) MaxCapacity() (max int, ok bool) { return c.maxCapacity, c.hasMaxCapacity }

// Alignment returns the validated, recorded slot alignment. See the
// "Alignment, on Go" note on [NewConfig].
func (c Config[T]) Alignment() int { return c.alignment }

// ThreadLocal reports whether this configuration was marked thread-local.
func (c Config[T]) ThreadLocal() bool { return c.threadLocal }

// TrackerKind returns the configured slot-tracker variant.
func (c Config[T]) TrackerKind() TrackerKind { return c.trackerKind }

// DebugMode reports whether the shadow-bitmap double-release check is
// enabled.
func (c Config[T]) DebugMode() bool { return c.debugMode }

func naturalAlignment[T any]() int {
	var zero T
	return int(unsafe.Alignof(zero))
}

func isPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}
