package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
	"github.com/AntonStoeckl/sqldialect-go/dialect/products"
)

// Constructor builds the profile for a detected product. It can vary the profile by version.
type Constructor func(info dialect.ProductInfo) (dialect.Profile, error)

// Registration maps a product identifier to its constructor.
type Registration struct {
	// ID is the product identifier; it is normalized on registration.
	ID string

	// Name is the display name used when detection reports the product.
	Name string

	// Aliases are further product strings that resolve to this registration.
	Aliases []string

	// Detection tells the ProbeDetector how to recognize the product. Empty means
	// the product can only be bound with BindDetected.
	Detection dialect.Detection

	New Constructor
}

type registryEntry struct {
	registration Registration
	detection    dialect.CompiledDetection
}

// Registry is the only place where dispatch across products happens.
// Registering is safe for concurrent use; lookups see every completed registration.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry
	order   []string

	detector        Detector
	withoutBuiltins bool
	extraProfiles   []dialect.Profile
}

// RegistryOption defines a functional option for configuring a Registry.
type RegistryOption func(*Registry) error

// WithDetector replaces the ProbeDetector used by Bind.
func WithDetector(detector Detector) RegistryOption {
	return func(r *Registry) error {
		if detector == nil {
			return errors.New("detector must not be nil")
		}

		r.detector = detector

		return nil
	}
}

// WithProfiles registers additional profiles, e.g. loaded from a product catalog.
func WithProfiles(profiles ...dialect.Profile) RegistryOption {
	return func(r *Registry) error {
		r.extraProfiles = append(r.extraProfiles, profiles...)
		return nil
	}
}

// WithoutBuiltins starts with an empty registry instead of the built-in products.
func WithoutBuiltins() RegistryOption {
	return func(r *Registry) error {
		r.withoutBuiltins = true
		return nil
	}
}

// NewRegistry creates a registry preloaded with the built-in products.
func NewRegistry(options ...RegistryOption) (*Registry, error) {
	r := &Registry{
		entries: make(map[string]*registryEntry),
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	if !r.withoutBuiltins {
		for _, p := range products.Builtin() {
			if err := r.RegisterProfile(p); err != nil {
				return nil, err
			}
		}
	}

	for _, p := range r.extraProfiles {
		if err := r.RegisterProfile(p); err != nil {
			return nil, err
		}
	}
	r.extraProfiles = nil

	if r.detector == nil {
		r.detector = NewProbeDetector(r)
	}

	return r, nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryErr  error
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry with the built-in products.
// It panics if a built-in profile is invalid, which is a programming error.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry, defaultRegistryErr = NewRegistry()
	})

	if defaultRegistryErr != nil {
		panic(defaultRegistryErr)
	}

	return defaultRegistry
}

// Register adds a product. Its ID and aliases must not collide with existing registrations.
func (r *Registry) Register(reg Registration) error {
	id := dialect.NormalizeProductID(reg.ID)
	if id == "" {
		return errors.Join(dialect.ErrInvalidProfile, errors.New("registration id must not be empty"))
	}
	if reg.New == nil {
		return errors.Join(dialect.ErrInvalidProfile, fmt.Errorf("registration %q has no constructor", id))
	}

	detection, err := reg.Detection.Compile()
	if err != nil {
		return errors.Join(dialect.ErrInvalidProfile, fmt.Errorf("registration %q", id), err)
	}

	reg.ID = id
	reg.Aliases = slices.Clone(reg.Aliases)
	if reg.Name == "" {
		reg.Name = id
	}

	keys := []string{id}
	for _, alias := range reg.Aliases {
		if key := dialect.NormalizeProductID(alias); key != "" && !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range keys {
		if existing, taken := r.entries[key]; taken {
			return errors.Join(
				dialect.ErrDuplicateProduct,
				fmt.Errorf("%q is already registered by %q", key, existing.registration.ID),
			)
		}
	}

	entry := &registryEntry{registration: reg, detection: detection}
	for _, key := range keys {
		r.entries[key] = entry
	}
	r.order = append(r.order, id)

	return nil
}

// RegisterProfile validates profile and registers it with a constructor that hands out copies.
func (r *Registry) RegisterProfile(profile dialect.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	frozen := profile.Clone()

	return r.Register(Registration{
		ID:        frozen.ID,
		Name:      frozen.Name,
		Aliases:   frozen.Aliases,
		Detection: frozen.Detection,
		New: func(dialect.ProductInfo) (dialect.Profile, error) {
			return frozen.Clone(), nil
		},
	})
}

// Lookup resolves a product id or alias in any spelling.
func (r *Registry) Lookup(product string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[dialect.NormalizeProductID(product)]
	if !ok {
		return Registration{}, false
	}

	return entry.registration, true
}

// Products returns the registered product ids in registration order.
func (r *Registry) Products() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// detections returns the registered detections in registration order.
func (r *Registry) detections() []registryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]registryEntry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.entries[id])
	}

	return out
}

// Bind detects the product behind session, constructs its adapter and runs the version gate.
func (r *Registry) Bind(ctx context.Context, session dialect.Session, options ...Option) (*Adapter, error) {
	return r.bind(ctx, session, func(ctx context.Context) (dialect.ProductInfo, error) {
		return r.detector.Detect(ctx, session)
	}, options)
}

// BindDetected binds session to the product described by info, skipping detection.
// The version gate still runs.
func (r *Registry) BindDetected(
	ctx context.Context,
	session dialect.Session,
	info dialect.ProductInfo,
	options ...Option,
) (*Adapter, error) {
	return r.bind(ctx, session, func(context.Context) (dialect.ProductInfo, error) {
		return info, nil
	}, options)
}

// BindProduct binds session to product without asking the other products' probes.
// Only the version is read from the backend; its banner is not matched.
func (r *Registry) BindProduct(
	ctx context.Context,
	session dialect.Session,
	product string,
	options ...Option,
) (*Adapter, error) {
	return r.bind(ctx, session, func(ctx context.Context) (dialect.ProductInfo, error) {
		return NewProbeDetector(r).DetectProduct(ctx, session, product)
	}, options)
}

func (r *Registry) bind(
	ctx context.Context,
	session dialect.Session,
	detect func(ctx context.Context) (dialect.ProductInfo, error),
	options []Option,
) (*Adapter, error) {
	a, err := newAdapter(options...)
	if err != nil {
		return nil, err
	}

	ctx, span := a.startTraceSpan(ctx, spanNameBind, operationBind)
	start := time.Now()

	if session == nil {
		a.failOperation(ctx, span, start, operationBind, errorTypeNilSession, logMsgBindFailed, dialect.ErrNilSession)
		return nil, dialect.ErrNilSession
	}

	info, err := detect(ctx)
	if err != nil {
		errorType := errorTypeDetection
		if errors.Is(err, dialect.ErrNoMatchingAdapter) {
			errorType = errorTypeNoMatchingAdapter
		}
		a.failOperation(ctx, span, start, operationBind, errorType, logMsgBindFailed, err)

		return nil, err
	}

	reg, ok := r.Lookup(info.ID)
	if !ok {
		product := info.Name
		if product == "" {
			product = info.ID
		}
		err := &dialect.NoMatchingAdapterError{Product: product}
		a.failOperation(ctx, span, start, operationBind, errorTypeNoMatchingAdapter, logMsgBindFailed, err)

		return nil, err
	}

	info.ID = reg.ID
	if info.Name == "" {
		info.Name = reg.Name
	}

	profile, err := reg.New(info)
	if err == nil {
		err = profile.Validate()
	}
	if err != nil {
		err = errors.Join(dialect.ErrInvalidProfile, fmt.Errorf("constructing %q", reg.ID), err)
		a.failOperation(ctx, span, start, operationBind, errorTypeInvalidProfile, logMsgBindFailed, err)

		return nil, err
	}

	a.bindTo(session, profile, info)

	if err := profile.Capabilities.EnsureSupported(profile.Name, info.Version); err != nil {
		a.failOperation(ctx, span, start, operationBind, errorTypeUnsupportedVersion, logMsgBindFailed, err,
			logAttrVersion, info.Version.String())

		return nil, err
	}

	duration := time.Since(start)
	a.recordOperationMetrics(ctx, metricBindDuration, duration, operationBind, statusSuccess)
	a.finishSpanSuccess(span, duration, map[string]string{spanAttrProduct: info.ID})
	a.logOperation(ctx, logMsgAdapterBound, logAttrVersion, info.Version.String(), logAttrDurationMS, toMilliseconds(duration))

	return a, nil
}
