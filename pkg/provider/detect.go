package provider

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultProbePorts is the closed set of host:port combinations the
// detector scans when the caller does not supply its own list.
var DefaultProbePorts = []int{11434, 1234, 8000, 8080, 5000, 5001}

// DefaultProbeTimeout bounds a single provider probe against a single
// port, per spec.
const DefaultProbeTimeout = 2 * time.Second

// precedence is the fixed detection order: Ollama, then LM Studio, then HF
// TGI, then vLLM / generic OpenAI-compatible last.
var precedence = []Type{TypeOllama, TypeLMStudio, TypeHFTGI, TypeVLLM}

// Factory builds a Provider instance bound to baseURL for the given type.
// The per-type map of the concrete backends (pkg/provider/ollama,
// /openaicompat, /hftgi) is assembled in pkg/provider/registry, to avoid an
// import cycle from this package into them.
type Factory func(baseURL string, timeout time.Duration) Provider

// Detector scans the fixed probe set concurrently and returns the first
// provider (by precedence, not arrival order) that answers.
type Detector struct {
	factories map[Type]Factory
	ports     []int
	timeout   time.Duration
}

// NewDetector builds a Detector. factories must have an entry for every
// Type in the detection precedence; registry.Factories returns that map
// for the real backends, and registry.NewDetector passes it here.
func NewDetector(factories map[Type]Factory) *Detector {
	return &Detector{
		factories: factories,
		ports:     DefaultProbePorts,
		timeout:   DefaultProbeTimeout,
	}
}

// WithPorts overrides the probe set, primarily for tests.
func (d *Detector) WithPorts(ports []int) *Detector {
	d.ports = ports
	return d
}

// WithTimeout overrides the per-probe timeout, primarily for tests.
func (d *Detector) WithTimeout(timeout time.Duration) *Detector {
	d.timeout = timeout
	return d
}

// found records one successful probe result for ranking after the scan
// completes.
type found struct {
	providerType Type
	port         int
	provider     Provider
}

// Detect scans every host:port combination concurrently (bounded only by
// the size of the probe set) and, for each, tries every provider type in
// precedence order, stopping at the first match for that port. If
// preferred is non-empty and at least one result matches it, that result
// wins regardless of precedence or port order. Otherwise the result with
// the lowest (precedence index, port number) wins, which is a deterministic
// stand-in for "first success" that does not depend on goroutine
// scheduling.
func (d *Detector) Detect(ctx context.Context, preferred Type) (Provider, bool) {
	results := make([]*found, len(d.ports))

	g, gctx := errgroup.WithContext(ctx)
	for i, port := range d.ports {
		i, port := i, port
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(gctx, d.timeout)
			defer cancel()

			results[i] = d.probePort(probeCtx, port)
			return nil
		})
	}
	// Detect never propagates a probe failure to the caller: every probe
	// is awaited and exceptions map to "not found" inside probePort, so
	// the returned error here is always nil except for panics, which
	// errgroup does not recover and loom intentionally lets crash.
	_ = g.Wait()

	var candidates []*found
	for _, r := range results {
		if r != nil {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}

	if preferred != "" {
		for _, c := range candidates {
			if c.providerType == preferred {
				return c.provider, true
			}
		}
	}

	precedenceIndex := func(t Type) int {
		for i, p := range precedence {
			if p == t {
				return i
			}
		}
		return len(precedence)
	}
	sort.Slice(candidates, func(i, j int) bool {
		pi, pj := precedenceIndex(candidates[i].providerType), precedenceIndex(candidates[j].providerType)
		if pi != pj {
			return pi < pj
		}
		return candidates[i].port < candidates[j].port
	})

	return candidates[0].provider, true
}

func (d *Detector) probePort(ctx context.Context, port int) *found {
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)

	for _, t := range precedence {
		factory, ok := d.factories[t]
		if !ok {
			continue
		}
		p := factory(baseURL, d.timeout)
		if p.Detect(ctx) {
			return &found{providerType: t, port: port, provider: p}
		}
	}
	return nil
}
