package adjust

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

// Params are the named numeric parameters passed to a plugin.
type Params map[string]float64

// Clone returns a copy of p.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// Plugin is an adjustment implemented outside this module.
//
// Apply follows the same contract as Adjustment.Apply: src must not be
// modified. The engine applies the selection again to the returned
// buffer, so plugins that ignore sel are still restricted correctly.
type Plugin interface {
	Name() string
	Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection, params Params) (*pixel.Buffer, error)
}

// ParamValidator is implemented by plugins that check their parameters.
type ParamValidator interface {
	ValidateParams(Params) error
}

// CostEstimator is implemented by plugins that report a preview cost.
type CostEstimator interface {
	PreviewCost(Params) float64
}

// pluginKindPrefix marks plugin adjustments in persisted documents.
const pluginKindPrefix = "plugin:"

// Registry holds the plugins known to a document. It is safe for
// concurrent use. The zero value is not usable; call NewRegistry.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds p. Names are unique per registry.
func (r *Registry) Register(p Plugin) error {
	name := p.Name()
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("adjust: invalid plugin name %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plugins[name]; ok {
		return fmt.Errorf("%w: %s", ErrPluginExists, name)
	}
	r.plugins[name] = p
	return nil
}

// Lookup returns the plugin registered under name.
func (r *Registry) Lookup(name string) (Plugin, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// Names returns the registered plugin names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.plugins))
}

// PluginAdjustment adapts a Plugin and its parameters to Adjustment.
type PluginAdjustment struct {
	Plugin Plugin
	Params Params
}

// NewPluginAdjustment returns an adjustment running p with a copy of
// params.
func NewPluginAdjustment(p Plugin, params Params) PluginAdjustment {
	return PluginAdjustment{Plugin: p, Params: params.Clone()}
}

func (a PluginAdjustment) Kind() string {
	if a.Plugin == nil {
		return pluginKindPrefix
	}
	return pluginKindPrefix + a.Plugin.Name()
}

func (a PluginAdjustment) Validate() error {
	if a.Plugin == nil {
		return invalid(pluginKindPrefix, "no plugin")
	}
	if v, ok := a.Plugin.(ParamValidator); ok {
		if err := v.ValidateParams(a.Params); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidParameters, a.Kind(), err)
		}
	}
	return nil
}

func (a PluginAdjustment) PreviewCost() float64 {
	if c, ok := a.Plugin.(CostEstimator); ok {
		return c.PreviewCost(a.Params)
	}
	return 1
}

func (a PluginAdjustment) Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error) {
	done, err := prepare(a, src, sel)
	if err != nil {
		return nil, err
	}
	if done {
		return src.Clone(), ctx.Err()
	}
	out, err := a.Plugin.Apply(ctx, src, sel, a.Params.Clone())
	if err != nil {
		return nil, fmt.Errorf("adjust: plugin %s: %w", a.Plugin.Name(), err)
	}
	if out == nil || out.Width() != src.Width() || out.Height() != src.Height() {
		return nil, fmt.Errorf("adjust: plugin %s returned a buffer of the wrong size", a.Plugin.Name())
	}
	if out == src {
		out = src.Clone()
	}
	return neighbourhood(ctx, src, out, sel)
}
