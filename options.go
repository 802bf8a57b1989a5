package imgedit

import (
	"github.com/gogpu/imgedit/adjust"
	"github.com/gogpu/imgedit/color"
)

// Option configures a Document during creation or decoding.
//
// Example:
//
//	// Default sRGB document with 100 undo steps
//	doc, err := imgedit.New(800, 600)
//
//	// Linear-light blending and a white background
//	doc, err := imgedit.New(800, 600,
//	    imgedit.WithBlendSpace(imgedit.BlendLinear),
//	    imgedit.WithBackground(color.White))
type Option func(*options)

// Defaults for document options.
const (
	DefaultHistoryLimit  = 100
	DefaultResolution    = 72.0
	DefaultPreviewBudget = 1 << 20
	DefaultTitle         = "Untitled"
)

// options holds the configuration of a Document.
type options struct {
	title         string
	resolution    float64
	profile       string
	manager       *color.Manager
	blendSpace    BlendSpace
	background    color.RGBA
	historyLimit  int
	merge         bool
	strict        bool
	registry      *adjust.Registry
	outputProfile string
	outputIntent  color.Intent
	previewBudget int
}

// defaultOptions returns the default document options.
func defaultOptions() options {
	return options{
		title:         DefaultTitle,
		resolution:    DefaultResolution,
		profile:       color.ProfileSRGB,
		blendSpace:    BlendGamma,
		background:    color.Transparent,
		historyLimit:  DefaultHistoryLimit,
		merge:         true,
		previewBudget: DefaultPreviewBudget,
		outputIntent:  color.Perceptual,
	}
}

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithResolution sets the print resolution in pixels per inch.
// Non-positive values are ignored.
func WithResolution(ppi float64) Option {
	return func(o *options) {
		if ppi > 0 {
			o.resolution = ppi
		}
	}
}

// WithProfile sets the name of the document's working color profile.
// The default is color.ProfileSRGB. A name the color manager does not know
// is kept; transforms involving it fall back to identity with a warning.
func WithProfile(name string) Option {
	return func(o *options) {
		o.profile = name
	}
}

// WithColorManager sets the color manager holding the document's profiles.
// By default every document gets its own manager with the built-in
// profiles.
func WithColorManager(m *color.Manager) Option {
	return func(o *options) {
		o.manager = m
	}
}

// WithBlendSpace selects whether blend modes operate on the stored
// gamma-encoded values (the default) or in linear light.
func WithBlendSpace(s BlendSpace) Option {
	return func(o *options) {
		o.blendSpace = s
	}
}

// WithBackground sets the color layers are composited onto. The default
// is transparent.
func WithBackground(c color.RGBA) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithHistoryLimit sets how many commands Undo can reach. Older commands
// are dropped first. A non-positive limit means unlimited.
func WithHistoryLimit(n int) Option {
	return func(o *options) {
		o.historyLimit = n
	}
}

// WithMerge enables or disables merging of consecutive mergeable commands,
// such as repeated opacity changes on one layer. Merging is on by default.
func WithMerge(enabled bool) Option {
	return func(o *options) {
		o.merge = enabled
	}
}

// WithStrict makes structural errors (such as a nonexistent layer index)
// panic instead of being logged and returned. Use it in tests and debug
// builds.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithRegistry sets the plugin registry used to revive plugin adjustments
// in Decode.
func WithRegistry(r *adjust.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithOutputProfile converts composited output from the working profile to
// the named profile with the given rendering intent. By default output
// stays in the working profile.
func WithOutputProfile(name string, intent color.Intent) Option {
	return func(o *options) {
		o.outputProfile = name
		o.outputIntent = intent
	}
}

// WithPreviewBudget sets the work budget of CompositePreview, measured in
// pixels times adjustment preview cost. Documents above it are previewed
// at reduced size.
func WithPreviewBudget(pixels int) Option {
	return func(o *options) {
		if pixels > 0 {
			o.previewBudget = pixels
		}
	}
}
