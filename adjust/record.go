package adjust

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Record is the persisted form of an adjustment: its kind and its
// parameters as a YAML mapping. Float parameters are written with the
// shortest representation that parses back to the same value, so
// records round-trip exactly.
type Record struct {
	Kind   string    `yaml:"kind"`
	Params yaml.Node `yaml:"params"`
}

// pluginRecord is the parameter mapping of a plugin adjustment.
type pluginRecord struct {
	Params Params `yaml:"params,omitempty"`
}

// Encode returns the record for a.
func Encode(a Adjustment) (Record, error) {
	rec := Record{Kind: a.Kind()}
	var v any = a
	if p, ok := a.(PluginAdjustment); ok {
		if p.Plugin == nil {
			return Record{}, invalid(pluginKindPrefix, "no plugin")
		}
		v = pluginRecord{Params: p.Params}
	}
	if err := rec.Params.Encode(v); err != nil {
		return Record{}, fmt.Errorf("adjust: encode %s: %w", rec.Kind, err)
	}
	return rec, nil
}

// Decode revives the adjustment stored in rec. Plugin adjustments are
// looked up in reg, which may be nil when none are expected. The result
// is validated.
func Decode(rec Record, reg *Registry) (Adjustment, error) {
	a, err := decode(rec, reg)
	if err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func decode(rec Record, reg *Registry) (Adjustment, error) {
	if name, ok := strings.CutPrefix(rec.Kind, pluginKindPrefix); ok {
		p, found := reg.Lookup(name)
		if !found {
			return nil, fmt.Errorf("%w: plugin %q is not registered", ErrUnknownKind, name)
		}
		var pr pluginRecord
		if err := decodeParams(rec, &pr); err != nil {
			return nil, err
		}
		return PluginAdjustment{Plugin: p, Params: pr.Params}, nil
	}

	switch rec.Kind {
	case KindBrightness:
		return decodeAs[Brightness](rec)
	case KindContrast:
		return decodeAs[Contrast](rec)
	case KindLevels:
		return decodeAs[Levels](rec)
	case KindCurves:
		return decodeAs[Curves](rec)
	case KindHSL:
		return decodeAs[HSL](rec)
	case KindColorBalance:
		return decodeAs[ColorBalance](rec)
	case KindGrayscale:
		return decodeAs[Grayscale](rec)
	case KindBlur:
		return decodeAs[Blur](rec)
	case KindSharpen:
		return decodeAs[Sharpen](rec)
	case KindNoise:
		return decodeAs[Noise](rec)
	case KindInvert:
		return decodeAs[Invert](rec)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, rec.Kind)
}

func decodeAs[T Adjustment](rec Record) (Adjustment, error) {
	var v T
	if err := decodeParams(rec, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeParams(rec Record, v any) error {
	if rec.Params.Kind == 0 {
		return nil
	}
	if err := rec.Params.Decode(v); err != nil {
		return fmt.Errorf("adjust: decode %s: %w", rec.Kind, err)
	}
	return nil
}
