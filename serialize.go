package imgedit

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/imgedit/adjust"
	"github.com/gogpu/imgedit/color"
	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

// Format identifies the document encoding written by Encode.
const Format = "imgedit/1"

// maxDecodeSide bounds canvas dimensions accepted by Decode.
const maxDecodeSide = 1 << 16

// manifest is the YAML form of a document. Pixel and coverage planes are
// little-endian float32 values, zlib-compressed and base64-encoded, so
// they round-trip bit for bit.
type manifest struct {
	Format     string        `yaml:"format"`
	Title      string        `yaml:"title"`
	Width      int           `yaml:"width"`
	Height     int           `yaml:"height"`
	Resolution float64       `yaml:"resolution"`
	Profile    string        `yaml:"profile"`
	Background [4]float32    `yaml:"background,flow"`
	BlendSpace string        `yaml:"blend-space"`
	Selection  string        `yaml:"selection,omitempty"`
	Layers     []layerRecord `yaml:"layers"`
}

type layerRecord struct {
	ID          LayerID       `yaml:"id"`
	Name        string        `yaml:"name"`
	Mode        string        `yaml:"mode"`
	Opacity     float32       `yaml:"opacity"`
	Visible     bool          `yaml:"visible"`
	Locked      bool          `yaml:"locked,omitempty"`
	Pixels      string        `yaml:"pixels"`
	Mask        string        `yaml:"mask,omitempty"`
	Adjustments []entryRecord `yaml:"adjustments,omitempty"`
}

type entryRecord struct {
	adjust.Record `yaml:",inline"`
	Selection     string `yaml:"selection,omitempty"`
}

// Encode writes d to w: layers, adjustment stacks, layer masks,
// selection, canvas metadata and the working profile name. Profile data
// itself is not embedded. History is not saved.
//
// Encoding the same document twice produces identical bytes.
func Encode(w io.Writer, d *Document) error {
	m := manifest{
		Format:     Format,
		Title:      d.opts.title,
		Width:      d.width,
		Height:     d.height,
		Resolution: d.opts.resolution,
		Profile:    d.opts.profile,
		Background: [4]float32{d.opts.background.R, d.opts.background.G, d.opts.background.B, d.opts.background.A},
		BlendSpace: d.opts.blendSpace.String(),
		Layers:     make([]layerRecord, len(d.layers)),
	}
	if !d.sel.IsAll() {
		m.Selection = encodePlane(d.sel.Mask())
	}
	for i, l := range d.layers {
		lr := layerRecord{
			ID:      l.id,
			Name:    l.name,
			Mode:    l.mode.String(),
			Opacity: l.opacity,
			Visible: l.visible,
			Locked:  l.locked,
			Pixels:  encodePlane(l.pixels.Pix()),
		}
		if l.mask != nil {
			lr.Mask = encodePlane(l.mask.Mask())
		}
		for j, e := range l.stack {
			rec, err := adjust.Encode(e.Adjustment)
			if err != nil {
				return fmt.Errorf("imgedit: encode layer %q adjustment %d: %w", l.name, j, err)
			}
			er := entryRecord{Record: rec}
			if e.Selection != nil {
				er.Selection = encodePlane(e.Selection.Mask())
			}
			lr.Adjustments = append(lr.Adjustments, er)
		}
		m.Layers[i] = lr
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&m); err != nil {
		return fmt.Errorf("imgedit: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("imgedit: encode: %w", err)
	}
	Logger().Debug("imgedit: document encoded", "title", d.opts.title, "layers", len(d.layers))
	return nil
}

// Decode reads a document written by Encode. Metadata stored in the
// document (title, resolution, profile, background, blend space) is
// applied first and opts after it, so options override stored values.
// Pass WithRegistry to revive plugin adjustments.
//
// The decoded document has an empty history and is not dirty. Malformed
// input returns an error wrapping ErrInvalidDocument.
func Decode(r io.Reader, opts ...Option) (*Document, error) {
	var m manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if m.Format != Format {
		return nil, fmt.Errorf("%w: format %q, want %q", ErrInvalidDocument, m.Format, Format)
	}
	if m.Width <= 0 || m.Height <= 0 || m.Width > maxDecodeSide || m.Height > maxDecodeSide {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrInvalidDocument, m.Width, m.Height)
	}

	o := defaultOptions()
	o.title = m.Title
	o.profile = m.Profile
	o.background = color.RGBA{R: m.Background[0], G: m.Background[1], B: m.Background[2], A: m.Background[3]}
	if m.Resolution > 0 {
		o.resolution = m.Resolution
	}
	switch m.BlendSpace {
	case BlendGamma.String():
		o.blendSpace = BlendGamma
	case BlendLinear.String():
		o.blendSpace = BlendLinear
	default:
		return nil, fmt.Errorf("%w: blend space %q", ErrInvalidDocument, m.BlendSpace)
	}
	for _, opt := range opts {
		opt(&o)
	}

	d := newDocument(m.Width, m.Height, o)
	if m.Selection != "" {
		sel, err := decodeSelection(m.Selection, m.Width, m.Height)
		if err != nil {
			return nil, fmt.Errorf("document selection: %w", err)
		}
		d.sel = sel
	}

	seen := make(map[LayerID]bool, len(m.Layers))
	for i, lr := range m.Layers {
		l, err := decodeLayer(lr, m.Width, m.Height, o.registry)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if l.id == 0 || seen[l.id] {
			return nil, fmt.Errorf("%w: layer %d has invalid or duplicate id %d", ErrInvalidDocument, i, l.id)
		}
		seen[l.id] = true
		d.layers = append(d.layers, l)
		d.nextID = max(d.nextID, l.id+1)
	}

	Logger().Info("imgedit: document decoded",
		"title", o.title, "width", m.Width, "height", m.Height, "layers", len(d.layers))
	return d, nil
}

func decodeLayer(lr layerRecord, w, h int, reg *adjust.Registry) (*Layer, error) {
	mode, err := ParseBlendMode(lr.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !(lr.Opacity >= 0 && lr.Opacity <= 1) {
		return nil, fmt.Errorf("%w: opacity %v", ErrInvalidDocument, lr.Opacity)
	}
	vals, err := decodePlane(lr.Pixels, w*h*4)
	if err != nil {
		return nil, fmt.Errorf("pixels: %w", err)
	}
	px, err := pixel.New(w, h, color.Transparent)
	if err != nil {
		return nil, err
	}
	copy(px.Pix(), vals)

	l := newLayer(lr.ID, lr.Name, px)
	l.mode, l.opacity, l.visible, l.locked = mode, lr.Opacity, lr.Visible, lr.Locked
	if lr.Mask != "" {
		if l.mask, err = decodeSelection(lr.Mask, w, h); err != nil {
			return nil, fmt.Errorf("mask: %w", err)
		}
	}
	for j, er := range lr.Adjustments {
		a, err := adjust.Decode(er.Record, reg)
		if err != nil {
			return nil, fmt.Errorf("%w: adjustment %d: %w", ErrInvalidDocument, j, err)
		}
		e := StackEntry{Adjustment: a}
		if er.Selection != "" {
			if e.Selection, err = decodeSelection(er.Selection, w, h); err != nil {
				return nil, fmt.Errorf("adjustment %d selection: %w", j, err)
			}
			if e.Selection.IsAll() {
				e.Selection = nil
			}
		}
		l.stack = append(l.stack, e)
	}
	return l, nil
}

func decodeSelection(s string, w, h int) (*selection.Selection, error) {
	mask, err := decodePlane(s, w*h)
	if err != nil {
		return nil, err
	}
	sel, err := selection.FromMask(w, h, mask)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return sel, nil
}

func encodePlane(vals []float32) string {
	raw := make([]byte, 0, 4*len(vals))
	for _, v := range vals {
		raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(v))
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	// Writes to a bytes.Buffer cannot fail.
	_, _ = zw.Write(raw)
	_ = zw.Close()
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// decodePlane decodes exactly n float32 values.
func decodePlane(s string, n int) ([]float32, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(io.LimitReader(zr, int64(4*n)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if len(raw) != 4*n {
		return nil, fmt.Errorf("%w: plane has %d bytes, want %d", ErrInvalidDocument, len(raw), 4*n)
	}
	vals := make([]float32, n)
	for i := range vals {
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return vals, nil
}
