package imgedit

import (
	"context"
	"errors"
	"math"

	"github.com/gogpu/imgedit/color"
	"github.com/gogpu/imgedit/pixel"
)

// Composite renders the document: the background, then every visible
// layer bottom to top with its adjustments, blend mode and opacity. When
// an output profile is configured the result is converted to it.
//
// Composite does not modify the document and is deterministic: equal
// documents give bit-identical results regardless of parallelism.
func (d *Document) Composite(ctx context.Context) (*pixel.Buffer, error) {
	out, err := d.compose(ctx, d.layers)
	if err != nil {
		return nil, err
	}
	return d.toOutput(ctx, out)
}

// compose blends layers over the background in the working profile.
func (d *Document) compose(ctx context.Context, layers []*Layer) (*pixel.Buffer, error) {
	canvas, err := pixel.New(d.width, d.height, d.opts.background)
	if err != nil {
		return nil, err
	}
	for _, l := range layers {
		if err := l.Render(ctx, canvas, d.opts.blendSpace); err != nil {
			return nil, err
		}
	}
	return canvas, nil
}

// toOutput converts b in place from the working profile to the output
// profile.
func (d *Document) toOutput(ctx context.Context, b *pixel.Buffer) (*pixel.Buffer, error) {
	to := d.opts.outputProfile
	if to == "" || to == d.opts.profile {
		return b, nil
	}
	t, err := d.manager.Transformer(d.opts.profile, to, d.opts.outputIntent)
	if errors.Is(err, color.ErrProfileMissing) {
		Logger().Warn("imgedit: output profile unavailable, skipping conversion",
			"from", d.opts.profile, "to", to, "err", err)
		return b, nil
	}
	if err != nil {
		return nil, err
	}
	if t.Identity() {
		return b, nil
	}
	// Transformer memoizes per color and is not safe for concurrent use.
	for y := range b.Height() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := b.Row(y)
		for i := 0; i < len(row); i += 4 {
			c := t.Apply(color.RGBA{R: row[i], G: row[i+1], B: row[i+2], A: row[i+3]})
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return b, nil
}

// previewCost estimates the per-pixel work of compositing the visible
// layers, in units of one simple pointwise pass.
func (d *Document) previewCost() float64 {
	cost := 0.0
	for _, l := range d.layers {
		if !l.visible {
			continue
		}
		cost++
		if l.mask != nil {
			cost++
		}
		for _, e := range l.stack {
			cost += e.Adjustment.PreviewCost()
		}
	}
	return cost
}

// CompositePreview renders the document like Composite, but when the
// estimated work exceeds the preview budget (see WithPreviewBudget) it
// renders at a reduced size instead. It returns the preview and its scale
// relative to the canvas; a scale of 1 means the result is exactly
// Composite's.
//
// Reduced previews resample layer pixels before their adjustments run.
// Selections are resized and blur-like filters scaled to match, so
// previews approximate the full render.
func (d *Document) CompositePreview(ctx context.Context) (*pixel.Buffer, float64, error) {
	work := d.previewCost() * float64(d.width) * float64(d.height)
	budget := float64(d.opts.previewBudget)
	if work <= budget {
		out, err := d.Composite(ctx)
		return out, 1, err
	}

	scale := math.Sqrt(budget / work)
	pw := max(1, int(math.Round(float64(d.width)*scale)))
	ph := max(1, int(math.Round(float64(d.height)*scale)))
	Logger().Debug("imgedit: reduced preview", "scale", scale, "width", pw, "height", ph)

	canvas, err := pixel.New(pw, ph, d.opts.background)
	if err != nil {
		return nil, 0, err
	}
	for _, l := range d.layers {
		if !l.visible || l.opacity <= 0 {
			continue
		}
		src, err := l.pixels.Resample(pw, ph, pixel.ApproxBilinear)
		if err != nil {
			return nil, 0, err
		}
		adjusted, err := applyStack(ctx, src, l.stack, scale)
		if err != nil {
			return nil, 0, err
		}
		if l.mask != nil && !l.mask.IsAll() {
			mask, err := l.mask.Resize(pw, ph)
			if err != nil {
				return nil, 0, err
			}
			if err := mask.Attenuate(ctx, adjusted); err != nil {
				return nil, 0, err
			}
		}
		if err := compositeOnto(ctx, canvas, adjusted, l.mode, d.opts.blendSpace, l.opacity); err != nil {
			return nil, 0, err
		}
	}
	out, err := d.toOutput(ctx, canvas)
	if err != nil {
		return nil, 0, err
	}
	return out, scale, nil
}
