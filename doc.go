// Package imgedit is a layered, non-destructive image-editing engine.
//
// # Overview
//
// A Document is a fixed-size canvas holding an ordered stack of layers.
// Each layer owns its pixels and a stack of adjustments (brightness,
// levels, curves, blur and so on) that are applied at render time, so the
// original pixels are never lost. Every edit is a Command executed through
// the document, which records it for undo and redo.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/imgedit"
//	    "github.com/gogpu/imgedit/adjust"
//	    "github.com/gogpu/imgedit/color"
//	)
//
//	doc, err := imgedit.New(640, 480, imgedit.WithBackground(color.White))
//	if err != nil {
//	    return err
//	}
//
//	add := &imgedit.AddLayer{Name: "photo", Pixels: buf}
//	doc.Execute(add)
//	doc.Execute(&imgedit.AddAdjustment{Index: 0, Adjustment: adjust.Brightness{Offset: 0.1}})
//
//	out, err := doc.Composite(ctx)
//	doc.Undo()
//
// # Pixels and Color
//
// Pixels are straight-alpha float32 RGBA in the document's working color
// profile (sRGB by default). Blend modes operate on the stored
// gamma-encoded values unless WithBlendSpace(BlendLinear) is given.
// WithOutputProfile converts the composite to another ICC profile.
//
// # Selections
//
// The document selection restricts new adjustments and fills. Coverage is
// fractional: a pixel with coverage c receives original·(1-c) + edited·c.
//
// # Concurrency
//
// A Document has a single writer. Rendering parallelizes internally over
// row bands and honors context cancellation. Composite calls may run
// concurrently with each other but not with Execute, Undo or Redo.
//
// # Persistence
//
// Encode and Decode store a document as a YAML manifest with compressed
// float32 pixel planes. Round trips are bit-exact.
package imgedit

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
