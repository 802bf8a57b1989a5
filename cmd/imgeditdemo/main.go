// Command imgeditdemo builds a small layered document, renders it to PNG
// and optionally saves the editable document.
package main

import (
	"context"
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/imgedit"
	"github.com/gogpu/imgedit/adjust"
	"github.com/gogpu/imgedit/color"
	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

func main() {
	var (
		width   = flag.Int("width", 640, "canvas width")
		height  = flag.Int("height", 480, "canvas height")
		input   = flag.String("input", "", "optional PNG used as the base layer")
		output  = flag.String("output", "demo.png", "output PNG file")
		save    = flag.String("save", "", "optional file to save the editable document to")
		linear  = flag.Bool("linear", false, "blend in linear light")
		verbose = flag.Bool("v", false, "log engine events to stderr")
	)
	flag.Parse()

	if *verbose {
		imgedit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	base, err := loadBase(*input, *width, *height)
	if err != nil {
		log.Fatalf("Failed to load input: %v", err)
	}

	space := imgedit.BlendGamma
	if *linear {
		space = imgedit.BlendLinear
	}
	doc, err := imgedit.New(base.Width(), base.Height(),
		imgedit.WithTitle("imgedit demo"),
		imgedit.WithBackground(color.White),
		imgedit.WithBlendSpace(space))
	if err != nil {
		log.Fatalf("Failed to create document: %v", err)
	}

	if err := buildDemo(doc, base); err != nil {
		log.Fatalf("Failed to build document: %v", err)
	}

	out, err := doc.Composite(context.Background())
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if err := writePNG(*output, out.ToNRGBA()); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d, %d layers)\n", *output, doc.Width(), doc.Height(), doc.Len())

	if *save != "" {
		f, err := os.Create(*save)
		if err != nil {
			log.Fatalf("Failed to save document: %v", err)
		}
		if err := imgedit.Encode(f, doc); err != nil {
			_ = f.Close()
			log.Fatalf("Failed to save document: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("Failed to save document: %v", err)
		}
		log.Printf("Document saved to %s\n", *save)
	}
}

func loadBase(path string, w, h int) (*pixel.Buffer, error) {
	if path == "" {
		return gradient(w, h)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	return pixel.FromImage(img)
}

func gradient(w, h int) (*pixel.Buffer, error) {
	return pixel.Gradient{
		End: pixel.Pt(float64(w), float64(h)),
		Stops: []pixel.ColorStop{
			{Offset: 0, Color: color.RGBA{R: 0.1, G: 0.2, B: 0.6, A: 1}},
			{Offset: 1, Color: color.RGBA{R: 0.7, G: 0.7, B: 0.2, A: 1}},
		},
		Smooth: true,
	}.Render(w, h)
}

// buildDemo layers a tinted, partially blurred base with a masked, multiplied
// vignette, all as one undoable batch.
func buildDemo(doc *imgedit.Document, base *pixel.Buffer) error {
	w, h := doc.Width(), doc.Height()
	center := image.Rect(w/6, h/6, w*5/6, h*5/6)
	vignette := selection.Ellipse(w, h, center).Invert()
	soft, err := vignette.Feather(context.Background(), float64(min(w, h))/20)
	if err != nil {
		return err
	}

	levels := adjust.NewLevels()
	levels.Master.Gamma = 1.2

	return doc.Execute(&imgedit.Batch{Name: "Demo", Commands: []imgedit.Command{
		&imgedit.AddLayer{Name: "Base", Pixels: base},
		&imgedit.AddAdjustment{Index: 0, Adjustment: levels},
		&imgedit.AddAdjustment{Index: 0, Adjustment: adjust.HSL{Hue: 15, Saturation: 0.2}},
		&imgedit.AddAdjustment{Index: 0, Adjustment: adjust.Blur{Sigma: 3}, Selection: soft},
		&imgedit.AddLayer{Name: "Vignette", Fill: color.RGBA{R: 0.35, G: 0.3, B: 0.45, A: 1}},
		&imgedit.SetBlendMode{Index: 1, Mode: imgedit.BlendMultiply},
		&imgedit.SetOpacity{Index: 1, Opacity: 0.6},
		&imgedit.AddMask{Index: 1, Mask: soft},
	}})
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
