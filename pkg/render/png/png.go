// Package png rasterizes a frame.
//
// Layers are composited in paint order on a canvas-sized stage. Each layer
// box fills the stage (images are fitted, keeping aspect ratio), is
// cropped by its inset in local coordinates, then rotated, scaled and
// translated about the stage center, and finally blended with its opacity.
// Video layers are drawn as labelled boxes since there is no decoder.
// Values a browser would accept but a raster cannot represent (NaN
// offsets, zero scale) make the layer invisible instead of failing.
package png

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/inconsolata"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/compositor/transform"
	"github.com/matzehuels/reelstack/pkg/render"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

// maxScale bounds the scaled size of a layer relative to the canvas.
const maxScale = 8

// Loader returns the bytes of a media source.
type Loader interface {
	Open(ctx context.Context, source string) ([]byte, error)
}

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	canvas render.Canvas
	loader Loader
	logger *log.Logger
}

// WithCanvas sets the output size and background.
func WithCanvas(c render.Canvas) Option { return func(r *renderer) { r.canvas = c } }

// WithLoader enables drawing image layers from their sources.
func WithLoader(l Loader) Option { return func(r *renderer) { r.loader = l } }

// WithLogger sets the logger for sources that fail to load.
func WithLogger(l *log.Logger) Option { return func(r *renderer) { r.logger = l } }

var (
	videoFill  = color.NRGBA{0x1b, 0x1b, 0x1b, 0xff}
	imageFill  = color.NRGBA{0x2d, 0x3a, 0x4a, 0xff}
	labelColor = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	dimColor   = color.NRGBA{0x88, 0x88, 0x88, 0xff}
	selectLine = color.NRGBA{0x4d, 0xa3, 0xff, 0xff}
)

// Render encodes f as a PNG image.
func Render(ctx context.Context, f compositor.Frame, opts ...Option) ([]byte, error) {
	img, err := Image(ctx, f, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gg.NewContextForImage(img).EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Image composites f without encoding it.
func Image(ctx context.Context, f compositor.Frame, opts ...Option) (image.Image, error) {
	r := renderer{logger: log.Default()}
	for _, opt := range opts {
		opt(&r)
	}
	r.canvas = r.canvas.WithDefaults()
	bg, err := render.ParseColor(r.canvas.Background)
	if err != nil {
		return nil, err
	}

	w, h := r.canvas.Width, r.canvas.Height
	dc := gg.NewContext(w, h)
	dc.SetColor(bg)
	dc.Clear()
	dc.SetFontFace(inconsolata.Regular8x16)

	if f.Empty {
		dc.SetColor(dimColor)
		dc.DrawStringAnchored(compositor.Placeholder, float64(w)/2, float64(h)/2, 0.5, 0.5)
		return dc.Image(), nil
	}

	for _, l := range f.Layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.drawLayer(ctx, dc, l)
	}
	r.drawIndicators(dc, f)
	return dc.Image(), nil
}

func (r *renderer) drawLayer(ctx context.Context, dc *gg.Context, l compositor.RenderedLayer) {
	if !l.Layer.MediaKind.Visual() {
		return
	}
	w, h := r.canvas.Width, r.canvas.Height

	box := r.layerBox(ctx, l.Layer)
	if crop := l.Description.Crop; crop != nil {
		box = applyCrop(box, *crop)
		if box == nil {
			return
		}
	}

	var tx, ty float64
	for _, op := range l.Description.Ops {
		switch op.Kind {
		case transform.OpRotate:
			if render.Finite(op.Value) {
				box = imaging.Rotate(box, -op.Value, color.Transparent)
			}
		case transform.OpScale:
			if box = applyScale(box, op.Value, w, h); box == nil {
				return
			}
		case transform.OpTranslate:
			tx, ty = op.X, op.Y
		}
	}
	if !render.Finite(tx) || !render.Finite(ty) {
		return
	}

	if alpha := render.Unit(l.Description.Opacity, 1); alpha < 1 {
		box = imaging.AdjustFunc(box, func(c color.NRGBA) color.NRGBA {
			c.A = uint8(math.Round(float64(c.A) * alpha))
			return c
		})
	}

	cx, cy := float64(w)/2+tx, float64(h)/2+ty
	dc.DrawImageAnchored(box, int(math.Round(cx)), int(math.Round(cy)), 0.5, 0.5)

	if l.Selected {
		b := box.Bounds()
		dc.SetColor(selectLine)
		dc.SetLineWidth(3)
		dc.DrawRectangle(cx-float64(b.Dx())/2, cy-float64(b.Dy())/2, float64(b.Dx()), float64(b.Dy()))
		dc.Stroke()
	}
}

// layerBox returns the stage-sized, untransformed content of a layer.
func (r *renderer) layerBox(ctx context.Context, l timeline.ClipLayer) *image.NRGBA {
	w, h := r.canvas.Width, r.canvas.Height
	if l.MediaKind == timeline.KindImage && r.loader != nil && l.SourceURL != "" {
		src, err := r.loadImage(ctx, l.SourceURL)
		if err == nil {
			return imaging.PasteCenter(imaging.New(w, h, color.Transparent), imaging.Fit(src, w, h, imaging.Lanczos))
		}
		r.logger.Warn("image source unavailable", "layer", l.ID, "source", l.SourceURL, "err", err)
	}

	fill := videoFill
	label := l.ID
	if l.MediaKind == timeline.KindVideo {
		label = fmt.Sprintf("%s @ %ss", l.ID, render.Num(l.ClipTime))
	} else {
		fill = imageFill
	}
	dc := gg.NewContext(w, h)
	dc.SetColor(fill)
	dc.Clear()
	dc.SetFontFace(inconsolata.Regular8x16)
	dc.SetColor(labelColor)
	dc.DrawStringAnchored(label, float64(w)/2, float64(h)/2, 0.5, 0.5)
	return imaging.Clone(dc.Image())
}

func (r *renderer) loadImage(ctx context.Context, source string) (image.Image, error) {
	data, err := r.loader.Open(ctx, source)
	if err != nil {
		return nil, err
	}
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

// applyCrop clears everything outside the inset. It returns nil when
// nothing remains visible.
func applyCrop(box *image.NRGBA, in transform.Inset) *image.NRGBA {
	b := box.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	pct := func(v float64) float64 {
		if !render.Finite(v) {
			return 0
		}
		return math.Max(0, v) / 100
	}
	rect := image.Rect(
		int(math.Round(w*pct(in.Left))),
		int(math.Round(h*pct(in.Top))),
		int(math.Round(w-w*pct(in.Right))),
		int(math.Round(h-h*pct(in.Bottom))),
	).Intersect(b)
	if rect.Empty() {
		return nil
	}
	return imaging.Paste(imaging.New(b.Dx(), b.Dy(), color.Transparent), imaging.Crop(box, rect), rect.Min)
}

// applyScale resizes about the center. Negative factors mirror the layer.
func applyScale(box *image.NRGBA, s float64, w, h int) *image.NRGBA {
	if !render.Finite(s) || s == 0 {
		return nil
	}
	if s < 0 {
		box = imaging.Rotate180(box)
		s = -s
	}
	s = math.Min(s, maxScale)
	b := box.Bounds()
	nw, nh := int(math.Round(float64(b.Dx())*s)), int(math.Round(float64(b.Dy())*s))
	if nw < 1 || nh < 1 {
		return nil
	}
	return imaging.Resize(box, nw, nh, imaging.Linear)
}

func (r *renderer) drawIndicators(dc *gg.Context, f compositor.Frame) {
	dc.SetFontFace(inconsolata.Bold8x16)
	dc.SetColor(labelColor)
	dc.DrawStringAnchored(strings.ToUpper(string(f.Mode)), 12, 20, 0, 0.5)
	if f.ShowCount {
		dc.DrawStringAnchored(fmt.Sprintf("%d layers", f.Count), float64(r.canvas.Width)-12, 20, 1, 0.5)
	}
}
