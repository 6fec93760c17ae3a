package tracker

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Icons
const (
	knobSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24">
<circle cx="12" cy="12" r="10" fill="none" stroke="currentColor" stroke-width="2"/>
<circle cx="12" cy="12" r="3" fill="currentColor"/>
</svg>`

	crosshairSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24">
<path d="M12 2 L12 9 M12 15 L12 22 M2 12 L9 12 M15 12 L22 12" fill="none" stroke="currentColor" stroke-width="2"/>
</svg>`

	mouseIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24">
<rect x="6" y="3" width="12" height="18" rx="6" fill="none" stroke="currentColor" stroke-width="2"/>
<path d="M12 7 L12 11" fill="none" stroke="currentColor" stroke-width="2"/>
</svg>`

	touchIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24">
<circle cx="12" cy="10" r="4" fill="currentColor"/>
<circle cx="12" cy="10" r="8" fill="none" stroke="currentColor" stroke-width="1.5"/>
</svg>`
)

// Colors
var (
	colorBackground = color.RGBA{25, 25, 25, 255}
	colorGuide      = color.RGBA{55, 55, 55, 255}
	colorKeyBg      = color.RGBA{40, 40, 40, 255}
	colorSelected   = color.RGBA{30, 90, 160, 255}
	colorActive     = color.RGBA{255, 200, 50, 255}
	colorItem       = color.RGBA{100, 149, 237, 255}
	colorWhite      = color.RGBA{255, 255, 255, 255}
	colorGray       = color.RGBA{160, 160, 160, 255}
)

// initFonts initializes the font faces for rendering.
func (m *Module) initFonts() error {
	ttBold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return fmt.Errorf("parse bold font: %w", err)
	}

	m.labelFace, err = opentype.NewFace(ttBold, &opentype.FaceOptions{
		Size:    13,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("create label face: %w", err)
	}

	ttRegular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse regular font: %w", err)
	}

	m.valueFace, err = opentype.NewFace(ttRegular, &opentype.FaceOptions{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("create value face: %w", err)
	}

	return nil
}

// renderStrip draws the tracker region: the item, the active position and
// a status line.
func (m *Module) renderStrip(rect image.Rectangle, snap snapshot) image.Image {
	img := image.NewRGBA(rect)
	w, h := rect.Dx(), rect.Dy()
	draw.Draw(img, rect, &image.Uniform{colorBackground}, image.Point{}, draw.Src)

	// Center guides
	draw.Draw(img, image.Rect(w/2, 0, w/2+1, h), &image.Uniform{colorGuide}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, h/2, w, h/2+1), &image.Uniform{colorGuide}, image.Point{}, draw.Src)

	st := snap.State

	// Item
	iw, ih := int(st.ItemDimensions.Width), int(st.ItemDimensions.Height)
	if iw > 0 && ih > 0 {
		size := min(iw, ih)
		knob := renderSVGIcon(knobSVG, size, colorItem)
		x := int(st.ItemPosition.X) + (iw-size)/2
		y := int(st.ItemPosition.Y) + (ih-size)/2
		draw.Draw(img, image.Rect(x, y, x+size, y+size), knob, image.Point{}, draw.Over)
	}

	// Active position
	if st.Active {
		const size = 24
		cross := renderSVGIcon(crosshairSVG, size, colorActive)
		x := int(st.ActivePosition.X) - size/2
		y := int(st.ActivePosition.Y) - size/2
		draw.Draw(img, image.Rect(x, y, x+size, y+size), cross, image.Point{}, draw.Over)
	}

	status := fmt.Sprintf("%s / %s", snap.Mouse, snap.Touch)
	m.drawText(img, status, 6, 16, m.labelFace, colorWhite)

	value := fmt.Sprintf("x%.2f", snap.Multiplier)
	if st.Active {
		value = fmt.Sprintf("%.0f,%.0f  %s", st.ActivePosition.X, st.ActivePosition.Y, value)
	}
	m.drawText(img, value, 6, h-8, m.valueFace, colorGray)

	return img
}

// renderMethodKey draws an activation method key.
func (m *Module) renderMethodKey(rect image.Rectangle, name, icon string, selected bool) image.Image {
	img := image.NewRGBA(rect)
	bg := colorKeyBg
	if selected {
		bg = colorSelected
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	w, h := rect.Dx(), rect.Dy()
	iconSize := h / 2
	iconImg := renderSVGIcon(icon, iconSize, colorWhite)
	iconX := (w - iconSize) / 2
	iconY := h / 8
	draw.Draw(img, image.Rect(iconX, iconY, iconX+iconSize, iconY+iconSize), iconImg, image.Point{}, draw.Over)

	// Center the method name below the icon
	width := font.MeasureString(m.labelFace, name).Ceil()
	m.drawText(img, name, (w-width)/2, h-h/8, m.labelFace, colorWhite)

	return img
}

// renderSVGIcon renders an SVG string to an image with the given size and color.
func renderSVGIcon(svgContent string, size int, iconColor color.Color) image.Image {
	// Replace currentColor with the actual color
	r, g, b, _ := iconColor.RGBA()
	hexColor := fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
	svgContent = strings.ReplaceAll(svgContent, "currentColor", hexColor)

	img := image.NewRGBA(image.Rect(0, 0, size, size))

	icon, err := oksvg.ReadIconStream(strings.NewReader(svgContent))
	if err != nil {
		log.Printf("Failed to parse SVG: %v", err)
		return img
	}

	icon.SetTarget(0, 0, float64(size), float64(size))

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img
}

// drawText draws text at the given position.
func (m *Module) drawText(img *image.RGBA, text string, x, y int, face font.Face, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
