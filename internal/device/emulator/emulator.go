// Package emulator provides a GUI-based Stream Deck Plus emulator. Besides the
// strip gestures the hardware reports, it delivers raw mouse and touch events
// over the whole window.
package emulator

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phinze/posdeck/internal/device"
)

// Layout constants for Stream Deck Plus
const (
	keySize        = 72  // Key image size (72x72) - native resolution
	keyDisplaySize = 144 // Key display size - clean 2x scale for crisp rendering
	keysPerRow     = 4   // Keys per row
	keyRows        = 2   // Number of key rows
	keyCount       = 8   // Total keys
	dialCount      = 4   // Total dials
	dialSize       = 120 // Visual dial size - similar to key size
	marginX        = 20 // Left/right margin
	marginY        = 20 // Top margin
	headerHeight   = 30 // Title bar height
	stripMarginY   = 72 // Space between keys and strip (~half key height)
	dialMarginY    = 50 // Space between strip and dials
	bottomMarginY  = 50 // Space below dials

	// Strip dimensions (native resolution)
	stripWidth  = 800
	stripHeight = 100

	// Two left clicks this close in time make a double click.
	doubleClickWindow = 400 * time.Millisecond
)

// Calculate layout - strip-native width, keys 2x scaled with remaining space as padding
const (
	keyAreaWidth  = keysPerRow * keyDisplaySize                                   // 4*144 = 576
	keySpacing    = (stripWidth - keyAreaWidth) / (keysPerRow + 1)                // Distribute remaining 224px as spacing = 44px each
	keyAreaHeight = keyRows*keyDisplaySize + (keyRows-1)*keySpacing               // 2*144 + 44 = 332
	dialSpacing   = (stripWidth - dialCount*dialSize) / (dialCount + 1)           // Even spacing for dials
	windowWidth   = 2*marginX + stripWidth
	windowHeight  = headerHeight + marginY + keyAreaHeight + stripMarginY + stripHeight + dialMarginY + dialSize + bottomMarginY

	keysStartX  = marginX + keySpacing
	keysStartY  = headerHeight + marginY
	stripStartX = marginX
	stripStartY = keysStartY + keyAreaHeight + stripMarginY
	dialStartY  = stripStartY + stripHeight + dialMarginY
)

// Emulator implements the device.Device interface using Ebitengine for GUI rendering.
type Emulator struct {
	mu sync.RWMutex

	// State
	open       bool
	brightness byte
	keyImages  [keyCount]*image.RGBA
	stripImage *image.RGBA

	// Handlers
	keyHandlers         [keyCount][]device.KeyHandler
	dialRotateHandlers  [dialCount][]device.DialRotateHandler
	dialSwitchHandlers  [dialCount][]device.DialSwitchHandler
	pointerHandlers     []device.PointerHandler
	stripCursor         ebiten.CursorShape

	// Ebitengine state
	game       *emulatorGame
	stopCh     chan struct{}
	errorCh    chan error
	listenDone chan struct{}

	// Pointer state (managed by game loop)
	prevCursor     image.Point
	prevOverStrip  bool
	lastClickTime  time.Time
	lastClickPoint image.Point
	touches        map[ebiten.TouchID]image.Point
	touchIDs       []ebiten.TouchID
}

// New creates a new emulator instance.
func New() *Emulator {
	e := &Emulator{
		brightness:  80,
		stopCh:      make(chan struct{}),
		stripCursor: ebiten.CursorShapeCrosshair,
		touches:     make(map[ebiten.TouchID]image.Point),
	}

	// Initialize key images to black
	for i := 0; i < keyCount; i++ {
		e.keyImages[i] = image.NewRGBA(image.Rect(0, 0, keySize, keySize))
	}

	// Initialize strip image
	e.stripImage = image.NewRGBA(image.Rect(0, 0, stripWidth, stripHeight))

	return e
}

// Open initializes the emulator.
func (e *Emulator) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.open {
		return fmt.Errorf("emulator: device is already open")
	}

	e.open = true
	e.stopCh = make(chan struct{})
	return nil
}

// Close shuts down the emulator.
func (e *Emulator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return fmt.Errorf("emulator: device is not open")
	}

	e.open = false

	// Signal the game loop to stop
	close(e.stopCh)

	return nil
}

// IsOpen returns whether the emulator is open.
func (e *Emulator) IsOpen() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.open
}

// GetModelName returns the emulated model name.
func (e *Emulator) GetModelName() string {
	return "Stream Deck Plus (Emulator)"
}

// GetKeyCount returns the number of keys.
func (e *Emulator) GetKeyCount() byte {
	return keyCount
}

// GetDialCount returns the number of dials.
func (e *Emulator) GetDialCount() byte {
	return dialCount
}

// GetTouchStripSupported returns true as the emulated device supports touch strip.
func (e *Emulator) GetTouchStripSupported() bool {
	return true
}

// GetKeyImageRectangle returns the key image dimensions.
func (e *Emulator) GetKeyImageRectangle() (image.Rectangle, error) {
	return image.Rect(0, 0, keySize, keySize), nil
}

// GetTouchStripImageRectangle returns the touch strip dimensions.
func (e *Emulator) GetTouchStripImageRectangle() (image.Rectangle, error) {
	return image.Rect(0, 0, stripWidth, stripHeight), nil
}

// SetBrightness sets the display brightness.
func (e *Emulator) SetBrightness(perc byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.brightness = perc
	return nil
}

// SetKeyImage sets the image for a key.
func (e *Emulator) SetKeyImage(key device.KeyID, img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := int(key) - 1
	if idx < 0 || idx >= keyCount {
		return fmt.Errorf("emulator: invalid key ID: %d", key)
	}

	// Create new RGBA image and draw the provided image onto it
	rgba := image.NewRGBA(image.Rect(0, 0, keySize, keySize))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	e.keyImages[idx] = rgba

	return nil
}

// SetTouchStripImage sets the touch strip image.
func (e *Emulator) SetTouchStripImage(img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Create new RGBA image and draw the provided image onto it
	rgba := image.NewRGBA(image.Rect(0, 0, stripWidth, stripHeight))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	e.stripImage = rgba

	return nil
}

// ClearKey clears a key's image to black.
func (e *Emulator) ClearKey(key device.KeyID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := int(key) - 1
	if idx < 0 || idx >= keyCount {
		return fmt.Errorf("emulator: invalid key ID: %d", key)
	}

	e.keyImages[idx] = image.NewRGBA(image.Rect(0, 0, keySize, keySize))
	return nil
}

// ForEachKey calls the callback for each key.
func (e *Emulator) ForEachKey(cb func(device.KeyID) error) error {
	for i := device.KEY_1; i <= device.KEY_8; i++ {
		if err := cb(i); err != nil {
			return err
		}
	}
	return nil
}

// ForEachDial calls the callback for each dial.
func (e *Emulator) ForEachDial(cb func(device.DialID) error) error {
	for i := device.DIAL_1; i <= device.DIAL_4; i++ {
		if err := cb(i); err != nil {
			return err
		}
	}
	return nil
}

// AddKeyHandler registers a key press handler.
func (e *Emulator) AddKeyHandler(key device.KeyID, fn device.KeyHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := int(key) - 1
	if idx < 0 || idx >= keyCount {
		return fmt.Errorf("emulator: invalid key ID: %d", key)
	}

	e.keyHandlers[idx] = append(e.keyHandlers[idx], fn)
	return nil
}

// AddDialRotateHandler registers a dial rotation handler.
func (e *Emulator) AddDialRotateHandler(dial device.DialID, fn device.DialRotateHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := int(dial) - 1
	if idx < 0 || idx >= dialCount {
		return fmt.Errorf("emulator: invalid dial ID: %d", dial)
	}

	e.dialRotateHandlers[idx] = append(e.dialRotateHandlers[idx], fn)
	return nil
}

// AddDialSwitchHandler registers a dial press handler.
func (e *Emulator) AddDialSwitchHandler(dial device.DialID, fn device.DialSwitchHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := int(dial) - 1
	if idx < 0 || idx >= dialCount {
		return fmt.Errorf("emulator: invalid dial ID: %d", dial)
	}

	e.dialSwitchHandlers[idx] = append(e.dialSwitchHandlers[idx], fn)
	return nil
}

// GetTouchStripOrigin returns the strip's top-left corner in window coordinates.
func (e *Emulator) GetTouchStripOrigin() image.Point {
	return image.Pt(stripStartX, stripStartY)
}

// AddPointerHandler registers a raw pointer event handler. Pointer handlers
// run on the GUI goroutine in event order and must not block.
func (e *Emulator) AddPointerHandler(fn device.PointerHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pointerHandlers = append(e.pointerHandlers, fn)
	return nil
}

// SetStripCursor sets the cursor shown while the pointer is over the strip.
// Unknown names show the default cursor.
func (e *Emulator) SetStripCursor(name string) {
	shape := ebiten.CursorShapeDefault
	switch name {
	case "crosshair":
		shape = ebiten.CursorShapeCrosshair
	case "pointer":
		shape = ebiten.CursorShapePointer
	case "move", "grab", "grabbing":
		shape = ebiten.CursorShapeMove
	case "text":
		shape = ebiten.CursorShapeText
	case "ew-resize", "col-resize":
		shape = ebiten.CursorShapeEWResize
	case "ns-resize", "row-resize":
		shape = ebiten.CursorShapeNSResize
	case "not-allowed":
		shape = ebiten.CursorShapeNotAllowed
	}
	e.mu.Lock()
	e.stripCursor = shape
	e.mu.Unlock()
}

// Listen blocks until the emulator is closed.
// For the emulator, the actual event loop runs via RunGUI() which must be called from main.
func (e *Emulator) Listen(errCh chan error) error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: device is not open")
	}
	e.errorCh = errCh
	if e.listenDone == nil {
		e.listenDone = make(chan struct{})
	}
	e.mu.Unlock()

	// Block until GUI is closed
	<-e.listenDone
	return nil
}

// RunGUI starts the Ebitengine GUI loop. This MUST be called from the main goroutine
// on macOS due to Cocoa threading requirements. This method blocks until the window is closed.
func (e *Emulator) RunGUI() error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: device is not open")
	}
	if e.listenDone == nil {
		e.listenDone = make(chan struct{})
	}
	e.game = &emulatorGame{emu: e}
	e.mu.Unlock()

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Stream Deck Plus Emulator")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	// Run the game loop (this blocks until the window is closed)
	err := ebiten.RunGame(e.game)

	// Signal Listen() to unblock
	close(e.listenDone)
	return err
}

// emulatorGame implements ebiten.Game for the emulator.
type emulatorGame struct {
	emu *Emulator
}

func (g *emulatorGame) Update() error {
	// Check for stop signal
	select {
	case <-g.emu.stopCh:
		return ebiten.Termination
	default:
	}

	g.handleInput()
	return nil
}

func (g *emulatorGame) Draw(screen *ebiten.Image) {
	// Background
	screen.Fill(color.RGBA{30, 30, 30, 255})

	g.emu.mu.RLock()
	defer g.emu.mu.RUnlock()

	// Draw title
	ebitenutil.DebugPrintAt(screen, "Stream Deck Plus Emulator", windowWidth/2-100, 8)

	// Draw keys - clean 2x scale (72 -> 144) using nearest-neighbor
	for i := 0; i < keyCount; i++ {
		row := i / keysPerRow
		col := i % keysPerRow

		x := keysStartX + col*(keyDisplaySize+keySpacing)
		y := keysStartY + row*(keyDisplaySize+keySpacing)

		// Draw key background (border)
		drawRect(screen, x-2, y-2, keyDisplaySize+4, keyDisplaySize+4, color.RGBA{60, 60, 60, 255})

		// Draw key image scaled up with nearest-neighbor filtering
		if g.emu.keyImages[i] != nil {
			// Scale up using nearest-neighbor for crisp 2x scaling
			scaledImg := scaleImageNearest(g.emu.keyImages[i], keyDisplaySize, keyDisplaySize)
			keyImg := ebiten.NewImageFromImage(scaledImg)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x), float64(y))
			// Apply brightness
			brightness := float64(g.emu.brightness) / 100.0
			op.ColorScale.Scale(float32(brightness), float32(brightness), float32(brightness), 1)
			screen.DrawImage(keyImg, op)
		}
	}

	// Draw touch strip background
	drawRect(screen, stripStartX-2, stripStartY-2, stripWidth+4, stripHeight+4, color.RGBA{60, 60, 60, 255})

	// Draw touch strip image at native resolution
	if g.emu.stripImage != nil {
		stripImg := ebiten.NewImageFromImage(g.emu.stripImage)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(stripStartX), float64(stripStartY))
		brightness := float64(g.emu.brightness) / 100.0
		op.ColorScale.Scale(float32(brightness), float32(brightness), float32(brightness), 1)
		screen.DrawImage(stripImg, op)
	}

	// Draw dials - evenly spaced across strip width
	for i := 0; i < dialCount; i++ {
		x := stripStartX + dialSpacing + i*(dialSize+dialSpacing)
		y := dialStartY

		// Calculate dial center
		cx := x + dialSize/2
		cy := y + dialSize/2
		radius := dialSize / 2

		// Draw dial as concentric circles (outer ring, inner dial)
		drawCircle(screen, cx, cy, radius, color.RGBA{80, 80, 80, 255})
		drawCircle(screen, cx, cy, radius-8, color.RGBA{50, 50, 50, 255})
		drawCircle(screen, cx, cy, radius-12, color.RGBA{70, 70, 70, 255})

		// Draw dial label
		label := fmt.Sprintf("D%d", i+1)
		ebitenutil.DebugPrintAt(screen, label, cx-8, cy-4)
	}

	// Draw instructions
	instrY := windowHeight - 18
	ebitenutil.DebugPrintAt(screen, "Click keys | Scroll over dials | Click, right click, hover or drag on the strip", 10, instrY)
}

func (g *emulatorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}

func (g *emulatorGame) handleInput() {
	mx, my := ebiten.CursorPosition()
	p := image.Pt(mx, my)

	g.handlePointer(mx, my)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if key, ok := keyAt(p); ok {
			g.triggerKeyPress(key)
			return
		}
		if dial, ok := dialAt(p); ok {
			g.triggerDialPress(dial)
			return
		}
	}

	// Scroll wheel over a dial rotates it
	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		if dial, ok := dialAt(p); ok {
			delta := int8(max(-5, min(5, wheelY)))
			g.triggerDialRotate(dial, delta)
		}
	}
}

// keyAt returns the key under p.
func keyAt(p image.Point) (device.KeyID, bool) {
	for i := 0; i < keyCount; i++ {
		row := i / keysPerRow
		col := i % keysPerRow

		kx := keysStartX + col*(keyDisplaySize+keySpacing)
		ky := keysStartY + row*(keyDisplaySize+keySpacing)

		if p.In(image.Rect(kx, ky, kx+keyDisplaySize, ky+keyDisplaySize)) {
			return device.KeyID(i + 1), true
		}
	}
	return 0, false
}

// dialAt returns the dial under p (circular hit detection).
func dialAt(p image.Point) (device.DialID, bool) {
	radius := dialSize / 2
	for i := 0; i < dialCount; i++ {
		cx := stripStartX + dialSpacing + i*(dialSize+dialSpacing) + radius
		cy := dialStartY + radius

		dx := p.X - cx
		dy := p.Y - cy
		if dx*dx+dy*dy <= radius*radius {
			return device.DialID(i + 1), true
		}
	}
	return 0, false
}

func (g *emulatorGame) triggerKeyPress(keyID device.KeyID) {
	g.emu.mu.RLock()
	handlers := g.emu.keyHandlers[int(keyID)-1]
	g.emu.mu.RUnlock()

	for _, handler := range handlers {
		key := &emulatorKey{
			id:        keyID,
			releaseCh: make(chan struct{}),
		}

		// Fire handler in goroutine
		go func(h device.KeyHandler, k *emulatorKey) {
			if err := h(g.emu, k); err != nil {
				g.reportError(err)
			}
		}(handler, key)

		// Simulate immediate release for click (not hold)
		go func(k *emulatorKey) {
			time.Sleep(50 * time.Millisecond)
			k.release()
		}(key)
	}
}

func (g *emulatorGame) triggerDialPress(dialID device.DialID) {
	g.emu.mu.RLock()
	handlers := g.emu.dialSwitchHandlers[int(dialID)-1]
	g.emu.mu.RUnlock()

	for _, handler := range handlers {
		dial := &emulatorDial{
			id:        dialID,
			releaseCh: make(chan struct{}),
		}

		go func(h device.DialSwitchHandler, d *emulatorDial) {
			if err := h(g.emu, d); err != nil {
				g.reportError(err)
			}
		}(handler, dial)

		go func(d *emulatorDial) {
			time.Sleep(50 * time.Millisecond)
			d.release()
		}(dial)
	}
}

func (g *emulatorGame) triggerDialRotate(dialID device.DialID, delta int8) {
	g.emu.mu.RLock()
	handlers := g.emu.dialRotateHandlers[int(dialID)-1]
	g.emu.mu.RUnlock()

	for _, handler := range handlers {
		dial := &emulatorDial{
			id:        dialID,
			releaseCh: make(chan struct{}),
		}

		go func(h device.DialRotateHandler, d *emulatorDial, delta int8) {
			if err := h(g.emu, d, delta); err != nil {
				g.reportError(err)
			}
		}(handler, dial, delta)
	}
}

// handlePointer emits the raw pointer and touch events of the current frame.
func (g *emulatorGame) handlePointer(mx, my int) {
	e := g.emu
	p := image.Pt(mx, my)
	over := inStrip(p)

	if over != e.prevOverStrip {
		typ := device.POINTER_LEAVE
		if over {
			typ = device.POINTER_ENTER
		}
		g.triggerPointer(device.PointerEvent{Type: typ, Point: p, OverStrip: over})
		e.prevOverStrip = over
	}

	e.mu.RLock()
	cursor := e.stripCursor
	e.mu.RUnlock()
	if over {
		ebiten.SetCursorShape(cursor)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}

	if p != e.prevCursor {
		g.triggerPointer(device.PointerEvent{Type: device.POINTER_MOVE, Point: p, OverStrip: over})
		e.prevCursor = p
	}

	buttons := []struct {
		mouse  ebiten.MouseButton
		button device.PointerButton
	}{
		{ebiten.MouseButtonLeft, device.POINTER_BUTTON_LEFT},
		{ebiten.MouseButtonMiddle, device.POINTER_BUTTON_MIDDLE},
		{ebiten.MouseButtonRight, device.POINTER_BUTTON_RIGHT},
	}
	for _, b := range buttons {
		if over && inpututil.IsMouseButtonJustPressed(b.mouse) {
			g.triggerPointer(device.PointerEvent{Type: device.POINTER_DOWN, Point: p, Button: b.button, OverStrip: true})
			if b.button == device.POINTER_BUTTON_RIGHT {
				g.triggerPointer(device.PointerEvent{Type: device.POINTER_CONTEXT_MENU, Point: p, Button: b.button, OverStrip: true})
			}
		}
		if inpututil.IsMouseButtonJustReleased(b.mouse) {
			g.triggerPointer(device.PointerEvent{Type: device.POINTER_UP, Point: p, Button: b.button, OverStrip: over})
			if over && b.button == device.POINTER_BUTTON_LEFT {
				g.detectDoubleClick(p)
			}
		}
	}

	g.handleTouches()
}

// detectDoubleClick emits a double click when a left click lands close to
// the previous one within the double click window.
func (g *emulatorGame) detectDoubleClick(p image.Point) {
	e := g.emu
	now := time.Now()
	d := p.Sub(e.lastClickPoint)
	if !e.lastClickTime.IsZero() && now.Sub(e.lastClickTime) <= doubleClickWindow && d.X*d.X+d.Y*d.Y <= 25 {
		g.triggerPointer(device.PointerEvent{Type: device.POINTER_DOUBLE_CLICK, Point: p, OverStrip: true})
		e.lastClickTime = time.Time{}
		return
	}
	e.lastClickTime = now
	e.lastClickPoint = p
}

// handleTouches emits touch events for contacts that started on the strip.
func (g *emulatorGame) handleTouches() {
	e := g.emu

	e.touchIDs = inpututil.AppendJustPressedTouchIDs(e.touchIDs[:0])
	for _, id := range e.touchIDs {
		p := image.Pt(ebiten.TouchPosition(id))
		if !inStrip(p) {
			continue
		}
		e.touches[id] = p
		g.triggerPointer(device.PointerEvent{Type: device.POINTER_TOUCH_START, Point: p, TouchID: int(id), OverStrip: true})
	}

	e.touchIDs = ebiten.AppendTouchIDs(e.touchIDs[:0])
	for _, id := range e.touchIDs {
		last, ok := e.touches[id]
		if !ok {
			continue
		}
		p := image.Pt(ebiten.TouchPosition(id))
		if p == last {
			continue
		}
		e.touches[id] = p
		g.triggerPointer(device.PointerEvent{Type: device.POINTER_TOUCH_MOVE, Point: p, TouchID: int(id), OverStrip: inStrip(p)})
	}

	for id, last := range e.touches {
		if !inpututil.IsTouchJustReleased(id) {
			continue
		}
		delete(e.touches, id)
		g.triggerPointer(device.PointerEvent{Type: device.POINTER_TOUCH_END, Point: last, TouchID: int(id), OverStrip: inStrip(last)})
	}
}

func (g *emulatorGame) triggerPointer(ev device.PointerEvent) {
	g.emu.mu.RLock()
	handlers := g.emu.pointerHandlers
	g.emu.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(g.emu, ev); err != nil {
			g.reportError(err)
		}
	}
}

func (g *emulatorGame) reportError(err error) {
	if g.emu.errorCh != nil {
		select {
		case g.emu.errorCh <- err:
		default:
		}
	}
}

func inStrip(p image.Point) bool {
	return p.In(image.Rect(stripStartX, stripStartY, stripStartX+stripWidth, stripStartY+stripHeight))
}

// emulatorKey implements device.Key for the emulator.
type emulatorKey struct {
	id          device.KeyID
	releaseCh   chan struct{}
	releaseOnce sync.Once
	pressTime   time.Time
}

func (k *emulatorKey) GetID() device.KeyID {
	return k.id
}

func (k *emulatorKey) WaitForRelease() time.Duration {
	k.pressTime = time.Now()
	<-k.releaseCh
	return time.Since(k.pressTime)
}

func (k *emulatorKey) release() {
	k.releaseOnce.Do(func() {
		close(k.releaseCh)
	})
}

// emulatorDial implements device.Dial for the emulator.
type emulatorDial struct {
	id          device.DialID
	releaseCh   chan struct{}
	releaseOnce sync.Once
	pressTime   time.Time
}

func (d *emulatorDial) GetID() device.DialID {
	return d.id
}

func (d *emulatorDial) WaitForRelease() time.Duration {
	d.pressTime = time.Now()
	<-d.releaseCh
	return time.Since(d.pressTime)
}

func (d *emulatorDial) release() {
	d.releaseOnce.Do(func() {
		close(d.releaseCh)
	})
}

// Helper function to draw a filled rectangle
func drawRect(screen *ebiten.Image, x, y, w, h int, c color.Color) {
	rect := ebiten.NewImage(w, h)
	rect.Fill(c)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(rect, op)
}

// Helper function to draw a filled circle
func drawCircle(screen *ebiten.Image, cx, cy, radius int, c color.Color) {
	diameter := radius * 2
	circle := ebiten.NewImage(diameter, diameter)

	r, g, b, a := c.RGBA()
	col := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}

	for y := 0; y < diameter; y++ {
		for x := 0; x < diameter; x++ {
			dx := x - radius
			dy := y - radius
			if dx*dx+dy*dy <= radius*radius {
				circle.Set(x, y, col)
			}
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(cx-radius), float64(cy-radius))
	screen.DrawImage(circle, op)
}

// scaleImageNearest scales an image using nearest-neighbor interpolation for crisp pixel scaling.
func scaleImageNearest(src *image.RGBA, newWidth, newHeight int) *image.RGBA {
	srcBounds := src.Bounds()
	srcW := srcBounds.Dx()
	srcH := srcBounds.Dy()

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))

	for y := 0; y < newHeight; y++ {
		for x := 0; x < newWidth; x++ {
			// Map destination pixel to source pixel (nearest neighbor)
			srcX := x * srcW / newWidth
			srcY := y * srcH / newHeight
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}

	return dst
}
