// Package coordinator manages module lifecycle and routes events to modules.
package coordinator

import (
	"context"
	"image"
	"image/draw"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phinze/posdeck/internal/device"
	"github.com/phinze/posdeck/internal/module"
)

const (
	// refreshInterval re-renders everything even when nothing asked for it.
	refreshInterval = 500 * time.Millisecond
	// frameInterval is the fastest rate invalidated modules are rendered at.
	frameInterval = 33 * time.Millisecond
)

var allKeys = []module.KeyID{
	module.Key1, module.Key2, module.Key3, module.Key4,
	module.Key5, module.Key6, module.Key7, module.Key8,
}

var allDials = []module.DialID{module.Dial1, module.Dial2, module.Dial3, module.Dial4}

// Coordinator manages the lifecycle of modules and routes events to them.
type Coordinator struct {
	device  device.Device
	modules []module.Module

	// Resource tracking
	moduleResources map[module.Module]module.Resources

	// Ownership maps for event routing
	keyOwners  map[module.KeyID]module.Module
	dialOwners map[module.DialID]module.Module

	// Track modules that failed to initialize
	failedModules map[module.Module]bool

	// Strip compositing
	stripRect   image.Rectangle
	stripOrigin image.Point

	// Pointer routing. The hovered module gets enter/leave; a touch belongs
	// to the module it started on until it ends.
	pointerMu   sync.Mutex
	hoverOwner  module.Module
	touchOwners map[int]module.Module

	// Set by module invalidations, cleared by the next frame.
	dirty atomic.Bool

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// State tracking
	mu sync.RWMutex
}

// New creates a new Coordinator for the given device.
func New(dev device.Device) *Coordinator {
	return &Coordinator{
		device:          dev,
		modules:         make([]module.Module, 0),
		moduleResources: make(map[module.Module]module.Resources),
		keyOwners:       make(map[module.KeyID]module.Module),
		dialOwners:      make(map[module.DialID]module.Module),
		failedModules:   make(map[module.Module]bool),
		touchOwners:     make(map[int]module.Module),
	}
}

// RegisterModule registers a module with its allocated resources.
// Must be called before Start.
func (c *Coordinator) RegisterModule(m module.Module, res module.Resources) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Store resources for this module
	c.moduleResources[m] = res

	// Build ownership maps
	for _, key := range res.Keys {
		c.keyOwners[key] = m
	}
	for _, dial := range res.Dials {
		c.dialOwners[dial] = m
	}

	// Track module
	c.modules = append(c.modules, m)

	return nil
}

// Start initializes all modules and begins the event/render loop.
func (c *Coordinator) Start(ctx context.Context) error {
	if err := c.init(ctx); err != nil {
		return err
	}

	// Start device listener
	listenErr := make(chan error, 1)
	go func() {
		err := c.device.Listen(nil) // errors logged to stderr
		if err != nil {
			listenErr <- err
		}
		close(listenErr)
	}()

	// Start render loop
	c.wg.Add(1)
	go c.renderLoop()

	// Wait for context cancellation or device disconnect
	select {
	case <-c.ctx.Done():
		return nil
	case err := <-listenErr:
		// Device disconnected or listener error
		return err
	}
}

// init initializes modules and registers device handlers.
func (c *Coordinator) init(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	// Get full strip rectangle for compositing
	if c.device.GetTouchStripSupported() {
		rect, err := c.device.GetTouchStripImageRectangle()
		if err == nil {
			c.stripRect = rect
		}
		c.stripOrigin = c.device.GetTouchStripOrigin()
	}

	// Initialize all modules (continue on error, just skip failed modules)
	for _, m := range c.modules {
		res := c.resourcesForModule(m)
		if err := m.Init(c.ctx, res); err != nil {
			log.Printf("Module %s failed to initialize: %v (skipping)", m.ID(), err)
			c.failedModules[m] = true
		}
	}

	return c.setupEventHandlers()
}

// Stop gracefully shuts down all modules.
func (c *Coordinator) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}

	// Stop all modules
	for _, m := range c.modules {
		if err := m.Stop(); err != nil {
			log.Printf("Module %s failed to stop: %v", m.ID(), err)
		}
	}

	c.wg.Wait()
	return nil
}

// resourcesForModule returns the stored resources for a module, completed
// with what only the coordinator knows.
func (c *Coordinator) resourcesForModule(m module.Module) module.Resources {
	res := c.moduleResources[m]
	res.StripOrigin = c.stripOrigin
	res.Invalidate = c.invalidate
	return res
}

func (c *Coordinator) invalidate() {
	c.dirty.Store(true)
}

// setupEventHandlers registers device event handlers that route to modules.
func (c *Coordinator) setupEventHandlers() error {
	for _, keyID := range allKeys {
		key := keyID
		owner := c.keyOwners[key]
		if owner == nil {
			continue
		}
		err := c.device.AddKeyHandler(key.ToDevice(), func(d device.Device, k device.Key) error {
			if c.failedModules[owner] {
				return nil
			}
			// Create press event
			event := module.KeyEvent{Pressed: true}
			if err := owner.HandleKey(key, event); err != nil {
				return err
			}

			// Wait for release and create release event
			duration := k.WaitForRelease()
			event = module.KeyEvent{Pressed: false, Duration: duration}
			return owner.HandleKey(key, event)
		})
		if err != nil {
			return err
		}
	}

	for _, dialID := range allDials {
		dial := dialID
		owner := c.dialOwners[dial]
		if owner == nil {
			continue
		}
		err := c.device.AddDialRotateHandler(dial.ToDevice(), func(d device.Device, di device.Dial, delta int8) error {
			if c.failedModules[owner] {
				return nil
			}
			return owner.HandleDial(dial, module.DialEvent{Type: module.DialRotate, Delta: delta})
		})
		if err != nil {
			return err
		}

		err = c.device.AddDialSwitchHandler(dial.ToDevice(), func(d device.Device, di device.Dial) error {
			if c.failedModules[owner] {
				return nil
			}
			// Create press event
			event := module.DialEvent{Type: module.DialPress}
			if err := owner.HandleDial(dial, event); err != nil {
				return err
			}
			// Wait for release and create release event
			duration := di.WaitForRelease()
			event = module.DialEvent{Type: module.DialRelease, Duration: duration}
			return owner.HandleDial(dial, event)
		})
		if err != nil {
			return err
		}
	}

	if c.device.GetTouchStripSupported() {
		return c.device.AddPointerHandler(func(d device.Device, ev device.PointerEvent) error {
			return c.routePointer(ev)
		})
	}
	return nil
}

// stripModuleAt returns the module whose strip region contains p.
func (c *Coordinator) stripModuleAt(p image.Point) module.Module {
	for _, m := range c.modules {
		if c.failedModules[m] {
			continue
		}
		if c.resourcesForModule(m).OwnsStripPoint(p) {
			return m
		}
	}
	return nil
}

// routePointer dispatches a raw pointer event to the strip modules.
func (c *Coordinator) routePointer(raw device.PointerEvent) error {
	event, ok := module.PointerEventFromDevice(raw)
	if !ok {
		return nil
	}

	c.pointerMu.Lock()
	defer c.pointerMu.Unlock()

	if event.Type.IsTouch() {
		return c.routeTouch(event)
	}

	var over module.Module
	if raw.OverStrip && event.Type != module.PointerLeave {
		over = c.stripModuleAt(event.Point)
	}

	// Region changes become leave/enter pairs
	if over != c.hoverOwner {
		if prev := c.hoverOwner; prev != nil {
			leave := event
			leave.Type = module.PointerLeave
			leave.InRegion = false
			if err := prev.HandlePointer(leave); err != nil {
				return err
			}
		}
		c.hoverOwner = over
		if over != nil {
			enter := event
			enter.Type = module.PointerEnter
			enter.InRegion = true
			if err := over.HandlePointer(enter); err != nil {
				return err
			}
		}
	}

	switch event.Type {
	case module.PointerEnter, module.PointerLeave:
		return nil
	case module.PointerMove, module.PointerUp:
		// Moves and releases reach every strip module, flagged as outside
		// for all but the hovered one.
		for _, m := range c.modules {
			if c.failedModules[m] || !c.resourcesForModule(m).HasStrip() {
				continue
			}
			ev := event
			ev.InRegion = m == over
			if err := m.HandlePointer(ev); err != nil {
				return err
			}
		}
		return nil
	default:
		if over == nil {
			return nil
		}
		event.InRegion = true
		return over.HandlePointer(event)
	}
}

// routeTouch sends a touch event to the module the contact started on.
func (c *Coordinator) routeTouch(event module.PointerEvent) error {
	owner, ok := c.touchOwners[event.TouchID]
	if event.Type == module.TouchStart {
		owner = c.stripModuleAt(event.Point)
		if owner == nil {
			return nil
		}
		c.touchOwners[event.TouchID] = owner
	} else if !ok {
		return nil
	}
	if event.Type == module.TouchEnd || event.Type == module.TouchCancel {
		delete(c.touchOwners, event.TouchID)
	}

	event.InRegion = c.resourcesForModule(owner).OwnsStripPoint(event.Point)
	return owner.HandlePointer(event)
}

// renderLoop runs the periodic render cycle.
func (c *Coordinator) renderLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	frames := time.NewTicker(frameInterval)
	defer frames.Stop()

	// Initial render
	c.render()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.dirty.Store(false)
			c.render()
		case <-frames.C:
			if c.dirty.Swap(false) {
				c.render()
			}
		}
	}
}

func (c *Coordinator) render() {
	c.renderKeys()
	c.renderStrip()
}

// renderKeys collects key images from all modules and applies them to the device.
func (c *Coordinator) renderKeys() {
	for _, m := range c.modules {
		if c.failedModules[m] {
			continue
		}
		keyImages := m.RenderKeys()
		for keyID, img := range keyImages {
			if img == nil {
				continue
			}
			if err := c.device.SetKeyImage(keyID.ToDevice(), img); err != nil {
				log.Printf("Failed to set key %d image: %v", keyID, err)
			}
		}
	}
}

// renderStrip composites strip images from all modules and applies to the device.
func (c *Coordinator) renderStrip() {
	if c.stripRect.Empty() {
		return
	}

	// Create composite strip image
	composite := image.NewRGBA(c.stripRect)

	// Collect and composite each module's strip output
	for _, m := range c.modules {
		if c.failedModules[m] {
			continue
		}
		res := c.resourcesForModule(m)
		if !res.HasStrip() {
			continue
		}

		stripImg := m.RenderStrip()
		if stripImg == nil {
			continue
		}

		// Draw module's strip at its allocated region
		draw.Draw(composite, res.StripRect, stripImg, stripImg.Bounds().Min, draw.Over)
	}

	if err := c.device.SetTouchStripImage(composite); err != nil {
		log.Printf("Failed to set strip image: %v", err)
	}
}

// Device returns the underlying device.
// Modules can use this to query device capabilities like key size.
func (c *Coordinator) Device() device.Device {
	return c.device
}
