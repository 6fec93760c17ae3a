package usbwatch

import (
	"context"
	"log"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// CF and IOKit type aliases matching usbhid conventions.
type (
	cfAllocatorRef  uintptr
	cfDictionaryRef uintptr
	cfIndex         int64
	cfNumberRef     uintptr
	cfNumberType    = cfIndex
	cfRunLoopRef    uintptr
	cfStringRef     uintptr
	cfTypeRef       uintptr

	cfStringEncoding uint32

	ioHIDDeviceRef  uintptr
	ioHIDManagerRef uintptr
	ioOptionBits    uint32
	ioReturn        int32
)

const (
	kCFAllocatorDefault   cfAllocatorRef  = 0
	kCFNumberSInt16Type   cfIndex         = 2
	kCFStringEncodingUTF8 cfStringEncoding = 0x08000100

	kIOHIDOptionsTypeNone ioOptionBits = 0
	kIOReturnSuccess      ioReturn     = 0
)

// purego function bindings
var (
	cfNumberGetValue        func(number cfNumberRef, theType cfNumberType, valuePtr unsafe.Pointer) bool
	cfRelease               func(cf cfTypeRef)
	cfRunLoopGetCurrent     func() cfRunLoopRef
	cfRunLoopRun            func()
	cfRunLoopStop           func(runLoop cfRunLoopRef)
	cfStringCreateWithBytes func(alloc cfAllocatorRef, bytes []byte, numBytes cfIndex, encoding cfStringEncoding, isExternalRepresentation bool) cfStringRef

	ioHIDDeviceGetProperty                 func(device ioHIDDeviceRef, key cfStringRef) cfTypeRef
	ioHIDManagerClose                      func(manager ioHIDManagerRef, options ioOptionBits) ioReturn
	ioHIDManagerCreate                     func(allocator cfAllocatorRef, options ioOptionBits) ioHIDManagerRef
	ioHIDManagerOpen                       func(manager ioHIDManagerRef, options ioOptionBits) ioReturn
	ioHIDManagerSetDeviceMatching          func(manager ioHIDManagerRef, matching cfDictionaryRef)
	ioHIDManagerRegisterDeviceMatchingCallback func(manager ioHIDManagerRef, callback uintptr, context unsafe.Pointer)
	ioHIDManagerScheduleWithRunLoop        func(manager ioHIDManagerRef, runLoop cfRunLoopRef, runLoopMode cfStringRef)
)

var kCFRunLoopDefaultMode uintptr

func init() {
	cf, err := purego.Dlopen("/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(err)
	}

	purego.RegisterLibFunc(&cfNumberGetValue, cf, "CFNumberGetValue")
	purego.RegisterLibFunc(&cfRelease, cf, "CFRelease")
	purego.RegisterLibFunc(&cfRunLoopGetCurrent, cf, "CFRunLoopGetCurrent")
	purego.RegisterLibFunc(&cfRunLoopRun, cf, "CFRunLoopRun")
	purego.RegisterLibFunc(&cfRunLoopStop, cf, "CFRunLoopStop")
	purego.RegisterLibFunc(&cfStringCreateWithBytes, cf, "CFStringCreateWithBytes")

	kCFRunLoopDefaultMode, err = purego.Dlsym(cf, "kCFRunLoopDefaultMode")
	if err != nil {
		panic(err)
	}

	iokit, err := purego.Dlopen("/System/Library/Frameworks/IOKit.framework/IOKit", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(err)
	}

	purego.RegisterLibFunc(&ioHIDDeviceGetProperty, iokit, "IOHIDDeviceGetProperty")
	purego.RegisterLibFunc(&ioHIDManagerClose, iokit, "IOHIDManagerClose")
	purego.RegisterLibFunc(&ioHIDManagerCreate, iokit, "IOHIDManagerCreate")
	purego.RegisterLibFunc(&ioHIDManagerOpen, iokit, "IOHIDManagerOpen")
	purego.RegisterLibFunc(&ioHIDManagerSetDeviceMatching, iokit, "IOHIDManagerSetDeviceMatching")
	purego.RegisterLibFunc(&ioHIDManagerRegisterDeviceMatchingCallback, iokit, "IOHIDManagerRegisterDeviceMatchingCallback")
	purego.RegisterLibFunc(&ioHIDManagerScheduleWithRunLoop, iokit, "IOHIDManagerScheduleWithRunLoop")
}

// arrivals is the state the IOKit callback reports to. Only one watcher
// runs at a time; the package-level reference keeps it reachable while the
// callback is registered.
type arrivals struct {
	ch    chan<- struct{}
	match Match
}

var current *arrivals

var deviceMatchingCallbackPtr = purego.NewCallback(deviceMatchingCallback)

func deviceMatchingCallback(_ unsafe.Pointer, _ ioReturn, _ uintptr, device ioHIDDeviceRef) {
	a := current
	if a == nil {
		return
	}

	vid, ok := deviceProperty(device, "VendorID")
	if !ok {
		return
	}
	pid, _ := deviceProperty(device, "ProductID")
	if !a.match.Matches(vid, pid) {
		return
	}

	log.Printf("usbwatch: device %04x:%04x arrived", vid, pid)
	select {
	case a.ch <- struct{}{}:
	default:
	}
}

// deviceProperty reads a 16 bit numeric HID property.
func deviceProperty(device ioHIDDeviceRef, name string) (uint16, bool) {
	key := []byte(name)
	skey := cfStringCreateWithBytes(kCFAllocatorDefault, key, cfIndex(len(key)), kCFStringEncodingUTF8, false)
	if skey == 0 {
		return 0, false
	}
	defer cfRelease(cfTypeRef(skey))

	prop := ioHIDDeviceGetProperty(device, skey)
	if prop == 0 {
		return 0, false
	}

	var v uint16
	if !cfNumberGetValue(cfNumberRef(prop), kCFNumberSInt16Type, unsafe.Pointer(&v)) {
		return 0, false
	}
	return v, true
}

// Watch returns a channel that receives a signal each time a HID device
// selected by m appears on the bus. The watcher stops when ctx is canceled.
func Watch(ctx context.Context, m Match) <-chan struct{} {
	ch := make(chan struct{}, 1)
	current = &arrivals{ch: ch, match: m}

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		mgr := ioHIDManagerCreate(kCFAllocatorDefault, kIOHIDOptionsTypeNone)
		if rv := ioHIDManagerOpen(mgr, kIOHIDOptionsTypeNone); rv != kIOReturnSuccess {
			log.Printf("usbwatch: failed to open IOHIDManager: 0x%08x", rv)
			return
		}

		// All HID devices; the callback filters
		ioHIDManagerSetDeviceMatching(mgr, 0)

		rl := cfRunLoopGetCurrent()
		ioHIDManagerScheduleWithRunLoop(mgr, rl, **(**cfStringRef)(unsafe.Pointer(&kCFRunLoopDefaultMode)))
		ioHIDManagerRegisterDeviceMatchingCallback(mgr, deviceMatchingCallbackPtr, nil)

		go func() {
			<-ctx.Done()
			cfRunLoopStop(rl)
		}()

		log.Printf("usbwatch: waiting for %v", m)
		cfRunLoopRun()

		ioHIDManagerClose(mgr, kIOHIDOptionsTypeNone)
		cfRelease(cfTypeRef(mgr))
		current = nil
		log.Println("usbwatch: stopped")
	}()

	return ch
}
