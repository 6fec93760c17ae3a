// Package usbwatch signals when a USB HID device of interest is plugged in.
package usbwatch

import "fmt"

// USB identifiers of the Stream Deck+.
const (
	ElgatoVendorID          = 0x0fd9
	StreamDeckPlusProductID = 0x0084
)

// Match selects devices by vendor ID and, when ProductID is non-zero, by
// product ID.
type Match struct {
	VendorID  uint16
	ProductID uint16
}

// StreamDeckPlus matches the only device posdeck drives.
var StreamDeckPlus = Match{VendorID: ElgatoVendorID, ProductID: StreamDeckPlusProductID}

// Matches reports whether a device with the given IDs is selected.
func (m Match) Matches(vendorID, productID uint16) bool {
	if vendorID != m.VendorID {
		return false
	}
	return m.ProductID == 0 || productID == m.ProductID
}

func (m Match) String() string {
	return fmt.Sprintf("%04x:%04x", m.VendorID, m.ProductID)
}
