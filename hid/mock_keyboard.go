package hid

import (
	"fmt"
	"io"
)

// MockKeyboard records key transitions instead of delivering them,
// for tests and desktop runs without gadget-mode USB.
type MockKeyboard struct {
	Presses  []Keycode
	Releases int

	down    bool
	writeTo io.Writer
}

func (mk *MockKeyboard) Press(key Keycode) error {
	mk.Presses = append(mk.Presses, key)
	mk.down = true
	if mk.writeTo != nil {
		fmt.Fprintf(mk.writeTo, "key 0x%02x pressed\n", byte(key))
	}
	return nil
}

func (mk *MockKeyboard) ReleaseAll() error {
	mk.Releases++
	mk.down = false
	if mk.writeTo != nil {
		fmt.Fprintln(mk.writeTo, "all keys released")
	}
	return nil
}

// KeyIsDown reports whether any key is held since the last ReleaseAll.
func (mk *MockKeyboard) KeyIsDown() bool {
	return mk.down
}

func (mk *MockKeyboard) MonitorTransitions(writer io.Writer) {
	mk.writeTo = writer
}
