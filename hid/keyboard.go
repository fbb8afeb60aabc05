// Package hid emulates a USB HID keyboard towards the host machine.
// The controller shows up as a plain boot-protocol keyboard, so any host
// that accepts a USB keyboard accepts the safety key without drivers.
package hid

// Keycode is a USB HID keyboard usage id (usage page 0x07).
type Keycode byte

const (
	KeyA Keycode = 0x04 + Keycode(iota)
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

const (
	KeyEnter      Keycode = 0x28
	KeyEscape     Keycode = 0x29
	KeyBackspace  Keycode = 0x2a
	KeyTab        Keycode = 0x2b
	KeySpace      Keycode = 0x2c
	KeyF1         Keycode = 0x3a
	KeyF2         Keycode = 0x3b
	KeyF3         Keycode = 0x3c
	KeyF4         Keycode = 0x3d
	KeyF5         Keycode = 0x3e
	KeyF6         Keycode = 0x3f
	KeyF7         Keycode = 0x40
	KeyF8         Keycode = 0x41
	KeyF9         Keycode = 0x42
	KeyF10        Keycode = 0x43
	KeyF11        Keycode = 0x44
	KeyF12        Keycode = 0x45
	KeyPause      Keycode = 0x48
	KeyF13        Keycode = 0x68
	KeyF14        Keycode = 0x69
	KeyF15        Keycode = 0x6a
	KeyF16        Keycode = 0x6b
)

// Keyboard queues key transitions for delivery to the host. Calls are
// fire-and-forget from the control loop's point of view: a returned error
// is logged, never retried.
type Keyboard interface {
	Press(key Keycode) error
	ReleaseAll() error
}
