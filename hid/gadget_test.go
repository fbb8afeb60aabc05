package hid

import (
	"bytes"
	"testing"
)

type nopWriteCloser struct {
	*bytes.Buffer
}

func (nopWriteCloser) Close() error { return nil }

func newTestGadget() (*Gadget, *bytes.Buffer) {
	buff := &bytes.Buffer{}
	return &Gadget{device: nopWriteCloser{buff}}, buff
}

func assertReport(t testing.TB, got, want []byte) {
	t.Helper()

	if len(got) != reportLength {
		t.Fatalf("report length = %d, want %d", len(got), reportLength)
	}
	for idx, val := range want {
		if got[idx] != val {
			t.Errorf("report byte [%d] got: 0x%02x want: 0x%02x", idx, got[idx], val)
		}
	}
}

func TestGadgetPressReport(t *testing.T) {
	gadget, buff := newTestGadget()

	err := gadget.Press(KeyEscape)
	if err != nil {
		t.Errorf("Press returned err: %v", err)
	}

	assertReport(t, buff.Bytes(), []byte{0, 0, byte(KeyEscape), 0, 0, 0, 0, 0})
}

func TestGadgetPressIsIdempotent(t *testing.T) {
	gadget, buff := newTestGadget()

	gadget.Press(KeyEscape)
	buff.Reset()

	err := gadget.Press(KeyEscape)
	if err != nil {
		t.Errorf("repeated Press returned err: %v", err)
	}
	if buff.Len() != 0 {
		t.Error("repeated Press of held key wrote another report")
	}
}

func TestGadgetReleaseAll(t *testing.T) {
	gadget, buff := newTestGadget()

	gadget.Press(KeyEscape)
	gadget.Press(KeyF13)
	buff.Reset()

	err := gadget.ReleaseAll()
	if err != nil {
		t.Errorf("ReleaseAll returned err: %v", err)
	}

	assertReport(t, buff.Bytes(), make([]byte, reportLength))

	buff.Reset()
	gadget.Press(KeyPause)
	assertReport(t, buff.Bytes(), []byte{0, 0, byte(KeyPause), 0, 0, 0, 0, 0})
}

func TestGadgetReportFull(t *testing.T) {
	gadget, _ := newTestGadget()

	keys := []Keycode{KeyA, KeyB, KeyC, KeyD, KeyE, KeyF}
	for _, key := range keys {
		if err := gadget.Press(key); err != nil {
			t.Fatalf("Press(0x%02x) returned err: %v", byte(key), err)
		}
	}

	if err := gadget.Press(KeyG); err == nil {
		t.Error("expected error pressing seventh key")
	}
}
