package internal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"

	"github.com/BrandonKowalski/erpshell/pkg/erpshell/constants"
)

func TestVirtualButtonFor(t *testing.T) {
	const custom = evdev.EvCode(158)

	assert.Equal(t, constants.VirtualButtonBack, VirtualButtonFor(evdev.KEY_BACK, custom))
	assert.Equal(t, constants.VirtualButtonBack, VirtualButtonFor(evdev.KEY_ESC, custom))
	assert.Equal(t, constants.VirtualButtonBack, VirtualButtonFor(custom, custom))
	assert.Equal(t, constants.VirtualButtonBack, VirtualButtonFor(evdev.KEY_A, evdev.KEY_A))
	assert.Equal(t, constants.VirtualButtonMenu, VirtualButtonFor(evdev.KEY_MENU, custom))
	assert.Equal(t, constants.VirtualButtonUnassigned, VirtualButtonFor(evdev.KEY_A, custom))
}

func TestIsBackPress(t *testing.T) {
	tests := []struct {
		name string
		ev   evdev.InputEvent
		want bool
	}{
		{"key down", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_BACK, Value: 1}, true},
		{"key up", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_BACK, Value: 0}, false},
		{"repeat", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_BACK, Value: 2}, false},
		{"other key", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: 1}, false},
		{"sync", evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.KEY_BACK, Value: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBackPress(tt.ev, 0))
		})
	}
}

func TestDebouncer(t *testing.T) {
	d := debouncer{window: 100 * time.Millisecond}
	start := time.Now()

	assert.True(t, d.accept(start))
	assert.False(t, d.accept(start.Add(50*time.Millisecond)))
	assert.True(t, d.accept(start.Add(120*time.Millisecond)))
	assert.False(t, d.accept(start.Add(200*time.Millisecond)))

	none := debouncer{}
	assert.True(t, none.accept(start))
	assert.True(t, none.accept(start))
}

func TestListenBackKeyMissingDevice(t *testing.T) {
	cfg := BackKeyConfig{DevicePath: filepath.Join(t.TempDir(), "event99")}
	err := ListenBackKey(context.Background(), cfg, func() { t.Fatal("unexpected press") })
	assert.ErrorContains(t, err, "open back key device")
}
