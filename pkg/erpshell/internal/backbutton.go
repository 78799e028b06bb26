package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/holoplot/go-evdev"

	"github.com/BrandonKowalski/erpshell/pkg/erpshell/constants"
)

// BackKeyConfig describes where the hardware back key lives.
type BackKeyConfig struct {
	DevicePath string        // evdev node, e.g. /dev/input/event1
	Code       int           // key code treated as back in addition to KEY_BACK and KEY_ESC
	Debounce   time.Duration // presses closer together than this are ignored
}

// VirtualButtonFor maps a key code to the navigation button it stands for.
func VirtualButtonFor(code evdev.EvCode, backCode evdev.EvCode) constants.VirtualButton {
	if code == backCode {
		return constants.VirtualButtonBack
	}
	switch code {
	case evdev.KEY_BACK, evdev.KEY_ESC:
		return constants.VirtualButtonBack
	case evdev.KEY_MENU:
		return constants.VirtualButtonMenu
	default:
		return constants.VirtualButtonUnassigned
	}
}

// IsBackPress reports whether ev is the key-down of a back key.
// Releases (value 0) and auto-repeats (value 2) are ignored.
func IsBackPress(ev evdev.InputEvent, backCode evdev.EvCode) bool {
	return ev.Type == evdev.EV_KEY &&
		ev.Value == 1 &&
		VirtualButtonFor(ev.Code, backCode) == constants.VirtualButtonBack
}

// debouncer drops presses that arrive within window of the last accepted one.
type debouncer struct {
	window time.Duration
	last   time.Time
}

func (d *debouncer) accept(now time.Time) bool {
	if !d.last.IsZero() && now.Sub(d.last) < d.window {
		return false
	}
	d.last = now
	return true
}

// ListenBackKey reads cfg.DevicePath until ctx is done and calls onPress for
// every debounced back press. It returns nil when ctx ends the loop.
func ListenBackKey(ctx context.Context, cfg BackKeyConfig, onPress func()) error {
	device, err := evdev.Open(cfg.DevicePath)
	if err != nil {
		return fmt.Errorf("open back key device %s: %w", cfg.DevicePath, err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		device.Close()
	}()

	if name, err := device.Name(); err == nil {
		GetInternalLogger().Debug("listening for back key", "device", cfg.DevicePath, "name", name)
	}

	backCode := evdev.EvCode(cfg.Code)
	d := debouncer{window: cfg.Debounce}

	for {
		ev, err := device.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read back key device %s: %w", cfg.DevicePath, err)
		}
		if !IsBackPress(*ev, backCode) || !d.accept(time.Now()) {
			continue
		}
		GetInternalLogger().Debug("back key pressed",
			"button", VirtualButtonFor(ev.Code, backCode).GetName(),
			"code", int(ev.Code),
		)
		onPress()
	}
}
