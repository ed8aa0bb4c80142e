package bridge

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Zash60/snes-josc/api"
	"github.com/Zash60/snes-josc/dispatch"
	"github.com/Zash60/snes-josc/romloader"
	"github.com/Zash60/snes-josc/statecodec"
)

var errSuperseded = errors.New("transfer superseded")

// RomTransferBridge reads a ROM once in the background and launches it in
// the guest with launchGame(payload, displayName).
//
// Only the newest transfer may launch. An older one finishing late is
// dropped without touching the guest.
type RomTransferBridge struct {
	guest  api.Guest
	notify api.Notifier
	ui     *dispatch.Loop
	bg     *dispatch.Pool
	saves  *SaveStateBridge

	generation atomic.Uint64

	mu         sync.Mutex
	extensions []string
	onLaunch   func(displayName string)
}

// NewRomTransferBridge creates a bridge. saves may be nil; when set, each
// launch makes the display name its current game.
func NewRomTransferBridge(guest api.Guest, notify api.Notifier, ui *dispatch.Loop, bg *dispatch.Pool, saves *SaveStateBridge) *RomTransferBridge {
	return &RomTransferBridge{
		guest:      guest,
		notify:     notify,
		ui:         ui,
		bg:         bg,
		saves:      saves,
		extensions: api.SNES().Extensions,
	}
}

// SetExtensions sets the entry extensions looked for inside archives.
func (r *RomTransferBridge) SetExtensions(exts []string) {
	r.mu.Lock()
	r.extensions = append([]string(nil), exts...)
	r.mu.Unlock()
}

// OnLaunch registers fn to run on the UI loop right after each launchGame
// delivery.
func (r *RomTransferBridge) OnLaunch(fn func(displayName string)) {
	r.mu.Lock()
	r.onLaunch = fn
	r.mu.Unlock()
}

// Transfer starts reading src and returns its ticket. Any transfer still
// in flight is superseded. The display name is src.Name().
func (r *RomTransferBridge) Transfer(src romloader.Source) uint64 {
	ticket := r.generation.Add(1)
	name := src.Name()

	r.mu.Lock()
	exts := r.extensions
	r.mu.Unlock()

	dispatch.Go(r.bg, r.ui, func() (string, error) {
		if !r.current(ticket) {
			return "", errSuperseded
		}
		data, _, err := romloader.LoadSource(src, exts)
		if err != nil {
			return "", err
		}
		return statecodec.Encode(data), nil
	}, func(payload string, err error) {
		r.finish(ticket, name, payload, err)
	})

	return ticket
}

// Cancel supersedes any transfer in flight.
func (r *RomTransferBridge) Cancel() {
	r.generation.Add(1)
}

// Current returns the ticket of the newest transfer.
func (r *RomTransferBridge) Current() uint64 {
	return r.generation.Load()
}

func (r *RomTransferBridge) current(ticket uint64) bool {
	return r.generation.Load() == ticket
}

// finish runs on the UI loop.
func (r *RomTransferBridge) finish(ticket uint64, name, payload string, err error) {
	if !r.current(ticket) {
		return
	}
	if err != nil {
		log.Printf("Warning: failed to load ROM %s: %v", name, err)
		r.notify.Error(msgRomFailed)
		return
	}

	if r.saves != nil {
		r.saves.SetGame(name)
	}
	r.guest.Deliver(api.EventLaunchGame, payload, name)

	r.mu.Lock()
	fn := r.onLaunch
	r.mu.Unlock()
	if fn != nil {
		fn(name)
	}
}
