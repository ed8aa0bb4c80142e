package bridge

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Zash60/snes-josc/api"
	"github.com/Zash60/snes-josc/dispatch"
	"github.com/Zash60/snes-josc/statecodec"
	"github.com/Zash60/snes-josc/storage"
)

// SlotStore persists opaque blobs by slot key.
type SlotStore interface {
	Write(key string, data []byte) error
	Read(key string) ([]byte, error)
}

// SaveStateBridge persists guest save states and hands them back.
//
// Writes to the same slot key never interleave. Blob contents are never
// inspected.
type SaveStateBridge struct {
	store  SlotStore
	guest  api.Guest
	notify api.Notifier
	ui     *dispatch.Loop
	bg     *dispatch.Pool

	locks keyLock

	mu   sync.Mutex
	game string
}

// NewSaveStateBridge creates a bridge. notify is only called on the UI loop.
func NewSaveStateBridge(store SlotStore, guest api.Guest, notify api.Notifier, ui *dispatch.Loop, bg *dispatch.Pool) *SaveStateBridge {
	return &SaveStateBridge{
		store:  store,
		guest:  guest,
		notify: notify,
		ui:     ui,
		bg:     bg,
	}
}

// SetGame records the display name of the running game.
func (b *SaveStateBridge) SetGame(displayName string) {
	b.mu.Lock()
	b.game = displayName
	b.mu.Unlock()
}

// Game returns the display name of the running game, or "".
func (b *SaveStateBridge) Game() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.game
}

// RequestSave asks the guest to serialize its state. The guest answers
// with a saveStateToDisk call. Must be called on the UI loop.
func (b *SaveStateBridge) RequestSave() error {
	if b.Game() == "" {
		b.notify.Info(msgNoGame)
		return ErrNoGame
	}
	b.guest.Deliver(api.EventTriggerSave)
	return nil
}

// RequestLoad asks the guest to request its saved state. The guest
// answers with a loadStateFromDisk call. Must be called on the UI loop.
func (b *SaveStateBridge) RequestLoad() error {
	if b.Game() == "" {
		b.notify.Info(msgNoGame)
		return ErrNoGame
	}
	b.guest.Deliver(api.EventTriggerLoad)
	return nil
}

// Save writes blob to slotKey, replacing the old content only if the
// whole write succeeds. Blocks on storage; call it off the UI loop.
func (b *SaveStateBridge) Save(slotKey string, blob []byte) error {
	unlock := b.locks.lock(slotKey)
	err := b.store.Write(slotKey, blob)
	unlock()

	if err != nil {
		log.Printf("Warning: failed to save state %s: %v", slotKey, err)
		b.post(func() { b.notify.Error(msgSaveFailed) })
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	b.post(func() { b.notify.Info(msgSaved) })
	return nil
}

// SaveEncoded decodes a guest payload and saves it under the slot for
// displayName. A malformed payload writes nothing. Blocks; call it off
// the UI loop.
func (b *SaveStateBridge) SaveEncoded(displayName, payload string) error {
	blob, err := statecodec.Decode(payload)
	if err != nil {
		log.Printf("Warning: rejected state for %s: %v", displayName, err)
		b.post(func() { b.notify.Error(msgCorrupted) })
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return b.Save(api.SlotKey(displayName), blob)
}

// Load reads slotKey and delivers it to the guest as receiveStateFromAndroid.
// A missing slot produces an informational notice and no guest call.
// Blocks on storage; call it off the UI loop.
func (b *SaveStateBridge) Load(slotKey string) error {
	unlock := b.locks.lock(slotKey)
	blob, err := b.store.Read(slotKey)
	unlock()

	switch {
	case errors.Is(err, storage.ErrSlotNotFound):
		b.post(func() { b.notify.Info(msgNoSave) })
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case err != nil:
		log.Printf("Warning: failed to load state %s: %v", slotKey, err)
		b.post(func() { b.notify.Error(msgLoadFailed) })
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	payload := statecodec.Encode(blob)
	b.post(func() { b.guest.Deliver(api.EventReceiveState, payload) })
	return nil
}

// SaveAsync runs SaveEncoded on the background pool.
func (b *SaveStateBridge) SaveAsync(displayName, payload string) {
	b.submit(func() { b.SaveEncoded(displayName, payload) })
}

// LoadAsync runs Load for displayName's slot on the background pool.
func (b *SaveStateBridge) LoadAsync(displayName string) {
	b.submit(func() { b.Load(api.SlotKey(displayName)) })
}

func (b *SaveStateBridge) submit(job func()) {
	if err := b.bg.Submit(job); err != nil {
		log.Printf("Warning: save state job dropped: %v", err)
	}
}

func (b *SaveStateBridge) post(fn func()) {
	b.ui.Post(fn)
}
