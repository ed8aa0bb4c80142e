package bridge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Zash60/snes-josc/api"
	"github.com/Zash60/snes-josc/dispatch"
	"github.com/Zash60/snes-josc/romloader"
	"github.com/Zash60/snes-josc/statecodec"
	"github.com/Zash60/snes-josc/storage"
)

type delivery struct {
	event string
	args  []any
}

type recordingGuest struct {
	mu         sync.Mutex
	deliveries []delivery
}

func (g *recordingGuest) Deliver(event string, args ...any) {
	g.mu.Lock()
	g.deliveries = append(g.deliveries, delivery{event, args})
	g.mu.Unlock()
}

func (g *recordingGuest) all() []delivery {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]delivery(nil), g.deliveries...)
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (n *recordingNotifier) Info(msg string) {
	n.mu.Lock()
	n.notices = append(n.notices, "info: "+msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	n.notices = append(n.notices, "error: "+msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.notices...)
}

type harness struct {
	fs     afero.Fs
	store  *storage.SlotStore
	guest  *recordingGuest
	notify *recordingNotifier
	ui     *dispatch.Loop
	bg     *dispatch.Pool
	saves  *SaveStateBridge
	roms   *RomTransferBridge
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		fs:     afero.NewMemMapFs(),
		guest:  &recordingGuest{},
		notify: &recordingNotifier{},
		ui:     dispatch.NewLoop(),
		bg:     dispatch.NewPool(2, 8),
	}
	h.store = storage.NewSlotStore(h.fs, "/saves")
	h.saves = NewSaveStateBridge(h.store, h.guest, h.notify, h.ui, h.bg)
	h.roms = NewRomTransferBridge(h.guest, h.notify, h.ui, h.bg, h.saves)
	t.Cleanup(h.bg.Close)
	return h
}

// settle waits for background work and runs everything it posted.
func (h *harness) settle() {
	h.bg.Wait()
	h.ui.Drain()
}

func TestSaveThenLoadDeliversEncodedBlob(t *testing.T) {
	h := newHarness(t)
	blob := []byte{0x00, 0x01, 0xfe, 0xff, 'S', 'N', 'E', 'S'}

	if err := h.saves.Save("Zelda.state", blob); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := h.saves.Load("Zelda.state"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	h.settle()

	got := h.guest.all()
	if len(got) != 1 {
		t.Fatalf("deliveries = %v, want one", got)
	}
	if got[0].event != api.EventReceiveState {
		t.Errorf("event = %q", got[0].event)
	}
	if len(got[0].args) != 1 || got[0].args[0] != statecodec.Encode(blob) {
		t.Errorf("args = %v", got[0].args)
	}
	if notices := h.notify.all(); len(notices) != 1 || notices[0] != "info: "+msgSaved {
		t.Errorf("notices = %v", notices)
	}
}

func TestLoadMissingSlot(t *testing.T) {
	h := newHarness(t)

	err := h.saves.Load("Nothing.smc.state")
	if !errors.Is(err, ErrNotFound) || !errors.Is(err, storage.ErrSlotNotFound) {
		t.Fatalf("Load = %v, want ErrNotFound", err)
	}
	h.settle()

	if d := h.guest.all(); len(d) != 0 {
		t.Errorf("guest received %v", d)
	}
	if notices := h.notify.all(); len(notices) != 1 || notices[0] != "info: "+msgNoSave {
		t.Errorf("notices = %v", notices)
	}
}

func TestSaveEncodedStripsHeader(t *testing.T) {
	h := newHarness(t)
	blob := bytes.Repeat([]byte{0xAB, 0xCD}, 1000)
	payload := "data:application/octet-stream;base64," + statecodec.Encode(blob)

	if err := h.saves.SaveEncoded("Mario.sfc", payload); err != nil {
		t.Fatal(err)
	}
	got, err := h.store.Read("Mario.sfc.state")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, blob) {
		t.Error("stored blob differs from decoded payload")
	}
}

func TestSaveEncodedMalformedWritesNothing(t *testing.T) {
	h := newHarness(t)
	if err := h.store.Write("Game.state", []byte("prior")); err != nil {
		t.Fatal(err)
	}

	err := h.saves.SaveEncoded("Game", "@@not base64@@")
	if !errors.Is(err, ErrDecode) || !errors.Is(err, statecodec.ErrMalformed) {
		t.Fatalf("SaveEncoded = %v, want ErrDecode", err)
	}
	h.settle()

	got, _ := h.store.Read("Game.state")
	if string(got) != "prior" {
		t.Errorf("slot = %q, want prior", got)
	}
	if notices := h.notify.all(); len(notices) != 1 || notices[0] != "error: "+msgCorrupted {
		t.Errorf("notices = %v", notices)
	}
	if d := h.guest.all(); len(d) != 0 {
		t.Errorf("guest received %v", d)
	}
}

var errDiskFull = errors.New("no space left on device")

type failingWriteFs struct {
	afero.Fs
}

func (f failingWriteFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return failingFile{file}, nil
}

type failingFile struct {
	afero.File
}

func (failingFile) Write(p []byte) (int, error) {
	return 0, errDiskFull
}

func TestSaveFailureKeepsPriorContent(t *testing.T) {
	h := newHarness(t)
	if err := h.store.Write("Game.state", []byte("prior")); err != nil {
		t.Fatal(err)
	}

	failing := storage.NewSlotStore(failingWriteFs{h.fs}, "/saves")
	b := NewSaveStateBridge(failing, h.guest, h.notify, h.ui, h.bg)

	err := b.Save("Game.state", []byte("replacement"))
	if !errors.Is(err, ErrIO) || !errors.Is(err, errDiskFull) {
		t.Fatalf("Save = %v, want ErrIO", err)
	}
	h.settle()

	got, _ := h.store.Read("Game.state")
	if string(got) != "prior" {
		t.Errorf("slot = %q, want prior", got)
	}
	if notices := h.notify.all(); len(notices) != 1 || notices[0] != "error: "+msgSaveFailed {
		t.Errorf("notices = %v", notices)
	}
	if d := h.guest.all(); len(d) != 0 {
		t.Errorf("guest received %v", d)
	}
}

// overlapStore fails the test if two writes to one key overlap.
type overlapStore struct {
	t      *testing.T
	active sync.Map
	writes atomic.Int32
}

func (s *overlapStore) Write(key string, data []byte) error {
	v, _ := s.active.LoadOrStore(key, new(atomic.Int32))
	n := v.(*atomic.Int32)
	if n.Add(1) != 1 {
		s.t.Errorf("concurrent writes to %s", key)
	}
	time.Sleep(time.Millisecond)
	n.Add(-1)
	s.writes.Add(1)
	return nil
}

func (s *overlapStore) Read(key string) ([]byte, error) {
	return nil, storage.ErrSlotNotFound
}

func TestSavesToOneSlotAreSerialized(t *testing.T) {
	h := newHarness(t)
	store := &overlapStore{t: t}
	b := NewSaveStateBridge(store, h.guest, h.notify, h.ui, h.bg)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Save("same.state", []byte{byte(i)})
		}(i)
	}
	wg.Wait()

	if store.writes.Load() != 8 {
		t.Errorf("writes = %d", store.writes.Load())
	}
	if n := b.locks.held(); n != 0 {
		t.Errorf("%d key locks leaked", n)
	}
}

func TestRequestSaveAndLoad(t *testing.T) {
	h := newHarness(t)

	if err := h.saves.RequestSave(); !errors.Is(err, ErrNoGame) {
		t.Errorf("RequestSave without game = %v", err)
	}
	if err := h.saves.RequestLoad(); !errors.Is(err, ErrNoGame) {
		t.Errorf("RequestLoad without game = %v", err)
	}
	if d := h.guest.all(); len(d) != 0 {
		t.Fatalf("guest received %v", d)
	}

	h.saves.SetGame("Zelda.sfc")
	if err := h.saves.RequestSave(); err != nil {
		t.Fatal(err)
	}
	if err := h.saves.RequestLoad(); err != nil {
		t.Fatal(err)
	}
	d := h.guest.all()
	if len(d) != 2 || d[0].event != api.EventTriggerSave || d[1].event != api.EventTriggerLoad {
		t.Errorf("deliveries = %v", d)
	}
	if len(d[0].args) != 0 {
		t.Errorf("triggerSaveState args = %v", d[0].args)
	}
}

func TestLargeStateRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("large state in short mode")
	}
	h := newHarness(t)
	blob := make([]byte, 20<<20)
	for i := range blob {
		blob[i] = byte(i * 7)
	}

	if err := h.saves.SaveEncoded("Big", statecodec.Encode(blob)); err != nil {
		t.Fatal(err)
	}
	if err := h.saves.Load(api.SlotKey("Big")); err != nil {
		t.Fatal(err)
	}
	h.settle()

	d := h.guest.all()
	if len(d) != 1 {
		t.Fatalf("deliveries = %d", len(d))
	}
	back, err := statecodec.Decode(d[0].args[0].(string))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(back, blob) {
		t.Error("round trip altered the blob")
	}
}

func TestRomTransferLaunchesGame(t *testing.T) {
	h := newHarness(t)
	rom := []byte("\x00SNES ROM IMAGE\xff")

	var launched []string
	h.roms.OnLaunch(func(name string) { launched = append(launched, name) })
	h.roms.Transfer(romloader.Memory("Chrono.sfc", rom))

	h.bg.Wait()
	if d := h.guest.all(); len(d) != 0 {
		t.Fatalf("delivered before the UI loop ran: %v", d)
	}
	h.ui.Drain()

	d := h.guest.all()
	if len(d) != 1 || d[0].event != api.EventLaunchGame {
		t.Fatalf("deliveries = %v", d)
	}
	want := []any{statecodec.Encode(rom), "Chrono.sfc"}
	if fmt.Sprint(d[0].args) != fmt.Sprint(want) {
		t.Errorf("args = %v, want %v", d[0].args, want)
	}
	if h.saves.Game() != "Chrono.sfc" {
		t.Errorf("current game = %q", h.saves.Game())
	}
	if len(launched) != 1 || launched[0] != "Chrono.sfc" {
		t.Errorf("OnLaunch calls = %v", launched)
	}
}

func TestRomTransferUnpacksArchive(t *testing.T) {
	h := newHarness(t)
	if err := afero.WriteFile(h.fs, "/roms/game.smc.gz", gzipBytes(t, []byte("inner")), 0644); err != nil {
		t.Fatal(err)
	}

	h.roms.Transfer(romloader.FileSource{Fs: h.fs, Path: "/roms/game.smc.gz"})
	h.settle()

	d := h.guest.all()
	if len(d) != 1 {
		t.Fatalf("deliveries = %v", d)
	}
	if d[0].args[0] != statecodec.Encode([]byte("inner")) || d[0].args[1] != "game.smc.gz" {
		t.Errorf("args = %v", d[0].args)
	}
}

// gatedSource blocks in Open until released.
type gatedSource struct {
	name    string
	data    []byte
	opened  chan struct{}
	release chan struct{}
}

func (s *gatedSource) Name() string { return s.name }

func (s *gatedSource) Open() (io.ReadCloser, error) {
	close(s.opened)
	<-s.release
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func TestRomTransferSupersededResultIsDropped(t *testing.T) {
	h := newHarness(t)
	slow := &gatedSource{
		name:    "Old.sfc",
		data:    []byte("old"),
		opened:  make(chan struct{}),
		release: make(chan struct{}),
	}

	first := h.roms.Transfer(slow)
	<-slow.opened
	second := h.roms.Transfer(romloader.Memory("New.sfc", []byte("new")))
	if second == first || h.roms.Current() != second {
		t.Fatalf("tickets %d, %d, current %d", first, second, h.roms.Current())
	}
	close(slow.release)
	h.settle()

	d := h.guest.all()
	if len(d) != 1 {
		t.Fatalf("deliveries = %v, want only the newer launch", d)
	}
	if d[0].args[1] != "New.sfc" {
		t.Errorf("launched %v", d[0].args[1])
	}
	if h.saves.Game() != "New.sfc" {
		t.Errorf("current game = %q", h.saves.Game())
	}
}

func TestRomTransferCancel(t *testing.T) {
	h := newHarness(t)
	h.roms.Transfer(romloader.Memory("A.sfc", []byte("a")))
	h.roms.Cancel()
	h.settle()

	if d := h.guest.all(); len(d) != 0 {
		t.Errorf("cancelled transfer delivered %v", d)
	}
	if n := h.notify.all(); len(n) != 0 {
		t.Errorf("cancelled transfer notified %v", n)
	}
}

func TestRomTransferFailure(t *testing.T) {
	h := newHarness(t)
	h.roms.Transfer(romloader.FileSource{Fs: h.fs, Path: "/missing.sfc"})
	h.settle()

	if d := h.guest.all(); len(d) != 0 {
		t.Errorf("guest received %v", d)
	}
	if n := h.notify.all(); len(n) != 1 || n[0] != "error: "+msgRomFailed {
		t.Errorf("notices = %v", n)
	}
	if h.saves.Game() != "" {
		t.Errorf("failed launch set game %q", h.saves.Game())
	}
}

func TestCallRouter(t *testing.T) {
	h := newHarness(t)
	var ready int
	router := NewCallRouter(h.saves, func() { ready++ })

	blob := []byte("state bytes")
	if err := router.HandleCall(api.CallSaveState, []string{statecodec.Encode(blob), "Zelda.sfc"}); err != nil {
		t.Fatal(err)
	}
	h.settle()
	if got, err := h.store.Read("Zelda.sfc.state"); err != nil || !bytes.Equal(got, blob) {
		t.Fatalf("stored %q, %v", got, err)
	}

	if err := router.HandleCall(api.CallLoadState, []string{"Zelda.sfc"}); err != nil {
		t.Fatal(err)
	}
	h.settle()
	d := h.guest.all()
	if len(d) != 1 || d[0].event != api.EventReceiveState || d[0].args[0] != statecodec.Encode(blob) {
		t.Errorf("deliveries = %v", d)
	}

	if err := router.HandleCall(api.CallReady, nil); err != nil || ready != 1 {
		t.Errorf("ready: err=%v calls=%d", err, ready)
	}
	if err := router.HandleCall(api.CallSaveState, []string{"only one"}); err == nil {
		t.Error("short saveStateToDisk accepted")
	}
	if err := router.HandleCall(api.CallLoadState, nil); err == nil {
		t.Error("empty loadStateFromDisk accepted")
	}
	if err := router.HandleCall("formatDisk", nil); err == nil {
		t.Error("unknown call accepted")
	}
}
