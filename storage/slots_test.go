package storage

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func TestSlotStoreWriteRead(t *testing.T) {
	s := NewSlotStore(afero.NewMemMapFs(), "/saves")

	blob := []byte{0x00, 0xff, 0x10, 0x7f}
	if err := s.Write("Zelda.sfc.state", blob); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("Zelda.sfc.state")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("Read = %v, want %v", got, blob)
	}
	if !s.Exists("Zelda.sfc.state") {
		t.Error("Exists = false")
	}

	if err := s.Write("Zelda.sfc.state", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Read("Zelda.sfc.state")
	if string(got) != "v2" {
		t.Errorf("overwrite: Read = %q", got)
	}
}

func TestSlotStoreEmptyBlob(t *testing.T) {
	s := NewSlotStore(afero.NewMemMapFs(), "/saves")
	if err := s.Write("empty.state", nil); err != nil {
		t.Fatal(err)
	}
	got, err := s.Read("empty.state")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Read = %v", got)
	}
}

func TestSlotStoreNotFound(t *testing.T) {
	s := NewSlotStore(afero.NewMemMapFs(), "/saves")
	_, err := s.Read("never.state")
	if !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("Read missing = %v, want ErrSlotNotFound", err)
	}
	if s.Exists("never.state") {
		t.Error("Exists = true for missing slot")
	}
}

func TestSlotStoreInvalidKeys(t *testing.T) {
	s := NewSlotStore(afero.NewMemMapFs(), "/saves")
	for _, key := range []string{"", ".", "..", ".hidden", "../escape.state", "a/b.state", `a\b.state`, "nul\x00.state"} {
		if err := s.Write(key, []byte("x")); !errors.Is(err, ErrInvalidSlotKey) {
			t.Errorf("Write(%q) = %v, want ErrInvalidSlotKey", key, err)
		}
		if _, err := s.Read(key); !errors.Is(err, ErrInvalidSlotKey) {
			t.Errorf("Read(%q) = %v, want ErrInvalidSlotKey", key, err)
		}
	}
}

func TestSlotStoreList(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewSlotStore(fs, "/saves")

	keys, err := s.List()
	if err != nil || len(keys) != 0 {
		t.Fatalf("List on missing dir = %v, %v", keys, err)
	}

	for _, k := range []string{"b.state", "a.state"} {
		if err := s.Write(k, []byte(k)); err != nil {
			t.Fatal(err)
		}
	}
	// A temp file left by a crash is not a slot.
	if err := afero.WriteFile(fs, "/saves/.c.state.123.tmp", []byte("partial"), 0644); err != nil {
		t.Fatal(err)
	}

	keys, err = s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "a.state" || keys[1] != "b.state" {
		t.Errorf("List = %v", keys)
	}
}

func TestSlotStoreFailedSaveKeepsPrior(t *testing.T) {
	base := afero.NewMemMapFs()
	good := NewSlotStore(base, "/saves")
	if err := good.Write("game.state", []byte("prior")); err != nil {
		t.Fatal(err)
	}

	bad := NewSlotStore(failingWriteFs{base}, "/saves")
	if err := bad.Write("game.state", []byte("new content")); err == nil {
		t.Fatal("Write on failing fs succeeded")
	}

	got, err := good.Read("game.state")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "prior" {
		t.Errorf("Read = %q, want prior", got)
	}
}

func TestOpenSlotStore(t *testing.T) {
	withMemFs(t)
	s, err := OpenSlotStore()
	if err != nil {
		t.Fatal(err)
	}
	if s.Dir() != "/data/saves" {
		t.Errorf("Dir() = %q", s.Dir())
	}
}
