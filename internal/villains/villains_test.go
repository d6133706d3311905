package villains

import (
	"fmt"
	"testing"
)

func TestSaveAndGet(t *testing.T) {
	s := NewStore()
	v := s.Save("Dr. Chaos", "/img/chaos.png")
	if v.ID == "" {
		t.Error("Save() assigned no ID")
	}

	got := s.Get("Dr. Chaos")
	if got == nil || got.ImageURL != "/img/chaos.png" {
		t.Fatalf("Get() = %+v, want saved villain", got)
	}
}

func TestSaveUpsertsByName(t *testing.T) {
	s := NewStore()
	first := s.Save("Dr. Chaos", "/img/1.png")
	second := s.Save("Dr. Chaos", "/img/2.png")

	if first.ID != second.ID {
		t.Error("upsert created a new villain")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if s.Get("Dr. Chaos").ImageURL != "/img/2.png" {
		t.Error("upsert did not replace the image")
	}
}

func TestGalleryBound(t *testing.T) {
	s := NewStore()
	for i := 0; i < maxVillains+3; i++ {
		s.Save(fmt.Sprintf("villain-%d", i), "")
	}
	if s.Len() != maxVillains {
		t.Fatalf("Len() = %d, want %d", s.Len(), maxVillains)
	}

	// oldest entries were evicted, newest survive
	if s.Get("villain-0") != nil {
		t.Error("oldest villain should be evicted")
	}
	if s.Get(fmt.Sprintf("villain-%d", maxVillains+2)) == nil {
		t.Error("newest villain missing")
	}

	list := s.List()
	if list[0].Name != fmt.Sprintf("villain-%d", maxVillains+2) {
		t.Errorf("List()[0] = %q, want newest first", list[0].Name)
	}
}

func TestSaveMovesUpsertToFront(t *testing.T) {
	s := NewStore()
	s.Save("Dr. Chaos", "")
	s.Save("The Gloom", "")
	s.Save("Dr. Chaos", "/img/new.png")

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("Len() = %d, want 2", len(list))
	}
	if list[0].Name != "Dr. Chaos" {
		t.Errorf("List()[0] = %q, want the resaved villain first", list[0].Name)
	}
}

func TestRemove(t *testing.T) {
	s := NewStore()
	s.Save("Dr. Chaos", "")
	if !s.Remove("Dr. Chaos") {
		t.Fatal("Remove() = false for existing villain")
	}
	if s.Remove("Dr. Chaos") {
		t.Fatal("Remove() = true for already removed villain")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestGetMissing(t *testing.T) {
	if v := NewStore().Get("nobody"); v != nil {
		t.Errorf("Get() = %+v, want nil", v)
	}
}
