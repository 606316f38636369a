package accounts

import (
	"errors"
	"strings"
	"testing"
)

type fixedFloor struct {
	label string
	ok    bool
}

func (f fixedFloor) FloorLabel() (string, bool) { return f.label, f.ok }

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Update(User{Name: "Айгерим", Group: "ИС-21", Program: "Информационные системы"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	u, err := s.Get("айгерим")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.Group != "ИС-21" {
		t.Errorf("Group = %q", u.Group)
	}

	if _, err := s.Get("неизвестный"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Get unknown: err = %v, want ErrUserNotFound", err)
	}
}

func TestMemoryStoreCurrent(t *testing.T) {
	s := NewMemoryStore()

	if _, ok := s.Current(); ok {
		t.Fatal("fresh store should have no current user")
	}
	if err := s.SetCurrent("призрак"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("SetCurrent unknown: err = %v", err)
	}

	if err := s.Update(User{Name: "Данияр"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCurrent("Данияр"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if u, ok := s.Current(); !ok || u.Name != "Данияр" {
		t.Errorf("Current = %+v/%v", u, ok)
	}

	if err := s.SetCurrent(""); err != nil {
		t.Fatalf("SetCurrent guest: %v", err)
	}
	if _, ok := s.Current(); ok {
		t.Error("empty name should switch to guest")
	}
}

func TestUserContext(t *testing.T) {
	s := NewMemoryStore()

	if got := UserContext(s, nil); !strings.Contains(got, "гость") {
		t.Errorf("guest context = %q", got)
	}

	_ = s.Update(User{Name: "Айгерим"})
	_ = s.SetCurrent("Айгерим")
	if got := UserContext(s, nil); !strings.Contains(got, "Айгерим") {
		t.Errorf("named context = %q", got)
	}
}

func TestProfileSummary(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Update(User{Name: "Айгерим", Group: "ИС-21"})
	_ = s.SetCurrent("Айгерим")

	got := ProfileSummary(s, fixedFloor{label: "3 этаж", ok: true})
	if !strings.Contains(got, "Айгерим") || !strings.Contains(got, "ИС-21") {
		t.Errorf("summary = %q", got)
	}
	if !strings.Contains(got, "3 этаж") {
		t.Errorf("floor label missing: %q", got)
	}
	// Program was never set, the localized placeholder appears instead.
	if !strings.Contains(got, "не задана") {
		t.Errorf("missing-field placeholder absent: %q", got)
	}

	got = ProfileSummary(s, nil)
	if !strings.Contains(got, "не определён") {
		t.Errorf("unknown floor placeholder absent: %q", got)
	}
}
