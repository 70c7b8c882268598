package service

import (
	"errors"
	"testing"
)

func nopHandler(*Context, []byte) error { return nil }

func TestRegistry_RegisterLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(1, "cryptocurrency", 0, "CreateToken", nopHandler); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, ok := r.Lookup(1, 0); !ok {
		t.Error("Lookup(1, 0) should find the handler")
	}
	if _, ok := r.Lookup(1, 1); ok {
		t.Error("Lookup(1, 1) should not find a handler")
	}
	if _, ok := r.Lookup(2, 0); ok {
		t.Error("Lookup(2, 0) should not find a handler")
	}
	if name, ok := r.ServiceName(1); !ok || name != "cryptocurrency" {
		t.Errorf("ServiceName(1) = %q, %v", name, ok)
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	tests := []struct {
		name        string
		serviceID   uint16
		serviceName string
		messageID   uint16
	}{
		{"same message", 1, "cryptocurrency", 0},
		{"id renamed", 1, "other", 1},
		{"name reused", 2, "cryptocurrency", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if err := r.Register(1, "cryptocurrency", 0, "CreateToken", nopHandler); err != nil {
				t.Fatalf("Register: %v", err)
			}
			err := r.Register(tt.serviceID, tt.serviceName, tt.messageID, "X", nopHandler)
			if !errors.Is(err, ErrDuplicate) {
				t.Errorf("Register() = %v, want ErrDuplicate", err)
			}
		})
	}
}

func TestRegistry_NilHandler(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(1, "s", 0, "m", nil); err == nil {
		t.Error("nil handler should be rejected")
	}
}

func TestRegistry_Services(t *testing.T) {
	r := NewRegistry()
	r.Register(5, "b", 1, "B1", nopHandler)
	r.Register(1, "a", 2, "A2", nopHandler)
	r.Register(1, "a", 0, "A0", nopHandler)

	got := r.Services()
	if len(got) != 2 {
		t.Fatalf("Services() returned %d, want 2", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 5 {
		t.Errorf("services not ordered by id: %+v", got)
	}
	if len(got[0].Messages) != 2 || got[0].Messages[0].Name != "A0" || got[0].Messages[1].Name != "A2" {
		t.Errorf("messages = %+v", got[0].Messages)
	}
}
