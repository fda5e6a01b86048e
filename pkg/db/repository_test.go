package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	repo, err := NewRepository(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	inv := &Invocation{
		Image:   "rhel7/rsyslog",
		State:   "started",
		Upgrade: true,
		Changed: true,
		Message: "Downloading image...",
	}
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("failed to create invocation: %v", err)
	}
	if inv.ID == "" {
		t.Fatal("Create should assign an ID")
	}

	got, err := repo.Get(ctx, inv.ID)
	if err != nil {
		t.Fatalf("failed to get invocation: %v", err)
	}
	if got == nil {
		t.Fatal("invocation not found")
	}
	if got.Image != inv.Image || got.State != inv.State || !got.Upgrade || !got.Changed || got.Failed {
		t.Errorf("retrieved invocation mismatch: got %+v, want %+v", got, inv)
	}
	if got.Message != inv.Message {
		t.Errorf("Message = %q, want %q", got.Message, inv.Message)
	}
	if got.CreatedAt == "" {
		t.Error("CreatedAt should be set by the database")
	}
}

func TestRepository_GetMissing(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.Get(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestRepository_RejectsUnknownState(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Create(context.Background(), &Invocation{Image: "x", State: "restarted"})
	if err == nil {
		t.Error("expected constraint error for unknown state")
	}
}

func TestRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for i := 0; i < 3; i++ {
		repo.Create(ctx, &Invocation{Image: "rhel7/rsyslog", State: "started", Message: fmt.Sprintf("run %d", i)})
	}
	repo.Create(ctx, &Invocation{Image: "fedora/etcd", State: "stopped", Failed: true, RC: 1})

	all, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("failed to list invocations: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 invocations, got %d", len(all))
	}
	if all[0].Image != "fedora/etcd" || all[0].Outcome() != "failed" || all[0].RC != 1 {
		t.Errorf("newest invocation = %+v, want failed fedora/etcd", all[0])
	}

	limited, err := repo.ListByImage(ctx, "rhel7/rsyslog", 2)
	if err != nil {
		t.Fatalf("failed to list by image: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(limited))
	}
	if limited[0].Message != "run 2" || limited[1].Message != "run 1" {
		t.Errorf("order = [%s, %s], want [run 2, run 1]", limited[0].Message, limited[1].Message)
	}
}

func TestInvocation_Outcome(t *testing.T) {
	tests := []struct {
		inv  Invocation
		want string
	}{
		{Invocation{}, "ok"},
		{Invocation{Changed: true}, "changed"},
		{Invocation{Skipped: true}, "skipped"},
		{Invocation{Failed: true, Changed: true}, "failed"},
	}

	for _, tt := range tests {
		if got := tt.inv.Outcome(); got != tt.want {
			t.Errorf("Outcome() for %+v = %q, want %q", tt.inv, got, tt.want)
		}
	}
}
