package inmemory

import (
	"context"
	"fmt"
	"testing"

	history "github.com/unikit/regent/pkg/history/types"
)

func TestAppendAndList(t *testing.T) {
	m := New(20)
	ctx := context.Background()

	if err := m.Append(ctx, "user1", history.Exchange{Question: "What is the deadline?", Answer: "The deadline is 1 May."}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	log, err := m.List(ctx, "user1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(log) != 1 {
		t.Fatalf("expected 1 exchange, got %d", len(log))
	}
	if log[0].Question != "What is the deadline?" || log[0].Answer != "The deadline is 1 May." {
		t.Errorf("unexpected exchange: %+v", log[0])
	}
}

func TestPreservesOrder(t *testing.T) {
	m := New(20)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := m.Append(ctx, "userX", history.Exchange{Question: fmt.Sprintf("Q%d", i), Answer: fmt.Sprintf("A%d", i)}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	log, err := m.List(ctx, "userX")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for i, ex := range log {
		if ex.Question != fmt.Sprintf("Q%d", i) {
			t.Errorf("position %d: got %q", i, ex.Question)
		}
	}
}

func TestRespectsLimit(t *testing.T) {
	m := New(20)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if err := m.Append(ctx, "limited", history.Exchange{Question: fmt.Sprintf("Q%d", i), Answer: fmt.Sprintf("A%d", i)}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	log, err := m.List(ctx, "limited")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(log) != 20 {
		t.Fatalf("expected 20 exchanges, got %d", len(log))
	}
	// Oldest five evicted; survivors keep their relative order.
	for i, ex := range log {
		if want := fmt.Sprintf("Q%d", i+5); ex.Question != want {
			t.Errorf("position %d: expected %q, got %q", i, want, ex.Question)
		}
	}
}

func TestTokenIsolation(t *testing.T) {
	m := New(20)
	ctx := context.Background()

	_ = m.Append(ctx, "u1", history.Exchange{Question: "Q1", Answer: "A1"})
	_ = m.Append(ctx, "u2", history.Exchange{Question: "QX", Answer: "AY"})

	log1, _ := m.List(ctx, "u1")
	log2, _ := m.List(ctx, "u2")

	if len(log1) != 1 || len(log2) != 1 {
		t.Fatalf("expected one exchange each, got %d and %d", len(log1), len(log2))
	}
	if log1[0].Question != "Q1" || log2[0].Question != "QX" {
		t.Errorf("histories leaked across tokens: %+v %+v", log1, log2)
	}
}

func TestUnknownTokenEmpty(t *testing.T) {
	m := New(20)

	log, err := m.List(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(log) != 0 {
		t.Errorf("expected empty history, got %v", log)
	}
}

func TestListReturnsSnapshot(t *testing.T) {
	m := New(20)
	ctx := context.Background()

	_ = m.Append(ctx, "u", history.Exchange{Question: "Q1", Answer: "A1"})

	snapshot, _ := m.List(ctx, "u")
	snapshot[0].Question = "mutated"

	again, _ := m.List(ctx, "u")
	if again[0].Question != "Q1" {
		t.Error("List returned a live view, not a snapshot")
	}
}
