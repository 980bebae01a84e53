package featureflags

import "testing"

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	if !m.Enabled("a", 1) || !m.Enabled("c", 1) || !m.Enabled("e", 1) {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("b", 1) || m.Enabled("d", 1) || m.Enabled("f", 1) {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
	if m.Enabled("missing", 1) {
		t.Fatal("unknown flags must be off")
	}
}

func TestEnabled_Percentage(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,broken=x%")

	if !m.Enabled("always", 0) {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", 1) || m.Enabled("broken", 1) {
		t.Fatal("0% and malformed rollouts should be disabled")
	}

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		if m.Enabled("canary", 42) != first {
			t.Fatal("rollout evaluation must be deterministic per subject")
		}
	}
	if m.Enabled("canary", 0) {
		t.Fatal("partial rollout requires a non-zero subject")
	}
}

func TestLegacySilentNoopParsing(t *testing.T) {
	m := NewManager(" bad , LEGACY_SILENT_NOOP = On ")
	if !m.Enabled(LegacySilentNoop, 0) {
		t.Fatal("flag names and values are case-insensitive")
	}
	if snap := m.Snapshot(0); len(snap) != 1 {
		t.Fatalf("expected one parsed flag, got %#v", snap)
	}

	var nilManager *Manager
	if nilManager.Enabled(LegacySilentNoop, 0) {
		t.Fatal("nil manager must report every flag off")
	}
}
