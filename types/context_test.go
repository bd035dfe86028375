package types

import "testing"

func TestContextPatch_ApplyTo(t *testing.T) {
	t.Parallel()

	ctx := AgentContext{
		Mode:      ModeCase,
		UserID:    "u1",
		SessionID: "s1",
	}

	got := ContextPatch{CaseID: "case-42"}.ApplyTo(ctx)
	if got.CaseID != "case-42" {
		t.Fatalf("expected case id bound, got %q", got.CaseID)
	}
	if got.Mode != ModeCase || got.UserID != "u1" || got.SessionID != "s1" {
		t.Fatalf("unrelated fields changed: %+v", got)
	}

	// Empty patch fields leave existing values untouched.
	got = ContextPatch{ResearchID: "r1"}.ApplyTo(got)
	if got.CaseID != "case-42" || got.ResearchID != "r1" {
		t.Fatalf("shallow merge broken: %+v", got)
	}
}

func TestMode_Valid(t *testing.T) {
	t.Parallel()

	for _, m := range []Mode{ModeResearch, ModeCase, ModePlayground} {
		if !m.Valid() {
			t.Fatalf("expected %q valid", m)
		}
	}
	if Mode("billing").Valid() {
		t.Fatalf("unexpected valid mode")
	}
}

func TestAgentConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := DefaultAgentConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	bad := cfg
	bad.MaxContextLength = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected validation error for zero context length")
	}

	bad = cfg
	bad.ModelName = ""
	if !IsErrorCode(bad.Validate(), ErrInvalidRequest) {
		t.Fatalf("expected INVALID_REQUEST for missing model")
	}
}
