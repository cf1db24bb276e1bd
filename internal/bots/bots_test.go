package bots

import "testing"

func TestIsMember(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"chad", true},
		{"quantum", true},
		{"oracle", true},
		{"", false},
		{"unknown-bot", false},
		{"James", false}, // display names are not IDs
	}

	for _, tt := range tests {
		if got := IsMember(tt.id); got != tt.want {
			t.Errorf("IsMember(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestName(t *testing.T) {
	if got := Name("chad"); got != "James" {
		t.Errorf("Name(chad) = %q, want James", got)
	}
	// Unknown IDs fall back to the ID itself.
	if got := Name("someone"); got != "someone" {
		t.Errorf("Name(someone) = %q, want someone", got)
	}
}

func TestToken(t *testing.T) {
	t.Setenv("JAMES_BOT_TOKEN", "111:aaa")

	if got := Token("chad"); got != "111:aaa" {
		t.Errorf("Token(chad) = %q, want 111:aaa", got)
	}
	if got := Token("unknown-bot"); got != "" {
		t.Errorf("Token(unknown-bot) = %q, want empty", got)
	}
}

func TestByUsername(t *testing.T) {
	id, ok := ByUsername("KeoneCouncilBot")
	if !ok || id != "quantum" {
		t.Errorf("ByUsername(KeoneCouncilBot) = %q, %v, want quantum, true", id, ok)
	}

	if _, ok := ByUsername("SomeOtherBot"); ok {
		t.Error("ByUsername(SomeOtherBot) should not resolve")
	}
}
