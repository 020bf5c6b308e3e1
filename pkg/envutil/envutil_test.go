package envutil

import "testing"

func TestGetStr(t *testing.T) {
	t.Setenv("ROUTEKIT_TEST_STR", "value")
	if got := GetStr("ROUTEKIT_TEST_STR", "default"); got != "value" {
		t.Errorf("expected value, got %q", got)
	}
	if got := GetStr("ROUTEKIT_TEST_MISSING", "default"); got != "default" {
		t.Errorf("expected default, got %q", got)
	}

	t.Setenv("ROUTEKIT_TEST_EMPTY", "")
	if got := GetStr("ROUTEKIT_TEST_EMPTY", "default"); got != "" {
		t.Errorf("expected a set but empty variable to win, got %q", got)
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name string
		set  bool
		raw  string
		want int
	}{
		{"unset", false, "", 8080},
		{"valid", true, "3000", 3000},
		{"negative", true, "-1", -1},
		{"invalid", true, "abc", 8080},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("ROUTEKIT_TEST_INT", tt.raw)
			}
			if got := GetInt("ROUTEKIT_TEST_INT", 8080); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestGetBool(t *testing.T) {
	tests := []struct {
		name string
		set  bool
		raw  string
		want bool
	}{
		{"unset", false, "", true},
		{"false", true, "false", false},
		{"zero", true, "0", false},
		{"invalid", true, "nope", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("ROUTEKIT_TEST_BOOL", tt.raw)
			}
			if got := GetBool("ROUTEKIT_TEST_BOOL", true); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
