package main

import "testing"

func TestParseEnvFlagsEmpty(t *testing.T) {
	got, err := parseEnvFlags(nil)
	if err != nil {
		t.Fatalf("parseEnvFlags(nil): %v", err)
	}
	if got != nil {
		t.Errorf("parseEnvFlags(nil) = %+v, want nil", got)
	}
}

func TestParseEnvFlagsPairs(t *testing.T) {
	got, err := parseEnvFlags([]string{"FOO=bar", "BAZ=qux=extra"})
	if err != nil {
		t.Fatalf("parseEnvFlags: %v", err)
	}
	if got["FOO"] != "bar" {
		t.Errorf("FOO = %q, want %q", got["FOO"], "bar")
	}
	if got["BAZ"] != "qux=extra" {
		t.Errorf("BAZ = %q, want %q (only the first '=' splits)", got["BAZ"], "qux=extra")
	}
}

func TestParseEnvFlagsRejectsMissingEquals(t *testing.T) {
	if _, err := parseEnvFlags([]string{"NOVALUE"}); err == nil {
		t.Error("expected an error for an env flag without '='")
	}
}
