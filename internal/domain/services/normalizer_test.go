package services

import "testing"

func TestNormalize(t *testing.T) {
	n := NewPermissionNormalizer()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"android prefix", "android.permission.READ_SMS", "READ_SMS"},
		{"gms prefix", "com.google.android.gms.permission.AD_ID", "AD_ID"},
		{"vending prefix", "com.android.vending.BILLING", "BILLING"},
		{"c2dm prefix", "com.google.android.c2dm.permission.RECEIVE", "RECEIVE"},
		{"htc launcher prefix", "com.htc.launcher.permission.READ_SETTINGS", "READ_SETTINGS"},
		{"youtube permission prefix", "com.google.android.youtube.permission.FOO", "FOO"},
		{"youtube bare prefix", "com.google.android.youtube.FOO", "FOO"},
		{"already canonical", "CAMERA", "CAMERA"},
		{"unknown vendor prefix kept", "com.example.permission.FOO", "com.example.permission.FOO"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewPermissionNormalizer()

	inputs := []string{
		"android.permission.CAMERA",
		"com.google.android.youtube.FOO",
		"READ_CONTACTS",
		"weird string with spaces",
	}

	for _, raw := range inputs {
		once := n.Normalize(raw)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", raw, once, twice)
		}
	}
}

func TestHumanizePermission(t *testing.T) {
	if got := humanizePermission("READ_SMS"); got != "read sms" {
		t.Errorf("humanizePermission(READ_SMS) = %q, want %q", got, "read sms")
	}
	if got := humanizePermission("ACCESS_FINE_LOCATION"); got != "access fine location" {
		t.Errorf("humanizePermission(ACCESS_FINE_LOCATION) = %q", got)
	}
}
