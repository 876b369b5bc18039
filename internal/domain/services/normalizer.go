package services

import "strings"

// Known vendor and platform namespace prefixes, checked in table order with
// the first match winning. Order matters: more specific entries sit before
// shorter ones that share a stem (youtube.permission before youtube).
var permissionPrefixes = []string{
	"android.permission.",
	"com.google.android.gms.permission.",
	"com.android.vending.",
	"com.sonyericsson.home.permission.",
	"com.google.android.providers.gsf.permission.",
	"com.sec.android.provider.badge.permission.",
	"com.google.android.c2dm.permission.",
	"com.sonymobile.home.permission.",
	"com.htc.launcher.permission.",
	"com.google.android.youtube.permission.",
	"com.google.android.youtube.",
}

// PermissionNormalizer strips known namespace prefixes from raw permission
// identifiers to obtain canonical catalog keys. Stateless and side-effect
// free; Normalize is total and idempotent.
type PermissionNormalizer struct{}

// NewPermissionNormalizer creates a new permission normalizer
func NewPermissionNormalizer() *PermissionNormalizer {
	return &PermissionNormalizer{}
}

// Normalize returns raw with the first matching known prefix removed, or raw
// unchanged if no prefix matches. Never fails.
func (n *PermissionNormalizer) Normalize(raw string) string {
	for _, prefix := range permissionPrefixes {
		if strings.HasPrefix(raw, prefix) {
			return raw[len(prefix):]
		}
	}
	return raw
}

// humanizePermission turns a canonical key into lowercased prose,
// e.g. READ_SMS -> "read sms"
func humanizePermission(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", " "))
}
