package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"consent-engine/internal/domain/models"
)

// CatalogEntry is one row of the permission catalog
type CatalogEntry struct {
	Key         string                    `yaml:"key"`
	Weight      float64                   `yaml:"weight"`
	Category    models.PermissionCategory `yaml:"category"`
	Description string                    `yaml:"description"`
	Remediation string                    `yaml:"remediation"`
}

// PermissionCatalog is the static knowledge base mapping canonical permission
// keys to risk weights, categories and advisory text. It is built once at
// startup and never mutated, so concurrent reads need no synchronization.
type PermissionCatalog struct {
	entries     map[string]CatalogEntry
	categories  map[models.PermissionCategory][]string
	knowledge   map[string]models.PermissionKnowledge
	totalWeight float64
}

// Reference weight tiers. The scoring model accepts arbitrary weights in
// [0,1]; the shipped table uses exactly these three.
const (
	WeightHigh   = 1.0
	WeightMedium = 0.7
	WeightLow    = 0.3
)

var defaultCatalogEntries = []CatalogEntry{
	// High risk
	{"READ_SMS", WeightHigh, models.PermissionCategorySMS, "Allows the app to read SMS messages", "Consider if SMS access is necessary for core functionality"},
	{"RECEIVE_SMS", WeightHigh, models.PermissionCategorySMS, "Allows the app to receive SMS messages", "Consider if SMS receiving is necessary for core functionality"},
	{"READ_CONTACTS", WeightHigh, models.PermissionCategoryContacts, "Allows the app to read your contacts", "Consider if contact access is necessary for core functionality"},
	{"ACCESS_FINE_LOCATION", WeightHigh, models.PermissionCategoryLocation, "Allows the app to access precise location", "Consider using coarse location instead if precise location is not required"},
	{"RECORD_AUDIO", WeightHigh, models.PermissionCategoryMedia, "Allows the app to record audio", "Consider if audio recording is necessary for core functionality"},
	{"READ_CALL_LOG", WeightHigh, models.PermissionCategoryPhone, "Allows the app to read call logs", "Consider if call log access is necessary for core functionality"},
	{"CAMERA", WeightHigh, models.PermissionCategoryMedia, "Allows the app to access the camera", "Consider if camera access is necessary for core functionality"},
	{"READ_EXTERNAL_STORAGE", WeightHigh, models.PermissionCategoryStorage, "Allows the app to read external storage", "Consider using app-specific storage instead"},
	{"WRITE_EXTERNAL_STORAGE", WeightHigh, models.PermissionCategoryStorage, "Allows the app to write to external storage", "Consider using app-specific storage instead"},
	{"ACCESS_COARSE_LOCATION", WeightHigh, models.PermissionCategoryLocation, "Allows the app to access approximate location", "Consider if location access is necessary for core functionality"},

	// Medium risk
	{"READ_PHONE_STATE", WeightMedium, models.PermissionCategoryPhone, "Allows the app to read phone state", "Consider if phone state access is necessary for core functionality"},
	{"ACCESS_NETWORK_STATE", WeightMedium, models.PermissionCategoryNetwork, "Allows the app to access network information", "Consider if network state access is necessary for core functionality"},
	{"INTERNET", WeightMedium, models.PermissionCategoryNetwork, "Allows the app to access the internet", "Consider if internet access is necessary for core functionality"},
	{"ACCESS_WIFI_STATE", WeightMedium, models.PermissionCategoryNetwork, "Allows the app to access WiFi information", "Consider if WiFi state access is necessary for core functionality"},
	{"WAKE_LOCK", WeightMedium, models.PermissionCategorySystem, "Allows the app to prevent device from sleeping", "Consider if wake lock is necessary for core functionality"},

	// Low risk
	{"VIBRATE", WeightLow, models.PermissionCategorySystem, "Allows the app to control vibration", "Consider if vibration control is necessary for core functionality"},
	{"RECEIVE_BOOT_COMPLETED", WeightLow, models.PermissionCategorySystem, "Allows the app to start on device boot", "Consider if auto-start is necessary for core functionality"},
	{"GET_ACCOUNTS", WeightLow, models.PermissionCategoryContacts, "Allows the app to access accounts on the device", "Consider if account access is necessary for core functionality"},
	{"READ_SYNC_SETTINGS", WeightLow, models.PermissionCategorySystem, "Allows the app to read sync settings", "Consider if sync settings access is necessary for core functionality"},
	{"WRITE_SYNC_SETTINGS", WeightLow, models.PermissionCategorySystem, "Allows the app to write sync settings", "Consider if sync settings modification is necessary for core functionality"},
}

// Category membership used for category scoring. Kept as an explicit ordered
// table rather than derived from entries: SEND_SMS and WRITE_CONTACTS belong
// to a category without carrying a catalog weight, and the category score
// denominator must reflect exactly this grouping.
var defaultCategoryMembers = map[models.PermissionCategory][]string{
	models.PermissionCategorySMS:      {"READ_SMS", "RECEIVE_SMS", "SEND_SMS"},
	models.PermissionCategoryContacts: {"READ_CONTACTS", "WRITE_CONTACTS"},
	models.PermissionCategoryLocation: {"ACCESS_FINE_LOCATION", "ACCESS_COARSE_LOCATION"},
	models.PermissionCategoryStorage:  {"READ_EXTERNAL_STORAGE", "WRITE_EXTERNAL_STORAGE"},
	models.PermissionCategoryPhone:    {"READ_PHONE_STATE", "READ_CALL_LOG"},
	models.PermissionCategoryMedia:    {"CAMERA", "RECORD_AUDIO"},
	models.PermissionCategoryNetwork:  {"INTERNET", "ACCESS_NETWORK_STATE", "ACCESS_WIFI_STATE"},
	models.PermissionCategorySystem:   {"WAKE_LOCK", "VIBRATE", "RECEIVE_BOOT_COMPLETED"},
}

var defaultKnowledge = map[string]models.PermissionKnowledge{
	"CAMERA": {
		Risk:       "High",
		Abuse:      "Can be used to spy on users.",
		Compliance: "Needs clear user consent under GDPR/DPDP.",
	},
	"ACCESS_FINE_LOCATION": {
		Risk:       "High",
		Abuse:      "Tracks precise user location.",
		Compliance: "Should only be used if essential; prefer coarse location.",
	},
	"READ_CONTACTS": {
		Risk:       "High",
		Abuse:      "Can access user contacts and social graph.",
		Compliance: "Needs explicit user consent.",
	},
	"INTERNET": {
		Risk:       "Medium",
		Abuse:      "Can send data externally.",
		Compliance: "Should be justified in privacy policy.",
	},
}

// NewPermissionCatalog builds the catalog from the embedded reference table
func NewPermissionCatalog() *PermissionCatalog {
	return newCatalog(defaultCatalogEntries)
}

// LoadPermissionCatalog builds the catalog from a YAML file. Changes to the
// table change scoring output, so deployments pin the file version.
func LoadPermissionCatalog(path string) (*PermissionCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var entries []CatalogEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no entries", path)
	}
	for _, e := range entries {
		if e.Weight < 0 || e.Weight > 1 {
			return nil, fmt.Errorf("catalog entry %s has weight %.2f outside [0,1]", e.Key, e.Weight)
		}
	}

	return newCatalog(entries), nil
}

func newCatalog(entries []CatalogEntry) *PermissionCatalog {
	c := &PermissionCatalog{
		entries:    make(map[string]CatalogEntry, len(entries)),
		categories: defaultCategoryMembers,
		knowledge:  defaultKnowledge,
	}
	for _, e := range entries {
		c.entries[e.Key] = e
		c.totalWeight += e.Weight
	}
	return c
}

// Weight returns the risk weight for a canonical key, and whether it is known
func (c *PermissionCatalog) Weight(key string) (float64, bool) {
	e, ok := c.entries[key]
	return e.Weight, ok
}

// TotalWeight is the sum of all catalog weights, the fixed denominator of
// the overall permission risk ratio
func (c *PermissionCatalog) TotalWeight() float64 {
	return c.totalWeight
}

// Categories returns the category membership table
func (c *PermissionCatalog) Categories() map[models.PermissionCategory][]string {
	return c.categories
}

// CategoryWeight is the sum of catalog weights over a category's members
func (c *PermissionCatalog) CategoryWeight(cat models.PermissionCategory) float64 {
	var sum float64
	for _, key := range c.categories[cat] {
		sum += c.entries[key].Weight
	}
	return sum
}

// Description returns the catalog description for a canonical key, with a
// generic fallback derived from the key for unknown permissions
func (c *PermissionCatalog) Description(key string) string {
	if e, ok := c.entries[key]; ok {
		return e.Description
	}
	return fmt.Sprintf("Allows the app to %s", humanizePermission(key))
}

// Remediation returns the remediation suggestion for a canonical key
func (c *PermissionCatalog) Remediation(key string) string {
	if e, ok := c.entries[key]; ok {
		return e.Remediation
	}
	return "Review if this permission is necessary for core functionality"
}

// Knowledge returns the knowledge-base entry for a canonical key; the zero
// value for permissions without one
func (c *PermissionCatalog) Knowledge(key string) models.PermissionKnowledge {
	return c.knowledge[key]
}
