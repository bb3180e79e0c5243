package backup

// The enumerated setting keys included in a backup. The PIN hash is
// deliberately absent: credential material never leaves the device.
var settingKeys = []string{
	"theme",
	"language",
	"currency",
	"pin_enabled",
	"notifications_enabled",
	"reminder_time",
}

// pinHashKey is the settings key holding the lock-screen PIN hash. Excluding
// it from backups is a hard invariant, enforced in SettingKeys.
const pinHashKey = "pin_hash"

// SettingKeys returns the keys captured by a backup. It panics if the list
// ever grows the PIN hash key, turning a silent secret leak into a loud
// programming error.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKeys))
	for _, k := range settingKeys {
		if k == pinHashKey {
			panic("backup: PIN hash must never be included in setting keys")
		}
		keys = append(keys, k)
	}
	return keys
}
