package prefsync

import "github.com/awsl-project/dontcaught/internal/domain"

// SkipTaskbarOptions returns the options of the taskbar visibility toggle.
// hiddenByDefault is the value used when nothing has been stored yet.
func SkipTaskbarOptions(hiddenByDefault bool) Options {
	return Options{
		Key:     domain.SettingKeySkipTaskbar,
		Default: hiddenByDefault,
		Text:    domain.SkipTaskbarText,
	}
}
