// api/engine/settings.go
package engine

import "github.com/spf13/viper"

// intSetting reads a tunable from configuration, falling back to the shipped
// default when the key was never set (library embedders may not run
// config.InitConfig).
func intSetting(key string, fallback int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return fallback
}
