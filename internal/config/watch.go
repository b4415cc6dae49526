package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch reloads the configuration whenever the config file changes and
// passes every valid result to onChange. Invalid edits are reported to
// onError and otherwise ignored, so the last good configuration stays in
// effect. Watch requires viper to have read a config file.
func Watch(onChange func(*Config), onError func(error)) {
	viper.OnConfigChange(changeHandler(onChange, onError))
	viper.WatchConfig()
}

func changeHandler(onChange func(*Config), onError func(error)) func(fsnotify.Event) {
	return func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	}
}
