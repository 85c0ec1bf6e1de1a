// Package config provides the configuration for the mathfield host.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← MATHFIELD_*, highest priority
//	├─────────────────────────────┤
//	│  2. Config File             │  ← mathfield.toml or mathfield.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The file format is chosen by extension: .toml is read with go-toml, .yaml
// and .yml with yaml.v3. Keys missing from the file keep their defaults.
//
// # Basic Usage
//
//	cfg, err := config.Load("mathfield.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	field := engine.New(cfg.EngineOptions()...)
//
// # Live Reload
//
// A Watcher reloads the file when it changes and hands the new
// configuration, or the error that prevented loading it, to a callback:
//
//	w, err := config.NewWatcher("mathfield.toml")
//	w.OnReload(func(cfg *config.Config, err error) { ... })
//	go w.Run(ctx)
package config
