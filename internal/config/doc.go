// Package config handles configuration loading for chat-success-rates.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files with environment variable
// expansion. Files ending in .toml are parsed as TOML; anything else is YAML.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from CHATRATES_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/chatrates/config.yaml
//  3. ~/.config/chatrates/config.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${CHATRATES_DB}"
//
// # Configuration Sections
//
// Database (settings persistence; counters are never stored):
//
//	database:
//	  path: "~/.local/share/chatrates/settings.db"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Duplicate caches (default 100 lines, 300 for message boxes):
//
//	cache:
//	  capacities:
//	    game: 100
//	    spam: 100
//	    mesbox: 300
//
// Settings defaults, used until a value is saved:
//
//	defaults:
//	  add_level_prefix: true
//	  use_boosted_level: true
//	  level_prefix: "overall"
//	  success_messages: ["You pick the Master Farmer's pocket."]
//	  failure_messages: ["You fail to pick the Master Farmer's pocket."]
//
// Additional trackers with their own patterns:
//
//	trackers:
//	  - name: "Karambwan"
//	    skill: "fishing"
//	    use_boosted_level: true
//	    success: ["You catch a karambwan."]
//	    failure: ["You fail to catch anything."]
//
// # Usage
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
