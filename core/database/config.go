package database

import (
	coreconfig "github.com/bloodlink/bloodbot/core/config"
)

// Config aliases the database section of the application configuration
// so connect and migrate keep their own vocabulary. The struct itself
// lives in core/config: this package logs through core/logger, which
// depends on core/config, so defining it here would close a cycle.
type Config = coreconfig.DatabaseConfig
