package config

import "go.uber.org/fx"

// Module provides *Config loaded from the environment and command-line flags.
var Module = fx.Provide(Load)
