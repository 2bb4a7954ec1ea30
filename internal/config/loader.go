package config

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// Load loads configuration using the cascading strategy: defaults,
// then environment variables, then command line flags (handled by
// cobra through overrides).
func (l *Loader) Load() (*Config, error) {
	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}
	if err := l.config.Validate(); err != nil {
		return nil, err
	}
	return l.config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	DBDir      *string
	DBFilename *string
	TimeZone   *string
	ActorID    *int64
	ActorAdmin *bool
	Verbose    *bool
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(config, overrides)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}
	if overrides.TimeZone != nil {
		config.Time.Zone = *overrides.TimeZone
	}
	if overrides.ActorID != nil {
		config.Actor.UserID = *overrides.ActorID
	}
	if overrides.ActorAdmin != nil {
		config.Actor.IsAdmin = *overrides.ActorAdmin
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
}
