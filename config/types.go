package config

// Config represents the complete configuration structure
type Config struct {
	Bugzilla BugzillaConfig `mapstructure:"bugzilla"`
	Request  RequestConfig  `mapstructure:"request"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// BugzillaConfig holds the Bugzilla instance connection details
type BugzillaConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"api_key"`
}

// RequestConfig controls what each query asks the server for
type RequestConfig struct {
	// IncludeFields is the list sent as include_fields; an empty list
	// lets the server apply its own default field set.
	IncludeFields []string `mapstructure:"include_fields"`
	// Limit caps the number of returned bugs; 0 keeps the server default.
	Limit int `mapstructure:"limit"`
	// Unlimited disables the server's cap entirely.
	Unlimited bool `mapstructure:"unlimited"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
