package config

// Default configuration values.
const (
	DefaultDialect = "ansi"
	DefaultOutput  = "text"
)

// ApplyDefaults fills in zero-valued fields of c.
func (c *Config) ApplyDefaults() {
	if c.Dialect == "" {
		c.Dialect = DefaultDialect
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
}
