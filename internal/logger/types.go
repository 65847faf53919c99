package logger

// Level represents the logging level.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
	// FatalLevel logs and exits.
	FatalLevel Level = "fatal"
)

// Config represents the logger configuration.
type Config struct {
	Level       Level  `mapstructure:"level"        yaml:"level"        json:"level"`
	Development bool   `mapstructure:"development"  yaml:"development"  json:"development"`
	Encoding    string `mapstructure:"encoding"     yaml:"encoding"     json:"encoding"`
	EnableColor bool   `mapstructure:"enable_color" yaml:"enable_color" json:"enable_color"`
	// Output is "stdout", "stderr" or a file path. Review JSON goes to
	// stdout, so logs default to stderr.
	Output string `mapstructure:"output" yaml:"output" json:"output"`
}
