package logger

const (
	DefaultLevel    = InfoLevel
	DefaultEncoding = "console"
	DefaultOutput   = "stderr"

	logFilePerm = 0o644
)
