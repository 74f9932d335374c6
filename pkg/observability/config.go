package observability

import "log/slog"

// defaultShutdownTimeoutSec bounds how long Shutdown waits for pending
// telemetry to flush before giving up.
const defaultShutdownTimeoutSec = 5

// AppMode identifies which entry point astdiff was invoked through, used
// only to tag telemetry (app.mode resource attribute, "mode" log field).
type AppMode string

// The three ways astdiff's binary is invoked.
const (
	// ModeCLI is a one-shot `astdiff diff` invocation from a shell.
	ModeCLI AppMode = "cli"

	// ModeServer is the long-running HTTP server exposing /metrics and
	// /healthz.
	ModeServer AppMode = "server"

	// ModeMCP is the Model Context Protocol server exposing diff as a tool.
	ModeMCP AppMode = "mcp"
)

// Config tunes Init's tracing, metrics, and logging setup. Zero-value
// Config is usable (everything no-ops except logging, which falls back to
// text-on-stderr at info level); DefaultConfig documents the intended
// baseline explicitly.
type Config struct {
	// ServiceName, ServiceVersion, Environment populate OTel resource
	// attributes (service.name, service.version, deployment.environment).
	ServiceName    string
	ServiceVersion string
	Environment    string

	// Mode records which entry point is running, tagged onto the
	// resource (app.mode) and every log line (mode).
	Mode AppMode

	// OTLPEndpoint is the collector address. Empty disables export
	// entirely: Init returns no-op tracer/meter providers.
	OTLPEndpoint string
	OTLPInsecure bool
	OTLPHeaders  map[string]string

	// SampleRatio is the fallback trace sampling ratio used when
	// OTEL_TRACES_SAMPLER is unset and DebugTrace is false.
	SampleRatio float64

	// DebugTrace forces always-on sampling, overriding both SampleRatio
	// and OTEL_TRACES_SAMPLER. TraceVerbose disables the hot-path span
	// filter (NewFilteringTracerProvider) so per-parse and per-document
	// spans are exported too; the attribute allow-list filter stays on.
	DebugTrace   bool
	TraceVerbose bool

	// LogLevel and LogJSON configure the structured logger; LogJSON
	// selects JSON output over text.
	LogLevel slog.Level
	LogJSON  bool

	// ShutdownTimeoutSec bounds Providers.Shutdown; <= 0 falls back to
	// defaultShutdownTimeoutSec.
	ShutdownTimeoutSec int
}

// DefaultConfig returns the baseline Config for a one-shot CLI invocation:
// no OTLP export (telemetry stays local/no-op), info-level text logging.
func DefaultConfig() Config {
	return Config{
		ServiceName:        "astdiff",
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
