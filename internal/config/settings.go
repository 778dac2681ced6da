package config

import (
	"net"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment overrides, e.g. HEALTHCHECK_INTERVAL.
const EnvPrefix = "HEALTHCHECK"

const (
	keyEndpoints        = "endpoints"
	keyConcurrent       = "concurrent"
	keyInterval         = "interval"
	keyLatencyThreshold = "latency-threshold"
	keyProbeTimeout     = "probe-timeout"
	keyMaxConcurrency   = "max-concurrency"
	keyLogDir           = "log-dir"
	keyLogLevel         = "log-level"
	keyStatusAddr       = "status-addr"
)

type Settings struct {
	EndpointsPath    string        // YAML list of endpoints to probe
	Concurrent       bool          // probe each round's endpoints concurrently
	Interval         time.Duration // pause after each round's report
	LatencyThreshold time.Duration // responses at or above this are DOWN
	ProbeTimeout     time.Duration // hard per-probe limit; 0 disables it
	MaxConcurrency   int           // cap on in-flight probes in concurrent mode; 0 = no cap
	LogDir           string        // rotating log directory
	LogLevel         string        // debug|info|warn|error
	StatusAddr       string        // status API bind address; empty disables it
}

// NewFlagSet declares the command-line flags. Defaults live here so that
// --help shows them.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Bool(keyConcurrent, false, "run each round's health checks concurrently")
	fs.Duration(keyInterval, 15*time.Second, "pause between rounds")
	fs.Duration(keyLatencyThreshold, 500*time.Millisecond, "a response must arrive faster than this to count as UP")
	fs.Duration(keyProbeTimeout, 10*time.Second, "abandon a probe after this long (0 = never)")
	fs.Int(keyMaxConcurrency, 0, "max probes in flight in concurrent mode (0 = all at once)")
	fs.String(keyLogDir, "logs", "directory for the rotating JSON log")
	fs.String(keyLogLevel, "info", "log level: debug, info, warn, error")
	fs.String(keyStatusAddr, "", "serve the read-only status API on this address, e.g. 127.0.0.1:8080")
	fs.SortFlags = false
	return fs
}

// Load parses args (without the program name) and overlays environment
// variables. The first positional argument is the endpoints file; it may
// also come from HEALTHCHECK_ENDPOINTS.
func Load(fs *pflag.FlagSet, args []string) (Settings, error) {
	if err := fs.Parse(args); err != nil {
		return Settings{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyEndpoints, "")
	if err := v.BindPFlags(fs); err != nil {
		return Settings{}, err
	}
	if p := fs.Arg(0); p != "" {
		v.Set(keyEndpoints, p)
	}

	s := Settings{
		EndpointsPath:    v.GetString(keyEndpoints),
		Concurrent:       v.GetBool(keyConcurrent),
		Interval:         v.GetDuration(keyInterval),
		LatencyThreshold: v.GetDuration(keyLatencyThreshold),
		ProbeTimeout:     v.GetDuration(keyProbeTimeout),
		MaxConcurrency:   v.GetInt(keyMaxConcurrency),
		LogDir:           v.GetString(keyLogDir),
		LogLevel:         strings.ToLower(v.GetString(keyLogLevel)),
		StatusAddr:       v.GetString(keyStatusAddr),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.EndpointsPath, validation.Required.Error("path to the endpoints yaml file is required")),
		validation.Field(&s.Interval, validation.Min(time.Duration(0))),
		validation.Field(&s.LatencyThreshold, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&s.ProbeTimeout, validation.Min(time.Duration(0))),
		validation.Field(&s.MaxConcurrency, validation.Min(0)),
		validation.Field(&s.LogDir, validation.Required),
		validation.Field(&s.LogLevel, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&s.StatusAddr, validation.When(s.StatusAddr != "", validation.By(validateHostPort))),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}
