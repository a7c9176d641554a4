// Package config gathers the environment configuration and the command line
// options of evtq.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/quentin-nozomi/evtq/evtlog"
	"github.com/quentin-nozomi/evtq/output"
	"github.com/quentin-nozomi/evtq/variant"
)

// Config holds the settings read from the environment.
type Config struct {
	LogLevel          string        `env:"EVTQ_LOG_LEVEL" envDefault:"info"`
	LogEncoding       string        `env:"EVTQ_LOG_ENCODING" envDefault:"console"`
	QuiescenceWindow  time.Duration `env:"EVTQ_QUIESCENCE_WINDOW" envDefault:"1s"`
	SubscriptionQueue int           `env:"EVTQ_SUBSCRIPTION_QUEUE" envDefault:"256"`
	OutputQueue       int           `env:"EVTQ_OUTPUT_QUEUE" envDefault:"1024"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.QuiescenceWindow <= 0:
		return fmt.Errorf("quiescence window must be positive, got %s", c.QuiescenceWindow)
	case c.SubscriptionQueue <= 0:
		return fmt.Errorf("subscription queue must be positive, got %d", c.SubscriptionQueue)
	case c.OutputQueue <= 0:
		return fmt.Errorf("output queue must be positive, got %d", c.OutputQueue)
	}
	switch strings.ToLower(c.LogEncoding) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log encoding %q", c.LogEncoding)
	}
	return nil
}

// Source is where events are read from.
type Source int

const (
	SourceLocal Source = iota
	SourceBackup
	SourceHost
)

func (s Source) String() string {
	switch s {
	case SourceBackup:
		return "backup"
	case SourceHost:
		return "host"
	default:
		return "local"
	}
}

// Options are the command line flags layered over Config.
type Options struct {
	Config

	BackupPath string
	RemoteHost string
	Query      string

	// Output paths per format, "-" for stdout. At most one is set.
	ToJSON string
	ToTSV  string
	ToCSV  string
	ToXML  string

	Append     bool
	Gzip       bool
	JSONPretty bool
	// Columns is a -O column list, DateFormat a strftime-like layout.
	Columns    string
	DateFormat string

	DumpExisting bool

	ImportMetadata   string
	ExportMetadata   string
	NoSystemMetadata bool

	ListChannels bool
	Stats        bool
	Verbose      bool

	Limit    int
	LimitSet bool
}

var (
	ErrConflictingInputs  = errors.New("only one of --from-backup and --from-host may be given")
	ErrConflictingOutputs = errors.New("only one output format may be given")
)

func (o *Options) Source() Source {
	switch {
	case o.BackupPath != "":
		return SourceBackup
	case o.RemoteHost != "":
		return SourceHost
	default:
		return SourceLocal
	}
}

func (o *Options) outputs() map[output.Format]string {
	set := make(map[output.Format]string, 1)
	for format, path := range map[output.Format]string{
		output.FormatJSON: o.ToJSON,
		output.FormatTSV:  o.ToTSV,
		output.FormatCSV:  o.ToCSV,
		output.FormatXML:  o.ToXML,
	} {
		if path != "" {
			set[format] = path
		}
	}
	return set
}

// Output returns the selected format and path, JSON on stdout when no output
// flag was given.
func (o *Options) Output() (output.Format, string) {
	for format, path := range o.outputs() {
		return format, path
	}
	return output.FormatJSON, "-"
}

// ExportOnly reports an invocation that only writes the metadata cache.
func (o *Options) ExportOnly() bool {
	return o.ExportMetadata != "" &&
		o.BackupPath == "" && o.RemoteHost == "" &&
		len(o.outputs()) == 0 &&
		!o.ListChannels && !o.Stats && !o.DumpExisting && !o.LimitSet
}

// Validate checks the flags against each other and the environment.
func (o *Options) Validate() error {
	if o.BackupPath != "" && o.RemoteHost != "" {
		return ErrConflictingInputs
	}
	if len(o.outputs()) > 1 {
		return ErrConflictingOutputs
	}
	if o.LimitSet && o.Limit <= 0 {
		return fmt.Errorf("-n must be positive, got %d", o.Limit)
	}
	if o.ListChannels && o.BackupPath != "" {
		return errors.New("--list-channels cannot read a backup file")
	}
	if o.JSONPretty && o.ToJSON == "" && len(o.outputs()) > 0 {
		return errors.New("--json-pretty requires JSON output")
	}
	if o.Columns != "" {
		if format, _ := o.Output(); !format.SelectsColumns() {
			return fmt.Errorf("--columns does not apply to %s output", format)
		}
	}
	if _, err := o.EncoderOptions(); err != nil {
		return err
	}
	if o.Verbose {
		o.LogLevel = "debug"
	}
	return o.Config.Validate()
}

// EncoderOptions parses the column list and the date layout.
func (o *Options) EncoderOptions() (output.EncoderOptions, error) {
	opts := output.EncoderOptions{Pretty: o.JSONPretty}
	if o.Columns != "" {
		columns, err := output.ParseColumns(o.Columns)
		if err != nil {
			return opts, fmt.Errorf("--columns: %w", err)
		}
		opts.Columns = columns
	}
	if o.DateFormat != "" {
		df, err := variant.ParseDateFormat(o.DateFormat)
		if err != nil {
			return opts, fmt.Errorf("--datefmt: %w", err)
		}
		opts.DateFormat = df
	}
	return opts, nil
}

// SetOutputPath binds a positional argument to the output flag given without
// a value, so "--to-tsv events.tsv" reads like "--to-tsv=events.tsv".
func (o *Options) SetOutputPath(path string) error {
	var bare []*string
	for _, target := range []*string{&o.ToJSON, &o.ToTSV, &o.ToCSV, &o.ToXML} {
		if *target == "-" {
			bare = append(bare, target)
		}
	}
	if len(bare) != 1 {
		return fmt.Errorf("unexpected argument %q", path)
	}
	*bare[0] = path
	return nil
}

// Credentials parses RemoteHost, nil for the local host.
func (o *Options) Credentials() (*evtlog.Credentials, error) {
	if o.RemoteHost == "" {
		return nil, nil
	}
	return ParseRemoteHost(o.RemoteHost)
}

// ParseRemoteHost parses "[[domain/]user[:password]@]host". The domain
// defaults to "." when a user is given. The password is copied into a byte
// slice that Credentials.Zero wipes; uri itself is an immutable string and
// stays in memory until collected.
func ParseRemoteHost(uri string) (*evtlog.Credentials, error) {
	at := strings.LastIndexByte(uri, '@')
	creds := &evtlog.Credentials{Host: uri[at+1:]}
	if creds.Host == "" {
		return nil, fmt.Errorf("no host name in %q", uri)
	}
	if at < 0 {
		return creds, nil
	}

	login := uri[:at]
	creds.Domain = "."
	if domain, rest, ok := strings.Cut(login, "/"); ok {
		creds.Domain, login = domain, rest
	}
	user, password, _ := strings.Cut(login, ":")
	if user == "" {
		return nil, fmt.Errorf("no user name in %q", uri)
	}
	creds.User = user
	if password != "" {
		creds.Password = []byte(password)
	}
	return creds, nil
}
