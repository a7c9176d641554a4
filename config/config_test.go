package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quentin-nozomi/evtq/evtlog"
	"github.com/quentin-nozomi/evtq/output"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogEncoding)
	assert.Equal(t, time.Second, cfg.QuiescenceWindow)
	assert.Equal(t, 256, cfg.SubscriptionQueue)
	assert.Equal(t, 1024, cfg.OutputQueue)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("EVTQ_LOG_LEVEL", "warn")
	t.Setenv("EVTQ_LOG_ENCODING", "json")
	t.Setenv("EVTQ_QUIESCENCE_WINDOW", "250ms")
	t.Setenv("EVTQ_SUBSCRIPTION_QUEUE", "8")
	t.Setenv("EVTQ_OUTPUT_QUEUE", "16")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{
		LogLevel:          "warn",
		LogEncoding:       "json",
		QuiescenceWindow:  250 * time.Millisecond,
		SubscriptionQueue: 8,
		OutputQueue:       16,
	}, cfg)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("EVTQ_QUIESCENCE_WINDOW", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func validOptions(t *testing.T) *Options {
	cfg, err := Load()
	require.NoError(t, err)
	return &Options{Config: cfg, Query: "*"}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *Options)
		err    string
	}{
		{"defaults", func(o *Options) {}, ""},
		{"two inputs", func(o *Options) { o.BackupPath = "a.evtx"; o.RemoteHost = "srv" }, "only one of"},
		{"two outputs", func(o *Options) { o.ToJSON = "-"; o.ToTSV = "out.tsv" }, "only one output"},
		{"zero limit", func(o *Options) { o.LimitSet = true }, "-n must be positive"},
		{"negative limit", func(o *Options) { o.Limit, o.LimitSet = -3, true }, "-n must be positive"},
		{"limit", func(o *Options) { o.Limit, o.LimitSet = 3, true }, ""},
		{"list backup", func(o *Options) { o.ListChannels = true; o.BackupPath = "a.evtx" }, "--list-channels"},
		{"pretty tsv", func(o *Options) { o.JSONPretty = true; o.ToTSV = "-" }, "--json-pretty"},
		{"pretty default", func(o *Options) { o.JSONPretty = true }, ""},
		{"zero window", func(o *Options) { o.QuiescenceWindow = 0 }, "quiescence window"},
		{"zero subscription queue", func(o *Options) { o.SubscriptionQueue = 0 }, "subscription queue"},
		{"zero output queue", func(o *Options) { o.OutputQueue = 0 }, "output queue"},
		{"log encoding", func(o *Options) { o.LogEncoding = "yaml" }, "log encoding"},
		{"csv columns", func(o *Options) { o.ToCSV = "-"; o.Columns = "timestamp,variant1,...,variant3" }, ""},
		{"default json columns", func(o *Options) { o.Columns = "provider" }, ""},
		{"tsv columns", func(o *Options) { o.ToTSV = "-"; o.Columns = "provider" }, "--columns does not apply to tsv"},
		{"xml columns", func(o *Options) { o.ToXML = "-"; o.Columns = "provider" }, "--columns does not apply to xml"},
		{"unknown column", func(o *Options) { o.Columns = "level_name" }, "--columns"},
		{"date format", func(o *Options) { o.DateFormat = "%Y-%m-%dT%H:%M:%S%.3f%z" }, ""},
		{"bad date format", func(o *Options) { o.DateFormat = "%s" }, "--datefmt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOptions(t)
			tt.modify(o)
			err := o.Validate()
			if tt.err == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestValidateVerbose(t *testing.T) {
	o := validOptions(t)
	o.Verbose = true
	require.NoError(t, o.Validate())
	assert.Equal(t, "debug", o.LogLevel)
}

func TestOutput(t *testing.T) {
	o := validOptions(t)
	format, path := o.Output()
	assert.Equal(t, output.FormatJSON, format)
	assert.Equal(t, "-", path)

	o.ToCSV = "events.csv"
	format, path = o.Output()
	assert.Equal(t, output.FormatCSV, format)
	assert.Equal(t, "events.csv", path)
}

func TestSource(t *testing.T) {
	o := validOptions(t)
	assert.Equal(t, SourceLocal, o.Source())
	o.RemoteHost = "srv"
	assert.Equal(t, SourceHost, o.Source())
	o.RemoteHost, o.BackupPath = "", "a.evtx"
	assert.Equal(t, SourceBackup, o.Source())
	assert.Equal(t, "backup", o.Source().String())
}

func TestExportOnly(t *testing.T) {
	o := validOptions(t)
	assert.False(t, o.ExportOnly())

	o.ExportMetadata = "-"
	assert.True(t, o.ExportOnly())

	o.ToTSV = "-"
	assert.False(t, o.ExportOnly())

	o.ToTSV, o.BackupPath = "", "a.evtx"
	assert.False(t, o.ExportOnly())
}

func TestParseRemoteHost(t *testing.T) {
	tests := []struct {
		uri                          string
		host, domain, user, password string
	}{
		{"server1.lab", "server1.lab", "", "", ""},
		{"Admin@server1", "server1", ".", "Admin", ""},
		{"Admin:pw@server1", "server1", ".", "Admin", "pw"},
		{"lab1/Admin:MyPassw0rd@server1.lab", "server1.lab", "lab1", "Admin", "MyPassw0rd"},
		{"lab1/Admin:p@ss:w/rd@srv", "srv", "lab1", "Admin", "p@ss:w/rd"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			creds, err := ParseRemoteHost(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.host, creds.Host)
			assert.Equal(t, tt.domain, creds.Domain)
			assert.Equal(t, tt.user, creds.User)
			assert.Equal(t, tt.password, string(creds.Password))
		})
	}
}

func TestParseRemoteHostErrors(t *testing.T) {
	for _, uri := range []string{"", "Admin:pw@", "lab/:pw@srv", "@srv"} {
		_, err := ParseRemoteHost(uri)
		assert.Error(t, err, uri)
	}
}

func TestCredentialsLocal(t *testing.T) {
	o := validOptions(t)
	creds, err := o.Credentials()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestEncoderOptions(t *testing.T) {
	o := validOptions(t)
	o.JSONPretty = true
	o.Columns = "eventid,variant2,...,variant4"
	o.DateFormat = "%d/%m/%Y"

	opts, err := o.EncoderOptions()
	require.NoError(t, err)
	assert.True(t, opts.Pretty)
	assert.Equal(t, []output.Column{
		{Kind: output.ColumnEventID},
		{Kind: output.ColumnField, Field: 2},
		{Kind: output.ColumnField, Field: 3},
		{Kind: output.ColumnField, Field: 4},
	}, opts.Columns)
	require.NotNil(t, opts.DateFormat)
	assert.Equal(t, "%d/%m/%Y", opts.DateFormat.String())

	o.Columns, o.DateFormat = "", ""
	opts, err = o.EncoderOptions()
	require.NoError(t, err)
	assert.Nil(t, opts.Columns)
	assert.Nil(t, opts.DateFormat)
}

func TestSetOutputPath(t *testing.T) {
	o := validOptions(t)
	o.ToTSV = "-"
	require.NoError(t, o.SetOutputPath("events.tsv"))
	format, path := o.Output()
	assert.Equal(t, output.FormatTSV, format)
	assert.Equal(t, "events.tsv", path)

	// no bare output flag left to bind to
	assert.Error(t, o.SetOutputPath("other.tsv"))

	o = validOptions(t)
	assert.Error(t, o.SetOutputPath("events.json"))

	o.ToJSON, o.ToCSV = "-", "-"
	assert.Error(t, o.SetOutputPath("events.json"))
}

func TestParseRemoteHostPasswordCopy(t *testing.T) {
	uri := "lab1/Admin:MyPassw0rd@server1.lab"
	creds, err := ParseRemoteHost(uri)
	require.NoError(t, err)

	password := creds.Password
	creds.Zero()
	assert.Nil(t, creds.Password)
	assert.Equal(t, make([]byte, len("MyPassw0rd")), password)
	// the command line string is not reachable from Zero
	assert.Contains(t, uri, "MyPassw0rd")

	var none *evtlog.Credentials
	assert.NotPanics(t, none.Zero)
}
