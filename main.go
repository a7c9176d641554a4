package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quentin-nozomi/evtq/config"
)

func newRootCommand(src sources) *cobra.Command {
	opts := &config.Options{}

	cmd := &cobra.Command{
		Use:   "evtq",
		Short: "Collect Windows event log records",
		Long: `Read event records from a backup file, or from every channel of the local
or a remote host, and write them as JSON, TSV, CSV or XML.

Without --dump-existing, live channels are followed until interrupted.`,
		Example: `  evtq --from-backup Security.evtx --to-tsv events.tsv
  evtq --from-host lab1/Admin:MyPassw0rd@server1.lab --to-json procs.json -e
  evtq --to-csv all.csv -O timestamp,provider,eventid,version,variant1,...,variant15
  evtq --export-metadata fields.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.Config = cfg
			opts.LimitSet = cmd.Flags().Changed("limit")
			// output flags take an optional value, so "--to-tsv FILE" leaves FILE as an argument
			if len(args) == 1 {
				if err := opts.SetOutputPath(args[0]); err != nil {
					return err
				}
			}
			return collect(cmd.Context(), opts, src, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.StringVar(&opts.BackupPath, "from-backup", "", "read records from an .evtx backup file")
	flags.StringVar(&opts.BackupPath, "from-evtx", "", "alias of --from-backup")
	flags.StringVar(&opts.RemoteHost, "from-host", "", "read live channels of [[domain/]user[:password]@]host")
	flags.StringVar(&opts.Query, "query", "*", "XPath query applied to the backup file")

	for _, out := range []struct {
		name   string
		target *string
	}{
		{"to-json", &opts.ToJSON},
		{"to-tsv", &opts.ToTSV},
		{"to-csv", &opts.ToCSV},
		{"to-xml", &opts.ToXML},
	} {
		flags.StringVar(out.target, out.name, "", fmt.Sprintf("write %s to a file, stdout when no file is given", out.name[3:]))
		flags.Lookup(out.name).NoOptDefVal = "-"
	}
	flags.BoolVarP(&opts.Append, "append", "a", false, "append to the output file")
	flags.BoolVarP(&opts.Gzip, "gzip", "z", false, "gzip the output")
	flags.BoolVar(&opts.JSONPretty, "json-pretty", false, "indent JSON records")
	flags.StringVarP(&opts.Columns, "columns", "O", "", "comma separated columns of JSON or CSV output, e.g. timestamp,provider,variant1,...,variant15")
	flags.StringVar(&opts.DateFormat, "datefmt", "", "date layout using %Y %m %d %H %M %S %.3f %z, e.g. %Y-%m-%dT%H:%M:%S%.3f%z")

	flags.BoolVar(&opts.DumpExisting, "dump-existing", false, "replay existing records and exit instead of following new ones")
	flags.BoolVarP(&opts.DumpExisting, "ever", "e", false, "alias of --dump-existing")

	flags.StringVar(&opts.ImportMetadata, "import-metadata", "", "load field names from a cache file")
	flags.StringVar(&opts.ExportMetadata, "export-metadata", "", "write field names to a cache file, - for stdout")
	flags.BoolVar(&opts.NoSystemMetadata, "no-system-metadata", false, "do not read field names from the local providers")

	flags.BoolVar(&opts.ListChannels, "list-channels", false, "list the channels of the host and exit")
	flags.BoolVarP(&opts.Stats, "stats", "s", false, "print per provider/event counts on exit")
	flags.IntVarP(&opts.Limit, "limit", "n", 0, "stop after that many records")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(hostSources).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "evtq:", err)
		stop()
		os.Exit(1)
	}
}
