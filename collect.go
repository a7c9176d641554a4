package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/quentin-nozomi/evtq/config"
	"github.com/quentin-nozomi/evtq/evtlog"
	"github.com/quentin-nozomi/evtq/logging"
	"github.com/quentin-nozomi/evtq/metadata"
	"github.com/quentin-nozomi/evtq/output"
	"github.com/quentin-nozomi/evtq/stats"
)

// sources opens the host side of a collection.
type sources struct {
	openBackup    func(path, query string) (evtlog.RecordIterator, error)
	newSubscriber func(creds *evtlog.Credentials, logger *zap.Logger) (evtlog.HostSubscriber, error)
	newEnumerator func() (metadata.ProviderEnumerator, error)
}

var hostSources = sources{
	openBackup:    evtlog.OpenBackup,
	newSubscriber: evtlog.NewHostSubscriber,
	newEnumerator: evtlog.NewPublisherEnumerator,
}

func collect(ctx context.Context, opts *config.Options, src sources, stdout, stderr io.Writer) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(opts.LogLevel, opts.LogEncoding)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if opts.ListChannels {
		return listChannels(ctx, opts, src, stdout, logger)
	}

	registry, err := loadRegistry(ctx, opts, src, stdout, logger)
	if err != nil {
		return err
	}
	if opts.ExportOnly() {
		return nil
	}

	format, path := opts.Output()
	encoderOpts, err := opts.EncoderOptions()
	if err != nil {
		return err
	}
	encoder, err := output.NewEncoder(format, encoderOpts)
	if err != nil {
		return err
	}
	var dst *output.Destination
	if path == "-" && !opts.Gzip {
		dst = &output.Destination{Writer: stdout}
	} else if dst, err = output.OpenDestination(path, opts.Append, opts.Gzip); err != nil {
		return err
	}

	pipeline := output.NewPipeline(dst, opts.OutputQueue, logger)
	table := stats.NewTable()
	processor := evtlog.NewProcessor(evtlog.ProcessorConfig{
		Encoder:    encoder,
		Emitter:    pipeline,
		Registry:   registry,
		Stats:      table,
		IncludeXML: format.NeedsXML(),
		Limit:      uint64(max(opts.Limit, 0)),
		Logger:     logger,
	})

	runErr := readSource(ctx, opts, src, processor, format.NeedsXML(), logger)
	if errors.Is(runErr, evtlog.ErrLimitReached) || errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	if err := pipeline.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("writing output: %w", err)
	}
	if err := dst.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("closing output: %w", err)
	}

	logger.Info("collection done",
		zap.Uint64("events", processor.Processed()),
		zap.String("source", opts.Source().String()),
		zap.String("format", string(format)))
	if opts.Stats {
		if err := table.WriteReport(stderr); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// loadRegistry builds the field name registry from the local providers and
// the imported cache, then exports it when asked to.
func loadRegistry(ctx context.Context, opts *config.Options, src sources, stdout io.Writer, logger *zap.Logger) (*metadata.Registry, error) {
	registry := metadata.NewRegistry(logger)

	if !opts.NoSystemMetadata {
		enumerator, err := src.newEnumerator()
		switch {
		case errors.Is(err, evtlog.ErrUnsupportedPlatform):
			logger.Warn("field names of the local providers are unavailable", zap.Error(err))
		case err != nil:
			return nil, err
		default:
			if err := registry.PopulateFromHost(ctx, enumerator); err != nil {
				return nil, err
			}
		}
	}

	if opts.ImportMetadata != "" {
		if err := registry.Import(opts.ImportMetadata); err != nil {
			return nil, err
		}
		logger.Debug("field names imported", zap.String("path", opts.ImportMetadata), zap.Int("entries", registry.Len()))
	}

	switch opts.ExportMetadata {
	case "":
	case "-":
		if err := registry.ExportTo(stdout, true); err != nil {
			return nil, err
		}
	default:
		if err := registry.Export(opts.ExportMetadata); err != nil {
			return nil, err
		}
		logger.Info("field names exported", zap.String("path", opts.ExportMetadata), zap.Int("entries", registry.Len()))
	}
	return registry, nil
}

func readSource(ctx context.Context, opts *config.Options, src sources, processor *evtlog.Processor, includeXML bool, logger *zap.Logger) error {
	if opts.Source() == config.SourceBackup {
		iterator, err := src.openBackup(opts.BackupPath, opts.Query)
		if err != nil {
			return err
		}
		logger.Debug("reading backup", zap.String("path", opts.BackupPath), zap.String("query", opts.Query))
		return evtlog.ReadBackup(ctx, iterator, processor.Handle)
	}

	subscriber, err := openSubscriber(opts, src, logger)
	if err != nil {
		return err
	}
	defer subscriber.Close()

	mux := evtlog.NewMultiplexer(subscriber, evtlog.MultiplexerConfig{
		Follow:           !opts.DumpExisting,
		QuiescenceWindow: opts.QuiescenceWindow,
		QueueSize:        opts.SubscriptionQueue,
		IncludeXML:       includeXML,
		Logger:           logger,
	})
	err = mux.Run(ctx, processor.Handle)
	if dropped := mux.Dropped(); dropped > 0 {
		logger.Warn("events dropped", zap.Uint64("dropped", dropped), zap.Uint64("delivered", mux.Delivered()))
	}
	return err
}

func openSubscriber(opts *config.Options, src sources, logger *zap.Logger) (evtlog.HostSubscriber, error) {
	creds, err := opts.Credentials()
	if err != nil {
		return nil, err
	}
	if creds != nil {
		logger.Info("connecting", zap.String("host", creds.Host), zap.String("domain", creds.Domain), zap.String("user", creds.User))
	}
	return src.newSubscriber(creds, logger)
}

func listChannels(ctx context.Context, opts *config.Options, src sources, stdout io.Writer, logger *zap.Logger) error {
	subscriber, err := openSubscriber(opts, src, logger)
	if err != nil {
		return err
	}
	defer subscriber.Close()

	channels, err := subscriber.Channels(ctx)
	if err != nil {
		return err
	}
	for _, channel := range channels {
		if _, err := fmt.Fprintln(stdout, channel); err != nil {
			return err
		}
	}
	return nil
}
