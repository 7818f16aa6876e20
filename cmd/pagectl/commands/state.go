package commands

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/ncobase/pagination/config"
	"github.com/ncobase/pagination/data"
	"github.com/ncobase/pagination/data/metrics"
	"github.com/ncobase/pagination/logging/logger"
	"github.com/ncobase/pagination/logging/observes"
	"github.com/ncobase/pagination/paging"
	"github.com/ncobase/pagination/version"
	"github.com/spf13/cobra"

	_ "github.com/ncobase/pagination/data/all"
)

const (
	metricsHistory  = 1000
	shutdownTimeout = 5 * time.Second
)

// document is the shape every command reads and writes
type document = map[string]any

// state is shared by the commands of one invocation
type state struct {
	configFile   string
	index        string
	documentType string

	runMode  string
	data     *data.Data
	cleanups []func()
}

// setup loads the configuration and connects the search layer once
func (s *state) setup(ctx context.Context) error {
	if s.data != nil {
		return nil
	}

	cfg, err := config.LoadConfig(s.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	s.onClose(cleanupLogger)

	info := version.GetVersionInfo()
	logger.SetVersion(cmp.Or(cfg.Version, info.Version))

	if err := s.setupObserves(cfg, info.Version); err != nil {
		return err
	}

	d, cleanupData, err := data.New(ctx, cfg.Data, data.WithMetricsCollector(metrics.NewSearchCollector(metricsHistory)))
	if err != nil {
		return fmt.Errorf("failed to connect search: %w", err)
	}
	s.data = d
	s.runMode = cfg.RunMode
	s.onClose(cleanupData)

	if cfg.Logger != nil && cfg.Logger.Ship {
		flush, err := logger.StdLogger().AddSearchHook(d.Search, cfg.Logger)
		if err != nil {
			return fmt.Errorf("failed to add log shipping hook: %w", err)
		}
		s.onClose(flush)
	}

	logger.Debugf(ctx, "search engine %s selected", d.Search.GetEngine())
	return nil
}

func (s *state) setupObserves(cfg *config.Config, release string) error {
	obs := cfg.Observes
	if obs == nil {
		return nil
	}

	if se := obs.Sentry; se != nil && se.Endpoint != "" {
		err := observes.NewSentry(&observes.SentryOptions{
			Dsn:         se.Endpoint,
			Name:        cfg.AppName,
			Release:     cmp.Or(se.Release, release),
			Environment: cmp.Or(se.Environment, cfg.RunMode),
			SampleRate:  se.SampleRate,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize sentry: %w", err)
		}
		logger.StdLogger().AddHook(observes.NewSentryHook())
		s.onClose(func() { observes.FlushSentry(shutdownTimeout) })
	}

	if t := obs.Tracer; t != nil && t.Endpoint != "" {
		shutdown, err := observes.NewTracer(&observes.TracerOption{
			URL:                t.Endpoint,
			Name:               t.ServiceName,
			Version:            cmp.Or(t.ServiceVersion, release),
			Revision:           version.GetVersionInfo().Revision,
			Environment:        t.Environment,
			SamplingRate:       t.SamplingRate,
			BatchTimeout:       t.BatchTimeout,
			ExportTimeout:      t.ExportTimeout,
			MaxExportBatchSize: t.MaxExportBatchSize,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.onClose(func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = shutdown(ctx)
		})
	}
	return nil
}

func (s *state) onClose(fn func()) {
	if fn != nil {
		s.cleanups = append(s.cleanups, fn)
	}
}

// close runs cleanups in reverse registration order
func (s *state) close() {
	for _, fn := range slices.Backward(s.cleanups) {
		fn()
	}
	s.cleanups = nil
}

// runE wraps a command body so it runs between setup and close
func (s *state) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer s.close()
		if err := s.setup(cmd.Context()); err != nil {
			return err
		}
		return fn(cmd, args)
	}
}

func (s *state) client(ctx context.Context) (*paging.Client[document], error) {
	if s.index == "" {
		return nil, errors.New("--index is required")
	}
	return paging.NewClient[document](ctx, s.data.Search, s.index,
		paging.WithPaging(s.data.Paging),
		paging.WithCollector(s.data.Collector()),
	)
}

func (s *state) callOptions(extra ...paging.CallOption) []paging.CallOption {
	var opts []paging.CallOption
	if s.documentType != "" {
		opts = append(opts, paging.WithDocumentType(s.documentType))
	}
	return append(opts, extra...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
