// Package app wires settings, the Elasticsearch client and the
// bootstrapper into the elastic-bot command.
package app

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dontnod/ebb/internal/bootstrap"
	"github.com/dontnod/ebb/internal/config"
	"github.com/dontnod/ebb/internal/schema"
)

// RunParams contains dependencies for the run function.
type RunParams struct {
	LoadSettings  func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings func(*config.Settings) error
	NewClient     func(elasticsearch.Config) (*elasticsearch.Client, error)
}

// DefaultRunParams returns production dependencies.
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:  config.LoadSettingsWithFlags,
		ValidSettings: config.ValidateSettings,
		NewClient:     elasticsearch.NewClient,
	}
}

// RunWithDeps executes the schema bootstrap with the provided
// dependencies.
func RunWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if err := params.ValidSettings(settings); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := config.NewLogger(settings.Verbose)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting schema bootstrap",
		zap.String("version", version),
		zap.Strings("nodes", settings.Nodes),
		zap.String("index", settings.Index),
	)

	sch := schema.Buildbot()
	if settings.SchemaFile != "" {
		sch, err = schema.Load(settings.SchemaFile)
		if err != nil {
			return err
		}
		logger.Info("loaded schema override", zap.String("file", settings.SchemaFile))
	}

	client, err := params.NewClient(elasticsearch.Config{
		Addresses: settings.Nodes,
	})
	if err != nil {
		return fmt.Errorf("creating Elasticsearch client: %w", err)
	}

	b, err := bootstrap.New(client,
		bootstrap.WithIndex(settings.Index),
		bootstrap.WithSchema(sch),
		bootstrap.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, settings.Timeout)
	defer cancel()

	if err := b.Ping(ctx); err != nil {
		return err
	}

	if settings.SkipDelete {
		if err := b.Create(ctx); err != nil {
			return err
		}
	} else {
		if err := b.Run(ctx); err != nil {
			return err
		}
	}

	if err := b.VerifyMapping(ctx); err != nil {
		return err
	}

	logger.Info("schema bootstrap complete", zap.String("index", settings.Index))
	return nil
}
