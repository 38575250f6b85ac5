// Package bootstrap deletes and recreates the buildbot telemetry index
// with its declared field mappings. Recreating the index destroys all
// previously indexed documents.
package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"github.com/dontnod/ebb/internal/schema"
)

// DefaultIndex is the index the buildbot status collector writes to.
const DefaultIndex = "buildbot"

// Bootstrapper ensures an index exists with a declared schema.
type Bootstrapper struct {
	client *elasticsearch.Client
	index  string
	schema schema.Schema
	logger *zap.Logger
}

// Option configures the Bootstrapper.
type Option func(*Bootstrapper) error

// WithIndex sets the target index name. Defaults to DefaultIndex.
func WithIndex(name string) Option {
	return func(b *Bootstrapper) error {
		if name == "" {
			return errors.New("index name must not be empty")
		}
		b.index = name
		return nil
	}
}

// WithSchema sets the schema to create the index with. This option is
// required.
func WithSchema(s schema.Schema) Option {
	return func(b *Bootstrapper) error {
		if err := s.Validate(); err != nil {
			return err
		}
		b.schema = s
		return nil
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bootstrapper) error {
		b.logger = logger
		return nil
	}
}

// New creates a Bootstrapper with the given Elasticsearch client and
// options. The WithSchema option is required.
func New(client *elasticsearch.Client, opts ...Option) (*Bootstrapper, error) {
	if client == nil {
		return nil, errors.New("bootstrap: client must not be nil")
	}

	b := &Bootstrapper{
		client: client,
		index:  DefaultIndex,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, fmt.Errorf("bootstrap: applying option: %w", err)
		}
	}

	if b.schema == nil {
		return nil, errors.New("bootstrap: WithSchema option is required")
	}

	return b, nil
}

// Index returns the target index name.
func (b *Bootstrapper) Index() string {
	return b.index
}

// Run deletes the index and recreates it with the declared schema. The
// delete completes before the create is issued; creating over an
// existing index would fail on conflicting mappings.
func (b *Bootstrapper) Run(ctx context.Context) error {
	if err := b.Delete(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if err := b.Create(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	return nil
}

// Delete removes the index. A missing index is not an error.
func (b *Bootstrapper) Delete(ctx context.Context) error {
	b.logger.Debug("deleting index", zap.String("index", b.index))

	res, err := b.client.Indices.Delete(
		[]string{b.index},
		b.client.Indices.Delete.WithContext(ctx),
		b.client.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return fmt.Errorf("deleting index %q: %w", b.index, err)
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return fmt.Errorf("deleting index %q: %w", b.index, err)
	}

	b.logger.Info("deleted index", zap.String("index", b.index))
	return nil
}

// Create creates the index with the declared mappings.
func (b *Bootstrapper) Create(ctx context.Context) error {
	body, err := b.schema.CreateBody()
	if err != nil {
		return fmt.Errorf("building create body for %q: %w", b.index, err)
	}

	b.logger.Debug("creating index",
		zap.String("index", b.index),
		zap.Strings("doc_types", b.schema.DocTypes()),
	)

	res, err := b.client.Indices.Create(
		b.index,
		b.client.Indices.Create.WithBody(bytes.NewReader(body)),
		b.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("creating index %q: %w", b.index, err)
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return fmt.Errorf("creating index %q: %w", b.index, err)
	}

	b.logger.Info("created index",
		zap.String("index", b.index),
		zap.Strings("doc_types", b.schema.DocTypes()),
	)
	return nil
}
