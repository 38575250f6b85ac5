package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// Ping checks that the cluster is reachable.
func (b *Bootstrapper) Ping(ctx context.Context) error {
	res, err := b.client.Ping(b.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("pinging cluster: %w", err)
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return fmt.Errorf("pinging cluster: %w", err)
	}

	return nil
}

// VerifyMapping fetches the index mapping and checks that every
// declared document type exists with exactly the declared field names.
func (b *Bootstrapper) VerifyMapping(ctx context.Context) error {
	res, err := b.client.Indices.GetMapping(
		b.client.Indices.GetMapping.WithIndex(b.index),
		b.client.Indices.GetMapping.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("getting mapping for %q: %w", b.index, err)
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return fmt.Errorf("getting mapping for %q: %w", b.index, err)
	}

	var payload map[string]struct {
		Mappings map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"mappings"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decoding mapping for %q: %w", b.index, err)
	}

	entry, ok := payload[b.index]
	if !ok {
		return fmt.Errorf("index %q missing from mapping response", b.index)
	}

	for _, docType := range b.schema.DocTypes() {
		remote, ok := entry.Mappings[docType]
		if !ok {
			return fmt.Errorf("index %q: document type %q missing from mapping", b.index, docType)
		}

		declared, _ := b.schema.FieldNames(docType)
		for _, name := range declared {
			if _, ok := remote.Properties[name]; !ok {
				return fmt.Errorf("index %q: field %s.%s missing from mapping", b.index, docType, name)
			}
		}
		if len(remote.Properties) != len(declared) {
			return fmt.Errorf("index %q: document type %q has %d fields, declared %d",
				b.index, docType, len(remote.Properties), len(declared))
		}
	}

	b.logger.Debug("verified mapping", zap.String("index", b.index))
	return nil
}

// checkResponse checks an Elasticsearch API response for errors.
func checkResponse(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("elasticsearch error [%s]: %s", res.Status(), string(body))
}
