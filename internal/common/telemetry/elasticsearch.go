package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchSink indexes records for operator search. Indexing is
// fire-and-forget on a background goroutine: a slow or down cluster must
// never hold up the response path, so errors are reported to the recorder
// and otherwise dropped.
type ElasticsearchSink struct {
	client *elasticsearch.Client
	index  string
	logger Logger
}

func NewElasticsearchSink(client *elasticsearch.Client, index string, log Logger) *ElasticsearchSink {
	if index == "" {
		index = "goal-coach-telemetry"
	}
	return &ElasticsearchSink{client: client, index: index, logger: log}
}

func (s *ElasticsearchSink) Emit(rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := s.client.Index(
			s.index,
			bytes.NewReader(body),
			s.client.Index.WithContext(ctx),
		)
		if err != nil {
			s.warn(err)
			return
		}
		defer res.Body.Close()
		if res.IsError() {
			s.warn(fmt.Errorf("elasticsearch index error: %s", res.Status()))
		}
	}()

	return nil
}

func (s *ElasticsearchSink) warn(err error) {
	if s.logger != nil {
		s.logger.Warn("telemetry index failed", map[string]interface{}{
			"index": s.index,
			"error": err.Error(),
		})
	}
}
