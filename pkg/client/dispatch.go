package client

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/manifold-client/pkg/manifold"
)

// progressEvery controls how often batch progress is logged.
const progressEvery = 10

// batchHandler receives the classified response of one batch. body is
// nil when outcome is manifold.OutcomeEmpty.
type batchHandler func(batch []string, outcome manifold.Outcome, body map[string]any) error

// dispatchBatches splits smiles by the endpoint's batch size and sends the
// batches one after another. The first failing batch stops the run.
func (c *Client) dispatchBatches(ctx context.Context, ep endpoint, smiles []string, alerts bool, handle batchHandler) error {
	start := time.Now()

	batches, err := manifold.MakeBatches(smiles, ep.batchSize)
	if err != nil {
		return err
	}

	c.logger.Debug().
		Str("endpoint", ep.name).
		Int("queries", len(smiles)).
		Int("batches", len(batches)).
		Msg("Starting batch dispatch")

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}

		resp, err := c.send(ctx, c.buildRequest(ep, batch, alerts))
		if err != nil {
			return fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}

		outcome, body, err := c.classify(ep, resp)
		if err != nil {
			return fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}

		if err := handle(batch, outcome, body); err != nil {
			c.recordError(ep, resp.StatusCode, err)
			return fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}
		manifoldBatchesTotal.WithLabelValues(ep.name).Inc()

		if (i+1)%progressEvery == 0 {
			c.logger.Info().
				Str("endpoint", ep.name).
				Int("batch", i+1).
				Int("batches", len(batches)).
				Msg("Batch progress")
		}
	}

	c.logger.Info().
		Str("endpoint", ep.name).
		Int("queries", len(smiles)).
		Int("batches", len(batches)).
		Dur("duration", time.Since(start)).
		Msg("Batch dispatch complete")

	return nil
}

// checkAligned verifies that a batch response has one item per query.
func checkAligned(batch []string, items []any) error {
	if len(items) != len(batch) {
		return &manifold.Error{
			Kind:    manifold.KindMalformedResponse,
			Message: fmt.Sprintf("got %d results for %d queries", len(items), len(batch)),
		}
	}
	return nil
}
