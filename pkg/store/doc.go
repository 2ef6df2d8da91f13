// Package store persists Manifold lookup runs in Redis.
//
// Every CLI or gateway call that reaches the Manifold API can be recorded
// as a Run: the operation, the queried compounds, the scores and the raw
// JSON result. Runs are written after the API call completes and are
// never consulted before one, so the store is a history sink and not a
// response cache.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	s := store.New(redisClient, 7*24*time.Hour)
//
//	run := store.NewRun(store.OperationScoreBatch, "fast", smiles)
//	run.Scores = result.Scores()
//	if err := s.SaveRun(ctx, run); err != nil {
//		return err
//	}
//
//	// Later
//	run, err := s.Run(ctx, run.ID)
//	if errors.Is(err, store.ErrRunNotFound) {
//		// expired or never written
//	}
//
// # Keys
//
// Runs live under manifold:run:<id>. Each scored compound also updates
// manifold:score:<smiles>:algorithm=<algorithm>, pointing at the latest
// run that scored it. Both expire after the store's retention period.
//
// # Metrics
//
//   - manifold_store_writes_total - Runs written
//   - manifold_store_reads_total{result} - Reads by result (hit, miss)
//   - manifold_store_errors_total{operation} - Store operation errors
package store
