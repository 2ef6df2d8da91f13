package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/Sternrassler/manifold-client/pkg/client"
	"github.com/Sternrassler/manifold-client/pkg/manifold"
	"github.com/Sternrassler/manifold-client/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-process RunStore.
type memoryStore struct {
	mu   sync.Mutex
	runs map[string]*store.Run
	err  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{runs: make(map[string]*store.Run)}
}

func (m *memoryStore) SaveRun(_ context.Context, run *store.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *memoryStore) Run(_ context.Context, id string) (*store.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, store.ErrRunNotFound
	}
	return run, nil
}

func (m *memoryStore) Ping(context.Context) error {
	return m.err
}

func newTestClient(t *testing.T, status int, body string) *client.Client {
	t.Helper()
	cfg := client.DefaultConfig("test-key")
	cfg.Transport = client.TransportFunc(func(context.Context, string, http.Header, any) (*client.Response, error) {
		return &client.Response{StatusCode: status, Body: []byte(body)}, nil
	})
	c, err := client.New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_Panic(t *testing.T) {
	assert.Panics(t, func() { New(nil, nil) })
}

func TestExactSearch_RecordsRun(t *testing.T) {
	runs := newMemoryStore()
	svc := New(newTestClient(t, 200, `{"results": [
		{"catalogName": "a", "inchikeyMatches": {"exact": true, "parent": true, "connectivity": true}},
		{"catalogName": "b", "inchikeyMatches": {"exact": false, "parent": true, "connectivity": true}}
	]}`), runs)

	out, err := svc.ExactSearch(context.Background(), "CCO", false)
	require.NoError(t, err)
	assert.Len(t, out.Entries, 2)
	require.NotEmpty(t, out.RunID)

	run, err := svc.Run(context.Background(), out.RunID)
	require.NoError(t, err)
	assert.Equal(t, store.OperationExact, run.Operation)
	assert.Equal(t, []string{"CCO"}, run.SMILES)

	var recorded ExactOutput
	require.NoError(t, json.Unmarshal(run.Result, &recorded))
	assert.Len(t, recorded.Entries, 2)

	out, err = svc.ExactSearch(context.Background(), "CCO", true)
	require.NoError(t, err)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "a", out.Entries[0].Supplier)
}

func TestScoreBatch(t *testing.T) {
	runs := newMemoryStore()
	svc := New(newTestClient(t, 200, `{"results": [
		{"SAData": {"fastSAScore": 0.2}},
		{}
	]}`), runs)

	out, err := svc.ScoreBatch(context.Background(), client.AlgorithmFast, []string{"CCO", "CCN"}, false)
	require.NoError(t, err)

	assert.Equal(t, []float64{0.2, manifold.DefaultScore}, out.Scores())
	assert.Equal(t, "CCN", out.Results[1].SMILES)
	assert.Nil(t, out.Results[1].Result)

	run, err := svc.Run(context.Background(), out.RunID)
	require.NoError(t, err)
	assert.Equal(t, "fast", run.Algorithm)
	assert.Equal(t, []float64{0.2, 1.0}, run.Scores)
}

func TestScore_Degraded(t *testing.T) {
	svc := New(newTestClient(t, 500, `{}`), nil)

	out, err := svc.Score(context.Background(), client.AlgorithmRetrosynthesis, "CCO", false)
	require.NoError(t, err)
	assert.Equal(t, manifold.DefaultScore, out.Score)
	assert.Nil(t, out.Result)
	assert.Empty(t, out.RunID, "no store, no run")
}

func TestScore_ErrorNotRecorded(t *testing.T) {
	runs := newMemoryStore()
	svc := New(newTestClient(t, 422, `{"error": "bad smiles"}`), runs)

	_, err := svc.Score(context.Background(), client.AlgorithmFast, "C(", false)
	assert.ErrorIs(t, err, manifold.ErrInvalidInput)
	assert.Empty(t, runs.runs)
}

func TestRecordFailureKeepsResult(t *testing.T) {
	runs := newMemoryStore()
	runs.err = errors.New("redis down")
	svc := New(newTestClient(t, 200, `{"results": [{"catalogEntries": []}]}`), runs)

	out, err := svc.ExactSearchBatch(context.Background(), []string{"CCO"})
	require.NoError(t, err)
	assert.Empty(t, out.RunID)
	assert.Len(t, out.Results, 1)

	assert.Error(t, svc.Ready(context.Background()))
}

func TestRun_StoreDisabled(t *testing.T) {
	svc := New(newTestClient(t, 200, `{}`), nil)

	_, err := svc.Run(context.Background(), "any")
	assert.ErrorIs(t, err, ErrStoreDisabled)
	assert.NoError(t, svc.Ready(context.Background()))
	assert.False(t, svc.StoreEnabled())
}
