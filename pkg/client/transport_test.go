package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/manifold-client/internal/testutil"
	"github.com/Sternrassler/manifold-client/pkg/manifold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T, mock *testutil.MockManifold) *Client {
	t.Helper()
	cfg := DefaultConfig("mock-key")
	cfg.BaseURL = mock.URL()
	cfg.Timeout = 2 * time.Second
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestHTTPTransport_Headers(t *testing.T) {
	mock := testutil.NewMockManifold()
	defer mock.Close()
	mock.SetResponse("/exact/", testutil.NewOKResponse(`{"results": []}`))

	c := newMockClient(t, mock)
	_, err := c.ExactSearch(context.Background(), "CCO")
	require.NoError(t, err)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "mock-key", reqs[0].Header.Get(HeaderAPIKey))
	assert.Equal(t, "application/json", reqs[0].Header.Get("Content-Type"))
	assert.Equal(t, DefaultUserAgent, reqs[0].Header.Get("User-Agent"))
	assert.Equal(t, "CCO", reqs[0].Body["smiles"])
	assert.Equal(t, false, reqs[0].Body["queryThirdPartyServices"])
}

func TestHTTPTransport_ErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		resp    testutil.MockResponse
		wantErr error
		empty   bool
	}{
		{"invalid smiles", testutil.NewInvalidSMILESResponse("cannot parse"), manifold.ErrInvalidInput, false},
		{"rate limited", testutil.NewRateLimitResponse("Request was throttled."), manifold.ErrRateLimited, false},
		{"server error", testutil.NewServerErrorResponse(), nil, true},
		{"garbage", testutil.NewGarbageResponse(), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockManifold()
			defer mock.Close()
			mock.SetResponse("/synthetic-accessibility/fast-score/", tt.resp)

			c := newMockClient(t, mock)
			result, err := c.SyntheticAccessibility(context.Background(), AccessibilityRequest{
				Algorithm: AlgorithmFast,
				SMILES:    "CCO",
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Nil(t, result.Result())
			assert.Equal(t, manifold.DefaultScore, result.Score())
		})
	}
}

func TestHTTPTransport_BatchFlow(t *testing.T) {
	mock := testutil.NewMockManifold()
	defer mock.Close()
	mock.SetHandler("/synthetic-accessibility/fast-score/batch/", testutil.FastScoreBatchHandler(func(s string) float64 {
		return float64(len(s)) / 10
	}))

	c := newMockClient(t, mock)
	smiles := smilesN(205)
	result, err := c.SyntheticAccessibilityBatch(context.Background(), AccessibilityBatchRequest{
		Algorithm: AlgorithmFast,
		SMILES:    smiles,
		Alerts:    true,
	})
	require.NoError(t, err)

	reqs := mock.Requests()
	require.Len(t, reqs, 3)
	assert.Len(t, reqs[0].SMILESList(), 100)
	assert.Len(t, reqs[1].SMILESList(), 100)
	assert.Len(t, reqs[2].SMILESList(), 5)
	assert.Equal(t, true, reqs[0].Body["getAlertSvg"])

	scores := result.Scores()
	require.Len(t, scores, 205)
	for i, s := range smiles {
		assert.InDelta(t, float64(len(s))/10, scores[i], 1e-9)
	}
}

func TestHTTPTransport_ExactBatch(t *testing.T) {
	mock := testutil.NewMockManifold()
	defer mock.Close()
	mock.SetHandler("/exact/batch/", testutil.ExactBatchHandler())

	c := newMockClient(t, mock)
	result, err := c.ExactSearchBatch(context.Background(), []string{"CCO", "c1ccccc1"})
	require.NoError(t, err)

	entries := result.Entries()
	require.Len(t, entries, 2)
	require.Len(t, entries[1], 1)
	assert.Equal(t, "MOCK-c1ccccc1", entries[1][0].ID)
	assert.True(t, entries[1][0].IsExactMatch())
}

func TestHTTPTransport_RateLimitStopsBatches(t *testing.T) {
	mock := testutil.NewMockManifold()
	defer mock.Close()
	mock.SetSequence("/synthetic-accessibility/retrosynthesis/batch/",
		testutil.NewOKResponse(`{"results": [`+strings.TrimSuffix(strings.Repeat(`{"SAData": {"score": 0.5}},`, 10), ",")+`]}`),
		testutil.NewRateLimitResponse("slow down"),
	)

	c := newMockClient(t, mock)
	_, err := c.SyntheticAccessibilityBatch(context.Background(), AccessibilityBatchRequest{
		Algorithm: AlgorithmRetrosynthesis,
		SMILES:    smilesN(35),
	})
	assert.ErrorIs(t, err, manifold.ErrRateLimited)
	assert.Equal(t, 2, mock.GetRequestCount())
}

func TestHTTPTransport_Timeout(t *testing.T) {
	mock := testutil.NewMockManifold()
	defer mock.Close()
	mock.SetResponse("/exact/", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"results": []}`,
		Delay:      200 * time.Millisecond,
	})

	c := newMockClient(t, mock)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.ExactSearch(ctx, "CCO")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestTransportFunc(t *testing.T) {
	var gotURL string
	tf := TransportFunc(func(_ context.Context, url string, _ http.Header, _ any) (*Response, error) {
		gotURL = url
		return &Response{StatusCode: http.StatusOK, Body: []byte(`{"results": []}`)}, nil
	})

	resp, err := tf.Post(context.Background(), "https://example.test/exact/", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/exact/", gotURL)
	assert.True(t, resp.Decode().OK())
}
