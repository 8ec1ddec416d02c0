package hubspot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient disables throttling and shrinks backoff so tests run fast.
func newTestClient(url string, opts ...Option) Client {
	base := []Option{
		WithBaseURL(url),
		WithRequestDelay(0),
		WithBackoffStep(time.Millisecond),
	}
	return NewClient("test-token", append(base, opts...)...)
}

func TestSearchAll_RequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/crm/v3/objects/contacts/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.FilterGroups, 1)
		require.Len(t, req.FilterGroups[0].Filters, 2)
		assert.Equal(t, "createdate", req.FilterGroups[0].Filters[0].PropertyName)
		assert.Equal(t, OpBetween, req.FilterGroups[0].Filters[0].Operator)
		assert.Equal(t, "1000", req.FilterGroups[0].Filters[0].Value)
		assert.Equal(t, "2000", req.FilterGroups[0].Filters[0].HighValue)
		assert.Equal(t, OpEq, req.FilterGroups[0].Filters[1].Operator)
		assert.Equal(t, []string{"lead_source"}, req.Properties)
		assert.Equal(t, 100, req.Limit)
		assert.Empty(t, req.After)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"id":"1","properties":{"lead_source":"Facebook"}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	filters := []Filter{
		Between("createdate", 1000, 2000),
		Eq("lead_source", "Facebook"),
	}
	contacts, err := client.SearchAll(context.Background(), filters, []string{"lead_source"})
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "1", contacts[0].ID)
	assert.Equal(t, "Facebook", contacts[0].Properties.LeadSource)
}

func TestSearchAll_DefaultProperties(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"email"}, req.Properties)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.SearchAll(context.Background(), []Filter{Eq("lead_type", "New Lead")}, nil)
	require.NoError(t, err)
}

func TestSearchAll_Pagination(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		switch n {
		case 1:
			assert.Empty(t, req.After)
			_, _ = w.Write([]byte(`{
				"results":[{"id":"1","properties":{"email":"a@x.com"}},{"id":"2","properties":{"email":"b@x.com"}}],
				"paging":{"next":{"after":"cursor-2"}}
			}`))
		case 2:
			assert.Equal(t, "cursor-2", req.After)
			_, _ = w.Write([]byte(`{
				"results":[{"id":"3","properties":{"email":"c@x.com"}}],
				"paging":{"next":{"after":"cursor-3"}}
			}`))
		default:
			assert.Equal(t, "cursor-3", req.After)
			_, _ = w.Write([]byte(`{"results":[{"id":"4","properties":{"email":"d@x.com"}}]}`))
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	contacts, err := client.SearchAll(context.Background(), []Filter{Eq("lead_type", "New Lead")}, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	ids := make([]string, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
}

func TestSearchAll_EmptyCursorTerminates(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"id":"1","properties":{}}],"paging":{"next":{"after":""}}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	contacts, err := client.SearchAll(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearchAll_RetriesOn429ThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message":"rate limit"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"id":"1","properties":{}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	contacts, err := client.SearchAll(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearchAll_RetryLimitOnRepeated429(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"rate limit"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.SearchAll(context.Background(), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryLimit)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSearchAll_FatalStatusNoRetry(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(fmt.Sprintf("status_%d", status), func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"message":"boom"}`))
			}))
			defer srv.Close()

			client := newTestClient(srv.URL)
			_, err := client.SearchAll(context.Background(), nil, nil)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, status, apiErr.StatusCode)
			assert.Contains(t, apiErr.Body, "boom")
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestSearchAll_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{invalid json`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.SearchAll(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal response")
}

func TestCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// Count uses the default property set.
		assert.Equal(t, []string{"email"}, req.Properties)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"id":"1","properties":{}},{"id":"2","properties":{}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	n, err := client.Count(context.Background(), []Filter{Eq("hubspot_owner_id", "42")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSearchAll_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(srv.URL)
	_, err := client.SearchAll(ctx, nil, nil)
	require.Error(t, err)
}

func TestSearchAll_PageLimitOption(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 25, req.Limit)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, WithPageLimit(25))
	_, err := client.SearchAll(context.Background(), nil, nil)
	require.NoError(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()
	c := NewClient("my-token")
	hc := c.(*httpClient)
	assert.Equal(t, "my-token", hc.token)
	assert.Equal(t, defaultBaseURL, hc.baseURL)
	assert.Equal(t, defaultPageLimit, hc.pageLimit)
	assert.Equal(t, 3, hc.maxAttempts)
	assert.Equal(t, 500*time.Millisecond, hc.backoffStep)
	assert.NotNil(t, hc.limiter)
	assert.NotNil(t, hc.http)
}
