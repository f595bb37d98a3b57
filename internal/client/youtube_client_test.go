package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"coursegen/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{YouTubeAPIKey: "test-key", YouTubeRequestsPerSecond: 100, YouTubeTimeout: 5 * time.Second}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *YouTubeClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	yc, err := NewYouTubeClient(context.Background(), testConfig(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return yc
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestSearchMapsSnippets(t *testing.T) {
	var query string
	yc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/youtube/v3/search"), r.URL.Path)
		query = r.URL.RawQuery
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{
				{
					"id": map[string]any{"videoId": "vid1"},
					"snippet": map[string]any{
						"title":        "Goroutines explained",
						"description":  "tutorial",
						"channelTitle": "Go Channel",
						"publishedAt":  "2024-01-01T00:00:00Z",
						"thumbnails": map[string]any{
							"default": map[string]any{"url": "d.jpg"},
							"medium":  map[string]any{"url": "m.jpg"},
						},
					},
				},
				{"id": map[string]any{"channelId": "c1"}, "snippet": map[string]any{"title": "a channel"}},
			},
		})
	})

	got, err := yc.Search(context.Background(), `"Goroutines" explained tutorial`, DurationMedium)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, VideoCandidate{
		VideoID:      "vid1",
		Title:        "Goroutines explained",
		Description:  "tutorial",
		ThumbnailURL: "m.jpg",
		ChannelTitle: "Go Channel",
		PublishedAt:  "2024-01-01T00:00:00Z",
	}, got[0])
	assert.Empty(t, got[1].VideoID)

	assert.Contains(t, query, "videoDuration=medium")
	assert.Contains(t, query, "maxResults=6")
	assert.Contains(t, query, "order=relevance")
	assert.Contains(t, query, "type=video")
}

func TestSearchClassifiesErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		reason string
		msg    string
		want   string
	}{
		{"quota reason", 403, "quotaExceeded", "limit", ReasonQuotaExceeded},
		{"quota message", 403, "dailyLimitExceeded", "exceeded your quota", ReasonQuotaExceeded},
		{"not enabled", 403, "accessNotConfigured", "disabled", ReasonAPINotEnabled},
		{"forbidden", 403, "forbidden", "nope", ReasonAPINotEnabled},
		{"other 403", 403, "ipRefererBlocked", "blocked", ReasonForbidden},
		{"bad key", 400, "keyInvalid", "bad", ReasonInvalidKey},
		{"bad key message", 400, "badRequest", "API key not valid", ReasonInvalidKey},
		{"bad request", 400, "badRequest", "invalid filter", ReasonUnknown},
		{"unauthorized", 401, "authError", "login", ReasonInvalidKey},
		{"server", 500, "backendError", "oops", ReasonUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			yc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, map[string]any{
					"error": map[string]any{
						"code":    tc.status,
						"message": tc.msg,
						"errors":  []map[string]any{{"reason": tc.reason, "message": tc.msg}},
					},
				})
			})

			_, err := yc.Search(context.Background(), "q", DurationLong)
			require.Error(t, err)
			assert.Equal(t, tc.want, ReasonOf(err))
		})
	}
}

func TestEmbeddableIDs(t *testing.T) {
	var ids string
	var calls atomic.Int32
	yc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/youtube/v3/videos"), r.URL.Path)
		ids = r.URL.Query().Get("id")
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{
				{"id": "a", "status": map[string]any{"embeddable": true}},
				{"id": "b", "status": map[string]any{"embeddable": false}},
			},
		})
	})

	input := []string{"a", "", "b", "a"}
	for i := 0; i < 30; i++ {
		input = append(input, "x"+string(rune('A'+i)))
	}
	got, err := yc.EmbeddableIDs(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a": true}, got)
	assert.Len(t, strings.Split(ids, ","), MaxEmbeddableIDs)
	assert.True(t, strings.HasPrefix(ids, "a,b,"))

	empty, err := yc.EmbeddableIDs(context.Background(), []string{"", ""})
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.EqualValues(t, 1, calls.Load(), "no request without ids")
}

func TestUnconfiguredClient(t *testing.T) {
	yc, err := NewYouTubeClient(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.False(t, yc.Configured())

	_, err = yc.Search(context.Background(), "q", DurationMedium)
	assert.True(t, errors.Is(err, ErrYouTubeNotConfigured))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ReasonQuotaExceeded))
	assert.True(t, IsFatal(ReasonInvalidKey))
	assert.True(t, IsFatal(ReasonAPINotEnabled))
	assert.False(t, IsFatal(ReasonForbidden))
	assert.False(t, IsFatal(ReasonUnknown))
	assert.Equal(t, ReasonInvalidKey, ClassifyReason(&googleapi.Error{Code: 401}))
}
