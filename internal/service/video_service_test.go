package service

import (
	"context"
	"errors"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"coursegen/internal/cache"
	"coursegen/internal/client"
	"coursegen/internal/config"
	"coursegen/internal/models"
)

type searchKey struct {
	query    string
	duration string
}

type fakeSearcher struct {
	mu         sync.Mutex
	configured bool
	results    map[searchKey][]client.VideoCandidate
	errs       map[searchKey]error
	embeddable map[string]bool
	searches   []searchKey
	embedCalls int
	// onSearch runs before each search; it sees the context the search was given.
	onSearch func(ctx context.Context)
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		configured: true,
		results:    map[searchKey][]client.VideoCandidate{},
		errs:       map[searchKey]error{},
		embeddable: map[string]bool{},
	}
}

func (f *fakeSearcher) Configured() bool { return f.configured }

func (f *fakeSearcher) Search(ctx context.Context, query, duration string) ([]client.VideoCandidate, error) {
	if f.onSearch != nil {
		f.onSearch(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	k := searchKey{query, duration}
	f.searches = append(f.searches, k)
	if err, ok := f.errs[k]; ok {
		return nil, err
	}
	return f.results[k], nil
}

func (f *fakeSearcher) EmbeddableIDs(_ context.Context, ids []string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embedCalls++
	out := map[string]bool{}
	for _, id := range ids {
		if f.embeddable[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeSearcher) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func newVideoService(t *testing.T, searcher VideoSearcher) *VideoService {
	t.Helper()
	vc := cache.NewVideoCache(time.Hour, "")
	t.Cleanup(func() { _ = vc.Close() })
	return NewVideoService(searcher, vc)
}

var goroutinesChapter = models.ChapterInput{ChapterID: "ch-1", ChapterTitle: "Goroutines", SubContent: []string{"scheduler", "stacks"}}

func TestBuildQueries(t *testing.T) {
	ch := models.ChapterInput{ChapterTitle: "Channels", SubContent: []string{"a", "b", "c", "d"}}
	assert.Equal(t, `"Channels" a b c explained tutorial`, buildQuery(ch))
	assert.Equal(t, "Channels a b tutorial for beginners", buildFallbackQuery(ch))
}

func TestChapterIdentity(t *testing.T) {
	assert.Equal(t, "x", chapterIdentity(0, models.ChapterInput{ChapterID: "x"}))
	assert.Equal(t, "Intro-2", chapterIdentity(2, models.ChapterInput{ChapterTitle: "Intro"}))
	assert.Equal(t, "chapter-1", chapterIdentity(1, models.ChapterInput{}))
	assert.Equal(t, "Chapter 2", chapterDisplayTitle(1, models.ChapterInput{}))
}

func TestMatchChaptersPrefersEmbeddableBestScore(t *testing.T) {
	fs := newFakeSearcher()
	q := buildQuery(goroutinesChapter)
	fs.results[searchKey{q, client.DurationMedium}] = []client.VideoCandidate{
		{VideoID: "v-generic", Title: "Programming full course"},
		{VideoID: "v-best", Title: "Goroutines explained: scheduler and stacks", ChannelTitle: "Gopher"},
		{VideoID: "v-good", Title: "Goroutines tutorial"},
	}
	fs.embeddable["v-good"] = true

	svc := newVideoService(t, fs)
	resp, err := svc.MatchChapters(context.Background(), &models.VideoSearchRequest{CourseName: "Go", Chapters: []models.ChapterInput{goroutinesChapter}})
	require.NoError(t, err)
	require.Len(t, resp.Videos, 1)

	v := resp.Videos[0]
	assert.Equal(t, "ch-1", v.ChapterID)
	assert.Equal(t, "Goroutines", v.ChapterTitle)
	require.NotNil(t, v.VideoID)
	assert.Equal(t, "v-good", *v.VideoID, "highest-scoring embeddable wins over a higher non-embeddable score")
	require.NotNil(t, v.EmbedURL)
	assert.Equal(t, "https://www.youtube.com/embed/v-good", *v.EmbedURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=v-good", *v.WatchURL)
	assert.Nil(t, v.Description)
	assert.Empty(t, resp.Warning)
}

func TestMatchChaptersFallsBackToTopScoreWithoutEmbed(t *testing.T) {
	fs := newFakeSearcher()
	q := buildQuery(goroutinesChapter)
	fs.results[searchKey{q, client.DurationMedium}] = []client.VideoCandidate{
		{VideoID: "v-generic", Title: "Programming roadmap"},
		{VideoID: "v-best", Title: "Goroutines scheduler explained"},
	}

	svc := newVideoService(t, fs)
	resp, err := svc.MatchChapters(context.Background(), &models.VideoSearchRequest{CourseName: "Go", Chapters: []models.ChapterInput{goroutinesChapter}})
	require.NoError(t, err)

	v := resp.Videos[0]
	require.NotNil(t, v.VideoID)
	assert.Equal(t, "v-best", *v.VideoID)
	assert.Nil(t, v.EmbedURL)
	assert.NotNil(t, v.WatchURL)
}

func TestMatchChaptersSearchTiers(t *testing.T) {
	fs := newFakeSearcher()
	fq := buildFallbackQuery(goroutinesChapter)
	fs.results[searchKey{fq, client.DurationMedium}] = []client.VideoCandidate{{VideoID: "v-fallback", Title: "Goroutines"}}

	svc := newVideoService(t, fs)
	resp, err := svc.MatchChapters(context.Background(), &models.VideoSearchRequest{CourseName: "Go", Chapters: []models.ChapterInput{goroutinesChapter}})
	require.NoError(t, err)

	require.NotNil(t, resp.Videos[0].VideoID)
	assert.Equal(t, "v-fallback", *resp.Videos[0].VideoID)

	q := buildQuery(goroutinesChapter)
	assert.Equal(t, []searchKey{
		{q, client.DurationMedium},
		{q, client.DurationLong},
		{fq, client.DurationMedium},
	}, fs.searches)
}

func TestMatchChaptersNoResults(t *testing.T) {
	fs := newFakeSearcher()
	svc := newVideoService(t, fs)

	resp, err := svc.MatchChapters(context.Background(), &models.VideoSearchRequest{Chapters: []models.ChapterInput{{}}})
	require.NoError(t, err)

	v := resp.Videos[0]
	assert.Equal(t, "chapter-0", v.ChapterID)
	assert.Equal(t, "Chapter 1", v.ChapterTitle)
	assert.Nil(t, v.VideoID)
	assert.Nil(t, v.WatchURL)
	assert.Zero(t, fs.embedCalls)
}

func TestMatchChaptersUsesCache(t *testing.T) {
	fs := newFakeSearcher()
	q := buildQuery(goroutinesChapter)
	fs.results[searchKey{q, client.DurationMedium}] = []client.VideoCandidate{{VideoID: "v1", Title: "Goroutines"}}
	svc := newVideoService(t, fs)
	ctx := context.Background()

	_, err := svc.MatchChapters(ctx, &models.VideoSearchRequest{CourseName: "Go", Chapters: []models.ChapterInput{goroutinesChapter}})
	require.NoError(t, err)
	searches := fs.searchCount()

	renamed := goroutinesChapter
	renamed.ChapterID = "other-id"
	resp, err := svc.MatchChapters(ctx, &models.VideoSearchRequest{CourseName: "Go", Chapters: []models.ChapterInput{renamed}})
	require.NoError(t, err)
	assert.Equal(t, searches, fs.searchCount(), "cached chapter is not searched again")
	assert.Equal(t, "other-id", resp.Videos[0].ChapterID, "cached pick is rebound to the caller's chapter")
	assert.Equal(t, "v1", *resp.Videos[0].VideoID)

	_, err = svc.MatchChapters(ctx, &models.VideoSearchRequest{CourseName: "Go", Chapters: []models.ChapterInput{goroutinesChapter}, ForceRefresh: true})
	require.NoError(t, err)
	assert.Greater(t, fs.searchCount(), searches)

	_, err = svc.MatchChapters(ctx, &models.VideoSearchRequest{CourseName: "Rust", Chapters: []models.ChapterInput{goroutinesChapter}})
	require.NoError(t, err)
	assert.Greater(t, fs.searchCount(), searches+1, "cache key includes the course name")
}

func TestMatchChaptersFatalReasonShortCircuits(t *testing.T) {
	fs := newFakeSearcher()
	first := goroutinesChapter
	second := models.ChapterInput{ChapterID: "ch-2", ChapterTitle: "Channels"}
	fs.errs[searchKey{buildQuery(first), client.DurationMedium}] = &client.SearchError{Reason: client.ReasonQuotaExceeded, Status: http.StatusForbidden, Err: errors.New("quota")}

	svc := newVideoService(t, fs)
	resp, err := svc.MatchChapters(context.Background(), &models.VideoSearchRequest{CourseName: "Go", Chapters: []models.ChapterInput{first, second}})
	require.NoError(t, err)

	assert.Equal(t, client.ReasonQuotaExceeded, resp.Warning)
	require.Len(t, resp.Videos, 2)
	assert.Nil(t, resp.Videos[0].VideoID)
	assert.Equal(t, "ch-2", resp.Videos[1].ChapterID)
	assert.Nil(t, resp.Videos[1].VideoID)
	assert.Equal(t, 1, fs.searchCount(), "no calls after a fatal failure")

	// the failure was not cached, so a later request searches again
	delete(fs.errs, searchKey{buildQuery(first), client.DurationMedium})
	fs.results[searchKey{buildQuery(first), client.DurationMedium}] = []client.VideoCandidate{{VideoID: "v1", Title: "Goroutines"}}
	resp, err = svc.MatchChapters(context.Background(), &models.VideoSearchRequest{CourseName: "Go", Chapters: []models.ChapterInput{first}})
	require.NoError(t, err)
	require.NotNil(t, resp.Videos[0].VideoID)
	assert.Empty(t, resp.Warning)
}

func TestMatchChaptersNonFatalWarning(t *testing.T) {
	fs := newFakeSearcher()
	q := buildQuery(goroutinesChapter)
	fs.errs[searchKey{q, client.DurationMedium}] = &client.SearchError{Reason: client.ReasonForbidden, Status: http.StatusForbidden, Err: errors.New("forbidden")}
	fs.results[searchKey{q, client.DurationLong}] = []client.VideoCandidate{{VideoID: "v-long", Title: "Goroutines"}}

	svc := newVideoService(t, fs)
	resp, err := svc.MatchChapters(context.Background(), &models.VideoSearchRequest{CourseName: "Go", Chapters: []models.ChapterInput{goroutinesChapter}})
	require.NoError(t, err)

	assert.Equal(t, client.ReasonForbidden, resp.Warning)
	require.NotNil(t, resp.Videos[0].VideoID)
	assert.Equal(t, "v-long", *resp.Videos[0].VideoID)
}

func TestMatchChaptersValidation(t *testing.T) {
	svc := newVideoService(t, newFakeSearcher())
	_, err := svc.MatchChapters(context.Background(), &models.VideoSearchRequest{})
	requireAPIErr(t, err, http.StatusBadRequest, CodeInvalidRequest)

	unconfigured := newFakeSearcher()
	unconfigured.configured = false
	svc = newVideoService(t, unconfigured)
	_, err = svc.MatchChapters(context.Background(), &models.VideoSearchRequest{Chapters: []models.ChapterInput{goroutinesChapter}})
	requireAPIErr(t, err, http.StatusInternalServerError, CodeYouTubeNotConfig)
}

func TestMatchChaptersDoesNotCacheInterruptedLookup(t *testing.T) {
	fs := newFakeSearcher()
	q := buildQuery(goroutinesChapter)
	timeout := &client.SearchError{Reason: client.ReasonUnknown, Err: context.DeadlineExceeded}
	fs.errs[searchKey{q, client.DurationMedium}] = timeout
	fs.errs[searchKey{q, client.DurationLong}] = timeout
	fs.errs[searchKey{buildFallbackQuery(goroutinesChapter), client.DurationMedium}] = timeout

	svc := newVideoService(t, fs)
	req := &models.VideoSearchRequest{CourseName: "Go", Chapters: []models.ChapterInput{goroutinesChapter}}
	resp, err := svc.MatchChapters(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, client.ReasonUnknown, resp.Warning)
	assert.Nil(t, resp.Videos[0].VideoID)

	fs.errs = map[searchKey]error{}
	fs.results[searchKey{q, client.DurationMedium}] = []client.VideoCandidate{{VideoID: "v1", Title: "Goroutines"}}
	searches := fs.searchCount()

	resp, err = svc.MatchChapters(context.Background(), req)
	require.NoError(t, err)
	assert.Greater(t, fs.searchCount(), searches, "timed out lookup was not cached")
	require.NotNil(t, resp.Videos[0].VideoID)
	assert.Equal(t, "v1", *resp.Videos[0].VideoID)
	assert.Empty(t, resp.Warning)
}

func TestMatchChaptersLookupOutlivesCaller(t *testing.T) {
	fs := newFakeSearcher()
	q := buildQuery(goroutinesChapter)
	fs.results[searchKey{q, client.DurationMedium}] = []client.VideoCandidate{{VideoID: "v1", Title: "Goroutines"}}

	ctx, cancel := context.WithCancel(context.Background())
	var searchCtxErr error
	fs.onSearch = func(searchCtx context.Context) {
		cancel()
		searchCtxErr = searchCtx.Err()
	}

	svc := newVideoService(t, fs)
	req := &models.VideoSearchRequest{CourseName: "Go", Chapters: []models.ChapterInput{goroutinesChapter}}
	resp, err := svc.MatchChapters(ctx, req)
	require.NoError(t, err)
	assert.NoError(t, searchCtxErr, "caller cancellation does not reach the shared lookup")
	require.NotNil(t, resp.Videos[0].VideoID)

	fs.onSearch = nil
	searches := fs.searchCount()
	resp, err = svc.MatchChapters(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, searches, fs.searchCount(), "completed lookup was cached")
	assert.Equal(t, "v1", *resp.Videos[0].VideoID)
}

func TestMatchChaptersStopsWhenCallerIsGone(t *testing.T) {
	fs := newFakeSearcher()
	svc := newVideoService(t, fs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.MatchChapters(ctx, &models.VideoSearchRequest{Chapters: []models.ChapterInput{goroutinesChapter}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fs.searchCount())
}

func TestMatchChaptersClientTimeoutIsNotCached(t *testing.T) {
	var hang atomic.Bool
	hang.Store(true)
	var calls atomic.Int32
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if hang.Load() {
			select {
			case <-r.Context().Done():
			case <-release:
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/youtube/v3/videos") {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{{"id": "v1", "status": map[string]any{"embeddable": true}}},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{"id": map[string]any{"videoId": "v1"}, "snippet": map[string]any{"title": "Goroutines"}}},
		})
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	cfg := &config.Config{YouTubeAPIKey: "test-key", YouTubeRequestsPerSecond: 100, YouTubeTimeout: 100 * time.Millisecond}
	yc, err := client.NewYouTubeClient(context.Background(), cfg,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	svc := newVideoService(t, yc)
	req := &models.VideoSearchRequest{CourseName: "Go", Chapters: []models.ChapterInput{goroutinesChapter}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	resp, err := svc.MatchChapters(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, client.ReasonUnknown, resp.Warning)
	assert.Nil(t, resp.Videos[0].VideoID)

	hang.Store(false)
	before := calls.Load()
	resp, err = svc.MatchChapters(context.Background(), req)
	require.NoError(t, err)
	assert.Greater(t, calls.Load(), before, "healthy API is called again")
	require.NotNil(t, resp.Videos[0].VideoID)
	assert.Equal(t, "v1", *resp.Videos[0].VideoID)
	require.NotNil(t, resp.Videos[0].EmbedURL)
	assert.Empty(t, resp.Warning)
}
