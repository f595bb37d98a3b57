package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"coursegen/internal/apierr"
	"coursegen/internal/cache"
	"coursegen/internal/client"
	"coursegen/internal/models"
	"coursegen/internal/util"
)

const (
	watchURLPrefix = "https://www.youtube.com/watch?v="
	embedURLPrefix = "https://www.youtube.com/embed/"
)

// VideoSearcher is the subset of the YouTube client the matcher needs.
type VideoSearcher interface {
	Configured() bool
	Search(ctx context.Context, query, duration string) ([]client.VideoCandidate, error)
	EmbeddableIDs(ctx context.Context, ids []string) (map[string]bool, error)
}

// ChapterVideoCache stores chapter video picks between requests.
type ChapterVideoCache interface {
	Get(ctx context.Context, key string) (models.ChapterVideo, bool)
	Do(ctx context.Context, key string, fn func() (cache.Lookup, error)) (cache.Lookup, error)
}

// VideoService picks one YouTube video per chapter
type VideoService struct {
	searcher VideoSearcher
	cache    ChapterVideoCache
	logger   *util.Logger
}

// NewVideoService creates a new video service
func NewVideoService(searcher VideoSearcher, videoCache ChapterVideoCache) *VideoService {
	return &VideoService{
		searcher: searcher,
		cache:    videoCache,
		logger:   util.NewLogger("VideoService"),
	}
}

// MatchChapters returns a video (or an empty result) for every chapter, in order.
// Once a search fails with a fatal reason, later uncached chapters are answered
// empty without calling the API.
func (vs *VideoService) MatchChapters(ctx context.Context, req *models.VideoSearchRequest) (*models.VideoSearchResponse, error) {
	if len(req.Chapters) == 0 {
		return nil, apierr.BadRequest(CodeInvalidRequest, "chapters are required")
	}
	if vs.searcher == nil || !vs.searcher.Configured() {
		return nil, apierr.New(http.StatusInternalServerError, CodeYouTubeNotConfig, "YOUTUBE_API_KEY is not configured", client.ErrYouTubeNotConfigured)
	}

	vs.logger.Start("Chapter Video Matching")
	defer vs.logger.End("Chapter Video Matching")

	courseName := strings.TrimSpace(req.CourseName)
	if courseName == "" {
		courseName = "course"
	}

	resp := &models.VideoSearchResponse{Videos: make([]models.ChapterVideo, 0, len(req.Chapters))}
	fatal := ""

	for i, ch := range req.Chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		identity := chapterIdentity(i, ch)
		title := chapterDisplayTitle(i, ch)
		query := buildQuery(ch)
		key := courseName + "::" + query

		if !req.ForceRefresh {
			if cached, ok := vs.cache.Get(ctx, key); ok {
				resp.Videos = append(resp.Videos, rebind(cached, identity, title))
				continue
			}
		}

		if fatal != "" {
			resp.Videos = append(resp.Videos, emptyVideo(identity, title))
			continue
		}

		// The lookup is shared with concurrent callers on the same key, so it
		// must outlive this caller. The client bounds each call with its own timeout.
		lookupCtx := context.WithoutCancel(ctx)
		res, err := vs.cache.Do(ctx, key, func() (cache.Lookup, error) {
			return vs.matchChapter(lookupCtx, ch, query, buildFallbackQuery(ch)), nil
		})
		if err != nil {
			return nil, fmt.Errorf("match chapter %d: %w", i, err)
		}

		if res.Warning != "" {
			if resp.Warning == "" {
				resp.Warning = res.Warning
			}
			if client.IsFatal(res.Warning) {
				vs.logger.KeyValue("msg", "fatal YouTube failure, skipping remaining searches", "reason", res.Warning)
				fatal = res.Warning
			}
		}
		resp.Videos = append(resp.Videos, rebind(res.Video, identity, title))
	}

	return resp, nil
}

// matchChapter runs the tiered search for one chapter and picks the best candidate.
// A lookup interrupted by a context error is never marked storable.
func (vs *VideoService) matchChapter(ctx context.Context, ch models.ChapterInput, query, fallbackQuery string) cache.Lookup {
	var warning string
	interrupted := false
	note := func(err error) bool {
		if isContextErr(err) {
			interrupted = true
		}
		reason := client.ReasonOf(err)
		vs.logger.Warn("YouTube search failed ("+reason+")", err)
		if warning == "" {
			warning = reason
		}
		return client.IsFatal(reason)
	}

	tiers := []struct {
		query    string
		duration string
	}{
		{query, client.DurationMedium},
		{query, client.DurationLong},
		{fallbackQuery, client.DurationMedium},
	}

	var candidates []client.VideoCandidate
	for _, tier := range tiers {
		items, err := vs.searcher.Search(ctx, tier.query, tier.duration)
		if err != nil && note(err) {
			return cache.Lookup{Warning: warning}
		}
		if len(items) > 0 {
			candidates = items
			break
		}
	}

	if len(candidates) == 0 {
		return cache.Lookup{Warning: warning, Store: !interrupted && ctx.Err() == nil}
	}

	best, complete := vs.pick(ctx, ch, candidates)
	return cache.Lookup{Video: best, Warning: warning, Store: complete && !interrupted && ctx.Err() == nil}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// pick prefers the highest-scoring embeddable video, then the highest-scoring
// video, then whatever the API returned first. complete is false when the
// embeddability lookup was cut short by a context error.
func (vs *VideoService) pick(ctx context.Context, ch models.ChapterInput, candidates []client.VideoCandidate) (models.ChapterVideo, bool) {
	type scored struct {
		c     client.VideoCandidate
		score int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.VideoID == "" {
			continue
		}
		ranked = append(ranked, scored{c: c, score: scoreCandidate(ch, c.Title, c.Description)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.c.VideoID)
	}
	complete := true
	embeddable, err := vs.searcher.EmbeddableIDs(ctx, ids)
	if err != nil {
		complete = !isContextErr(err)
		vs.logger.Warn("Embeddability lookup failed, treating none as embeddable", err)
		embeddable = map[string]bool{}
	}

	chosen := candidates[0]
	if len(ranked) > 0 {
		chosen = ranked[0].c
	}
	for _, r := range ranked {
		if embeddable[r.c.VideoID] {
			chosen = r.c
			break
		}
	}

	return toChapterVideo(chosen, embeddable[chosen.VideoID]), complete
}

func toChapterVideo(c client.VideoCandidate, embeddable bool) models.ChapterVideo {
	v := models.ChapterVideo{
		Title:        strPtr(c.Title),
		Description:  strPtr(c.Description),
		ThumbnailURL: strPtr(c.ThumbnailURL),
		ChannelTitle: strPtr(c.ChannelTitle),
		PublishedAt:  strPtr(c.PublishedAt),
	}
	if c.VideoID != "" {
		v.VideoID = strPtr(c.VideoID)
		v.WatchURL = strPtr(watchURLPrefix + c.VideoID)
		if embeddable {
			v.EmbedURL = strPtr(embedURLPrefix + c.VideoID)
		}
	}
	return v
}

func buildQuery(ch models.ChapterInput) string {
	return strings.TrimSpace(fmt.Sprintf(`"%s" %s explained tutorial`, ch.ChapterTitle, strings.Join(firstN(ch.SubContent, 3), " ")))
}

func buildFallbackQuery(ch models.ChapterInput) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s tutorial for beginners", ch.ChapterTitle, strings.Join(firstN(ch.SubContent, 2), " ")))
}

func chapterIdentity(i int, ch models.ChapterInput) string {
	if ch.ChapterID != "" {
		return ch.ChapterID
	}
	title := ch.ChapterTitle
	if title == "" {
		title = "chapter"
	}
	return fmt.Sprintf("%s-%d", title, i)
}

func chapterDisplayTitle(i int, ch models.ChapterInput) string {
	if ch.ChapterTitle != "" {
		return ch.ChapterTitle
	}
	return fmt.Sprintf("Chapter %d", i+1)
}

func rebind(v models.ChapterVideo, identity, title string) models.ChapterVideo {
	v.ChapterID = identity
	v.ChapterTitle = title
	return v
}

func emptyVideo(identity, title string) models.ChapterVideo {
	return models.ChapterVideo{ChapterID: identity, ChapterTitle: title}
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// strPtr maps "" to nil so absent snippet fields serialize as null.
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
