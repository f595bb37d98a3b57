package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"coursegen/internal/config"
	"coursegen/internal/telemetry"
	"coursegen/internal/util"
)

// Search parameters shared by every query.
const (
	SearchMaxResults   = 6
	MaxEmbeddableIDs   = 25
	DurationMedium     = "medium"
	DurationLong       = "long"
	searchOrder        = "relevance"
	searchResourceType = "video"
)

// Failure reasons surfaced to API callers as the response warning.
const (
	ReasonQuotaExceeded = "QUOTA_EXCEEDED"
	ReasonAPINotEnabled = "API_NOT_ENABLED"
	ReasonForbidden     = "FORBIDDEN"
	ReasonInvalidKey    = "INVALID_KEY"
	ReasonUnknown       = "UNKNOWN"
)

// ErrYouTubeNotConfigured is returned when no API key is set.
var ErrYouTubeNotConfigured = errors.New("YOUTUBE_API_KEY is not configured")

// VideoCandidate is one search hit. VideoID may be empty for non-video results.
type VideoCandidate struct {
	VideoID      string
	Title        string
	Description  string
	ThumbnailURL string
	ChannelTitle string
	PublishedAt  string
}

// SearchError is a failed YouTube call with its classified reason.
type SearchError struct {
	Reason string
	Status int
	Err    error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("youtube search failed (%s): %v", e.Reason, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// IsFatal reports whether every later call with the same key will fail the same way.
func IsFatal(reason string) bool {
	switch reason {
	case ReasonQuotaExceeded, ReasonInvalidKey, ReasonAPINotEnabled:
		return true
	}
	return false
}

// ReasonOf returns the classified reason carried by err, or UNKNOWN.
func ReasonOf(err error) string {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Reason
	}
	return ReasonUnknown
}

// YouTubeClient wraps the YouTube Data API v3 with rate limiting and tracing
type YouTubeClient struct {
	svc     *youtube.Service
	limiter *rate.Limiter
	timeout time.Duration
	logger  *util.Logger
}

// NewYouTubeClient creates a client. Without an API key the client is returned
// unconfigured and every call fails with ErrYouTubeNotConfigured.
func NewYouTubeClient(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*YouTubeClient, error) {
	rps := cfg.YouTubeRequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	yc := &YouTubeClient{
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		timeout: cfg.YouTubeTimeout,
		logger:  util.NewLogger("YouTubeClient"),
	}
	if strings.TrimSpace(cfg.YouTubeAPIKey) == "" {
		return yc, nil
	}

	all := append([]option.ClientOption{option.WithAPIKey(cfg.YouTubeAPIKey)}, opts...)
	svc, err := youtube.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	yc.svc = svc
	return yc, nil
}

// Configured reports whether an API key was provided.
func (yc *YouTubeClient) Configured() bool {
	return yc != nil && yc.svc != nil
}

// Search runs one search.list call with the given video duration filter.
func (yc *YouTubeClient) Search(ctx context.Context, query, duration string) ([]VideoCandidate, error) {
	if !yc.Configured() {
		return nil, ErrYouTubeNotConfigured
	}

	ctx, span := telemetry.Tracer().Start(ctx, "youtube.search")
	defer span.End()
	span.SetAttributes(attribute.String("youtube.query", query), attribute.String("youtube.duration", duration))

	ctx, cancel := yc.withTimeout(ctx)
	defer cancel()
	if err := yc.limiter.Wait(ctx); err != nil {
		return nil, &SearchError{Reason: ReasonUnknown, Err: limiterErr(ctx, err)}
	}

	call := yc.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type(searchResourceType).
		MaxResults(SearchMaxResults).
		Order(searchOrder)
	if duration != "" {
		call = call.VideoDuration(duration)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		se := classify(err)
		span.RecordError(se)
		span.SetStatus(codes.Error, se.Reason)
		yc.logger.KeyValue("msg", "youtube search failed", "reason", se.Reason, "status", se.Status, "query", query)
		return nil, se
	}

	out := make([]VideoCandidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil {
			continue
		}
		out = append(out, toCandidate(item))
	}
	span.SetAttributes(attribute.Int("youtube.results", len(out)))
	return out, nil
}

// EmbeddableIDs returns the subset of ids whose status allows embedding. Only the
// first MaxEmbeddableIDs unique non-empty ids are looked up.
func (yc *YouTubeClient) EmbeddableIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	out := map[string]bool{}
	if !yc.Configured() {
		return out, ErrYouTubeNotConfigured
	}

	unique := uniqueIDs(ids, MaxEmbeddableIDs)
	if len(unique) == 0 {
		return out, nil
	}

	ctx, span := telemetry.Tracer().Start(ctx, "youtube.videos.status")
	defer span.End()
	span.SetAttributes(attribute.Int("youtube.ids", len(unique)))

	ctx, cancel := yc.withTimeout(ctx)
	defer cancel()
	if err := yc.limiter.Wait(ctx); err != nil {
		return out, limiterErr(ctx, err)
	}

	resp, err := yc.svc.Videos.List([]string{"status"}).Id(unique...).Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		return out, classify(err)
	}
	for _, v := range resp.Items {
		if v != nil && v.Id != "" && v.Status != nil && v.Status.Embeddable {
			out[v.Id] = true
		}
	}
	return out, nil
}

func (yc *YouTubeClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if yc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, yc.timeout)
}

// limiterErr reports a failed limiter wait as the context error behind it. Wait
// fails early, before the context ends, when the deadline cannot be met.
func limiterErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
}

func toCandidate(item *youtube.SearchResult) VideoCandidate {
	var c VideoCandidate
	if item.Id != nil {
		c.VideoID = item.Id.VideoId
	}
	if s := item.Snippet; s != nil {
		c.Title = s.Title
		c.Description = s.Description
		c.ChannelTitle = s.ChannelTitle
		c.PublishedAt = s.PublishedAt
		if t := s.Thumbnails; t != nil {
			switch {
			case t.High != nil && t.High.Url != "":
				c.ThumbnailURL = t.High.Url
			case t.Medium != nil && t.Medium.Url != "":
				c.ThumbnailURL = t.Medium.Url
			case t.Default != nil && t.Default.Url != "":
				c.ThumbnailURL = t.Default.Url
			}
		}
	}
	return c
}

func uniqueIDs(ids []string, limit int) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == limit {
			break
		}
	}
	return out
}

func classify(err error) *SearchError {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &SearchError{Reason: ReasonUnknown, Err: err}
	}
	return &SearchError{Reason: ClassifyReason(gerr), Status: gerr.Code, Err: err}
}

// ClassifyReason maps a Data API error to a failure reason.
func ClassifyReason(gerr *googleapi.Error) string {
	first := ""
	if len(gerr.Errors) > 0 {
		first = gerr.Errors[0].Reason
	}

	switch gerr.Code {
	case http.StatusForbidden:
		if first == "quotaExceeded" || strings.Contains(gerr.Message, "quota") {
			return ReasonQuotaExceeded
		}
		if first == "forbidden" || first == "accessNotConfigured" {
			return ReasonAPINotEnabled
		}
		return ReasonForbidden
	case http.StatusBadRequest:
		if first == "keyInvalid" || strings.Contains(gerr.Message, "API key") {
			return ReasonInvalidKey
		}
	case http.StatusUnauthorized:
		return ReasonInvalidKey
	}
	return ReasonUnknown
}
