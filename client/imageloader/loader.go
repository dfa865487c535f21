// Package imageloader fetches and decodes remote images through an
// imagecache.Cache. Loads for the same URL are serialized on one shard of
// an executor, so concurrent callers trigger a single download.
package imageloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"net/http"
	"net/url"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Kayz-mann/trip-planner/client"
	apierrors "github.com/Kayz-mann/trip-planner/client/internal/errors"
	"github.com/Kayz-mann/trip-planner/client/internal/job"
	"github.com/Kayz-mann/trip-planner/client/internal/shardqueue"
	"github.com/Kayz-mann/trip-planner/client/imagecache"
)

const opFetchImage = "fetch image"

// ErrUndecodable is returned when the fetched bytes are not a supported image.
var ErrUndecodable = errors.New("image data could not be decoded")

// ErrClosed is returned by Load after Close.
var ErrClosed = errors.New("image loader closed")

// IsCanceled reports whether err only reflects the caller giving up. Such
// loads are benign no-ops.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Loader is a cache-fronted image fetcher. It is safe for concurrent use.
type Loader struct {
	cache  *imagecache.Cache
	http   *resty.Client
	exec   *shardqueue.ShardExecutor
	logger zerolog.Logger
}

type settings struct {
	httpClient *http.Client
	timeout    time.Duration
	queue      shardqueue.Config
	logger     zerolog.Logger
}

// Option configures a Loader.
type Option func(*settings)

// WithHTTPClient sets the http.Client used for downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

// WithTimeout bounds a single download attempt.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithShards sets how many URLs may download in parallel.
func WithShards(n int) Option {
	return func(s *settings) { s.queue.Shards = n }
}

// WithMaxAttempts caps download attempts for recoverable failures.
func WithMaxAttempts(n int) Option {
	return func(s *settings) { s.queue.MaxAttempts = n }
}

// WithRetryBackoff sets the initial and maximum wait between attempts.
func WithRetryBackoff(base, maxWait time.Duration) Option {
	return func(s *settings) {
		s.queue.BaseBackoff = base
		s.queue.MaxInterval = maxWait
	}
}

// WithLogger sets the logger for download failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// New returns a Loader backed by cache, or imagecache.Shared() when cache is
// nil. Executor tunables start from SQ_* environment variables.
func New(cache *imagecache.Cache, opts ...Option) *Loader {
	if cache == nil {
		cache = imagecache.Shared()
	}
	s := settings{timeout: 30 * time.Second, logger: log.Logger}
	if cfg, err := shardqueue.LoadConfig(); err == nil {
		s.queue = cfg
	} else {
		s.logger.Warn().Err(err).Msg("invalid SQ_* settings, using executor defaults")
	}
	for _, opt := range opts {
		opt(&s)
	}

	rc := resty.New()
	if s.httpClient != nil {
		rc = resty.NewWithClient(s.httpClient)
	}
	rc.SetTimeout(s.timeout).SetHeader("Accept", "image/*")

	logger := s.logger.With().Str("component", "imageloader").Logger()
	s.queue.ErrorHandler = func(err error) {
		if !IsCanceled(err) {
			logger.Debug().Err(err).Msg("image load failed")
		}
	}

	return &Loader{
		cache:  cache,
		http:   rc,
		exec:   shardqueue.NewShardExecutor(s.queue),
		logger: logger,
	}
}

// Load returns the image at rawURL, downloading and caching it on a miss.
//
// A done ctx returns ctx.Err() (see IsCanceled) and nothing is cached for
// the abandoned download. A full queue returns client.ErrBackPressure.
func (l *Loader) Load(ctx context.Context, rawURL string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img, ok := l.cache.Get(rawURL); ok {
		loadsTotal.WithLabelValues("cache").Inc()
		return img, nil
	}
	if err := validateImageURL(rawURL); err != nil {
		loadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	var img image.Image
	err := l.exec.Do(ctx, rawURL, job.New(func(jctx context.Context) error {
		// An earlier job for the same URL may have filled the cache.
		if cached, ok := l.cache.Get(rawURL); ok {
			img = cached
			return nil
		}
		decoded, err := l.fetch(jctx, rawURL)
		if err != nil {
			return err
		}
		if err := jctx.Err(); err != nil {
			return err
		}
		l.cache.Set(decoded, rawURL)
		img = decoded
		return nil
	}))

	switch {
	case err == nil:
		loadsTotal.WithLabelValues("network").Inc()
		return img, nil
	case ctx.Err() != nil:
		loadsTotal.WithLabelValues("canceled").Inc()
		return nil, ctx.Err()
	case errors.Is(err, shardqueue.ErrQueueFull):
		loadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %w", client.ErrBackPressure, err)
	case errors.Is(err, shardqueue.ErrExecutorClosed):
		loadsTotal.WithLabelValues("error").Inc()
		return nil, ErrClosed
	default:
		loadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
}

// Close stops the download workers after queued loads finish.
func (l *Loader) Close() error {
	return l.exec.Close()
}

func (l *Loader) fetch(ctx context.Context, rawURL string) (image.Image, error) {
	resp, err := l.http.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, apierrors.NewNetworkError(opFetchImage, err)
	}
	if !resp.IsSuccess() {
		return nil, apierrors.NewHTTPError(opFetchImage, resp.StatusCode(), "")
	}
	img, _, err := image.Decode(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrUndecodable, err))
	}
	return img, nil
}

func validateImageURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return apierrors.NewInvalidURL(opFetchImage, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apierrors.NewInvalidURL(opFetchImage, raw, nil)
	}
	return nil
}
