package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"shortlink-be/internal/cache"
	"shortlink-be/internal/clock"
	"shortlink-be/internal/entities"
	"shortlink-be/internal/metrics"
	"shortlink-be/internal/models"
	"shortlink-be/internal/repository"
	"shortlink-be/internal/shortid"
)

const (
	defaultMaxAttempts = 5
	defaultCacheTTL    = time.Hour
	cacheKeyPrefix     = "link:"
)

// LinkService defines the link lifecycle operations
type LinkService interface {
	CreateLink(ctx context.Context, req *models.CreateLinkRequest) (*models.CreateLinkResponse, error)
	// Resolve returns the destination of a live link and counts the click.
	// An expired link is deleted on the spot and reported as ErrExpired.
	Resolve(ctx context.Context, shortID string) (string, error)
	ListLinks(ctx context.Context) ([]*models.LinkResponse, error)
	// GetAnalytics never deletes, even when the link has expired.
	GetAnalytics(ctx context.Context, shortID string) (*models.AnalyticsResponse, error)
	DeleteLink(ctx context.Context, shortID string) error
	// LookupShortURL returns the public short URL of a live link without counting a click.
	LookupShortURL(ctx context.Context, shortID string) (string, error)
	ReapExpired(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// Options configures a LinkService.
type Options struct {
	BaseURL     string
	CacheTTL    time.Duration
	MaxAttempts int
}

type linkService struct {
	repo        repository.LinkRepository
	generator   shortid.Generator
	cache       cache.Cache
	clock       clock.Clock
	baseURL     string
	cacheTTL    time.Duration
	maxAttempts int
	logger      *zap.Logger
}

// cachedLink is what the resolve path keeps in the cache.
type cachedLink struct {
	OriginalURL string     `json:"originalUrl"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// NewLinkService creates a new link service. cacheClient may be nil.
func NewLinkService(repo repository.LinkRepository, generator shortid.Generator, cacheClient cache.Cache, clk clock.Clock, opts Options) LinkService {
	svc := &linkService{
		repo:        repo,
		generator:   generator,
		clock:       clk,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		cacheTTL:    opts.CacheTTL,
		maxAttempts: opts.MaxAttempts,
		logger:      zap.L().With(zap.String("component", "LinkService")),
	}
	if cacheClient != nil {
		svc.cache = cacheClient
	}
	if svc.clock == nil {
		svc.clock = clock.Real{}
	}
	if svc.cacheTTL <= 0 {
		svc.cacheTTL = defaultCacheTTL
	}
	if svc.maxAttempts <= 0 {
		svc.maxAttempts = defaultMaxAttempts
	}
	return svc
}

// CreateLink validates the request, then issues a fresh short id, retrying
// on collisions up to maxAttempts times.
func (s *linkService) CreateLink(ctx context.Context, req *models.CreateLinkRequest) (*models.CreateLinkResponse, error) {
	originalURL := strings.TrimSpace(req.OriginalURL)
	if err := validateOriginalURL(originalURL); err != nil {
		metrics.LinksCreatedTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	now := s.clock.Now()
	expiresAt, err := parseExpiry(req.ExpiresAt, now)
	if err != nil {
		metrics.LinksCreatedTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	link := &entities.Link{
		OriginalURL: originalURL,
		User:        req.User,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}

	backoff := retry.WithMaxRetries(uint64(s.maxAttempts-1), retry.NewConstant(time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		id, err := s.generator.Generate()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrGenerationExhausted, err)
		}
		link.ShortID = id

		err = s.repo.Insert(ctx, link)
		if errors.Is(err, repository.ErrDuplicateShortID) {
			metrics.ShortIDCollisionsTotal.Inc()
			s.logger.Debug("short id collision, regenerating", zap.String("short_id", id))
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		metrics.LinksCreatedTotal.WithLabelValues("error").Inc()
		if errors.Is(err, repository.ErrDuplicateShortID) {
			s.logger.Error("short id generation exhausted", zap.Int("attempts", s.maxAttempts))
			return nil, ErrGenerationExhausted
		}
		if errors.Is(err, ErrGenerationExhausted) {
			s.logger.Error("short id generator failed", zap.Error(err))
			return nil, err
		}
		s.logger.Error("failed to create link", zap.Error(err))
		return nil, s.storeFailure(err)
	}

	metrics.LinksCreatedTotal.WithLabelValues("success").Inc()
	s.cacheLink(ctx, link)

	return &models.CreateLinkResponse{
		ShortURL:    s.shortURL(link.ShortID),
		ShortID:     link.ShortID,
		OriginalURL: link.OriginalURL,
		ExpiresAt:   link.ExpiresAt,
		CreatedAt:   link.CreatedAt,
	}, nil
}

func (s *linkService) Resolve(ctx context.Context, shortID string) (string, error) {
	cached, hit := s.cachedLink(ctx, shortID)
	if !hit {
		link, err := s.repo.FindByShortID(ctx, shortID)
		if errors.Is(err, repository.ErrNotFound) {
			metrics.LinkRedirectsTotal.WithLabelValues("not_found").Inc()
			return "", ErrNotFound
		}
		if err != nil {
			metrics.LinkRedirectsTotal.WithLabelValues("error").Inc()
			return "", s.storeFailure(err)
		}
		cached = &cachedLink{OriginalURL: link.OriginalURL, ExpiresAt: link.ExpiresAt}
	}

	now := s.clock.Now()
	if cached.ExpiresAt != nil && now.After(*cached.ExpiresAt) {
		return "", s.reap(ctx, shortID)
	}

	if _, err := s.repo.IncrementClickCount(ctx, shortID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// deleted between lookup and increment
			s.evict(ctx, shortID)
			metrics.LinkRedirectsTotal.WithLabelValues("not_found").Inc()
			return "", ErrNotFound
		}
		s.logger.Warn("failed to increment click count",
			zap.String("short_id", shortID),
			zap.Error(err),
		)
	}

	if !hit {
		s.cacheLink(ctx, &entities.Link{ShortID: shortID, OriginalURL: cached.OriginalURL, ExpiresAt: cached.ExpiresAt})
	}

	metrics.LinkRedirectsTotal.WithLabelValues("success").Inc()
	return cached.OriginalURL, nil
}

// reap deletes an expired link found by Resolve.
func (s *linkService) reap(ctx context.Context, shortID string) error {
	s.evict(ctx, shortID)

	_, err := s.repo.DeleteByShortID(ctx, shortID)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.LinkRedirectsTotal.WithLabelValues("not_found").Inc()
		return ErrNotFound
	}
	if err != nil {
		metrics.LinkRedirectsTotal.WithLabelValues("error").Inc()
		return s.storeFailure(err)
	}

	metrics.LinksReapedTotal.WithLabelValues("redirect").Inc()
	metrics.LinkRedirectsTotal.WithLabelValues("expired").Inc()
	s.logger.Info("reaped expired link", zap.String("short_id", shortID))
	return ErrExpired
}

func (s *linkService) ListLinks(ctx context.Context) ([]*models.LinkResponse, error) {
	links, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, s.storeFailure(err)
	}

	responses := make([]*models.LinkResponse, len(links))
	for i, link := range links {
		responses[i] = &models.LinkResponse{
			ShortID:     link.ShortID,
			ShortURL:    s.shortURL(link.ShortID),
			OriginalURL: link.OriginalURL,
			ClickCount:  link.ClickCount,
			CreatedAt:   link.CreatedAt,
			ExpiresAt:   link.ExpiresAt,
			User:        link.User,
		}
	}

	return responses, nil
}

func (s *linkService) GetAnalytics(ctx context.Context, shortID string) (*models.AnalyticsResponse, error) {
	link, err := s.find(ctx, shortID)
	if err != nil {
		return nil, err
	}

	return &models.AnalyticsResponse{
		OriginalURL: link.OriginalURL,
		ClickCount:  link.ClickCount,
		CreatedAt:   link.CreatedAt,
		ExpiresAt:   link.ExpiresAt,
	}, nil
}

func (s *linkService) DeleteLink(ctx context.Context, shortID string) error {
	_, err := s.repo.DeleteByShortID(ctx, shortID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return s.storeFailure(err)
	}

	s.evict(ctx, shortID)
	return nil
}

func (s *linkService) LookupShortURL(ctx context.Context, shortID string) (string, error) {
	link, err := s.find(ctx, shortID)
	if err != nil {
		return "", err
	}
	if link.IsExpired(s.clock.Now()) {
		return "", ErrExpired
	}
	return s.shortURL(link.ShortID), nil
}

// ReapExpired removes every link that expired before now.
func (s *linkService) ReapExpired(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, s.storeFailure(err)
	}
	if deleted > 0 {
		metrics.LinksReapedTotal.WithLabelValues("sweep").Add(float64(deleted))
	}
	return deleted, nil
}

func (s *linkService) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return s.storeFailure(err)
	}
	return nil
}

func (s *linkService) find(ctx context.Context, shortID string) (*entities.Link, error) {
	link, err := s.repo.FindByShortID(ctx, shortID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.storeFailure(err)
	}
	return link, nil
}

func (s *linkService) shortURL(shortID string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, shortID)
}

func (s *linkService) storeFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreFailure, err)
}

func cacheKey(shortID string) string {
	return cacheKeyPrefix + shortID
}

func (s *linkService) cachedLink(ctx context.Context, shortID string) (*cachedLink, bool) {
	if s.cache == nil {
		return nil, false
	}

	var cached cachedLink
	err := s.cache.GetJSON(ctx, cacheKey(shortID), &cached)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("cache read failed", zap.String("short_id", shortID), zap.Error(err))
		}
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	if cached.OriginalURL == "" {
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
	return &cached, true
}

// cacheLink stores the resolve snapshot, never past the link's expiry.
func (s *linkService) cacheLink(ctx context.Context, link *entities.Link) {
	if s.cache == nil {
		return
	}

	ttl := s.cacheTTL
	if link.ExpiresAt != nil {
		remaining := link.ExpiresAt.Sub(s.clock.Now())
		if remaining <= 0 {
			return
		}
		if remaining < ttl {
			ttl = remaining
		}
	}

	entry := cachedLink{OriginalURL: link.OriginalURL, ExpiresAt: link.ExpiresAt}
	if err := s.cache.SetJSON(ctx, cacheKey(link.ShortID), entry, ttl); err != nil {
		s.logger.Warn("cache write failed", zap.String("short_id", link.ShortID), zap.Error(err))
	}
}

func (s *linkService) evict(ctx context.Context, shortID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(shortID)); err != nil {
		s.logger.Warn("cache evict failed", zap.String("short_id", shortID), zap.Error(err))
	}
}
