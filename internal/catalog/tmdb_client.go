package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/yelinaung/movie-bot/internal/logger"
	"gitlab.com/yelinaung/movie-bot/internal/models"
	"gitlab.com/yelinaung/movie-bot/internal/telemetry"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
	defaultLanguage     = "en-US"
	defaultTimeout      = 10 * time.Second
	posterSize          = "w500"
)

// TMDBClient is a client for The Movie Database search API.
type TMDBClient struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	httpClient   *http.Client
	metrics      *telemetry.Metrics
	tracer       trace.Tracer
}

var _ Service = (*TMDBClient)(nil)

type tmdbMovie struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	ReleaseDate string       `json:"release_date"`
	Overview    string       `json:"overview"`
	VoteAverage *json.Number `json:"vote_average"`
	VoteCount   int64        `json:"vote_count"`
	PosterPath  *string      `json:"poster_path"`
}

type tmdbSearchResponse struct {
	Page    int         `json:"page"`
	Results []tmdbMovie `json:"results"`
}

// Option configures a TMDBClient.
type Option func(*TMDBClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *TMDBClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithImageBaseURL overrides the poster CDN root.
func WithImageBaseURL(imageBaseURL string) Option {
	return func(c *TMDBClient) {
		if trimmed := strings.TrimRight(strings.TrimSpace(imageBaseURL), "/"); trimmed != "" {
			c.imageBaseURL = trimmed
		}
	}
}

// WithLanguage overrides the language tag sent with searches.
func WithLanguage(language string) Option {
	return func(c *TMDBClient) {
		if trimmed := strings.TrimSpace(language); trimmed != "" {
			c.language = trimmed
		}
	}
}

// WithMetrics records search latency on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *TMDBClient) {
		c.metrics = m
	}
}

// WithTracerProvider creates search spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *TMDBClient) {
		if tp != nil {
			c.tracer = tp.Tracer(telemetry.InstrumentationName)
		}
	}
}

// NewTMDBClient creates a TMDB API client. A blank baseURL selects the public
// API and a non-positive timeout falls back to 10 seconds.
func NewTMDBClient(apiKey, baseURL string, timeout time.Duration, opts ...Option) (*TMDBClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &TMDBClient{
		apiKey:       apiKey,
		baseURL:      trimmed,
		imageBaseURL: defaultImageBaseURL,
		language:     defaultLanguage,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracer: otel.Tracer(telemetry.InstrumentationName),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMovies searches TMDB for query, English results only, adult titles
// excluded, first page only. A blank query returns ErrEmptyQuery without a
// request; every request failure wraps ErrConnection.
func (c *TMDBClient) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	ctx, span := c.tracer.Start(ctx, "catalog.SearchMovies",
		trace.WithAttributes(attribute.Int("query.length", len(query))),
	)
	defer span.End()

	start := time.Now()
	movies, err := c.search(ctx, query)
	elapsed := time.Since(start)
	c.metrics.RecordSearch(ctx, elapsed, err == nil)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tmdb search failed")
		logger.FromContext(ctx).Error().
			Err(err).
			Dur("latency", elapsed).
			Msg("TMDB search failed")
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	span.SetAttributes(attribute.Int("results", len(movies)))
	logger.FromContext(ctx).Debug().
		Str("query", query).
		Int("results", len(movies)).
		Dur("latency", elapsed).
		Msg("TMDB search completed")

	return movies, nil
}

func (c *TMDBClient) search(ctx context.Context, query string) ([]models.Movie, error) {
	endpoint, err := url.Parse(c.baseURL + "/search/movie")
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	params.Set("language", c.language)
	params.Set("page", "1")
	params.Set("include_adult", "false")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb search returned status %d", resp.StatusCode)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	var payload tmdbSearchResponse
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tmdb response: %w", err)
	}

	movies := make([]models.Movie, 0, len(payload.Results))
	for _, r := range payload.Results {
		movies = append(movies, r.toMovie())
	}
	return movies, nil
}

func (r tmdbMovie) toMovie() models.Movie {
	movie := models.Movie{
		ID:          r.ID,
		Title:       r.Title,
		ReleaseDate: r.ReleaseDate,
		Overview:    r.Overview,
		VoteCount:   r.VoteCount,
	}
	if r.PosterPath != nil {
		movie.PosterPath = *r.PosterPath
	}
	if r.VoteAverage != nil {
		if avg, err := decimal.NewFromString(r.VoteAverage.String()); err == nil {
			movie.VoteAverage = &avg
		}
	}
	return movie
}

// PosterURL returns the w500 poster URL for posterPath, or "" when empty.
func (c *TMDBClient) PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	if !strings.HasPrefix(posterPath, "/") {
		posterPath = "/" + posterPath
	}
	return c.imageBaseURL + "/" + posterSize + posterPath
}
