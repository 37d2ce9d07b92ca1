package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/h2go-next/internal/cache"
	"github.com/h2go-next/internal/config"
	"github.com/h2go-next/internal/logger"
	"github.com/h2go-next/internal/models"

	"github.com/gosimple/slug"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrCMSRequestFailed = errors.New("cms request failed")
	ErrCMSResponse      = errors.New("cms response invalid")
)

const (
	defaultBaseURL = "http://127.0.0.1:1337"
	defaultTimeout = 8 * time.Second

	productCacheKeyPrefix = "catalog:product:"
	postCacheKeyPrefix    = "catalog:post:"
	postsCacheKey         = "catalog:posts"
	homeCacheKey          = "catalog:home"
)

// Client Strapi 内容接口客户端
type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	cacheTTL   time.Duration
	httpClient *http.Client
}

// NewClient 创建 CMS 客户端
func NewClient(cfg config.CMSConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		timeout:    timeout,
		cacheTTL:   time.Duration(cfg.CacheTTLSeconds) * time.Second,
		httpClient: http.DefaultClient,
	}
}

// NormalizeSlug 规范化商品 slug（小写、去重音、连字符）
func NormalizeSlug(raw string) string {
	return slug.Make(strings.TrimSpace(raw))
}

// ProductBySlug 按 slug 获取商品及其图片和变体
func (c *Client) ProductBySlug(ctx context.Context, rawSlug string) (*models.Product, error) {
	normalized := NormalizeSlug(rawSlug)
	if normalized == "" {
		return nil, ErrProductNotFound
	}

	cacheKey := productCacheKeyPrefix + normalized
	var cached models.Product
	if c.readCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	query := url.Values{}
	query.Set("filters[slug][$eq]", normalized)
	query.Set("populate[images]", "true")
	query.Set("populate[variants][populate][product_images]", "true")

	var envelope struct {
		Data []models.Product `json:"data"`
	}
	if err := c.getJSON(ctx, "/api/products", query, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Data) == 0 {
		return nil, ErrProductNotFound
	}
	product := envelope.Data[0]
	c.writeCache(ctx, cacheKey, product)
	return &product, nil
}

// HomePage 获取首页内容及各区块
func (c *Client) HomePage(ctx context.Context) (*models.HomePage, error) {
	var cached models.HomePage
	if c.readCache(ctx, homeCacheKey, &cached) {
		return &cached, nil
	}

	var envelope struct {
		Data *models.HomePage `json:"data"`
	}
	if err := c.getJSON(ctx, "/api/home-page", homePageQuery(), &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: home page is empty", ErrCMSResponse)
	}
	c.writeCache(ctx, homeCacheKey, envelope.Data)
	return envelope.Data, nil
}

// Posts 获取博客文章列表
func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	var cached []models.Post
	if c.readCache(ctx, postsCacheKey, &cached) {
		return cached, nil
	}

	query := url.Values{}
	query.Set("populate", "*")
	var envelope struct {
		Data []models.Post `json:"data"`
	}
	if err := c.getJSON(ctx, "/api/posts", query, &envelope); err != nil {
		return nil, err
	}
	posts := envelope.Data
	if posts == nil {
		posts = []models.Post{}
	}
	c.writeCache(ctx, postsCacheKey, posts)
	return posts, nil
}

// PostBySlug 按 slug 获取单篇文章
func (c *Client) PostBySlug(ctx context.Context, rawSlug string) (*models.Post, error) {
	normalized := NormalizeSlug(rawSlug)
	if normalized == "" {
		return nil, ErrPostNotFound
	}

	cacheKey := postCacheKeyPrefix + normalized
	var cached models.Post
	if c.readCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	query := url.Values{}
	query.Set("filters[slug][$eq]", normalized)
	query.Set("populate", "*")
	var envelope struct {
		Data []models.Post `json:"data"`
	}
	if err := c.getJSON(ctx, "/api/posts", query, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Data) == 0 {
		return nil, ErrPostNotFound
	}
	post := envelope.Data[0]
	c.writeCache(ctx, cacheKey, post)
	return &post, nil
}

func (c *Client) readCache(ctx context.Context, key string, dest interface{}) bool {
	if c.cacheTTL <= 0 {
		return false
	}
	hit, err := cache.GetJSON(ctx, key, dest)
	if err != nil {
		logger.Warnw("catalog_cache_read_failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (c *Client) writeCache(ctx context.Context, key string, value interface{}) {
	if c.cacheTTL <= 0 {
		return
	}
	if err := cache.SetJSON(ctx, key, value, c.cacheTTL); err != nil {
		logger.Warnw("catalog_cache_write_failed", "key", key, "error", err)
	}
}

func homePageQuery() url.Values {
	sections := "populate[sections][on]"
	query := url.Values{}
	query.Set("populate[navbar_logo]", "true")
	for _, field := range []string{"hero_imagen", "hero_background", "link"} {
		query.Set(sections+"["+models.SectionHero+"][populate]["+field+"]", "true")
	}
	query.Set(sections+"["+models.SectionHighlights+"][populate][cards][populate][image]", "true")
	for _, field := range []string{"banner_image", "link"} {
		query.Set(sections+"["+models.SectionBanner+"][populate]["+field+"]", "true")
	}
	query.Set(sections+"["+models.SectionFeaturedProducts+"][populate][products][populate][images]", "true")
	query.Set(sections+"["+models.SectionFeaturedProducts+"][populate][products][populate][variants][populate][product_images]", "true")
	query.Set(sections+"["+models.SectionCarousel+"][populate][slides][populate][feature_image]", "true")
	query.Set(sections+"["+models.SectionCarousel+"][populate][slides][populate][card_info][populate][image]", "true")
	for _, field := range []string{"app_image", "download_link"} {
		query.Set(sections+"["+models.SectionDownloadApp+"][populate]["+field+"]", "true")
	}
	return query
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, dest interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	target := c.baseURL + endpoint
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: build request failed", ErrCMSRequestFailed)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCMSRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response failed", ErrCMSRequestFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrCMSRequestFailed, resp.StatusCode)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrCMSResponse, err)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
