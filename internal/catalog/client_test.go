package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/h2go-next/internal/cache"
	"github.com/h2go-next/internal/config"
	"github.com/h2go-next/internal/models"
)

const productPayload = `{
  "data": [{
    "id": 7,
    "documentId": "abc123",
    "name": "Botella H2GO",
    "slug": "botella-h2go",
    "price": 59.9,
    "description": [{"type": "paragraph", "children": [{"type": "text", "text": "Acero"}]}],
    "images": [{"id": 1, "url": "/uploads/botella.png"}],
    "variants": [
      {"id": 31, "color_name": "Negro", "color_hex": "#000000", "product_images": [{"id": 2, "url": "/uploads/negro.png"}]}
    ]
  }],
  "meta": {"pagination": {"total": 1}}
}`

const homePayload = `{
  "data": {
    "id": 1,
    "title": "h2go",
    "navbar_logo": {"id": 9, "url": "/uploads/logo.svg"},
    "sections": [
      {"id": 1, "__component": "layout.hero-section", "hero_titulo": "Hidrátate", "link": {"id": 1, "href": "/productos", "label": "Comprar"}},
      {"id": 2, "__component": "layout.highlights-section", "cards": [{"id": 1, "title": "Térmica", "hasGradient": true}]},
      {"id": 3, "__component": "layout.unknown-block", "foo": "bar"}
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	cache.Use(nil, "")
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.CMSConfig{BaseURL: server.URL + "/", Token: "cms-token", TimeoutMS: 2000})
}

func TestProductBySlug(t *testing.T) {
	var gotQuery, gotAuth, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("filters[slug][$eq]")
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Query().Get("populate[variants][populate][product_images]") != "true" {
			t.Errorf("variant images not populated: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(productPayload))
	})

	product, err := client.ProductBySlug(context.Background(), " Botella H2GO ")
	if err != nil {
		t.Fatalf("ProductBySlug error: %v", err)
	}
	if gotPath != "/api/products" || gotQuery != "botella-h2go" {
		t.Fatalf("unexpected request path=%s slug=%s", gotPath, gotQuery)
	}
	if gotAuth != "Bearer cms-token" {
		t.Fatalf("unexpected authorization header: %s", gotAuth)
	}
	if product.ID != 7 || product.Price.String() != "59.90" {
		t.Fatalf("unexpected product: %+v", product)
	}
	if product.Description.PlainText() != "" || len(product.Description.Blocks) == 0 {
		t.Fatalf("rich text description should be kept as blocks")
	}
	if len(product.Variants) != 1 || product.Variants[0].ColorHex != "#000000" {
		t.Fatalf("unexpected variants: %+v", product.Variants)
	}
}

func TestProductBySlugNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [], "meta": {}}`))
	})
	if _, err := client.ProductBySlug(context.Background(), "missing"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := client.ProductBySlug(context.Background(), "   "); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found for blank slug, got %v", err)
	}
}

func TestCMSErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := client.HomePage(context.Background())
	if !errors.Is(err, ErrCMSRequestFailed) {
		t.Fatalf("expected request failed, got %v", err)
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestHomePageSections(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/home-page" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("populate[navbar_logo]") != "true" {
			t.Errorf("navbar logo not populated")
		}
		_, _ = w.Write([]byte(homePayload))
	})

	page, err := client.HomePage(context.Background())
	if err != nil {
		t.Fatalf("HomePage error: %v", err)
	}
	if page.NavbarLogo == nil || page.NavbarLogo.URL != "/uploads/logo.svg" {
		t.Fatalf("unexpected navbar logo: %+v", page.NavbarLogo)
	}
	if len(page.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(page.Sections))
	}
	hero, ok := page.Sections[0].Content.(*models.HeroSection)
	if !ok || hero.Title != "Hidrátate" || hero.Link == nil || hero.Link.Href != "/productos" {
		t.Fatalf("unexpected hero section: %+v", page.Sections[0].Content)
	}
	highlights, ok := page.Sections[1].Content.(*models.HighlightsSection)
	if !ok || len(highlights.Cards) != 1 || !highlights.Cards[0].HasGradient {
		t.Fatalf("unexpected highlights section: %+v", page.Sections[1].Content)
	}
	if page.Sections[2].Content != nil || len(page.Sections[2].Raw) == 0 {
		t.Fatalf("unknown section should be kept raw")
	}
}

func TestNormalizeSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "botella-h2go", want: "botella-h2go"},
		{in: " Botella Térmica ", want: "botella-termica"},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		if got := NormalizeSlug(tc.in); got != tc.want {
			t.Fatalf("NormalizeSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

const postsPayload = `{
  "data": [
    {"id": 3, "title": "Hidratación en ruta", "slug": "hidratacion-en-ruta", "content": [{"type": "paragraph", "children": [{"type": "text", "text": "Bebe agua"}]}], "publishedAt": "2025-03-01T10:00:00.000Z"},
    {"id": 4, "title": "Nueva botella", "slug": "nueva-botella", "content": "Texto plano"}
  ],
  "meta": {"pagination": {"page": 1, "pageSize": 25, "pageCount": 1, "total": 2}}
}`

func TestPosts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts" || r.URL.Query().Get("populate") != "*" {
			t.Errorf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(postsPayload))
	})

	posts, err := client.Posts(context.Background())
	if err != nil {
		t.Fatalf("Posts error: %v", err)
	}
	if len(posts) != 2 || posts[0].Slug != "hidratacion-en-ruta" || posts[1].Title != "Nueva botella" {
		t.Fatalf("unexpected posts: %+v", posts)
	}
	if len(posts[0].Content.Blocks) == 0 || posts[0].PublishedAt == nil || posts[0].PublishedAt.Year() != 2025 {
		t.Fatalf("first post should keep blocks and publish date: %+v", posts[0])
	}
	if posts[1].Content.PlainText() != "Texto plano" {
		t.Fatalf("plain text content lost: %+v", posts[1].Content)
	}
}

func TestPostsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": null}`))
	})
	posts, err := client.Posts(context.Background())
	if err != nil || posts == nil || len(posts) != 0 {
		t.Fatalf("expected empty non-nil list, got %v err=%v", posts, err)
	}
}

func TestPostBySlug(t *testing.T) {
	var gotSlug string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSlug = r.URL.Query().Get("filters[slug][$eq]")
		if gotSlug != "hidratacion-en-ruta" {
			_, _ = w.Write([]byte(`{"data": []}`))
			return
		}
		_, _ = w.Write([]byte(postsPayload))
	})

	post, err := client.PostBySlug(context.Background(), "Hidratación en ruta")
	if err != nil {
		t.Fatalf("PostBySlug error: %v", err)
	}
	if gotSlug != "hidratacion-en-ruta" || post.ID != 3 {
		t.Fatalf("unexpected post %+v for slug %s", post, gotSlug)
	}
	if _, err := client.PostBySlug(context.Background(), "otro"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if _, err := client.PostBySlug(context.Background(), " "); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound for blank slug, got %v", err)
	}
}
