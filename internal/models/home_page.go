package models

import "encoding/json"

// CMS 区块组件标识
const (
	SectionHero             = "layout.hero-section"
	SectionHighlights       = "layout.highlights-section"
	SectionBanner           = "layout.banner-section"
	SectionFeaturedProducts = "layout.featured-products"
	SectionCarousel         = "layout.carousel-section"
	SectionDownloadApp      = "layout.download-app-section"
)

// Link CMS 链接组件
type Link struct {
	ID         int    `json:"id"`
	Href       string `json:"href"`
	Label      string `json:"label"`
	IsExternal bool   `json:"isExternal"`
}

// HeroSection 首屏区块
type HeroSection struct {
	Title      string `json:"hero_titulo"`
	Subtitle   string `json:"hero_subtitulo"`
	Image      *Media `json:"hero_imagen"`
	Background *Media `json:"hero_background"`
	Link       *Link  `json:"link"`
}

// HighlightCard 亮点卡片
type HighlightCard struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       *Media `json:"image"`
	HasGradient bool   `json:"hasGradient"`
}

// HighlightsSection 亮点区块
type HighlightsSection struct {
	Cards []HighlightCard `json:"cards"`
}

// BannerSection 横幅区块
type BannerSection struct {
	Title    string `json:"banner_title"`
	Subtitle string `json:"banner_subtitle"`
	Image    *Media `json:"banner_image"`
	Link     *Link  `json:"link"`
	Badge    string `json:"banner_badge"`
}

// FeaturedProductsSection 推荐商品区块
type FeaturedProductsSection struct {
	Title    string    `json:"section_title"`
	Products []Product `json:"products"`
}

// FeatureSlide 轮播页
type FeatureSlide struct {
	ID       int           `json:"id"`
	Image    *Media        `json:"feature_image"`
	CardInfo HighlightCard `json:"card_info"`
}

// CarouselSection 轮播区块
type CarouselSection struct {
	Slides []FeatureSlide `json:"slides"`
}

// DownloadAppSection App 下载区块
type DownloadAppSection struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	AppImage     *Media `json:"app_image"`
	DownloadLink *Link  `json:"download_link"`
}

// PageSection 首页区块
//
// JSON 形式与 CMS 一致（组件字段平铺），Content 为按 Component 解析后的结构，未知组件为 nil。
type PageSection struct {
	ID        int
	Component string
	Content   interface{}
	Raw       json.RawMessage
}

type sectionHeader struct {
	ID        int    `json:"id"`
	Component string `json:"__component"`
}

// UnmarshalJSON 按 __component 解析区块内容
func (p *PageSection) UnmarshalJSON(b []byte) error {
	var header sectionHeader
	if err := json.Unmarshal(b, &header); err != nil {
		return err
	}
	p.ID = header.ID
	p.Component = header.Component
	p.Raw = append(json.RawMessage(nil), b...)
	p.Content = nil

	var content interface{}
	switch header.Component {
	case SectionHero:
		content = &HeroSection{}
	case SectionHighlights:
		content = &HighlightsSection{}
	case SectionBanner:
		content = &BannerSection{}
	case SectionFeaturedProducts:
		content = &FeaturedProductsSection{}
	case SectionCarousel:
		content = &CarouselSection{}
	case SectionDownloadApp:
		content = &DownloadAppSection{}
	default:
		return nil
	}
	if err := json.Unmarshal(b, content); err != nil {
		return err
	}
	p.Content = content
	return nil
}

// MarshalJSON 输出 CMS 原始结构
func (p PageSection) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(sectionHeader{ID: p.ID, Component: p.Component})
}

// HomePage 首页内容
type HomePage struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	NavbarLogo  *Media        `json:"navbar_logo"`
	Sections    []PageSection `json:"sections"`
}
