package models

import "encoding/json"

// Media CMS 媒体资源（只保留前台用到的字段）
type Media struct {
	ID              int    `json:"id"`
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText,omitempty"`
}

// ProductVariant 商品变体（颜色），与父商品共享价格
type ProductVariant struct {
	ID            int     `json:"id"`
	ColorName     string  `json:"color_name"`
	ColorHex      string  `json:"color_hex"`
	ProductImages []Media `json:"product_images"`
}

// Product CMS 商品记录，购物车只读
type Product struct {
	ID          int              `json:"id"`
	DocumentID  string           `json:"documentId,omitempty"`
	Slug        string           `json:"slug"`
	Name        string           `json:"name"`
	Description RichText         `json:"description,omitzero"`
	Features    string           `json:"features,omitempty"`
	Price       Money            `json:"price"`
	Images      []Media          `json:"images"`
	Variants    []ProductVariant `json:"variants"`
}

// FirstImageURL 返回第一张图片地址，没有则为空
func FirstImageURL(images []Media) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

// RichText CMS 描述字段，可能是纯文本也可能是富文本块
type RichText struct {
	Text   string
	Blocks json.RawMessage
}

// PlainText 返回纯文本描述，富文本时为空
func (r RichText) PlainText() string {
	return r.Text
}

// IsZero 描述为空
func (r RichText) IsZero() bool {
	return r.Text == "" && len(r.Blocks) == 0
}

// MarshalJSON 原样输出文本或富文本块
func (r RichText) MarshalJSON() ([]byte, error) {
	if len(r.Blocks) > 0 {
		return r.Blocks, nil
	}
	return json.Marshal(r.Text)
}

// UnmarshalJSON 字符串解析为 Text，其余保留为 Blocks
func (r *RichText) UnmarshalJSON(b []byte) error {
	r.Text = ""
	r.Blocks = nil
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &r.Text)
	}
	r.Blocks = append(json.RawMessage(nil), b...)
	return nil
}
