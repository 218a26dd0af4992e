package service

import (
	"context"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is one slice of an ordered listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// normalizePage clamps page and size to sane values.
func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case size < 1:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return page, size
}

// Paginate counts query, then loads the requested page of it. The query must
// already carry its ordering. Scopes such as preloads apply to the page load only.
func Paginate[T any](ctx context.Context, query *gorm.DB, page, size int, scopes ...func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	page, size = normalizePage(page, size)

	var total int64
	if err := query.WithContext(ctx).Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	items := make([]T, 0, size)
	if err := query.WithContext(ctx).Scopes(scopes...).Offset((page - 1) * size).Limit(size).Find(&items).Error; err != nil {
		return nil, err
	}

	pages := int((total + int64(size) - 1) / int64(size))
	return &Page[T]{Items: items, Total: total, Page: page, PageSize: size, TotalPages: pages}, nil
}
