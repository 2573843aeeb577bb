package search

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrInvalidPage = errors.New("invalid page request")

type PageRequest struct {
	Page int
	Size int
	Sort Sort
}

// NewPageRequest validates page and size. A size of zero means the default.
func NewPageRequest(page, size int, sort Sort) (PageRequest, error) {
	if page < 0 {
		return PageRequest{}, fmt.Errorf("%w: page must be >= 0", ErrInvalidPage)
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if size < 1 || size > MaxPageSize {
		return PageRequest{}, fmt.Errorf("%w: size must be between 1 and %d", ErrInvalidPage, MaxPageSize)
	}
	// page*size must stay representable as an OFFSET
	if page > math.MaxInt/size {
		return PageRequest{}, fmt.Errorf("%w: page %d is out of range", ErrInvalidPage, page)
	}
	return PageRequest{Page: page, Size: size, Sort: sort}, nil
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

func (p PageRequest) Limit() int {
	if p.Size <= 0 {
		return DefaultPageSize
	}
	return p.Size
}

type Page[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	size := req.Limit()
	return Page[T]{
		Items:         items,
		Page:          req.Page,
		Size:          size,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
	}
}

// MapPage keeps the paging metadata of p around a new item slice.
func MapPage[T, U any](p Page[T], items []U) Page[U] {
	if items == nil {
		items = []U{}
	}
	return Page[U]{
		Items:         items,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}
