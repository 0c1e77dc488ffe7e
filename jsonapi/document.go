package jsonapi

import "github.com/Alp4ka/keyset"

// MediaType is the JSON:API media type.
const MediaType = "application/vnd.api+json"

// PageMeta is rendered as meta.page. It is absent on the last page.
type PageMeta struct {
	Cursor string `json:"cursor"`
}

type Meta struct {
	Page *PageMeta `json:"page,omitempty"`
}

// Document is the top-level index response.
type Document[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// NewDocument renders a page. Data is an empty array, never null.
func NewDocument[T any](page *keyset.Page[T]) Document[T] {
	doc := Document[T]{Data: []T{}}
	if page == nil {
		return doc
	}

	if page.Items != nil {
		doc.Data = page.Items
	}

	if page.HasNextPage() {
		doc.Meta.Page = &PageMeta{Cursor: page.NextCursor}
	}

	return doc
}

type ErrorObject struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

type ErrorDocument struct {
	Errors []ErrorObject `json:"errors"`
}
