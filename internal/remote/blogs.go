package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

type Blogs struct{ c *Client }

func (c *Client) Blogs() Blogs { return Blogs{c} }

func (b Blogs) List(ctx context.Context) ([]marketplace.Blog, error) {
	var out []marketplace.Blog
	err := b.c.do(ctx, call{resource: "blogs", method: http.MethodGet, path: "/blogs", fallback: "Failed to fetch blogs"}, &out)
	return out, err
}

func (b Blogs) Get(ctx context.Context, id string) (marketplace.Blog, error) {
	var out marketplace.Blog
	err := b.c.do(ctx, call{resource: "blogs", method: http.MethodGet, path: "/blogs/" + url.PathEscape(id), fallback: "Failed to fetch blog"}, &out)
	return out, err
}

// Create posts a blog with an optional cover image as multipart form data.
func (b Blogs) Create(ctx context.Context, draft marketplace.BlogDraft) (marketplace.Blog, error) {
	form := newForm().field("title", draft.Title).field("content", draft.Content).file(named(draft.Image, "image"))
	var out marketplace.Blog
	err := b.c.do(ctx, call{resource: "blogs", method: http.MethodPost, path: "/blogs", role: Doctor, form: form, fallback: "Failed to create blog"}, &out)
	return out, err
}

func (b Blogs) Update(ctx context.Context, id string, draft marketplace.BlogDraft) (marketplace.Blog, error) {
	form := newForm().field("title", draft.Title).field("content", draft.Content).file(named(draft.Image, "image"))
	var out marketplace.Blog
	err := b.c.do(ctx, call{resource: "blogs", method: http.MethodPut, path: "/blogs/" + url.PathEscape(id), role: Doctor, form: form, fallback: "Failed to update blog"}, &out)
	return out, err
}

func (b Blogs) Delete(ctx context.Context, id string) error {
	return b.c.do(ctx, call{resource: "blogs", method: http.MethodDelete, path: "/blogs/" + url.PathEscape(id), role: Doctor, fallback: "Failed to delete blog"}, nil)
}
