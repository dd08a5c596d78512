package devbackend

import (
	"fmt"
	"strings"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

func readAll[T marketplace.Keyed](b *Backend, t *table[T]) []T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return t.list(nil)
}

func readOne[T marketplace.Keyed](b *Backend, t *table[T], id string) (T, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := t.get(id)
	if !ok {
		return v, ErrNotFound
	}
	return v, nil
}

func insert[T marketplace.Keyed](b *Backend, t *table[T], v T) T {
	b.mu.Lock()
	defer b.mu.Unlock()
	t.put(v)
	return v
}

func replace[T marketplace.Keyed](b *Backend, t *table[T], v T) (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := t.get(v.Key()); !ok {
		return v, ErrNotFound
	}
	t.put(v)
	return v, nil
}

func drop[T marketplace.Keyed](b *Backend, t *table[T], id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !t.remove(id) {
		return ErrNotFound
	}
	return nil
}

func (b *Backend) Clinics() []marketplace.Clinic { return readAll(b, b.clinics) }

func (b *Backend) Clinic(id string) (marketplace.Clinic, error) { return readOne(b, b.clinics, id) }

func (b *Backend) CreateClinic(c marketplace.Clinic) (marketplace.Clinic, error) {
	if err := validateClinic(c); err != nil {
		return c, err
	}
	c.ID = newID()
	return insert(b, b.clinics, c), nil
}

func (b *Backend) UpdateClinic(c marketplace.Clinic) (marketplace.Clinic, error) {
	if err := validateClinic(c); err != nil {
		return c, err
	}
	return replace(b, b.clinics, c)
}

func (b *Backend) DeleteClinic(id string) error { return drop(b, b.clinics, id) }

func validateClinic(c marketplace.Clinic) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: clinic name is required", ErrInvalidInput)
	}
	if c.SlotDuration < 0 {
		return fmt.Errorf("%w: slot duration must not be negative", ErrInvalidInput)
	}
	return nil
}

func (b *Backend) Products() []marketplace.Product { return readAll(b, b.products) }

func (b *Backend) Product(id string) (marketplace.Product, error) { return readOne(b, b.products, id) }

func (b *Backend) CreateProduct(p marketplace.Product) (marketplace.Product, error) {
	if strings.TrimSpace(p.Name) == "" || p.Price < 0 {
		return p, fmt.Errorf("%w: product needs a name and a non-negative price", ErrInvalidInput)
	}
	p.ID = newID()
	return insert(b, b.products, p), nil
}

func (b *Backend) UpdateProduct(p marketplace.Product) (marketplace.Product, error) {
	if strings.TrimSpace(p.Name) == "" || p.Price < 0 {
		return p, fmt.Errorf("%w: product needs a name and a non-negative price", ErrInvalidInput)
	}
	return replace(b, b.products, p)
}

func (b *Backend) DeleteProduct(id string) error { return drop(b, b.products, id) }

func (b *Backend) Blogs() []marketplace.Blog { return readAll(b, b.blogs) }

func (b *Backend) Blog(id string) (marketplace.Blog, error) { return readOne(b, b.blogs, id) }

// CreateBlog stores a post written by the doctor authorID. image is the
// uploaded cover's file name, if any.
func (b *Backend) CreateBlog(authorID, title, content, image string) (marketplace.Blog, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return marketplace.Blog{}, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}
	blog := marketplace.Blog{ID: newID(), Title: title, Content: content, AuthorID: authorID, CreatedAt: b.now().UTC()}
	if image != "" {
		blog.Image = "/uploads/blogs/" + blog.ID + "/" + image
	}
	return insert(b, b.blogs, blog), nil
}

// UpdateBlog lets only the author edit a post.
func (b *Backend) UpdateBlog(authorID, id, title, content, image string) (marketplace.Blog, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	blog, ok := b.blogs.get(id)
	if !ok {
		return blog, ErrNotFound
	}
	if blog.AuthorID != authorID {
		return blog, ErrForbidden
	}
	if title != "" {
		blog.Title = title
	}
	if content != "" {
		blog.Content = content
	}
	if image != "" {
		blog.Image = "/uploads/blogs/" + blog.ID + "/" + image
	}
	b.blogs.put(blog)
	return blog, nil
}

func (b *Backend) DeleteBlog(authorID, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	blog, ok := b.blogs.get(id)
	if !ok {
		return ErrNotFound
	}
	if blog.AuthorID != authorID {
		return ErrForbidden
	}
	b.blogs.remove(id)
	return nil
}

func (b *Backend) LabTests() []marketplace.LabTest { return readAll(b, b.labTests) }

func (b *Backend) LabTest(id string) (marketplace.LabTest, error) { return readOne(b, b.labTests, id) }

func (b *Backend) AddLabTest(t marketplace.LabTest) marketplace.LabTest {
	t.ID = newID()
	return insert(b, b.labTests, t)
}
