package store

import (
	"context"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/state"
)

// Catalogue containers: clinics, products and blogs. They share the same
// fetch-all, fetch-one, create, update and delete shape.

const (
	OpFetchClinics = KeyClinics + "/fetchAll"
	OpFetchClinic  = KeyClinics + "/fetchOne"
	OpCreateClinic = KeyClinics + "/create"
	OpUpdateClinic = KeyClinics + "/update"
	OpDeleteClinic = KeyClinics + "/delete"

	OpFetchProducts = KeyProducts + "/fetchAll"
	OpFetchProduct  = KeyProducts + "/fetchOne"
	OpCreateProduct = KeyProducts + "/create"
	OpUpdateProduct = KeyProducts + "/update"
	OpDeleteProduct = KeyProducts + "/delete"

	OpFetchBlogs = KeyBlogs + "/fetchAll"
	OpFetchBlog  = KeyBlogs + "/fetchOne"
	OpCreateBlog = KeyBlogs + "/create"
	OpUpdateBlog = KeyBlogs + "/update"
	OpDeleteBlog = KeyBlogs + "/delete"
)

var clinicMerges = crudMerges(OpFetchClinics, OpFetchClinic, OpCreateClinic, OpUpdateClinic, OpDeleteClinic)

var productMerges = crudMerges(OpFetchProducts, OpFetchProduct, OpCreateProduct, OpUpdateProduct, OpDeleteProduct)

var blogMerges = crudMerges(OpFetchBlogs, OpFetchBlog, OpCreateBlog, OpUpdateBlog, OpDeleteBlog)

func crudMerges(fetchAll, fetchOne, create, update, del string) map[string]state.Merge {
	return map[string]state.Merge{
		fetchAll: state.MergeReplaceAll,
		fetchOne: state.MergeSelect,
		create:   state.MergeAppend,
		update:   state.MergeReplace,
		del:      state.MergeRemove,
	}
}

func (s *Store) FetchClinics(ctx context.Context) ([]marketplace.Clinic, error) {
	return run[[]marketplace.Clinic](ctx, s, operation(OpFetchClinics, nil, s.client.Clinics().List))
}

func (s *Store) FetchClinic(ctx context.Context, id string) (marketplace.Clinic, error) {
	op := operation(OpFetchClinic, id, func(ctx context.Context) (marketplace.Clinic, error) {
		return s.client.Clinics().Get(ctx, id)
	})
	return run[marketplace.Clinic](ctx, s, op)
}

func (s *Store) CreateClinic(ctx context.Context, clinic marketplace.Clinic) (marketplace.Clinic, error) {
	op := operation(OpCreateClinic, nil, func(ctx context.Context) (marketplace.Clinic, error) {
		return s.client.Clinics().Create(ctx, clinic)
	}).notifying("Clinic created")
	return run[marketplace.Clinic](ctx, s, op)
}

func (s *Store) UpdateClinic(ctx context.Context, clinic marketplace.Clinic) (marketplace.Clinic, error) {
	op := operation(OpUpdateClinic, clinic.ID, func(ctx context.Context) (marketplace.Clinic, error) {
		return s.client.Clinics().Update(ctx, clinic)
	}).notifying("Clinic updated")
	return run[marketplace.Clinic](ctx, s, op)
}

func (s *Store) DeleteClinic(ctx context.Context, id string) error {
	return s.Run(ctx, deletion(OpDeleteClinic, id, s.client.Clinics().Delete).notifying("Clinic deleted")).Err
}

func (s *Store) FetchProducts(ctx context.Context) ([]marketplace.Product, error) {
	return run[[]marketplace.Product](ctx, s, operation(OpFetchProducts, nil, s.client.Products().List))
}

func (s *Store) FetchProduct(ctx context.Context, id string) (marketplace.Product, error) {
	op := operation(OpFetchProduct, id, func(ctx context.Context) (marketplace.Product, error) {
		return s.client.Products().Get(ctx, id)
	})
	return run[marketplace.Product](ctx, s, op)
}

func (s *Store) CreateProduct(ctx context.Context, p marketplace.Product) (marketplace.Product, error) {
	op := operation(OpCreateProduct, nil, func(ctx context.Context) (marketplace.Product, error) {
		return s.client.Products().Create(ctx, p)
	}).notifying("Product created")
	return run[marketplace.Product](ctx, s, op)
}

func (s *Store) UpdateProduct(ctx context.Context, p marketplace.Product) (marketplace.Product, error) {
	op := operation(OpUpdateProduct, p.ID, func(ctx context.Context) (marketplace.Product, error) {
		return s.client.Products().Update(ctx, p)
	}).notifying("Product updated")
	return run[marketplace.Product](ctx, s, op)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.Run(ctx, deletion(OpDeleteProduct, id, s.client.Products().Delete).notifying("Product deleted")).Err
}

func (s *Store) FetchBlogs(ctx context.Context) ([]marketplace.Blog, error) {
	return run[[]marketplace.Blog](ctx, s, operation(OpFetchBlogs, nil, s.client.Blogs().List))
}

func (s *Store) FetchBlog(ctx context.Context, id string) (marketplace.Blog, error) {
	op := operation(OpFetchBlog, id, func(ctx context.Context) (marketplace.Blog, error) {
		return s.client.Blogs().Get(ctx, id)
	})
	return run[marketplace.Blog](ctx, s, op)
}

func (s *Store) CreateBlog(ctx context.Context, draft marketplace.BlogDraft) (marketplace.Blog, error) {
	op := operation(OpCreateBlog, nil, func(ctx context.Context) (marketplace.Blog, error) {
		return s.client.Blogs().Create(ctx, draft)
	}).notifying("Blog published")
	return run[marketplace.Blog](ctx, s, op)
}

func (s *Store) UpdateBlog(ctx context.Context, id string, draft marketplace.BlogDraft) (marketplace.Blog, error) {
	op := operation(OpUpdateBlog, id, func(ctx context.Context) (marketplace.Blog, error) {
		return s.client.Blogs().Update(ctx, id, draft)
	}).notifying("Blog updated")
	return run[marketplace.Blog](ctx, s, op)
}

func (s *Store) DeleteBlog(ctx context.Context, id string) error {
	return s.Run(ctx, deletion(OpDeleteBlog, id, s.client.Blogs().Delete).notifying("Blog deleted")).Err
}
