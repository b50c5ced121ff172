package controller_test

import (
	"context"
	"strings"

	"github.com/nutrikeep/product-db/internal/model"
	"github.com/nutrikeep/product-db/internal/repository"
)

// fakeBackend is an in-memory repository.Backend for handler tests. It keeps
// the same observable behavior as the SQL store: nil for unknown ids,
// idempotent deletes, false on duplicate catalog keys. An injected error is
// returned by every operation.
type fakeBackend struct {
	err error

	nextID   model.DBId
	reports  map[model.DBId]model.MissingProduct
	requests map[model.DBId]model.ProductRequest
	products map[model.ProductID]model.ProductDescription
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID:   1,
		reports:  make(map[model.DBId]model.MissingProduct),
		requests: make(map[model.DBId]model.ProductRequest),
		products: make(map[model.ProductID]model.ProductDescription),
	}
}

var _ repository.Backend = (*fakeBackend)(nil)

func (f *fakeBackend) allocID() model.DBId {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeBackend) ReportMissingProduct(_ context.Context, report model.MissingProduct) (model.DBId, error) {
	if f.err != nil {
		return 0, f.err
	}
	id := f.allocID()
	f.reports[id] = report
	return id, nil
}

func (f *fakeBackend) GetMissingProduct(_ context.Context, id model.DBId) (*model.MissingProduct, error) {
	if f.err != nil {
		return nil, f.err
	}
	report, ok := f.reports[id]
	if !ok {
		return nil, nil
	}
	return &report, nil
}

func (f *fakeBackend) QueryMissingProducts(_ context.Context, query repository.MissingProductQuery) ([]repository.ReportedMissingProduct, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []repository.ReportedMissingProduct
	for id, report := range f.reports {
		if query.ProductID != nil && report.ProductID != *query.ProductID {
			continue
		}
		result = append(result, repository.ReportedMissingProduct{ID: id, Report: report})
	}
	return result, nil
}

func (f *fakeBackend) DeleteReportedMissingProduct(_ context.Context, id model.DBId) error {
	if f.err != nil {
		return f.err
	}
	delete(f.reports, id)
	return nil
}

func (f *fakeBackend) RequestNewProduct(_ context.Context, request model.ProductRequest) (model.DBId, error) {
	if f.err != nil {
		return 0, f.err
	}
	id := f.allocID()
	f.requests[id] = request
	return id, nil
}

func (f *fakeBackend) GetProductRequest(_ context.Context, id model.DBId, withPreview bool) (*model.ProductRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	request, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	if !withPreview {
		request.Description.Preview = nil
	}
	request.Description.FullImage = nil
	return &request, nil
}

func (f *fakeBackend) GetProductRequestImage(_ context.Context, id model.DBId) (*model.ProductImage, error) {
	if f.err != nil {
		return nil, f.err
	}
	request, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	return request.Description.FullImage, nil
}

func (f *fakeBackend) QueryProductRequests(_ context.Context, query repository.ProductQuery, withPreview bool) ([]repository.RequestedProduct, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := validateSorting(query, true); err != nil {
		return nil, err
	}
	var result []repository.RequestedProduct
	for id, request := range f.requests {
		if !matchesFilter(request.Description, query.Filter) {
			continue
		}
		if !withPreview {
			request.Description.Preview = nil
		}
		request.Description.FullImage = nil
		result = append(result, repository.RequestedProduct{ID: id, Request: request})
	}
	return result, nil
}

func (f *fakeBackend) DeleteProductRequest(_ context.Context, id model.DBId) error {
	if f.err != nil {
		return f.err
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeBackend) NewProduct(_ context.Context, desc model.ProductDescription) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, exists := f.products[desc.Info.ID]; exists {
		return false, nil
	}
	f.products[desc.Info.ID] = desc
	return true, nil
}

func (f *fakeBackend) GetProduct(_ context.Context, id model.ProductID, withPreview bool) (*model.ProductDescription, error) {
	if f.err != nil {
		return nil, f.err
	}
	desc, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	if !withPreview {
		desc.Preview = nil
	}
	desc.FullImage = nil
	return &desc, nil
}

func (f *fakeBackend) GetProductImage(_ context.Context, id model.ProductID) (*model.ProductImage, error) {
	if f.err != nil {
		return nil, f.err
	}
	desc, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return desc.FullImage, nil
}

func (f *fakeBackend) QueryProducts(_ context.Context, query repository.ProductQuery, withPreview bool) ([]model.ProductDescription, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := validateSorting(query, false); err != nil {
		return nil, err
	}
	var result []model.ProductDescription
	for _, desc := range f.products {
		if !matchesFilter(desc, query.Filter) {
			continue
		}
		if !withPreview {
			desc.Preview = nil
		}
		desc.FullImage = nil
		result = append(result, desc)
	}
	return result, nil
}

func (f *fakeBackend) DeleteProduct(_ context.Context, id model.ProductID) error {
	if f.err != nil {
		return f.err
	}
	delete(f.products, id)
	return nil
}

func matchesFilter(desc model.ProductDescription, filter repository.SearchFilter) bool {
	switch {
	case filter.ProductID != nil:
		return desc.Info.ID == *filter.ProductID
	case filter.Search != nil:
		haystack := strings.ToLower(desc.Info.Name)
		if desc.Info.Producer != nil {
			haystack += " " + strings.ToLower(*desc.Info.Producer)
		}
		return strings.Contains(haystack, strings.ToLower(*filter.Search))
	default:
		return true
	}
}

// validateSorting mirrors the store's fail-fast sorting checks so handler
// tests exercise the 400 paths.
func validateSorting(query repository.ProductQuery, withDate bool) error {
	if query.Sorting == nil {
		return nil
	}
	switch query.Sorting.Field {
	case repository.SortBySimilarity:
		if query.Filter.Search == nil {
			return &repository.InvalidSortingError{Field: query.Sorting.Field}
		}
	case repository.SortByReportedDate:
		if !withDate {
			return &repository.InvalidSortingError{Field: query.Sorting.Field}
		}
	}
	return nil
}
