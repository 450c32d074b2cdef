package mock

import (
	"context"

	"github.com/fwojciec/pagecollect"
)

// Compile-time interface verification.
var (
	_ pagecollect.PageService = (*PageService)(nil)
	_ pagecollect.PageStore   = (*PageStore)(nil)
)

// PageService is a mock implementation of pagecollect.PageService.
type PageService struct {
	UpsertPageFn     func(ctx context.Context, page *pagecollect.PageRecord) (bool, error)
	FindPageByURLFn  func(ctx context.Context, url string) (*pagecollect.PageRecord, error)
	FindPagesFn      func(ctx context.Context, filter pagecollect.PageFilter) ([]*pagecollect.PageRecord, error)
	CountPagesFn     func(ctx context.Context) (int, error)
	DeletePageFn     func(ctx context.Context, url string) error
	DeleteAllPagesFn func(ctx context.Context) error
}

func (s *PageService) UpsertPage(ctx context.Context, page *pagecollect.PageRecord) (bool, error) {
	return s.UpsertPageFn(ctx, page)
}

func (s *PageService) FindPageByURL(ctx context.Context, url string) (*pagecollect.PageRecord, error) {
	return s.FindPageByURLFn(ctx, url)
}

func (s *PageService) FindPages(ctx context.Context, filter pagecollect.PageFilter) ([]*pagecollect.PageRecord, error) {
	return s.FindPagesFn(ctx, filter)
}

func (s *PageService) CountPages(ctx context.Context) (int, error) {
	return s.CountPagesFn(ctx)
}

func (s *PageService) DeletePage(ctx context.Context, url string) error {
	return s.DeletePageFn(ctx, url)
}

func (s *PageService) DeleteAllPages(ctx context.Context) error {
	return s.DeleteAllPagesFn(ctx)
}

// PageStore is a mock implementation of pagecollect.PageStore.
type PageStore struct {
	SaveFn   func(ctx context.Context, page *pagecollect.PageRecord) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *PageStore) Save(ctx context.Context, page *pagecollect.PageRecord) error {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) Commit() error {
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	return s.AbortFn()
}
