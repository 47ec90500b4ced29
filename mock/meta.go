package mock

import "github.com/pagemark/pagemark"

var _ pagemark.MetaExtractor = (*MetaExtractor)(nil)

// MetaExtractor is a mock implementation of pagemark.MetaExtractor.
type MetaExtractor struct {
	ExtractMetaFn func(html string) (*pagemark.PageMeta, error)
}

func (m *MetaExtractor) ExtractMeta(html string) (*pagemark.PageMeta, error) {
	return m.ExtractMetaFn(html)
}
