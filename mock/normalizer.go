package mock

import "github.com/pagemark/pagemark"

var _ pagemark.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of pagemark.Normalizer.
type Normalizer struct {
	NormalizeFn func(html string, mode pagemark.ProcessingMode) (string, error)
}

func (n *Normalizer) Normalize(html string, mode pagemark.ProcessingMode) (string, error) {
	return n.NormalizeFn(html, mode)
}
