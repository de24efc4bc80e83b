package filtering

import (
	"fmt"
	"slices"
)

// CertificationFilter decides whether a product is listed based on its certifications
type CertificationFilter interface {
	// ShouldInclude determines if a product holding certs should be listed
	// Returns (shouldInclude bool, reason string)
	ShouldInclude(certs []string, include, exclude []string) (bool, string)
}

// DefaultCertificationFilter implements certification filtering using exact string matching
type DefaultCertificationFilter struct{}

// NewDefaultCertificationFilter creates a new DefaultCertificationFilter
func NewDefaultCertificationFilter() *DefaultCertificationFilter {
	return &DefaultCertificationFilter{}
}

// ShouldInclude determines if a product holding certs should be listed
//
// Logic:
// 1. Holding any excluded certification drops the product (exclude takes precedence)
// 2. With an include list, the product must hold at least one listed certification
// 3. With no lists, every product is listed
func (*DefaultCertificationFilter) ShouldInclude(certs []string, include, exclude []string) (bool, string) {
	for _, cert := range certs {
		if slices.Contains(exclude, cert) {
			return false, fmt.Sprintf("excluded by certification '%s'", cert)
		}
	}

	if len(include) > 0 {
		for _, cert := range certs {
			if slices.Contains(include, cert) {
				return true, fmt.Sprintf("included by certification '%s'", cert)
			}
		}
		return false, fmt.Sprintf("no matching certification in include list %v (product certifications: %v)", include, certs)
	}

	if len(exclude) > 0 {
		return true, fmt.Sprintf("no matching certification in exclude list %v", exclude)
	}
	return true, "no certification rules specified"
}
