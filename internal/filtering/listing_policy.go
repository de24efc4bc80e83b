package filtering

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/milletmart/catalog-server/internal/catalog"
)

// Rules is an include/exclude pair
type Rules struct {
	Include []string
	Exclude []string
}

func (r Rules) isEmpty() bool {
	return len(r.Include) == 0 && len(r.Exclude) == 0
}

// ListingPolicy decides which loaded products are listed at all.
// It runs once when a catalog is built, before any marketplace filtering.
type ListingPolicy struct {
	// Names holds glob patterns matched against the English product name
	Names Rules
	// Certifications holds exact certification names
	Certifications Rules
}

// IsEmpty reports whether the policy lists every product
func (p ListingPolicy) IsEmpty() bool {
	return p.Names.isEmpty() && p.Certifications.isEmpty()
}

// Validate checks that every name pattern compiles
func (p ListingPolicy) Validate() error {
	if err := ValidatePatterns(p.Names.Include); err != nil {
		return fmt.Errorf("names.include: %w", err)
	}
	if err := ValidatePatterns(p.Names.Exclude); err != nil {
		return fmt.Errorf("names.exclude: %w", err)
	}
	return nil
}

// PolicyFilter applies a ListingPolicy to raw products
type PolicyFilter struct {
	nameFilter NameFilter
	certFilter CertificationFilter
}

// NewPolicyFilter creates a PolicyFilter with the default name and certification filters
func NewPolicyFilter() *PolicyFilter {
	return &PolicyFilter{
		nameFilter: NewDefaultNameFilter(),
		certFilter: NewDefaultCertificationFilter(),
	}
}

// Apply returns the products listed under policy, preserving order
func (f *PolicyFilter) Apply(ctx context.Context, products []catalog.Product, policy ListingPolicy) []catalog.Product {
	if policy.IsEmpty() {
		return products
	}

	slog.InfoContext(ctx, "Applying listing policy", "originalProductCount", len(products))

	listed := make([]catalog.Product, 0, len(products))
	for i := range products {
		p := &products[i]
		included, reason := f.shouldListWithReason(p, policy)
		if included {
			listed = append(listed, *p)
			slog.DebugContext(ctx, "Listing product", "id", p.ID, "name", p.Name, "reason", reason)
		} else {
			slog.InfoContext(ctx, "Unlisting product", "id", p.ID, "name", p.Name, "reason", reason)
		}
	}

	slog.InfoContext(ctx, "Listing policy applied",
		"listedProducts", len(listed),
		"unlistedProducts", len(products)-len(listed))

	return listed
}

// shouldListWithReason requires both the name and certification rules to pass
func (f *PolicyFilter) shouldListWithReason(p *catalog.Product, policy ListingPolicy) (bool, string) {
	nameOK, nameReason := f.nameFilter.ShouldInclude(p.Name, policy.Names.Include, policy.Names.Exclude)
	if !nameOK {
		return false, fmt.Sprintf("name rule: %s", nameReason)
	}

	certOK, certReason := f.certFilter.ShouldInclude(
		p.Certifications, policy.Certifications.Include, policy.Certifications.Exclude)
	if !certOK {
		return false, fmt.Sprintf("certification rule: %s", certReason)
	}

	return true, fmt.Sprintf("name rule: %s AND certification rule: %s", nameReason, certReason)
}
