package helpers

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/onsi/gomega"

	"github.com/milletmart/catalog-server/internal/catalog"
	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/fixtures"
)

// EmbeddedProducts returns the products of the built-in data set
func EmbeddedProducts() []catalog.Product {
	data, err := fixtures.Data(fixtures.KindProducts)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	var products []catalog.Product
	gomega.Expect(json.Unmarshal(data, &products)).To(gomega.Succeed())
	return products
}

// ProductsByID picks products from the built-in data set by ID
func ProductsByID(ids ...string) []catalog.Product {
	all := EmbeddedProducts()
	byID := make(map[string]catalog.Product, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}

	picked := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		gomega.Expect(ok).To(gomega.BeTrue(), "unknown product %s", id)
		picked = append(picked, p)
	}
	return picked
}

// MarshalProducts encodes products as a products fixture
func MarshalProducts(products []catalog.Product) []byte {
	data, err := json.MarshalIndent(products, "", "  ")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return data
}

// WriteProductsFile writes products as a fixture file and returns its path
func WriteProductsFile(dir string, products []catalog.Product) string {
	path := filepath.Join(dir, fixtures.KindProducts.FileName())
	gomega.Expect(os.WriteFile(path, MarshalProducts(products), 0600)).To(gomega.Succeed())
	return path
}

// FileSourceConfig returns a config that loads products from path
func FileSourceConfig(path string) *config.Config {
	return &config.Config{
		Sources: map[string]config.SourceConfig{
			string(fixtures.KindProducts): {
				Type: config.SourceTypeFile,
				File: &config.FileConfig{Path: path},
			},
		},
	}
}
