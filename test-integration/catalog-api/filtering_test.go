package integration

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/test-integration/catalog-api/helpers"
)

var _ = Describe("Listing Policy Integration", Label("filtering"), func() {
	var (
		tempDir      string
		serverHelper *helpers.ServerTestHelper
	)

	startWith := func(listing *config.ListingConfig) {
		configFile := helpers.WriteConfigYAML(tempDir, &config.Config{
			Catalog: config.CatalogConfig{Listing: listing},
		})
		serverHelper = helpers.NewServerTestHelper(ctx, configFile)
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
	}

	BeforeEach(func() {
		tempDir = createTempDir("filtering-test-")
	})

	AfterEach(func() {
		Expect(serverHelper.StopServer()).To(Succeed())
		cleanupTempDir(tempDir)
	})

	It("should hide products excluded by name", func() {
		startWith(&config.ListingConfig{
			Names: &config.NameFilterConfig{Exclude: []string{"*Flour"}},
		})

		_, body := serverHelper.Get("/api/v1/products")
		Expect(productIDs(body)).NotTo(ContainElements("2", "9"))
		Expect(gjson.Get(body, "count").Int()).To(BeEquivalentTo(10))

		status, _ := serverHelper.Get("/api/v1/products/9")
		Expect(status).To(Equal(http.StatusNotFound))

		_, body = serverHelper.Get("/api/v1/info")
		Expect(gjson.Get(body, "unlistedProducts").Int()).To(BeEquivalentTo(2))
	})

	It("should list only products holding an included certification", func() {
		startWith(&config.ListingConfig{
			Certifications: &config.CertificationFilterConfig{Include: []string{"Organic"}},
		})

		_, body := serverHelper.Get("/api/v1/products")
		Expect(productIDs(body)).To(Equal([]string{"1", "3", "5", "7", "11"}))

		_, body = serverHelper.Get("/api/v1/products?category=Grains")
		Expect(productIDs(body)).To(Equal([]string{"1", "3", "5"}))
	})

	It("should let excluded certifications win over included ones", func() {
		startWith(&config.ListingConfig{
			Certifications: &config.CertificationFilterConfig{
				Include: []string{"FSSAI"},
				Exclude: []string{"Organic"},
			},
		})

		_, body := serverHelper.Get("/api/v1/products")
		Expect(productIDs(body)).To(Equal([]string{"2", "4", "6", "8", "10"}))
	})
})
