package integration

import (
	"net/http"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/test-integration/catalog-api/helpers"
)

// productIDs extracts the product IDs of a list response in order
func productIDs(body string) []string {
	ids := []string{}
	for _, id := range gjson.Get(body, "products.#.id").Array() {
		ids = append(ids, id.String())
	}
	return ids
}

var _ = Describe("Catalog API", Label("api"), func() {
	var (
		tempDir      string
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("api-test-")
		configFile := helpers.WriteConfigYAML(tempDir, &config.Config{})

		serverHelper = helpers.NewServerTestHelper(ctx, configFile)
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
	})

	AfterEach(func() {
		Expect(serverHelper.StopServer()).To(Succeed())
		cleanupTempDir(tempDir)
	})

	Context("Health endpoints", func() {
		It("should report healthy and ready", func() {
			status, body := serverHelper.Get("/health")
			Expect(status).To(Equal(http.StatusOK))
			Expect(gjson.Get(body, "status").String()).To(Equal("healthy"))

			status, _ = serverHelper.Get("/readiness")
			Expect(status).To(Equal(http.StatusOK))

			status, body = serverHelper.Get("/version")
			Expect(status).To(Equal(http.StatusOK))
			Expect(gjson.Get(body, "version").Exists()).To(BeTrue())
		})
	})

	Context("Listing products", func() {
		It("should return the whole catalog in source order without filters", func() {
			status, body := serverHelper.Get("/api/v1/products")
			Expect(status).To(Equal(http.StatusOK))
			Expect(productIDs(body)).To(Equal([]string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}))
			Expect(gjson.Get(body, "count").Int()).To(BeEquivalentTo(12))
			Expect(gjson.Get(body, "filtersActive").Bool()).To(BeFalse())
			Expect(gjson.Get(body, "summary").String()).To(Equal("Showing 12 products"))
		})

		DescribeTable("should apply the marketplace filter",
			func(query url.Values, expected []string) {
				status, body := serverHelper.Get("/api/v1/products?" + query.Encode())
				Expect(status).To(Equal(http.StatusOK))
				Expect(productIDs(body)).To(Equal(expected))
				Expect(gjson.Get(body, "count").Int()).To(BeEquivalentTo(len(expected)))
			},
			Entry("search matches names case-insensitively",
				url.Values{"search": {"RAGI"}}, []string{"3", "7"}),
			Entry("search matches the millet type",
				url.Values{"search": {"sorghum"}}, []string{"4", "9"}),
			Entry("search matches Hindi names",
				url.Values{"search": {"बाजरा"}}, []string{"8", "12"}),
			Entry("type and price combine",
				url.Values{"type": {"Sorghum"}, "price": {"0-100"}}, []string{"9"}),
			Entry("category filter",
				url.Values{"category": {"Beverages"}}, []string{"7", "11"}),
			Entry("open-ended price range",
				url.Values{"price": {"200+"}}, []string{"7", "10", "11"}),
			Entry("closed price range includes both bounds",
				url.Values{"price": {"100-150"}}, []string{"1", "4", "5", "8"}),
			Entry("malformed price degrades to any",
				url.Values{"price": {"cheap"}, "category": {"Grains"}}, []string{"1", "3", "5", "12"}),
			Entry("nothing matches",
				url.Values{"search": {"quinoa"}}, []string{}),
		)

		It("should echo the normalized filters", func() {
			status, body := serverHelper.Get("/api/v1/products?search=ragi&price=200%2B")
			Expect(status).To(Equal(http.StatusOK))
			Expect(gjson.Get(body, "filtersActive").Bool()).To(BeTrue())
			Expect(gjson.Get(body, "filters.search").String()).To(Equal("ragi"))
		})

		It("should localize the summary from Accept-Language", func() {
			status, body := serverHelper.GetWithLanguage("/api/v1/products?search=ragi", "hi-IN,hi;q=0.9")
			Expect(status).To(Equal(http.StatusOK))
			Expect(gjson.Get(body, "locale").String()).To(Equal("hi"))
			Expect(gjson.Get(body, "summary").String()).To(Equal("दिखाया जा रहा है 2 उत्पाद"))
			Expect(gjson.Get(body, "products.0.displayName").String()).To(Equal("रागी अनाज"))
		})
	})

	Context("Single product", func() {
		It("should return a product by ID", func() {
			status, body := serverHelper.Get("/api/v1/products/9")
			Expect(status).To(Equal(http.StatusOK))
			Expect(gjson.Get(body, "name").String()).To(Equal("Jowar Flour"))
		})

		It("should return a localized 404 for unknown products", func() {
			status, body := serverHelper.Get("/api/v1/products/999?lang=hi")
			Expect(status).To(Equal(http.StatusNotFound))
			Expect(gjson.Get(body, "error").String()).To(Equal("उत्पाद नहीं मिला"))
		})
	})

	Context("Supporting views", func() {
		It("should feature the first products", func() {
			status, body := serverHelper.Get("/api/v1/products/featured?limit=3")
			Expect(status).To(Equal(http.StatusOK))
			Expect(productIDs(body)).To(Equal([]string{"1", "2", "3"}))
		})

		It("should list filter options with an all choice first", func() {
			status, body := serverHelper.Get("/api/v1/filters")
			Expect(status).To(Equal(http.StatusOK))
			Expect(gjson.Get(body, "types.0.value").String()).To(Equal("all"))
			Expect(gjson.Get(body, "types.#").Int()).To(BeEquivalentTo(7))
			Expect(gjson.Get(body, "categories.#").Int()).To(BeEquivalentTo(6))
			Expect(gjson.Get(body, "labels.clearAll").String()).To(Equal("Clear All"))
		})

		It("should list schemes and learning content", func() {
			status, body := serverHelper.Get("/api/v1/schemes")
			Expect(status).To(Equal(http.StatusOK))
			Expect(gjson.Get(body, "count").Int()).To(BeNumerically(">", 0))

			status, _ = serverHelper.Get("/api/v1/learn")
			Expect(status).To(Equal(http.StatusOK))
		})

		It("should build the demo farmer dashboard", func() {
			status, body := serverHelper.Get("/api/v1/farmers/dashboard")
			Expect(status).To(Equal(http.StatusOK))
			Expect(gjson.Get(body, "farmer.id").String()).NotTo(BeEmpty())
			Expect(gjson.Get(body, "totalEarnings").Float()).To(BeNumerically(">=", 0))
		})

		It("should report catalog info", func() {
			status, body := serverHelper.Get("/api/v1/info")
			Expect(status).To(Equal(http.StatusOK))
			Expect(gjson.Get(body, "products").Int()).To(BeEquivalentTo(12))
			Expect(gjson.Get(body, "snapshotId").String()).NotTo(BeEmpty())
		})
	})
})
