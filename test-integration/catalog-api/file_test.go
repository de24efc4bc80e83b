package integration

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"

	"github.com/milletmart/catalog-server/test-integration/catalog-api/helpers"
)

var _ = Describe("File Source Integration", Label("file"), func() {
	var (
		tempDir      string
		productsFile string
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("file-test-")
		productsFile = filepath.Join(tempDir, "products.json")
		configFile := helpers.WriteConfigYAML(tempDir, helpers.FileSourceConfig(productsFile))
		serverHelper = helpers.NewServerTestHelper(ctx, configFile)
	})

	AfterEach(func() {
		Expect(serverHelper.StopServer()).To(Succeed())
		cleanupTempDir(tempDir)
	})

	Context("Loading from a local file", func() {
		It("should serve only the products in the file", func() {
			helpers.WriteProductsFile(tempDir, helpers.ProductsByID("3", "9", "12"))

			Expect(serverHelper.StartServer()).To(Succeed())
			serverHelper.WaitForServerReady(10 * time.Second)

			status, body := serverHelper.Get("/api/v1/products")
			Expect(status).To(Equal(http.StatusOK))
			Expect(productIDs(body)).To(Equal([]string{"3", "9", "12"}))

			status, body = serverHelper.Get("/api/v1/products?price=0-80")
			Expect(status).To(Equal(http.StatusOK))
			Expect(productIDs(body)).To(Equal([]string{"9", "12"}))

			status, body = serverHelper.Get("/api/v1/info")
			Expect(status).To(Equal(http.StatusOK))
			Expect(gjson.Get(body, "sources.products.origin").String()).To(ContainSubstring("products.json"))
			Expect(gjson.Get(body, "sources.users.origin").String()).To(Equal("embedded"))
		})

		It("should become ready once the file appears", func() {
			Expect(serverHelper.StartServer()).To(Succeed())

			Eventually(func() int {
				status, _ := serverHelper.Get("/readiness")
				return status
			}, 5*time.Second, 100*time.Millisecond).Should(Equal(http.StatusServiceUnavailable))

			helpers.WriteProductsFile(tempDir, helpers.ProductsByID("1"))
			serverHelper.WaitForServerReady(10 * time.Second)

			_, body := serverHelper.Get("/api/v1/products")
			Expect(productIDs(body)).To(Equal([]string{"1"}))
		})
	})

	Context("Reloading", func() {
		BeforeEach(func() {
			helpers.WriteProductsFile(tempDir, helpers.ProductsByID("3", "9"))
			Expect(serverHelper.StartServer()).To(Succeed())
			serverHelper.WaitForServerReady(10 * time.Second)
		})

		It("should pick up file changes on reload", func() {
			_, before := serverHelper.Get("/api/v1/info")

			helpers.WriteProductsFile(tempDir, helpers.ProductsByID("3", "9", "7"))
			status, body := serverHelper.Reload()
			Expect(status).To(Equal(http.StatusOK))
			Expect(gjson.Get(body, "products").Int()).To(BeEquivalentTo(3))
			Expect(gjson.Get(body, "snapshotId").String()).NotTo(Equal(gjson.Get(before, "snapshotId").String()))

			_, body = serverHelper.Get("/api/v1/products?search=ragi")
			Expect(productIDs(body)).To(Equal([]string{"3", "7"}))
		})

		It("should keep the previous snapshot when the file turns invalid", func() {
			Expect(os.WriteFile(productsFile, []byte(`[{"id": "broken"}]`), 0600)).To(Succeed())

			status, body := serverHelper.Reload()
			Expect(status).To(Equal(http.StatusBadGateway))
			Expect(gjson.Get(body, "error").String()).NotTo(BeEmpty())

			status, body = serverHelper.Get("/api/v1/products")
			Expect(status).To(Equal(http.StatusOK))
			Expect(productIDs(body)).To(Equal([]string{"3", "9"}))
		})
	})

	Context("Watching the file", func() {
		It("should reload without an explicit request when the file changes", func() {
			helpers.WriteProductsFile(tempDir, helpers.ProductsByID("3"))

			cfg := helpers.FileSourceConfig(productsFile)
			cfg.Catalog.WatchFiles = true
			configFile := helpers.WriteConfigYAML(tempDir, cfg)
			serverHelper = helpers.NewServerTestHelper(ctx, configFile)

			Expect(serverHelper.StartServer()).To(Succeed())
			serverHelper.WaitForServerReady(10 * time.Second)

			helpers.WriteProductsFile(tempDir, helpers.ProductsByID("3", "7"))

			Eventually(func() []string {
				_, body := serverHelper.Get("/api/v1/products?search=ragi")
				return productIDs(body)
			}, 10*time.Second, 100*time.Millisecond).Should(Equal([]string{"3", "7"}))
		})
	})
})
