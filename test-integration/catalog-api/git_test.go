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

var _ = Describe("Git Source Integration", Label("git"), func() {
	var (
		tempDir      string
		repo         *helpers.GitTestRepository
		serverHelper *helpers.ServerTestHelper
	)

	startWith := func(gitCfg config.GitConfig) {
		configFile := helpers.WriteConfigYAML(tempDir, helpers.GitSourceConfig(repo, gitCfg))
		serverHelper = helpers.NewServerTestHelper(ctx, configFile)
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(15 * time.Second)
	}

	BeforeEach(func() {
		tempDir = createTempDir("git-test-")
		repo = helpers.CreateRepository(tempDir)
		serverHelper = nil
	})

	AfterEach(func() {
		if serverHelper != nil {
			Expect(serverHelper.StopServer()).To(Succeed())
		}
		cleanupTempDir(tempDir)
	})

	It("should load products from the default branch", func() {
		commit := repo.CommitFile("products.json",
			helpers.MarshalProducts(helpers.ProductsByID("2", "8", "12")), "Add pearl millet products")

		startWith(config.GitConfig{})

		status, body := serverHelper.Get("/api/v1/products?type=Pearl%20Millet&price=0-100")
		Expect(status).To(Equal(http.StatusOK))
		Expect(productIDs(body)).To(Equal([]string{"2", "12"}))

		_, body = serverHelper.Get("/api/v1/info")
		Expect(gjson.Get(body, "sources.products.origin").String()).To(ContainSubstring(commit))
	})

	It("should read the configured path on the configured branch", func() {
		repo.CommitFile("catalog/products.json",
			helpers.MarshalProducts(helpers.ProductsByID("1")), "Main catalog")
		repo.CheckoutBranch("staging", true)
		repo.CommitFile("catalog/products.json",
			helpers.MarshalProducts(helpers.ProductsByID("6", "10")), "Staging catalog")

		startWith(config.GitConfig{Branch: "staging", Path: "catalog/products.json"})

		_, body := serverHelper.Get("/api/v1/products?category=Snacks")
		Expect(productIDs(body)).To(Equal([]string{"6", "10"}))
	})

	It("should pin a tag and ignore later commits on reload", func() {
		repo.CommitFile("products.json", helpers.MarshalProducts(helpers.ProductsByID("3")), "v1 catalog")
		repo.CreateTag("v1.0.0")

		startWith(config.GitConfig{Tag: "v1.0.0"})

		repo.CommitFile("products.json", helpers.MarshalProducts(helpers.ProductsByID("3", "7")), "v2 catalog")
		status, body := serverHelper.Reload()
		Expect(status).To(Equal(http.StatusOK))
		Expect(gjson.Get(body, "products").Int()).To(BeEquivalentTo(1))
	})

	It("should follow the branch head on reload", func() {
		repo.CommitFile("products.json", helpers.MarshalProducts(helpers.ProductsByID("4")), "First catalog")

		startWith(config.GitConfig{})

		repo.CommitFile("products.json", helpers.MarshalProducts(helpers.ProductsByID("4", "9")), "Add jowar flour")
		status, body := serverHelper.Reload()
		Expect(status).To(Equal(http.StatusOK))
		Expect(gjson.Get(body, "products").Int()).To(BeEquivalentTo(2))

		_, body = serverHelper.Get("/api/v1/products?search=jowar")
		Expect(productIDs(body)).To(Equal([]string{"4", "9"}))
	})
})
