package sources_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/fixtures"
	"github.com/milletmart/catalog-server/internal/httpclient"
	"github.com/milletmart/catalog-server/internal/sources"
)

const schemesPath = "/fixtures/schemes.json"

var _ = Describe("APISourceHandler", func() {
	var (
		handler    sources.SourceHandler
		ctx        context.Context
		mockServer *httptest.Server
		requests   atomic.Int32
		source     *config.SourceConfig
	)

	BeforeEach(func() {
		requests.Store(0)
		httpClient := httpclient.NewDefaultClient(5*time.Second,
			httpclient.WithMaxAttempts(3),
			httpclient.WithInitialInterval(time.Millisecond))
		handler = sources.NewAPISourceHandlerWithClient(httpClient)
		ctx = context.Background()
	})

	AfterEach(func() {
		if mockServer != nil {
			mockServer.Close()
		}
	})

	sourceFor := func(path string) *config.SourceConfig {
		return &config.SourceConfig{
			Type: config.SourceTypeAPI,
			API:  &config.APIConfig{Endpoint: mockServer.URL + path},
		}
	}

	Describe("Validate", func() {
		It("requires an api block", func() {
			err := handler.Validate(&config.SourceConfig{Type: config.SourceTypeAPI})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("api configuration is required"))
		})

		It("requires an endpoint", func() {
			err := handler.Validate(&config.SourceConfig{Type: config.SourceTypeAPI, API: &config.APIConfig{}})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("api endpoint cannot be empty"))
		})

		It("rejects other source types", func() {
			err := handler.Validate(&config.SourceConfig{Type: config.SourceTypeFile})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("invalid source type"))
		})
	})

	Describe("Fetch", func() {
		Context("when the endpoint serves a valid fixture", func() {
			var body []byte

			BeforeEach(func() {
				var err error
				body, err = fixtures.Data(fixtures.KindSchemes)
				Expect(err).NotTo(HaveOccurred())

				mockServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					requests.Add(1)
					if r.URL.Path != schemesPath {
						w.WriteHeader(http.StatusNotFound)
						return
					}
					w.Header().Set("Content-Type", "application/json")
					_, _ = w.Write(body)
				}))
				source = sourceFor(schemesPath)
			})

			It("returns the data with its hash", func() {
				result, err := handler.Fetch(ctx, fixtures.KindSchemes, source)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Data).To(Equal(body))
				Expect(result.Hash).To(Equal(sources.Hash(body)))
				Expect(result.Origin).To(Equal(source.API.Endpoint))
				Expect(result.Kind).To(Equal(fixtures.KindSchemes))
			})

			It("reports the same hash without validating", func() {
				hash, err := handler.CurrentHash(ctx, fixtures.KindSchemes, source)
				Expect(err).NotTo(HaveOccurred())
				Expect(hash).To(Equal(sources.Hash(body)))
			})

			It("rejects data that does not match the requested kind", func() {
				_, err := handler.Fetch(ctx, fixtures.KindLearn, source)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("validation failed"))
			})

			It("does not retry a missing document", func() {
				_, err := handler.Fetch(ctx, fixtures.KindSchemes, sourceFor("/missing.json"))
				Expect(err).To(HaveOccurred())
				Expect(httpclient.IsNotFound(err)).To(BeTrue())
				Expect(requests.Load()).To(Equal(int32(1)))
			})
		})

		Context("when the endpoint fails transiently", func() {
			BeforeEach(func() {
				mockServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					if requests.Add(1) == 1 {
						w.WriteHeader(http.StatusServiceUnavailable)
						return
					}
					_, _ = w.Write([]byte(`{"varieties":[],"healthBenefits":[]}`))
				}))
				source = sourceFor("/learn.json")
			})

			It("retries and succeeds", func() {
				result, err := handler.Fetch(ctx, fixtures.KindLearn, source)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Data).To(MatchJSON(`{"varieties":[],"healthBenefits":[]}`))
				Expect(requests.Load()).To(Equal(int32(2)))
			})
		})

		Context("when the endpoint keeps failing", func() {
			BeforeEach(func() {
				mockServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					requests.Add(1)
					w.WriteHeader(http.StatusInternalServerError)
				}))
				source = sourceFor("/products.json")
			})

			It("gives up after the configured attempts", func() {
				_, err := handler.Fetch(ctx, fixtures.KindProducts, source)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("HTTP 500"))
				Expect(requests.Load()).To(Equal(int32(3)))
			})
		})
	})
})
