package helpers

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/milletmart/catalog-server/internal/app"
	"github.com/milletmart/catalog-server/internal/config"
)

// ServerTestHelper manages the catalog server lifecycle for testing
type ServerTestHelper struct {
	ctx        context.Context
	configPath string
	baseURL    string
	httpClient *http.Client
	app        *app.CatalogApp
	errCh      chan error
}

// NewServerTestHelper creates a helper for the server described by configPath
func NewServerTestHelper(ctx context.Context, configPath string) *ServerTestHelper {
	return &ServerTestHelper{
		ctx:        ctx,
		configPath: configPath,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		errCh:      make(chan error, 1),
	}
}

// StartServer builds the app from the config file and serves it on a
// random loopback port
func (s *ServerTestHelper) StartServer() error {
	cfg, err := config.LoadConfig(config.WithConfigPath(s.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	catalogApp, err := app.NewCatalogApp(s.ctx, app.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.app = catalogApp
	s.baseURL = "http://" + listener.Addr().String()

	go func() {
		s.errCh <- catalogApp.Serve(listener)
	}()
	return nil
}

// StopServer gracefully stops the server
func (s *ServerTestHelper) StopServer() error {
	if s.app == nil {
		return nil
	}
	if err := s.app.Stop(5 * time.Second); err != nil {
		return err
	}
	return <-s.errCh
}

// WaitForServerReady waits until /readiness reports a loaded catalog
func (s *ServerTestHelper) WaitForServerReady(timeout time.Duration) {
	gomega.Eventually(func() error {
		resp, err := s.httpClient.Get(s.baseURL + "/readiness")
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return nil
	}, timeout, 100*time.Millisecond).Should(gomega.Succeed(), "Server should be ready")
}

// Get issues a GET request against the server and returns the status code
// and body
func (s *ServerTestHelper) Get(path string) (int, string) {
	resp, err := s.httpClient.Get(s.baseURL + path)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return readResponse(resp)
}

// GetWithLanguage issues a GET request with an Accept-Language header
func (s *ServerTestHelper) GetWithLanguage(path, language string) (int, string) {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, s.baseURL+path, nil)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	req.Header.Set("Accept-Language", language)
	resp, err := s.httpClient.Do(req)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return readResponse(resp)
}

// Reload triggers POST /api/v1/admin/reload
func (s *ServerTestHelper) Reload() (int, string) {
	resp, err := s.httpClient.Post(s.baseURL+"/api/v1/admin/reload", "application/json", nil)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return readResponse(resp)
}

// GetBaseURL returns the base URL of the running server
func (s *ServerTestHelper) GetBaseURL() string {
	return s.baseURL
}

func readResponse(resp *http.Response) (int, string) {
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return resp.StatusCode, string(body)
}

// WriteConfigYAML writes cfg as config.yaml in dir and returns its path
func WriteConfigYAML(dir string, cfg *config.Config) string {
	data, err := yaml.Marshal(cfg)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	path := filepath.Join(dir, "config.yaml")
	gomega.Expect(os.WriteFile(path, data, 0600)).To(gomega.Succeed())
	return path
}
