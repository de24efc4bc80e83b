package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/milletmart/catalog-server/internal/dataset"
	"github.com/milletmart/catalog-server/internal/fixtures"
	"github.com/milletmart/catalog-server/internal/sources"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [fixture files...]",
		Short: "Validate fixture files or the configured catalog sources",
		Long: `Validate fixture files against their JSON schemas.

With file arguments each file is checked on its own; the fixture kind is taken
from --kind or from the file name (products.json, users.json, ...).
Without arguments the configuration is loaded and every configured source is
fetched and assembled exactly as the server would.`,
		RunE: runValidate,
	}

	cmd.Flags().String("kind", "", "Fixture kind of every file (products, users, transactions, schemes, learn)")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return validateSources(cmd)
	}

	kindFlag, _ := cmd.Flags().GetString("kind")
	validator := sources.NewSchemaValidator()

	var failed int
	for _, path := range args {
		kind := fixtures.Kind(kindFlag)
		if kind == "" {
			kind = fixtures.Kind(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		}
		if !kind.IsValid() {
			return fmt.Errorf("cannot tell the fixture kind of %s; use --kind", path)
		}

		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		if err := validator.ValidateData(kind, data); err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s fixture\n", path, kind)
	}

	if failed > 0 {
		return fmt.Errorf("%s failed validation", formatCount(failed, "file"))
	}
	return nil
}

func validateSources(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := dataset.NewLoader(sources.NewSourceHandlerFactory()).Load(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "catalog is valid: %s (%d unlisted), %s\n",
		formatCount(data.Catalog.Len(), "product"), data.Unlisted, formatCount(data.Schemes.Len(), "scheme"))
	return nil
}
