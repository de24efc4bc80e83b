package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/milletmart/catalog-server/internal/catalog"
	"github.com/milletmart/catalog-server/internal/dataset"
	"github.com/milletmart/catalog-server/internal/filtering"
	"github.com/milletmart/catalog-server/internal/locale"
	"github.com/milletmart/catalog-server/internal/service"
	"github.com/milletmart/catalog-server/internal/service/inmemory"
	"github.com/milletmart/catalog-server/internal/sources"
)

var (
	summaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	emptyStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Filter the marketplace catalog from the command line",
		Long: `Filter the marketplace catalog the same way the /api/v1/products endpoint does.

Examples:
  # Everything made from ragi
  milletmart-api search ragi

  # Sorghum flour under 100 rupees, in Hindi
  milletmart-api search --type Sorghum --category Flour --price 0-100 --lang hi`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().String("type", "all", "Millet type")
	cmd.Flags().String("category", "all", "Product category")
	cmd.Flags().String("price", "all", "Price range, e.g. 0-100 or 200+")
	cmd.Flags().String("lang", "en", "Display language (en or hi)")
	cmd.Flags().String("format", "table", "Output format (table or json)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var search string
	if len(args) == 1 {
		search = args[0]
	}
	productType, _ := cmd.Flags().GetString("type")
	category, _ := cmd.Flags().GetString("category")
	price, _ := cmd.Flags().GetString("price")
	format, _ := cmd.Flags().GetString("format")
	lang, _ := cmd.Flags().GetString("lang")

	loc, err := locale.Parse(lang)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider := service.NewDatasetProvider(dataset.NewLoader(sources.NewSourceHandlerFactory()), cfg)
	svc, err := inmemory.New(ctx, provider, inmemory.WithFeaturedCount(cfg.GetFeaturedCount()))
	if err != nil {
		return err
	}

	result, err := svc.ListProducts(ctx,
		service.WithSearch(search),
		service.WithType(productType),
		service.WithCategory[service.ListProductsOptions](category),
		service.WithPriceRange(price),
	)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result.Products)
	case "table":
		return renderProducts(cmd.OutOrStdout(), loc, result.Products)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// renderProducts writes products as a table followed by the localized count
func renderProducts(w io.Writer, loc locale.Locale, products []catalog.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, emptyStyle.Render(locale.ProductSummary(loc, 0)))
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Type", "Category", "Price", "Farmer")
	for i := range products {
		p := &products[i]
		row := []string{
			p.ID,
			p.DisplayName(loc),
			filtering.TypeLabel(loc, p.Type),
			filtering.CategoryLabel(loc, p.Category),
			locale.FormatRupees(loc, p.Price) + " " + p.Unit,
			p.Farmer.Name,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, summaryStyle.Render(locale.ProductSummary(loc, len(products))))
	return err
}

// formatCount pluralizes noun for n
func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
