package cmd

import (
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/safespace/backend/internal/domain/pricing"
	"github.com/spf13/cobra"
)

var (
	quotePackage string
	quoteCountry string
	quoteHint    string
	quotePromo   string
)

var checkPromosCmd = &cobra.Command{
	Use:   "check-promos",
	Short: "Validate the configured promo codes",
	Long: `Parse pricing.promo_codes (SAFESPACE_PRICING_PROMO_CODES) exactly as the
server does at start-up and print the resulting codes with their effect on
every package.`,
	RunE: runCheckPromos,
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute a price the way the price check endpoint would",
	Long: `Compute a quote offline. --country stands in for the edge country header;
--hint is the client hint (locale, country or currency code).`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVar(&quotePackage, "package", "200", "session package (200, 550 or 900)")
	quoteCmd.Flags().StringVar(&quoteCountry, "country", "", "ISO country code as sent by the edge")
	quoteCmd.Flags().StringVar(&quoteHint, "hint", "", "preferred currency hint, e.g. en-GB or USD")
	quoteCmd.Flags().StringVar(&quotePromo, "promo", "", "promo code")
}

func loadCalculator() (*pricing.Calculator, error) {
	e, err := loadEnv()
	if err != nil {
		return nil, err
	}
	promos, err := pricing.ParsePromoList(e.cfg.Pricing.PromoCodes)
	if err != nil {
		return nil, fmt.Errorf("invalid promo codes: %w", err)
	}
	return pricing.NewCalculator(pricing.DefaultPriceTable(), promos, pricing.DefaultLocationResolver(nil)), nil
}

func runCheckPromos(cmd *cobra.Command, _ []string) error {
	calc, err := loadCalculator()
	if err != nil {
		return err
	}
	codes := calc.Promos().Codes()
	if len(codes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No promo codes configured")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprint(w, "CODE\tPERCENT")
	for _, p := range pricing.Packages() {
		fmt.Fprintf(w, "\tGHS %s", p.ID)
	}
	fmt.Fprintln(w)
	for _, pc := range codes {
		fmt.Fprintf(w, "%s\t%s%%", pc.Code, pc.Percent)
		for _, p := range pricing.Packages() {
			q, err := calc.Quote(cmd.Context(), pricing.QuoteRequest{PackageID: string(p.ID), PromoCode: pc.Code})
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "\t%s", q.GHSAmount.Amount().StringFixed(2))
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runQuote(cmd *cobra.Command, _ []string) error {
	calc, err := loadCalculator()
	if err != nil {
		return err
	}
	headers := http.Header{}
	if quoteCountry != "" {
		headers.Set("x-country-code", quoteCountry)
	}
	q, err := calc.Quote(cmd.Context(), pricing.QuoteRequest{
		PackageID: quotePackage,
		PromoCode: quotePromo,
		Location:  pricing.LocationInput{Headers: headers, Hint: quoteHint},
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "package:   %s (%s)\n", q.Package.ID, q.Package.Label)
	fmt.Fprintf(out, "location:  %s via %s\n", orDash(q.Location.Country), q.Location.Source)
	fmt.Fprintf(out, "amount:    %s%s %s\n", q.Symbol, q.Amount.Amount().StringFixed(2), q.Currency())
	fmt.Fprintf(out, "ghsAmount: %s\n", q.GHSAmount.Amount().StringFixed(2))
	fmt.Fprintf(out, "promo:     %t %s\n", q.PromoApplied, q.PromoCode)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
