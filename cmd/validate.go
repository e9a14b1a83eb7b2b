package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/deckspawn/internal/deck"
	"github.com/arcanaland/deckspawn/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [deck_url]",
	Short: "Check a remote deck list without spawning it",
	Long: `Validate fetches the deck behind a view_decklist URL and reports anything that
would stop it from being imported, plus cards that will be spawned with
placeholders or defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}

		src, err := deck.ParseSource(args[0], rt.cfg.SiteHost)
		if err != nil {
			return err
		}

		resp, err := rt.client.FetchDeck(cmd.Context(), src.Slug)
		if err != nil {
			return fmt.Errorf("error fetching deck %s: %w", src.Slug, err)
		}

		v := validator.NewValidator(resp)
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %v", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Validation Results:")
		fmt.Fprintln(out, "-------------------")

		if results.OK() {
			fmt.Fprintf(out, "✅ Deck '%s' can be imported.\n", resp.Name)
		} else {
			fmt.Fprintf(out, "❌ Deck %s has %d validation errors:\n", src.Slug, len(results.Errors))
			for i, e := range results.Errors {
				fmt.Fprintf(out, "%d. %s\n", i+1, e)
			}
			return fmt.Errorf("validation failed")
		}

		if len(results.Warnings) > 0 {
			fmt.Fprintln(out, "\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Fprintf(out, "%d. %s\n", i+1, warn)
			}
		}

		return nil
	},
}
