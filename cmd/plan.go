package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arcanaland/deckspawn/internal/deck"
	"github.com/arcanaland/deckspawn/internal/host"
	"github.com/arcanaland/deckspawn/internal/layout"
	"github.com/arcanaland/deckspawn/internal/spawn"
	"github.com/arcanaland/deckspawn/internal/validator"
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan [deck_url]",
	Short: "Show where each zone of a deck would be placed",
	Long: `Plan fetches a deck and prints its zone layout: the anchor of every zone, its
orientation and how many cards would be spawned there. Nothing is spawned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		faceDown, _ := cmd.Flags().GetBool("face-down")

		src, err := deck.ParseSource(args[0], rt.cfg.SiteHost)
		if err != nil {
			return err
		}
		resp, err := rt.client.FetchDeck(cmd.Context(), src.Slug)
		if err != nil {
			return fmt.Errorf("error fetching deck %s: %w", src.Slug, err)
		}
		results, err := validator.NewValidator(resp).Validate()
		if err != nil {
			return err
		}
		if !results.OK() {
			return fmt.Errorf("deck cannot be imported: %v", results.Errors)
		}

		d := deck.Load(src, resp)
		planner := layout.Planner{
			Origin:        host.Vector{X: rt.cfg.OriginX, Y: rt.cfg.OriginY, Z: rt.cfg.OriginZ},
			Step:          rt.cfg.ZoneStep,
			ForceFaceDown: faceDown || rt.cfg.FaceDown,
		}
		plan := planner.Plan(d.Cards)
		printPlan(cmd.OutOrStdout(), d, plan, spawn.Expand(d.Cards, plan))
		return nil
	},
}

func printPlan(w io.Writer, d *deck.Deck, plan layout.Plan, requests map[string][]spawn.Request) {
	fmt.Fprintf(w, "%s (%d cards, %d zones)\n", d.Name, d.Count(), plan.Len())
	for _, z := range plan.Zones() {
		side := "face up"
		if z.FaceDown {
			side = "face down"
		}
		fmt.Fprintf(w, "  %d. %-12s at (%g, %g, %g)  %-9s  %d cards\n",
			z.Index+1, z.Tag, z.Anchor.X, z.Anchor.Y, z.Anchor.Z, side, len(requests[z.Tag]))
	}
}

func init() {
	planCmd.Flags().Bool("face-down", false, "Plan every zone face down")
}
