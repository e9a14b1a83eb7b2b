package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcanaland/deckspawn/internal/host"
	"github.com/arcanaland/deckspawn/internal/host/table"
	"github.com/arcanaland/deckspawn/internal/importer"
	"github.com/arcanaland/deckspawn/internal/notify"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [deck_url]",
	Short: "Import a deck list onto the table",
	Long: `Import fetches the deck behind a view_decklist URL and spawns it on an
in-process table, one stacked deck object per zone. The resulting table is
written as JSON or YAML.

Examples:
  deckspawn import https://decks.example.com/view_decklist/4821/
  deckspawn import --face-down --out table.json https://decks.example.com/view_decklist/4821/`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}

		faceDown, _ := cmd.Flags().GetBool("face-down")
		cardBack, _ := cmd.Flags().GetString("card-back")
		requester, _ := cmd.Flags().GetString("requester")
		outPath, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")
		latency, _ := cmd.Flags().GetDuration("latency")

		if cmd.Flags().Changed("zone-timeout") {
			rt.cfg.ZoneTimeout, _ = cmd.Flags().GetDuration("zone-timeout")
		}
		if cmd.Flags().Changed("timeout") {
			rt.cfg.ImportTimeout, _ = cmd.Flags().GetDuration("timeout")
		}

		tb := table.New(rt.logger, table.WithJitter(0, latency))
		im := importer.New(rt.client, tb, notify.NewTerminal(cmd.OutOrStdout()), rt.logger, importer.Config{
			SiteHost:         rt.cfg.SiteHost,
			Origin:           host.Vector{X: rt.cfg.OriginX, Y: rt.cfg.OriginY, Z: rt.cfg.OriginZ},
			ZoneStep:         rt.cfg.ZoneStep,
			ZoneTimeout:      rt.cfg.ZoneTimeout,
			ImportTimeout:    rt.cfg.ImportTimeout,
			CardBack:         rt.cfg.CardBack,
			PlaceholderImage: rt.cfg.PlaceholderImage,
			FaceDown:         rt.cfg.FaceDown,
		})

		report, err := im.Import(cmd.Context(), importer.Session{
			URL:       args[0],
			Requester: requester,
			FaceDown:  faceDown,
			CardBack:  cardBack,
		})
		if err != nil {
			return err
		}

		// let late confirmations land before the table is written
		tb.Wait()

		var w io.Writer = os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("error creating %s: %w", outPath, err)
			}
			defer f.Close()
			w = f
		} else if !cmd.Flags().Changed("format") {
			printZones(cmd.OutOrStdout(), report)
			return nil
		}

		return tb.Export(w, report.Deck.Name, format)
	},
}

func printZones(w io.Writer, report *importer.Report) {
	for _, z := range report.Zones {
		status := "ok"
		if z.Err != nil {
			status = z.Err.Error()
		}
		fmt.Fprintf(w, "  %-12s %3d cards  %s\n", z.Zone, z.Cards, status)
	}
}

func init() {
	importCmd.Flags().Bool("face-down", false, "Spawn every zone face down")
	importCmd.Flags().String("card-back", "", "Card back image URL for this import")
	importCmd.Flags().StringP("requester", "r", "", "Name that error notices are addressed to")
	importCmd.Flags().StringP("out", "o", "", "Write the resulting table to this file")
	importCmd.Flags().StringP("format", "f", "json", "Table format (json, yaml)")
	importCmd.Flags().Duration("latency", 50*time.Millisecond, "Upper bound of the simulated host's spawn latency")
	importCmd.Flags().Duration("zone-timeout", 0, "Per-zone spawn timeout (overrides config)")
	importCmd.Flags().Duration("timeout", 0, "Overall spawn timeout (overrides config)")
}
