// cli.go
//
// Command line for the triangle quiz.
//   - trianglequiz [serve]                     → run the HTTP server (default)
//   - trianglequiz generate --category --seed  → print triangles as JSON lines
//   - trianglequiz classify a b c              → classify three side lengths

package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/trianglequiz/internal/config"
	"github.com/robalobadob/trianglequiz/internal/database"
	"github.com/robalobadob/trianglequiz/internal/geometry"
	"github.com/robalobadob/trianglequiz/internal/hints"
	"github.com/robalobadob/trianglequiz/internal/httpserver"
	"github.com/robalobadob/trianglequiz/internal/random"
	"github.com/robalobadob/trianglequiz/internal/store"
	"github.com/robalobadob/trianglequiz/internal/triangle"
)

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "trianglequiz",
		Short:         "Triangle classification quiz server and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfgPath)
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML game tuning file (defaults to $GAME_CONFIG)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cfgPath)
			},
		},
		newGenerateCmd(&cfgPath),
		newClassifyCmd(),
	)
	return root
}

// serve wires config, database, hints and the HTTP server, then blocks.
func serve(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := hints.Init(); err != nil {
		return fmt.Errorf("load hints: %w", err)
	}

	db, err := database.OpenMigrated(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	gen, err := cfg.Game.NewGenerator(random.NewCrypto())
	if err != nil {
		return err
	}

	srv := httpserver.New(store.NewMemoryStore(), db, cfg, gen)
	log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Str("chooser", cfg.Game.Chooser).Msg("starting trianglequiz")
	return srv.Start(":" + cfg.Port)
}

// generated is one line of `generate` output.
type generated struct {
	Category       triangle.Category    `json:"category"`
	Vertices       [3]geometry.Point    `json:"vertices"`
	Sides          geometry.SideLengths `json:"sides"`
	Classification triangle.Category    `json:"classification"`
}

func newGenerateCmd(cfgPath *string) *cobra.Command {
	var (
		category string
		seed     uint64
		count    int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print generated triangles as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			game := config.DefaultGame()
			if *cfgPath != "" {
				g, err := config.LoadGame(*cfgPath)
				if err != nil {
					return err
				}
				game = g
			}

			var cat triangle.Category
			if category != "" {
				c, err := triangle.ParseCategory(category)
				if err != nil {
					return err
				}
				cat = c
			}

			src := random.NewCrypto()
			if cmd.Flags().Changed("seed") {
				src = random.NewSeeded(seed)
			}
			gen, err := game.NewGenerator(src)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for i := 0; i < count; i++ {
				var t triangle.Triangle
				if cat == "" {
					t, err = gen.Random()
				} else {
					t, err = gen.Generate(cat)
				}
				if err != nil {
					return err
				}
				sides := t.Sides()
				if err := enc.Encode(generated{
					Category:       t.Category,
					Vertices:       t.Vertices,
					Sides:          sides.Rounded(2),
					Classification: triangle.ClassifySides(sides),
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "equilateral, isosceles or scalene (default: weighted random)")
	cmd.Flags().Uint64VarP(&seed, "seed", "s", 0, "seed for a reproducible sequence")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of triangles")
	return cmd
}

func newClassifyCmd() *cobra.Command {
	var tolerance float64
	cmd := &cobra.Command{
		Use:   "classify a b c",
		Short: "Classify three side lengths",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s [3]float64
			for i, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("side %d: %w", i+1, err)
				}
				s[i] = v
			}
			if tolerance <= 0 {
				return fmt.Errorf("tolerance must be positive, got %v", tolerance)
			}
			cl := triangle.Classifier{Tolerance: tolerance}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), cl.Classify(s[0], s[1], s[2]))
			return err
		},
	}
	cmd.Flags().Float64VarP(&tolerance, "tolerance", "t", triangle.DefaultTolerance, "largest gap still read as equal")
	return cmd
}
