package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"volley-rank/internal/analytics"
	"volley-rank/internal/constants"
	"volley-rank/internal/dataset"
	"volley-rank/internal/domain"
	"volley-rank/internal/export"
	fxmodules "volley-rank/internal/fx"
	"volley-rank/internal/ranking"
	"volley-rank/internal/service"
)

func main() {
	cliApp := &cli.App{
		Name:  "rankctl",
		Usage: "inspect and maintain volleyball tournament rankings",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of tables"},
		},
		Commands: []*cli.Command{
			rankingsCommand(),
			teamCommand(),
			statsCommand(),
			analysisCommand(),
			exportCommand(),
			archiveCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withApp builds the core graph, fills targets and stops the app when done.
// Logs go to stderr so tables and JSON stay clean on stdout.
func withApp(c *cli.Context, run func() error, targets ...interface{}) error {
	app := fx.New(
		fxmodules.Core,
		fx.NopLogger,
		fx.Decorate(func(l zerolog.Logger) zerolog.Logger { return l.Output(os.Stderr) }),
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return err
	}

	if err := app.Start(c.Context); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	return run()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func table(w io.Writer, header string, rows func(tw *tabwriter.Writer)) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

func rankingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "rankings",
		Usage: "print a ranking table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "division", Aliases: []string{"d"}, Value: constants.AllDivisions},
			&cli.StringFlag{Name: "region", Aliases: []string{"r"}, Value: constants.AllRegions},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "rows to print, 0 for all"},
		},
		Action: func(c *cli.Context) error {
			var standings *service.StandingsService
			return withApp(c, func() error {
				board := standings.Board(c.String("division"), c.String("region"))
				if limit := c.Int("limit"); limit > 0 && len(board.Rows) > limit {
					board.Rows = board.Rows[:limit]
				}
				if c.Bool("json") {
					return printJSON(c.App.Writer, board)
				}
				return table(c.App.Writer, "RANK\tTEAM\tREGION\tDIVISION\tW\tRU\t3RD\tSCORE\tBADGES", func(tw *tabwriter.Writer) {
					for _, row := range board.Rows {
						fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
							row.DisplayRank, row.TeamName, row.Region, row.Division,
							row.Championships, row.RunnerUps, row.ThirdPlaces, row.TotalScore,
							badgeLabels(row))
					}
				})
			}, &standings)
		},
	}
}

func badgeLabels(row service.Row) string {
	labels := make([]string, 0, len(row.Badges))
	for _, b := range row.Badges {
		if b.Kind == analytics.BadgeRegionalLeader {
			labels = append(labels, fmt.Sprintf("%s #%d", b.Region, b.Rank))
			continue
		}
		labels = append(labels, fmt.Sprintf("national #%d", b.Rank))
	}
	return strings.Join(labels, ", ")
}

func teamCommand() *cli.Command {
	return &cli.Command{
		Name:      "team",
		Usage:     "show one team's record and history",
		ArgsUsage: "NAME",
		Action: func(c *cli.Context) error {
			name := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(name) == "" {
				return cli.Exit("team name is required", 1)
			}

			var standings *service.StandingsService
			return withApp(c, func() error {
				detail, err := standings.Team(name)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				if c.Bool("json") {
					return printJSON(c.App.Writer, detail)
				}

				w := c.App.Writer
				fmt.Fprintf(w, "%s (%s)\n", detail.TeamName, detail.Region)
				fmt.Fprintf(w, "championships %d, runner-ups %d, third places %d, score %d\n",
					detail.Championships, detail.RunnerUps, detail.ThirdPlaces, detail.TotalScore)
				fmt.Fprintf(w, "trend %d/%d/%d, away podiums %d of %d\n\n",
					detail.Trend.Early, detail.Trend.Mid, detail.Trend.Late,
					detail.Away.Away, detail.Away.Home+detail.Away.Away)
				return table(w, "TOURNAMENT\tDIVISION\tRANK", func(tw *tabwriter.Writer) {
					for _, r := range detail.Tournaments {
						fmt.Fprintf(tw, "%s\t%s\t%d\n", r.Tournament, r.Division, r.Rank)
					}
				})
			}, &standings)
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print dataset totals, divisions and data sources",
		Action: func(c *cli.Context) error {
			var (
				standings *service.StandingsService
				data      *service.DataService
			)
			return withApp(c, func() error {
				overview := standings.Overview()
				sources, err := data.Sources(c.Context)
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return printJSON(c.App.Writer, struct {
						service.Overview
						Sources service.SourceStatus `json:"sources"`
					}{overview, sources})
				}

				w := c.App.Writer
				fmt.Fprintf(w, "%d tournaments, %d teams, %d results\n",
					overview.Stats.TotalTournaments, overview.Stats.TotalTeams, overview.Stats.TotalResults)
				fmt.Fprintf(w, "sources %s, %d archived tournaments\n",
					strings.Join(sources.Configured, ","), sources.Archived)
				if last := sources.LastSnapshot; last != nil {
					fmt.Fprintf(w, "snapshot %s: %d tournaments at %s\n",
						last.URL, last.Tournaments, last.FetchedAt.Format(time.RFC3339))
				}
				fmt.Fprintln(w)
				return table(w, "DIVISION\tTEAMS", func(tw *tabwriter.Writer) {
					for _, d := range overview.TeamCounts {
						fmt.Fprintf(tw, "%s\t%d\n", d.Division, d.TeamCount)
					}
				})
			}, &standings, &data)
		},
	}
}

func analysisCommand() *cli.Command {
	return &cli.Command{
		Name:  "analysis",
		Usage: "print trend, story and regional analysis for a division",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "division", Aliases: []string{"d"}, Value: constants.AllDivisions},
			&cli.StringFlag{Name: "region", Aliases: []string{"r"}, Value: constants.AllRegions},
		},
		Action: func(c *cli.Context) error {
			var standings *service.StandingsService
			return withApp(c, func() error {
				a := standings.Analysis(c.String("division"), c.String("region"))
				if c.Bool("json") {
					return printJSON(c.App.Writer, a)
				}

				w := c.App.Writer
				fmt.Fprintf(w, "%d teams, %d with titles, competition %s\n",
					a.Summary.Teams, a.Summary.TeamsWithTitles, a.Summary.Level)
				fmt.Fprintf(w, "rising: %s\n", trendNames(a.Trends.Rising))
				fmt.Fprintf(w, "declining: %s\n\n", trendNames(a.Trends.Declining))
				return table(w, "REGION\tW\tRU\t3RD\tMEDALS\tTEAMS", func(tw *tabwriter.Writer) {
					for _, m := range a.Medals {
						fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n",
							m.Region, m.Championships, m.RunnerUps, m.ThirdPlaces, m.TotalMedals, m.TeamCount)
					}
				})
			}, &standings)
		},
	}
}

func trendNames(items []analytics.TeamTrend) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Team.TeamName
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write every ranking table to an xlsx workbook",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				path = "rankings.xlsx"
			}

			var engine *ranking.Engine
			return withApp(c, func() error {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				if err := export.WriteRankings(f, export.RankingSheets(engine)); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
				return nil
			}, &engine)
		},
	}
}

func archiveCommand() *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "manage the sqlite tournament archive",
		Subcommands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "store tournaments from a yaml or xlsx file",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "store tournaments already in the archive again"},
				},
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						return cli.Exit("file is required", 1)
					}
					batches, err := readBatches(path)
					if err != nil {
						return err
					}

					var archive *service.ArchiveService
					return withApp(c, func() error {
						saved, err := archive.Import(c.Context, batches, c.Bool("force"))
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "stored %d of %d tournaments\n", len(saved), len(batches))
						return nil
					}, &archive)
				},
			},
			{
				Name:  "list",
				Usage: "list archived tournaments",
				Action: func(c *cli.Context) error {
					var archive *service.ArchiveService
					return withApp(c, func() error {
						archived, err := archive.List(c.Context)
						if err != nil {
							return err
						}
						if c.Bool("json") {
							return printJSON(c.App.Writer, archived)
						}
						return table(c.App.Writer, "SEQ\tNAME\tDATE\tRESULTS\tID", func(tw *tabwriter.Writer) {
							for _, t := range archived {
								fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", t.Sequence, t.Name, t.DateLabel, t.Results, t.ID)
							}
						})
					}, &archive)
				},
			},
			{
				Name:  "clear",
				Usage: "delete every archived tournament",
				Action: func(c *cli.Context) error {
					var archive *service.ArchiveService
					return withApp(c, func() error {
						if err := archive.Clear(c.Context); err != nil {
							return err
						}
						fmt.Fprintln(c.App.Writer, "archive cleared")
						return nil
					}, &archive)
				},
			},
		},
	}
}

func readBatches(path string) ([]domain.Batch, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return export.ReadResults(f)
	case ".yaml", ".yml":
		return dataset.LoadFile(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}
