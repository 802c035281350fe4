package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"rail/internal/app"
	"rail/internal/catalog"
	"rail/internal/config"
	"rail/internal/handler"
	"rail/internal/ingest"
	"rail/internal/logger"
	internalRedis "rail/internal/redis"
	"rail/internal/repository/postgres"
	"rail/internal/service"
)

// env is the shared state of one command invocation.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	cleanup []func()
}

func (e *env) close() {
	for i := len(e.cleanup) - 1; i >= 0; i-- {
		e.cleanup[i]()
	}
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := config.LoadFile(c.String("env-file"))
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if l := c.String("log-level"); l != "" {
		level = l
	}
	log, err := logger.New(level)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: log}
	e.cleanup = append(e.cleanup, func() { _ = log.Sync() })
	return e, nil
}

// loader builds a catalog loader. With csvPath set the database is not
// touched.
func (e *env) loader(ctx context.Context, csvPath string, withRedis bool, search *service.SearchService) (*service.CatalogLoader, error) {
	if csvPath != "" {
		return service.NewCatalogLoader(nil, nil, nil, search, nil, csvPath, e.log), nil
	}

	db, err := app.NewDatabase(ctx, e.cfg.Database, nil)
	if err != nil {
		return nil, err
	}
	e.cleanup = append(e.cleanup, func() { _ = db.Close() })
	if err := postgres.Migrate(ctx, db); err != nil {
		return nil, err
	}

	var (
		locks internalRedis.LockStoreInterface
		cache internalRedis.SearchCacheInterface
	)
	if withRedis {
		client, err := app.NewRedisClient(ctx, e.cfg.Redis, nil)
		if err != nil {
			e.log.Warn("redis unavailable, importing without lock", zap.Error(err))
		} else {
			e.cleanup = append(e.cleanup, func() { _ = client.Close() })
			locks = internalRedis.NewLockStore(client)
			cache = internalRedis.NewCacheStore(client)
		}
	}

	notifications := service.NewNotificationService(e.log)
	return service.NewCatalogLoader(postgres.NewStore(db), locks, cache, search, notifications, e.cfg.Catalog.CSVPath, e.log), nil
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a connections CSV file into the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "csv",
				Usage:    "Path to the connections CSV file",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			search := service.NewSearchService(nil, e.cfg.Search.MaxLegs, e.log)
			loader, err := e.loader(c.Context, "", true, search)
			if err != nil {
				return err
			}
			res, err := loader.Import(c.Context, c.String("csv"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "imported %d connections (%d in catalog, %d cached searches dropped)\n",
				res.Imported, res.Total, res.Invalidated)
			return nil
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search itineraries",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "Departure city"},
			&cli.StringFlag{Name: "to", Usage: "Arrival city"},
			&cli.StringFlag{Name: "depart-after", Usage: "Earliest departure, HH:MM"},
			&cli.StringFlag{Name: "arrive-before", Usage: "Latest arrival, HH:MM"},
			&cli.BoolFlag{Name: "next-day", Usage: "Only next-day arrivals; --next-day=false for same-day ones"},
			&cli.StringFlag{Name: "days", Usage: "Travel days, e.g. MONDAY,FRIDAY"},
			&cli.StringFlag{Name: "train", Usage: "Preferred train type"},
			&cli.StringFlag{Name: "max-first", Usage: "First class fare cap"},
			&cli.StringFlag{Name: "max-second", Usage: "Second class fare cap"},
			&cli.StringFlag{Name: "sort", Usage: "Sort key", Value: string(service.SortByDuration)},
			&cli.IntFlag{Name: "max-legs", Usage: "Longest itinerary to build (1-3)"},
			&cli.StringFlag{Name: "csv", Usage: "Search a CSV file instead of the database"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			q := handler.SearchQuery{
				From:         c.String("from"),
				To:           c.String("to"),
				DepartAfter:  c.String("depart-after"),
				ArriveBefore: c.String("arrive-before"),
				Days:         c.String("days"),
				Train:        c.String("train"),
				MaxFirst:     c.String("max-first"),
				MaxSecond:    c.String("max-second"),
				Sort:         c.String("sort"),
			}
			if c.IsSet("next-day") {
				nextDay := c.Bool("next-day")
				q.NextDay = &nextDay
			}
			criteria, key, err := q.Criteria()
			if err != nil {
				return err
			}

			maxLegs := e.cfg.Search.MaxLegs
			if c.IsSet("max-legs") {
				maxLegs = c.Int("max-legs")
			}
			search := service.NewSearchService(nil, maxLegs, e.log)
			loader, err := e.loader(c.Context, c.String("csv"), false, search)
			if err != nil {
				return err
			}
			if _, err := loader.Load(c.Context); err != nil {
				return err
			}

			trips, err := search.Search(c.Context, criteria)
			if err != nil {
				return err
			}
			service.SortTrips(trips, key)

			fmt.Fprint(c.App.Writer, service.FormatSummary(trips, key))
			for _, t := range trips {
				fmt.Fprintln(c.App.Writer)
				fmt.Fprint(c.App.Writer, service.FormatTrip(t))
			}
			return nil
		},
	}
}

func connectionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "connections",
		Usage: "List the schedule catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "csv", Usage: "Read a CSV file instead of the database"},
			&cli.StringFlag{Name: "format", Usage: "table or csv", Value: "table"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			search := service.NewSearchService(nil, e.cfg.Search.MaxLegs, e.log)
			loader, err := e.loader(c.Context, c.String("csv"), false, search)
			if err != nil {
				return err
			}
			cat, err := loader.Load(c.Context)
			if err != nil {
				return err
			}

			switch c.String("format") {
			case "csv":
				return ingest.WriteConnections(c.App.Writer, cat.All())
			case "table":
				return writeTable(c.App.Writer, cat)
			default:
				return fmt.Errorf("unknown format %q", c.String("format"))
			}
		},
	}
}

func writeTable(out io.Writer, cat *catalog.Catalog) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROUTE\tFROM\tTO\tDEPART\tARRIVE\tTRAIN\tDAYS\tFIRST\tSECOND")
	for _, conn := range cat.All() {
		arrive := conn.Arrival.Time.String()
		if conn.Arrival.NextDay {
			arrive += " (+1d)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			conn.RouteID, conn.Departure.City, conn.Arrival.City, conn.Departure.Time, arrive,
			conn.Train, conn.Days().Describe(),
			conn.Rates.FirstClass.StringFixed(2), conn.Rates.SecondClass.StringFixed(2))
	}
	return w.Flush()
}
