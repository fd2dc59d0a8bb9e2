package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/lib/logger"
	"yamdb/proj/internal/storage/postgres"
	pgmodels "yamdb/proj/internal/storage/postgres/models"

	"github.com/fatih/color"
)

type entryLister interface {
	Entities() []string
	Entries(ctx context.Context, entity string) ([]models.AdminEntry, error)
}

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config path] <entity>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	storage, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		log.Error("failed to connect to database", "errMsg", err.Error())
		os.Exit(1)
	}
	defer storage.Close()

	if err := run(ctx, os.Stdout, pgmodels.New(storage).Admin, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString(err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, lister entryLister, entity string) error {
	entities := lister.Entities()
	if !slices.Contains(entities, entity) {
		return fmt.Errorf("unknown entity %q, expected one of: %s", entity, strings.Join(entities, ", "))
	}
	entries, err := lister.Entries(ctx, entity)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, color.New(color.Bold).Sprint("ID")+"\t"+color.New(color.Bold).Sprint(strings.ToUpper(entity)))
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\n", e.ID, e.Display)
	}
	fmt.Fprintf(tw, "\n%d rows\n", len(entries))
	return tw.Flush()
}
