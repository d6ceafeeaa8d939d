package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/energy-mock/internal/config"
	"github.com/ougirez/energy-mock/internal/pkg/constants"
	"github.com/ougirez/energy-mock/internal/pkg/logger"
	"github.com/ougirez/energy-mock/internal/pkg/store"
	"github.com/ougirez/energy-mock/internal/pkg/store/xpgx"
	"github.com/ougirez/energy-mock/internal/service/house"
	"github.com/ougirez/energy-mock/internal/service/importer"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const usage = `Usage: importer [options]

Options:
  --force            delete existing rows of a house and import it again
  --house=XXXXX      import only this house id (e.g. --house=2025080001)
  --data-dir=DIR     directory holding the per-house CSV files
  --help             show this help
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func newFlagSet(stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("importer", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	fs.Bool("force", false, "delete existing rows before importing")
	fs.String("house", "", "import only this house id")
	fs.String("data-dir", "", "directory holding the per-house CSV files")

	return fs
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if err := v.BindPFlag(constants.ViperImportForceKey, fs.Lookup("force")); err != nil {
		return err
	}
	if err := v.BindPFlag(constants.ViperImportHouseKey, fs.Lookup("house")); err != nil {
		return err
	}
	if fs.Changed("data-dir") {
		if err := v.BindPFlag(constants.ViperCSVDataDirKey, fs.Lookup("data-dir")); err != nil {
			return err
		}
	}
	return nil
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(stdout, usage)
			return 0
		}
		return 2
	}

	v := viper.New()
	if err := config.Bind(v); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if err := bindFlags(v, fs); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if err := cfg.ValidateDB(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogDevelopment); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := importAll(ctx, cfg, v, stdout); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	return 0
}

func importAll(ctx context.Context, cfg *config.Config, v *viper.Viper, stdout io.Writer) error {
	locator, err := house.NewLocator(cfg.HouseEncoding, cfg.HousePrefix, cfg.HouseMarker)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "Connecting to database...")
	pool, err := xpgx.Connect(ctx, cfg.DB, 30*time.Second)
	if err != nil {
		return fmt.Errorf("xpgx.Connect: %w", err)
	}
	defer pool.Close()
	fmt.Fprintln(stdout, "Connected!")

	im := importer.NewImporter(cfg.DataDir, locator, store.NewStore(pool), progressPrinter(stdout))

	summary, err := im.Run(ctx, importer.Options{
		House: v.GetString(constants.ViperImportHouseKey),
		Force: v.GetBool(constants.ViperImportForceKey),
	})
	if err != nil {
		return err
	}

	printSummary(stdout, summary)
	return nil
}

// progressPrinter rewrites one line per house and ends it when the house is done.
func progressPrinter(w io.Writer) importer.ProgressFunc {
	return func(p importer.Progress) {
		fmt.Fprintf(w, "\r  Inserted %d/%d rows", p.Inserted, p.Total)
		if p.Inserted == p.Total {
			fmt.Fprintln(w)
		}
	}
}

func printSummary(w io.Writer, s *importer.Summary) {
	for _, r := range s.Skipped {
		if r.Reason == importer.ReasonAlreadyImported {
			fmt.Fprintf(w, "Skipped %s: %d rows already exist (use --force to overwrite)\n", r.HouseID, r.Existing)
			continue
		}
		fmt.Fprintf(w, "Skipped %s: %s\n", r.File, r.Reason)
	}
	fmt.Fprintf(w, "\nImport completed! %d imported, %d skipped\n", len(s.Imported), len(s.Skipped))
}
