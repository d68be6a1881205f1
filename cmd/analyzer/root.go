package main

import (
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/Da050/Data-Analyzer-Pro/config"
	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/pkg/log"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	cfgFile  string
	logLevel string

	cfg     *config.Config
	session string
	logger  log.Logger
	logOut  io.Writer
}

// newRootCmd builds the command tree; logs go to logOut.
func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{logOut: logOut}
	root := &cobra.Command{
		Use:           "analyzer",
		Short:         "Profile tabular data and train supervised models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ./analyzer.yaml or ~/.analyzer/analyzer.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(newAnalyzeCmd(a), newTrainCmd(a), newSampleCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	c, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		c.LogLevel = a.logLevel
	}
	if err := log.SetupLogger(c.LogLevel, a.logOut); err != nil {
		return err
	}
	a.cfg = c
	a.session = uuid.NewString()
	a.logger = log.GetLoggerWithName("cli").With(log.SessionIDKey, a.session)
	a.logger.Debug("Command started", log.OperationKey, cmd.Name())
	return nil
}

// input selects a table source: a delimited file, or a SQLite query.
type input struct {
	sqlitePath string
	query      string
}

func (in *input) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.sqlitePath, "sqlite", "", "read from this SQLite database instead of a file")
	cmd.Flags().StringVar(&in.query, "query", "", "SQL query to run with --sqlite")
}

func (in *input) load(ctx context.Context, args []string, maxRows int) (*dataset.Table, error) {
	if in.sqlitePath != "" {
		if in.query == "" {
			return nil, errors.NewValidationError("query", "required with --sqlite", "")
		}
		db, err := sql.Open("sqlite3", in.sqlitePath)
		if err != nil {
			return nil, errors.Wrap(err, "open sqlite")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return nil, errors.Wrapf(err, "connect %s", filepath.Base(in.sqlitePath))
		}
		t, err := dataset.QuerySQL(db, in.query)
		if err != nil {
			return nil, err
		}
		if maxRows > 0 {
			t = t.Head(maxRows)
		}
		return t, nil
	}
	if len(args) == 0 {
		return nil, errors.NewValidationError("file", "a data file or --sqlite is required", "")
	}
	return dataset.LoadFile(args[0], dataset.CSVOptions{MaxRows: maxRows})
}

// writePNG creates dir/name and renders into it.
func writePNG(dir, name string, draw func(io.Writer) error) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create plot dir")
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return errors.Wrap(err, "create plot")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close plot")
		}
	}()
	return draw(f)
}
