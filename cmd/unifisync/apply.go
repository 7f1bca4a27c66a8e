package main

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/unifisync/unifisync/internal/config"
	"github.com/unifisync/unifisync/internal/controller"
	"github.com/unifisync/unifisync/internal/engine"
	"github.com/unifisync/unifisync/internal/logger"
	"github.com/unifisync/unifisync/internal/resources"
)

const logFileEnv = "UNIFISYNC_LOG_FILE"

type applyOptions struct {
	ConfigPath string
	Check      bool
	Debug      int
	LogFile    string
}

var applyCmdRunner = runApply

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a declared resource document to the controller",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Debug = root.debug
			opts.LogFile = root.logFile
			if opts.LogFile == "" {
				opts.LogFile = os.Getenv(logFileEnv)
			}

			if err := validateApplyOptions(opts); err != nil {
				return err
			}

			return applyCmdRunner(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the resource document")
	cmd.MarkFlagRequired("config") //nolint:errcheck
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Compute changes without applying them")

	return cmd
}

func runApply(opts applyOptions) error {
	cfg, err := config.ParseConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	level := logger.ParseLevel(opts.Debug)

	var console io.Writer
	if level > logger.LevelDisabled {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	runID := uuid.NewString()

	transportRec, err := logger.New(logger.Options{
		Level:    level,
		Console:  console,
		FilePath: opts.LogFile,
		Fields:   map[string]any{"component": "transport", "run_id": runID},
	})
	if err != nil {
		return err
	}
	defer transportRec.Close()

	engineRec, err := logger.New(logger.Options{
		Level:    level,
		Console:  console,
		FilePath: opts.LogFile,
		Fields:   map[string]any{"component": "engine", "run_id": runID},
	})
	if err != nil {
		return err
	}
	defer engineRec.Close()

	client, err := controller.New(controller.Options{
		BaseURL:            cfg.Controller.URL,
		Username:           cfg.Controller.Username,
		Password:           cfg.Controller.Password,
		InsecureSkipVerify: cfg.Controller.InsecureSkipVerify,
		Timeout:            time.Duration(cfg.Controller.TimeoutSeconds) * time.Second,
		RateLimit:          cfg.Controller.RateLimit,
		Recorder:           transportRec,
	})
	if err != nil {
		return err
	}

	api := controller.NewResources(client)
	rt := &resources.Runtime{
		Client:      client,
		API:         api,
		Rec:         engineRec,
		Reconciler:  engine.New(api, engineRec, opts.Check),
		DefaultSite: cfg.Controller.SiteOrDefault(),
	}

	result := resources.Run(context.Background(), cfg, rt)
	result.RunID = runID
	if transportRec.Enabled() {
		result.Finalize(transportRec.Entries(), engineRec.Entries())
	}

	if err := renderResult(os.Stdout, result); err != nil {
		return err
	}
	if result.Failed {
		return errors.New(result.Msg)
	}
	return nil
}
