package main

import (
	"fmt"
	"os"

	"cosponsor_spider/internal/app"
	"cosponsor_spider/internal/config"
	"cosponsor_spider/internal/correction"
	"cosponsor_spider/internal/db"
	"cosponsor_spider/internal/logger"
	"cosponsor_spider/internal/report"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configFile string
	debug      bool
}

// runFlags are shared by run and export; each one overrides the config file
// only when set on the command line.
type runFlags struct {
	session     int
	maxBills    int
	chamber     string
	outDir      string
	format      string
	workers     int
	save        bool
	restore     bool
	corrections string
	interactive bool
	summary     int
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "cosponsor-spider",
		Short:         "Crawl bill pages and export cosponsorship tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&rf.configFile, "config", "", "YAML config file")
	cmd.PersistentFlags().BoolVar(&rf.debug, "debug", false, "debug logging")

	cmd.AddCommand(newRunCmd(rf), newExportCmd(rf))
	return cmd
}

func newRunCmd(rf *rootFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch a session's bills and write the three output files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, rf, f, app.RunOptions{Restore: f.restore, Save: f.save})
		},
	}
	addSessionFlags(cmd, f)
	cmd.Flags().IntVar(&f.maxBills, "max-bills", 0, "highest bill number to fetch")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "pages fetched concurrently")
	cmd.Flags().BoolVar(&f.save, "save", false, "save a snapshot after fetching")
	cmd.Flags().BoolVar(&f.restore, "restore", false, "load the snapshot instead of fetching")
	return cmd
}

func newExportCmd(rf *rootFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the output files from a saved snapshot without fetching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, rf, f, app.RunOptions{Restore: true})
		},
	}
	addSessionFlags(cmd, f)
	return cmd
}

func addSessionFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().IntVar(&f.session, "session", 0, "session number, e.g. 111")
	cmd.Flags().StringVar(&f.chamber, "chamber", "", "senate or house")
	cmd.Flags().StringVar(&f.outDir, "out", "", "output directory")
	cmd.Flags().StringVar(&f.format, "format", "", "output format: matlab, csv or json")
	cmd.Flags().StringVar(&f.corrections, "corrections", "", "YAML file of party/state corrections")
	cmd.Flags().BoolVar(&f.interactive, "interactive", false, "prompt for every politician's party and state")
	cmd.Flags().IntVar(&f.summary, "summary", 0, "print the top N politicians when done")
}

// loadConfig merges the config file with the flags. A fetching run also
// needs the highest bill number.
func loadConfig(cmd *cobra.Command, rf *rootFlags, f *runFlags, fetching bool) (*config.SpiderConfig, error) {
	cfg, err := config.LoadConfig(rf.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("session") {
		cfg.Session = f.session
	}
	if flags.Changed("max-bills") {
		cfg.MaxBills = f.maxBills
	}
	if flags.Changed("chamber") {
		cfg.Source.Chamber = f.chamber
	}
	if flags.Changed("out") {
		cfg.Output.Dir = f.outDir
	}
	if flags.Changed("format") {
		cfg.Output.Format = f.format
	}
	if flags.Changed("workers") {
		cfg.Logic.MaxConcurrentWorkers = f.workers
	}
	if rf.debug {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}

	*cfg = cfg.WithDefaults()
	if cfg.Session <= 0 {
		return nil, fmt.Errorf("a session number is required")
	}
	if fetching && cfg.MaxBills <= 0 {
		return nil, fmt.Errorf("a maximum bill number is required to fetch")
	}
	return cfg, cfg.Validate()
}

func corrections(f *runFlags) (correction.Provider, error) {
	var chain correction.Chain
	if f.corrections != "" {
		static, err := correction.LoadFile(f.corrections)
		if err != nil {
			return nil, err
		}
		chain = append(chain, static)
	}
	if f.interactive {
		chain = append(chain, correction.NewPrompt(os.Stdin, os.Stdout))
	}
	if len(chain) == 0 {
		return nil, nil
	}
	return chain, nil
}

func execute(cmd *cobra.Command, rf *rootFlags, f *runFlags, opts app.RunOptions) error {
	cfg, err := loadConfig(cmd, rf, f, !opts.Restore)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	provider, err := corrections(f)
	if err != nil {
		return err
	}
	appOpts := []app.Option{}
	if provider != nil {
		appOpts = append(appOpts, app.WithCorrections(provider))
	}
	if opts.Save || opts.Restore {
		store, err := db.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer store.Close()
		appOpts = append(appOpts, app.WithStore(store))
	}

	spider, err := app.NewSpiderApp(cfg, log, appOpts...)
	if err != nil {
		return err
	}

	st, _, err := spider.Run(cmd.Context(), opts)
	if err != nil {
		log.Error("Run failed", logger.Error(err))
		return err
	}

	if f.summary > 0 {
		report.Render(cmd.OutOrStdout(), report.Summary{
			Chamber:     st.Chamber,
			Session:     st.Session,
			Bills:       len(st.Bills),
			Failed:      st.Failed,
			Politicians: st.Roster.Sorted(),
		}, f.summary)
	}
	return nil
}
