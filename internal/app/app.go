package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cosponsor_spider/internal/config"
	"cosponsor_spider/internal/correction"
	"cosponsor_spider/internal/cosponsor"
	"cosponsor_spider/internal/db"
	"cosponsor_spider/internal/export"
	"cosponsor_spider/internal/fetcher"
	"cosponsor_spider/internal/logger"
	"cosponsor_spider/internal/models"
	urlqueue "cosponsor_spider/internal/url_queue"
)

// State is everything one run knows about its session.
type State struct {
	Session int
	Chamber models.Chamber
	Bills   []*models.Bill
	Roster  cosponsor.Roster
	Matrix  *cosponsor.Matrix
	Failed  []int
}

func (s *State) snapshot() *db.Snapshot {
	return &db.Snapshot{Chamber: s.Chamber, Session: s.Session, Bills: s.Bills, Politicians: s.Roster}
}

type SpiderApp struct {
	config    *config.SpiderConfig
	log       logger.Logger
	chamber   models.Chamber
	source    fetcher.Source
	parser    *fetcher.Parser
	store     db.Store
	corrector correction.Provider
	exporter  export.Exporter
}

type Option func(*SpiderApp)

// WithSource replaces the engine picked from the config.
func WithSource(s fetcher.Source) Option {
	return func(a *SpiderApp) { a.source = s }
}

func WithStore(s db.Store) Option {
	return func(a *SpiderApp) { a.store = s }
}

func WithCorrections(p correction.Provider) Option {
	return func(a *SpiderApp) { a.corrector = p }
}

func WithExporter(e export.Exporter) Option {
	return func(a *SpiderApp) { a.exporter = e }
}

func NewSpiderApp(cfg *config.SpiderConfig, log logger.Logger, opts ...Option) (*SpiderApp, error) {
	chamber, err := models.ParseChamber(cfg.Source.Chamber)
	if err != nil {
		return nil, err
	}

	a := &SpiderApp{
		config:  cfg,
		log:     log.With(logger.String("chamber", string(chamber)), logger.Int("session", cfg.Session)),
		chamber: chamber,
		parser:  fetcher.NewParser(cfg.Source.Selectors, cfg.Session, chamber),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.source == nil {
		if a.source, err = fetcher.New(cfg); err != nil {
			return nil, err
		}
	}
	if a.exporter == nil {
		if a.exporter, err = export.New(cfg.Output.Format); err != nil {
			return nil, err
		}
	}
	return a, nil
}

type RunOptions struct {
	// Restore loads the bills and politicians from the store instead of fetching.
	Restore bool
	// Save writes the bills and politicians to the store after corrections.
	Save bool
}

// Run executes the whole pipeline and writes the three output files.
func (a *SpiderApp) Run(ctx context.Context, opts RunOptions) (*State, export.Files, error) {
	if (opts.Restore || opts.Save) && a.store == nil {
		return nil, export.Files{}, errors.New("snapshot store not configured")
	}

	var (
		st  *State
		err error
	)
	if opts.Restore {
		st, err = a.Restore(ctx)
	} else {
		st, err = a.Crawl(ctx)
	}
	if err != nil {
		return nil, export.Files{}, err
	}

	if err := a.Correct(st); err != nil {
		return st, export.Files{}, err
	}

	if opts.Save {
		if err := a.store.Save(ctx, st.snapshot()); err != nil {
			return st, export.Files{}, fmt.Errorf("save snapshot: %w", err)
		}
		a.log.Info("Snapshot saved")
	}

	if err := a.Index(st); err != nil {
		return st, export.Files{}, err
	}

	files, err := a.Export(st)
	if err != nil {
		return st, export.Files{}, err
	}
	return st, files, nil
}

// Crawl fetches bills 1..MaxBills and builds the roster from them.
// Pages that fail are logged and skipped unless fail_fast is set; a page
// carrying a different bill number than requested aborts the run.
func (a *SpiderApp) Crawl(ctx context.Context) (*State, error) {
	start := time.Now()
	queue := urlqueue.NewURLQueue(a.config.Source.URLTemplate, a.config.Session, a.chamber, a.config.MaxBills)
	a.log.Info("Starting crawl",
		logger.Int("max_bills", a.config.MaxBills),
		logger.Int("workers", a.config.Logic.MaxConcurrentWorkers))

	workers := newPool(a.config.Logic.MaxConcurrentWorkers)
	bills, err := workers.run(ctx, queue, a.crawlTask(queue))
	if err != nil {
		a.log.Error("Crawl aborted", logger.Int("unfetched", workers.abandoned), logger.Error(err))
		return nil, err
	}

	roster, err := cosponsor.Aggregate(bills)
	if err != nil {
		return nil, err
	}

	st := &State{
		Session: a.config.Session,
		Chamber: a.chamber,
		Bills:   bills,
		Roster:  roster,
		Failed:  queue.FailedNumbers(),
	}
	a.log.Info("Crawl finished",
		logger.Int("bills", len(st.Bills)),
		logger.Int("politicians", len(st.Roster)),
		logger.Ints("failed", st.Failed),
		logger.Duration("elapsed", time.Since(start)))
	return st, nil
}

func (a *SpiderApp) crawlTask(queue *urlqueue.URLQueue) taskFunc {
	return func(ctx context.Context, task urlqueue.Task) (*models.Bill, error) {
		bill, err := a.fetchBill(ctx, task)
		if err == nil {
			a.log.Debug("Bill fetched", logger.Int("number", task.Number), logger.Int("cosponsors", bill.NumCosponsors()))
			return bill, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, fetcher.ErrNumberMismatch) {
			return nil, err
		}

		queue.MarkFailed(task.Number, err.Error())
		a.log.Warn("Skipping bill", logger.Int("number", task.Number), logger.String("url", task.URL), logger.Error(err))
		if a.config.Logic.FailFast {
			return nil, fmt.Errorf("bill %d: %w", task.Number, err)
		}
		return nil, nil
	}
}

func (a *SpiderApp) fetchBill(ctx context.Context, task urlqueue.Task) (*models.Bill, error) {
	body, err := a.source.Fetch(ctx, task.URL)
	if err != nil {
		return nil, err
	}
	bill, err := a.parser.Parse(body, task.URL)
	if err != nil {
		return nil, err
	}
	if bill.Number != task.Number {
		return nil, fmt.Errorf("%w: requested bill %d, page shows %d", fetcher.ErrNumberMismatch, task.Number, bill.Number)
	}
	return bill, nil
}

// Restore rebuilds the state from a saved snapshot.
func (a *SpiderApp) Restore(ctx context.Context) (*State, error) {
	snap, err := a.store.Load(ctx, a.chamber, a.config.Session)
	if err != nil {
		return nil, err
	}
	a.log.Info("Snapshot restored", logger.Int("bills", len(snap.Bills)), logger.Int("politicians", len(snap.Politicians)))

	roster := cosponsor.Roster(snap.Politicians)
	if roster == nil {
		roster = cosponsor.Roster{}
	}
	return &State{
		Session: snap.Session,
		Chamber: snap.Chamber,
		Bills:   snap.Bills,
		Roster:  roster,
	}, nil
}

// Correct applies the configured corrections in name order.
func (a *SpiderApp) Correct(st *State) error {
	if a.corrector == nil {
		return nil
	}
	n, err := correction.Apply(a.corrector, st.Roster.Sorted())
	if err != nil {
		return err
	}
	a.log.Info("Corrections applied", logger.Int("changed", n))
	return nil
}

// Index assigns dense indices and counts the cosponsorship pairs.
func (a *SpiderApp) Index(st *State) error {
	if err := cosponsor.AssignIndices(st.Roster, st.Bills); err != nil {
		return err
	}
	st.Matrix = cosponsor.CountPairs(st.Roster)
	return nil
}

func (a *SpiderApp) Export(st *State) (export.Files, error) {
	files, err := export.WriteAll(a.config.Output.Dir, a.exporter, st.Chamber, st.Session,
		st.Matrix, st.Roster.Sorted(), st.Bills)
	if err != nil {
		return files, err
	}
	a.log.Info("Output written",
		logger.String("format", a.exporter.Name()),
		logger.String("matrix", files.Matrix),
		logger.String("members", files.Politicians),
		logger.String("bills", files.Bills))
	return files, nil
}

func (a *SpiderApp) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
