package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quantmind-br/reposync/internal/config"
	"github.com/quantmind-br/reposync/internal/domain"
	"github.com/quantmind-br/reposync/internal/utils"
)

// Phase is the lifecycle stage of a batch. A dispatched batch moves
// planning, dispatching, running, drained, even when nothing was
// selected. A dry run or a failed listing skips dispatch and returns from
// planning to idle.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhasePlanning    Phase = "planning"
	PhaseDispatching Phase = "dispatching"
	PhaseRunning     Phase = "running"
	PhaseDrained     Phase = "drained"
)

// Orchestrator runs one sync batch: list, filter, plan, then execute
// every job under a bounded number of permits.
type Orchestrator struct {
	source    domain.Source
	backend   domain.Backend
	recorder  domain.Recorder
	planner   *Planner
	logger    *utils.Logger
	transport domain.Transport
	excludes  []string
	workers   int
	dryRun    bool
	barOutput io.Writer
	onPhase   func(Phase)
	newID     func() string

	mu    sync.Mutex
	phase Phase
	pool  *utils.PermitPool
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	Source    domain.Source
	Backend   domain.Backend
	Recorder  domain.Recorder // optional
	Logger    *utils.Logger
	Transport domain.Transport
	Exclude   []string
	Workers   int
	BaseDir   string
	DryRun    bool
	// ProgressOutput enables a progress bar written to the given writer
	ProgressOutput io.Writer
	// OnPhase is called on every phase transition
	OnPhase func(Phase)
	// BatchID overrides the generated batch identifier
	BatchID func() string
}

// NewOrchestrator validates the options and creates an orchestrator.
// An out-of-range worker count is rejected here, before any job exists.
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if opts.Backend == nil && !opts.DryRun {
		return nil, fmt.Errorf("backend is required")
	}
	if err := config.ValidateWorkers(opts.Workers); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	transport := opts.Transport
	if transport == "" {
		transport = domain.TransportSSH
	}

	newID := opts.BatchID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Orchestrator{
		source:    opts.Source,
		backend:   opts.Backend,
		recorder:  opts.Recorder,
		planner:   NewPlanner(opts.BaseDir),
		logger:    logger.WithComponent("orchestrator"),
		transport: transport,
		excludes:  opts.Exclude,
		workers:   opts.Workers,
		dryRun:    opts.DryRun,
		barOutput: opts.ProgressOutput,
		onPhase:   opts.OnPhase,
		newID:     newID,
		phase:     PhaseIdle,
	}, nil
}

// Phase returns the current lifecycle stage
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// PeakInUse returns the highest number of jobs that ran at once during
// the last batch
func (o *Orchestrator) PeakInUse() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pool == nil {
		return 0
	}
	return o.pool.Peak()
}

func (o *Orchestrator) setPhase(p Phase) {
	o.mu.Lock()
	o.phase = p
	o.mu.Unlock()

	o.logger.Debug().Str("phase", string(p)).Msg("Batch phase changed")
	if o.onPhase != nil {
		o.onPhase(p)
	}
}

// Run executes a batch. A returned error means the batch could not start
// (listing, parsing or configuration failure). Individual job failures are
// reported in the Report and never abort the batch.
func (o *Orchestrator) Run(ctx context.Context) (*domain.Report, error) {
	start := time.Now()
	batchID := o.newID()
	log := o.logger.WithBatch(batchID)

	o.setPhase(PhasePlanning)

	log.Info().
		Str("source", o.source.Name()).
		Str("transport", string(o.transport)).
		Int("workers", o.workers).
		Msg("Listing repositories")

	descriptors, err := o.source.List(ctx, o.transport)
	if err != nil {
		o.setPhase(PhaseIdle)
		return nil, err
	}

	selected := FilterDescriptors(descriptors, o.excludes)
	log.Info().
		Int("listed", len(descriptors)).
		Int("selected", len(selected)).
		Msg("Filtered repositories")

	report := &domain.Report{
		BatchID:  batchID,
		Total:    len(selected),
		DryRun:   o.dryRun,
		Selected: selected,
	}

	if o.dryRun {
		report.Duration = time.Since(start)
		o.setPhase(PhaseIdle)
		return report, nil
	}

	jobs := o.planner.PlanAll(selected)
	results := o.dispatch(ctx, log, batchID, jobs)

	report.Results = results
	for _, res := range results {
		report.Completed++
		if res.OK() {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	report.Duration = time.Since(start)

	log.Info().
		Int("total", report.Total).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("Batch finished")

	return report, nil
}

// dispatch runs every job and blocks until all of them have finished.
// Jobs run on a context detached from ctx's cancellation: once dispatched,
// a batch always drains.
func (o *Orchestrator) dispatch(ctx context.Context, log *utils.Logger, batchID string, jobs []domain.Job) []domain.JobResult {
	pool := utils.NewPermitPool(o.workers)
	o.mu.Lock()
	o.pool = pool
	o.mu.Unlock()

	progress := utils.NewProgress(len(jobs))
	if o.barOutput != nil && len(jobs) > 0 {
		progress.WithBar(utils.NewProgressBar(len(jobs), utils.DescSyncing, o.barOutput))
	}
	defer progress.Finish()

	results := make([]domain.JobResult, len(jobs))
	jobCtx := context.WithoutCancel(ctx)

	o.setPhase(PhaseDispatching)
	o.setPhase(PhaseRunning)

	utils.ForEach(jobCtx, pool, jobs, func(ctx context.Context, i int, job domain.Job) error {
		res := domain.JobResult{Job: job}
		started := time.Now()

		defer func() {
			if r := recover(); r != nil {
				res.Err = domain.NewJobError(job.Name(), job.Action, fmt.Errorf("panic: %v", r))
			}
			res.Duration = time.Since(started)
			results[i] = res

			completed, total := progress.Done()
			o.finish(ctx, log, batchID, res, completed, total)
		}()

		log.ForJob(job.Name(), string(job.Action), job.Path).Debug().Msg("Starting job")

		if err := o.execute(ctx, job); err != nil {
			res.Err = domain.NewJobError(job.Name(), job.Action, err)
		}
		return res.Err
	})

	o.setPhase(PhaseDrained)
	if !progress.Drained() {
		completed, total := progress.Snapshot()
		log.Error().Int("completed", completed).Int("total", total).Msg("Progress counter out of step with jobs")
	}

	return results
}

func (o *Orchestrator) execute(ctx context.Context, job domain.Job) error {
	switch job.Action {
	case domain.ActionClone:
		return o.backend.Clone(ctx, job.Descriptor.URL(), job.Path)
	case domain.ActionFetch:
		return o.backend.Fetch(ctx, job.Path)
	default:
		return fmt.Errorf("unknown action %q", job.Action)
	}
}

// finish logs the outcome of one job and hands it to the recorder
func (o *Orchestrator) finish(ctx context.Context, log *utils.Logger, batchID string, res domain.JobResult, completed, total int) {
	jobLog := log.ForJob(res.Job.Name(), string(res.Job.Action), res.Job.Path)

	if res.Err != nil {
		jobLog.Error().
			Err(res.Err).
			Int("completed", completed).
			Int("total", total).
			Msgf("[%d/%d] Failed", completed, total)
	} else {
		ev := jobLog.Info()
		if o.barOutput != nil {
			ev = jobLog.Debug()
		}
		ev.Int("completed", completed).
			Int("total", total).
			Dur("duration", res.Duration).
			Msgf("[%d/%d] Finished", completed, total)
	}

	if o.recorder == nil {
		return
	}
	if err := o.recorder.Record(ctx, batchID, res); err != nil {
		jobLog.Warn().Err(err).Msg("Failed to record job outcome")
	}
}

// Close releases the recorder, if any
func (o *Orchestrator) Close() error {
	if o.recorder == nil {
		return nil
	}
	return o.recorder.Close()
}
