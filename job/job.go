package job

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gobuffalo/buffalo/worker"

	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/log"
)

const (
	handlerKey = "job_handler"
	argJobType = "job_type"
	queueName  = "default"
)

// job types
const (
	ReleaseStaleLocks    = "release_stale_locks"
	ReconcileFundPayouts = "reconcile_fund_payouts"
)

// StaleLockReleaser returns claims whose settlement lock is older than the timeout to a retryable status
type StaleLockReleaser interface {
	ReleaseStale(ctx context.Context, timeout time.Duration) (int, error)
}

// FundReconciler retries the guarantee-fund ledger entry of paid claims flagged for reconciliation
type FundReconciler interface {
	ReconcileFundPayouts(ctx context.Context) (int, error)
}

// Services are the settlement operations run in the background
type Services struct {
	Locks StaleLockReleaser
	Fund  FundReconciler
}

var (
	w        *worker.Worker
	services Services
)

var handlers = map[string]func(worker.Args) error{
	ReleaseStaleLocks:    releaseStaleLocksHandler,
	ReconcileFundPayouts: reconcileFundPayoutsHandler,
}

// Init registers the job handler and schedules the first run of each periodic job
func Init(appWorker *worker.Worker, s Services) {
	w = appWorker
	services = s
	if err := (*w).Register(handlerKey, mainHandler); err != nil {
		log.Errorf("error registering '%s' handler, %s", handlerKey, err)
	}

	for _, jobType := range []string{ReleaseStaleLocks, ReconcileFundPayouts} {
		if err := SubmitDelayed(jobType, firstRunDelay(), map[string]any{}); err != nil {
			log.Errorf("error scheduling first %s job, %s", jobType, err)
		}
	}
}

// firstRunDelay staggers restarted instances so that they don't all sweep at once
func firstRunDelay() time.Duration {
	if domain.Env.GoEnv == domain.EnvDevelopment {
		return 10 * time.Second
	}
	return time.Duration(domain.RandomInsecureIntInRange(30, 300)) * time.Second
}

func mainHandler(args worker.Args) error {
	jobType, _ := args[argJobType].(string)
	start := time.Now().UTC()
	l := log.WithFields(log.Fields{"job": jobType})

	defer func() {
		if p := recover(); p != nil {
			l.Errorf("job panicked: %v\n%s", p, debug.Stack())
		}
	}()

	handler, ok := handlers[jobType]
	if !ok {
		l.Error("no handler for job type")
		return nil
	}

	l.Info("job started")
	if err := handler(args); err != nil {
		l.Errorf("job failed, %s", err)
	}
	l.Infof("job finished in %s", time.Since(start))
	return nil
}

// SubmitDelayed enqueues a job of the given type to run after delay
func SubmitDelayed(jobType string, delay time.Duration, args map[string]any) error {
	if domain.Env.GoEnv == domain.EnvTest {
		return nil
	}

	if args == nil {
		args = map[string]any{}
	}
	args[argJobType] = jobType
	return (*w).PerformIn(worker.Job{Queue: queueName, Args: args, Handler: handlerKey}, delay)
}
