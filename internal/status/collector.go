package status

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/vcstat/internal/repos/shared"
	"github.com/temirov/vcstat/internal/report"
)

const (
	// DefaultConcurrencyConstant bounds the number of repositories queried at once.
	DefaultConcurrencyConstant = 8
	// DefaultQueryTimeoutConstant bounds a single repository query.
	DefaultQueryTimeoutConstant = 30 * time.Second

	queryStartedMessageConstant   = "querying repository status"
	queryCompletedMessageConstant = "repository status captured"
	logFieldRepositoryConstant    = "repository"
	logFieldDirtyConstant         = "dirty"
	logFieldBranchConstant        = "branch"
	logFieldUntrackedConstant     = "untracked"
)

// CollectorConfiguration tunes a Collector.
type CollectorConfiguration struct {
	Concurrency  int
	QueryTimeout time.Duration
	Logger       *zap.Logger
}

// CollectionResult holds the repositories whose status was captured, in input order,
// and the repositories whose query failed.
type CollectionResult struct {
	Rows     []report.Row
	Failures []QueryError
}

// Collector queries repositories through a StatusProvider using a bounded pool of workers.
type Collector struct {
	provider     shared.StatusProvider
	concurrency  int
	queryTimeout time.Duration
	logger       *zap.Logger
}

type queryOutcome struct {
	status shared.RepositoryStatus
	err    error
}

// NewCollector constructs a Collector. Non-positive limits fall back to the defaults.
func NewCollector(provider shared.StatusProvider, configuration CollectorConfiguration) (*Collector, error) {
	if provider == nil {
		return nil, ErrStatusProviderNotConfigured
	}
	concurrency := configuration.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrencyConstant
	}
	queryTimeout := configuration.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeoutConstant
	}
	logger := configuration.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{provider: provider, concurrency: concurrency, queryTimeout: queryTimeout, logger: logger}, nil
}

// Collect queries every repository exactly once. A failed or timed-out query is recorded as a
// QueryError and does not stop the others; only cancellation of executionContext aborts the
// collection.
func (collector *Collector) Collect(executionContext context.Context, repositories []shared.RepositoryHandle) (CollectionResult, error) {
	outcomes := make([]queryOutcome, len(repositories))

	workerGroup := errgroup.Group{}
	workerGroup.SetLimit(collector.concurrency)

	for repositoryIndex := range repositories {
		if executionContext.Err() != nil {
			break
		}
		workerGroup.Go(func() error {
			outcomes[repositoryIndex] = collector.queryWithTimeout(executionContext, repositories[repositoryIndex])
			return nil
		})
	}
	_ = workerGroup.Wait()

	if contextError := executionContext.Err(); contextError != nil {
		return CollectionResult{}, contextError
	}

	result := CollectionResult{}
	for repositoryIndex, outcome := range outcomes {
		repository := repositories[repositoryIndex]
		if outcome.err != nil {
			result.Failures = append(result.Failures, QueryError{Path: repository.Path(), Err: outcome.err})
			continue
		}
		result.Rows = append(result.Rows, report.Row{Handle: repository, Status: outcome.status})
	}
	return result, nil
}

func (collector *Collector) queryWithTimeout(executionContext context.Context, repository shared.RepositoryHandle) queryOutcome {
	queryContext, cancel := context.WithTimeout(executionContext, collector.queryTimeout)
	defer cancel()

	collector.logger.Debug(queryStartedMessageConstant, zap.String(logFieldRepositoryConstant, repository.Path()))

	outcomeChannel := make(chan queryOutcome, 1)
	go func() {
		repositoryStatus, queryError := collector.query(queryContext, repository.Path())
		outcomeChannel <- queryOutcome{status: repositoryStatus, err: queryError}
	}()

	select {
	case outcome := <-outcomeChannel:
		if outcome.err == nil {
			collector.logger.Debug(
				queryCompletedMessageConstant,
				zap.String(logFieldRepositoryConstant, repository.Path()),
				zap.Bool(logFieldDirtyConstant, outcome.status.Dirty),
				zap.String(logFieldBranchConstant, outcome.status.Branch),
				zap.Int(logFieldUntrackedConstant, outcome.status.UntrackedCount()),
			)
		}
		return outcome
	case <-queryContext.Done():
		return queryOutcome{err: queryContext.Err()}
	}
}

// query prefers a single snapshot call and otherwise asks each question once.
func (collector *Collector) query(queryContext context.Context, repositoryPath string) (shared.RepositoryStatus, error) {
	if snapshotProvider, supportsSnapshot := collector.provider.(shared.SnapshotProvider); supportsSnapshot {
		return snapshotProvider.Snapshot(queryContext, repositoryPath)
	}

	dirty, dirtyError := collector.provider.IsDirty(queryContext, repositoryPath)
	if dirtyError != nil {
		return shared.RepositoryStatus{}, dirtyError
	}
	branchName, branchError := collector.provider.CurrentBranch(queryContext, repositoryPath)
	if branchError != nil {
		return shared.RepositoryStatus{}, branchError
	}
	untrackedFiles, untrackedError := collector.provider.UntrackedFiles(queryContext, repositoryPath)
	if untrackedError != nil {
		return shared.RepositoryStatus{}, untrackedError
	}
	shortStatus, shortStatusError := collector.provider.ShortStatus(queryContext, repositoryPath)
	if shortStatusError != nil {
		return shared.RepositoryStatus{}, shortStatusError
	}

	return shared.RepositoryStatus{
		Dirty:          dirty,
		Branch:         branchName,
		UntrackedFiles: untrackedFiles,
		ShortStatus:    shortStatus,
	}, nil
}
