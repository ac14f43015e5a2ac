package status

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/temirov/vcstat/internal/repos/shared"
	"github.com/temirov/vcstat/internal/report"
)

const (
	defaultRootConstant                = "."
	groupSeparatorConstant             = "\n"
	queryWarningTemplateConstant       = "warning: %s\n"
	locateRootErrorTemplateConstant    = "locate repositories under %s: %w"
	collectStatusErrorTemplateConstant = "collect repository status under %s: %w"
	writeReportErrorTemplateConstant   = "write report: %w"
	rootScannedMessageConstant         = "root scanned"
	rootEmptyMessageConstant           = "no repositories to report under root"
	queryFailedMessageConstant         = "repository status unavailable"
	logFieldRootConstant               = "root"
	logFieldDiscoveredConstant         = "discovered"
	logFieldReportedConstant           = "reported"
	logFieldFailedConstant             = "failed"
)

// Options configures a single run.
type Options struct {
	Roots     []string
	Detail    bool
	DirtyOnly bool
	ShowAll   bool
	Untracked bool
}

// StatusCollector queries a set of repositories.
type StatusCollector interface {
	Collect(executionContext context.Context, repositories []shared.RepositoryHandle) (CollectionResult, error)
}

// ServiceDependencies enumerates the collaborators required by Service.
type ServiceDependencies struct {
	Locator   shared.RepositoryLocator
	Collector StatusCollector
	Formatter report.Formatter
	Output    io.Writer
	Warnings  shared.Reporter
	Logger    *zap.Logger
}

// Service prints repository status groups, one per root.
type Service struct {
	locator   shared.RepositoryLocator
	collector StatusCollector
	formatter report.Formatter
	output    io.Writer
	warnings  shared.Reporter
	logger    *zap.Logger
}

// NewService validates dependencies and constructs a Service. Warnings default to standard error.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Locator == nil {
		return nil, ErrRepositoryLocatorNotConfigured
	}
	if dependencies.Collector == nil {
		return nil, ErrStatusProviderNotConfigured
	}
	if dependencies.Output == nil {
		return nil, ErrReportOutputNotConfigured
	}
	warnings := dependencies.Warnings
	if warnings == nil {
		warnings = shared.NewWriterReporter(nil)
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		locator:   dependencies.Locator,
		collector: dependencies.Collector,
		formatter: dependencies.Formatter,
		output:    dependencies.Output,
		warnings:  warnings,
		logger:    logger,
	}, nil
}

// Run scans every root in order and prints one group per root that has repositories to report.
// Roots without any reported repository print nothing; once every root has been processed they are
// returned together as NoRepositoriesFoundError.
func (service *Service) Run(executionContext context.Context, options Options) error {
	roots := options.Roots
	if len(roots) == 0 {
		roots = []string{defaultRootConstant}
	}

	filter := Filter{DirtyOnly: options.DirtyOnly, ShowAll: options.ShowAll, Untracked: options.Untracked}
	layout := filter.Layout(options.Detail)

	var emptyRoots []string
	printedGroups := 0

	for _, root := range roots {
		group, hasEntries, groupError := service.buildGroup(executionContext, root, filter)
		if groupError != nil {
			return groupError
		}
		if !hasEntries {
			emptyRoots = append(emptyRoots, root)
			continue
		}

		if printedGroups > 0 {
			if _, writeError := io.WriteString(service.output, groupSeparatorConstant); writeError != nil {
				return fmt.Errorf(writeReportErrorTemplateConstant, writeError)
			}
		}
		if _, writeError := io.WriteString(service.output, group.Render(service.formatter, layout)); writeError != nil {
			return fmt.Errorf(writeReportErrorTemplateConstant, writeError)
		}
		printedGroups++
	}

	if len(emptyRoots) > 0 {
		return NoRepositoriesFoundError{Roots: emptyRoots}
	}
	return nil
}

func (service *Service) buildGroup(executionContext context.Context, root string, filter Filter) (report.Group, bool, error) {
	repositories, locateError := service.locator.Locate(executionContext, root)
	if locateError != nil {
		return report.Group{}, false, fmt.Errorf(locateRootErrorTemplateConstant, root, locateError)
	}

	collection, collectError := service.collector.Collect(executionContext, repositories)
	if collectError != nil {
		return report.Group{}, false, fmt.Errorf(collectStatusErrorTemplateConstant, root, collectError)
	}

	for _, failure := range collection.Failures {
		service.warnings.Printf(queryWarningTemplateConstant, failure.Error())
		service.logger.Warn(queryFailedMessageConstant, zap.String(logFieldRepositoryConstant, failure.Path), zap.Error(failure.Err))
	}

	reportedRows := lo.Filter(collection.Rows, func(row report.Row, _ int) bool {
		return filter.Included(row.Status)
	})

	service.logger.Debug(
		rootScannedMessageConstant,
		zap.String(logFieldRootConstant, root),
		zap.Int(logFieldDiscoveredConstant, len(repositories)),
		zap.Int(logFieldReportedConstant, len(reportedRows)),
		zap.Int(logFieldFailedConstant, len(collection.Failures)),
	)

	if len(reportedRows) == 0 {
		service.logger.Info(rootEmptyMessageConstant, zap.String(logFieldRootConstant, root))
		return report.Group{}, false, nil
	}
	return report.NewGroup(root, reportedRows), true, nil
}
