package status

import (
	"errors"
	"fmt"
	"strings"
)

const (
	queryErrorTemplateConstant         = "unable to read status for %s: %v"
	noRepositoriesFoundMessageConstant = "no repositories found"
	noRepositoriesFoundErrorTemplate   = "no repositories found in: %s"
	rootListSeparatorConstant          = ", "
	repositoryLocatorMissingMessage    = "repository locator not configured"
	statusProviderMissingMessage       = "status provider not configured"
	reportOutputMissingMessage         = "report output not configured"
)

// ErrNoRepositoriesFound matches NoRepositoriesFoundError through errors.Is.
var ErrNoRepositoriesFound = errors.New(noRepositoriesFoundMessageConstant)

// ErrRepositoryLocatorNotConfigured indicates a missing repository locator.
var ErrRepositoryLocatorNotConfigured = errors.New(repositoryLocatorMissingMessage)

// ErrStatusProviderNotConfigured indicates a missing status provider.
var ErrStatusProviderNotConfigured = errors.New(statusProviderMissingMessage)

// ErrReportOutputNotConfigured indicates a missing report writer.
var ErrReportOutputNotConfigured = errors.New(reportOutputMissingMessage)

// QueryError reports a repository whose status could not be read. The repository is left out of the report.
type QueryError struct {
	Path string
	Err  error
}

// Error implements error.
func (queryError QueryError) Error() string {
	return fmt.Sprintf(queryErrorTemplateConstant, queryError.Path, queryError.Err)
}

// Unwrap exposes the provider failure.
func (queryError QueryError) Unwrap() error {
	return queryError.Err
}

// NoRepositoriesFoundError lists the roots that produced no repository to report.
type NoRepositoriesFoundError struct {
	Roots []string
}

// Error implements error.
func (notFound NoRepositoriesFoundError) Error() string {
	return fmt.Sprintf(noRepositoriesFoundErrorTemplate, strings.Join(notFound.Roots, rootListSeparatorConstant))
}

// Unwrap allows errors.Is(err, ErrNoRepositoriesFound).
func (notFound NoRepositoriesFoundError) Unwrap() error {
	return ErrNoRepositoriesFound
}
