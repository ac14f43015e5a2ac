package status_test

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/temirov/vcstat/internal/repos/shared"
)

type stubRepositoryLocator struct {
	repositoriesByRoot map[string][]shared.RepositoryHandle
	errorsByRoot       map[string]error
	requestedRoots     []string
}

func (locator *stubRepositoryLocator) Locate(_ context.Context, root string) ([]shared.RepositoryHandle, error) {
	locator.requestedRoots = append(locator.requestedRoots, root)
	if locateError, found := locator.errorsByRoot[root]; found {
		return nil, locateError
	}
	return locator.repositoriesByRoot[root], nil
}

// stubStatusProvider answers from statuses keyed by repository directory name.
type stubStatusProvider struct {
	statuses map[string]shared.RepositoryStatus
	failures map[string]error
	release  chan struct{}
	delay    time.Duration

	mutex       sync.Mutex
	calls       map[string]int
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (provider *stubStatusProvider) IsDirty(executionContext context.Context, repositoryPath string) (bool, error) {
	provider.record("IsDirty")
	provider.enter()
	defer provider.inFlight.Add(-1)

	if provider.release != nil {
		<-provider.release
	}
	if provider.delay > 0 {
		time.Sleep(provider.delay)
	}
	if failure, found := provider.failures[filepath.Base(repositoryPath)]; found {
		return false, failure
	}
	return provider.statuses[filepath.Base(repositoryPath)].Dirty, nil
}

func (provider *stubStatusProvider) CurrentBranch(_ context.Context, repositoryPath string) (string, error) {
	provider.record("CurrentBranch")
	return provider.statuses[filepath.Base(repositoryPath)].Branch, nil
}

func (provider *stubStatusProvider) UntrackedFiles(_ context.Context, repositoryPath string) ([]string, error) {
	provider.record("UntrackedFiles")
	return provider.statuses[filepath.Base(repositoryPath)].UntrackedFiles, nil
}

func (provider *stubStatusProvider) ShortStatus(_ context.Context, repositoryPath string) ([]string, error) {
	provider.record("ShortStatus")
	return provider.statuses[filepath.Base(repositoryPath)].ShortStatus, nil
}

func (provider *stubStatusProvider) record(operation string) {
	provider.mutex.Lock()
	defer provider.mutex.Unlock()
	if provider.calls == nil {
		provider.calls = make(map[string]int)
	}
	provider.calls[operation]++
}

func (provider *stubStatusProvider) callCount(operation string) int {
	provider.mutex.Lock()
	defer provider.mutex.Unlock()
	return provider.calls[operation]
}

func (provider *stubStatusProvider) enter() {
	current := provider.inFlight.Add(1)
	for {
		observed := provider.maxInFlight.Load()
		if current <= observed || provider.maxInFlight.CompareAndSwap(observed, current) {
			return
		}
	}
}

type snapshotStatusProvider struct {
	stubStatusProvider
}

func (provider *snapshotStatusProvider) Snapshot(_ context.Context, repositoryPath string) (shared.RepositoryStatus, error) {
	provider.record("Snapshot")
	if failure, found := provider.failures[filepath.Base(repositoryPath)]; found {
		return shared.RepositoryStatus{}, failure
	}
	return provider.statuses[filepath.Base(repositoryPath)], nil
}
