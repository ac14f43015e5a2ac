package pathutils

import (
	"strings"

	"github.com/samber/lo"
)

// DefaultRootConstant is scanned when no root is supplied.
const DefaultRootConstant = "."

// RootResolver turns command arguments and configured roots into the ordered list of roots to scan.
type RootResolver struct {
	expander *HomeExpander
}

// NewRootResolver constructs a RootResolver. A nil expander uses the operating system home directory.
func NewRootResolver(expander *HomeExpander) RootResolver {
	if expander == nil {
		expander = NewHomeExpander()
	}
	return RootResolver{expander: expander}
}

// Resolve prefers explicit arguments over configured roots. Blank entries are dropped, "~" prefixes are
// expanded, and repeated roots are kept once in first-seen order. An empty result yields the current directory.
func (resolver RootResolver) Resolve(arguments []string, configuredRoots []string) []string {
	candidates := arguments
	if len(resolver.normalize(candidates)) == 0 {
		candidates = configuredRoots
	}

	roots := resolver.normalize(candidates)
	if len(roots) == 0 {
		return []string{DefaultRootConstant}
	}
	return roots
}

func (resolver RootResolver) normalize(candidates []string) []string {
	trimmedRoots := lo.FilterMap(candidates, func(candidate string, _ int) (string, bool) {
		trimmedCandidate := strings.TrimSpace(candidate)
		if len(trimmedCandidate) == 0 {
			return "", false
		}
		return resolver.expander.Expand(trimmedCandidate), true
	})
	return lo.Uniq(trimmedRoots)
}
