// Package artifact maps logical storage references to local filesystem
// paths and fetches remote parser code into the local cache.
package artifact

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Scheme prefixes logical store references, e.g. store://incoming/a.xml.
const Scheme = "store://"

// Locator translates artifact references to paths under a fixed local root.
// Resolution is pure: no I/O, same ref always yields the same path.
type Locator struct {
	root string
}

func NewLocator(root string) *Locator { return &Locator{root: root} }

// Resolve maps a store:// reference to a path under the artifact root.
// References without the scheme are treated as local paths and pass through
// unchanged, which also makes Resolve idempotent.
func (l *Locator) Resolve(ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", errors.New("artifact: empty reference")
	}
	if !strings.HasPrefix(ref, Scheme) {
		return ref, nil
	}
	rest := strings.Trim(strings.TrimPrefix(ref, Scheme), "/")
	if rest == "" {
		return "", fmt.Errorf("artifact: malformed reference %q", ref)
	}
	return filepath.Join(l.root, filepath.FromSlash(rest)), nil
}
