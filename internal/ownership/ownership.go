// Package ownership applies and inspects file ownership on the shared data
// volume. Keys change hands as they move between author workspaces, staging,
// and the archive, so every move is followed by a recursive chown to the
// owner that controls the destination.
package ownership

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Pair is a uid/gid owner pair.
type Pair struct {
	UID int
	GID int
}

// String renders the pair in chown's uid:gid form.
func (p Pair) String() string {
	return fmt.Sprintf("%d:%d", p.UID, p.GID)
}

// ChownRecursive changes ownership of root and everything below it. Symlinks
// themselves are re-owned, never their targets. The walk continues past
// individual failures and returns the first error encountered.
func ChownRecursive(root string, owner Pair) error {
	var firstErr error
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return nil
		}
		if err := unix.Lchown(path, owner.UID, owner.GID); err != nil {
			if firstErr == nil {
				firstErr = &fs.PathError{Op: "lchown", Path: path, Err: err}
			}
		}
		return nil
	})
	if walkErr != nil {
		return walkErr
	}
	return firstErr
}

// Owner reports the uid/gid owning path.
func Owner(path string) (Pair, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return Pair{}, &fs.PathError{Op: "lstat", Path: path, Err: err}
	}
	return Pair{UID: int(st.Uid), GID: int(st.Gid)}, nil
}

// FromEnv builds a Pair from HOST_UID and HOST_GID, the variables the
// container workflow forwards from the host. Missing or malformed values
// fall back to the provided default.
func FromEnv(fallback Pair) Pair {
	pair := fallback
	if uid, ok := lookupID("HOST_UID"); ok {
		pair.UID = uid
	}
	if gid, ok := lookupID("HOST_GID"); ok {
		pair.GID = gid
	}
	return pair
}

func lookupID(name string) (int, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	var id int
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
