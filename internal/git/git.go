// Package git reads staged changes with go-git so they can be loaded into the
// review buffer without shelling out to the git command-line tool.
package git

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	godiffpatch "github.com/sourcegraph/go-diff-patch"
)

var (
	// ErrNoStagedChanges is returned when nothing is staged.
	ErrNoStagedChanges = errors.New("no staged changes found. Use 'git add' to stage files")
	// ErrNotAGitRepo is returned when the path is not inside a git repository.
	ErrNotAGitRepo = errors.New("not a git repository")
)

// Repository wraps a go-git repository.
type Repository struct {
	repo *git.Repository
}

// Open opens the repository containing path, searching parent directories.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotAGitRepo
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return &Repository{repo: repo}, nil
}

// OpenCurrent opens the repository containing the working directory.
func OpenCurrent() (*Repository, error) {
	return Open(".")
}

// stagedChange is one path whose index entry differs from HEAD.
type stagedChange struct {
	path string
	code git.StatusCode
	hash plumbing.Hash // index blob; zero for deletions
}

func isStaged(s *git.FileStatus) bool {
	return s.Staging != git.Unmodified && s.Staging != git.Untracked
}

// stagedChanges lists staged paths in lexical order.
func (r *Repository) stagedChanges() ([]stagedChange, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("failed to get index: %w", err)
	}

	hashes := make(map[string]plumbing.Hash, len(idx.Entries))
	for _, e := range idx.Entries {
		hashes[e.Name] = e.Hash
	}

	var changes []stagedChange
	for path, s := range status {
		if !isStaged(s) {
			continue
		}
		changes = append(changes, stagedChange{path: path, code: s.Staging, hash: hashes[path]})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].path < changes[j].path })
	return changes, nil
}

// StagedFiles returns the paths with staged changes, sorted.
func (r *Repository) StagedFiles() ([]string, error) {
	changes, err := r.stagedChanges()
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(changes))
	for _, c := range changes {
		files = append(files, c.path)
	}
	return files, nil
}

// StagedDiff returns a unified diff of the staged changes against HEAD.
// In a repository without commits every staged file is treated as new.
func (r *Repository) StagedDiff() (string, error) {
	changes, err := r.stagedChanges()
	if err != nil {
		return "", err
	}
	if len(changes) == 0 {
		return "", ErrNoStagedChanges
	}

	headTree, err := r.headTree()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, c := range changes {
		oldContent, newContent := "", ""
		if headTree != nil && c.code != git.Added {
			if oldContent, err = treeFileContent(headTree, c.path); err != nil {
				return "", fmt.Errorf("failed to read %s at HEAD: %w", c.path, err)
			}
		}
		if c.code != git.Deleted {
			if newContent, err = r.blobContent(c.hash); err != nil {
				return "", fmt.Errorf("failed to read staged %s: %w", c.path, err)
			}
		}

		fmt.Fprintf(&b, "diff --git a/%s b/%s\n", c.path, c.path)
		switch {
		case c.code == git.Deleted:
			b.WriteString("deleted file mode 100644\n")
		case c.code == git.Added || headTree == nil:
			b.WriteString("new file mode 100644\n")
		}
		b.WriteString(godiffpatch.GeneratePatch(c.path, oldContent, newContent))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// headTree returns the tree of HEAD, or nil for a repository without commits.
func (r *Repository) headTree() (*object.Tree, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get head commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get head tree: %w", err)
	}
	return tree, nil
}

func (r *Repository) blobContent(hash plumbing.Hash) (content string, err error) {
	blob, err := r.repo.BlobObject(hash)
	if err != nil {
		return "", err
	}
	reader, err := blob.Reader()
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func treeFileContent(tree *object.Tree, path string) (string, error) {
	file, err := tree.File(path)
	if err != nil {
		return "", err
	}
	return file.Contents()
}
