// Package fs stores documents as markdown files in a vault directory.
package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/autoprop/pkg/core"
	"github.com/aretw0/autoprop/pkg/git"
)

// DefaultSystemDir holds settings and the created-time index inside a vault.
const DefaultSystemDir = ".autoprop"

// Repository implements core.Repository and core.Watchable over a directory of markdown files.
type Repository struct {
	Path   string
	git    *git.Client
	index  *createdIndex
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path       string
	SystemDir  string // e.g. ".autoprop"
	MustExist  bool
	ReadOnly   bool
	Versioning bool // Commit every patch to git.
	AutoInit   bool // Run git init when Versioning is on and Path is not a repository.
	Logger     *slog.Logger
	// ErrorHandler receives watcher errors that have no caller to return to.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	return &Repository{
		Path:   config.Path,
		git:    git.NewClient(config.Path, config.SystemDir+".lock", config.Logger),
		index:  newCreatedIndex(config.Path, config.SystemDir),
		config: config,
	}
}

// Initialize checks the vault directory and, when versioning, the git repository.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
	} else if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	if !r.config.Versioning || r.config.ReadOnly {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !r.git.IsRepo() {
		if !r.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", r.Path)
		}
		if err := r.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := r.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}
	if mod && wasNewRepo {
		msg := git.FormatCommitMessage("", fmt.Sprintf("ignore %s", r.config.SystemDir), "")
		if err := r.git.CommitFiles(ctx, msg, ".gitignore"); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}
	return nil
}

// ensureIgnore adds the system directory and the git lock file to .gitignore.
func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	wanted := []string{r.config.SystemDir + "/", r.config.SystemDir + ".lock"}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, w := range wanted {
		if !present[w] {
			missing = append(missing, w)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(strings.Join(missing, "\n") + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

// resolve maps a document ID to its file. IDs are vault-relative paths with or without the
// ".md" extension.
func (r *Repository) resolve(id string) (full, rel string, err error) {
	rel = filepath.ToSlash(filepath.Clean(id))
	if !strings.HasSuffix(rel, ".md") {
		rel += ".md"
	}
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", "", fmt.Errorf("%w: invalid document id %q", core.ErrNotFound, id)
	}
	return filepath.Join(r.Path, filepath.FromSlash(rel)), rel, nil
}

// Get reads a document and its frontmatter. The created time comes from the first-seen index.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	full, rel, err := r.resolve(id)
	if err != nil {
		return core.Document{}, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return core.Document{}, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return core.Document{}, err
	}

	raw := string(data)
	meta, body, err := parseMarkdown(raw)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to parse document %s: %w", id, err)
	}

	created, err := r.index.Created(rel, info.ModTime())
	if err != nil && r.config.Logger != nil {
		r.config.Logger.Warn("created index unavailable", "error", err)
	}
	if !r.config.ReadOnly {
		if err := r.index.Save(); err != nil && r.config.Logger != nil {
			r.config.Logger.Warn("failed to save created index", "error", err)
		}
	}

	return core.Document{
		ID:       strings.TrimSuffix(rel, ".md"),
		Content:  body,
		Raw:      raw,
		Metadata: meta,
		Created:  created,
		Modified: info.ModTime(),
	}, nil
}

// skipDir reports whether a directory is outside the document tree.
func (r *Repository) skipDir(name string) bool {
	return name == ".git" || name == r.config.SystemDir || (strings.HasPrefix(name, ".") && name != ".")
}

// List returns the IDs of every markdown document in the vault, sorted.
func (r *Repository) List(ctx context.Context) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)

	err := filepath.WalkDir(r.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != r.Path && r.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(d.Name()) != ".md" || strings.HasPrefix(d.Name(), TempFilePrefix) {
			return nil
		}

		rel, err := filepath.Rel(r.Path, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		seen[rel] = true
		ids = append(ids, strings.TrimSuffix(rel, ".md"))
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.index.Prune(seen)
	if !r.config.ReadOnly {
		if err := r.index.Save(); err != nil && r.config.Logger != nil {
			r.config.Logger.Warn("failed to save created index", "error", err)
		}
	}

	sort.Strings(ids)
	return ids, nil
}

// Patch sets the given frontmatter keys in one write, leaving other keys and the body intact.
//
// The file's modification time is restored afterwards. When versioning is on the change is
// committed with the message carried by core.ChangeReasonKey.
func (r *Repository) Patch(ctx context.Context, id string, patch core.Metadata) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if len(patch) == 0 {
		return nil
	}

	full, rel, err := r.resolve(id)
	if err != nil {
		return err
	}
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return err
	}

	updated, err := patchFrontmatter(string(data), patch)
	if err != nil {
		return fmt.Errorf("failed to patch %s: %w", id, err)
	}
	if updated == string(data) {
		return nil
	}
	if err := replaceKeepingModTime(full, []byte(updated), info); err != nil {
		return err
	}

	if r.config.Logger != nil {
		r.config.Logger.Debug("frontmatter written", "id", id, "keys", len(patch))
	}

	if r.config.Versioning {
		reason, _ := ctx.Value(core.ChangeReasonKey).(string)
		if reason == "" {
			reason = "update properties"
		}
		msg := git.FormatCommitMessage(strings.TrimSuffix(rel, ".md"), reason, "")
		if err := r.git.CommitFiles(ctx, msg, filepath.FromSlash(rel)); err != nil {
			return fmt.Errorf("failed to commit %s: %w", id, err)
		}
	}
	return nil
}

var (
	_ core.Repository = (*Repository)(nil)
	_ core.Watchable  = (*Repository)(nil)
)

