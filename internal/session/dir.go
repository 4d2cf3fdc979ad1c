package session

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/iksnae/aiwr/internal"
)

// LogExt is the extension of every session log file
const LogExt = ".jsonl"

// BucketLayout names the per-day directories, in UTC
const BucketLayout = "2006-01-02"

// ChildFinder answers child lookups without scanning the log tree
type ChildFinder interface {
	Children(parentID string) ([]string, error)
}

// Directory is the dated tree of session logs under one root:
//
//	<root>/<YYYY-MM-DD>/<id>.jsonl
//	<root>/<YYYY-MM-DD>/<id>/<id>.jsonl   (a session with children)
//	<root>/<YYYY-MM-DD>/<id>/<child>.jsonl
type Directory struct {
	root   string
	now    func() time.Time
	finder ChildFinder
}

// NewDirectory returns a Directory rooted at root. The root need not exist.
func NewDirectory(root string) *Directory {
	return &Directory{root: root, now: time.Now}
}

// WithClock replaces the clock that picks today's bucket
func (d *Directory) WithClock(now func() time.Time) *Directory {
	d.now = now
	return d
}

// WithChildFinder routes FindChildren through f instead of a full scan
func (d *Directory) WithChildFinder(f ChildFinder) *Directory {
	d.finder = f
	return d
}

func (d *Directory) Root() string { return d.root }

// Today returns the name of the current UTC date bucket
func (d *Directory) Today() string {
	return d.now().UTC().Format(BucketLayout)
}

// Buckets returns the date bucket names, newest first
func (d *Directory) Buckets() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &internal.StorageError{Path: d.root, Op: "read", Err: err}
	}

	var buckets []string
	for _, e := range entries {
		if e.IsDir() {
			buckets = append(buckets, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(buckets)))
	return buckets, nil
}

// Locate returns the log file of a session. Buckets are searched newest
// first; within a bucket a direct file wins over a session directory, which
// wins over a depth-first search of nested sessions.
func (d *Directory) Locate(id string) (string, error) {
	if !validID(id) {
		return "", &internal.SessionNotFoundError{SessionID: id}
	}

	buckets, err := d.Buckets()
	if err != nil {
		return "", err
	}

	name := id + LogExt
	for _, bucket := range buckets {
		bucketDir := filepath.Join(d.root, bucket)

		if direct := filepath.Join(bucketDir, name); isFile(direct) {
			return direct, nil
		}
		if nested := filepath.Join(bucketDir, id, name); isFile(nested) {
			return nested, nil
		}
		if found := findIn(bucketDir, name); found != "" {
			return found, nil
		}
	}
	return "", &internal.SessionNotFoundError{SessionID: id}
}

func findIn(dir, name string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if !e.IsDir() {
			if e.Name() == name {
				return path
			}
			continue
		}
		if candidate := filepath.Join(path, name); isFile(candidate) {
			return candidate
		}
		if found := findIn(path, name); found != "" {
			return found
		}
	}
	return ""
}

// LogPath returns where a new session's log goes. A child is placed inside
// its parent's session directory, promoting the parent first if needed.
// An unknown parent falls back to today's bucket.
func (d *Directory) LogPath(id, parentID string) (string, error) {
	if !validID(id) {
		return "", &internal.StorageError{Path: id, Op: "resolve", Err: errors.New("invalid session id")}
	}

	todayPath := filepath.Join(d.root, d.Today(), id+LogExt)
	if parentID == "" {
		return todayPath, nil
	}

	parentPath, err := d.Locate(parentID)
	var notFound *internal.SessionNotFoundError
	if errors.As(err, &notFound) {
		internal.Logger("session").Warn("parent session not found, logging to today's bucket",
			"parent", parentID, "session", id)
		return todayPath, nil
	}
	if err != nil {
		return "", err
	}

	parentDir, err := d.EnsureSessionDir(parentPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(parentDir, id+LogExt), nil
}

// EnsureSessionDir gives a session its own directory and returns it.
// A bare X.jsonl is moved to X/X.jsonl under an exclusive lock; a file that
// already lives in its own directory is left alone.
func (d *Directory) EnsureSessionDir(path string) (string, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return path, nil
	case err == nil && filepath.Ext(path) == LogExt:
		// promoted below
	case errors.Is(err, fs.ErrNotExist) || err == nil:
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", &internal.StorageError{Path: path, Op: "promote", Err: err}
		}
		return path, nil
	default:
		return "", &internal.StorageError{Path: path, Op: "promote", Err: err}
	}

	id := strings.TrimSuffix(filepath.Base(path), LogExt)
	parent := filepath.Dir(path)
	if filepath.Base(parent) == id {
		return parent, nil
	}

	newDir := filepath.Join(parent, id)
	newPath := filepath.Join(newDir, id+LogExt)

	lock := newFileLock(filepath.Join(parent, "."+id+".lock"))
	if err := lock.Lock(); err != nil {
		return "", &internal.StorageError{Path: path, Op: "lock", Err: err}
	}
	defer lock.Unlock()

	// another invocation may have promoted it while we waited
	if isFile(newPath) {
		if isFile(path) {
			// a run that held the old path saved after the move
			if err := mergeInto(newPath, path); err != nil {
				return "", err
			}
		}
		return newDir, nil
	}

	if err := os.MkdirAll(newDir, 0755); err != nil {
		return "", &internal.StorageError{Path: newDir, Op: "promote", Err: err}
	}
	if err := os.Rename(path, newPath); err != nil {
		return "", &internal.StorageError{Path: path, Op: "promote", Err: err}
	}
	internal.Logger("session").Debug("promoted session to directory", "session", id, "dir", newDir)
	return newDir, nil
}

// FindChildren returns the ids of sessions whose linkage marker names
// parentID, sorted
func (d *Directory) FindChildren(parentID string) ([]string, error) {
	if d.finder != nil {
		return d.finder.Children(parentID)
	}
	return d.ScanChildren(parentID)
}

// ScanChildren is FindChildren by reading every log under the root
func (d *Directory) ScanChildren(parentID string) ([]string, error) {
	links, err := d.Links()
	if err != nil {
		return nil, err
	}
	children := []string{}
	for _, link := range links {
		if link.ParentID == parentID {
			children = append(children, link.ID)
		}
	}
	sort.Strings(children)
	return children, nil
}

// Link is one parent/child edge recorded by a linkage marker
type Link struct {
	ID       string
	ParentID string
	Path     string
}

// Links reads the linkage marker of every log under the root
func (d *Directory) Links() ([]Link, error) {
	paths, err := d.LogFiles()
	if err != nil {
		return nil, err
	}
	var links []Link
	for _, path := range paths {
		parentID, err := ParentID(path)
		if err != nil {
			return nil, err
		}
		if parentID != "" {
			links = append(links, Link{ID: stem(path), ParentID: parentID, Path: path})
		}
	}
	return links, nil
}

// LogFiles returns every log file under the root
func (d *Directory) LogFiles() ([]string, error) {
	if _, err := os.Stat(d.root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	matches, err := doublestar.Glob(os.DirFS(d.root), "**/*"+LogExt, doublestar.WithFilesOnly())
	if err != nil {
		return nil, &internal.StorageError{Path: d.root, Op: "read", Err: err}
	}
	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = filepath.Join(d.root, filepath.FromSlash(m))
	}
	return paths, nil
}

// ParentID returns the parent recorded in a log's linkage marker, or ""
// for a root session
func ParentID(path string) (string, error) {
	events, err := Load(path)
	if err != nil {
		return "", err
	}
	for _, ev := range events {
		if ev.IsLink() {
			return ev.ParentID(), nil
		}
	}
	return "", nil
}

// SessionAgent returns the agent that produced a session
func (d *Directory) SessionAgent(id string) (string, error) {
	path, err := d.Locate(id)
	if err != nil {
		return "", err
	}
	info, err := Extract(path)
	if err != nil {
		return "", err
	}
	return info.Agent, nil
}

// mergeInto appends the records of src to dst behind a separator and
// removes src. dst is never truncated.
func mergeInto(dst, src string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return &internal.StorageError{Path: src, Op: "promote", Err: err}
	}
	if len(bytes.TrimSpace(data)) > 0 {
		f, err := os.OpenFile(dst, os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return &internal.StorageError{Path: dst, Op: "promote", Err: err}
		}
		_, werr := f.WriteString(ResumeSeparator + "\n")
		if werr == nil {
			_, werr = f.Write(data)
		}
		if werr == nil && data[len(data)-1] != '\n' {
			_, werr = f.WriteString("\n")
		}
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return &internal.StorageError{Path: dst, Op: "promote", Err: werr}
		}
	}
	if err := os.Remove(src); err != nil {
		return &internal.StorageError{Path: src, Op: "promote", Err: err}
	}
	internal.Logger("session").Warn("merged stray session log into promoted log", "from", src, "into", dst)
	return nil
}

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), LogExt)
}
