package index

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/iksnae/aiwr/internal"
	"github.com/iksnae/aiwr/internal/session"
	"github.com/iksnae/aiwr/testutil"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "sub", "index.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestIndex_RecordAndChildren(t *testing.T) {
	ix := openTestIndex(t)

	records := []struct{ id, parent string }{
		{"root", ""},
		{"b", "root"},
		{"a", "root"},
		{"other", "x"},
	}
	for _, r := range records {
		if err := ix.Record(r.id, r.parent, "/logs/"+r.id+".jsonl"); err != nil {
			t.Fatalf("Record(%s) error = %v", r.id, err)
		}
	}

	got, err := ix.Children("root")
	if err != nil {
		t.Fatalf("Children() error = %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Children(root) = %v, want %v", got, want)
	}

	got, err = ix.Children("nobody")
	if err != nil || len(got) != 0 {
		t.Errorf("Children(nobody) = (%v, %v), want empty", got, err)
	}
}

func TestIndex_RecordReplaces(t *testing.T) {
	ix := openTestIndex(t)
	if err := ix.Record("s", "", "/old.jsonl"); err != nil {
		t.Fatal(err)
	}
	if err := ix.Record("s", "p", "/new.jsonl"); err != nil {
		t.Fatal(err)
	}

	e, err := ix.Lookup("s")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if e.ParentID != "p" || e.Path != "/new.jsonl" {
		t.Errorf("Lookup() = %+v", e)
	}
	if n, _ := ix.Count(); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}

	var notFound *internal.SessionNotFoundError
	if _, err := ix.Lookup("missing"); !errors.As(err, &notFound) {
		t.Errorf("Lookup(missing) error = %v, want SessionNotFoundError", err)
	}
}

func TestIndex_RebuildMatchesScan(t *testing.T) {
	root := t.TempDir()
	d := session.NewDirectory(root)
	testutil.WriteLog(t, filepath.Join(root, "2026-01-01", "r", "r.jsonl"), `{"type":"aiwr_start"}`)
	testutil.WriteLog(t, filepath.Join(root, "2026-01-01", "r", "c1.jsonl"), `{"type":"aiwr_meta","parent_id":"r"}`)
	testutil.WriteLog(t, filepath.Join(root, "2026-01-02", "c2.jsonl"), `{"type":"aiwr_meta","parent_id":"r"}`)

	ix := openTestIndex(t)
	if err := ix.Record("stale", "r", "/gone.jsonl"); err != nil {
		t.Fatal(err)
	}

	n, err := ix.Rebuild(d)
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Rebuild() = %d, want 3", n)
	}

	fromIndex, err := ix.Children("r")
	if err != nil {
		t.Fatalf("Children() error = %v", err)
	}
	fromScan, err := d.ScanChildren("r")
	if err != nil {
		t.Fatalf("ScanChildren() error = %v", err)
	}
	if !reflect.DeepEqual(fromIndex, fromScan) {
		t.Errorf("index children %v != scan children %v", fromIndex, fromScan)
	}

	// the index can stand in for the scan
	d.WithChildFinder(ix)
	got, err := d.FindChildren("r")
	if err != nil || !reflect.DeepEqual(got, []string{"c1", "c2"}) {
		t.Errorf("FindChildren() via index = (%v, %v)", got, err)
	}
}

func TestIndex_RebuildCorruptLog(t *testing.T) {
	root := t.TempDir()
	testutil.WriteLog(t, filepath.Join(root, "2026-01-01", "bad.jsonl"), `{oops`)

	ix := openTestIndex(t)
	var corrupt *internal.CorruptLogError
	if _, err := ix.Rebuild(session.NewDirectory(root)); !errors.As(err, &corrupt) {
		t.Errorf("Rebuild() error = %v, want CorruptLogError", err)
	}
}
