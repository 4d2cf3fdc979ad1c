package session

import (
	"os"
	"path/filepath"
)

// Node is a session with its descendants, rebuilt on every query
type Node struct {
	*Info
	Children []*Node
}

// DateGroup is the root sessions of one date bucket
type DateGroup struct {
	Date  string
	Nodes []*Node
}

// Tree builds the session tree rooted at id
func (d *Directory) Tree(id string) (*Node, error) {
	path, err := d.Locate(id)
	if err != nil {
		return nil, err
	}
	return d.buildNode(path, map[string]bool{})
}

// Roots returns every root session (one without a linkage marker) with its
// descendants, grouped by date bucket newest first. Empty buckets are left out.
func (d *Directory) Roots() ([]DateGroup, error) {
	buckets, err := d.Buckets()
	if err != nil {
		return nil, err
	}

	var groups []DateGroup
	for _, bucket := range buckets {
		paths, err := bucketSessions(filepath.Join(d.root, bucket))
		if err != nil {
			return nil, err
		}

		var nodes []*Node
		for _, path := range paths {
			parentID, err := ParentID(path)
			if err != nil {
				return nil, err
			}
			if parentID != "" {
				continue
			}
			node, err := d.buildNode(path, map[string]bool{})
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
		if len(nodes) > 0 {
			groups = append(groups, DateGroup{Date: bucket, Nodes: nodes})
		}
	}
	return groups, nil
}

// bucketSessions lists the top-level session logs of one bucket
func bucketSessions(bucketDir string) ([]string, error) {
	entries, err := os.ReadDir(bucketDir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		path := filepath.Join(bucketDir, e.Name())
		switch {
		case e.IsDir():
			if nested := filepath.Join(path, e.Name()+LogExt); isFile(nested) {
				paths = append(paths, nested)
			}
		case filepath.Ext(e.Name()) == LogExt:
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// buildNode extracts one session and recurses into its children. seen
// stops a malformed linkage cycle from recursing forever.
func (d *Directory) buildNode(path string, seen map[string]bool) (*Node, error) {
	info, err := Extract(path)
	if err != nil {
		return nil, err
	}
	node := &Node{Info: info}
	seen[info.ID] = true

	childIDs, err := d.FindChildren(info.ID)
	if err != nil {
		return nil, err
	}
	for _, childID := range childIDs {
		if seen[childID] {
			continue
		}
		childPath, err := d.Locate(childID)
		if err != nil {
			// linked but gone
			continue
		}
		child, err := d.buildNode(childPath, seen)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}
