package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iksnae/aiwr/internal"
	"github.com/klauspost/compress/zstd"
)

// CompressedExt is appended to the file name of compressed exports
const CompressedExt = ".zst"

// WriteFile exports sessions into dir, one file per session, and returns
// the paths written. With compress set each file is zstd-compressed.
func WriteFile(exporter Exporter, sessions []*internal.Session, dir string, compress bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &internal.ExportError{Format: exporter.Extension(), Path: dir, Err: err}
	}

	var paths []string
	for _, session := range sessions {
		path := filepath.Join(dir, session.ID+"."+exporter.Extension())
		if compress {
			path += CompressedExt
		}
		if err := writeOne(exporter, session, path, compress); err != nil {
			return paths, &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeOne(exporter Exporter, session *internal.Session, path string, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var zw *zstd.Encoder
	if compress {
		zw, err = zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		w = zw
	}

	if err := exporter.Export(session, w); err != nil {
		if zw != nil {
			zw.Close()
		}
		return err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("zstd flush: %w", err)
		}
	}
	return f.Close()
}

// Decompress returns a reader over a zstd stream
func Decompress(r io.Reader) (io.ReadCloser, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return zr.IOReadCloser(), nil
}
