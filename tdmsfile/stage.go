package tdmsfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arloliu/tdms/compress"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/hash"
	"github.com/arloliu/tdms/internal/pool"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source describes where the bytes of an open file came from.
type Source struct {
	// Path is the file path given to Open, empty for streams.
	Path string
	// Staged reports whether the file was read from a stream.
	Staged bool
	// Compression is the compression the stream was wrapped in.
	Compression format.CompressionType
	// Size is the number of decompressed bytes staged.
	Size int64
	// Digest is the xxHash64 of the staged bytes.
	Digest uint64
}

// stage decompresses r into a fresh temporary directory. The caller must call cleanup
// once the engine has read the file.
func stage(r io.Reader, cfg *config) (path string, src Source, cleanup func(), err error) {
	dir, err := os.MkdirTemp(cfg.tempDir, "tdms-stage-*")
	if err != nil {
		return "", Source{}, nil, fmt.Errorf("create staging dir: %w", err)
	}

	cleanup = func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			cfg.logger.Warn("remove staging dir", zap.String("dir", dir), zap.Error(rmErr))
		}
	}

	src, path, err = stageInto(dir, r)
	if err != nil {
		cleanup()
		return "", Source{}, nil, err
	}

	cfg.logger.Debug("stream staged",
		zap.String("file", path),
		zap.Stringer("compression", src.Compression),
		zap.Int64("size", src.Size),
		zap.Uint64("digest", src.Digest),
	)

	return path, src, cleanup, nil
}

func stageInto(dir string, r io.Reader) (Source, string, error) {
	rc, ct, err := compress.NewReader(r)
	if err != nil {
		return Source{}, "", fmt.Errorf("detect stream compression: %w", err)
	}
	defer rc.Close()

	path := filepath.Join(dir, uuid.NewString()+".tdms")
	f, err := os.Create(path)
	if err != nil {
		return Source{}, "", fmt.Errorf("create staging file: %w", err)
	}

	digest := hash.NewDigest()
	buf := pool.GetCopyBuffer()
	defer pool.PutCopyBuffer(buf)

	n, err := io.CopyBuffer(io.MultiWriter(f, digest), rc, *buf)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return Source{}, "", fmt.Errorf("stage %s stream: %w", ct, err)
	}

	return Source{Staged: true, Compression: ct, Size: n, Digest: digest.Sum64()}, path, nil
}
