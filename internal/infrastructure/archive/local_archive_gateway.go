package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/stintd/stint/internal/application/port/output"
	"github.com/stintd/stint/internal/infrastructure/persistence/file"
)

// LocalArchiveGateway implements output.ArchiveGateway on the local filesystem.
// Exports land in a single flat directory.
type LocalArchiveGateway struct {
	fs  afero.Fs
	dir string
}

// NewLocalArchiveGateway creates a gateway writing under dir
func NewLocalArchiveGateway(fs afero.Fs, dir string) *LocalArchiveGateway {
	return &LocalArchiveGateway{fs: fs, dir: dir}
}

// SaveArchive writes an export document to the archive directory
func (g *LocalArchiveGateway) SaveArchive(_ context.Context, req output.SaveArchiveRequest) (*output.ArchiveMetadata, error) {
	target := filepath.Join(g.dir, req.Name)
	if err := file.WriteFileAtomic(g.fs, target, req.Content); err != nil {
		return nil, fmt.Errorf("write archive %s: %w", req.Name, err)
	}

	return &output.ArchiveMetadata{
		Name:      req.Name,
		Location:  target,
		SizeBytes: int64(len(req.Content)),
		SavedAt:   time.Now().UTC(),
	}, nil
}

// ListArchives lists exported documents, newest first
func (g *LocalArchiveGateway) ListArchives(_ context.Context) ([]*output.ArchiveMetadata, error) {
	infos, err := afero.ReadDir(g.fs, g.dir)
	if err != nil {
		if exists, _ := afero.DirExists(g.fs, g.dir); !exists {
			return nil, nil
		}
		return nil, fmt.Errorf("read archive directory %s failed: %w", g.dir, err)
	}

	archives := make([]*output.ArchiveMetadata, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			continue
		}
		archives = append(archives, &output.ArchiveMetadata{
			Name:      info.Name(),
			Location:  filepath.Join(g.dir, info.Name()),
			SizeBytes: info.Size(),
			SavedAt:   info.ModTime().UTC(),
		})
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].SavedAt.After(archives[j].SavedAt)
	})
	return archives, nil
}
