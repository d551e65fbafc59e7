package service

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/joeblew999/plat-mission/internal/layer"
)

// SourceService lists the GeoJSON files served under /data.
type SourceService struct {
	dataDir string
}

// NewSourceService creates a new source service.
func NewSourceService(dataDir string) *SourceService {
	return &SourceService{dataDir: dataDir}
}

// List returns all GeoJSON files in the data directory, tagged with the layer
// they feed when the name matches a layer's default path.
func (s *SourceService) List() ([]SourceFile, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SourceFile{}, nil
		}
		return nil, err
	}

	byFile := make(map[string]layer.Key, len(layer.DefaultPaths))
	for k, p := range layer.DefaultPaths {
		byFile[path.Base(p)] = k
	}

	files := []SourceFile{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".geojson" && ext != ".json" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, SourceFile{
			Name:     entry.Name(),
			Size:     formatSize(info.Size()),
			FileType: "GeoJSON",
			Layer:    string(byFile[entry.Name()]),
		})
	}

	return files, nil
}

// DataDir returns the path to the data directory.
func (s *SourceService) DataDir() string {
	return s.dataDir
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
