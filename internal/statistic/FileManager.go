package statistic

import (
	"fmt"
	"os"
	"streakd/internal/models"
	"streakd/internal/providers"
	"streakd/internal/services"
	"streakd/internal/statistic/interfaces"

	json "github.com/goccy/go-json"
)

// FileManager saves and restores the activity snapshot as compressed JSON.
type FileManager struct {
	service    services.ActivityServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, service services.ActivityServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		service:    service,
		logger:     logger,
	}
}

// SaveToFile writes the snapshot to a temporary file and renames it over
// fileName, so a crash never leaves a half-written snapshot behind.
func (f *FileManager) SaveToFile(fileName string) error {
	snapshot := f.service.GetSnapshot()

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	if err := f.compressor.Close(); err != nil {
		f.logger.Errorf(providers.TypeApp, "Error while closing compressor: %s", err)
	}
}

// LoadFromFile restores the snapshot in fileName. A missing file is not an
// error: the service simply starts empty.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(decompressedData, &snapshot); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	switch {
	case snapshot.Version > models.SnapshotVersion:
		return fmt.Errorf("snapshot version %d is newer than supported version %d", snapshot.Version, models.SnapshotVersion)
	case snapshot.Version == 0:
		f.logger.Warnf(providers.TypeApp, "Snapshot %s has no version, reading it as version %d", fileName, models.SnapshotVersion)
	}

	f.service.PutSnapshot(&snapshot)
	f.logger.Infof(providers.TypeApp, "Restored %d subjects from %s", len(snapshot.Subjects), fileName)
	return nil
}
