package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
	"github.com/matst80/slask-storefront/pkg/types"
)

const patternsFile = "patterns.json"

// DiskStorage keeps json documents per country below RootFolder. Writes go
// to a temporary file that is renamed into place.
type DiskStorage struct {
	Country    string
	RootFolder string
}

func NewDiskStorage(country, rootFolder string) *DiskStorage {
	return &DiskStorage{
		Country:    country,
		RootFolder: rootFolder,
	}
}

func (ds *DiskStorage) GetFileName(name string) (string, string) {
	fileName := path.Join(ds.RootFolder, ds.Country, name)
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	return fileName, tmpFileName
}

func (ds *DiskStorage) SaveJson(data any, name string) error {
	fileName, tmpFileName := ds.GetFileName(name)
	if err := os.MkdirAll(path.Dir(fileName), 0o755); err != nil {
		return err
	}

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	err = jsoncompat.NewEncoder(file).Encode(data)
	file.Close()
	if err != nil {
		os.Remove(tmpFileName)
		return err
	}
	return os.Rename(tmpFileName, fileName)
}

func (ds *DiskStorage) LoadJson(data any, name string) error {
	fileName, _ := ds.GetFileName(name)
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	err = jsoncompat.NewDecoder(file).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Load returns nil without error when no pattern table has been saved.
func (ds *DiskStorage) Load(ctx context.Context) ([]types.PatternRecord, error) {
	var records []types.PatternRecord
	err := ds.LoadJson(&records, patternsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load patterns: %w", err)
	}
	return records, nil
}

func (ds *DiskStorage) Save(ctx context.Context, records []types.PatternRecord) error {
	if err := ds.SaveJson(records, patternsFile); err != nil {
		return fmt.Errorf("save patterns: %w", err)
	}
	return nil
}
