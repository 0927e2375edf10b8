package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ekuznetsova/golinks/internal/app/models"
)

// File storage: one JSON-encoded link per line
type FileStorage struct {
	filePath string
}

// New file storage
func NewFileStorage(filePath string) *FileStorage {
	return &FileStorage{filePath: filePath}
}

// Get links from file
func (fs *FileStorage) Snapshot() ([]models.Link, error) {
	file, err := os.OpenFile(fs.filePath, os.O_RDONLY|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("could not load data from file: %s", err)
	}

	scanner := bufio.NewScanner(file)
	result := make([]models.Link, 0)
	for scanner.Scan() {
		var link models.Link
		data := scanner.Bytes()
		err = json.Unmarshal(data, &link)
		if err != nil {
			continue
		}
		result = append(result, link)
	}

	err = file.Close()
	if err != nil {
		return nil, fmt.Errorf("could not restore data: %s", err.Error())
	}

	return result, scanner.Err()
}

// Save links to file
func (fs *FileStorage) Dump(links []models.Link) error {
	file, err := os.OpenFile(fs.filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return fmt.Errorf("could not dump storage: %w", err)
	}

	encoder := json.NewEncoder(file)
	for _, link := range links {
		if err = encoder.Encode(link); err != nil {
			file.Close()
			return fmt.Errorf("could not dump storage: %w", err)
		}
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("could not dump storage: %w", err)
	}

	return nil
}
