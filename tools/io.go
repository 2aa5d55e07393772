package tools

import (
	"os"
	"path/filepath"
)

func CreateDirectoryIfDoesNotExist(directory string) error {
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		err := os.MkdirAll(directory, 0777)
		if err != nil {
			return err
		}
	}
	return nil
}

// Creates the file and the folders leading to it
func CreateFile(filePath string) (*os.File, error) {
	if err := CreateDirectoryIfDoesNotExist(filepath.Dir(filePath)); err != nil {
		return nil, err
	}
	return os.Create(filePath)
}
