package tools

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ecopia-map/vector_tiler/internal/tiler"
)

const PointFileExtension = ".json"

type FileFinder interface {
	GetPointFilesToProcess(opts *tiler.TilerOptions) ([]string, error)
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

func (f *StandardFileFinder) GetPointFilesToProcess(opts *tiler.TilerOptions) ([]string, error) {
	// If folder processing is not enabled then the point file is given by -input flag, otherwise look for point
	// files in -input folder eventually excluding nested folders if Recursive flag is disabled
	if !opts.FolderProcessing {
		return []string{opts.Input}, nil
	}

	return f.getPointFilesFromInputFolder(opts)
}

func (f *StandardFileFinder) getPointFilesFromInputFolder(opts *tiler.TilerOptions) ([]string, error) {
	var pointFiles = make([]string, 0)

	baseInfo, err := os.Stat(opts.Input)
	if err != nil {
		return nil, err
	}
	err = filepath.Walk(
		opts.Input,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() && !opts.Recursive && !os.SameFile(info, baseInfo) {
				return filepath.SkipDir
			} else if !info.IsDir() && strings.ToLower(filepath.Ext(info.Name())) == PointFileExtension {
				pointFiles = append(pointFiles, path)
			}
			return nil
		},
	)

	if err != nil {
		return nil, err
	}

	return pointFiles, nil
}

// Name of the file without folder and extension
func GetFilenameWithoutExtension(filePath string) string {
	nameWext := filepath.Base(filePath)
	extension := filepath.Ext(nameWext)
	return nameWext[0 : len(nameWext)-len(extension)]
}

// Where the output of an input file goes: inside the output folder when processing folders, the
// output path itself otherwise. Without output the input path is reused with the new extension.
func GetOutputPath(opts *tiler.TilerOptions, output, inputFile, extension string) string {
	name := GetFilenameWithoutExtension(inputFile) + extension
	if output == "" {
		return filepath.Join(filepath.Dir(inputFile), name)
	}
	if opts.FolderProcessing {
		return filepath.Join(output, name)
	}
	return output
}
