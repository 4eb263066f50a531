package geojsmap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	nested "github.com/antonfisher/nested-logrus-formatter"
	log "github.com/sirupsen/logrus"
)

//DefaultLogFile diagnostics file name used when none is given
const DefaultLogFile = "geojsmap.log"

//NewFormatter the formatter shared by the cli and diagnostics files
func NewFormatter(colors bool) log.Formatter {
	return &nested.Formatter{
		HideKeys:        true,
		ShowFullLevel:   true,
		NoColors:        !colors,
		TimestampFormat: "2006-01-02 15:04:05.000",
	}
}

//Diagnostics file backed logger
type Diagnostics struct {
	*log.Logger
	Name string
	Path string
	file *os.File
}

//NewDiagnostics creates folder if needed and truncates folder/filename.
//Level defaults to info, so debug output only shows once it is raised.
func NewDiagnostics(folder, filename string) (*Diagnostics, error) {
	if filename == "" {
		filename = DefaultLogFile
	}
	if err := os.MkdirAll(folder, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create log folder: %w", err)
	}
	path := filepath.Join(folder, filename)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	logger := log.New()
	logger.SetOutput(f)
	logger.SetFormatter(NewFormatter(false))
	logger.SetLevel(log.InfoLevel)

	return &Diagnostics{
		Logger: logger,
		Name:   strings.TrimSuffix(filename, filepath.Ext(filename)),
		Path:   path,
		file:   f,
	}, nil
}

//Entry logger entry tagged with the diagnostics name
func (d *Diagnostics) Entry() *log.Entry {
	return d.Logger.WithField("logger", d.Name)
}

//Close closes the log file
func (d *Diagnostics) Close() error {
	return d.file.Close()
}
