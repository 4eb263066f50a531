package geojsmap

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/teris-io/shortid"
)

//Displayer presentation sink receiving display bundles
type Displayer interface {
	Display(bundle Bundle, metadata Metadata) error
}

//DisplayFunc adapts a function to Displayer
type DisplayFunc func(bundle Bundle, metadata Metadata) error

//Display calls f
func (f DisplayFunc) Display(bundle Bundle, metadata Metadata) error {
	return f(bundle, metadata)
}

//Message display_data style envelope written by the json sinks
type Message struct {
	ID       string   `json:"id,omitempty"`
	Data     Bundle   `json:"data"`
	Metadata Metadata `json:"metadata"`
}

//JSONDisplayer writes one json message per display
type JSONDisplayer struct {
	W      io.Writer
	Indent string

	mu sync.Mutex
}

//NewJSONDisplayer writes to w
func NewJSONDisplayer(w io.Writer) *JSONDisplayer {
	return &JSONDisplayer{W: w}
}

//Display encodes the bundle to W
func (d *JSONDisplayer) Display(bundle Bundle, metadata Metadata) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	enc := json.NewEncoder(d.W)
	enc.SetEscapeHTML(false)
	if d.Indent != "" {
		enc.SetIndent("", d.Indent)
	}
	if err := enc.Encode(Message{Data: bundle, Metadata: metadata}); err != nil {
		return fmt.Errorf("encode display bundle: %w", err)
	}
	return nil
}

//FileDisplayer writes every bundle to its own file under Dir
type FileDisplayer struct {
	Dir string
	//Last path written
	Last string
}

//Display writes Dir/<id>.geojs.json
func (d *FileDisplayer) Display(bundle Bundle, metadata Metadata) error {
	id, err := shortid.Generate()
	if err != nil {
		return fmt.Errorf("generate display id: %w", err)
	}
	if err := os.MkdirAll(d.Dir, os.ModePerm); err != nil {
		return err
	}
	data, err := json.MarshalIndent(Message{ID: id, Data: bundle, Metadata: metadata}, "", " ")
	if err != nil {
		return fmt.Errorf("error marshalling json: %w", err)
	}
	fileName := filepath.Join(d.Dir, id+".geojs.json")
	if err := ioutil.WriteFile(fileName, data, 0644); err != nil {
		return fmt.Errorf("write file failure: %w", err)
	}
	d.Last = fileName
	return nil
}
