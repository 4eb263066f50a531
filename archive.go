package geojsmap

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	// sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/teris-io/shortid"
)

//ArchiveVersion archive schema version
const ArchiveVersion = "1.0"

//Archive sqlite store of displayed bundles
type Archive struct {
	ID   string
	Name string
	File string

	db *sql.DB
	mu sync.Mutex
}

//ArchivedDisplay one stored bundle
type ArchivedDisplay struct {
	ID       string
	Data     json.RawMessage
	Metadata json.RawMessage
	Created  time.Time
}

//OpenArchive opens or creates the archive file, an empty file name puts
//<id>.<name>.sqlite under dir
func OpenArchive(dir, name, file string) (*Archive, error) {
	id, err := shortid.Generate()
	if err != nil {
		return nil, err
	}
	a := &Archive{ID: id, Name: name, File: file}
	if a.File == "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, err
		}
		a.File = filepath.Join(dir, a.ID+"."+name+".sqlite")
	}
	db, err := sql.Open("sqlite3", a.File)
	if err != nil {
		return nil, err
	}
	a.db = db
	if err := a.setup(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func optimizeConnection(db *sql.DB) error {
	_, err := db.Exec("PRAGMA synchronous=0")
	if err != nil {
		return err
	}
	_, err = db.Exec("PRAGMA journal_mode=DELETE")
	if err != nil {
		return err
	}
	return nil
}

func (a *Archive) setup() error {
	err := optimizeConnection(a.db)
	if err != nil {
		return err
	}
	_, err = a.db.Exec("create table if not exists displays (id text primary key, mime text, data text, metadata text, created integer);")
	if err != nil {
		return err
	}
	_, err = a.db.Exec("create table if not exists metadata (name text, value text);")
	if err != nil {
		return err
	}
	_, err = a.db.Exec("create unique index if not exists name on metadata (name);")
	if err != nil {
		return err
	}
	for name, value := range a.MetaItems() {
		_, err := a.db.Exec("insert or replace into metadata (name, value) values (?, ?)", name, value)
		if err != nil {
			return err
		}
	}
	return nil
}

//MetaItems archive metadata rows
func (a *Archive) MetaItems() map[string]string {
	return map[string]string{
		"id":      a.ID,
		"name":    a.Name,
		"format":  MIMEType,
		"version": ArchiveVersion,
	}
}

//Meta reads one metadata value
func (a *Archive) Meta(name string) (string, error) {
	var v string
	err := a.db.QueryRow("select value from metadata where name = ?", name).Scan(&v)
	return v, err
}

//Display stores the geojs part of the bundle with its metadata
func (a *Archive) Display(bundle Bundle, metadata Metadata) error {
	data, err := json.Marshal(bundle[MIMEType])
	if err != nil {
		return fmt.Errorf("error marshalling json: %w", err)
	}
	md, err := json.Marshal(metadata[MIMEType])
	if err != nil {
		return fmt.Errorf("error marshalling json: %w", err)
	}
	id, err := shortid.Generate()
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = a.db.Exec("insert into displays (id, mime, data, metadata, created) values (?, ?, ?, ?, ?);",
		id, MIMEType, string(data), string(md), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("save display %s to archive: %w", id, err)
	}
	return nil
}

//Displays stored bundles, oldest first
func (a *Archive) Displays() ([]ArchivedDisplay, error) {
	rows, err := a.db.Query("select id, data, metadata, created from displays order by created, rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ArchivedDisplay
	for rows.Next() {
		var (
			d       ArchivedDisplay
			data    string
			md      string
			created int64
		)
		if err := rows.Scan(&d.ID, &data, &md, &created); err != nil {
			return nil, err
		}
		d.Data = json.RawMessage(data)
		d.Metadata = json.RawMessage(md)
		d.Created = time.Unix(0, created)
		out = append(out, d)
	}
	return out, rows.Err()
}

//Optimize analyze and vacuum the archive
func (a *Archive) Optimize() error {
	_, err := a.db.Exec("ANALYZE;")
	if err != nil {
		return err
	}
	_, err = a.db.Exec("VACUUM;")
	return err
}

//Close closes the database
func (a *Archive) Close() error {
	return a.db.Close()
}
