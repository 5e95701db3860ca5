// Package backup reads and writes the portable backup document: the full
// state plus the contents of the file store, in the gym-log-backup-v1 format.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/gymlog/internal/models"
)

const (
	Format = "gym-log-backup-v1"
	DBName = "gym-log-db-v1"
)

var (
	ErrUnrecognizedFormat = errors.New("unrecognized backup format")
	ErrInvalidJSON        = errors.New("invalid JSON file")
)

// Backup is the exported document.
type Backup struct {
	Format     string        `json:"format"`
	ExportedAt string        `json:"exportedAt"`
	State      *models.State `json:"state"`
	IndexedDB  FileDatabase  `json:"indexedDb"`
}

// FileDatabase holds the file store contents.
type FileDatabase struct {
	DBName string     `json:"dbName"`
	Stores FileStores `json:"stores"`
}

type FileStores struct {
	Files []models.File `json:"files"`
}

// Contents is a decoded backup ready to be restored. FilesPresent is false
// when the document carried no file list, in which case the file store
// should be left alone.
type Contents struct {
	State        *models.State
	Files        []models.File
	FilesPresent bool
}

// Export builds a backup of st and files taken at now.
func Export(st *models.State, files []models.File, now time.Time) Backup {
	c := st.Clone()
	c.Normalize()
	if files == nil {
		files = []models.File{}
	}
	return Backup{
		Format:     Format,
		ExportedAt: now.UTC().Format(models.TimestampLayout),
		State:      c,
		IndexedDB:  FileDatabase{DBName: DBName, Stores: FileStores{Files: files}},
	}
}

// Encode renders b as indented JSON.
func Encode(b Backup) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return data, nil
}

type rawBackup struct {
	Format    string          `json:"format"`
	State     json.RawMessage `json:"state"`
	IndexedDB *struct {
		Stores *struct {
			Files []json.RawMessage `json:"files"`
		} `json:"stores"`
	} `json:"indexedDb"`
}

type rawFile struct {
	Path      *string `json:"path"`
	Content   string  `json:"content"`
	CreatedAt string  `json:"createdAt"`
}

// Decode validates and parses a backup document. Older state layouts are
// migrated. File entries without a string path are dropped.
func Decode(data []byte, newID func() string) (Contents, error) {
	var raw rawBackup
	if err := json.Unmarshal(data, &raw); err != nil {
		return Contents{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	state := bytes.TrimSpace(raw.State)
	if raw.Format != Format || len(state) == 0 || bytes.Equal(state, []byte("null")) {
		return Contents{}, ErrUnrecognizedFormat
	}

	st, err := Migrate(state, newID)
	if err != nil {
		return Contents{}, err
	}
	out := Contents{State: st}

	if raw.IndexedDB != nil && raw.IndexedDB.Stores != nil && raw.IndexedDB.Stores.Files != nil {
		out.FilesPresent = true
		out.Files = []models.File{}
		for _, item := range raw.IndexedDB.Stores.Files {
			var f rawFile
			if err := json.Unmarshal(item, &f); err != nil || f.Path == nil {
				continue
			}
			out.Files = append(out.Files, models.File{Path: *f.Path, Content: f.Content, CreatedAt: f.CreatedAt})
		}
	}
	return out, nil
}
