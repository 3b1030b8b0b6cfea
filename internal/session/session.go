package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/inkpad/inkcore/internal/textbuf"
)

// State is the remembered view state for one document.
type State struct {
	Selection textbuf.Range
	ScrollY   float64
}

// Store reads and writes the session file. It is not safe for
// concurrent use; it belongs to the editor thread.
type Store struct {
	path string
	data []byte
	id   uuid.UUID
}

// Open loads the session file at path, creating fresh state if the
// file does not exist. A corrupt file is discarded rather than
// propagated; losing scroll positions beats refusing to start.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: []byte("{}")}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if gjson.ValidBytes(data) {
			s.data = data
		}
	case os.IsNotExist(err):
		// First run.
	default:
		return nil, fmt.Errorf("read session %s: %w", path, err)
	}

	if raw := gjson.GetBytes(s.data, "session_id"); raw.Exists() {
		if id, err := uuid.Parse(raw.String()); err == nil {
			s.id = id
		}
	}
	if s.id == uuid.Nil {
		s.id = uuid.New()
		if s.data, err = sjson.SetBytes(s.data, "session_id", s.id.String()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ID identifies this session file across runs.
func (s *Store) ID() uuid.UUID {
	return s.id
}

// Get returns the stored state for a document.
func (s *Store) Get(docPath string) (State, bool) {
	doc := gjson.GetBytes(s.data, docKey(docPath))
	if !doc.Exists() {
		return State{}, false
	}
	return State{
		Selection: textbuf.Range{
			Start:  int(doc.Get("selection.start").Int()),
			Length: int(doc.Get("selection.length").Int()),
		},
		ScrollY: doc.Get("scroll_y").Float(),
	}, true
}

// Put records the state for a document. The change is in memory until
// Save.
func (s *Store) Put(docPath string, st State) error {
	key := docKey(docPath)
	var err error
	set := func(subkey string, value any) {
		if err != nil {
			return
		}
		s.data, err = sjson.SetBytes(s.data, key+"."+subkey, value)
	}
	set("selection.start", st.Selection.Start)
	set("selection.length", st.Selection.Length)
	set("scroll_y", st.ScrollY)
	set("updated_at", time.Now().UTC().Format(time.RFC3339))
	return err
}

// Forget drops the stored state for a document.
func (s *Store) Forget(docPath string) error {
	var err error
	s.data, err = sjson.DeleteBytes(s.data, docKey(docPath))
	return err
}

// Save writes the session file atomically.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(s.data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// docKey builds the JSON path for a document, escaping the characters
// the path syntax treats specially.
func docKey(docPath string) string {
	escaper := strings.NewReplacer(
		`\`, `\\`,
		`.`, `\.`,
		`*`, `\*`,
		`?`, `\?`,
		`|`, `\|`,
		`#`, `\#`,
		`@`, `\@`,
	)
	return "documents." + escaper.Replace(docPath)
}
