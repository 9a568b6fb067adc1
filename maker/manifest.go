package maker

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"

	"github.com/ardnew/makemake/lang"
	"github.com/ardnew/makemake/pkg"
)

// ManifestName is the file name of a template manifest, found at the root of
// the template tree.
const ManifestName = "makemake.json"

// Action selects how the materializer treats a file system entry.
type Action int

const (
	// Auto copies files and symlinks, and descends into directories applying
	// the manifest to their content.
	Auto Action = iota
	// Copy copies files and symlinks, and copies directories as raw subtrees
	// without consulting the manifest below them.
	Copy
	// Make expands the content of files. Directories are treated as [Auto].
	Make
	// Ignore skips the entry and, for directories, everything beneath it.
	Ignore
)

//nolint:gochecknoglobals
var actionName = [...]string{
	Auto:   "Auto",
	Copy:   "Copy",
	Make:   "Make",
	Ignore: "Ignore",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionName) {
		return actionName[a]
	}

	return "Action(" + strconv.Itoa(int(a)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(actionName) {
		return nil, ErrUnknownAction.With(slog.Int("action", int(a)))
	}

	return []byte(actionName[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Tags are case-sensitive.
func (a *Action) UnmarshalText(text []byte) error {
	for i, name := range actionName {
		if string(text) == name {
			*a = Action(i)

			return nil
		}
	}

	return ErrUnknownAction.With(slog.String("action", string(text)))
}

// FileInfo is the manifest entry of a single path.
//
// In JSON it is either a bare action tag or an object with optional "action"
// (default "Auto") and "name" members. Name is a template expanded to the
// destination's base name; an empty expansion ignores the entry.
type FileInfo struct {
	Action Action `json:"action"         yaml:"action"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FileInfo) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		*f = FileInfo{}

		return json.Unmarshal(data, &f.Action)
	}

	// Alias drops the method set to avoid recursion.
	type fileInfo FileInfo

	v := fileInfo{Action: Auto}

	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}

	*f = FileInfo(v)

	return nil
}

// MarshalJSON implements json.Marshaler. Entries without a name are written
// as a bare action tag.
func (f FileInfo) MarshalJSON() ([]byte, error) {
	if f.Name == "" {
		return json.Marshal(f.Action)
	}

	type fileInfo FileInfo

	return json.Marshal(fileInfo(f))
}

// Manifest is the per-template configuration stored in [ManifestName].
type Manifest struct {
	// PreCommand runs in the destination before the tree is materialized.
	PreCommand string `json:"preCommand,omitempty"  yaml:"preCommand,omitempty"`
	// PostCommand runs in the destination after the tree is materialized.
	PostCommand string `json:"postCommand,omitempty" yaml:"postCommand,omitempty"`
	// ExpandVariables expands the default values in Vars before they are
	// merged with the other variables.
	ExpandVariables bool `json:"expandVariables,omitempty" yaml:"expandVariables,omitempty"`
	// Files maps slash-separated paths relative to the template root to
	// their entries.
	Files map[string]FileInfo `json:"files,omitempty" yaml:"files,omitempty"`
	// Vars holds default variable values.
	Vars lang.Vars `json:"vars,omitempty" yaml:"vars,omitempty"`
}

// ParseManifest decodes a manifest from r.
func ParseManifest(r io.Reader) (*Manifest, error) {
	var m Manifest

	err := json.NewDecoder(r).Decode(&m)
	if err != nil {
		return nil, ErrManifest.Wrap(err)
	}

	// Normalize keys so that "./a//b" and "a/b" name the same entry.
	files := make(map[string]FileInfo, len(m.Files))
	for k, v := range m.Files {
		files[path.Clean(filepath.ToSlash(k))] = v
	}

	m.Files = files

	return &m, nil
}

// ReadManifest reads the manifest of the template rooted at root.
// It returns nil without error if the template has no manifest.
func ReadManifest(fsys afero.Fs, root string) (*Manifest, error) {
	name := filepath.Join(root, ManifestName)

	f, err := fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, ErrManifest.Wrap(err).With(slog.String("path", name))
	}
	defer f.Close()

	m, err := ParseManifest(f)
	if err != nil {
		return nil, pkg.WrapError(err).With(slog.String("path", name))
	}

	return m, nil
}

// Lookup returns the entry for rel, a path relative to the template root.
func (m *Manifest) Lookup(rel string) (FileInfo, bool) {
	if m == nil {
		return FileInfo{}, false
	}

	fi, ok := m.Files[path.Clean(filepath.ToSlash(rel))]

	return fi, ok
}
