package pack

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Document is one named markup document.
type Document interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type fileDocument struct {
	fsys fs.FS
	path string
}

func (d fileDocument) Name() string {
	return d.path
}

func (d fileDocument) Open() (io.ReadCloser, error) {
	f, err := d.fsys.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.path, err)
	}
	return f, nil
}

// FileDocument returns a document read from fsys.
func FileDocument(fsys fs.FS, name string) Document {
	return fileDocument{fsys: fsys, path: name}
}

// Pack is a manifest bound to the file system holding its documents.
type Pack struct {
	Manifest Manifest

	fsys fs.FS
	dir  string
	// tags lists the default language first, then locales sorted by tag.
	tags    []language.Tag
	docs    []string
	matcher language.Matcher
}

// Load reads the manifest at manifestPath in fsys. Document paths are
// relative to the manifest directory.
func Load(fsys fs.FS, manifestPath string) (*Pack, error) {
	data, err := fs.ReadFile(fsys, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", manifestPath, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifestPath, err)
	}
	return New(fsys, path.Dir(manifestPath), m)
}

// New binds a validated manifest to fsys, with document paths relative to
// dir.
func New(fsys fs.FS, dir string, m Manifest) (*Pack, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	p := &Pack{Manifest: m, fsys: fsys, dir: dir}

	base, _ := m.defaultLanguage()
	p.tags = []language.Tag{base}
	p.docs = []string{m.Labels.Default}

	locales := make([]string, 0, len(m.Labels.Locales))
	for raw := range m.Labels.Locales {
		locales = append(locales, raw)
	}
	slices.Sort(locales)
	for _, raw := range locales {
		tag := language.Make(raw)
		if tag == base {
			p.docs[0] = m.Labels.Locales[raw]
			continue
		}
		p.tags = append(p.tags, tag)
		p.docs = append(p.docs, m.Labels.Locales[raw])
	}
	p.matcher = language.NewMatcher(p.tags)
	return p, nil
}

// Name returns the manifest name.
func (p *Pack) Name() string {
	return p.Manifest.Name
}

func (p *Pack) document(rel string) Document {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return nil
	}
	return fileDocument{fsys: p.fsys, path: path.Join(p.dir, rel)}
}

// IconsDocument returns the icons document, or nil for a labels-only pack.
func (p *Pack) IconsDocument() Document {
	return p.document(p.Manifest.Icons)
}

// Languages returns the default language followed by the other locales.
func (p *Pack) Languages() []language.Tag {
	return slices.Clone(p.tags)
}

// LabelsDocument returns the labels document best matching tag and the
// language it was written for. Tags with no match get the default labels.
// The document is nil for an icons-only pack.
func (p *Pack) LabelsDocument(tag language.Tag) (Document, language.Tag) {
	if strings.TrimSpace(p.Manifest.Labels.Default) == "" {
		return nil, language.Und
	}
	_, index, confidence := p.matcher.Match(tag)
	if confidence == language.No {
		index = 0
	}
	return p.document(p.docs[index]), p.tags[index]
}

// DefaultLabelsDocument returns the labels document of the default language.
func (p *Pack) DefaultLabelsDocument() Document {
	return p.document(p.Manifest.Labels.Default)
}

//go:embed builtin/*
var builtinFS embed.FS

// Builtin returns the pack embedded in the binary.
func Builtin() (*Pack, error) {
	return Load(builtinFS, "builtin/"+ManifestName)
}

// Open loads the manifest at path from disk, or the builtin pack when path
// is empty.
func Open(manifestPath string) (*Pack, error) {
	if manifestPath == "" {
		return Builtin()
	}
	p, err := Load(os.DirFS(filepath.Dir(manifestPath)), filepath.Base(manifestPath))
	if err != nil {
		return nil, fmt.Errorf("open pack %s: %w", manifestPath, err)
	}
	return p, nil
}
