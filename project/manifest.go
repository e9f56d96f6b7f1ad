package project

import (
	"fmt"
	"sort"
	"sync"

	"github.com/beevik/etree"

	"github.com/Skryldev/asset-generator/core"
	apperrors "github.com/Skryldev/asset-generator/errors"
)

// AndroidManifest is an in-memory AndroidManifest.xml.  Mutations are held
// until Project.Commit writes them; it is safe for concurrent use.
type AndroidManifest struct {
	mu    sync.Mutex
	path  string
	doc   *etree.Document
	dirty bool
}

// LoadAndroidManifest parses the manifest at path.
func LoadAndroidManifest(path string) (*AndroidManifest, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryManifest, "manifest.load", fmt.Errorf("%s: %w", path, err))
	}
	return &AndroidManifest{path: path, doc: doc}, nil
}

// Path returns the file the manifest was loaded from.
func (m *AndroidManifest) Path() string { return m.path }

// SetAttrs sets each attribute on the first element matching elemPath, in
// key order.  Prefixed keys such as "android:icon" keep their prefix.
func (m *AndroidManifest) SetAttrs(elemPath string, attrs map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	el := m.doc.FindElement(elemPath)
	if el == nil {
		return apperrors.New(apperrors.CategoryManifest, "manifest.set",
			fmt.Errorf("%w: %s", apperrors.ErrElementNotFound, elemPath))
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if a := el.SelectAttr(k); a != nil && a.Value == attrs[k] {
			continue
		}
		el.CreateAttr(k, attrs[k])
		m.dirty = true
	}
	return nil
}

// Attr returns the value of key on the element at elemPath.
func (m *AndroidManifest) Attr(elemPath, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el := m.doc.FindElement(elemPath)
	if el == nil {
		return "", false
	}
	a := el.SelectAttr(key)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// Dirty reports whether there are unsaved mutations.
func (m *AndroidManifest) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

// Bytes serialises the current document.
func (m *AndroidManifest) Bytes() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.WriteToBytes()
}

func (m *AndroidManifest) markClean() {
	m.mu.Lock()
	m.dirty = false
	m.mu.Unlock()
}

var _ core.Manifest = (*AndroidManifest)(nil)
