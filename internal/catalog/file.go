package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File is the on-disk catalog format
type File struct {
	Items []FileItem `yaml:"items"`
}

// FileItem sets exactly one of Glyph or Image.
type FileItem struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Glyph string `yaml:"glyph,omitempty"`
	Image string `yaml:"image,omitempty"` // relative to the catalog file
}

// ReadFile loads a catalog from YAML, decoding any referenced images.
func ReadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	base := filepath.Dir(path)
	items := make([]Item, 0, len(f.Items))
	for _, fi := range f.Items {
		it, err := fi.toItem(base)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return New(items...)
}

func (fi FileItem) toItem(base string) (Item, error) {
	switch {
	case fi.Glyph != "" && fi.Image != "":
		return Item{}, fmt.Errorf("item %q sets both glyph and image", fi.ID)
	case fi.Glyph != "":
		return Item{ID: fi.ID, Label: fi.Label, Visual: Glyph{Text: fi.Glyph}}, nil
	case fi.Image != "":
		ref := fi.Image
		if !filepath.IsAbs(ref) {
			ref = filepath.Join(base, ref)
		}
		img, err := LoadImage(ref)
		if err != nil {
			return Item{}, fmt.Errorf("item %q: %w", fi.ID, err)
		}
		return Item{ID: fi.ID, Label: fi.Label, Visual: Image{Ref: fi.Image, Pixels: img}}, nil
	default:
		return Item{}, fmt.Errorf("item %q needs a glyph or an image", fi.ID)
	}
}

// WriteFile stores the glyph items of a catalog as YAML.
// Image items are written by reference only.
func WriteFile(c *Catalog, path string) error {
	var f File
	for _, it := range c.Items() {
		fi := FileItem{ID: it.ID, Label: it.Label}
		switch v := it.Visual.(type) {
		case Glyph:
			fi.Glyph = v.Text
		case Image:
			fi.Image = v.Ref
		}
		f.Items = append(f.Items, fi)
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
