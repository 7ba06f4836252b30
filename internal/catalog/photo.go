package catalog

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// PhotoSize is the edge of the square a custom photo is cropped into.
const PhotoSize = 100

var photoExts = []string{".jpg", ".jpeg", ".png"}

// ListPhotos returns the image files at path: the file itself, or every
// jpg/png in the directory sorted by name.
func ListPhotos(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !isPhoto(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(path, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func isPhoto(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range photoExts {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadImage decodes a png or jpeg file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// CircleCrop scales the crop area of src into a PhotoSize square and
// clears everything outside the inscribed circle.
// An empty crop uses the largest centred square of src.
func CircleCrop(src image.Image, crop image.Rectangle) *image.RGBA {
	crop = crop.Intersect(src.Bounds())
	if crop.Empty() {
		crop = centreSquare(src.Bounds())
	}

	dst := image.NewRGBA(image.Rect(0, 0, PhotoSize, PhotoSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)

	r := float64(PhotoSize) / 2
	for y := 0; y < PhotoSize; y++ {
		for x := 0; x < PhotoSize; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy > r*r {
				dst.SetRGBA(x, y, color.RGBA{})
			}
		}
	}
	return dst
}

func centreSquare(b image.Rectangle) image.Rectangle {
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}

// ImportPhoto turns a user photo into a custom item with a fresh id.
func ImportPhoto(src image.Image, crop image.Rectangle, ref, label string) Item {
	if label == "" {
		label = "Photo"
	}
	return Item{
		ID:     "photo-" + uuid.NewString(),
		Label:  label,
		Visual: Image{Ref: ref, Pixels: CircleCrop(src, crop)},
		Custom: true,
	}
}
