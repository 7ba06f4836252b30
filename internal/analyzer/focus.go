package analyzer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// FocusDetector finds the busiest part of a photo with a Sobel edge pass,
// so a circular crop can be centred on the subject instead of the middle.
type FocusDetector struct {
	EdgeThreshold float64 // gradient magnitude threshold
	DilateSize    int     // kernel edge for joining nearby edges
	Iterations    int
	SampleSize    int // photos are downscaled to at most this edge first
}

// NewFocusDetector creates a detector with default settings
func NewFocusDetector() *FocusDetector {
	return &FocusDetector{
		EdgeThreshold: 30.0,
		DilateSize:    5,
		Iterations:    2,
		SampleSize:    256,
	}
}

// Focus returns the bounding box of the largest connected edge region,
// in img coordinates. ok is false for images with no usable edges.
func (d *FocusDetector) Focus(img image.Image) (image.Rectangle, bool) {
	b := img.Bounds()
	if b.Empty() {
		return image.Rectangle{}, false
	}

	gray, scale := d.sample(img)
	edges := sobelEdgeDetection(gray, d.EdgeThreshold)
	dilated := dilate(edges, d.DilateSize, d.Iterations)

	best, bestArea := image.Rectangle{}, 0
	for _, c := range findContours(dilated) {
		if c.pixels > bestArea {
			best, bestArea = c.rect, c.pixels
		}
	}
	if bestArea == 0 {
		return image.Rectangle{}, false
	}

	r := image.Rect(
		b.Min.X+int(math.Floor(float64(best.Min.X)/scale)),
		b.Min.Y+int(math.Floor(float64(best.Min.Y)/scale)),
		b.Min.X+int(math.Ceil(float64(best.Max.X)/scale)),
		b.Min.Y+int(math.Ceil(float64(best.Max.Y)/scale)),
	)
	return r.Intersect(b), true
}

// FocusSquare returns the square crop for img: at least half the short
// side, grown to hold the focus region, centred on it and kept inside
// the image. Without a focus it is the centred square.
func (d *FocusDetector) FocusSquare(img image.Image) image.Rectangle {
	b := img.Bounds()
	short := min(b.Dx(), b.Dy())

	focus, ok := d.Focus(img)
	if !ok {
		focus = b
	}

	side := max(short/2, focus.Dx(), focus.Dy())
	side = min(side, short)

	cx := (focus.Min.X + focus.Max.X) / 2
	cy := (focus.Min.Y + focus.Max.Y) / 2
	x0 := clampInt(cx-side/2, b.Min.X, b.Max.X-side)
	y0 := clampInt(cy-side/2, b.Min.Y, b.Max.Y-side)
	return image.Rect(x0, y0, x0+side, y0+side)
}

// sample converts img to grayscale at no more than SampleSize pixels on
// its long edge and reports the scale factor applied.
func (d *FocusDetector) sample(img image.Image) (*image.Gray, float64) {
	b := img.Bounds()
	scale := 1.0
	if long := max(b.Dx(), b.Dy()); d.SampleSize > 0 && long > d.SampleSize {
		scale = float64(d.SampleSize) / float64(long)
	}

	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	gray := image.NewGray(image.Rect(0, 0, w, h))
	if scale == 1 {
		draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, b, draw.Src, nil)
	}
	return gray, scale
}

func clampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

var (
	sobelX = [3][3]int{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY = [3][3]int{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

// sobelEdgeDetection marks pixels whose gradient magnitude exceeds threshold
func sobelEdgeDetection(gray *image.Gray, threshold float64) *image.Gray {
	bounds := gray.Bounds()
	edges := image.NewGray(bounds)

	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			var sumX, sumY float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					pixel := float64(gray.GrayAt(x+kx, y+ky).Y)
					sumX += pixel * float64(sobelX[ky+1][kx+1])
					sumY += pixel * float64(sobelY[ky+1][kx+1])
				}
			}
			if math.Hypot(sumX, sumY) > threshold {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return edges
}

// dilate performs morphological dilation to connect nearby edges
func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	bounds := img.Bounds()
	result := image.NewGray(bounds)
	copy(result.Pix, img.Pix)

	half := kernelSize / 2
	for iter := 0; iter < iterations; iter++ {
		temp := image.NewGray(bounds)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				var maxVal uint8
				for ky := max(bounds.Min.Y, y-half); ky <= min(bounds.Max.Y-1, y+half) && maxVal < 255; ky++ {
					for kx := max(bounds.Min.X, x-half); kx <= min(bounds.Max.X-1, x+half); kx++ {
						if v := result.GrayAt(kx, ky).Y; v > maxVal {
							maxVal = v
						}
					}
				}
				temp.SetGray(x, y, color.Gray{Y: maxVal})
			}
		}
		result = temp
	}

	return result
}

type contour struct {
	rect   image.Rectangle
	pixels int
}

// findContours returns the connected white regions of img
func findContours(img *image.Gray) []contour {
	bounds := img.Bounds()
	visited := make([]bool, bounds.Dx()*bounds.Dy())
	idx := func(x, y int) int { return (y-bounds.Min.Y)*bounds.Dx() + (x - bounds.Min.X) }

	var contours []contour
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.GrayAt(x, y).Y > 128 && !visited[idx(x, y)] {
				contours = append(contours, floodFill(img, visited, idx, x, y))
			}
		}
	}

	return contours
}

// floodFill walks one 4-connected region and returns its bounds and size
func floodFill(img *image.Gray, visited []bool, idx func(x, y int) int, startX, startY int) contour {
	bounds := img.Bounds()
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	pixels := 0

	stack := []image.Point{{X: startX, Y: startY}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := p.X, p.Y
		if !p.In(bounds) || visited[idx(x, y)] || img.GrayAt(x, y).Y <= 128 {
			continue
		}
		visited[idx(x, y)] = true
		pixels++

		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)

		stack = append(stack,
			image.Point{X: x + 1, Y: y},
			image.Point{X: x - 1, Y: y},
			image.Point{X: x, Y: y + 1},
			image.Point{X: x, Y: y - 1},
		)
	}

	return contour{rect: image.Rect(minX, minY, maxX+1, maxY+1), pixels: pixels}
}
