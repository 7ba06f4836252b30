package geometry

// Box is the on-screen bounding box of the drop target, in device pixels.
type Box struct {
	Left, Top     float64
	Width, Height float64
}

// ToPercent converts a pointer position into the 0-100 space of the box.
// Points outside the box map outside 0-100; clamping is left to the region.
func ToPercent(clientX, clientY float64, box Box) (float64, float64, error) {
	if box.Width <= 0 || box.Height <= 0 {
		return 0, 0, ErrEmptyBox
	}
	x := (clientX - box.Left) / box.Width * 100
	y := (clientY - box.Top) / box.Height * 100
	return x, y, nil
}
