package export

import (
	"image"
	"image/gif"
	"image/png"
	"io"
)

// Encoder writes finished frames in a concrete file format.
type Encoder interface {
	EncodeStill(w io.Writer, img image.Image) error
	EncodeAnimation(w io.Writer, g *gif.GIF) error
}

// StdEncoder encodes PNG stills and GIF animations.
type StdEncoder struct {
	Compression png.CompressionLevel
}

func (e StdEncoder) EncodeStill(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: e.Compression}
	return enc.Encode(w, img)
}

func (e StdEncoder) EncodeAnimation(w io.Writer, g *gif.GIF) error {
	return gif.EncodeAll(w, g)
}

// Info describes an encoded animation.
type Info struct {
	Frames       int
	Delays       []int // hundredths of a second
	PaletteSizes []int
	LoopCount    int
	Width        int
	Height       int
}

// DecodeInfo reads back the frame layout of an animated export.
func DecodeInfo(r io.Reader) (Info, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return Info{}, err
	}
	info := Info{
		Frames:    len(g.Image),
		Delays:    append([]int(nil), g.Delay...),
		LoopCount: g.LoopCount,
		Width:     g.Config.Width,
		Height:    g.Config.Height,
	}
	for _, fr := range g.Image {
		info.PaletteSizes = append(info.PaletteSizes, len(fr.Palette))
	}
	return info, nil
}
