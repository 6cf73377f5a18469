package datastructure

import (
	"bufio"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	_ "image/jpeg"

	"golang.org/x/image/draw"
)

type NavMeta struct {
	Notes   string `json:"notes"`
	Version int    `json:"version"`
}

// NavFile is the on-disk stop table, written next to the mask PNG it refers to.
type NavFile struct {
	ImagePath  string                   `json:"image_path"`
	MaskPath   string                   `json:"mask_path"`
	PixelScale float64                  `json:"pixel_scale"`
	Stops      map[StopLabel]Coordinate `json:"stops"`
	Meta       NavMeta                  `json:"meta"`
}

func NewNavFile(imagePath, maskPath string, table *StopTable, meta NavMeta) *NavFile {
	stops := make(map[StopLabel]Coordinate, table.Len())
	for _, e := range table.Entries() {
		stops[e.Label] = e.Coord
	}
	return &NavFile{
		ImagePath:  imagePath,
		MaskPath:   maskPath,
		PixelScale: 1.0,
		Stops:      stops,
		Meta:       meta,
	}
}

// StopTable validates the stops against a mask of size width x height. labels are ordered lexicographically.
func (nf *NavFile) StopTable(width, height int) (*StopTable, error) {
	entries := make([]StopEntry, 0, len(nf.Stops))
	for l, c := range nf.Stops {
		entries = append(entries, NewStopEntry(l, c))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Label < entries[j].Label })
	return NewStopTable(entries, width, height)
}

func (nf *NavFile) WriteNavFile(filename string) error {
	data, err := json.MarshalIndent(nf, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(filename, data)
}

func ReadNavFile(filename string) (*NavFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var nf NavFile
	if err := json.Unmarshal(data, &nf); err != nil {
		return nil, fmt.Errorf("decode nav file %s: %w", filename, err)
	}
	return &nf, nil
}

// ReadImage decodes a png or jpeg file.
func ReadImage(filename string) (image.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", filename, err)
	}
	return img, nil
}

// ReadGrayImage decodes filename and converts it to 8-bit grayscale anchored at (0,0).
func ReadGrayImage(filename string) (*image.Gray, error) {
	img, err := ReadImage(filename)
	if err != nil {
		return nil, err
	}
	return ToGray(img), nil
}

func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

func ReadMask(filename string) (*WalkabilityMask, error) {
	img, err := ReadImage(filename)
	if err != nil {
		return nil, err
	}
	return NewWalkabilityMaskFromImage(img), nil
}

func (m *WalkabilityMask) WriteMask(filename string) error {
	return WritePNG(filename, m.ToGray())
}

func WritePNG(filename string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := png.Encode(w, img); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeFileAtomic writes to a temp file in the same directory and renames it over filename.
func writeFileAtomic(filename string, data []byte) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, filename)
}

// WriteFileAtomic is writeFileAtomic for other packages persisting artifacts.
func WriteFileAtomic(filename string, data []byte) error {
	return writeFileAtomic(filename, data)
}

// FileExists reports whether filename exists and is a regular file.
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}
