package viseme

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Image is a reference to one mouth asset on disk. The encoder reads the
// pixels; the catalog only records where the file is and how big it is.
type Image struct {
	Shape  Shape
	Path   string
	Width  int
	Height int
}

// Catalog maps every Shape to its image asset. Construction validates the
// full set up front so ImageFor is total afterwards.
type Catalog struct {
	images map[Shape]Image
	width  int
	height int
}

// MissingAssetError reports every absent mouth image in one pass.
type MissingAssetError struct {
	Dir    string
	Shapes []Shape
}

func (e *MissingAssetError) Error() string {
	names := make([]string, len(e.Shapes))
	for i, s := range e.Shapes {
		names[i] = s.AssetName()
	}
	return fmt.Sprintf("missing mouth images in %s: %s", e.Dir, strings.Join(names, ", "))
}

// MixedResolutionError reports mouth images whose dimensions disagree.
// The encoder needs a uniform frame size, so this is fatal at load time.
type MixedResolutionError struct {
	Images []Image
}

func (e *MixedResolutionError) Error() string {
	parts := make([]string, len(e.Images))
	for i, img := range e.Images {
		parts[i] = fmt.Sprintf("%s=%dx%d", filepath.Base(img.Path), img.Width, img.Height)
	}
	return "mouth images have mixed resolutions: " + strings.Join(parts, ", ")
}

// LoadCatalog scans dir for one mouth_<SHAPE>.png per shape. All missing
// shapes are collected into a single MissingAssetError so the user can fix
// the asset directory in one pass.
func LoadCatalog(dir string, logger zerolog.Logger) (*Catalog, error) {
	log := logger.With().Str("component", "catalog").Logger()

	images := make(map[Shape]Image, len(Shapes))
	var missing []Shape

	for _, shape := range Shapes {
		path := filepath.Join(dir, shape.AssetName())
		w, h, err := pngSize(path)
		if err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, shape)
				continue
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		images[shape] = Image{Shape: shape, Path: path, Width: w, Height: h}
	}

	if len(missing) > 0 {
		return nil, &MissingAssetError{Dir: dir, Shapes: missing}
	}

	first := images[Shapes[0]]
	var odd []Image
	for _, shape := range Shapes {
		img := images[shape]
		if img.Width != first.Width || img.Height != first.Height {
			odd = append(odd, img)
		}
	}
	if len(odd) > 0 {
		return nil, &MixedResolutionError{Images: append([]Image{first}, odd...)}
	}

	log.Debug().
		Str("dir", dir).
		Int("width", first.Width).
		Int("height", first.Height).
		Msg("Mouth catalog loaded")

	return &Catalog{images: images, width: first.Width, height: first.Height}, nil
}

// ImageFor returns the asset for a shape. Total over the closed enumeration
// once LoadCatalog has succeeded.
func (c *Catalog) ImageFor(shape Shape) Image {
	img, ok := c.images[shape]
	if !ok {
		// Catalog construction guarantees every shape; reaching this is a bug.
		panic(fmt.Sprintf("viseme: no asset for shape %q", shape))
	}
	return img
}

// Resolution returns the shared width and height of all mouth images.
func (c *Catalog) Resolution() (int, int) {
	return c.width, c.height
}

func pngSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
