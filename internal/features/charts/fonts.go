package charts

import (
	"os"
	"path/filepath"

	logging "glucose-chart/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"
)

// DefaultFontPaths is searched in order when Style.FontPaths is empty.
var DefaultFontPaths = []string{
	"etc/fonts/InterVariable.ttf",
	"etc/fonts/Inter-Regular.ttf",
	"~/Library/Fonts/InterVariable.ttf",
	"~/Library/Fonts/Inter-Regular.ttf",
	"/Library/Fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/inter/Inter-Regular.ttf",
	"/usr/local/share/fonts/Inter-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}

// fontSet caches faces of one TrueType file by size.
// With no usable file it leaves gg's built-in face in place.
type fontSet struct {
	path  string
	faces map[float64]font.Face
}

func loadFonts(paths []string) *fontSet {
	if len(paths) == 0 {
		paths = DefaultFontPaths
	}
	fs := &fontSet{faces: make(map[float64]font.Face)}

	for _, p := range paths {
		expanded := expandPath(p)
		info, err := os.Stat(expanded)
		if err != nil {
			continue
		}
		face, err := gg.LoadFontFace(expanded, 12)
		if err != nil {
			logging.LogWarn("Font file exists but failed to load",
				zap.String("path", expanded),
				zap.Error(err))
			continue
		}
		fs.path = expanded
		fs.faces[12] = face
		logging.LogDebug("Loaded chart font",
			zap.String("path", expanded),
			zap.Int64("size", info.Size()))
		return fs
	}

	logging.LogWarn("No chart font found, using built-in face",
		zap.Int("paths_checked", len(paths)))
	return fs
}

// use sets a face of the given point size on dc.
func (fs *fontSet) use(dc *gg.Context, points float64) {
	if fs == nil || fs.path == "" {
		return
	}
	face, ok := fs.faces[points]
	if !ok {
		var err error
		face, err = gg.LoadFontFace(fs.path, points)
		if err != nil {
			return
		}
		fs.faces[points] = face
	}
	dc.SetFontFace(face)
}
