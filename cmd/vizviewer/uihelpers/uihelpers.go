package uihelpers

import (
	"path/filepath"
	"regexp"
	"strings"
)

// ComputeContainRect fits an imgW×imgH image inside a viewW×viewH view keeping its aspect
// ratio, centred. It returns the drawn rectangle and the scale applied to the image.
func ComputeContainRect(imgW, imgH, viewW, viewH float32) (x, y, w, h, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, 0, 0, 0
	}
	scale = viewW / imgW
	if s := viewH / imgH; s < scale {
		scale = s
	}
	w, h = imgW*scale, imgH*scale
	return (viewW - w) / 2, (viewH - h) / 2, w, h, scale
}

// PreviewSize returns the on-screen size for a figure: scaled down to fit maxW×maxH, never up.
func PreviewSize(figW, figH int, maxW, maxH float32) (float32, float32) {
	w, h := float32(figW), float32(figH)
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	_, _, fw, fh, scale := ComputeContainRect(w, h, maxW, maxH)
	if scale >= 1 || scale == 0 {
		return w, h
	}
	return fw, fh
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ExportFileName suggests a file name for saving a chart: the base of its configured output,
// or the sanitised chart name.
func ExportFileName(chart, output string) string {
	if base := filepath.Base(strings.TrimSpace(output)); base != "" && base != "." && base != string(filepath.Separator) {
		if !strings.EqualFold(filepath.Ext(base), ".png") {
			base += ".png"
		}
		return base
	}
	name := strings.Trim(unsafeName.ReplaceAllString(chart, "_"), "_")
	if name == "" {
		name = "chart"
	}
	return name + ".png"
}

// TruncatePath shortens p to about n characters, keeping the file name.
func TruncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}

// RecentList puts path first in list, drops duplicates and empties, and caps the length at max.
func RecentList(list []string, path string, max int) []string {
	out := []string{path}
	for _, p := range list {
		if p != "" && p != path && len(out) < max {
			out = append(out, p)
		}
	}
	return out
}
