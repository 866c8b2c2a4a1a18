package uihelpers

import (
	"strings"
	"testing"
)

func TestComputeContainRect(t *testing.T) {
	// wide view: height limits
	x, y, w, h, s := ComputeContainRect(1200, 1000, 1000, 500)
	if s != 0.5 || w != 600 || h != 500 || x != 200 || y != 0 {
		t.Fatalf("wide view: got x=%v y=%v w=%v h=%v s=%v", x, y, w, h, s)
	}
	// tall view: width limits
	x, y, w, h, s = ComputeContainRect(1200, 800, 600, 1000)
	if s != 0.5 || w != 600 || h != 400 || x != 0 || y != 300 {
		t.Fatalf("tall view: got x=%v y=%v w=%v h=%v s=%v", x, y, w, h, s)
	}
	if _, _, _, _, s := ComputeContainRect(0, 10, 10, 10); s != 0 {
		t.Fatalf("empty image should give zero scale, got %v", s)
	}
}

func TestPreviewSize(t *testing.T) {
	cases := []struct {
		figW, figH   int
		maxW, maxH   float32
		wantW, wantH float32
	}{
		{1200, 1000, 600, 1000, 600, 500},
		{400, 300, 1000, 1000, 400, 300},
		{1200, 800, 2400, 400, 600, 400},
		{0, 100, 100, 100, 0, 0},
	}
	for _, c := range cases {
		w, h := PreviewSize(c.figW, c.figH, c.maxW, c.maxH)
		if w != c.wantW || h != c.wantH {
			t.Fatalf("PreviewSize(%d,%d,%v,%v) = %v,%v want %v,%v", c.figW, c.figH, c.maxW, c.maxH, w, h, c.wantW, c.wantH)
		}
	}
}

func TestExportFileName(t *testing.T) {
	cases := map[[2]string]string{
		{"nz-migration", "nz_migration_facets.png"}: "nz_migration_facets.png",
		{"us-cpi", "charts/us_cpi"}:                  "us_cpi.png",
		{"US CPI / quarterly", ""}:                   "US_CPI_quarterly.png",
		{"///", ""}:                                  "chart.png",
	}
	for in, want := range cases {
		if got := ExportFileName(in[0], in[1]); got != want {
			t.Fatalf("ExportFileName(%q, %q) = %q want %q", in[0], in[1], got, want)
		}
	}
}

func TestTruncatePath(t *testing.T) {
	if got := TruncatePath("/a/b.yaml", 60); got != "/a/b.yaml" {
		t.Fatalf("short path changed: %q", got)
	}
	long := "/home/user/projects/dataviz/configs/very/deep/folder/structure/jobs.yaml"
	got := TruncatePath(long, 30)
	if !strings.HasSuffix(got, "/...jobs.yaml") || len(got) > 30 {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := TruncatePath("/x/"+strings.Repeat("n", 40)+".yaml", 20); !strings.HasPrefix(got, "...") {
		t.Fatalf("long base should collapse to ...base, got %q", got)
	}
}

func TestRecentList(t *testing.T) {
	got := RecentList([]string{"b", "a", "", "c", "d"}, "a", 3)
	want := []string{"a", "b", "c"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("RecentList = %v want %v", got, want)
	}
}
