package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/DataVizDesign/cmd/vizviewer/uihelpers"
	"github.com/iafilius/DataVizDesign/src/config"
	"github.com/iafilius/DataVizDesign/src/pipeline"
	"github.com/iafilius/DataVizDesign/src/render"
	"github.com/iafilius/DataVizDesign/src/vizlog"
)

const (
	prefConfigPath = "configPath"
	prefRecent     = "recentConfigs"
	prefDark       = "darkTheme"
	maxRecent      = 10
)

type uiState struct {
	app        fyne.App
	window     fyne.Window
	configPath string

	cfg    *config.Config
	charts []chartImage

	tabs      *container.AppTabs
	pathLabel *widget.Label
	status    *widget.Label
}

// chartImage is one rendered chart, or the error that stopped it.
type chartImage struct {
	name   string
	output string
	img    image.Image
	err    error
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var (
		configFlag string
		outFlag    string
		logLevel   string
		darkFlag   bool
	)
	flag.StringVar(&configFlag, "config", "", "Path to the chart job file (default: last opened, then built-in charts)")
	flag.StringVar(&outFlag, "out", "", "Render every chart to this directory and exit without opening a window")
	flag.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flag.BoolVar(&darkFlag, "dark", false, "Use the dark theme")
	flag.Parse()
	vizlog.SetLogLevel(logLevel)

	if outFlag != "" {
		if err := runHeadless(context.Background(), configFlag, outFlag); err != nil {
			fmt.Fprintf(os.Stderr, "vizviewer: %v\n", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.dataviz.viewer")
	if darkFlag || a.Preferences().BoolWithFallback(prefDark, false) {
		a.Settings().SetTheme(&darkTheme{})
	}
	w := a.NewWindow("DataViz Viewer")
	w.Resize(fyne.NewSize(1200, 900))

	state := &uiState{
		app:        a,
		window:     w,
		configPath: configFlag,
		pathLabel:  widget.NewLabel(""),
		status:     widget.NewLabel(""),
		tabs:       container.NewAppTabs(),
	}
	if state.configPath == "" {
		state.configPath = a.Preferences().StringWithFallback(prefConfigPath, "")
	}
	state.tabs.SetTabLocation(container.TabLocationTop)

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), func() { openConfig(state) }),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() { loadAll(state) }),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { exportSelected(state) }),
	)
	top := container.NewBorder(nil, nil, toolbar, nil, state.pathLabel)
	w.SetContent(container.NewBorder(top, state.status, nil, nil, state.tabs))
	buildMenus(state)

	loadAll(state)
	w.ShowAndRun()
}

func buildMenus(state *uiState) {
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Config…", func() { openConfig(state) }),
		fyne.NewMenuItem("Reload", func() { loadAll(state) }),
		fyne.NewMenuItem("Export PNG…", func() { exportSelected(state) }),
	)
	recent := fyne.NewMenuItem("Open Recent", nil)
	var items []*fyne.MenuItem
	for _, p := range recentConfigs(state) {
		p := p
		items = append(items, fyne.NewMenuItem(uihelpers.TruncatePath(p, 60), func() {
			state.configPath = p
			loadAll(state)
		}))
	}
	if len(items) > 0 {
		recent.ChildMenu = fyne.NewMenu("", items...)
		file.Items = append(file.Items, recent)
	}
	view := fyne.NewMenu("View",
		fyne.NewMenuItem("Toggle Dark Theme", func() {
			dark := !state.app.Preferences().BoolWithFallback(prefDark, false)
			state.app.Preferences().SetBool(prefDark, dark)
			if dark {
				state.app.Settings().SetTheme(&darkTheme{})
			} else {
				state.app.Settings().SetTheme(theme.DefaultTheme())
			}
		}),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(file, view))
}

// loadAll reads the config and renders every chart off the UI goroutine.
func loadAll(state *uiState) {
	cfg, err := config.LoadAndValidate(state.configPath)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.cfg = cfg
	label := state.configPath
	if label == "" {
		label = "(built-in charts)"
	} else {
		state.app.Preferences().SetString(prefConfigPath, state.configPath)
		addRecentConfig(state, state.configPath)
	}
	state.pathLabel.SetText(uihelpers.TruncatePath(label, 80))
	state.status.SetText(fmt.Sprintf("Rendering %d charts…", len(cfg.Charts)))

	runner := pipeline.New(cfg)
	go func() {
		charts := renderCharts(context.Background(), runner)
		fyne.Do(func() { showCharts(state, charts) })
	}()
}

// renderCharts builds and rasterizes every configured chart. A failing chart is kept with its
// error so the others still show.
func renderCharts(ctx context.Context, r *pipeline.Runner) []chartImage {
	charts, _ := r.Select(nil)
	out := make([]chartImage, 0, len(charts))
	for _, ch := range charts {
		ci := chartImage{name: ch.Name, output: ch.Output}
		fig, st, err := r.Build(ctx, ch)
		if err == nil {
			ci.img, err = render.Image(fig, st)
		}
		if err != nil {
			vizlog.Errorf("[viewer] %s: %v", ch.Name, err)
			ci.err = err
		}
		out = append(out, ci)
	}
	return out
}

func showCharts(state *uiState, charts []chartImage) {
	state.charts = charts
	selected := state.tabs.SelectedIndex()
	items := make([]*container.TabItem, 0, len(charts))
	failed := 0
	for _, c := range charts {
		if c.err != nil {
			failed++
			msg := widget.NewLabel(c.err.Error())
			msg.Wrapping = fyne.TextWrapWord
			items = append(items, container.NewTabItemWithIcon(c.name, theme.ErrorIcon(), msg))
			continue
		}
		img := canvas.NewImageFromImage(c.img)
		img.FillMode = canvas.ImageFillContain
		b := c.img.Bounds()
		w, h := uihelpers.PreviewSize(b.Dx(), b.Dy(), 1180, 780)
		img.SetMinSize(fyne.NewSize(w, h))
		items = append(items, container.NewTabItem(c.name, container.NewScroll(img)))
	}
	state.tabs.SetItems(items)
	if selected >= 0 && selected < len(items) {
		state.tabs.SelectIndex(selected)
	}
	state.status.SetText(statusLine(charts, failed))
}

func statusLine(charts []chartImage, failed int) string {
	if failed == 0 {
		return fmt.Sprintf("%d charts rendered", len(charts))
	}
	var names []string
	for _, c := range charts {
		if c.err != nil {
			names = append(names, c.name)
		}
	}
	return fmt.Sprintf("%d charts rendered, %d failed: %s", len(charts)-failed, failed, strings.Join(names, ", "))
}

func openConfig(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		state.configPath = path
		loadAll(state)
		buildMenus(state)
	}, state.window)
	d.Show()
}

// export PNG
func exportSelected(state *uiState) {
	idx := state.tabs.SelectedIndex()
	if idx < 0 || idx >= len(state.charts) || state.charts[idx].img == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	c := state.charts[idx]
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, c.img); err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		vizlog.Infof("[viewer] exported %s to %s", c.name, wc.URI().Path())
	}, state.window)
	fs.SetFileName(uihelpers.ExportFileName(c.name, c.output))
	fs.Show()
}

// recent files helpers
func recentConfigs(state *uiState) []string {
	raw := state.app.Preferences().StringWithFallback(prefRecent, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, "\n") {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentConfig(state *uiState, path string) {
	list := uihelpers.RecentList(recentConfigs(state), path, maxRecent)
	state.app.Preferences().SetString(prefRecent, strings.Join(list, "\n"))
}
