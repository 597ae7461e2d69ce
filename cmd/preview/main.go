package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/levelforge/assembly"
	"github.com/milk9111/levelforge/chunks"
	"github.com/milk9111/levelforge/levels"
	"github.com/milk9111/levelforge/pipeline"
	"github.com/milk9111/levelforge/validate"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	cellSize  = 32
	hudHeight = 40
)

type preview struct {
	pipeline *pipeline.Pipeline
	seed     int64
	level    *levels.Level
	status   string

	face      ebtext.Face
	ui        *ebitenui.UI
	statusTxt *widget.Text
	clipOK    bool
}

func newPreview(p *pipeline.Pipeline, seed int64) *preview {
	g := &preview{
		pipeline: p,
		seed:     seed,
		face:     ebtext.NewGoXFace(basicfont.Face7x13),
		clipOK:   clipboard.Init() == nil,
	}
	g.ui = g.buildUI()
	g.regenerate()
	return g
}

func (g *preview) buildUI() *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})

	face := g.face
	g.statusTxt = widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchHorizontal:  true,
			}),
		),
	)
	panel.AddChild(g.statusTxt)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}

func (g *preview) regenerate() {
	l, err := g.pipeline.Build(context.Background(), g.seed)
	if err != nil {
		g.setStatus(fmt.Sprintf("seed %d: %v", g.seed, err))
		return
	}
	g.level = l
	if err := g.pipeline.Validate(l); err != nil {
		g.setStatus(fmt.Sprintf("seed %d: %d objects, INVALID: %v", g.seed, len(l.Placements()), err))
		return
	}
	g.setStatus(fmt.Sprintf("seed %d: %d objects, valid   [R] next seed  [C] copy YAML", g.seed, len(l.Placements())))
}

func (g *preview) setStatus(s string) {
	g.status = s
	if g.statusTxt != nil {
		g.statusTxt.Label = s
	}
}

func (g *preview) copyYAML() {
	if g.level == nil {
		return
	}
	if !g.clipOK {
		g.setStatus("clipboard unavailable")
		return
	}
	var buf bytes.Buffer
	if err := g.level.EncodeYAML(&buf); err != nil {
		g.setStatus(err.Error())
		return
	}
	clipboard.Write(clipboard.FmtText, buf.Bytes())
	g.setStatus(fmt.Sprintf("seed %d: copied %d bytes of YAML", g.seed, buf.Len()))
}

func (g *preview) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.seed++
		g.regenerate()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyYAML()
	}
	g.ui.Update()
	return nil
}

func (g *preview) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x10, 0x10, 0x18, 0xff})
	if g.level != nil {
		for idx, ref := range g.level.Cells() {
			x, y := g.level.Coord(idx)
			px := float32(x * cellSize)
			py := float32(y*cellSize + hudHeight)
			vector.StrokeRect(screen, px, py, cellSize, cellSize, 1, color.RGBA{0x30, 0x30, 0x40, 0xff}, false)
			if ref == "" {
				continue
			}
			vector.FillRect(screen, px+2, py+2, cellSize-4, cellSize-4, refColor(ref), false)

			op := &ebtext.DrawOptions{}
			op.GeoM.Translate(float64(px)+9, float64(py)+9)
			op.ColorScale.ScaleWithColor(colornames.White)
			ebtext.Draw(screen, ref, g.face, op)
		}
	}
	g.ui.Draw(screen)
}

func (g *preview) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := g.pipeline.Config
	return cfg.Width * cellSize, cfg.Height*cellSize + hudHeight
}

func refColor(ref string) color.Color {
	switch ref {
	case "sp":
		return colornames.Limegreen
	case "ex":
		return colornames.Deepskyblue
	}
	switch ref[0] {
	case 'c':
		return colornames.Sienna
	case 'p':
		return colornames.Slategray
	case 'h':
		return colornames.Crimson
	case 'e':
		return colornames.Darkorange
	case 'k', 'b':
		return colornames.Gold
	default:
		return colornames.Orchid
	}
}

func main() {
	seed := flag.Int64("seed", 1, "initial seed")
	theme := flag.String("theme", "ward", "chunk theme")
	difficulty := flag.Int("difficulty", 2, "maximum chunk difficulty")
	scripts := flag.String("scripts", "chunks/scripts", "directory checked for chunk scripts before the embedded ones")
	flag.Parse()

	cfg := levels.DefaultConfig()
	p := &pipeline.Pipeline{
		Config: cfg,
		Source: &chunks.ScriptSource{Dir: *scripts, Theme: *theme, Difficulty: *difficulty, Seed: *seed},
		NewAssembler: func(s int64) assembly.Assembler {
			opts := assembly.DefaultOptions()
			opts.Theme = *theme
			opts.MaxDifficulty = *difficulty
			opts.Seed = s
			return assembly.NewSlotAssembler(opts)
		},
		Validator: validate.All(validate.Consistency{}, validate.Required{Refs: []string{"sp", "ex"}}),
	}

	g := newPreview(p, *seed)
	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("levelforge preview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
