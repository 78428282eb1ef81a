package main

import (
	"image/color"
	"math"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/soundstage/assets"
	"github.com/milk9111/soundstage/ecs/component"
	"github.com/milk9111/soundstage/ecs/system"
	"golang.org/x/image/font/basicfont"
)

const mixerPanelWidth = 240

var (
	panelColor   = color.NRGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xd0}
	buttonColor  = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	hoverColor   = color.NRGBA{R: 0x4a, G: 0x4a, B: 0x4a, A: 0xff}
	pressedColor = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	textColor    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// MixerUI is the on-screen mixer panel. Every control goes through the same
// ECS requests and manager calls as the keyboard shortcuts.
type MixerUI struct {
	ui *ebitenui.UI

	pauseBtn *widget.Button
	musicBtn *widget.Button
	sfxBtn   *widget.Button
	volume   *widget.Slider
	tracks   *widget.List

	listed   []assets.MusicID
	selected int
	syncing  bool
}

func newMixerTheme(face *ebtext.Face) *widget.Theme {
	return &widget.Theme{
		ListTheme: &widget.ListParams{
			EntryFace: face,
			EntryColor: &widget.ListEntryColor{
				Unselected:          textColor,
				Selected:            color.NRGBA{R: 0xf0, G: 0x90, B: 0x30, A: 0xff},
				DisabledUnselected:  color.Gray{Y: 128},
				DisabledSelected:    color.Gray{Y: 96},
				SelectingBackground: hoverColor,
				SelectedBackground:  buttonColor,
			},
			ScrollContainerImage: &widget.ScrollContainerImage{
				Idle: imageui.NewNineSliceColor(pressedColor),
				Mask: imageui.NewNineSliceColor(pressedColor),
			},
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    imageui.NewNineSliceColor(buttonColor),
				Hover:   imageui.NewNineSliceColor(hoverColor),
				Pressed: imageui.NewNineSliceColor(pressedColor),
			},
			TextFace:  face,
			TextColor: &widget.ButtonTextColor{Idle: textColor},
		},
		SliderTheme: &widget.SliderParams{
			TrackImage: &widget.SliderTrackImage{
				Idle:  imageui.NewNineSliceColor(buttonColor),
				Hover: imageui.NewNineSliceColor(hoverColor),
			},
			HandleImage: &widget.ButtonImage{
				Idle:    imageui.NewNineSliceColor(textColor),
				Hover:   imageui.NewNineSliceColor(textColor),
				Pressed: imageui.NewNineSliceColor(hoverColor),
			},
		},
	}
}

// NewMixerUI builds the panel docked to the right edge of the window.
func NewMixerUI(g *Game) *MixerUI {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	theme := newMixerTheme(&face)
	m := &MixerUI{
		ui:       &ebitenui.UI{PrimaryTheme: theme},
		listed:   g.tracks,
		selected: -1,
	}

	label := func(s string) *widget.Text {
		return widget.NewText(widget.TextOpts.Text(s, &face, textColor))
	}
	button := func(s string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(s, &face, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(mixerPanelWidth-40, 24)),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	m.pauseBtn = button(pauseLabel(false), func() {
		if g.manager.Music().Paused() {
			system.ResumeMusic(g.world)
		} else {
			system.PauseMusic(g.world)
		}
	})
	stopBtn := button("Stop", func() {
		system.StopMusic(g.world)
	})
	m.musicBtn = button(muteLabel("Music", false), func() {
		g.manager.ToggleMusic()
	})
	m.sfxBtn = button(muteLabel("SFX", false), func() {
		g.manager.ToggleSFX()
	})

	m.volume = widget.NewSlider(
		widget.SliderOpts.Direction(widget.DirectionHorizontal),
		widget.SliderOpts.MinMax(0, 100),
		widget.SliderOpts.WidgetOpts(widget.WidgetOpts.MinSize(mixerPanelWidth-40, 16)),
		widget.SliderOpts.ChangedHandler(func(args *widget.SliderChangedEventArgs) {
			if m.syncing {
				return
			}
			g.manager.SetMasterVolume(percentToVolume(args.Current))
		}),
	)
	m.volume.Current = volumeToPercent(g.manager.MasterVolume())

	entries := make([]any, 0, len(g.tracks))
	for _, id := range g.tracks {
		entries = append(entries, id)
	}
	m.tracks = widget.NewList(
		widget.ListOpts.Entries(entries),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if id, ok := e.(assets.MusicID); ok {
				return string(id)
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if m.syncing {
				return
			}
			id, ok := args.Entry.(assets.MusicID)
			if !ok {
				return
			}
			for i, t := range m.listed {
				if t == id {
					g.selected = i
					m.selected = i
				}
			}
			system.TransitionMusic(g.world, string(id), 0, 0)
		}),
	)
	m.tracks.GetWidget().MinHeight = 160

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(panelColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 16, Bottom: 16, Left: 20, Right: 20}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(mixerPanelWidth, baseHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
	)
	panel.AddChild(label("Mixer"))
	panel.AddChild(m.pauseBtn)
	panel.AddChild(stopBtn)
	panel.AddChild(m.musicBtn)
	panel.AddChild(m.sfxBtn)
	panel.AddChild(label("Master volume"))
	panel.AddChild(m.volume)
	panel.AddChild(label("Tracks"))
	panel.AddChild(m.tracks)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	m.ui.Container = root
	return m
}

// Sync copies state changed elsewhere (keyboard, cue scripts) into the widgets.
func (m *MixerUI) Sync(g *Game, np component.NowPlaying) {
	m.syncing = true
	defer func() { m.syncing = false }()

	m.pauseBtn.Text().Label = pauseLabel(np.Paused)
	m.musicBtn.Text().Label = muteLabel("Music", g.manager.MusicMuted())
	m.sfxBtn.Text().Label = muteLabel("SFX", g.manager.SFXMuted())
	m.volume.Current = volumeToPercent(g.manager.MasterVolume())

	if g.selected != m.selected && g.selected >= 0 && g.selected < len(m.listed) {
		m.selected = g.selected
		m.tracks.SetSelectedEntry(m.listed[g.selected])
	}
}

func (m *MixerUI) Update() {
	m.ui.Update()
}

func (m *MixerUI) Draw(screen *ebiten.Image) {
	m.ui.Draw(screen)
}

// Contains reports whether a screen point falls on the panel, so clicks on it
// do not also reach the world.
func (m *MixerUI) Contains(x, y int) bool {
	return x >= baseWidth-mixerPanelWidth && x < baseWidth && y >= 0 && y < baseHeight
}

func pauseLabel(paused bool) string {
	if paused {
		return "Resume"
	}
	return "Pause"
}

func muteLabel(name string, muted bool) string {
	if muted {
		return name + ": muted"
	}
	return name + ": on"
}

func volumeToPercent(v float64) int {
	return int(math.Round(v * 100))
}

func percentToVolume(p int) float64 {
	return math.Max(0, math.Min(1, float64(p)/100))
}
