package main

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const holdTickInterval = 50 * time.Millisecond

// HoldButton requires a sustained press before it acts, so a half-asleep
// tap cannot silence an alarm by accident. Releasing or leaving the button
// resets the progress.
type HoldButton struct {
	widget.BaseWidget
	Text         string
	HoldDuration time.Duration
	OnComplete   func()

	holding  bool
	hovered  bool
	progress float64
	ticker   *time.Ticker
}

func NewHoldButton(text string, holdDuration time.Duration, onComplete func()) *HoldButton {
	b := &HoldButton{
		Text:         text,
		HoldDuration: holdDuration,
		OnComplete:   onComplete,
	}
	b.ExtendBaseWidget(b)
	return b
}

func (b *HoldButton) CreateRenderer() fyne.WidgetRenderer {
	text := canvas.NewText(b.Text, theme.ForegroundColor())
	text.Alignment = fyne.TextAlignCenter

	return &holdButtonRenderer{
		button:   b,
		text:     text,
		bg:       canvas.NewRectangle(theme.ButtonColor()),
		progress: canvas.NewRectangle(theme.PrimaryColor()),
	}
}

func (b *HoldButton) Tapped(*fyne.PointEvent) {
	// Acts on hold completion, not on tap.
}

func (b *HoldButton) TappedSecondary(*fyne.PointEvent) {}

func (b *HoldButton) MouseIn(*desktop.MouseEvent) {
	b.hovered = true
	b.Refresh()
}

func (b *HoldButton) MouseMoved(*desktop.MouseEvent) {}

func (b *HoldButton) MouseOut() {
	b.hovered = false
	b.cancelHold()
	b.Refresh()
}

func (b *HoldButton) MouseDown(*desktop.MouseEvent) {
	if b.holding {
		return
	}
	b.holding = true
	b.progress = 0
	b.Refresh()
	b.startTicking()
}

func (b *HoldButton) MouseUp(*desktop.MouseEvent) {
	b.cancelHold()
	b.Refresh()
}

func (b *HoldButton) startTicking() {
	increment := float64(holdTickInterval) / float64(b.HoldDuration)
	b.ticker = time.NewTicker(holdTickInterval)

	go func() {
		for range b.ticker.C {
			fyne.Do(func() {
				if !b.holding {
					return
				}
				b.progress += increment
				b.Refresh()
				if b.progress >= 1.0 {
					b.holding = false
					b.ticker.Stop()
					if b.OnComplete != nil {
						b.OnComplete()
					}
				}
			})
		}
	}()
}

func (b *HoldButton) cancelHold() {
	if !b.holding {
		return
	}
	b.holding = false
	b.progress = 0
	if b.ticker != nil {
		b.ticker.Stop()
	}
}

type holdButtonRenderer struct {
	button   *HoldButton
	text     *canvas.Text
	bg       *canvas.Rectangle
	progress *canvas.Rectangle
}

func (r *holdButtonRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.text.Resize(size)
	r.progress.Resize(fyne.NewSize(size.Width*float32(r.button.progress), size.Height))
	r.progress.Move(fyne.NewPos(0, 0))
}

func (r *holdButtonRenderer) MinSize() fyne.Size {
	textSize := r.text.MinSize()
	width := textSize.Width + theme.Padding()*4
	height := textSize.Height + theme.Padding()*2
	if width < 280 {
		width = 280
	}
	if height < 72 {
		height = 72
	}
	return fyne.NewSize(width, height)
}

func (r *holdButtonRenderer) Refresh() {
	r.text.Text = r.button.Text
	r.text.Color = theme.ForegroundColor()
	if r.button.hovered {
		r.bg.FillColor = theme.HoverColor()
	} else {
		r.bg.FillColor = theme.ButtonColor()
	}

	size := r.bg.Size()
	r.progress.Resize(fyne.NewSize(size.Width*float32(r.button.progress), size.Height))

	r.bg.Refresh()
	r.progress.Refresh()
	r.text.Refresh()
}

func (r *holdButtonRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.progress, r.text}
}

func (r *holdButtonRenderer) Destroy() {}
