package display

import (
	"image/color"

	"tinygo.org/x/tinyfont"

	"touchcal-pico/calibrate"
)

// CrossPrompter はキャリブレーション用の十字をターゲット位置に描く
type CrossPrompter struct {
	display Canvas
	font    *tinyfont.Font

	// Length は十字の線の長さ
	Length int16
	// Message は画面中央付近に表示する案内文
	Message    string
	MessageX   int16
	MessageY   int16
	Foreground color.RGBA
	Background color.RGBA
}

// NewCrossPrompter は白地に黒い十字を描く CrossPrompter を作る
func NewCrossPrompter(d Canvas, f *tinyfont.Font) *CrossPrompter {
	return &CrossPrompter{
		display:    d,
		font:       f,
		Length:     40,
		Message:    "    Calibration !!!",
		MessageX:   50,
		MessageY:   150,
		Foreground: Black,
		Background: White,
	}
}

// Prompt は画面を消してターゲットに十字と案内文を描く
func (p *CrossPrompter) Prompt(target calibrate.DisplayPoint, index int) error {
	x, y := int16(target.X), int16(target.Y)
	half := p.Length / 2

	p.display.FillScreen(p.Background)

	// 横線
	if err := p.fill(x-half, y, p.Length+1, 1); err != nil {
		return err
	}
	// 縦線
	if err := p.fill(x, y-half, 1, p.Length+1); err != nil {
		return err
	}

	if p.font != nil && p.Message != "" {
		tinyfont.WriteLine(p.display, p.font, p.MessageX, p.MessageY, p.Message, p.Foreground)
	}
	return p.display.Display()
}

func (p *CrossPrompter) fill(x, y, w, h int16) error {
	return FillClipped(p.display, x, y, w, h, p.Foreground)
}

var _ calibrate.Prompter = (*CrossPrompter)(nil)
