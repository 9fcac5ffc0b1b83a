package display

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Canvas は描画先のディスプレイ。ili9341.Device で満たせる
type Canvas interface {
	drivers.Displayer
	FillScreen(c color.RGBA)
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// FillClipped は画面からはみ出す部分を切り取ってから塗りつぶす。
// ili9341 は範囲外の矩形をエラーにするため、端の描画はこれを使う。
// 完全に画面外なら何もしない
func FillClipped(d Canvas, x, y, w, h int16, c color.RGBA) error {
	sw, sh := d.Size()
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > sw {
		w = sw - x
	}
	if y+h > sh {
		h = sh - y
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	return d.FillRectangle(x, y, w, h, c)
}
