//go:build tinygo

package display

import (
	"machine"

	"tinygo.org/x/drivers/ili9341"
)

// Init はディスプレイとバックライトを初期化し、使用可能な状態にする
func Init(spi *machine.SPI, dc, cs, rst, bl machine.Pin) *ili9341.Device {
	d := ili9341.NewSPI(spi, dc, cs, rst)

	// バックライトの設定
	bl.Configure(machine.PinConfig{Mode: machine.PinOutput})
	bl.High()

	// 縦向き 240x320 (キャリブレーションの既定の画面サイズと同じ)
	d.Configure(ili9341.Config{
		Rotation: ili9341.Rotation0,
	})

	d.FillScreen(Black)

	return d
}

var _ Canvas = (*ili9341.Device)(nil)
