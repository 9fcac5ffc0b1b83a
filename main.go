//go:build tinygo

package main

import (
	"context"
	"fmt"
	"machine"
	"time"

	"tinygo.org/x/tinyfont/proggy"

	"touchcal-pico/calibrate"
	"touchcal-pico/display"
	"touchcal-pico/touchscreen"
	"touchcal-pico/xpt2046"
)

func main() {
	// --- 1. SPIバスの設定 ---
	// ディスプレイとタッチパネルで SPI0 を共有する
	machine.SPI0.Configure(machine.SPIConfig{
		Frequency: 4000000, // タッチパネルの仕様に合わせて4MHzに設定
		SCK:       machine.GP2,
		SDO:       machine.GP3, // MOSI
		SDI:       machine.GP4, // MISO (タッチパネル使用時に必須)
	})

	touchCS := machine.GP9   // タッチパネルのChip Select
	touchIRQ := machine.GP10 // タッチパネルの割り込み (押されている間 Low)
	touchCS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	touchIRQ.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	// --- 2. ディスプレイの初期化 ---
	lcd := display.Init(machine.SPI0, machine.GP6, machine.GP5, machine.GP7, machine.GP8)
	font := &proggy.TinySZ8pt7b

	// 緑色の文字でログを出力する
	console := display.NewConsole(lcd, font, display.Green)
	console.Println("System Init...")
	console.Println("Display: OK")

	// --- 3. タッチパネルの初期化 ---
	sensor := xpt2046.New(machine.SPI0, touchCS, touchIRQ)
	ts := touchscreen.New(sensor, calibrate.NewSession(calibrate.DefaultBounds))
	console.Println("Touch: Enabled")

	// --- 4. キャリブレーション ---
	// 3点が一直線上になってしまった場合はやり直す
	prompter := display.NewCrossPrompter(lcd, font)
	for {
		err := ts.RunCalibration(context.Background(), prompter, calibrate.DefaultTargets, nil)
		if err == nil {
			break
		}
		console.Clear()
		console.Error("Calibration failed: " + err.Error())
		time.Sleep(time.Second)
	}
	m, _ := ts.Session().Matrix()
	console.Clear()
	fmt.Fprintf(console, "Calib: A=%d B=%d C=%d\n", m.An, m.Bn, m.Cn)
	fmt.Fprintf(console, "       D=%d E=%d F=%d /%d\n", m.Dn, m.En, m.Fn, m.Divider)

	// --- 5. お絵かきループ ---
	for {
		time.Sleep(10 * time.Millisecond)

		p, err := ts.GetCalibratedPoint()
		if err != nil {
			if !calibrate.IsNoTouch(err) {
				console.Warn(err.Error())
			}
			continue
		}

		// タッチした座標に赤い点を描画する。
		// 右端・下端 (239, 319) でははみ出す分を切り取る
		if err := display.FillClipped(lcd, int16(p.X), int16(p.Y), 2, 2, display.Red); err != nil {
			console.Warn(err.Error())
		}
	}
}
