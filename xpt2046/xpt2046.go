// Package xpt2046 は抵抗膜タッチコントローラ XPT2046 のドライバ
package xpt2046

import (
	"fmt"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/touch"

	"touchcal-pico/calibrate"
)

// OutputPin はチップセレクト用の出力ピン (machine.Pin で満たせる)
type OutputPin interface {
	High()
	Low()
}

// InputPin は割り込み(PENIRQ)用の入力ピン (machine.Pin で満たせる)
type InputPin interface {
	Get() bool
}

// コマンドバイトの既定値
// Start(1) | A2-A0 | Mode(0=12bit) | SER/DFR(0=Diff) | PD1-PD0(00=LowPower)
const (
	CommandReadX  = 0xD0
	CommandReadY  = 0x90
	CommandReadZ1 = 0xB0
	CommandReadZ2 = 0xC0
)

const (
	DefaultSampleCount = 10
	DefaultRawShift    = 3
)

// Config はサンプリングの設定。ゼロの項目は既定値になる
type Config struct {
	SampleCount int
	ReadX       byte
	ReadY       byte
	ReadZ1      byte
	ReadZ2      byte
	RawShift    uint
}

type Device struct {
	bus drivers.SPI
	cs  OutputPin
	irq InputPin
	cfg Config
}

// New は新しいXPT2046デバイスを作成する。
// ピンの入出力設定は呼び出し側で済ませておくこと。
func New(bus drivers.SPI, cs OutputPin, irq InputPin) *Device {
	cs.High()
	d := &Device{
		bus: bus,
		cs:  cs,
		irq: irq,
	}
	d.Configure(Config{})
	return d
}

// Configure は設定を反映する
func (d *Device) Configure(cfg Config) error {
	if cfg.SampleCount < 0 {
		return fmt.Errorf("xpt2046: invalid sample count %d", cfg.SampleCount)
	}
	if cfg.RawShift > 15 {
		return fmt.Errorf("xpt2046: invalid raw shift %d", cfg.RawShift)
	}
	if cfg.SampleCount == 0 {
		cfg.SampleCount = DefaultSampleCount
	}
	if cfg.ReadX == 0 {
		cfg.ReadX = CommandReadX
	}
	if cfg.ReadY == 0 {
		cfg.ReadY = CommandReadY
	}
	if cfg.ReadZ1 == 0 {
		cfg.ReadZ1 = CommandReadZ1
	}
	if cfg.ReadZ2 == 0 {
		cfg.ReadZ2 = CommandReadZ2
	}
	if cfg.RawShift == 0 {
		cfg.RawShift = DefaultRawShift
	}
	d.cfg = cfg
	return nil
}

// Config は現在の設定を返す
func (d *Device) Config() Config {
	return d.cfg
}

// IsTouched はパネルが押されているかを返す。PENIRQ は押されている間 Low になる
func (d *Device) IsTouched() bool {
	return !d.irq.Get()
}

// AcquireBurst はタッチが続いている間に SampleCount 個のサンプルを読む。
// 途中で指が離れた場合は calibrate.ErrInsufficientSamples を返し、
// 読んだ分は捨てる。
func (d *Device) AcquireBurst() (Burst, error) {
	if !d.IsTouched() {
		return nil, calibrate.ErrNotTouched
	}

	n := d.cfg.SampleCount
	burst := make(Burst, 0, n)

	d.cs.Low()
	defer d.cs.High()

	for {
		x, err := d.readAxis(d.cfg.ReadX)
		if err != nil {
			return nil, err
		}
		y, err := d.readAxis(d.cfg.ReadY)
		if err != nil {
			return nil, err
		}
		burst = append(burst, calibrate.RawPoint{X: int(x), Y: int(y)})

		if len(burst) >= n || !d.IsTouched() {
			break
		}
	}

	if len(burst) != n {
		return nil, calibrate.ErrInsufficientSamples
	}
	return burst, nil
}

// ReadRaw はバーストを読んでメディアンフィルタを通した生座標を返す
func (d *Device) ReadRaw() (calibrate.RawPoint, error) {
	burst, err := d.AcquireBurst()
	if err != nil {
		return calibrate.RawPoint{}, err
	}
	return Filter(burst), nil
}

// Pressure は圧力(Z)を読み取る。0 に近いほど弱い
func (d *Device) Pressure() (int, error) {
	d.cs.Low()
	defer d.cs.High()

	z1, err := d.readAxis(d.cfg.ReadZ1)
	if err != nil {
		return 0, err
	}
	z2, err := d.readAxis(d.cfg.ReadZ2)
	if err != nil {
		return 0, err
	}

	z := int(z1) + 4095 - int(z2)
	if z < 0 {
		z = 0
	}
	return z, nil
}

// ReadTouchPoint は生座標と圧力を touch.Point として返す。
// 読めなかった場合はゼロ値 (Z == 0) になる
func (d *Device) ReadTouchPoint() touch.Point {
	p, err := d.ReadRaw()
	if err != nil {
		return touch.Point{}
	}
	z, err := d.Pressure()
	if err != nil {
		return touch.Point{}
	}
	if z == 0 {
		// 押されていたことは確かなので Z は最低でも 1 にする
		z = 1
	}
	return touch.Point{X: p.X, Y: p.Y, Z: z}
}

// readAxis はコマンドを送って2バイト読み取る。CS は呼び出し側で Low にしておく
func (d *Device) readAxis(cmd byte) (uint16, error) {
	if _, err := d.bus.Transfer(cmd); err != nil {
		return 0, transferError(cmd, err)
	}

	// 最初の1ビットはBusy、続く12ビットがデータ、残り3ビットは無視
	hi, err := d.bus.Transfer(0x00)
	if err != nil {
		return 0, transferError(cmd, err)
	}
	lo, err := d.bus.Transfer(0x00)
	if err != nil {
		return 0, transferError(cmd, err)
	}

	val := uint16(hi)<<8 | uint16(lo)
	return val >> d.cfg.RawShift, nil
}

func transferError(cmd byte, err error) error {
	return fmt.Errorf("xpt2046: transfer cmd %#02x: %w", cmd, err)
}

var _ touch.Pointer = (*Device)(nil)
var _ calibrate.Sensor = (*Device)(nil)
