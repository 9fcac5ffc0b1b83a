// Package periphbus は periph.io の SPI と GPIO を xpt2046 ドライバから
// 使えるようにする。Raspberry Pi などの Linux ホストでタッチパネルを
// 動かすときに使う。
package periphbus

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// SPI は spi.Conn を tinygo の drivers.SPI として使うためのラッパ
type SPI struct {
	conn spi.Conn
}

func NewSPI(c spi.Conn) *SPI {
	return &SPI{conn: c}
}

// Tx は w を送り r に受信する。どちらかは nil でもよい
func (s *SPI) Tx(w, r []byte) error {
	if w == nil && r != nil {
		w = make([]byte, len(r))
	}
	if r != nil && len(r) != len(w) {
		return fmt.Errorf("periphbus: tx length mismatch %d != %d", len(w), len(r))
	}
	return s.conn.Tx(w, r)
}

// Transfer は1バイト送って1バイト受け取る
func (s *SPI) Transfer(b byte) (byte, error) {
	w := [1]byte{b}
	var r [1]byte
	if err := s.conn.Tx(w[:], r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

// OutputPin は gpio.PinOut を High/Low で操作する。
// xpt2046.OutputPin はエラーを返せないので、Out の失敗は
// 最初の1つだけを覚えておき Err で取り出す。
type OutputPin struct {
	pin gpio.PinOut
	err error
}

func NewOutputPin(p gpio.PinOut) *OutputPin {
	return &OutputPin{pin: p}
}

func (p *OutputPin) High() { p.out(gpio.High) }
func (p *OutputPin) Low() { p.out(gpio.Low) }

func (p *OutputPin) out(l gpio.Level) {
	if err := p.pin.Out(l); err != nil && p.err == nil {
		p.err = fmt.Errorf("periphbus: %s out %s: %w", p.pin, l, err)
	}
}

// Err は High/Low で最初に起きたエラーを返す
func (p *OutputPin) Err() error {
	return p.err
}

// InputPin は gpio.PinIn を Get で読む
type InputPin struct {
	pin gpio.PinIn
}

func NewInputPin(p gpio.PinIn) InputPin {
	return InputPin{pin: p}
}

func (p InputPin) Get() bool {
	return p.pin.Read() == gpio.High
}

// Config は Open で使うポートとピンの名前
type Config struct {
	// Port は spireg の名前。空なら最初のポート
	Port      string
	Frequency physic.Frequency
	CS        string
	IRQ       string
}

// Bus は開いた SPI ポートとピンをまとめたもの
type Bus struct {
	SPI *SPI
	CS  *OutputPin
	IRQ InputPin

	port spi.PortCloser
}

// Open は periph.io のホストドライバを初期化し、SPI ポートと
// CS / PENIRQ ピンを開く
func Open(cfg Config) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periphbus: host init: %w", err)
	}
	if cfg.Frequency == 0 {
		cfg.Frequency = 2 * physic.MegaHertz
	}

	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("periphbus: open spi %q: %w", cfg.Port, err)
	}
	conn, err := port.Connect(cfg.Frequency, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("periphbus: connect spi: %w", err)
	}

	cs := gpioreg.ByName(cfg.CS)
	if cs == nil {
		port.Close()
		return nil, fmt.Errorf("periphbus: unknown cs pin %q", cfg.CS)
	}
	if err := cs.Out(gpio.High); err != nil {
		port.Close()
		return nil, fmt.Errorf("periphbus: cs pin %s: %w", cfg.CS, err)
	}

	irq := gpioreg.ByName(cfg.IRQ)
	if irq == nil {
		port.Close()
		return nil, fmt.Errorf("periphbus: unknown irq pin %q", cfg.IRQ)
	}
	if err := irq.In(gpio.PullUp, gpio.NoEdge); err != nil {
		port.Close()
		return nil, fmt.Errorf("periphbus: irq pin %s: %w", cfg.IRQ, err)
	}

	return &Bus{
		SPI:  NewSPI(conn),
		CS:   NewOutputPin(cs),
		IRQ:  NewInputPin(irq),
		port: port,
	}, nil
}

// Close は SPI ポートを閉じる
func (b *Bus) Close() error {
	if b.port == nil {
		return errors.New("periphbus: already closed")
	}
	err := b.port.Close()
	b.port = nil
	return err
}
