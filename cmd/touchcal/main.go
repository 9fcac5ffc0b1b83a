// touchcal は Linux ホスト (Raspberry Pi など) に繋いだ XPT2046 を
// キャリブレーションし、タッチ位置を画面座標でログに出す。
//
// ターゲットは画面には描かず、ログに座標を出すので、
// 該当する位置を押して離すこと。
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"periph.io/x/conn/v3/physic"

	"touchcal-pico/calibrate"
	"touchcal-pico/config"
	"touchcal-pico/periphbus"
	"touchcal-pico/touchscreen"
	"touchcal-pico/xpt2046"
)

type logPrompter struct{}

func (logPrompter) Prompt(target calibrate.DisplayPoint, index int) error {
	log.Printf("calibration %d/3: touch (%d,%d) and release", index+1, target.X, target.Y)
	return nil
}

func main() {
	cfgPath := flag.String("config", "", "YAML config file")
	timeout := flag.Duration("timeout", 2*time.Minute, "calibration timeout (0 = none)")
	poll := flag.Duration("poll", 20*time.Millisecond, "touch poll interval")
	flag.Parse()

	if err := run(*cfgPath, *timeout, *poll); err != nil {
		log.Fatal(err)
	}
}

func run(cfgPath string, timeout, poll time.Duration) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	bus, err := periphbus.Open(periphbus.Config{
		Port:      cfg.SPIPort,
		Frequency: physic.Frequency(cfg.SPIHz) * physic.Hertz,
		CS:        cfg.CSPin,
		IRQ:       cfg.IRQPin,
	})
	if err != nil {
		return err
	}
	defer bus.Close()

	sensor := xpt2046.New(bus.SPI, bus.CS, bus.IRQ)
	if err := sensor.Configure(cfg.Sampler()); err != nil {
		return err
	}

	lim := cfg.Limits()
	ts := touchscreen.New(sensor, calibrate.NewSession(cfg.Bounds()))
	ts.PollInterval = cfg.PollInterval
	ts.Limits = &lim

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	calCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		calCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err = ts.RunCalibration(calCtx, logPrompter{}, cfg.CalibrationTargets(), func(s calibrate.State) {
		log.Printf("state: %v", s)
	})
	if err != nil {
		return fmt.Errorf("calibration failed: %w", err)
	}
	m, _ := ts.Session().Matrix()
	log.Printf("matrix: %+v", m)

	t := time.NewTicker(poll)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
		if err := bus.CS.Err(); err != nil {
			return err
		}
		p, err := ts.GetCalibratedPoint()
		if err != nil {
			if !calibrate.IsNoTouch(err) {
				log.Printf("read: %v", err)
			}
			continue
		}
		log.Printf("touch: (%d,%d)", p.X, p.Y)
	}
}
