// Package touchscreen はタッチセンサとキャリブレーション状態をまとめ、
// 画面座標でのタッチ読み取りを提供する。
package touchscreen

import (
	"context"
	"time"

	"tinygo.org/x/drivers/touch"

	"touchcal-pico/calibrate"
)

type Touchscreen struct {
	sensor  calibrate.Sensor
	session *calibrate.Session

	// PollInterval はキャリブレーション中のポーリング間隔 (0 なら既定値)
	PollInterval time.Duration

	// Limits は受け付けるキャリブレーション点の下限 (nil なら既定値)
	Limits *calibrate.Limits
}

// New は sensor と session から Touchscreen を作る。
// session が nil の場合は DefaultBounds の新しいセッションを使う
func New(sensor calibrate.Sensor, session *calibrate.Session) *Touchscreen {
	if session == nil {
		session = calibrate.NewSession(calibrate.DefaultBounds)
	}
	return &Touchscreen{
		sensor:  sensor,
		session: session,
	}
}

// Session はキャリブレーション状態を返す
func (t *Touchscreen) Session() *calibrate.Session {
	return t.session
}

// IsTouched はパネルが押されているかを返す
func (t *Touchscreen) IsTouched() bool {
	return t.sensor.IsTouched()
}

// GetCalibratedPoint は押されている位置を画面座標で返す。
// 押されていない場合は calibrate.IsNoTouch(err) が true になるエラーを返す。
// キャリブレーション前はセンサを読まずに calibrate.ErrUncalibrated を返す。
func (t *Touchscreen) GetCalibratedPoint() (calibrate.DisplayPoint, error) {
	if !t.session.Calibrated() {
		return calibrate.DisplayPoint{}, calibrate.ErrUncalibrated
	}
	raw, err := t.sensor.ReadRaw()
	if err != nil {
		return calibrate.DisplayPoint{}, err
	}
	return t.session.Apply(raw)
}

// RunCalibration は3点キャリブレーションを実行し、成功したら行列を差し替える。
// 失敗・キャンセル時は以前の行列がそのまま残る。
func (t *Touchscreen) RunCalibration(ctx context.Context, prompter calibrate.Prompter, targets [3]calibrate.DisplayPoint, onState func(calibrate.State)) error {
	proc := calibrate.NewProcedure(t.sensor, prompter)
	proc.Targets = targets
	proc.PollInterval = t.PollInterval
	proc.OnState = onState
	proc.Limits = t.Limits

	m, err := proc.Run(ctx)
	if err != nil {
		return err
	}
	return t.session.Install(m)
}

// ReadTouchPoint は touch.Pointer の実装。
// 画面座標を返し、読めなかった場合はゼロ値 (Z == 0) を返す
func (t *Touchscreen) ReadTouchPoint() touch.Point {
	p, err := t.GetCalibratedPoint()
	if err != nil {
		return touch.Point{}
	}
	return touch.Point{X: p.X, Y: p.Y, Z: 1}
}

var _ touch.Pointer = (*Touchscreen)(nil)
