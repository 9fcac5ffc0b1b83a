package calibrate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sensor はキャリブレーションに必要なタッチセンサの機能
type Sensor interface {
	IsTouched() bool
	ReadRaw() (RawPoint, error)
}

// Prompter はキャリブレーション用のターゲットを画面に表示する
type Prompter interface {
	Prompt(target DisplayPoint, index int) error
}

// State はキャリブレーション手順の状態
type State uint8

const (
	AwaitPress1 State = iota
	ReadRaw1
	AwaitRelease1
	AwaitPress2
	ReadRaw2
	AwaitRelease2
	AwaitPress3
	ReadRaw3
	AwaitRelease3
	Solving
	Done
)

var stateNames = [...]string{
	"AwaitPress1", "ReadRaw1", "AwaitRelease1",
	"AwaitPress2", "ReadRaw2", "AwaitRelease2",
	"AwaitPress3", "ReadRaw3", "AwaitRelease3",
	"Solving", "Done",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// DefaultPollInterval はタッチ/リリース待ちのポーリング間隔
const DefaultPollInterval = 10 * time.Millisecond

// Procedure は3点キャリブレーションの手順。
// 各ターゲットごとに 表示 → タッチ待ち → 生座標取得 → リリース待ち を行い、
// 最後に行列を求める。
type Procedure struct {
	Sensor   Sensor
	Prompter Prompter
	Targets  [3]DisplayPoint

	// PollInterval が0以下なら DefaultPollInterval を使う
	PollInterval time.Duration

	// OnState は状態が変わるたびに呼ばれる (nil可)
	OnState func(State)

	// Limits が nil なら DefaultLimits を使う
	Limits *Limits
}

// NewProcedure は DefaultTargets を使う手順を作る
func NewProcedure(sensor Sensor, prompter Prompter) *Procedure {
	return &Procedure{
		Sensor:   sensor,
		Prompter: prompter,
		Targets:  DefaultTargets,
	}
}

// Run は手順を最後まで実行し、求めた行列を返す。
// ctx がキャンセルされると ctx.Err() を返す。行列の設定は呼び出し側で行う。
func (p *Procedure) Run(ctx context.Context) (Matrix, error) {
	var raw [3]RawPoint

	for i, target := range p.Targets {
		base := State(i * 3)

		if p.Prompter != nil {
			if err := p.Prompter.Prompt(target, i); err != nil {
				return Matrix{}, fmt.Errorf("calibrate: prompt target %d: %w", i+1, err)
			}
		}

		p.enter(base) // タッチ待ち
		if err := p.waitTouched(ctx, true); err != nil {
			return Matrix{}, err
		}

		p.enter(base + 1) // 生座標の取得
		pt, err := p.readRaw(ctx)
		if err != nil {
			return Matrix{}, fmt.Errorf("calibrate: read target %d: %w", i+1, err)
		}
		raw[i] = pt

		p.enter(base + 2) // 指が離れるまで待つ
		if err := p.waitTouched(ctx, false); err != nil {
			return Matrix{}, err
		}
	}

	p.enter(Solving)
	lim := DefaultLimits
	if p.Limits != nil {
		lim = *p.Limits
	}
	m, err := SolveWithLimits(p.Targets, raw, lim)
	if err != nil {
		return Matrix{}, err
	}
	p.enter(Done)
	return m, nil
}

func (p *Procedure) enter(s State) {
	if p.OnState != nil {
		p.OnState(s)
	}
}

// waitTouched は IsTouched() が want になるまで待つ
func (p *Procedure) waitTouched(ctx context.Context, want bool) error {
	for p.Sensor.IsTouched() != want {
		if err := p.sleep(ctx); err != nil {
			return err
		}
	}
	return nil
}

// readRaw はサンプリングが成功するまで繰り返す。
// 途中で指が離れた場合もタッチを待ってやり直す。
func (p *Procedure) readRaw(ctx context.Context) (RawPoint, error) {
	for {
		if err := ctx.Err(); err != nil {
			return RawPoint{}, err
		}
		pt, err := p.Sensor.ReadRaw()
		if err == nil {
			return pt, nil
		}
		if !IsNoTouch(err) {
			return RawPoint{}, err
		}
		if errors.Is(err, ErrNotTouched) {
			if err := p.sleep(ctx); err != nil {
				return RawPoint{}, err
			}
		}
	}
}

func (p *Procedure) sleep(ctx context.Context) error {
	d := p.PollInterval
	if d <= 0 {
		d = DefaultPollInterval
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
