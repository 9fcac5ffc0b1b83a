// Package calibrate は抵抗膜タッチパネルの3点キャリブレーションを扱う。
//
// 生のADC座標(RawPoint)から画面座標(DisplayPoint)へのアフィン変換を
// 3組の対応点から求め、その行列を使って座標を変換する。
package calibrate

import "errors"

var (
	// ErrNotTouched はサンプリング開始時にタッチされていなかったことを示す
	ErrNotTouched = errors.New("calibrate: not touched")
	// ErrInsufficientSamples はサンプル数が揃う前に指が離れたことを示す
	ErrInsufficientSamples = errors.New("calibrate: touch released before burst completed")
	// ErrDegenerate は3点が一直線上 (またはそれに近い) か、
	// 近すぎて行列が求まらないことを示す
	ErrDegenerate = errors.New("calibrate: calibration points are collinear or too close")
	// ErrUncalibrated はまだキャリブレーションされていないことを示す
	ErrUncalibrated = errors.New("calibrate: no calibration matrix installed")
)

// IsNoTouch はエラーが「押されていない」という通常の結果かどうかを返す。
// この場合はログに出さず、次のポーリングで読み直せばよい
func IsNoTouch(err error) bool {
	return errors.Is(err, ErrNotTouched) || errors.Is(err, ErrInsufficientSamples)
}

// RawPoint はタッチコントローラから読んだ生の座標
type RawPoint struct {
	X, Y int
}

// DisplayPoint は画面上のピクセル座標
type DisplayPoint struct {
	X, Y int
}

// Bounds は画面サイズ。有効な座標は [0, Width-1] x [0, Height-1]
type Bounds struct {
	Width, Height int
}

// DefaultBounds は 240x320 のパネル (ILI9341 縦向き)
var DefaultBounds = Bounds{Width: 240, Height: 320}

// DefaultTargets はキャリブレーションで表示する3点
var DefaultTargets = [3]DisplayPoint{{40, 40}, {200, 40}, {200, 280}}

// Matrix は生座標から画面座標へのアフィン変換の係数
//
//	x = (An*X + Bn*Y + Cn) / Divider
//	y = (Dn*X + En*Y + Fn) / Divider
//
// ゼロ値は無効な行列。
type Matrix struct {
	An, Bn, Cn int64
	Dn, En, Fn int64
	Divider    int64
}

// Valid は行列が Apply に使えるかどうかを返す
func (m Matrix) Valid() bool {
	return m.Divider != 0
}

// Limits は Solve が受け付ける生座標の三角形の下限
type Limits struct {
	// MinDivider は |Divider| (三角形の面積の2倍) の下限。
	// 同じ場所を3回押したような小さな三角形を弾く
	MinDivider int64

	// MinShape は |Divider| / (最長辺の長さの2乗) の下限 (1/1000単位)。
	// 直角二等辺三角形で500、一直線に近づくほど0になる
	MinShape int64
}

// DefaultLimits は 12bit の生座標向けの既定値
var DefaultLimits = Limits{
	MinDivider: 10000, // 100x100 の直角三角形
	MinShape:   50,
}

// Solve は DefaultLimits で SolveWithLimits を呼ぶ
func Solve(display [3]DisplayPoint, raw [3]RawPoint) (Matrix, error) {
	return SolveWithLimits(display, raw, DefaultLimits)
}

// SolveWithLimits は3組の対応点からアフィン変換行列を求める (クラメルの公式)。
// 生座標の3点が一直線上にある、または lim を満たさない場合は ErrDegenerate を返す。
// lim がゼロ値なら Divider == 0 のときだけ弾く。
func SolveWithLimits(display [3]DisplayPoint, raw [3]RawPoint, lim Limits) (Matrix, error) {
	x0, y0 := int64(raw[0].X), int64(raw[0].Y)
	x1, y1 := int64(raw[1].X), int64(raw[1].Y)
	x2, y2 := int64(raw[2].X), int64(raw[2].Y)

	xd0, yd0 := int64(display[0].X), int64(display[0].Y)
	xd1, yd1 := int64(display[1].X), int64(display[1].Y)
	xd2, yd2 := int64(display[2].X), int64(display[2].Y)

	div := (x0-x2)*(y1-y2) - (x1-x2)*(y0-y2)
	if div == 0 || degenerate(div, raw, lim) {
		return Matrix{}, ErrDegenerate
	}

	return Matrix{
		An: (xd0-xd2)*(y1-y2) - (xd1-xd2)*(y0-y2),
		Bn: (x0-x2)*(xd1-xd2) - (xd0-xd2)*(x1-x2),
		Cn: y0*(x2*xd1-x1*xd2) + y1*(x0*xd2-x2*xd0) + y2*(x1*xd0-x0*xd1),

		Dn: (yd0-yd2)*(y1-y2) - (yd1-yd2)*(y0-y2),
		En: (x0-x2)*(yd1-yd2) - (yd0-yd2)*(x1-x2),
		Fn: y0*(x2*yd1-x1*yd2) + y1*(x0*yd2-x2*yd0) + y2*(x1*yd0-x0*yd1),

		Divider: div,
	}, nil
}

// degenerate は三角形が小さすぎるか細すぎるかを判定する
func degenerate(div int64, raw [3]RawPoint, lim Limits) bool {
	if div < 0 {
		div = -div
	}
	if div < lim.MinDivider {
		return true
	}
	var edge int64
	for i := range raw {
		j := (i + 1) % len(raw)
		dx := int64(raw[i].X - raw[j].X)
		dy := int64(raw[i].Y - raw[j].Y)
		if l := dx*dx + dy*dy; l > edge {
			edge = l
		}
	}
	return div*1000 < lim.MinShape*edge
}

// Apply は生座標を画面座標に変換し、画面の範囲内に収める。
// 無効な行列に対しては (0, 0) を返す。
func (m Matrix) Apply(raw RawPoint, b Bounds) DisplayPoint {
	if !m.Valid() {
		return DisplayPoint{}
	}
	x, y := int64(raw.X), int64(raw.Y)
	return DisplayPoint{
		X: clamp((m.An*x+m.Bn*y+m.Cn)/m.Divider, b.Width-1),
		Y: clamp((m.Dn*x+m.En*y+m.Fn)/m.Divider, b.Height-1),
	}
}

func clamp(v int64, max int) int {
	if v < 0 {
		return 0
	}
	if v > int64(max) {
		return max
	}
	return int(v)
}
