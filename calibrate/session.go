package calibrate

import (
	"errors"
	"sync/atomic"
)

// Session は1台のタッチパネルのキャリブレーション状態を保持する。
// 行列は常に丸ごと差し替えられ、途中の状態が見えることはない。
type Session struct {
	bounds Bounds
	matrix atomic.Pointer[Matrix]
}

// NewSession は画面サイズ b の未キャリブレーションのセッションを作る。
// サイズが0以下の場合は DefaultBounds を使う。
func NewSession(b Bounds) *Session {
	if b.Width <= 0 || b.Height <= 0 {
		b = DefaultBounds
	}
	return &Session{bounds: b}
}

// Bounds は画面サイズを返す
func (s *Session) Bounds() Bounds {
	return s.bounds
}

// Install は行列を差し替える
func (s *Session) Install(m Matrix) error {
	if !m.Valid() {
		return errors.New("calibrate: refusing to install invalid matrix")
	}
	s.matrix.Store(&m)
	return nil
}

// Matrix は現在の行列を返す。未設定なら false
func (s *Session) Matrix() (Matrix, bool) {
	m := s.matrix.Load()
	if m == nil {
		return Matrix{}, false
	}
	return *m, true
}

// Calibrated は行列が設定済みかどうかを返す
func (s *Session) Calibrated() bool {
	return s.matrix.Load() != nil
}

// Apply は現在の行列で生座標を画面座標に変換する
func (s *Session) Apply(raw RawPoint) (DisplayPoint, error) {
	m := s.matrix.Load()
	if m == nil {
		return DisplayPoint{}, ErrUncalibrated
	}
	return m.Apply(raw, s.bounds), nil
}
