package xpt2046

import (
	"sort"

	"touchcal-pico/calibrate"
)

// Burst は1回の連続したタッチで読んだサンプル列
type Burst []calibrate.RawPoint

// Filter はX, Yをそれぞれ独立に並べ替え、中央の2つの平均を返す。
// X と Y は別々にソートするので、同じサンプルの組である必要はない。
// 空のバーストにはゼロ値を返す。
func Filter(b Burst) calibrate.RawPoint {
	n := len(b)
	if n == 0 {
		return calibrate.RawPoint{}
	}

	xs := make([]int, n)
	ys := make([]int, n)
	for i, p := range b {
		xs[i] = p.X
		ys[i] = p.Y
	}
	sort.Ints(xs)
	sort.Ints(ys)

	// n=10 なら 4 と 5 番目 (0始まり)
	lo, hi := (n-1)/2, n/2
	return calibrate.RawPoint{
		X: (xs[lo] + xs[hi]) / 2,
		Y: (ys[lo] + ys[hi]) / 2,
	}
}
