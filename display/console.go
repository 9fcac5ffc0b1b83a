package display

import (
	"bytes"
	"fmt"
	"image/color"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
)

// Console は画面へのログ出力を管理する構造体。
// io.Writer でもあるので fmt.Fprintf や log.New の出力先にできる。
type Console struct {
	display Canvas
	font    *tinyfont.Font
	color   color.RGBA

	left, top int16 // 余白
	y         int16 // 次に書く行のベースライン
	lineH     int16

	pending []byte // Write で改行待ちの文字
}

// NewConsole は新しいコンソールを作成する
func NewConsole(d Canvas, f *tinyfont.Font, c color.RGBA) *Console {
	return &Console{
		display: d,
		font:    f,
		color:   c,
		left:    10,
		top:     20,
		y:       20,
		lineH:   10,
	}
}

// Println は通常のログ（基本色）を出力する
func (c *Console) Println(msg string) {
	c.log(msg, c.color)
}

// Printf は書式付きで Println する
func (c *Console) Printf(format string, args ...interface{}) {
	c.log(fmt.Sprintf(format, args...), c.color)
}

// Warn は警告ログ（黄色）を出力する
func (c *Console) Warn(msg string) {
	c.log(msg, Yellow)
}

// Error はエラーログ（赤色）を出力する
func (c *Console) Error(msg string) {
	c.log(msg, Red)
}

// Write は改行ごとに基本色で1行ずつ出力する。
// 改行で終わらない残りは次の Write まで持ち越す
func (c *Console) Write(p []byte) (int, error) {
	c.pending = append(c.pending, p...)
	for {
		i := bytes.IndexByte(c.pending, '\n')
		if i < 0 {
			break
		}
		c.log(string(c.pending[:i]), c.color)
		c.pending = c.pending[i+1:]
	}
	return len(p), nil
}

// Clear は画面を消してカーソルを先頭に戻す
func (c *Console) Clear() {
	c.display.FillScreen(Black)
	c.y = c.top
}

func (c *Console) log(msg string, col color.RGBA) {
	_, h := c.display.Size()
	for _, line := range c.wrap(msg) {
		if c.y+c.lineH > h {
			c.Clear()
		}
		tinyfont.WriteLine(c.display, c.font, c.left, c.y, line, col)
		c.y += c.lineH
	}
}

// wrap は画面幅に収まるように msg を折り返す
func (c *Console) wrap(msg string) []string {
	w, _ := c.display.Size()
	limit := uint32(0)
	if w > c.left {
		limit = uint32(w - c.left)
	}

	var lines []string
	for len(msg) > 0 {
		n := 0
		for n < len(msg) {
			_, size := utf8.DecodeRuneInString(msg[n:])
			if _, outer := tinyfont.LineWidth(c.font, msg[:n+size]); outer > limit && n > 0 {
				break
			}
			n += size
		}
		lines = append(lines, msg[:n])
		msg = msg[n:]
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}
