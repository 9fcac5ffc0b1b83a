package display

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"testing"

	"tinygo.org/x/tinyfont/proggy"

	"touchcal-pico/calibrate"
)

type rect struct {
	x, y, w, h int16
	c          color.RGBA
}

type fakeCanvas struct {
	w, h     int16
	fills    []color.RGBA
	rects    []rect
	pixels   map[[2]int16]color.RGBA
	displays int
	rectErr  error
}

func newFakeCanvas(w, h int16) *fakeCanvas {
	return &fakeCanvas{w: w, h: h, pixels: map[[2]int16]color.RGBA{}}
}

func (f *fakeCanvas) Size() (int16, int16) { return f.w, f.h }

func (f *fakeCanvas) SetPixel(x, y int16, c color.RGBA) {
	f.pixels[[2]int16{x, y}] = c
}

func (f *fakeCanvas) Display() error {
	f.displays++
	return nil
}

func (f *fakeCanvas) FillScreen(c color.RGBA) {
	f.fills = append(f.fills, c)
	f.pixels = map[[2]int16]color.RGBA{}
}

func (f *fakeCanvas) FillRectangle(x, y, w, h int16, c color.RGBA) error {
	if f.rectErr != nil {
		return f.rectErr
	}
	if x < 0 || y < 0 || x+w > f.w || y+h > f.h {
		return errors.New("rectangle coordinates outside display area")
	}
	f.rects = append(f.rects, rect{x, y, w, h, c})
	return nil
}

func TestCrossPrompter(t *testing.T) {
	c := newFakeCanvas(240, 320)
	p := NewCrossPrompter(c, &proggy.TinySZ8pt7b)

	if err := p.Prompt(calibrate.DisplayPoint{X: 40, Y: 40}, 0); err != nil {
		t.Fatalf("Prompt: %v", err)
	}
	if len(c.fills) != 1 || c.fills[0] != White {
		t.Errorf("expected one white clear but got %v", c.fills)
	}
	want := []rect{
		{20, 40, 41, 1, Black},
		{40, 20, 1, 41, Black},
	}
	if len(c.rects) != len(want) {
		t.Fatalf("expected %v but got %v", want, c.rects)
	}
	for i := range want {
		if c.rects[i] != want[i] {
			t.Errorf("line %d: expected %v but got %v", i, want[i], c.rects[i])
		}
	}
	if len(c.pixels) == 0 {
		t.Error("expected message text to be drawn")
	}
	if c.displays != 1 {
		t.Errorf("expected one Display call but got %d", c.displays)
	}
}

func TestCrossPrompterClipsAtEdge(t *testing.T) {
	c := newFakeCanvas(240, 320)
	p := NewCrossPrompter(c, nil)

	if err := p.Prompt(calibrate.DisplayPoint{X: 5, Y: 310}, 2); err != nil {
		t.Fatalf("Prompt: %v", err)
	}
	want := []rect{
		{0, 310, 26, 1, Black},
		{5, 290, 1, 30, Black},
	}
	for i := range want {
		if c.rects[i] != want[i] {
			t.Errorf("line %d: expected %v but got %v", i, want[i], c.rects[i])
		}
	}
}

func TestCrossPrompterError(t *testing.T) {
	c := newFakeCanvas(240, 320)
	c.rectErr = errors.New("bus error")
	p := NewCrossPrompter(c, nil)

	if err := p.Prompt(calibrate.DisplayPoint{X: 40, Y: 40}, 0); !errors.Is(err, c.rectErr) {
		t.Errorf("expected bus error but got %v", err)
	}
}

func TestFillClipped(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int16
		want       []rect
	}{
		{"inside", 100, 100, 2, 2, []rect{{100, 100, 2, 2, Red}}},
		{"bottom right", 239, 319, 2, 2, []rect{{239, 319, 1, 1, Red}}},
		{"right edge", 239, 160, 2, 2, []rect{{239, 160, 1, 2, Red}}},
		{"top left", -1, -1, 2, 2, []rect{{0, 0, 1, 1, Red}}},
		{"outside", 240, 320, 2, 2, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newFakeCanvas(240, 320)
			if err := FillClipped(c, tc.x, tc.y, tc.w, tc.h, Red); err != nil {
				t.Fatalf("FillClipped: %v", err)
			}
			if len(c.rects) != len(tc.want) {
				t.Fatalf("expected %v but got %v", tc.want, c.rects)
			}
			for i := range tc.want {
				if c.rects[i] != tc.want[i] {
					t.Errorf("expected %v but got %v", tc.want[i], c.rects[i])
				}
			}
		})
	}
}

func TestConsoleWraps(t *testing.T) {
	c := newFakeCanvas(240, 50)
	con := NewConsole(c, &proggy.TinySZ8pt7b, Green)

	// y = 20, 30, 40 の3行で画面がいっぱいになる
	con.Println("one")
	con.Warn("two")
	con.Error("three")
	if len(c.fills) != 0 {
		t.Fatalf("cleared too early: %v", c.fills)
	}
	con.Printf("touch %d,%d", 1, 2)
	if len(c.fills) != 1 || c.fills[0] != Black {
		t.Errorf("expected one black clear but got %v", c.fills)
	}
	if con.y != 30 {
		t.Errorf("expected cursor at 30 but got %d", con.y)
	}
}

func TestConsoleColors(t *testing.T) {
	c := newFakeCanvas(240, 320)
	con := NewConsole(c, &proggy.TinySZ8pt7b, Green)

	con.Error("E")
	for _, col := range c.pixels {
		if col != Red {
			t.Fatalf("expected red pixels but got %v", col)
		}
	}
	if len(c.pixels) == 0 {
		t.Fatal("nothing drawn")
	}
}

func TestConsoleWrite(t *testing.T) {
	c := newFakeCanvas(240, 320)
	con := NewConsole(c, &proggy.TinySZ8pt7b, Green)

	n, err := con.Write([]byte("one\ntw"))
	if err != nil || n != 7 {
		t.Fatalf("expected 7, nil but got %d, %v", n, err)
	}
	if con.y != 30 {
		t.Errorf("expected cursor at 30 but got %d", con.y)
	}
	fmt.Fprintf(con, "o %d\n", 2)
	if con.y != 40 {
		t.Errorf("expected cursor at 40 but got %d", con.y)
	}
	if len(con.pending) != 0 {
		t.Errorf("expected nothing pending but got %q", con.pending)
	}
}

func TestConsoleLongLine(t *testing.T) {
	c := newFakeCanvas(60, 320)
	con := NewConsole(c, &proggy.TinySZ8pt7b, Green)

	con.Println(strings.Repeat("x", 40))
	if con.y <= 30 {
		t.Errorf("expected long line to wrap but cursor is at %d", con.y)
	}

	con.Println("")
	before := con.y
	con.Println("")
	if con.y != before+10 {
		t.Errorf("expected empty line to advance the cursor but got %d", con.y)
	}
}
