package screen

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/hashicorp/go-hclog"
)

const (
	Size = 128

	DefaultDevice = "/dev/fb1"

	emptyMillivolts = 4600
	fullMillivolts  = 5600
)

// Screen is the robot's small status display: the current state, a few lines of text and the
// battery level.
type Screen struct {
	log     hclog.Logger
	battery func() int

	lock  sync.Mutex
	title string
	lines []string
}

// New returns a screen; battery, if non-nil, supplies the charge level for the power bar.
func New(log hclog.Logger, battery func() int) *Screen {
	return &Screen{
		log:     log,
		battery: battery,
	}
}

func (s *Screen) Show(title string, lines []string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.title = title
	s.lines = append(s.lines[:0], lines...)
}

func (s *Screen) Render() image.Image {
	s.lock.Lock()
	title := s.title
	lines := append([]string(nil), s.lines...)
	s.lock.Unlock()

	dc := gg.NewContext(Size, Size)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	dc.SetRGBA(1, 0.9, 0, 1)
	dc.DrawString(title, 4, 12)
	dc.DrawLine(4, 16, Size-4, 16)
	dc.Stroke()

	dc.SetRGB(1, 1, 1)
	y := 28.0
	for _, l := range lines {
		if y > Size-20 {
			break
		}
		dc.DrawString(l, 4, y)
		y += 12
	}

	if s.battery != nil {
		drawPowerBar(dc, s.battery())
	}
	return dc.Image()
}

// Loop redraws the screen twice a second until ctx is done, then blanks it.
func (s *Screen) Loop(ctx context.Context, device string) {
	f, err := os.OpenFile(device, os.O_RDWR, 0666)
	if err != nil {
		s.log.Warn("Failed to open screen, ignoring", "device", device, "error", err)
		return
	}
	defer f.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			var buf [Size * Size * 2]byte
			_, _ = f.Seek(0, 0)
			_, _ = f.Write(buf[:])
			return
		case <-ticker.C:
		}
		if err := writeFrame(f, s.Render()); err != nil {
			s.log.Warn("Screen failure", "error", err)
			return
		}
	}
}

func writeFrame(f io.WriteSeeker, img image.Image) error {
	buf := RGB565(img)
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	for i := 0; i < Size; i++ {
		if _, err := f.Write(buf[i*Size*2 : (i+1)*Size*2]); err != nil {
			return err
		}
		time.Sleep(10 * time.Microsecond)
	}
	return nil
}

// RGB565 packs the image for the panel, which is mounted rotated by 90 degrees.
func RGB565(img image.Image) []byte {
	buf := make([]byte, Size*Size*2)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			r, g, b, _ := img.At(x, y).RGBA() // 16-bit pre-multiplied

			rb := byte(r >> (16 - 5))
			gb := byte(g >> (16 - 6)) // Green has 6 bits
			bb := byte(b >> (16 - 5))

			buf[(Size-1-y)*2+x*Size*2+1] = (rb << 3) | (gb >> 3)
			buf[(Size-1-y)*2+x*Size*2] = bb | (gb << 5)
		}
	}
	return buf
}

func drawPowerBar(dc *gg.Context, millivolts int) {
	charge := float64(millivolts-emptyMillivolts) / (fullMillivolts - emptyMillivolts)
	dc.SetRGBA(0, 0.8, 0.2, 1)
	if charge < 0.3 {
		dc.SetRGBA(1, 0.2, 0, 1)
	}
	for n := 0; n < 10; n++ {
		if charge >= float64(n)/10 {
			dc.DrawRectangle(4+float64(n)*8, Size-14, 6, 10)
		}
	}
	dc.Fill()
	dc.DrawString(fmt.Sprintf("%.2fv", float64(millivolts)/1000), Size-36, Size-5)
}
