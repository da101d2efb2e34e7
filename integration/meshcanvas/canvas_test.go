// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package meshcanvas

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/meshgradient"
)

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device   { return nil }
func (m *mockProvider) Queue() gpucontext.Queue     { return nil }
func (m *mockProvider) Adapter() gpucontext.Adapter { return nil }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "mock"}
}

// mockTexture implements the texture interfaces for testing.
type mockTexture struct {
	width         int
	height        int
	data          []byte
	destroyed     bool
	updated       int
	premultiplied bool
}

func (m *mockTexture) Width() int  { return m.width }
func (m *mockTexture) Height() int { return m.height }

func (m *mockTexture) UpdateData(data []byte) error {
	m.data = append(m.data[:0], data...)
	m.updated++
	return nil
}

func (m *mockTexture) Destroy()                { m.destroyed = true }
func (m *mockTexture) SetPremultiplied(p bool) { m.premultiplied = p }

// mockCreator implements gpucontext.TextureCreator for testing.
type mockCreator struct {
	textures []*mockTexture
	failNext bool
}

func (m *mockCreator) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if m.failNext {
		m.failNext = false
		return nil, errors.New("mock texture creation failed")
	}
	tex := &mockTexture{width: width, height: height, data: append([]byte(nil), data...), premultiplied: true}
	m.textures = append(m.textures, tex)
	return tex, nil
}

type drawCall struct {
	tex  gpucontext.Texture
	x, y float32
}

// mockDrawer implements gpucontext.TextureDrawer for testing.
type mockDrawer struct {
	creator *mockCreator
	draws   []drawCall
}

func newMockDrawer() *mockDrawer {
	return &mockDrawer{creator: &mockCreator{}}
}

func (m *mockDrawer) DrawTexture(tex gpucontext.Texture, x, y float32) error {
	m.draws = append(m.draws, drawCall{tex: tex, x: x, y: y})
	return nil
}

func (m *mockDrawer) TextureCreator() gpucontext.TextureCreator {
	if m.creator == nil {
		return nil
	}
	return m.creator
}

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newStaticCanvas(t *testing.T, w, h int) *Canvas {
	t.Helper()
	c, err := New(&mockProvider{}, w, h)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	c.SetClock(meshgradient.NewClockAt(meshgradient.Static{Time: 12.5}, epoch))
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		w, h     int
		wantErr  error
	}{
		{"valid", &mockProvider{}, 64, 32, nil},
		{"nil provider", nil, 64, 32, ErrNilProvider},
		{"zero width", &mockProvider{}, 0, 32, ErrInvalidDimensions},
		{"negative height", &mockProvider{}, 64, -1, ErrInvalidDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.provider, tt.w, tt.h)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer c.Close()
			if w, h := c.Size(); w != tt.w || h != tt.h {
				t.Errorf("Size() = %dx%d, want %dx%d", w, h, tt.w, tt.h)
			}
			if c.Provider() != tt.provider {
				t.Error("Provider() does not return the provider passed to New")
			}
			if c.Image() != nil || c.IsDirty() {
				t.Error("new canvas already has a frame")
			}
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew did not panic on nil provider")
		}
	}()
	MustNew(nil, 10, 10)
}

func TestUpdateRendersFrame(t *testing.T) {
	c := newStaticCanvas(t, 24, 16)
	defer c.Close()

	if err := c.Update(context.Background(), epoch); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	img := c.Image()
	if img == nil {
		t.Fatal("Image() = nil after Update")
	}
	if !c.IsDirty() {
		t.Error("canvas not dirty after Update")
	}

	want, err := meshgradient.RenderGradient(context.Background(), meshgradient.Request{
		Viewport: meshgradient.Rect(0, 0, 24, 16),
		Time:     12.5,
		Colors:   meshgradient.DefaultPalette(),
		Opacity:  1,
	}, meshgradient.WithoutAccelerator())
	if err != nil {
		t.Fatalf("RenderGradient failed: %v", err)
	}
	if !bytes.Equal(img.Pix, want.Pix) {
		t.Error("canvas frame differs from RenderGradient output")
	}
}

func TestUpdateStaticSkipsRerender(t *testing.T) {
	c := newStaticCanvas(t, 8, 8)
	defer c.Close()

	ctx := context.Background()
	if err := c.Update(ctx, epoch); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	first := c.Image()
	if err := c.Update(ctx, epoch.Add(time.Minute)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if c.Image() != first {
		t.Error("static canvas re-rendered an unchanged frame")
	}

	c.SetOpacity(0.5)
	if err := c.Update(ctx, epoch); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if c.Image() == first {
		t.Error("SetOpacity did not trigger a re-render")
	}
	if a := c.Image().NRGBAAt(0, 0).A; a != 128 {
		t.Errorf("alpha = %d, want 128", a)
	}
}

func TestUpdateAnimated(t *testing.T) {
	c, err := New(&mockProvider{}, 8, 8)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()
	c.SetClock(meshgradient.NewClockAt(meshgradient.Animated{Speed: 1}, epoch))

	ctx := context.Background()
	if err := c.Update(ctx, epoch.Add(time.Second)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	first := c.Image()
	if err := c.Update(ctx, epoch.Add(3*time.Second)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if c.Image() == first {
		t.Error("animated canvas did not render a new frame")
	}
}

func TestSetColorsCopies(t *testing.T) {
	c := newStaticCanvas(t, 4, 4)
	defer c.Close()

	colors := []meshgradient.Color{meshgradient.RGB(1, 0, 0), meshgradient.RGB(0, 0, 1)}
	c.SetColors(colors)
	colors[0] = meshgradient.RGB(0, 1, 0)

	if got := c.Colors()[0]; got != meshgradient.RGB(1, 0, 0) {
		t.Errorf("Colors()[0] = %v, want red", got)
	}
}

func TestUpdateCanceled(t *testing.T) {
	c := newStaticCanvas(t, 8, 8)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Update(ctx, epoch); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if c.Image() != nil {
		t.Error("canceled Update stored a frame")
	}
}

func TestRenderTo(t *testing.T) {
	c := newStaticCanvas(t, 16, 8)
	defer c.Close()
	dc := newMockDrawer()

	if err := c.RenderTo(dc); !errors.Is(err, ErrNotRendered) {
		t.Fatalf("RenderTo before Update = %v, want ErrNotRendered", err)
	}

	if err := c.Update(context.Background(), epoch); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo failed: %v", err)
	}

	if len(dc.creator.textures) != 1 {
		t.Fatalf("created %d textures, want 1", len(dc.creator.textures))
	}
	tex := dc.creator.textures[0]
	if tex.width != 16 || tex.height != 8 {
		t.Errorf("texture size = %dx%d, want 16x8", tex.width, tex.height)
	}
	if tex.premultiplied {
		t.Error("texture marked premultiplied, frames are straight alpha")
	}
	if !bytes.Equal(tex.data, c.Image().Pix) {
		t.Error("texture data differs from the frame")
	}
	if len(dc.draws) != 1 || dc.draws[0].x != 0 || dc.draws[0].y != 0 {
		t.Errorf("draws = %+v, want one draw at (0, 0)", dc.draws)
	}
	if c.IsDirty() {
		t.Error("canvas dirty after upload")
	}

	// Unchanged frame: no upload, same texture.
	if err := c.RenderToPosition(dc, 5, 6); err != nil {
		t.Fatalf("RenderToPosition failed: %v", err)
	}
	if tex.updated != 0 {
		t.Errorf("texture updated %d times for an unchanged frame", tex.updated)
	}
	if last := dc.draws[len(dc.draws)-1]; last.x != 5 || last.y != 6 {
		t.Errorf("last draw at (%v, %v), want (5, 6)", last.x, last.y)
	}

	// New frame: texture is updated in place.
	c.SetColors([]meshgradient.Color{meshgradient.RGB(1, 1, 1), meshgradient.RGB(0, 0, 0)})
	if err := c.Update(context.Background(), epoch); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo failed: %v", err)
	}
	if tex.updated != 1 {
		t.Errorf("texture updated %d times, want 1", tex.updated)
	}
	if len(dc.creator.textures) != 1 {
		t.Errorf("created %d textures, want 1", len(dc.creator.textures))
	}
}

func TestRenderToNilCreator(t *testing.T) {
	c := newStaticCanvas(t, 4, 4)
	defer c.Close()
	if err := c.Update(context.Background(), epoch); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := c.RenderTo(&mockDrawer{}); !errors.Is(err, ErrInvalidRenderer) {
		t.Errorf("err = %v, want ErrInvalidRenderer", err)
	}
}

func TestRenderToCreationFailure(t *testing.T) {
	c := newStaticCanvas(t, 4, 4)
	defer c.Close()
	if err := c.Update(context.Background(), epoch); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	dc := newMockDrawer()
	dc.creator.failNext = true
	if err := c.RenderTo(dc); err == nil {
		t.Fatal("RenderTo succeeded despite texture creation failure")
	}
	// The pending frame survives and the next attempt succeeds.
	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo retry failed: %v", err)
	}
}

func TestResize(t *testing.T) {
	c := newStaticCanvas(t, 8, 8)
	defer c.Close()
	dc := newMockDrawer()
	ctx := context.Background()

	if err := c.Update(ctx, epoch); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo failed: %v", err)
	}
	old := dc.creator.textures[0]

	if err := c.Resize(0, 4); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Resize(0, 4) = %v, want ErrInvalidDimensions", err)
	}
	if err := c.Resize(12, 6); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if err := c.Update(ctx, epoch); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if b := c.Image().Bounds(); b.Dx() != 12 || b.Dy() != 6 {
		t.Errorf("frame size = %v, want 12x6", b.Size())
	}
	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo failed: %v", err)
	}

	if len(dc.creator.textures) != 2 {
		t.Fatalf("created %d textures, want 2", len(dc.creator.textures))
	}
	if !old.destroyed {
		t.Error("old texture not destroyed after resize")
	}
	if nt := dc.creator.textures[1]; nt.width != 12 || nt.height != 6 {
		t.Errorf("new texture size = %dx%d, want 12x6", nt.width, nt.height)
	}
}

func TestClose(t *testing.T) {
	c := newStaticCanvas(t, 4, 4)
	dc := newMockDrawer()
	if err := c.Update(context.Background(), epoch); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo failed: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if !dc.creator.textures[0].destroyed {
		t.Error("texture not destroyed by Close")
	}
	if c.Provider() != nil {
		t.Error("Provider() != nil after Close")
	}

	if err := c.Update(context.Background(), epoch); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("Update after Close = %v, want ErrCanvasClosed", err)
	}
	if err := c.RenderTo(dc); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("RenderTo after Close = %v, want ErrCanvasClosed", err)
	}
	if err := c.Resize(8, 8); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("Resize after Close = %v, want ErrCanvasClosed", err)
	}
}
