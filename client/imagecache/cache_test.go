package imagecache

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"
)

func solid(c color.Gray) image.Image {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.SetGray(0, 0, c)
	return img
}

func grayAt(t *testing.T, img image.Image) uint8 {
	t.Helper()
	g, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("unexpected image type %T", img)
	}
	return g.GrayAt(0, 0).Y
}

func TestNew_DefaultCapacity(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, -1} {
		if got := New(n).Capacity(); got != DefaultCapacity {
			t.Fatalf("New(%d).Capacity() = %d", n, got)
		}
	}
	if New(3).Capacity() != 3 {
		t.Fatal("explicit capacity ignored")
	}
}

func TestSetGet_LastWriteWins(t *testing.T) {
	t.Parallel()
	c := New(0)
	c.Set(solid(color.Gray{Y: 1}), "u")
	c.Set(solid(color.Gray{Y: 2}), "u")
	img, ok := c.Get("u")
	if !ok || grayAt(t, img) != 2 {
		t.Fatalf("expected second image")
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d", c.Size())
	}
	if _, ok := c.Get("other"); ok {
		t.Fatal("unexpected hit")
	}
}

func TestSet_EvictsOldestWhenFull(t *testing.T) {
	t.Parallel()
	c := New(0)
	for i := 0; i < 60; i++ {
		c.Set(solid(color.Gray{Y: uint8(i)}), fmt.Sprintf("https://img/%d", i))
	}
	if c.Size() != DefaultCapacity {
		t.Fatalf("size = %d, want %d", c.Size(), DefaultCapacity)
	}
	for i := 0; i < 10; i++ {
		if _, ok := c.Get(fmt.Sprintf("https://img/%d", i)); ok {
			t.Fatalf("entry %d should have been evicted", i)
		}
	}
	for i := 10; i < 60; i++ {
		if _, ok := c.Get(fmt.Sprintf("https://img/%d", i)); !ok {
			t.Fatalf("entry %d missing", i)
		}
	}
}

func TestSet_OverwriteKeepsPositionAndGetDoesNotReorder(t *testing.T) {
	t.Parallel()
	c := New(2)
	c.Set(solid(color.Gray{Y: 1}), "a")
	c.Set(solid(color.Gray{Y: 2}), "b")
	c.Get("a")
	c.Set(solid(color.Gray{Y: 3}), "a")
	c.Set(solid(color.Gray{Y: 4}), "c")
	if _, ok := c.Get("a"); ok {
		t.Fatal("a was inserted first and should be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatal("b should remain")
	}
}

func TestClear(t *testing.T) {
	t.Parallel()
	c := New(0)
	c.Set(solid(color.Gray{}), "a")
	c.Set(solid(color.Gray{}), "b")
	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("size after clear = %d", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("a survived clear")
	}
	c.Set(solid(color.Gray{}), "a")
	if c.Size() != 1 {
		t.Fatal("cache unusable after clear")
	}
}

func TestLongURLKey(t *testing.T) {
	t.Parallel()
	c := New(0)
	url := "https://example.com/" + strings.Repeat("x", 1000)
	c.Set(solid(color.Gray{Y: 9}), url)
	if img, ok := c.Get(url); !ok || grayAt(t, img) != 9 {
		t.Fatal("long url lookup failed")
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()
	c := New(0)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				url := fmt.Sprintf("u-%d-%d", g, i%70)
				c.Set(solid(color.Gray{Y: uint8(i)}), url)
				c.Get(url)
				if c.Size() > DefaultCapacity {
					t.Errorf("size exceeded capacity: %d", c.Size())
					return
				}
			}
		}(g)
	}
	wg.Wait()
	if c.Size() != DefaultCapacity {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestShared_IsSingleton(t *testing.T) {
	t.Parallel()
	if Shared() != Shared() {
		t.Fatal("Shared returned different instances")
	}
	if Shared().Capacity() != DefaultCapacity {
		t.Fatal("shared cache capacity")
	}
}
