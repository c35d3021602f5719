package report

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregator_Empty(t *testing.T) {
	a := NewAggregator()

	assert.False(t, a.HasErrors())
	assert.Equal(t, 0, a.Count())
	assert.Empty(t, a.All())
}

func TestAggregator_PreservesOrder(t *testing.T) {
	a := NewAggregator()
	a.Report("bootloader: grub-mkconfig failed")
	a.Reportf("packages: %d packages failed to install", 3)
	a.Report("bootloader: grub-mkconfig failed") // duplicates are kept

	assert.True(t, a.HasErrors())
	assert.Equal(t, 3, a.Count())
	assert.Equal(t, []string{
		"bootloader: grub-mkconfig failed",
		"packages: 3 packages failed to install",
		"bootloader: grub-mkconfig failed",
	}, a.All())
}

func TestAggregator_AllReturnsCopy(t *testing.T) {
	a := NewAggregator()
	a.Report("first")

	got := a.All()
	got[0] = "mutated"

	assert.Equal(t, []string{"first"}, a.All())
}

func TestAggregator_ConcurrentReport(t *testing.T) {
	a := NewAggregator()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Report("err")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, a.Count())
}
