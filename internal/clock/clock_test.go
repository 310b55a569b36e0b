package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTestProviderAdvance(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tp := NewTest(anchor)

	first := tp.Now()
	tp.Advance(36 * time.Hour)
	second := tp.Now()

	assert.Equal(t, first.Add(36*time.Hour), second)
}

func TestTestProviderSet(t *testing.T) {
	tp := NewTest(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tp.Set(target)
	assert.Equal(t, target, tp.Now())
}

func TestTestProviderAdvanceDays(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tp := NewTest(anchor)

	tp.AdvanceDays(31)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), tp.Now())
}

func TestTestProviderConcurrentReaders(t *testing.T) {
	tp := NewTest(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := tp.Now()
			for {
				select {
				case <-stop:
					return
				default:
				}
				now := tp.Now()
				if now.Before(last) {
					t.Error("observed time moving backwards")
					return
				}
				last = now
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		tp.Advance(time.Second)
	}
	close(stop)
	wg.Wait()
}

func TestSystemProviderIsUTC(t *testing.T) {
	now := System().Now()
	_, offset := now.Zone()
	assert.Equal(t, 0, offset)
}
