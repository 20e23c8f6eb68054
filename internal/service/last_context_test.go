package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastContext_NilBeforeFirstSet(t *testing.T) {
	lc := NewLastContext()
	assert.Nil(t, lc.Get())
}

func TestLastContext_SetAndGet(t *testing.T) {
	lc := NewLastContext()
	lc.Set([]string{"1", "2"})
	assert.Equal(t, []string{"1", "2"}, lc.Get())
}

func TestLastContext_CopiesIn(t *testing.T) {
	lc := NewLastContext()
	ids := []string{"1", "2"}
	lc.Set(ids)

	ids[0] = "mutated"
	assert.Equal(t, []string{"1", "2"}, lc.Get())
}

func TestLastContext_CopiesOut(t *testing.T) {
	lc := NewLastContext()
	lc.Set([]string{"1", "2"})

	got := lc.Get()
	got[0] = "mutated"
	assert.Equal(t, []string{"1", "2"}, lc.Get())
}

func TestLastContext_LastWriterWins(t *testing.T) {
	lc := NewLastContext()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lc.Set([]string{fmt.Sprintf("id-%d", i)})
		}(i)
	}
	wg.Wait()

	got := lc.Get()
	assert.Len(t, got, 1)
	assert.Contains(t, got[0], "id-")
}
