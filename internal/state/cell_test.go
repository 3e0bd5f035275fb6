package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellGetSet(t *testing.T) {
	c := NewCell(42)
	assert.Equal(t, 42, c.Get())

	c.Set(7)
	assert.Equal(t, 7, c.Get())
}

func TestCellSubscribe(t *testing.T) {
	c := NewCell("initial")

	var seen []string
	unsubscribe := c.Subscribe(func(v string) {
		seen = append(seen, v)
	})

	c.Set("first")
	c.Set("second")
	assert.Equal(t, []string{"first", "second"}, seen)

	unsubscribe()
	c.Set("third")
	assert.Equal(t, []string{"first", "second"}, seen, "no notifications after unsubscribe")
}

func TestCellMultipleSubscribers(t *testing.T) {
	c := NewCell(0)

	first, second := 0, 0
	c.Subscribe(func(v int) { first = v })
	c.Subscribe(func(v int) { second = v })

	c.Set(5)
	assert.Equal(t, 5, first)
	assert.Equal(t, 5, second)
}

func TestCellSubscriberCanRead(t *testing.T) {
	c := NewCell(0)

	var read int
	c.Subscribe(func(int) {
		read = c.Get()
	})

	c.Set(9)
	assert.Equal(t, 9, read)
}

func TestCellUnsubscribeTwice(t *testing.T) {
	c := NewCell(0)
	unsubscribe := c.Subscribe(func(int) {})
	unsubscribe()
	assert.NotPanics(t, unsubscribe)
}
