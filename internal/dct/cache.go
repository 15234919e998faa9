package dct

import (
	"sync"
)

type Cache struct {
	data sync.Map
}

func NewCache() *Cache {
	var c Cache
	return &c
}

func (c *Cache) New(size int) *DCT {
	if v, ok := c.data.Load(size); ok {
		return v.(*DCT)
	}
	dct := New(size)
	actual, loaded := c.data.LoadOrStore(size, dct)
	if loaded {
		return actual.(*DCT)
	}
	return dct
}
