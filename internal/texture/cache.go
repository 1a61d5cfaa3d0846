package texture

import (
	"scanraster/internal/lighting"
	"scanraster/internal/logging"
)

// Config sizes a Cache.
type Config struct {
	// Capacity bounds the number of decoded buffers in existence, live
	// plus free.
	Capacity int
	// Preallocate buffers are created up front and put on the free list.
	Preallocate int
	// HighDetail selects 128×128 textures instead of 64×64.
	HighDetail bool
	// Unmipped lists texture ids that are always sampled at level 0.
	Unmipped []int
	// Gamma is the initial brightness curve; 0 means lighting.DefaultGamma.
	Gamma float64
}

// DefaultConfig returns the pool sizing used by the client.
func DefaultConfig() Config {
	return Config{
		Capacity:    50,
		Preallocate: 20,
		HighDetail:  true,
		Unmipped:    []int{17, 24, 34, 40},
		Gamma:       lighting.DefaultGamma,
	}
}

// Stats counts cache activity since construction.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Failures  uint64
	Live      int
	Free      int
	Allocated int
}

// Cache decodes texture sources on demand into a bounded pool of Decoded
// buffers. It is not safe for concurrent use; give each rendering context
// its own Cache over a shared Provider.
type Cache struct {
	provider Provider
	size     int
	capacity int

	live      map[int]*Decoded
	lru       lruList
	free      []*Decoded
	allocated int
	tick      uint64

	gamma    float64
	sources  map[int]*Source
	palettes map[int][]uint32
	averages map[int]uint32
	missing  map[int]struct{}
	unmipped map[int]struct{}

	dec   decoder
	stats Stats
}

// NewCache creates a cache over p.
func NewCache(p Provider, cfg Config) *Cache {
	size := LowDetailSize
	if cfg.HighDetail {
		size = HighDetailSize
	}
	gamma := cfg.Gamma
	if gamma == 0 {
		gamma = lighting.DefaultGamma
	}
	capacity := max(cfg.Capacity, 0)

	c := &Cache{
		provider: p,
		size:     size,
		capacity: capacity,
		live:     make(map[int]*Decoded, capacity),
		gamma:    gamma,
		sources:  make(map[int]*Source),
		palettes: make(map[int][]uint32),
		averages: make(map[int]uint32),
		missing:  make(map[int]struct{}),
		unmipped: make(map[int]struct{}, len(cfg.Unmipped)),
	}
	for _, id := range cfg.Unmipped {
		c.unmipped[id] = struct{}{}
	}
	for i := 0; i < min(cfg.Preallocate, capacity); i++ {
		c.free = append(c.free, newDecoded(size))
		c.allocated++
	}
	return c
}

// Size returns the level-0 edge length of every buffer in the pool.
func (c *Cache) Size() int { return c.size }

// Capacity returns the pool bound.
func (c *Cache) Capacity() int { return c.capacity }

// Gamma returns the brightness curve the palettes are derived with.
func (c *Cache) Gamma() float64 { return c.gamma }

// Unmipped reports whether id is always sampled at mip level 0.
func (c *Cache) Unmipped(id int) bool {
	_, ok := c.unmipped[id]
	return ok
}

// Pixels returns the decoded buffer for id, decoding it on a miss. Two calls
// without an intervening miss, Release or InvalidateAll return the same
// pointer. A nil result means the texture cannot be drawn.
func (c *Cache) Pixels(id int) *Decoded {
	if d, ok := c.live[id]; ok {
		c.stats.Hits++
		c.touch(d)
		c.lru.MoveToFront(d)
		return d
	}
	c.stats.Misses++

	src := c.source(id)
	if src == nil {
		return nil
	}

	d := c.acquire()
	if d == nil {
		return nil
	}
	if err := c.dec.decode(d, src, c.palette(id, src)); err != nil {
		c.stats.Failures++
		c.missing[id] = struct{}{}
		c.free = append(c.free, d)
		logging.Logger().Warn("texture decode failed", "id", id, "err", err)
		return nil
	}

	d.id = id
	c.live[id] = d
	c.lru.PushFront(d)
	c.touch(d)
	return d
}

// Release hands the buffer of id back to the free list without freeing its
// memory. The next Pixels(id) decodes again.
func (c *Cache) Release(id int) {
	d, ok := c.live[id]
	if !ok {
		return
	}
	delete(c.live, id)
	c.lru.Remove(d)
	d.id = -1
	c.free = append(c.free, d)
}

// InvalidateAll returns every live buffer to the free list and drops the
// cached average colours. Memory is retained.
func (c *Cache) InvalidateAll() {
	for id, d := range c.live {
		delete(c.live, id)
		d.id = -1
		d.prev, d.next = nil, nil
		c.free = append(c.free, d)
	}
	c.lru.Clear()
	clear(c.averages)
	clear(c.missing)
}

// SetBrightness re-derives every known palette from its original with the
// new gamma and invalidates all decoded buffers.
func (c *Cache) SetBrightness(gamma float64) {
	c.gamma = gamma
	for id, src := range c.sources {
		pal := c.palettes[id]
		if len(pal) != len(src.Original) {
			pal = make([]uint32, len(src.Original))
		}
		lighting.AdjustPalette(pal, src.Original, gamma)
		c.palettes[id] = pal
	}
	c.InvalidateAll()
}

// OverallColour returns the average adjusted palette colour of id, ignoring
// transparent entries. The value is cached until InvalidateAll. Missing
// textures yield 0.
func (c *Cache) OverallColour(id int) uint32 {
	if rgb, ok := c.averages[id]; ok {
		return rgb
	}
	src := c.source(id)
	if src == nil {
		return 0
	}

	var r, g, b, n uint32
	for _, rgb := range c.palette(id, src) {
		if rgb == 0 {
			continue
		}
		r += rgb >> 16 & 0xff
		g += rgb >> 8 & 0xff
		b += rgb & 0xff
		n++
	}
	var avg uint32
	if n > 0 {
		avg = (r/n)<<16 | (g/n)<<8 | b/n
	}
	c.averages[id] = avg
	return avg
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	s := c.stats
	s.Live = len(c.live)
	s.Free = len(c.free)
	s.Allocated = c.allocated
	return s
}

func (c *Cache) touch(d *Decoded) {
	c.tick++
	d.lastUsed = c.tick
}

// acquire finds a buffer for a miss: free list first, then a new allocation
// while under capacity, then the least recently used live buffer.
func (c *Cache) acquire() *Decoded {
	if n := len(c.free); n > 0 {
		d := c.free[n-1]
		c.free = c.free[:n-1]
		return d
	}
	if c.allocated < c.capacity {
		c.allocated++
		return newDecoded(c.size)
	}
	d := c.lru.Oldest()
	if d == nil {
		return nil
	}
	c.lru.Remove(d)
	delete(c.live, d.id)
	logging.Logger().Debug("texture evicted", "id", d.id, "last_used", d.lastUsed)
	d.id = -1
	c.stats.Evictions++
	return d
}

func (c *Cache) source(id int) *Source {
	if _, bad := c.missing[id]; bad {
		return nil
	}
	if s, ok := c.sources[id]; ok {
		return s
	}
	if c.provider == nil {
		c.missing[id] = struct{}{}
		return nil
	}
	s, err := c.provider.Source(id)
	if err != nil || s == nil {
		c.stats.Failures++
		c.missing[id] = struct{}{}
		logging.Logger().Warn("texture source unavailable", "id", id, "err", err)
		return nil
	}
	c.sources[id] = s
	return s
}

func (c *Cache) palette(id int, src *Source) []uint32 {
	if pal, ok := c.palettes[id]; ok {
		return pal
	}
	pal := make([]uint32, len(src.Original))
	lighting.AdjustPalette(pal, src.Original, c.gamma)
	c.palettes[id] = pal
	return pal
}
