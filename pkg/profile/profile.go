package profile

import (
	"sort"
)

// PartitionStats counts the rows routed to one output file.
type PartitionStats struct {
	Key  string `json:"key"`
	File string `json:"file"`
	Rows int    `json:"rows"`
}

// Summary is the end-of-run report.
type Summary struct {
	Rows       int              `json:"rows"`
	Partitions int              `json:"partitions"`
	Files      []PartitionStats `json:"files"`
}

// Collector accumulates per-partition row counts. Memory grows with the
// number of distinct keys, not with rows.
type Collector struct {
	rows   int
	cols   []PartitionStats
	index  map[string]int
	fileOf func(key string) string
}

// NewCollector returns a Collector; fileOf names the output file of a key
// and may be nil.
func NewCollector(fileOf func(key string) string) *Collector {
	return &Collector{index: make(map[string]int), fileOf: fileOf}
}

// Observe records one row routed to key.
func (c *Collector) Observe(key string) {
	c.rows++
	i, ok := c.index[key]
	if !ok {
		i = len(c.cols)
		ps := PartitionStats{Key: key}
		if c.fileOf != nil {
			ps.File = c.fileOf(key)
		}
		c.cols = append(c.cols, ps)
		c.index[key] = i
	}
	c.cols[i].Rows++
}

func (c *Collector) Rows() int { return c.rows }

// Partitions returns the stats sorted by key.
func (c *Collector) Partitions() []PartitionStats {
	out := make([]PartitionStats, len(c.cols))
	copy(out, c.cols)
	sort.Slice(out, func(a, b int) bool { return out[a].Key < out[b].Key })
	return out
}

func (c *Collector) Summary() Summary {
	return Summary{Rows: c.rows, Partitions: len(c.cols), Files: c.Partitions()}
}
