package importer

import "runtime"

// Mode selects how structural duplicates are handled.
type Mode string

const (
	// ModeSkip leaves structural matches untouched.
	ModeSkip Mode = "skip"
	// ModeOverwrite replaces the stored fields of structural matches.
	ModeOverwrite Mode = "overwrite"
)

// ParseMode normalizes a raw mode string: exactly "overwrite" selects
// overwrite, everything else is skip.
func ParseMode(s string) Mode {
	if s == string(ModeOverwrite) {
		return ModeOverwrite
	}
	return ModeSkip
}

// Config holds the tuning knobs of one import run.
type Config struct {
	CategoryBatchSize  int // concurrent category find-or-creates
	FetchPageSize      int // names per existing-product query
	WriteBatchSize     int // records per write batch
	ShardCount         int // reconciliation shards; <=0 means GOMAXPROCS
	MaxInFlightBatches int // write batches dispatched concurrently
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		CategoryBatchSize:  50,
		FetchPageSize:      1000,
		WriteBatchSize:     250,
		ShardCount:         runtime.GOMAXPROCS(0),
		MaxInFlightBatches: 8,
	}
}

// withDefaults fills in zero values so a partially-populated Config from
// the environment still behaves.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.CategoryBatchSize <= 0 {
		c.CategoryBatchSize = def.CategoryBatchSize
	}
	if c.FetchPageSize <= 0 {
		c.FetchPageSize = def.FetchPageSize
	}
	if c.WriteBatchSize <= 0 {
		c.WriteBatchSize = def.WriteBatchSize
	}
	if c.ShardCount <= 0 {
		c.ShardCount = def.ShardCount
	}
	if c.MaxInFlightBatches <= 0 {
		c.MaxInFlightBatches = def.MaxInFlightBatches
	}
	return c
}
