package engine

// Named engine-wide limits (spec throughout; mirrors cs165_api.h's constant
// block). Several of these are explicitly called out as tunable rather than
// hard-coded (spec §4.5, §4.8); the constants below are defaults, not caps.
const (
	// MaxNameSize is the padded width of a database/table/column name in the
	// catalog's on-disk format (spec §6); Dump rejects names that do not fit.
	MaxNameSize = 64

	// DefaultTableCapacity is a table's nominal row capacity (Table.Capacity)
	// before the first growCapacity doubling.
	DefaultTableCapacity = 1

	// DefaultClientHandles is the handle table's initial capacity before its
	// first doubling (spec §4.8).
	DefaultClientHandles = 8

	// DefaultMaxBtreeKeys is the default B+tree fanout (spec §3, §9).
	DefaultMaxBtreeKeys = 1024

	// DefaultMaxSharedPerPass is the default comparator-bucket size for the
	// batch scheduler. The source hardcodes 1, which disables fusion
	// entirely; spec §4.5 calls for this to be configurable at ≥1.
	DefaultMaxSharedPerPass = 1

	// DefaultMaxSelectsInBatch bounds how many selects one batch_queries
	// call may accumulate; Batch.Add rejects any select beyond it (spec §4.5).
	DefaultMaxSelectsInBatch = 10000

	// MaxSelectThreads is the batch scheduler's default worker pool size
	// (spec §4.5, §5).
	MaxSelectThreads = 4

	// SelectVectorSize is the tile width the batch scheduler walks the base
	// vector in (spec §4.5).
	SelectVectorSize = 8096

	// PrintTileRows is the wire print sub-protocol's row-tile size (spec
	// §4.7, §6). It has the same value as internal/exec.PrintTileRows, which
	// is the definition print itself uses.
	PrintTileRows = 512
)
