package writer

// KeyAttribute is the partition key of the news table.
const KeyAttribute = "rank"

// DefaultNewsTable is the news table name used when none is configured.
const DefaultNewsTable = "Stock_Sim_News_Data"

// WriterConfig contains configuration for the news writer.
type WriterConfig struct {
	// Table is the document-store table items are written to.
	Table string
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		Table: DefaultNewsTable,
	}
}

// WriterMetrics holds metrics for a writer.
type WriterMetrics struct {
	Batches int64
	Inserts int64
	Errors  int64
}
