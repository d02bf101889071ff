package constants

const (
	ServiceName     = "deeper_archive"
	FullServiceName = "deeper.archive.Indexer"
	ProjectName     = "deeper-chain/deeper-archive"
)
