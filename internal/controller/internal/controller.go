package internal

import (
	"github.com/deeper-chain/deeper-archive/internal/api"
)

type (
	Controller interface {
		Watermarker() Watermarker
		Indexer(domain api.Domain) (Indexer, error)
		CronTasks() []CronTask
	}
)
