package api

import (
	"time"
)

// Watermark is the highest block for which every domain has persisted its facts.
type Watermark struct {
	Height        uint64
	LastBlockTime time.Time

	UpdatedAt time.Time // set by storage
}

const (
	InitialHeight uint64 = 0
)

func NewWatermark(height uint64) *Watermark {
	return &Watermark{
		Height: height,
	}
}

func (w *Watermark) WithLastBlockTime(t time.Time) *Watermark {
	w.LastBlockTime = t
	return w
}

func (w *Watermark) Empty() bool {
	return w == nil || w.Height == InitialHeight
}
