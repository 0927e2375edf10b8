package services

import (
	"time"

	"github.com/ekuznetsova/golinks/internal/app/storage"
)

// StorageDumper periodically snapshots the inmemory storage to its file
type StorageDumper struct {
	ms      *storage.MapStorage
	timeout time.Duration
}

// NewStorageDumper
func NewStorageDumper(ms *storage.MapStorage, timeout time.Duration) StorageDumper {
	return StorageDumper{
		ms:      ms,
		timeout: timeout,
	}
}

// Start
func (d StorageDumper) Start() {
	go func() {
		for {
			d.ms.Dump()
			time.Sleep(d.timeout)
		}
	}()
}
