package client

import (
	"context"
	"io"
	"log"
	"sync"
	"time"
)

// BlobStorage is the attachment store the client uploads to and deletes from.
// Upload returns the public URL of the stored object; Delete takes that URL
// back.
type BlobStorage interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, rawURL string) error
}

const deleteTimeout = 30 * time.Second

// Cleaner deletes orphaned attachments in the background. Deleting a
// transaction must never wait on, or fail because of, blob storage, so
// cleanup runs on its own goroutine and failures surface only on the error
// channel.
type Cleaner struct {
	storage BlobStorage
	jobs    chan string
	errs    chan error
	wg      sync.WaitGroup
}

func NewCleaner(storage BlobStorage, queueSize int) *Cleaner {
	c := &Cleaner{
		storage: storage,
		jobs:    make(chan string, queueSize),
		errs:    make(chan error, queueSize),
	}
	c.wg.Add(1)
	go c.worker()
	return c
}

func (c *Cleaner) worker() {
	defer c.wg.Done()

	for rawURL := range c.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
		err := c.storage.Delete(ctx, rawURL)
		cancel()
		if err == nil {
			continue
		}

		log.Printf("Error deleting attachment %s: %v", rawURL, err)
		select {
		case c.errs <- err:
		default:
			// Nobody is draining the error channel; dropping is fine,
			// the failure is already logged.
		}
	}
}

// Enqueue schedules a deletion. It never blocks: when the queue is full the
// job is dropped and Enqueue reports false.
func (c *Cleaner) Enqueue(rawURL string) bool {
	select {
	case c.jobs <- rawURL:
		return true
	default:
		log.Printf("Warning: cleanup queue full, dropping attachment %s", rawURL)
		return false
	}
}

// Errors exposes deletion failures for callers that want to observe them.
func (c *Cleaner) Errors() <-chan error {
	return c.errs
}

// Close stops accepting jobs and waits for the pending ones to finish.
func (c *Cleaner) Close() {
	close(c.jobs)
	c.wg.Wait()
}
