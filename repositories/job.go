//go:generate go run go.uber.org/mock/mockgen -source=job.go -destination=../mocks/mock_job_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"job-board/domain"
	"job-board/errors"
)

type IJobRepository interface {
	StoreJob(job domain.Job) error
	GetJob(id uuid.UUID) (domain.Job, error)
}

type JobRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewJobRepository(db *badger.DB, log *slog.Logger) JobRepository {
	return JobRepository{db: db, log: log}
}

func jobKey(id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("job:%s", id))
}

// StoreJob persists a posting document under "job:{uuid}".
// The document is insert-only; the relay never updates or deletes it.
func (r JobRepository) StoreJob(job domain.Job) error {
	bytes, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(jobKey(job.ID), bytes)
	})
}

// GetJob resolves a posting by id. A missing key surfaces as
// errors.ErrJobNotFound so callers can answer with a client error.
func (r JobRepository) GetJob(id uuid.UUID) (domain.Job, error) {
	var job domain.Job
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(jobKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &job)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Job{}, fmt.Errorf("%w: %s", errors.ErrJobNotFound, id)
	}
	if err != nil {
		return domain.Job{}, err
	}
	return job, nil
}
