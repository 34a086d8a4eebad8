package db

import (
	"database/sql"
	"sync"
)

type dbOp struct {
	fn     func(*sql.DB) (interface{}, error)
	result chan dbOpResult
}

type dbOpResult struct {
	value interface{}
	err   error
}

// DBQueue funnels all writes through a single worker goroutine so that
// concurrent mutations from different admins never interleave. Reads go
// straight to the underlying connection via DB().
type DBQueue struct {
	db        *sql.DB
	ops       chan dbOp
	closeOnce sync.Once
	done      chan struct{}
}

func NewDBQueue(database *sql.DB) *DBQueue {
	q := &DBQueue{
		db:   database,
		ops:  make(chan dbOp, 64),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

// NewDBQueueForTest executes operations synchronously on the caller's
// goroutine, without a worker.
func NewDBQueueForTest(database *sql.DB) *DBQueue {
	return &DBQueue{db: database}
}

func (q *DBQueue) run() {
	defer close(q.done)
	for op := range q.ops {
		value, err := op.fn(q.db)
		op.result <- dbOpResult{value: value, err: err}
	}
}

func (q *DBQueue) DB() *sql.DB {
	return q.db
}

func (q *DBQueue) Execute(fn func(*sql.DB) (interface{}, error)) (interface{}, error) {
	if q.ops == nil {
		return fn(q.db)
	}
	op := dbOp{fn: fn, result: make(chan dbOpResult, 1)}
	q.ops <- op
	res := <-op.result
	return res.value, res.err
}

func (q *DBQueue) Close() {
	if q.ops == nil {
		return
	}
	q.closeOnce.Do(func() {
		close(q.ops)
		<-q.done
	})
}
