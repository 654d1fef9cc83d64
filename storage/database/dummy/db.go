package dummydb

import (
	"sync"

	"github.com/academiplan/backend/core/attendance"
	"github.com/academiplan/backend/core/subject"
	"github.com/academiplan/backend/core/user"
)

// DB is an in-memory store used in tests and local development. A single
// mutex guards all tables so that the counter delta and the ledger write of
// an append/undo are observed as one atomic unit, like the real store.
type DB struct {
	mu       sync.RWMutex
	users    map[string]*user.User
	subjects map[string]*subject.Subject
	events   map[string]*attendance.Event
}

func Open() (*DB, error) {
	return &DB{
		users:    make(map[string]*user.User),
		subjects: make(map[string]*subject.Subject),
		events:   make(map[string]*attendance.Event),
	}, nil
}
