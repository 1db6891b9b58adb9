// Package dummydb is an in-memory storage implementation used by tests and
// local development; it mirrors the semantics of the SQL layer, including the
// unique attendance key and the schedule -> attendance cascade.
package dummydb

import (
	"sync"

	"github.com/darasa-app/darasa/core/attendance"
	"github.com/darasa-app/darasa/core/news"
	"github.com/darasa-app/darasa/core/schedule"
	"github.com/darasa-app/darasa/core/user"
)

type (
	DB struct {
		user       *userTable
		schedule   *scheduleTable
		news       *newsTable
		attendance *attendanceTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	scheduleTable struct {
		sync.RWMutex
		table map[string]*schedule.Schedule
	}

	newsTable struct {
		sync.RWMutex
		table map[string]*news.News
		seq   int // preserves insertion order for equal timestamps
		seqs  map[string]int
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Record
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		schedule:   &scheduleTable{table: make(map[string]*schedule.Schedule)},
		news:       &newsTable{table: make(map[string]*news.News), seqs: make(map[string]int)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Record)},
	}
	return db, nil
}
