// Package inmemdb provides in-memory implementations of the repository
// interfaces for tests and the console-only dev mode.
package inmemdb

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core/donation"
	"github.com/tangakou/msaada/core/event"
	"github.com/tangakou/msaada/core/ngo"
	"github.com/tangakou/msaada/core/task"
	"github.com/tangakou/msaada/core/user"
)

type (
	userTable struct {
		sync.RWMutex
		rows map[primitive.ObjectID]*user.User
	}

	ngoTable struct {
		sync.RWMutex
		rows map[primitive.ObjectID]*ngo.NGO
	}

	taskTable struct {
		sync.RWMutex
		rows map[primitive.ObjectID]*task.Task
	}

	donationTable struct {
		sync.RWMutex
		rows map[primitive.ObjectID]*donation.Donation
	}

	eventTable struct {
		sync.RWMutex
		rows map[primitive.ObjectID]*event.Event
	}

	DB struct {
		users     *userTable
		ngos      *ngoTable
		tasks     *taskTable
		donations *donationTable
		events    *eventTable
	}
)

func Open() *DB {
	return &DB{
		users:     &userTable{rows: make(map[primitive.ObjectID]*user.User)},
		ngos:      &ngoTable{rows: make(map[primitive.ObjectID]*ngo.NGO)},
		tasks:     &taskTable{rows: make(map[primitive.ObjectID]*task.Task)},
		donations: &donationTable{rows: make(map[primitive.ObjectID]*donation.Donation)},
		events:    &eventTable{rows: make(map[primitive.ObjectID]*event.Event)},
	}
}
