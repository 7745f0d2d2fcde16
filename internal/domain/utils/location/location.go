package location

import (
	"sync"
	"time"
)

var (
	mu       sync.RWMutex
	location = time.UTC
)

// Init loads the campus time zone ("America/New_York", etc.)
func Init(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Set(loc)
	return nil
}

// Set replaces the campus time zone
func Set(loc *time.Location) {
	mu.Lock()
	defer mu.Unlock()
	location = loc
}

// Location returns the campus time zone every schedule is evaluated in
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return location
}
