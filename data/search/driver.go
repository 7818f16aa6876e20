package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/data/metrics"
)

// Driver opens an Adapter for one engine.
// Following the design pattern of database/sql, drivers register themselves
// from init() and are looked up by name.
type Driver interface {
	// Name returns the driver identifier used in configuration files
	Name() Engine

	// Connect creates an adapter from the search configuration. It returns
	// ErrNotConfigured when the configuration does not enable this engine.
	Connect(ctx context.Context, cfg *config.Search) (Adapter, error)
}

var (
	drivers   = make(map[Engine]Driver)
	driversMu sync.RWMutex
)

// RegisterDriver makes a search engine driver available by the provided name.
// It is intended to be called from the init function in driver packages.
func RegisterDriver(driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if driver == nil {
		panic("search: RegisterDriver driver is nil")
	}

	name := driver.Name()
	if name == "" {
		panic("search: RegisterDriver driver name is empty")
	}

	if _, exists := drivers[name]; exists {
		panic(fmt.Sprintf("search: RegisterDriver called twice for driver %s", name))
	}

	drivers[name] = driver
}

// GetDriver retrieves a registered driver by name
func GetDriver(name Engine) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()

	driver, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf(
			"search: driver %q not registered\n\n"+
				"Did you forget to import the driver package?\n"+
				"Add to your imports:\n"+
				"    _ \"github.com/ncobase/pagination/data/%s\"\n\n"+
				"Available drivers: %v",
			name, name, listDriversLocked(),
		)
	}
	return driver, nil
}

// Drivers returns the names of registered drivers, sorted
func Drivers() []Engine {
	driversMu.RLock()
	defer driversMu.RUnlock()
	return listDriversLocked()
}

func listDriversLocked() []Engine {
	names := make([]Engine, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Open connects every registered driver the configuration enables and returns
// a client over the resulting adapters.
func Open(ctx context.Context, cfg *config.Search, collector metrics.Collector) (*Client, error) {
	if cfg == nil {
		cfg = config.DefaultSearch()
	}

	var adapters []Adapter
	for _, name := range Drivers() {
		driver, err := GetDriver(name)
		if err != nil {
			return nil, err
		}
		adapter, err := driver.Connect(ctx, cfg)
		if errors.Is(err, ErrNotConfigured) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("search: failed to connect %s: %w", name, err)
		}
		adapters = append(adapters, adapter)
	}

	if len(adapters) == 0 {
		return nil, ErrNoEngineAvailable
	}

	return NewClient(cfg, collector, adapters...), nil
}
