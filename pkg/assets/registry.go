package assets

import (
	"fmt"
	"sync"
)

var (
	mu        sync.RWMutex
	measurers = make(map[string]Measurer)
)

func init() {
	// The file strategy is always available.
	if err := Register(NewFileMeasurer()); err != nil {
		panic(err)
	}
}

// Register registers a measurement strategy under its name.
// If a strategy with the same name is already registered, it returns an error.
func Register(measurer Measurer) error {
	if measurer == nil {
		return fmt.Errorf("cannot register nil measurer")
	}

	name := measurer.Name()
	if name == "" {
		return fmt.Errorf("measurer name cannot be empty")
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := measurers[name]; exists {
		return fmt.Errorf("measurer '%s' is already registered", name)
	}

	measurers[name] = measurer
	return nil
}

// Get retrieves a measurement strategy by name.
// Returns nil if the strategy is not found.
func Get(name string) Measurer {
	mu.RLock()
	defer mu.RUnlock()

	return measurers[name]
}

// List returns all registered strategy names.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(measurers))
	for name := range measurers {
		names = append(names, name)
	}
	return names
}
