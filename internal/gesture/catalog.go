package gesture

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when a requested gesture does not exist.
var ErrNotFound = errors.New("gesture not found")

// ErrDuplicateID is returned when adding a gesture whose id already exists.
var ErrDuplicateID = errors.New("gesture id already exists")

// catalogFile is the on-disk document shape, kept compatible with the
// hand-edited configuration files this format originated from.
type catalogFile struct {
	HandGestures []Definition `json:"hand_gestures"`
}

// Catalog is the persistent store of gesture definitions. It is loaded once
// at startup; every mutation rewrites the whole file.
type Catalog struct {
	mu   sync.Mutex
	path string
	defs []Definition
}

// LoadCatalog reads the gesture catalog from path. A missing file is created
// with the built-in default set; a malformed file falls back to the defaults
// in memory without clobbering the file. LoadCatalog never fails: the system
// starts with defaults rather than refusing to start.
func LoadCatalog(path string) *Catalog {
	c := &Catalog{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.defs = DefaultDefinitions()
			if err := c.save(); err != nil {
				log.Printf("gesture catalog: cannot write defaults to %s: %v", path, err)
			} else {
				log.Printf("gesture catalog: created %s with default gestures", path)
			}
			return c
		}
		log.Printf("gesture catalog: cannot read %s (%v), using defaults", path, err)
		c.defs = DefaultDefinitions()
		return c
	}

	var doc catalogFile
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("gesture catalog: malformed %s (%v), using defaults", path, err)
		c.defs = DefaultDefinitions()
		return c
	}

	// Drop unusable entries instead of failing the whole load.
	for _, d := range doc.HandGestures {
		if err := d.Validate(); err != nil {
			log.Printf("gesture catalog: skipping invalid definition: %v", err)
			continue
		}
		c.defs = append(c.defs, d)
	}

	if len(c.defs) == 0 {
		log.Printf("gesture catalog: %s has no usable definitions, using defaults", path)
		c.defs = DefaultDefinitions()
	}

	log.Printf("Loaded %d gestures from %s", len(c.defs), path)
	return c
}

// Path returns the backing file path.
func (c *Catalog) Path() string {
	return c.path
}

// Definitions returns a copy of all gesture definitions.
func (c *Catalog) Definitions() []Definition {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Get returns the definition with the given id.
func (c *Catalog) Get(id string) (Definition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.defs {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Add appends a new definition and persists the catalog.
func (c *Catalog) Add(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.defs {
		if d.ID == def.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, def.ID)
		}
	}

	c.defs = append(c.defs, def)
	if err := c.save(); err != nil {
		c.defs = c.defs[:len(c.defs)-1]
		return err
	}
	return nil
}

// Update replaces the definition with the same id and persists the catalog.
func (c *Catalog) Update(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, d := range c.defs {
		if d.ID == def.ID {
			prev := c.defs[i]
			c.defs[i] = def
			if err := c.save(); err != nil {
				c.defs[i] = prev
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, def.ID)
}

// Remove deletes the definition with the given id and persists the catalog.
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, d := range c.defs {
		if d.ID == id {
			removed := c.defs[i]
			c.defs = append(c.defs[:i], c.defs[i+1:]...)
			if err := c.save(); err != nil {
				c.defs = append(c.defs[:i], append([]Definition{removed}, c.defs[i:]...)...)
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// save rewrites the whole catalog file. Caller holds c.mu.
func (c *Catalog) save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	data, err := json.MarshalIndent(catalogFile{HandGestures: c.defs}, "", "    ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
