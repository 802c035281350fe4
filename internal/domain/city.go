package domain

import (
	"strings"
	"sync"
)

// CityID is the interned handle of a city within one Registry.
type CityID uint32

// City is an interned, comparable city identity.
type City struct {
	ID   CityID
	Name string
}

func (c City) String() string { return c.Name }

// TrainTypeID is the interned handle of a train type within one Registry.
type TrainTypeID uint32

// TrainType is an interned train category such as "ICE" or "InterCity".
type TrainType struct {
	ID   TrainTypeID
	Name string
}

func (t TrainType) String() string { return t.Name }

// Registry interns cities and train types by name. Values obtained from the
// same Registry compare equal with == exactly when their names match.
// A Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	cities map[string]City
	trains map[string]TrainType
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		cities: make(map[string]City),
		trains: make(map[string]TrainType),
	}
}

// City returns the interned city for name, creating it if absent.
func (r *Registry) City(name string) (City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return City{}, ErrEmptyCityName
	}

	r.mu.RLock()
	c, ok := r.cities[name]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.cities[name]; ok {
		return c, nil
	}
	c = City{ID: CityID(len(r.cities) + 1), Name: name}
	r.cities[name] = c
	return c, nil
}

// TrainType returns the interned train type for name, creating it if absent.
func (r *Registry) TrainType(name string) (TrainType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TrainType{}, ErrEmptyTrainType
	}

	r.mu.RLock()
	t, ok := r.trains[name]
	r.mu.RUnlock()
	if ok {
		return t, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.trains[name]; ok {
		return t, nil
	}
	t = TrainType{ID: TrainTypeID(len(r.trains) + 1), Name: name}
	r.trains[name] = t
	return t, nil
}

// Cities returns the number of interned cities.
func (r *Registry) Cities() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cities)
}
