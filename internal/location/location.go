// Package location serves the country, state and city dataset used by the
// hotel forms and the listing filters. A small dataset is embedded; LoadFile
// swaps in the full countries-states-cities export at startup.
package location

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

type Country struct {
	Name      string `json:"name"`
	IsoCode   string `json:"isoCode"`
	Flag      string `json:"flag"`
	PhoneCode string `json:"phonecode"`
	Currency  string `json:"currency"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type State struct {
	Name        string `json:"name"`
	IsoCode     string `json:"isoCode"`
	CountryCode string `json:"countryCode"`
}

type City struct {
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
	StateCode   string `json:"stateCode"`
}

//go:embed data/locations.json
var raw []byte

type dataset struct {
	Countries []Country `json:"countries"`
	States    []State   `json:"states"`
	Cities    []City    `json:"cities"`

	countryIdx map[string]int
	statesOf   map[string][]State
	citiesOf   map[string][]City // key: country/state
}

func (d *dataset) index() *dataset {
	d.countryIdx = make(map[string]int, len(d.Countries))
	for i, c := range d.Countries {
		d.countryIdx[c.IsoCode] = i
	}
	d.statesOf = make(map[string][]State, len(d.Countries))
	for _, s := range d.States {
		d.statesOf[s.CountryCode] = append(d.statesOf[s.CountryCode], s)
	}
	d.citiesOf = make(map[string][]City, len(d.States))
	for _, c := range d.Cities {
		k := c.CountryCode + "/" + c.StateCode
		d.citiesOf[k] = append(d.citiesOf[k], c)
	}
	return d
}

var (
	once    sync.Once
	mu      sync.RWMutex
	current *dataset
)

func load() *dataset {
	once.Do(func() {
		var d dataset
		if err := json.Unmarshal(raw, &d); err != nil {
			panic(fmt.Sprintf("location: embedded dataset: %v", err))
		}
		mu.Lock()
		if current == nil {
			current = d.index()
		}
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func replace(d *dataset) {
	mu.Lock()
	current = d.index()
	mu.Unlock()
	once.Do(func() {})
}

func AllCountries() []Country {
	d := load()
	out := make([]Country, len(d.Countries))
	copy(out, d.Countries)
	return out
}

func CountryByCode(code string) (Country, bool) {
	d := load()
	if i, ok := d.countryIdx[code]; ok {
		return d.Countries[i], true
	}
	return Country{}, false
}

// StateByCode reports not found for an empty stateCode.
func StateByCode(countryCode, stateCode string) (State, bool) {
	if stateCode == "" {
		return State{}, false
	}
	for _, s := range load().statesOf[countryCode] {
		if s.IsoCode == stateCode {
			return s, true
		}
	}
	return State{}, false
}

func CountryStates(countryCode string) []State {
	return append([]State{}, load().statesOf[countryCode]...)
}

// StateCities returns cities whose country and state codes both match.
func StateCities(countryCode, stateCode string) []City {
	return append([]City{}, load().citiesOf[countryCode+"/"+stateCode]...)
}
