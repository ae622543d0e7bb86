package location

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// export mirrors countries+states+cities.json from the
// dr5hn/countries-states-cities-database project, the data behind the
// country-state-city package.
type export []struct {
	Name      string `json:"name"`
	ISO2      string `json:"iso2"`
	PhoneCode string `json:"phone_code"` // older exports use "phonecode"
	PhoneOld  string `json:"phonecode"`
	Currency  string `json:"currency"`
	Emoji     string `json:"emoji"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	States    []struct {
		Name      string `json:"name"`
		StateCode string `json:"state_code"`
		Cities    []struct {
			Name string `json:"name"`
		} `json:"cities"`
	} `json:"states"`
}

// LoadFile replaces the embedded dataset with a full countries-states-cities
// export read from path.
func LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open location dataset: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load replaces the active dataset with the export read from r.
func Load(r io.Reader) error {
	var ex export
	if err := json.NewDecoder(r).Decode(&ex); err != nil {
		return fmt.Errorf("decode location dataset: %w", err)
	}
	if len(ex) == 0 {
		return fmt.Errorf("decode location dataset: no countries")
	}

	d := &dataset{Countries: make([]Country, 0, len(ex))}
	for _, c := range ex {
		phone := c.PhoneCode
		if phone == "" {
			phone = c.PhoneOld
		}
		d.Countries = append(d.Countries, Country{
			Name: c.Name, IsoCode: c.ISO2, Flag: c.Emoji, PhoneCode: phone,
			Currency: c.Currency, Latitude: c.Latitude, Longitude: c.Longitude,
		})
		for _, s := range c.States {
			d.States = append(d.States, State{Name: s.Name, IsoCode: s.StateCode, CountryCode: c.ISO2})
			for _, city := range s.Cities {
				d.Cities = append(d.Cities, City{Name: city.Name, CountryCode: c.ISO2, StateCode: s.StateCode})
			}
		}
	}
	replace(d)
	return nil
}
