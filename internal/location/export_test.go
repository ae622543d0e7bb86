package location

import "encoding/json"

// RestoreEmbedded puts the embedded dataset back after a test loaded another.
func RestoreEmbedded() {
	var d dataset
	if err := json.Unmarshal(raw, &d); err != nil {
		panic(err)
	}
	replace(&d)
}
