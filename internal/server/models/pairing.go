package models

import "time"

// PairingEntry is the status a secondary device reported for a browser
// session. Entries are replaced as a whole on every submit.
type PairingEntry struct {
	Session   string
	Connected bool
	Device    string
	Address   string
	When      time.Time
}
