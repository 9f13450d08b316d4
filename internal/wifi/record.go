package wifi

import (
	"fmt"
	"strings"
)

// Retrievability describes whether a record's secret could be read
type Retrievability int

const (
	Found Retrievability = iota
	NotFound
	Unauthorized
)

// Sentinel secrets stored in records that carry no real key
const (
	SecretWindowsNoKey      = "No password found"
	SecretWindowsFailed     = "Unable to retrieve"
	SecretNoPSK             = "No password found or Open network"
	SecretUnreadable        = "Unable to read"
	SecretMacOSUnauthorized = "Unable to retrieve (may require authorization)"
	SecretMacOSNoPassword   = "Unable to retrieve"
)

var retrievabilityNames = map[Retrievability]string{
	Found:        "found",
	NotFound:     "not_found",
	Unauthorized: "unauthorized",
}

func (r Retrievability) String() string {
	if name, ok := retrievabilityNames[r]; ok {
		return name
	}
	return fmt.Sprintf("retrievability(%d)", int(r))
}

// MarshalText encodes the retrievability as its lowercase name
func (r Retrievability) MarshalText() ([]byte, error) {
	if _, ok := retrievabilityNames[r]; !ok {
		return nil, fmt.Errorf("unknown retrievability %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText parses a retrievability name
func (r *Retrievability) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for value, candidate := range retrievabilityNames {
		if candidate == name {
			*r = value
			return nil
		}
	}
	return fmt.Errorf("unknown retrievability %q", text)
}

// Record is the uniform result for one discovered network
type Record struct {
	Identifier     string         `json:"ssid"`
	Secret         string         `json:"password"`
	Retrievability Retrievability `json:"retrievability"`
}

// Err maps a record that holds no secret onto the matching sentinel error
func (r Record) Err() error {
	switch r.Retrievability {
	case Found:
		return nil
	case Unauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, r.Identifier)
	default:
		return fmt.Errorf("%w: no secret stored for %s", ErrParseMiss, r.Identifier)
	}
}

func foundRecord(id, secret string) Record {
	return Record{Identifier: id, Secret: secret, Retrievability: Found}
}

func missingRecord(id, sentinel string) Record {
	return Record{Identifier: id, Secret: sentinel, Retrievability: NotFound}
}

func unauthorizedRecord(id, sentinel string) Record {
	return Record{Identifier: id, Secret: sentinel, Retrievability: Unauthorized}
}
