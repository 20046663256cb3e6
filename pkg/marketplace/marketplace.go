// Package marketplace maps the supported Selling Partner API storefronts to
// their opaque marketplace identifiers and regional endpoints.
//
// The table is static data. Every Marketplace constant has exactly one row;
// the array length assertions below make a missing row a build failure.
package marketplace

import (
	"fmt"
	"strings"
)

// Regional production endpoints.
const (
	EndpointNA = "https://sellingpartnerapi-na.amazon.com"
	EndpointEU = "https://sellingpartnerapi-eu.amazon.com"
	EndpointFE = "https://sellingpartnerapi-fe.amazon.com"
)

// Regional sandbox endpoints.
const (
	SandboxEndpointNA = "https://sandbox.sellingpartnerapi-na.amazon.com"
	SandboxEndpointEU = "https://sandbox.sellingpartnerapi-eu.amazon.com"
	SandboxEndpointFE = "https://sandbox.sellingpartnerapi-fe.amazon.com"
)

// Region is one of the three Selling Partner API regions.
type Region int

// Supported regions.
const (
	NorthAmerica Region = iota + 1
	Europe
	FarEast
)

// Endpoint returns the production base URL for the region.
func (r Region) Endpoint() string {
	switch r {
	case NorthAmerica:
		return EndpointNA
	case Europe:
		return EndpointEU
	case FarEast:
		return EndpointFE
	default:
		return ""
	}
}

// SandboxEndpoint returns the sandbox base URL for the region.
func (r Region) SandboxEndpoint() string {
	switch r {
	case NorthAmerica:
		return SandboxEndpointNA
	case Europe:
		return SandboxEndpointEU
	case FarEast:
		return SandboxEndpointFE
	default:
		return ""
	}
}

func (r Region) String() string {
	switch r {
	case NorthAmerica:
		return "NA"
	case Europe:
		return "EU"
	case FarEast:
		return "FE"
	default:
		return "unknown"
	}
}

// Marketplace identifies a country storefront.
type Marketplace int

// Supported marketplaces. The zero value is Unknown and never valid.
const (
	Unknown Marketplace = iota
	Canada
	UnitedStates
	Mexico
	Brazil
	Ireland
	Spain
	UnitedKingdom
	France
	Belgium
	Netherlands
	Germany
	Italy
	Sweden
	SouthAfrica
	Poland
	Egypt
	Turkey
	SaudiArabia
	UnitedArabEmirates
	India
	Singapore
	Australia
	Japan

	marketplaceCount
)

type entry struct {
	name    string
	country string
	id      string
	region  Region
}

var table = [...]entry{
	Unknown:            {},
	Canada:             {"Canada", "CA", "A2EUQ1WTGCTBG2", NorthAmerica},
	UnitedStates:       {"UnitedStates", "US", "ATVPDKIKX0DER", NorthAmerica},
	Mexico:             {"Mexico", "MX", "A1AM78C64UM0Y8", NorthAmerica},
	Brazil:             {"Brazil", "BR", "A2Q3Y263D00KWC", NorthAmerica},
	Ireland:            {"Ireland", "IE", "A28R8C7NBKEWEA", Europe},
	Spain:              {"Spain", "ES", "A1RKKUPIHCS9HS", Europe},
	UnitedKingdom:      {"UnitedKingdom", "GB", "A1F83G8C2ARO7P", Europe},
	France:             {"France", "FR", "A13V1IB3VIYZZH", Europe},
	Belgium:            {"Belgium", "BE", "AMEN7PMS3EDWL", Europe},
	Netherlands:        {"Netherlands", "NL", "A1805IZSGTT6HS", Europe},
	Germany:            {"Germany", "DE", "A1PA6795UKMFR9", Europe},
	Italy:              {"Italy", "IT", "APJ6JRA9NG5V4", Europe},
	Sweden:             {"Sweden", "SE", "A2NODRKZP88ZB9", Europe},
	SouthAfrica:        {"SouthAfrica", "ZA", "AE08WJ6YKNBMC", Europe},
	Poland:             {"Poland", "PL", "A1C3SOZRARQ6R3", Europe},
	Egypt:              {"Egypt", "EG", "ARBP9OOSHTCHU", Europe},
	Turkey:             {"Turkey", "TR", "A33AVAJ2PDY3EV", Europe},
	SaudiArabia:        {"SaudiArabia", "SA", "A17E79C6D8DWNP", Europe},
	UnitedArabEmirates: {"UnitedArabEmirates", "AE", "A2VIGQ35RCS4UG", Europe},
	India:              {"India", "IN", "A21TJRUUN4KGV", Europe},
	Singapore:          {"Singapore", "SG", "A19VAU5U5O7RUS", FarEast},
	Australia:          {"Australia", "AU", "A39IBJ37TRP1C6", FarEast},
	Japan:              {"Japan", "JP", "A1VC38T7YXB528", FarEast},
}

// Both must have non-negative length: the table has exactly one row per constant.
var (
	_ [len(table) - int(marketplaceCount)]struct{}
	_ [int(marketplaceCount) - len(table)]struct{}
)

// aliases accepted by Parse in addition to names and country codes.
var aliases = map[string]Marketplace{
	"uk":  UnitedKingdom,
	"uae": UnitedArabEmirates,
	"usa": UnitedStates,
}

// All returns every supported marketplace in declaration order.
func All() []Marketplace {
	out := make([]Marketplace, 0, marketplaceCount-1)
	for m := Canada; m < marketplaceCount; m++ {
		out = append(out, m)
	}
	return out
}

// Valid reports whether m is one of the supported marketplaces.
func (m Marketplace) Valid() bool {
	return m > Unknown && m < marketplaceCount
}

// Details returns the marketplace id and production base URL for m.
// Undefined values yield empty strings.
func Details(m Marketplace) (id, baseURL string) {
	if !m.Valid() {
		return "", ""
	}
	e := table[m]
	return e.id, e.region.Endpoint()
}

// ID returns the opaque marketplace identifier, e.g. "ATVPDKIKX0DER".
func (m Marketplace) ID() string {
	id, _ := Details(m)
	return id
}

// Region returns the region serving m.
func (m Marketplace) Region() Region {
	if !m.Valid() {
		return 0
	}
	return table[m].region
}

// CountryCode returns the ISO 3166-1 alpha-2 code for m.
func (m Marketplace) CountryCode() string {
	if !m.Valid() {
		return ""
	}
	return table[m].country
}

func (m Marketplace) String() string {
	if !m.Valid() {
		return "Unknown"
	}
	return table[m].name
}

// Parse resolves a marketplace from its name ("UnitedStates",
// "united_states"), country code ("US"), or marketplace id.
func Parse(s string) (Marketplace, error) {
	key := normalize(s)
	if key == "" {
		return Unknown, fmt.Errorf("empty marketplace")
	}
	if m, ok := aliases[key]; ok {
		return m, nil
	}
	for m := Canada; m < marketplaceCount; m++ {
		e := table[m]
		if key == normalize(e.name) ||
			key == strings.ToLower(e.country) ||
			key == strings.ToLower(e.id) {
			return m, nil
		}
	}
	return Unknown, fmt.Errorf("unknown marketplace %q", s)
}

// ByID returns the marketplace with the given id.
func ByID(id string) (Marketplace, bool) {
	for m := Canada; m < marketplaceCount; m++ {
		if table[m].id == id {
			return m, true
		}
	}
	return Unknown, false
}

// MarshalText implements encoding.TextMarshaler.
func (m Marketplace) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid marketplace %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (m *Marketplace) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}
