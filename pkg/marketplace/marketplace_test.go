package marketplace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/spapi/pkg/marketplace"
)

func TestDetails_TotalOverAllMarketplaces(t *testing.T) {
	t.Parallel()

	hosts := map[string]bool{
		marketplace.EndpointNA: true,
		marketplace.EndpointEU: true,
		marketplace.EndpointFE: true,
	}

	all := marketplace.All()
	require.Len(t, all, 23)

	seenIDs := make(map[string]marketplace.Marketplace, len(all))
	for _, m := range all {
		id, base := marketplace.Details(m)
		assert.NotEmpty(t, id, "marketplace %s has no id", m)
		assert.True(t, hosts[base], "marketplace %s has unexpected host %q", m, base)

		id2, base2 := marketplace.Details(m)
		assert.Equal(t, id, id2)
		assert.Equal(t, base, base2)

		prev, dup := seenIDs[id]
		assert.False(t, dup, "id %s shared by %s and %s", id, prev, m)
		seenIDs[id] = m

		assert.NotEmpty(t, m.CountryCode())
		assert.NotEqual(t, "Unknown", m.String())
	}
}

func TestDetails_KnownRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		m      marketplace.Marketplace
		id     string
		base   string
		region marketplace.Region
	}{
		{marketplace.UnitedStates, "ATVPDKIKX0DER", marketplace.EndpointNA, marketplace.NorthAmerica},
		{marketplace.Canada, "A2EUQ1WTGCTBG2", marketplace.EndpointNA, marketplace.NorthAmerica},
		{marketplace.Brazil, "A2Q3Y263D00KWC", marketplace.EndpointNA, marketplace.NorthAmerica},
		{marketplace.UnitedKingdom, "A1F83G8C2ARO7P", marketplace.EndpointEU, marketplace.Europe},
		{marketplace.Germany, "A1PA6795UKMFR9", marketplace.EndpointEU, marketplace.Europe},
		{marketplace.India, "A21TJRUUN4KGV", marketplace.EndpointEU, marketplace.Europe},
		{marketplace.SaudiArabia, "A17E79C6D8DWNP", marketplace.EndpointEU, marketplace.Europe},
		{marketplace.Singapore, "A19VAU5U5O7RUS", marketplace.EndpointFE, marketplace.FarEast},
		{marketplace.Japan, "A1VC38T7YXB528", marketplace.EndpointFE, marketplace.FarEast},
	}

	for _, tt := range tests {
		t.Run(tt.m.String(), func(t *testing.T) {
			t.Parallel()

			id, base := marketplace.Details(tt.m)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.region, tt.m.Region())
			assert.Equal(t, tt.id, tt.m.ID())
		})
	}
}

func TestDetails_UndefinedValues(t *testing.T) {
	t.Parallel()

	for _, m := range []marketplace.Marketplace{marketplace.Unknown, -1, 999} {
		id, base := marketplace.Details(m)
		assert.Empty(t, id)
		assert.Empty(t, base)
		assert.False(t, m.Valid())
		assert.Equal(t, "Unknown", m.String())
	}
}

func TestRegion_Endpoints(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://sandbox.sellingpartnerapi-na.amazon.com", marketplace.NorthAmerica.SandboxEndpoint())
	assert.Equal(t, "https://sandbox.sellingpartnerapi-eu.amazon.com", marketplace.Europe.SandboxEndpoint())
	assert.Equal(t, "https://sandbox.sellingpartnerapi-fe.amazon.com", marketplace.FarEast.SandboxEndpoint())
	assert.Equal(t, "EU", marketplace.Europe.String())
	assert.Empty(t, marketplace.Region(0).Endpoint())
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    marketplace.Marketplace
		wantErr bool
	}{
		{name: "exact name", input: "UnitedStates", want: marketplace.UnitedStates},
		{name: "snake case", input: "united_states", want: marketplace.UnitedStates},
		{name: "country code", input: "de", want: marketplace.Germany},
		{name: "alias", input: "UK", want: marketplace.UnitedKingdom},
		{name: "marketplace id", input: "A1VC38T7YXB528", want: marketplace.Japan},
		{name: "spaced name", input: "  South Africa ", want: marketplace.SouthAfrica},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown", input: "Atlantis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := marketplace.Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestByID(t *testing.T) {
	t.Parallel()

	m, ok := marketplace.ByID("ATVPDKIKX0DER")
	require.True(t, ok)
	assert.Equal(t, marketplace.UnitedStates, m)

	_, ok = marketplace.ByID("nope")
	assert.False(t, ok)
}

func TestMarketplace_YAMLRoundTrip(t *testing.T) {
	t.Parallel()

	var doc struct {
		Marketplace marketplace.Marketplace `yaml:"marketplace"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("marketplace: JP\n"), &doc))
	assert.Equal(t, marketplace.Japan, doc.Marketplace)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "marketplace: Japan\n", string(out))

	err = yaml.Unmarshal([]byte("marketplace: Narnia\n"), &doc)
	require.Error(t, err)
}
