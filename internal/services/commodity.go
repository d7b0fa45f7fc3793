package services

import (
	"strings"

	"spotprice/backend-go/internal/config"
)

type Commodity struct {
	Slug        string
	Name        string
	Unit        string
	UpstreamURL string
	aliases     []string
}

// CommodityTable resolves URL slugs to commodities. It is built once at
// startup and only read afterwards.
type CommodityTable struct {
	ordered []Commodity
	bySlug  map[string]Commodity
}

func NewCommodityTable(cfg config.Config) *CommodityTable {
	return newCommodityTable([]Commodity{
		{Slug: "brent", Name: "Brent", Unit: "USD per barrel", UpstreamURL: cfg.BrentURL},
		{Slug: "wti", Name: "WTI", Unit: "USD per barrel", UpstreamURL: cfg.WTIURL},
		{
			Slug:        "natural-gas",
			Name:        "Natural Gas",
			Unit:        "USD per MMBtu",
			UpstreamURL: cfg.NaturalGasURL,
			aliases:     []string{"naturalgas", "natural_gas", "natgas"},
		},
	})
}

func newCommodityTable(items []Commodity) *CommodityTable {
	t := &CommodityTable{ordered: items, bySlug: make(map[string]Commodity)}
	for _, c := range items {
		t.bySlug[c.Slug] = c
		for _, a := range c.aliases {
			t.bySlug[a] = c
		}
	}
	return t
}

func (t *CommodityTable) Lookup(slug string) (Commodity, bool) {
	c, ok := t.bySlug[strings.ToLower(strings.TrimSpace(slug))]
	return c, ok
}

func (t *CommodityTable) All() []Commodity {
	out := make([]Commodity, len(t.ordered))
	copy(out, t.ordered)
	return out
}
