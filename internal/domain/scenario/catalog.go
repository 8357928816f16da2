// Package scenario defines the economic scenario catalog and the transform
// that replays history under a stressed market regime.
package scenario

import (
	"github.com/quantlab-id/riskcast/internal/domain"
)

// Parameters describes one economic scenario. ReturnsAdjustment and the
// per-sector impact factors are annualized fractional shifts applied to
// daily returns after dividing by 252 trading days; VolatilityAdjustment is
// a multiplicative rescale of daily returns.
//
// CorrelationAdjustment and DrawdownAdjustment are carried in the catalog
// but not applied by the transform; they are forward-looking configuration.
type Parameters struct {
	Name                  string             `yaml:"-"`
	Description           string             `yaml:"description"`
	ReturnsAdjustment     float64            `yaml:"returns_adjustment"`
	VolatilityAdjustment  float64            `yaml:"volatility_adjustment"`
	CorrelationAdjustment float64            `yaml:"correlation_adjustment"`
	DrawdownAdjustment    float64            `yaml:"drawdown_adjustment"`
	ImpactFactor          map[string]float64 `yaml:"impact_factor"`
}

func (p Parameters) clone() Parameters {
	impact := make(map[string]float64, len(p.ImpactFactor))
	for k, v := range p.ImpactFactor {
		impact[k] = v
	}
	p.ImpactFactor = impact
	return p
}

// Catalog is an immutable, named set of scenarios. Lookups return deep
// copies so callers can never mutate catalog state.
type Catalog struct {
	names  []string
	byName map[string]Parameters
}

// NewCatalog builds a catalog from scenario parameters, preserving order.
func NewCatalog(scenarios []Parameters) (*Catalog, error) {
	if len(scenarios) == 0 {
		return nil, domain.NewInputError("scenario catalog is empty")
	}
	c := &Catalog{byName: make(map[string]Parameters, len(scenarios))}
	for _, s := range scenarios {
		if s.Name == "" {
			return nil, domain.NewInputError("scenario with empty name")
		}
		if _, dup := c.byName[s.Name]; dup {
			return nil, domain.NewInputError("duplicate scenario %q", s.Name)
		}
		if s.VolatilityAdjustment < 0 {
			return nil, domain.NewInputError("scenario %q: volatility_adjustment must be >= 0", s.Name)
		}
		if s.ImpactFactor == nil {
			s.ImpactFactor = map[string]float64{}
		}
		c.names = append(c.names, s.Name)
		c.byName[s.Name] = s.clone()
	}
	return c, nil
}

// Names lists scenario names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Get returns the named scenario or an InputError when unknown.
func (c *Catalog) Get(name string) (Parameters, error) {
	p, ok := c.byName[name]
	if !ok {
		return Parameters{}, domain.NewInputError("unknown scenario %q", name)
	}
	return p.clone(), nil
}

// Overrides carries optional field replacements for Custom. Impact entries
// replace existing sector factors only; unknown sectors are ignored.
type Overrides struct {
	Description           *string
	ReturnsAdjustment     *float64
	VolatilityAdjustment  *float64
	CorrelationAdjustment *float64
	DrawdownAdjustment    *float64
	ImpactFactor          map[string]float64
}

// Custom derives a new scenario from a catalog entry with the given
// overrides applied. The catalog itself is never mutated.
func (c *Catalog) Custom(base string, ov Overrides) (Parameters, error) {
	p, err := c.Get(base)
	if err != nil {
		return Parameters{}, err
	}
	if ov.Description != nil {
		p.Description = *ov.Description
	}
	if ov.ReturnsAdjustment != nil {
		p.ReturnsAdjustment = *ov.ReturnsAdjustment
	}
	if ov.VolatilityAdjustment != nil {
		if *ov.VolatilityAdjustment < 0 {
			return Parameters{}, domain.NewInputError("custom scenario: volatility_adjustment must be >= 0")
		}
		p.VolatilityAdjustment = *ov.VolatilityAdjustment
	}
	if ov.CorrelationAdjustment != nil {
		p.CorrelationAdjustment = *ov.CorrelationAdjustment
	}
	if ov.DrawdownAdjustment != nil {
		p.DrawdownAdjustment = *ov.DrawdownAdjustment
	}
	for sector, v := range ov.ImpactFactor {
		if _, ok := p.ImpactFactor[sector]; ok {
			p.ImpactFactor[sector] = v
		}
	}
	return p, nil
}

// DefaultCatalog returns the built-in scenario catalog. The numeric values
// are fixed configuration and must not drift: downstream results are only
// comparable across runs when the catalog is stable.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultScenarios())
	if err != nil {
		panic(err) // built-in catalog is validated by tests
	}
	return c
}

func defaultScenarios() []Parameters {
	return []Parameters{
		{
			Name:                  "Normal Market",
			Description:           "Base case scenario with normal market conditions",
			ReturnsAdjustment:     0.0,
			VolatilityAdjustment:  1.0,
			CorrelationAdjustment: 0.0,
			DrawdownAdjustment:    0.0,
			ImpactFactor: map[string]float64{
				"Technology": 0.0, "Financial": 0.0, "Healthcare": 0.0,
				"Energy": 0.0, "Consumer": 0.0, "Industrial": 0.0,
				"Materials": 0.0, "Utilities": 0.0, "Real Estate": 0.0,
			},
		},
		{
			Name:                  "Market Crash",
			Description:           "Severe and sudden market downturn across all sectors",
			ReturnsAdjustment:     -0.25,
			VolatilityAdjustment:  2.5,
			CorrelationAdjustment: 0.3,
			DrawdownAdjustment:    0.15,
			ImpactFactor: map[string]float64{
				"Technology": -0.3, "Financial": -0.35, "Healthcare": -0.2,
				"Energy": -0.25, "Consumer": -0.25, "Industrial": -0.3,
				"Materials": -0.25, "Utilities": -0.15, "Real Estate": -0.3,
			},
		},
		{
			Name:                  "Recession",
			Description:           "Economic contraction with prolonged negative growth",
			ReturnsAdjustment:     -0.15,
			VolatilityAdjustment:  1.8,
			CorrelationAdjustment: 0.2,
			DrawdownAdjustment:    0.1,
			ImpactFactor: map[string]float64{
				"Technology": -0.2, "Financial": -0.25, "Healthcare": -0.1,
				"Energy": -0.2, "Consumer": -0.2, "Industrial": -0.25,
				"Materials": -0.2, "Utilities": -0.1, "Real Estate": -0.25,
			},
		},
		{
			Name:                  "Inflation Surge",
			Description:           "Rapid increase in inflation rates affecting purchasing power",
			ReturnsAdjustment:     -0.05,
			VolatilityAdjustment:  1.4,
			CorrelationAdjustment: 0.1,
			DrawdownAdjustment:    0.05,
			ImpactFactor: map[string]float64{
				"Technology": -0.15, "Financial": 0.05, "Healthcare": -0.1,
				"Energy": 0.1, "Consumer": -0.2, "Industrial": -0.1,
				"Materials": 0.05, "Utilities": -0.05, "Real Estate": -0.2,
			},
		},
		{
			Name:                  "Tech Bubble Burst",
			Description:           "Sharp correction in technology sector valuations",
			ReturnsAdjustment:     -0.1,
			VolatilityAdjustment:  1.6,
			CorrelationAdjustment: 0.1,
			DrawdownAdjustment:    0.08,
			ImpactFactor: map[string]float64{
				"Technology": -0.4, "Financial": -0.15, "Healthcare": -0.05,
				"Energy": 0.0, "Consumer": -0.1, "Industrial": -0.1,
				"Materials": -0.05, "Utilities": 0.05, "Real Estate": -0.1,
			},
		},
		{
			Name:                  "Pandemic",
			Description:           "Global health crisis affecting economic activity",
			ReturnsAdjustment:     -0.2,
			VolatilityAdjustment:  2.2,
			CorrelationAdjustment: 0.25,
			DrawdownAdjustment:    0.12,
			ImpactFactor: map[string]float64{
				"Technology": 0.1, "Financial": -0.25, "Healthcare": 0.15,
				"Energy": -0.3, "Consumer": -0.2, "Industrial": -0.25,
				"Materials": -0.2, "Utilities": -0.1, "Real Estate": -0.25,
			},
		},
	}
}
