package risk

import (
	"github.com/quantlab-id/riskcast/internal/domain"
	"github.com/quantlab-id/riskcast/internal/domain/simulation"
)

// ConfidenceSet carries one metric at the three standard confidence levels.
type ConfidenceSet struct {
	C90 float64 `json:"90"`
	C95 float64 `json:"95"`
	C99 float64 `json:"99"`
}

// Profile is the comprehensive risk picture of one ensemble. Computed fresh
// per analysis run, never cached across runs.
type Profile struct {
	VaR               ConfidenceSet   `json:"var"`
	ExpectedShortfall ConfidenceSet   `json:"expected_shortfall"`
	Drawdown          DrawdownMetrics `json:"drawdown"`
	RiskAdjusted      RiskAdjusted    `json:"risk_adjusted"`
}

// Report is the minimal risk record exposed to callers: loss fractions at
// the two standard confidence levels.
type Report struct {
	VaR95 float64 `json:"var_95"`
	VaR99 float64 `json:"var_99"`
	ES95  float64 `json:"es_95"`
	ES99  float64 `json:"es_99"`
}

// Report extracts the minimal record from a full profile.
func (p Profile) Report() Report {
	return Report{
		VaR95: p.VaR.C95,
		VaR99: p.VaR.C99,
		ES95:  p.ExpectedShortfall.C95,
		ES99:  p.ExpectedShortfall.C99,
	}
}

// ProfileFromEnsemble computes the full risk profile of an ensemble:
// historical VaR and ES at 90/95/99%, drawdown metrics at 95%, and the
// annualized risk-adjusted ratios.
func ProfileFromEnsemble(e *simulation.Ensemble) (Profile, error) {
	if e == nil {
		return Profile{}, domain.NewInputError("risk profile: nil ensemble")
	}

	var p Profile
	levels := []struct {
		c      float64
		varDst *float64
		esDst  *float64
	}{
		{0.90, &p.VaR.C90, &p.ExpectedShortfall.C90},
		{0.95, &p.VaR.C95, &p.ExpectedShortfall.C95},
		{0.99, &p.VaR.C99, &p.ExpectedShortfall.C99},
	}
	for _, l := range levels {
		v, err := ValueAtRisk(e.FinalReturns, l.c, Historical)
		if err != nil {
			return Profile{}, err
		}
		*l.varDst = v
		es, err := ExpectedShortfall(e.FinalReturns, l.c)
		if err != nil {
			return Profile{}, err
		}
		*l.esDst = es
	}

	dd, err := Drawdowns(e.MaxDrawdowns, 0.95)
	if err != nil {
		return Profile{}, err
	}
	p.Drawdown = dd

	ra, err := RiskAdjustedMetrics(e.FinalReturns, e.MaxDrawdowns, e.TimeHorizon)
	if err != nil {
		return Profile{}, err
	}
	p.RiskAdjusted = ra

	return p, nil
}
