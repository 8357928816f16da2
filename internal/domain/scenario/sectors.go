package scenario

// UnknownSector is the classification for symbols absent from the map.
const UnknownSector = "Unknown"

// SectorMap classifies instrument identifiers into the sector labels the
// scenario impact factors are keyed by.
type SectorMap map[string]string

// Sector returns the classification for symbol, defaulting to Unknown.
func (m SectorMap) Sector(symbol string) string {
	if sector, ok := m[symbol]; ok {
		return sector
	}
	return UnknownSector
}

// DefaultSectors returns the built-in symbol classification covering major
// US listings and the IDX (Jakarta) names the sample portfolios use.
func DefaultSectors() SectorMap {
	return SectorMap{
		// Technology
		"AAPL": "Technology", "MSFT": "Technology", "GOOGL": "Technology", "GOOG": "Technology",
		"META": "Technology", "AMZN": "Technology", "NVDA": "Technology", "ADBE": "Technology",
		"CRM": "Technology", "INTC": "Technology", "CSCO": "Technology", "AMD": "Technology",

		// Financial
		"JPM": "Financial", "BAC": "Financial", "WFC": "Financial", "C": "Financial",
		"GS": "Financial", "MS": "Financial", "BLK": "Financial", "AXP": "Financial",
		"V": "Financial", "MA": "Financial", "BRK-A": "Financial", "BRK-B": "Financial",

		// Healthcare
		"JNJ": "Healthcare", "PFE": "Healthcare", "MRK": "Healthcare", "ABT": "Healthcare",
		"UNH": "Healthcare", "ABBV": "Healthcare", "TMO": "Healthcare", "LLY": "Healthcare",

		// Energy
		"XOM": "Energy", "CVX": "Energy", "COP": "Energy", "EOG": "Energy",
		"SLB": "Energy", "BP": "Energy", "RDS-A": "Energy", "TOT": "Energy",

		// Consumer
		"PG": "Consumer", "KO": "Consumer", "PEP": "Consumer", "WMT": "Consumer",
		"COST": "Consumer", "MCD": "Consumer", "NKE": "Consumer", "SBUX": "Consumer",

		// Industrial
		"GE": "Industrial", "HON": "Industrial", "MMM": "Industrial", "BA": "Industrial",
		"CAT": "Industrial", "DE": "Industrial", "UPS": "Industrial", "FDX": "Industrial",

		// IDX banking
		"BBRI.JK": "Financial", "BBCA.JK": "Financial", "BMRI.JK": "Financial", "BBNI.JK": "Financial",
		"BRIS.JK": "Financial", "BJTM.JK": "Financial", "BTPS.JK": "Financial",

		// IDX consumer goods
		"UNVR.JK": "Consumer", "ICBP.JK": "Consumer", "INDF.JK": "Consumer", "KLBF.JK": "Consumer",
		"SIDO.JK": "Consumer", "MYOR.JK": "Consumer", "GGRM.JK": "Consumer", "HMSP.JK": "Consumer",

		// IDX telecommunications
		"TLKM.JK": "Technology", "ISAT.JK": "Technology", "EXCL.JK": "Technology",

		// IDX energy and mining
		"ADRO.JK": "Energy", "PTBA.JK": "Energy", "ITMG.JK": "Energy", "MEDC.JK": "Energy",
		"INCO.JK": "Materials", "ANTM.JK": "Materials", "TINS.JK": "Materials",

		// IDX property and infrastructure
		"SMGR.JK": "Industrial", "WIKA.JK": "Industrial", "WSKT.JK": "Industrial", "PTPP.JK": "Industrial",
		"BSDE.JK": "Real Estate", "CTRA.JK": "Real Estate", "PWON.JK": "Real Estate",
	}
}
