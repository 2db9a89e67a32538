package analysis

import "strings"

// IndustryUnknown is returned for tickers absent from the symbol table.
// Unknown industry is absence of evidence: committee and timing relevance
// both score 0 for it.
const IndustryUnknown = "unknown"

// IndustryMap resolves tickers to industries and industries to topic
// keywords. Built once at startup and read concurrently by scorers, so the
// constructor deep-copies its inputs and nothing mutates them afterwards.
type IndustryMap struct {
	tickers  map[string]string
	keywords map[string][]string
}

// NewIndustryMap builds an immutable map from the given tables. Nil tables
// fall back to the built-in defaults.
func NewIndustryMap(tickers map[string]string, keywords map[string][]string) *IndustryMap {
	if tickers == nil {
		tickers = defaultTickerIndustries
	}
	if keywords == nil {
		keywords = defaultIndustryKeywords
	}
	m := &IndustryMap{
		tickers:  make(map[string]string, len(tickers)),
		keywords: make(map[string][]string, len(keywords)),
	}
	for t, ind := range tickers {
		m.tickers[strings.ToUpper(t)] = strings.ToLower(ind)
	}
	for ind, kws := range keywords {
		cp := make([]string, len(kws))
		for i, k := range kws {
			cp[i] = strings.ToLower(k)
		}
		m.keywords[strings.ToLower(ind)] = cp
	}
	return m
}

// DefaultIndustryMap returns the built-in lookup tables.
func DefaultIndustryMap() *IndustryMap {
	return NewIndustryMap(nil, nil)
}

// TickerIndustry resolves a ticker symbol to its industry, or
// IndustryUnknown when the symbol table has no entry.
func (m *IndustryMap) TickerIndustry(ticker string) string {
	if ind, ok := m.tickers[strings.ToUpper(strings.TrimSpace(ticker))]; ok {
		return ind
	}
	return IndustryUnknown
}

// Keywords returns the topic keywords for an industry, nil when unmapped.
func (m *IndustryMap) Keywords(industry string) []string {
	return m.keywords[strings.ToLower(industry)]
}

// TextMatchesIndustry reports whether free text (bill title, subject tags)
// touches the given industry's keyword set. Single-word keywords match whole
// tokens only, so "ai" does not fire on "maintain".
func (m *IndustryMap) TextMatchesIndustry(text, industry string) bool {
	kws := m.Keywords(industry)
	if len(kws) == 0 {
		return false
	}
	norm := normalizeText(text)
	if norm == "" {
		return false
	}
	padded := " " + norm + " "
	for _, k := range kws {
		if strings.Contains(padded, " "+k+" ") {
			return true
		}
	}
	return false
}

// ContainsToken reports whether text contains token as a whole word.
func ContainsToken(text, token string) bool {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return false
	}
	return strings.Contains(" "+normalizeText(text)+" ", " "+token+" ")
}

func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		isWord := r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
		if isWord {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Ticker symbol table. Swapped per deployment via NewIndustryMap.
var defaultTickerIndustries = map[string]string{
	// technology
	"AAPL": "technology", "MSFT": "technology", "GOOGL": "technology",
	"GOOG": "technology", "AMZN": "technology", "META": "technology",
	"NVDA": "technology", "INTC": "technology", "AMD": "technology",
	"CSCO": "technology", "ORCL": "technology", "CRM": "technology",
	"IBM": "technology", "QCOM": "technology", "TXN": "technology",
	// banking
	"JPM": "banking", "BAC": "banking", "WFC": "banking", "C": "banking",
	"GS": "banking", "MS": "banking", "USB": "banking", "AXP": "banking",
	"V": "banking", "MA": "banking",
	// energy
	"XOM": "energy", "CVX": "energy", "COP": "energy", "SLB": "energy",
	"OXY": "energy", "NEE": "energy", "DUK": "energy", "FSLR": "energy",
	// healthcare
	"JNJ": "healthcare", "PFE": "healthcare", "UNH": "healthcare",
	"MRK": "healthcare", "ABBV": "healthcare", "LLY": "healthcare",
	"TMO": "healthcare", "CVS": "healthcare", "MRNA": "healthcare",
	// defense
	"LMT": "defense", "RTX": "defense", "BA": "defense", "NOC": "defense",
	"GD": "defense", "HII": "defense", "LHX": "defense",
	// agriculture
	"ADM": "agriculture", "DE": "agriculture", "BG": "agriculture",
	"CTVA": "agriculture",
	// transportation
	"DAL": "transportation", "UAL": "transportation", "LUV": "transportation",
	"UPS": "transportation", "FDX": "transportation", "UNP": "transportation",
	"CSX": "transportation", "F": "transportation", "GM": "transportation",
}

// Industry topic keywords, matched against committee names, bill titles and
// subject tags.
var defaultIndustryKeywords = map[string][]string{
	"banking": {
		"financial", "bank", "banking", "insurance", "credit", "securities",
		"finance", "monetary",
	},
	"energy": {
		"oil", "gas", "energy", "utility", "utilities", "solar", "wind",
		"petroleum", "pipeline", "renewable",
	},
	"technology": {
		"tech", "technology", "software", "internet", "telecommunications",
		"semiconductor", "ai", "artificial intelligence", "data", "privacy",
		"cyber", "cybersecurity", "computing",
	},
	"healthcare": {
		"pharma", "pharmaceutical", "biotech", "medical", "hospital",
		"health", "healthcare", "medicare", "medicaid", "drug",
	},
	"defense": {
		"defense", "aerospace", "military", "armed services", "veterans",
		"national security",
	},
	"agriculture": {
		"agriculture", "food", "farming", "farm", "crop", "nutrition",
	},
	"transportation": {
		"airline", "automotive", "railroad", "shipping", "transportation",
		"transit", "highway", "aviation",
	},
}
