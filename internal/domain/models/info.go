package models

// Info is the descriptive-info mapping for a ticker, keyed the way the
// upstream quote API names its fields ("symbol", "shortName", "marketCap", ...).
// It is passed through to clients unmodified.
type Info map[string]any

// HasSymbol reports whether the mapping identifies a security. An info
// payload without a "symbol" key is treated as "no data" by the service.
func (i Info) HasSymbol() bool {
	if len(i) == 0 {
		return false
	}
	_, ok := i["symbol"]
	return ok
}
