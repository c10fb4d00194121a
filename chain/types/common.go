package types

// Chain identifies the network the contracts are deployed on.
type Chain int64

const (
	ChainBase Chain = 8453
)

// TxState is the lifecycle state of a submitted transaction.
//
// Valid progressions:
//
//	unsubmitted -> submitted -> confirmed
//	unsubmitted -> submitted -> failed
//
// Terminal states are final; a handle never regresses.
type TxState string

const (
	TxStateUnsubmitted TxState = "unsubmitted"
	TxStateSubmitted   TxState = "submitted"
	TxStateConfirmed   TxState = "confirmed"
	TxStateFailed      TxState = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s TxState) Terminal() bool {
	return s == TxStateConfirmed || s == TxStateFailed
}

// Category is the market category enum used by MarketFactory.createMarket.
type Category uint8

const (
	CategoryCrypto Category = iota
	CategorySports
	CategoryPolitics
	CategoryWeather
	CategoryTechnology
	CategoryOther
)

var categoryLabels = map[Category]string{
	CategoryCrypto:     "Crypto",
	CategorySports:     "Sports",
	CategoryPolitics:   "Politics",
	CategoryWeather:    "Weather",
	CategoryTechnology: "Technology",
	CategoryOther:      "Other",
}

// Label returns the display name for the category.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return "Unknown"
}

// Advisory UI policy values. The interaction layer does not enforce
// them; the contracts are the source of truth for business minimums.
const (
	MinAgentStake = "0.0001"  // ETH
	MinBetAmount  = "0.00001" // ETH
	MinOutcomes   = 2
	MaxOutcomes   = 10
)
