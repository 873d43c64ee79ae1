package basket

// Item is a canonical item token: trimmed of surrounding whitespace and
// lower-cased. Two raw tokens that differ only by case or padding are the
// same Item.
type Item = string

// Transaction is a set of distinct items. Items are kept in ascending order
// so that equal sets always have equal slices.
type Transaction []Item

// Contains reports whether the transaction holds item.
func (t Transaction) Contains(item Item) bool {
	for _, it := range t {
		if it == item {
			return true
		}
	}
	return false
}

// Normalized is the result of cleaning a raw transaction collection.
type Normalized struct {
	// Transactions preserves the order and count of the raw input.
	Transactions []Transaction
	// Items is every distinct item observed, in ascending order.
	Items []Item
}
