package surface

// Site palette shared by the generators.
var (
	Mint = MustHex("#00ffaa")
	Teal = MustHex("#4ecdc4")
	Void = MustHex("#0a0a14")
)
