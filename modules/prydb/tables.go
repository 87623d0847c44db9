package prydb

var (
	chainsTable = "chains/"
	blocksTable = "chains/%s/blocks/"
	latestTable = "chains/latest/"
	latestKey   = "0"
)
