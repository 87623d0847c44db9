package consensus

import "fmt"

const MinerLabel = "Miner (PoW)"

// AuthorityLabel names the k-th member of the authority pool.
func AuthorityLabel(k int) string {
	return fmt.Sprintf("Validator-%d (Authorized)", k)
}
