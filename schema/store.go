package schema

var (
	// bucket
	AccountBucket   = "account-bucket"   // key: base58 pubkey, val: json(ledger account)
	ConstantsBucket = "constants-bucket" // key: name, val: raw value

	// constants
	TxCountKey   = "tx-count"   // val: u64 big-endian
	ProgramIdKey = "program-id" // val: base58 program id of the hosted registry
)
