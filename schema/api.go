package schema

type TxAccount struct {
	Pubkey     string `json:"pubkey"` // base58
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

// ReqTx submits either a signed transaction (base64 wire format) or, on
// faucet hosts only, one unsigned registry instruction with hex encoded Data.
type ReqTx struct {
	Transaction string      `json:"transaction,omitempty"`
	Data        string      `json:"data,omitempty"`
	Accounts    []TxAccount `json:"accounts,omitempty"`
}

type RespTx struct {
	TxId string `json:"txId"`
}

type RespInfo struct {
	ProgramId string `json:"programId"`
	Meta      string `json:"meta"`
	Head      string `json:"head"`
	Tail      string `json:"tail"`
	TxCount   uint64 `json:"txCount"`
}

type RespMeta struct {
	HeadRegistryNode   string `json:"headRegistryNode"`
	FeeAmount          uint64 `json:"feeAmount"`
	FeeAmountUi        string `json:"feeAmountUi"` // FeeAmount scaled by the fee mint decimals
	FeeDecimals        uint8  `json:"feeDecimals"`
	FeeMint            string `json:"feeMint"`
	FeeDestination     string `json:"feeDestination"`
	FeeUpdateAuthority string `json:"feeUpdateAuthority"`
	Initialized        bool   `json:"initialized"`
}

type RespEntry struct {
	Address              string      `json:"address"`
	Next                 string      `json:"next"`
	Prev                 string      `json:"prev"`
	TokenMint            string      `json:"tokenMint"`
	TokenSymbol          string      `json:"tokenSymbol"`
	TokenName            string      `json:"tokenName"`
	TokenLogoUrl         string      `json:"tokenLogoUrl"`
	TokenTags            []string    `json:"tokenTags"`
	TokenExtensions      []Extension `json:"tokenExtensions"`
	TokenUpdateAuthority string      `json:"tokenUpdateAuthority"`
	Deleted              bool        `json:"deleted"`
}

type RespAccount struct {
	Pubkey     string `json:"pubkey"`
	Owner      string `json:"owner"`
	Lamports   uint64 `json:"lamports"`
	Data       []byte `json:"data"` // base64 in json
	Executable bool   `json:"executable"`
}

type RespErr struct {
	Err  string  `json:"error"`
	Code *uint32 `json:"code,omitempty"` // set for registry errors
}
