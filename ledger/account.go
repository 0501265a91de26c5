package ledger

import (
	"bytes"

	"github.com/gagliardetto/solana-go"
)

var (
	NativeLoaderID = solana.MustPublicKeyFromBase58("NativeLoader1111111111111111111111111111111")
	SysvarOwnerID  = solana.MustPublicKeyFromBase58("Sysvar1111111111111111111111111111111111111")
)

const (
	accountStorageOverhead = 128
	lamportsPerByteYear    = 3480
	exemptionThreshold     = 2
)

// MinimumBalance is the rent-exempt balance of an account holding space bytes.
func MinimumBalance(space uint64) uint64 {
	return (accountStorageOverhead + space) * lamportsPerByteYear * exemptionThreshold
}

// Account is one persisted slot.
type Account struct {
	Owner      solana.PublicKey `json:"owner"`
	Lamports   uint64           `json:"lamports"`
	Data       []byte           `json:"data"`
	Executable bool             `json:"executable"`
}

// emptyAccount is what an address that was never written holds.
func emptyAccount() Account {
	return Account{Owner: solana.SystemProgramID}
}

func (a Account) clone() Account {
	c := a
	if a.Data != nil {
		c.Data = append([]byte(nil), a.Data...)
	}
	return c
}

func (a Account) equal(b Account) bool {
	return a.Owner.Equals(b.Owner) && a.Lamports == b.Lamports &&
		a.Executable == b.Executable && bytes.Equal(a.Data, b.Data)
}

// IsEmpty reports whether the slot holds no data.
func (a Account) IsEmpty() bool {
	return len(a.Data) == 0
}

// AccountInfo is an account as handed to a running program. Programs and the
// host collaborators mutate it in place; the ledger commits it afterwards.
type AccountInfo struct {
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool
	Account
}

func (a *AccountInfo) DataLen() int {
	return len(a.Data)
}
