package ledger

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

// The helpers below write slots directly, outside of any program. They seed
// local hosts and tests with funded wallets, mints and token balances.

// SetAccount overwrites the slot at key.
func (l *Ledger) SetAccount(key solana.PublicKey, acc Account) error {
	l.locker.Lock()
	defer l.locker.Unlock()
	return l.commit(map[solana.PublicKey]Account{key: acc})
}

// Airdrop credits lamports to a system account.
func (l *Ledger) Airdrop(key solana.PublicKey, lamports uint64) error {
	l.locker.Lock()
	defer l.locker.Unlock()
	acc, err := l.GetAccount(key)
	if err != nil {
		return err
	}
	acc.Lamports += lamports
	return l.commit(map[solana.PublicKey]Account{key: acc})
}

// CreateMint initializes mint with the given decimals and authority.
func (l *Ledger) CreateMint(mint solana.PublicKey, decimals uint8, authority solana.PublicKey) error {
	l.locker.Lock()
	defer l.locker.Unlock()
	acc, err := l.GetAccount(mint)
	if err != nil {
		return err
	}
	if !acc.IsEmpty() {
		return ErrAccountInUse
	}
	data, err := EncodeMint(token.Mint{
		MintAuthority: &authority,
		Decimals:      decimals,
		IsInitialized: true,
	})
	if err != nil {
		return err
	}
	return l.commit(map[solana.PublicKey]Account{mint: {
		Owner:    solana.TokenProgramID,
		Lamports: MinimumBalance(MintSize),
		Data:     data,
	}})
}

// MintTo credits amount of mint to the associated token account of wallet,
// creating it if needed, and returns that account.
func (l *Ledger) MintTo(mint, wallet solana.PublicKey, amount uint64) (solana.PublicKey, error) {
	l.locker.Lock()
	defer l.locker.Unlock()
	ata, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	if err != nil {
		return ata, err
	}
	mintAcc, err := l.GetAccount(mint)
	if err != nil {
		return ata, err
	}
	m, err := DecodeMint(mintAcc.Data)
	if err != nil || !mintAcc.Owner.Equals(solana.TokenProgramID) {
		return ata, ErrInvalidTokenAccount
	}
	ataAcc, err := l.GetAccount(ata)
	if err != nil {
		return ata, err
	}
	holder := token.Account{Mint: mint, Owner: wallet, State: token.Initialized}
	if !ataAcc.IsEmpty() {
		if holder, err = DecodeTokenAccount(ataAcc.Data); err != nil {
			return ata, err
		}
	} else {
		ataAcc = Account{Owner: solana.TokenProgramID, Lamports: MinimumBalance(TokenAccountSize)}
	}
	holder.Amount += amount
	m.Supply += amount
	if ataAcc.Data, err = EncodeTokenAccount(holder); err != nil {
		return ata, err
	}
	if mintAcc.Data, err = EncodeMint(m); err != nil {
		return ata, err
	}
	return ata, l.commit(map[solana.PublicKey]Account{ata: ataAcc, mint: mintAcc})
}

// TokenBalance reads the amount held by a token account.
func (l *Ledger) TokenBalance(key solana.PublicKey) (uint64, error) {
	acc, err := l.GetAccount(key)
	if err != nil {
		return 0, err
	}
	holder, err := DecodeTokenAccount(acc.Data)
	if err != nil {
		return 0, err
	}
	return holder.Amount, nil
}

// MintDecimals reads the decimals of a mint.
func (l *Ledger) MintDecimals(mint solana.PublicKey) (uint8, error) {
	acc, err := l.GetAccount(mint)
	if err != nil {
		return 0, err
	}
	m, err := DecodeMint(acc.Data)
	if err != nil {
		return 0, err
	}
	return m.Decimals, nil
}
