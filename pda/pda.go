// Package pda derives the storage addresses of registry records from a seed
// and the program id. A derived address is off the ed25519 curve, so only the
// program, using the bump seed, can sign for it.
package pda

import (
	"github.com/gagliardetto/solana-go"

	"github.com/everFinance/tokenregistry/schema"
)

const maxSeedLen = 32

// Seed truncates seed to the maximum length accepted by the derivation.
func Seed(seed []byte) []byte {
	if len(seed) > maxSeedLen {
		return seed[:maxSeedLen]
	}
	return seed
}

// Derive returns the address for seed and the bump seed that moves it off the curve.
func Derive(programID solana.PublicKey, seed []byte) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{Seed(seed)}, programID)
}

// Verify reports whether address is the derived address of seed.
func Verify(programID, address solana.PublicKey, seed []byte) bool {
	_, err := Match(programID, address, seed)
	return err == nil
}

// Match recomputes the derivation and returns the bump seed when address matches.
func Match(programID, address solana.PublicKey, seed []byte) (uint8, error) {
	derived, bump, err := Derive(programID, seed)
	if err != nil || !derived.Equals(address) {
		return 0, schema.ErrInvalidProgramDerivedAccount
	}
	return bump, nil
}

// SignerSeeds is the seed list used to sign for a derived address.
func SignerSeeds(seed []byte, bump uint8) [][]byte {
	return [][]byte{Seed(seed), {bump}}
}

func NodeSeed(mint solana.PublicKey) []byte {
	return mint.Bytes()
}

type Addresses struct {
	Meta solana.PublicKey
	Head solana.PublicKey
	Tail solana.PublicKey
}

// RegistryAddresses derives the meta record and the two sentinels.
func RegistryAddresses(programID solana.PublicKey) (Addresses, error) {
	var (
		addrs Addresses
		err   error
	)
	if addrs.Meta, _, err = Derive(programID, []byte(schema.MetaSeed)); err != nil {
		return addrs, err
	}
	if addrs.Head, _, err = Derive(programID, []byte(schema.HeadSeed)); err != nil {
		return addrs, err
	}
	addrs.Tail, _, err = Derive(programID, []byte(schema.TailSeed))
	return addrs, err
}

// NodeAddress derives the node slot of mint.
func NodeAddress(programID, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := Derive(programID, NodeSeed(mint))
	return addr, err
}
