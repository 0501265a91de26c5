package schema

import (
	"github.com/gagliardetto/solana-go"
)

// RegistryMeta is the singleton record stored at the "meta" derived address.
type RegistryMeta struct {
	HeadRegistryNode   solana.PublicKey // most recently inserted node, or the head sentinel when empty
	FeeAmount          uint64
	FeeMint            solana.PublicKey
	FeeDestination     solana.PublicKey // owner of the Associated Token Account receiving fees
	FeeUpdateAuthority solana.PublicKey
	Initialized        bool
}

// RegistryNode is one entry of the doubly linked list. The head and tail
// sentinels are RegistryNodes with a zero TokenMint.
type RegistryNode struct {
	NextRegistryNode     solana.PublicKey
	PrevRegistryNode     solana.PublicKey
	TokenMint            solana.PublicKey
	TokenSymbol          string
	TokenName            string
	TokenLogoUrl         string
	TokenTags            []string
	TokenExtensions      []Extension
	TokenUpdateAuthority solana.PublicKey
	Deleted              bool
}

type Extension struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// EntryArgs are the descriptive fields carried by CreateEntry and UpdateEntry.
type EntryArgs struct {
	Symbol     string
	Name       string
	LogoUrl    string
	Tags       []string
	Extensions []Extension
}

// Apply overwrites the descriptive fields of n with args.
func (n *RegistryNode) Apply(args EntryArgs) {
	n.TokenSymbol = args.Symbol
	n.TokenName = args.Name
	n.TokenLogoUrl = args.LogoUrl
	n.TokenTags = args.Tags
	n.TokenExtensions = args.Extensions
}

func (n RegistryNode) Args() EntryArgs {
	return EntryArgs{
		Symbol:     n.TokenSymbol,
		Name:       n.TokenName,
		LogoUrl:    n.TokenLogoUrl,
		Tags:       n.TokenTags,
		Extensions: n.TokenExtensions,
	}
}

const (
	MetaSeed = "meta"
	HeadSeed = "head"
	TailSeed = "tail"

	MaxSymbolLen     = 16
	MaxNameLen       = 32
	MaxLogoUrlLen    = 256
	MaxTagLen        = 256
	MaxTags          = 2
	MaxExtensionLen  = 256
	MaxExtensions    = 2
	SlotLengthPrefix = 4
)
