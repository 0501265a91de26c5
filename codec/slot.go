package codec

import (
	"encoding/binary"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/everFinance/tokenregistry/schema"
)

// MaxFilledNode is the worst-case node used to size a node slot when it is
// allocated. It is a capacity ceiling, not a per-field limit.
func MaxFilledNode() schema.RegistryNode {
	maxExt := schema.Extension{
		Key:   strings.Repeat("x", schema.MaxExtensionLen),
		Value: strings.Repeat("x", schema.MaxExtensionLen),
	}
	node := schema.RegistryNode{
		TokenSymbol:  strings.Repeat("x", schema.MaxSymbolLen),
		TokenName:    strings.Repeat("x", schema.MaxNameLen),
		TokenLogoUrl: strings.Repeat("x", schema.MaxLogoUrlLen),
	}
	for i := 0; i < schema.MaxTags; i++ {
		node.TokenTags = append(node.TokenTags, strings.Repeat("x", schema.MaxTagLen))
	}
	for i := 0; i < schema.MaxExtensions; i++ {
		node.TokenExtensions = append(node.TokenExtensions, maxExt)
	}
	return node
}

var nodeSlotSpace = func() int {
	payload, err := EncodeNode(MaxFilledNode())
	if err != nil {
		panic(err)
	}
	return schema.SlotLengthPrefix + len(payload)
}()

// NodeSlotSpace is the storage capacity reserved for every node slot.
func NodeSlotSpace() int {
	return nodeSlotSpace
}

// WriteNodeSlot writes [u32 BE payload length][payload] at the start of slot.
// Bytes past the payload are left as they are.
func WriteNodeSlot(slot []byte, node schema.RegistryNode) error {
	payload, err := EncodeNode(node)
	if err != nil {
		return err
	}
	if schema.SlotLengthPrefix+len(payload) > len(slot) {
		return schema.ErrCodecTooLarge
	}
	binary.BigEndian.PutUint32(slot[:schema.SlotLengthPrefix], uint32(len(payload)))
	copy(slot[schema.SlotLengthPrefix:], payload)
	return nil
}

// ReadNodeSlot decodes the meaningful prefix of a node slot.
func ReadNodeSlot(slot []byte) (schema.RegistryNode, error) {
	if len(slot) < schema.SlotLengthPrefix {
		return schema.RegistryNode{}, schema.ErrCodecTruncated
	}
	n := binary.BigEndian.Uint32(slot[:schema.SlotLengthPrefix])
	if uint64(n) > uint64(len(slot)-schema.SlotLengthPrefix) {
		return schema.RegistryNode{}, schema.ErrCodecTruncated
	}
	return DecodeNode(slot[schema.SlotLengthPrefix : schema.SlotLengthPrefix+int(n)])
}

// FitsNodeSlot reports whether node would fit in a freshly reserved slot.
func FitsNodeSlot(node schema.RegistryNode) error {
	payload, err := EncodeNode(node)
	if err != nil {
		return err
	}
	if schema.SlotLengthPrefix+len(payload) > nodeSlotSpace {
		return schema.ErrCodecTooLarge
	}
	return nil
}

// SentinelNode returns an empty node linked to next and prev.
func SentinelNode(next, prev solana.PublicKey) schema.RegistryNode {
	return schema.RegistryNode{NextRegistryNode: next, PrevRegistryNode: prev}
}
