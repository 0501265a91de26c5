// Package codec encodes registry records in the borsh layout used by the
// on-chain slots: fixed 32 byte keys, little-endian u32 length prefixes for
// strings and sequences, and a single byte for booleans.
package codec

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/everFinance/tokenregistry/schema"
)

// MetaSpace is the fixed size of an encoded RegistryMeta.
const MetaSpace = 32 + 8 + 32 + 32 + 32 + 1

const (
	extensionArity = 2
	minStrLen      = 4
)

func EncodeMeta(meta schema.RegistryMeta) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := &writer{enc: bin.NewBorshEncoder(buf)}
	w.key(meta.HeadRegistryNode)
	w.u64(meta.FeeAmount)
	w.key(meta.FeeMint)
	w.key(meta.FeeDestination)
	w.key(meta.FeeUpdateAuthority)
	w.bool(meta.Initialized)
	if w.err != nil {
		return nil, w.err
	}
	return buf.Bytes(), nil
}

func DecodeMeta(data []byte) (meta schema.RegistryMeta, err error) {
	if len(data) < MetaSpace {
		return meta, schema.ErrCodecTruncated
	}
	r := &reader{dec: bin.NewBorshDecoder(data[:MetaSpace])}
	meta.HeadRegistryNode = r.key()
	meta.FeeAmount = r.u64()
	meta.FeeMint = r.key()
	meta.FeeDestination = r.key()
	meta.FeeUpdateAuthority = r.key()
	meta.Initialized = r.bool()
	return meta, r.err
}

// EncodeNode returns the record payload, without the slot length prefix.
func EncodeNode(node schema.RegistryNode) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := &writer{enc: bin.NewBorshEncoder(buf)}
	w.key(node.NextRegistryNode)
	w.key(node.PrevRegistryNode)
	w.key(node.TokenMint)
	w.str(node.TokenSymbol)
	w.str(node.TokenName)
	w.str(node.TokenLogoUrl)
	w.strs(node.TokenTags)
	w.extensions(node.TokenExtensions)
	w.key(node.TokenUpdateAuthority)
	w.bool(node.Deleted)
	if w.err != nil {
		return nil, w.err
	}
	return buf.Bytes(), nil
}

// DecodeNode decodes a record payload. The payload must be consumed exactly.
func DecodeNode(payload []byte) (node schema.RegistryNode, err error) {
	r := &reader{dec: bin.NewBorshDecoder(payload)}
	node.NextRegistryNode = r.key()
	node.PrevRegistryNode = r.key()
	node.TokenMint = r.key()
	node.TokenSymbol = r.str()
	node.TokenName = r.str()
	node.TokenLogoUrl = r.str()
	node.TokenTags = r.strs()
	node.TokenExtensions = r.extensions()
	node.TokenUpdateAuthority = r.key()
	node.Deleted = r.bool()
	if r.err == nil && r.dec.Remaining() != 0 {
		r.err = schema.ErrCodecMalformed
	}
	return node, r.err
}

func EncodeEntryArgs(args schema.EntryArgs) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := &writer{enc: bin.NewBorshEncoder(buf)}
	w.str(args.Symbol)
	w.str(args.Name)
	w.str(args.LogoUrl)
	w.strs(args.Tags)
	w.extensions(args.Extensions)
	if w.err != nil {
		return nil, w.err
	}
	return buf.Bytes(), nil
}

func DecodeEntryArgs(data []byte) (args schema.EntryArgs, err error) {
	r := &reader{dec: bin.NewBorshDecoder(data)}
	args.Symbol = r.str()
	args.Name = r.str()
	args.LogoUrl = r.str()
	args.Tags = r.strs()
	args.Extensions = r.extensions()
	if r.err == nil && r.dec.Remaining() != 0 {
		r.err = schema.ErrCodecMalformed
	}
	return args, r.err
}

// writer keeps the first error so field sequences read top to bottom.
type writer struct {
	enc *bin.Encoder
	err error
}

func (w *writer) key(k solana.PublicKey) {
	if w.err != nil {
		return
	}
	w.err = w.enc.WriteBytes(k[:], false)
}

func (w *writer) u32(v uint32) {
	if w.err != nil {
		return
	}
	w.err = w.enc.WriteUint32(v, binary.LittleEndian)
}

func (w *writer) u64(v uint64) {
	if w.err != nil {
		return
	}
	w.err = w.enc.WriteUint64(v, binary.LittleEndian)
}

func (w *writer) bool(v bool) {
	if w.err != nil {
		return
	}
	w.err = w.enc.WriteBool(v)
}

func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	if w.err != nil {
		return
	}
	w.err = w.enc.WriteBytes([]byte(s), false)
}

func (w *writer) strs(ss []string) {
	w.u32(uint32(len(ss)))
	for _, s := range ss {
		w.str(s)
	}
}

func (w *writer) extensions(exts []schema.Extension) {
	w.u32(uint32(len(exts)))
	for _, ext := range exts {
		w.strs([]string{ext.Key, ext.Value})
	}
}

// reader maps every short read onto ErrCodecMalformed: a prefix that points
// past the end of the buffer.
type reader struct {
	dec *bin.Decoder
	err error
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if n < 0 || r.dec.Remaining() < n {
		r.err = schema.ErrCodecMalformed
		return false
	}
	return true
}

func (r *reader) key() (k solana.PublicKey) {
	if !r.need(solana.PublicKeyLength) {
		return
	}
	b, err := r.dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		r.err = schema.ErrCodecMalformed
		return
	}
	return solana.PublicKeyFromBytes(b)
}

func (r *reader) u32() uint32 {
	if !r.need(4) {
		return 0
	}
	v, err := r.dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		r.err = schema.ErrCodecMalformed
	}
	return v
}

func (r *reader) u64() uint64 {
	if !r.need(8) {
		return 0
	}
	v, err := r.dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		r.err = schema.ErrCodecMalformed
	}
	return v
}

func (r *reader) bool() bool {
	if !r.need(1) {
		return false
	}
	b, err := r.dec.ReadByte()
	if err != nil || b > 1 {
		r.err = schema.ErrCodecMalformed
		return false
	}
	return b == 1
}

func (r *reader) str() string {
	n := r.u32()
	if !r.need(int(n)) {
		return ""
	}
	b, err := r.dec.ReadNBytes(int(n))
	if err != nil || !utf8.Valid(b) {
		r.err = schema.ErrCodecMalformed
		return ""
	}
	return string(b)
}

// count reads a sequence length and rejects counts that cannot fit in the
// remaining bytes given the smallest element size.
func (r *reader) count(minElem int) int {
	n := r.u32()
	if r.err != nil {
		return 0
	}
	if uint64(n)*uint64(minElem) > uint64(r.dec.Remaining()) {
		r.err = schema.ErrCodecMalformed
		return 0
	}
	return int(n)
}

func (r *reader) strs() []string {
	n := r.count(minStrLen)
	if n == 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, r.str())
	}
	return out
}

func (r *reader) extensions() []schema.Extension {
	n := r.count(4 + extensionArity*minStrLen)
	if n == 0 {
		return nil
	}
	out := make([]schema.Extension, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		pair := r.strs()
		if r.err != nil {
			break
		}
		if len(pair) != extensionArity {
			r.err = schema.ErrCodecMalformed
			break
		}
		out = append(out, schema.Extension{Key: pair[0], Value: pair[1]})
	}
	return out
}
