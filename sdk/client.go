package sdk

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/everFinance/tokenregistry/codec"
	"github.com/everFinance/tokenregistry/schema"
	"github.com/gagliardetto/solana-go"
	"gopkg.in/h2non/gentleman.v2"
)

// Client talks to a token registry host.
type Client struct {
	SCli *gentleman.Client
}

func New(url string) *Client {
	return &Client{
		SCli: gentleman.New().URL(url),
	}
}

// SubmitInstruction executes ix unsigned, which only faucet hosts accept.
// Registry errors come back as the matching *schema.RegistryError.
func (c *Client) SubmitInstruction(ix solana.Instruction) (string, error) {
	data, err := ix.Data()
	if err != nil {
		return "", err
	}
	req := schema.ReqTx{Data: hex.EncodeToString(data)}
	for _, meta := range ix.Accounts() {
		req.Accounts = append(req.Accounts, schema.TxAccount{
			Pubkey:     meta.PublicKey.String(),
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		})
	}
	resp := schema.RespTx{}
	err = c.post("/tx", req, &resp)
	return resp.TxId, err
}

// SubmitTransaction executes a signed transaction on the host.
func (c *Client) SubmitTransaction(tx *solana.Transaction) (string, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", err
	}
	resp := schema.RespTx{}
	err = c.post("/tx", schema.ReqTx{Transaction: base64.StdEncoding.EncodeToString(raw)}, &resp)
	return resp.TxId, err
}

func (c *Client) GetInfo() (schema.RespInfo, error) {
	info := schema.RespInfo{}
	err := c.get("/info", &info)
	return info, err
}

func (c *Client) GetAccount(key solana.PublicKey) (schema.RespAccount, error) {
	acc := schema.RespAccount{}
	err := c.get("/account/"+key.String(), &acc)
	return acc, err
}

func (c *Client) GetMeta() (schema.RespMeta, error) {
	meta := schema.RespMeta{}
	err := c.get("/registry/meta", &meta)
	return meta, err
}

func (c *Client) GetEntries() ([]schema.RespEntry, error) {
	entries := make([]schema.RespEntry, 0)
	err := c.get("/registry/entries", &entries)
	return entries, err
}

func (c *Client) GetEntry(mint solana.PublicKey) (schema.RespEntry, error) {
	entry := schema.RespEntry{}
	err := c.get("/registry/entry/"+mint.String(), &entry)
	return entry, err
}

// FirstNode returns the node currently linked right after the head sentinel,
// the first node a CreateEntry must name.
func (c *Client) FirstNode() (solana.PublicKey, error) {
	info, err := c.GetInfo()
	if err != nil {
		return solana.PublicKey{}, err
	}
	headKey, err := solana.PublicKeyFromBase58(info.Head)
	if err != nil {
		return solana.PublicKey{}, err
	}
	acc, err := c.GetAccount(headKey)
	if err != nil {
		return solana.PublicKey{}, err
	}
	head, err := codec.ReadNodeSlot(acc.Data)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return head.NextRegistryNode, nil
}

func (c *Client) Airdrop(key solana.PublicKey, lamports uint64) error {
	return c.post(fmt.Sprintf("/faucet/%s/%d", key, lamports), nil, nil)
}

func (c *Client) CreateMint(mint solana.PublicKey, decimals uint8, authority solana.PublicKey) error {
	return c.post(fmt.Sprintf("/genesis/mint/%s/%d/%s", mint, decimals, authority), nil, nil)
}

func (c *Client) MintTo(mint, wallet solana.PublicKey, amount uint64) error {
	return c.post(fmt.Sprintf("/genesis/mint_to/%s/%s/%d", mint, wallet, amount), nil, nil)
}

func (c *Client) get(path string, out interface{}) error {
	req := c.SCli.Get()
	req.AddPath(path)
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return respError(resp)
	}
	return json.Unmarshal(resp.Bytes(), out)
}

func (c *Client) post(path string, body, out interface{}) error {
	req := c.SCli.Post()
	req.AddPath(path)
	if body != nil {
		req.JSON(body)
	}
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return respError(resp)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Bytes(), out)
}

func respError(resp *gentleman.Response) error {
	re := schema.RespErr{}
	if err := json.Unmarshal(resp.Bytes(), &re); err != nil || re.Err == "" {
		return errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	if re.Code != nil {
		if e := schema.RegistryErrorByCode(*re.Code); e != nil {
			return e
		}
	}
	return errors.New(re.Err)
}
