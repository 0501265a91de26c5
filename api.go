package tokenregistry

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/everFinance/tokenregistry/common"
	"github.com/everFinance/tokenregistry/program"
	"github.com/everFinance/tokenregistry/schema"
)

func (s *TokenRegistry) registerRoutes() {
	r := s.engine
	r.Use(common.CORSMiddleware())
	if s.config.Limit > 0 {
		r.Use(common.LimiterMiddleware(s.config.Limit, s.config.LimitPeriod, nil))
	}
	v1 := r.Group("/")
	{
		v1.POST("/tx", s.submitTx)
		v1.GET("/info", s.getInfo)
		v1.GET("/account/:pubkey", s.getAccount)

		v1.GET("/registry/meta", s.getMeta)
		v1.GET("/registry/entries", s.getEntries)
		v1.GET("/registry/entry/:mint", s.getEntry)

		if s.config.Faucet {
			v1.POST("/faucet/:pubkey/:lamports", s.airdrop)
			v1.POST("/genesis/mint/:mint/:decimals/:authority", s.createMint)
			v1.POST("/genesis/mint_to/:mint/:wallet/:amount", s.mintTo)
		}
	}
}

func (s *TokenRegistry) runAPI(port string) {
	if err := s.engine.Run(port); err != nil {
		panic(err)
	}
}

func (s *TokenRegistry) submitTx(c *gin.Context) {
	req := schema.ReqTx{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	var ixs []solana.Instruction
	switch {
	case req.Transaction != "":
		signed, err := signedInstructions(req.Transaction)
		if err != nil {
			errorResponse(c, err.Error())
			return
		}
		ixs = signed
	case !s.config.Faucet:
		errorResponse(c, ErrUnsignedTransaction.Error())
		return
	default:
		ix, err := unsignedInstruction(s.programID, req)
		if err != nil {
			errorResponse(c, err.Error())
			return
		}
		ixs = []solana.Instruction{ix}
	}

	op := "Unknown"
	if data, err := ixs[0].Data(); err == nil && len(data) > 0 {
		op = program.Opcode(data[0]).String()
	}
	txId, err := s.ledger.Execute(c.Request.Context(), ixs...)
	if err != nil {
		metricInstruction(op, "failed")
		log.Debug("transaction rejected", "op", op, "err", err)
		if re, ok := schema.AsRegistryError(err); ok {
			code := re.Code
			c.JSON(http.StatusBadRequest, schema.RespErr{Err: re.Error(), Code: &code})
			return
		}
		errorResponse(c, err.Error())
		return
	}
	metricInstruction(op, "success")
	if err = s.store.IncTxCount(); err != nil {
		log.Error("s.store.IncTxCount()", "err", err)
	}
	c.JSON(http.StatusOK, schema.RespTx{TxId: txId})
}

func (s *TokenRegistry) getInfo(c *gin.Context) {
	count, err := s.store.TxCount()
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	addrs := s.reader.Addresses()
	c.JSON(http.StatusOK, schema.RespInfo{
		ProgramId: s.programID.String(),
		Meta:      addrs.Meta.String(),
		Head:      addrs.Head.String(),
		Tail:      addrs.Tail.String(),
		TxCount:   count,
	})
}

func (s *TokenRegistry) getAccount(c *gin.Context) {
	key, err := solana.PublicKeyFromBase58(c.Param("pubkey"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	acc, err := s.ledger.GetAccount(key)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, schema.RespAccount{
		Pubkey:     key.String(),
		Owner:      acc.Owner.String(),
		Lamports:   acc.Lamports,
		Data:       acc.Data,
		Executable: acc.Executable,
	})
}

func (s *TokenRegistry) getMeta(c *gin.Context) {
	meta, err := s.reader.Meta()
	if err != nil {
		registryErrorResponse(c, err)
		return
	}
	decimals, err := s.ledger.MintDecimals(meta.FeeMint)
	if err != nil {
		log.Warn("read fee mint decimals failed", "mint", meta.FeeMint, "err", err)
	}
	c.JSON(http.StatusOK, schema.RespMeta{
		HeadRegistryNode:   meta.HeadRegistryNode.String(),
		FeeAmount:          meta.FeeAmount,
		FeeAmountUi:        uiAmount(meta.FeeAmount, decimals).String(),
		FeeDecimals:        decimals,
		FeeMint:            meta.FeeMint.String(),
		FeeDestination:     meta.FeeDestination.String(),
		FeeUpdateAuthority: meta.FeeUpdateAuthority.String(),
		Initialized:        meta.Initialized,
	})
}

func (s *TokenRegistry) getEntries(c *gin.Context) {
	entries, err := s.reader.Entries()
	if err != nil {
		registryErrorResponse(c, err)
		return
	}
	resp := make([]schema.RespEntry, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, entryResponse(e))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *TokenRegistry) getEntry(c *gin.Context) {
	mint, err := solana.PublicKeyFromBase58(c.Param("mint"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	e, err := s.reader.Entry(mint)
	if err != nil {
		registryErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, entryResponse(e))
}

func (s *TokenRegistry) airdrop(c *gin.Context) {
	key, err := solana.PublicKeyFromBase58(c.Param("pubkey"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	lamports, err := strconv.ParseUint(c.Param("lamports"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err = s.ledger.Airdrop(key, lamports); err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, "ok")
}

func (s *TokenRegistry) createMint(c *gin.Context) {
	mint, err := solana.PublicKeyFromBase58(c.Param("mint"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	authority, err := solana.PublicKeyFromBase58(c.Param("authority"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	decimals, err := strconv.ParseUint(c.Param("decimals"), 10, 8)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err = s.ledger.CreateMint(mint, uint8(decimals), authority); err != nil {
		errorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, "ok")
}

func (s *TokenRegistry) mintTo(c *gin.Context) {
	mint, err := solana.PublicKeyFromBase58(c.Param("mint"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	wallet, err := solana.PublicKeyFromBase58(c.Param("wallet"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	amount, err := strconv.ParseUint(c.Param("amount"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	ata, err := s.ledger.MintTo(mint, wallet, amount)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, ata.String())
}

func entryResponse(e Entry) schema.RespEntry {
	tags := e.TokenTags
	if tags == nil {
		tags = []string{}
	}
	exts := e.TokenExtensions
	if exts == nil {
		exts = []schema.Extension{}
	}
	return schema.RespEntry{
		Address:              e.Address.String(),
		Next:                 e.NextRegistryNode.String(),
		Prev:                 e.PrevRegistryNode.String(),
		TokenMint:            e.TokenMint.String(),
		TokenSymbol:          e.TokenSymbol,
		TokenName:            e.TokenName,
		TokenLogoUrl:         e.TokenLogoUrl,
		TokenTags:            tags,
		TokenExtensions:      exts,
		TokenUpdateAuthority: e.TokenUpdateAuthority.String(),
		Deleted:              e.Deleted,
	}
}

func registryErrorResponse(c *gin.Context, err error) {
	if errors.Is(err, ErrNotInitialized) || errors.Is(err, ErrEntryNotFound) {
		c.JSON(http.StatusNotFound, schema.RespErr{Err: err.Error()})
		return
	}
	internalErrorResponse(c, err.Error())
}

func errorResponse(c *gin.Context, err string) {
	// client error
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}
