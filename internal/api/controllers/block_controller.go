package controllers

import (
	"github.com/gin-gonic/gin"

	"linkbio/internal/models/request_models"
	"linkbio/internal/services"
	"linkbio/pkg/utils"
)

type BlockController struct {
	blockService services.BlockServiceInterface
}

func NewBlockController(blockService services.BlockServiceInterface) *BlockController {
	return &BlockController{blockService: blockService}
}

func (b *BlockController) ListBlocks(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	pageID, ok := uuidParam(c, "pageId", utils.ErrPageNotFound)
	if !ok {
		return
	}

	blocks, err := b.blockService.ListByPage(c.Request.Context(), id.UserID, pageID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, blocks, "")
}

func (b *BlockController) CreateBlock(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	pageID, ok := uuidParam(c, "pageId", utils.ErrPageNotFound)
	if !ok {
		return
	}
	var req request_models.CreateBlockRequest
	if !bindJSON(c, &req) {
		return
	}

	block, err := b.blockService.Create(c.Request.Context(), id.UserID, pageID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, block, "Bloco criado.")
}

func (b *BlockController) UpdateBlock(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	blockID, ok := uuidParam(c, "blockId", utils.ErrBlockNotFound)
	if !ok {
		return
	}
	var patch request_models.BlockPatch
	if !bindJSON(c, &patch) {
		return
	}

	block, err := b.blockService.Update(c.Request.Context(), id.UserID, blockID, patch)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, block, "Bloco atualizado.")
}

func (b *BlockController) DeleteBlock(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	blockID, ok := uuidParam(c, "blockId", utils.ErrBlockNotFound)
	if !ok {
		return
	}

	if err := b.blockService.Delete(c.Request.Context(), id.UserID, blockID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Bloco excluído.")
}

func (b *BlockController) ReorderBlocks(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	pageID, ok := uuidParam(c, "pageId", utils.ErrPageNotFound)
	if !ok {
		return
	}
	var req request_models.ReorderBlocksRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := b.blockService.Reorder(c.Request.Context(), id.UserID, pageID, req.Blocks); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Ordem atualizada.")
}
