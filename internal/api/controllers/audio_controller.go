package controllers

import (
	"github.com/gin-gonic/gin"

	"linkbio/internal/models/request_models"
	"linkbio/internal/services"
	"linkbio/pkg/utils"
)

type AudioController struct {
	audioService services.AudioServiceInterface
}

func NewAudioController(audioService services.AudioServiceInterface) *AudioController {
	return &AudioController{audioService: audioService}
}

func (a *AudioController) ListAudios(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	pageID, ok := uuidParam(c, "pageId", utils.ErrPageNotFound)
	if !ok {
		return
	}

	audios, err := a.audioService.ListByPage(c.Request.Context(), id.UserID, pageID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, audios, "")
}

// CreateAudio is bounded by the plan limit (FREE 1, PREMIUM 4).
func (a *AudioController) CreateAudio(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	pageID, ok := uuidParam(c, "pageId", utils.ErrPageNotFound)
	if !ok {
		return
	}
	var req request_models.CreateAudioRequest
	if !bindJSON(c, &req) {
		return
	}

	audio, err := a.audioService.Create(c.Request.Context(), id.UserID, pageID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, audio, "Áudio adicionado.")
}

func (a *AudioController) UpdateAudio(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	audioID, ok := uuidParam(c, "audioId", utils.ErrAudioNotFound)
	if !ok {
		return
	}
	var patch request_models.AudioPatch
	if !bindJSON(c, &patch) {
		return
	}

	audio, err := a.audioService.Update(c.Request.Context(), id.UserID, audioID, patch)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, audio, "Áudio atualizado.")
}

func (a *AudioController) DeleteAudio(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	audioID, ok := uuidParam(c, "audioId", utils.ErrAudioNotFound)
	if !ok {
		return
	}

	if err := a.audioService.Delete(c.Request.Context(), id.UserID, audioID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Áudio excluído.")
}

func (a *AudioController) ReorderAudios(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	pageID, ok := uuidParam(c, "pageId", utils.ErrPageNotFound)
	if !ok {
		return
	}
	var req request_models.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := a.audioService.Reorder(c.Request.Context(), id.UserID, pageID, req.Items); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Ordem atualizada.")
}

// ActivateAudio makes one audio the page's active track.
func (a *AudioController) ActivateAudio(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	audioID, ok := uuidParam(c, "audioId", utils.ErrAudioNotFound)
	if !ok {
		return
	}

	audio, err := a.audioService.SetActive(c.Request.Context(), id.UserID, audioID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, audio, "Áudio ativado.")
}
