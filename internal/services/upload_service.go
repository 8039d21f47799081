package services

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/infra"
	"linkbio/internal/models/request_models"
	"linkbio/internal/models/response_models"
	"linkbio/pkg/logger"
	"linkbio/pkg/utils"
)

const signedURLTTL = 5 * time.Minute

var mediaContentType = regexp.MustCompile(`^(image|audio|video)/.+$`)

type UploadServiceInterface interface {
	CreateSignedURL(ctx context.Context, userID uuid.UUID, req request_models.SignedURLRequest) (*response_models.SignedURLResponse, error)
}

type UploadService struct {
	presigner infra.Presigner
	publicURL string
	log       *zap.Logger
}

func NewUploadService(presigner infra.Presigner, cfg config.Config, log *zap.Logger) UploadServiceInterface {
	return &UploadService{presigner: presigner, publicURL: cfg.Storage.PublicURL, log: log}
}

// objectName keeps the extension and slugs the rest of the client file name.
func objectName(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	name := slug.Make(strings.TrimSuffix(base, path.Ext(base)))
	if name == "" {
		name = "file"
	}
	return name + ext
}

func (s *UploadService) CreateSignedURL(ctx context.Context, userID uuid.UUID, req request_models.SignedURLRequest) (*response_models.SignedURLResponse, error) {
	if !mediaContentType.MatchString(req.ContentType) {
		return nil, utils.WithMessage(utils.ErrValidation, "Tipo de arquivo não suportado.")
	}

	suffix, err := utils.GenerateSecureToken(8)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s/%s/%s-%s", userID, req.UploadType, suffix, objectName(req.FileName))

	signed, err := s.presigner.PresignPut(ctx, key, req.ContentType, signedURLTTL)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("presign upload failed", zap.String("key", key), zap.Error(err))
		return nil, utils.WithMessage(utils.ErrExternalService, "Não foi possível gerar a URL de upload.")
	}
	return &response_models.SignedURLResponse{
		SignedURL:    signed,
		FinalFileURL: s.publicURL + "/" + key,
	}, nil
}
